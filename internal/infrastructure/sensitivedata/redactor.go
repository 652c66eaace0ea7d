package sensitivedata

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"

	"github.com/reglet-dev/voyage/internal/application/ports"
	"github.com/spf13/viper"
	"github.com/zricethezav/gitleaks/v8/config"
	"github.com/zricethezav/gitleaks/v8/detect"
)

const redactedMarker = "[REDACTED]"

// Redactor scrubs sensitive data from strings.
// All fields are read-only after construction, making it safe for concurrent use.
type Redactor struct {
	// Values tracked at runtime (resolved secrets), matched literally
	provider ports.SensitiveValueProvider

	// If nil, only tracked values and regex patterns apply
	gitleaksDetector *detect.Detector

	salt     string
	patterns []*regexp.Regexp
	hashMode bool
}

// Config holds the configuration for the Redactor.
type Config struct {
	// Provider supplies literal values to scrub, typically resolved secrets
	Provider ports.SensitiveValueProvider
	// If true, replace with hash instead of [REDACTED]
	HashMode bool
	// Salt for hashing. If empty, hash is deterministic but unsalted.
	Salt string
	// Custom patterns to redact (e.g. "CTF\\{[^}]+\\}")
	Patterns []string
	// If true, skip the gitleaks rule set and use only the patterns above
	DisableGitleaks bool
}

// New creates a new Redactor with the given configuration.
func New(cfg Config) (*Redactor, error) {
	r := &Redactor{
		provider: cfg.Provider,
		hashMode: cfg.HashMode,
		salt:     cfg.Salt,
		patterns: make([]*regexp.Regexp, 0, len(cfg.Patterns)+len(defaultPatterns)),
	}

	if !cfg.DisableGitleaks {
		detector, err := newGitleaksDetector()
		if err != nil {
			return nil, err
		}
		r.gitleaksDetector = detector
	}

	for _, p := range defaultPatterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile default pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	for _, p := range cfg.Patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to compile custom pattern %s: %w", p, err)
		}
		r.patterns = append(r.patterns, re)
	}

	return r, nil
}

// newGitleaksDetector creates a gitleaks detector with the default rule set.
func newGitleaksDetector() (*detect.Detector, error) {
	v := viper.New()
	v.SetConfigType("toml")
	if err := v.ReadConfig(strings.NewReader(config.DefaultConfig)); err != nil {
		return nil, fmt.Errorf("failed to read gitleaks config: %w", err)
	}

	var vc config.ViperConfig
	if err := v.Unmarshal(&vc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal gitleaks config: %w", err)
	}

	cfg, err := vc.Translate()
	if err != nil {
		return nil, fmt.Errorf("failed to translate gitleaks config: %w", err)
	}

	return detect.NewDetector(cfg), nil
}

// ScrubString replaces sensitive content in input: tracked values first,
// then gitleaks findings, then regex patterns.
func (r *Redactor) ScrubString(input string) string {
	if input == "" {
		return ""
	}

	result := input

	if r.provider != nil {
		for _, value := range r.provider.AllValues() {
			if strings.Contains(result, value) {
				result = strings.ReplaceAll(result, value, r.replacement(value))
			}
		}
	}

	if r.gitleaksDetector != nil {
		findings := r.gitleaksDetector.Detect(detect.Fragment{Raw: result})
		for _, finding := range findings {
			if finding.Secret == "" {
				continue
			}
			result = strings.ReplaceAll(result, finding.Secret, r.replacement(finding.Secret))
		}
	}

	for _, re := range r.patterns {
		result = re.ReplaceAllStringFunc(result, r.replacement)
	}

	return result
}

func (r *Redactor) replacement(secret string) string {
	if r.hashMode {
		return r.hash(secret)
	}
	return redactedMarker
}

// hash returns a truncated HMAC-SHA256 hash of the secret.
// Format: [hmac:a1b2c3d4e5f6g7h8]
func (r *Redactor) hash(secret string) string {
	mac := hmac.New(sha256.New, []byte(r.salt))
	mac.Write([]byte(secret))
	sum := mac.Sum(nil)

	return fmt.Sprintf("[hmac:%s]", hex.EncodeToString(sum)[:16])
}

// defaultPatterns contains regexes for common secrets.
var defaultPatterns = []string{
	// AWS Access Key ID
	`\b((?:AKIA|ABIA|ACCA|ASIA)[0-9A-Z]{16})\b`,
	// Generic Private Key Header
	`-----BEGIN [A-Z ]+ PRIVATE KEY-----`,
	// Github Token
	`gh[pousr]_[A-Za-z0-9_]{36,255}`,
	// Slack Token
	`xox[baprs]-([0-9a-zA-Z]{10,48})?`,
}
