// Package system provides infrastructure for system-level configuration.
// This includes loading the service config file (voyage.yaml) and applying
// defaults for anything it leaves out.
package system

import (
	"fmt"
	"os"
	"time"

	"github.com/goccy/go-yaml"
)

// FlagSecretName is the secret the flag vault serves.
const FlagSecretName = "flag"

// DefaultFlag is served when no flag is configured.
const DefaultFlag = "CTF{D3f4ult_Fl4g_N0t_S3t}"

// Config represents the service configuration file.
type Config struct {
	SensitiveData SensitiveDataConfig `yaml:"sensitive_data"`
	Redaction     RedactionConfig     `yaml:"redaction"`
	Guard         GuardConfig         `yaml:"guard"`
	Server        ServerConfig        `yaml:"server"`
	Relay         RelayConfig         `yaml:"relay"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Listen            string        `yaml:"listen"`
	ReadHeaderTimeout time.Duration `yaml:"read_header_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	MetricsEnabled    bool          `yaml:"metrics_enabled"`
}

// RelayConfig configures outbound fetches.
type RelayConfig struct {
	UserAgent string `yaml:"user_agent"`

	// Timeout bounds a whole outbound request. Zero means no timeout, which
	// leaves a slow target free to hold the handler indefinitely.
	Timeout time.Duration `yaml:"timeout"`

	ContentLimit      int  `yaml:"content_limit"`
	ErrorSnippetLimit int  `yaml:"error_snippet_limit"`
	FollowRedirects   bool `yaml:"follow_redirects"`
}

// GuardConfig selects the hostname policy.
type GuardConfig struct {
	// Mode is "literal" (default) or "resolved".
	// - literal: textual scheme and hostname checks only
	// - resolved: literal checks plus DNS resolution and dial-time checks
	Mode string `yaml:"mode"`
}

// GuardMode represents the hostname policy in force.
type GuardMode string

const (
	// GuardModeLiteral checks the URL text only (default).
	GuardModeLiteral GuardMode = "literal"

	// GuardModeResolved also vets resolved and dialed addresses.
	GuardModeResolved GuardMode = "resolved"
)

// GetGuardMode returns the configured guard mode, defaulting to literal.
func (c *GuardConfig) GetGuardMode() GuardMode {
	switch c.Mode {
	case "resolved":
		return GuardModeResolved
	default:
		return GuardModeLiteral
	}
}

// SensitiveDataConfig configures secret resolution and protection.
type SensitiveDataConfig struct {
	Secrets SecretsConfig `yaml:"secrets"`
}

// SecretsConfig configures secret resolution sources.
type SecretsConfig struct {
	// Local defines static secrets for development (name -> value)
	Local map[string]string `yaml:"local"`

	// Env defines environment variable mappings (secret_name -> env_var_name)
	Env map[string]string `yaml:"env"`

	// Files defines file path mappings (secret_name -> file_path)
	Files map[string]string `yaml:"files"`

	// Fallback defines values used when no other source yields one
	Fallback map[string]string `yaml:"fallback"`
}

// RedactionConfig configures how sensitive data is scrubbed from logs.
type RedactionConfig struct {
	HashMode        HashModeConfig `yaml:"hash_mode"`
	Patterns        []string       `yaml:"patterns"`
	DisableGitleaks bool           `yaml:"disable_gitleaks"`
}

// HashModeConfig controls hash-based redaction.
type HashModeConfig struct {
	Salt    string `yaml:"salt"`
	Enabled bool   `yaml:"enabled"`
}

// ConfigLoader loads system configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new system config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultConfig returns a Config with the demonstration defaults.
// This is used when no config file exists.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen:            ":3000",
			ReadHeaderTimeout: 10 * time.Second,
			ShutdownTimeout:   15 * time.Second,
			MetricsEnabled:    true,
		},
		Relay: RelayConfig{
			UserAgent:         "Voyage/1.0",
			Timeout:           0,
			ContentLimit:      1000,
			ErrorSnippetLimit: 100,
			FollowRedirects:   false,
		},
		Guard: GuardConfig{
			Mode: string(GuardModeLiteral),
		},
		SensitiveData: SensitiveDataConfig{
			Secrets: SecretsConfig{
				Local: make(map[string]string),
				Env: map[string]string{
					FlagSecretName: "CTF_FLAG",
				},
				Files: make(map[string]string),
				Fallback: map[string]string{
					FlagSecretName: DefaultFlag,
				},
			},
		},
		Redaction: RedactionConfig{
			Patterns: []string{},
		},
	}
}

// Load loads the system configuration from the specified path, layered over
// DefaultConfig(). If the file does not exist, the defaults are returned.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	//nolint:gosec // G304: path is the operator-provided config file
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	if c.Server.Listen == "" {
		return fmt.Errorf("server.listen must not be empty")
	}
	if c.Relay.Timeout < 0 {
		return fmt.Errorf("relay.timeout must not be negative")
	}
	if c.Relay.ContentLimit < 0 || c.Relay.ErrorSnippetLimit < 0 {
		return fmt.Errorf("relay limits must not be negative")
	}
	switch c.Guard.Mode {
	case "", string(GuardModeLiteral), string(GuardModeResolved):
	default:
		return fmt.Errorf("guard.mode %q is not one of literal, resolved", c.Guard.Mode)
	}
	return nil
}
