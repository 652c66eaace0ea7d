// Package secrets resolves named secrets, such as the vault flag, from
// configuration, the environment and files.
package secrets

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/reglet-dev/voyage/internal/application/ports"
	"github.com/reglet-dev/voyage/internal/infrastructure/system"
)

// Source names where a secret value came from.
type Source string

// Sources in lookup order.
const (
	SourceLocal    Source = "local"
	SourceEnv      Source = "env"
	SourceFile     Source = "file"
	SourceFallback Source = "fallback"
)

var _ ports.SecretResolver = (*Resolver)(nil)

type resolved struct {
	value  string
	source Source
}

// Resolver implements ports.SecretResolver.
// Each secret is looked up once; the value is cached and tracked for redaction.
type Resolver struct {
	config   *system.SecretsConfig
	provider ports.SensitiveValueProvider
	cache    map[string]resolved
	mu       sync.Mutex
}

// NewResolver creates a new secret resolver. provider may be nil.
func NewResolver(config *system.SecretsConfig, provider ports.SensitiveValueProvider) *Resolver {
	return &Resolver{
		config:   config,
		provider: provider,
		cache:    make(map[string]resolved),
	}
}

// Resolve returns the secret value by name.
func (r *Resolver) Resolve(name string) (string, error) {
	value, _, err := r.ResolveWithSource(name)
	return value, err
}

// ResolveWithSource returns the secret value and the source that supplied it.
// Sources are tried in order: local, env, file, fallback. An env mapping whose
// variable is unset or empty falls through to the next source.
func (r *Resolver) ResolveWithSource(name string) (string, Source, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if hit, ok := r.cache[name]; ok {
		return hit.value, hit.source, nil
	}

	hit, err := r.lookup(name)
	if err != nil {
		return "", "", err
	}

	r.cache[name] = hit
	if r.provider != nil {
		r.provider.Track(hit.value)
	}
	if hit.source == SourceFallback {
		slog.Warn("secret not configured, using fallback value", "secret", name)
	} else {
		slog.Debug("secret resolved", "secret", name, "source", hit.source)
	}
	return hit.value, hit.source, nil
}

func (r *Resolver) lookup(name string) (resolved, error) {
	if r.config == nil {
		return resolved{}, fmt.Errorf("secret %q: secrets config not present", name)
	}

	if value, ok := r.config.Local[name]; ok {
		return resolved{value, SourceLocal}, nil
	}

	if envVar, ok := r.config.Env[name]; ok {
		if value := os.Getenv(envVar); value != "" {
			return resolved{value, SourceEnv}, nil
		}
	}

	if path, ok := r.config.Files[name]; ok {
		value, err := readSecretFile(name, path)
		if err != nil {
			return resolved{}, err
		}
		return resolved{value, SourceFile}, nil
	}

	if value, ok := r.config.Fallback[name]; ok {
		return resolved{value, SourceFallback}, nil
	}

	return resolved{}, fmt.Errorf("secret %q not found in local, env, files or fallback", name)
}

// readSecretFile reads path through an os.Root so the name cannot escape its
// directory.
func readSecretFile(name, path string) (string, error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	root, err := os.OpenRoot(dir)
	if err != nil {
		return "", fmt.Errorf("secret %q: failed to open directory %q: %w", name, dir, err)
	}
	defer func() { _ = root.Close() }()

	f, err := root.Open(base)
	if err != nil {
		return "", fmt.Errorf("secret %q: failed to open file %q: %w", name, base, err)
	}
	defer func() { _ = f.Close() }()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("secret %q: reading file %q: %w", name, path, err)
	}
	return strings.TrimSpace(string(data)), nil
}
