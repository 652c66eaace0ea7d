// Package sensitivedata keeps secrets such as the vault flag out of log output.
package sensitivedata

import (
	"cmp"
	"slices"
	"sync"
)

// Provider implements ports.SensitiveValueProvider.
// Values are deduplicated and handed out longest first, so a secret that
// contains another tracked secret is scrubbed whole.
type Provider struct {
	seen   map[string]struct{}
	values []string
	mu     sync.RWMutex
}

// NewProvider creates an empty provider.
func NewProvider() *Provider {
	return &Provider{seen: make(map[string]struct{})}
}

// Track registers value for scrubbing. Empty and repeated values are ignored.
func (p *Provider) Track(value string) {
	if value == "" {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, ok := p.seen[value]; ok {
		return
	}
	p.seen[value] = struct{}{}
	p.values = append(p.values, value)
	slices.SortStableFunc(p.values, func(a, b string) int {
		return cmp.Compare(len(b), len(a))
	})
}

// AllValues returns a copy of the tracked values, longest first.
func (p *Provider) AllValues() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return slices.Clone(p.values)
}
