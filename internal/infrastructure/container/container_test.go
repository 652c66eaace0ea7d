package container

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "github.com/reglet-dev/voyage/internal/application/errors"
	"github.com/reglet-dev/voyage/internal/domain/guard"
	"github.com/reglet-dev/voyage/internal/infrastructure/sensitivedata"
	"github.com/reglet-dev/voyage/internal/infrastructure/system"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_ServesFlagFromEnvironment(t *testing.T) {
	t.Setenv("CTF_FLAG", "CTF{from_env}")
	provider := sensitivedata.NewProvider()

	c, err := New(Options{Config: system.DefaultConfig(), Provider: provider})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flag-vault", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"flag":"CTF{from_env}"}`, rec.Body.String())
	assert.Contains(t, provider.AllValues(), "CTF{from_env}")
}

func TestNew_FallbackFlag(t *testing.T) {
	t.Setenv("CTF_FLAG", "")

	c, err := New(Options{})
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flag-vault", nil))

	assert.JSONEq(t, `{"flag":"`+system.DefaultFlag+`"}`, rec.Body.String())
}

func TestNew_MetricsToggle(t *testing.T) {
	tests := []struct {
		name    string
		enabled bool
		want    int
	}{
		{name: "enabled", enabled: true, want: http.StatusOK},
		{name: "disabled", enabled: false, want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := system.DefaultConfig()
			cfg.Server.MetricsEnabled = tt.enabled

			c, err := New(Options{Config: cfg})
			require.NoError(t, err)
			assert.Equal(t, tt.enabled, c.Metrics() != nil)

			rec := httptest.NewRecorder()
			c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestNew_GuardModeReachesRelay(t *testing.T) {
	tests := []struct {
		name       string
		mode       system.GuardMode
		wantStatus int
	}{
		// Literal mode lets [::1] through to the network; nothing listens on
		// port 1, so the relay reports a network error.
		{name: "literal", mode: system.GuardModeLiteral, wantStatus: http.StatusInternalServerError},
		{name: "resolved", mode: system.GuardModeResolved, wantStatus: http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := system.DefaultConfig()
			cfg.Guard.Mode = string(tt.mode)

			c, err := New(Options{Config: cfg})
			require.NoError(t, err)

			body := strings.NewReader(`{"url":"http://[::1]:1/api/flag-vault"}`)
			req := httptest.NewRequest(http.MethodPost, "/api/fetch-url", body)
			req.Header.Set("Content-Type", "application/json")
			rec := httptest.NewRecorder()
			c.Handler().ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}

func TestNewGuard(t *testing.T) {
	ctx := context.Background()

	literal := NewGuard(system.GuardModeLiteral)
	assert.IsType(t, guard.LiteralGuard{}, literal)
	assert.True(t, literal.Check(ctx, "http://[::1]/").Allowed)

	resolved := NewGuard(system.GuardModeResolved)
	assert.IsType(t, &guard.ResolvingGuard{}, resolved)
	assert.False(t, resolved.Check(ctx, "http://[::1]/").Allowed)
}

func TestContainer_Server(t *testing.T) {
	c, err := New(Options{})
	require.NoError(t, err)
	assert.NotNil(t, c.Server())
	assert.NotNil(t, c.Guard())
}

type stubSecrets struct {
	values map[string]string
	names  []string
}

func (s *stubSecrets) Resolve(name string) (string, error) {
	s.names = append(s.names, name)
	v, ok := s.values[name]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func TestNew_UsesInjectedSecretResolver(t *testing.T) {
	stub := &stubSecrets{values: map[string]string{system.FlagSecretName: "CTF{injected}"}}

	c, err := New(Options{Secrets: stub})
	require.NoError(t, err)
	assert.Equal(t, []string{system.FlagSecretName}, stub.names)

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/flag-vault", nil))
	assert.JSONEq(t, `{"flag":"CTF{injected}"}`, rec.Body.String())
}

func TestNew_SecretResolutionFailure(t *testing.T) {
	_, err := New(Options{Secrets: &stubSecrets{}})
	require.Error(t, err)

	var cfgErr *apperrors.ConfigurationError
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, "secrets", cfgErr.Aspect)
}
