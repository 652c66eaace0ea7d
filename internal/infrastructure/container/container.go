// Package container provides dependency injection for the application.
package container

import (
	"log/slog"
	"net/http"

	apperrors "github.com/reglet-dev/voyage/internal/application/errors"
	"github.com/reglet-dev/voyage/internal/application/ports"
	"github.com/reglet-dev/voyage/internal/application/services"
	"github.com/reglet-dev/voyage/internal/domain/guard"
	"github.com/reglet-dev/voyage/internal/infrastructure/httpapi"
	"github.com/reglet-dev/voyage/internal/infrastructure/httpclient"
	"github.com/reglet-dev/voyage/internal/infrastructure/metrics"
	"github.com/reglet-dev/voyage/internal/infrastructure/secrets"
	"github.com/reglet-dev/voyage/internal/infrastructure/system"
)

// Container holds all application dependencies.
type Container struct {
	guard     ports.Guard
	metrics   *metrics.Metrics
	handler   http.Handler
	systemCfg *system.Config
	logger    *slog.Logger
}

// Options configure the container.
type Options struct {
	Logger *slog.Logger
	Config *system.Config
	// Provider receives the resolved flag so log output can scrub it
	Provider ports.SensitiveValueProvider
	// Secrets overrides the resolver built from Config
	Secrets ports.SecretResolver
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Config == nil {
		opts.Config = system.DefaultConfig()
	}
	systemCfg := opts.Config

	// The flag is read once here and handed to the vault read-only
	resolver := opts.Secrets
	if resolver == nil {
		resolver = secrets.NewResolver(&systemCfg.SensitiveData.Secrets, opts.Provider)
	}
	flag, err := resolver.Resolve(system.FlagSecretName)
	if err != nil {
		return nil, apperrors.NewConfigurationError("secrets", "failed to resolve flag", err)
	}

	mode := systemCfg.Guard.GetGuardMode()
	hostGuard := NewGuard(mode)

	client := httpclient.New(httpclient.Options{
		Timeout:         systemCfg.Relay.Timeout,
		FollowRedirects: systemCfg.Relay.FollowRedirects,
		RestrictDialing: mode == system.GuardModeResolved,
	})

	var (
		m        *metrics.Metrics
		observer ports.RelayObserver
	)
	if systemCfg.Server.MetricsEnabled {
		m = metrics.New()
		observer = m
	}

	relay := services.NewRelay(hostGuard, client, observer, services.RelayConfig{
		UserAgent:         systemCfg.Relay.UserAgent,
		ContentLimit:      systemCfg.Relay.ContentLimit,
		ErrorSnippetLimit: systemCfg.Relay.ErrorSnippetLimit,
	})

	handler, err := httpapi.NewRouter(httpapi.RouterConfig{
		Relay:   relay,
		Metrics: m,
		Flag:    flag,
	})
	if err != nil {
		return nil, apperrors.NewConfigurationError("router", "failed to build router", err)
	}

	opts.Logger.Debug("container ready", "guard_mode", mode, "metrics", m != nil)

	return &Container{
		guard:     hostGuard,
		metrics:   m,
		handler:   handler,
		systemCfg: systemCfg,
		logger:    opts.Logger,
	}, nil
}

// NewGuard returns the hostname guard for mode.
func NewGuard(mode system.GuardMode) ports.Guard {
	if mode == system.GuardModeResolved {
		return guard.NewResolvingGuard(nil)
	}
	return guard.LiteralGuard{}
}

// Guard returns the hostname guard in force.
func (c *Container) Guard() ports.Guard {
	return c.guard
}

// Metrics returns the metric collectors, or nil when metrics are disabled.
func (c *Container) Metrics() *metrics.Metrics {
	return c.metrics
}

// Handler returns the HTTP handler for the whole service.
func (c *Container) Handler() http.Handler {
	return c.handler
}

// Server returns an HTTP server for the configured listen address.
func (c *Container) Server() *httpapi.Server {
	s := c.systemCfg.Server
	return httpapi.NewServer(s.Listen, c.handler, s.ReadHeaderTimeout, s.ShutdownTimeout)
}
