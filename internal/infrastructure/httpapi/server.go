// Package httpapi exposes the relay and the flag vault over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/reglet-dev/voyage/internal/infrastructure/logging"
	"github.com/reglet-dev/voyage/internal/infrastructure/metrics"
	"golang.org/x/sync/errgroup"
)

// RequestIDHeader carries the per-request ID on responses.
const RequestIDHeader = "X-Request-ID"

// RouterConfig wires the router's dependencies.
type RouterConfig struct {
	Relay Relayer

	// Metrics is optional. When nil, no instrumentation or /metrics route.
	Metrics *metrics.Metrics

	// Flag is served verbatim by the vault.
	Flag string
}

// NewRouter builds the HTTP handler tree.
func NewRouter(cfg RouterConfig) (http.Handler, error) {
	if cfg.Relay == nil {
		return nil, fmt.Errorf("relay is required")
	}

	schema, err := compileFetchSchema()
	if err != nil {
		return nil, err
	}

	h := &handlers{
		relay:       cfg.Relay,
		fetchSchema: schema,
		flag:        cfg.Flag,
	}

	r := chi.NewRouter()
	r.Use(requestContext)
	r.Use(recoverer)
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	r.Get("/", h.index)
	r.Get("/healthz", h.healthz)
	r.Post("/api/fetch-url", h.fetchURL)
	r.Get("/api/flag-vault", h.flagVault)

	return r, nil
}

// requestContext assigns a request ID and logs each completed request.
func requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		ctx := logging.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()

		next.ServeHTTP(ww, r.WithContext(ctx))

		slog.InfoContext(ctx, "request completed",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// Server runs the HTTP listener until its context is cancelled.
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
}

// NewServer creates a server for handler.
func NewServer(addr string, handler http.Handler, readHeaderTimeout, shutdownTimeout time.Duration) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		shutdownTimeout: shutdownTimeout,
	}
}

// Run listens on the configured address and serves until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		slog.Info("listening", "addr", ln.Addr().String())
		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		slog.Info("shutting down")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})

	return g.Wait()
}
