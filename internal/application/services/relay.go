package services

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	apperrors "github.com/reglet-dev/voyage/internal/application/errors"
	"github.com/reglet-dev/voyage/internal/application/ports"
	"github.com/reglet-dev/voyage/internal/domain/content"
	"github.com/reglet-dev/voyage/internal/domain/guard"
)

// Relay outcomes reported to the observer.
const (
	OutcomeRejected      = "rejected"
	OutcomeResponded     = "responded"
	OutcomeUpstreamError = "upstream_error"
	OutcomeNetworkError  = "network_error"
)

// DefaultUserAgent is sent on every outbound request.
const DefaultUserAgent = "Voyage/1.0"

// RelayConfig controls body shaping for relayed responses.
type RelayConfig struct {
	UserAgent         string
	ContentLimit      int // characters of a 2xx body returned to the caller
	ErrorSnippetLimit int // characters of a non-2xx body quoted in the error
}

// DefaultRelayConfig returns the standard limits.
func DefaultRelayConfig() RelayConfig {
	return RelayConfig{
		UserAgent:         DefaultUserAgent,
		ContentLimit:      content.DefaultContentLimit,
		ErrorSnippetLimit: content.DefaultErrorSnippetLimit,
	}
}

// RelayResult is a successful relay.
type RelayResult struct {
	Content string `json:"content"`
	Status  int    `json:"-"`
}

// Relay fetches caller-supplied URLs on the caller's behalf.
//
// Every call runs the guard first. A denial returns immediately without
// touching the network; an approval issues exactly one GET to the target as
// written. Redirects are whatever the injected client does with them, and
// there are no retries.
type Relay struct {
	guard    ports.Guard
	client   ports.HTTPDoer
	observer ports.RelayObserver
	config   RelayConfig
}

// NewRelay creates a relay. A nil observer discards events.
func NewRelay(g ports.Guard, client ports.HTTPDoer, observer ports.RelayObserver, cfg RelayConfig) *Relay {
	if observer == nil {
		observer = nopObserver{}
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultUserAgent
	}
	return &Relay{
		guard:    g,
		client:   client,
		observer: observer,
		config:   cfg,
	}
}

// Relay runs target through the guard and, if allowed, fetches it.
//
// Errors are one of *apperrors.InputError, *apperrors.PolicyError,
// *apperrors.UpstreamError or *apperrors.TransportError.
func (r *Relay) Relay(ctx context.Context, target string) (*RelayResult, error) {
	verdict := r.guard.Check(ctx, target)
	r.observer.ObserveVerdict(verdict)

	if !verdict.Allowed {
		slog.InfoContext(ctx, "target rejected by guard",
			"host", verdict.Hostname, "reason", string(verdict.Reason))
		r.observer.ObserveOutcome(OutcomeRejected)
		return nil, denialError(verdict)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimSpace(target), nil)
	if err != nil {
		r.observer.ObserveOutcome(OutcomeRejected)
		return nil, apperrors.NewInputError(apperrors.MsgInvalidURLFormat)
	}
	req.Header.Set("User-Agent", r.config.UserAgent)

	slog.DebugContext(ctx, "relaying request", "host", verdict.Hostname)

	resp, err := r.client.Do(req)
	if err != nil {
		slog.WarnContext(ctx, "relay transport failure", "host", verdict.Hostname, "error", err)
		r.observer.ObserveOutcome(OutcomeNetworkError)
		return nil, apperrors.NewTransportError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// A body that cannot be read just leaves the snippet off.
		var snippet string
		if body, readErr := io.ReadAll(resp.Body); readErr == nil {
			snippet = content.Truncate(string(body), r.config.ErrorSnippetLimit)
		}
		slog.InfoContext(ctx, "target returned non-success status",
			"host", verdict.Hostname, "status", resp.StatusCode)
		r.observer.ObserveOutcome(OutcomeUpstreamError)
		return nil, apperrors.NewUpstreamError(resp.StatusCode, reasonPhrase(resp), snippet)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		r.observer.ObserveOutcome(OutcomeNetworkError)
		return nil, apperrors.NewTransportError(err)
	}

	r.observer.ObserveOutcome(OutcomeResponded)
	return &RelayResult{
		Status:  http.StatusOK,
		Content: content.Truncate(string(body), r.config.ContentLimit),
	}, nil
}

func denialError(v guard.Verdict) error {
	switch v.Reason {
	case guard.ReasonUnsupportedProtocol:
		return apperrors.NewPolicyError(string(v.Reason), apperrors.MsgUnsupportedProtocol, http.StatusBadRequest)
	case guard.ReasonInternalResource:
		return apperrors.NewPolicyError(string(v.Reason), apperrors.MsgInternalResource, http.StatusForbidden)
	default:
		return apperrors.NewInputError(apperrors.MsgInvalidURLFormat)
	}
}

// reasonPhrase extracts "Not Found" from "404 Not Found".
func reasonPhrase(resp *http.Response) string {
	phrase := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if phrase == "" {
		phrase = http.StatusText(resp.StatusCode)
	}
	return phrase
}

type nopObserver struct{}

func (nopObserver) ObserveVerdict(guard.Verdict) {}
func (nopObserver) ObserveOutcome(string)        {}
