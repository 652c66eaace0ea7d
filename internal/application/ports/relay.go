package ports

import (
	"context"
	"net/http"

	"github.com/reglet-dev/voyage/internal/domain/guard"
)

// Guard decides whether a target URL may be fetched.
// guard.LiteralGuard and *guard.ResolvingGuard implement it.
type Guard interface {
	Check(ctx context.Context, target string) guard.Verdict
}

// HTTPDoer performs a single outbound HTTP request. *http.Client satisfies it.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// RelayObserver receives relay events for instrumentation.
type RelayObserver interface {
	// ObserveVerdict is called once per relay with the guard's verdict.
	ObserveVerdict(v guard.Verdict)

	// ObserveOutcome is called once per relay with its terminal state:
	// "rejected", "responded", "upstream_error" or "network_error".
	ObserveOutcome(outcome string)
}
