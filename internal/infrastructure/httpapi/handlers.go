package httpapi

import (
	"context"
	_ "embed"
	"net/http"

	apperrors "github.com/reglet-dev/voyage/internal/application/errors"
	"github.com/reglet-dev/voyage/internal/application/services"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed web/index.html
var indexHTML []byte

// Relayer fetches a target on the caller's behalf.
type Relayer interface {
	Relay(ctx context.Context, target string) (*services.RelayResult, error)
}

type handlers struct {
	relay       Relayer
	fetchSchema *jsonschema.Schema
	flag        string
}

// fetchURL handles POST /api/fetch-url.
func (h *handlers) fetchURL(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	target, err := decodeFetchRequest(h.fetchSchema, http.MaxBytesReader(w, r.Body, maxRequestBody))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.relay.Relay(ctx, target)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	writeJSON(ctx, w, result.Status, fetchResponse{Content: result.Content})
}

// flagVault handles GET /api/flag-vault. It has no access control of its own;
// only network placement keeps it private.
func (h *handlers) flagVault(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, flagResponse{Flag: h.flag})
}

func (h *handlers) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *handlers) index(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(indexHTML)
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(r.Context(), w, apperrors.NewMethodNotAllowedError())
}

func notFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusNotFound, errorResponse{Error: http.StatusText(http.StatusNotFound)})
}
