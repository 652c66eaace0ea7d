package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"runtime/debug"
)

type errorResponse struct {
	Error string `json:"error"`
}

type fetchResponse struct {
	Content string `json:"content"`
}

type flagResponse struct {
	Flag string `json:"flag"`
}

type statusCoder interface {
	StatusCode() int
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.DebugContext(ctx, "failed to write response", "error", err)
	}
}

// writeError converts err into a JSON error payload. Errors that do not carry
// a status are internal and their text is not exposed. Expected failures are
// logged where they happen, not here.
func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	var coded statusCoder
	if !errors.As(err, &coded) {
		slog.ErrorContext(ctx, "unhandled error", "error", err)
		writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
		return
	}

	writeJSON(ctx, w, bodyStatus(coded.StatusCode()), errorResponse{Error: err.Error()})
}

// bodyStatus returns status unless HTTP forbids a body with it, in which
// case the relayed failure is reported as 502 so the JSON error survives.
func bodyStatus(status int) int {
	if status < 200 || status == http.StatusNoContent || status == http.StatusNotModified {
		return http.StatusBadGateway
	}
	return status
}

// recoverer turns a panic in a handler into a JSON 500. http.ErrAbortHandler
// is re-raised so net/http can abort the connection.
func recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared as panic value
				panic(rec)
			}
			slog.ErrorContext(r.Context(), "handler panicked",
				"panic", rec, "stack", string(debug.Stack()))
			writeJSON(r.Context(), w, http.StatusInternalServerError,
				errorResponse{Error: http.StatusText(http.StatusInternalServerError)})
		}()
		next.ServeHTTP(w, r)
	})
}
