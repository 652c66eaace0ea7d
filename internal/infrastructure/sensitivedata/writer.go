package sensitivedata

import (
	"io"
	"sync"
)

// Scrubber rewrites text with sensitive content removed.
type Scrubber interface {
	ScrubString(input string) string
}

// Writer scrubs everything written through it. slog handlers emit one record
// per Write, so a secret never straddles two calls.
type Writer struct {
	out      io.Writer
	scrubber Scrubber
	mu       sync.Mutex
}

// NewWriter wraps out. A nil scrubber passes data through unchanged.
func NewWriter(out io.Writer, s Scrubber) *Writer {
	return &Writer{out: out, scrubber: s}
}

// Write scrubs p and writes the result. It reports len(p) on success even
// when scrubbing changed the length, so callers never see a short write.
func (w *Writer) Write(p []byte) (int, error) {
	data := p
	if w.scrubber != nil {
		data = []byte(w.scrubber.ScrubString(string(p)))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.out.Write(data); err != nil {
		return 0, err
	}
	return len(p), nil
}
