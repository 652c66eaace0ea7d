// Package content holds the body shaping rules applied to relayed responses.
package content

// Default limits for relayed bodies, in characters.
const (
	DefaultContentLimit      = 1000
	DefaultErrorSnippetLimit = 100
)

// Truncate returns at most limit characters (runes) of s. A limit of zero or
// less disables truncation. Invalid UTF-8 bytes count as one character each
// and are preserved as-is.
//
// Truncation is silent: callers get no indication that anything was cut.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}

	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
