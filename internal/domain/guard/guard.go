// Package guard decides whether an outbound request to a caller-supplied URL
// is permitted.
//
// The default policy (Evaluate, LiteralGuard) works purely on the text of the
// URL:
//   - only the http and https schemes are accepted
//   - the hostname "localhost" is rejected
//   - hostnames written as dotted-decimal quads inside 127.0.0.0/8,
//     10.0.0.0/8, 172.16.0.0/12 or 192.168.0.0/16 are rejected
//
// Nothing is resolved and IPv6 literals are not inspected, so a target such as
// http://[::1]/ passes the check even though the fetch that follows lands on
// the loopback interface. That gap between validation-time and request-time
// interpretation of the host is what this service exists to demonstrate.
//
// ResolvingGuard is the hardened counterpart used for comparison. It resolves
// names and rejects any private or reserved address family.
package guard

import (
	"context"
	"net/url"
	"strings"
)

// LiteralGuard applies Evaluate. It is the default policy.
type LiteralGuard struct{}

// Check implements the relay's guard port.
func (LiteralGuard) Check(_ context.Context, target string) Verdict {
	return Evaluate(target)
}

// Evaluate returns the verdict for target. It performs no I/O and always
// returns the same verdict for the same input.
func Evaluate(target string) Verdict {
	u, ok := parseTarget(target)
	if !ok {
		return Deny("", ReasonInvalidFormat)
	}

	if u.Scheme != "http" && u.Scheme != "https" {
		return Deny(strings.ToLower(u.Hostname()), ReasonUnsupportedProtocol)
	}

	hostname := strings.ToLower(u.Hostname())
	if hostname == "" {
		return Deny("", ReasonInvalidFormat)
	}

	if hostname == "localhost" || IsLiteralInternalIPv4(hostname) {
		return Deny(hostname, ReasonInternalResource)
	}

	return Allow(hostname)
}

// parseTarget accepts only absolute URLs. url.Parse is lenient and happily
// returns a path-only URL for text like "not a url", so a missing scheme is
// treated as a parse failure.
func parseTarget(target string) (*url.URL, bool) {
	target = strings.TrimSpace(target)
	if target == "" {
		return nil, false
	}

	u, err := url.Parse(target)
	if err != nil || u.Scheme == "" {
		return nil, false
	}
	return u, true
}
