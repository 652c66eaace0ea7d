package guard

// Reason explains why a target was denied.
type Reason string

const (
	// ReasonNone is the reason carried by an allow verdict.
	ReasonNone Reason = ""

	// ReasonInvalidFormat means the target text is not a usable absolute URL.
	ReasonInvalidFormat Reason = "invalid format"

	// ReasonUnsupportedProtocol means the scheme is neither http nor https.
	ReasonUnsupportedProtocol Reason = "unsupported protocol"

	// ReasonInternalResource means the hostname names an internal destination.
	ReasonInternalResource Reason = "internal resource"
)

// Verdict is the outcome of evaluating one target.
// A Verdict is computed per request and never cached.
type Verdict struct {
	// Hostname is the lower-cased hostname as written in the URL, without
	// brackets or port. Empty when the target could not be parsed.
	Hostname string
	Reason   Reason
	Allowed  bool
}

// Allow returns an allow verdict for hostname.
func Allow(hostname string) Verdict {
	return Verdict{Allowed: true, Hostname: hostname}
}

// Deny returns a deny verdict for hostname with the given reason.
func Deny(hostname string, reason Reason) Verdict {
	return Verdict{Hostname: hostname, Reason: reason}
}

// Label returns a short, metric-friendly label for the verdict.
func (v Verdict) Label() string {
	if v.Allowed {
		return "allowed"
	}
	return string(v.Reason)
}
