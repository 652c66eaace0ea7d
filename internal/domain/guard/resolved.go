package guard

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"syscall"
)

// reservedRanges blocks what LiteralRanges lets through: IPv6 loopback,
// unique-local and link-local space, the cloud metadata range and multicast.
var reservedRanges = []netip.Prefix{
	netip.MustParsePrefix("0.0.0.0/8"),      // "this" network
	netip.MustParsePrefix("127.0.0.0/8"),    // IPv4 loopback
	netip.MustParsePrefix("10.0.0.0/8"),     // RFC1918
	netip.MustParsePrefix("172.16.0.0/12"),  // RFC1918
	netip.MustParsePrefix("192.168.0.0/16"), // RFC1918
	netip.MustParsePrefix("100.64.0.0/10"),  // carrier-grade NAT
	netip.MustParsePrefix("169.254.0.0/16"), // link-local, instance metadata
	netip.MustParsePrefix("224.0.0.0/4"),    // IPv4 multicast
	netip.MustParsePrefix("::/128"),         // IPv6 unspecified
	netip.MustParsePrefix("::1/128"),        // IPv6 loopback
	netip.MustParsePrefix("fc00::/7"),       // IPv6 unique local
	netip.MustParsePrefix("fe80::/10"),      // IPv6 link-local
	netip.MustParsePrefix("ff00::/8"),       // IPv6 multicast
}

// IsPrivateOrReservedIP reports whether addr is loopback, private,
// link-local, multicast or unspecified. IPv4-mapped IPv6 addresses are
// unmapped first so ::ffff:127.0.0.1 is treated as 127.0.0.1, and zones are
// dropped because netip.Prefix.Contains never matches a zoned address.
func IsPrivateOrReservedIP(addr netip.Addr) bool {
	if !addr.IsValid() {
		return true
	}
	addr = addr.Unmap().WithZone("")
	for _, prefix := range reservedRanges {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

// Resolver looks up the addresses of a host. *net.Resolver satisfies it.
type Resolver interface {
	LookupNetIP(ctx context.Context, network, host string) ([]netip.Addr, error)
}

// ResolvingGuard applies Evaluate and then checks every address the hostname
// resolves to. IP literals, including IPv6 ones, are checked directly.
type ResolvingGuard struct {
	resolver Resolver
}

// NewResolvingGuard creates a resolving guard. A nil resolver uses
// net.DefaultResolver.
func NewResolvingGuard(resolver Resolver) *ResolvingGuard {
	if resolver == nil {
		resolver = net.DefaultResolver
	}
	return &ResolvingGuard{resolver: resolver}
}

// Check implements the relay's guard port.
//
// A lookup failure is not a denial: the fetch will fail on its own, and
// DialControl still vets whatever address the transport ends up dialing.
func (g *ResolvingGuard) Check(ctx context.Context, target string) Verdict {
	v := Evaluate(target)
	if !v.Allowed {
		return v
	}

	if addr, err := netip.ParseAddr(v.Hostname); err == nil {
		if IsPrivateOrReservedIP(addr) {
			return Deny(v.Hostname, ReasonInternalResource)
		}
		return v
	}

	addrs, err := g.resolver.LookupNetIP(ctx, "ip", v.Hostname)
	if err != nil {
		slog.DebugContext(ctx, "guard lookup failed", "host", v.Hostname, "error", err)
		return v
	}

	for _, addr := range addrs {
		if IsPrivateOrReservedIP(addr) {
			slog.DebugContext(ctx, "hostname resolves to reserved address",
				"host", v.Hostname, "ip", addr.String())
			return Deny(v.Hostname, ReasonInternalResource)
		}
	}
	return v
}

// DialControl is a net.Dialer Control hook that refuses connections to
// private or reserved addresses. It closes the window between the guard's
// lookup and the transport's own lookup.
func DialControl(_, address string, _ syscall.RawConn) error {
	ap, err := netip.ParseAddrPort(address)
	if err != nil {
		return fmt.Errorf("refusing to dial unparseable address %q: %w", address, err)
	}
	if IsPrivateOrReservedIP(ap.Addr()) {
		return fmt.Errorf("refusing to dial reserved address %s", ap.Addr())
	}
	return nil
}
