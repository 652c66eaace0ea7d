package guard

import (
	"net/netip"
	"strconv"
	"strings"
)

// LiteralRanges are the IPv4 ranges rejected when written literally in a URL.
var LiteralRanges = []netip.Prefix{
	netip.MustParsePrefix("127.0.0.0/8"),    // loopback
	netip.MustParsePrefix("10.0.0.0/8"),     // RFC1918
	netip.MustParsePrefix("172.16.0.0/12"),  // RFC1918
	netip.MustParsePrefix("192.168.0.0/16"), // RFC1918
}

// IsLiteralInternalIPv4 reports whether host is written as a dotted-decimal
// quad that falls inside one of LiteralRanges.
//
// The match is textual. host must be exactly four groups of one to three ASCII
// digits. The octets that the prefix covers must be written canonically (no
// leading zeros, at most 255); the remaining octets are only checked for
// shape, so "127.999.0.1" matches while "0177.0.0.1", "0x7f.0.0.1",
// "2130706433" and "127.1" do not.
func IsLiteralInternalIPv4(host string) bool {
	groups := strings.Split(host, ".")
	if len(groups) != 4 {
		return false
	}
	for _, g := range groups {
		if !isDigitGroup(g) {
			return false
		}
	}

	for _, prefix := range LiteralRanges {
		if literalPrefixContains(prefix, groups) {
			return true
		}
	}
	return false
}

func literalPrefixContains(prefix netip.Prefix, groups []string) bool {
	significant := (prefix.Bits() + 7) / 8

	var octets [4]byte
	for i := 0; i < significant; i++ {
		v, ok := canonicalOctet(groups[i])
		if !ok {
			return false
		}
		octets[i] = v
	}
	return prefix.Contains(netip.AddrFrom4(octets))
}

func isDigitGroup(g string) bool {
	if len(g) == 0 || len(g) > 3 {
		return false
	}
	for i := 0; i < len(g); i++ {
		if g[i] < '0' || g[i] > '9' {
			return false
		}
	}
	return true
}

func canonicalOctet(g string) (byte, bool) {
	if len(g) > 1 && g[0] == '0' {
		return 0, false
	}
	v, err := strconv.Atoi(g)
	if err != nil || v > 255 {
		return 0, false
	}
	return byte(v), true
}
