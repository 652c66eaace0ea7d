package guard

import (
	"context"
	"errors"
	"net/netip"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	addrs map[string][]netip.Addr
	calls int
}

func (r *fakeResolver) LookupNetIP(_ context.Context, _, host string) ([]netip.Addr, error) {
	r.calls++
	addrs, ok := r.addrs[host]
	if !ok {
		return nil, errors.New("no such host")
	}
	return addrs, nil
}

func TestIsPrivateOrReservedIP(t *testing.T) {
	tests := []struct {
		ip   string
		want bool
	}{
		{"127.0.0.1", true},
		{"10.0.0.1", true},
		{"172.16.0.1", true},
		{"192.168.1.1", true},
		{"169.254.169.254", true},
		{"100.64.0.1", true},
		{"0.0.0.0", true},
		{"224.0.0.1", true},
		{"::", true},
		{"::1", true},
		{"::ffff:127.0.0.1", true},
		{"::ffff:169.254.169.254", true},
		{"fc00::1", true},
		{"fd12:3456::1", true},
		{"fe80::1", true},
		{"ff02::1", true},
		{"::1%lo", true},
		{"fe80::1%eth0", true},
		{"fd00::1%eth0", true},

		{"8.8.8.8", false},
		{"1.1.1.1", false},
		{"::ffff:8.8.8.8", false},
		{"2001:4860:4860::8888", false},
	}

	for _, tt := range tests {
		t.Run(tt.ip, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPrivateOrReservedIP(netip.MustParseAddr(tt.ip)))
		})
	}

	assert.True(t, IsPrivateOrReservedIP(netip.Addr{}), "zero address must be treated as reserved")
}

func TestResolvingGuard_Check(t *testing.T) {
	resolver := &fakeResolver{addrs: map[string][]netip.Addr{
		"example.com":      {netip.MustParseAddr("93.184.216.34")},
		"internal.example": {netip.MustParseAddr("93.184.216.34"), netip.MustParseAddr("10.0.0.7")},
		"v6loop.example":   {netip.MustParseAddr("::1")},
	}}
	g := NewResolvingGuard(resolver)
	ctx := context.Background()

	tests := []struct {
		name    string
		target  string
		allowed bool
		reason  Reason
	}{
		{"public name", "http://example.com/", true, ReasonNone},
		{"ipv6 loopback literal", "http://[::1]:3000/api/flag-vault", false, ReasonInternalResource},
		{"ipv4 mapped literal", "http://[::ffff:127.0.0.1]/", false, ReasonInternalResource},
		{"zoned ipv6 loopback literal", "http://[::1%25lo]:3000/api/flag-vault", false, ReasonInternalResource},
		{"zoned link-local literal", "http://[fe80::1%25eth0]/", false, ReasonInternalResource},
		{"name resolving to private", "http://internal.example/", false, ReasonInternalResource},
		{"name resolving to ipv6 loopback", "http://v6loop.example/", false, ReasonInternalResource},
		{"literal checks still apply", "http://localhost/", false, ReasonInternalResource},
		{"scheme checks still apply", "ftp://example.com/", false, ReasonUnsupportedProtocol},
		{"unresolvable name left to transport", "http://missing.example/", true, ReasonNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := g.Check(ctx, tt.target)
			assert.Equal(t, tt.allowed, v.Allowed)
			assert.Equal(t, tt.reason, v.Reason)
		})
	}
}

func TestResolvingGuard_SkipsLookupForLiterals(t *testing.T) {
	resolver := &fakeResolver{}
	g := NewResolvingGuard(resolver)

	g.Check(context.Background(), "http://93.184.216.34/")
	g.Check(context.Background(), "http://[2001:db8::1]/")
	g.Check(context.Background(), "not a url")

	assert.Zero(t, resolver.calls)
}

func TestDialControl(t *testing.T) {
	require.NoError(t, DialControl("tcp", "93.184.216.34:80", nil))
	require.NoError(t, DialControl("tcp6", "[2001:4860:4860::8888]:443", nil))

	assert.Error(t, DialControl("tcp6", "[::1]:3000", nil))
	assert.Error(t, DialControl("tcp6", "[::1%lo]:3000", nil))
	assert.Error(t, DialControl("tcp6", "[fe80::1%eth0]:80", nil))
	assert.Error(t, DialControl("tcp", "127.0.0.1:80", nil))
	assert.Error(t, DialControl("tcp", "not-an-address", nil))
}
