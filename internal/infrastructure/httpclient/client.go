// Package httpclient builds the outbound HTTP client used by the relay.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	"github.com/reglet-dev/voyage/internal/domain/guard"
)

// Options configures the outbound client.
type Options struct {
	// Timeout bounds a whole request. Zero disables it.
	Timeout time.Duration

	// FollowRedirects lets the client chase 3xx responses. When off, the
	// first response is returned as-is, so a redirect surfaces as a non-2xx.
	FollowRedirects bool

	// RestrictDialing refuses connections to private or reserved addresses
	// at dial time (guard.DialControl).
	RestrictDialing bool
}

// New returns a client with a pooled transport that is not shared with
// http.DefaultTransport.
func New(opts Options) *http.Client {
	transport := cleanhttp.DefaultPooledTransport()
	transport.TLSClientConfig = &tls.Config{
		MinVersion: tls.VersionTLS12,
	}
	// Proxies from the environment would move the actual hop elsewhere.
	transport.Proxy = nil

	if opts.RestrictDialing {
		dialer := &net.Dialer{
			Timeout:   30 * time.Second,
			KeepAlive: 30 * time.Second,
			Control:   guard.DialControl,
		}
		transport.DialContext = dialer.DialContext
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   opts.Timeout,
	}
	if !opts.FollowRedirects {
		client.CheckRedirect = func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}
	return client
}
