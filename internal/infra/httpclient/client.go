// Package httpclient builds the pooled HTTP client shared by gateway SDKs.
package httpclient

import (
	"net"
	"net/http"

	"github.com/uniedit/payrecon/internal/infra/config"
)

// UserAgent identifies outbound gateway calls.
const UserAgent = "payrecon/1.0"

// New creates an HTTP client with pooling and timeouts from cfg. Requests
// without a User-Agent get UserAgent.
func New(cfg config.HTTPClientConfig) *http.Client {
	return &http.Client{
		Transport: &userAgentTransport{next: newTransport(cfg)},
		Timeout:   cfg.ResponseTimeout,
	}
}

func newTransport(cfg config.HTTPClientConfig) *http.Transport {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: cfg.KeepAlive,
	}
	return &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        cfg.MaxIdleConns,
		MaxIdleConnsPerHost: cfg.MaxIdleConnsPerHost,
		MaxConnsPerHost:     cfg.MaxConnsPerHost,
		IdleConnTimeout:     cfg.IdleConnTimeout,
		TLSHandshakeTimeout: cfg.TLSHandshakeTimeout,
		ForceAttemptHTTP2:   true,
	}
}

type userAgentTransport struct {
	next http.RoundTripper
}

func (t *userAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Header.Get("User-Agent") != "" {
		return t.next.RoundTrip(req)
	}
	clone := req.Clone(req.Context())
	clone.Header.Set("User-Agent", UserAgent)
	return t.next.RoundTrip(clone)
}
