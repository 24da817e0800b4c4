package providers

import (
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// TargetHeader carries the original backend URL when requests are routed
// through an AI gateway proxy.
const TargetHeader = "X-Relay-Target"

// NewHTTPClient returns the client used for AI backend calls. With an empty
// proxyURL it is a plain client with the given timeout; otherwise every
// request is sent to the proxy host and the original URL travels in
// TargetHeader.
func NewHTTPClient(proxyURL string, timeout time.Duration) (*http.Client, error) {
	hc := &http.Client{Timeout: timeout}
	if proxyURL == "" {
		return hc, nil
	}

	parsed, err := url.Parse(proxyURL)
	if err != nil {
		return nil, fmt.Errorf("invalid AI proxy URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("invalid AI proxy URL %q: scheme and host are required", proxyURL)
	}

	hc.Transport = &proxyTransport{proxyURL: parsed, inner: http.DefaultTransport}
	return hc, nil
}

type proxyTransport struct {
	proxyURL *url.URL
	inner    http.RoundTripper
}

func (t *proxyTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	proxyReq := req.Clone(req.Context())
	proxyReq.Header.Set(TargetHeader, req.URL.String())

	proxyReq.URL.Scheme = t.proxyURL.Scheme
	proxyReq.URL.Host = t.proxyURL.Host
	proxyReq.Host = t.proxyURL.Host

	return t.inner.RoundTrip(proxyReq)
}
