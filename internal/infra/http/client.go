package http

import (
	"net"
	"net/http"
	"time"
)

// NewClient returns the shared outbound client. Per-call deadlines are set by
// the adapters; timeout is the hard ceiling.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 40 * time.Second
	}
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          50,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   10 * time.Second,
		ExpectContinueTimeout: time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}
