// Package httputil provides the shared HTTP plumbing for calls to external
// collaborators (anomaly classifier, entity extractor, decoy responder).
// All collaborator clients share one pooled transport so per-turn calls
// reuse connections instead of redialing.
package httputil

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// MaxResponseSize bounds collaborator response bodies. Collaborator replies
// are small JSON payloads; anything larger is a misbehaving service.
const MaxResponseSize = 4 * 1024 * 1024 // 4MB

var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   10 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          50,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

var (
	clientsMu sync.Mutex
	clients   = map[time.Duration]*http.Client{}
)

// Client returns a pooled HTTP client with the given total-request timeout.
// Clients are cached per timeout value and safe for concurrent use. The
// timeout is the outer bound; callers still pass per-call contexts so a
// cancelled analysis does not wait out the full budget.
func Client(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	clientsMu.Lock()
	defer clientsMu.Unlock()
	if c, ok := clients[timeout]; ok {
		return c
	}
	c := &http.Client{Timeout: timeout, Transport: sharedTransport}
	clients[timeout] = c
	return c
}

// ReadBody reads a response body with the shared size limit.
func ReadBody(r io.Reader) ([]byte, error) {
	return io.ReadAll(io.LimitReader(r, MaxResponseSize))
}

// DrainAndClose drains and closes a response body so the underlying
// connection returns to the pool.
func DrainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
		_ = body.Close()
	}
}
