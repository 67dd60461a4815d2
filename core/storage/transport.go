package storage

import (
	"net"
	"net/http"
	"time"
)

// newTransport builds an HTTP transport with strict timeouts so that a dead
// endpoint fails the call instead of hanging it.
func newTransport(timeout time.Duration) *http.Transport {
	dialer := &net.Dialer{}
	tuneDialer(dialer, timeout)

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,
	}
	tuneTransport(tr, timeout)
	return tr
}

func tuneDialer(d *net.Dialer, timeout time.Duration) {
	d.Timeout = timeout
	d.KeepAlive = 30 * time.Second
}

func tuneTransport(tr *http.Transport, timeout time.Duration) {
	tr.ForceAttemptHTTP2 = true
	tr.MaxIdleConns = 100
	tr.IdleConnTimeout = 90 * time.Second
	tr.TLSHandshakeTimeout = timeout
	tr.ExpectContinueTimeout = 1 * time.Second
	tr.ResponseHeaderTimeout = timeout
}
