// Package httputil provides the shared HTTP clients used for outbound calls:
// the enrichment model endpoint and the threat-intel feeds. Clients share one
// pooled transport so repeated feed refreshes and model calls reuse
// connections.
package httputil

import (
	"io"
	"net"
	"net/http"
	"sync"
	"time"
)

// MaxResponseSize bounds reads of external response bodies. Feeds and model
// providers are untrusted; an oversized body must not OOM the process.
const MaxResponseSize = 10 * 1024 * 1024 // 10MB

var sharedTransport = &http.Transport{
	Proxy: http.ProxyFromEnvironment,
	DialContext: (&net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}).DialContext,
	ForceAttemptHTTP2:     true,
	MaxIdleConns:          100,
	MaxIdleConnsPerHost:   10,
	IdleConnTimeout:       90 * time.Second,
	TLSHandshakeTimeout:   10 * time.Second,
	ExpectContinueTimeout: 1 * time.Second,
}

// Tier selects a timeout profile by operation type.
type Tier int

const (
	// TierHealth for availability probes (5s).
	TierHealth Tier = iota
	// TierEnrich for model calls: 5s connect via the shared dialer, 20s
	// total so a slow read cannot stall the analyze pipeline.
	TierEnrich
	// TierFeed for threat-intel feed downloads, which can be large (60s).
	TierFeed
)

var tierTimeouts = map[Tier]time.Duration{
	TierHealth: 5 * time.Second,
	TierEnrich: 20 * time.Second,
	TierFeed:   60 * time.Second,
}

var (
	clientHealth *http.Client
	clientEnrich *http.Client
	clientFeed   *http.Client
	clientOnce   sync.Once
)

func initClients() {
	clientHealth = &http.Client{Timeout: tierTimeouts[TierHealth], Transport: sharedTransport}
	clientEnrich = &http.Client{Timeout: tierTimeouts[TierEnrich], Transport: sharedTransport}
	clientFeed = &http.Client{Timeout: tierTimeouts[TierFeed], Transport: sharedTransport}
}

// Client returns the shared client for a tier. Use these instead of
// constructing http.Client values per call site so the pool is shared.
func Client(tier Tier) *http.Client {
	clientOnce.Do(initClients)
	switch tier {
	case TierHealth:
		return clientHealth
	case TierEnrich:
		return clientEnrich
	case TierFeed:
		return clientFeed
	default:
		return clientEnrich
	}
}

// EnrichClient returns the client tuned for model enrichment calls.
func EnrichClient() *http.Client {
	return Client(TierEnrich)
}

// FeedClient returns the client tuned for threat-intel feed fetches.
func FeedClient() *http.Client {
	return Client(TierFeed)
}

// ReadBody reads a response body with a size cap. maxSize <= 0 uses
// MaxResponseSize.
func ReadBody(r io.Reader, maxSize int64) ([]byte, error) {
	if maxSize <= 0 {
		maxSize = MaxResponseSize
	}
	return io.ReadAll(io.LimitReader(r, maxSize))
}

// DrainAndClose drains and closes a response body so the underlying
// connection returns to the pool.
func DrainAndClose(body io.ReadCloser) {
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, MaxResponseSize))
		_ = body.Close()
	}
}
