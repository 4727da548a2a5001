// Package telemetry keeps lightweight in-process counters for the analyze
// pipeline and the enrichment subsystem. It is a counter store, not an
// exporter: /stats serves a JSON snapshot and tests assert on Snapshot().
package telemetry

import (
	"sync"
	"sync/atomic"
	"time"
)

// Stats accumulates pipeline counters. Safe for concurrent use; all counters
// are atomic, the latency average is guarded by a mutex.
type Stats struct {
	totalRequests  atomic.Int64
	cacheHits      atomic.Int64
	cacheMisses    atomic.Int64
	retryAttempts  atomic.Int64
	timeouts       atomic.Int64
	parseErrors    atomic.Int64
	rateLimitHits  atomic.Int64
	successCount   atomic.Int64
	errorCount     atomic.Int64
	threatsFlagged atomic.Int64

	mu         sync.Mutex
	avgLatency float64
	samples    int64
	startedAt  time.Time
}

// New creates an empty Stats store.
func New() *Stats {
	return &Stats{startedAt: time.Now()}
}

func (s *Stats) IncRequests()     { s.totalRequests.Add(1) }
func (s *Stats) IncCacheHit()     { s.cacheHits.Add(1) }
func (s *Stats) IncCacheMiss()    { s.cacheMisses.Add(1) }
func (s *Stats) IncRetry()        { s.retryAttempts.Add(1) }
func (s *Stats) IncTimeout()      { s.timeouts.Add(1) }
func (s *Stats) IncParseError()   { s.parseErrors.Add(1) }
func (s *Stats) IncRateLimitHit() { s.rateLimitHits.Add(1) }
func (s *Stats) IncSuccess()      { s.successCount.Add(1) }
func (s *Stats) IncError()        { s.errorCount.Add(1) }
func (s *Stats) AddThreats(n int) { s.threatsFlagged.Add(int64(n)) }

// RecordLatency folds one request duration into the rolling average.
func (s *Stats) RecordLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.samples++
	s.avgLatency += (float64(d.Milliseconds()) - s.avgLatency) / float64(s.samples)
}

// Snapshot is a point-in-time copy of all counters.
type Snapshot struct {
	TotalRequests  int64   `json:"total_requests"`
	CacheHits      int64   `json:"cache_hits"`
	CacheMisses    int64   `json:"cache_misses"`
	RetryAttempts  int64   `json:"retry_attempts"`
	Timeouts       int64   `json:"timeouts"`
	ParseErrors    int64   `json:"parse_errors"`
	RateLimitHits  int64   `json:"rate_limit_hits"`
	SuccessCount   int64   `json:"success_count"`
	ErrorCount     int64   `json:"error_count"`
	ThreatsFlagged int64   `json:"threats_flagged"`
	AvgLatencyMs   float64 `json:"average_latency_ms"`
	UptimeSeconds  float64 `json:"uptime_seconds"`
}

// Snapshot returns the current counter values.
func (s *Stats) Snapshot() Snapshot {
	s.mu.Lock()
	avg := s.avgLatency
	s.mu.Unlock()

	return Snapshot{
		TotalRequests:  s.totalRequests.Load(),
		CacheHits:      s.cacheHits.Load(),
		CacheMisses:    s.cacheMisses.Load(),
		RetryAttempts:  s.retryAttempts.Load(),
		Timeouts:       s.timeouts.Load(),
		ParseErrors:    s.parseErrors.Load(),
		RateLimitHits:  s.rateLimitHits.Load(),
		SuccessCount:   s.successCount.Load(),
		ErrorCount:     s.errorCount.Load(),
		ThreatsFlagged: s.threatsFlagged.Load(),
		AvgLatencyMs:   avg,
		UptimeSeconds:  time.Since(s.startedAt).Seconds(),
	}
}
