// Package ratelimit enforces a per-key sliding window. A Redis backend shares
// the window across instances; when Redis is down the limiter falls back to
// its in-process window rather than failing open or closed inconsistently.
package ratelimit

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Decision is the outcome of one Allow call.
type Decision struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Limiter is a per-key sliding window limiter.
type Limiter struct {
	limit  int
	window time.Duration
	rdb    *redis.Client
	log    *logrus.Entry

	mu      sync.Mutex
	windows map[string][]time.Time
}

// New builds a limiter allowing limit events per window for each key.
// rdb may be nil for a purely in-process limiter.
func New(limit int, window time.Duration, rdb *redis.Client, logger *logrus.Logger) *Limiter {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Limiter{
		limit:   limit,
		window:  window,
		rdb:     rdb,
		log:     logger.WithField("component", "ratelimit"),
		windows: map[string][]time.Time{},
	}
}

// Allow records one event for key and reports whether it fits the window.
func (l *Limiter) Allow(ctx context.Context, key string) Decision {
	if l.rdb != nil {
		d, err := l.allowRedis(ctx, key)
		if err == nil {
			return d
		}
		l.log.WithError(err).Warn("redis limiter unavailable, using in-process window")
	}
	return l.allowMemory(key)
}

func (l *Limiter) allowMemory(key string) Decision {
	now := time.Now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	kept := l.windows[key][:0]
	for _, ts := range l.windows[key] {
		if ts.After(cutoff) {
			kept = append(kept, ts)
		}
	}
	if len(kept) >= l.limit {
		l.windows[key] = kept
		return Decision{RetryAfter: kept[0].Sub(cutoff)}
	}
	l.windows[key] = append(kept, now)
	return Decision{Allowed: true, Remaining: l.limit - len(kept) - 1}
}

// allowRedis keeps one sorted set per key scored by unix nanos, trimming
// entries older than the window on every call.
func (l *Limiter) allowRedis(ctx context.Context, key string) (Decision, error) {
	now := time.Now()
	cutoff := now.Add(-l.window)
	rkey := "ratelimit:" + key

	pipe := l.rdb.TxPipeline()
	pipe.ZRemRangeByScore(ctx, rkey, "0", fmt.Sprintf("%d", cutoff.UnixNano()))
	countCmd := pipe.ZCard(ctx, rkey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}

	count := int(countCmd.Val())
	if count >= l.limit {
		oldest, err := l.rdb.ZRangeWithScores(ctx, rkey, 0, 0).Result()
		retry := l.window
		if err == nil && len(oldest) > 0 {
			retry = time.Unix(0, int64(oldest[0].Score)).Add(l.window).Sub(now)
		}
		return Decision{RetryAfter: retry}, nil
	}

	member := uuid.NewString()
	pipe = l.rdb.TxPipeline()
	pipe.ZAdd(ctx, rkey, redis.Z{Score: float64(now.UnixNano()), Member: member})
	pipe.Expire(ctx, rkey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: true, Remaining: l.limit - count - 1}, nil
}
