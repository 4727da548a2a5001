package ratelimit

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	l.SetLevel(logrus.PanicLevel)
	return l
}

func TestMemoryLimiter(t *testing.T) {
	l := New(3, time.Minute, nil, quietLogger())
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		d := l.Allow(ctx, "k")
		if !d.Allowed {
			t.Fatalf("request %d denied", i)
		}
		if d.Remaining != 2-i {
			t.Errorf("request %d remaining = %d, want %d", i, d.Remaining, 2-i)
		}
	}
	d := l.Allow(ctx, "k")
	if d.Allowed {
		t.Error("fourth request allowed")
	}
	if d.RetryAfter <= 0 {
		t.Errorf("retry after = %v, want positive", d.RetryAfter)
	}
}

func TestMemoryLimiterKeysIsolated(t *testing.T) {
	l := New(1, time.Minute, nil, quietLogger())
	ctx := context.Background()

	if !l.Allow(ctx, "a").Allowed {
		t.Fatal("first key denied")
	}
	if !l.Allow(ctx, "b").Allowed {
		t.Error("second key throttled by first")
	}
	if l.Allow(ctx, "a").Allowed {
		t.Error("first key not throttled")
	}
}

func TestMemoryLimiterWindowSlides(t *testing.T) {
	l := New(2, 30*time.Millisecond, nil, quietLogger())
	ctx := context.Background()

	l.Allow(ctx, "k")
	l.Allow(ctx, "k")
	if l.Allow(ctx, "k").Allowed {
		t.Fatal("over-limit request allowed")
	}
	time.Sleep(40 * time.Millisecond)
	if !l.Allow(ctx, "k").Allowed {
		t.Error("request denied after window slid")
	}
}

func TestRedisLimiter(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := New(2, time.Minute, rdb, quietLogger())
	ctx := context.Background()

	if !l.Allow(ctx, "k").Allowed || !l.Allow(ctx, "k").Allowed {
		t.Fatal("requests within limit denied")
	}
	d := l.Allow(ctx, "k")
	if d.Allowed {
		t.Error("third request allowed")
	}
	if d.RetryAfter <= 0 {
		t.Errorf("retry after = %v, want positive", d.RetryAfter)
	}
	if !l.Allow(ctx, "other").Allowed {
		t.Error("independent key throttled")
	}
}

func TestRedisDownFallsBackToMemory(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	l := New(1, time.Minute, rdb, quietLogger())
	ctx := context.Background()

	mr.Close()

	if !l.Allow(ctx, "k").Allowed {
		t.Fatal("fallback denied first request")
	}
	if l.Allow(ctx, "k").Allowed {
		t.Error("fallback did not enforce limit")
	}
}
