package gemini

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// Cache defaults when the caller does not supply one.
const (
	defaultCacheTTL  = time.Hour
	defaultCacheSize = 1000
)

// Cache stores enrichment outcomes keyed by a digest of the analyzed text.
type Cache interface {
	Get(ctx context.Context, key string) (*Outcome, bool)
	Set(ctx context.Context, key string, out *Outcome)
}

// cacheKey digests the text so the cache never stores raw input.
func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "enrich:" + hex.EncodeToString(sum[:])
}

type cacheEntry struct {
	outcome  *Outcome
	storedAt time.Time
}

// memoryCache is a TTL cache with a hard size cap. On overflow it evicts
// expired entries first, then the oldest.
type memoryCache struct {
	mu      sync.Mutex
	ttl     time.Duration
	maxSize int
	entries map[string]cacheEntry
}

// NewMemoryCache builds an in-process cache. Non-positive ttl or maxSize
// fall back to the defaults.
func NewMemoryCache(ttl time.Duration, maxSize int) Cache {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	if maxSize <= 0 {
		maxSize = defaultCacheSize
	}
	return &memoryCache{
		ttl:     ttl,
		maxSize: maxSize,
		entries: map[string]cacheEntry{},
	}
}

func (c *memoryCache) Get(_ context.Context, key string) (*Outcome, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) > c.ttl {
		delete(c.entries, key)
		return nil, false
	}
	return e.outcome, true
}

func (c *memoryCache) Set(_ context.Context, key string, out *Outcome) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.entries) >= c.maxSize {
		c.evictLocked()
	}
	c.entries[key] = cacheEntry{outcome: out, storedAt: time.Now()}
}

func (c *memoryCache) evictLocked() {
	for k, e := range c.entries {
		if time.Since(e.storedAt) > c.ttl {
			delete(c.entries, k)
		}
	}
	for len(c.entries) >= c.maxSize {
		oldestKey := ""
		var oldest time.Time
		for k, e := range c.entries {
			if oldestKey == "" || e.storedAt.Before(oldest) {
				oldestKey = k
				oldest = e.storedAt
			}
		}
		delete(c.entries, oldestKey)
	}
}

// redisCache shares enrichment outcomes across instances.
type redisCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisCache builds a cache backed by the given client.
func NewRedisCache(rdb *redis.Client, ttl time.Duration) Cache {
	return &redisCache{rdb: rdb, ttl: ttl}
}

func (c *redisCache) Get(ctx context.Context, key string) (*Outcome, bool) {
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}
	var out Outcome
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, false
	}
	return &out, true
}

func (c *redisCache) Set(ctx context.Context, key string, out *Outcome) {
	data, err := json.Marshal(out)
	if err != nil {
		return
	}
	_ = c.rdb.Set(ctx, key, data, c.ttl).Err()
}
