// Package cache provides a bounded in-process key/value cache with TTL and
// graceful degradation: reads can fall back to an expired entry when a fresh
// fetch fails, so transient upstream failures serve stale data instead of
// errors.
package cache

import (
	"context"
	"fmt"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Result wraps a cached value with its freshness. Callers must treat
// IsStale as informational, not as an error.
type Result[V any] struct {
	Value   V
	IsStale bool
}

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Cache is a fixed-capacity LRU cache whose entries expire after a TTL.
// Expired entries are retained until evicted so they remain available as
// stale fallbacks.
type Cache[V any] struct {
	mu      sync.Mutex
	entries *lru.Cache[string, *entry[V]]
	ttl     time.Duration
	now     func() time.Time // overridable in tests
}

// New creates a cache holding at most size entries, each fresh for ttl.
func New[V any](size int, ttl time.Duration) (*Cache[V], error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}
	if ttl <= 0 {
		return nil, fmt.Errorf("cache ttl must be positive, got %s", ttl)
	}
	entries, err := lru.New[string, *entry[V]](size)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Cache[V]{
		entries: entries,
		ttl:     ttl,
		now:     time.Now,
	}, nil
}

// Set stores a value, resetting its expiry.
func (c *Cache[V]) Set(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Add(key, &entry[V]{
		value:     value,
		expiresAt: c.now().Add(c.ttl),
	})
}

// Get returns the value for key if present and fresh.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries.Get(key)
	if !ok || c.now().After(e.expiresAt) {
		var zero V
		return zero, false
	}
	return e.value, true
}

// GetOrFetch returns the cached value for key, or calls fetch to obtain a
// fresh one. When fetch fails and an expired entry is still held, the stale
// value is returned with IsStale set and a nil error. The error is only
// surfaced when there is nothing at all to serve.
func (c *Cache[V]) GetOrFetch(ctx context.Context, key string, fetch func(context.Context) (V, error)) (Result[V], error) {
	if value, ok := c.Get(key); ok {
		return Result[V]{Value: value}, nil
	}

	value, err := fetch(ctx)
	if err == nil {
		c.Set(key, value)
		return Result[V]{Value: value}, nil
	}

	// Fresh fetch failed: degrade to the expired entry if one survives.
	c.mu.Lock()
	e, ok := c.entries.Get(key)
	c.mu.Unlock()
	if ok {
		return Result[V]{Value: e.value, IsStale: true}, nil
	}

	var zero V
	return Result[V]{Value: zero}, fmt.Errorf("fetch %q: %w", key, err)
}

// Delete removes an entry, including any stale copy.
func (c *Cache[V]) Delete(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Remove(key)
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries.Purge()
}

// Len reports how many entries (fresh or stale) are held.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.entries.Len()
}
