// Package assetcache bounds repeated boundary crossings for binary
// assets (backgrounds, avatars). Entries live until a TTL expires or an
// aggregate size ceiling forces eviction. Each window constructs its own
// cache; nothing here is process-global.
package assetcache

import (
	"sort"
	"sync"
	"time"
)

// Fetcher retrieves an asset payload (a data URI) through the process
// boundary. The channel's FetchAsset satisfies this.
type Fetcher func(name string) (string, error)

// Cache defaults.
const (
	DefaultTTL     = 24 * time.Hour
	DefaultCeiling = int64(32 << 20)

	// evictTarget is the fill fraction eviction drains to.
	evictTarget = 0.75
)

type entry struct {
	payload   string
	timestamp time.Time
	size      int64
}

// Cache is a TTL- and size-bounded asset cache. Size accounting uses
// encoded payload length, not decoded bytes; eviction only needs
// relative ordering and a safety margin.
type Cache struct {
	fetch   Fetcher
	ttl     time.Duration
	ceiling int64

	// now is swappable in tests.
	now func() time.Time

	mu      sync.Mutex
	entries map[string]entry
	size    int64
}

// Option adjusts a Cache at construction.
type Option func(*Cache)

// WithTTL overrides the default time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(c *Cache) { c.ttl = ttl }
}

// WithCeiling overrides the default aggregate size ceiling.
func WithCeiling(ceiling int64) Option {
	return func(c *Cache) { c.ceiling = ceiling }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a Cache over the given fetcher.
func New(fetch Fetcher, opts ...Option) *Cache {
	c := &Cache{
		fetch:   fetch,
		ttl:     DefaultTTL,
		ceiling: DefaultCeiling,
		now:     time.Now,
		entries: make(map[string]entry),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached payload when present and younger than the TTL,
// otherwise fetches through the boundary, stores the result, and returns
// it. An expired entry is dropped before the fetch so a failed re-fetch
// does not leave a dead payload counting against the size budget. A
// failed fetch degrades to an empty payload and caches nothing, so the
// next request retries.
func (c *Cache) Get(key string) string {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if c.now().Sub(e.timestamp) < c.ttl {
			c.mu.Unlock()
			return e.payload
		}
		c.size -= e.size
		delete(c.entries, key)
	}
	c.mu.Unlock()

	payload, err := c.fetch(key)
	if err != nil || payload == "" {
		return ""
	}
	c.put(key, payload)
	return payload
}

// Clear resets the cache unconditionally.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]entry)
	c.size = 0
}

// Size returns the aggregate cached payload size.
func (c *Cache) Size() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.size
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// put stores a payload, evicting as needed so the post-insert aggregate
// never exceeds the eviction target. A payload too large to fit inside
// the target on its own is served but never cached.
func (c *Cache) put(key, payload string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	incoming := int64(len(payload))
	if old, ok := c.entries[key]; ok {
		c.size -= old.size
		delete(c.entries, key)
	}
	if c.size+incoming > c.ceiling {
		target := int64(float64(c.ceiling)*evictTarget) - incoming
		if target < 0 {
			return
		}
		c.evictLocked(target)
	}
	c.entries[key] = entry{payload: payload, timestamp: c.now(), size: incoming}
	c.size += incoming
}

// evictLocked removes oldest-timestamp-first entries until aggregate
// size is at or below target.
func (c *Cache) evictLocked(target int64) {
	keys := make([]string, 0, len(c.entries))
	for k := range c.entries {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return c.entries[keys[i]].timestamp.Before(c.entries[keys[j]].timestamp)
	})

	for _, k := range keys {
		if c.size <= target {
			return
		}
		c.size -= c.entries[k].size
		delete(c.entries, k)
	}
}
