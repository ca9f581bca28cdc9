// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package cache

import (
	"net/url"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultTTL is how long a stored response is served before it is treated as absent.
	DefaultTTL = 5 * time.Minute

	// DefaultSweepThreshold is the entry count above which MaybeSweep evicts expired entries.
	DefaultSweepThreshold = 1000
)

// Entry is a cached upstream response.
//
// API responses populate JSON with the unrewritten document. Image responses
// populate Body and ContentType. Entries are replaced whole and never mutated
// after Put.
type Entry struct {
	StoredAt    time.Time
	JSON        any
	Body        []byte
	ContentType string
}

// IsImage reports whether the entry holds a binary payload.
func (e Entry) IsImage() bool {
	return e.JSON == nil && e.Body != nil
}

// Stats tracks cache performance counters.
type Stats struct {
	Hits        int64
	Misses      int64
	Evictions   int64
	TotalKeys   int64
	LastCleanup time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now, used by tests to advance time deterministically.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) {
		c.now = now
	}
}

// WithSweepThreshold overrides DefaultSweepThreshold.
func WithSweepThreshold(n int) Option {
	return func(c *Cache) {
		if n > 0 {
			c.threshold = n
		}
	}
}

// Cache is a process-lifetime response cache with a fixed TTL.
//
// Expired entries stay in the map until a sweep removes them; Get ignores them.
// Expiry order is tracked in a min-heap keyed by store time, so Sweep only
// touches entries that have actually expired.
//
// Thread Safety: all methods are safe for concurrent use.
type Cache struct {
	mu        sync.RWMutex
	entries   map[string]Entry
	expiry    *MinHeap[struct{}]
	ttl       time.Duration
	threshold int
	now       func() time.Time
	stats     Stats
}

// New creates an empty cache with the given TTL.
//
// No background goroutine is started. Callers invoke MaybeSweep at the end of
// each request cycle to keep memory bounded.
//
// Example:
//
//	c := cache.New(cache.DefaultTTL)
//	c.Put(key, cache.Entry{JSON: doc})
//	if e, ok := c.Get(key); ok {
//	    // serve e.JSON
//	}
//	c.MaybeSweep()
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &Cache{
		entries:   make(map[string]Entry),
		expiry:    NewMinHeap[struct{}](),
		ttl:       ttl,
		threshold: DefaultSweepThreshold,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.stats.LastCleanup = c.now()
	return c
}

// Get returns the entry stored under key if it exists and is younger than the TTL.
// Expired entries are reported as absent but are not deleted.
func (c *Cache) Get(key string) (Entry, bool) {
	c.mu.RLock()
	entry, exists := c.entries[key]
	c.mu.RUnlock()

	if !exists || c.expired(entry, c.now()) {
		c.mu.Lock()
		c.stats.Misses++
		c.mu.Unlock()
		return Entry{}, false
	}

	c.mu.Lock()
	c.stats.Hits++
	c.mu.Unlock()
	return entry, true
}

// Put stores entry under key, replacing any previous entry.
// A zero StoredAt is set to the current time.
func (c *Cache) Put(key string, entry Entry) {
	if entry.StoredAt.IsZero() {
		entry.StoredAt = c.now()
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = entry
	c.expiry.Push(key, struct{}{}, entry.StoredAt)
	c.stats.TotalKeys = int64(len(c.entries))
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// Sweep removes every entry older than the TTL and returns how many were removed.
func (c *Cache) Sweep() int {
	now := c.now()

	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for _, item := range c.expiry.PopBefore(now.Add(-c.ttl)) {
		delete(c.entries, item.Key)
		removed++
	}

	c.stats.Evictions += int64(removed)
	c.stats.TotalKeys = int64(len(c.entries))
	c.stats.LastCleanup = now
	return removed
}

// MaybeSweep runs Sweep when the cache holds more entries than the sweep threshold.
// It returns the number of evicted entries (0 when no sweep ran).
func (c *Cache) MaybeSweep() int {
	if c.Len() <= c.threshold {
		return 0
	}
	return c.Sweep()
}

// Clear removes all entries.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)
	c.expiry.Clear()
	c.stats.TotalKeys = 0
}

// Stats returns a snapshot of the cache counters.
func (c *Cache) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.stats
}

// HitRate returns the percentage of Get calls that were hits.
func (c *Cache) HitRate() float64 {
	s := c.Stats()
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total) * 100
}

// TTL returns the configured entry lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

func (c *Cache) expired(e Entry, now time.Time) bool {
	return now.Sub(e.StoredAt) > c.ttl
}

// Key builds the cache key for an upstream request.
//
// url.Values.Encode sorts by parameter name, so logically identical query sets
// produce the same key regardless of their original order.
func Key(method, upstreamURL string, query url.Values) string {
	var b strings.Builder
	b.Grow(len(method) + len(upstreamURL) + 32)
	b.WriteString(strings.ToUpper(method))
	b.WriteByte(' ')
	b.WriteString(upstreamURL)
	if enc := query.Encode(); enc != "" {
		b.WriteByte('?')
		b.WriteString(enc)
	}
	return b.String()
}
