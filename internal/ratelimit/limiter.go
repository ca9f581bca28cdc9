// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

// Package ratelimit implements the per-client sliding-window request limiter
// that guards the /api routes.
package ratelimit

import (
	"sync"
	"time"

	"github.com/tomtom215/animeproxy/internal/cache"
)

const (
	// DefaultLimit is the number of requests a client may make per window.
	DefaultLimit = 100

	// DefaultWindow is the trailing window the limit applies to.
	DefaultWindow = time.Minute

	// DefaultMaxClients bounds the number of tracked clients.
	DefaultMaxClients = 10000
)

// Config holds limiter settings. Zero values fall back to the defaults.
type Config struct {
	Limit      int
	Window     time.Duration
	MaxClients int
	Now        func() time.Time
}

// Limiter keeps, for every client, the timestamps of its accepted requests in
// the trailing window.
//
// Stale timestamps are filtered lazily on each Allow call. This is an
// approximate sliding window: bursts at the window edge are not smoothed.
//
// Complexity:
//   - Allow: O(k) where k is the client's request count in the window
//   - Memory: O(clients * limit)
type Limiter struct {
	mu         sync.Mutex
	windows    map[string][]time.Time
	lastSeen   *cache.MinHeap[struct{}] // least recently seen client on top
	limit      int
	window     time.Duration
	maxClients int
	now        func() time.Time
}

// New creates a limiter from cfg.
func New(cfg Config) *Limiter {
	if cfg.Limit <= 0 {
		cfg.Limit = DefaultLimit
	}
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = DefaultMaxClients
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Limiter{
		windows:    make(map[string][]time.Time),
		lastSeen:   cache.NewMinHeap[struct{}](),
		limit:      cfg.Limit,
		window:     cfg.Window,
		maxClients: cfg.MaxClients,
		now:        cfg.Now,
	}
}

// Allow reports whether clientID may make another request and, if so,
// records it. A rejected attempt is not recorded.
func (l *Limiter) Allow(clientID string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	var recent []time.Time
	for _, ts := range l.windows[clientID] {
		if now.Sub(ts) < l.window {
			recent = append(recent, ts)
		}
	}

	if len(recent) >= l.limit {
		l.windows[clientID] = recent
		return false
	}

	if _, tracked := l.windows[clientID]; !tracked && len(l.windows) >= l.maxClients {
		l.evictOldest()
	}

	l.windows[clientID] = append(recent, now)
	l.lastSeen.Push(clientID, struct{}{}, now)
	return true
}

// Remaining returns how many more requests clientID may make right now.
func (l *Limiter) Remaining(clientID string) int {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, ts := range l.windows[clientID] {
		if now.Sub(ts) < l.window {
			n++
		}
	}
	if n >= l.limit {
		return 0
	}
	return l.limit - n
}

// Limit returns the per-window request budget.
func (l *Limiter) Limit() int {
	return l.limit
}

// Window returns the trailing window duration.
func (l *Limiter) Window() time.Duration {
	return l.window
}

// Len returns the number of tracked clients.
func (l *Limiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.windows)
}

// evictOldest drops the client whose most recent request is oldest.
// Caller must hold l.mu.
func (l *Limiter) evictOldest() {
	if item := l.lastSeen.Pop(); item != nil {
		delete(l.windows, item.Key)
	}
}
