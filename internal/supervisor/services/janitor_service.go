// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package services

import (
	"context"
	"time"

	"github.com/tomtom215/animeproxy/internal/logging"
	"github.com/tomtom215/animeproxy/internal/metrics"
)

// Sweeper is a store that can drop its expired entries. *cache.Cache
// implements it.
type Sweeper interface {
	Sweep() int
	Len() int
}

// CacheJanitorService sweeps expired cache entries on a fixed interval.
//
// Request handling already sweeps once the cache passes its size threshold;
// the janitor bounds memory on a quiet proxy that never reaches it.
type CacheJanitorService struct {
	cache    Sweeper
	interval time.Duration
	name     string
}

// NewCacheJanitorService creates a janitor. A non-positive interval
// defaults to one minute.
func NewCacheJanitorService(cache Sweeper, interval time.Duration) *CacheJanitorService {
	if interval <= 0 {
		interval = time.Minute
	}
	return &CacheJanitorService{
		cache:    cache,
		interval: interval,
		name:     "cache-janitor",
	}
}

// Serve implements suture.Service.
func (j *CacheJanitorService) Serve(ctx context.Context) error {
	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			j.sweep()
		}
	}
}

func (j *CacheJanitorService) sweep() {
	evicted := j.cache.Sweep()
	entries := j.cache.Len()
	metrics.RecordCacheSweep(evicted, entries)
	if evicted > 0 {
		logging.Debug().Int("evicted", evicted).Int("entries", entries).Msg("Cache janitor swept expired entries")
	}
}

// String implements fmt.Stringer.
func (j *CacheJanitorService) String() string {
	return j.name
}
