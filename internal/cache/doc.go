// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

/*
Package cache provides the shared upstream response cache.

# Overview

The cache provides:
  - Thread-safe concurrent access (sync.RWMutex)
  - A fixed time-to-live, five minutes by default
  - Lazy expiration: Get ignores stale entries but does not delete them
  - Cooperative cleanup: MaybeSweep evicts expired entries once the cache
    holds more than a threshold (1000) of them
  - Deterministic keys built from method, upstream URL and sorted query

# Entries

An Entry holds either an unrewritten JSON document (API responses) or a
binary body with its content type (images). Entries are replaced whole on
Put and never modified afterwards.

# Eviction

Store times are indexed by a generic MinHeap, so a sweep pops only the
entries that have expired instead of scanning the map. The same heap type is
used by the rate limiter to drop its least recently seen client.

# Usage Example

	c := cache.New(cache.DefaultTTL)
	key := cache.Key(http.MethodGet, "https://api.example/anime", r.URL.Query())

	if e, ok := c.Get(key); ok {
	    serve(e)
	} else {
	    c.Put(key, cache.Entry{JSON: doc})
	}
	c.MaybeSweep()
*/
package cache
