// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

/*
Package services provides suture.Service wrappers for the proxy's long-running
components.

Each wrapper implements the suture.Service interface:

	type Service interface {
	    Serve(ctx context.Context) error
	}

and fmt.Stringer, which suture uses to name the service in its events.

# Available Services

HTTP Server (HTTPServerService):
  - Wraps *http.Server with graceful shutdown
  - Converts the ListenAndServe pattern to Serve
  - Returns listener failures so the supervisor restarts the server

Cache Janitor (CacheJanitorService):
  - Sweeps expired response cache entries on a fixed interval
  - Updates the cache entry and eviction metrics
*/
package services
