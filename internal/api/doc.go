// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

/*
Package api provides the HTTP layer of the proxy using the Chi router.

Routes:

  - /api/proxy/*: core proxy. Image paths (uploads/... with an image
    extension) are fetched from the image host, everything else from the
    metadata API with image URLs rewritten to point back at this proxy.
  - /api/filter, /api/recent, /api/popular: catalogue shortcuts built on the
    same proxy service.
  - /api/kodik/episode, /api/kodik/search: Kodik direct-link extraction and
    catalogue search.
  - /healthz, /metrics: operations endpoints.

Middleware Stack (in order):

 1. RequestID: X-Request-ID propagation and logging context
 2. AccessLog: one structured line per request
 3. Recoverer: panic recovery (chi)
 4. CORS: go-chi/cors plus fixed headers for wildcard origins
 5. PrometheusMetrics: request count and latency per route pattern

The /api routes additionally pass through the sliding-window limiter from
internal/ratelimit. Method checks happen at routing time, so a 405 never
consumes rate limit budget.

Error Responses:

Every error the proxy generates itself uses models.ErrorResponse:

	{"error": "invalid_path", "message": "Invalid path"}

Upstream 4xx bodies other than 404 are relayed unchanged.

Usage Example:

	handler := api.NewHandler(api.Deps{Proxy: svc, Episodes: extractor, Catalogue: catalogue})
	router := api.NewRouter(handler, limiter, api.RouterConfig{CORSOrigins: []string{"*"}})
	http.ListenAndServe(":3000", router.SetupChi())
*/
package api
