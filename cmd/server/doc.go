// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

/*
Package main is the entry point for the AnimeProxy server.

AnimeProxy sits between a browser front end and a third-party anime metadata
API. It relays JSON metadata with cover image URLs rewritten to point back at
the proxy, serves cover images (or an SVG placeholder when the image host has
nothing), caches both in memory, and exposes two Kodik helpers: episode player
link extraction and catalogue search.

# Application Architecture

	RootSupervisor ("animeproxy")
	├── APISupervisor ("api-layer")
	│   └── HTTP Server (chi router)
	└── MaintenanceSupervisor ("maintenance-layer")
	    └── Cache Janitor (optional, CACHE_JANITOR_INTERVAL)

Component initialization order:

 1. Configuration: koanf v2 with defaults, optional YAML file and environment
 2. Logging: zerolog with JSON/console output modes
 3. Response cache, per-client rate limiter and upstream client
 4. Proxy service, Kodik resolver, extractor and catalogue client
 5. HTTP handlers and chi router
 6. Supervisor tree: suture v4 process supervision

# Configuration

Common environment variables:

	PORT                     listen port (default 3000)
	UPSTREAM_API_BASE        metadata API base (default https://api.cdnlibs.org/api)
	UPSTREAM_IMAGE_BASE      image host base (default https://cover.imglib.info)
	KODIK_PUBLIC_TOKEN       Kodik public token
	KODIK_RESOLVER_URL       optional direct-link resolver endpoint
	CACHE_TTL                response cache lifetime (default 5m)
	RATE_LIMIT_REQUESTS      requests per client per window (default 100)
	CORS_ORIGINS             comma-separated allowed origins (default *)
	LOG_LEVEL, LOG_FORMAT

See internal/config for the full list.

# Signals

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for up to HTTP_SHUTDOWN_TIMEOUT before the process exits.

# Build

	go build -ldflags "-X main.version=$(git describe --tags)" ./cmd/server
*/
package main
