// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

/*
Package config provides configuration loading for AnimeProxy.

Configuration is layered with Koanf v2. Later layers override earlier ones:

 1. Struct defaults (defaultConfig)
 2. YAML file from CONFIG_PATH, or the first of DefaultConfigPaths that exists
 3. Environment variables, mapped explicitly in envMappings

# Configuration Structure

  - ServerConfig: listen address, timeouts, public base URL
  - UpstreamConfig: metadata API base, image host base, timeout, body cap
  - CacheConfig: response TTL and sweep threshold
  - SecurityConfig: per-client rate limit and CORS origins
  - KodikConfig: Kodik token, resolver endpoint, catalogue API base
  - LoggingConfig: zerolog level and format
  - MetricsConfig: Prometheus exposition

# Environment Variables

Server:
  - PORT: listen port (default: 3000)
  - HTTP_HOST: bind address (default: 0.0.0.0)
  - PUBLIC_BASE_URL: base used in rewritten image URLs (default: derived per request)

Upstream:
  - UPSTREAM_API_BASE: metadata API (default: https://api.cdnlibs.org/api)
  - UPSTREAM_IMAGE_BASE: image host (default: https://cover.imglib.info)
  - UPSTREAM_TIMEOUT: per-fetch timeout (default: 15s)

Cache and rate limiting:
  - CACHE_TTL: response lifetime (default: 5m)
  - RATE_LIMIT_REQUESTS / RATE_LIMIT_WINDOW: per-client budget (default: 100 per 1m)
  - DISABLE_RATE_LIMIT: turn the /api limiter off
  - CORS_ORIGINS: comma-separated allowed origins (default: *)

Kodik:
  - KODIK_PUBLIC_TOKEN: catalogue and resolver token
  - KODIK_RESOLVER_URL: direct-link resolver endpoint (optional)
  - KODIK_REQUIRE_TOKEN: fail startup when no token is set

Logging:
  - LOG_LEVEL, LOG_FORMAT (json|console), LOG_CALLER

# Usage

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	srv := &http.Server{Addr: cfg.Server.Addr()}

# Thread Safety

Config is read-only after Load returns and may be shared freely.
*/
package config
