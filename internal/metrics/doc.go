// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

/*
Package metrics provides Prometheus metrics collection and export for observability.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Response cache hits, misses and evictions
  - Upstream fetch outcomes and latency
  - Rate limiter rejections
  - Placeholder substitutions for blocked cover images
  - Circuit breaker state transitions
  - Kodik link resolution outcomes

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3000/metrics

All collectors are registered with the default registry through promauto.
*/
package metrics
