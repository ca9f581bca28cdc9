// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

/*
Package models defines the JSON bodies the proxy generates itself.

Proxied upstream documents are not modelled; they stay opaque and are only
rewritten. This package covers:

  - ErrorResponse: the error envelope and its kinds
  - EpisodeLinksResponse and KodikSearchResponse: Kodik endpoints
  - HealthResponse: liveness with cache counters
*/
package models
