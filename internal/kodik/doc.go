// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

// Package kodik integrates the Kodik video CDN.
//
// Extractor picks the Kodik players out of an upstream episode document and
// resolves each embed link to direct stream links through a Resolver, pacing
// the calls with golang.org/x/time/rate. Client searches the Kodik catalogue.
// Both talk to Kodik through the upstream client, so they share its timeout,
// body cap and circuit breaker.
package kodik
