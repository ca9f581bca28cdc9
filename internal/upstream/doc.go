// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

// Package upstream fetches from the anime metadata API and the cover image host.
//
// A Client applies a curated header profile per Kind, a detached timeout, a
// body cap, and a per-Kind gobreaker circuit breaker. Failures are returned as
// *Error, which matches ErrTimeout, ErrUnreachable and ErrBodyTooLarge with
// errors.Is.
package upstream
