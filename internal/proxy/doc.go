// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

/*
Package proxy resolves proxied paths against the anime metadata API and the
cover image host.

A request path is validated (ValidatePath), classified (IsImagePath) and then
served by Service.FetchAPI or Service.FetchImage:

  - the response cache is probed first
  - identical concurrent misses share one upstream fetch (singleflight)
  - API documents are decoded in key order and rewritten so cover URLs point
    back at the proxy; the cache keeps the unrewritten form
  - image responses that are really HTML or JSON refusal pages are replaced
    by PlaceholderSVG and never cached

HTTP concerns (CORS, rate limiting, status mapping) live in internal/api.
*/
package proxy
