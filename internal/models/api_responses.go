// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package models

import (
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animeproxy/internal/kodik"
)

// Error kinds carried in ErrorResponse.Error.
const (
	ErrorMethodNotAllowed = "method_not_allowed"
	ErrorInvalidPath      = "invalid_path"
	ErrorRateLimited      = "rate_limited"
	ErrorNotFound         = "not_found"
	ErrorUpstream         = "upstream_error"
	ErrorTimeout          = "timeout"
	ErrorBadGateway       = "bad_gateway"
	ErrorInternal         = "internal_error"
	ErrorValidation       = "validation_error"
)

// ErrorResponse is the body of every error the proxy generates itself.
// Upstream 4xx bodies are relayed as they are and do not use it.
//
// Example:
//
//	{
//	  "error": "not_found",
//	  "message": "Resource not found",
//	  "details": "https://api.cdnlibs.org/api/anime/999"
//	}
//
// Allowed is set only for method_not_allowed; Limit and Window only for
// rate_limited.
type ErrorResponse struct {
	Error   string   `json:"error"`
	Message string   `json:"message"`
	Details any      `json:"details,omitempty"`
	Allowed []string `json:"allowed,omitempty"`
	Limit   int      `json:"limit,omitempty"`
	Window  string   `json:"window,omitempty"`
}

// EpisodeLinksResponse is returned by /api/kodik/episode.
type EpisodeLinksResponse struct {
	EpisodeID  string         `json:"episode_id"`
	KodikLinks []kodik.Result `json:"kodik_links"`
	TotalLinks int            `json:"total_links"`
}

// KodikSearchResponse is returned by /api/kodik/search. Results are the
// catalogue entries exactly as Kodik sent them.
type KodikSearchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// HealthResponse is returned by /healthz.
type HealthResponse struct {
	Status    string     `json:"status"`
	Version   string     `json:"version,omitempty"`
	Uptime    string     `json:"uptime"`
	Timestamp time.Time  `json:"timestamp"`
	Cache     CacheStats `json:"cache"`
}

// CacheStats summarises the response cache for health checks.
type CacheStats struct {
	Entries     int64     `json:"entries"`
	Hits        int64     `json:"hits"`
	Misses      int64     `json:"misses"`
	Evictions   int64     `json:"evictions"`
	HitRate     float64   `json:"hit_rate"`
	LastCleanup time.Time `json:"last_cleanup"`
}
