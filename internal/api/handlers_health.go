// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/animeproxy/internal/models"
)

// Health serves GET /healthz. The proxy holds no durable state, so liveness
// is unconditional; the cache counters are included for dashboards.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	stats := h.proxy.CacheStats()

	var hitRate float64
	if total := stats.Hits + stats.Misses; total > 0 {
		hitRate = float64(stats.Hits) / float64(total) * 100
	}

	w.Header().Set("Cache-Control", "no-store")
	respondJSON(w, http.StatusOK, models.HealthResponse{
		Status:    "ok",
		Version:   h.version,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
		Cache: models.CacheStats{
			Entries:     stats.TotalKeys,
			Hits:        stats.Hits,
			Misses:      stats.Misses,
			Evictions:   stats.Evictions,
			HitRate:     hitRate,
			LastCleanup: stats.LastCleanup,
		},
	})
}
