// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/tomtom215/animeproxy/internal/metrics"
	"github.com/tomtom215/animeproxy/internal/models"
)

// ChiMiddlewareConfig holds configuration for Chi middleware factories.
type ChiMiddlewareConfig struct {
	// CORS configuration
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	CORSMaxAge         int // seconds

	// Operations endpoints (/healthz, /metrics) rate limiting
	OpsRateLimitRequests int
	OpsRateLimitWindow   time.Duration
}

// DefaultChiMiddlewareConfig returns the public-proxy defaults: any origin,
// read-only methods.
func DefaultChiMiddlewareConfig() *ChiMiddlewareConfig {
	return &ChiMiddlewareConfig{
		CORSAllowedOrigins: []string{"*"},
		CORSAllowedMethods: []string{http.MethodGet, http.MethodOptions},
		CORSAllowedHeaders: []string{"Content-Type", "Authorization", "Range"},
		CORSMaxAge:         86400,

		OpsRateLimitRequests: 600,
		OpsRateLimitWindow:   time.Minute,
	}
}

// ChiMiddleware provides Chi-compatible middleware factories.
type ChiMiddleware struct {
	config *ChiMiddlewareConfig
	cors   func(http.Handler) http.Handler
}

// NewChiMiddleware creates a new Chi middleware factory with the given configuration.
func NewChiMiddleware(config *ChiMiddlewareConfig) *ChiMiddleware {
	if config == nil {
		config = DefaultChiMiddlewareConfig()
	}

	corsHandler := cors.Handler(cors.Options{
		AllowedOrigins: config.CORSAllowedOrigins,
		AllowedMethods: config.CORSAllowedMethods,
		AllowedHeaders: config.CORSAllowedHeaders,
		MaxAge:         config.CORSMaxAge,
	})

	return &ChiMiddleware{
		config: config,
		cors:   corsHandler,
	}
}

// CORS returns the go-chi/cors middleware.
//
// go-chi/cors only decorates requests that carry an Origin header and a
// permitted method. With a wildcard origin list the proxy is fully public, so
// the fixed headers are also written up front; that way non-browser clients
// and 405 responses see them too.
func (m *ChiMiddleware) CORS() func(http.Handler) http.Handler {
	if !m.wildcard() {
		return m.cors
	}

	methods := strings.Join(m.config.CORSAllowedMethods, ", ")
	headers := strings.Join(m.config.CORSAllowedHeaders, ", ")
	maxAge := strconv.Itoa(m.config.CORSMaxAge)

	return func(next http.Handler) http.Handler {
		inner := m.cors(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			h.Set("Access-Control-Allow-Origin", "*")
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Max-Age", maxAge)
			inner.ServeHTTP(w, r)
		})
	}
}

func (m *ChiMiddleware) wildcard() bool {
	for _, o := range m.config.CORSAllowedOrigins {
		if o == "*" {
			return true
		}
	}
	return false
}

// RateLimitOps returns a per-IP httprate limiter for the operations
// endpoints. A non-positive request budget disables it.
func (m *ChiMiddleware) RateLimitOps() func(http.Handler) http.Handler {
	if m.config.OpsRateLimitRequests <= 0 {
		return func(next http.Handler) http.Handler {
			return next
		}
	}

	window := m.config.OpsRateLimitWindow
	if window <= 0 {
		window = time.Minute
	}

	return httprate.Limit(
		m.config.OpsRateLimitRequests,
		window,
		httprate.WithKeyFuncs(httprate.KeyByRealIP),
		httprate.WithLimitHandler(RateLimited(m.config.OpsRateLimitRequests, window)),
	)
}

// RateLimited returns the handler that writes the 429 envelope.
func RateLimited(limit int, window time.Duration) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		metrics.RateLimitRejections.Inc()
		respondJSON(w, http.StatusTooManyRequests, models.ErrorResponse{
			Error:   models.ErrorRateLimited,
			Message: "Too many requests",
			Limit:   limit,
			Window:  window.String(),
		})
	}
}

// APISecurityHeaders sets response headers that stop browsers from
// reinterpreting proxied content.
func APISecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "no-referrer")
			next.ServeHTTP(w, r)
		})
	}
}
