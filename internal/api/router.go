// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/animeproxy/internal/config"
	"github.com/tomtom215/animeproxy/internal/middleware"
	"github.com/tomtom215/animeproxy/internal/models"
	"github.com/tomtom215/animeproxy/internal/ratelimit"
)

// allowedMethods are the only methods any route accepts.
var allowedMethods = []string{http.MethodGet, http.MethodOptions}

// RouterConfig holds the routing options taken from configuration.
type RouterConfig struct {
	Middleware     *ChiMiddlewareConfig
	MetricsEnabled bool
	MetricsPath    string
}

// NewRouterConfig derives router options from the application config.
func NewRouterConfig(cfg *config.Config) RouterConfig {
	mw := DefaultChiMiddlewareConfig()
	mw.CORSAllowedOrigins = cfg.Security.CORSOrigins
	mw.OpsRateLimitRequests = cfg.Security.OpsRateLimitRequests

	return RouterConfig{
		Middleware:     mw,
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	}
}

// Router sets up HTTP routes using Chi router.
type Router struct {
	handler       *Handler
	limiter       *ratelimit.Limiter
	chiMiddleware *ChiMiddleware
	config        RouterConfig
}

// NewRouter creates a Router. A nil limiter disables per-client rate
// limiting on the /api routes.
func NewRouter(handler *Handler, limiter *ratelimit.Limiter, cfg RouterConfig) *Router {
	if cfg.MetricsPath == "" {
		cfg.MetricsPath = "/metrics"
	}
	return &Router{
		handler:       handler,
		limiter:       limiter,
		chiMiddleware: NewChiMiddleware(cfg.Middleware),
		config:        cfg,
	}
}

// SetupChi configures all HTTP routes using Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// ========================
	// Global Middleware Stack
	// ========================
	r.Use(middleware.RequestID)
	r.Use(middleware.AccessLog)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // CORS must be global so errors carry it too
	r.Use(middleware.PrometheusMetrics)
	r.Use(APISecurityHeaders())

	// Must be registered before r.Route so mounted subrouters inherit them.
	r.NotFound(notFound)
	r.MethodNotAllowed(methodNotAllowed)

	// ========================
	// Operations Endpoints
	// ========================
	r.Group(func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitOps())
		get(r, "/healthz", router.handler.Health)
		if router.config.MetricsEnabled {
			get(r, router.config.MetricsPath, promhttp.Handler().ServeHTTP)
		}
	})

	// ========================
	// Proxy Endpoints
	// ========================
	// Middleware is attached per route group, so the method check above runs
	// first and a 405 never spends rate limit budget.
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(router.rateLimit())
			r.Use(chimiddleware.Compress(5, "application/json"))

			get(r, "/proxy/*", router.handler.Proxy)

			get(r, "/filter", router.handler.Filter)
			get(r, "/recent", router.handler.Recent)
			get(r, "/popular", router.handler.Popular)

			get(r, "/kodik/episode", router.handler.KodikEpisode)
			get(r, "/kodik/search", router.handler.KodikSearch)
			get(r, "/kodik/*", router.handler.KodikNotFound)
		})
	})

	return r
}

// rateLimit returns the sliding-window limiter middleware, or a no-op when
// limiting is disabled.
func (router *Router) rateLimit() func(http.Handler) http.Handler {
	if router.limiter == nil {
		return func(next http.Handler) http.Handler {
			return next
		}
	}
	return router.limiter.Middleware(RateLimited(router.limiter.Limit(), router.limiter.Window()))
}

// get registers h for GET and an empty 200 for OPTIONS on pattern.
func get(r chi.Router, pattern string, h http.HandlerFunc) {
	r.Get(pattern, h)
	r.Options(pattern, optionsOK)
}

// optionsOK answers non-preflight OPTIONS requests. Preflights are answered
// by the CORS middleware before routing.
func optionsOK(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func methodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Allow", strings.Join(allowedMethods, ", "))
	respondJSON(w, http.StatusMethodNotAllowed, models.ErrorResponse{
		Error:   models.ErrorMethodNotAllowed,
		Message: "Method not allowed",
		Allowed: allowedMethods,
	})
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, models.ErrorResponse{
		Error:   models.ErrorNotFound,
		Message: "Route not found",
		Details: r.URL.Path,
	})
}
