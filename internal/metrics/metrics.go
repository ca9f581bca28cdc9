// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeproxy_http_requests_total",
			Help: "Total number of HTTP requests served",
		},
		[]string{"method", "path", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animeproxy_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animeproxy_http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)

	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animeproxy_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the per-client rate limiter",
		},
	)

	// Response Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeproxy_cache_hits_total",
			Help: "Total number of response cache hits",
		},
		[]string{"kind"}, // "api", "image"
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeproxy_cache_misses_total",
			Help: "Total number of response cache misses",
		},
		[]string{"kind"},
	)

	CacheEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "animeproxy_cache_entries",
			Help: "Current number of stored responses, expired ones included",
		},
	)

	CacheEvictions = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animeproxy_cache_evictions_total",
			Help: "Total number of expired responses removed by sweeps",
		},
	)

	// Upstream Metrics
	UpstreamRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeproxy_upstream_requests_total",
			Help: "Total number of upstream fetches by outcome",
		},
		[]string{"kind", "outcome"}, // outcome: "ok", "client_error", "server_error", "timeout", "unreachable", "rejected", "error"
	)

	UpstreamDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "animeproxy_upstream_duration_seconds",
			Help:    "Duration of upstream fetches in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15},
		},
		[]string{"kind"},
	)

	PlaceholderResponses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "animeproxy_placeholder_responses_total",
			Help: "Total number of blocked cover images replaced by the placeholder",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "animeproxy_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeproxy_circuit_breaker_requests_total",
			Help: "Total number of requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeproxy_circuit_breaker_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Kodik Metrics
	KodikResolves = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "animeproxy_kodik_resolves_total",
			Help: "Total number of Kodik player link resolutions by outcome",
		},
		[]string{"outcome"}, // "ok", "empty", "error"
	)

	// System Metrics
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "animeproxy_app_info",
			Help: "Application version and build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, path, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, path, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordCacheLookup records a response cache probe for kind ("api" or "image").
func RecordCacheLookup(kind string, hit bool) {
	if hit {
		CacheHits.WithLabelValues(kind).Inc()
		return
	}
	CacheMisses.WithLabelValues(kind).Inc()
}

// RecordCacheSweep records the outcome of a cache sweep.
func RecordCacheSweep(evicted, entries int) {
	if evicted > 0 {
		CacheEvictions.Add(float64(evicted))
	}
	CacheEntries.Set(float64(entries))
}

// RecordUpstream records an upstream fetch.
func RecordUpstream(kind, outcome string, duration time.Duration) {
	UpstreamRequests.WithLabelValues(kind, outcome).Inc()
	UpstreamDuration.WithLabelValues(kind).Observe(duration.Seconds())
}
