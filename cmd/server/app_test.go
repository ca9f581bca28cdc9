// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/tomtom215/animeproxy/internal/config"
)

func testConfig(upstreamURL string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:            3000,
			Host:            "127.0.0.1",
			ReadTimeout:     time.Second,
			WriteTimeout:    time.Second,
			IdleTimeout:     time.Second,
			ShutdownTimeout: time.Second,
		},
		Upstream: config.UpstreamConfig{
			APIBase:      upstreamURL + "/api",
			ImageBase:    upstreamURL,
			Timeout:      time.Second,
			MaxBodyBytes: 1 << 20,
		},
		Cache: config.CacheConfig{
			TTL:            time.Minute,
			SweepThreshold: 1000,
		},
		Security: config.SecurityConfig{
			RateLimitRequests:    100,
			RateLimitWindow:      time.Minute,
			MaxClients:           100,
			CORSOrigins:          []string{"*"},
			OpsRateLimitRequests: 600,
		},
		Kodik: config.KodikConfig{
			APIBase: upstreamURL + "/kodik",
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

func TestBuildApp(t *testing.T) {
	up := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":{"id":1}}`))
	}))
	defer up.Close()

	a, err := buildApp(testConfig(up.URL))
	if err != nil {
		t.Fatalf("buildApp() error = %v", err)
	}
	if a.server.Addr != "127.0.0.1:3000" {
		t.Errorf("server.Addr = %q, want 127.0.0.1:3000", a.server.Addr)
	}
	if a.server.ReadHeaderTimeout != time.Second {
		t.Errorf("server.ReadHeaderTimeout = %v, want 1s", a.server.ReadHeaderTimeout)
	}

	for _, path := range []string{"/healthz", "/api/proxy/anime/1"} {
		rec := httptest.NewRecorder()
		a.server.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s = %d, want 200", path, rec.Code)
		}
	}
	if a.cache.Len() != 1 {
		t.Errorf("cache.Len() = %d, want 1 after one proxied API call", a.cache.Len())
	}
}

func TestBuildApp_InvalidBase(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:1")
	cfg.Upstream.APIBase = "://missing-scheme"

	a, err := buildApp(cfg)
	if err == nil {
		t.Fatal("buildApp() error = nil, want proxy service error")
	}
	if a != nil {
		t.Error("buildApp() returned an app alongside an error")
	}
	if !strings.Contains(err.Error(), "proxy service") {
		t.Errorf("buildApp() error = %q, want it to name the proxy service", err)
	}
}
