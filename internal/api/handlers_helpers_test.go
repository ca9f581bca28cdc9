// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/tomtom215/animeproxy/internal/models"
	"github.com/tomtom215/animeproxy/internal/proxy"
	"github.com/tomtom215/animeproxy/internal/upstream"
)

func TestMapFetchError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"invalid path", proxy.ErrInvalidPath, http.StatusBadRequest, models.ErrorInvalidPath},
		{"wrapped invalid path", fmt.Errorf("proxy: %w", proxy.ErrInvalidPath), http.StatusBadRequest, models.ErrorInvalidPath},
		{"upstream 503", &upstream.Error{Kind: upstream.ErrorKindStatus, Status: 503, Body: "down"}, 503, models.ErrorUpstream},
		{"timeout", &upstream.Error{Kind: upstream.ErrorKindTimeout, Err: context.DeadlineExceeded}, http.StatusRequestTimeout, models.ErrorTimeout},
		{"unreachable", &upstream.Error{Kind: upstream.ErrorKindUnreachable}, http.StatusBadGateway, models.ErrorBadGateway},
		{"breaker open", &upstream.Error{Kind: upstream.ErrorKindBreakerOpen}, http.StatusBadGateway, models.ErrorBadGateway},
		{"too large", &upstream.Error{Kind: upstream.ErrorKindTooLarge}, http.StatusBadGateway, models.ErrorBadGateway},
		{"not json", fmt.Errorf("%w: boom", proxy.ErrNotJSON), http.StatusInternalServerError, models.ErrorInternal},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, models.ErrorInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := mapFetchError(tt.err)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if resp.Error != tt.wantKind {
				t.Errorf("kind = %q, want %q", resp.Error, tt.wantKind)
			}
		})
	}
}

func TestMapFetchError_UpstreamBodyInDetails(t *testing.T) {
	_, resp := mapFetchError(&upstream.Error{Kind: upstream.ErrorKindStatus, Status: 500, Body: "stack trace"})
	if resp.Details != "stack trace" {
		t.Errorf("details = %v, want upstream body", resp.Details)
	}
}

func TestExternalBase(t *testing.T) {
	tests := []struct {
		name   string
		public string
		host   string
		proto  string
		want   string
	}{
		{"host header", "", "proxy.example:8080", "", "http://proxy.example:8080"},
		{"forwarded proto", "", "proxy.example", "https", "https://proxy.example"},
		{"missing host", "", "", "", "http://localhost:3000"},
		{"configured base wins", "https://cdn.example/", "proxy.example", "http", "https://cdn.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := &Handler{publicBaseURL: tt.public}
			req := httptest.NewRequest(http.MethodGet, "/api/filter", nil)
			req.Host = tt.host
			if tt.proto != "" {
				req.Header.Set("X-Forwarded-Proto", tt.proto)
			}
			if got := h.externalBase(req); got != tt.want {
				t.Errorf("externalBase() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGetIntParam(t *testing.T) {
	tests := []struct {
		query string
		want  int
	}{
		{"", 20},
		{"limit=35", 35},
		{"limit=abc", 20},
		{"limit=0", 20},
		{"limit=-4", -4},
	}
	for _, tt := range tests {
		req := httptest.NewRequest(http.MethodGet, "/api/recent?"+tt.query, nil)
		if got := getIntParam(req, "limit", 20); got != tt.want {
			t.Errorf("getIntParam(%q) = %d, want %d", tt.query, got, tt.want)
		}
	}
}

func TestClamp(t *testing.T) {
	tests := []struct{ v, want int }{{5, 10}, {10, 10}, {33, 33}, {60, 60}, {61, 60}, {-4, 10}}
	for _, tt := range tests {
		if got := clamp(tt.v, minListLimit, maxListLimit); got != tt.want {
			t.Errorf("clamp(%d) = %d, want %d", tt.v, got, tt.want)
		}
	}
}

func TestGenerateETag(t *testing.T) {
	a := generateETag([]byte("hello"))
	if a != generateETag([]byte("hello")) {
		t.Error("generateETag() is not deterministic")
	}
	if a == generateETag([]byte("world")) {
		t.Error("different inputs produced the same ETag")
	}
	if a[0] != '"' || a[len(a)-1] != '"' {
		t.Errorf("ETag %s is not quoted", a)
	}
}

func TestRespondJSON(t *testing.T) {
	w := httptest.NewRecorder()
	respondJSON(w, http.StatusTeapot, map[string]string{"key": "value"})

	if w.Code != http.StatusTeapot {
		t.Errorf("status = %d, want 418", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}
	if w.Header().Get("ETag") == "" {
		t.Error("expected ETag header to be set")
	}
	if got := w.Body.String(); got != `{"key":"value"}` {
		t.Errorf("body = %s", got)
	}
}
