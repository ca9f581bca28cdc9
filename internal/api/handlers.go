// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package api

import (
	"time"

	"github.com/tomtom215/animeproxy/internal/kodik"
	"github.com/tomtom215/animeproxy/internal/proxy"
)

// Deps are the collaborators a Handler needs.
type Deps struct {
	Proxy     *proxy.Service
	Episodes  *kodik.Extractor
	Catalogue *kodik.Client

	// PublicBaseURL, when set, replaces the base derived from request
	// headers in rewritten image URLs.
	PublicBaseURL string
	Version       string
}

// Handler contains dependencies for API handlers
//
// Handler methods are split across files:
//   - handlers.go: Handler struct and constructor (this file)
//   - handlers_helpers.go: response writing and error mapping
//   - handlers_proxy.go: /api/proxy/*
//   - handlers_catalog.go: /api/filter, /api/recent, /api/popular
//   - handlers_kodik.go: /api/kodik/*
//   - handlers_health.go: /healthz
type Handler struct {
	proxy         *proxy.Service
	episodes      *kodik.Extractor
	catalogue     *kodik.Client
	publicBaseURL string
	version       string
	startTime     time.Time
}

// NewHandler creates a Handler. Proxy is required; the Kodik collaborators
// may be nil, in which case the Kodik routes answer 502.
func NewHandler(d Deps) *Handler {
	return &Handler{
		proxy:         d.Proxy,
		episodes:      d.Episodes,
		catalogue:     d.Catalogue,
		publicBaseURL: d.PublicBaseURL,
		version:       d.Version,
		startTime:     time.Now(),
	}
}
