// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package main

import (
	"fmt"
	"net/http"

	"github.com/tomtom215/animeproxy/internal/api"
	"github.com/tomtom215/animeproxy/internal/cache"
	"github.com/tomtom215/animeproxy/internal/config"
	"github.com/tomtom215/animeproxy/internal/kodik"
	"github.com/tomtom215/animeproxy/internal/proxy"
	"github.com/tomtom215/animeproxy/internal/ratelimit"
	"github.com/tomtom215/animeproxy/internal/rewrite"
	"github.com/tomtom215/animeproxy/internal/upstream"
)

// app holds the wired components main hands to the supervisor tree.
type app struct {
	server *http.Server
	cache  *cache.Cache
}

// buildApp wires the request path: cache, limiter, upstream client, proxy
// service, Kodik helpers and router.
func buildApp(cfg *config.Config) (*app, error) {
	responseCache := cache.New(cfg.Cache.TTL, cache.WithSweepThreshold(cfg.Cache.SweepThreshold))

	var limiter *ratelimit.Limiter
	if !cfg.Security.RateLimitDisabled {
		limiter = ratelimit.New(ratelimit.Config{
			Limit:      cfg.Security.RateLimitRequests,
			Window:     cfg.Security.RateLimitWindow,
			MaxClients: cfg.Security.MaxClients,
		})
	}

	fetcher := upstream.New(upstream.Config{
		Timeout:        cfg.Upstream.Timeout,
		MaxBodyBytes:   cfg.Upstream.MaxBodyBytes,
		BreakerEnabled: cfg.Upstream.BreakerEnabled,
	})

	proxyService, err := proxy.NewService(proxy.Config{
		APIBase:   cfg.Upstream.APIBase,
		ImageBase: cfg.Upstream.ImageBase,
		Cache:     responseCache,
		Fetcher:   fetcher,
		Rewriter:  rewrite.Rewriter{Hosts: cfg.Upstream.ImageHosts},
	})
	if err != nil {
		return nil, fmt.Errorf("proxy service: %w", err)
	}

	token := cfg.Kodik.Token
	if token == "" {
		token = config.PlaceholderToken
	}

	handler := api.NewHandler(api.Deps{
		Proxy:         proxyService,
		Episodes:      kodik.NewExtractor(kodik.NewResolver(cfg.Kodik.ResolverURL, token, fetcher), cfg.Kodik.ResolveInterval),
		Catalogue:     kodik.NewClient(cfg.Kodik.APIBase, token, fetcher),
		PublicBaseURL: cfg.Server.PublicBaseURL,
		Version:       version,
	})
	router := api.NewRouter(handler, limiter, api.NewRouterConfig(cfg))

	return &app{
		server: &http.Server{
			Addr:              cfg.Server.Addr(),
			Handler:           router.SetupChi(),
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
		},
		cache: responseCache,
	}, nil
}
