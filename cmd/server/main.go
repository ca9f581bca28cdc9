// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/tomtom215/animeproxy/internal/config"
	"github.com/tomtom215/animeproxy/internal/logging"
	"github.com/tomtom215/animeproxy/internal/metrics"
	"github.com/tomtom215/animeproxy/internal/supervisor"
	"github.com/tomtom215/animeproxy/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("api_base", cfg.Upstream.APIBase).
		Str("image_base", cfg.Upstream.ImageBase).
		Msg("Starting AnimeProxy")

	metrics.AppInfo.WithLabelValues(version, runtime.Version()).Set(1)

	if !cfg.Kodik.HasToken() {
		logging.Warn().Msg("KODIK_PUBLIC_TOKEN not set, Kodik requests will use a placeholder token and are likely to fail")
	}

	// === CORE COMPONENTS ===

	wired, err := buildApp(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create proxy service")
	}
	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Per-client rate limiting is disabled")
	}
	if cfg.Kodik.ResolverURL == "" {
		logging.Info().Msg("No Kodik resolver configured, the episode endpoint will return no links")
	}
	server := wired.server

	// === SUPERVISOR TREE ===

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger("supervisor"), supervisor.DefaultTreeConfig())
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Cache.JanitorInterval > 0 {
		tree.AddMaintenanceService(services.NewCacheJanitorService(wired.cache, cfg.Cache.JanitorInterval))
		logging.Info().Dur("interval", cfg.Cache.JanitorInterval).Msg("Cache janitor enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	select {
	case <-ctx.Done():
		logging.Info().Msg("Shutdown signal received, waiting for services to stop")
		err = <-errCh
	case err = <-errCh:
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	for _, svc := range unstopped {
		logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
	}

	logging.Info().Msg("AnimeProxy stopped")
}
