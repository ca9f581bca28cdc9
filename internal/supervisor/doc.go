// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

/*
Package supervisor provides process supervision using suture v4.

# Overview

Services are organized into two layers:

	RootSupervisor ("animeproxy")
	├── APISupervisor ("api-layer")
	│   └── HTTPServerService
	└── MaintenanceSupervisor ("maintenance-layer")
	    └── CacheJanitorService (only when cache.janitor_interval > 0)

Each layer has its own failure counting, so a crash-looping janitor backs
off without affecting request handling.

# Logging

Supervisor events (service failures, restarts, backoff) are routed through
sutureslog into the process zerolog logger:

	logger := logging.NewSlogLogger("supervisor")
	tree, err := supervisor.NewSupervisorTree(logger, supervisor.DefaultTreeConfig())

# Usage

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	if cfg.Cache.JanitorInterval > 0 {
	    tree.AddMaintenanceService(services.NewCacheJanitorService(responseCache, cfg.Cache.JanitorInterval))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := tree.Serve(ctx); err != nil && !errors.Is(err, context.Canceled) {
	    logging.Error().Err(err).Msg("Supervisor stopped")
	}
*/
package supervisor
