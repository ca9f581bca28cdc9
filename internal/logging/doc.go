// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

// Package logging provides centralized zerolog-based structured logging.
//
// # Overview
//
// The package provides:
//   - A global zerolog logger configured once from main via Init
//   - JSON output for production, console output for development
//   - Request and correlation ID propagation through context.Context
//   - An slog adapter so sutureslog writes through the same logger
//   - Helpers that keep tokens and client-supplied values out of log lines
//
// # Quick Start
//
//	logging.Init(logging.Config{Level: "info", Format: "json", Timestamp: true})
//
//	logging.Info().Str("addr", ":3000").Msg("Server starting")
//	logging.Ctx(r.Context()).Warn().Err(err).Msg("Upstream fetch failed")
//
// Always terminate log chains with .Msg() or .Send().
package logging
