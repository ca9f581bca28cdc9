// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

// Package validation provides struct validation using go-playground/validator v10.
//
// A single validator instance is shared by the process. It caches struct
// metadata and reports field names from `query` or `koanf` tags, so request
// handlers and the configuration loader produce messages that name the
// parameter or key the user supplied.
//
//	type episodeRequest struct {
//	    EpisodeID string `query:"episode_id" validate:"required,alphanum,max=32"`
//	}
package validation
