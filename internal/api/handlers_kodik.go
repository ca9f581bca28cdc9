// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package api

import (
	"net/http"

	"github.com/tomtom215/animeproxy/internal/kodik"
	"github.com/tomtom215/animeproxy/internal/models"
	"github.com/tomtom215/animeproxy/internal/proxy"
	"github.com/tomtom215/animeproxy/internal/validation"
)

// EpisodeRequest holds the query parameters of /api/kodik/episode.
type EpisodeRequest struct {
	EpisodeID string `query:"episode_id" validate:"required,alphanum,max=32"`
}

// SearchRequest holds the query parameters of /api/kodik/search.
type SearchRequest struct {
	Title string `query:"title" validate:"required,max=200"`
	Limit int    `query:"limit"`
}

// validateRequest validates a struct using go-playground/validator and writes
// a 400 envelope on failure. It reports whether the request may proceed.
func validateRequest(w http.ResponseWriter, r *http.Request, v any) bool {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return true
	}
	respondError(w, r, http.StatusBadRequest, models.ErrorResponse{
		Error:   models.ErrorValidation,
		Message: verr.Error(),
	}, nil)
	return false
}

func respondKodikUnavailable(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusBadGateway, models.ErrorResponse{
		Error:   models.ErrorBadGateway,
		Message: "Kodik integration is not configured",
	}, nil)
}

// KodikEpisode serves GET /api/kodik/episode?episode_id=...
//
// The episode document is fetched through the proxy service, then every Kodik
// player in it is resolved to direct links. Players that fail to resolve are
// left out; the response lists the rest ordered by views.
func (h *Handler) KodikEpisode(w http.ResponseWriter, r *http.Request) {
	defer h.proxy.MaybeSweep()

	req := EpisodeRequest{EpisodeID: r.URL.Query().Get("episode_id")}
	if !validateRequest(w, r, &req) {
		return
	}
	if h.episodes == nil {
		respondKodikUnavailable(w, r)
		return
	}

	res, err := h.proxy.FetchAPI(r.Context(), proxy.APIRequest{
		Path:   "episodes/" + req.EpisodeID,
		Header: r.Header,
		Base:   h.externalBase(r),
	})
	if err != nil {
		respondFetchError(w, r, err, "")
		return
	}
	if res.Status != http.StatusOK {
		writeAPIResult(w, r, res, "Episode not found")
		return
	}

	links := h.episodes.EpisodeLinks(r.Context(), res.Document)
	setCacheHeader(w, res.Cached)
	respondJSON(w, http.StatusOK, models.EpisodeLinksResponse{
		EpisodeID:  req.EpisodeID,
		KodikLinks: links,
		TotalLinks: len(links),
	})
}

// KodikSearch serves GET /api/kodik/search?title=...&limit=...
func (h *Handler) KodikSearch(w http.ResponseWriter, r *http.Request) {
	req := SearchRequest{
		Title: r.URL.Query().Get("title"),
		Limit: kodik.ClampSearchLimit(getIntParam(r, "limit", kodik.DefaultSearchLimit)),
	}
	if !validateRequest(w, r, &req) {
		return
	}
	if h.catalogue == nil {
		respondKodikUnavailable(w, r)
		return
	}

	results, err := h.catalogue.Search(r.Context(), req.Title, req.Limit)
	if err != nil {
		respondError(w, r, http.StatusBadGateway, models.ErrorResponse{
			Error:   models.ErrorBadGateway,
			Message: "Failed to search Kodik",
		}, err)
		return
	}
	respondJSON(w, http.StatusOK, models.KodikSearchResponse{Results: results})
}

// KodikNotFound answers every other /api/kodik/* path.
func (h *Handler) KodikNotFound(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusNotFound, models.ErrorResponse{
		Error:   models.ErrorNotFound,
		Message: "Unknown Kodik endpoint",
		Details: r.URL.Path,
	})
}
