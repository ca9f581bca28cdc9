// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package api

import (
	"net/http"
	"net/url"
	"strconv"

	"github.com/tomtom215/animeproxy/internal/proxy"
)

// Catalogue listing bounds.
const (
	defaultListLimit = 20
	minListLimit     = 10
	maxListLimit     = 60
	defaultPage      = 1

	catalogPath = "anime"
	defaultSort = "-rating"
	recentSort  = "-updated_at"
)

var allowedSorts = map[string]struct{}{
	"rating":      {},
	"-rating":     {},
	"updated_at":  {},
	"-updated_at": {},
	"name":        {},
	"-name":       {},
	"created_at":  {},
	"-created_at": {},
}

// listQuery builds the paging part of a catalogue query and copies the named
// optional filters when the client supplied them.
func listQuery(r *http.Request, sort string, filters ...string) url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clamp(getIntParam(r, "limit", defaultListLimit), minListLimit, maxListLimit)))
	q.Set("page", strconv.Itoa(getIntParam(r, "page", defaultPage)))
	q.Set("sort", sort)

	in := r.URL.Query()
	for _, name := range filters {
		if v := in.Get(name); v != "" {
			q.Set(name, v)
		}
	}
	return q
}

// Filter serves GET /api/filter: search with filters and a sort from the
// allowed list, defaulting to -rating.
func (h *Handler) Filter(w http.ResponseWriter, r *http.Request) {
	sort := r.URL.Query().Get("sort")
	if _, ok := allowedSorts[sort]; !ok {
		sort = defaultSort
	}
	h.serveCatalog(w, r, listQuery(r, sort, "q", "type", "status", "year", "age_rating"), "Failed to filter anime")
}

// Recent serves GET /api/recent: most recently updated titles.
func (h *Handler) Recent(w http.ResponseWriter, r *http.Request) {
	h.serveCatalog(w, r, listQuery(r, recentSort, "type", "status"), "Failed to fetch recent anime")
}

// Popular serves GET /api/popular: highest rated titles.
func (h *Handler) Popular(w http.ResponseWriter, r *http.Request) {
	h.serveCatalog(w, r, listQuery(r, defaultSort, "type", "status", "year"), "Failed to fetch popular anime")
}

func (h *Handler) serveCatalog(w http.ResponseWriter, r *http.Request, q url.Values, message string) {
	defer h.proxy.MaybeSweep()

	res, err := h.proxy.FetchAPI(r.Context(), proxy.APIRequest{
		Path:   catalogPath,
		Query:  q,
		Header: r.Header,
		Base:   h.externalBase(r),
	})
	if err != nil {
		respondFetchError(w, r, err, message)
		return
	}
	writeAPIResult(w, r, res, message)
}
