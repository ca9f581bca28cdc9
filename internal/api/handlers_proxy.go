// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package api

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/animeproxy/internal/logging"
	"github.com/tomtom215/animeproxy/internal/models"
	"github.com/tomtom215/animeproxy/internal/proxy"
)

const (
	imageCacheControl    = "public, max-age=3600"
	imageHitCacheControl = "public, max-age=300"
)

// Proxy serves GET /api/proxy/*.
//
// The wildcard is validated before anything else; a traversal attempt never
// reaches the upstream. Image paths go to the image host, everything else to
// the metadata API with image URLs in the JSON rewritten to this proxy.
func (h *Handler) Proxy(w http.ResponseWriter, r *http.Request) {
	defer h.proxy.MaybeSweep()

	raw := chi.URLParam(r, "*")
	p, err := proxy.ValidatePath(raw)
	if err != nil {
		respondError(w, r, http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrorInvalidPath,
			Message: "Invalid path",
		}, nil)
		return
	}

	if proxy.IsImagePath(p) {
		h.serveImage(w, r, raw)
		return
	}

	res, err := h.proxy.FetchAPI(r.Context(), proxy.APIRequest{
		Path:   raw,
		Query:  r.URL.Query(),
		Header: r.Header,
		Base:   h.externalBase(r),
	})
	if err != nil {
		respondFetchError(w, r, err, "")
		return
	}
	writeAPIResult(w, r, res, "")
}

func (h *Handler) serveImage(w http.ResponseWriter, r *http.Request, raw string) {
	res, err := h.proxy.FetchImage(r.Context(), raw, r.Header)
	if err != nil {
		respondFetchError(w, r, err, "")
		return
	}

	hdr := w.Header()
	switch {
	case res.Placeholder:
		hdr.Set("Content-Type", res.ContentType)
		hdr.Set(headerPlaceholder, "true")
		hdr.Set(headerCache, cacheMiss)
	case res.Status == http.StatusNotFound:
		hdr.Set(headerCache, cacheMiss)
		respondNotFound(w, res.URL, "Image not found")
		return
	case res.Status >= 200 && res.Status < 300:
		hdr.Set("Content-Type", res.ContentType)
		hdr.Set("Content-Length", strconv.Itoa(len(res.Body)))
		if res.Cached {
			hdr.Set("Cache-Control", imageHitCacheControl)
		} else {
			hdr.Set("Cache-Control", imageCacheControl)
		}
		setCacheHeader(w, res.Cached)
	default:
		// Other 4xx answers are relayed as they came.
		hdr.Set("Content-Type", res.ContentType)
		hdr.Set(headerCache, cacheMiss)
	}

	w.WriteHeader(res.Status)
	if _, err := w.Write(res.Body); err != nil {
		logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write image body")
	}
}
