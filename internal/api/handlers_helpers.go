// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animeproxy/internal/logging"
	"github.com/tomtom215/animeproxy/internal/models"
	"github.com/tomtom215/animeproxy/internal/proxy"
	"github.com/tomtom215/animeproxy/internal/upstream"
)

const (
	defaultHost   = "localhost:3000"
	defaultScheme = "http"

	headerCache       = "X-Cache"
	headerPlaceholder = "X-Placeholder"
	cacheHit          = "HIT"
	cacheMiss         = "MISS"
)

// respondJSON sends a JSON response with proper headers
func respondJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Add("Vary", "Accept-Encoding")
	w.Header().Set("ETag", generateETag(data))

	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// generateETag creates a simple ETag from data using FNV-1a hash
func generateETag(data []byte) string {
	hash := uint32(2166136261)
	for _, b := range data {
		hash ^= uint32(b)
		hash *= 16777619
	}
	return `"` + strconv.FormatUint(uint64(hash), 16) + `"`
}

// respondError sends an error envelope. err, when non-nil, is logged.
func respondError(w http.ResponseWriter, r *http.Request, status int, resp models.ErrorResponse, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", resp.Error).
			Int("status", status).
			Str("path", logging.SanitizeValue(r.URL.Path, 256)).
			Str("error", logging.SanitizeValue(err.Error(), 512)).
			Msg("API Error")
	}
	respondJSON(w, status, resp)
}

// mapFetchError translates a proxy or upstream failure to a status and
// envelope.
func mapFetchError(err error) (int, models.ErrorResponse) {
	if errors.Is(err, proxy.ErrInvalidPath) {
		return http.StatusBadRequest, models.ErrorResponse{
			Error:   models.ErrorInvalidPath,
			Message: "Invalid path",
		}
	}

	var uerr *upstream.Error
	if errors.As(err, &uerr) {
		switch uerr.Kind {
		case upstream.ErrorKindStatus:
			return uerr.Status, models.ErrorResponse{
				Error:   models.ErrorUpstream,
				Message: "Upstream service error",
				Details: uerr.Body,
			}
		case upstream.ErrorKindTimeout:
			return http.StatusRequestTimeout, models.ErrorResponse{
				Error:   models.ErrorTimeout,
				Message: "Request timeout",
			}
		case upstream.ErrorKindUnreachable, upstream.ErrorKindBreakerOpen:
			return http.StatusBadGateway, models.ErrorResponse{
				Error:   models.ErrorBadGateway,
				Message: "Failed to reach original API",
			}
		case upstream.ErrorKindTooLarge:
			return http.StatusBadGateway, models.ErrorResponse{
				Error:   models.ErrorBadGateway,
				Message: "Upstream response too large",
			}
		}
	}

	return http.StatusInternalServerError, models.ErrorResponse{
		Error:   models.ErrorInternal,
		Message: "Internal server error",
		Details: err.Error(),
	}
}

// respondFetchError writes the envelope for err. A non-empty message
// replaces the default one for the mapped kind.
func respondFetchError(w http.ResponseWriter, r *http.Request, err error, message string) {
	status, resp := mapFetchError(err)
	if message != "" {
		resp.Message = message
	}
	respondError(w, r, status, resp, err)
}

// respondNotFound writes the not_found envelope for an upstream 404.
func respondNotFound(w http.ResponseWriter, url, message string) {
	if message == "" {
		message = "Resource not found"
	}
	respondJSON(w, http.StatusNotFound, models.ErrorResponse{
		Error:   models.ErrorNotFound,
		Message: message,
		Details: url,
	})
}

// writeAPIResult relays an upstream API answer.
func writeAPIResult(w http.ResponseWriter, r *http.Request, res *proxy.APIResult, message string) {
	setCacheHeader(w, res.Cached)

	if res.Status == http.StatusNotFound {
		respondNotFound(w, res.URL, message)
		return
	}

	if res.Document == nil {
		contentType := res.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		w.Header().Set("Content-Type", contentType)
		w.WriteHeader(res.Status)
		if _, err := w.Write(res.Raw); err != nil {
			logging.Ctx(r.Context()).Debug().Err(err).Msg("Failed to write upstream body")
		}
		return
	}

	respondJSON(w, res.Status, res.Document)
}

func setCacheHeader(w http.ResponseWriter, hit bool) {
	if hit {
		w.Header().Set(headerCache, cacheHit)
		return
	}
	w.Header().Set(headerCache, cacheMiss)
}

// externalBase returns the base URL clients use to reach this proxy.
func (h *Handler) externalBase(r *http.Request) string {
	if h.publicBaseURL != "" {
		return strings.TrimRight(h.publicBaseURL, "/")
	}

	scheme := r.Header.Get("X-Forwarded-Proto")
	if scheme == "" {
		scheme = defaultScheme
	}
	host := r.Host
	if host == "" {
		host = defaultHost
	}
	return scheme + "://" + host
}

// getIntParam extracts an integer query parameter with a default value.
// Zero counts as absent.
func getIntParam(r *http.Request, name string, defaultValue int) int {
	v := r.URL.Query().Get(name)
	if v == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(v)
	if err != nil || n == 0 {
		return defaultValue
	}
	return n
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
