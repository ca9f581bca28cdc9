// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package proxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/animeproxy/internal/cache"
	"github.com/tomtom215/animeproxy/internal/logging"
	"github.com/tomtom215/animeproxy/internal/metrics"
	"github.com/tomtom215/animeproxy/internal/rewrite"
	"github.com/tomtom215/animeproxy/internal/upstream"
)

// ErrNotJSON is returned when a successful API response body is not JSON.
var ErrNotJSON = errors.New("upstream response is not JSON")

// DefaultImageContentType is assumed when the image host sends none.
const DefaultImageContentType = "image/jpeg"

// Fetcher performs upstream GETs. *upstream.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, req upstream.Request) (*upstream.Response, error)
}

// Config configures a Service.
type Config struct {
	APIBase   string
	ImageBase string
	Cache     *cache.Cache
	Fetcher   Fetcher
	Rewriter  rewrite.Rewriter
}

// APIRequest is a metadata API call.
type APIRequest struct {
	// Path is relative to the API base and may be percent-encoded.
	Path  string
	Query url.Values

	// Header holds inbound client headers; see upstream.Request.
	Header http.Header

	// Base is the external base URL image links are rewritten to.
	Base string
}

// APIResult is the outcome of FetchAPI for statuses below 500.
type APIResult struct {
	Status int

	// Document is the rewritten JSON body. It is nil when the upstream
	// answered 4xx with a body that is not JSON; Raw holds that body.
	Document    any
	Raw         []byte
	ContentType string

	Cached bool
	URL    string
}

// ImageResult is the outcome of FetchImage for statuses below 500.
type ImageResult struct {
	Status      int
	Body        []byte
	ContentType string
	Cached      bool
	Placeholder bool
	URL         string
}

// Service resolves proxied paths against the upstream, with caching and
// request coalescing.
//
// Identical concurrent misses share one upstream fetch. Cached API documents
// are stored unrewritten and rewritten per caller, so one entry serves every
// external base URL.
//
// Thread Safety: safe for concurrent use.
type Service struct {
	apiBase   *url.URL
	imageBase *url.URL
	cache     *cache.Cache
	fetcher   Fetcher
	rewriter  rewrite.Rewriter
	group     singleflight.Group
}

// NewService creates a Service. The bases must be absolute URLs.
func NewService(cfg Config) (*Service, error) {
	apiBase, err := url.Parse(cfg.APIBase)
	if err != nil {
		return nil, fmt.Errorf("invalid api base: %w", err)
	}
	imageBase, err := url.Parse(cfg.ImageBase)
	if err != nil {
		return nil, fmt.Errorf("invalid image base: %w", err)
	}
	if cfg.Cache == nil {
		cfg.Cache = cache.New(cache.DefaultTTL)
	}
	if cfg.Fetcher == nil {
		return nil, errors.New("proxy: fetcher is required")
	}
	return &Service{
		apiBase:   apiBase,
		imageBase: imageBase,
		cache:     cfg.Cache,
		fetcher:   cfg.Fetcher,
		rewriter:  cfg.Rewriter,
	}, nil
}

type apiFetch struct {
	resp      *upstream.Response
	doc       any
	decodeErr error
}

// FetchAPI returns the rewritten JSON document at req.Path.
//
// Only 200 responses are cached. A 4xx response is returned as a result, not
// an error. Upstream failures are returned as *upstream.Error.
func (s *Service) FetchAPI(ctx context.Context, req APIRequest) (*APIResult, error) {
	p, err := ValidatePath(req.Path)
	if err != nil {
		return nil, err
	}
	target := s.apiBase.JoinPath(p).String()
	key := cache.Key(http.MethodGet, target, req.Query)

	if entry, ok := s.cache.Get(key); ok && entry.JSON != nil {
		metrics.RecordCacheLookup(string(upstream.KindAPI), true)
		return &APIResult{
			Status:      http.StatusOK,
			Document:    s.rewriter.Rewrite(entry.JSON, req.Base),
			ContentType: "application/json",
			Cached:      true,
			URL:         target,
		}, nil
	}
	metrics.RecordCacheLookup(string(upstream.KindAPI), false)

	v, err, shared := s.group.Do(key, func() (any, error) {
		fullURL := target
		if enc := req.Query.Encode(); enc != "" {
			fullURL += "?" + enc
		}
		resp, err := s.fetcher.Fetch(ctx, upstream.Request{Kind: upstream.KindAPI, URL: fullURL, Header: req.Header})
		if err != nil {
			return nil, err
		}
		doc, decodeErr := rewrite.Decode(resp.Body)
		if decodeErr == nil && resp.Status == http.StatusOK {
			s.cache.Put(key, cache.Entry{JSON: doc})
		}
		return &apiFetch{resp: resp, doc: doc, decodeErr: decodeErr}, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.Ctx(ctx).Debug().Str("key", logging.SanitizeValue(key, 256)).Msg("Coalesced upstream fetch")
	}

	f := v.(*apiFetch)
	res := &APIResult{
		Status:      f.resp.Status,
		ContentType: f.resp.ContentType(),
		URL:         target,
	}
	if f.decodeErr != nil {
		if f.resp.Status >= http.StatusBadRequest {
			res.Raw = f.resp.Body
			return res, nil
		}
		return nil, fmt.Errorf("%w: %s: %v", ErrNotJSON, target, f.decodeErr)
	}
	res.Document = s.rewriter.Rewrite(f.doc, req.Base)
	return res, nil
}

// FetchImage returns the image at path on the image host.
//
// A refusal page from the image host yields PlaceholderSVG with status 200 and
// Placeholder set; it is never cached. Only 2xx images are cached.
func (s *Service) FetchImage(ctx context.Context, path string, header http.Header) (*ImageResult, error) {
	p, err := ValidatePath(path)
	if err != nil {
		return nil, err
	}
	target := s.imageBase.JoinPath(p).String()
	key := cache.Key(http.MethodGet, target, nil)

	if entry, ok := s.cache.Get(key); ok && entry.IsImage() {
		metrics.RecordCacheLookup(string(upstream.KindImage), true)
		return &ImageResult{
			Status:      http.StatusOK,
			Body:        entry.Body,
			ContentType: entry.ContentType,
			Cached:      true,
			URL:         target,
		}, nil
	}
	metrics.RecordCacheLookup(string(upstream.KindImage), false)

	v, err, _ := s.group.Do(key, func() (any, error) {
		resp, err := s.fetcher.Fetch(ctx, upstream.Request{Kind: upstream.KindImage, URL: target, Header: header})
		if err != nil {
			return nil, err
		}

		contentType := resp.ContentType()
		if contentType == "" {
			contentType = DefaultImageContentType
		}

		if isBlocked(contentType, resp.Body) {
			metrics.PlaceholderResponses.Inc()
			logging.Ctx(ctx).Warn().Str("url", logging.SanitizeValue(target, 256)).Int("status", resp.Status).Msg("Image blocked by upstream, serving placeholder")
			return &ImageResult{
				Status:      http.StatusOK,
				Body:        PlaceholderSVG,
				ContentType: PlaceholderContentType,
				Placeholder: true,
				URL:         target,
			}, nil
		}

		if resp.Status >= 200 && resp.Status < 300 {
			s.cache.Put(key, cache.Entry{Body: resp.Body, ContentType: contentType})
		}
		return &ImageResult{
			Status:      resp.Status,
			Body:        resp.Body,
			ContentType: contentType,
			URL:         target,
		}, nil
	})
	if err != nil {
		return nil, err
	}

	res := *v.(*ImageResult)
	return &res, nil
}

// MaybeSweep evicts expired cache entries once the cache passes its sweep
// threshold. Call it at the end of each request.
func (s *Service) MaybeSweep() {
	evicted := s.cache.MaybeSweep()
	metrics.RecordCacheSweep(evicted, s.cache.Len())
}

// CacheStats returns the response cache counters.
func (s *Service) CacheStats() cache.Stats {
	return s.cache.Stats()
}
