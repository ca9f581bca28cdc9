// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package kodik

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animeproxy/internal/upstream"
)

// ErrNoResolver is returned when no resolver endpoint is configured.
var ErrNoResolver = errors.New("kodik: no link resolver configured")

// Link is one playable stream.
type Link struct {
	Src  string `json:"src"`
	Type string `json:"type,omitempty"`
}

// Links maps a quality label such as "720" to its streams.
type Links map[string][]Link

// Resolver turns a Kodik embed link into direct stream links.
type Resolver interface {
	Links(ctx context.Context, link string) (Links, error)
}

// Fetcher performs upstream GETs. *upstream.Client implements it.
type Fetcher interface {
	Fetch(ctx context.Context, req upstream.Request) (*upstream.Response, error)
}

// HTTPResolver calls an external resolver service as
// GET {endpoint}?link=<embed>&token=<token>.
type HTTPResolver struct {
	endpoint string
	token    string
	fetcher  Fetcher
}

// NewResolver returns an HTTPResolver for endpoint, or a resolver that always
// fails with ErrNoResolver when endpoint is empty.
func NewResolver(endpoint, token string, fetcher Fetcher) Resolver {
	if endpoint == "" {
		return noResolver{}
	}
	return &HTTPResolver{endpoint: endpoint, token: token, fetcher: fetcher}
}

// Links implements Resolver.
func (r *HTTPResolver) Links(ctx context.Context, link string) (Links, error) {
	u, err := url.Parse(r.endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid resolver endpoint: %w", err)
	}
	q := u.Query()
	q.Set("link", link)
	q.Set("token", r.token)
	u.RawQuery = q.Encode()

	resp, err := r.fetcher.Fetch(ctx, upstream.Request{Kind: upstream.KindKodik, URL: u.String()})
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", link, err)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("resolve %s: resolver returned %d", link, resp.Status)
	}

	var links Links
	if err := json.Unmarshal(resp.Body, &links); err != nil {
		return nil, fmt.Errorf("resolve %s: decode: %w", link, err)
	}
	return links, nil
}

type noResolver struct{}

func (noResolver) Links(context.Context, string) (Links, error) {
	return nil, ErrNoResolver
}
