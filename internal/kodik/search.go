// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package kodik

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"

	"github.com/tomtom215/animeproxy/internal/upstream"
)

// Search limits.
const (
	DefaultSearchLimit = 10
	MaxSearchLimit     = 100
)

// Client queries the Kodik catalogue API.
type Client struct {
	apiBase string
	token   string
	fetcher Fetcher
}

// NewClient creates a catalogue client for apiBase (e.g. https://kodikapi.com).
func NewClient(apiBase, token string, fetcher Fetcher) *Client {
	return &Client{
		apiBase: strings.TrimRight(apiBase, "/"),
		token:   token,
		fetcher: fetcher,
	}
}

type searchResponse struct {
	Results []json.RawMessage `json:"results"`
}

// Search returns the catalogue entries matching title, verbatim.
// limit is clamped to [1, MaxSearchLimit].
func (c *Client) Search(ctx context.Context, title string, limit int) ([]json.RawMessage, error) {
	limit = ClampSearchLimit(limit)

	q := url.Values{}
	q.Set("token", c.token)
	q.Set("title", title)
	q.Set("limit", strconv.Itoa(limit))
	reqURL := c.apiBase + "/search?" + q.Encode()

	resp, err := c.fetcher.Fetch(ctx, upstream.Request{Kind: upstream.KindKodik, URL: reqURL})
	if err != nil {
		return nil, fmt.Errorf("kodik search: %w", err)
	}
	if resp.Status != http.StatusOK {
		return nil, fmt.Errorf("kodik search: catalogue returned %d", resp.Status)
	}

	var out searchResponse
	if err := json.Unmarshal(resp.Body, &out); err != nil {
		return nil, fmt.Errorf("kodik search: decode: %w", err)
	}
	if out.Results == nil {
		out.Results = []json.RawMessage{}
	}
	return out.Results, nil
}

// ClampSearchLimit applies the default and bounds to a requested limit.
func ClampSearchLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultSearchLimit
	case limit > MaxSearchLimit:
		return MaxSearchLimit
	default:
		return limit
	}
}
