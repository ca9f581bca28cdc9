// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

// Package rewrite replaces cover-image host URLs in upstream JSON with
// URLs that point back at this proxy.
//
// Matching is fail-open: a URL on an unknown host is returned unchanged, so
// new upstream CDN hosts degrade to direct links instead of broken ones.
package rewrite

import "strings"

// ProxyPrefix is the path under which the proxy serves upstream resources.
const ProxyPrefix = "/api/proxy/"

const (
	placeholderMarker = "placeholders/"
	uploadsMarker     = "uploads/"
	coverKey          = "cover"
)

// DefaultHosts lists the known image-host spellings, scheme-qualified first.
var DefaultHosts = []string{
	"https://cover.imglib.info",
	"http://cover.imglib.info",
	"cover.imglib.info",
}

// Rewriter rewrites image URLs for a fixed set of host spellings.
// The zero value uses DefaultHosts.
type Rewriter struct {
	Hosts []string
}

var defaultRewriter = Rewriter{}

// Rewrite applies the default host list. See Rewriter.Rewrite.
func Rewrite(v any, base string) any {
	return defaultRewriter.Rewrite(v, base)
}

// URL applies the default host list. See Rewriter.URL.
func URL(raw, base string) string {
	return defaultRewriter.URL(raw, base)
}

func (rw Rewriter) hosts() []string {
	if len(rw.Hosts) == 0 {
		return DefaultHosts
	}
	return rw.Hosts
}

// URL maps an image-host URL to base + ProxyPrefix + path.
// Placeholder URLs, already-proxied URLs and unknown hosts are returned unchanged.
func (rw Rewriter) URL(raw, base string) string {
	if raw == "" || strings.Contains(raw, placeholderMarker) || strings.Contains(raw, ProxyPrefix) {
		return raw
	}

	for _, host := range rw.hosts() {
		idx := strings.Index(raw, host)
		if idx < 0 {
			continue
		}
		path := strings.TrimPrefix(raw[idx+len(host):], "/")
		if path == "" {
			return raw
		}
		return base + ProxyPrefix + path
	}
	return raw
}

// Rewrite returns a copy of v with image URLs rewritten against base.
// v is never modified. Scalars at the top level are returned as is.
//
// Object members are handled in this order:
//  1. a "cover" member holding an object has each of its string members
//     rewritten directly
//  2. a string containing a known host or "uploads/" is rewritten
//  3. objects and arrays are rewritten recursively
//  4. anything else is copied
func (rw Rewriter) Rewrite(v any, base string) any {
	switch t := v.(type) {
	case Object:
		return rw.object(t, base)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = rw.Rewrite(elem, base)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = rw.member(k, val, base)
		}
		return out
	default:
		return v
	}
}

func (rw Rewriter) object(obj Object, base string) Object {
	out := make(Object, len(obj))
	for i, m := range obj {
		out[i] = Member{Key: m.Key, Value: rw.member(m.Key, m.Value, base)}
	}
	return out
}

func (rw Rewriter) member(key string, val any, base string) any {
	if key == coverKey {
		switch cover := val.(type) {
		case Object:
			out := make(Object, len(cover))
			for i, m := range cover {
				out[i] = Member{Key: m.Key, Value: rw.coverValue(m.Value, base)}
			}
			return out
		case map[string]any:
			out := make(map[string]any, len(cover))
			for k, cv := range cover {
				out[k] = rw.coverValue(cv, base)
			}
			return out
		}
	}

	if s, ok := val.(string); ok {
		if rw.looksLikeImage(s) {
			return rw.URL(s, base)
		}
		return s
	}
	return rw.Rewrite(val, base)
}

func (rw Rewriter) coverValue(val any, base string) any {
	if s, ok := val.(string); ok {
		return rw.URL(s, base)
	}
	return rw.Rewrite(val, base)
}

func (rw Rewriter) looksLikeImage(s string) bool {
	if strings.Contains(s, uploadsMarker) {
		return true
	}
	for _, host := range rw.hosts() {
		if strings.Contains(s, host) {
			return true
		}
	}
	return false
}
