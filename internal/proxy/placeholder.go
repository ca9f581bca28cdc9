// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package proxy

import (
	"bytes"
	"strings"
)

// PlaceholderContentType is the content type of PlaceholderSVG.
const PlaceholderContentType = "image/svg+xml"

// PlaceholderSVG is served in place of covers the image host refuses to return.
var PlaceholderSVG = []byte(`<svg width="300" height="200" xmlns="http://www.w3.org/2000/svg">
  <defs>
    <linearGradient id="grad" x1="0%" y1="0%" x2="100%" y2="100%">
      <stop offset="0%" style="stop-color:#667eea;stop-opacity:1" />
      <stop offset="100%" style="stop-color:#764ba2;stop-opacity:1" />
    </linearGradient>
  </defs>
  <rect width="100%" height="100%" fill="url(#grad)" rx="8"/>
  <text x="50%" y="40%" font-family="Arial" font-size="24" fill="white" text-anchor="middle" dy=".3em">🎌</text>
  <text x="50%" y="60%" font-family="Arial" font-size="14" fill="white" text-anchor="middle" dy=".3em">Anime Cover</text>
</svg>
`)

var blockedMarkers = [][]byte{[]byte("<html"), []byte("403"), []byte("forbidden")}

// isBlocked reports whether an image response is really an HTML or JSON
// refusal page.
func isBlocked(contentType string, body []byte) bool {
	ct := strings.ToLower(contentType)
	if !strings.Contains(ct, "text/html") && !strings.Contains(ct, "application/json") {
		return false
	}
	lower := bytes.ToLower(body)
	for _, marker := range blockedMarkers {
		if bytes.Contains(lower, marker) {
			return true
		}
	}
	return false
}
