// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package logging

import (
	"fmt"
	"strings"
)

// SanitizeToken masks a token, showing only its first and last 4 characters.
// Example: "0123456789abcdef" -> "0123...cdef"
func SanitizeToken(token string) string {
	if token == "" {
		return ""
	}
	if len(token) <= 12 {
		return "***"
	}
	return token[:4] + "..." + token[len(token)-4:]
}

// SanitizeValue escapes control characters so client-supplied values
// (paths, query strings, upstream bodies) cannot forge log lines, and
// truncates the result to maxLen bytes when maxLen > 0.
func SanitizeValue(s string, maxLen int) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
			continue
		}
		b.WriteRune(r)
	}
	out := b.String()
	if maxLen > 0 && len(out) > maxLen {
		return out[:maxLen] + "..."
	}
	return out
}
