// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestSanitizeToken(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected string
	}{
		{"", ""},
		{"short", "***"},
		{"exactlytwelv", "***"},
		{"your_public_token_here", "your...here"},
		{"0123456789abcdef", "0123...cdef"},
	}

	for _, tt := range tests {
		if got := SanitizeToken(tt.input); got != tt.expected {
			t.Errorf("SanitizeToken(%q) = %q, want %q", tt.input, got, tt.expected)
		}
	}
}

func TestSanitizeValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		maxLen int
		want   string
	}{
		{"empty", "", 0, ""},
		{"plain path", "uploads/anime/1/cover.jpg", 0, "uploads/anime/1/cover.jpg"},
		{"newline escaped", "anime/1\nfake=entry", 0, `anime/1\x0afake=entry`},
		{"carriage return and tab", "a\r\tb", 0, `a\x0d\x09b`},
		{"delete escaped", "a\x7fb", 0, `a\x7fb`},
		{"unicode kept", "Наруто", 0, "Наруто"},
		{"truncated", "abcdefgh", 3, "abc..."},
		{"at limit not truncated", "abc", 3, "abc"},
		{"zero limit means unbounded", strings.Repeat("x", 300), 0, strings.Repeat("x", 300)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeValue(tt.input, tt.maxLen); got != tt.want {
				t.Errorf("SanitizeValue(%q, %d) = %q, want %q", tt.input, tt.maxLen, got, tt.want)
			}
		})
	}
}

func TestSanitizeValue_KeepsLogLineIntact(t *testing.T) {
	var buf bytes.Buffer
	l := NewTestLogger(&buf)

	l.Warn().Str("path", SanitizeValue("anime/1\n{\"level\":\"error\"}", 256)).Msg("Invalid path")

	out := strings.TrimSuffix(buf.String(), "\n")
	if strings.Contains(out, "\n") {
		t.Errorf("log output spans several lines: %q", out)
	}
	if !strings.Contains(out, `\\x0a`) {
		t.Errorf("log output %q does not contain the escaped newline", out)
	}
}
