// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package proxy

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// ErrInvalidPath is returned for paths that could escape the upstream base.
var ErrInvalidPath = errors.New("invalid path")

// imageExtensions are matched case-insensitively.
var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".gif":  {},
}

// ValidatePath percent-decodes p and rejects it if the decoded form contains
// ".." or "//". It returns the decoded path.
func ValidatePath(p string) (string, error) {
	decoded, err := url.PathUnescape(p)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidPath, err)
	}
	if decoded == "" || strings.Contains(decoded, "..") || strings.Contains(decoded, "//") {
		return "", ErrInvalidPath
	}
	return decoded, nil
}

// IsImagePath reports whether p addresses a cover image on the image host.
func IsImagePath(p string) bool {
	if !strings.Contains(p, "uploads/") {
		return false
	}
	_, ok := imageExtensions[strings.ToLower(path.Ext(p))]
	return ok
}
