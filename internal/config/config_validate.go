// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package config

import (
	"fmt"
	"strings"

	"github.com/tomtom215/animeproxy/internal/logging"
	"github.com/tomtom215/animeproxy/internal/validation"
)

// Validate checks that configuration is present and consistent.
// Struct tags are checked first, then the cross-field rules below.
func (c *Config) Validate() error {
	if verr := validation.ValidateStruct(c); verr != nil {
		return verr
	}

	validators := []func() error{
		c.validateServer,
		c.validateUpstream,
		c.validateSecurity,
		c.validateKodik,
		c.validateLogging,
	}
	for _, validator := range validators {
		if err := validator(); err != nil {
			return err
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.PublicBaseURL == "" {
		return nil
	}
	if err := validateHTTPURL(c.Server.PublicBaseURL, "PUBLIC_BASE_URL"); err != nil {
		return fmt.Errorf("PUBLIC_BASE_URL is invalid: %w", err)
	}
	return nil
}

func (c *Config) validateUpstream() error {
	if err := validateHTTPBaseURL(c.Upstream.APIBase, "UPSTREAM_API_BASE"); err != nil {
		return fmt.Errorf("UPSTREAM_API_BASE is invalid: %w", err)
	}
	if err := validateHTTPURL(c.Upstream.ImageBase, "UPSTREAM_IMAGE_BASE"); err != nil {
		return fmt.Errorf("UPSTREAM_IMAGE_BASE is invalid: %w", err)
	}
	for _, host := range c.Upstream.ImageHosts {
		if strings.TrimSpace(host) == "" {
			return fmt.Errorf("UPSTREAM_IMAGE_HOSTS must not contain empty entries")
		}
	}
	return nil
}

func (c *Config) validateSecurity() error {
	for _, origin := range c.Security.CORSOrigins {
		if origin == "*" {
			continue
		}
		if err := validateHTTPURL(origin, "CORS_ORIGINS"); err != nil {
			return fmt.Errorf("CORS_ORIGINS entry %q is invalid: %w", origin, err)
		}
	}
	return nil
}

func (c *Config) validateKodik() error {
	if c.Kodik.RequireToken && !c.Kodik.HasToken() {
		return fmt.Errorf("KODIK_PUBLIC_TOKEN is required when KODIK_REQUIRE_TOKEN=true")
	}
	if c.Kodik.ResolverURL != "" {
		if err := validateHTTPBaseURL(c.Kodik.ResolverURL, "KODIK_RESOLVER_URL"); err != nil {
			return fmt.Errorf("KODIK_RESOLVER_URL is invalid: %w", err)
		}
	}
	return nil
}

func (c *Config) validateLogging() error {
	if !logging.ValidLevel(c.Logging.Level) {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error, fatal, panic (got %q)", c.Logging.Level)
	}
	return nil
}
