// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package config

import (
	"fmt"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Upstream UpstreamConfig `koanf:"upstream"`
	Cache    CacheConfig    `koanf:"cache"`
	Security SecurityConfig `koanf:"security"`
	Kodik    KodikConfig    `koanf:"kodik"`
	Logging  LoggingConfig  `koanf:"logging"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port            int           `koanf:"port" validate:"gte=1,lte=65535"`
	Host            string        `koanf:"host"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"gt=0"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"gt=0"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"gt=0"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"gt=0"`

	// PublicBaseURL, when set, is used as the proxy base in rewritten image
	// URLs instead of X-Forwarded-Proto and Host.
	PublicBaseURL string `koanf:"public_base_url" validate:"omitempty,http_url"`
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig holds the metadata API and image host settings.
type UpstreamConfig struct {
	APIBase        string        `koanf:"api_base" validate:"required,http_url"`
	ImageBase      string        `koanf:"image_base" validate:"required,http_url"`
	Timeout        time.Duration `koanf:"timeout" validate:"gt=0"`
	MaxBodyBytes   int64         `koanf:"max_body_bytes" validate:"gt=0"`
	BreakerEnabled bool          `koanf:"breaker_enabled"`
	ImageHosts     []string      `koanf:"image_hosts"`
}

// CacheConfig holds response cache settings.
type CacheConfig struct {
	TTL            time.Duration `koanf:"ttl" validate:"gt=0"`
	SweepThreshold int           `koanf:"sweep_threshold" validate:"gt=0"`

	// JanitorInterval enables a background sweep on this interval. Zero, the
	// default, leaves cleanup to the request-time sweep alone.
	JanitorInterval time.Duration `koanf:"janitor_interval" validate:"gte=0"`
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitRequests    int           `koanf:"rate_limit_requests" validate:"gt=0"`
	RateLimitWindow      time.Duration `koanf:"rate_limit_window" validate:"gt=0"`
	RateLimitDisabled    bool          `koanf:"rate_limit_disabled"`
	MaxClients           int           `koanf:"max_clients" validate:"gt=0"`
	CORSOrigins          []string      `koanf:"cors_origins" validate:"min=1"`
	OpsRateLimitRequests int           `koanf:"ops_rate_limit_requests" validate:"gt=0"`
}

// KodikConfig holds settings for the Kodik catalogue API and link resolver.
type KodikConfig struct {
	Token           string        `koanf:"token"`
	ResolverURL     string        `koanf:"resolver_url" validate:"omitempty,http_url"`
	APIBase         string        `koanf:"api_base" validate:"required,http_url"`
	ResolveInterval time.Duration `koanf:"resolve_interval" validate:"gte=0"`
	RequireToken    bool          `koanf:"require_token"`
}

// PlaceholderToken is used when no Kodik token is configured. Kodik rejects it.
const PlaceholderToken = "your_public_token_here"

// HasToken reports whether a real token was configured.
func (k KodikConfig) HasToken() bool {
	return k.Token != "" && k.Token != PlaceholderToken
}

// LoggingConfig holds logger settings.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format" validate:"oneof=json console"`
	Caller bool   `koanf:"caller"`
}

// MetricsConfig holds Prometheus exposition settings.
type MetricsConfig struct {
	Enabled bool   `koanf:"enabled"`
	Path    string `koanf:"path" validate:"startswith=/"`
}

// Load reads configuration from defaults, an optional YAML file and the
// environment, then validates it.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
