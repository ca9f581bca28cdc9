// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package kodik

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/animeproxy/internal/logging"
	"github.com/tomtom215/animeproxy/internal/metrics"
	"github.com/tomtom215/animeproxy/internal/rewrite"
)

// DefaultResolveInterval paces resolver calls within one episode request.
const DefaultResolveInterval = 500 * time.Millisecond

const (
	kodikPlayer  = "Kodik"
	unknownTeam  = "Unknown"
	schemeRelURL = "//"
)

// embedHosts are the hosts whose player links the resolver understands.
var embedHosts = []string{"kodik.info", "aniqit.com"}

// Result is one translation team's set of direct links for an episode.
type Result struct {
	Team        string `json:"team"`
	TeamSlug    string `json:"teamSlug,omitempty"`
	Views       int64  `json:"views"`
	Translation string `json:"translation,omitempty"`
	KodikLink   string `json:"kodikLink"`
	DirectLinks Links  `json:"directLinks"`
	Quality     string `json:"quality"`
}

// Extractor resolves the Kodik players of an episode document.
type Extractor struct {
	resolver Resolver
	interval time.Duration
}

// NewExtractor creates an Extractor. A zero interval disables pacing.
func NewExtractor(resolver Resolver, interval time.Duration) *Extractor {
	return &Extractor{resolver: resolver, interval: interval}
}

// player is the subset of an episode player the extractor reads.
type player struct {
	Src         string
	TeamName    string
	TeamSlug    string
	Views       int64
	Translation string
}

// EpisodeLinks resolves every Kodik player in doc, the upstream episode
// document ({"data": {"players": [...]}}).
//
// Players whose resolve fails or yields no links are skipped. Results are
// ordered by views, highest first; ties keep document order. A document
// without players yields an empty, non-nil slice.
func (e *Extractor) EpisodeLinks(ctx context.Context, doc any) []Result {
	players := kodikPlayers(doc)
	results := make([]Result, 0, len(players))
	if len(players) == 0 {
		return results
	}

	limit := rate.Inf
	if e.interval > 0 {
		limit = rate.Every(e.interval)
	}
	pacer := rate.NewLimiter(limit, 1)
	log := logging.Ctx(ctx)

	for _, p := range players {
		if err := pacer.Wait(ctx); err != nil {
			log.Warn().Err(err).Msg("Kodik resolve loop cancelled")
			break
		}

		links, err := e.resolver.Links(ctx, p.Src)
		if err != nil {
			metrics.KodikResolves.WithLabelValues("error").Inc()
			log.Warn().Err(err).Str("team", logging.SanitizeValue(p.TeamName, 64)).Msg("Kodik resolve failed, skipping player")
			continue
		}

		links = normalizeLinks(links)
		if len(links) == 0 {
			metrics.KodikResolves.WithLabelValues("empty").Inc()
			continue
		}
		metrics.KodikResolves.WithLabelValues("ok").Inc()

		team := p.TeamName
		if team == "" {
			team = unknownTeam
		}
		results = append(results, Result{
			Team:        team,
			TeamSlug:    p.TeamSlug,
			Views:       p.Views,
			Translation: p.Translation,
			KodikLink:   p.Src,
			DirectLinks: links,
			Quality:     bestQuality(links),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Views > results[j].Views
	})
	return results
}

// kodikPlayers extracts data.players[] entries served by Kodik with a
// recognised embed link.
func kodikPlayers(doc any) []player {
	data, _ := field(doc, "data")
	list, _ := field(data, "players")
	items, ok := list.([]any)
	if !ok {
		return nil
	}

	var out []player
	for _, item := range items {
		name, _ := field(item, "player")
		src, _ := field(item, "src")
		srcStr, _ := src.(string)
		if name != kodikPlayer || srcStr == "" || !isEmbedLink(srcStr) {
			continue
		}

		team, _ := field(item, "team")
		teamName, _ := field(team, "name")
		teamSlug, _ := field(team, "slug")
		translation, _ := field(item, "translation_type")
		label, _ := field(translation, "label")
		views, _ := field(item, "views")

		out = append(out, player{
			Src:         srcStr,
			TeamName:    asString(teamName),
			TeamSlug:    asString(teamSlug),
			Views:       asInt(views),
			Translation: asString(label),
		})
	}
	return out
}

func isEmbedLink(src string) bool {
	for _, host := range embedHosts {
		if strings.Contains(src, host) {
			return true
		}
	}
	return false
}

// normalizeLinks drops empty qualities and makes scheme-relative sources https.
func normalizeLinks(in Links) Links {
	out := make(Links, len(in))
	for quality, links := range in {
		if len(links) == 0 {
			continue
		}
		fixed := make([]Link, len(links))
		for i, l := range links {
			if strings.HasPrefix(l.Src, schemeRelURL) {
				l.Src = "https:" + l.Src
			}
			fixed[i] = l
		}
		out[quality] = fixed
	}
	return out
}

// bestQuality returns the numerically highest quality key. Keys that are not
// numbers rank below every number; ties between them break alphabetically.
func bestQuality(links Links) string {
	best, bestN := "", -1
	for quality := range links {
		n, err := strconv.Atoi(strings.TrimRight(quality, "pP"))
		if err != nil {
			n = -1
		}
		if best == "" || n > bestN || (n == bestN && quality < best) {
			best, bestN = quality, n
		}
	}
	return best
}

// field returns member key of an object decoded by rewrite.Decode or
// encoding/json.
func field(v any, key string) (any, bool) {
	switch obj := v.(type) {
	case rewrite.Object:
		return obj.Get(key)
	case map[string]any:
		val, ok := obj[key]
		return val, ok
	default:
		return nil, false
	}
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asInt(v any) int64 {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i
		}
		if f, err := n.Float64(); err == nil {
			return int64(f)
		}
	case float64:
		return int64(n)
	case int64:
		return n
	case int:
		return int64(n)
	}
	return 0
}
