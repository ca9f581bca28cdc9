// AnimeProxy - Anime Metadata and Cover Image Proxy
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/animeproxy

package validation

import (
	"strings"
	"testing"
)

type episodeRequest struct {
	EpisodeID string `query:"episode_id" validate:"required,alphanum,max=32"`
}

type searchRequest struct {
	Title string `query:"title" validate:"required"`
	Limit int    `query:"limit" validate:"gte=1,lte=100"`
}

type configSection struct {
	BaseURL string `koanf:"api_base" validate:"required,http_url"`
	Sort    string `koanf:"sort" validate:"oneof=rating -rating"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name      string
		input     any
		wantErr   bool
		wantField string
		wantMsg   string
	}{
		{"valid episode", &episodeRequest{EpisodeID: "12345"}, false, "", ""},
		{"missing episode", &episodeRequest{}, true, "episode_id", "episode_id required"},
		{"path injection", &episodeRequest{EpisodeID: "1/../2"}, true, "episode_id", "episode_id must contain only letters and digits"},
		{"too long", &episodeRequest{EpisodeID: strings.Repeat("9", 33)}, true, "episode_id", "episode_id must be at most 32 characters"},
		{"limit low", &searchRequest{Title: "x", Limit: 0}, true, "limit", "limit must be greater than or equal to 1"},
		{"koanf name", &configSection{BaseURL: "ftp//bad", Sort: "rating"}, true, "api_base", "api_base must be an absolute http or https URL"},
		{"oneof", &configSection{BaseURL: "https://ok.example", Sort: "name"}, true, "sort", "sort must be one of: rating -rating"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verr := ValidateStruct(tt.input)
			if (verr != nil) != tt.wantErr {
				t.Fatalf("ValidateStruct() = %v, wantErr %v", verr, tt.wantErr)
			}
			if verr == nil {
				return
			}
			first := verr.Errors()[0]
			if first.Field() != tt.wantField {
				t.Errorf("Field() = %q, want %q", first.Field(), tt.wantField)
			}
			if verr.Error() != tt.wantMsg {
				t.Errorf("Error() = %q, want %q", verr.Error(), tt.wantMsg)
			}
		})
	}
}

func TestRequestValidationError_Details(t *testing.T) {
	verr := ValidateStruct(&searchRequest{Limit: 500})
	if verr == nil {
		t.Fatal("expected errors")
	}
	details := verr.Details()
	if len(details) != 2 {
		t.Fatalf("len(Details()) = %d, want 2", len(details))
	}
	if details[0]["field"] != "title" || details[1]["field"] != "limit" {
		t.Errorf("Details() fields = %v, %v", details[0]["field"], details[1]["field"])
	}
	if !strings.Contains(verr.Error(), "; ") {
		t.Errorf("Error() = %q, want joined messages", verr.Error())
	}
}

func TestGetValidator_Singleton(t *testing.T) {
	if GetValidator() != GetValidator() {
		t.Error("GetValidator() returned different instances")
	}
}
