// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package similarity

import (
	"strings"
	"testing"

	"github.com/tomtom215/anisette/internal/models"
)

func TestBuildFeatureText_Weights(t *testing.T) {
	f := &models.EntityFeatures{
		Tags:           "Mecha",
		Studios:        "Bones",
		Genres:         "Action",
		Staff:          "Watanabe",
		SourceMaterial: "manga",
		Description:    "story",
	}

	text := BuildFeatureText(f)

	tests := []struct {
		token string
		want  int
	}{
		{"Mecha", 6},
		{"Bones", 3},
		{"Action", 2},
		{"Watanabe", 2},
		{"manga", 1},
		{"story", 1},
	}
	for _, tt := range tests {
		if got := strings.Count(text, tt.token); got != tt.want {
			t.Errorf("token %q appears %d times, want %d", tt.token, got, tt.want)
		}
	}
}

func TestBuildFeatureText_PipeSeparators(t *testing.T) {
	f := &models.EntityFeatures{Genres: "Action|Adventure|Fantasy"}

	text := BuildFeatureText(f)

	if strings.Contains(text, "|") {
		t.Errorf("feature text still contains pipe separator: %q", text)
	}
	if !strings.Contains(text, "Action Adventure Fantasy") {
		t.Errorf("pipe-joined values not converted to whitespace: %q", text)
	}
}

func TestBuildFeatureText_MissingFields(t *testing.T) {
	if got := BuildFeatureText(&models.EntityFeatures{}); got != "" {
		t.Errorf("empty features produced %q, want empty string", got)
	}

	f := &models.EntityFeatures{Genres: "Action"}
	if got := BuildFeatureText(f); got != "Action Action" {
		t.Errorf("genres-only features = %q, want %q", got, "Action Action")
	}
}

func TestBuildFeatureText_DescriptionTruncated(t *testing.T) {
	f := &models.EntityFeatures{Description: strings.Repeat("x", 500)}

	text := BuildFeatureText(f)

	if len(text) != descriptionLimit {
		t.Errorf("description contributes %d characters, want %d", len(text), descriptionLimit)
	}
}

func TestBuildFeatureText_Deterministic(t *testing.T) {
	f := &models.EntityFeatures{
		Tags:        "Space|Bounty Hunters",
		Studios:     "Sunrise",
		Genres:      "Action|Sci-Fi",
		Description: "In the year 2071...",
	}

	first := BuildFeatureText(f)
	second := BuildFeatureText(f)
	if first != second {
		t.Error("BuildFeatureText is not deterministic for identical input")
	}
}

func TestTruncateRunes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{name: "short string untouched", in: "abc", n: 10, want: "abc"},
		{name: "exact length untouched", in: "abcde", n: 5, want: "abcde"},
		{name: "ascii truncated", in: "abcdef", n: 3, want: "abc"},
		{name: "multibyte counts runes", in: "進撃の巨人です", n: 5, want: "進撃の巨人"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := truncateRunes(tt.in, tt.n); got != tt.want {
				t.Errorf("truncateRunes(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
		})
	}
}
