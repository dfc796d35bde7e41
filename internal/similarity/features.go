// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package similarity

import (
	"strings"

	"github.com/tomtom215/anisette/internal/models"
)

// descriptionLimit caps how much free-form description text enters the
// feature blob. Descriptions are subjective and noisy; the opening
// sentences carry most of the signal.
const descriptionLimit = 200

// BuildFeatureText flattens an entity's enrichment fields into one text
// blob for TF-IDF vectorization. Weighting is done by repetition, which
// raises term frequency directly instead of scaling vectors afterwards:
//
//	tags     x6  (~60%, specific themes and elements)
//	studios  x3  (~15%, production style)
//	genres   x2  (~10%, broad categories)
//	staff    x2  (~10%, director and writer influence)
//	source   x1  (~3%,  manga, light novel, original)
//	desc     x1  (~2%,  first 200 characters only)
//
// Missing fields contribute nothing. Pipe separators from the warehouse
// columns are converted to whitespace so the separator never becomes a
// high-frequency token. Output is deterministic for a given input.
func BuildFeatureText(f *models.EntityFeatures) string {
	var parts []string

	add := func(value string, times int) {
		value = strings.TrimSpace(strings.ReplaceAll(value, "|", " "))
		if value == "" {
			return
		}
		for i := 0; i < times; i++ {
			parts = append(parts, value)
		}
	}

	add(f.Tags, 6)
	add(f.Studios, 3)
	add(f.Genres, 2)
	add(f.Staff, 2)
	add(f.SourceMaterial, 1)
	add(truncateRunes(f.Description, descriptionLimit), 1)

	return strings.Join(parts, " ")
}

// truncateRunes shortens s to at most n characters, not bytes, so
// multi-byte titles and descriptions never get cut mid-rune.
func truncateRunes(s string, n int) string {
	if len(s) <= n {
		return s
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
