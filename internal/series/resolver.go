// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package series derives normalized base series names from anime titles.
//
// Season, part, and sequel markers ("Season 2", "Part 3", "The Final
// Season", trailing "OVA"/"Movie"/"Specials" qualifiers) are stripped so
// that entries of one franchise collapse to a shared base name. The base
// name is used in two places that must agree exactly: as a grouping hint
// during cross-source deduplication, and as the post-filter that keeps
// "Attack on Titan Season 2" out of recommendations seeded by
// "Attack on Titan".
package series

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// seasonPatterns are applied in order to strip season/sequel markers.
// All patterns are anchored to the end of the title so that mid-title
// words are never removed; the parenthesized form is the one exception
// since "(Season N)" annotations can appear anywhere. The OVA, Movie,
// Specials, and Chronicle patterns consume everything from the marker to
// the end of the title.
var seasonPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\s+Season\s+\d+$`),
	regexp.MustCompile(`(?i)\s+S\d+$`),
	regexp.MustCompile(`(?i)\s+Part\s+\d+$`),
	regexp.MustCompile(`(?i)\s+\(Season\s+\d+\)`),
	regexp.MustCompile(`(?i)\s+The\s+Final\s+Season$`),
	regexp.MustCompile(`(?i)\s+Final\s+Season$`),
	regexp.MustCompile(`(?i)\s+\d+(?:st|nd|rd|th)\s+Season$`),
	regexp.MustCompile(`(?i)\s+OVA\b.*$`),
	regexp.MustCompile(`(?i)\s+Movie\b.*$`),
	regexp.MustCompile(`(?i)\s+Specials?\b.*$`),
	regexp.MustCompile(`(?i)\s+Chronicle\b.*$`),
}

// stripMarkers removes season/sequel markers until no pattern matches.
// Stripping one suffix can expose another ("Season 3 Part 2" loses the
// part first, then the season), so a single pass is not enough.
func stripMarkers(title string) string {
	base := strings.TrimSpace(title)
	for {
		before := base
		for _, p := range seasonPatterns {
			base = p.ReplaceAllString(base, "")
		}
		base = strings.TrimSpace(base)
		if base == before {
			return base
		}
	}
}

// Resolve extracts the base series name from a title.
//
// Two strategies run side by side and the shorter result wins, which
// favors aggressive grouping:
//  1. Strip known English season/sequel markers from the title.
//  2. Take everything before the first colon (catches subtitle naming
//     like "Title: Arc Name"), provided the prefix is at least 3
//     characters, and strip markers from that prefix as well.
//
// Resolve is a pure function and idempotent: resolving an already
// resolved name changes nothing.
func Resolve(title string) string {
	base := stripMarkers(title)

	if idx := strings.IndexByte(title, ':'); idx >= 0 {
		colonBase := strings.TrimSpace(title[:idx])
		if utf8.RuneCountInString(colonBase) >= 3 {
			colonBase = stripMarkers(colonBase)
			if utf8.RuneCountInString(colonBase) < utf8.RuneCountInString(base) {
				base = colonBase
			}
		}
	}

	return base
}

// SameSeries reports whether two titles belong to the same franchise.
//
// The comparison is case-insensitive on resolved base names, and treats
// the pair as related when either base name is a prefix of the other.
// The prefix rule absorbs asymmetric stripping results such as
// "Attack on Titan" vs "Attack on Titan Junior High", at the known cost
// of occasionally relating distinct shows that share a long common
// prefix.
func SameSeries(a, b string) bool {
	return SameBase(strings.ToLower(Resolve(a)), strings.ToLower(Resolve(b)))
}

// SameBase applies the franchise comparison to base names that have
// already been resolved and lowercased. Callers that filter many
// candidates against a fixed set of bases resolve once and use this
// directly.
func SameBase(baseA, baseB string) bool {
	// A title consisting solely of markers resolves to the empty string,
	// which would prefix-match everything.
	if baseA == "" || baseB == "" {
		return baseA == baseB
	}

	return strings.HasPrefix(baseA, baseB) || strings.HasPrefix(baseB, baseA)
}
