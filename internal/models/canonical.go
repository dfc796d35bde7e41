// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package models

// CanonicalEntity is the deduplicated, merged representation of one or
// more SourceRecords believed to denote the same real-world anime.
//
// CanonicalID is stable and derived from the founding record's source and
// source id (e.g. "AL_21" for AniList id 21), so re-running deduplication
// over the same catalog yields the same ids. Title and enrichment fields
// come from the founder, which is always the highest-popularity
// contributing record.
//
// Invariants:
//   - every valid SourceRecord maps to exactly one CanonicalEntity
//   - ContributingSources has at least one entry (the founder)
//   - ConfidenceScores covers every non-founder source key with the fuzzy
//     match score that joined it; the founder is implicitly at 1.0
type CanonicalEntity struct {
	CanonicalID string `json:"canonical_id"`
	Title       string `json:"title"`

	// SeriesBase is the resolved series base name of the canonical title,
	// persisted so season variants of one franchise can be grouped without
	// re-resolving at query time.
	SeriesBase string `json:"series_base,omitempty"`

	ContributingSources []string           `json:"contributing_sources"`
	ConfidenceScores    map[string]float64 `json:"confidence_scores,omitempty"`

	// Founder carries the anchoring record's enrichment fields; they are
	// what the warehouse stores for the canonical row.
	Founder *SourceRecord `json:"-"`
}

// SourceCount returns the number of per-source records merged into this
// entity.
func (c *CanonicalEntity) SourceCount() int {
	return len(c.ContributingSources)
}
