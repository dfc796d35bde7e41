// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package models

import "time"

// SimilarityEdge is one directed, scored relationship in the persisted
// top-N similarity index. Score is cosine similarity in [0,1] rounded to
// four decimals; Method identifies the producing algorithm.
//
// The edge set is rebuilt wholesale on every similarity run and is not
// symmetric: A may keep B in its top-N while B's top-N has no room for A.
type SimilarityEdge struct {
	AnimeKey1  int64     `json:"anime_key_1"`
	AnimeKey2  int64     `json:"anime_key_2"`
	Score      float64   `json:"score"`
	Method     string    `json:"method"`
	ComputedAt time.Time `json:"computed_at,omitempty"`
}

// ScoredTitle is a similarity index row joined with display fields, the
// shape the recommendation query layer consumes.
type ScoredTitle struct {
	AnimeKey     int64   `json:"anime_key"`
	CanonicalID  string  `json:"canonical_id"`
	Title        string  `json:"title"`
	Score        float64 `json:"score"`
	Genres       string  `json:"genres,omitempty"`
	AverageScore float64 `json:"average_score,omitempty"`
}
