// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package models

// Recommendation is one ranked result returned by the recommendation
// query layer.
//
// For single-seed queries Score is the stored similarity to the seed and
// MatchCount is omitted. For multi-seed queries Score is the arithmetic
// mean over the seeds that actually listed the candidate (absent edges do
// not contribute zero terms) and MatchCount is how many seeds listed it.
type Recommendation struct {
	AnimeKey     int64   `json:"anime_key"`
	CanonicalID  string  `json:"canonical_id"`
	Title        string  `json:"title"`
	Score        float64 `json:"score"`
	MatchCount   int     `json:"match_count,omitempty"`
	Genres       string  `json:"genres,omitempty"`
	AverageScore float64 `json:"average_score,omitempty"`
}

// MultiRecommendRequest is the body of POST /api/v1/recommendations/multi.
type MultiRecommendRequest struct {
	Titles []string `json:"titles" validate:"required,min=1,max=20,dive,required"`
	Limit  int      `json:"limit" validate:"omitempty,min=1,max=100"`
}
