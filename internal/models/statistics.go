// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package models

import "time"

// Statistics represents overall catalog statistics served by
// GET /api/v1/stats.
type Statistics struct {
	TotalAnime          int          `json:"total_anime"`
	TotalSources        int          `json:"total_sources"`
	TotalSimilarityRows int          `json:"total_similarity_rows"`
	AvgSourcesPerAnime  float64      `json:"avg_sources_per_anime"`
	AvgScore            float64      `json:"avg_score"`
	TopGenres           []GenreCount `json:"top_genres,omitempty"`
	LastRun             *PipelineRun `json:"last_run,omitempty"`
}

// GenreCount is one genre with its catalog frequency.
type GenreCount struct {
	Genre string `json:"genre"`
	Count int    `json:"count"`
}

// DedupStats summarizes the deduplication state of the warehouse,
// served by GET /api/v1/dedup/stats. Confidence aggregates cover merged
// rows only; founder rows always carry 1.0 and would skew the mean.
type DedupStats struct {
	CanonicalCount     int           `json:"canonical_count"`
	TotalSources       int           `json:"total_sources"`
	AvgSourcesPerAnime float64       `json:"avg_sources_per_anime"`
	MultiSourceCount   int           `json:"multi_source_count"`
	AvgMatchConfidence float64       `json:"avg_match_confidence,omitempty"`
	MinMatchConfidence float64       `json:"min_match_confidence,omitempty"`
	BySource           []SourceCount `json:"by_source,omitempty"`
}

// SourceCount is one upstream source with its provenance row count.
type SourceCount struct {
	Source string `json:"source"`
	Count  int    `json:"count"`
}

// HealthStatus represents the health check response.
type HealthStatus struct {
	Status            string     `json:"status"`
	Version           string     `json:"version"`
	DatabaseConnected bool       `json:"database_connected"`
	CatalogLoaded     bool       `json:"catalog_loaded"`
	LastRunTime       *time.Time `json:"last_run_time,omitempty"`
	Uptime            float64    `json:"uptime_seconds"`
}
