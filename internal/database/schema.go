// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
schema.go - Warehouse Schema Management

This file manages the DuckDB warehouse schema: table creation and index
management for the anime metadata star schema.

Tables:
  - dim_anime: one row per canonical anime entity. Multi-value attributes
    (genres, tags, studios, staff) are pipe-joined strings; the similarity
    engine converts the separators back to whitespace before vectorizing.
  - anime_sources: provenance rows mapping each upstream source record
    ("anilist#21") to its canonical entity with the fuzzy match confidence
    that merged it.
  - fact_anime_similarity: the persisted top-N similarity index. Rebuilt
    wholesale per method on every similarity run.
  - pipeline_runs: one row per catalog refresh for operational reporting.

Schema Strategy (Pre-Release):
All columns are defined in the initial CREATE TABLE statements. This gives
a single source of truth and no migration machinery to maintain before the
first public release.

Key Management:
anime_key is assigned manually (MAX+1 inside the upsert transaction) since
DuckDB does not support IDENTITY with PRIMARY KEY. The pipeline is the only
writer, so there is no allocation race.
*/

//nolint:staticcheck // File documentation, not package doc
package database

import (
	"context"
	"fmt"
	"time"
)

// schemaContext returns a context with timeout for schema operations
func schemaContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

// createTables creates the core warehouse tables
func (db *DB) createTables() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getTableCreationQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query: %s: %w", query, err)
		}
	}

	return nil
}

// getTableCreationQueries returns the table creation SQL statements
func (db *DB) getTableCreationQueries() []string {
	return []string{
		// Canonical anime dimension. One row per deduplicated entity;
		// attribute columns come from the founding (highest popularity)
		// source record.
		`CREATE TABLE IF NOT EXISTS dim_anime (
			anime_key BIGINT PRIMARY KEY,
			canonical_id TEXT NOT NULL UNIQUE,
			title TEXT NOT NULL,
			series_base TEXT NOT NULL DEFAULT '',

			-- Feature columns (pipe-joined multi-value strings)
			genres TEXT NOT NULL DEFAULT '',
			tags TEXT NOT NULL DEFAULT '',
			studios TEXT NOT NULL DEFAULT '',
			staff TEXT NOT NULL DEFAULT '',
			source_material TEXT NOT NULL DEFAULT '',
			description TEXT NOT NULL DEFAULT '',

			-- Ranking signals
			average_score DOUBLE NOT NULL DEFAULT 0,
			popularity BIGINT NOT NULL DEFAULT 0,

			-- Presentation metadata
			format TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT '',
			episodes INTEGER NOT NULL DEFAULT 0,
			season TEXT NOT NULL DEFAULT '',
			season_year INTEGER NOT NULL DEFAULT 0,

			created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		// Source provenance. Each upstream record that merged into a
		// canonical entity keeps its match confidence here; the founder
		// row carries confidence 1.0.
		`CREATE TABLE IF NOT EXISTS anime_sources (
			source_key TEXT PRIMARY KEY,
			anime_key BIGINT NOT NULL,
			source TEXT NOT NULL,
			source_id BIGINT NOT NULL,
			confidence DOUBLE NOT NULL DEFAULT 1.0,
			matched_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		// Similarity index. Directed edges; the full set for a method is
		// replaced in one transaction on every similarity run.
		`CREATE TABLE IF NOT EXISTS fact_anime_similarity (
			anime_key_1 BIGINT NOT NULL,
			anime_key_2 BIGINT NOT NULL,
			similarity_score DOUBLE NOT NULL,
			method TEXT NOT NULL,
			computed_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		);`,

		// Pipeline run log for GET /api/v1/pipeline/status and /stats
		`CREATE TABLE IF NOT EXISTS pipeline_runs (
			run_id TEXT PRIMARY KEY,
			started_at TIMESTAMP NOT NULL,
			finished_at TIMESTAMP,
			records_fetched INTEGER NOT NULL DEFAULT 0,
			records_skipped INTEGER NOT NULL DEFAULT 0,
			canonical_count INTEGER NOT NULL DEFAULT 0,
			edges_written INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL,
			error TEXT NOT NULL DEFAULT ''
		);`,
	}
}

// createIndexes creates database indexes for query optimization
func (db *DB) createIndexes() error {
	ctx, cancel := schemaContext()
	defer cancel()

	for _, query := range db.getIndexQueries() {
		if _, err := db.conn.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute index query: %s: %w", query, err)
		}
	}

	return nil
}

// getIndexQueries returns index creation SQL statements
func (db *DB) getIndexQueries() []string {
	return []string{
		// Title resolution (exact and LIKE lookups both scan lowercase)
		`CREATE INDEX IF NOT EXISTS idx_anime_title ON dim_anime(title);`,

		// Ranked listings
		`CREATE INDEX IF NOT EXISTS idx_anime_popularity ON dim_anime(popularity DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_anime_score ON dim_anime(average_score DESC);`,

		// Series-aware filtering in the recommendation layer
		`CREATE INDEX IF NOT EXISTS idx_anime_series_base ON dim_anime(series_base);`,

		// Search filters
		`CREATE INDEX IF NOT EXISTS idx_anime_season_year ON dim_anime(season_year);`,
		`CREATE INDEX IF NOT EXISTS idx_anime_format ON dim_anime(format);`,

		// Provenance lookups by entity
		`CREATE INDEX IF NOT EXISTS idx_sources_anime_key ON anime_sources(anime_key);`,
		`CREATE INDEX IF NOT EXISTS idx_sources_source ON anime_sources(source, source_id);`,

		// Similarity reads are always "edges from X ordered by score"
		`CREATE INDEX IF NOT EXISTS idx_similarity_from ON fact_anime_similarity(anime_key_1, similarity_score DESC);`,
		`CREATE INDEX IF NOT EXISTS idx_similarity_method ON fact_anime_similarity(method);`,

		// Run log is read newest-first
		`CREATE INDEX IF NOT EXISTS idx_runs_started_at ON pipeline_runs(started_at DESC);`,
	}
}
