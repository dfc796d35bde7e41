// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/tomtom215/anisette/internal/metrics"
	"github.com/tomtom215/anisette/internal/models"
)

// GetStatistics retrieves catalog-wide statistics for the dashboard:
// entity and provenance counts, similarity index size, average score,
// the genre histogram, and the most recent pipeline run.
func (db *DB) GetStatistics(ctx context.Context) (stats *models.Statistics, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("statistics", "dim_anime", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	stats = &models.Statistics{}

	if err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dim_anime`).Scan(&stats.TotalAnime); err != nil {
		return nil, fmt.Errorf("failed to count anime: %w", err)
	}

	if err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM anime_sources`).Scan(&stats.TotalSources); err != nil {
		return nil, fmt.Errorf("failed to count sources: %w", err)
	}

	if err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fact_anime_similarity`).Scan(&stats.TotalSimilarityRows); err != nil {
		return nil, fmt.Errorf("failed to count similarity rows: %w", err)
	}

	if stats.TotalAnime > 0 {
		stats.AvgSourcesPerAnime = float64(stats.TotalSources) / float64(stats.TotalAnime)
	}

	var avgScore sql.NullFloat64
	if err = db.conn.QueryRowContext(ctx,
		`SELECT AVG(average_score) FROM dim_anime WHERE average_score > 0`).Scan(&avgScore); err != nil {
		return nil, fmt.Errorf("failed to compute average score: %w", err)
	}
	stats.AvgScore = avgScore.Float64

	stats.TopGenres, err = db.topGenres(ctx, 10)
	if err != nil {
		return nil, err
	}

	stats.LastRun, err = db.LastPipelineRun(ctx)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// topGenres unrolls the pipe-joined genres column into a histogram
func (db *DB) topGenres(ctx context.Context, limit int) ([]models.GenreCount, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT genre, COUNT(*) AS cnt
	FROM (
		SELECT unnest(string_split(genres, '|')) AS genre
		FROM dim_anime
		WHERE genres <> ''
	) AS g
	WHERE genre <> ''
	GROUP BY genre
	ORDER BY cnt DESC, genre
	LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query genre histogram: %w", err)
	}
	defer closeQuietly(rows)

	genres := []models.GenreCount{}
	for rows.Next() {
		var g models.GenreCount
		if err := rows.Scan(&g.Genre, &g.Count); err != nil {
			return nil, fmt.Errorf("failed to scan genre count: %w", err)
		}
		genres = append(genres, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating genre counts: %w", err)
	}

	return genres, nil
}

// AnimeCount returns the number of canonical entities in the catalog.
// Used by readiness checks, so it stays a single cheap COUNT.
func (db *DB) AnimeCount(ctx context.Context) (count int64, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("anime_count", "dim_anime", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dim_anime`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count anime: %w", err)
	}

	return count, nil
}

// GetDedupStats summarizes the deduplication state: provenance counts,
// the per-source breakdown, and match confidence aggregates over merged
// (non-founder) rows.
func (db *DB) GetDedupStats(ctx context.Context) (stats *models.DedupStats, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("dedup_stats", "anime_sources", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	stats = &models.DedupStats{}

	if err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM dim_anime`).Scan(&stats.CanonicalCount); err != nil {
		return nil, fmt.Errorf("failed to count anime: %w", err)
	}

	if err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM anime_sources`).Scan(&stats.TotalSources); err != nil {
		return nil, fmt.Errorf("failed to count sources: %w", err)
	}

	if stats.CanonicalCount > 0 {
		stats.AvgSourcesPerAnime = float64(stats.TotalSources) / float64(stats.CanonicalCount)
	}

	if err = db.conn.QueryRowContext(ctx, `
	SELECT COUNT(*) FROM (
		SELECT anime_key
		FROM anime_sources
		GROUP BY anime_key
		HAVING COUNT(*) > 1
	) AS multi`).Scan(&stats.MultiSourceCount); err != nil {
		return nil, fmt.Errorf("failed to count multi-source anime: %w", err)
	}

	var avgConf, minConf sql.NullFloat64
	if err = db.conn.QueryRowContext(ctx,
		`SELECT AVG(confidence), MIN(confidence) FROM anime_sources WHERE confidence < 1.0`).
		Scan(&avgConf, &minConf); err != nil {
		return nil, fmt.Errorf("failed to aggregate match confidence: %w", err)
	}
	stats.AvgMatchConfidence = avgConf.Float64
	stats.MinMatchConfidence = minConf.Float64

	stats.BySource, err = db.sourceCounts(ctx)
	if err != nil {
		return nil, err
	}

	return stats, nil
}

// sourceCounts breaks provenance rows down by upstream source
func (db *DB) sourceCounts(ctx context.Context) ([]models.SourceCount, error) {
	rows, err := db.conn.QueryContext(ctx, `
	SELECT source, COUNT(*) AS cnt
	FROM anime_sources
	GROUP BY source
	ORDER BY cnt DESC, source`)
	if err != nil {
		return nil, fmt.Errorf("failed to query source counts: %w", err)
	}
	defer closeQuietly(rows)

	counts := []models.SourceCount{}
	for rows.Next() {
		var c models.SourceCount
		if err := rows.Scan(&c.Source, &c.Count); err != nil {
			return nil, fmt.Errorf("failed to scan source count: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source counts: %w", err)
	}

	return counts, nil
}

// RecordPipelineRun upserts one run row. The pipeline writes the row
// once when the run starts (status running) and again when it finishes,
// so the insert replaces any prior row with the same run id.
func (db *DB) RecordPipelineRun(ctx context.Context, run *models.PipelineRun) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("record_run", "pipeline_runs", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	_, err = db.conn.ExecContext(ctx, `INSERT OR REPLACE INTO pipeline_runs (
		run_id, started_at, finished_at,
		records_fetched, records_skipped, canonical_count, edges_written,
		status, error
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID, run.StartedAt, run.FinishedAt,
		run.RecordsFetched, run.RecordsSkipped, run.CanonicalCount, run.EdgesWritten,
		run.Status, run.Error,
	)
	if err != nil {
		return fmt.Errorf("failed to record pipeline run: %w", err)
	}

	return nil
}

// LastPipelineRun returns the most recent run row, or nil when the
// warehouse has never seen a run.
func (db *DB) LastPipelineRun(ctx context.Context) (*models.PipelineRun, error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	run := &models.PipelineRun{}
	var finishedAt sql.NullTime
	err := db.conn.QueryRowContext(ctx, `
	SELECT run_id, started_at, finished_at,
		records_fetched, records_skipped, canonical_count, edges_written,
		status, error
	FROM pipeline_runs
	ORDER BY started_at DESC
	LIMIT 1`).Scan(
		&run.RunID, &run.StartedAt, &finishedAt,
		&run.RecordsFetched, &run.RecordsSkipped, &run.CanonicalCount, &run.EdgesWritten,
		&run.Status, &run.Error,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get last pipeline run: %w", err)
	}

	if finishedAt.Valid {
		run.FinishedAt = &finishedAt.Time
	}

	return run, nil
}
