// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/metrics"
	"github.com/tomtom215/anisette/internal/models"
)

// ReplaceSimilarityEdges atomically swaps the similarity index for one
// method: every stored edge with that method tag is deleted and the new
// set inserted in a single transaction. Readers mid-replace see either
// the old index or the new one, never a mix. A failure before commit
// leaves the previous index intact and servable.
func (db *DB) ReplaceSimilarityEdges(ctx context.Context, method string, edges []models.SimilarityEdge) (err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("replace_edges", "fact_anime_similarity", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				logging.Error().
					Err(rbErr).
					AnErr("original_error", err).
					Msg("Transaction rollback failed")
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`DELETE FROM fact_anime_similarity WHERE method = ?`, method); err != nil {
		return fmt.Errorf("failed to clear similarity edges: %w", err)
	}

	insertStmt, err := tx.PrepareContext(ctx, `INSERT INTO fact_anime_similarity (
		anime_key_1, anime_key_2, similarity_score, method, computed_at
	) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer closeQuietly(insertStmt)

	for i := range edges {
		edge := &edges[i]
		computedAt := edge.ComputedAt
		if computedAt.IsZero() {
			computedAt = time.Now().UTC()
		}
		if _, err = insertStmt.ExecContext(ctx,
			edge.AnimeKey1, edge.AnimeKey2, edge.Score, method, computedAt,
		); err != nil {
			return fmt.Errorf("failed to insert edge %d->%d: %w", edge.AnimeKey1, edge.AnimeKey2, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Info().
		Str("method", method).
		Int("edges", len(edges)).
		Dur("duration", time.Since(start)).
		Msg("Similarity index replaced")

	return nil
}

// SimilarTo returns the stored similarity neighbors of one anime joined
// with display fields, best first. Score ties break on anime_key so the
// ordering is deterministic.
func (db *DB) SimilarTo(ctx context.Context, animeKey int64, limit int) (titles []models.ScoredTitle, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("similar_to", "fact_anime_similarity", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 10
	}

	rows, err := db.conn.QueryContext(ctx, `
	SELECT s.anime_key_2, d.canonical_id, d.title, s.similarity_score, d.genres, d.average_score
	FROM fact_anime_similarity s
	JOIN dim_anime d ON d.anime_key = s.anime_key_2
	WHERE s.anime_key_1 = ?
	ORDER BY s.similarity_score DESC, s.anime_key_2
	LIMIT ?`, animeKey, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query similar anime: %w", err)
	}
	defer closeQuietly(rows)

	titles = []models.ScoredTitle{}
	for rows.Next() {
		var t models.ScoredTitle
		if err = rows.Scan(
			&t.AnimeKey, &t.CanonicalID, &t.Title, &t.Score, &t.Genres, &t.AverageScore,
		); err != nil {
			return nil, fmt.Errorf("failed to scan similar anime: %w", err)
		}
		titles = append(titles, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating similar anime: %w", err)
	}

	return titles, nil
}

// SimilarityEdgeCount returns the number of stored edges for a method,
// used by statistics reporting.
func (db *DB) SimilarityEdgeCount(ctx context.Context, method string) (count int64, err error) {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.conn.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM fact_anime_similarity WHERE method = ?`, method).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count similarity edges: %w", err)
	}
	return count, nil
}
