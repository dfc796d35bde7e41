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
	"sort"
	"strings"
	"time"

	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/metrics"
	"github.com/tomtom215/anisette/internal/models"
)

// ErrNotFound is returned when a lookup matches no warehouse row.
// Callers distinguish it from query failures with errors.Is.
var ErrNotFound = errors.New("not found")

// UpsertCanonicalEntities loads a deduplication run's entities into the
// warehouse inside a single transaction: existing canonical ids are
// updated in place (keeping their anime_key stable), new ones are
// inserted, and each entity's provenance rows are replaced wholesale.
//
// Entities are processed in canonical id order so a fresh warehouse
// assigns the same anime_keys on every run over the same catalog.
// Returns the number of entities written.
func (db *DB) UpsertCanonicalEntities(ctx context.Context, entities []*models.CanonicalEntity) (upserted int, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("upsert_entities", "dim_anime", time.Since(start), err)
	}()

	if len(entities) == 0 {
		return 0, nil
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	ordered := make([]*models.CanonicalEntity, len(entities))
	copy(ordered, entities)
	sort.Slice(ordered, func(i, j int) bool {
		return ordered[i].CanonicalID < ordered[j].CanonicalID
	})

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
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

	// One MAX read at the start; the tx is the only writer, so keys can
	// be handed out locally. DuckDB has no IDENTITY with PRIMARY KEY.
	var nextKey int64
	if err = tx.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(anime_key), 0) + 1 FROM dim_anime`).Scan(&nextKey); err != nil {
		return 0, fmt.Errorf("failed to get next anime key: %w", err)
	}

	selectStmt, err := tx.PrepareContext(ctx,
		`SELECT anime_key FROM dim_anime WHERE canonical_id = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare select: %w", err)
	}
	defer closeQuietly(selectStmt)

	insertStmt, err := tx.PrepareContext(ctx, `INSERT INTO dim_anime (
		anime_key, canonical_id, title, series_base,
		genres, tags, studios, staff, source_material, description,
		average_score, popularity, format, status, episodes, season, season_year,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer closeQuietly(insertStmt)

	updateStmt, err := tx.PrepareContext(ctx, `UPDATE dim_anime SET
		title = ?, series_base = ?,
		genres = ?, tags = ?, studios = ?, staff = ?, source_material = ?, description = ?,
		average_score = ?, popularity = ?, format = ?, status = ?, episodes = ?, season = ?, season_year = ?,
		updated_at = ?
	WHERE anime_key = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare update: %w", err)
	}
	defer closeQuietly(updateStmt)

	deleteSourcesStmt, err := tx.PrepareContext(ctx,
		`DELETE FROM anime_sources WHERE anime_key = ?`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare provenance delete: %w", err)
	}
	defer closeQuietly(deleteSourcesStmt)

	insertSourceStmt, err := tx.PrepareContext(ctx, `INSERT INTO anime_sources (
		source_key, anime_key, source, source_id, confidence, matched_at
	) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare provenance insert: %w", err)
	}
	defer closeQuietly(insertSourceStmt)

	now := time.Now().UTC()

	for _, entity := range ordered {
		founder := entity.Founder
		if founder == nil {
			logging.Warn().
				Str("canonical_id", entity.CanonicalID).
				Msg("Entity missing founder record, skipping")
			continue
		}

		var animeKey int64
		scanErr := selectStmt.QueryRowContext(ctx, entity.CanonicalID).Scan(&animeKey)
		switch {
		case scanErr == nil:
			if _, err = updateStmt.ExecContext(ctx,
				entity.Title, entity.SeriesBase,
				pipeJoin(founder.Genres), pipeJoin(tagNames(founder.Tags)),
				pipeJoin(founder.Studios), pipeJoin(staffLines(founder.Staff)),
				founder.SourceMaterial, founder.Description,
				founder.AverageScore, founder.Popularity,
				founder.Format, founder.Status, founder.Episodes,
				founder.Season, founder.SeasonYear,
				now, animeKey,
			); err != nil {
				return 0, fmt.Errorf("failed to update entity %s: %w", entity.CanonicalID, err)
			}
		case errors.Is(scanErr, sql.ErrNoRows):
			animeKey = nextKey
			nextKey++
			if _, err = insertStmt.ExecContext(ctx,
				animeKey, entity.CanonicalID, entity.Title, entity.SeriesBase,
				pipeJoin(founder.Genres), pipeJoin(tagNames(founder.Tags)),
				pipeJoin(founder.Studios), pipeJoin(staffLines(founder.Staff)),
				founder.SourceMaterial, founder.Description,
				founder.AverageScore, founder.Popularity,
				founder.Format, founder.Status, founder.Episodes,
				founder.Season, founder.SeasonYear,
				now, now,
			); err != nil {
				return 0, fmt.Errorf("failed to insert entity %s: %w", entity.CanonicalID, err)
			}
		default:
			err = fmt.Errorf("failed to look up entity %s: %w", entity.CanonicalID, scanErr)
			return 0, err
		}

		if _, err = deleteSourcesStmt.ExecContext(ctx, animeKey); err != nil {
			return 0, fmt.Errorf("failed to clear provenance for %s: %w", entity.CanonicalID, err)
		}

		founderKey := founder.SourceKey()
		for _, key := range entity.ContributingSources {
			source, sourceID, ok := models.SplitSourceKey(key)
			if !ok {
				continue
			}
			confidence := 1.0
			if key != founderKey {
				if score, found := entity.ConfidenceScores[key]; found {
					confidence = score
				}
			}
			if _, err = insertSourceStmt.ExecContext(ctx,
				key, animeKey, source, sourceID, confidence, now,
			); err != nil {
				return 0, fmt.Errorf("failed to insert provenance %s: %w", key, err)
			}
		}

		upserted++
	}

	if err = tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	logging.Info().
		Int("entities", upserted).
		Dur("duration", time.Since(start)).
		Msg("Canonical entities loaded")

	return upserted, nil
}

// GetAnimeByKey returns the full warehouse row for one anime including
// its provenance. Returns ErrNotFound for unknown keys.
func (db *DB) GetAnimeByKey(ctx context.Context, animeKey int64) (detail *models.AnimeDetail, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("get_anime", "dim_anime", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	detail = &models.AnimeDetail{}
	err = db.conn.QueryRowContext(ctx, `
	SELECT anime_key, canonical_id, title, series_base,
		genres, tags, studios, staff, source_material, description,
		average_score, popularity, format, status, episodes, season, season_year
	FROM dim_anime
	WHERE anime_key = ?`, animeKey).Scan(
		&detail.AnimeKey, &detail.CanonicalID, &detail.Title, &detail.SeriesBase,
		&detail.Genres, &detail.Tags, &detail.Studios, &detail.Staff,
		&detail.SourceMaterial, &detail.Description,
		&detail.AverageScore, &detail.Popularity,
		&detail.Format, &detail.Status, &detail.Episodes, &detail.Season, &detail.SeasonYear,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("anime %d: %w", animeKey, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get anime %d: %w", animeKey, err)
	}

	rows, err := db.conn.QueryContext(ctx, `
	SELECT source, source_id, confidence
	FROM anime_sources
	WHERE anime_key = ?
	ORDER BY confidence DESC, source, source_id`, animeKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get anime sources: %w", err)
	}
	defer closeQuietly(rows)

	for rows.Next() {
		var ref models.SourceRef
		if err = rows.Scan(&ref.Source, &ref.SourceID, &ref.Confidence); err != nil {
			return nil, fmt.Errorf("failed to scan source row: %w", err)
		}
		detail.Sources = append(detail.Sources, ref)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating source rows: %w", err)
	}

	return detail, nil
}

// EntitiesWithFeatures returns the feature view of every entity that has
// a description, ordered by anime_key so the similarity corpus is stable
// across runs.
func (db *DB) EntitiesWithFeatures(ctx context.Context) (features []*models.EntityFeatures, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("entities_with_features", "dim_anime", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
	SELECT anime_key, canonical_id, title,
		genres, tags, studios, staff, source_material, description
	FROM dim_anime
	WHERE description <> ''
	ORDER BY anime_key`)
	if err != nil {
		return nil, fmt.Errorf("failed to query entity features: %w", err)
	}
	defer closeQuietly(rows)

	features = []*models.EntityFeatures{}
	for rows.Next() {
		f := &models.EntityFeatures{}
		if err = rows.Scan(
			&f.AnimeKey, &f.CanonicalID, &f.Title,
			&f.Genres, &f.Tags, &f.Studios, &f.Staff,
			&f.SourceMaterial, &f.Description,
		); err != nil {
			return nil, fmt.Errorf("failed to scan entity features: %w", err)
		}
		features = append(features, f)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating entity features: %w", err)
	}

	return features, nil
}

// pipeJoin flattens a multi-value field into its warehouse column form
func pipeJoin(values []string) string {
	return strings.Join(values, "|")
}

// tagNames extracts the name list from transformed tags
func tagNames(tags []models.Tag) []string {
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names
}

// staffLines formats staff credits as "Role: Name" lines
func staffLines(credits []models.StaffCredit) []string {
	lines := make([]string, 0, len(credits))
	for _, c := range credits {
		lines = append(lines, fmt.Sprintf("%s: %s", c.Role, c.Name))
	}
	return lines
}
