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

// summaryColumns is the shared projection for listing queries
const summaryColumns = `anime_key, canonical_id, title, genres, average_score, popularity, format, episodes, season_year`

// ResolveTitle finds the warehouse row best matching a user-supplied
// title. An exact case-insensitive match wins; otherwise the most
// popular title containing the query substring is returned. Returns
// ErrNotFound when neither matches.
func (db *DB) ResolveTitle(ctx context.Context, title string) (animeKey int64, canonicalTitle string, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("resolve_title", "dim_anime", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	err = db.conn.QueryRowContext(ctx, `
	SELECT anime_key, title FROM dim_anime
	WHERE LOWER(title) = LOWER(?)
	ORDER BY popularity DESC
	LIMIT 1`, title).Scan(&animeKey, &canonicalTitle)
	if err == nil {
		return animeKey, canonicalTitle, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, "", fmt.Errorf("failed to resolve title: %w", err)
	}

	err = db.conn.QueryRowContext(ctx, `
	SELECT anime_key, title FROM dim_anime
	WHERE LOWER(title) LIKE LOWER(?)
	ORDER BY popularity DESC
	LIMIT 1`, "%"+title+"%").Scan(&animeKey, &canonicalTitle)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, "", fmt.Errorf("title %q: %w", title, ErrNotFound)
		}
		return 0, "", fmt.Errorf("failed to resolve title: %w", err)
	}

	return animeKey, canonicalTitle, nil
}

// TopRated returns the highest scored anime at or above a popularity
// floor. The floor keeps obscure titles with a handful of inflated votes
// out of the list.
func (db *DB) TopRated(ctx context.Context, minPopularity int64, limit int) (anime []models.AnimeSummary, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("top_rated", "dim_anime", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
	SELECT `+summaryColumns+`
	FROM dim_anime
	WHERE average_score > 0 AND popularity >= ?
	ORDER BY average_score DESC, popularity DESC
	LIMIT ?`, minPopularity, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query top rated anime: %w", err)
	}
	defer closeQuietly(rows)

	return scanSummaries(rows)
}

// MostPopular returns anime ordered by popularity descending
func (db *DB) MostPopular(ctx context.Context, limit int) (anime []models.AnimeSummary, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("most_popular", "dim_anime", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	rows, err := db.conn.QueryContext(ctx, `
	SELECT `+summaryColumns+`
	FROM dim_anime
	ORDER BY popularity DESC, anime_key
	LIMIT ?`, normalizeLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to query popular anime: %w", err)
	}
	defer closeQuietly(rows)

	return scanSummaries(rows)
}

// SearchFilter collects the optional dimensions of a catalog search.
// Zero values mean "no filter on this dimension".
type SearchFilter struct {
	Query    string  // substring title match, case-insensitive
	Genre    string  // matches against the pipe-joined genres column
	MinScore float64 // average_score floor
	Year     int     // season_year equality
	Format   string  // TV, MOVIE, OVA, ...
	Limit    int
	Offset   int
}

// buildWhereClause translates the filter into SQL conditions and args
func (f *SearchFilter) buildWhereClause() (string, []interface{}) {
	conditions := ""
	args := []interface{}{}

	if f.Query != "" {
		conditions += ` AND LOWER(title) LIKE LOWER(?)`
		args = append(args, "%"+f.Query+"%")
	}
	if f.Genre != "" {
		conditions += ` AND LOWER(genres) LIKE LOWER(?)`
		args = append(args, "%"+f.Genre+"%")
	}
	if f.MinScore > 0 {
		conditions += ` AND average_score >= ?`
		args = append(args, f.MinScore)
	}
	if f.Year > 0 {
		conditions += ` AND season_year = ?`
		args = append(args, f.Year)
	}
	if f.Format != "" {
		conditions += ` AND UPPER(format) = UPPER(?)`
		args = append(args, f.Format)
	}

	return conditions, args
}

// SearchAnime returns catalog rows matching the filter, most popular
// first, with pagination.
func (db *DB) SearchAnime(ctx context.Context, filter SearchFilter) (anime []models.AnimeSummary, err error) {
	start := time.Now()
	defer func() {
		metrics.RecordDBQuery("search", "dim_anime", time.Since(start), err)
	}()

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := `
	SELECT ` + summaryColumns + `
	FROM dim_anime
	WHERE 1=1`

	conditions, args := filter.buildWhereClause()
	query += conditions

	query += `
	ORDER BY popularity DESC, anime_key
	LIMIT ? OFFSET ?`
	args = append(args, normalizeLimit(filter.Limit), max(filter.Offset, 0))

	rows, err := db.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search anime: %w", err)
	}
	defer closeQuietly(rows)

	return scanSummaries(rows)
}

// scanSummaries drains a summaryColumns result set
func scanSummaries(rows *sql.Rows) ([]models.AnimeSummary, error) {
	// Initialize with empty slice instead of nil to ensure consistent JSON serialization
	anime := []models.AnimeSummary{}
	for rows.Next() {
		var a models.AnimeSummary
		if err := rows.Scan(
			&a.AnimeKey, &a.CanonicalID, &a.Title, &a.Genres,
			&a.AverageScore, &a.Popularity, &a.Format, &a.Episodes, &a.SeasonYear,
		); err != nil {
			return nil, fmt.Errorf("failed to scan anime summary: %w", err)
		}
		anime = append(anime, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating anime summaries: %w", err)
	}
	return anime, nil
}

// normalizeLimit applies the default page size and hard cap
func normalizeLimit(limit int) int {
	switch {
	case limit <= 0:
		return 20
	case limit > 100:
		return 100
	default:
		return limit
	}
}
