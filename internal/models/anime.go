// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package models

import (
	"fmt"
	"strconv"
	"strings"
)

// SourceRecord is one anime as reported by one upstream source, after
// transformation but before deduplication. Records are immutable once
// produced by the transform stage; the deduplicator only reads them.
//
// Source and SourceID together identify the record within its source
// catalog. Popularity is the authority signal used to decide which record
// anchors a canonical cluster (higher popularity founds the group).
type SourceRecord struct {
	Source     string `json:"source"`
	SourceID   int    `json:"source_id"`
	Title      string `json:"title"`
	Popularity int    `json:"popularity"`

	// Enrichment fields, all optional. Multi-value fields keep their
	// upstream order so feature text stays deterministic across runs.
	Genres         []string      `json:"genres,omitempty"`
	Tags           []Tag         `json:"tags,omitempty"`
	Studios        []string      `json:"studios,omitempty"`
	Staff          []StaffCredit `json:"staff,omitempty"`
	Description    string        `json:"description,omitempty"`
	SourceMaterial string        `json:"source_material,omitempty"`
	AverageScore   float64       `json:"average_score,omitempty"`

	Format     string `json:"format,omitempty"`
	Status     string `json:"status,omitempty"`
	Episodes   int    `json:"episodes,omitempty"`
	Season     string `json:"season,omitempty"`
	SeasonYear int    `json:"season_year,omitempty"`
}

// SourceKey returns the per-source identity "{source}#{source_id}" used
// throughout deduplication and provenance tracking.
func (r *SourceRecord) SourceKey() string {
	return fmt.Sprintf("%s#%d", r.Source, r.SourceID)
}

// SplitSourceKey parses a "{source}#{source_id}" key back into its parts.
// The last '#' separates source from id, so sources containing '#' still
// round-trip through SourceKey.
func SplitSourceKey(key string) (source string, sourceID int, ok bool) {
	idx := strings.LastIndexByte(key, '#')
	if idx <= 0 || idx == len(key)-1 {
		return "", 0, false
	}
	id, err := strconv.Atoi(key[idx+1:])
	if err != nil {
		return "", 0, false
	}
	return key[:idx], id, true
}

// Valid reports whether the record carries the fields deduplication
// requires. Invalid records are skipped and counted, never fatal.
func (r *SourceRecord) Valid() bool {
	return r.Source != "" && r.SourceID > 0 && r.Title != ""
}

// Tag is a weighted descriptor attached to an anime by the source catalog.
// Rank is 0-100; spoiler tags are excluded from feature extraction.
type Tag struct {
	Name      string `json:"name"`
	Rank      int    `json:"rank"`
	Category  string `json:"category,omitempty"`
	IsSpoiler bool   `json:"is_spoiler,omitempty"`
}

// StaffCredit is one staff member and their role on a production.
type StaffCredit struct {
	Role string `json:"role"`
	Name string `json:"name"`
}

// EntityFeatures is the flattened feature view of a canonical entity as
// stored in the warehouse. Multi-value fields are pipe-joined strings;
// the feature builder converts the separators back to whitespace before
// vectorization.
type EntityFeatures struct {
	AnimeKey       int64  `json:"anime_key"`
	CanonicalID    string `json:"canonical_id"`
	Title          string `json:"title"`
	Genres         string `json:"genres,omitempty"`
	Tags           string `json:"tags,omitempty"`
	Studios        string `json:"studios,omitempty"`
	Staff          string `json:"staff,omitempty"`
	SourceMaterial string `json:"source_material,omitempty"`
	Description    string `json:"description,omitempty"`
}

// AnimeSummary is the compact warehouse row used by listing endpoints
// (top rated, most popular, search).
type AnimeSummary struct {
	AnimeKey     int64   `json:"anime_key"`
	CanonicalID  string  `json:"canonical_id"`
	Title        string  `json:"title"`
	Genres       string  `json:"genres,omitempty"`
	AverageScore float64 `json:"average_score,omitempty"`
	Popularity   int64   `json:"popularity"`
	Format       string  `json:"format,omitempty"`
	Episodes     int     `json:"episodes,omitempty"`
	SeasonYear   int     `json:"season_year,omitempty"`
}

// AnimeDetail is the full warehouse row for one canonical anime, served
// by GET /api/v1/anime/{animeKey}. Sources lists the upstream records
// that merged into this entity.
type AnimeDetail struct {
	AnimeKey       int64       `json:"anime_key"`
	CanonicalID    string      `json:"canonical_id"`
	Title          string      `json:"title"`
	SeriesBase     string      `json:"series_base,omitempty"`
	Genres         string      `json:"genres,omitempty"`
	Tags           string      `json:"tags,omitempty"`
	Studios        string      `json:"studios,omitempty"`
	Staff          string      `json:"staff,omitempty"`
	SourceMaterial string      `json:"source_material,omitempty"`
	Description    string      `json:"description,omitempty"`
	AverageScore   float64     `json:"average_score,omitempty"`
	Popularity     int64       `json:"popularity"`
	Format         string      `json:"format,omitempty"`
	Status         string      `json:"status,omitempty"`
	Episodes       int         `json:"episodes,omitempty"`
	Season         string      `json:"season,omitempty"`
	SeasonYear     int         `json:"season_year,omitempty"`
	Sources        []SourceRef `json:"sources,omitempty"`
}

// SourceRef is one provenance row on an AnimeDetail: the upstream record
// and the fuzzy match confidence that merged it (founder rows carry 1.0).
type SourceRef struct {
	Source     string  `json:"source"`
	SourceID   int64   `json:"source_id"`
	Confidence float64 `json:"confidence"`
}
