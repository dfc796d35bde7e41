// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package dedup merges per-source anime records into canonical entities.
//
// Sources report the same real-world anime under different ids and often
// different titles ("Attack on Titan" on one, "Shingeki no Kyojin" on
// another). The deduplicator clusters them with fuzzy title matching
// anchored by a popularity heuristic: records are processed from most to
// least popular, and each either joins the best-matching existing group
// or founds a new one. Popular records anchor groups because their
// titles are the ones operators and users expect to see.
//
// All clustering state lives in the Result of a single BuildCanonical
// call; a Deduplicator carries configuration only and is safe for
// concurrent runs.
package dedup

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/metrics"
	"github.com/tomtom215/anisette/internal/models"
	"github.com/tomtom215/anisette/internal/series"
)

// DefaultThreshold is the minimum blended fuzzy score for two titles to
// be considered the same anime. Chosen empirically; override via Config.
const DefaultThreshold = 0.85

// Config contains deduplicator configuration.
type Config struct {
	// Threshold is the minimum match score in (0,1] to merge a record
	// into an existing group. Default 0.85.
	Threshold float64

	// Matcher scores title pairs. Default is the fuzzy TitleMatcher;
	// tests substitute deterministic stubs.
	Matcher Matcher
}

// Deduplicator clusters source records into canonical entities.
type Deduplicator struct {
	threshold float64
	matcher   Matcher
}

// New creates a deduplicator, applying defaults for zero config values.
func New(cfg Config) *Deduplicator {
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.Matcher == nil {
		cfg.Matcher = NewTitleMatcher()
	}
	return &Deduplicator{
		threshold: cfg.Threshold,
		matcher:   cfg.Matcher,
	}
}

// Match records one record joining an existing canonical group.
type Match struct {
	SourceKey   string  `json:"source_key"`
	CanonicalID string  `json:"canonical_id"`
	Score       float64 `json:"score"`
}

// Stats summarizes one deduplication run. These are the primary
// acceptance signals for operators: a collapsing ratio far from the
// expected ~1.5 sources per entity usually means the threshold or an
// upstream extractor misbehaved.
type Stats struct {
	TotalSources        int     `json:"total_sources"`
	SkippedRecords      int     `json:"skipped_records"`
	CanonicalCount      int     `json:"canonical_count"`
	AvgSourcesPerEntity float64 `json:"avg_sources_per_entity"`
	Matches             int     `json:"matches"`
	Threshold           float64 `json:"threshold"`
}

// Result is the run-scoped outcome of one BuildCanonical call.
type Result struct {
	// Entities maps canonical id to the merged entity.
	Entities map[string]*models.CanonicalEntity

	// DedupMap maps every grouped source key to its canonical id.
	DedupMap map[string]string

	// MatchHistory lists merges in processing order, founders excluded.
	MatchHistory []Match

	Stats Stats
}

// CanonicalID returns the canonical id a source record was assigned to,
// falling back to the bare source key for records this run never saw.
func (r *Result) CanonicalID(source string, sourceID int) string {
	key := fmt.Sprintf("%s#%d", source, sourceID)
	if id, ok := r.DedupMap[key]; ok {
		return id
	}
	return key
}

// SourceMapping is one provenance row for warehouse loading: which
// source record contributes to which canonical entity, and with what
// match confidence. Founders carry confidence 1.0.
type SourceMapping struct {
	Source      string  `json:"source"`
	SourceID    int     `json:"source_id"`
	CanonicalID string  `json:"canonical_id"`
	Confidence  float64 `json:"confidence_score"`
}

// Mappings flattens the run's provenance into rows ordered by canonical
// id then source key, so repeated runs over the same input load
// identically.
func (r *Result) Mappings() []SourceMapping {
	rows := make([]SourceMapping, 0, len(r.DedupMap))
	for _, entity := range r.Entities {
		for _, key := range entity.ContributingSources {
			source, sourceID, ok := models.SplitSourceKey(key)
			if !ok {
				continue
			}
			confidence := 1.0
			if score, found := entity.ConfidenceScores[key]; found {
				confidence = score
			}
			rows = append(rows, SourceMapping{
				Source:      source,
				SourceID:    sourceID,
				CanonicalID: entity.CanonicalID,
				Confidence:  confidence,
			})
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].CanonicalID != rows[j].CanonicalID {
			return rows[i].CanonicalID < rows[j].CanonicalID
		}
		if rows[i].Source != rows[j].Source {
			return rows[i].Source < rows[j].Source
		}
		return rows[i].SourceID < rows[j].SourceID
	})
	return rows
}

// group is one canonical cluster under construction. The founder is the
// first (most popular) record; later records are only ever compared
// against founders, never against other members.
type group struct {
	canonicalID string
	founder     *models.SourceRecord
	members     []*models.SourceRecord
	confidence  map[string]float64
}

// BuildCanonical clusters records into canonical entities.
//
// Records are stably sorted by popularity descending, then greedily
// assigned: each record joins the best-scoring existing group if that
// score meets the threshold, otherwise it founds a new group. Ties on
// score keep the earliest-founded group. Records missing source, source
// id, or title are skipped and counted, never fatal.
//
// The only error BuildCanonical returns is context cancellation; the
// clustering itself is total over whatever records it receives.
func (d *Deduplicator) BuildCanonical(ctx context.Context, records []models.SourceRecord) (*Result, error) {
	res := &Result{
		Entities: make(map[string]*models.CanonicalEntity),
		DedupMap: make(map[string]string),
		Stats:    Stats{Threshold: d.threshold},
	}

	if len(records) == 0 {
		logging.Warn().Msg("no records provided for deduplication")
		return res, nil
	}

	sorted := make([]models.SourceRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Popularity > sorted[j].Popularity
	})

	// Groups in founding order; map iteration would make matching
	// nondeterministic when two founders tie on score.
	var groups []*group

	for i := range sorted {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		rec := &sorted[i]
		if !rec.Valid() {
			res.Stats.SkippedRecords++
			logging.Warn().
				Str("source", rec.Source).
				Int("source_id", rec.SourceID).
				Msg("skipping record with missing fields")
			continue
		}

		sourceKey := rec.SourceKey()

		var bestGroup *group
		bestScore := 0.0
		for _, g := range groups {
			score := d.matcher.Match(rec.Title, g.founder.Title)
			if score > bestScore {
				bestScore = score
				bestGroup = g
			}
		}
		metrics.DedupComparisons.Add(float64(len(groups)))

		if bestGroup != nil && bestScore >= d.threshold {
			bestGroup.members = append(bestGroup.members, rec)
			if bestGroup.confidence == nil {
				bestGroup.confidence = make(map[string]float64)
			}
			bestGroup.confidence[sourceKey] = bestScore
			res.DedupMap[sourceKey] = bestGroup.canonicalID
			res.MatchHistory = append(res.MatchHistory, Match{
				SourceKey:   sourceKey,
				CanonicalID: bestGroup.canonicalID,
				Score:       bestScore,
			})
			metrics.DedupMatchConfidence.Observe(bestScore)
			logging.Debug().
				Str("source_key", sourceKey).
				Str("canonical_id", bestGroup.canonicalID).
				Float64("score", bestScore).
				Msg("merged record into canonical group")
			continue
		}

		id := canonicalID(rec)
		groups = append(groups, &group{
			canonicalID: id,
			founder:     rec,
			members:     []*models.SourceRecord{rec},
		})
		res.DedupMap[sourceKey] = id
		logging.Debug().
			Str("source_key", sourceKey).
			Str("canonical_id", id).
			Msg("founded canonical group")
	}

	for _, g := range groups {
		sources := make([]string, 0, len(g.members))
		for _, m := range g.members {
			sources = append(sources, m.SourceKey())
		}
		res.Entities[g.canonicalID] = &models.CanonicalEntity{
			CanonicalID:         g.canonicalID,
			Title:               g.founder.Title,
			SeriesBase:          series.Resolve(g.founder.Title),
			ContributingSources: sources,
			ConfidenceScores:    g.confidence,
			Founder:             g.founder,
		}
	}

	res.Stats.TotalSources = len(res.DedupMap)
	res.Stats.CanonicalCount = len(res.Entities)
	res.Stats.Matches = len(res.MatchHistory)
	if res.Stats.CanonicalCount > 0 {
		res.Stats.AvgSourcesPerEntity = float64(res.Stats.TotalSources) / float64(res.Stats.CanonicalCount)
	}

	metrics.RecordDedupResult(res.Stats.CanonicalCount, res.Stats.Matches)
	logging.Info().
		Int("records", len(records)).
		Int("canonical", res.Stats.CanonicalCount).
		Int("merged", res.Stats.Matches).
		Int("skipped", res.Stats.SkippedRecords).
		Msg("deduplication complete")

	return res, nil
}

// sourceTags maps known source names to the short prefixes used in
// canonical ids, matching the warehouse convention (AL_16498).
var sourceTags = map[string]string{
	"anilist": "AL",
	"mal":     "MAL",
	"kitsu":   "KITSU",
}

// canonicalID derives a stable canonical id from a founding record.
// Re-running deduplication over the same catalog yields the same ids
// regardless of record order.
func canonicalID(rec *models.SourceRecord) string {
	tag, ok := sourceTags[strings.ToLower(rec.Source)]
	if !ok {
		tag = strings.ToUpper(rec.Source)
	}
	return fmt.Sprintf("%s_%d", tag, rec.SourceID)
}

