// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package recommend answers recommendation queries from the persisted
// similarity index.
//
// A single-seed query returns the seed's strongest stored neighbors. A
// multi-seed query unions each seed's neighbors and ranks candidates by
// the mean similarity over the seeds that actually listed them, with
// consensus (how many seeds listed a candidate) breaking ties. Both
// modes exclude the seeds' own franchises and keep only the best entry
// per series, reading an over-fetched candidate window so filtering
// still fills the requested count.
//
// The layer is read-only against the warehouse and safe for concurrent
// use.
package recommend

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tomtom215/anisette/internal/database"
	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/metrics"
	"github.com/tomtom215/anisette/internal/models"
	"github.com/tomtom215/anisette/internal/series"
)

// ErrNoSeedsResolved is returned by RecommendMulti when none of the
// requested seed titles matched a warehouse entity. Callers can present
// it as "no recommendations", distinct from an empty result computed
// from resolved seeds.
var ErrNoSeedsResolved = errors.New("no seed titles resolved")

// Store is the warehouse read surface the query layer needs. It is
// implemented by the database layer; the interface exists so tests can
// substitute an in-memory index.
type Store interface {
	// ResolveTitle maps a user-supplied title to a warehouse entity,
	// preferring an exact case-insensitive match over a substring
	// match. The returned string is the stored canonical title.
	ResolveTitle(ctx context.Context, title string) (int64, string, error)

	// SimilarTo returns the stored similarity neighbors of an entity
	// joined with display fields, strongest first.
	SimilarTo(ctx context.Context, animeKey int64, limit int) ([]models.ScoredTitle, error)
}

// Config contains recommendation query settings.
type Config struct {
	// DefaultLimit is used when a caller asks for zero results.
	// Default 10.
	DefaultLimit int

	// MaxLimit caps the requested result count. Default 100.
	MaxLimit int

	// OverFetchFactor multiplies the single-seed read so series
	// filtering still fills the requested count. Default 3.
	OverFetchFactor int

	// MultiSeedFetch is how many candidates are read per seed in
	// multi-seed queries before score aggregation. Default 100.
	MultiSeedFetch int
}

// Query serves recommendation requests against the similarity index.
type Query struct {
	cfg   Config
	store Store
}

// New creates a recommendation query layer, applying defaults for zero
// config values.
func New(store Store, cfg Config) *Query {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = 10
	}
	if cfg.MaxLimit <= 0 {
		cfg.MaxLimit = 100
	}
	if cfg.OverFetchFactor <= 0 {
		cfg.OverFetchFactor = 3
	}
	if cfg.MultiSeedFetch <= 0 {
		cfg.MultiSeedFetch = 100
	}

	return &Query{cfg: cfg, store: store}
}

// Recommend returns up to n titles most similar to the seed, strongest
// first. The seed's own franchise is excluded and only the top-scoring
// candidate per series survives, so sequels of one show do not crowd
// the list. An unknown seed surfaces the store's not-found error.
func (q *Query) Recommend(ctx context.Context, seedTitle string, n int) ([]models.Recommendation, error) {
	n = q.clampLimit(n)

	seedKey, storedTitle, err := q.store.ResolveTitle(ctx, seedTitle)
	if err != nil {
		if errors.Is(err, database.ErrNotFound) {
			metrics.RecordRecommendQuery("single", "unknown_title")
		} else {
			metrics.RecordRecommendQuery("single", "error")
		}
		return nil, err
	}

	candidates, err := q.store.SimilarTo(ctx, seedKey, n*q.cfg.OverFetchFactor)
	if err != nil {
		metrics.RecordRecommendQuery("single", "error")
		return nil, fmt.Errorf("failed to load similarity edges for %q: %w", storedTitle, err)
	}

	ranked := make([]models.Recommendation, 0, len(candidates))
	for _, c := range candidates {
		ranked = append(ranked, models.Recommendation{
			AnimeKey:     c.AnimeKey,
			CanonicalID:  c.CanonicalID,
			Title:        c.Title,
			Score:        c.Score,
			Genres:       c.Genres,
			AverageScore: c.AverageScore,
		})
	}

	recs := filterBySeries(ranked, []string{seriesBase(storedTitle)}, n)

	logging.Debug().
		Str("seed", storedTitle).
		Int64("anime_key", seedKey).
		Int("candidates", len(candidates)).
		Int("returned", len(recs)).
		Msg("Served single-seed recommendation query")
	metrics.RecordRecommendQuery("single", "ok")

	return recs, nil
}

// RecommendMulti returns up to n titles ranked against several seeds at
// once. Each candidate's score is the mean similarity over the seeds
// whose neighbor lists include it; a candidate absent from a seed's
// list contributes no term for that seed rather than a zero. Ties rank
// the candidate matched by more seeds first.
//
// Seeds that do not resolve are skipped individually; only when every
// seed is unknown does the query fail, with ErrNoSeedsResolved.
func (q *Query) RecommendMulti(ctx context.Context, seedTitles []string, n int) ([]models.Recommendation, error) {
	n = q.clampLimit(n)

	type seed struct {
		key  int64
		base string
	}
	seeds := make([]seed, 0, len(seedTitles))
	seedKeys := make(map[int64]bool, len(seedTitles))
	for _, title := range seedTitles {
		key, storedTitle, err := q.store.ResolveTitle(ctx, title)
		if err != nil {
			if errors.Is(err, database.ErrNotFound) {
				metrics.RecommendSeedsUnresolved.Inc()
				logging.Warn().
					Str("title", title).
					Msg("Seed title not found, skipping")
				continue
			}
			metrics.RecordRecommendQuery("multi", "error")
			return nil, err
		}
		seeds = append(seeds, seed{key: key, base: seriesBase(storedTitle)})
		seedKeys[key] = true
	}
	if len(seeds) == 0 {
		metrics.RecordRecommendQuery("multi", "no_seeds")
		return nil, fmt.Errorf("%d seed titles: %w", len(seedTitles), ErrNoSeedsResolved)
	}

	// Union the per-seed neighbor lists, accumulating score sums and
	// match counts per candidate. Display fields are identical on every
	// sighting, so the first one wins.
	type tally struct {
		rec   models.Recommendation
		total float64
		count int
	}
	tallies := make(map[int64]*tally)
	for _, s := range seeds {
		candidates, err := q.store.SimilarTo(ctx, s.key, q.cfg.MultiSeedFetch)
		if err != nil {
			metrics.RecordRecommendQuery("multi", "error")
			return nil, fmt.Errorf("failed to load similarity edges for seed %d: %w", s.key, err)
		}
		for _, c := range candidates {
			if seedKeys[c.AnimeKey] {
				continue
			}
			t, ok := tallies[c.AnimeKey]
			if !ok {
				t = &tally{rec: models.Recommendation{
					AnimeKey:     c.AnimeKey,
					CanonicalID:  c.CanonicalID,
					Title:        c.Title,
					Genres:       c.Genres,
					AverageScore: c.AverageScore,
				}}
				tallies[c.AnimeKey] = t
			}
			t.total += c.Score
			t.count++
		}
	}

	ranked := make([]models.Recommendation, 0, len(tallies))
	for _, t := range tallies {
		t.rec.Score = round4(t.total / float64(t.count))
		t.rec.MatchCount = t.count
		ranked = append(ranked, t.rec)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		if ranked[i].MatchCount != ranked[j].MatchCount {
			return ranked[i].MatchCount > ranked[j].MatchCount
		}
		return ranked[i].Title < ranked[j].Title
	})

	excluded := make([]string, 0, len(seeds))
	for _, s := range seeds {
		excluded = append(excluded, s.base)
	}
	recs := filterBySeries(ranked, excluded, n)

	logging.Debug().
		Int("seeds_requested", len(seedTitles)).
		Int("seeds_resolved", len(seeds)).
		Int("candidates", len(ranked)).
		Int("returned", len(recs)).
		Msg("Served multi-seed recommendation query")
	metrics.RecordRecommendQuery("multi", "ok")

	return recs, nil
}

// clampLimit normalizes a requested result count.
func (q *Query) clampLimit(n int) int {
	if n <= 0 {
		return q.cfg.DefaultLimit
	}
	if n > q.cfg.MaxLimit {
		return q.cfg.MaxLimit
	}
	return n
}

// seriesBase resolves a title to its lowercased franchise base name.
func seriesBase(title string) string {
	return strings.ToLower(series.Resolve(title))
}

// filterBySeries walks candidates in rank order, dropping any whose
// base name matches an excluded base and keeping only the first entry
// seen per franchise, until limit survivors are collected.
func filterBySeries(ranked []models.Recommendation, excluded []string, limit int) []models.Recommendation {
	kept := make([]models.Recommendation, 0, limit)
	seen := make(map[string]bool, limit)

	for _, rec := range ranked {
		base := seriesBase(rec.Title)
		if excludedBase(base, excluded) || seen[base] {
			continue
		}
		seen[base] = true
		kept = append(kept, rec)
		if len(kept) == limit {
			break
		}
	}

	return kept
}

// excludedBase reports whether base belongs to any excluded franchise.
func excludedBase(base string, excluded []string) bool {
	for _, ex := range excluded {
		if series.SameBase(base, ex) {
			return true
		}
	}
	return false
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
