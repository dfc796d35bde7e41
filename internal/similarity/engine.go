// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package similarity builds the persisted content-similarity index.
//
// Each canonical entity's enrichment fields are flattened into a
// weighted text blob, the corpus is TF-IDF vectorized, and pairwise
// cosine similarity is computed densely. For every entity only the
// top-N strongest neighbors above a score floor are kept, and the whole
// edge set is swapped into the warehouse in one transaction so readers
// never see a half-built index.
//
// The dense matrix is O(n^2) memory and compare time, which is fine for
// a catalog in the low thousands. Past that the build needs an
// approximate nearest-neighbor structure instead; revisit if the
// catalog grows an order of magnitude.
package similarity

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/metrics"
	"github.com/tomtom215/anisette/internal/models"
)

// Method identifies edges produced by this engine in the similarity
// store. Other producers (a future collaborative filter) use their own
// method tag and replace only their own edges.
const Method = "tfidf_cosine"

// EdgeStore persists similarity edges. ReplaceSimilarityEdges must
// atomically delete every stored edge for the given method and insert
// the new set; a reader mid-replace sees either the old or the new
// index, never a mix.
type EdgeStore interface {
	ReplaceSimilarityEdges(ctx context.Context, method string, edges []models.SimilarityEdge) error
}

// Config contains similarity engine configuration.
type Config struct {
	// MaxFeatures caps the TF-IDF vocabulary. Default 1000.
	MaxFeatures int

	// StopWords override the default English stop list when non-nil.
	StopWords []string

	// MinDF and MaxDF bound term document frequency; see
	// VectorizerConfig. Defaults 1 and 0.8.
	MinDF int
	MaxDF float64

	// Bigrams adds word pairs to the vocabulary.
	Bigrams bool

	// MinSimilarity is the score floor below which edges are not
	// stored. Default 0.1.
	MinSimilarity float64

	// TopN caps stored edges per entity. Default 50.
	TopN int
}

// Engine computes and persists the similarity index.
type Engine struct {
	cfg   Config
	store EdgeStore
}

// New creates a similarity engine, applying defaults for zero config
// values.
func New(store EdgeStore, cfg Config) *Engine {
	if cfg.MaxFeatures == 0 {
		cfg.MaxFeatures = 1000
	}
	if cfg.MinDF <= 0 {
		cfg.MinDF = 1
	}
	if cfg.MaxDF <= 0 || cfg.MaxDF > 1 {
		cfg.MaxDF = 0.8
	}
	if cfg.MinSimilarity <= 0 {
		cfg.MinSimilarity = 0.1
	}
	if cfg.TopN <= 0 {
		cfg.TopN = 50
	}
	return &Engine{cfg: cfg, store: store}
}

// BuildStats summarizes one similarity build.
type BuildStats struct {
	CorpusSize     int `json:"corpus_size"`
	VocabularySize int `json:"vocabulary_size"`
	EdgesWritten   int `json:"edges_written"`
}

// ComputeAndStore rebuilds the similarity index from the given
// entities.
//
// Fewer than two entities is a warning no-op, not an error: a sparse
// catalog is an operational condition, not a bug. Persistence failures
// and cancellation propagate; cancellation before the store call leaves
// the previous index untouched since all writes happen in the final
// atomic replace.
func (e *Engine) ComputeAndStore(ctx context.Context, entities []*models.EntityFeatures) (BuildStats, error) {
	start := time.Now()
	var stats BuildStats

	if len(entities) < 2 {
		logging.Warn().
			Int("entities", len(entities)).
			Msg("need at least 2 entities to compute similarity")
		return stats, nil
	}

	corpus := make([]string, len(entities))
	for i, entity := range entities {
		corpus[i] = BuildFeatureText(entity)
	}

	vectorizer := NewVectorizer(VectorizerConfig{
		MaxFeatures: e.cfg.MaxFeatures,
		StopWords:   e.cfg.StopWords,
		MinDF:       e.cfg.MinDF,
		MaxDF:       e.cfg.MaxDF,
		Bigrams:     e.cfg.Bigrams,
	})
	vectors := vectorizer.FitTransform(corpus)

	logging.Debug().
		Int("corpus", len(corpus)).
		Int("vocabulary", vectorizer.VocabularySize()).
		Msg("corpus vectorized")

	sim, err := pairwiseCosine(ctx, vectors)
	if err != nil {
		return stats, err
	}

	computedAt := time.Now().UTC()
	edges := make([]models.SimilarityEdge, 0, len(entities)*e.cfg.TopN)
	for i := range entities {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		edges = appendTopEdges(edges, entities, sim[i], i, e.cfg.TopN, e.cfg.MinSimilarity, computedAt)
	}

	if err := e.store.ReplaceSimilarityEdges(ctx, Method, edges); err != nil {
		return stats, fmt.Errorf("failed to replace similarity edges: %w", err)
	}

	stats = BuildStats{
		CorpusSize:     len(entities),
		VocabularySize: vectorizer.VocabularySize(),
		EdgesWritten:   len(edges),
	}
	metrics.RecordSimilarityBuild(stats.CorpusSize, stats.VocabularySize, stats.EdgesWritten, time.Since(start))
	logging.Info().
		Int("corpus", stats.CorpusSize).
		Int("vocabulary", stats.VocabularySize).
		Int("edges", stats.EdgesWritten).
		Dur("elapsed", time.Since(start)).
		Msg("similarity index rebuilt")

	return stats, nil
}

// appendTopEdges walks entity i's similarity row in descending score
// order and appends an edge per neighbor until the score drops below
// the floor or topN edges have been emitted. Scores are compared raw
// and stored rounded to four decimals, enough for ranking without
// floating-point drift across platforms.
func appendTopEdges(edges []models.SimilarityEdge, entities []*models.EntityFeatures, row []float64, i, topN int, minSimilarity float64, computedAt time.Time) []models.SimilarityEdge {
	type candidate struct {
		idx   int
		score float64
	}

	candidates := make([]candidate, 0, len(row)-1)
	for j, score := range row {
		if j == i {
			continue
		}
		candidates = append(candidates, candidate{idx: j, score: score})
	}
	sort.Slice(candidates, func(a, b int) bool {
		if candidates[a].score != candidates[b].score {
			return candidates[a].score > candidates[b].score
		}
		return entities[candidates[a].idx].AnimeKey < entities[candidates[b].idx].AnimeKey
	})

	emitted := 0
	for _, c := range candidates {
		if c.score < minSimilarity || emitted >= topN {
			break
		}
		edges = append(edges, models.SimilarityEdge{
			AnimeKey1:  entities[i].AnimeKey,
			AnimeKey2:  entities[c.idx].AnimeKey,
			Score:      round4(c.score),
			Method:     Method,
			ComputedAt: computedAt,
		})
		emitted++
	}
	return edges
}

// pairwiseCosine computes the dense similarity matrix. Vectors are
// already L2-normalized, so cosine reduces to a dot product; the matrix
// is filled symmetrically to halve the work.
func pairwiseCosine(ctx context.Context, vectors [][]float64) ([][]float64, error) {
	n := len(vectors)
	sim := make([][]float64, n)
	for i := range sim {
		sim[i] = make([]float64, n)
		sim[i][i] = 1
	}

	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		for j := i + 1; j < n; j++ {
			s := dot(vectors[i], vectors[j])
			sim[i][j] = s
			sim[j][i] = s
		}
	}
	return sim, nil
}

func dot(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

func round4(x float64) float64 {
	return math.Round(x*10000) / 10000
}
