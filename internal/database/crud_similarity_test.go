// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package database

import (
	"context"
	"testing"
	"time"

	"github.com/tomtom215/anisette/internal/models"
	"github.com/tomtom215/anisette/internal/similarity"
)

// The warehouse is the similarity engine's persistence backend
var _ similarity.EdgeStore = (*DB)(nil)

func edge(from, to int64, score float64) models.SimilarityEdge {
	return models.SimilarityEdge{
		AnimeKey1:  from,
		AnimeKey2:  to,
		Score:      score,
		Method:     similarity.Method,
		ComputedAt: time.Now().UTC(),
	}
}

func TestReplaceSimilarityEdges_FullReplace(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedEntities(t, db,
		testEntity(1, "Alpha", 3000),
		testEntity(2, "Beta", 2000),
		testEntity(3, "Gamma", 1000),
	)

	first := []models.SimilarityEdge{edge(1, 2, 0.9), edge(1, 3, 0.5), edge(2, 1, 0.9)}
	if err := db.ReplaceSimilarityEdges(ctx, similarity.Method, first); err != nil {
		t.Fatalf("ReplaceSimilarityEdges() error = %v", err)
	}

	count, err := db.SimilarityEdgeCount(ctx, similarity.Method)
	if err != nil {
		t.Fatalf("SimilarityEdgeCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("edge count = %d, want 3", count)
	}

	// A rebuild fully supersedes the previous index
	second := []models.SimilarityEdge{edge(1, 2, 0.7)}
	if err := db.ReplaceSimilarityEdges(ctx, similarity.Method, second); err != nil {
		t.Fatalf("ReplaceSimilarityEdges() rebuild error = %v", err)
	}

	count, err = db.SimilarityEdgeCount(ctx, similarity.Method)
	if err != nil {
		t.Fatalf("SimilarityEdgeCount() error = %v", err)
	}
	if count != 1 {
		t.Errorf("edge count after rebuild = %d, want 1", count)
	}

	titles, err := db.SimilarTo(ctx, 1, 10)
	if err != nil {
		t.Fatalf("SimilarTo() error = %v", err)
	}
	if len(titles) != 1 || titles[0].Score != 0.7 {
		t.Errorf("SimilarTo() after rebuild = %+v, want single edge at 0.7", titles)
	}
}

func TestReplaceSimilarityEdges_MethodScoped(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedEntities(t, db,
		testEntity(1, "Alpha", 3000),
		testEntity(2, "Beta", 2000),
	)

	if err := db.ReplaceSimilarityEdges(ctx, "tfidf_cosine", []models.SimilarityEdge{edge(1, 2, 0.8)}); err != nil {
		t.Fatalf("ReplaceSimilarityEdges(tfidf_cosine) error = %v", err)
	}
	if err := db.ReplaceSimilarityEdges(ctx, "collaborative", []models.SimilarityEdge{edge(2, 1, 0.6)}); err != nil {
		t.Fatalf("ReplaceSimilarityEdges(collaborative) error = %v", err)
	}

	// Replacing one method leaves the other method's edges untouched
	if err := db.ReplaceSimilarityEdges(ctx, "tfidf_cosine", nil); err != nil {
		t.Fatalf("ReplaceSimilarityEdges(tfidf_cosine, empty) error = %v", err)
	}

	tfidfCount, err := db.SimilarityEdgeCount(ctx, "tfidf_cosine")
	if err != nil {
		t.Fatalf("SimilarityEdgeCount() error = %v", err)
	}
	if tfidfCount != 0 {
		t.Errorf("tfidf_cosine count = %d, want 0", tfidfCount)
	}

	collabCount, err := db.SimilarityEdgeCount(ctx, "collaborative")
	if err != nil {
		t.Fatalf("SimilarityEdgeCount() error = %v", err)
	}
	if collabCount != 1 {
		t.Errorf("collaborative count = %d, want 1 (must survive other method's replace)", collabCount)
	}
}

func TestSimilarTo_OrderAndJoin(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedEntities(t, db,
		testEntity(1, "Alpha", 3000),
		testEntity(2, "Beta", 2000),
		testEntity(3, "Gamma", 1000),
		testEntity(4, "Delta", 500),
	)

	edges := []models.SimilarityEdge{
		edge(1, 3, 0.4512),
		edge(1, 2, 0.9231),
		edge(1, 4, 0.7),
	}
	if err := db.ReplaceSimilarityEdges(ctx, similarity.Method, edges); err != nil {
		t.Fatalf("ReplaceSimilarityEdges() error = %v", err)
	}

	titles, err := db.SimilarTo(ctx, 1, 10)
	if err != nil {
		t.Fatalf("SimilarTo() error = %v", err)
	}
	if len(titles) != 3 {
		t.Fatalf("len(titles) = %d, want 3", len(titles))
	}

	wantOrder := []string{"Beta", "Delta", "Gamma"}
	for i, want := range wantOrder {
		if titles[i].Title != want {
			t.Errorf("titles[%d].Title = %q, want %q", i, titles[i].Title, want)
		}
	}
	for i := 1; i < len(titles); i++ {
		if titles[i].Score > titles[i-1].Score {
			t.Errorf("scores not descending: %v then %v", titles[i-1].Score, titles[i].Score)
		}
	}

	// Display fields come from the dimension join
	if titles[0].CanonicalID != "AL_2" {
		t.Errorf("titles[0].CanonicalID = %q, want %q", titles[0].CanonicalID, "AL_2")
	}
	if titles[0].Genres != "Action|Drama" {
		t.Errorf("titles[0].Genres = %q, want %q", titles[0].Genres, "Action|Drama")
	}
}

func TestSimilarTo_LimitHonored(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	seedEntities(t, db,
		testEntity(1, "Alpha", 3000),
		testEntity(2, "Beta", 2000),
		testEntity(3, "Gamma", 1000),
	)

	edges := []models.SimilarityEdge{edge(1, 2, 0.9), edge(1, 3, 0.8)}
	if err := db.ReplaceSimilarityEdges(ctx, similarity.Method, edges); err != nil {
		t.Fatalf("ReplaceSimilarityEdges() error = %v", err)
	}

	titles, err := db.SimilarTo(ctx, 1, 1)
	if err != nil {
		t.Fatalf("SimilarTo() error = %v", err)
	}
	if len(titles) != 1 {
		t.Errorf("len(titles) = %d, want 1", len(titles))
	}
}

func TestSimilarTo_NoEdges(t *testing.T) {
	db := setupTestDB(t)

	seedEntities(t, db, testEntity(1, "Alpha", 3000))

	titles, err := db.SimilarTo(context.Background(), 1, 10)
	if err != nil {
		t.Fatalf("SimilarTo() error = %v", err)
	}
	if len(titles) != 0 {
		t.Errorf("len(titles) = %d, want 0", len(titles))
	}
}
