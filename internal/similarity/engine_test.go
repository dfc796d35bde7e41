// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package similarity

import (
	"context"
	"errors"
	"fmt"
	"math"
	"testing"

	"github.com/tomtom215/anisette/internal/models"
)

type stubStore struct {
	method string
	edges  []models.SimilarityEdge
	err    error
	calls  int
}

func (s *stubStore) ReplaceSimilarityEdges(_ context.Context, method string, edges []models.SimilarityEdge) error {
	s.calls++
	if s.err != nil {
		return s.err
	}
	s.method = method
	s.edges = edges
	return nil
}

func TestNew_Defaults(t *testing.T) {
	e := New(&stubStore{}, Config{})

	if e.cfg.MaxFeatures != 1000 {
		t.Errorf("MaxFeatures = %d, want 1000", e.cfg.MaxFeatures)
	}
	if e.cfg.MinSimilarity != 0.1 {
		t.Errorf("MinSimilarity = %f, want 0.1", e.cfg.MinSimilarity)
	}
	if e.cfg.TopN != 50 {
		t.Errorf("TopN = %d, want 50", e.cfg.TopN)
	}
	if e.cfg.MaxDF != 0.8 {
		t.Errorf("MaxDF = %f, want 0.8", e.cfg.MaxDF)
	}
	if e.cfg.MinDF != 1 {
		t.Errorf("MinDF = %d, want 1", e.cfg.MinDF)
	}
}

func TestComputeAndStore_InsufficientCorpus(t *testing.T) {
	store := &stubStore{}
	e := New(store, Config{})

	for _, entities := range [][]*models.EntityFeatures{
		nil,
		{{AnimeKey: 1, Tags: "Action"}},
	} {
		stats, err := e.ComputeAndStore(context.Background(), entities)
		if err != nil {
			t.Errorf("ComputeAndStore(%d entities) error = %v, want nil", len(entities), err)
		}
		if stats.EdgesWritten != 0 {
			t.Errorf("stats = %+v, want zero for insufficient corpus", stats)
		}
	}
	if store.calls != 0 {
		t.Errorf("store called %d times for insufficient corpus, want 0", store.calls)
	}
}

// With 20 entities sharing identical features, every pair scores 1.0,
// yet each entity must keep at most top_n outgoing edges.
func TestComputeAndStore_TopNTruncation(t *testing.T) {
	entities := make([]*models.EntityFeatures, 20)
	for i := range entities {
		entities[i] = &models.EntityFeatures{
			AnimeKey: int64(i + 1),
			Tags:     "action adventure fantasy",
		}
	}

	store := &stubStore{}
	e := New(store, Config{TopN: 5, MinSimilarity: 0.1, MaxDF: 1.0})

	stats, err := e.ComputeAndStore(context.Background(), entities)
	if err != nil {
		t.Fatalf("ComputeAndStore() error = %v", err)
	}

	perEntity := make(map[int64]int)
	for _, edge := range store.edges {
		perEntity[edge.AnimeKey1]++
	}
	for key, count := range perEntity {
		if count > 5 {
			t.Errorf("entity %d has %d outgoing edges, want <= 5", key, count)
		}
	}
	if stats.EdgesWritten != 20*5 {
		t.Errorf("EdgesWritten = %d, want %d", stats.EdgesWritten, 20*5)
	}
	if store.method != Method {
		t.Errorf("stored method = %q, want %q", store.method, Method)
	}
}

func TestComputeAndStore_EdgeInvariants(t *testing.T) {
	entities := []*models.EntityFeatures{
		{AnimeKey: 1, Tags: "mecha space battle", Genres: "Action"},
		{AnimeKey: 2, Tags: "mecha space pilots", Genres: "Action"},
		{AnimeKey: 3, Tags: "romance school comedy", Genres: "Romance"},
		{AnimeKey: 4, Tags: "cooking food drama", Genres: "Slice of Life"},
	}

	store := &stubStore{}
	e := New(store, Config{MinSimilarity: 0.1, MaxDF: 1.0})

	if _, err := e.ComputeAndStore(context.Background(), entities); err != nil {
		t.Fatalf("ComputeAndStore() error = %v", err)
	}

	for _, edge := range store.edges {
		if edge.AnimeKey1 == edge.AnimeKey2 {
			t.Errorf("self edge stored: %+v", edge)
		}
		if edge.Score < 0.1 || edge.Score > 1 {
			t.Errorf("edge score %f outside [0.1, 1]: %+v", edge.Score, edge)
		}
		if edge.Method != Method {
			t.Errorf("edge method = %q, want %q", edge.Method, Method)
		}
		if math.Abs(edge.Score*10000-math.Round(edge.Score*10000)) > 1e-9 {
			t.Errorf("edge score %v not rounded to 4 decimals", edge.Score)
		}
	}

	// The two mecha shows must be each other's strongest neighbor.
	var mechaEdge *models.SimilarityEdge
	for i := range store.edges {
		if store.edges[i].AnimeKey1 == 1 && store.edges[i].AnimeKey2 == 2 {
			mechaEdge = &store.edges[i]
			break
		}
	}
	if mechaEdge == nil {
		t.Fatal("no edge stored between the two mecha entities")
	}
	for _, edge := range store.edges {
		if edge.AnimeKey1 == 1 && edge.Score > mechaEdge.Score {
			t.Errorf("edge %+v outranks the mecha pair %f", edge, mechaEdge.Score)
		}
	}
}

func TestComputeAndStore_PersistenceFailure(t *testing.T) {
	entities := []*models.EntityFeatures{
		{AnimeKey: 1, Tags: "action"},
		{AnimeKey: 2, Tags: "action"},
	}

	wantErr := errors.New("database locked")
	store := &stubStore{err: wantErr}
	e := New(store, Config{MaxDF: 1.0})

	_, err := e.ComputeAndStore(context.Background(), entities)
	if !errors.Is(err, wantErr) {
		t.Errorf("ComputeAndStore() error = %v, want wrapped %v", err, wantErr)
	}
}

func TestComputeAndStore_Cancelled(t *testing.T) {
	entities := []*models.EntityFeatures{
		{AnimeKey: 1, Tags: "action"},
		{AnimeKey: 2, Tags: "action"},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := &stubStore{}
	e := New(store, Config{MaxDF: 1.0})

	if _, err := e.ComputeAndStore(ctx, entities); err == nil {
		t.Fatal("ComputeAndStore() with cancelled context returned nil error")
	}
	if store.calls != 0 {
		t.Errorf("store called %d times after cancellation, want 0", store.calls)
	}
}

func TestComputeAndStore_Deterministic(t *testing.T) {
	entities := make([]*models.EntityFeatures, 0, 6)
	for i := 0; i < 6; i++ {
		entities = append(entities, &models.EntityFeatures{
			AnimeKey: int64(i + 1),
			Tags:     fmt.Sprintf("shared tag%d", i%3),
			Genres:   "Action|Adventure",
		})
	}

	first := &stubStore{}
	if _, err := New(first, Config{MaxDF: 1.0}).ComputeAndStore(context.Background(), entities); err != nil {
		t.Fatalf("first run error = %v", err)
	}
	second := &stubStore{}
	if _, err := New(second, Config{MaxDF: 1.0}).ComputeAndStore(context.Background(), entities); err != nil {
		t.Fatalf("second run error = %v", err)
	}

	if len(first.edges) != len(second.edges) {
		t.Fatalf("edge counts differ between runs: %d vs %d", len(first.edges), len(second.edges))
	}
	for i := range first.edges {
		a, b := first.edges[i], second.edges[i]
		if a.AnimeKey1 != b.AnimeKey1 || a.AnimeKey2 != b.AnimeKey2 || a.Score != b.Score {
			t.Errorf("edge %d differs between runs: %+v vs %+v", i, a, b)
		}
	}
}

func TestRound4(t *testing.T) {
	tests := []struct {
		in   float64
		want float64
	}{
		{0.123456, 0.1235},
		{0.99999, 1.0},
		{0.10004, 0.1},
		{0, 0},
		{1, 1},
	}

	for _, tt := range tests {
		if got := round4(tt.in); got != tt.want {
			t.Errorf("round4(%v) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
