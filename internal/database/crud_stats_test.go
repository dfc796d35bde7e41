// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package database

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/tomtom215/anisette/internal/models"
	"github.com/tomtom215/anisette/internal/similarity"
)

func TestGetStatistics(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	// Two entities, one carrying an extra provenance row
	multi := testEntity(21, "Cowboy Bebop", 9000)
	multi.ContributingSources = append(multi.ContributingSources, "mal#21")
	multi.ConfidenceScores = map[string]float64{"mal#21": 0.9}

	seedEntities(t, db, multi, testEntity(30, "Trigun", 5000))

	if err := db.ReplaceSimilarityEdges(ctx, similarity.Method, []models.SimilarityEdge{
		edge(1, 2, 0.8),
	}); err != nil {
		t.Fatalf("ReplaceSimilarityEdges() error = %v", err)
	}

	stats, err := db.GetStatistics(ctx)
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}

	if stats.TotalAnime != 2 {
		t.Errorf("TotalAnime = %d, want 2", stats.TotalAnime)
	}
	if stats.TotalSources != 3 {
		t.Errorf("TotalSources = %d, want 3", stats.TotalSources)
	}
	if stats.TotalSimilarityRows != 1 {
		t.Errorf("TotalSimilarityRows = %d, want 1", stats.TotalSimilarityRows)
	}
	if stats.AvgSourcesPerAnime != 1.5 {
		t.Errorf("AvgSourcesPerAnime = %v, want 1.5", stats.AvgSourcesPerAnime)
	}
	if stats.AvgScore != 80 {
		t.Errorf("AvgScore = %v, want 80", stats.AvgScore)
	}
}

func TestGetStatistics_GenreHistogram(t *testing.T) {
	db := setupTestDB(t)

	romance := testEntity(3, "Toradora", 4000)
	romance.Founder.Genres = []string{"Romance", "Comedy"}

	seedEntities(t, db,
		testEntity(1, "Fighter A", 9000),
		testEntity(2, "Fighter B", 8000),
		romance,
	)

	stats, err := db.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}

	// Two entities carry Action|Drama, one carries Romance|Comedy. Ties
	// break alphabetically.
	want := []models.GenreCount{
		{Genre: "Action", Count: 2},
		{Genre: "Drama", Count: 2},
		{Genre: "Comedy", Count: 1},
		{Genre: "Romance", Count: 1},
	}
	if len(stats.TopGenres) != len(want) {
		t.Fatalf("len(TopGenres) = %d, want %d: %+v", len(stats.TopGenres), len(want), stats.TopGenres)
	}
	for i, w := range want {
		if stats.TopGenres[i] != w {
			t.Errorf("TopGenres[%d] = %+v, want %+v", i, stats.TopGenres[i], w)
		}
	}
}

func TestGetStatistics_EmptyWarehouse(t *testing.T) {
	db := setupTestDB(t)

	stats, err := db.GetStatistics(context.Background())
	if err != nil {
		t.Fatalf("GetStatistics() error = %v", err)
	}

	if stats.TotalAnime != 0 || stats.TotalSources != 0 || stats.TotalSimilarityRows != 0 {
		t.Errorf("counts = %d/%d/%d, want all zero",
			stats.TotalAnime, stats.TotalSources, stats.TotalSimilarityRows)
	}
	if stats.AvgSourcesPerAnime != 0 {
		t.Errorf("AvgSourcesPerAnime = %v, want 0", stats.AvgSourcesPerAnime)
	}
	if stats.AvgScore != 0 {
		t.Errorf("AvgScore = %v, want 0", stats.AvgScore)
	}
	if len(stats.TopGenres) != 0 {
		t.Errorf("TopGenres = %+v, want empty", stats.TopGenres)
	}
	if stats.LastRun != nil {
		t.Errorf("LastRun = %+v, want nil", stats.LastRun)
	}
}

func TestAnimeCount(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	count, err := db.AnimeCount(ctx)
	if err != nil {
		t.Fatalf("AnimeCount() error = %v", err)
	}
	if count != 0 {
		t.Errorf("AnimeCount() = %d, want 0 on empty warehouse", count)
	}

	seedEntities(t, db,
		testEntity(1, "Cowboy Bebop", 9000),
		testEntity(2, "Trigun", 5000),
		testEntity(3, "Outlaw Star", 4000),
	)

	count, err = db.AnimeCount(ctx)
	if err != nil {
		t.Fatalf("AnimeCount() error = %v", err)
	}
	if count != 3 {
		t.Errorf("AnimeCount() = %d, want 3", count)
	}
}

func TestGetDedupStats(t *testing.T) {
	db := setupTestDB(t)

	// Bebop merged from three sources, Outlaw Star from two, Trigun from
	// one. Non-founder rows carry their match confidence.
	bebop := testEntity(1, "Cowboy Bebop", 9000)
	bebop.ContributingSources = append(bebop.ContributingSources, "mal#1", "kitsu#1")
	bebop.ConfidenceScores = map[string]float64{"mal#1": 0.9, "kitsu#1": 0.82}

	outlaw := testEntity(3, "Outlaw Star", 4000)
	outlaw.ContributingSources = append(outlaw.ContributingSources, "mal#3")
	outlaw.ConfidenceScores = map[string]float64{"mal#3": 0.95}

	seedEntities(t, db, bebop, testEntity(2, "Trigun", 5000), outlaw)

	stats, err := db.GetDedupStats(context.Background())
	if err != nil {
		t.Fatalf("GetDedupStats() error = %v", err)
	}

	if stats.CanonicalCount != 3 {
		t.Errorf("CanonicalCount = %d, want 3", stats.CanonicalCount)
	}
	if stats.TotalSources != 6 {
		t.Errorf("TotalSources = %d, want 6", stats.TotalSources)
	}
	if stats.AvgSourcesPerAnime != 2.0 {
		t.Errorf("AvgSourcesPerAnime = %v, want 2.0", stats.AvgSourcesPerAnime)
	}
	if stats.MultiSourceCount != 2 {
		t.Errorf("MultiSourceCount = %d, want 2", stats.MultiSourceCount)
	}

	// Founder rows carry confidence 1.0 and are excluded from the match
	// confidence aggregates.
	if math.Abs(stats.AvgMatchConfidence-0.89) > 1e-9 {
		t.Errorf("AvgMatchConfidence = %v, want 0.89", stats.AvgMatchConfidence)
	}
	if stats.MinMatchConfidence != 0.82 {
		t.Errorf("MinMatchConfidence = %v, want 0.82", stats.MinMatchConfidence)
	}

	wantBySource := []models.SourceCount{
		{Source: "anilist", Count: 3},
		{Source: "mal", Count: 2},
		{Source: "kitsu", Count: 1},
	}
	if len(stats.BySource) != len(wantBySource) {
		t.Fatalf("len(BySource) = %d, want %d: %+v", len(stats.BySource), len(wantBySource), stats.BySource)
	}
	for i, w := range wantBySource {
		if stats.BySource[i] != w {
			t.Errorf("BySource[%d] = %+v, want %+v", i, stats.BySource[i], w)
		}
	}
}

func TestGetDedupStats_EmptyWarehouse(t *testing.T) {
	db := setupTestDB(t)

	stats, err := db.GetDedupStats(context.Background())
	if err != nil {
		t.Fatalf("GetDedupStats() error = %v", err)
	}

	if stats.CanonicalCount != 0 || stats.TotalSources != 0 || stats.MultiSourceCount != 0 {
		t.Errorf("counts = %d/%d/%d, want all zero",
			stats.CanonicalCount, stats.TotalSources, stats.MultiSourceCount)
	}
	if stats.AvgSourcesPerAnime != 0 {
		t.Errorf("AvgSourcesPerAnime = %v, want 0", stats.AvgSourcesPerAnime)
	}
	if stats.AvgMatchConfidence != 0 || stats.MinMatchConfidence != 0 {
		t.Errorf("confidence = %v/%v, want 0/0 with no merged rows",
			stats.AvgMatchConfidence, stats.MinMatchConfidence)
	}
	if len(stats.BySource) != 0 {
		t.Errorf("BySource = %+v, want empty", stats.BySource)
	}
}

func TestGetDedupStats_AllSingleSource(t *testing.T) {
	db := setupTestDB(t)

	seedEntities(t, db,
		testEntity(1, "Cowboy Bebop", 9000),
		testEntity(2, "Trigun", 5000),
	)

	stats, err := db.GetDedupStats(context.Background())
	if err != nil {
		t.Fatalf("GetDedupStats() error = %v", err)
	}

	if stats.MultiSourceCount != 0 {
		t.Errorf("MultiSourceCount = %d, want 0", stats.MultiSourceCount)
	}
	if stats.AvgMatchConfidence != 0 {
		t.Errorf("AvgMatchConfidence = %v, want 0 with founders only", stats.AvgMatchConfidence)
	}
	if stats.AvgSourcesPerAnime != 1.0 {
		t.Errorf("AvgSourcesPerAnime = %v, want 1.0", stats.AvgSourcesPerAnime)
	}
}

func TestRecordPipelineRun_Lifecycle(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	startedAt := time.Now().UTC().Add(-time.Minute)
	if err := db.RecordPipelineRun(ctx, &models.PipelineRun{
		RunID:     "run-001",
		StartedAt: startedAt,
		Status:    models.RunStatusRunning,
	}); err != nil {
		t.Fatalf("RecordPipelineRun(start) error = %v", err)
	}

	running, err := db.LastPipelineRun(ctx)
	if err != nil {
		t.Fatalf("LastPipelineRun() error = %v", err)
	}
	if running == nil || running.Status != models.RunStatusRunning {
		t.Fatalf("LastPipelineRun() = %+v, want running row", running)
	}
	if running.FinishedAt != nil {
		t.Errorf("FinishedAt = %v, want nil while running", running.FinishedAt)
	}

	// Finishing the run replaces the row rather than adding a second one
	finishedAt := time.Now().UTC()
	if err := db.RecordPipelineRun(ctx, &models.PipelineRun{
		RunID:          "run-001",
		StartedAt:      startedAt,
		FinishedAt:     &finishedAt,
		RecordsFetched: 500,
		RecordsSkipped: 3,
		CanonicalCount: 410,
		EdgesWritten:   8200,
		Status:         models.RunStatusCompleted,
	}); err != nil {
		t.Fatalf("RecordPipelineRun(finish) error = %v", err)
	}

	var rowCount int
	if err := db.conn.QueryRow(`SELECT COUNT(*) FROM pipeline_runs`).Scan(&rowCount); err != nil {
		t.Fatalf("count pipeline_runs: %v", err)
	}
	if rowCount != 1 {
		t.Errorf("pipeline_runs rows = %d, want 1", rowCount)
	}

	finished, err := db.LastPipelineRun(ctx)
	if err != nil {
		t.Fatalf("LastPipelineRun() error = %v", err)
	}
	if finished.Status != models.RunStatusCompleted {
		t.Errorf("Status = %q, want %q", finished.Status, models.RunStatusCompleted)
	}
	if finished.FinishedAt == nil {
		t.Error("FinishedAt = nil, want set")
	}
	if finished.RecordsFetched != 500 || finished.RecordsSkipped != 3 {
		t.Errorf("records = %d fetched / %d skipped, want 500 / 3",
			finished.RecordsFetched, finished.RecordsSkipped)
	}
	if finished.CanonicalCount != 410 || finished.EdgesWritten != 8200 {
		t.Errorf("results = %d canonical / %d edges, want 410 / 8200",
			finished.CanonicalCount, finished.EdgesWritten)
	}
}

func TestLastPipelineRun_MostRecent(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	old := time.Now().UTC().Add(-2 * time.Hour)
	recent := time.Now().UTC().Add(-time.Minute)

	if err := db.RecordPipelineRun(ctx, &models.PipelineRun{
		RunID: "run-old", StartedAt: old, Status: models.RunStatusCompleted,
	}); err != nil {
		t.Fatalf("RecordPipelineRun(old) error = %v", err)
	}
	if err := db.RecordPipelineRun(ctx, &models.PipelineRun{
		RunID: "run-new", StartedAt: recent, Status: models.RunStatusFailed, Error: "fetch timeout",
	}); err != nil {
		t.Fatalf("RecordPipelineRun(new) error = %v", err)
	}

	last, err := db.LastPipelineRun(ctx)
	if err != nil {
		t.Fatalf("LastPipelineRun() error = %v", err)
	}
	if last.RunID != "run-new" {
		t.Errorf("RunID = %q, want %q", last.RunID, "run-new")
	}
	if last.Error != "fetch timeout" {
		t.Errorf("Error = %q, want %q", last.Error, "fetch timeout")
	}
}
