// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package metrics

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	io_prometheus_client "github.com/prometheus/client_model/go"
)

// getHistogramSampleCount extracts the observation count from a Prometheus histogram
func getHistogramSampleCount(t *testing.T, h prometheus.Histogram) uint64 {
	t.Helper()
	var m io_prometheus_client.Metric
	if err := h.Write(&m); err != nil {
		t.Fatalf("write histogram metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

// getHistogramVecSampleCount extracts the observation count for one label combination
func getHistogramVecSampleCount(t *testing.T, vec *prometheus.HistogramVec, labels ...string) uint64 {
	t.Helper()
	obs, err := vec.GetMetricWithLabelValues(labels...)
	if err != nil {
		t.Fatalf("get histogram with labels %v: %v", labels, err)
	}
	var m io_prometheus_client.Metric
	if err := obs.(prometheus.Metric).Write(&m); err != nil {
		t.Fatalf("write histogram metric: %v", err)
	}
	return m.GetHistogram().GetSampleCount()
}

// TestRecordDBQuery tests database query metric recording
func TestRecordDBQuery(t *testing.T) {
	tests := []struct {
		name      string
		operation string
		table     string
		duration  time.Duration
		err       error
	}{
		{
			name:      "successful SELECT query",
			operation: "SELECT",
			table:     "dim_anime",
			duration:  10 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "successful INSERT query",
			operation: "INSERT",
			table:     "fact_anime_similarity",
			duration:  5 * time.Millisecond,
			err:       nil,
		},
		{
			name:      "failed query with short error",
			operation: "UPDATE",
			table:     "anime_sources",
			duration:  100 * time.Millisecond,
			err:       errors.New("connection refused"),
		},
		{
			name:      "failed query with long error - should truncate to 50 chars",
			operation: "DELETE",
			table:     "pipeline_runs",
			duration:  50 * time.Millisecond,
			err:       errors.New("this is a very long error message that exceeds fifty characters and should be truncated properly"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := getHistogramVecSampleCount(t, DBQueryDuration, tt.operation, tt.table)

			RecordDBQuery(tt.operation, tt.table, tt.duration, tt.err)

			after := getHistogramVecSampleCount(t, DBQueryDuration, tt.operation, tt.table)
			if after != before+1 {
				t.Errorf("DBQueryDuration samples = %d, want %d", after, before+1)
			}
		})
	}
}

// TestRecordAPIRequest tests API request metric recording
func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200"))

	RecordAPIRequest("GET", "/api/v1/recommendations", "200", 25*time.Millisecond)

	after := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("GET", "/api/v1/recommendations", "200"))
	if after != before+1 {
		t.Errorf("APIRequestsTotal = %v, want %v", after, before+1)
	}
}

// TestTrackActiveRequest tests the active request gauge
func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)

	TrackActiveRequest(true)
	if got := testutil.ToFloat64(APIActiveRequests); got != before+1 {
		t.Errorf("APIActiveRequests after inc = %v, want %v", got, before+1)
	}

	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests); got != before {
		t.Errorf("APIActiveRequests after dec = %v, want %v", got, before)
	}
}

// TestRecordPipelineRun tests pipeline run recording
func TestRecordPipelineRun(t *testing.T) {
	completedBefore := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("completed"))
	failedBefore := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("failed"))
	samplesBefore := getHistogramSampleCount(t, PipelineRunDuration)

	RecordPipelineRun("completed", 42*time.Second)
	RecordPipelineRun("failed", time.Second)

	if got := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("completed")); got != completedBefore+1 {
		t.Errorf("completed runs = %v, want %v", got, completedBefore+1)
	}
	if got := testutil.ToFloat64(PipelineRunsTotal.WithLabelValues("failed")); got != failedBefore+1 {
		t.Errorf("failed runs = %v, want %v", got, failedBefore+1)
	}
	if got := getHistogramSampleCount(t, PipelineRunDuration); got != samplesBefore+2 {
		t.Errorf("PipelineRunDuration samples = %d, want %d", got, samplesBefore+2)
	}

	// Completed run should stamp the success gauge
	if got := testutil.ToFloat64(PipelineLastSuccess); got == 0 {
		t.Error("PipelineLastSuccess should be set after a completed run")
	}
}

// TestRecordDedupResult tests dedup gauge updates
func TestRecordDedupResult(t *testing.T) {
	RecordDedupResult(1500, 230)

	if got := testutil.ToFloat64(DedupCanonicalEntities); got != 1500 {
		t.Errorf("DedupCanonicalEntities = %v, want 1500", got)
	}
	if got := testutil.ToFloat64(DedupMergedRecords); got != 230 {
		t.Errorf("DedupMergedRecords = %v, want 230", got)
	}
}

// TestRecordSimilarityBuild tests similarity gauge updates
func TestRecordSimilarityBuild(t *testing.T) {
	RecordSimilarityBuild(1200, 1000, 48000, 30*time.Second)

	if got := testutil.ToFloat64(SimilarityCorpusSize); got != 1200 {
		t.Errorf("SimilarityCorpusSize = %v, want 1200", got)
	}
	if got := testutil.ToFloat64(SimilarityVocabularySize); got != 1000 {
		t.Errorf("SimilarityVocabularySize = %v, want 1000", got)
	}
	if got := testutil.ToFloat64(SimilarityEdgesWritten); got != 48000 {
		t.Errorf("SimilarityEdgesWritten = %v, want 48000", got)
	}
}

// TestRecordRecommendQuery tests recommendation query counters
func TestRecordRecommendQuery(t *testing.T) {
	before := testutil.ToFloat64(RecommendQueriesTotal.WithLabelValues("multi", "no_seeds"))

	RecordRecommendQuery("multi", "no_seeds")

	if got := testutil.ToFloat64(RecommendQueriesTotal.WithLabelValues("multi", "no_seeds")); got != before+1 {
		t.Errorf("RecommendQueriesTotal = %v, want %v", got, before+1)
	}
}

// TestRecordAniListRequest tests AniList client counters
func TestRecordAniListRequest(t *testing.T) {
	before := testutil.ToFloat64(AniListRequestsTotal.WithLabelValues("200"))
	samplesBefore := getHistogramSampleCount(t, AniListRequestDuration)

	RecordAniListRequest("200", 150*time.Millisecond)

	if got := testutil.ToFloat64(AniListRequestsTotal.WithLabelValues("200")); got != before+1 {
		t.Errorf("AniListRequestsTotal = %v, want %v", got, before+1)
	}
	if got := getHistogramSampleCount(t, AniListRequestDuration); got != samplesBefore+1 {
		t.Errorf("AniListRequestDuration samples = %d, want %d", got, samplesBefore+1)
	}
}

// TestRecordNATSPublish tests publish outcome counters
func TestRecordNATSPublish(t *testing.T) {
	okBefore := testutil.ToFloat64(NATSMessagesPublished)
	errBefore := testutil.ToFloat64(NATSPublishErrors)

	RecordNATSPublish(nil)
	RecordNATSPublish(errors.New("connection lost"))

	if got := testutil.ToFloat64(NATSMessagesPublished); got != okBefore+1 {
		t.Errorf("NATSMessagesPublished = %v, want %v", got, okBefore+1)
	}
	if got := testutil.ToFloat64(NATSPublishErrors); got != errBefore+1 {
		t.Errorf("NATSPublishErrors = %v, want %v", got, errBefore+1)
	}
}

// TestRecordCircuitBreakerState tests breaker gauge values
func TestRecordCircuitBreakerState(t *testing.T) {
	RecordCircuitBreakerState("anilist", 2)

	if got := testutil.ToFloat64(CircuitBreakerState.WithLabelValues("anilist")); got != 2 {
		t.Errorf("CircuitBreakerState = %v, want 2", got)
	}
}

// TestConcurrentRecording verifies collectors are safe under concurrent use
func TestConcurrentRecording(t *testing.T) {
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				RecordDBQuery("SELECT", "dim_anime", time.Millisecond, nil)
				RecordAPIRequest("GET", "/api/v1/anime/top", "200", time.Millisecond)
				TrackActiveRequest(true)
				TrackActiveRequest(false)
			}
		}()
	}
	wg.Wait()
}

// TestMetricGathering verifies all registered metrics pass the prometheus linter
func TestMetricGathering(t *testing.T) {
	// Touch a few vector metrics so they are present in the gather output
	RecordDBQuery("SELECT", "dim_anime", time.Millisecond, nil)
	RecordAPIRequest("GET", "/api/v1/health", "200", time.Millisecond)
	RecordPipelineStage("dedup", time.Second)

	problems, err := testutil.GatherAndLint(prometheus.DefaultGatherer)
	if err != nil {
		t.Fatalf("GatherAndLint() error = %v", err)
	}
	for _, p := range problems {
		t.Errorf("metric lint problem: %s: %s", p.Metric, p.Text)
	}
}
