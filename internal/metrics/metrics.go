// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus Metrics Integration for Production Observability
// This package provides comprehensive instrumentation for:
// - Database query performance (DuckDB)
// - API endpoint latency and throughput
// - Aggregation pipeline runs (fetch, dedup, load, similarity)
// - AniList client behavior (requests, retries, rate limiting, cache)
// - Recommendation query outcomes

var (
	// Database Metrics
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "duckdb_query_duration_seconds",
			Help:    "Duration of DuckDB queries in seconds",
			Buckets: prometheus.DefBuckets, // 0.005s, 0.01s, 0.025s, 0.05s, 0.1s, 0.25s, 0.5s, 1s, 2.5s, 5s, 10s
		},
		[]string{"operation", "table"},
	)

	DBQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "duckdb_query_errors_total",
			Help: "Total number of DuckDB query errors",
		},
		[]string{"operation", "table", "error_type"},
	)

	DBConnectionPoolSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "duckdb_connection_pool_size",
			Help: "Current number of database connections in use",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}, // Optimized for API latency
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_rate_limit_hits_total",
			Help: "Total number of rate limit rejections",
		},
		[]string{"endpoint"},
	)

	// Pipeline Run Metrics
	PipelineRunDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pipeline_run_duration_seconds",
			Help:    "Duration of full pipeline runs in seconds",
			Buckets: []float64{1, 5, 10, 30, 60, 120, 300, 600, 1800}, // Full catalog runs can take many minutes
		},
	)

	PipelineStageDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_stage_duration_seconds",
			Help:    "Duration of individual pipeline stages in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"stage"}, // "fetch", "transform", "dedup", "load", "similarity"
	)

	PipelineRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_runs_total",
			Help: "Total number of pipeline runs by final status",
		},
		[]string{"status"}, // "completed", "partial", "failed"
	)

	PipelineRecordsFetched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_records_fetched_total",
			Help: "Total number of source records fetched",
		},
		[]string{"source"},
	)

	PipelineRecordsSkipped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pipeline_records_skipped_total",
			Help: "Total number of source records skipped",
		},
		[]string{"reason"}, // "malformed", "missing_title", "duplicate_key"
	)

	PipelineLastSuccess = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "pipeline_last_success_timestamp",
			Help: "Unix timestamp of last successful pipeline run",
		},
	)

	// Deduplication Metrics
	DedupCanonicalEntities = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedup_canonical_entities",
			Help: "Number of canonical entities produced by the last deduplication run",
		},
	)

	DedupMergedRecords = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "dedup_merged_records",
			Help: "Number of source records merged into existing entities in the last run",
		},
	)

	DedupComparisons = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dedup_comparisons_total",
			Help: "Total number of fuzzy title comparisons performed",
		},
	)

	DedupMatchConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "dedup_match_confidence",
			Help:    "Confidence scores of accepted cross-source matches",
			Buckets: []float64{0.85, 0.875, 0.9, 0.925, 0.95, 0.975, 0.99, 1.0},
		},
	)

	// Similarity Index Metrics
	SimilarityBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "similarity_build_duration_seconds",
			Help:    "Duration of similarity index rebuilds in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	SimilarityCorpusSize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_corpus_size",
			Help: "Number of entities in the last similarity computation corpus",
		},
	)

	SimilarityVocabularySize = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_vocabulary_size",
			Help: "Number of terms in the fitted TF-IDF vocabulary",
		},
	)

	SimilarityEdgesWritten = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "similarity_edges_written",
			Help: "Number of similarity edges persisted by the last rebuild",
		},
	)

	// Recommendation Query Metrics
	RecommendQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommend_queries_total",
			Help: "Total number of recommendation queries",
		},
		[]string{"kind", "outcome"}, // kind: "single", "multi"; outcome: "ok", "unknown_title", "no_seeds", "error"
	)

	RecommendSeedsUnresolved = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommend_seeds_unresolved_total",
			Help: "Total number of multi-seed titles that did not resolve to an entity",
		},
	)

	// AniList Client Metrics
	AniListRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "anilist_requests_total",
			Help: "Total number of AniList GraphQL requests",
		},
		[]string{"status"}, // HTTP status code, or "error" for transport failures
	)

	AniListRequestDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "anilist_request_duration_seconds",
			Help:    "Duration of AniList GraphQL requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	AniListRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anilist_retries_total",
			Help: "Total number of retried AniList requests",
		},
	)

	AniListRateLimitWaits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anilist_rate_limit_waits_total",
			Help: "Total number of requests delayed by the local rate limiter",
		},
	)

	AniListPagesFetched = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anilist_pages_fetched_total",
			Help: "Total number of catalog pages fetched from AniList",
		},
	)

	AniListCacheHits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anilist_cache_hits_total",
			Help: "Total number of AniList page cache hits",
		},
	)

	AniListCacheMisses = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "anilist_cache_misses_total",
			Help: "Total number of AniList page cache misses",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	// NATS Event Publishing Metrics
	NATSMessagesPublished = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_messages_published_total",
			Help: "Total number of events published to NATS",
		},
	)

	NATSPublishErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nats_publish_errors_total",
			Help: "Total number of failed NATS publish attempts",
		},
	)
)

// RecordDBQuery records a database query metric
func RecordDBQuery(operation, table string, duration time.Duration, err error) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
	if err != nil {
		errorType := err.Error()
		// Truncate long error messages
		if len(errorType) > 50 {
			errorType = errorType[:50]
		}
		DBQueryErrors.WithLabelValues(operation, table, errorType).Inc()
	}
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordPipelineRun records the outcome of a full pipeline run
func RecordPipelineRun(status string, duration time.Duration) {
	PipelineRunDuration.Observe(duration.Seconds())
	PipelineRunsTotal.WithLabelValues(status).Inc()
	if status == "completed" {
		PipelineLastSuccess.Set(float64(time.Now().Unix()))
	}
}

// RecordPipelineStage records the duration of one pipeline stage
func RecordPipelineStage(stage string, duration time.Duration) {
	PipelineStageDuration.WithLabelValues(stage).Observe(duration.Seconds())
}

// RecordDedupResult updates dedup gauges after a deduplication run
func RecordDedupResult(canonicalCount, mergedCount int) {
	DedupCanonicalEntities.Set(float64(canonicalCount))
	DedupMergedRecords.Set(float64(mergedCount))
}

// RecordSimilarityBuild updates similarity gauges after an index rebuild
func RecordSimilarityBuild(corpusSize, vocabularySize, edgesWritten int, duration time.Duration) {
	SimilarityBuildDuration.Observe(duration.Seconds())
	SimilarityCorpusSize.Set(float64(corpusSize))
	SimilarityVocabularySize.Set(float64(vocabularySize))
	SimilarityEdgesWritten.Set(float64(edgesWritten))
}

// RecordRecommendQuery records a recommendation query outcome
func RecordRecommendQuery(kind, outcome string) {
	RecommendQueriesTotal.WithLabelValues(kind, outcome).Inc()
}

// RecordAniListRequest records an AniList GraphQL request
func RecordAniListRequest(status string, duration time.Duration) {
	AniListRequestsTotal.WithLabelValues(status).Inc()
	AniListRequestDuration.Observe(duration.Seconds())
}

// RecordCircuitBreakerState updates the state gauge for a named breaker
func RecordCircuitBreakerState(name string, state int) {
	CircuitBreakerState.WithLabelValues(name).Set(float64(state))
}

// RecordCircuitBreakerRequest records a request passing through a breaker
func RecordCircuitBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordNATSPublish records an event publish attempt
func RecordNATSPublish(err error) {
	if err != nil {
		NATSPublishErrors.Inc()
		return
	}
	NATSMessagesPublished.Inc()
}
