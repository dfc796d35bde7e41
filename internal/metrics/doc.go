// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
Package metrics provides Prometheus metrics collection and export for observability.

This package implements comprehensive application instrumentation using the Prometheus
client library, exposing metrics for monitoring performance, errors, and system health.

# Overview

The package provides metrics for:
  - HTTP request latency and throughput
  - Database query performance
  - Aggregation pipeline runs and per-stage timings
  - Deduplication and similarity index statistics
  - AniList client behavior (requests, retries, rate limiting, page cache)
  - Recommendation query outcomes
  - Circuit breaker state transitions
  - NATS event publishing

# Metrics Endpoint

Metrics are exposed at the /metrics endpoint in Prometheus text format:

	curl http://localhost:3939/metrics

# Available Metrics

API Metrics:
  - api_requests_total: Total API requests (counter)
    Labels: method, endpoint, status_code
  - api_request_duration_seconds: Request latency (histogram)
    Labels: method, endpoint
  - api_active_requests: Active requests (gauge)
  - api_rate_limit_hits_total: Rate limit rejections (counter)

Database Metrics:
  - duckdb_query_duration_seconds: Query execution time (histogram)
    Labels: operation, table
  - duckdb_query_errors_total: Failed queries (counter)
    Labels: operation, table, error_type
  - duckdb_connection_pool_size: Connections in use (gauge)

Pipeline Metrics:
  - pipeline_run_duration_seconds: Full run duration (histogram)
  - pipeline_stage_duration_seconds: Per-stage duration (histogram)
    Labels: stage (fetch, transform, dedup, load, similarity)
  - pipeline_runs_total: Runs by final status (counter)
    Labels: status (completed, partial, failed)
  - pipeline_records_fetched_total / pipeline_records_skipped_total
  - pipeline_last_success_timestamp: Unix timestamp of last success (gauge)

Dedup and Similarity Metrics:
  - dedup_canonical_entities, dedup_merged_records (gauges)
  - dedup_comparisons_total, dedup_match_confidence
  - similarity_build_duration_seconds, similarity_corpus_size,
    similarity_vocabulary_size, similarity_edges_written

AniList Client Metrics:
  - anilist_requests_total (status label), anilist_request_duration_seconds
  - anilist_retries_total, anilist_rate_limit_waits_total
  - anilist_pages_fetched_total, anilist_cache_hits_total / misses

Circuit Breaker Metrics:
  - circuit_breaker_state: Current state (gauge)
    Labels: name
    Values: 0=closed, 1=half-open, 2=open
  - circuit_breaker_requests_total: Requests by result (counter)
    Labels: name, result

# Usage

Metrics are package-level promauto collectors registered with the default
registry at init time. Record helpers wrap common patterns:

	start := time.Now()
	rows, err := db.Query(ctx, query)
	metrics.RecordDBQuery("SELECT", "dim_anime", time.Since(start), err)

# Grafana Integration

All metrics follow Prometheus naming conventions and work with standard
dashboards. Useful starting queries:

	rate(api_requests_total[5m])
	histogram_quantile(0.95, rate(api_request_duration_seconds_bucket[5m]))
	pipeline_last_success_timestamp

# Thread Safety

All collectors are safe for concurrent use.
*/
package metrics
