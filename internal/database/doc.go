// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package database provides the DuckDB warehouse behind the anime catalog.
//
// # Overview
//
// This package is the data layer between the pipeline, the recommendation
// query engine, and the HTTP API. The pipeline is the only writer; API
// queries are read-only and run concurrently with it.
//
// # Architecture
//
// The package is organized into domain-specific files:
//
// Core operations:
//   - database.go: Connection lifecycle (tuned DSN, pool, init, close)
//   - schema.go: Table and index creation
//   - database_utils.go: Context bounds and checkpointing
//   - errors.go: ErrNotFound sentinel and close helpers
//
// Warehouse operations:
//   - crud_anime.go: Canonical entity upsert with provenance replace,
//     detail lookup, feature export for the similarity engine
//   - crud_query.go: Title resolution, top/popular listings, search
//   - crud_similarity.go: Similarity index replace and neighbor lookup
//   - crud_stats.go: Catalog statistics, dedup summary, run history
//
// # Schema
//
// Four tables: dim_anime (one row per canonical entity), anime_sources
// (provenance, one row per contributing source record), fact_anime_similarity
// (the top-N neighbor index), and pipeline_runs (refresh history).
//
// # Concurrency
//
// All methods are safe for concurrent use. Loads run in a single
// transaction; lookups bound their own context so no query hangs forever.
package database
