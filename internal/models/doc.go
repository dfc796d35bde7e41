// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

/*
Package models defines data structures for the Anisette application.

This package contains all data models shared across packages: upstream
source records, canonical (deduplicated) entities, the similarity index
row shapes, recommendation results, pipeline run records, and the API
response envelope. It serves as the single source of truth for data
structure definitions.

Key Components:

  - SourceRecord: One anime as reported by one source, post-transform
  - CanonicalEntity: The merged cross-source representation of one anime
  - EntityFeatures: Flattened warehouse feature view fed to vectorization
  - SimilarityEdge / ScoredTitle: Persisted top-N similarity index rows
  - Recommendation: Ranked query-layer result
  - PipelineRun: One catalog refresh, persisted for reporting
  - APIResponse / APIError / Metadata: Standard HTTP envelope

Identity model:

Every source record carries a source key "{source}#{source_id}" which is
unique before deduplication. Deduplication maps each source key to exactly
one canonical id derived from the founding record ("AL_21", "MAL_100").
The warehouse assigns a numeric anime_key surrogate per canonical row; the
similarity index and all read paths join on anime_key.

Thread Safety:

All models are plain data structures, immutable after creation and safe
for concurrent read access.

See Also:

  - internal/dedup: produces CanonicalEntity from []SourceRecord
  - internal/similarity: consumes EntityFeatures, emits SimilarityEdge
  - internal/recommend: consumes ScoredTitle, emits Recommendation
  - internal/database: persistence for all of the above
*/
package models
