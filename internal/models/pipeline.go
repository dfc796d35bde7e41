// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package models

import "time"

// Pipeline run status values.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
	RunStatusPartial   = "partial" // completed with at least one source skipped
)

// PipelineRun records one refresh of the catalog: fetch, transform,
// deduplicate, load, similarity rebuild. Persisted for operational
// reporting and served by GET /api/v1/pipeline/status.
type PipelineRun struct {
	RunID          string     `json:"run_id"`
	StartedAt      time.Time  `json:"started_at"`
	FinishedAt     *time.Time `json:"finished_at,omitempty"`
	RecordsFetched int        `json:"records_fetched"`
	RecordsSkipped int        `json:"records_skipped"`
	CanonicalCount int        `json:"canonical_count"`
	EdgesWritten   int        `json:"edges_written"`
	Status         string     `json:"status"`
	Error          string     `json:"error,omitempty"`
}

// Pipeline event types. The event bus subject is the type prefixed with
// "anisette.", so all pipeline events fall under anisette.pipeline.>.
const (
	EventRunStarted   = "pipeline.run.started"
	EventRunCompleted = "pipeline.run.completed"
	EventRunFailed    = "pipeline.run.failed"
	EventIndexRebuilt = "pipeline.similarity.rebuilt"
)

// PipelineEvent is one lifecycle event published to the event bus. Run
// is a snapshot of the run's state at publish time.
type PipelineEvent struct {
	EventID    string       `json:"event_id"`
	Type       string       `json:"type"`
	OccurredAt time.Time    `json:"occurred_at"`
	Run        *PipelineRun `json:"run"`
}
