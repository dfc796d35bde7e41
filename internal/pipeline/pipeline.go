// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

// Package pipeline orchestrates one catalog refresh end to end: fetch
// the source catalogs, normalize them to source records, deduplicate
// into canonical entities, load the warehouse, and rebuild the
// similarity index.
//
// Runs are single-flight: a trigger while a run is active is rejected
// with ErrRunInProgress rather than queued. Every run is recorded in
// the warehouse run history and optionally announced on the event bus.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/anisette/internal/anilist"
	"github.com/tomtom215/anisette/internal/config"
	"github.com/tomtom215/anisette/internal/dedup"
	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/metrics"
	"github.com/tomtom215/anisette/internal/models"
	"github.com/tomtom215/anisette/internal/similarity"
	"github.com/tomtom215/anisette/internal/transform"
)

// ErrRunInProgress is returned when Run is called while another run is
// active.
var ErrRunInProgress = errors.New("pipeline run already in progress")

// ErrAllSourcesFailed is returned when no source catalog could be
// fetched. A run with at least one delivering source proceeds and is
// marked partial instead.
var ErrAllSourcesFailed = errors.New("every source fetch failed")

// Fetcher retrieves a source catalog. Implemented by the AniList
// client; tests substitute fixtures.
type Fetcher interface {
	FetchAll(ctx context.Context, maxPages int) ([]anilist.Media, error)
}

// Store is the warehouse surface a run writes through.
type Store interface {
	UpsertCanonicalEntities(ctx context.Context, entities []*models.CanonicalEntity) (int, error)
	EntitiesWithFeatures(ctx context.Context) ([]*models.EntityFeatures, error)
	RecordPipelineRun(ctx context.Context, run *models.PipelineRun) error
}

// SimilarityBuilder rebuilds the similarity index from warehouse
// features. Implemented by the similarity engine.
type SimilarityBuilder interface {
	ComputeAndStore(ctx context.Context, entities []*models.EntityFeatures) (similarity.BuildStats, error)
}

// EventPublisher pushes pipeline lifecycle events onto the event bus.
// Publish failures are logged, never fatal to the run.
type EventPublisher interface {
	PublishPipelineEvent(ctx context.Context, event models.PipelineEvent) error
}

// source pairs a fetcher with its name for logging and metrics.
type source struct {
	name    string
	fetcher Fetcher
}

// RunReport is the outcome of one completed run.
type RunReport struct {
	RunID          string                `json:"run_id"`
	StartedAt      time.Time             `json:"started_at"`
	FinishedAt     time.Time             `json:"finished_at"`
	RecordsFetched int                   `json:"records_fetched"`
	RecordsSkipped int                   `json:"records_skipped"`
	SourcesFailed  []string              `json:"sources_failed,omitempty"`
	Dedup          dedup.Stats           `json:"dedup"`
	Similarity     similarity.BuildStats `json:"similarity"`
	Status         string                `json:"status"`
}

// Pipeline coordinates the refresh stages against the warehouse.
type Pipeline struct {
	cfg       config.PipelineConfig
	sources   []source
	transform *transform.Transformer
	dedup     *dedup.Deduplicator
	store     Store
	builder   SimilarityBuilder

	mu        sync.Mutex
	running   bool
	publisher EventPublisher
}

// New wires the pipeline stages. fetcher is the AniList catalog client
// (the sole production source).
func New(cfg config.PipelineConfig, fetcher Fetcher, dd *dedup.Deduplicator, store Store, builder SimilarityBuilder) *Pipeline {
	p := &Pipeline{
		cfg:       cfg,
		sources:   []source{{name: "anilist", fetcher: fetcher}},
		transform: transform.New(),
		dedup:     dd,
		store:     store,
		builder:   builder,
	}

	logging.Info().
		Bool("enabled", cfg.Enabled).
		Bool("run_on_startup", cfg.RunOnStartup).
		Dur("interval", cfg.Interval).
		Int("max_pages", cfg.MaxPages).
		Msg("Pipeline config loaded")

	return p
}

// SetEventPublisher sets the optional event bus publisher.
func (p *Pipeline) SetEventPublisher(publisher EventPublisher) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.publisher = publisher
}

// Running reports whether a run is currently active.
func (p *Pipeline) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// Run executes one full refresh. A second call while a run is active
// returns ErrRunInProgress immediately.
func (p *Pipeline) Run(ctx context.Context) (*RunReport, error) {
	p.mu.Lock()
	if p.running {
		p.mu.Unlock()
		return nil, ErrRunInProgress
	}
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	run := &models.PipelineRun{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Status:    models.RunStatusRunning,
	}
	if err := p.store.RecordPipelineRun(ctx, run); err != nil {
		return nil, fmt.Errorf("failed to record run start: %w", err)
	}
	p.publish(ctx, models.EventRunStarted, run)
	logging.Info().
		Str("run_id", run.RunID).
		Msg("Pipeline run started")

	report, err := p.execute(ctx, run)

	finished := time.Now().UTC()
	run.FinishedAt = &finished
	duration := finished.Sub(run.StartedAt)

	// The bookkeeping write must land even when the run itself was
	// cancelled.
	recordCtx := context.WithoutCancel(ctx)

	if err != nil {
		run.Status = models.RunStatusFailed
		run.Error = err.Error()
		if recErr := p.store.RecordPipelineRun(recordCtx, run); recErr != nil {
			logging.Error().
				Err(recErr).
				Str("run_id", run.RunID).
				Msg("Failed to record failed run")
		}
		p.publish(recordCtx, models.EventRunFailed, run)
		metrics.RecordPipelineRun(run.Status, duration)
		logging.Error().
			Err(err).
			Str("run_id", run.RunID).
			Dur("duration", duration).
			Msg("Pipeline run failed")
		return nil, err
	}

	run.Status = models.RunStatusCompleted
	if len(report.SourcesFailed) > 0 {
		run.Status = models.RunStatusPartial
	}
	if recErr := p.store.RecordPipelineRun(recordCtx, run); recErr != nil {
		logging.Error().
			Err(recErr).
			Str("run_id", run.RunID).
			Msg("Failed to record completed run")
	}
	p.publish(recordCtx, models.EventRunCompleted, run)
	metrics.RecordPipelineRun(run.Status, duration)

	report.FinishedAt = finished
	report.Status = run.Status
	logging.Info().
		Str("run_id", run.RunID).
		Str("status", run.Status).
		Int("records_fetched", run.RecordsFetched).
		Int("canonical_count", run.CanonicalCount).
		Int("edges_written", run.EdgesWritten).
		Dur("duration", duration).
		Msg("Pipeline run finished")

	return report, nil
}

// execute runs the stages, filling run's counters as they settle.
func (p *Pipeline) execute(ctx context.Context, run *models.PipelineRun) (*RunReport, error) {
	report := &RunReport{
		RunID:     run.RunID,
		StartedAt: run.StartedAt,
	}

	// Fetch. Sources are pulled concurrently; one failing source is a
	// warning as long as another delivers.
	stageStart := time.Now()
	media, failed, err := p.fetchSources(ctx)
	metrics.RecordPipelineStage("fetch", time.Since(stageStart))
	if err != nil {
		return nil, err
	}
	report.SourcesFailed = failed

	// Transform.
	stageStart = time.Now()
	records, skipped := p.transform.TransformAll(media)
	metrics.RecordPipelineStage("transform", time.Since(stageStart))
	run.RecordsFetched = len(media)
	run.RecordsSkipped = skipped
	report.RecordsFetched = len(media)
	report.RecordsSkipped = skipped
	if skipped > 0 {
		metrics.PipelineRecordsSkipped.WithLabelValues("malformed").Add(float64(skipped))
	}

	// Deduplicate.
	stageStart = time.Now()
	result, err := p.dedup.BuildCanonical(ctx, records)
	metrics.RecordPipelineStage("dedup", time.Since(stageStart))
	if err != nil {
		return nil, fmt.Errorf("deduplication failed: %w", err)
	}
	run.CanonicalCount = result.Stats.CanonicalCount
	report.Dedup = result.Stats
	metrics.RecordDedupResult(result.Stats.CanonicalCount, result.Stats.Matches)

	// Load.
	stageStart = time.Now()
	entities := make([]*models.CanonicalEntity, 0, len(result.Entities))
	for _, entity := range result.Entities {
		entities = append(entities, entity)
	}
	upserted, err := p.store.UpsertCanonicalEntities(ctx, entities)
	metrics.RecordPipelineStage("load", time.Since(stageStart))
	if err != nil {
		return nil, fmt.Errorf("warehouse load failed: %w", err)
	}
	logging.Debug().
		Str("run_id", run.RunID).
		Int("entities", upserted).
		Msg("Warehouse load completed")

	// Similarity rebuild reads the loaded warehouse, not the in-memory
	// entities, so every stored field feeds the index.
	stageStart = time.Now()
	features, err := p.store.EntitiesWithFeatures(ctx)
	if err != nil {
		metrics.RecordPipelineStage("similarity", time.Since(stageStart))
		return nil, fmt.Errorf("failed to read features: %w", err)
	}
	buildStats, err := p.builder.ComputeAndStore(ctx, features)
	metrics.RecordPipelineStage("similarity", time.Since(stageStart))
	if err != nil {
		return nil, fmt.Errorf("similarity rebuild failed: %w", err)
	}
	run.EdgesWritten = buildStats.EdgesWritten
	report.Similarity = buildStats
	if buildStats.EdgesWritten > 0 {
		p.publish(ctx, models.EventIndexRebuilt, run)
	}

	return report, nil
}

// fetchSources pulls every source concurrently and merges the results.
// Per-source failures are collected, not propagated; only a run where
// no source delivered fails.
func (p *Pipeline) fetchSources(ctx context.Context) ([]anilist.Media, []string, error) {
	var mu sync.Mutex
	var media []anilist.Media
	var failed []string

	g, ctx := errgroup.WithContext(ctx)
	for _, src := range p.sources {
		g.Go(func() error {
			fetched, err := src.fetcher.FetchAll(ctx, p.cfg.MaxPages)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed = append(failed, src.name)
				logging.Warn().
					Err(err).
					Str("source", src.name).
					Msg("Source fetch failed, continuing without it")
				return nil
			}
			media = append(media, fetched...)
			metrics.PipelineRecordsFetched.WithLabelValues(src.name).Add(float64(len(fetched)))
			logging.Info().
				Str("source", src.name).
				Int("records", len(fetched)).
				Msg("Source fetch completed")
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, nil, ctxErr
	}

	if len(failed) == len(p.sources) {
		return nil, nil, ErrAllSourcesFailed
	}
	return media, failed, nil
}

// publish sends an event when a publisher is configured. A snapshot of
// the run is attached so later counter updates do not race the bus.
func (p *Pipeline) publish(ctx context.Context, eventType string, run *models.PipelineRun) {
	p.mu.Lock()
	publisher := p.publisher
	p.mu.Unlock()
	if publisher == nil {
		return
	}

	snapshot := *run
	event := models.PipelineEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: time.Now().UTC(),
		Run:        &snapshot,
	}
	if err := publisher.PublishPipelineEvent(ctx, event); err != nil {
		logging.Warn().
			Err(err).
			Str("event_type", eventType).
			Str("run_id", run.RunID).
			Msg("Event publish failed")
	}
}
