// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/anisette/internal/pipeline"
)

// RefreshRunner defines the interface for the aggregation pipeline.
// This allows the service to work with the pipeline without depending on
// its construction, and makes the scheduler testable with a mock.
//
// Satisfied by *pipeline.Pipeline. In cmd/server an adapter wraps the
// pipeline so API response caches are cleared after each scheduled run.
type RefreshRunner interface {
	// Run executes a full catalog refresh and reports what happened.
	Run(ctx context.Context) (*pipeline.RunReport, error)
}

// PipelineSchedulerConfig holds configuration for the pipeline scheduler.
type PipelineSchedulerConfig struct {
	// RunOnStartup triggers a refresh when the service starts.
	RunOnStartup bool

	// Interval is how often to refresh the catalog.
	Interval time.Duration
}

// PipelineSchedulerService drives the aggregation pipeline on a schedule.
// It manages the refresh lifecycle: an optional run at startup followed by
// periodic runs at the configured interval.
type PipelineSchedulerService struct {
	runner RefreshRunner
	config PipelineSchedulerConfig
	logger zerolog.Logger
	name   string
}

// NewPipelineSchedulerService creates a new pipeline scheduler service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewPipelineSchedulerService(runner RefreshRunner, cfg PipelineSchedulerConfig, logger zerolog.Logger) *PipelineSchedulerService {
	return &PipelineSchedulerService{
		runner: runner,
		config: cfg,
		logger: logger.With().Str("service", "pipeline-scheduler").Logger(),
		name:   "pipeline-scheduler",
	}
}

// Serve implements the suture.Service interface.
// It manages the refresh loop for the aggregation pipeline.
//
// A failed refresh is logged and retried at the next tick rather than
// propagated - returning the error would restart the service and reset
// the ticker, losing the schedule.
func (s *PipelineSchedulerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("run_on_startup", s.config.RunOnStartup).
		Dur("interval", s.config.Interval).
		Msg("pipeline scheduler starting")

	// Refresh on startup if configured
	if s.config.RunOnStartup {
		s.logger.Info().Msg("refreshing catalog on startup")
		if err := s.refresh(ctx); err != nil {
			s.logger.Warn().Err(err).Msg("startup refresh failed (will retry on schedule)")
		}
	}

	// Set up periodic refresh
	if s.config.Interval <= 0 {
		s.config.Interval = 24 * time.Hour
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info().Msg("pipeline scheduler running")

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("pipeline scheduler shutting down")
			return ctx.Err()

		case <-ticker.C:
			s.logger.Debug().Msg("scheduled refresh triggered")
			if err := s.refresh(ctx); err != nil {
				s.logger.Warn().Err(err).Msg("scheduled refresh failed")
			}
		}
	}
}

// refresh performs one pipeline run with proper context handling.
//
// A full catalog refresh is bounded by AniList's per-minute request budget;
// 30 minutes is generous headroom even for a complete crawl.
func (s *PipelineSchedulerService) refresh(ctx context.Context) error {
	runCtx, cancel := context.WithTimeout(ctx, 30*time.Minute)
	defer cancel()

	start := time.Now()
	s.logger.Info().Msg("starting catalog refresh")

	report, err := s.runner.Run(runCtx)
	if err != nil {
		// A manual run triggered through the API may already hold the
		// pipeline; the next tick will pick up the schedule again.
		if errors.Is(err, pipeline.ErrRunInProgress) {
			s.logger.Debug().Msg("refresh already in progress, skipping scheduled run")
			return nil
		}
		return err
	}

	s.logger.Info().
		Str("run_id", report.RunID).
		Int("records_fetched", report.RecordsFetched).
		Int("records_skipped", report.RecordsSkipped).
		Str("status", report.Status).
		Dur("duration", time.Since(start)).
		Msg("catalog refresh complete")

	return nil
}

// String returns the service name for logging.
func (s *PipelineSchedulerService) String() string {
	return s.name
}
