// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/tomtom215/anisette/internal/logging"
	"github.com/tomtom215/anisette/internal/pipeline"
)

// PipelineRun triggers a catalog refresh
//
// @Summary Trigger a pipeline run
// @Description Starts a full catalog refresh (fetch, deduplicate, load, similarity rebuild) in the background and returns immediately. Only one run executes at a time.
// @Tags Pipeline
// @Accept json
// @Produce json
// @Success 202 {object} models.APIResponse "Run accepted"
// @Failure 409 {object} models.APIResponse "A run is already in progress"
// @Failure 503 {object} models.APIResponse "Pipeline unavailable"
// @Router /pipeline/run [post]
func (h *Handler) PipelineRun(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost) {
		return
	}
	if h.pipeline == nil {
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "Pipeline unavailable", nil)
		return
	}

	if h.pipeline.Running() {
		respondError(w, http.StatusConflict, "PIPELINE_RUNNING", "A refresh is already in progress", nil)
		return
	}

	// The run outlives the request; Run itself rejects a concurrent
	// start should another trigger win the race between the check above
	// and this goroutine.
	go func() {
		report, err := h.pipeline.Run(context.Background())
		if err != nil {
			if !errors.Is(err, pipeline.ErrRunInProgress) {
				logging.Error().Err(err).Msg("API triggered pipeline run failed")
			}
			return
		}
		h.ClearCache()
		logging.Info().
			Str("run_id", report.RunID).
			Int("records_fetched", report.RecordsFetched).
			Str("status", report.Status).
			Msg("API triggered pipeline run finished")
	}()

	respondJSON(w, http.StatusAccepted, successResponse(map[string]interface{}{
		"accepted": true,
		"message":  "Pipeline run started",
	}, 0))
}

// PipelineStatus reports the pipeline state
//
// @Summary Get pipeline status
// @Description Returns whether a run is currently executing and the most recent run's record
// @Tags Pipeline
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Pipeline status retrieved successfully"
// @Failure 500 {object} models.APIResponse "Internal server error"
// @Router /pipeline/status [get]
func (h *Handler) PipelineStatus(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), queryTimeout)
	defer cancel()

	start := time.Now()
	lastRun, err := h.db.LastPipelineRun(ctx)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load pipeline history", err)
		return
	}

	running := h.pipeline != nil && h.pipeline.Running()

	respondJSON(w, http.StatusOK, successResponse(map[string]interface{}{
		"running":  running,
		"last_run": lastRun,
	}, time.Since(start)))
}
