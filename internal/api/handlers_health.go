// Anisette - Anime Metadata Aggregation and Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/anisette

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/anisette/internal/models"
)

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns health status including database connectivity, catalog load state, last pipeline run time, and uptime
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	dbConnected := h.db != nil && h.db.Ping() == nil

	catalogLoaded := false
	var lastRunTime *time.Time
	if dbConnected {
		if count, err := h.db.AnimeCount(r.Context()); err == nil && count > 0 {
			catalogLoaded = true
		}
		if run, err := h.db.LastPipelineRun(r.Context()); err == nil && run != nil {
			if run.FinishedAt != nil {
				lastRunTime = run.FinishedAt
			} else {
				lastRunTime = &run.StartedAt
			}
		}
	}

	status := "healthy"
	if !dbConnected || !catalogLoaded {
		status = "degraded"
	}

	health := models.HealthStatus{
		Status:            status,
		Version:           Version,
		DatabaseConnected: dbConnected,
		CatalogLoaded:     catalogLoaded,
		LastRunTime:       lastRunTime,
		Uptime:            time.Since(h.startTime).Seconds(),
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   health,
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthLive handles liveness probe requests (Kubernetes-style)
// Returns 200 OK if the process is alive, regardless of dependencies
//
// @Summary Kubernetes liveness probe
// @Description Returns 200 OK if the process is alive, regardless of external dependencies. Used for Kubernetes liveness probes.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}

// HealthReady handles readiness probe requests (Kubernetes-style)
// Ready means the warehouse is reachable and holds a loaded catalog;
// before the first pipeline run completes the service reports 503 so
// orchestrators keep traffic away from an empty recommender.
//
// @Summary Kubernetes readiness probe
// @Description Returns 200 OK only if the database is reachable and the catalog is loaded. Returns 503 before the first completed pipeline run.
// @Tags Core
// @Accept json
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodGet) {
		return
	}

	dbConnected := h.db != nil && h.db.Ping() == nil

	catalogLoaded := false
	if dbConnected {
		if count, err := h.db.AnimeCount(r.Context()); err == nil && count > 0 {
			catalogLoaded = true
		}
	}

	ready := dbConnected && catalogLoaded
	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":             status,
			"database_connected": dbConnected,
			"catalog_loaded":     catalogLoaded,
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
