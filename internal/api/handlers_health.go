// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/resonance/internal/models"
)

// HealthLive handles GET /api/v1/health/live. It answers 200 while the
// process runs, regardless of the dataset.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondSuccess(w, r, models.HealthResponse{
		Status:        "alive",
		Version:       h.version,
		DatasetLoaded: h.store.Status().Loaded,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
	}, models.Metadata{})
}

// HealthReady handles GET /api/v1/health/ready. It answers 503 until the
// first dataset has been published.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	st := h.store.Status()
	health := models.HealthResponse{
		Status:        "ready",
		Version:       h.version,
		DatasetLoaded: st.Loaded,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
	}
	if !st.Loaded {
		health.Status = "not_ready"
		respondJSON(w, r, http.StatusServiceUnavailable, &models.APIResponse{
			Status:   "error",
			Data:     health,
			Metadata: models.Metadata{Timestamp: time.Now()},
			Error: &models.APIError{
				Code:    models.ErrCodeDatasetUnavailable,
				Message: "No dataset has been loaded yet",
			},
		})
		return
	}
	respondSuccess(w, r, health, models.Metadata{DatasetKey: st.Stats.Key})
}
