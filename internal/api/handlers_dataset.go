// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"errors"
	"net/http"

	"github.com/tomtom215/resonance/internal/dataset"
	"github.com/tomtom215/resonance/internal/logging"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend"
)

// ReloadDataset handles POST /api/v1/dataset/reload. A failed reload keeps
// the previous dataset serving; invalid files answer 422 so operators can
// tell bad content from an unavailable source.
func (h *Handler) ReloadDataset(w http.ResponseWriter, r *http.Request) {
	result, err := h.store.Reload(r.Context(), dataset.TriggerAPI)
	if err != nil {
		var invalid *recommend.InvalidInputError
		if errors.As(err, &invalid) {
			respondError(w, r, http.StatusUnprocessableEntity, &models.APIError{
				Code:    models.ErrCodeInvalidInput,
				Message: invalid.Error(),
			}, err)
			return
		}
		respondError(w, r, http.StatusServiceUnavailable, &models.APIError{
			Code:    models.ErrCodeDatasetUnavailable,
			Message: "Dataset reload failed",
		}, err)
		return
	}

	logging.Ctx(r.Context()).Info().
		Bool("changed", result.Changed).
		Stringer("dataset_key", result.Key).
		Msg("Dataset reload requested via API")

	resp := models.ReloadResponse{
		Changed:    result.Changed,
		Key:        result.Key.String(),
		Items:      result.Items,
		DurationMS: result.Duration.Milliseconds(),
	}
	if result.Changed && result.Previous != 0 {
		resp.PreviousKey = result.Previous.String()
	}
	respondSuccess(w, r, resp, models.Metadata{DatasetKey: resp.Key})
}
