// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/resonance/internal/dataset"
	"github.com/tomtom215/resonance/internal/logging"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/validation"
)

// sanitizeLogValue escapes control characters so request values cannot forge
// log entries.
func sanitizeLogValue(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			fmt.Fprintf(&b, "\\x%02x", r)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// respondJSON writes response with status. Recommendation answers depend on
// the dataset version, so nothing is cacheable.
func respondJSON(w http.ResponseWriter, r *http.Request, status int, response *models.APIResponse) {
	response.Metadata.RequestID = logging.RequestIDFromContext(r.Context())

	data, err := json.Marshal(response)
	if err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondSuccess wraps data in a success envelope.
func respondSuccess(w http.ResponseWriter, r *http.Request, data interface{}, meta models.Metadata) {
	meta.Timestamp = time.Now()
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}

// respondError sends an error envelope. err, when set, is logged and never
// shown to the caller.
func respondError(w http.ResponseWriter, r *http.Request, status int, apiErr *models.APIError, err error) {
	if err != nil {
		event := logging.Ctx(r.Context()).Warn()
		if status >= http.StatusInternalServerError {
			event = logging.Ctx(r.Context()).Error()
		}
		event.Str("code", apiErr.Code).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API error")
	}

	respondJSON(w, r, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    apiErr,
	})
}

// respondDomainError maps engine and dataset errors to status codes.
func respondDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var invalid *recommend.InvalidInputError
	var notFound *recommend.NotFoundError

	switch {
	case errors.As(err, &invalid):
		apiErr := &models.APIError{Code: models.ErrCodeInvalidInput, Message: invalid.Error()}
		if invalid.Field != "" {
			apiErr.Details = map[string]interface{}{invalid.Field: invalid.Reason}
		}
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
	case errors.As(err, &notFound):
		respondError(w, r, http.StatusNotFound,
			&models.APIError{Code: models.ErrCodeNotFound, Message: notFound.Error()}, nil)
	case errors.Is(err, dataset.ErrNotLoaded):
		respondError(w, r, http.StatusServiceUnavailable,
			&models.APIError{Code: models.ErrCodeDatasetUnavailable, Message: "No dataset has been loaded yet"}, err)
	case errors.Is(err, context.DeadlineExceeded):
		logging.Ctx(r.Context()).Warn().Err(err).
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Recommendation timed out")
		respondError(w, r, http.StatusGatewayTimeout,
			&models.APIError{Code: models.ErrCodeRequestTimeout, Message: "Request timed out"}, nil)
	case errors.Is(err, context.Canceled):
		// The client has usually gone away; the response is best effort.
		logging.Ctx(r.Context()).Debug().
			Str("path", sanitizeLogValue(r.URL.Path)).
			Msg("Request canceled")
		respondError(w, r, http.StatusServiceUnavailable,
			&models.APIError{Code: models.ErrCodeRequestCanceled, Message: "Request was canceled"}, nil)
	default:
		respondError(w, r, http.StatusInternalServerError,
			&models.APIError{Code: models.ErrCodeInternal, Message: "Internal server error"}, err)
	}
}

// validateRequest validates v and returns nil or an INVALID_INPUT error.
func validateRequest(v interface{}) *models.APIError {
	verr := validation.ValidateStruct(v)
	if verr == nil {
		return nil
	}
	return &models.APIError{
		Code:    models.ErrCodeInvalidInput,
		Message: verr.Error(),
		Details: verr.Details(),
	}
}

// parseTopN reads the top_n query parameter. Absent means 0, which the
// engine replaces with its default.
func parseTopN(r *http.Request) (int, *models.APIError) {
	raw := strings.TrimSpace(r.URL.Query().Get("top_n"))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &models.APIError{
			Code:    models.ErrCodeInvalidInput,
			Message: "top_n must be an integer",
			Details: map[string]interface{}{"top_n": sanitizeLogValue(raw)},
		}
	}
	return n, nil
}

// toRecommendedItems converts engine items to wire items. The result is
// never nil so an empty list encodes as [].
func toRecommendedItems(items []recommend.Item) []models.RecommendedItem {
	out := make([]models.RecommendedItem, len(items))
	for i := range items {
		it := &items[i]
		out[i] = models.RecommendedItem{
			ID:    it.ID,
			Title: it.Title,
			Genre: it.Genre,
			Signals: models.ItemSignals{
				Upvotes: it.Signals.Upvotes,
				Views:   it.Signals.Views,
				Rating:  it.Signals.Rating,
			},
			Metadata: it.Metadata,
		}
	}
	return out
}
