// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/resonance/internal/logging"
	"github.com/tomtom215/resonance/internal/models"
	"github.com/tomtom215/resonance/internal/recommend"
)

// ContentRequest holds the parameters of the content endpoint.
type ContentRequest struct {
	ItemID string `json:"item_id" validate:"notblank,max=256"`
	TopN   int    `json:"top_n" validate:"gte=0"`
}

// CollaborativeRequest holds the parameters of the collaborative endpoint.
type CollaborativeRequest struct {
	Username string `json:"username" validate:"notblank,max=256"`
	TopN     int    `json:"top_n" validate:"gte=0"`
}

// HybridRequest holds the parameters of the hybrid endpoint.
type HybridRequest struct {
	Username string `json:"username" validate:"notblank,max=256"`
	ItemID   string `json:"item_id" validate:"notblank,max=256"`
	TopN     int    `json:"top_n" validate:"gte=0"`
}

// resolvedTopN reports the list length actually applied, for the response.
func (h *Handler) resolvedTopN(topN int) int {
	if n, err := h.engine.ResolveTopN(topN); err == nil {
		return n
	}
	return topN
}

// ContentRecommendations handles GET /api/v1/recommendations/content/{itemID}.
func (h *Handler) ContentRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	topN, apiErr := parseTopN(r)
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	req := ContentRequest{ItemID: chi.URLParam(r, "itemID"), TopN: topN}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ds, err := h.store.Require()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	items, err := h.engine.RecommendByContent(r.Context(), ds, req.ItemID, req.TopN)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, models.RecommendationsResponse{
		Strategy: recommend.StrategyContent,
		ItemID:   req.ItemID,
		TopN:     h.resolvedTopN(req.TopN),
		Count:    len(items),
		Items:    toRecommendedItems(items),
	}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		DatasetKey:  ds.Key().String(),
	})
}

// CollaborativeRecommendations handles
// GET /api/v1/recommendations/collaborative/{username}. A user without
// interactions gets 200 with no_signal set.
func (h *Handler) CollaborativeRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	topN, apiErr := parseTopN(r)
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	req := CollaborativeRequest{Username: chi.URLParam(r, "username"), TopN: topN}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ds, err := h.store.Require()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	result, err := h.engine.RecommendByCollaboration(r.Context(), ds, req.Username, req.TopN)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	if result.NoSignal() {
		logging.Ctx(r.Context()).Debug().
			Str("username", sanitizeLogValue(req.Username)).
			Msg("No interactions for user")
	}

	respondSuccess(w, r, models.RecommendationsResponse{
		Strategy: recommend.StrategyCollaborative,
		Username: req.Username,
		TopN:     h.resolvedTopN(req.TopN),
		NoSignal: result.NoSignal(),
		Count:    len(result.Items),
		Items:    toRecommendedItems(result.Items),
	}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		DatasetKey:  ds.Key().String(),
	})
}

// HybridRecommendations handles GET /api/v1/recommendations/hybrid.
func (h *Handler) HybridRecommendations(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	topN, apiErr := parseTopN(r)
	if apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}
	query := r.URL.Query()
	req := HybridRequest{
		Username: query.Get("username"),
		ItemID:   query.Get("item_id"),
		TopN:     topN,
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondError(w, r, http.StatusBadRequest, apiErr, nil)
		return
	}

	ds, err := h.store.Require()
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	items, err := h.engine.RecommendHybrid(r.Context(), ds, req.Username, req.ItemID, req.TopN)
	if err != nil {
		respondDomainError(w, r, err)
		return
	}

	respondSuccess(w, r, models.RecommendationsResponse{
		Strategy: recommend.StrategyHybrid,
		ItemID:   req.ItemID,
		Username: req.Username,
		TopN:     h.resolvedTopN(req.TopN),
		Count:    len(items),
		Items:    toRecommendedItems(items),
	}, models.Metadata{
		QueryTimeMS: time.Since(start).Milliseconds(),
		DatasetKey:  ds.Key().String(),
	})
}

// RecommendationStatus handles GET /api/v1/recommendations/status.
func (h *Handler) RecommendationStatus(w http.ResponseWriter, r *http.Request) {
	st := h.store.Status()
	em := h.engine.GetMetrics()
	cfg := h.engine.GetConfig()
	content, collaborative := h.engine.Algorithms()

	resp := models.StatusResponse{
		Dataset: models.DatasetStatus{
			Loaded:       st.Loaded,
			Key:          st.Stats.Key,
			Items:        st.Stats.Items,
			Users:        st.Stats.Users,
			Liked:        st.Stats.Liked,
			Viewed:       st.Stats.Viewed,
			Unknown:      st.Stats.Unknown,
			LoadedAt:     st.LoadedAt,
			Reloads:      st.Reloads,
			LastError:    st.LastError,
			BreakerState: st.BreakerState,
		},
		Engine: models.EngineStatus{
			Requests:      em.Requests,
			CacheHits:     em.CacheHits,
			CacheMisses:   em.CacheMisses,
			Errors:        em.Errors,
			NoSignal:      em.NoSignal,
			Builds:        em.Builds,
			LastBuildMS:   em.LastBuild.Milliseconds(),
			HeldSnapshots: em.HeldSnapshots,
			DefaultTopN:   cfg.Limits.DefaultTopN,
			MaxTopN:       cfg.Limits.MaxTopN,
			Content:       content,
			Collaborative: collaborative,
		},
		Routes: []models.RouteLatency{},
	}

	if h.perfMon != nil {
		for _, rs := range h.perfMon.Stats() {
			resp.Routes = append(resp.Routes, models.RouteLatency{
				Method:   rs.Method,
				Route:    rs.Route,
				Requests: rs.RequestCount,
				AvgMS:    rs.AvgMS,
				P50MS:    rs.P50MS,
				P95MS:    rs.P95MS,
				P99MS:    rs.P99MS,
				MaxMS:    rs.MaxMS,
			})
		}
	}

	respondSuccess(w, r, resp, models.Metadata{DatasetKey: st.Stats.Key})
}
