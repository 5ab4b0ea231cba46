// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tomtom215/resonance/internal/middleware"
	"github.com/tomtom215/resonance/internal/models"
)

// Router wires handlers and middleware into a chi router.
type Router struct {
	handler        *Handler
	chiMiddleware  *ChiMiddleware
	requestTimeout time.Duration
}

// NewRouter creates a router. A non-positive requestTimeout disables the
// per-request timeout.
func NewRouter(handler *Handler, mw *ChiMiddleware, requestTimeout time.Duration) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw, requestTimeout: requestTimeout}
}

// Setup builds the HTTP handler.
func (router *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS())
	r.Use(middleware.PrometheusMetrics)
	if pm := router.handler.PerformanceMonitor(); pm != nil {
		r.Use(pm.Middleware)
	}

	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusNotFound, &models.APIError{
			Code:    models.ErrCodeNotFound,
			Message: "Route not found",
		}, nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		respondError(w, req, http.StatusMethodNotAllowed, &models.APIError{
			Code:    "METHOD_NOT_ALLOWED",
			Message: "Method not allowed",
		}, nil)
	})

	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitHealth))
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1/recommendations", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		if router.requestTimeout > 0 {
			r.Use(chimiddleware.Timeout(router.requestTimeout))
		}
		r.Get("/content/{itemID}", router.handler.ContentRecommendations)
		r.Get("/collaborative/{username}", router.handler.CollaborativeRecommendations)
		r.Get("/hybrid", router.handler.HybridRecommendations)
		r.Get("/status", router.handler.RecommendationStatus)
	})

	r.Route("/api/v1/dataset", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitCustom(RateLimitReload))
		r.Use(APISecurityHeaders())
		r.Post("/reload", router.handler.ReloadDataset)
	})

	r.Handle("/metrics", promhttp.Handler())

	return r
}
