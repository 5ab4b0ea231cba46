// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package api

import (
	"context"
	"time"

	"github.com/tomtom215/resonance/internal/dataset"
	"github.com/tomtom215/resonance/internal/middleware"
	"github.com/tomtom215/resonance/internal/recommend"
)

// DatasetStore is the part of *dataset.Store the handlers use.
type DatasetStore interface {
	Require() (*recommend.Dataset, error)
	Reload(ctx context.Context, trigger string) (dataset.ReloadResult, error)
	Status() dataset.Status
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers_recommend.go: recommendation and status endpoints
//   - handlers_dataset.go: dataset reload
//   - handlers_health.go: liveness and readiness probes
//   - handlers_helpers.go: response and parameter helpers
type Handler struct {
	engine    *recommend.Engine
	store     DatasetStore
	perfMon   *middleware.PerformanceMonitor
	version   string
	startTime time.Time
}

// NewHandler creates a handler. perfMon may be nil, in which case the status
// endpoint reports no route latencies.
func NewHandler(engine *recommend.Engine, store DatasetStore, perfMon *middleware.PerformanceMonitor, version string) *Handler {
	return &Handler{
		engine:    engine,
		store:     store,
		perfMon:   perfMon,
		version:   version,
		startTime: time.Now(),
	}
}

// PerformanceMonitor returns the latency monitor, or nil.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor {
	return h.perfMon
}
