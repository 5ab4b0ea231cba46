// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package metrics holds the Prometheus instrumentation for Resonance:
// API traffic, recommendation requests per strategy, model builds, dataset
// reloads, and the dataset loader circuit breaker.
package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "route", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resonance_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonance_api_active_requests",
			Help: "Number of API requests currently in flight",
		},
	)

	// Recommendation Metrics
	RecommendRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_recommend_requests_total",
			Help: "Total number of recommendation requests",
		},
		[]string{"strategy", "outcome"}, // outcome: "ok", "no_signal", "invalid_input", "not_found", "error"
	)

	RecommendDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resonance_recommend_duration_seconds",
			Help:    "Time to compute a recommendation list, model build included",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"strategy"},
	)

	RecommendResultSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resonance_recommend_result_size",
			Help:    "Number of items returned per recommendation request",
			Buckets: []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
		[]string{"strategy"},
	)

	ModelBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "resonance_model_build_duration_seconds",
			Help:    "Time to fit a similarity model over a dataset snapshot",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 8),
		},
		[]string{"model"}, // "content", "collaborative"
	)

	SnapshotCacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_snapshot_cache_events_total",
			Help: "Snapshot store lookups and invalidations",
		},
		[]string{"event"}, // "hit", "miss", "invalidate"
	)

	// Dataset Metrics
	DatasetReloads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_dataset_reloads_total",
			Help: "Total number of dataset reload attempts",
		},
		[]string{"trigger", "result"}, // trigger: "startup", "watch", "api"; result: "success", "unchanged", "failure"
	)

	DatasetReloadDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "resonance_dataset_reload_duration_seconds",
			Help:    "Time to read and normalize the dataset",
			Buckets: prometheus.DefBuckets,
		},
	)

	DatasetItems = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonance_dataset_items",
			Help: "Number of items in the active dataset",
		},
	)

	DatasetInteractions = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resonance_dataset_interactions",
			Help: "Number of interactions in the active dataset",
		},
		[]string{"kind"},
	)

	DatasetLastReload = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "resonance_dataset_last_reload_timestamp_seconds",
			Help: "Unix time of the last successful dataset reload",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "resonance_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_circuit_breaker_requests_total",
			Help: "Total number of requests through circuit breaker",
		},
		[]string{"name", "result"}, // result: "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "resonance_circuit_breaker_state_transitions_total",
			Help: "Total number of circuit breaker state transitions",
		},
		[]string{"name", "from_state", "to_state"},
	)
)

// Outcome labels shared by RecordRecommendation callers.
const (
	OutcomeOK           = "ok"
	OutcomeNoSignal     = "no_signal"
	OutcomeInvalidInput = "invalid_input"
	OutcomeNotFound     = "not_found"
	OutcomeError        = "error"
)

// RecordAPIRequest records an API request metric.
func RecordAPIRequest(method, route string, status int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	APIRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordRecommendation records one recommendation request.
func RecordRecommendation(strategy, outcome string, size int, duration time.Duration) {
	RecommendRequests.WithLabelValues(strategy, outcome).Inc()
	RecommendDuration.WithLabelValues(strategy).Observe(duration.Seconds())
	if outcome == OutcomeOK {
		RecommendResultSize.WithLabelValues(strategy).Observe(float64(size))
	}
}

// RecordModelBuild records the time taken to fit one model.
func RecordModelBuild(model string, duration time.Duration) {
	ModelBuildDuration.WithLabelValues(model).Observe(duration.Seconds())
}

// RecordSnapshotEvent counts a snapshot store hit, miss or invalidation.
func RecordSnapshotEvent(event string) {
	SnapshotCacheEvents.WithLabelValues(event).Inc()
}

// RecordDatasetReload records a reload attempt. result is derived from err
// and changed: "failure" on error, "unchanged" when the content key did not
// move, "success" otherwise.
func RecordDatasetReload(trigger string, duration time.Duration, changed bool, err error) {
	result := "success"
	switch {
	case err != nil:
		result = "failure"
	case !changed:
		result = "unchanged"
	}
	DatasetReloads.WithLabelValues(trigger, result).Inc()
	DatasetReloadDuration.Observe(duration.Seconds())
	if err == nil {
		DatasetLastReload.Set(float64(time.Now().Unix()))
	}
}

// SetDatasetSize updates the dataset size gauges.
func SetDatasetSize(items, liked, viewed int) {
	DatasetItems.Set(float64(items))
	DatasetInteractions.WithLabelValues("liked").Set(float64(liked))
	DatasetInteractions.WithLabelValues("viewed").Set(float64(viewed))
}

// ErrorOutcome maps an error to an outcome label using the supplied
// classifiers, falling back to OutcomeError.
func ErrorOutcome(err error, invalid, notFound error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, invalid):
		return OutcomeInvalidInput
	case errors.Is(err, notFound):
		return OutcomeNotFound
	default:
		return OutcomeError
	}
}

// RegisterEngineCollectors exposes engine counters that live outside this
// package through CounterFunc and GaugeFunc collectors. Registering the same
// collectors twice is not an error.
func RegisterEngineCollectors(reg prometheus.Registerer, builds, held func() float64) error {
	collectors := []prometheus.Collector{
		prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: "resonance_engine_model_builds_total",
			Help: "Number of snapshot builds performed by the engine",
		}, builds),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "resonance_engine_held_snapshots",
			Help: "Number of fitted snapshots currently memoized",
		}, held),
	}
	for _, c := range collectors {
		if err := reg.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}
