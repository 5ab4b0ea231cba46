// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package middleware provides the HTTP middleware Resonance mounts on its chi
router.

  - RequestID: accepts or generates X-Request-ID and puts request and
    correlation IDs on the context for logging.Ctx.
  - PrometheusMetrics: request counters, latency histograms and the
    in-flight gauge, labelled by chi route pattern rather than raw path so
    item IDs and usernames do not explode label cardinality.
  - PerformanceMonitor: a sliding window of recent request latencies with
    per-route percentiles, reported by the status endpoint, plus a warning
    log for slow requests.

All three take and return http.Handler so they plug into chi's r.Use:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perfMon.Middleware)
*/
package middleware
