// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package models holds the wire types of the HTTP API.
package models

import (
	"time"
)

// APIResponse is the envelope returned by every HTTP endpoint.
//
// Status field values:
//   - "success": Request completed successfully, see Data field
//   - "error": Request failed, see Error field for details
//
// Example successful response:
//
//	{
//	  "status": "success",
//	  "data": {"strategy": "content", "items": [...]},
//	  "metadata": {
//	    "timestamp": "2026-03-01T12:00:00Z",
//	    "query_time_ms": 3,
//	    "dataset_key": "9f2c61d0a4b3e817"
//	  }
//	}
//
// Example error response:
//
//	{
//	  "status": "error",
//	  "error": {
//	    "code": "NOT_FOUND",
//	    "message": "item \"42\" not found"
//	  },
//	  "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata contains response metadata.
type Metadata struct {
	Timestamp   time.Time `json:"timestamp"`
	QueryTimeMS int64     `json:"query_time_ms,omitempty"`
	RequestID   string    `json:"request_id,omitempty"`

	// DatasetKey identifies the dataset version the answer was computed on.
	DatasetKey string `json:"dataset_key,omitempty"`
}

// APIError represents an error response with structured error details.
//
// Error codes:
//   - INVALID_INPUT: Malformed or out-of-range parameter
//   - NOT_FOUND: Unknown item
//   - DATASET_UNAVAILABLE: No dataset has been loaded yet
//   - RATE_LIMIT_EXCEEDED: Too many requests
//   - INTERNAL_ERROR: Anything else
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// Error codes.
const (
	ErrCodeInvalidInput       = "INVALID_INPUT"
	ErrCodeNotFound           = "NOT_FOUND"
	ErrCodeDatasetUnavailable = "DATASET_UNAVAILABLE"
	ErrCodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	ErrCodeRequestTimeout     = "REQUEST_TIMEOUT"
	ErrCodeRequestCanceled    = "REQUEST_CANCELED"
	ErrCodeInternal           = "INTERNAL_ERROR"
)

// RecommendedItem is one entry of a recommendation list. Signals are the
// item's engagement numbers min-max scaled to [0,1] over the catalog.
type RecommendedItem struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Genre    string            `json:"genre"`
	Signals  ItemSignals       `json:"signals"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// ItemSignals are scaled engagement signals.
type ItemSignals struct {
	Upvotes float64 `json:"upvotes"`
	Views   float64 `json:"views"`
	Rating  float64 `json:"rating"`
}

// RecommendationsResponse is the data payload of the recommendation endpoints.
type RecommendationsResponse struct {
	Strategy string            `json:"strategy"`
	ItemID   string            `json:"item_id,omitempty"`
	Username string            `json:"username,omitempty"`
	TopN     int               `json:"top_n"`
	NoSignal bool              `json:"no_signal,omitempty"`
	Count    int               `json:"count"`
	Items    []RecommendedItem `json:"items"`
}

// DatasetStatus describes the dataset currently served.
type DatasetStatus struct {
	Loaded       bool      `json:"loaded"`
	Key          string    `json:"key,omitempty"`
	Items        int       `json:"items"`
	Users        int       `json:"users"`
	Liked        int       `json:"liked"`
	Viewed       int       `json:"viewed"`
	Unknown      int       `json:"unknown_item_refs"`
	LoadedAt     time.Time `json:"loaded_at,omitempty"`
	Reloads      int64     `json:"reloads"`
	LastError    string    `json:"last_error,omitempty"`
	BreakerState string    `json:"breaker_state"`
}

// EngineStatus reports engine counters.
type EngineStatus struct {
	Requests      int64  `json:"requests"`
	CacheHits     int64  `json:"cache_hits"`
	CacheMisses   int64  `json:"cache_misses"`
	Errors        int64  `json:"errors"`
	NoSignal      int64  `json:"no_signal"`
	Builds        int64  `json:"builds"`
	LastBuildMS   int64  `json:"last_build_ms"`
	HeldSnapshots int    `json:"held_snapshots"`
	DefaultTopN   int    `json:"default_top_n"`
	MaxTopN       int    `json:"max_top_n"`
	Content       string `json:"content_algorithm"`
	Collaborative string `json:"collaborative_algorithm"`
}

// RouteLatency summarizes recent requests to one route.
type RouteLatency struct {
	Method   string  `json:"method"`
	Route    string  `json:"route"`
	Requests int64   `json:"requests"`
	AvgMS    float64 `json:"avg_ms"`
	P50MS    float64 `json:"p50_ms"`
	P95MS    float64 `json:"p95_ms"`
	P99MS    float64 `json:"p99_ms"`
	MaxMS    float64 `json:"max_ms"`
}

// StatusResponse is the payload of GET /api/v1/recommendations/status.
type StatusResponse struct {
	Dataset DatasetStatus  `json:"dataset"`
	Engine  EngineStatus   `json:"engine"`
	Routes  []RouteLatency `json:"routes"`
}

// ReloadResponse is the payload of POST /api/v1/dataset/reload.
type ReloadResponse struct {
	Changed     bool   `json:"changed"`
	PreviousKey string `json:"previous_key,omitempty"`
	Key         string `json:"key"`
	Items       int    `json:"items"`
	DurationMS  int64  `json:"duration_ms"`
}

// HealthResponse is the payload of the health endpoints.
type HealthResponse struct {
	Status        string `json:"status"`
	Version       string `json:"version,omitempty"`
	DatasetLoaded bool   `json:"dataset_loaded"`
	Uptime        string `json:"uptime"`
}
