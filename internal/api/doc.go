// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package api provides the HTTP API of Resonance on a chi router.

Endpoints:

	GET  /api/v1/recommendations/content/{itemID}?top_n=
	GET  /api/v1/recommendations/collaborative/{username}?top_n=
	GET  /api/v1/recommendations/hybrid?username=&item_id=&top_n=
	GET  /api/v1/recommendations/status
	POST /api/v1/dataset/reload
	GET  /api/v1/health/live
	GET  /api/v1/health/ready
	GET  /metrics

Every JSON response uses the models.APIResponse envelope and is encoded with
goccy/go-json. Engine errors map to status codes as follows:

	*recommend.InvalidInputError  400 INVALID_INPUT
	*recommend.NotFoundError      404 NOT_FOUND
	dataset.ErrNotLoaded          503 DATASET_UNAVAILABLE
	context.DeadlineExceeded      504 REQUEST_TIMEOUT
	context.Canceled              503 REQUEST_CANCELED
	anything else                 500 INTERNAL_ERROR

A user without any interactions is not an error: the collaborative endpoint
answers 200 with no_signal set and an empty list.

Middleware, outermost first: request ID, real IP, panic recovery, CORS,
Prometheus metrics, latency monitor, then per-group rate limiting, security
headers, and a request timeout.
*/
package api
