// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package main is the entry point for the Resonance server.

Resonance serves content-based, collaborative and hybrid recommendations over
a catalog of posts and the users' liked and viewed interactions, all read
from CSV files.

# Application Architecture

	RootSupervisor ("resonance")
	├── DataSupervisor ("data-layer")
	│   ├── Dataset watcher (fsnotify, optional)
	│   └── Dataset refresh timer (optional)
	└── APISupervisor ("api-layer")
	    └── HTTP server (chi)

Startup order:

 1. Configuration: koanf v2 from defaults, config.yaml and environment
 2. Logging: zerolog, JSON or console
 3. Engine: TF-IDF content model and user-based collaborative model
 4. Dataset store: CSV files through DuckDB behind a circuit breaker
 5. Initial load; failure is logged and readiness stays 503 until a reload
    succeeds
 6. Supervisor tree with the watcher, refresh timer and HTTP server

# Configuration

	HTTP_PORT=8080
	DATASET_ITEMS_PATH=data/all_posts.csv
	DATASET_LIKED_PATH=data/liked_posts.csv
	DATASET_VIEWED_PATH=data/viewed_posts.csv
	DATASET_WATCH=true
	DATASET_REFRESH_INTERVAL=0      # disabled
	RECOMMEND_DEFAULT_TOP_N=5
	LOG_LEVEL=info
	LOG_FORMAT=json

See internal/config for the full list.

# Signal Handling

SIGINT and SIGTERM cancel the root context. The HTTP server drains in-flight
requests for up to HTTP_SHUTDOWN_TIMEOUT before the process exits.
*/
package main
