// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

/*
Package config provides centralized configuration management for Resonance.

Configuration is loaded with Koanf v2 in three layers, later layers winning:

 1. Built-in defaults (defaultConfig)
 2. An optional YAML file (CONFIG_PATH, then config.yaml, then /etc/resonance/config.yaml)
 3. Environment variables

# Environment Variables

HTTP Server:
  - HTTP_HOST: Bind address (default: 0.0.0.0)
  - HTTP_PORT: Listen port (default: 8080)
  - HTTP_TIMEOUT: Request timeout (default: 30s)
  - HTTP_SHUTDOWN_TIMEOUT: Graceful shutdown budget (default: 15s)
  - ENVIRONMENT: development, staging or production (default: development)

Logging:
  - LOG_LEVEL: trace, debug, info, warn, error (default: info)
  - LOG_FORMAT: json or console (default: json)
  - LOG_CALLER: Include caller file and line (default: false)

Dataset:
  - DATASET_ITEMS_PATH: Item catalog CSV (default: data/all_posts.csv)
  - DATASET_LIKED_PATH: Liked interactions CSV (default: data/liked_posts.csv)
  - DATASET_VIEWED_PATH: Viewed interactions CSV (default: data/viewed_posts.csv)
  - DATASET_WATCH: Reload when the CSV files change (default: true)
  - DATASET_WATCH_DEBOUNCE: Quiet period before a reload (default: 2s)
  - DATASET_RELOAD_MIN_INTERVAL: Minimum time between reloads (default: 10s)
  - DATASET_REFRESH_INTERVAL: Periodic reload, 0 disables (default: 0)
  - DATASET_LOAD_TIMEOUT: Budget for one load (default: 1m)
  - DATASET_BREAKER_MAX_FAILURES: Consecutive failures that open the breaker (default: 3)
  - DATASET_BREAKER_TIMEOUT: Time the breaker stays open (default: 30s)

Recommendation engine:
  - RECOMMEND_DEFAULT_TOP_N: List length when a request omits top_n (default: 5)
  - RECOMMEND_MAX_TOP_N: Largest accepted top_n (default: 100)
  - RECOMMEND_MIN_TOKEN_LENGTH: Shortest descriptor token kept (default: 2)
  - RECOMMEND_STOP_WORDS: english or none (default: english)
  - RECOMMEND_MIN_SIMILARITY: Neighbour similarity floor (default: 0)
  - RECOMMEND_EXCLUDE_SEEN: Drop items the user already touched (default: false)
  - RECOMMEND_CACHE_ENABLED: Memoize fitted models per dataset (default: true)
  - RECOMMEND_CACHE_MAX_SNAPSHOTS: Dataset versions kept fitted (default: 4)
  - RECOMMEND_CACHE_TTL: Expire fitted models, 0 disables (default: 0)
  - RECOMMEND_WORKERS: Matrix fill goroutines, 0 means GOMAXPROCS (default: 0)

Security:
  - RATE_LIMIT_REQUESTS: Requests per window per client (default: 100)
  - RATE_LIMIT_WINDOW: Rate limit window (default: 1m)
  - DISABLE_RATE_LIMIT: Turn rate limiting off (default: false)
  - CORS_ORIGINS: Comma-separated allowed origins (default: *)

Unmapped environment variables are ignored so unrelated process environment
never leaks into configuration.
*/
package config
