// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"

	"github.com/tomtom215/resonance/internal/recommend"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
// The first file found will be used.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/resonance/config.yaml",
	"/etc/resonance/config.yml",
}

// ConfigPathEnvVar is the environment variable that can override the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config struct with all default values.
// These defaults are applied first, then overridden by config file and env vars.
func defaultConfig() *Config {
	engine := recommend.DefaultConfig()

	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "0.0.0.0",
			Timeout:         30 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
		Dataset: DatasetConfig{
			ItemsPath:          "data/all_posts.csv",
			LikedPath:          "data/liked_posts.csv",
			ViewedPath:         "data/viewed_posts.csv",
			Watch:              true,
			WatchDebounce:      2 * time.Second,
			ReloadMinInterval:  10 * time.Second,
			RefreshInterval:    0,
			LoadTimeout:        time.Minute,
			BreakerMaxFailures: 3,
			BreakerTimeout:     30 * time.Second,
		},
		Recommend: RecommendConfig{
			DefaultTopN:       engine.Limits.DefaultTopN,
			MaxTopN:           engine.Limits.MaxTopN,
			MinTokenLength:    engine.Content.MinTokenLength,
			StopWords:         engine.Content.StopWords,
			MinSimilarity:     engine.Collaborative.MinSimilarity,
			ExcludeSeen:       engine.Collaborative.ExcludeSeen,
			CacheEnabled:      engine.Cache.Enabled,
			CacheMaxSnapshots: engine.Cache.MaxSnapshots,
			CacheTTL:          engine.Cache.TTL,
			Workers:           engine.Workers,
		},
		Security: SecurityConfig{
			RateLimitReqs:     100,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
	}
}

// LoadWithKoanf loads configuration using Koanf v2 with layered sources:
//  1. Defaults: Built-in defaults
//  2. Config File: Optional YAML config file (if exists)
//  3. Environment Variables: Override any setting
func LoadWithKoanf() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	// HTTP_PORT -> server.port, DATASET_ITEMS_PATH -> dataset.items_path
	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// findConfigFile searches for a config file in the default paths.
// Returns the path to the first file found, or empty string if none found.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}

	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	return ""
}

// sliceConfigPaths defines which config paths should be parsed as comma-separated slices
var sliceConfigPaths = []string{
	"security.cors_origins",
}

// processSliceFields converts comma-separated string values to slices for known slice fields.
// Env vars arrive as strings while the config expects slices.
func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}

		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envMappings maps lower-cased environment variable names to koanf paths.
var envMappings = map[string]string{
	// Server mappings
	"http_port":             "server.port",
	"http_host":             "server.host",
	"http_timeout":          "server.timeout",
	"http_shutdown_timeout": "server.shutdown_timeout",
	"environment":           "server.environment",

	// Logging mappings
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",

	// Dataset mappings
	"dataset_items_path":           "dataset.items_path",
	"dataset_liked_path":           "dataset.liked_path",
	"dataset_viewed_path":          "dataset.viewed_path",
	"dataset_watch":                "dataset.watch",
	"dataset_watch_debounce":       "dataset.watch_debounce",
	"dataset_reload_min_interval":  "dataset.reload_min_interval",
	"dataset_refresh_interval":     "dataset.refresh_interval",
	"dataset_load_timeout":         "dataset.load_timeout",
	"dataset_breaker_max_failures": "dataset.breaker_max_failures",
	"dataset_breaker_timeout":      "dataset.breaker_timeout",

	// Recommendation engine mappings
	"recommend_default_top_n":       "recommend.default_top_n",
	"recommend_max_top_n":           "recommend.max_top_n",
	"recommend_min_token_length":    "recommend.min_token_length",
	"recommend_stop_words":          "recommend.stop_words",
	"recommend_min_similarity":      "recommend.min_similarity",
	"recommend_exclude_seen":        "recommend.exclude_seen",
	"recommend_cache_enabled":       "recommend.cache_enabled",
	"recommend_cache_max_snapshots": "recommend.cache_max_snapshots",
	"recommend_cache_ttl":           "recommend.cache_ttl",
	"recommend_workers":             "recommend.workers",

	// Security mappings
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",
}

// envTransformFunc transforms environment variable names to koanf config paths.
// Unmapped keys return "" so koanf skips them.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
