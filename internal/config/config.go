// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package config

import (
	"fmt"
	"time"

	"github.com/tomtom215/resonance/internal/recommend"
)

// Config holds all application configuration loaded from defaults, an
// optional config file and environment variables.
//
// Config is immutable after Load and safe for concurrent reads.
type Config struct {
	Server    ServerConfig    `koanf:"server"`
	Logging   LoggingConfig   `koanf:"logging"`
	Dataset   DatasetConfig   `koanf:"dataset"`
	Recommend RecommendConfig `koanf:"recommend"`
	Security  SecurityConfig  `koanf:"security"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"` // "development", "staging", "production"
}

// Addr returns the listen address.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	// Default: info
	Level string `koanf:"level"`

	// Format is the output format: json or console.
	// Default: json
	Format string `koanf:"format"`

	// Caller includes caller file and line number in logs.
	// Default: false
	Caller bool `koanf:"caller"`
}

// DatasetConfig locates the CSV files and controls how they are reloaded.
type DatasetConfig struct {
	ItemsPath  string `koanf:"items_path"`
	LikedPath  string `koanf:"liked_path"`
	ViewedPath string `koanf:"viewed_path"`

	// Watch reloads the dataset when any of the files change.
	Watch bool `koanf:"watch"`

	// WatchDebounce is the quiet period after the last file event before a
	// reload starts. Editors often write a file in several steps.
	WatchDebounce time.Duration `koanf:"watch_debounce"`

	// ReloadMinInterval throttles watcher-triggered reloads.
	ReloadMinInterval time.Duration `koanf:"reload_min_interval"`

	// RefreshInterval reloads on a timer as well; zero disables it.
	RefreshInterval time.Duration `koanf:"refresh_interval"`

	// LoadTimeout bounds a single load.
	LoadTimeout time.Duration `koanf:"load_timeout"`

	// BreakerMaxFailures is the number of consecutive load failures that
	// open the circuit breaker.
	BreakerMaxFailures uint32 `koanf:"breaker_max_failures"`

	// BreakerTimeout is how long the breaker stays open before a trial load.
	BreakerTimeout time.Duration `koanf:"breaker_timeout"`
}

// RecommendConfig holds recommendation engine settings. It is flattened for
// environment mapping; Engine converts it to the engine's own Config.
type RecommendConfig struct {
	DefaultTopN    int     `koanf:"default_top_n"`
	MaxTopN        int     `koanf:"max_top_n"`
	MinTokenLength int     `koanf:"min_token_length"`
	StopWords      string  `koanf:"stop_words"`
	MinSimilarity  float64 `koanf:"min_similarity"`
	ExcludeSeen    bool    `koanf:"exclude_seen"`

	CacheEnabled      bool          `koanf:"cache_enabled"`
	CacheMaxSnapshots int           `koanf:"cache_max_snapshots"`
	CacheTTL          time.Duration `koanf:"cache_ttl"`

	// Workers bounds matrix fill goroutines; 0 means GOMAXPROCS.
	Workers int `koanf:"workers"`
}

// Engine returns the engine configuration.
func (r RecommendConfig) Engine() *recommend.Config {
	return &recommend.Config{
		Limits: recommend.LimitsConfig{
			DefaultTopN: r.DefaultTopN,
			MaxTopN:     r.MaxTopN,
		},
		Content: recommend.ContentConfig{
			MinTokenLength: r.MinTokenLength,
			StopWords:      r.StopWords,
		},
		Collaborative: recommend.CollaborativeConfig{
			MinSimilarity: r.MinSimilarity,
			ExcludeSeen:   r.ExcludeSeen,
		},
		Cache: recommend.CacheConfig{
			Enabled:      r.CacheEnabled,
			MaxSnapshots: r.CacheMaxSnapshots,
			TTL:          r.CacheTTL,
		},
		Workers: r.Workers,
	}
}

// SecurityConfig holds rate limiting and CORS settings.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// Load loads configuration. It is the entry point used by cmd/server.
func Load() (*Config, error) {
	return LoadWithKoanf()
}
