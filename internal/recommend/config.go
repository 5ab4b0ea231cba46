// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"fmt"
	"time"
)

// Config contains all configuration for the recommendation engine.
type Config struct {
	// Limits contains request limits.
	Limits LimitsConfig `json:"limits"`

	// Content contains parameters for content similarity.
	Content ContentConfig `json:"content"`

	// Collaborative contains parameters for collaborative similarity.
	Collaborative CollaborativeConfig `json:"collaborative"`

	// Cache contains snapshot memoization parameters.
	Cache CacheConfig `json:"cache"`

	// Workers bounds the goroutines used to fill similarity matrices.
	// Zero means runtime.GOMAXPROCS(0).
	Workers int `json:"workers"`
}

// LimitsConfig contains request limits.
type LimitsConfig struct {
	// DefaultTopN is used when a request leaves topN at zero.
	// Default: 5.
	DefaultTopN int `json:"default_top_n"`

	// MaxTopN caps the list length a request may ask for.
	// Default: 100.
	MaxTopN int `json:"max_top_n"`
}

// ContentConfig contains parameters for content similarity.
type ContentConfig struct {
	// MinTokenLength drops shorter tokens from descriptors.
	// Default: 2.
	MinTokenLength int `json:"min_token_length"`

	// StopWords selects the stop-word list: "english" or "none".
	// Default: "english".
	StopWords string `json:"stop_words"`
}

// CollaborativeConfig contains parameters for collaborative similarity.
type CollaborativeConfig struct {
	// MinSimilarity drops neighbours scoring below this value.
	// Default: 0 (every other user is a neighbour candidate).
	MinSimilarity float64 `json:"min_similarity"`

	// ExcludeSeen removes items the requesting user already interacted with.
	// Default: false.
	ExcludeSeen bool `json:"exclude_seen"`
}

// CacheConfig contains snapshot memoization parameters.
type CacheConfig struct {
	// Enabled turns on memoization of fitted models per dataset key.
	// Default: true.
	Enabled bool `json:"enabled"`

	// MaxSnapshots bounds how many dataset versions stay fitted.
	// Default: 4.
	MaxSnapshots int `json:"max_snapshots"`

	// TTL expires fitted snapshots; zero keeps them until invalidated.
	// Default: 0.
	TTL time.Duration `json:"ttl"`
}

// Stop-word list names.
const (
	StopWordsEnglish = "english"
	StopWordsNone    = "none"
)

// DefaultConfig returns a Config with production defaults.
func DefaultConfig() *Config {
	return &Config{
		Limits: LimitsConfig{
			DefaultTopN: DefaultTopN,
			MaxTopN:     100,
		},
		Content: ContentConfig{
			MinTokenLength: 2,
			StopWords:      StopWordsEnglish,
		},
		Collaborative: CollaborativeConfig{
			MinSimilarity: 0,
			ExcludeSeen:   false,
		},
		Cache: CacheConfig{
			Enabled:      true,
			MaxSnapshots: 4,
		},
	}
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.Limits.DefaultTopN <= 0 {
		return fmt.Errorf("limits.default_top_n must be positive, got %d", c.Limits.DefaultTopN)
	}
	if c.Limits.MaxTopN < c.Limits.DefaultTopN {
		return fmt.Errorf("limits.max_top_n (%d) must be >= limits.default_top_n (%d)",
			c.Limits.MaxTopN, c.Limits.DefaultTopN)
	}
	if c.Content.MinTokenLength < 1 {
		return fmt.Errorf("content.min_token_length must be at least 1, got %d", c.Content.MinTokenLength)
	}
	switch c.Content.StopWords {
	case StopWordsEnglish, StopWordsNone:
	default:
		return fmt.Errorf("content.stop_words must be %q or %q, got %q",
			StopWordsEnglish, StopWordsNone, c.Content.StopWords)
	}
	if c.Collaborative.MinSimilarity < 0 || c.Collaborative.MinSimilarity > 1 {
		return fmt.Errorf("collaborative.min_similarity must be in [0, 1], got %f", c.Collaborative.MinSimilarity)
	}
	if c.Cache.Enabled && c.Cache.MaxSnapshots <= 0 {
		return fmt.Errorf("cache.max_snapshots must be positive when cache is enabled, got %d", c.Cache.MaxSnapshots)
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must be non-negative, got %v", c.Cache.TTL)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be non-negative, got %d", c.Workers)
	}
	return nil
}

// Clone returns a copy of the configuration.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}
