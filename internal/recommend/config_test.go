// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Limits.DefaultTopN != DefaultTopN {
		t.Errorf("DefaultTopN = %d, want %d", cfg.Limits.DefaultTopN, DefaultTopN)
	}
	if cfg.Collaborative.ExcludeSeen {
		t.Error("ExcludeSeen should default to false")
	}
}

func TestConfig_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{"zero default top n", func(c *Config) { c.Limits.DefaultTopN = 0 }, "limits.default_top_n"},
		{"max below default", func(c *Config) { c.Limits.MaxTopN = 2 }, "limits.max_top_n"},
		{"token length", func(c *Config) { c.Content.MinTokenLength = 0 }, "content.min_token_length"},
		{"stop words", func(c *Config) { c.Content.StopWords = "french" }, "content.stop_words"},
		{"min similarity", func(c *Config) { c.Collaborative.MinSimilarity = 1.5 }, "collaborative.min_similarity"},
		{"snapshots", func(c *Config) { c.Cache.MaxSnapshots = 0 }, "cache.max_snapshots"},
		{"ttl", func(c *Config) { c.Cache.TTL = -time.Second }, "cache.ttl"},
		{"workers", func(c *Config) { c.Workers = -1 }, "workers"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want error mentioning %q", err, tt.wantErr)
			}
		})
	}

	cfg := DefaultConfig()
	cfg.Cache.Enabled = false
	cfg.Cache.MaxSnapshots = 0
	if err := cfg.Validate(); err != nil {
		t.Errorf("disabled cache should not require max_snapshots: %v", err)
	}
}

func TestConfig_Clone(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()
	clone := cfg.Clone()
	clone.Limits.DefaultTopN = 9
	if cfg.Limits.DefaultTopN == 9 {
		t.Error("Clone() shares state with the original")
	}
}
