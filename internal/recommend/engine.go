// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/metrics"
)

// ContentModel answers item-to-item similarity queries over one catalog.
type ContentModel interface {
	// SimilarItems returns up to topN items most similar to itemID,
	// excluding itemID itself.
	SimilarItems(itemID string, topN int) ([]Item, error)

	// Similarity returns the similarity of two items.
	Similarity(a, b string) (float64, bool)
}

// ContentAlgorithm fits a ContentModel.
type ContentAlgorithm interface {
	Name() string
	Fit(ctx context.Context, catalog *Catalog) (ContentModel, error)
}

// CollaborativeModel answers user-based queries over one interaction log.
type CollaborativeModel interface {
	// RecommendFor returns candidates for username, or a no-signal result
	// when the user has no interactions.
	RecommendFor(username string, topN int) (CollaborativeResult, error)

	// Similarity returns the similarity of two users.
	Similarity(a, b string) (float64, bool)
}

// CollaborativeAlgorithm fits a CollaborativeModel.
type CollaborativeAlgorithm interface {
	Name() string
	Fit(ctx context.Context, catalog *Catalog, interactions []Interaction) (CollaborativeModel, error)
}

// Strategy names used in logs and metrics.
const (
	StrategyContent       = "content"
	StrategyCollaborative = "collaborative"
	StrategyHybrid        = "hybrid"
)

// Engine serves recommendations over Dataset snapshots, fitting models once
// per dataset key. It is safe for concurrent use.
type Engine struct {
	config *Config
	logger zerolog.Logger

	content       ContentAlgorithm
	collaborative CollaborativeAlgorithm

	// store is nil when memoization is disabled.
	store *SnapshotStore

	requestCount  atomic.Int64
	cacheHits     atomic.Int64
	cacheMisses   atomic.Int64
	errorCount    atomic.Int64
	noSignalCount atomic.Int64
	buildCount    atomic.Int64
	lastBuildNS   atomic.Int64
}

// Metrics is a snapshot of engine counters.
type Metrics struct {
	Requests      int64         `json:"requests"`
	CacheHits     int64         `json:"cache_hits"`
	CacheMisses   int64         `json:"cache_misses"`
	Errors        int64         `json:"errors"`
	NoSignal      int64         `json:"no_signal"`
	Builds        int64         `json:"builds"`
	LastBuild     time.Duration `json:"last_build_ns"`
	HeldSnapshots int           `json:"held_snapshots"`
}

// NewEngine creates an engine using the given algorithms.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewEngine(cfg *Config, logger zerolog.Logger, content ContentAlgorithm, collaborative CollaborativeAlgorithm) (*Engine, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if content == nil || collaborative == nil {
		return nil, errors.New("content and collaborative algorithms are required")
	}

	e := &Engine{
		config:        cfg.Clone(),
		logger:        logger.With().Str("component", "recommend").Logger(),
		content:       content,
		collaborative: collaborative,
	}
	if cfg.Cache.Enabled {
		e.store = NewSnapshotStore(cfg.Cache.MaxSnapshots, cfg.Cache.TTL)
	}

	e.logger.Info().
		Str("content", content.Name()).
		Str("collaborative", collaborative.Name()).
		Bool("memoize", cfg.Cache.Enabled).
		Msg("recommendation engine initialized")
	return e, nil
}

// ResolveTopN applies the default to zero and rejects negative or oversized
// values with *InvalidInputError.
func (e *Engine) ResolveTopN(topN int) (int, error) {
	switch {
	case topN == 0:
		return e.config.Limits.DefaultTopN, nil
	case topN < 0:
		return 0, invalidTopN(topN)
	case topN > e.config.Limits.MaxTopN:
		return 0, &InvalidInputError{
			Field:  "top_n",
			Reason: fmt.Sprintf("must be at most %d, got %d", e.config.Limits.MaxTopN, topN),
		}
	}
	return topN, nil
}

// Snapshot returns the fitted models for ds, building them on first use.
func (e *Engine) Snapshot(ctx context.Context, ds *Dataset) (*Snapshot, error) {
	if ds == nil {
		return nil, errors.New("no dataset loaded")
	}
	if e.store == nil {
		e.cacheMisses.Add(1)
		return e.build(ctx, ds)
	}

	snap, cached, err := e.store.GetOrBuild(ctx, ds, e.build)
	if err != nil {
		return nil, err
	}
	if cached {
		e.cacheHits.Add(1)
		metrics.RecordSnapshotEvent("hit")
	} else {
		e.cacheMisses.Add(1)
		metrics.RecordSnapshotEvent("miss")
	}
	return snap, nil
}

// build fits both models for ds.
func (e *Engine) build(ctx context.Context, ds *Dataset) (*Snapshot, error) {
	start := time.Now()

	contentModel, err := e.content.Fit(ctx, ds.Catalog())
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", e.content.Name(), err)
	}
	metrics.RecordModelBuild(StrategyContent, time.Since(start))

	collabStart := time.Now()
	collabModel, err := e.collaborative.Fit(ctx, ds.Catalog(), ds.Interactions())
	if err != nil {
		return nil, fmt.Errorf("fit %s: %w", e.collaborative.Name(), err)
	}
	metrics.RecordModelBuild(StrategyCollaborative, time.Since(collabStart))

	elapsed := time.Since(start)
	e.buildCount.Add(1)
	e.lastBuildNS.Store(int64(elapsed))

	e.logger.Info().
		Str("dataset_key", ds.Key().String()).
		Int("items", ds.Catalog().Len()).
		Int("interactions", len(ds.Interactions())).
		Dur("duration", elapsed).
		Msg("fitted similarity models")

	return &Snapshot{
		Key:           ds.Key(),
		Content:       contentModel,
		Collaborative: collabModel,
		BuiltAt:       start,
		BuildDuration: elapsed,
	}, nil
}

// Warm fits the models for ds ahead of the first request.
func (e *Engine) Warm(ctx context.Context, ds *Dataset) error {
	_, err := e.Snapshot(ctx, ds)
	return err
}

// RecommendByContent returns up to topN items most similar to itemID.
func (e *Engine) RecommendByContent(ctx context.Context, ds *Dataset, itemID string, topN int) ([]Item, error) {
	start := time.Now()
	e.requestCount.Add(1)

	items, err := e.recommendByContent(ctx, ds, itemID, topN)
	e.finish(StrategyContent, start, len(items), false, err)
	return items, err
}

func (e *Engine) recommendByContent(ctx context.Context, ds *Dataset, itemID string, topN int) ([]Item, error) {
	n, err := e.ResolveTopN(topN)
	if err != nil {
		return nil, err
	}
	snap, err := e.Snapshot(ctx, ds)
	if err != nil {
		return nil, err
	}
	return snap.Content.SimilarItems(itemID, n)
}

// RecommendByCollaboration returns candidates for username drawn from the
// most similar users, or a no-signal result.
func (e *Engine) RecommendByCollaboration(ctx context.Context, ds *Dataset, username string, topN int) (CollaborativeResult, error) {
	start := time.Now()
	e.requestCount.Add(1)

	res, err := e.recommendByCollaboration(ctx, ds, username, topN)
	e.finish(StrategyCollaborative, start, len(res.Items), res.NoSignal(), err)
	return res, err
}

func (e *Engine) recommendByCollaboration(ctx context.Context, ds *Dataset, username string, topN int) (CollaborativeResult, error) {
	n, err := e.ResolveTopN(topN)
	if err != nil {
		return CollaborativeResult{}, err
	}
	snap, err := e.Snapshot(ctx, ds)
	if err != nil {
		return CollaborativeResult{}, err
	}
	return snap.Collaborative.RecommendFor(username, n)
}

// RecommendHybrid merges the content list for itemID with the collaborative
// list for username. Content errors are returned unchanged; a user without
// signal yields exactly the content list.
func (e *Engine) RecommendHybrid(ctx context.Context, ds *Dataset, username, itemID string, topN int) ([]Item, error) {
	start := time.Now()
	e.requestCount.Add(1)

	items, noSignal, err := e.recommendHybrid(ctx, ds, username, itemID, topN)
	e.finish(StrategyHybrid, start, len(items), noSignal, err)
	return items, err
}

func (e *Engine) recommendHybrid(ctx context.Context, ds *Dataset, username, itemID string, topN int) ([]Item, bool, error) {
	n, err := e.ResolveTopN(topN)
	if err != nil {
		return nil, false, err
	}
	snap, err := e.Snapshot(ctx, ds)
	if err != nil {
		return nil, false, err
	}

	content, err := snap.Content.SimilarItems(itemID, n)
	if err != nil {
		return nil, false, err
	}
	collab, err := snap.Collaborative.RecommendFor(username, n)
	if err != nil {
		return nil, false, err
	}
	merged, err := MergeHybrid(content, collab, n)
	return merged, collab.NoSignal(), err
}

// finish records counters, Prometheus metrics and a debug log line.
func (e *Engine) finish(strategy string, start time.Time, size int, noSignal bool, err error) {
	elapsed := time.Since(start)
	outcome := metrics.ErrorOutcome(err, ErrInvalidInput, ErrNotFound)
	if err == nil && noSignal {
		outcome = metrics.OutcomeNoSignal
		e.noSignalCount.Add(1)
	}
	if err != nil {
		e.errorCount.Add(1)
	}
	metrics.RecordRecommendation(strategy, outcome, size, elapsed)

	e.logger.Debug().
		Str("strategy", strategy).
		Str("outcome", outcome).
		Int("results", size).
		Dur("duration", elapsed).
		Err(err).
		Msg("recommendation computed")
}

// Invalidate drops the fitted models for key. It reports whether any were held.
func (e *Engine) Invalidate(key DatasetKey) bool {
	if e.store == nil {
		return false
	}
	dropped := e.store.Invalidate(key)
	if dropped {
		metrics.RecordSnapshotEvent("invalidate")
		e.logger.Debug().Str("dataset_key", key.String()).Msg("invalidated snapshot")
	}
	return dropped
}

// Purge drops every fitted model.
func (e *Engine) Purge() {
	if e.store != nil {
		e.store.Purge()
	}
}

// GetMetrics returns current engine counters.
func (e *Engine) GetMetrics() Metrics {
	m := Metrics{
		Requests:    e.requestCount.Load(),
		CacheHits:   e.cacheHits.Load(),
		CacheMisses: e.cacheMisses.Load(),
		Errors:      e.errorCount.Load(),
		NoSignal:    e.noSignalCount.Load(),
		Builds:      e.buildCount.Load(),
		LastBuild:   time.Duration(e.lastBuildNS.Load()),
	}
	if e.store != nil {
		m.HeldSnapshots = e.store.Stats().Size
	}
	return m
}

// GetConfig returns a copy of the engine configuration.
func (e *Engine) GetConfig() *Config {
	return e.config.Clone()
}

// Algorithms returns the names of the content and collaborative algorithms.
func (e *Engine) Algorithms() (content, collaborative string) {
	return e.content.Name(), e.collaborative.Name()
}
