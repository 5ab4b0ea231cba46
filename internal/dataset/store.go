// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package dataset

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/metrics"
	"github.com/tomtom215/resonance/internal/recommend"
)

// Reload triggers used in logs and metrics.
const (
	TriggerStartup = "startup"
	TriggerWatch   = "watch"
	TriggerAPI     = "api"
	TriggerTimer   = "timer"
)

// ErrNotLoaded is returned by readers before the first successful load.
var ErrNotLoaded = errors.New("dataset not loaded")

// ModelCache is the part of the engine the store drives.
type ModelCache interface {
	Invalidate(key recommend.DatasetKey) bool
	Warm(ctx context.Context, ds *recommend.Dataset) error
}

// StoreConfig configures a Store.
type StoreConfig struct {
	// LoadTimeout bounds one load. Zero means no extra bound.
	LoadTimeout time.Duration

	// Breaker configures the loader circuit breaker.
	Breaker BreakerConfig

	// Warm fits the models right after a changed dataset is published.
	Warm bool
}

// ReloadResult describes a completed reload.
type ReloadResult struct {
	Changed  bool
	Previous recommend.DatasetKey
	Key      recommend.DatasetKey
	Items    int
	Duration time.Duration
}

// Status is a point-in-time view of the store.
type Status struct {
	Loaded       bool
	Stats        recommend.DatasetStats
	LoadedAt     time.Time
	Reloads      int64
	LastError    string
	BreakerState string
}

type published struct {
	ds       *recommend.Dataset
	loadedAt time.Time
}

// Store owns the current dataset. Readers call Current; reloads build a new
// dataset off to the side and swap it in.
type Store struct {
	source *breakerSource
	models ModelCache
	config StoreConfig
	logger zerolog.Logger

	current atomic.Pointer[published]

	// reloadMu serializes reloads so invalidation follows publication order.
	reloadMu sync.Mutex
	reloads  atomic.Int64

	errMu   sync.RWMutex
	lastErr error
}

// NewStore creates a store. models may be nil when nothing caches fitted
// models.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewStore(source Source, models ModelCache, cfg StoreConfig, logger zerolog.Logger) *Store {
	logger = logger.With().Str("component", "dataset").Logger()
	return &Store{
		source: newBreakerSource(source, cfg.Breaker, logger),
		models: models,
		config: cfg,
		logger: logger,
	}
}

// Current returns the published dataset, or nil before the first load.
func (s *Store) Current() *recommend.Dataset {
	if p := s.current.Load(); p != nil {
		return p.ds
	}
	return nil
}

// Require returns the published dataset or ErrNotLoaded.
func (s *Store) Require() (*recommend.Dataset, error) {
	ds := s.Current()
	if ds == nil {
		return nil, ErrNotLoaded
	}
	return ds, nil
}

// Reload loads the source and publishes the result. The previous dataset
// stays published when loading fails.
func (s *Store) Reload(ctx context.Context, trigger string) (ReloadResult, error) {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	start := time.Now()
	result, err := s.reload(ctx)
	result.Duration = time.Since(start)

	metrics.RecordDatasetReload(trigger, result.Duration, result.Changed, err)
	s.setLastError(err)

	if err != nil {
		s.logger.Error().Err(err).Str("trigger", trigger).Dur("duration", result.Duration).Msg("Dataset reload failed")
		return result, err
	}
	s.reloads.Add(1)

	event := s.logger.Info()
	if !result.Changed {
		event = s.logger.Debug()
	}
	event.
		Str("trigger", trigger).
		Str("dataset_key", result.Key.String()).
		Bool("changed", result.Changed).
		Int("items", result.Items).
		Dur("duration", result.Duration).
		Msg("Dataset reloaded")
	return result, nil
}

func (s *Store) reload(ctx context.Context) (ReloadResult, error) {
	if s.config.LoadTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.LoadTimeout)
		defer cancel()
	}

	recs, err := s.source.Load(ctx)
	if err != nil {
		return ReloadResult{}, fmt.Errorf("load dataset: %w", err)
	}
	ds, err := recommend.NewDataset(recs.Items, recs.Liked, recs.Viewed)
	if err != nil {
		return ReloadResult{}, fmt.Errorf("build dataset: %w", err)
	}

	result := ReloadResult{Key: ds.Key(), Items: ds.Catalog().Len(), Changed: true}
	prev := s.current.Load()
	if prev != nil {
		result.Previous = prev.ds.Key()
		result.Changed = prev.ds.Key() != ds.Key()
	}

	if !result.Changed {
		return result, nil
	}

	s.current.Store(&published{ds: ds, loadedAt: time.Now()})
	stats := ds.Stats()
	metrics.SetDatasetSize(stats.Items, stats.Liked, stats.Viewed)

	if s.models != nil {
		if prev != nil {
			s.models.Invalidate(prev.ds.Key())
		}
		if s.config.Warm {
			if err := s.models.Warm(ctx, ds); err != nil {
				// The dataset is published; requests will retry the build.
				s.logger.Warn().Err(err).Str("dataset_key", ds.Key().String()).Msg("Model warm-up failed")
			}
		}
	}
	return result, nil
}

func (s *Store) setLastError(err error) {
	s.errMu.Lock()
	s.lastErr = err
	s.errMu.Unlock()
}

// LastError returns the error of the most recent reload, or nil.
func (s *Store) LastError() error {
	s.errMu.RLock()
	defer s.errMu.RUnlock()
	return s.lastErr
}

// Status returns the store status.
func (s *Store) Status() Status {
	st := Status{
		Reloads:      s.reloads.Load(),
		BreakerState: s.source.state(),
	}
	if p := s.current.Load(); p != nil {
		st.Loaded = true
		st.Stats = p.ds.Stats()
		st.LoadedAt = p.loadedAt
	}
	if err := s.LastError(); err != nil {
		st.LastError = err.Error()
	}
	return st
}
