// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/dataset"
)

// DatasetReloader is implemented by *dataset.Store.
type DatasetReloader interface {
	Reload(ctx context.Context, trigger string) (dataset.ReloadResult, error)
}

// RefreshServiceConfig holds configuration for the refresh service.
type RefreshServiceConfig struct {
	// Interval between reloads. Must be positive.
	Interval time.Duration

	// Timeout bounds a single reload. Zero means Interval.
	Timeout time.Duration
}

// RefreshService reloads the dataset on a timer, for deployments where the
// CSV files are replaced without file system events (network mounts, object
// storage syncs). A failed reload is logged and retried on the next tick;
// the previously published snapshot keeps serving.
type RefreshService struct {
	reloader DatasetReloader
	config   RefreshServiceConfig
	logger   zerolog.Logger
	name     string
}

// NewRefreshService creates a new refresh service.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewRefreshService(reloader DatasetReloader, cfg RefreshServiceConfig, logger zerolog.Logger) *RefreshService {
	if cfg.Timeout <= 0 {
		cfg.Timeout = cfg.Interval
	}
	return &RefreshService{
		reloader: reloader,
		config:   cfg,
		logger:   logger.With().Str("service", "dataset-refresh").Logger(),
		name:     "dataset-refresh",
	}
}

// Serve implements suture.Service.
func (s *RefreshService) Serve(ctx context.Context) error {
	if s.config.Interval <= 0 {
		s.logger.Warn().Msg("Refresh interval not positive, service idle")
		<-ctx.Done()
		return ctx.Err()
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	s.logger.Info().Dur("interval", s.config.Interval).Msg("Dataset refresh running")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			s.refresh(ctx)
		}
	}
}

func (s *RefreshService) refresh(ctx context.Context) {
	reloadCtx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	result, err := s.reloader.Reload(reloadCtx, dataset.TriggerTimer)
	if err != nil {
		s.logger.Warn().Err(err).Msg("Scheduled dataset reload failed")
		return
	}
	s.logger.Debug().
		Bool("changed", result.Changed).
		Stringer("key", result.Key).
		Dur("duration", result.Duration).
		Msg("Scheduled dataset reload complete")
}

// String implements fmt.Stringer.
func (s *RefreshService) String() string {
	return s.name
}
