// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package main

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/tomtom215/resonance/internal/config"
	"github.com/tomtom215/resonance/internal/dataset"
	"github.com/tomtom215/resonance/internal/metrics"
	"github.com/tomtom215/resonance/internal/recommend"
	"github.com/tomtom215/resonance/internal/recommend/algorithms"
	"github.com/tomtom215/resonance/internal/supervisor"
	"github.com/tomtom215/resonance/internal/supervisor/services"
)

// initEngine builds the recommendation engine from configuration and exposes
// its counters to Prometheus.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initEngine(cfg *config.Config, reg prometheus.Registerer, logger zerolog.Logger) (*recommend.Engine, error) {
	engineCfg := cfg.Recommend.Engine()

	content, err := algorithms.NewContentBased(engineCfg.Content, engineCfg.Workers)
	if err != nil {
		return nil, fmt.Errorf("content algorithm: %w", err)
	}
	collaborative := algorithms.NewUserBasedCF(engineCfg.Collaborative, engineCfg.Workers)

	engine, err := recommend.NewEngine(engineCfg, logger, content, collaborative)
	if err != nil {
		return nil, fmt.Errorf("recommendation engine: %w", err)
	}

	if err := metrics.RegisterEngineCollectors(reg,
		func() float64 { return float64(engine.GetMetrics().Builds) },
		func() float64 { return float64(engine.GetMetrics().HeldSnapshots) },
	); err != nil {
		return nil, fmt.Errorf("register engine metrics: %w", err)
	}
	return engine, nil
}

// initDataset creates the CSV-backed store feeding engine.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func initDataset(cfg *config.Config, engine *recommend.Engine, logger zerolog.Logger) *dataset.Store {
	source := dataset.NewCSVSource(datasetPaths(cfg))
	return dataset.NewStore(source, engine, dataset.StoreConfig{
		LoadTimeout: cfg.Dataset.LoadTimeout,
		Breaker: dataset.BreakerConfig{
			MaxFailures: cfg.Dataset.BreakerMaxFailures,
			Timeout:     cfg.Dataset.BreakerTimeout,
		},
		Warm: true,
	}, logger)
}

func datasetPaths(cfg *config.Config) dataset.Paths {
	return dataset.Paths{
		Items:  cfg.Dataset.ItemsPath,
		Liked:  cfg.Dataset.LikedPath,
		Viewed: cfg.Dataset.ViewedPath,
	}
}

// addDatasetServices puts the file watcher and the refresh timer under the
// data layer, each only when enabled.
//
//nolint:gocritic // hugeParam: logger passed by value for zerolog chaining
func addDatasetServices(cfg *config.Config, store *dataset.Store, tree *supervisor.SupervisorTree, logger zerolog.Logger) {
	if cfg.Dataset.Watch {
		watcher := dataset.NewWatcher(store, dataset.WatcherConfig{
			Paths:       datasetPaths(cfg).All(),
			Debounce:    cfg.Dataset.WatchDebounce,
			MinInterval: cfg.Dataset.ReloadMinInterval,
		}, logger)
		tree.AddDataService(watcher)
		logger.Info().Dur("debounce", cfg.Dataset.WatchDebounce).Msg("Dataset watcher added to supervisor tree")
	} else {
		logger.Info().Msg("Dataset watcher disabled (DATASET_WATCH=false)")
	}

	if cfg.Dataset.RefreshInterval > 0 {
		refresh := services.NewRefreshService(store, services.RefreshServiceConfig{
			Interval: cfg.Dataset.RefreshInterval,
			Timeout:  cfg.Dataset.LoadTimeout,
		}, logger)
		tree.AddDataService(refresh)
		logger.Info().Dur("interval", cfg.Dataset.RefreshInterval).Msg("Dataset refresh added to supervisor tree")
	}
}
