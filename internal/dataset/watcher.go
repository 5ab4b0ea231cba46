// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package dataset

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// Reloader is implemented by *Store.
type Reloader interface {
	Reload(ctx context.Context, trigger string) (ReloadResult, error)
}

// WatcherConfig configures a Watcher.
type WatcherConfig struct {
	// Paths are the files to watch.
	Paths []string

	// Debounce is the quiet period after the last event before reloading.
	// Default: 2s
	Debounce time.Duration

	// MinInterval is the minimum time between two reloads. Zero disables
	// throttling.
	MinInterval time.Duration
}

// Watcher reloads the dataset when its files change. It implements
// suture.Service.
//
// The parent directories are watched rather than the files themselves so
// that editors and deploy tools which replace a file by renaming a new one
// over it are still seen.
type Watcher struct {
	reloader Reloader
	config   WatcherConfig
	limiter  *rate.Limiter
	logger   zerolog.Logger
	name     string
}

// NewWatcher creates a watcher.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewWatcher(reloader Reloader, cfg WatcherConfig, logger zerolog.Logger) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 2 * time.Second
	}
	limit := rate.Inf
	if cfg.MinInterval > 0 {
		limit = rate.Every(cfg.MinInterval)
	}
	return &Watcher{
		reloader: reloader,
		config:   cfg,
		limiter:  rate.NewLimiter(limit, 1),
		logger:   logger.With().Str("service", "dataset-watcher").Logger(),
		name:     "dataset-watcher",
	}
}

// Serve watches until ctx is canceled.
func (w *Watcher) Serve(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	targets, err := w.addWatches(fw)
	if err != nil {
		return err
	}

	debounce := time.NewTimer(w.config.Debounce)
	debounce.Stop()
	defer debounce.Stop()

	w.logger.Info().Int("files", len(targets)).Dur("debounce", w.config.Debounce).Msg("dataset watcher started")

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("dataset watcher shutting down")
			return ctx.Err()

		case event, ok := <-fw.Events:
			if !ok {
				return errors.New("fsnotify event channel closed")
			}
			if !targets[filepath.Clean(event.Name)] || !relevant(event.Op) {
				continue
			}
			w.logger.Debug().Str("path", event.Name).Str("op", event.Op.String()).Msg("dataset file changed")
			debounce.Reset(w.config.Debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return errors.New("fsnotify error channel closed")
			}
			w.logger.Warn().Err(err).Msg("dataset watcher error")

		case <-debounce.C:
			if err := w.limiter.Wait(ctx); err != nil {
				return ctx.Err()
			}
			// Failures are logged and counted by the store; the last good
			// dataset stays published.
			_, _ = w.reloader.Reload(ctx, TriggerWatch) //nolint:errcheck // see above
		}
	}
}

func (w *Watcher) addWatches(fw *fsnotify.Watcher) (map[string]bool, error) {
	targets := make(map[string]bool, len(w.config.Paths))
	dirs := make(map[string]bool)
	for _, p := range w.config.Paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		targets[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}
	return targets, nil
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Write) || op.Has(fsnotify.Create) || op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}

// String returns the service name for logging.
func (w *Watcher) String() string {
	return w.name
}
