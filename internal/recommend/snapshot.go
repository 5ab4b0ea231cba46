// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/resonance/internal/cache"
)

// Snapshot holds the models fitted over one dataset version.
type Snapshot struct {
	Key           DatasetKey
	Content       ContentModel
	Collaborative CollaborativeModel
	BuiltAt       time.Time
	BuildDuration time.Duration
}

// BuildFunc fits the models for a dataset.
type BuildFunc func(ctx context.Context, ds *Dataset) (*Snapshot, error)

// SnapshotStore maps dataset keys to fitted snapshots.
//
// Entries never go stale on their own: a key names exact content, so an
// entry is valid for as long as it is kept. The data owner calls Invalidate
// when it retires a dataset version to free the memory early. Concurrent
// GetOrBuild calls for the same key share one build.
type SnapshotStore struct {
	lru   *cache.LRU[DatasetKey, *Snapshot]
	group singleflight.Group
}

// NewSnapshotStore creates a store holding at most capacity snapshots.
// A positive ttl expires snapshots that long after they were built.
func NewSnapshotStore(capacity int, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		lru: cache.NewLRU(capacity, cache.WithTTL[DatasetKey, *Snapshot](ttl)),
	}
}

// Get returns the snapshot for key if present.
func (s *SnapshotStore) Get(key DatasetKey) (*Snapshot, bool) {
	return s.lru.Get(key)
}

// GetOrBuild returns the snapshot for ds, calling build on a miss. The bool
// reports whether the snapshot came from the store.
//
// The shared build runs detached from any one caller's cancellation. Each
// caller stops waiting when its own ctx is done; the build still completes
// and is stored for the others.
func (s *SnapshotStore) GetOrBuild(ctx context.Context, ds *Dataset, build BuildFunc) (*Snapshot, bool, error) {
	if snap, ok := s.lru.Get(ds.Key()); ok {
		return snap, true, nil
	}

	buildCtx := context.WithoutCancel(ctx)
	ch := s.group.DoChan(ds.Key().String(), func() (interface{}, error) {
		// A concurrent flight may have finished between the miss and DoChan.
		if snap, ok := s.lru.Peek(ds.Key()); ok {
			return snap, nil
		}
		snap, err := build(buildCtx, ds)
		if err != nil {
			return nil, err
		}
		s.lru.Add(ds.Key(), snap)
		return snap, nil
	})

	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("wait for snapshot %s: %w", ds.Key(), ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, false, fmt.Errorf("build snapshot %s: %w", ds.Key(), res.Err)
		}
		return res.Val.(*Snapshot), false, nil
	}
}

// Invalidate drops the snapshot for key and reports whether one was held.
func (s *SnapshotStore) Invalidate(key DatasetKey) bool {
	s.group.Forget(key.String())
	return s.lru.Remove(key)
}

// Purge drops every snapshot.
func (s *SnapshotStore) Purge() {
	s.lru.Purge()
}

// Keys returns the held keys from most to least recently used.
func (s *SnapshotStore) Keys() []DatasetKey {
	return s.lru.Keys()
}

// Stats returns store statistics.
func (s *SnapshotStore) Stats() cache.Stats {
	return s.lru.Stats()
}
