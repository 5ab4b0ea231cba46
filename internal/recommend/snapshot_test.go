// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func snapshotDataset(t *testing.T, title string) *Dataset {
	t.Helper()
	ds, err := NewDataset([]ItemRecord{{ID: "1", Title: title}}, nil, nil)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}
	return ds
}

func countingBuild(calls *atomic.Int32) BuildFunc {
	return func(_ context.Context, ds *Dataset) (*Snapshot, error) {
		calls.Add(1)
		return &Snapshot{Key: ds.Key()}, nil
	}
}

func TestSnapshotStore_GetOrBuild(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(2, 0)
	ds := snapshotDataset(t, "first")
	var calls atomic.Int32

	snap, cached, err := store.GetOrBuild(context.Background(), ds, countingBuild(&calls))
	if err != nil {
		t.Fatalf("GetOrBuild() error = %v", err)
	}
	if cached {
		t.Error("first GetOrBuild() reported cached")
	}
	if snap.Key != ds.Key() {
		t.Errorf("snapshot key = %s, want %s", snap.Key, ds.Key())
	}

	again, cached, err := store.GetOrBuild(context.Background(), ds, countingBuild(&calls))
	if err != nil || !cached || again != snap {
		t.Errorf("second GetOrBuild() = %p, %v, %v; want cached %p", again, cached, err, snap)
	}
	if calls.Load() != 1 {
		t.Errorf("build called %d times, want 1", calls.Load())
	}
}

func TestSnapshotStore_SingleFlight(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(2, 0)
	ds := snapshotDataset(t, "shared")
	var calls atomic.Int32
	release := make(chan struct{})

	build := func(_ context.Context, ds *Dataset) (*Snapshot, error) {
		calls.Add(1)
		<-release
		return &Snapshot{Key: ds.Key()}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, _, err := store.GetOrBuild(context.Background(), ds, build); err != nil {
				t.Errorf("GetOrBuild() error = %v", err)
			}
		}()
	}
	close(release)
	wg.Wait()

	if got := calls.Load(); got != 1 {
		t.Errorf("build called %d times, want 1", got)
	}
}

func TestSnapshotStore_CallerCancelDoesNotFailOthers(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(2, 0)
	ds := snapshotDataset(t, "contended")
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})

	build := func(ctx context.Context, ds *Dataset) (*Snapshot, error) {
		calls.Add(1)
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return &Snapshot{Key: ds.Key()}, nil
	}

	ctxA, cancelA := context.WithCancel(context.Background())
	errA := make(chan error, 1)
	go func() {
		_, _, err := store.GetOrBuild(ctxA, ds, build)
		errA <- err
	}()
	<-started

	errB := make(chan error, 1)
	go func() {
		_, _, err := store.GetOrBuild(context.Background(), ds, build)
		errB <- err
	}()

	cancelA()
	if err := <-errA; !errors.Is(err, context.Canceled) {
		t.Errorf("canceled caller error = %v, want context.Canceled", err)
	}

	close(release)
	if err := <-errB; err != nil {
		t.Fatalf("other caller error = %v, want nil", err)
	}
	if _, ok := store.Get(ds.Key()); !ok {
		t.Error("snapshot not stored after the canceled caller left")
	}
	if got := calls.Load(); got != 1 {
		t.Errorf("build called %d times, want 1", got)
	}
}

func TestSnapshotStore_WaitHonorsDeadline(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(2, 0)
	ds := snapshotDataset(t, "slow")
	release := make(chan struct{})
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, _, err := store.GetOrBuild(ctx, ds, func(_ context.Context, ds *Dataset) (*Snapshot, error) {
		<-release
		return &Snapshot{Key: ds.Key()}, nil
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("GetOrBuild() error = %v, want context.DeadlineExceeded", err)
	}
}

func TestSnapshotStore_BuildError(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(2, 0)
	ds := snapshotDataset(t, "broken")
	boom := errors.New("boom")

	_, _, err := store.GetOrBuild(context.Background(), ds, func(context.Context, *Dataset) (*Snapshot, error) {
		return nil, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("GetOrBuild() error = %v, want wrapped boom", err)
	}
	if _, ok := store.Get(ds.Key()); ok {
		t.Error("failed build left an entry behind")
	}
}

func TestSnapshotStore_InvalidateAndEviction(t *testing.T) {
	t.Parallel()

	store := NewSnapshotStore(2, 0)
	var calls atomic.Int32
	a := snapshotDataset(t, "a")
	b := snapshotDataset(t, "b")
	c := snapshotDataset(t, "c")

	for _, ds := range []*Dataset{a, b, c} {
		if _, _, err := store.GetOrBuild(context.Background(), ds, countingBuild(&calls)); err != nil {
			t.Fatal(err)
		}
	}
	if _, ok := store.Get(a.Key()); ok {
		t.Error("least recently used snapshot should be evicted")
	}
	if got := store.Keys(); len(got) != 2 || got[0] != c.Key() {
		t.Errorf("Keys() = %v, want [%s %s]", got, c.Key(), b.Key())
	}

	if !store.Invalidate(b.Key()) {
		t.Error("Invalidate() = false for held key")
	}
	if store.Invalidate(b.Key()) {
		t.Error("Invalidate() = true for dropped key")
	}

	store.Purge()
	if store.Stats().Size != 0 {
		t.Errorf("Stats().Size = %d after Purge", store.Stats().Size)
	}
}
