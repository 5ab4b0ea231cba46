// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package dataset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

type countingReloader struct {
	calls    atomic.Int32
	triggers chan string
}

func (c *countingReloader) Reload(_ context.Context, trigger string) (ReloadResult, error) {
	c.calls.Add(1)
	select {
	case c.triggers <- trigger:
	default:
	}
	return ReloadResult{}, nil
}

func TestWatcher_ReloadsOnChange(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watched := filepath.Join(dir, "all_posts.csv")
	other := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(watched, []byte("id\n1\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	reloader := &countingReloader{triggers: make(chan string, 16)}
	w := NewWatcher(reloader, WatcherConfig{Paths: []string{watched}, Debounce: 20 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Serve(ctx) }()

	// Writes to unrelated files in the same directory are ignored.
	if err := os.WriteFile(other, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	// The watch is registered asynchronously; keep touching the file until
	// the first reload arrives.
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()
	for received := false; !received; {
		select {
		case trigger := <-reloader.triggers:
			if trigger != TriggerWatch {
				t.Errorf("trigger = %q, want %q", trigger, TriggerWatch)
			}
			received = true
		case <-tick.C:
			if err := os.WriteFile(watched, []byte("id\n1\n2\n"), 0o600); err != nil {
				t.Fatal(err)
			}
		case <-deadline:
			t.Fatal("no reload after file change")
		}
	}

	cancel()
	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
}

func TestWatcher_Debounces(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	watched := filepath.Join(dir, "liked_posts.csv")
	if err := os.WriteFile(watched, []byte("username,id\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	reloader := &countingReloader{triggers: make(chan string, 16)}
	w := NewWatcher(reloader, WatcherConfig{Paths: []string{watched}, Debounce: 300 * time.Millisecond}, zerolog.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = w.Serve(ctx) }() //nolint:errcheck // canceled at test end

	time.Sleep(200 * time.Millisecond)
	for i := 0; i < 5; i++ {
		if err := os.WriteFile(watched, []byte("username,id\nalice,1\n"), 0o600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	select {
	case <-reloader.triggers:
	case <-time.After(5 * time.Second):
		t.Fatal("no reload after burst of writes")
	}
	time.Sleep(600 * time.Millisecond)
	if got := reloader.calls.Load(); got != 1 {
		t.Errorf("reloads = %d, want 1 for one burst", got)
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	t.Parallel()

	w := NewWatcher(&countingReloader{}, WatcherConfig{
		Paths: []string{filepath.Join(t.TempDir(), "missing", "all_posts.csv")},
	}, zerolog.Nop())

	if err := w.Serve(context.Background()); err == nil {
		t.Fatal("Serve() should fail when the directory does not exist")
	}
	if w.String() != "dataset-watcher" {
		t.Errorf("String() = %q", w.String())
	}
}
