// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"testing"
)

func sampleRecords() ([]ItemRecord, []InteractionRecord, []InteractionRecord) {
	items := []ItemRecord{
		{ID: "1", Title: "Space Adventure", Genre: "Sci-Fi", UpvoteCount: 3},
		{ID: "2", Title: "Space Odyssey", Genre: "Sci-Fi", UpvoteCount: 5},
		{ID: "3", Title: "Cooking Basics", Genre: "Food", UpvoteCount: 1},
	}
	liked := []InteractionRecord{{Username: "alice", ItemID: "1"}}
	viewed := []InteractionRecord{{Username: "bob", ItemID: "2"}, {Username: "bob", ItemID: "ghost"}}
	return items, liked, viewed
}

func TestDatasetKey(t *testing.T) {
	t.Parallel()

	items, liked, viewed := sampleRecords()
	a, err := NewDataset(items, liked, viewed)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}
	b, err := NewDataset(items, liked, viewed)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}
	if a.Key() != b.Key() {
		t.Errorf("same content produced keys %s and %s", a.Key(), b.Key())
	}

	tests := []struct {
		name   string
		mutate func(items []ItemRecord, liked, viewed []InteractionRecord) ([]ItemRecord, []InteractionRecord, []InteractionRecord)
	}{
		{
			name: "title changed",
			mutate: func(items []ItemRecord, l, v []InteractionRecord) ([]ItemRecord, []InteractionRecord, []InteractionRecord) {
				items[0].Title = "Space Adventures"
				return items, l, v
			},
		},
		{
			name: "interaction kind changed",
			mutate: func(items []ItemRecord, l, v []InteractionRecord) ([]ItemRecord, []InteractionRecord, []InteractionRecord) {
				return items, nil, append(v, l...)
			},
		},
		{
			name: "field boundary moved",
			mutate: func(items []ItemRecord, l, v []InteractionRecord) ([]ItemRecord, []InteractionRecord, []InteractionRecord) {
				items[0].Title = "Space Adventure Sci"
				items[0].Genre = "-Fi"
				return items, l, v
			},
		},
		{
			name: "metadata added",
			mutate: func(items []ItemRecord, l, v []InteractionRecord) ([]ItemRecord, []InteractionRecord, []InteractionRecord) {
				items[2].Metadata = map[string]string{"thumbnail_url": "x"}
				return items, l, v
			},
		},
		{
			name: "duplicate interaction",
			mutate: func(items []ItemRecord, l, v []InteractionRecord) ([]ItemRecord, []InteractionRecord, []InteractionRecord) {
				return items, append(l, l[0]), v
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			items, liked, viewed := sampleRecords()
			ds, err := NewDataset(tt.mutate(items, liked, viewed))
			if err != nil {
				t.Fatalf("NewDataset() error = %v", err)
			}
			if ds.Key() == a.Key() {
				t.Errorf("key unchanged after %s", tt.name)
			}
		})
	}
}

func TestParseDatasetKey(t *testing.T) {
	t.Parallel()

	key := DatasetKey(0xdeadbeef)
	parsed, err := ParseDatasetKey(key.String())
	if err != nil || parsed != key {
		t.Errorf("ParseDatasetKey(%s) = %v, %v", key, parsed, err)
	}
	if len(key.String()) != 16 {
		t.Errorf("String() = %q, want 16 hex digits", key.String())
	}
	if _, err := ParseDatasetKey("zz"); err == nil {
		t.Error("ParseDatasetKey(zz) should fail")
	}
}

func TestDatasetStats(t *testing.T) {
	t.Parallel()

	ds, err := NewDataset(sampleRecords())
	if err != nil {
		t.Fatal(err)
	}
	st := ds.Stats()
	want := DatasetStats{Key: ds.Key().String(), Items: 3, Users: 2, Liked: 1, Viewed: 2, Unknown: 1}
	if st != want {
		t.Errorf("Stats() = %+v, want %+v", st, want)
	}
}
