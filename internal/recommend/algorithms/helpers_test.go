// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"testing"

	"github.com/tomtom215/resonance/internal/recommend"
)

// newTestDataset normalizes items and viewed interactions, failing the test
// on error. Each item is {id, title, genre}; each view is {username, id}.
func newTestDataset(t *testing.T, items [][3]string, views [][2]string) *recommend.Dataset {
	t.Helper()

	records := make([]recommend.ItemRecord, len(items))
	for i, it := range items {
		records[i] = recommend.ItemRecord{ID: it[0], Title: it[1], Genre: it[2]}
	}
	viewed := make([]recommend.InteractionRecord, len(views))
	for i, v := range views {
		viewed[i] = recommend.InteractionRecord{Username: v[0], ItemID: v[1]}
	}

	ds, err := recommend.NewDataset(records, nil, viewed)
	if err != nil {
		t.Fatalf("NewDataset() error = %v", err)
	}
	return ds
}

func itemIDs(items []recommend.Item) []string {
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.ID
	}
	return ids
}

var scenarioItems = [][3]string{
	{"1", "Space Adventure", "Sci-Fi"},
	{"2", "Space Odyssey", "Sci-Fi"},
	{"3", "Cooking Basics", "Food"},
}

var scenarioViews = [][2]string{
	{"alice", "1"}, {"alice", "2"},
	{"bob", "1"}, {"bob", "2"},
	{"carol", "3"},
}
