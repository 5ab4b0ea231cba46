// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// DatasetKey identifies the content of a Dataset. Two datasets with the same
// items (in the same order, with the same fields and signals) and the same
// interaction log share a key.
type DatasetKey uint64

// String returns the key as 16 hex digits.
func (k DatasetKey) String() string {
	return fmt.Sprintf("%016x", uint64(k))
}

// ParseDatasetKey parses the output of DatasetKey.String.
func ParseDatasetKey(s string) (DatasetKey, error) {
	v, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("parse dataset key %q: %w", s, err)
	}
	return DatasetKey(v), nil
}

// Dataset is an immutable snapshot of the catalog and interaction log.
type Dataset struct {
	catalog      *Catalog
	interactions []Interaction
	key          DatasetKey
}

// NewDataset normalizes the raw records and derives the content key.
func NewDataset(items []ItemRecord, liked, viewed []InteractionRecord) (*Dataset, error) {
	catalog, interactions, err := Normalize(items, liked, viewed)
	if err != nil {
		return nil, err
	}
	return &Dataset{
		catalog:      catalog,
		interactions: interactions,
		key:          contentKey(catalog, interactions),
	}, nil
}

// Catalog returns the normalized items.
func (d *Dataset) Catalog() *Catalog { return d.catalog }

// Interactions returns the interaction log. The slice is shared and must be
// treated as read-only.
func (d *Dataset) Interactions() []Interaction { return d.interactions }

// Key returns the content key.
func (d *Dataset) Key() DatasetKey { return d.key }

// DatasetStats summarizes a dataset.
type DatasetStats struct {
	Key     string `json:"key"`
	Items   int    `json:"items"`
	Users   int    `json:"users"`
	Liked   int    `json:"liked"`
	Viewed  int    `json:"viewed"`
	Unknown int    `json:"unknown_item_refs"`
}

// Stats counts items, distinct users, interactions per kind, and
// interactions that reference items missing from the catalog.
func (d *Dataset) Stats() DatasetStats {
	st := DatasetStats{Key: d.key.String(), Items: d.catalog.Len()}
	users := make(map[string]struct{})
	for _, in := range d.interactions {
		users[in.Username] = struct{}{}
		switch in.Kind {
		case KindLiked:
			st.Liked++
		case KindViewed:
			st.Viewed++
		}
		if _, ok := d.catalog.IndexOf(in.ItemID); !ok {
			st.Unknown++
		}
	}
	st.Users = len(users)
	return st
}

// contentKey hashes a canonical encoding of the normalized data. Strings are
// length-prefixed so field boundaries cannot be forged by content, and
// metadata is written in sorted key order.
func contentKey(catalog *Catalog, interactions []Interaction) DatasetKey {
	h := xxhash.New()
	var buf [8]byte

	writeUint := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = h.Write(buf[:])
	}
	writeString := func(s string) {
		writeUint(uint64(len(s)))
		_, _ = h.WriteString(s)
	}

	writeUint(uint64(catalog.Len()))
	for _, it := range catalog.Items() {
		writeString(it.ID)
		writeString(it.Title)
		writeString(it.Genre)
		writeUint(math.Float64bits(it.Signals.Upvotes))
		writeUint(math.Float64bits(it.Signals.Views))
		writeUint(math.Float64bits(it.Signals.Rating))

		keys := make([]string, 0, len(it.Metadata))
		for k := range it.Metadata {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		writeUint(uint64(len(keys)))
		for _, k := range keys {
			writeString(k)
			writeString(it.Metadata[k])
		}
	}

	writeUint(uint64(len(interactions)))
	for _, in := range interactions {
		writeString(in.Username)
		writeString(in.ItemID)
		writeUint(uint64(in.Kind))
	}

	return DatasetKey(h.Sum64())
}
