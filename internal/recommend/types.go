// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"fmt"
)

// DefaultTopN is the list length used when a caller does not ask for one.
const DefaultTopN = 5

// InteractionKind tells which input table an interaction came from.
type InteractionKind uint8

const (
	// KindLiked marks an interaction from the liked table.
	KindLiked InteractionKind = iota + 1

	// KindViewed marks an interaction from the viewed table.
	KindViewed
)

// String returns the lowercase name of the kind.
func (k InteractionKind) String() string {
	switch k {
	case KindLiked:
		return "liked"
	case KindViewed:
		return "viewed"
	default:
		return fmt.Sprintf("InteractionKind(%d)", uint8(k))
	}
}

// MarshalText encodes the kind by name.
func (k InteractionKind) MarshalText() ([]byte, error) {
	switch k {
	case KindLiked, KindViewed:
		return []byte(k.String()), nil
	default:
		return nil, fmt.Errorf("unknown interaction kind %d", uint8(k))
	}
}

// ItemRecord is one raw row of the item table.
type ItemRecord struct {
	ID            string  `json:"id" validate:"notblank"`
	Title         string  `json:"title"`
	Genre         string  `json:"genre"`
	UpvoteCount   float64 `json:"upvote_count" validate:"finite"`
	ViewCount     float64 `json:"view_count" validate:"finite"`
	AverageRating float64 `json:"average_rating" validate:"finite"`

	// Metadata carries presentation columns (thumbnail_url and the like)
	// through to results untouched.
	Metadata map[string]string `json:"metadata,omitempty"`
}

// InteractionRecord is one raw row of the liked or viewed table. The kind is
// given by the table it was read from.
type InteractionRecord struct {
	Username string `json:"username" validate:"notblank"`
	ItemID   string `json:"id" validate:"notblank"`
}

// Signals are the engagement signals of an item, min-max scaled to [0,1]
// over the whole catalog. They are descriptive only and do not take part in
// similarity scores.
type Signals struct {
	Upvotes float64 `json:"upvotes"`
	Views   float64 `json:"views"`
	Rating  float64 `json:"rating"`
}

// Item is a normalized catalog entry.
type Item struct {
	ID       string            `json:"id"`
	Title    string            `json:"title"`
	Genre    string            `json:"genre"`
	Signals  Signals           `json:"signals"`
	Metadata map[string]string `json:"metadata,omitempty"`

	// Descriptor is title and genre joined by a single space; the text the
	// content engine vectorizes.
	Descriptor string `json:"-"`
}

// Interaction is one entry of the unified interaction log. Repeated
// interactions are kept because frequency is a collaborative signal.
type Interaction struct {
	Username string          `json:"username"`
	ItemID   string          `json:"item_id"`
	Kind     InteractionKind `json:"kind"`
}

// Catalog is an ordered, indexed set of normalized items. Corpus order is
// the order items were supplied in and is used to break ranking ties.
// A Catalog must not be modified after construction.
type Catalog struct {
	items []Item
	index map[string]int
}

// newCatalog indexes items. Callers guarantee unique IDs.
func newCatalog(items []Item) *Catalog {
	index := make(map[string]int, len(items))
	for i := range items {
		index[items[i].ID] = i
	}
	return &Catalog{items: items, index: index}
}

// Len returns the number of items.
func (c *Catalog) Len() int {
	if c == nil {
		return 0
	}
	return len(c.items)
}

// At returns the item at corpus position i.
func (c *Catalog) At(i int) Item {
	return c.items[i]
}

// Items returns the items in corpus order. The slice is shared and must be
// treated as read-only.
func (c *Catalog) Items() []Item {
	if c == nil {
		return nil
	}
	return c.items
}

// IndexOf returns the corpus position of id.
func (c *Catalog) IndexOf(id string) (int, bool) {
	if c == nil {
		return 0, false
	}
	i, ok := c.index[id]
	return i, ok
}

// Lookup returns the item with the given id.
func (c *Catalog) Lookup(id string) (Item, bool) {
	i, ok := c.IndexOf(id)
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Descriptors returns the text descriptor of every item in corpus order.
func (c *Catalog) Descriptors() []string {
	out := make([]string, c.Len())
	for i := range out {
		out[i] = c.items[i].Descriptor
	}
	return out
}

// Outcome distinguishes a computed collaborative result from the absence of
// any signal for the requesting user.
type Outcome uint8

const (
	// OutcomeRanked means the list was computed; it may still be empty.
	OutcomeRanked Outcome = iota

	// OutcomeNoSignal means the user has no recorded interactions and
	// nothing was computed.
	OutcomeNoSignal
)

// String returns the outcome name.
func (o Outcome) String() string {
	if o == OutcomeNoSignal {
		return "no_signal"
	}
	return "ranked"
}

// CollaborativeResult is the result of the collaborative engine.
type CollaborativeResult struct {
	Outcome Outcome
	Items   []Item
}

// NoSignalResult returns the result for a user with no interactions.
func NoSignalResult() CollaborativeResult {
	return CollaborativeResult{Outcome: OutcomeNoSignal}
}

// RankedResult wraps a computed list.
func RankedResult(items []Item) CollaborativeResult {
	if items == nil {
		items = []Item{}
	}
	return CollaborativeResult{Outcome: OutcomeRanked, Items: items}
}

// NoSignal reports whether the result carries no signal.
func (r CollaborativeResult) NoSignal() bool {
	return r.Outcome == OutcomeNoSignal
}
