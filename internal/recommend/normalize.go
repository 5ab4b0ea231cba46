// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"fmt"
	"math"
	"strings"

	"github.com/tomtom215/resonance/internal/validation"
)

// Normalize builds the catalog and the unified interaction log.
//
// Item ids and usernames are trimmed of surrounding whitespace. Each item's
// descriptor is "title genre". Upvotes, views and rating are min-max scaled
// independently over all items; a signal that is constant across the
// catalog scales to 0. Liked records come first in the log, then viewed
// records, each in input order, with duplicates kept.
//
// Normalize fails with *InvalidInputError when an item id is missing or
// duplicated, a signal is not a finite number, or an interaction lacks a
// username or item id. Interactions that reference unknown items are kept;
// they simply never resolve to a recommendation.
func Normalize(items []ItemRecord, liked, viewed []InteractionRecord) (*Catalog, []Interaction, error) {
	normalized := make([]Item, len(items))
	seen := make(map[string]int, len(items))

	upvotes := make([]float64, len(items))
	views := make([]float64, len(items))
	ratings := make([]float64, len(items))

	for i := range items {
		rec := items[i]
		rec.ID = strings.TrimSpace(rec.ID)

		if verr := validation.ValidateStruct(&rec); verr != nil {
			return nil, nil, &InvalidInputError{
				Field:  fmt.Sprintf("items[%d].%s", i, verr.FirstField()),
				Reason: verr.Error(),
			}
		}
		if prev, dup := seen[rec.ID]; dup {
			return nil, nil, &InvalidInputError{
				Field:  fmt.Sprintf("items[%d].id", i),
				Reason: fmt.Sprintf("duplicate item id %q (first seen at items[%d])", rec.ID, prev),
			}
		}
		seen[rec.ID] = i

		normalized[i] = Item{
			ID:         rec.ID,
			Title:      rec.Title,
			Genre:      rec.Genre,
			Descriptor: rec.Title + " " + rec.Genre,
			Metadata:   copyMetadata(rec.Metadata),
		}
		upvotes[i] = rec.UpvoteCount
		views[i] = rec.ViewCount
		ratings[i] = rec.AverageRating
	}

	upvotes = minMaxScale(upvotes)
	views = minMaxScale(views)
	ratings = minMaxScale(ratings)
	for i := range normalized {
		normalized[i].Signals = Signals{Upvotes: upvotes[i], Views: views[i], Rating: ratings[i]}
	}

	log := make([]Interaction, 0, len(liked)+len(viewed))
	var err error
	if log, err = appendInteractions(log, liked, KindLiked); err != nil {
		return nil, nil, err
	}
	if log, err = appendInteractions(log, viewed, KindViewed); err != nil {
		return nil, nil, err
	}

	return newCatalog(normalized), log, nil
}

func appendInteractions(log []Interaction, records []InteractionRecord, kind InteractionKind) ([]Interaction, error) {
	for i := range records {
		rec := InteractionRecord{
			Username: strings.TrimSpace(records[i].Username),
			ItemID:   strings.TrimSpace(records[i].ItemID),
		}
		if verr := validation.ValidateStruct(&rec); verr != nil {
			return nil, &InvalidInputError{
				Field:  fmt.Sprintf("%s[%d].%s", kind, i, verr.FirstField()),
				Reason: verr.Error(),
			}
		}
		log = append(log, Interaction{Username: rec.Username, ItemID: rec.ItemID, Kind: kind})
	}
	return log, nil
}

// minMaxScale maps values onto [0,1]. When every value is equal the result
// is all zeros.
func minMaxScale(values []float64) []float64 {
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out
	}

	lo, hi := values[0], values[0]
	for _, v := range values[1:] {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	if hi == lo {
		return out
	}
	span := hi - lo
	if math.IsInf(span, 0) {
		// The range overflows float64; halving keeps every step finite.
		span = hi/2 - lo/2
		for i, v := range values {
			out[i] = clampUnit((v/2 - lo/2) / span)
		}
		return out
	}
	for i, v := range values {
		out[i] = clampUnit((v - lo) / span)
	}
	return out
}

func clampUnit(x float64) float64 {
	return min(max(x, 0), 1)
}

func copyMetadata(m map[string]string) map[string]string {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
