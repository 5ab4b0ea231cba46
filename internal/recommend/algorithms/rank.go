// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import "sort"

// scored pairs a position (item or user index) with its score.
type scored struct {
	index int
	score float64
}

// topScored sorts candidates by descending score and returns the first k.
// The sort is stable, so equal scores keep the order candidates came in.
func topScored(candidates []scored, k int) []scored {
	sort.SliceStable(candidates, func(a, b int) bool {
		return candidates[a].score > candidates[b].score
	})
	if len(candidates) > k {
		candidates = candidates[:k]
	}
	return candidates
}
