// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

// MergeHybrid combines a content list and a collaborative result.
//
// If collab carries no signal the content list is returned as is. Otherwise
// content items come first, then collaborative items; the first occurrence of
// each id wins and the list is cut to topN.
func MergeHybrid(content []Item, collab CollaborativeResult, topN int) ([]Item, error) {
	if err := ValidateTopN(topN); err != nil {
		return nil, err
	}
	if collab.NoSignal() {
		if len(content) > topN {
			content = content[:topN]
		}
		return content, nil
	}

	merged := make([]Item, 0, min(topN, len(content)+len(collab.Items)))
	seen := make(map[string]struct{}, cap(merged))
	for _, list := range [][]Item{content, collab.Items} {
		for _, it := range list {
			if len(merged) == topN {
				return merged, nil
			}
			if _, dup := seen[it.ID]; dup {
				continue
			}
			seen[it.ID] = struct{}{}
			merged = append(merged, it)
		}
	}
	return merged, nil
}
