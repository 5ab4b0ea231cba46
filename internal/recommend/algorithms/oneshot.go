// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"context"

	"github.com/tomtom215/resonance/internal/recommend"
)

// RecommendByContent returns up to topN items most similar to itemID using
// default content settings.
func RecommendByContent(catalog *recommend.Catalog, itemID string, topN int) ([]recommend.Item, error) {
	if err := recommend.ValidateTopN(topN); err != nil {
		return nil, err
	}
	if _, ok := catalog.IndexOf(itemID); !ok {
		return nil, &recommend.NotFoundError{ItemID: itemID}
	}

	cb, err := NewContentBased(recommend.DefaultConfig().Content, 0)
	if err != nil {
		return nil, err
	}
	model, err := cb.FitSimilarity(context.Background(), catalog)
	if err != nil {
		return nil, err
	}
	return model.SimilarItems(itemID, topN)
}

// RecommendByCollaboration returns collaborative candidates for username
// using default settings, or a no-signal result.
func RecommendByCollaboration(username string, interactions []recommend.Interaction, catalog *recommend.Catalog, topN int) (recommend.CollaborativeResult, error) {
	if err := recommend.ValidateTopN(topN); err != nil {
		return recommend.CollaborativeResult{}, err
	}

	model, err := NewUserBasedCF(recommend.DefaultConfig().Collaborative, 0).
		FitSimilarity(context.Background(), catalog, interactions)
	if err != nil {
		return recommend.CollaborativeResult{}, err
	}
	return model.RecommendFor(username, topN)
}

// RecommendHybrid merges RecommendByContent for itemID with
// RecommendByCollaboration for username.
func RecommendHybrid(username, itemID string, catalog *recommend.Catalog, interactions []recommend.Interaction, topN int) ([]recommend.Item, error) {
	content, err := RecommendByContent(catalog, itemID, topN)
	if err != nil {
		return nil, err
	}
	collab, err := RecommendByCollaboration(username, interactions, catalog, topN)
	if err != nil {
		return nil, err
	}
	return recommend.MergeHybrid(content, collab, topN)
}
