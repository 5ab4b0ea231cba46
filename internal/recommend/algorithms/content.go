// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"context"
	"fmt"

	"github.com/tomtom215/resonance/internal/recommend"
)

// ContentBased fits TF-IDF item similarity over catalog descriptors.
type ContentBased struct {
	config    recommend.ContentConfig
	workers   int
	tokenizer *Tokenizer
}

// NewContentBased creates the content algorithm. workers bounds the
// goroutines filling the similarity matrix; zero means GOMAXPROCS.
func NewContentBased(cfg recommend.ContentConfig, workers int) (*ContentBased, error) {
	tok, err := NewTokenizer(cfg)
	if err != nil {
		return nil, fmt.Errorf("content tokenizer: %w", err)
	}
	return &ContentBased{config: cfg, workers: workers, tokenizer: tok}, nil
}

// Name returns the algorithm identifier.
func (c *ContentBased) Name() string {
	return "tfidf_content"
}

// Fit vectorizes every descriptor and computes the item-item matrix.
func (c *ContentBased) Fit(ctx context.Context, catalog *recommend.Catalog) (recommend.ContentModel, error) {
	return c.FitSimilarity(ctx, catalog)
}

// FitSimilarity is Fit with a concrete return type.
func (c *ContentBased) FitSimilarity(ctx context.Context, catalog *recommend.Catalog) (*ContentSimilarity, error) {
	descriptors := catalog.Descriptors()
	docs := make([][]string, len(descriptors))
	for i, d := range descriptors {
		docs[i] = c.tokenizer.Tokens(d)
	}

	vectors, vocab := tfidfVectors(docs)

	// Vectors are unit length (or zero), so the dot product is the cosine.
	sim, err := fillSymmetric(ctx, len(vectors), c.workers, func(i, j int) float64 {
		return dot(vectors[i], vectors[j])
	})
	if err != nil {
		return nil, fmt.Errorf("item similarity: %w", err)
	}

	return &ContentSimilarity{catalog: catalog, vocab: vocab, vectors: vectors, sim: sim}, nil
}

// ContentSimilarity is a fitted content model. It is read-only and safe for
// concurrent use.
type ContentSimilarity struct {
	catalog *recommend.Catalog
	vocab   vocabulary
	vectors []sparseVector
	sim     *similarityMatrix
}

// SimilarItems returns up to topN items ranked by descending similarity to
// itemID. The item itself is never included and ties keep corpus order.
func (m *ContentSimilarity) SimilarItems(itemID string, topN int) ([]recommend.Item, error) {
	if err := recommend.ValidateTopN(topN); err != nil {
		return nil, err
	}
	target, ok := m.catalog.IndexOf(itemID)
	if !ok {
		return nil, &recommend.NotFoundError{ItemID: itemID}
	}

	row := m.sim.row(target)
	candidates := make([]scored, 0, len(row)-1)
	for j, s := range row {
		if j != target {
			candidates = append(candidates, scored{index: j, score: s})
		}
	}

	ranked := topScored(candidates, topN)
	items := make([]recommend.Item, len(ranked))
	for i, r := range ranked {
		items[i] = m.catalog.At(r.index)
	}
	return items, nil
}

// Similarity returns the cosine similarity of two items.
func (m *ContentSimilarity) Similarity(a, b string) (float64, bool) {
	i, ok := m.catalog.IndexOf(a)
	if !ok {
		return 0, false
	}
	j, ok := m.catalog.IndexOf(b)
	if !ok {
		return 0, false
	}
	return m.sim.at(i, j), true
}

// Vocabulary returns the sorted corpus vocabulary.
func (m *ContentSimilarity) Vocabulary() []string {
	out := make([]string, len(m.vocab.terms))
	copy(out, m.vocab.terms)
	return out
}

// Weights returns the TF-IDF weight of each term of itemID.
func (m *ContentSimilarity) Weights(itemID string) (map[string]float64, bool) {
	i, ok := m.catalog.IndexOf(itemID)
	if !ok {
		return nil, false
	}
	v := m.vectors[i]
	out := make(map[string]float64, len(v.idx))
	for k, c := range v.idx {
		out[m.vocab.terms[c]] = v.val[k]
	}
	return out, true
}

var _ recommend.ContentAlgorithm = (*ContentBased)(nil)
var _ recommend.ContentModel = (*ContentSimilarity)(nil)
