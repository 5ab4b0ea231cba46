// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package algorithms implements the similarity models behind the
// recommendation engine.
//
//   - ContentBased fits a ContentSimilarity: TF-IDF vectors over item
//     descriptors and the item-item cosine similarity matrix.
//   - UserBasedCF fits a UserSimilarity: the user-item interaction count
//     matrix and the user-user cosine similarity matrix.
//
// The vector math is implemented here as small functions (document
// frequency, inverse document frequency, L2 normalization, dot product) over
// sorted sparse vectors, so every score is reproducible bit for bit.
//
// Similarity matrices are filled row by row in parallel. Only the upper
// triangle is computed and mirrored, so sim(a, b) == sim(b, a) exactly.
//
// RecommendByContent, RecommendByCollaboration and RecommendHybrid are
// one-shot helpers that fit a model with default settings and query it.
// Long-lived callers should go through recommend.Engine, which memoizes
// fitted models per dataset.
package algorithms
