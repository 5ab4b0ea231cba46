// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

// Package recommend is the recommendation core of Resonance.
//
// # Pipeline
//
// Raw item and interaction records pass through Normalize, which produces a
// Catalog (items with a text descriptor and min-max scaled engagement
// signals) and an interaction log (liked and viewed records tagged with their
// kind). Two independent engines consume those:
//
//   - Content similarity: TF-IDF vectors over item descriptors, compared
//     with cosine similarity (package algorithms, ContentBased).
//   - Collaborative similarity: user-item interaction counts, compared with
//     cosine similarity between users (package algorithms, UserBasedCF).
//
// MergeHybrid combines both ranked lists, content first, without duplicates.
//
// # Outcomes and errors
//
// Operations fail with *InvalidInputError or *NotFoundError, which match
// ErrInvalidInput and ErrNotFound under errors.Is. A user without recorded
// interactions is not an error: the collaborative engine returns a
// CollaborativeResult whose Outcome is OutcomeNoSignal.
//
// # Snapshots and memoization
//
// A Dataset is an immutable snapshot identified by a DatasetKey derived from
// its content. Engine fits both models once per key and keeps them in a
// SnapshotStore. The owner of the data (package dataset) invalidates a key
// when it replaces the snapshot, so a changed dataset never reads a stale
// model.
//
// # Usage
//
//	ds, err := recommend.NewDataset(items, liked, viewed)
//	if err != nil {
//	    return err
//	}
//	engine, err := recommend.NewEngine(recommend.DefaultConfig(), logger,
//	    algorithms.NewContentBased(cfg.Content, cfg.Workers),
//	    algorithms.NewUserBasedCF(cfg.Collaborative, cfg.Workers))
//	recs, err := engine.RecommendHybrid(ctx, ds, "alice", "11", 5)
//
// # Thread Safety
//
// Catalog, Dataset and fitted models are read-only after construction and
// may be shared freely between goroutines. Engine is safe for concurrent use.
package recommend
