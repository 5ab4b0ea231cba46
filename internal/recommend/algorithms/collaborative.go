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

// UserBasedCF fits user-user cosine similarity over interaction counts.
type UserBasedCF struct {
	config  recommend.CollaborativeConfig
	workers int
}

// NewUserBasedCF creates the collaborative algorithm. workers bounds the
// goroutines filling the similarity matrix; zero means GOMAXPROCS.
func NewUserBasedCF(cfg recommend.CollaborativeConfig, workers int) *UserBasedCF {
	return &UserBasedCF{config: cfg, workers: workers}
}

// Name returns the algorithm identifier.
func (u *UserBasedCF) Name() string {
	return "user_cosine_cf"
}

// Fit builds the user-item count matrix and the user-user matrix.
func (u *UserBasedCF) Fit(ctx context.Context, catalog *recommend.Catalog, interactions []recommend.Interaction) (recommend.CollaborativeModel, error) {
	return u.FitSimilarity(ctx, catalog, interactions)
}

// FitSimilarity is Fit with a concrete return type.
func (u *UserBasedCF) FitSimilarity(ctx context.Context, catalog *recommend.Catalog, interactions []recommend.Interaction) (*UserSimilarity, error) {
	m := &UserSimilarity{
		config:    u.config,
		catalog:   catalog,
		userIndex: make(map[string]int),
		itemIndex: make(map[string]int),
		log:       make([]logEntry, len(interactions)),
	}

	// Rows and columns are numbered in first-seen order.
	var cols [][]int
	for k, in := range interactions {
		ui, ok := m.userIndex[in.Username]
		if !ok {
			ui = len(m.users)
			m.userIndex[in.Username] = ui
			m.users = append(m.users, in.Username)
			cols = append(cols, nil)
		}
		ii, ok := m.itemIndex[in.ItemID]
		if !ok {
			ii = len(m.itemIDs)
			m.itemIndex[in.ItemID] = ii
			m.itemIDs = append(m.itemIDs, in.ItemID)
		}
		cols[ui] = append(cols[ui], ii)
		m.log[k] = logEntry{user: ui, item: ii}
	}

	m.rows = make([]sparseVector, len(m.users))
	for ui := range m.rows {
		m.rows[ui] = countVector(cols[ui], len(m.itemIDs))
	}

	sim, err := fillSymmetric(ctx, len(m.rows), u.workers, func(i, j int) float64 {
		return cosine(m.rows[i], m.rows[j])
	})
	if err != nil {
		return nil, fmt.Errorf("user similarity: %w", err)
	}
	m.sim = sim
	return m, nil
}

type logEntry struct {
	user int
	item int
}

// UserSimilarity is a fitted collaborative model. It is read-only and safe
// for concurrent use.
type UserSimilarity struct {
	config  recommend.CollaborativeConfig
	catalog *recommend.Catalog

	users     []string
	userIndex map[string]int
	itemIDs   []string
	itemIndex map[string]int

	rows []sparseVector // interaction counts per user over itemIDs
	log  []logEntry     // interaction log in input order
	sim  *similarityMatrix
}

// ScoredUser is a neighbour with its similarity to the query user.
type ScoredUser struct {
	Username   string  `json:"username"`
	Similarity float64 `json:"similarity"`
}

// Users returns the number of distinct users.
func (m *UserSimilarity) Users() int {
	return len(m.users)
}

// Similarity returns the cosine similarity of two users.
func (m *UserSimilarity) Similarity(a, b string) (float64, bool) {
	i, ok := m.userIndex[a]
	if !ok {
		return 0, false
	}
	j, ok := m.userIndex[b]
	if !ok {
		return 0, false
	}
	return m.sim.at(i, j), true
}

// SimilarUsers returns up to k other users ranked by descending similarity
// to username, ties in first-seen order. ok is false when username has no
// interactions.
func (m *UserSimilarity) SimilarUsers(username string, k int) ([]ScoredUser, bool, error) {
	if err := recommend.ValidateTopN(k); err != nil {
		return nil, false, err
	}
	target, ok := m.userIndex[username]
	if !ok {
		return nil, false, nil
	}

	neighbours := m.neighbours(target, k)
	users := make([]ScoredUser, len(neighbours))
	for i, n := range neighbours {
		users[i] = ScoredUser{Username: m.users[n.index], Similarity: n.score}
	}
	return users, true, nil
}

func (m *UserSimilarity) neighbours(target, k int) []scored {
	row := m.sim.row(target)
	candidates := make([]scored, 0, len(row))
	for j, s := range row {
		if j == target || s < m.config.MinSimilarity {
			continue
		}
		candidates = append(candidates, scored{index: j, score: s})
	}
	return topScored(candidates, k)
}

// RecommendFor pools the interactions of the topN users most similar to
// username and ranks the pooled items by how often they occur, ties in
// order of first appearance in the log. Items missing from the catalog are
// skipped; with ExcludeSeen, so are items username already interacted with.
//
// A user without interactions gets a no-signal result.
func (m *UserSimilarity) RecommendFor(username string, topN int) (recommend.CollaborativeResult, error) {
	if err := recommend.ValidateTopN(topN); err != nil {
		return recommend.CollaborativeResult{}, err
	}
	target, ok := m.userIndex[username]
	if !ok {
		return recommend.NoSignalResult(), nil
	}

	neighbours := m.neighbours(target, topN)
	inPool := make([]bool, len(m.users))
	for _, n := range neighbours {
		inPool[n.index] = true
	}

	var seen []bool
	if m.config.ExcludeSeen {
		seen = make([]bool, len(m.itemIDs))
		for _, c := range m.rows[target].idx {
			seen[c] = true
		}
	}

	// Candidates are appended on first appearance, so their order is the
	// first-seen order the stable sort preserves on equal counts.
	slot := make([]int, len(m.itemIDs))
	for i := range slot {
		slot[i] = -1
	}
	var candidates []scored
	for _, e := range m.log {
		if !inPool[e.user] || (seen != nil && seen[e.item]) {
			continue
		}
		if slot[e.item] < 0 {
			if _, known := m.catalog.IndexOf(m.itemIDs[e.item]); !known {
				continue
			}
			slot[e.item] = len(candidates)
			candidates = append(candidates, scored{index: e.item})
		}
		candidates[slot[e.item]].score++
	}

	ranked := topScored(candidates, topN)
	items := make([]recommend.Item, len(ranked))
	for i, r := range ranked {
		items[i], _ = m.catalog.Lookup(m.itemIDs[r.index])
	}
	return recommend.RankedResult(items), nil
}

var _ recommend.CollaborativeAlgorithm = (*UserBasedCF)(nil)
var _ recommend.CollaborativeModel = (*UserSimilarity)(nil)
