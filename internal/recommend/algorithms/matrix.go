// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// similarityMatrix is a dense, symmetric n x n matrix with a unit diagonal.
type similarityMatrix struct {
	n    int
	data []float64
}

func (m *similarityMatrix) at(i, j int) float64 {
	return m.data[i*m.n+j]
}

// row returns row i. The slice aliases the matrix.
func (m *similarityMatrix) row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// fillSymmetric computes sim(i, j) for every j > i and mirrors it. Rows run
// on at most workers goroutines; cell (a, b) is only ever written by row
// min(a, b), so rows never share a cell.
func fillSymmetric(ctx context.Context, n, workers int, sim func(i, j int) float64) (*similarityMatrix, error) {
	m := &similarityMatrix{n: n, data: make([]float64, n*n)}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i := 0; i < n; i++ {
		if err := gctx.Err(); err != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			m.data[i*n+i] = 1
			for j := i + 1; j < n; j++ {
				s := sim(i, j)
				m.data[i*n+j] = s
				m.data[j*n+i] = s
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	// Wait returns nil if the parent was canceled before any row started.
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m, nil
}
