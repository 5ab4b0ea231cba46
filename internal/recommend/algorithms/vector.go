// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import "math"

// sparseVector stores the non-zero entries of a vector with idx strictly
// ascending. Keeping the order fixed makes every reduction over a vector
// sum its terms in the same sequence.
type sparseVector struct {
	idx []int
	val []float64
}

// countVector builds a vector of occurrence counts from column indices.
// cols need not be sorted and may repeat.
func countVector(cols []int, width int) sparseVector {
	if len(cols) == 0 {
		return sparseVector{}
	}
	counts := make([]float64, width)
	for _, c := range cols {
		counts[c]++
	}
	var v sparseVector
	for c, n := range counts {
		if n != 0 {
			v.idx = append(v.idx, c)
			v.val = append(v.val, n)
		}
	}
	return v
}

// dot returns the dot product of a and b.
func dot(a, b sparseVector) float64 {
	var sum float64
	i, j := 0, 0
	for i < len(a.idx) && j < len(b.idx) {
		switch {
		case a.idx[i] == b.idx[j]:
			sum += a.val[i] * b.val[j]
			i++
			j++
		case a.idx[i] < b.idx[j]:
			i++
		default:
			j++
		}
	}
	return sum
}

// norm returns the Euclidean length of v.
func norm(v sparseVector) float64 {
	return math.Sqrt(dot(v, v))
}

// l2Normalize scales v to unit length in place. A zero vector is left as is.
func l2Normalize(v sparseVector) sparseVector {
	n := norm(v)
	if n == 0 {
		return v
	}
	for i := range v.val {
		v.val[i] /= n
	}
	return v
}

// cosine returns the cosine of the angle between a and b, or 0 when either
// is the zero vector.
func cosine(a, b sparseVector) float64 {
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	return dot(a, b) / (na * nb)
}
