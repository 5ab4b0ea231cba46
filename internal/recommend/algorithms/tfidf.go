// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"math"
	"sort"
)

// vocabulary maps terms to vector columns. Terms are sorted so column order
// depends only on the corpus, not on map iteration.
type vocabulary struct {
	terms []string
	index map[string]int
}

func buildVocabulary(docs [][]string) vocabulary {
	index := make(map[string]int)
	for _, doc := range docs {
		for _, term := range doc {
			index[term] = 0
		}
	}

	terms := make([]string, 0, len(index))
	for term := range index {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	for i, term := range terms {
		index[term] = i
	}
	return vocabulary{terms: terms, index: index}
}

// columns maps the terms of doc to vocabulary columns, skipping unknown terms.
func (v vocabulary) columns(doc []string) []int {
	cols := make([]int, 0, len(doc))
	for _, term := range doc {
		if c, ok := v.index[term]; ok {
			cols = append(cols, c)
		}
	}
	return cols
}

// documentFrequencies counts, for each vocabulary column, how many documents
// contain the term at least once.
func documentFrequencies(docs [][]string, vocab vocabulary) []int {
	df := make([]int, len(vocab.terms))
	seen := make([]int, len(vocab.terms)) // last doc (1-based) that counted the column
	for d, doc := range docs {
		for _, c := range vocab.columns(doc) {
			if seen[c] != d+1 {
				seen[c] = d + 1
				df[c]++
			}
		}
	}
	return df
}

// inverseDocumentFrequency returns the smoothed log-scaled weight
// idf = ln((1+n) / (1+df)) + 1 for each column, where n is the corpus size.
// The +1 terms keep a term that occurs in every document at weight 1 rather
// than 0.
func inverseDocumentFrequency(df []int, n int) []float64 {
	idf := make([]float64, len(df))
	for c, f := range df {
		idf[c] = math.Log(float64(1+n)/float64(1+f)) + 1
	}
	return idf
}

// tfidfVectors returns one L2-normalized TF-IDF vector per document. Term
// frequency is the raw count of the term in the document.
func tfidfVectors(docs [][]string) ([]sparseVector, vocabulary) {
	vocab := buildVocabulary(docs)
	idf := inverseDocumentFrequency(documentFrequencies(docs, vocab), len(docs))

	vectors := make([]sparseVector, len(docs))
	for d, doc := range docs {
		v := countVector(vocab.columns(doc), len(vocab.terms))
		for i, c := range v.idx {
			v.val[i] *= idf[c]
		}
		vectors[d] = l2Normalize(v)
	}
	return vectors, vocab
}
