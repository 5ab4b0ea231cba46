// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package algorithms

import (
	"fmt"
	"unicode/utf8"

	"github.com/blevesearch/bleve/v2/analysis"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/analysis/token/lowercase"
	"github.com/blevesearch/bleve/v2/analysis/token/stop"
	"github.com/blevesearch/bleve/v2/analysis/tokenizer/unicode"

	"github.com/tomtom215/resonance/internal/recommend"
)

// Tokenizer turns descriptors into terms: Unicode word segmentation,
// lowercasing, optional English stop-word removal, then a minimum length.
type Tokenizer struct {
	tokenizer analysis.Tokenizer
	filters   []analysis.TokenFilter
	minLength int
}

// NewTokenizer builds a tokenizer for cfg.
func NewTokenizer(cfg recommend.ContentConfig) (*Tokenizer, error) {
	t := &Tokenizer{
		tokenizer: unicode.NewUnicodeTokenizer(),
		filters:   []analysis.TokenFilter{lowercase.NewLowerCaseFilter()},
		minLength: max(cfg.MinTokenLength, 1),
	}

	switch cfg.StopWords {
	case recommend.StopWordsEnglish, "":
		words := analysis.NewTokenMap()
		if err := words.LoadBytes(en.EnglishStopWords); err != nil {
			return nil, fmt.Errorf("load english stop words: %w", err)
		}
		t.filters = append(t.filters, stop.NewStopTokensFilter(words))
	case recommend.StopWordsNone:
	default:
		return nil, fmt.Errorf("unknown stop word list %q", cfg.StopWords)
	}
	return t, nil
}

// Tokens returns the terms of text in order of appearance.
func (t *Tokenizer) Tokens(text string) []string {
	stream := t.tokenizer.Tokenize([]byte(text))
	for _, f := range t.filters {
		stream = f.Filter(stream)
	}

	terms := make([]string, 0, len(stream))
	for _, tok := range stream {
		if utf8.RuneCount(tok.Term) < t.minLength {
			continue
		}
		terms = append(terms, string(tok.Term))
	}
	return terms
}
