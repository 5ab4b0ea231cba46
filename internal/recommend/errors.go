// Resonance - Content Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/resonance

package recommend

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput matches every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNotFound matches every *NotFoundError.
	ErrNotFound = errors.New("not found")
)

// InvalidInputError reports malformed or duplicate identifiers, a bad topN,
// or a missing required field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Field == "" {
		return "invalid input: " + e.Reason
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) succeed.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NotFoundError reports an item id absent from the catalog.
type NotFoundError struct {
	ItemID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("item %q not found", e.ItemID)
}

// Is makes errors.Is(err, ErrNotFound) succeed.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

func invalidTopN(topN int) error {
	return &InvalidInputError{Field: "top_n", Reason: fmt.Sprintf("must be positive, got %d", topN)}
}

// ValidateTopN returns an *InvalidInputError unless topN is positive.
func ValidateTopN(topN int) error {
	if topN <= 0 {
		return invalidTopN(topN)
	}
	return nil
}
