// SPDX-License-Identifier: MIT

package sample

import (
	"fmt"
	"math"
)

// Ones returns the default weight vector of length n.
func Ones(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0
	}

	return w
}

// ValidateWeights checks that w has length n and holds finite, non-negative values.
//
// Errors:
//   - ErrDimensionMismatch when len(w) != n.
//   - ErrNaNInf for a non-finite entry.
//   - ErrNegativeWeight for an entry below zero.
func ValidateWeights(w []float64, n int) error {
	if len(w) != n {
		return fmt.Errorf("ValidateWeights: len=%d, want %d: %w", len(w), n, ErrDimensionMismatch)
	}
	for i, v := range w {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("ValidateWeights: weight %d: %w", i, ErrNaNInf)
		}
		if v < 0 {
			return fmt.Errorf("ValidateWeights: weight %d=%g: %w", i, v, ErrNegativeWeight)
		}
	}

	return nil
}
