// SPDX-License-Identifier: MIT
// Package sample: sentinel error set.
// Every message is prefixed with "sample: ..." so it is easy to grep across
// logs. Callers match them with errors.Is; context is attached with %w.

package sample

import "errors"

var (
	// ErrEmpty is returned when a sample with zero points (or zero dimension) is requested.
	ErrEmpty = errors.New("sample: empty sample")

	// ErrRagged indicates that the points do not share a common dimension.
	ErrRagged = errors.New("sample: points have different dimensions")

	// ErrNaNInf signals a NaN or ±Inf coordinate or weight.
	ErrNaNInf = errors.New("sample: NaN or Inf encountered")

	// ErrOutOfRange indicates a point or coordinate index outside valid bounds.
	ErrOutOfRange = errors.New("sample: index out of range")

	// ErrDimensionMismatch indicates a vector whose length differs from the sample size.
	ErrDimensionMismatch = errors.New("sample: dimension mismatch")

	// ErrNegativeWeight indicates a weight below zero.
	ErrNegativeWeight = errors.New("sample: negative weight")
)
