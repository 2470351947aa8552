// SPDX-License-Identifier: MIT

package design

import "errors"

var (
	// ErrNilSample indicates a Proxy built without a sample.
	ErrNilSample = errors.New("design: nil sample")

	// ErrNilBasis indicates a Proxy built without a basis.
	ErrNilBasis = errors.New("design: nil basis")

	// ErrDimensionMismatch indicates a sample whose dimension differs from the basis input dimension.
	ErrDimensionMismatch = errors.New("design: sample and basis dimensions differ")

	// ErrOutOfRange indicates a catalogue or row index outside valid bounds.
	ErrOutOfRange = errors.New("design: index out of range")

	// ErrEmptyIndices indicates an evaluation request without any index.
	ErrEmptyIndices = errors.New("design: empty index set")

	// ErrCacheMismatch indicates a shared Cache built for another sample/basis pair.
	ErrCacheMismatch = errors.New("design: cache belongs to a different sample or basis")
)
