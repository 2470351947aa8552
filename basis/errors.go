// SPDX-License-Identifier: MIT

package basis

import "errors"

var (
	// ErrEmpty is returned when a catalogue without functions is requested.
	ErrEmpty = errors.New("basis: empty catalogue")

	// ErrNilFunction indicates a nil Function in the catalogue.
	ErrNilFunction = errors.New("basis: nil function")

	// ErrDimensionMismatch indicates functions with different input dimensions.
	ErrDimensionMismatch = errors.New("basis: input dimension mismatch")

	// ErrOutOfRange indicates a catalogue index outside [0, Size()).
	ErrOutOfRange = errors.New("basis: index out of range")

	// ErrInvalidDegree indicates a negative degree or a non-positive dimension.
	ErrInvalidDegree = errors.New("basis: invalid degree or dimension")

	// ErrUnknownFamily indicates an unrecognised polynomial family name.
	ErrUnknownFamily = errors.New("basis: unknown polynomial family")
)
