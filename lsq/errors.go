// SPDX-License-Identifier: MIT
// Package lsq: sentinel error set.
// Every message is prefixed with "lsq: ..." so it is easy to grep across logs.
// Algorithms return these sentinels wrapped with an operation tag
// (lsqErrorf); callers match them with errors.Is.

package lsq

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates a vector or index set inconsistent with the problem size.
	ErrDimensionMismatch = errors.New("lsq: dimension mismatch")

	// ErrOutOfRange indicates a catalogue or sample-row index outside its bounds.
	ErrOutOfRange = fmt.Errorf("lsq: index out of range: %w", ErrDimensionMismatch)

	// ErrInvalidPartition indicates added/conserved/removed sets that do not
	// describe a transition from the current active set.
	ErrInvalidPartition = fmt.Errorf("lsq: invalid update partition: %w", ErrDimensionMismatch)

	// ErrConditioning is the common base of every numerical failure.
	ErrConditioning = errors.New("lsq: conditioning failure")

	// ErrDegenerate indicates an operation on a Method with no active column.
	ErrDegenerate = fmt.Errorf("lsq: degenerate configuration: %w", ErrConditioning)

	// ErrNotPositiveDefinite indicates a Gram matrix that is not numerically positive definite.
	ErrNotPositiveDefinite = fmt.Errorf("lsq: gram matrix not positive definite: %w", ErrConditioning)

	// ErrSingular indicates a design matrix without full column rank.
	ErrSingular = fmt.Errorf("lsq: singular design matrix: %w", ErrConditioning)

	// ErrUnknownMethod indicates a Build name that maps to no strategy.
	ErrUnknownMethod = errors.New("lsq: unknown method")

	// ErrInvalidWeights indicates a weight vector of the wrong length or with
	// negative or non-finite entries.
	ErrInvalidWeights = errors.New("lsq: invalid weights")

	// ErrNilProxy indicates a Method built without a design proxy.
	ErrNilProxy = errors.New("lsq: nil design proxy")
)

// Operation tags used by lsqErrorf.
const (
	opBuild        = "Build"
	opSolve        = "Solve"
	opSolveNormal  = "SolveNormal"
	opHDiag        = "HDiag"
	opGramInvDiag  = "GramInverseDiag"
	opGramInvTrace = "GramInverseTrace"
	opUpdate       = "Update"
	opDesign       = "ComputeWeightedDesign"
	opCandidates   = "FitCandidates"
)

// lsqErrorf wraps err with an operation tag, preserving it for errors.Is.
// Call only with a non-nil err.
func lsqErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// failureKind maps an error to the label recorded by the failure counter.
func failureKind(err error) string {
	switch {
	case errors.Is(err, ErrDegenerate):
		return "degenerate"
	case errors.Is(err, ErrNotPositiveDefinite):
		return "not_positive_definite"
	case errors.Is(err, ErrSingular):
		return "singular"
	case errors.Is(err, ErrInvalidPartition):
		return "invalid_partition"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrDimensionMismatch):
		return "dimension_mismatch"
	default:
		return "other"
	}
}
