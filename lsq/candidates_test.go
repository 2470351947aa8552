// SPDX-License-Identifier: MIT
package lsq_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lstsq/lsq"
)

func TestFitCandidates(t *testing.T) {
	p := MustProxy(t, 30, 4)
	rhs := rhsOf(t, p, func(x float64) float64 { return 1 + x*x })
	candidates := [][]int{
		{0, 1},
		{0, 2},
		{0, 1, 2, 3},
		{0, 0}, // invalid
		{},     // degenerate
	}

	fits, err := lsq.FitCandidates(context.Background(), "QR", p, nil, candidates, rhs)
	require.NoError(t, err)
	require.Len(t, fits, len(candidates))

	assert.NoError(t, fits[0].Err)
	assert.Greater(t, fits[0].ResidualSumOfSquares, 1e-3) // a line cannot fit 1+x²

	assert.NoError(t, fits[1].Err)
	assert.InDelta(t, 0, fits[1].ResidualSumOfSquares, 1e-20)
	requireClose(t, []float64{1, 1}, fits[1].Coefficients, 1e-10)
	assert.Equal(t, 2, fits[1].Rank)
	assert.Greater(t, fits[1].GramInverseTrace, 0.0)

	assert.NoError(t, fits[2].Err)
	assert.Equal(t, []int{0, 1, 2, 3}, fits[2].Indices)
	assert.Len(t, fits[2].Coefficients, 4)

	assert.ErrorIs(t, fits[3].Err, lsq.ErrInvalidPartition)
	assert.ErrorIs(t, fits[4].Err, lsq.ErrDegenerate)

	// every distinct column was evaluated once across all candidates
	assert.Equal(t, int64(4), p.Stats().Misses)
}

func TestFitCandidates_Cancelled(t *testing.T) {
	p := MustProxy(t, 10, 2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lsq.FitCandidates(ctx, "", p, nil, [][]int{{0}, {1}}, make([]float64, 10))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = lsq.FitCandidates(context.Background(), "", nil, nil, nil, nil)
	assert.ErrorIs(t, err, lsq.ErrNilProxy)
}
