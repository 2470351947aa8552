// SPDX-License-Identifier: MIT
package sample_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/lstsq/sample"
)

func TestNew_CopiesAndValidates(t *testing.T) {
	pts := [][]float64{{0, 1}, {2, 3}, {4, 5}}
	s, err := sample.New(pts)
	require.NoError(t, err)
	require.Equal(t, 3, s.Size())
	require.Equal(t, 2, s.Dim())

	// mutating the input must not leak into the sample
	pts[1][0] = 99
	v, err := s.At(1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)

	p, err := s.Point(2)
	require.NoError(t, err)
	p[0] = -1
	v, _ = s.At(2, 0)
	assert.Equal(t, 4.0, v, "Point must return a copy")
}

func TestNew_Errors(t *testing.T) {
	_, err := sample.New(nil)
	assert.ErrorIs(t, err, sample.ErrEmpty)

	_, err = sample.New([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, sample.ErrRagged)

	_, err = sample.New([][]float64{{1}, {math.NaN()}})
	assert.ErrorIs(t, err, sample.ErrNaNInf)

	_, err = sample.FromValues([]float64{0, math.Inf(1)})
	assert.ErrorIs(t, err, sample.ErrNaNInf)
}

func TestLinspace(t *testing.T) {
	s, err := sample.Linspace(5, 0, 1)
	require.NoError(t, err)
	col, err := s.Column(0)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0, 0.25, 0.5, 0.75, 1}, col, 1e-15)

	one, err := sample.Linspace(1, 3, 7)
	require.NoError(t, err)
	v, _ := one.At(0, 0)
	assert.Equal(t, 3.0, v)

	_, err = sample.Linspace(0, 0, 1)
	assert.ErrorIs(t, err, sample.ErrEmpty)
}

func TestAccessorsOutOfRange(t *testing.T) {
	s, err := sample.FromValues([]float64{1, 2})
	require.NoError(t, err)

	_, err = s.At(2, 0)
	assert.ErrorIs(t, err, sample.ErrOutOfRange)
	_, err = s.Point(-1)
	assert.ErrorIs(t, err, sample.ErrOutOfRange)
	_, err = s.Column(1)
	assert.ErrorIs(t, err, sample.ErrOutOfRange)
	_, err = s.Subset([]int{0, 5})
	assert.ErrorIs(t, err, sample.ErrOutOfRange)
}

func TestValuesReusesBuffer(t *testing.T) {
	s, err := sample.New([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)
	buf := make([]float64, 0, 4)
	got := s.Values(1, buf)
	assert.Equal(t, []float64{3, 4}, got)
	assert.Equal(t, 4, cap(got))
}

func TestSubsetAndMatrix(t *testing.T) {
	s, err := sample.FromValues([]float64{10, 20, 30})
	require.NoError(t, err)
	sub, err := s.Subset([]int{2, 0})
	require.NoError(t, err)
	col, _ := sub.Column(0)
	assert.Equal(t, []float64{30, 10}, col)

	m := s.Matrix()
	m.Set(0, 0, -5)
	v, _ := s.At(0, 0)
	assert.Equal(t, 10.0, v)
}

func TestValidateWeights(t *testing.T) {
	require.NoError(t, sample.ValidateWeights(sample.Ones(3), 3))
	assert.ErrorIs(t, sample.ValidateWeights([]float64{1, 1}, 3), sample.ErrDimensionMismatch)
	assert.ErrorIs(t, sample.ValidateWeights([]float64{1, -1, 1}, 3), sample.ErrNegativeWeight)
	assert.ErrorIs(t, sample.ValidateWeights([]float64{1, math.NaN(), 1}, 3), sample.ErrNaNInf)
	// zero weights are legal: they switch a row off
	require.NoError(t, sample.ValidateWeights([]float64{0, 0, 1}, 3))
}
