// SPDX-License-Identifier: MIT

package sample

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Sample is an immutable N×d collection of input points stored row-major.
// All accessors copy; nothing handed out aliases the internal buffer.
type Sample struct {
	data *mat.Dense // N×d, row i = point i
	n, d int
}

// New copies points into a Sample.
//
// Errors:
//   - ErrEmpty when there are no points or the first point has no coordinates.
//   - ErrRagged when a point's length differs from the first one.
//   - ErrNaNInf when any coordinate is not finite.
//
// Complexity: O(N·d).
func New(points [][]float64) (*Sample, error) {
	if len(points) == 0 || len(points[0]) == 0 {
		return nil, ErrEmpty
	}
	n, d := len(points), len(points[0])
	buf := make([]float64, 0, n*d)
	for i, p := range points {
		if len(p) != d {
			return nil, fmt.Errorf("New: point %d has %d coordinates, want %d: %w", i, len(p), d, ErrRagged)
		}
		for j, v := range p {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, fmt.Errorf("New: point %d coordinate %d: %w", i, j, ErrNaNInf)
			}
		}
		buf = append(buf, p...)
	}

	return &Sample{data: mat.NewDense(n, d, buf), n: n, d: d}, nil
}

// FromValues builds a one-dimensional Sample, one point per value.
func FromValues(xs []float64) (*Sample, error) {
	if len(xs) == 0 {
		return nil, ErrEmpty
	}
	for i, v := range xs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("FromValues: value %d: %w", i, ErrNaNInf)
		}
	}
	buf := make([]float64, len(xs))
	copy(buf, xs)

	return &Sample{data: mat.NewDense(len(xs), 1, buf), n: len(xs), d: 1}, nil
}

// Linspace returns n equally spaced one-dimensional points covering [lo, hi],
// both end points included. A single point sits at lo.
func Linspace(n int, lo, hi float64) (*Sample, error) {
	if n <= 0 {
		return nil, ErrEmpty
	}
	if math.IsNaN(lo) || math.IsInf(lo, 0) || math.IsNaN(hi) || math.IsInf(hi, 0) {
		return nil, fmt.Errorf("Linspace: bounds: %w", ErrNaNInf)
	}
	xs := make([]float64, n)
	if n == 1 {
		xs[0] = lo
	} else {
		floats.Span(xs, lo, hi)
	}

	return &Sample{data: mat.NewDense(n, 1, xs), n: n, d: 1}, nil
}

// Size returns the number of points N.
func (s *Sample) Size() int { return s.n }

// Dim returns the dimension d of every point.
func (s *Sample) Dim() int { return s.d }

// At returns coordinate j of point i.
func (s *Sample) At(i, j int) (float64, error) {
	if i < 0 || i >= s.n || j < 0 || j >= s.d {
		return 0, fmt.Errorf("At(%d,%d): %w", i, j, ErrOutOfRange)
	}

	return s.data.At(i, j), nil
}

// Point returns a copy of point i.
func (s *Sample) Point(i int) ([]float64, error) {
	if i < 0 || i >= s.n {
		return nil, fmt.Errorf("Point(%d): %w", i, ErrOutOfRange)
	}
	out := make([]float64, s.d)
	copy(out, s.data.RawRowView(i))

	return out, nil
}

// Values copies point i into dst (grown when too short) and returns it.
// It is the allocation-free accessor used by hot evaluation loops; i must be
// in range, violating that is a programmer error and panics.
func (s *Sample) Values(i int, dst []float64) []float64 {
	if cap(dst) < s.d {
		dst = make([]float64, s.d)
	}
	dst = dst[:s.d]
	copy(dst, s.data.RawRowView(i))

	return dst
}

// Column returns a copy of coordinate j across all points.
func (s *Sample) Column(j int) ([]float64, error) {
	if j < 0 || j >= s.d {
		return nil, fmt.Errorf("Column(%d): %w", j, ErrOutOfRange)
	}

	return mat.Col(nil, j, s.data), nil
}

// Subset returns a new Sample made of the given points, in the given order.
func (s *Sample) Subset(rows []int) (*Sample, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}
	buf := make([]float64, 0, len(rows)*s.d)
	for _, i := range rows {
		if i < 0 || i >= s.n {
			return nil, fmt.Errorf("Subset: row %d: %w", i, ErrOutOfRange)
		}
		buf = append(buf, s.data.RawRowView(i)...)
	}

	return &Sample{data: mat.NewDense(len(rows), s.d, buf), n: len(rows), d: s.d}, nil
}

// Matrix returns an independent N×d copy of the sample.
func (s *Sample) Matrix() *mat.Dense {
	return mat.DenseCopyOf(s.data)
}
