// SPDX-License-Identifier: MIT

package basis

import (
	"fmt"
)

// Function is a scalar-valued function over a fixed input dimension.
// Evaluate must not retain or modify x and must be safe for concurrent use.
type Function interface {
	// Evaluate returns the function value at x; len(x) == Dimension().
	Evaluate(x []float64) float64

	// Dimension returns the input dimension.
	Dimension() int
}

// funcOf adapts a plain Go function to the Function interface.
type funcOf struct {
	dim int
	f   func(x []float64) float64
}

func (fn funcOf) Evaluate(x []float64) float64 { return fn.f(x) }
func (fn funcOf) Dimension() int                { return fn.dim }

// NewFunction wraps f as a Function of the given input dimension.
func NewFunction(dim int, f func(x []float64) float64) (Function, error) {
	if f == nil {
		return nil, ErrNilFunction
	}
	if dim <= 0 {
		return nil, fmt.Errorf("NewFunction: dim=%d: %w", dim, ErrInvalidDegree)
	}

	return funcOf{dim: dim, f: f}, nil
}

// Polynomial is the tensor product Π_i P_{Degrees[i]}(x_i) of a Family.
// Degrees has one entry per input coordinate.
type Polynomial struct {
	family  Family
	degrees []int
}

// NewPolynomial builds the product polynomial with the given per-coordinate degrees.
func NewPolynomial(family Family, degrees ...int) (*Polynomial, error) {
	if len(degrees) == 0 {
		return nil, fmt.Errorf("NewPolynomial: no coordinates: %w", ErrInvalidDegree)
	}
	for i, d := range degrees {
		if d < 0 {
			return nil, fmt.Errorf("NewPolynomial: degree[%d]=%d: %w", i, d, ErrInvalidDegree)
		}
	}
	deg := make([]int, len(degrees))
	copy(deg, degrees)

	return &Polynomial{family: family, degrees: deg}, nil
}

// Evaluate implements Function.
func (p *Polynomial) Evaluate(x []float64) float64 {
	v := 1.0
	for i, d := range p.degrees {
		if d == 0 {
			continue
		}
		v *= p.family.Evaluate(d, x[i])
	}

	return v
}

// Dimension implements Function.
func (p *Polynomial) Dimension() int { return len(p.degrees) }

// Degrees returns a copy of the multi-index.
func (p *Polynomial) Degrees() []int {
	out := make([]int, len(p.degrees))
	copy(out, p.degrees)

	return out
}

// TotalDegree returns the sum of the multi-index.
func (p *Polynomial) TotalDegree() int {
	s := 0
	for _, d := range p.degrees {
		s += d
	}

	return s
}

// Basis is an immutable, ordered catalogue of Functions sharing one input dimension.
type Basis struct {
	fns []Function
	dim int
}

// New builds a catalogue from fns in the given order.
//
// Errors: ErrEmpty, ErrNilFunction, ErrDimensionMismatch.
func New(fns ...Function) (*Basis, error) {
	if len(fns) == 0 {
		return nil, ErrEmpty
	}
	if fns[0] == nil {
		return nil, fmt.Errorf("New: function 0: %w", ErrNilFunction)
	}
	dim := fns[0].Dimension()
	out := make([]Function, len(fns))
	for i, f := range fns {
		if f == nil {
			return nil, fmt.Errorf("New: function %d: %w", i, ErrNilFunction)
		}
		if f.Dimension() != dim {
			return nil, fmt.Errorf("New: function %d has dimension %d, want %d: %w", i, f.Dimension(), dim, ErrDimensionMismatch)
		}
		out[i] = f
	}

	return &Basis{fns: out, dim: dim}, nil
}

// Size returns the number of functions M.
func (b *Basis) Size() int { return len(b.fns) }

// Dim returns the common input dimension.
func (b *Basis) Dim() int { return b.dim }

// Function returns the catalogue entry at index i.
func (b *Basis) Function(i int) (Function, error) {
	if i < 0 || i >= len(b.fns) {
		return nil, fmt.Errorf("Function(%d): %w", i, ErrOutOfRange)
	}

	return b.fns[i], nil
}

// Functions returns the entries at indices, in order.
func (b *Basis) Functions(indices []int) ([]Function, error) {
	out := make([]Function, len(indices))
	for k, i := range indices {
		f, err := b.Function(i)
		if err != nil {
			return nil, err
		}
		out[k] = f
	}

	return out, nil
}

// Univariate returns the one-dimensional catalogue P_0, ..., P_maxDegree of a family.
func Univariate(family Family, maxDegree int) (*Basis, error) {
	if maxDegree < 0 {
		return nil, fmt.Errorf("Univariate: maxDegree=%d: %w", maxDegree, ErrInvalidDegree)
	}
	fns := make([]Function, maxDegree+1)
	for d := 0; d <= maxDegree; d++ {
		fns[d] = &Polynomial{family: family, degrees: []int{d}}
	}

	return New(fns...)
}

// Monomials returns 1, x, x², ..., x^maxDegree.
func Monomials(maxDegree int) (*Basis, error) { return Univariate(Monomial, maxDegree) }

// TensorProduct returns every product polynomial of the family over dim
// coordinates whose total degree is at most totalDegree, in graded order
// (see MultiIndices).
func TensorProduct(family Family, dim, totalDegree int) (*Basis, error) {
	idx, err := MultiIndices(dim, totalDegree)
	if err != nil {
		return nil, err
	}
	fns := make([]Function, len(idx))
	for i, alpha := range idx {
		fns[i] = &Polynomial{family: family, degrees: alpha}
	}

	return New(fns...)
}

// MultiIndices enumerates all α ∈ ℕ^dim with |α| ≤ totalDegree, grouped by
// total degree ascending; inside one degree the first coordinate decreases
// (reverse lexicographic), e.g. dim=2, degree 2: (0,0) (1,0) (0,1) (2,0) (1,1) (0,2).
func MultiIndices(dim, totalDegree int) ([][]int, error) {
	if dim <= 0 || totalDegree < 0 {
		return nil, fmt.Errorf("MultiIndices(%d,%d): %w", dim, totalDegree, ErrInvalidDegree)
	}
	var out [][]int
	cur := make([]int, dim)
	var fill func(pos, remaining int)
	fill = func(pos, remaining int) {
		if pos == dim-1 {
			cur[pos] = remaining
			alpha := make([]int, dim)
			copy(alpha, cur)
			out = append(out, alpha)

			return
		}
		for v := remaining; v >= 0; v-- {
			cur[pos] = v
			fill(pos+1, remaining-v)
		}
	}
	for deg := 0; deg <= totalDegree; deg++ {
		fill(0, deg)
	}

	return out, nil
}
