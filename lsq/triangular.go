// SPDX-License-Identifier: MIT

package lsq

import (
	"gonum.org/v1/gonum/blas"
	"gonum.org/v1/gonum/blas/blas64"
	"gonum.org/v1/gonum/floats"
)

// upper is a k×k upper-triangular matrix stored row-major in data.
// Entries below the diagonal are kept at exactly zero.
type upper struct {
	k    int
	data []float64
}

func (u upper) clone() upper {
	return upper{k: u.k, data: append([]float64(nil), u.data...)}
}

func (u upper) at(i, j int) float64 { return u.data[i*u.k+j] }

// row returns the stored part of row i, columns i..k-1.
func (u upper) row(i int) []float64 { return u.data[i*u.k+i : (i+1)*u.k] }

func (u upper) tri() blas64.Triangular {
	return blas64.Triangular{Uplo: blas.Upper, Diag: blas.NonUnit, N: u.k, Stride: u.k, Data: u.data}
}

// solve overwrites x with U⁻¹x.
func (u upper) solve(x []float64) {
	if u.k == 0 {
		return
	}
	blas64.Trsv(blas.NoTrans, u.tri(), blas64.Vector{N: u.k, Inc: 1, Data: x})
}

// solveTrans overwrites x with U⁻ᵀx.
func (u upper) solveTrans(x []float64) {
	if u.k == 0 {
		return
	}
	blas64.Trsv(blas.Trans, u.tri(), blas64.Vector{N: u.k, Inc: 1, Data: x})
}

// appendColumn returns the (k+1)×(k+1) matrix [U col; 0 d].
func (u upper) appendColumn(col []float64, d float64) upper {
	k := u.k + 1
	out := make([]float64, k*k)
	for i := 0; i < u.k; i++ {
		copy(out[i*k+i:i*k+u.k], u.data[i*u.k+i:(i+1)*u.k])
		out[i*k+u.k] = col[i]
	}
	out[k*k-1] = d

	return upper{k: k, data: out}
}

// deleteColumn removes column j and restores triangularity with a Givens
// sweep over rows j..k-1. rotate, when non-nil, receives every rotation
// (c, s) applied to the row pair (p, p+1) so that an orthogonal factor can
// follow along.
func (u *upper) deleteColumn(j int, rotate func(p int, c, s float64)) {
	k, m := u.k, u.k-1
	h := make([]float64, k*m) // k×(k-1) upper Hessenberg after the deletion
	for i := 0; i < k; i++ {
		src := u.data[i*k : (i+1)*k]
		copy(h[i*m:i*m+j], src[:j])
		copy(h[i*m+j:(i+1)*m], src[j+1:])
	}
	for p := j; p < m; p++ {
		c, s, r, _ := blas64.Rotg(h[p*m+p], h[(p+1)*m+p])
		n := m - p
		blas64.Rot(
			blas64.Vector{N: n, Inc: 1, Data: h[p*m+p : (p+1)*m]},
			blas64.Vector{N: n, Inc: 1, Data: h[(p+1)*m+p : (p+2)*m]},
			c, s)
		h[p*m+p] = r
		h[(p+1)*m+p] = 0
		if rotate != nil {
			rotate(p, c, s)
		}
	}
	u.k = m
	u.data = h[:m*m]
}

// normalizeSigns makes the diagonal non-negative by negating rows; flip is
// called with every negated row index.
func (u upper) normalizeSigns(flip func(j int)) {
	for j := 0; j < u.k; j++ {
		if u.data[j*u.k+j] < 0 {
			floats.Scale(-1, u.row(j))
			if flip != nil {
				flip(j)
			}
		}
	}
}

// inverseDiag returns diag((UᵀU)⁻¹) = ‖U⁻ᵀe_j‖² for every j.
func (u upper) inverseDiag() []float64 {
	out := make([]float64, u.k)
	e := make([]float64, u.k)
	for j := 0; j < u.k; j++ {
		for i := range e {
			e[i] = 0
		}
		e[j] = 1
		u.solveTrans(e)
		out[j] = floats.Dot(e, e)
	}

	return out
}
