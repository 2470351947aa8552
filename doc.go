// SPDX-License-Identifier: MIT

// Package lstsq is an incremental weighted least-squares toolkit for model
// selection loops: the set of active basis functions changes between
// iterations and the factorization follows it without being rebuilt.
//
// What is inside:
//
//	sample/    immutable N×d input points and weight validation
//	basis/     catalogue of scalar basis functions, polynomial families
//	design/    design proxy with a shared, lazily filled column cache
//	lsq/       Method interface, Build factory, QR / Cholesky / SVD strategies,
//	           column and row updates, concurrent candidate fitting
//	metrics/   Prometheus collectors for cache lookups and update paths
//	config/    YAML configuration mapped onto lsq options
//	cmd/lsqfit command-line fitting, degree scan and forward selection
//
// Quick start:
//
//	s, _ := sample.Linspace(50, -1, 1)
//	b, _ := basis.Univariate(basis.Legendre, 6)
//	p, _ := design.NewProxy(s, b)
//	m, _ := lsq.Build("auto", p, nil, []int{0, 1, 2})
//	x, _ := m.Solve(y)
//	_ = m.Update([]int{3}, []int{0, 1, 2}, nil, false) // add P3, keep the rest
//
// Strategies trade speed for robustness: Cholesky of the Gram matrix is the
// fastest for N ≫ K, QR is the default, SVD survives rank deficiency and
// reports the truncated rank.
package lstsq
