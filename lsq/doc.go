// SPDX-License-Identifier: MIT

// Package lsq solves weighted linear least-squares problems whose set of
// active basis columns changes between solves.
//
// A Method owns a weight vector, the active catalogue indices and a
// factorization of the weighted design matrix Ã = √W·A restricted to the
// active sample rows. Three strategies implement the same contract:
//
//   - QR keeps a thin Q (n×K) and an upper-triangular R. Solve back-substitutes
//     on R and never squares the condition number. Column insertion is
//     Gram-Schmidt with one re-orthogonalisation pass, column deletion is a
//     Givens sweep on R. Rows are inserted and deleted with Givens rotations.
//   - Cholesky keeps the upper factor U of the Gram matrix ÃᵀÃ = UᵀU. Column
//     insertion borders U; deletion is the same Givens sweep as QR. Row changes
//     are rank-1 updates and downdates. Solve goes through the normal equations.
//   - SVD keeps the thin singular value decomposition and solves with a
//     truncated pseudo-inverse. It never fails on rank deficiency and reports
//     the effective rank instead. Every update is a full recomputation.
//
// Update takes an explicit (added, conserved, removed) partition of the
// previous active set. It is transactional: the new factorization is built on
// a copy and only committed on success, so a failed Update leaves the Method
// exactly as it was. Whether the incremental or the full-recompute path runs is
// decided by WithRecomputeRatio and WithIncremental, never implicitly.
//
// With row set to true the three sets name sample rows instead of catalogue
// indices. Inactive rows behave exactly like rows of weight zero.
//
// Methods are not safe for concurrent use. Several Methods may share one
// design.Proxy from different goroutines (see FitCandidates).
//
// Errors are package sentinels wrapped with an operation tag; match them with
// errors.Is. ErrDegenerate, ErrNotPositiveDefinite and ErrSingular all match
// ErrConditioning; ErrInvalidPartition and ErrOutOfRange match
// ErrDimensionMismatch.
package lsq
