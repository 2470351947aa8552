// SPDX-License-Identifier: MIT

// Package basis defines the immutable catalogue of candidate basis functions a
// least-squares model is built from.
//
// A Basis is an ordered list of scalar functions over a d-dimensional input
// space. Positions in that list are the stable identifiers ("catalogue
// indices") that active index sets refer to. Neither the list nor the
// functions change after construction, which is what allows the design proxy
// to cache evaluated columns forever.
//
// Polynomial families (monomial, Legendre, probabilists' Hermite) are provided
// both as one-dimensional catalogues and as total-degree tensor products with
// a graded enumeration of multi-indices.
//
// Every Function must be safe for concurrent use: evaluation is pure.
package basis
