// SPDX-License-Identifier: MIT

// Package sample holds the immutable input sample of a least-squares session
// and the helpers that validate weight vectors against it.
//
// A Sample is an ordered sequence of N points of fixed dimension d. It is
// created once, never mutated, and shared by reference between the design
// proxy and every least-squares method built on top of it.
//
// Complexity quicksheet:
//   - New / FromValues / Linspace: O(N·d) copy + validation.
//   - Size / Dim: O(1). At: O(1). Point / Values: O(d). Column: O(N).
package sample
