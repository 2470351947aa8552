// SPDX-License-Identifier: MIT

// Package design provides the Design Proxy: lazy, cached evaluation of basis
// columns on a fixed sample.
//
// Column j of the (unweighted) design matrix is basis[j] evaluated at every
// sample point. Evaluating it is the expensive step of every least-squares
// strategy, and model-selection loops ask for the same columns over and over,
// from many Methods at once. A Proxy therefore keeps a Cache from catalogue
// index to evaluated column:
//
//   - each distinct index is evaluated exactly once per Cache;
//   - hits only take a read lock;
//   - concurrent misses on one index are collapsed with singleflight;
//   - entries are never invalidated (sample and basis are immutable).
//
// A Cache can be shared between several Proxies built on the same sample and
// basis (WithCache). Its lifetime is that of the longest holder.
//
// Columns returned by Column are shared and must be treated as read-only.
// Evaluate and EvaluateRows return fresh matrices the caller owns.
package design
