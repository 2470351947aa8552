// SPDX-License-Identifier: MIT

// Package metrics exposes Prometheus collectors for the design cache and the
// least-squares update paths.
//
// A nil *Collector is valid and records nothing, so library code can call it
// unconditionally.
package metrics
