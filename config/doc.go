// SPDX-License-Identifier: MIT

// Package config loads the YAML configuration of the lsqfit tool and maps it
// onto library options.
//
// A file has three sections:
//
//	method:
//	  name: auto            # qr | cholesky | gram | svd | auto
//	  rank_tolerance: 1e-10
//	  singular_cutoff: 1e-12
//	  recompute_ratio: 1.0
//	  incremental: true
//	  robust: false
//	  gram_row_ratio: 50
//	basis:
//	  family: legendre      # monomial | legendre | hermite
//	  degree: 4
//	log:
//	  level: info
//
// Missing keys keep the values of Default. Validate is called by Load and
// Parse, so a returned *Config is always usable.
package config
