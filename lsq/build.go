// SPDX-License-Identifier: MIT

package lsq

import (
	"fmt"
	"strings"

	"github.com/katalvlaran/lstsq/design"
)

// Build names accepted besides the strategy names themselves.
const (
	NameAuto = "auto"
	NameGram = "gram"
)

// Build constructs a Method by strategy name. Names are case-insensitive and
// may carry a "Method" suffix ("QRMethod"). "QR", "Cholesky" (alias "Gram")
// and "SVD" select a strategy; "" and "Auto" choose one from the problem
// shape:
//
//   - SVD when WithRobust is given or N < K (rank deficiency is certain);
//   - Cholesky when N ≥ GramRowRatio·K (K ≪ N, speed dominates);
//   - QR otherwise.
//
// nil weights mean all ones.
//
// Errors: ErrUnknownMethod, ErrNilProxy, ErrInvalidWeights, ErrOutOfRange,
// ErrInvalidPartition and any factorization failure of the chosen strategy.
func Build(name string, p *design.Proxy, weights []float64, indices []int, opts ...Option) (Method, error) {
	key := normalizeName(name)
	o := gatherOptions(opts...)
	if key == NameAuto {
		if p == nil {
			return nil, lsqErrorf(opBuild, ErrNilProxy)
		}
		key = normalizeName(Choose(p.Size(), len(indices), o))
		o.logger.Debug().Str("strategy", key).Int("rows", p.Size()).Int("columns", len(indices)).Msg("strategy chosen")
	}

	switch key {
	case "qr":
		return newMethod(newQRFactor(o), p, weights, indices, o)
	case "cholesky", NameGram:
		return newMethod(newCholeskyFactor(o), p, weights, indices, o)
	case "svd":
		return newMethod(newSVDFactor(o), p, weights, indices, o)
	default:
		return nil, lsqErrorf(opBuild, fmt.Errorf("%q: %w", name, ErrUnknownMethod))
	}
}

// Choose returns the strategy Build picks under "auto" for n rows and k columns.
func Choose(n, k int, o Options) string {
	switch {
	case o.robust || n < k:
		return StrategySVD
	case n >= o.gramRowRatio*k:
		return StrategyCholesky
	default:
		return StrategyQR
	}
}

// KnownName reports whether Build accepts name.
func KnownName(name string) bool {
	switch normalizeName(name) {
	case NameAuto, NameGram, "qr", "cholesky", "svd":
		return true
	default:
		return false
	}
}

func normalizeName(name string) string {
	key := lowerName(strings.TrimSpace(name))
	key = strings.TrimSuffix(key, "method")
	if key == "" {
		return NameAuto
	}

	return key
}

func lowerName(name string) string { return strings.ToLower(name) }
