// SPDX-License-Identifier: MIT

package basis

import (
	"fmt"
	"strings"
)

// Family selects a univariate polynomial family evaluated by three-term recurrence.
type Family int

const (
	// Monomial is x^n.
	Monomial Family = iota

	// Legendre is the Legendre family, orthogonal on [-1, 1] for the uniform measure.
	Legendre

	// Hermite is the probabilists' Hermite family, orthogonal for the standard normal.
	Hermite
)

var familyNames = [...]string{
	Monomial: "monomial",
	Legendre: "legendre",
	Hermite:  "hermite",
}

// String returns the lower-case family name used by configuration files.
func (f Family) String() string {
	if f < 0 || int(f) >= len(familyNames) {
		return fmt.Sprintf("Family(%d)", int(f))
	}

	return familyNames[f]
}

// ParseFamily maps a case-insensitive family name to a Family.
func ParseFamily(name string) (Family, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for f, n := range familyNames {
		if n == key {
			return Family(f), nil
		}
	}

	return 0, fmt.Errorf("ParseFamily(%q): %w", name, ErrUnknownFamily)
}

// Evaluate returns the degree-n member of the family at x.
// Monomials are built by repeated multiplication so that x², x³, ... match
// x*x, x*x*x bit for bit.
func (f Family) Evaluate(n int, x float64) float64 {
	switch f {
	case Legendre:
		if n == 0 {
			return 1
		}
		prev, cur := 1.0, x
		for k := 1; k < n; k++ {
			// (k+1) P_{k+1} = (2k+1) x P_k - k P_{k-1}
			prev, cur = cur, (float64(2*k+1)*x*cur-float64(k)*prev)/float64(k+1)
		}

		return cur
	case Hermite:
		if n == 0 {
			return 1
		}
		prev, cur := 1.0, x
		for k := 1; k < n; k++ {
			// He_{k+1} = x He_k - k He_{k-1}
			prev, cur = cur, x*cur-float64(k)*prev
		}

		return cur
	default:
		p := 1.0
		for k := 0; k < n; k++ {
			p *= x
		}

		return p
	}
}
