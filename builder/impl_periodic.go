// SPDX-License-Identifier: MIT
// Package: mofcheck/builder
//
// impl_periodic.go - constructors whose bonds cross the cell boundary.
//
// Contract:
//   • Chain(species, n, axis): n ≥ 1 atoms evenly spaced along lattice
//     vector `axis` at fractional (0.5, 0.5) in the other two directions.
//     The last atom bonds to the first atom's image, so the chain is
//     infinite when the spacing is within bonding range.
//   • Net(species): one atom at the origin; with a short cubic cell it
//     bonds to its own images along a, b and c (3-D connected).
//
// Complexity: O(n).

package builder

import (
	"fmt"

	"github.com/katalvlaran/mofcheck/geom"
)

const (
	methodChain = "Chain"
)

// Chain places n atoms along one lattice axis.
func Chain(species string, n, axis int) Constructor {
	return func(d *draft, cfg builderConfig) error {
		if n < 1 {
			return fmt.Errorf("%s: n=%d < 1: %w", methodChain, n, ErrTooFewAtoms)
		}
		if axis < 0 || axis > 2 {
			return fmt.Errorf("%s: axis=%d: %w", methodChain, axis, ErrBadAxis)
		}
		for k := 0; k < n; k++ {
			f := geom.Vec3{0.5, 0.5, 0.5}
			f[axis] = float64(k) / float64(n)
			d.add(species, cfg.lattice.LeftMul(f))
		}
		return nil
	}
}

// Net places one atom at the cell origin.
func Net(species string) Constructor {
	return func(d *draft, _ builderConfig) error {
		d.add(species, geom.Vec3{})
		return nil
	}
}
