// SPDX-License-Identifier: MIT
// Package: mofcheck/builder
//
// impl_atoms.go - point constructors: Atom, FracAtom, Molecule, Dimer.
//
// Contract:
//   • Atoms are appended in call order; indices in the built structure
//     follow that order.
//   • Species validation happens in structure.New, not here.

package builder

import (
	"fmt"

	"github.com/katalvlaran/mofcheck/geom"
)

const (
	methodMolecule = "Molecule"
	methodDimer    = "Dimer"
)

// Atom places one atom at Cartesian position p.
func Atom(species string, p geom.Vec3) Constructor {
	return func(d *draft, _ builderConfig) error {
		d.add(species, p)
		return nil
	}
}

// FracAtom places one atom at fractional position f of the configured lattice.
func FracAtom(species string, f geom.Vec3) Constructor {
	return func(d *draft, cfg builderConfig) error {
		d.add(species, cfg.lattice.LeftMul(f))
		return nil
	}
}

// Molecule places species[k] at at+offsets[k].
func Molecule(species []string, offsets []geom.Vec3, at geom.Vec3) Constructor {
	return func(d *draft, _ builderConfig) error {
		if len(species) == 0 {
			return fmt.Errorf("%s: empty molecule: %w", methodMolecule, ErrTooFewAtoms)
		}
		if len(species) != len(offsets) {
			return fmt.Errorf("%s: %d species vs %d offsets: %w",
				methodMolecule, len(species), len(offsets), ErrConstructFailed)
		}
		for k, sp := range species {
			d.add(sp, at.Add(offsets[k]))
		}
		return nil
	}
}

// Dimer places a at p and b at p + dist·x̂.
func Dimer(a, b string, dist float64, p geom.Vec3) Constructor {
	return func(d *draft, _ builderConfig) error {
		if dist <= 0 {
			return fmt.Errorf("%s: dist=%g: %w", methodDimer, dist, ErrConstructFailed)
		}
		d.add(a, p)
		d.add(b, p.Add(geom.Vec3{dist, 0, 0}))
		return nil
	}
}
