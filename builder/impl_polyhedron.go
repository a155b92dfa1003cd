// SPDX-License-Identifier: MIT
// Package: mofcheck/builder
//
// impl_polyhedron.go - metal sites with ideal coordination geometry.
//
// Contract:
//   • name must be a geom.PolyhedronNames() entry (else ErrUnknownPolyhedron).
//   • The center atom is appended first, then one ligand per ideal
//     direction at distance cfg.bond, in the polyhedron's direction order.
//   • PolyhedronRotated applies a rigid rotation to the directions.
//
// Complexity: O(CN).

package builder

import (
	"fmt"

	"github.com/katalvlaran/mofcheck/geom"
)

const methodPolyhedron = "Polyhedron"

// Polyhedron places center at p surrounded by ligands in the named geometry.
func Polyhedron(center, ligand, name string, p geom.Vec3) Constructor {
	return PolyhedronRotated(center, ligand, name, p, geom.Identity())
}

// PolyhedronRotated is Polyhedron with directions rotated by rot.
func PolyhedronRotated(center, ligand, name string, p geom.Vec3, rot geom.Mat3) Constructor {
	return func(d *draft, cfg builderConfig) error {
		dirs, ok := geom.Polyhedron(name)
		if !ok {
			return fmt.Errorf("%s: %q: %w", methodPolyhedron, name, ErrUnknownPolyhedron)
		}
		d.add(center, p)
		for _, v := range dirs {
			d.add(ligand, p.Add(rot.Apply(v).Scale(cfg.bond)))
		}
		return nil
	}
}
