// SPDX-License-Identifier: MIT

// Package builder assembles small deterministic structures for tests,
// examples and benchmarks.
//
// What
//
//   - BuildStructure(bopts, cons...) resolves options, runs constructors in
//     order and validates the result with structure.New.
//   - Constructors: Atom, FracAtom, Molecule, Dimer, Chain, Net,
//     Polyhedron, PolyhedronRotated.
//   - Options: WithCubicCell, WithOrthoCell, WithLattice, WithBondLength,
//     WithName.
//
// Why
//
//   - Screening behavior is easiest to pin down on hand-made cells: a lone
//     atom next to a periodic chain, a tetrahedral versus a see-saw metal
//     site, a carbon with a single neighbor.
//
// Usage
//
//	s, err := builder.BuildStructure(
//	    []builder.BuilderOption{builder.WithCubicCell(12), builder.WithBondLength(1.95)},
//	    builder.Polyhedron("Zn", "O", "tet", geom.Vec3{6, 6, 6}),
//	)
//
// Errors
//
//   - ErrTooFewAtoms, ErrUnknownPolyhedron, ErrBadAxis, ErrConstructFailed,
//     plus structure.New validation errors.
package builder
