// SPDX-License-Identifier: MIT
// Package: mofcheck/builder
//
// api.go - thin public entry-points for the builder package.
//
// Design contract (strict):
//   - One orchestrator: BuildStructure(bopts, cons...). Resolves cfg, runs cons in order,
//     validates the result through structure.New.
//   - All public factories are declared here, implemented in impl_*.go.
//   - Functional options (BuilderOption) resolve into an immutable builderConfig (no global state).
//   - Determinism: same options and constructor order ⇒ identical structures (equal Key()).
//   - Safety: never panic at runtime; return sentinel errors from constructors.

package builder

import (
	"fmt"

	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/structure"
)

// draft collects atoms in Cartesian coordinates until the structure is built.
type draft struct {
	species []string
	cart    []geom.Vec3
}

func (d *draft) add(species string, p geom.Vec3) {
	d.species = append(d.species, species)
	d.cart = append(d.cart, p)
}

// Constructor appends atoms to the draft using the resolved builderConfig.
// Constructors MUST validate parameters early and return sentinel errors.
type Constructor func(d *draft, cfg builderConfig) error

// BuildStructure resolves bopts, applies every constructor in order and
// converts the draft into a validated structure.Structure.
// Constructor errors are wrapped with "BuildStructure: %w".
//
// Complexity: Σ cost of constructors + O(N) conversion.
func BuildStructure(bopts []BuilderOption, cons ...Constructor) (*structure.Structure, error) {
	cfg := newBuilderConfig(bopts...)
	d := &draft{}

	for i, fn := range cons {
		if fn == nil {
			return nil, fmt.Errorf("BuildStructure: nil constructor at index %d: %w", i, ErrConstructFailed)
		}
		if err := fn(d, cfg); err != nil {
			return nil, fmt.Errorf("BuildStructure: %w", err)
		}
	}
	if len(d.species) == 0 {
		return nil, fmt.Errorf("BuildStructure: %w", ErrTooFewAtoms)
	}

	inv, err := cfg.lattice.Inverse()
	if err != nil {
		return nil, fmt.Errorf("BuildStructure: %v: %w", err, ErrConstructFailed)
	}
	atoms := make([]structure.Atom, len(d.species))
	for i := range d.species {
		atoms[i] = structure.Atom{Species: d.species[i], Frac: inv.LeftMul(d.cart[i])}
	}
	return structure.New(cfg.lattice, atoms, structure.WithName(cfg.name))
}

// MustBuild is BuildStructure for test fixtures; it panics on error.
func MustBuild(bopts []BuilderOption, cons ...Constructor) *structure.Structure {
	s, err := BuildStructure(bopts, cons...)
	if err != nil {
		panic(err)
	}
	return s
}
