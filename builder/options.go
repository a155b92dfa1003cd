// SPDX-License-Identifier: MIT
// Package: mofcheck/builder
//
// options.go - functional options and resolved configuration.
//
// Contract (strict):
//   • Options are functional (type BuilderOption func(*builderConfig)).
//   • Option constructors VALIDATE and PANIC on meaningless inputs.
//     Constructors themselves MUST NOT panic.
//   • Later options override earlier ones.
//
// Deterministic defaults:
//   • lattice = cubic, 20 Å (wide vacuum around molecular fixtures)
//   • bond    = 2.0 Å (metal–ligand distance for Polyhedron)
//   • name    = "fixture"

package builder

import (
	"github.com/katalvlaran/mofcheck/geom"
)

const (
	defaultCell = 20.0
	defaultBond = 2.0
	defaultName = "fixture"
)

// builderConfig aggregates all knobs used by constructors.
// It is passed by VALUE to constructors.
type builderConfig struct {
	lattice geom.Mat3
	bond    float64
	name    string
}

// BuilderOption customizes the configuration before construction.
type BuilderOption func(*builderConfig)

func newBuilderConfig(opts ...BuilderOption) builderConfig {
	cfg := builderConfig{
		lattice: cubic(defaultCell),
		bond:    defaultBond,
		name:    defaultName,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

func cubic(a float64) geom.Mat3 {
	return geom.Mat3{{a, 0, 0}, {0, a, 0}, {0, 0, a}}
}

// WithCubicCell sets a cubic lattice of edge a Å. Panics if a <= 0.
func WithCubicCell(a float64) BuilderOption {
	if a <= 0 {
		panic("builder: WithCubicCell(a<=0)")
	}
	return func(c *builderConfig) { c.lattice = cubic(a) }
}

// WithOrthoCell sets an orthorhombic lattice. Panics on non-positive edges.
func WithOrthoCell(a, b, cc float64) BuilderOption {
	if a <= 0 || b <= 0 || cc <= 0 {
		panic("builder: WithOrthoCell(non-positive edge)")
	}
	return func(c *builderConfig) { c.lattice = geom.Mat3{{a, 0, 0}, {0, b, 0}, {0, 0, cc}} }
}

// WithLattice sets explicit lattice rows.
func WithLattice(m geom.Mat3) BuilderOption {
	return func(c *builderConfig) { c.lattice = m }
}

// WithBondLength sets the center–ligand distance used by Polyhedron and
// Molecule constructors. Panics if d <= 0.
func WithBondLength(d float64) BuilderOption {
	if d <= 0 {
		panic("builder: WithBondLength(d<=0)")
	}
	return func(c *builderConfig) { c.bond = d }
}

// WithName sets the structure name.
func WithName(name string) BuilderOption {
	return func(c *builderConfig) { c.name = name }
}
