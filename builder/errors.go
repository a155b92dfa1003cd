// SPDX-License-Identifier: MIT
// Package: mofcheck/builder
//
// errors.go - sentinel errors for the builder package.
//
// Error policy:
//   • Only sentinel variables are exposed; callers branch with errors.Is.
//   • Implementations attach context using %w.

package builder

import "errors"

// ErrTooFewAtoms indicates an empty draft or a count parameter below its minimum.
var ErrTooFewAtoms = errors.New("builder: too few atoms")

// ErrUnknownPolyhedron indicates a polyhedron name geom does not know.
var ErrUnknownPolyhedron = errors.New("builder: unknown polyhedron")

// ErrBadAxis indicates a lattice axis outside {0,1,2}.
var ErrBadAxis = errors.New("builder: lattice axis out of range")

// ErrConstructFailed is a generic construction failure (nil constructor,
// singular lattice).
var ErrConstructFailed = errors.New("builder: construction failed")
