package builder_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mofcheck/builder"
	"github.com/katalvlaran/mofcheck/geom"
)

func TestBuildStructure_Errors(t *testing.T) {
	_, err := builder.BuildStructure(nil)
	assert.True(t, errors.Is(err, builder.ErrTooFewAtoms))

	_, err = builder.BuildStructure(nil, nil)
	assert.True(t, errors.Is(err, builder.ErrConstructFailed))

	_, err = builder.BuildStructure(nil, builder.Polyhedron("Zn", "O", "icosa", geom.Vec3{}))
	assert.True(t, errors.Is(err, builder.ErrUnknownPolyhedron))

	_, err = builder.BuildStructure(nil, builder.Chain("C", 2, 3))
	assert.True(t, errors.Is(err, builder.ErrBadAxis))

	_, err = builder.BuildStructure(nil, builder.Molecule([]string{"C"}, nil, geom.Vec3{}))
	assert.True(t, errors.Is(err, builder.ErrConstructFailed))

	assert.Panics(t, func() { builder.WithCubicCell(0) })
	assert.Panics(t, func() { builder.WithBondLength(-1) })
}

func TestPolyhedron(t *testing.T) {
	s, err := builder.BuildStructure(
		[]builder.BuilderOption{builder.WithCubicCell(10), builder.WithBondLength(1.9), builder.WithName("tet")},
		builder.Polyhedron("Zn", "O", "tet", geom.Vec3{5, 5, 5}),
	)
	require.NoError(t, err)
	require.Equal(t, 5, s.Len())
	assert.Equal(t, "tet", s.Name())
	assert.Equal(t, "Zn", s.Species(0))
	for i := 1; i < 5; i++ {
		assert.InDelta(t, 1.9, s.Distance(0, i), 1e-9)
	}
	// O-Zn-O angle of an ideal tetrahedron
	c := s.Cart(0)
	assert.InDelta(t, 109.4712, geom.Angle(s.Cart(1).Sub(c), s.Cart(2).Sub(c)), 1e-3)
}

func TestChainAndDeterminism(t *testing.T) {
	opts := []builder.BuilderOption{builder.WithOrthoCell(3, 10, 10)}
	a := builder.MustBuild(opts, builder.Chain("C", 2, 0))
	b := builder.MustBuild(opts, builder.Chain("C", 2, 0))
	assert.Equal(t, a.Key(), b.Key())
	assert.InDelta(t, 1.5, a.Distance(0, 1), 1e-9)
}
