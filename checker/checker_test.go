package checker_test

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/mofcheck/builder"
	"github.com/katalvlaran/mofcheck/checker"
	"github.com/katalvlaran/mofcheck/checks"
	"github.com/katalvlaran/mofcheck/config"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/external"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
	"github.com/katalvlaran/mofcheck/oms"
	"github.com/katalvlaran/mofcheck/structure"
)

var center = geom.Vec3{10, 10, 10}

func newChecker(t *testing.T, s *structure.Structure, opts ...checker.Option) *checker.Checker {
	t.Helper()
	c, err := checker.New(s, opts...)
	require.NoError(t, err)
	return c
}

func value(t *testing.T, c *checker.Checker, name string) any {
	t.Helper()
	res, err := c.Descriptors(name)
	require.NoError(t, err)
	require.Len(t, res, 1)
	return res[0].Value
}

func metalSite(poly string) *structure.Structure {
	return builder.MustBuild(
		[]builder.BuilderOption{builder.WithBondLength(1.95), builder.WithName(poly)},
		builder.Polyhedron("Zn", "O", poly, center),
	)
}

// oxideChain is an infinite -C-O- chain along a.
func oxideChain() *structure.Structure {
	return builder.MustBuild(
		[]builder.BuilderOption{builder.WithOrthoCell(3, 10, 10)},
		builder.FracAtom("C", geom.Vec3{0, 0.5, 0.5}),
		builder.FracAtom("O", geom.Vec3{0.5, 0.5, 0.5}),
	)
}

func TestNew(t *testing.T) {
	_, err := checker.New(nil)
	assert.ErrorIs(t, err, checker.ErrNilStructure)
	assert.True(t, errors.IsUsage(err))

	c := newChecker(t, oxideChain(), checker.WithStrategy("nope"))
	assert.Equal(t, neighbors.FallbackStrategy, c.Strategy())
	g, err := c.Graph()
	require.NoError(t, err)
	require.NotEmpty(t, g.Notices())
}

func TestCatalog(t *testing.T) {
	names := checker.Catalog()
	require.Len(t, names, 27)
	assert.Equal(t, checker.Name, names[0])
	assert.Equal(t, checker.HasOMS, names[len(names)-1])

	assert.NoError(t, checker.Validate(names...))
	err := checker.Validate("has_metal", "has_unicorns")
	assert.ErrorIs(t, err, errors.ErrUnknownDescriptor)
	assert.Contains(t, err.Error(), "has_unicorns")
}

// An isolated atom next to an infinite chain is a lone molecule.
func TestLoneAtom(t *testing.T) {
	s := builder.MustBuild(
		[]builder.BuilderOption{builder.WithOrthoCell(3, 10, 10)},
		builder.Chain("C", 2, 0),
		builder.FracAtom("Ar", geom.Vec3{0.5, 0, 0}),
	)
	c := newChecker(t, s)
	assert.Equal(t, checks.True, value(t, c, checker.HasLoneMolecule))

	res, err := c.Results(checks.KeyFloatingMolecule)
	require.NoError(t, err)
	assert.Equal(t, []int{2}, res[checks.KeyFloatingMolecule].Flagged)
}

func TestTwoMolecules(t *testing.T) {
	s := builder.MustBuild(nil,
		builder.Dimer("C", "O", 1.13, geom.Vec3{3, 3, 3}),
		builder.Dimer("C", "O", 1.13, geom.Vec3{12, 12, 12}),
	)
	c := newChecker(t, s)
	assert.Equal(t, checks.True, value(t, c, checker.HasLoneMolecule))

	frags, err := c.Fragments()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{0, 1}, {2, 3}}, frags.Indices())
	assert.Equal(t, checks.False, value(t, c, checker.Has3DConnectedGraph))
}

func TestMetalGeometry(t *testing.T) {
	cases := []struct {
		poly string
		want oms.State
		oms  checks.Tristate
	}{
		{"tet", oms.Closed, checks.False},
		{"see_saw_rect", oms.Open, checks.True},
	}
	for _, tc := range cases {
		t.Run(tc.poly, func(t *testing.T) {
			c := newChecker(t, metalSite(tc.poly))
			md, err := c.MetalDescriptors()
			require.NoError(t, err)
			require.Contains(t, md, "0")
			assert.Equal(t, tc.want, md["0"].Open)
			assert.Equal(t, 4, md["0"].CN)
			assert.Equal(t, tc.oms, value(t, c, checker.HasOMS))
		})
	}

	c := newChecker(t, oxideChain())
	_, err := c.MetalDescriptors()
	assert.ErrorIs(t, err, errors.ErrNoMetal)
	assert.Equal(t, checks.Unknown, value(t, c, checker.HasOMS))

	res, err := c.Descriptors(checker.HasMetal, checker.HasOMS)
	require.NoError(t, err)
	out, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t, `{"has_metal":false,"has_oms":null}`, string(out))
}

func TestSubsetIsLazy(t *testing.T) {
	s := metalSite("oct")
	c := newChecker(t, s)

	res, err := c.Descriptors(checker.HasMetal)
	require.NoError(t, err)
	assert.Equal(t, []string{checker.HasMetal}, res.Names())
	assert.Equal(t, checks.True, res[0].Value)
	assert.Zero(t, c.GraphBuilds())
	assert.Zero(t, c.SiteQueries())

	_, err = c.Descriptors(checker.Formula, checker.Density, checker.HasCarbon, checker.HasAtomicOverlaps)
	require.NoError(t, err)
	assert.Zero(t, c.GraphBuilds(), "composition and overlap work without bonds")

	_, err = c.Descriptors(checker.GraphHash, checker.HasOMS, checker.HasLoneMolecule)
	require.NoError(t, err)
	assert.Equal(t, 1, c.GraphBuilds())
	assert.Equal(t, s.Len(), c.SiteQueries())
}

func TestUnknownDescriptor(t *testing.T) {
	c := newChecker(t, metalSite("oct"))
	_, err := c.Descriptors(checker.GraphHash, "has_unicorns")
	assert.ErrorIs(t, err, errors.ErrUnknownDescriptor)
	assert.Equal(t, errors.KindUsage, errors.Classify(err))
	assert.Zero(t, c.GraphBuilds(), "validation precedes evaluation")

	_, err = c.Check("no_unicorns")
	assert.ErrorIs(t, err, errors.ErrUnknownDescriptor)
	_, err = c.Candidates(checks.KeyHasMetal)
	assert.ErrorIs(t, err, errors.ErrUnknownDescriptor)
}

func TestSupercellFingerprints(t *testing.T) {
	s := oxideChain()
	sc, err := s.Supercell(1, 2, 1)
	require.NoError(t, err)

	names := []string{
		checker.GraphHash, checker.UndecoratedGraphHash,
		checker.DecoratedScaffoldHash, checker.UndecoratedScaffoldHash,
	}
	a, err := newChecker(t, s).Descriptors(names...)
	require.NoError(t, err)
	b, err := newChecker(t, sc).Descriptors(names...)
	require.NoError(t, err)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("supercell fingerprints differ (-cell +supercell):\n%s", diff)
	}
}

func TestIdempotent(t *testing.T) {
	c := newChecker(t, metalSite("sq_pyr"))
	first, err := c.Descriptors()
	require.NoError(t, err)
	require.Equal(t, checker.Catalog(), first.Names())

	second, err := c.Descriptors()
	require.NoError(t, err)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("second evaluation differs:\n%s", diff)
	}
	assert.Equal(t, 1, c.GraphBuilds())

	again, err := newChecker(t, metalSite("sq_pyr")).Descriptors()
	require.NoError(t, err)
	assert.Empty(t, cmp.Diff(first, again), "fresh checker, same structure")
}

func TestConcurrentDescriptors(t *testing.T) {
	c := newChecker(t, metalSite("oct"))
	var wg sync.WaitGroup
	out := make([]checker.Result, 8)
	for i := range out {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := c.Descriptors()
			assert.NoError(t, err)
			out[i] = res
		}(i)
	}
	wg.Wait()
	assert.Equal(t, 1, c.GraphBuilds())
	for _, res := range out[1:] {
		assert.Empty(t, cmp.Diff(out[0], res))
	}
}

func TestJSON(t *testing.T) {
	c := newChecker(t, metalSite("tet"))
	res, err := c.Descriptors(checker.Name, checker.Formula, checker.SymmetryHash, checker.IsPorous, checker.HasMetal)
	require.NoError(t, err)
	raw, err := json.Marshal(res)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"tet","formula":"O4 Zn1","symmetry_hash":null,"is_porous":null,"has_metal":true}`,
		string(raw))
	assert.Equal(t,
		`{"name":"tet","formula":"O4 Zn1","symmetry_hash":null,"is_porous":null,"has_metal":true}`,
		string(raw), "keys keep request order")
}

func TestCollaborators(t *testing.T) {
	s := metalSite("oct")
	sym := external.SymmetryFunc(func(_ context.Context, _ *structure.Structure, precision float64) (external.Symmetry, error) {
		assert.Equal(t, external.DefaultSymmetryPrecision, precision)
		return external.Symmetry{Symbol: "Fm-3m", Number: 225, Wyckoff: []string{"a", "a"}}, nil
	})
	pores := external.PoreFunc(func(context.Context, *structure.Structure) (external.Pores, error) {
		return external.Pores{LIS: 6, LIFS: 3, LIFSP: 6}, nil
	})
	charges := external.ChargeFunc(func(_ context.Context, s *structure.Structure) ([]float64, error) {
		q := make([]float64, s.Len())
		q[0] = 3.5
		return q, nil
	})
	c := newChecker(t, s,
		checker.WithSymmetryAnalyzer(sym),
		checker.WithPoreAnalyzer(pores),
		checker.WithChargeEngine(charges),
	)
	res, err := c.Descriptors(checker.SymmetryHash, checker.IsPorous, checker.HasHighCharges)
	require.NoError(t, err)
	assert.Equal(t, checker.Result{
		{Name: checker.SymmetryHash, Value: "bZAfBWRsRBh4HUUBxHuATCJKZwSlcYB8eJKCGNcGin8=225"},
		{Name: checker.IsPorous, Value: checks.True},
		{Name: checker.HasHighCharges, Value: checks.True},
	}, res)

	crash := errors.New("spglib crashed")
	broken := external.SymmetryFunc(func(context.Context, *structure.Structure, float64) (external.Symmetry, error) {
		return external.Symmetry{}, crash
	})
	core, logs := observer.New(zapcore.WarnLevel)
	c = newChecker(t, s, checker.WithSymmetryAnalyzer(broken), checker.WithLogger(zap.New(core)))
	assert.Nil(t, value(t, c, checker.SymmetryHash))
	assert.Nil(t, c.SymmetryHash())

	h, err := c.Symmetry()
	assert.Nil(t, h)
	assert.ErrorIs(t, err, crash)
	assert.True(t, errors.IsUnavailable(err))
	require.Equal(t, 1, logs.FilterMessage("symmetry analysis failed, symmetry_hash is null").Len())

	h, err = newChecker(t, s).Symmetry()
	assert.Nil(t, h)
	assert.NoError(t, err)
}

func TestCandidates(t *testing.T) {
	s := builder.MustBuild(nil,
		builder.Dimer("C", "O", 1.3, center),
	)
	c := newChecker(t, s)
	cands, err := c.Candidates(checks.KeyUnderCoordinatedCarbon)
	require.NoError(t, err)
	require.Len(t, cands, 1)
	assert.Len(t, cands[0], 3)
	for _, p := range cands[0] {
		assert.InDelta(t, checks.DefaultThresholds().HydrogenBondLength, p.Sub(center).Norm(), 1e-6)
	}
	assert.Equal(t, checks.True, value(t, c, checker.HasUnderCoordinatedC))
}

func TestWithConfig(t *testing.T) {
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Graph.Strategy = "jmol"
	cfg.Thresholds.OMSOpenRatio = 0.2

	c := newChecker(t, metalSite("tet"), checker.WithConfig(cfg))
	assert.Equal(t, neighbors.Jmol, c.Strategy())
	assert.Equal(t, checks.True, value(t, c, checker.HasOMS), "lower ratio opens the tetrahedron")
}

func TestContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := newChecker(t, metalSite("oct"), checker.WithContext(ctx))
	_, err := c.Descriptors(checker.GraphHash)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, checks.True, value(t, c, checker.HasMetal))
}
