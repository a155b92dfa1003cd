package checks_test

import (
	"context"
	"encoding/json"
	"math"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mofcheck/builder"
	"github.com/katalvlaran/mofcheck/checks"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/external"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
	"github.com/katalvlaran/mofcheck/structure"
)

var origin = geom.Vec3{10, 10, 10}

// lazyEnv builds an Env whose coordination cache is built on demand and
// counts the builds.
func lazyEnv(t *testing.T, s *structure.Structure, opts ...checks.EnvOption) (*checks.Env, *int) {
	t.Helper()
	var (
		once   sync.Once
		cache  *neighbors.Cache
		err    error
		builds int
	)
	coord := func() (*neighbors.Cache, error) {
		once.Do(func() {
			builds++
			var g *neighbors.Graph
			if g, err = neighbors.Build(s, "vesta"); err == nil {
				cache = neighbors.NewCache(g)
			}
		})
		return cache, err
	}
	return checks.NewEnv(s, coord, opts...), &builds
}

func result(t *testing.T, c checks.Check) checks.Result {
	t.Helper()
	r, err := c.Result()
	require.NoError(t, err)
	return r
}

func TestComposition(t *testing.T) {
	s := builder.MustBuild(nil, builder.Dimer("Zn", "O", 1.9, origin))
	env, builds := lazyEnv(t, s)

	assert.Equal(t, checks.False, result(t, checks.NewHasCarbon(env)).OK)
	assert.Equal(t, checks.False, result(t, checks.NewHasHydrogen(env)).OK)
	assert.Equal(t, checks.False, result(t, checks.NewHasNitrogen(env)).OK)
	assert.Equal(t, checks.True, result(t, checks.NewHasMetal(env)).OK)
	assert.Zero(t, *builds, "composition checks never build the graph")
}

func TestAtomicOverlap(t *testing.T) {
	s := builder.MustBuild(nil,
		builder.Dimer("C", "C", 0.5, origin),
		builder.Atom("Ar", geom.Vec3{3, 3, 3}),
	)
	env, builds := lazyEnv(t, s)
	c := checks.NewAtomicOverlap(env)
	r := result(t, c)
	assert.Equal(t, checks.False, r.OK)
	assert.Equal(t, []int{0, 1}, r.Flagged)
	assert.Zero(t, *builds)

	env, _ = lazyEnv(t, s, checks.WithThresholds(checks.Thresholds{OverlapTolerance: 0.5}))
	assert.Equal(t, checks.True, result(t, checks.NewAtomicOverlap(env)).OK)
}

func TestUnderCoordinatedCarbon_CN1(t *testing.T) {
	s := builder.MustBuild(nil, builder.Dimer("C", "O", 1.2, origin))
	env, _ := lazyEnv(t, s)
	c := checks.NewUnderCoordinatedCarbon(env)

	flagged, err := c.Flagged()
	require.NoError(t, err)
	assert.Equal(t, []int{0}, flagged)
	cands, err := c.Candidates()
	require.NoError(t, err)
	require.Len(t, cands, 1)
	require.Len(t, cands[0], 3)

	bond := s.Cart(1).Sub(s.Cart(0))
	for k, p := range cands[0] {
		v := p.Sub(s.Cart(0))
		assert.InDelta(t, 1.0, v.Norm(), 1e-9)
		assert.InDelta(t, 109.47, geom.Angle(v, bond), 0.1)
		w := cands[0][(k+1)%3].Sub(s.Cart(0))
		assert.InDelta(t, 109.47, geom.Angle(v, w), 0.1)
	}
}

func TestUnderCoordinatedCarbon_CN2(t *testing.T) {
	bent := []geom.Vec3{{}, {1.5, 0, 0}, {-0.75, 1.299, 0}}
	s := builder.MustBuild(nil, builder.Molecule([]string{"C", "C", "C"}, bent, origin))
	env, _ := lazyEnv(t, s)
	r := result(t, checks.NewUnderCoordinatedCarbon(env))
	assert.Equal(t, []int{0, 1, 2}, r.Flagged)
	require.Len(t, r.Candidates, 3)
	require.Len(t, r.Candidates[0], 1)
	h := r.Candidates[0][0].Sub(origin)
	assert.InDelta(t, 1.0, h.Norm(), 1e-9)
	assert.InDelta(t, 120, geom.Angle(h, bent[1]), 0.1)

	chain := builder.MustBuild([]builder.BuilderOption{builder.WithOrthoCell(3, 10, 10)}, builder.Chain("C", 2, 0))
	env, _ = lazyEnv(t, chain)
	r = result(t, checks.NewUnderCoordinatedCarbon(env))
	assert.Equal(t, checks.True, r.OK)
	assert.Empty(t, r.Flagged)
	assert.Empty(t, r.Candidates)
}

func TestUnderCoordinatedNitrogen_CN1(t *testing.T) {
	n := origin
	c := origin.Add(geom.Vec3{1.47, 0, 0})
	species := []string{"N", "C", "H", "H", "H"}
	pos := append([]geom.Vec3{n, c}, checks.PlaceSP3OnCN1(c, n, 1.09)...)
	offsets := make([]geom.Vec3, len(pos))
	for k, p := range pos {
		offsets[k] = p.Sub(origin)
	}
	s := builder.MustBuild(nil, builder.Molecule(species, offsets, origin))
	env, _ := lazyEnv(t, s)

	r := result(t, checks.NewUnderCoordinatedNitrogen(env))
	assert.Equal(t, []int{0}, r.Flagged)
	require.Len(t, r.Candidates, 1)
	assert.InDelta(t, 0, r.Candidates[0][0].Sub(geom.Vec3{9, 10, 10}).Norm(), 1e-9)

	assert.Equal(t, checks.True, result(t, checks.NewUnderCoordinatedCarbon(env)).OK)
	assert.Equal(t, checks.True, result(t, checks.NewHasNitrogen(env)).OK)
}

func TestOverCoordination(t *testing.T) {
	ch5 := builder.MustBuild([]builder.BuilderOption{builder.WithBondLength(1.09)},
		builder.Polyhedron("C", "H", "tri_bipyr", origin))
	env, _ := lazyEnv(t, ch5)
	assert.Equal(t, []int{0}, result(t, checks.NewOverCoordinatedCarbon(env)).Flagged)
	assert.Equal(t, checks.True, result(t, checks.NewOverCoordinatedNitrogen(env)).OK)
	assert.Equal(t, checks.True, result(t, checks.NewOverCoordinatedHydrogen(env)).OK)

	h3 := builder.MustBuild(nil, builder.Molecule([]string{"H", "H", "H"},
		[]geom.Vec3{{}, {0.8, 0, 0}, {1.6, 0, 0}}, origin))
	env, builds := lazyEnv(t, h3)
	assert.Equal(t, []int{1}, result(t, checks.NewOverCoordinatedHydrogen(env)).Flagged)
	assert.Zero(t, *builds)
}

func TestMetalCoordination(t *testing.T) {
	lone := builder.MustBuild(nil,
		builder.Atom("Na", origin),
		builder.Atom("La", geom.Vec3{2, 2, 2}),
	)
	env, _ := lazyEnv(t, lone)
	assert.Equal(t, []int{0}, result(t, checks.NewUnderCoordinatedAlkaliAlkaline(env)).Flagged)
	assert.Equal(t, []int{1}, result(t, checks.NewUnderCoordinatedRareEarth(env)).Flagged)
	assert.Equal(t, []int{0, 1}, result(t, checks.NewGeometricallyExposedMetal(env)).Flagged)

	oct := builder.MustBuild([]builder.BuilderOption{builder.WithBondLength(2.4)},
		builder.Polyhedron("Na", "O", "oct", origin))
	env, _ = lazyEnv(t, oct)
	assert.Equal(t, checks.True, result(t, checks.NewUnderCoordinatedAlkaliAlkaline(env)).OK)
	assert.Equal(t, checks.True, result(t, checks.NewGeometricallyExposedMetal(env)).OK)
	assert.Equal(t, checks.True, result(t, checks.NewUnderCoordinatedRareEarth(env)).OK)
}

func TestFalseTerminalOxo(t *testing.T) {
	s := builder.MustBuild(nil,
		builder.Dimer("Zn", "O", 1.8, origin),
		builder.Dimer("V", "O", 1.6, geom.Vec3{3, 3, 3}),
	)
	env, _ := lazyEnv(t, s)
	assert.Equal(t, []int{0}, result(t, checks.NewFalseTerminalOxo(env)).Flagged)
}

func TestGlobalChecks(t *testing.T) {
	chainAndAtom := builder.MustBuild([]builder.BuilderOption{builder.WithOrthoCell(3, 10, 10)},
		builder.Chain("C", 2, 0), builder.FracAtom("Ar", geom.Vec3{0.5, 0, 0}))
	env, _ := lazyEnv(t, chainAndAtom)
	fl := checks.NewFloatingMolecule(env)
	assert.Equal(t, []int{2}, result(t, fl).Flagged)
	frags, err := fl.Fragments()
	require.NoError(t, err)
	assert.Equal(t, [][]int{{2}}, frags.Indices())
	assert.Equal(t, checks.False, result(t, checks.NewThreeDimensional(env)).OK)

	net := builder.MustBuild([]builder.BuilderOption{builder.WithCubicCell(1.5)}, builder.Net("C"))
	env, _ = lazyEnv(t, net)
	assert.Equal(t, checks.True, result(t, checks.NewFloatingMolecule(env)).OK)
	assert.Equal(t, checks.True, result(t, checks.NewThreeDimensional(env)).OK)
}

func TestNoOpenMetalSite(t *testing.T) {
	cases := []struct {
		name string
		s    *structure.Structure
		ok   checks.Tristate
		flag []int
	}{
		{"tet", builder.MustBuild(nil, builder.Polyhedron("Zn", "O", "tet", origin)), checks.True, nil},
		{"see-saw", builder.MustBuild(nil, builder.Polyhedron("Zn", "O", "see_saw_rect", origin)), checks.False, []int{0}},
		{"no metal", builder.MustBuild(nil, builder.Dimer("C", "O", 1.13, origin)), checks.Unknown, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			env, _ := lazyEnv(t, tc.s)
			r := result(t, checks.NewNoOpenMetalSite(env))
			assert.Equal(t, tc.ok, r.OK)
			assert.Equal(t, tc.flag, r.Flagged)
		})
	}

	// a nine-coordinate site cannot be classified
	species := []string{"Zn"}
	offsets := []geom.Vec3{{}}
	for _, d := range geom.FibonacciSphere(9) {
		species = append(species, "O")
		offsets = append(offsets, d.Scale(2.0))
	}
	env, _ := lazyEnv(t, builder.MustBuild(nil, builder.Molecule(species, offsets, origin)))
	r := result(t, checks.NewNoOpenMetalSite(env))
	assert.Equal(t, checks.Unknown, r.OK)
	assert.NotEmpty(t, r.Note)
}

func TestCollaborators(t *testing.T) {
	s := builder.MustBuild(nil, builder.Dimer("Zn", "O", 1.9, origin))

	env, _ := lazyEnv(t, s)
	r := result(t, checks.NewPorosity(env))
	assert.Equal(t, checks.Unknown, r.OK)
	assert.Contains(t, r.Note, "pore analyzer")
	assert.Equal(t, checks.Unknown, result(t, checks.NewHighCharges(env)).OK)

	calls := 0
	pores := func(lifs float64) external.PoreFunc {
		return func(ctx context.Context, _ *structure.Structure) (external.Pores, error) {
			calls++
			if _, ok := ctx.Deadline(); !ok {
				return external.Pores{}, errors.New("no deadline")
			}
			return external.Pores{LIFS: lifs}, nil
		}
	}
	env, _ = lazyEnv(t, s, checks.WithPoreAnalyzer(pores(3.0)), checks.WithTimeout(time.Minute))
	p := checks.NewPorosity(env)
	assert.Equal(t, checks.True, result(t, p).OK)
	assert.Equal(t, checks.True, result(t, p).OK)
	assert.Equal(t, 1, calls, "memoized")

	env, _ = lazyEnv(t, s, checks.WithPoreAnalyzer(pores(2.0)), checks.WithTimeout(time.Minute))
	assert.Equal(t, checks.False, result(t, checks.NewPorosity(env)).OK)

	env, _ = lazyEnv(t, s, checks.WithPoreAnalyzer(pores(3.0)))
	r = result(t, checks.NewPorosity(env))
	assert.Equal(t, checks.Unknown, r.OK)
	assert.Equal(t, "no deadline", r.Note)

	charges := external.ChargeFunc(func(context.Context, *structure.Structure) ([]float64, error) {
		return []float64{3.5, -0.2}, nil
	})
	env, _ = lazyEnv(t, s, checks.WithChargeEngine(charges))
	r = result(t, checks.NewHighCharges(env))
	assert.Equal(t, checks.False, r.OK)
	assert.Equal(t, []int{0}, r.Flagged)

	short := external.ChargeFunc(func(context.Context, *structure.Structure) ([]float64, error) {
		return []float64{0.1}, nil
	})
	env, _ = lazyEnv(t, s, checks.WithChargeEngine(short))
	assert.Equal(t, checks.Unknown, result(t, checks.NewHighCharges(env)).OK)
}

func TestGraphErrorPropagates(t *testing.T) {
	s := builder.MustBuild(nil, builder.Atom("C", origin))
	boom := errors.New("graph failed")
	env := checks.NewEnv(s, func() (*neighbors.Cache, error) { return nil, boom })
	_, err := checks.NewUnderCoordinatedCarbon(env).Result()
	assert.ErrorIs(t, err, boom)
	ok, err := checks.NewThreeDimensional(env).OK()
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, checks.Unknown, ok)
}

func TestRegistry(t *testing.T) {
	s := builder.MustBuild(nil, builder.Polyhedron("Zn", "O", "tet", origin))
	env, builds := lazyEnv(t, s)
	reg := checks.NewRegistry(env)

	keys := reg.Keys()
	require.Len(t, keys, 19)
	assert.Equal(t, checks.KeyHasCarbon, keys[0])
	assert.Equal(t, checks.KeyThreeDimensional, keys[len(keys)-1])
	for _, k := range keys {
		c, ok := reg.Get(k)
		require.True(t, ok, k)
		assert.Equal(t, k, c.Key())
		assert.NotEmpty(t, c.Name())
		assert.NotEmpty(t, c.Description())
	}
	_, ok := reg.Get("crystalnn")
	assert.False(t, ok)
	assert.Panics(t, func() { reg.Must("crystalnn") })

	ok2, err := reg.Must(checks.KeyHasMetal).OK()
	require.NoError(t, err)
	assert.Equal(t, checks.True, ok2)
	assert.Zero(t, *builds)

	_, err = reg.Must(checks.KeyNoOpenMetalSite).Result()
	require.NoError(t, err)
	_, err = reg.Must(checks.KeyFloatingMolecule).Result()
	require.NoError(t, err)
	assert.Equal(t, 1, *builds)

	_, ok = reg.Must(checks.KeyUnderCoordinatedCarbon).(checks.MissingCheck)
	assert.True(t, ok)
}

func TestPlacement(t *testing.T) {
	c := geom.Vec3{}
	assert.Equal(t, geom.Vec3{-1, 0, 0}, checks.PlaceSP(c, geom.Vec3{2, 0, 0}, 1))

	p := checks.PlaceSP2(c, geom.Vec3{1, 0, 0}, geom.Vec3{0, 1, 0}, 1)
	assert.InDelta(t, -math.Sqrt2/2, p[0], 1e-12)
	assert.InDelta(t, -math.Sqrt2/2, p[1], 1e-12)

	// collinear neighbors still yield a position at the bond length
	p = checks.PlaceSP2(c, geom.Vec3{1, 0, 0}, geom.Vec3{-1, 0, 0}, 1.1)
	assert.InDelta(t, 1.1, p.Norm(), 1e-12)
}

func TestOpenAngle(t *testing.T) {
	c := geom.Vec3{}
	assert.Equal(t, 360.0, checks.OpenAngle(c, nil, nil))

	single := checks.OpenAngle(c, []geom.Vec3{{2, 0, 0}}, []float64{1})
	assert.InDelta(t, 360-2*30, single, 0.5)

	tet, _ := geom.Polyhedron("tet")
	lig := make([]geom.Vec3, len(tet))
	radii := make([]float64, len(tet))
	for k, v := range tet {
		lig[k] = v.Scale(2.4)
		radii[k] = 1.5
	}
	// opposite a vertex: 180 − 109.47 minus the ligand half width
	want := 2 * (180 - 109.4712 - math.Asin(1.5/2.4)*180/math.Pi)
	assert.InDelta(t, want, checks.OpenAngle(c, lig, radii), 3)
}

func TestTristateJSON(t *testing.T) {
	b, err := json.Marshal(checks.Result{OK: checks.Unknown, Note: "x"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": null, "note": "x"}`, string(b))

	var got []checks.Tristate
	require.NoError(t, json.Unmarshal([]byte(`[true, false, null]`), &got))
	assert.Equal(t, []checks.Tristate{checks.True, checks.False, checks.Unknown}, got)
	assert.Equal(t, checks.False, checks.True.Not())
	assert.Equal(t, checks.Unknown, checks.Unknown.Not())
}
