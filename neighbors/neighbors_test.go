package neighbors_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/katalvlaran/mofcheck/builder"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
)

func TestParseStrategy(t *testing.T) {
	cases := []struct {
		in   string
		want neighbors.Strategy
		ok   bool
	}{
		{"", neighbors.Vesta, true},
		{"VESTA", neighbors.Vesta, true},
		{" brunner ", neighbors.Brunner, true},
		{"voronoi", neighbors.Voronoi, true},
		{"crystalnn", neighbors.Jmol, false},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, ok := neighbors.ParseStrategy(tc.in)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestBuild_ChainAllStrategies(t *testing.T) {
	s := builder.MustBuild(
		[]builder.BuilderOption{builder.WithOrthoCell(3, 10, 10)},
		builder.Chain("C", 2, 0),
	)
	for _, st := range neighbors.Strategies() {
		t.Run(string(st), func(t *testing.T) {
			g, err := neighbors.NewBuilder(neighbors.WithStrategy(st)).Build(s)
			require.NoError(t, err)
			assert.Equal(t, st, g.Strategy())
			require.Len(t, g.Edges(), 2)
			c := neighbors.NewCache(g)
			assert.Equal(t, 2, c.CoordinationNumber(0))
			assert.Equal(t, 2, c.CoordinationNumber(1))
			for _, e := range g.Edges() {
				assert.LessOrEqual(t, e.From, e.To)
				assert.InDelta(t, 1.5, e.Distance, 1e-9)
			}
		})
	}
}

func TestBuild_SelfImageEdge(t *testing.T) {
	s := builder.MustBuild(
		[]builder.BuilderOption{builder.WithOrthoCell(1.5, 10, 10)},
		builder.Chain("C", 1, 0),
	)
	g, err := neighbors.Build(s, "jmol")
	require.NoError(t, err)
	require.Len(t, g.Edges(), 1)
	e := g.Edges()[0]
	assert.Equal(t, 0, e.From)
	assert.Equal(t, 0, e.To)
	assert.Equal(t, [3]int{1, 0, 0}, e.Image)

	c := neighbors.NewCache(g)
	sites := c.ConnectedSites(0)
	require.Len(t, sites, 2)
	assert.Equal(t, [3]int{1, 0, 0}, sites[0].Image)
	assert.Equal(t, [3]int{-1, 0, 0}, sites[1].Image)
}

func TestBuild_UnknownStrategyFallsBack(t *testing.T) {
	s := builder.MustBuild(nil, builder.Dimer("C", "O", 1.2, geom.Vec3{5, 5, 5}))
	g, err := neighbors.Build(s, "crystalnn")
	require.NoError(t, err)
	assert.Equal(t, neighbors.Jmol, g.Strategy())
	require.NotEmpty(t, g.Notices())
	assert.Contains(t, g.Notices()[0].Message, "crystalnn")
	assert.Len(t, g.Edges(), 1)
}

func TestBuilder_StrategyNameResolvedOnce(t *testing.T) {
	s := builder.MustBuild(nil, builder.Dimer("C", "O", 1.2, geom.Vec3{5, 5, 5}))
	core, logs := observer.New(zapcore.WarnLevel)

	b := neighbors.NewBuilder(
		neighbors.WithStrategyName("nope"),
		neighbors.WithLogger(zap.New(core)),
	)
	assert.Equal(t, neighbors.FallbackStrategy, b.Strategy())

	g, err := b.Build(s)
	require.NoError(t, err)
	assert.Equal(t, neighbors.FallbackStrategy, g.Strategy())
	require.Len(t, g.Notices(), 1)
	assert.Equal(t, "unknown strategy nope, used jmol", g.Notices()[0].Message)

	warned := logs.FilterMessage("unknown neighbor strategy, using fallback").All()
	require.Len(t, warned, 1)
	assert.Equal(t, "nope", warned[0].ContextMap()["requested"])

	g, err = neighbors.NewBuilder(neighbors.WithStrategyName("VESTA")).Build(s)
	require.NoError(t, err)
	assert.Equal(t, neighbors.Vesta, g.Strategy())
	assert.Empty(t, g.Notices())
}

func TestBuild_MissingPairCutoff(t *testing.T) {
	s := builder.MustBuild(nil, builder.Dimer("U", "U", 2.8, geom.Vec3{5, 5, 5}))

	g, err := neighbors.Build(s, "vesta")
	require.NoError(t, err)
	require.Len(t, g.Notices(), 1)
	assert.Equal(t, "U-U", g.Notices()[0].Species)
	assert.Len(t, g.Edges(), 1, "jmol rule 1.96+1.96+0.45 bonds 2.8 Å")

	_, err = neighbors.NewBuilder(neighbors.WithStrictElementData()).Build(s)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrMissingElementData))
	assert.Equal(t, errors.KindDataGap, errors.Classify(err))
}

func TestBuild_OverlapIsNotABond(t *testing.T) {
	s := builder.MustBuild(nil, builder.Dimer("H", "H", 0.3, geom.Vec3{5, 5, 5}))
	for _, st := range neighbors.Strategies() {
		g, err := neighbors.NewBuilder(neighbors.WithStrategy(st)).Build(s)
		require.NoError(t, err)
		assert.Empty(t, g.Edges(), st)
	}
}

func TestBuild_OptionsAndErrors(t *testing.T) {
	_, err := neighbors.NewBuilder().Build(nil)
	assert.ErrorIs(t, err, neighbors.ErrStructureNil)

	s := builder.MustBuild(nil, builder.Atom("C", geom.Vec3{1, 1, 1}))
	_, err = neighbors.NewBuilder(neighbors.WithCutoff(0)).Build(s)
	assert.ErrorIs(t, err, neighbors.ErrOptionViolation)
	assert.True(t, errors.IsUsage(err))

	_, err = neighbors.NewBuilder(neighbors.WithTolerance(-1)).Build(s)
	assert.ErrorIs(t, err, neighbors.ErrOptionViolation)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = neighbors.NewBuilder(neighbors.WithContext(ctx)).Build(s)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestBuild_OnSiteAndDeterminism(t *testing.T) {
	s := builder.MustBuild(
		[]builder.BuilderOption{builder.WithCubicCell(10), builder.WithBondLength(2.0)},
		builder.Polyhedron("Zn", "O", "oct", geom.Vec3{5, 5, 5}),
	)
	var visited []int
	b := neighbors.NewBuilder(neighbors.WithOnSite(func(i int) { visited = append(visited, i) }))
	g1, err := b.Build(s)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6}, visited)

	g2, err := b.Build(s)
	require.NoError(t, err)
	assert.Equal(t, g1.Edges(), g2.Edges())
	assert.Equal(t, 6, neighbors.NewCache(g1).CoordinationNumber(0))
}

func TestCache_StatsAndLookup(t *testing.T) {
	s := builder.MustBuild(nil,
		builder.Dimer("C", "O", 1.2, geom.Vec3{5, 5, 5}),
	)
	g, err := neighbors.Build(s, "")
	require.NoError(t, err)
	c := neighbors.NewCache(g)

	var wg sync.WaitGroup
	for k := 0; k < 8; k++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = c.CoordinationNumber(0)
		}()
	}
	wg.Wait()
	st := c.Stats()
	assert.Equal(t, 8, st.Queries)
	assert.Equal(t, 1, st.Misses)

	cn, sites, err := c.Lookup(1)
	require.NoError(t, err)
	assert.Equal(t, 1, cn)
	assert.Equal(t, "C", sites[0].Species)
	assert.InDelta(t, 1.2, sites[0].Distance, 1e-9)

	_, _, err = c.Lookup(2)
	assert.True(t, errors.Is(err, errors.ErrSiteOutOfRange))

	shifted := c.ConnectedSitesFrom(0, [3]int{0, 1, 0})
	assert.Equal(t, [3]int{0, 1, 0}, shifted[0].Image)
	assert.InDelta(t, 25.0, shifted[0].Coords[1], 1e-9)
}

func TestFromBonds(t *testing.T) {
	s := builder.MustBuild(
		[]builder.BuilderOption{builder.WithCubicCell(4)},
		builder.FracAtom("C", geom.Vec3{0, 0, 0}),
		builder.FracAtom("C", geom.Vec3{0.5, 0, 0}),
	)
	g := neighbors.FromBonds(s, []neighbors.Edge{
		{From: 1, To: 0, Image: [3]int{1, 0, 0}},
		{From: 0, To: 1, Image: [3]int{-1, 0, 0}},
		{From: 0, To: 1},
	})
	require.Len(t, g.Edges(), 2)
	assert.Equal(t, [3]int{-1, 0, 0}, g.Edges()[0].Image)
	assert.Equal(t, [3]int{0, 0, 0}, g.Edges()[1].Image)
	assert.InDelta(t, 2.0, g.Edges()[0].Distance, 1e-9)
}
