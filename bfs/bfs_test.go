package bfs_test

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/katalvlaran/mofcheck/bfs"
	"github.com/katalvlaran/mofcheck/builder"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
)

// path builds n carbon atoms bonded i–(i+1) with explicit bonds.
func path(t *testing.T, n int) *neighbors.Graph {
	t.Helper()
	cons := make([]builder.Constructor, n)
	for i := range cons {
		cons[i] = builder.Atom("C", geom.Vec3{float64(i), 0, 0})
	}
	s := builder.MustBuild(nil, cons...)
	var bonds []neighbors.Edge
	for i := 0; i+1 < n; i++ {
		bonds = append(bonds, neighbors.Edge{From: i, To: i + 1})
	}
	return neighbors.FromBonds(s, bonds)
}

// TestBFS_Errors verifies that invalid inputs are rejected.
func TestBFS_Errors(t *testing.T) {
	if _, err := bfs.BFS(nil, 0); !errors.Is(err, bfs.ErrGraphNil) {
		t.Errorf("nil graph: want ErrGraphNil, got %v", err)
	}
	g := path(t, 2)
	if _, err := bfs.BFS(g, 5); !errors.Is(err, bfs.ErrStartVertexNotFound) {
		t.Errorf("missing start: want ErrStartVertexNotFound, got %v", err)
	}
	if _, err := bfs.Components(nil); !errors.Is(err, bfs.ErrGraphNil) {
		t.Errorf("components nil graph: want ErrGraphNil, got %v", err)
	}
}

// TestBFS_Order checks the breadth-first visit sequence along a path.
func TestBFS_Order(t *testing.T) {
	g := path(t, 5)
	res, err := bfs.BFS(g, 2)
	if err != nil {
		t.Fatal(err)
	}
	if want := []int{2, 1, 3, 0, 4}; !reflect.DeepEqual(res.Order, want) {
		t.Errorf("Order = %v; want %v", res.Order, want)
	}
	for _, v := range res.Order {
		if off := res.Offset[v]; off != [3]int{} {
			t.Errorf("Offset[%d] = %v; want zero in one cell", v, off)
		}
	}
}

// TestBFS_Cancel stops both walks on a cancelled context.
func TestBFS_Cancel(t *testing.T) {
	g := path(t, 3)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := bfs.BFS(g, 0, bfs.WithContext(ctx)); !errors.Is(err, context.Canceled) {
		t.Errorf("BFS: want context.Canceled, got %v", err)
	}
	if _, err := bfs.Components(g, bfs.WithContext(ctx)); !errors.Is(err, context.Canceled) {
		t.Errorf("Components: want context.Canceled, got %v", err)
	}
}

// TestComponents_AndOffsets checks partitioning and image offsets on a
// periodic chain next to an isolated atom.
func TestComponents_AndOffsets(t *testing.T) {
	s := builder.MustBuild(
		[]builder.BuilderOption{builder.WithOrthoCell(3, 10, 10)},
		builder.Chain("C", 2, 0),
		builder.FracAtom("Ne", geom.Vec3{0.5, 0, 0}),
	)
	g, err := neighbors.Build(s, "jmol")
	if err != nil {
		t.Fatal(err)
	}
	comps, err := bfs.Components(g)
	if err != nil {
		t.Fatal(err)
	}
	if want := [][]int{{0, 1}, {2}}; !reflect.DeepEqual(comps, want) {
		t.Fatalf("Components = %v; want %v", comps, want)
	}

	res, err := bfs.BFS(g, 0)
	if err != nil {
		t.Fatal(err)
	}
	// 0 → 1 is reached through the first edge by ID: (0,1,[-1,0,0])
	if off := res.Offset[1]; off != [3]int{-1, 0, 0} {
		t.Errorf("Offset[1] = %v; want [-1 0 0]", off)
	}
}
