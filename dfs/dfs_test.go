package dfs_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/katalvlaran/mofcheck/builder"
	"github.com/katalvlaran/mofcheck/dfs"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
	"github.com/katalvlaran/mofcheck/structure"
)

// atoms places n carbons on a line in a large cell.
func atoms(n int) *structure.Structure {
	cons := make([]builder.Constructor, n)
	for i := range cons {
		cons[i] = builder.Atom("C", geom.Vec3{float64(i), 0, 0})
	}
	return builder.MustBuild(nil, cons...)
}

func bonds(pairs ...[2]int) []neighbors.Edge {
	out := make([]neighbors.Edge, len(pairs))
	for k, p := range pairs {
		out[k] = neighbors.Edge{From: p[0], To: p[1]}
	}
	return out
}

func TestBridges_NilGraph(t *testing.T) {
	if _, err := dfs.Bridges(nil); !errors.Is(err, dfs.ErrGraphNil) {
		t.Errorf("want ErrGraphNil, got %v", err)
	}
}

// TestBridges covers pendant atoms, rings and parallel periodic bonds.
func TestBridges(t *testing.T) {
	cases := []struct {
		name  string
		n     int
		edges []neighbors.Edge
		want  []int
	}{
		{
			name:  "path",
			n:     3,
			edges: bonds([2]int{0, 1}, [2]int{1, 2}),
			want:  []int{0, 1},
		},
		{
			name:  "ring with pendant",
			n:     4,
			edges: bonds([2]int{0, 1}, [2]int{1, 2}, [2]int{0, 2}, [2]int{2, 3}),
			want:  []int{3},
		},
		{
			name: "parallel images",
			n:    2,
			edges: []neighbors.Edge{
				{From: 0, To: 1},
				{From: 0, To: 1, Image: [3]int{-1, 0, 0}},
			},
			want: nil,
		},
		{
			name: "self image plus pendant",
			n:    2,
			edges: []neighbors.Edge{
				{From: 0, To: 0, Image: [3]int{1, 0, 0}},
				{From: 0, To: 1},
			},
			want: []int{1},
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g := neighbors.FromBonds(atoms(tc.n), tc.edges)
			got, err := dfs.Bridges(g)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Bridges = %v; want %v", got, tc.want)
			}
		})
	}
}
