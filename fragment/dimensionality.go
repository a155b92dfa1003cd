package fragment

import (
	"sort"

	"github.com/katalvlaran/mofcheck/bfs"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
)

// Component is a connected component of the unit-cell graph together with
// its periodic dimensionality.
type Component struct {
	Nodes []int
	Rank  int
}

// Dimensionality returns the connected components of g, ordered by their
// smallest node, with the rank of the lattice translations their cycles
// span.
//
// A BFS tree fixes one image per node; every bond u→v with image t then
// closes a cycle translating by offset(u) + t − offset(v). Tree bonds give
// zero, so only cycle bonds contribute. Only WithContext applies.
func Dimensionality(g *neighbors.Graph, opts ...Option) ([]Component, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	n := g.Len()
	comp := make([]int, n)
	for i := range comp {
		comp[i] = -1
	}
	off := make([][3]int, n)

	var out []Component
	for root := 0; root < n; root++ {
		if comp[root] >= 0 {
			continue
		}
		res, err := bfs.BFS(g, root, bfs.WithContext(o.ctx))
		if err != nil {
			return nil, err
		}
		id := len(out)
		nodes := append([]int(nil), res.Order...)
		for _, v := range nodes {
			comp[v] = id
			off[v] = res.Offset[v]
		}
		sort.Ints(nodes)
		out = append(out, Component{Nodes: nodes})
	}

	cycles := make([][][3]int, len(out))
	for _, e := range g.Edges() {
		var t [3]int
		for k := 0; k < 3; k++ {
			t[k] = off[e.From][k] + e.Image[k] - off[e.To][k]
		}
		if t != [3]int{} {
			c := comp[e.From]
			cycles[c] = append(cycles[c], t)
		}
	}
	for c := range out {
		out[c].Rank = geom.IntRank(cycles[c])
	}
	return out, nil
}

// MaxRank returns the largest Rank among comps, 0 when empty.
func MaxRank(comps []Component) int {
	m := 0
	for _, c := range comps {
		m = max(m, c.Rank)
	}
	return m
}
