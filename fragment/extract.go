package fragment

import (
	"sort"
	"strconv"
	"strings"

	"github.com/katalvlaran/mofcheck/bfs"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
	"github.com/katalvlaran/mofcheck/wlhash"
)

// Extract returns the finite fragments of g.
//
// Errors: ErrGraphNil, or the context error on cancellation.
func Extract(g *neighbors.Graph, opts ...Option) (*Result, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	sc, err := Expand(g, BlockSize, BlockSize, BlockSize)
	if err != nil {
		return nil, err
	}
	comps, err := bfs.Components(sc.Graph, bfs.WithContext(o.ctx))
	if err != nil {
		return nil, err
	}

	type replica struct {
		nodes []int
		home  bool
	}
	byKey := make(map[string]*replica)
	var keys []string
	for _, comp := range comps {
		if wraps(sc.Graph, comp) {
			continue
		}
		key, home := signature(sc, comp)
		r, seen := byKey[key]
		switch {
		case !seen:
			byKey[key] = &replica{nodes: comp, home: home}
			keys = append(keys, key)
		case home && !r.home:
			r.nodes, r.home = comp, true
		}
	}

	res := &Result{Fragments: make([]Fragment, 0, len(keys))}
	for _, k := range keys {
		res.Fragments = append(res.Fragments, build(sc, byKey[k].nodes, o.centered))
	}
	sort.Slice(res.Fragments, func(a, b int) bool {
		return res.Fragments[a].Indices[0] < res.Fragments[b].Indices[0]
	})
	if o.dedup {
		res.Fragments = Deduplicate(res.Fragments)
	}
	return res, nil
}

// wraps reports whether any bond of comp leaves the block.
func wraps(g *neighbors.Graph, comp []int) bool {
	for _, v := range comp {
		for _, arc := range g.Adj(v) {
			if arc.Image != [3]int{} {
				return true
			}
		}
	}
	return false
}

// signature is the sorted original-index set of comp and whether comp
// touches the home cell.
func signature(sc *Supercell, comp []int) (string, bool) {
	idx := make([]int, len(comp))
	home := false
	for k, v := range comp {
		idx[k] = sc.Original(v)
		home = home || v < sc.N
	}
	sort.Ints(idx)
	parts := make([]string, len(idx))
	for k, i := range idx {
		parts[k] = strconv.Itoa(i)
	}
	return strings.Join(parts, ","), home
}

// build maps a non-wrapping block component back to original indices.
// Such a component holds each original atom at most once.
func build(sc *Supercell, comp []int, centered bool) Fragment {
	nodes := append([]int(nil), comp...)
	sort.Slice(nodes, func(a, b int) bool { return sc.Original(nodes[a]) < sc.Original(nodes[b]) })

	s := sc.Graph.Structure()
	pos := make(map[int]int, len(nodes))
	f := Fragment{
		Indices: make([]int, len(nodes)),
		Species: make([]string, len(nodes)),
		Coords:  make([]geom.Vec3, len(nodes)),
		adj:     make([][]int, len(nodes)),
	}
	for k, v := range nodes {
		pos[v] = k
		f.Indices[k] = sc.Original(v)
		f.Species[k] = s.Species(v)
		f.Coords[k] = s.Cart(v)
	}
	for k, v := range nodes {
		for _, arc := range sc.Graph.Adj(v) {
			f.adj[k] = append(f.adj[k], pos[arc.To])
		}
	}
	if centered {
		c := f.Centroid()
		for k := range f.Coords {
			f.Coords[k] = f.Coords[k].Sub(c)
		}
	}
	return f
}

// Deduplicate keeps the first fragment of every (size, decorated WL hash)
// class.
func Deduplicate(frags []Fragment) []Fragment {
	seen := make(map[string]bool, len(frags))
	out := make([]Fragment, 0, len(frags))
	for _, f := range frags {
		key := strconv.Itoa(f.Len()) + ":" + wlhash.Hash(f)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}
