package neighbors

import (
	"sort"

	"github.com/katalvlaran/mofcheck/structure"
)

// Edge is one undirected bond. Image is the lattice translation of To
// relative to From; traversing the edge backwards negates it.
type Edge struct {
	ID       int
	From     int
	To       int
	Image    [3]int
	Distance float64
	Species  [2]string
}

// HalfEdge is an edge seen from one endpoint.
type HalfEdge struct {
	Edge  int    // Edge.ID
	To    int    // far endpoint
	Image [3]int // image of To relative to the near endpoint
}

// Notice records a degraded-data decision made while building.
type Notice struct {
	Species string
	Message string
}

// Graph is the periodic neighbor multigraph of a structure.
// Graphs are immutable once built and safe for concurrent reads.
type Graph struct {
	s        *structure.Structure
	strategy Strategy
	edges    []Edge
	adj      [][]HalfEdge
	notices  []Notice
}

// Structure returns the structure the graph was built from.
func (g *Graph) Structure() *structure.Structure { return g.s }

// Strategy returns the strategy that produced the graph.
func (g *Graph) Strategy() Strategy { return g.strategy }

// Len returns the number of nodes.
func (g *Graph) Len() int { return len(g.adj) }

// Edges returns all edges ordered by ID. The slice must not be modified.
func (g *Graph) Edges() []Edge { return g.edges }

// Adj returns the half-edges incident to i ordered by edge ID. A self-image
// edge appears twice, once per direction.
func (g *Graph) Adj(i int) []HalfEdge { return g.adj[i] }

// Degree returns the number of incident half-edges of i.
func (g *Graph) Degree(i int) int { return len(g.adj[i]) }

// Notices returns the data-gap notices recorded while building.
func (g *Graph) Notices() []Notice { return g.notices }

// Species returns the species of node i.
func (g *Graph) Species(i int) string { return g.s.Species(i) }

// bondKey is the canonical orientation of an undirected periodic bond.
type bondKey struct {
	from, to int
	image    [3]int
}

func negate(img [3]int) [3]int { return [3]int{-img[0], -img[1], -img[2]} }

func lessImage(a, b [3]int) bool {
	for k := 0; k < 3; k++ {
		if a[k] != b[k] {
			return a[k] < b[k]
		}
	}
	return false
}

// canonical orients (i → j, img) so that from <= to, and for self-image
// bonds the lexicographically larger of img and -img is kept.
func canonical(i, j int, img [3]int) bondKey {
	switch {
	case i < j:
		return bondKey{i, j, img}
	case i > j:
		return bondKey{j, i, negate(img)}
	default:
		if lessImage(img, negate(img)) {
			img = negate(img)
		}
		return bondKey{i, i, img}
	}
}

// newGraph assembles a graph from canonical bonds and their distances.
func newGraph(s *structure.Structure, st Strategy, bonds map[bondKey]float64, notices []Notice) *Graph {
	keys := make([]bondKey, 0, len(bonds))
	for k := range bonds {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(a, b int) bool {
		x, y := keys[a], keys[b]
		if x.from != y.from {
			return x.from < y.from
		}
		if x.to != y.to {
			return x.to < y.to
		}
		return lessImage(x.image, y.image)
	})

	g := &Graph{
		s:        s,
		strategy: st,
		edges:    make([]Edge, len(keys)),
		adj:      make([][]HalfEdge, s.Len()),
		notices:  notices,
	}
	for id, k := range keys {
		g.edges[id] = Edge{
			ID:       id,
			From:     k.from,
			To:       k.to,
			Image:    k.image,
			Distance: bonds[k],
			Species:  [2]string{s.Species(k.from), s.Species(k.to)},
		}
		g.adj[k.from] = append(g.adj[k.from], HalfEdge{Edge: id, To: k.to, Image: k.image})
		g.adj[k.to] = append(g.adj[k.to], HalfEdge{Edge: id, To: k.from, Image: negate(k.image)})
	}
	return g
}

// FromBonds builds a graph from explicit bonds (i, j, image of j). It is
// meant for tests and for callers that bring their own bonding rule.
// Duplicate bonds are merged.
func FromBonds(s *structure.Structure, bonds []Edge) *Graph {
	m := make(map[bondKey]float64, len(bonds))
	for _, b := range bonds {
		d := s.FracToCart(s.Frac(b.To).AddInt(b.Image).Sub(s.Frac(b.From))).Norm()
		m[canonical(b.From, b.To, b.Image)] = d
	}
	return newGraph(s, "", m, nil)
}
