package dfs

import "sort"

// Bridges returns the IDs of the edges whose removal disconnects their
// component, in ascending order.
//
// Parallel edges (the same pair bonded through different images) and
// self-image edges are never bridges: the walk skips only the tree edge it
// arrived by, identified by edge ID rather than by parent node.
//
// Complexity: O(V + E) time, O(V) memory.
func Bridges(g Graph) ([]int, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	n := g.Len()
	b := &bridgeWalker{
		g:     g,
		state: make([]int, n),
		tin:   make([]int, n),
		low:   make([]int, n),
	}
	for v := 0; v < n; v++ {
		if b.state[v] == White {
			b.visit(v, -1)
		}
	}
	sort.Ints(b.out)

	return b.out, nil
}

// bridgeWalker carries Tarjan entry times and low-links.
type bridgeWalker struct {
	g     Graph
	state []int
	tin   []int
	low   []int
	timer int
	out   []int
}

func (b *bridgeWalker) visit(v, viaEdge int) {
	b.state[v] = Gray
	b.tin[v] = b.timer
	b.low[v] = b.timer
	b.timer++

	for _, arc := range b.g.Adj(v) {
		if arc.Edge == viaEdge {
			continue
		}
		switch b.state[arc.To] {
		case White:
			b.visit(arc.To, arc.Edge)
			b.low[v] = min(b.low[v], b.low[arc.To])
			if b.low[arc.To] > b.tin[v] {
				b.out = append(b.out, arc.Edge)
			}
		default:
			b.low[v] = min(b.low[v], b.tin[arc.To])
		}
	}
	b.state[v] = Black
}
