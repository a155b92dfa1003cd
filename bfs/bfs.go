package bfs

import (
	"context"
	"fmt"
	"sort"

	"github.com/katalvlaran/mofcheck/neighbors"
)

// walker holds the queue of one walk. visited may be shared between walks.
type walker struct {
	graph   Graph
	ctx     context.Context
	queue   []int
	visited []bool
	res     *Result
}

// BFS walks g breadth-first from start.
// Errors: ErrGraphNil, ErrStartVertexNotFound, or the context error.
func BFS(g Graph, start int, opts ...Option) (*Result, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	if start < 0 || start >= g.Len() {
		return nil, fmt.Errorf("%w: %d of %d", ErrStartVertexNotFound, start, g.Len())
	}
	w := newWalker(g, resolve(opts), make([]bool, g.Len()))
	w.enqueue(start, [3]int{})

	return w.res, w.loop()
}

// Components partitions the nodes of g into connected components.
// Each component is sorted ascending; components are ordered by their
// smallest node.
//
// Complexity: O(V + E).
func Components(g Graph, opts ...Option) ([][]int, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	o := resolve(opts)
	visited := make([]bool, g.Len())
	var out [][]int
	for root := 0; root < g.Len(); root++ {
		if visited[root] {
			continue
		}
		w := newWalker(g, o, visited)
		w.enqueue(root, [3]int{})
		if err := w.loop(); err != nil {
			return nil, err
		}
		comp := append([]int(nil), w.res.Order...)
		sort.Ints(comp)
		out = append(out, comp)
	}

	return out, nil
}

func newWalker(g Graph, o options, visited []bool) *walker {
	return &walker{
		graph:   g,
		ctx:     o.ctx,
		visited: visited,
		res:     &Result{Offset: make(map[int][3]int)},
	}
}

func (w *walker) enqueue(v int, off [3]int) {
	w.visited[v] = true
	w.res.Offset[v] = off
	w.queue = append(w.queue, v)
}

// loop drains the queue, enqueueing unseen neighbors in edge-ID order.
func (w *walker) loop() error {
	for len(w.queue) > 0 {
		select {
		case <-w.ctx.Done():
			return w.ctx.Err()
		default:
		}

		v := w.queue[0]
		w.queue = w.queue[1:]
		w.res.Order = append(w.res.Order, v)

		base := w.res.Offset[v]
		for _, arc := range w.graph.Adj(v) {
			if !w.visited[arc.To] {
				w.enqueue(arc.To, addImage(base, arc.Image))
			}
		}
	}
	return nil
}

func addImage(a, b [3]int) [3]int {
	return [3]int{a[0] + b[0], a[1] + b[1], a[2] + b[2]}
}

var _ Graph = (*neighbors.Graph)(nil)
