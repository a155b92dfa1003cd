package bfs

import (
	"context"

	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/neighbors"
)

// Graph is the adjacency view walked by BFS. *neighbors.Graph implements it.
type Graph interface {
	Len() int
	Adj(v int) []neighbors.HalfEdge
}

var (
	// ErrStartVertexNotFound is returned when the start node is out of range.
	ErrStartVertexNotFound = errors.Sentinel(errors.ErrUsage, "bfs: start vertex not found")

	// ErrGraphNil is returned if a nil graph is passed.
	ErrGraphNil = errors.Sentinel(errors.ErrUsage, "bfs: graph is nil")
)

// Option configures a walk.
type Option func(*options)

type options struct {
	ctx context.Context
}

// WithContext sets a context checked once per dequeued node.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

func resolve(opts []Option) options {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Result is the outcome of one walk.
type Result struct {
	// Order lists nodes in visit sequence.
	Order []int
	// Offset maps each reached node to the lattice translation of the image
	// reached, relative to the start, summed along tree arcs.
	Offset map[int][3]int
}
