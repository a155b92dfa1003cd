package dfs

import (
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/neighbors"
)

// Graph is the adjacency view walked by Bridges. *neighbors.Graph
// implements it.
type Graph interface {
	Len() int
	Adj(v int) []neighbors.HalfEdge
}

// Visitation states of a node.
const (
	White = iota // not reached yet
	Gray         // on the walk stack
	Black        // fully explored
)

// ErrGraphNil is returned when a nil graph is passed to Bridges.
var ErrGraphNil = errors.Sentinel(errors.ErrUsage, "dfs: graph is nil")

var _ Graph = (*neighbors.Graph)(nil)
