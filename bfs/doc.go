// Package bfs walks a periodic neighbor graph breadth-first.
//
// BFS returns the visit order and, for every reached node, the lattice
// translation of the image it was reached at. Components partitions the
// graph into connected components for the floating-fragment detector.
//
// Offsets make cycle translations available for periodic dimensionality:
// a non-tree edge u→v with image t closes a cycle whose translation is
// Offset[u] + t − Offset[v].
//
// neighbors.Graph returns half-edges ordered by edge ID and BFS enqueues
// them in that order, so the visit sequence is reproducible.
//
// Complexity: O(V + E) time, O(V) memory.
//
//	res, err := bfs.BFS(g, 0, bfs.WithContext(ctx))
//	comps, err := bfs.Components(g)
//
// Errors: ErrGraphNil, ErrStartVertexNotFound, or the context error on
// cancellation.
package bfs
