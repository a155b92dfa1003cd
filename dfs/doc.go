// Package dfs finds bridges in a periodic neighbor multigraph.
//
// Bridges runs a Tarjan low-link walk over edge IDs. A bond is a bridge
// when removing it splits its component; pendant atoms (H, terminal O,
// halides) always hang off bridges. Edges are told apart by ID rather than
// by endpoint, so two bonds between the same pair through different
// periodic images form a cycle and neither is a bridge.
//
// Scaffold fingerprints drop every bridge and the atoms left isolated,
// keeping only the ring and periodic skeleton.
//
// Complexity: O(V+E) time, O(V) memory.
//
// Errors:
//
//   - ErrGraphNil  graph is nil
package dfs
