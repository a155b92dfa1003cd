// Package fragment finds finite molecules and lone atoms floating inside a
// periodic framework, and measures the periodic dimensionality of each
// connected component.
//
// What
//
//   - Expand replicates a neighbor graph into an na×nb×nc block. Node
//     cell·N+i is atom i of block cell (a,b,c), cell = a·nb·nc + b·nc + c.
//     Every bond is instantiated once per cell; a bond that leaves the
//     block wraps around and records the block offset as its image.
//   - Extract expands into 3×3×3, splits the block into components with
//     bfs.Components and keeps the components that never wrap. Those are
//     finite. Each physically distinct fragment is reported once, mapped
//     back to original atom indices, preferring a replica that touches
//     the home cell (0,0,0).
//   - Deduplicate collapses fragments with equal size and equal decorated
//     WL hash.
//   - Dimensionality returns, per component of the unit-cell graph, the
//     rank of the lattice translations spanned by its cycles: 0 for a
//     molecule, 1 for a chain, 2 for a layer, 3 for a framework.
//
// Why three cells
//
//	A single cell cannot tell a molecule straddling the cell boundary from
//	an infinite chain: both need a bond into the next cell. In a 3×3×3
//	block every finite fragment no wider than two cells has a replica
//	that stays inside the block.
//
// Complexity
//
//   - Extract: O(27·(N + E)).
//   - Dimensionality: O(N + E).
package fragment
