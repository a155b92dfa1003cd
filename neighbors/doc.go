// Package neighbors builds the periodic neighbor graph of a structure and
// answers memoized coordination queries against it.
//
// What
//
//   - Builder turns a structure.Structure into a Graph: an undirected
//     multigraph whose edges carry the lattice image of the far endpoint,
//     the bond distance and the species pair.
//
//   - Strategy selects the bonding rule from a closed set:
//
//     vesta            tabulated pair cutoffs (default)
//     jmol             covalent radius sum + 0.45 Å (fallback for unknown names)
//     minimumdistance  within (1+tol) of the nearest neighbor distance
//     brunner          up to the largest gap in the sorted distance list
//     voronoi          empty diametral sphere (Gabriel) neighbors
//
//   - Cache memoizes CoordinationNumber and ConnectedSites per site.
//
// Periodicity
//
//	An atom bonded to its own image along +a is, by translation symmetry,
//	bonded to the image along -a as well. Every edge is therefore visible
//	from both endpoints with opposite images, and a self-image edge adds
//	two to the coordination number.
//
// Data gaps
//
//	Missing radii or pair cutoffs fall back to the covalent-radius rule with
//	the median radius. Each fallback is recorded once in Graph.Notices and
//	logged at Warn. WithStrictElementData turns fallbacks into
//	errors.ErrMissingElementData.
//
// Determinism
//
//	Edges are sorted by (From, To, Image) before IDs are assigned, so equal
//	inputs yield identical graphs.
//
// Complexity (N = atoms, K = images within the search radius)
//
//   - vesta, jmol, minimumdistance, brunner: O(N·N·K)
//   - voronoi: O(N·M²) with M candidate neighbors per site
//   - Cache queries: O(deg) on first access, O(1) after
package neighbors
