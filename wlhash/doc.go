// Package wlhash computes Weisfeiler–Lehman fingerprints of species
// decorated graphs.
//
// What
//
//   - Hash(l, opts...) refines node labels for a fixed number of rounds
//     (default 3). Each round replaces a label by the digest of the old
//     label and the sorted multiset of neighbor labels.
//   - The fingerprint digests the sorted multiset of final labels. Counts
//     are divided by their greatest common divisor first, so an n-fold
//     supercell hashes like the cell it was built from.
//   - Decorated, Undecorated, DecoratedScaffold and UndecoratedScaffold
//     hash a neighbors.Graph directly. Scaffolds drop every bridge
//     (dfs.Bridges) and then every node left without neighbors.
//
// Guarantees
//
//   - Isomorphic labeled graphs always hash identically. Rigid rotation of
//     the structure does not change its graph, so it does not change the
//     hash either.
//   - Distinct graphs usually hash differently. WL refinement cannot
//     separate every pair of non-isomorphic graphs (regular graphs of equal
//     degree are the classic counterexample), so equal hashes are strong
//     evidence, not proof.
//
// Digests use BLAKE3; fingerprints are 32 lowercase hex characters.
package wlhash
