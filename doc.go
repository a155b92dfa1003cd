// Package mofcheck screens periodic framework structures (MOFs, COFs,
// zeolites) for the structural problems that make a computed structure
// unusable: mis-coordinated atoms, open metal sites, floating solvent,
// overlapping atoms and broken connectivity.
//
// What is in the box?
//
//   - Neighbor graphs: five bonding strategies over periodic images
//   - Coordination cache: memoized connected sites per atom
//   - Fragments: 3×3×3 supercell detection of finite molecules
//   - Open metal sites: order parameter profiles for CN 4–8
//   - Checks: nineteen memoized, lazily evaluated structure checks
//   - Fingerprints: Weisfeiler–Lehman graph and scaffold hashes
//
// Everything is organized in small packages, leaves first:
//
//	errors/     error taxonomy (usage, data gap, tool unavailable, unsupported)
//	geom/       vectors, lattices, ranks, ideal polyhedra
//	elements/   radii, masses, element classes, pair cutoffs
//	structure/  the immutable periodic structure and its YAML loader
//	neighbors/  graph builder, bonding strategies, coordination cache
//	bfs/, dfs/  components and bridges over int graphs
//	fragment/   floating fragments and periodic dimensionality
//	oms/        open metal site classifier
//	wlhash/     graph fingerprints
//	checks/     the check framework and every concrete check
//	external/   pore, charge and symmetry collaborators (zeo++ runner)
//	checker/    per-structure orchestrator and descriptor catalog
//	memo/, batch/ shared graph cache and parallel batch runner
//	cmd/mofcheck the CLI
//
// Quick pipeline:
//
//	structure ──► neighbors.Graph ──► neighbors.Cache ──► checks ──► descriptors
//	                    │                                   ▲
//	                    └──► fragment / wlhash ─────────────┘
//
// A minimal run:
//
//	s, _ := structure.Load("zif8.yaml", nil)
//	c, _ := checker.New(s)
//	res, _ := c.Descriptors("has_oms", "has_lone_molecule")
//
//	go install github.com/katalvlaran/mofcheck/cmd/mofcheck@latest
package mofcheck
