// Package external defines the collaborators a screening run consumes but
// does not implement: pore geometry, partial charges and symmetry.
//
// A nil collaborator is legal everywhere. Checks that depend on it report
// an unknown outcome and every other check proceeds.
//
// ZeoPP is the one concrete PoreAnalyzer shipped here. It writes the
// structure as a P1 CIF into a scratch directory, runs
//
//	network -ha -res result.res structure.cif
//
// under a context deadline and parses the first line of the result file.
package external
