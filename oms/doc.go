// Package oms classifies metal sites as open or closed from the geometry
// of their coordination shell.
//
// Rules per metal site, with cn its coordination number:
//
//	cn ≤ 3       open, no order parameters are computed
//	4 ≤ cn ≤ 8   order parameters of Profiles[cn] are weighted; the site is
//	             open iff the open-indicating share exceeds Threshold (0.5)
//	cn > 8       unknown; there is no reliable profile
//
// Order parameters come from a Fingerprinter. The default
// AngleFingerprinter compares the sorted pairwise bond angles of the site
// with those of each ideal polyhedron in geom and maps the mean deviation
// to [0,1].
//
// A structure without metals is a usage error (ErrNoMetal), distinct from a
// single site being unknown.
package oms
