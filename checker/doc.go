// Package checker screens one periodic structure end to end.
//
// A Checker owns the lazily built neighbor graph and coordination cache of a
// structure, the registry of every check over that cache, and the graph
// fingerprints. Nothing is computed at construction: each descriptor pulls
// exactly the work it depends on, and every intermediate is memoized for the
// life of the Checker.
//
//	c, err := checker.New(s, checker.WithStrategy("vesta"))
//	if err != nil {
//		return err
//	}
//	res, err := c.Descriptors("has_metal", "has_oms")
//
// Descriptors are returned in request order (catalog order when no names are
// given) and marshal to a JSON object with the same key order. Names outside
// Catalog fail with errors.ErrUnknownDescriptor before anything is computed.
//
// Boolean descriptors are checks.Tristate values: the "has_*" descriptors of
// problem checks invert the corresponding "no_*" check, and Unknown stays
// Unknown. symmetry_hash is nil when no symmetry analyzer is configured or
// the analyzer fails.
//
// A Checker is safe for concurrent use.
package checker
