// Package checks implements the structural sanity checks run on one
// periodic framework.
//
// What
//
//   - Check is the plain shape: a tri-state OK.
//   - IndexCheck adds the indices of the offending sites.
//   - MissingCheck adds candidate positions for presumed missing atoms,
//     one list per flagged site, placed from the local bonding geometry.
//   - Every check computes its Result at most once (Memo) and shares one
//     Env: the structure, a lazily built coordination cache, thresholds and
//     the optional external collaborators.
//   - NewRegistry returns every check keyed by its stable registry key, in
//     a fixed order.
//
// Tri-state
//
//	True and False are verdicts. Unknown is reserved for checks whose
//	collaborator (pore analyzer, charge engine) is missing or failed, and
//	for open metal site screening when a site cannot be classified.
//
// Usage
//
//	env := checks.NewEnv(s, coordination, checks.WithThresholds(th))
//	reg := checks.NewRegistry(env)
//	c, _ := reg.Get(checks.KeyUnderCoordinatedCarbon)
//	res, err := c.Result()
//
// Errors
//
//	Result returns an error only for failures of the structure itself or of
//	graph construction. Collaborator failures become Unknown with a Note.
package checks
