package checker

import (
	"github.com/katalvlaran/mofcheck/checks"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/neighbors"
	"github.com/katalvlaran/mofcheck/wlhash"
)

// Descriptor names.
const (
	Name                              = "name"
	GraphHash                         = "graph_hash"
	UndecoratedGraphHash              = "undecorated_graph_hash"
	DecoratedScaffoldHash             = "decorated_scaffold_hash"
	UndecoratedScaffoldHash           = "undecorated_scaffold_hash"
	SymmetryHash                      = "symmetry_hash"
	Formula                           = "formula"
	Path                              = "path"
	Density                           = "density"
	HasCarbon                         = "has_carbon"
	HasHydrogen                       = "has_hydrogen"
	HasAtomicOverlaps                 = "has_atomic_overlaps"
	HasOverCoordinatedC               = "has_overcoordinated_c"
	HasOverCoordinatedN               = "has_overcoordinated_n"
	HasOverCoordinatedH               = "has_overcoordinated_h"
	HasUnderCoordinatedC              = "has_undercoordinated_c"
	HasUnderCoordinatedN              = "has_undercoordinated_n"
	HasUnderCoordinatedRareEarth      = "has_undercoordinated_rare_earth"
	HasMetal                          = "has_metal"
	HasLoneMolecule                   = "has_lone_molecule"
	HasHighCharges                    = "has_high_charges"
	IsPorous                          = "is_porous"
	HasSuspiciousTerminalOxo          = "has_suspicious_terminal_oxo"
	HasUnderCoordinatedAlkaliAlkaline = "has_undercoordinated_alkali_alkaline"
	HasGeometricallyExposedMetal      = "has_geometrically_exposed_metal"
	Has3DConnectedGraph               = "has_3d_connected_graph"
	HasOMS                            = "has_oms"
)

// hash variants, indexes into Checker.hashes.
const (
	hashDecorated = iota
	hashUndecorated
	hashDecoratedScaffold
	hashUndecoratedScaffold
)

type entry struct {
	name string
	eval func(c *Checker) (any, error)
}

var catalog = []entry{
	{Name, func(c *Checker) (any, error) { return c.s.Name(), nil }},
	{GraphHash, hashOf(hashDecorated, wlhash.Decorated)},
	{UndecoratedGraphHash, hashOf(hashUndecorated, wlhash.Undecorated)},
	{DecoratedScaffoldHash, hashOf(hashDecoratedScaffold, wlhash.DecoratedScaffold)},
	{UndecoratedScaffoldHash, hashOf(hashUndecoratedScaffold, wlhash.UndecoratedScaffold)},
	{SymmetryHash, func(c *Checker) (any, error) {
		if h := c.SymmetryHash(); h != nil {
			return *h, nil
		}
		return nil, nil
	}},
	{Formula, func(c *Checker) (any, error) { return c.s.Formula(), nil }},
	{Path, func(c *Checker) (any, error) { return c.s.Path(), nil }},
	{Density, func(c *Checker) (any, error) { return c.s.Density(), nil }},
	{HasCarbon, present(checks.KeyHasCarbon)},
	{HasHydrogen, present(checks.KeyHasHydrogen)},
	{HasAtomicOverlaps, problem(checks.KeyAtomicOverlaps)},
	{HasOverCoordinatedC, problem(checks.KeyOverCoordinatedCarbon)},
	{HasOverCoordinatedN, problem(checks.KeyOverCoordinatedNitrogen)},
	{HasOverCoordinatedH, problem(checks.KeyOverCoordinatedHydrogen)},
	{HasUnderCoordinatedC, problem(checks.KeyUnderCoordinatedCarbon)},
	{HasUnderCoordinatedN, problem(checks.KeyUnderCoordinatedNitrogen)},
	{HasUnderCoordinatedRareEarth, problem(checks.KeyUnderCoordinatedRareEarth)},
	{HasMetal, present(checks.KeyHasMetal)},
	{HasLoneMolecule, problem(checks.KeyFloatingMolecule)},
	{HasHighCharges, problem(checks.KeyHighCharges)},
	{IsPorous, present(checks.KeyPorous)},
	{HasSuspiciousTerminalOxo, problem(checks.KeyFalseTerminalOxo)},
	{HasUnderCoordinatedAlkaliAlkaline, problem(checks.KeyUnderCoordinatedAlkaliAlkaline)},
	{HasGeometricallyExposedMetal, problem(checks.KeyGeometricallyExposedMetal)},
	{Has3DConnectedGraph, present(checks.KeyThreeDimensional)},
	{HasOMS, problem(checks.KeyNoOpenMetalSite)},
}

var byName = func() map[string]entry {
	m := make(map[string]entry, len(catalog))
	for _, e := range catalog {
		m[e.name] = e
	}
	return m
}()

// Catalog returns every descriptor name in catalog order.
func Catalog() []string {
	out := make([]string, len(catalog))
	for i, e := range catalog {
		out[i] = e.name
	}
	return out
}

// Validate reports the first name outside the catalog.
func Validate(names ...string) error {
	for _, n := range names {
		if _, ok := byName[n]; !ok {
			return errors.WithHint(
				errors.Wrapf(errors.ErrUnknownDescriptor, "%q", n),
				"run `mofcheck descriptors` for the catalog")
		}
	}
	return nil
}

// Descriptors evaluates the named descriptors in request order, or the
// whole catalog when names is empty. Repeated names are reported once.
func (c *Checker) Descriptors(names ...string) (Result, error) {
	if len(names) == 0 {
		names = Catalog()
	}
	if err := Validate(names...); err != nil {
		return nil, err
	}
	out := make(Result, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			continue
		}
		seen[n] = true
		v, err := byName[n].eval(c)
		if err != nil {
			return nil, errors.Wrapf(err, "descriptor %s", n)
		}
		out = append(out, Descriptor{Name: n, Value: v})
	}
	return out, nil
}

func hashOf(v int, fn func(*neighbors.Graph, ...wlhash.Option) (string, error)) func(*Checker) (any, error) {
	return func(c *Checker) (any, error) { return c.hash(v, fn) }
}

// present reports a check outcome as is.
func present(key string) func(*Checker) (any, error) {
	return func(c *Checker) (any, error) {
		r, err := c.reg.Must(key).Result()
		if err != nil {
			return nil, err
		}
		return r.OK, nil
	}
}

// problem inverts a "no_*" check.
func problem(key string) func(*Checker) (any, error) {
	return func(c *Checker) (any, error) {
		r, err := c.reg.Must(key).Result()
		if err != nil {
			return nil, err
		}
		return r.OK.Not(), nil
	}
}
