package checks

import (
	"sort"

	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
)

// noTerminalOxo lists metals that are not expected to carry a terminal oxo
// group.
var noTerminalOxo = map[string]bool{
	"Li": true, "Na": true, "K": true, "Rb": true, "Cs": true, "Fr": true,
	"Be": true, "Mg": true, "Ca": true, "Sr": true, "Ba": true, "Ra": true,
	"Sc": true, "Y": true, "La": true, "Ac": true,
	"Ti": true, "Zr": true, "Hf": true,
	"Mn": true, "Fe": true, "Co": true, "Ni": true, "Cu": true, "Ag": true,
	"Zn": true, "Cd": true,
	"Al": true, "Ga": true, "In": true, "Tl": true,
}

// siteRule decides whether one site is flagged.
type siteRule func(c *neighbors.Cache, site int) bool

// CoordinationCheck flags sites of a species class by a rule over their
// bonded neighbors.
type CoordinationCheck struct {
	indexBase
	env  *Env
	pick func(species string) bool
	rule siteRule
}

func newCoordinationCheck(env *Env, key, name, desc string, sel func(string) bool, rule siteRule) *CoordinationCheck {
	c := &CoordinationCheck{env: env, pick: sel, rule: rule}
	c.init(key, name, desc, c.run)
	return c
}

func (c *CoordinationCheck) run() (Result, error) {
	s := c.env.Structure()
	sites := s.Indices(c.pick)
	if len(sites) == 0 {
		return flagged(nil), nil
	}
	cache, err := c.env.Coordination()
	if err != nil {
		return Result{}, err
	}
	var idx []int
	for _, i := range sites {
		if c.rule(cache, i) {
			idx = append(idx, i)
		}
	}
	return flagged(idx), nil
}

// NewOverCoordinatedCarbon flags carbon with CN > 4 and no metal neighbor.
func NewOverCoordinatedCarbon(env *Env) *CoordinationCheck {
	return newCoordinationCheck(env, KeyOverCoordinatedCarbon, "Overcoordinated carbon",
		"Checks, using geometric heuristics, if there are any carbons that are likely overcoordinated (i.e., CN>4).",
		speciesIs("C"), overCoordinated(env, 4))
}

// NewOverCoordinatedNitrogen flags nitrogen with CN > 4 and no metal
// neighbor.
func NewOverCoordinatedNitrogen(env *Env) *CoordinationCheck {
	return newCoordinationCheck(env, KeyOverCoordinatedNitrogen, "Overcoordinated nitrogen",
		"Checks, using geometric heuristics, if there are any nitrogens that are likely overcoordinated (i.e., CN>4).",
		speciesIs("N"), overCoordinated(env, 4))
}

func overCoordinated(env *Env, max int) siteRule {
	return func(c *neighbors.Cache, i int) bool {
		return c.CoordinationNumber(i) > max && !anyMetal(env, c.ConnectedSites(i))
	}
}

// NewUnderCoordinatedRareEarth flags rare earth metals with CN < 4.
func NewUnderCoordinatedRareEarth(env *Env) *CoordinationCheck {
	return newCoordinationCheck(env, KeyUnderCoordinatedRareEarth, "Undercoordinated rare earth metal",
		"Checks if there are any rare earth metals that are likely undercoordinated (i.e., CN<4).",
		env.Table().IsRareEarth, underCoordinated(4))
}

// NewUnderCoordinatedAlkaliAlkaline flags alkali and alkaline earth metals
// with CN < 4.
func NewUnderCoordinatedAlkaliAlkaline(env *Env) *CoordinationCheck {
	return newCoordinationCheck(env, KeyUnderCoordinatedAlkaliAlkaline, "Undercoordinated alkali/alkaline earth metal",
		"Checks if there are any alkali/alkaline earth metals that are likely undercoordinated (i.e., CN<4).",
		env.Table().IsAlkaliAlkaline, underCoordinated(4))
}

func underCoordinated(min int) siteRule {
	return func(c *neighbors.Cache, i int) bool { return c.CoordinationNumber(i) < min }
}

// NewGeometricallyExposedMetal flags alkali, alkaline earth and rare earth
// metals whose widest empty cone exceeds Thresholds.ExposedAngle.
func NewGeometricallyExposedMetal(env *Env) *CoordinationCheck {
	tab := env.Table()
	sel := func(sp string) bool { return tab.IsAlkaliAlkaline(sp) || tab.IsRareEarth(sp) }
	return newCoordinationCheck(env, KeyGeometricallyExposedMetal, "Geometrically exposed metal",
		"Checks if there are any alkali/alkaline earth or rare earth metals that form a small cone angle with their binding partners.",
		sel, func(c *neighbors.Cache, i int) bool {
			shell := c.ConnectedSites(i)
			pos := make([]geom.Vec3, len(shell))
			radii := make([]float64, len(shell))
			for k, cs := range shell {
				pos[k] = cs.Coords
				radii[k], _ = tab.VdWRadius(cs.Species)
			}
			return OpenAngle(env.Structure().Cart(i), pos, radii) > env.Thresholds().ExposedAngle
		})
}

// FalseTerminalOxo flags metals from a fixed list that carry an oxygen
// bonded to nothing else.
type FalseTerminalOxo struct {
	indexBase
	env *Env
}

// NewFalseTerminalOxo returns the terminal oxo check.
func NewFalseTerminalOxo(env *Env) *FalseTerminalOxo {
	c := &FalseTerminalOxo{env: env}
	c.init(KeyFalseTerminalOxo, "Unexpected oxo groups",
		"Checks if there is a metal with oxo group, for which such a group is unexpected.", c.run)
	return c
}

func (c *FalseTerminalOxo) run() (Result, error) {
	s := c.env.Structure()
	metals := s.Indices(func(sp string) bool { return noTerminalOxo[sp] && c.env.Table().IsMetal(sp) })
	if len(metals) == 0 {
		return flagged(nil), nil
	}
	cache, err := c.env.Coordination()
	if err != nil {
		return Result{}, err
	}
	var idx []int
	for _, m := range metals {
		for _, nb := range cache.ConnectedSites(m) {
			if nb.Species == "O" && cache.CoordinationNumber(nb.Index) == 1 {
				idx = append(idx, m)
				break
			}
		}
	}
	sort.Ints(idx)
	return flagged(idx), nil
}

// OverCoordinatedHydrogen flags hydrogen with more than one atom within
// its van der Waals radius. It does not use the neighbor graph.
type OverCoordinatedHydrogen struct {
	indexBase
	env *Env
}

// NewOverCoordinatedHydrogen returns the hydrogen check.
func NewOverCoordinatedHydrogen(env *Env) *OverCoordinatedHydrogen {
	c := &OverCoordinatedHydrogen{env: env}
	c.init(KeyOverCoordinatedHydrogen, "Overcoordinated hydrogen",
		"Checks, using geometric heuristics, if there are any hydrogens that are likely overcoordinated (i.e., CN>1).", c.run)
	return c
}

func (c *OverCoordinatedHydrogen) run() (Result, error) {
	s := c.env.Structure()
	r, _ := c.env.Table().VdWRadius("H")
	var idx []int
	for _, i := range s.Indices(speciesIs("H")) {
		if len(s.NeighborsWithin(i, r)) > 1 {
			idx = append(idx, i)
		}
	}
	return flagged(idx), nil
}

func anyMetal(env *Env, sites []neighbors.ConnectedSite) bool {
	for _, cs := range sites {
		if env.Table().IsMetal(cs.Species) {
			return true
		}
	}
	return false
}
