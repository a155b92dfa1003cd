package checks

import (
	"math"

	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
)

// UnderCoordinatedCarbon flags carbon that likely misses hydrogens:
// every CN1 carbon, and CN2 carbon whose bonds are neither linear nor
// folded within CarbonAngleTolerance. CN3 carbon would need bond orders
// and is never flagged.
type UnderCoordinatedCarbon struct {
	missingBase
	env *Env
}

// NewUnderCoordinatedCarbon returns the carbon check.
func NewUnderCoordinatedCarbon(env *Env) *UnderCoordinatedCarbon {
	c := &UnderCoordinatedCarbon{env: env}
	c.init(KeyUnderCoordinatedCarbon, "Undercoordinated carbon",
		"Checks, using geometric heuristics, if there are any carbons that are likely undercoordinated.", c.run)
	return c
}

func (c *UnderCoordinatedCarbon) run() (Result, error) {
	s := c.env.Structure()
	carbons := s.Indices(speciesIs("C"))
	if len(carbons) == 0 {
		return flagged(nil), nil
	}
	cache, err := c.env.Coordination()
	if err != nil {
		return Result{}, err
	}
	th := c.env.Thresholds()

	var res Result
	for _, i := range carbons {
		nb := cache.ConnectedSites(i)
		p := s.Cart(i)
		switch len(nb) {
		case 1:
			res.Flagged = append(res.Flagged, i)
			res.Candidates = append(res.Candidates, PlaceSP3OnCN1(p, nb[0].Coords, th.HydrogenBondLength))
		case 2:
			a := geom.Angle(nb[0].Coords.Sub(p), nb[1].Coords.Sub(p))
			if math.Abs(180-math.Max(a, 180-a)) > th.CarbonAngleTolerance {
				res.Flagged = append(res.Flagged, i)
				res.Candidates = append(res.Candidates,
					[]geom.Vec3{PlaceSP2(p, nb[0].Coords, nb[1].Coords, th.HydrogenBondLength)})
			}
		}
	}
	res.OK = TristateOf(len(res.Flagged) == 0)
	return res, nil
}

// UnderCoordinatedNitrogen flags nitrogen that likely misses hydrogens.
//
//   - CN1: the neighbor is a non-metal with CN > 2, so the N is not a
//     nitrile; one candidate opposite the bond.
//   - CN2: the N is bent beyond NitrogenAngleTolerance and the four
//     dihedrals through its neighbors say the group is planar, with at
//     least one bond of 1.4 Å or more; one candidate on the bisector.
//   - CN3: an amine bound to a metal with two hydrogens and its first bond
//     angle below 110° + NitrogenAngleTolerance; one candidate completing
//     the tetrahedron.
type UnderCoordinatedNitrogen struct {
	missingBase
	env *Env
}

// NewUnderCoordinatedNitrogen returns the nitrogen check.
func NewUnderCoordinatedNitrogen(env *Env) *UnderCoordinatedNitrogen {
	c := &UnderCoordinatedNitrogen{env: env}
	c.init(KeyUnderCoordinatedNitrogen, "Undercoordinated nitrogen",
		"Checks, using geometric heuristics, if there are any nitrogens that are likely undercoordinated.", c.run)
	return c
}

func (c *UnderCoordinatedNitrogen) run() (Result, error) {
	s := c.env.Structure()
	nitrogens := s.Indices(speciesIs("N"))
	if len(nitrogens) == 0 {
		return flagged(nil), nil
	}
	cache, err := c.env.Coordination()
	if err != nil {
		return Result{}, err
	}
	th := c.env.Thresholds()
	tab := c.env.Table()
	tol := th.NitrogenAngleTolerance
	length := th.HydrogenBondLength

	var res Result
	add := func(i int, pos geom.Vec3) {
		res.Flagged = append(res.Flagged, i)
		res.Candidates = append(res.Candidates, []geom.Vec3{pos})
	}
	for _, i := range nitrogens {
		nb := cache.ConnectedSites(i)
		p := s.Cart(i)
		switch len(nb) {
		case 1:
			if cache.CoordinationNumber(nb[0].Index) > 2 && !tab.IsMetal(nb[0].Species) {
				add(i, PlaceSP(p, nb[0].Coords, length))
			}
		case 2:
			if bentPlanarNitrogen(cache, p, nb, tol) {
				add(i, PlaceSP2(p, nb[0].Coords, nb[1].Coords, length))
			}
		case 3:
			if metalAmine(c.env, p, nb, tol) {
				pos := make([]geom.Vec3, len(nb))
				for k, cs := range nb {
					pos[k] = cs.Coords
				}
				add(i, PlaceSP3(p, pos, length))
			}
		}
	}
	res.OK = TristateOf(len(res.Flagged) == 0)
	return res, nil
}

func bentPlanarNitrogen(cache *neighbors.Cache, p geom.Vec3, nb []neighbors.ConnectedSite, tol float64) bool {
	a := geom.Angle(nb[0].Coords.Sub(p), nb[1].Coords.Sub(p))
	if math.Abs(180-a) < tol || a < tol {
		return false
	}
	p0, p1 := nb[0].Coords, nb[1].Coords
	pa, okA := beyond(cache, nb[0])
	pb, okB := beyond(cache, nb[1])

	var ds []float64
	if okA {
		ds = append(ds, geom.Dihedral(p0, p, p1, pa), geom.Dihedral(pa, p0, p, p1))
	}
	if okB {
		ds = append(ds, geom.Dihedral(p0, p, p1, pb), geom.Dihedral(pb, p0, p, p1))
	}
	if len(ds) == 0 {
		return false
	}
	m := math.Inf(1)
	for _, d := range ds {
		m = math.Min(m, math.Abs(d))
	}
	if math.Abs(m-180) >= tol && m >= tol {
		return false
	}
	return nb[0].Distance >= 1.4 || nb[1].Distance >= 1.4
}

// beyond returns the first atom bonded to the neighbor cs other than
// through the bond cs itself.
func beyond(cache *neighbors.Cache, cs neighbors.ConnectedSite) (geom.Vec3, bool) {
	for _, next := range cache.ConnectedSitesFrom(cs.Index, cs.Image) {
		if next.Edge != cs.Edge {
			return next.Coords, true
		}
	}
	return geom.Vec3{}, false
}

func metalAmine(env *Env, p geom.Vec3, nb []neighbors.ConnectedSite, tol float64) bool {
	metal, hydrogens := false, 0
	for _, cs := range nb {
		if env.Table().IsMetal(cs.Species) {
			metal = true
		}
		if cs.Species == "H" {
			hydrogens++
		}
	}
	a := geom.Angle(nb[0].Coords.Sub(p), nb[1].Coords.Sub(p))
	return a < 110+tol && metal && hydrogens == 2
}
