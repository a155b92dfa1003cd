package checks

import (
	"math"
	"sort"
)

// AtomicOverlap flags atoms closer than tolerance·min(r_cov) to another atom.
type AtomicOverlap struct {
	indexBase
	env *Env
}

// NewAtomicOverlap returns the overlap check. It does not need the
// neighbor graph.
func NewAtomicOverlap(env *Env) *AtomicOverlap {
	c := &AtomicOverlap{env: env}
	c.init(KeyAtomicOverlaps, "Atomic overlaps",
		"True, if there are no atomic overlaps, based on dist < min(covr 1, covr 2).", c.run)
	return c
}

func (c *AtomicOverlap) run() (Result, error) {
	s := c.env.Structure()
	tab := c.env.Table()
	tol := c.env.Thresholds().OverlapTolerance

	hit := make(map[int]bool)
	for i := 0; i < s.Len(); i++ {
		ri, _ := tab.CovalentRadius(s.Species(i))
		for _, nb := range s.NeighborsWithin(i, tol*ri) {
			if nb.Index == i {
				continue
			}
			rj, _ := tab.CovalentRadius(s.Species(nb.Index))
			if nb.Distance < tol*math.Min(ri, rj) {
				hit[i], hit[nb.Index] = true, true
			}
		}
	}
	idx := make([]int, 0, len(hit))
	for i := range hit {
		idx = append(idx, i)
	}
	sort.Ints(idx)
	return flagged(idx), nil
}
