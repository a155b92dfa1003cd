package structure

import (
	"math"
	"sort"

	"github.com/katalvlaran/mofcheck/geom"
)

// Neighbor is a periodic image of an atom near a center atom.
type Neighbor struct {
	Index    int
	Image    [3]int
	Distance float64
}

// Supercell returns the na×nb×nc expansion. Atom order is cell-major:
// all atoms of image (0,0,0) first, then (0,0,1), ... with c fastest.
func (s *Structure) Supercell(na, nb, nc int) (*Structure, error) {
	if na < 1 || nb < 1 || nc < 1 {
		return nil, ErrBadMultiplier
	}
	lat := geom.Mat3{
		s.lattice[0].Scale(float64(na)),
		s.lattice[1].Scale(float64(nb)),
		s.lattice[2].Scale(float64(nc)),
	}
	n := [3]float64{float64(na), float64(nb), float64(nc)}
	atoms := make([]Atom, 0, len(s.atoms)*na*nb*nc)
	for a := 0; a < na; a++ {
		for b := 0; b < nb; b++ {
			for c := 0; c < nc; c++ {
				shift := geom.Vec3{float64(a), float64(b), float64(c)}
				for _, at := range s.atoms {
					f := at.Frac.Add(shift)
					atoms = append(atoms, Atom{
						Species: at.Species,
						Frac:    geom.Vec3{f[0] / n[0], f[1] / n[1], f[2] / n[2]},
					})
				}
			}
		}
	}
	return New(lat, atoms, WithName(s.name), WithPath(s.path), WithElementTable(s.table))
}

// Rotate returns the structure rigidly rotated by deg degrees about axis.
// Fractional coordinates are unchanged; only the lattice rotates.
func (s *Structure) Rotate(axis geom.Vec3, deg float64) *Structure {
	r := geom.Rotation(axis, deg)
	lat := geom.Mat3{r.Apply(s.lattice[0]), r.Apply(s.lattice[1]), r.Apply(s.lattice[2])}
	atoms := make([]Atom, len(s.atoms))
	copy(atoms, s.atoms)
	// a rotation keeps the lattice regular, so New cannot fail
	return MustNew(lat, atoms, WithName(s.name), WithPath(s.path), WithElementTable(s.table))
}

// imageRange returns how many cells along each axis must be scanned to
// find every image within r of any point in the home cell.
func (s *Structure) imageRange(r float64) [3]int {
	var out [3]int
	for k := 0; k < 3; k++ {
		// |column k of inverse| = 1 / interplanar spacing of (100)-type planes
		col := geom.Vec3{s.inv[0][k], s.inv[1][k], s.inv[2][k]}
		out[k] = int(math.Ceil(r*col.Norm())) + 1
	}
	return out
}

// Distance returns the minimum-image distance between atoms i and j.
func (s *Structure) Distance(i, j int) float64 {
	d, _ := s.MinImage(i, j)
	return d
}

// MinImage returns the minimum-image distance between atoms i and j and
// the image of j achieving it. The search radius is the distance of the
// wrapped image, so skewed cells are scanned as far as they need.
func (s *Structure) MinImage(i, j int) (float64, [3]int) {
	diff := s.atoms[j].Frac.Sub(s.atoms[i].Frac)
	shift := diff.Add(geom.Vec3{0.5, 0.5, 0.5}).Floor()
	base := [3]int{-int(shift[0]), -int(shift[1]), -int(shift[2])}
	best, bestImg := s.lattice.LeftMul(diff.AddInt(base)).Norm(), base
	rng := s.imageRange(best)
	for a := -rng[0]; a <= rng[0]; a++ {
		for b := -rng[1]; b <= rng[1]; b++ {
			for c := -rng[2]; c <= rng[2]; c++ {
				img := [3]int{base[0] + a, base[1] + b, base[2] + c}
				d := s.lattice.LeftMul(diff.AddInt(img)).Norm()
				if d < best-1e-12 {
					best, bestImg = d, img
				}
			}
		}
	}
	return best, bestImg
}

// NeighborsWithin returns every periodic image (other than i itself) whose
// distance to atom i is at most r, sorted by distance, index, image.
//
// Complexity: O(N·K) where K is the number of scanned images.
func (s *Structure) NeighborsWithin(i int, r float64) []Neighbor {
	rng := s.imageRange(r)
	center := s.atoms[i].Frac
	var out []Neighbor
	for j, at := range s.atoms {
		diff := at.Frac.Sub(center)
		for a := -rng[0]; a <= rng[0]; a++ {
			for b := -rng[1]; b <= rng[1]; b++ {
				for c := -rng[2]; c <= rng[2]; c++ {
					img := [3]int{a, b, c}
					if j == i && img == [3]int{} {
						continue
					}
					d := s.lattice.LeftMul(diff.AddInt(img)).Norm()
					if d <= r {
						out = append(out, Neighbor{Index: j, Image: img, Distance: d})
					}
				}
			}
		}
	}
	sortNeighbors(out)
	return out
}

// PointNeighbors returns every atom image within r of the Cartesian point p.
func (s *Structure) PointNeighbors(p geom.Vec3, r float64) []Neighbor {
	rng := s.imageRange(r)
	fp := s.CartToFrac(p)
	var out []Neighbor
	for j, at := range s.atoms {
		diff := at.Frac.Sub(fp)
		// bring the difference near the origin first
		shift := diff.Add(geom.Vec3{0.5, 0.5, 0.5}).Floor()
		base := [3]int{-int(shift[0]), -int(shift[1]), -int(shift[2])}
		for a := -rng[0]; a <= rng[0]; a++ {
			for b := -rng[1]; b <= rng[1]; b++ {
				for c := -rng[2]; c <= rng[2]; c++ {
					img := [3]int{base[0] + a, base[1] + b, base[2] + c}
					d := s.lattice.LeftMul(diff.AddInt(img)).Norm()
					if d <= r {
						out = append(out, Neighbor{Index: j, Image: img, Distance: d})
					}
				}
			}
		}
	}
	sortNeighbors(out)
	return out
}

func sortNeighbors(ns []Neighbor) {
	sort.Slice(ns, func(a, b int) bool {
		x, y := ns[a], ns[b]
		if math.Abs(x.Distance-y.Distance) > 1e-9 {
			return x.Distance < y.Distance
		}
		if x.Index != y.Index {
			return x.Index < y.Index
		}
		for k := 0; k < 3; k++ {
			if x.Image[k] != y.Image[k] {
				return x.Image[k] < y.Image[k]
			}
		}
		return false
	})
}
