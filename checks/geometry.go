package checks

import (
	"math"

	"github.com/katalvlaran/mofcheck/geom"
)

// tetrahedralComplement is 180° minus the tetrahedral angle: the angle
// between a CN1 bond, reversed, and each hydrogen of a CH3 group.
const tetrahedralComplement = 180 - 109.4712206

// PlaceSP returns the position opposite a single neighbor: X≡C → X≡C–H.
func PlaceSP(center, neighbor geom.Vec3, length float64) geom.Vec3 {
	return center.Add(center.Sub(neighbor).Unit().Scale(length))
}

// PlaceSP2 returns the position on the outer bisector of two bonds:
// X–C=Y → X–CH=Y.
func PlaceSP2(center, n0, n1 geom.Vec3, length float64) geom.Vec3 {
	return PlaceSP3(center, []geom.Vec3{n0, n1}, length)
}

// PlaceSP3 returns the position opposite the sum of the unit bond vectors
// of the given neighbors: H2N–M → H3N–M.
func PlaceSP3(center geom.Vec3, neighbors []geom.Vec3, length float64) geom.Vec3 {
	var sum geom.Vec3
	for _, n := range neighbors {
		sum = sum.Add(center.Sub(n).Unit())
	}
	if sum.Norm() < geom.Eps {
		sum = geom.Orthogonal(center.Sub(neighbors[0]))
	}
	return center.Add(sum.Unit().Scale(length))
}

// PlaceSP3OnCN1 returns three positions completing a tetrahedron around a
// singly bonded center. The positions lie on a cone around the reversed
// bond, 120° apart, each at the tetrahedral angle to the bond.
func PlaceSP3OnCN1(center, neighbor geom.Vec3, length float64) []geom.Vec3 {
	axis := center.Sub(neighbor).Unit()
	theta := tetrahedralComplement * math.Pi / 180
	mid := center.Add(axis.Scale(length * math.Cos(theta)))
	radial := geom.Orthogonal(axis).Scale(length * math.Sin(theta))

	out := make([]geom.Vec3, 3)
	for k := range out {
		rot := geom.Rotation(axis, float64(120*k))
		out[k] = mid.Add(rot.Apply(radial))
	}
	return out
}

// OpenAngle returns the apex angle (degrees) of the widest empty cone
// around center: 360° minus the cone angle of the ligand spheres. A ligand
// at v with radius r blocks the directions within angle(v) + asin(r/|v|).
// No ligands yields 360.
func OpenAngle(center geom.Vec3, ligands []geom.Vec3, radii []float64) float64 {
	if len(ligands) == 0 {
		return 360
	}
	dirs := make([]geom.Vec3, len(ligands))
	halfWidth := make([]float64, len(ligands))
	for k, p := range ligands {
		v := p.Sub(center)
		d := v.Norm()
		dirs[k] = v
		if d < geom.Eps || radii[k] >= d {
			halfWidth[k] = 180
			continue
		}
		halfWidth[k] = math.Asin(radii[k]/d) * 180 / math.Pi
	}
	clearance := func(u geom.Vec3) float64 {
		m := math.Inf(1)
		for k, v := range dirs {
			m = math.Min(m, geom.Angle(u, v)-halfWidth[k])
		}
		return m
	}

	best, bestVal := geom.Vec3{}, math.Inf(-1)
	for _, u := range geom.FibonacciSphere(openAngleSamples) {
		if c := clearance(u); c > bestVal {
			best, bestVal = u, c
		}
	}
	// pattern search around the best sample
	step := 4.0
	e1 := geom.Orthogonal(best)
	for step > 0.01 {
		e2 := best.Cross(e1).Unit()
		improved := false
		for _, ax := range []geom.Vec3{e1, e2, e1.Add(e2).Unit(), e1.Sub(e2).Unit()} {
			for _, sgn := range []float64{1, -1} {
				u := geom.Rotation(ax, sgn*step).Apply(best)
				if c := clearance(u); c > bestVal {
					best, bestVal, improved = u, c, true
				}
			}
		}
		e1 = geom.Orthogonal(best)
		if !improved {
			step /= 2
		}
	}
	if bestVal <= 0 {
		return 0
	}
	return math.Min(360, 2*bestVal)
}

const openAngleSamples = 4000
