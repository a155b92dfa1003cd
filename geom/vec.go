// SPDX-License-Identifier: MIT
//
// Package geom holds the small amount of 3-D linear algebra the screening
// engine needs: vectors, lattice matrices, angles and ranks.
//
// Conventions
//
//   - Vec3 is a value type; every operation returns a new vector.
//   - Mat3 stores lattice vectors as ROWS, so Cartesian = Frac·M.
//   - Angles are in degrees at the API surface.
package geom

import "math"

// Eps is the tolerance used for zero checks.
const Eps = 1e-9

// Vec3 is a 3-component vector.
type Vec3 [3]float64

// Add returns v+w.
func (v Vec3) Add(w Vec3) Vec3 { return Vec3{v[0] + w[0], v[1] + w[1], v[2] + w[2]} }

// Sub returns v-w.
func (v Vec3) Sub(w Vec3) Vec3 { return Vec3{v[0] - w[0], v[1] - w[1], v[2] - w[2]} }

// Scale returns s·v.
func (v Vec3) Scale(s float64) Vec3 { return Vec3{v[0] * s, v[1] * s, v[2] * s} }

// Dot returns the scalar product.
func (v Vec3) Dot(w Vec3) float64 { return v[0]*w[0] + v[1]*w[1] + v[2]*w[2] }

// Cross returns v×w.
func (v Vec3) Cross(w Vec3) Vec3 {
	return Vec3{
		v[1]*w[2] - v[2]*w[1],
		v[2]*w[0] - v[0]*w[2],
		v[0]*w[1] - v[1]*w[0],
	}
}

// Norm returns the Euclidean length.
func (v Vec3) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// Unit returns v/|v|, or the zero vector when |v| is ~0.
func (v Vec3) Unit() Vec3 {
	n := v.Norm()
	if n < Eps {
		return Vec3{}
	}
	return v.Scale(1 / n)
}

// Floor applies math.Floor per component.
func (v Vec3) Floor() Vec3 {
	return Vec3{math.Floor(v[0]), math.Floor(v[1]), math.Floor(v[2])}
}

// AddInt returns v + t for an integer lattice translation.
func (v Vec3) AddInt(t [3]int) Vec3 {
	return Vec3{v[0] + float64(t[0]), v[1] + float64(t[1]), v[2] + float64(t[2])}
}

// Wrap maps every component into [0,1).
func (v Vec3) Wrap() Vec3 {
	var w Vec3
	for k := 0; k < 3; k++ {
		w[k] = v[k] - math.Floor(v[k])
		// -1e-17 - floor(-1e-17) rounds to exactly 1.0
		if w[k] >= 1 {
			w[k] = 0
		}
	}
	return w
}

// Angle returns the angle between v and w in degrees, in [0,180].
// Zero-length inputs yield 0.
func Angle(v, w Vec3) float64 {
	nv, nw := v.Norm(), w.Norm()
	if nv < Eps || nw < Eps {
		return 0
	}
	c := v.Dot(w) / (nv * nw)
	c = math.Max(-1, math.Min(1, c))
	return math.Acos(c) * 180 / math.Pi
}

// Dihedral returns the torsion angle defined by four points in degrees,
// in (-180,180].
func Dihedral(p0, p1, p2, p3 Vec3) float64 {
	b0 := p0.Sub(p1)
	b1 := p2.Sub(p1)
	b2 := p3.Sub(p2)

	b1u := b1.Unit()
	v := b0.Sub(b1u.Scale(b0.Dot(b1u)))
	w := b2.Sub(b1u.Scale(b2.Dot(b1u)))

	x := v.Dot(w)
	y := b1u.Cross(v).Dot(w)
	return math.Atan2(y, x) * 180 / math.Pi
}

// Orthogonal returns a unit vector perpendicular to v. The choice is
// deterministic: v is crossed with the coordinate axis it is least aligned with.
func Orthogonal(v Vec3) Vec3 {
	u := v.Unit()
	axis := Vec3{1, 0, 0}
	best := math.Abs(u[0])
	if a := math.Abs(u[1]); a < best {
		best, axis = a, Vec3{0, 1, 0}
	}
	if a := math.Abs(u[2]); a < best {
		axis = Vec3{0, 0, 1}
	}
	return u.Cross(axis).Unit()
}

// FibonacciSphere returns n approximately uniform unit vectors.
func FibonacciSphere(n int) []Vec3 {
	if n <= 0 {
		return nil
	}
	out := make([]Vec3, n)
	golden := math.Pi * (3 - math.Sqrt(5))
	for i := 0; i < n; i++ {
		y := 1 - 2*(float64(i)+0.5)/float64(n)
		r := math.Sqrt(1 - y*y)
		phi := golden * float64(i)
		out[i] = Vec3{r * math.Cos(phi), y, r * math.Sin(phi)}
	}
	return out
}
