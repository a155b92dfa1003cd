// SPDX-License-Identifier: MIT
package geom

import (
	"errors"
	"math"
)

// ErrSingular is returned when inverting a matrix with ~zero determinant.
var ErrSingular = errors.New("geom: singular matrix")

// Mat3 is a 3×3 matrix stored by rows.
type Mat3 [3]Vec3

// Identity returns the identity matrix.
func Identity() Mat3 { return Mat3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}} }

// Det returns the determinant.
func (m Mat3) Det() float64 {
	return m[0].Dot(m[1].Cross(m[2]))
}

// Transpose returns mᵀ.
func (m Mat3) Transpose() Mat3 {
	var t Mat3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			t[i][j] = m[j][i]
		}
	}
	return t
}

// Inverse returns m⁻¹ via the adjugate.
func (m Mat3) Inverse() (Mat3, error) {
	det := m.Det()
	if math.Abs(det) < Eps {
		return Mat3{}, ErrSingular
	}
	// columns of the inverse are the cross products of row pairs
	c0 := m[1].Cross(m[2]).Scale(1 / det)
	c1 := m[2].Cross(m[0]).Scale(1 / det)
	c2 := m[0].Cross(m[1]).Scale(1 / det)
	return Mat3{c0, c1, c2}.Transpose(), nil
}

// Apply returns m·v (v as a column).
func (m Mat3) Apply(v Vec3) Vec3 {
	return Vec3{m[0].Dot(v), m[1].Dot(v), m[2].Dot(v)}
}

// LeftMul returns v·m (v as a row). With lattice rows this maps
// fractional to Cartesian coordinates.
func (m Mat3) LeftMul(v Vec3) Vec3 {
	return m[0].Scale(v[0]).Add(m[1].Scale(v[1])).Add(m[2].Scale(v[2]))
}

// Mul returns m·n.
func (m Mat3) Mul(n Mat3) Mat3 {
	var out Mat3
	nt := n.Transpose()
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i].Dot(nt[j])
		}
	}
	return out
}

// Rotation returns the matrix rotating column vectors by deg degrees
// about axis (right-hand rule, Rodrigues' formula).
func Rotation(axis Vec3, deg float64) Mat3 {
	u := axis.Unit()
	th := deg * math.Pi / 180
	c, s := math.Cos(th), math.Sin(th)
	t := 1 - c
	x, y, z := u[0], u[1], u[2]
	return Mat3{
		{t*x*x + c, t*x*y - s*z, t*x*z + s*y},
		{t*x*y + s*z, t*y*y + c, t*y*z - s*x},
		{t*x*z - s*y, t*y*z + s*x, t*z*z + c},
	}
}

// Rank returns the rank of the row set vs using Gaussian elimination with
// partial pivoting. The result is at most 3.
//
// Complexity: O(len(vs)·9).
func Rank(vs []Vec3) int {
	rows := make([]Vec3, len(vs))
	copy(rows, vs)

	// scale-aware tolerance
	scale := 0.0
	for _, r := range rows {
		for _, x := range r {
			scale = math.Max(scale, math.Abs(x))
		}
	}
	tol := 1e-8 * math.Max(1, scale)

	rank := 0
	for col := 0; col < 3 && rank < len(rows); col++ {
		// Stage 1: pivot search
		piv, best := -1, tol
		for r := rank; r < len(rows); r++ {
			if a := math.Abs(rows[r][col]); a > best {
				piv, best = r, a
			}
		}
		if piv < 0 {
			continue
		}
		rows[rank], rows[piv] = rows[piv], rows[rank]

		// Stage 2: eliminate below
		for r := rank + 1; r < len(rows); r++ {
			f := rows[r][col] / rows[rank][col]
			rows[r] = rows[r].Sub(rows[rank].Scale(f))
		}
		rank++
	}
	return rank
}

// IntRank is Rank over integer translation vectors.
func IntRank(ts [][3]int) int {
	vs := make([]Vec3, len(ts))
	for i, t := range ts {
		vs[i] = Vec3{}.AddInt(t)
	}
	return Rank(vs)
}
