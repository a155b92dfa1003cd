// SPDX-License-Identifier: MIT
package geom

import (
	"math"
	"sort"
)

// Ideal coordination polyhedra as unit bond directions from the center.
// Names follow the local structure order parameter vocabulary.
var polyhedra = map[string][]Vec3{
	"linear":       {{0, 0, 1}, {0, 0, -1}},
	"tri_plan":     ring(3, 0),
	"sq_plan":      ring(4, 0),
	"sq":           cone(4, 100),
	"see_saw_rect": append([]Vec3{{0, 0, 1}, {0, 0, -1}}, ring(3, 0)[:2]...),
	"tet": {
		Vec3{1, 1, 1}.Unit(), Vec3{1, -1, -1}.Unit(),
		Vec3{-1, 1, -1}.Unit(), Vec3{-1, -1, 1}.Unit(),
	},
	"tri_pyr":    append([]Vec3{{0, 0, 1}}, ring(3, 0)...),
	"pent_plan":  ring(5, 0),
	"sq_pyr":     append([]Vec3{{0, 0, 1}}, ring(4, 0)...),
	"tri_bipyr":  append([]Vec3{{0, 0, 1}, {0, 0, -1}}, ring(3, 0)...),
	"pent_pyr":   append([]Vec3{{0, 0, 1}}, ring(5, 0)...),
	"oct":        append([]Vec3{{0, 0, 1}, {0, 0, -1}}, ring(4, 0)...),
	"hex_pyr":    append([]Vec3{{0, 0, 1}}, ring(6, 0)...),
	"pent_bipyr": append([]Vec3{{0, 0, 1}, {0, 0, -1}}, ring(5, 0)...),
	"hex_bipyr":  append([]Vec3{{0, 0, 1}, {0, 0, -1}}, ring(6, 0)...),
}

// ring returns n directions evenly spaced in the xy plane, rotated by
// phase degrees.
func ring(n int, phase float64) []Vec3 {
	out := make([]Vec3, n)
	for k := 0; k < n; k++ {
		a := (phase + 360*float64(k)/float64(n)) * math.Pi / 180
		out[k] = Vec3{math.Cos(a), math.Sin(a), 0}
	}
	return out
}

// cone returns n directions evenly spaced at polar angle theta degrees
// from +z.
func cone(n int, theta float64) []Vec3 {
	t := theta * math.Pi / 180
	out := ring(n, 0)
	for k := range out {
		out[k] = Vec3{out[k][0] * math.Sin(t), out[k][1] * math.Sin(t), math.Cos(t)}
	}
	return out
}

// Polyhedron returns a copy of the ideal bond directions of name.
func Polyhedron(name string) ([]Vec3, bool) {
	p, ok := polyhedra[name]
	if !ok {
		return nil, false
	}
	out := make([]Vec3, len(p))
	copy(out, p)
	return out, true
}

// PolyhedronNames lists the known polyhedra, sorted.
func PolyhedronNames() []string {
	out := make([]string, 0, len(polyhedra))
	for n := range polyhedra {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// PairAngles returns the sorted pairwise angles (degrees) between vs.
func PairAngles(vs []Vec3) []float64 {
	out := make([]float64, 0, len(vs)*(len(vs)-1)/2)
	for i := 0; i < len(vs); i++ {
		for j := i + 1; j < len(vs); j++ {
			out = append(out, Angle(vs[i], vs[j]))
		}
	}
	sort.Float64s(out)
	return out
}
