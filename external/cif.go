package external

import (
	"bufio"
	"fmt"
	"io"
	"math"

	"github.com/katalvlaran/mofcheck/structure"
)

// WriteCIF writes s as a P1 CIF with fractional coordinates.
func WriteCIF(w io.Writer, s *structure.Structure) error {
	bw := bufio.NewWriter(w)
	a, b, c, alpha, beta, gamma := cellParameters(s)
	name := s.Name()
	if name == "" {
		name = "mofcheck"
	}

	fmt.Fprintf(bw, "data_%s\n", name)
	fmt.Fprintf(bw, "_cell_length_a %.6f\n", a)
	fmt.Fprintf(bw, "_cell_length_b %.6f\n", b)
	fmt.Fprintf(bw, "_cell_length_c %.6f\n", c)
	fmt.Fprintf(bw, "_cell_angle_alpha %.6f\n", alpha)
	fmt.Fprintf(bw, "_cell_angle_beta %.6f\n", beta)
	fmt.Fprintf(bw, "_cell_angle_gamma %.6f\n", gamma)
	fmt.Fprintln(bw, "_symmetry_space_group_name_H-M 'P 1'")
	fmt.Fprintln(bw, "_symmetry_Int_Tables_number 1")
	fmt.Fprintln(bw, "loop_")
	fmt.Fprintln(bw, "_symmetry_equiv_pos_as_xyz")
	fmt.Fprintln(bw, "'x, y, z'")
	fmt.Fprintln(bw, "loop_")
	fmt.Fprintln(bw, "_atom_site_label")
	fmt.Fprintln(bw, "_atom_site_type_symbol")
	fmt.Fprintln(bw, "_atom_site_fract_x")
	fmt.Fprintln(bw, "_atom_site_fract_y")
	fmt.Fprintln(bw, "_atom_site_fract_z")
	fmt.Fprintln(bw, "_atom_site_occupancy")
	for i := 0; i < s.Len(); i++ {
		f := s.Frac(i)
		sp := s.Species(i)
		fmt.Fprintf(bw, "%s%d %s %.6f %.6f %.6f 1.0\n", sp, i, sp, f[0], f[1], f[2])
	}
	return bw.Flush()
}

// cellParameters returns edge lengths (Å) and angles (degrees).
func cellParameters(s *structure.Structure) (a, b, c, alpha, beta, gamma float64) {
	m := s.Lattice()
	va, vb, vc := m[0], m[1], m[2]
	a, b, c = va.Norm(), vb.Norm(), vc.Norm()
	deg := func(x, y float64) float64 {
		return math.Acos(math.Max(-1, math.Min(1, x/y))) * 180 / math.Pi
	}
	alpha = deg(vb.Dot(vc), b*c)
	beta = deg(va.Dot(vc), a*c)
	gamma = deg(va.Dot(vb), a*b)
	return
}
