// Package structure defines the immutable periodic crystal structure that
// every screening component consumes.
//
// A Structure is a lattice (three row vectors, Å) plus an ordered list of
// atoms with fractional coordinates wrapped into [0,1). Values are never
// mutated after New returns; Supercell and Rotate build new structures.
package structure

import (
	"encoding/binary"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"

	"github.com/katalvlaran/mofcheck/elements"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/geom"
)

// amu/Å³ → g/cm³
const densityFactor = 1.66053906660

// Atom is one site of the structure.
type Atom struct {
	Species   string
	Frac      geom.Vec3
	Occupancy float64 // 0 means fully occupied
}

// Structure is an immutable periodic structure.
type Structure struct {
	name    string
	path    string
	lattice geom.Mat3
	inv     geom.Mat3
	atoms   []Atom
	table   *elements.Table
	key     uint64
}

// Option configures New.
type Option func(*Structure)

// WithName sets the structure name reported in descriptors.
func WithName(name string) Option {
	return func(s *Structure) { s.name = name }
}

// WithPath records the file the structure was read from.
func WithPath(path string) Option {
	return func(s *Structure) { s.path = path }
}

// WithElementTable overrides the element table used for validation.
func WithElementTable(t *elements.Table) Option {
	return func(s *Structure) {
		if t != nil {
			s.table = t
		}
	}
}

// New validates and builds a structure.
// Errors (all errors.ErrStructuralUnsupported):
//   - errors.ErrDegenerateLattice when the lattice is singular or atoms is empty
//   - errors.ErrUnknownSpecies for species missing from the element table
//   - errors.ErrPartialOccupancy for occupancy other than 1
func New(lattice geom.Mat3, atoms []Atom, opts ...Option) (*Structure, error) {
	s := &Structure{lattice: lattice, table: elements.Default()}
	for _, opt := range opts {
		opt(s)
	}

	inv, err := lattice.Inverse()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDegenerateLattice, "structure")
	}
	if len(atoms) == 0 {
		return nil, errors.Wrap(errors.ErrDegenerateLattice, "structure: no atoms")
	}
	s.inv = inv

	s.atoms = make([]Atom, len(atoms))
	for i, a := range atoms {
		if !s.table.Known(a.Species) {
			return nil, errors.Wrapf(errors.ErrUnknownSpecies, "structure: site %d species %q", i, a.Species)
		}
		occ := a.Occupancy
		if occ == 0 {
			occ = 1
		}
		if math.Abs(occ-1) > 1e-6 {
			return nil, errors.Wrapf(errors.ErrPartialOccupancy, "structure: site %d occupancy %.3f", i, occ)
		}
		s.atoms[i] = Atom{Species: a.Species, Frac: a.Frac.Wrap(), Occupancy: 1}
	}
	s.key = s.computeKey()
	return s, nil
}

// MustNew is New that panics on error. Intended for fixtures.
func MustNew(lattice geom.Mat3, atoms []Atom, opts ...Option) *Structure {
	s, err := New(lattice, atoms, opts...)
	if err != nil {
		panic(err)
	}
	return s
}

// Len returns the number of atoms.
func (s *Structure) Len() int { return len(s.atoms) }

// Name returns the structure name.
func (s *Structure) Name() string { return s.name }

// Path returns the source path, if any.
func (s *Structure) Path() string { return s.path }

// Lattice returns the lattice rows.
func (s *Structure) Lattice() geom.Mat3 { return s.lattice }

// Table returns the element table the structure was validated against.
func (s *Structure) Table() *elements.Table { return s.table }

// Atom returns atom i.
func (s *Structure) Atom(i int) Atom { return s.atoms[i] }

// Species returns the element symbol of atom i.
func (s *Structure) Species(i int) string { return s.atoms[i].Species }

// Frac returns the wrapped fractional coordinates of atom i.
func (s *Structure) Frac(i int) geom.Vec3 { return s.atoms[i].Frac }

// Cart returns the Cartesian coordinates of atom i.
func (s *Structure) Cart(i int) geom.Vec3 { return s.lattice.LeftMul(s.atoms[i].Frac) }

// CartImage returns the Cartesian coordinates of atom i translated by image.
func (s *Structure) CartImage(i int, image [3]int) geom.Vec3 {
	return s.lattice.LeftMul(s.atoms[i].Frac.AddInt(image))
}

// FracToCart maps fractional to Cartesian coordinates.
func (s *Structure) FracToCart(f geom.Vec3) geom.Vec3 { return s.lattice.LeftMul(f) }

// CartToFrac maps Cartesian to fractional coordinates.
func (s *Structure) CartToFrac(c geom.Vec3) geom.Vec3 { return s.inv.LeftMul(c) }

// Volume returns the cell volume in Å³.
func (s *Structure) Volume() float64 { return math.Abs(s.lattice.Det()) }

// Density returns the mass density in g/cm³.
func (s *Structure) Density() float64 {
	mass := 0.0
	for _, a := range s.atoms {
		mass += s.table.Mass(a.Species)
	}
	return mass * densityFactor / s.Volume()
}

// Indices returns the indices of atoms matching pred, ascending.
func (s *Structure) Indices(pred func(species string) bool) []int {
	var out []int
	for i, a := range s.atoms {
		if pred(a.Species) {
			out = append(out, i)
		}
	}
	return out
}

// Composition returns species counts.
func (s *Structure) Composition() map[string]int {
	c := make(map[string]int)
	for _, a := range s.atoms {
		c[a.Species]++
	}
	return c
}

// Formula returns the Hill formula with space separated terms,
// e.g. "C8 H4 O5 Zn2".
func (s *Structure) Formula() string {
	comp := s.Composition()
	syms := make([]string, 0, len(comp))
	for sym := range comp {
		syms = append(syms, sym)
	}
	_, hasC := comp["C"]
	sort.Slice(syms, func(i, j int) bool {
		ri, rj := hillRank(syms[i], hasC), hillRank(syms[j], hasC)
		if ri != rj {
			return ri < rj
		}
		return syms[i] < syms[j]
	})
	parts := make([]string, len(syms))
	for i, sym := range syms {
		parts[i] = sym + strconv.Itoa(comp[sym])
	}
	return strings.Join(parts, " ")
}

func hillRank(sym string, hasC bool) int {
	if !hasC {
		return 2
	}
	switch sym {
	case "C":
		return 0
	case "H":
		return 1
	}
	return 2
}

// Key is the content hash of the structure, stable across processes.
func (s *Structure) Key() uint64 { return s.key }

// Equal reports content equality.
func (s *Structure) Equal(o *Structure) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.key == o.key && len(s.atoms) == len(o.atoms)
}

func (s *Structure) computeKey() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(x float64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(int64(math.Round(x*1e6))))
		_, _ = d.Write(buf[:])
	}
	for _, row := range s.lattice {
		for _, x := range row {
			put(x)
		}
	}
	for _, a := range s.atoms {
		_, _ = d.WriteString(a.Species)
		_, _ = d.Write([]byte{0})
		for _, x := range a.Frac {
			put(x)
		}
	}
	return d.Sum64()
}

// String implements fmt.Stringer.
func (s *Structure) String() string {
	name := s.name
	if name == "" {
		name = "structure"
	}
	return fmt.Sprintf("%s(%s, %d atoms)", name, s.Formula(), len(s.atoms))
}
