package structure

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/geom"
)

var (
	// ErrBadMultiplier is returned by Supercell for non-positive multipliers.
	ErrBadMultiplier = errors.Sentinel(errors.ErrUsage, "structure: supercell multipliers must be positive")

	// ErrUnsupportedFormat is returned by Load for files no parser handles.
	ErrUnsupportedFormat = errors.Sentinel(errors.ErrUsage, "structure: unsupported file format")
)

// Parser turns an encoded structure into a Structure. Crystallographic
// formats (CIF) are provided by callers through this interface.
type Parser interface {
	Parse(r io.Reader, name string) (*Structure, error)
}

// Document is the YAML/JSON structure document understood by YAMLParser:
//
//	name: ZIF-8-fragment
//	lattice: [[17.0, 0, 0], [0, 17.0, 0], [0, 0, 17.0]]
//	atoms:
//	  - {species: Zn, frac: [0.0, 0.0, 0.0]}
//	  - {species: N, cart: [1.2, 0.9, 0.4]}
type Document struct {
	Name    string        `yaml:"name" json:"name"`
	Lattice [3][3]float64 `yaml:"lattice" json:"lattice"`
	Atoms   []DocAtom     `yaml:"atoms" json:"atoms"`
}

// DocAtom is one atom of a Document. Exactly one of Frac and Cart is set.
type DocAtom struct {
	Species   string    `yaml:"species" json:"species"`
	Frac      []float64 `yaml:"frac,omitempty" json:"frac,omitempty"`
	Cart      []float64 `yaml:"cart,omitempty" json:"cart,omitempty"`
	Occupancy float64   `yaml:"occupancy,omitempty" json:"occupancy,omitempty"`
}

// YAMLParser reads Documents. JSON input is accepted as YAML.
type YAMLParser struct{}

// Parse implements Parser.
func (YAMLParser) Parse(r io.Reader, name string) (*Structure, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrUsage), "structure: decode %s", name)
	}
	return doc.Build(WithPath(name))
}

// Build converts the document into a Structure.
func (d Document) Build(opts ...Option) (*Structure, error) {
	lat := geom.Mat3{geom.Vec3(d.Lattice[0]), geom.Vec3(d.Lattice[1]), geom.Vec3(d.Lattice[2])}
	inv, err := lat.Inverse()
	if err != nil {
		return nil, errors.Wrap(errors.ErrDegenerateLattice, "structure: document lattice")
	}
	atoms := make([]Atom, len(d.Atoms))
	for i, a := range d.Atoms {
		var f geom.Vec3
		switch {
		case len(a.Frac) == 3:
			f = geom.Vec3{a.Frac[0], a.Frac[1], a.Frac[2]}
		case len(a.Cart) == 3:
			f = inv.LeftMul(geom.Vec3{a.Cart[0], a.Cart[1], a.Cart[2]})
		default:
			return nil, errors.Wrapf(errors.Mark(errors.New("atom needs frac or cart triple"), errors.ErrUsage),
				"structure: atom %d", i)
		}
		atoms[i] = Atom{Species: a.Species, Frac: f, Occupancy: a.Occupancy}
	}
	name := d.Name
	opts = append([]Option{WithName(name)}, opts...)
	return New(lat, atoms, opts...)
}

// Load reads a structure file with the parser matching its extension.
// Additional parsers may be registered per extension via parsers.
func Load(path string, parsers map[string]Parser) (*Structure, error) {
	ext := strings.ToLower(filepath.Ext(path))
	p, ok := parsers[ext]
	if !ok {
		switch ext {
		case ".yaml", ".yml", ".json":
			p = YAMLParser{}
		default:
			return nil, errors.WithHint(errors.Wrapf(ErrUnsupportedFormat, "%s", path),
				"convert the file to the YAML structure document or register a Parser")
		}
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(errors.Mark(err, errors.ErrUsage), "structure: open %s", path)
	}
	defer f.Close()

	s, err := p.Parse(f, path)
	if err != nil {
		return nil, err
	}
	if s.name == "" {
		s.name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return s, nil
}
