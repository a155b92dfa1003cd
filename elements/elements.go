// Package elements exposes the per-element data the screening engine needs:
// covalent and van der Waals radii, atomic masses, chemical classes and the
// pair cutoff table used by the default neighbor strategy.
//
// The data ships as embedded YAML (data/elements.yaml, data/cutoffs.yaml)
// and is parsed once on first use. Radii lookups never fail: when a value is
// not tabulated the median of the tabulated values is returned together with
// exact=false, and the caller records a data-gap notice.
package elements

import (
	"embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed data/*.yaml
var dataFS embed.FS

// Class is the chemical family of an element.
type Class string

const (
	Alkali         Class = "alkali"
	Alkaline       Class = "alkaline"
	Transition     Class = "transition"
	PostTransition Class = "post_transition"
	Lanthanoid     Class = "lanthanoid"
	Actinoid       Class = "actinoid"
	Metalloid      Class = "metalloid"
	Nonmetal       Class = "nonmetal"
	Halogen        Class = "halogen"
	Noble          Class = "noble"
)

// Element is one row of the element table.
type Element struct {
	Symbol   string  `yaml:"-"`
	Z        int     `yaml:"z"`
	Mass     float64 `yaml:"mass"`
	Covalent float64 `yaml:"covalent"`
	VdW      float64 `yaml:"vdw"`
	Class    Class   `yaml:"class"`
}

// IsMetal reports whether e counts as a metal for site classification:
// alkali, alkaline earth, transition, post-transition, lanthanoid, actinoid.
func (e Element) IsMetal() bool {
	switch e.Class {
	case Alkali, Alkaline, Transition, PostTransition, Lanthanoid, Actinoid:
		return true
	}
	return false
}

// IsRareEarth reports Sc, Y and the lanthanoids.
func (e Element) IsRareEarth() bool {
	return e.Class == Lanthanoid || e.Symbol == "Sc" || e.Symbol == "Y"
}

// IsAlkaliAlkaline reports groups 1 and 2 (without H).
func (e Element) IsAlkaliAlkaline() bool {
	return e.Class == Alkali || e.Class == Alkaline
}

// Table is an immutable element lookup.
type Table struct {
	bySymbol    map[string]Element
	cutoffs     map[string]float64
	medianCov   float64
	medianVdW   float64
	cutoffLimit float64
}

type elementsDoc struct {
	Elements map[string]Element `yaml:"elements"`
}

type cutoffsDoc struct {
	Cutoffs map[string]float64 `yaml:"cutoffs"`
}

var (
	defaultOnce  sync.Once
	defaultTable *Table
	defaultErr   error
)

// Default returns the embedded table. It panics if the embedded data is
// malformed, which is a build defect.
func Default() *Table {
	defaultOnce.Do(func() {
		defaultTable, defaultErr = load()
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultTable
}

func load() (*Table, error) {
	raw, err := dataFS.ReadFile("data/elements.yaml")
	if err != nil {
		return nil, fmt.Errorf("elements: read table: %w", err)
	}
	var ed elementsDoc
	if err = yaml.Unmarshal(raw, &ed); err != nil {
		return nil, fmt.Errorf("elements: parse table: %w", err)
	}
	raw, err = dataFS.ReadFile("data/cutoffs.yaml")
	if err != nil {
		return nil, fmt.Errorf("elements: read cutoffs: %w", err)
	}
	var cd cutoffsDoc
	if err = yaml.Unmarshal(raw, &cd); err != nil {
		return nil, fmt.Errorf("elements: parse cutoffs: %w", err)
	}
	return NewTable(ed.Elements, cd.Cutoffs)
}

// NewTable builds a table from explicit data. Cutoff keys are "A-B" with
// either order accepted.
func NewTable(rows map[string]Element, cutoffs map[string]float64) (*Table, error) {
	t := &Table{
		bySymbol: make(map[string]Element, len(rows)),
		cutoffs:  make(map[string]float64, len(cutoffs)),
	}
	var covs, vdws []float64
	for sym, e := range rows {
		if e.Covalent <= 0 {
			return nil, fmt.Errorf("elements: %s has no covalent radius", sym)
		}
		e.Symbol = sym
		t.bySymbol[sym] = e
		covs = append(covs, e.Covalent)
		if e.VdW > 0 {
			vdws = append(vdws, e.VdW)
		}
	}
	for key, v := range cutoffs {
		a, b, ok := strings.Cut(key, "-")
		if !ok || v <= 0 {
			return nil, fmt.Errorf("elements: bad cutoff entry %q", key)
		}
		t.cutoffs[pairKey(a, b)] = v
		if v > t.cutoffLimit {
			t.cutoffLimit = v
		}
	}
	t.medianCov = median(covs)
	t.medianVdW = median(vdws)
	return t, nil
}

// Lookup returns the row for sym.
func (t *Table) Lookup(sym string) (Element, bool) {
	e, ok := t.bySymbol[sym]
	return e, ok
}

// Known reports whether sym is in the table.
func (t *Table) Known(sym string) bool {
	_, ok := t.bySymbol[sym]
	return ok
}

// CovalentRadius returns the covalent radius of sym; exact is false when
// the median fallback was used.
func (t *Table) CovalentRadius(sym string) (r float64, exact bool) {
	if e, ok := t.bySymbol[sym]; ok {
		return e.Covalent, true
	}
	return t.medianCov, false
}

// VdWRadius returns the van der Waals radius of sym; exact is false when
// the median fallback was used.
func (t *Table) VdWRadius(sym string) (r float64, exact bool) {
	if e, ok := t.bySymbol[sym]; ok && e.VdW > 0 {
		return e.VdW, true
	}
	return t.medianVdW, false
}

// Mass returns the atomic mass of sym, or 0 if unknown.
func (t *Table) Mass(sym string) float64 {
	return t.bySymbol[sym].Mass
}

// IsMetal reports whether sym is a metal.
func (t *Table) IsMetal(sym string) bool {
	e, ok := t.bySymbol[sym]
	return ok && e.IsMetal()
}

// IsRareEarth reports whether sym is a rare-earth metal.
func (t *Table) IsRareEarth(sym string) bool {
	e, ok := t.bySymbol[sym]
	return ok && e.IsRareEarth()
}

// IsAlkaliAlkaline reports whether sym is an alkali or alkaline earth metal.
func (t *Table) IsAlkaliAlkaline(sym string) bool {
	e, ok := t.bySymbol[sym]
	return ok && e.IsAlkaliAlkaline()
}

// IsHalogen reports whether sym is a halogen.
func (t *Table) IsHalogen(sym string) bool {
	return t.bySymbol[sym].Class == Halogen
}

// PairCutoff returns the tabulated bond cutoff for the pair (a,b).
func (t *Table) PairCutoff(a, b string) (float64, bool) {
	v, ok := t.cutoffs[pairKey(a, b)]
	return v, ok
}

// MaxCutoff is the largest tabulated pair cutoff.
func (t *Table) MaxCutoff() float64 { return t.cutoffLimit }

// Symbols returns all element symbols sorted by atomic number.
func (t *Table) Symbols() []string {
	out := make([]string, 0, len(t.bySymbol))
	for s := range t.bySymbol {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return t.bySymbol[out[i]].Z < t.bySymbol[out[j]].Z })
	return out
}

func pairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "-" + b
}

func median(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	s := append([]float64(nil), xs...)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}
