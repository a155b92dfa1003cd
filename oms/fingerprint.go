package oms

import (
	"fmt"
	"math"

	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/geom"
)

// Fingerprinter computes order parameters of a site from the Cartesian
// positions of the site and its bonded neighbors. It returns one value in
// [0,1] per name.
type Fingerprinter interface {
	Fingerprint(center geom.Vec3, shell []geom.Vec3, names []string) ([]float64, error)
}

// FingerprinterFunc adapts a function to Fingerprinter.
type FingerprinterFunc func(center geom.Vec3, shell []geom.Vec3, names []string) ([]float64, error)

// Fingerprint calls f.
func (f FingerprinterFunc) Fingerprint(center geom.Vec3, shell []geom.Vec3, names []string) ([]float64, error) {
	return f(center, shell, names)
}

// DefaultAngleWidth is the angular deviation (degrees) at which an
// AngleFingerprinter parameter drops to 1/e.
const DefaultAngleWidth = 15.0

// ErrUnknownPolyhedron is returned for a parameter name without an ideal
// polyhedron, or one whose size does not match the shell.
var ErrUnknownPolyhedron = errors.Sentinel(errors.ErrDataGap, "oms: no ideal polyhedron")

// AngleFingerprinter scores a shell against ideal polyhedra by the mean
// absolute difference δ of the sorted pairwise bond angles:
// q = exp(−(δ/Width)²).
type AngleFingerprinter struct {
	Width float64
}

// Fingerprint implements Fingerprinter.
func (a AngleFingerprinter) Fingerprint(center geom.Vec3, shell []geom.Vec3, names []string) ([]float64, error) {
	width := a.Width
	if width <= 0 {
		width = DefaultAngleWidth
	}
	dirs := make([]geom.Vec3, len(shell))
	for k, p := range shell {
		dirs[k] = p.Sub(center)
	}
	got := geom.PairAngles(dirs)

	out := make([]float64, len(names))
	for k, name := range names {
		ideal, ok := geom.Polyhedron(name)
		if !ok || len(ideal) != len(shell) {
			return nil, fmt.Errorf("%w: %q for %d neighbors", ErrUnknownPolyhedron, name, len(shell))
		}
		want := geom.PairAngles(ideal)
		dev := 0.0
		for m := range want {
			dev += math.Abs(got[m] - want[m])
		}
		if len(want) > 0 {
			dev /= float64(len(want))
		}
		out[k] = math.Exp(-(dev / width) * (dev / width))
	}
	return out, nil
}
