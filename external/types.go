package external

import (
	"context"

	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/structure"
)

// ErrToolMissing is returned when a collaborator is not configured or its
// binary cannot be found.
var ErrToolMissing = errors.ErrToolMissing

// ErrBadOutput is returned when a collaborator produced unreadable output.
var ErrBadOutput = errors.Sentinel(errors.ErrExternalToolUnavailable, "external: unreadable tool output")

// Pores holds sphere diameters in Å.
type Pores struct {
	// LIS is the largest included sphere.
	LIS float64 `json:"lis"`
	// LIFS is the largest free sphere, i.e. the pore limiting diameter.
	LIFS float64 `json:"lifs"`
	// LIFSP is the largest included sphere along the free sphere path.
	LIFSP float64 `json:"lifsp"`
}

// PoreAnalyzer computes pore diameters.
type PoreAnalyzer interface {
	Pores(ctx context.Context, s *structure.Structure) (Pores, error)
}

// PoreFunc adapts a function to PoreAnalyzer.
type PoreFunc func(ctx context.Context, s *structure.Structure) (Pores, error)

// Pores calls f.
func (f PoreFunc) Pores(ctx context.Context, s *structure.Structure) (Pores, error) {
	return f(ctx, s)
}

// ChargeEngine computes one partial charge per atom.
type ChargeEngine interface {
	Charges(ctx context.Context, s *structure.Structure) ([]float64, error)
}

// ChargeFunc adapts a function to ChargeEngine.
type ChargeFunc func(ctx context.Context, s *structure.Structure) ([]float64, error)

// Charges calls f.
func (f ChargeFunc) Charges(ctx context.Context, s *structure.Structure) ([]float64, error) {
	return f(ctx, s)
}

// Symmetry is the outcome of a space group analysis.
type Symmetry struct {
	Symbol  string   `json:"symbol"`
	Number  int      `json:"number"`
	Wyckoff []string `json:"wyckoff"`
}

// SymmetryAnalyzer determines the space group of a structure at the given
// distance precision (Å).
type SymmetryAnalyzer interface {
	Symmetry(ctx context.Context, s *structure.Structure, precision float64) (Symmetry, error)
}

// SymmetryFunc adapts a function to SymmetryAnalyzer.
type SymmetryFunc func(ctx context.Context, s *structure.Structure, precision float64) (Symmetry, error)

// Symmetry calls f.
func (f SymmetryFunc) Symmetry(ctx context.Context, s *structure.Structure, precision float64) (Symmetry, error) {
	return f(ctx, s, precision)
}

// DefaultSymmetryPrecision matches the loose tolerance used for
// experimental frameworks.
const DefaultSymmetryPrecision = 0.5
