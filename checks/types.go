package checks

import (
	"encoding/json"
	"sync"

	"github.com/katalvlaran/mofcheck/geom"
)

// Tristate is a verdict that may be unknown.
type Tristate int8

const (
	False Tristate = iota
	True
	Unknown
)

// TristateOf converts a boolean verdict.
func TristateOf(b bool) Tristate {
	if b {
		return True
	}
	return False
}

// Not swaps True and False and keeps Unknown.
func (t Tristate) Not() Tristate {
	switch t {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// Bool returns the verdict, or nil when unknown.
func (t Tristate) Bool() *bool {
	if t == Unknown {
		return nil
	}
	b := t == True
	return &b
}

// String implements fmt.Stringer.
func (t Tristate) String() string {
	switch t {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes true, false or null.
func (t Tristate) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Bool())
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (t *Tristate) UnmarshalJSON(b []byte) error {
	var v *bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	if v == nil {
		*t = Unknown
	} else {
		*t = TristateOf(*v)
	}
	return nil
}

// Result is the outcome of one check.
type Result struct {
	OK Tristate `json:"ok"`
	// Flagged holds the offending site indices, ascending.
	Flagged []int `json:"flagged,omitempty"`
	// Candidates holds, per flagged site, suggested Cartesian positions
	// of missing atoms.
	Candidates [][]geom.Vec3 `json:"candidates,omitempty"`
	// Note explains an Unknown verdict.
	Note string `json:"note,omitempty"`
}

// flagged builds an index check result: OK is True iff idx is empty.
func flagged(idx []int) Result {
	return Result{OK: TristateOf(len(idx) == 0), Flagged: idx}
}

// Check is the plain check shape.
type Check interface {
	// Key is the stable registry key, e.g. "no_atomic_overlaps".
	Key() string
	// Name is a short human readable title.
	Name() string
	Description() string
	OK() (Tristate, error)
	Result() (Result, error)
}

// IndexCheck reports the sites that failed.
type IndexCheck interface {
	Check
	Flagged() ([]int, error)
}

// MissingCheck also suggests where missing atoms belong.
type MissingCheck interface {
	IndexCheck
	Candidates() ([][]geom.Vec3, error)
}

// Memo computes a value at most once. The zero value is ready to use and
// safe for concurrent use.
type Memo[T any] struct {
	once sync.Once
	v    T
	err  error
}

// Get returns the memoized value, calling fn on first use only.
func (m *Memo[T]) Get(fn func() (T, error)) (T, error) {
	m.once.Do(func() { m.v, m.err = fn() })
	return m.v, m.err
}

// Thresholds are the tunable constants of the checks.
type Thresholds struct {
	// OMSOpenRatio is the open share above which a metal site is open.
	OMSOpenRatio float64
	// ExposedAngle is the open cone angle (degrees) above which an
	// alkali, alkaline earth or rare earth metal is exposed.
	ExposedAngle float64
	// OverlapTolerance scales min(r_cov) in the overlap criterion.
	OverlapTolerance float64
	// HighCharge is the largest acceptable |partial charge|.
	HighCharge float64
	// MinPoreDiameter is the smallest pore limiting diameter (Å) of a
	// porous framework.
	MinPoreDiameter float64
	// CarbonAngleTolerance (degrees) separates linear from bent CN2 carbon.
	CarbonAngleTolerance float64
	// NitrogenAngleTolerance (degrees) is used by the nitrogen heuristics.
	NitrogenAngleTolerance float64
	// HydrogenBondLength (Å) places candidate hydrogens.
	HydrogenBondLength float64
}

// DefaultThresholds returns the standard screening constants.
func DefaultThresholds() Thresholds {
	return Thresholds{
		OMSOpenRatio:           0.5,
		ExposedAngle:           80,
		OverlapTolerance:       1.0,
		HighCharge:             3.0,
		MinPoreDiameter:        2.4,
		CarbonAngleTolerance:   10,
		NitrogenAngleTolerance: 25,
		HydrogenBondLength:     1.0,
	}
}
