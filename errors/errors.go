// Package errors provides error handling for mofcheck.
//
// This package re-exports github.com/cockroachdb/errors and adds the
// four-way taxonomy every screening operation reports through:
//
//	ErrUsage                   caller asked for something invalid
//	ErrDataGap                 element data missing; a fallback was used
//	ErrExternalToolUnavailable a collaborator (pore analyzer, charges) is absent
//	ErrStructuralUnsupported   the structure cannot be screened at all
//
// Concrete sentinels are declared with Sentinel, which records their class
// without marking them, so two sentinels of one class stay distinct under Is.
// Dynamic errors can still be tagged at the wrap site:
//
//	errors.Mark(err, errors.ErrUsage)
//
// Use Classify to map an arbitrary error to a Kind.
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	"sync"

	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is             = crdb.Is
	IsAny          = crdb.IsAny
	As             = crdb.As
	Unwrap         = crdb.Unwrap
	UnwrapAll      = crdb.UnwrapAll
	GetAllHints    = crdb.GetAllHints
	FlattenHints   = crdb.FlattenHints
	FlattenDetails = crdb.FlattenDetails
)

// Assertions
var AssertionFailedf = crdb.AssertionFailedf

// Taxonomy markers. Declare sentinels under one with Sentinel, or Mark
// dynamic errors with one at the wrap site.
var (
	ErrUsage                   = New("usage error")
	ErrDataGap                 = New("element data gap")
	ErrExternalToolUnavailable = New("external tool unavailable")
	ErrStructuralUnsupported   = New("structure unsupported")
)

var registry = struct {
	sync.RWMutex
	members map[error][]error
}{members: make(map[error][]error)}

// Sentinel returns a new sentinel error with message msg belonging to class.
// The result is not marked, so it only matches itself and its wrappers.
func Sentinel(class error, msg string) error {
	err := New(msg)
	registry.Lock()
	registry.members[class] = append(registry.members[class], err)
	registry.Unlock()
	return err
}

// inClass reports whether err was marked with class or wraps one of the
// sentinels declared under it.
func inClass(err, class error) bool {
	if Is(err, class) {
		return true
	}
	registry.RLock()
	members := registry.members[class]
	registry.RUnlock()
	return len(members) > 0 && IsAny(err, members...)
}

// Concrete sentinels shared across packages.
var (
	// ErrNoMetal is returned when a metal-site analysis runs on a structure
	// without metal atoms.
	ErrNoMetal = Sentinel(ErrUsage, "structure contains no metal site")

	// ErrUnknownDescriptor is returned for a descriptor name outside the catalog.
	ErrUnknownDescriptor = Sentinel(ErrUsage, "unknown descriptor")

	// ErrSiteOutOfRange is returned for a site index outside [0, N).
	ErrSiteOutOfRange = Sentinel(ErrUsage, "site index out of range")

	// ErrMissingElementData is returned in strict mode when a radius or
	// pair cutoff is not tabulated.
	ErrMissingElementData = Sentinel(ErrDataGap, "missing element data")

	// ErrUnsupportedCoordination is returned when no order-parameter profile
	// covers a coordination number.
	ErrUnsupportedCoordination = Sentinel(ErrDataGap, "unsupported coordination number")

	// ErrUnknownSpecies is returned when a structure names an element
	// the element table does not know.
	ErrUnknownSpecies = Sentinel(ErrStructuralUnsupported, "unknown species")

	// ErrPartialOccupancy is returned for disordered sites.
	ErrPartialOccupancy = Sentinel(ErrStructuralUnsupported, "partial occupancy")

	// ErrDegenerateLattice is returned for a singular or empty lattice.
	ErrDegenerateLattice = Sentinel(ErrStructuralUnsupported, "degenerate lattice")

	// ErrToolMissing is returned when an external collaborator is not configured.
	ErrToolMissing = Sentinel(ErrExternalToolUnavailable, "collaborator not configured")
)

// Kind is the taxonomy class of an error.
type Kind int

const (
	KindNone Kind = iota
	KindUsage
	KindDataGap
	KindExternalToolUnavailable
	KindStructuralUnsupported
	KindInternal
)

// String returns the lower-case name of k.
func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindUsage:
		return "usage"
	case KindDataGap:
		return "data_gap"
	case KindExternalToolUnavailable:
		return "external_tool_unavailable"
	case KindStructuralUnsupported:
		return "structural_unsupported"
	default:
		return "internal"
	}
}

// Classify maps err to its taxonomy class. Errors carrying none of the
// markers are KindInternal; nil is KindNone.
func Classify(err error) Kind {
	switch {
	case err == nil:
		return KindNone
	case inClass(err, ErrUsage):
		return KindUsage
	case inClass(err, ErrStructuralUnsupported):
		return KindStructuralUnsupported
	case inClass(err, ErrExternalToolUnavailable):
		return KindExternalToolUnavailable
	case inClass(err, ErrDataGap):
		return KindDataGap
	default:
		return KindInternal
	}
}

// IsUsage reports whether err is a usage error.
func IsUsage(err error) bool { return err != nil && inClass(err, ErrUsage) }

// IsUnavailable reports whether err stems from a missing collaborator.
func IsUnavailable(err error) bool {
	return err != nil && inClass(err, ErrExternalToolUnavailable)
}
