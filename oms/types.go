package oms

import (
	"encoding/json"

	"github.com/katalvlaran/mofcheck/errors"
)

// State is the tri-state outcome of classifying one site.
type State int

const (
	Closed State = iota
	Open
	Unknown
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	default:
		return "unknown"
	}
}

// MarshalJSON encodes Open as true, Closed as false and Unknown as null.
func (s State) MarshalJSON() ([]byte, error) {
	switch s {
	case Closed:
		return []byte("false"), nil
	case Open:
		return []byte("true"), nil
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON.
func (s *State) UnmarshalJSON(b []byte) error {
	var v *bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch {
	case v == nil:
		*s = Unknown
	case *v:
		*s = Open
	default:
		*s = Closed
	}
	return nil
}

// SiteResult describes one classified site.
type SiteResult struct {
	Site  int    `json:"site"`
	Metal string `json:"metal"`
	CN    int    `json:"cn"`
	// OrderParameters maps profile names to their [0,1] values; nil when no
	// profile was evaluated.
	OrderParameters map[string]float64 `json:"lsop"`
	Open            State              `json:"open"`
	// Note explains an Unknown outcome.
	Note string `json:"note,omitempty"`
}

// ErrBadProfile is returned for malformed profile tables.
var ErrBadProfile = errors.Sentinel(errors.ErrDataGap, "oms: malformed profile")
