package wlhash

import (
	"github.com/katalvlaran/mofcheck/errors"
)

// Labeled is a finite node-labeled multigraph. Neighbors lists one entry
// per incident half-edge, so parallel edges repeat a neighbor and a
// self-loop lists the node itself.
type Labeled interface {
	Len() int
	Label(i int) string
	Neighbors(i int) []int
}

// DefaultRounds is the number of refinement rounds.
const DefaultRounds = 3

// ErrGraphNil is returned when a nil graph is hashed.
var ErrGraphNil = errors.Sentinel(errors.ErrUsage, "wlhash: graph is nil")

// Option configures Hash.
type Option func(*options)

type options struct {
	rounds int
}

// WithRounds sets the number of refinement rounds. Values below 1 are
// ignored.
func WithRounds(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.rounds = n
		}
	}
}
