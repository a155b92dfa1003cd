package fragment

import (
	"context"
	"sort"

	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/geom"
)

// BlockSize is the replication factor used by Extract along each axis.
const BlockSize = 3

// ErrGraphNil is returned when a nil graph is passed.
var ErrGraphNil = errors.Sentinel(errors.ErrUsage, "fragment: graph is nil")

// Fragment is one finite connected component mapped back to the unit cell.
// It implements wlhash.Labeled.
type Fragment struct {
	// Indices are the original atom indices, ascending.
	Indices []int
	// Species is aligned with Indices.
	Species []string
	// Coords are Cartesian positions of one connected replica, aligned with
	// Indices; centred on the centroid when WithCentered is set.
	Coords []geom.Vec3

	adj [][]int
}

// Len returns the number of atoms in the fragment.
func (f Fragment) Len() int { return len(f.Indices) }

// Label returns the species of the k-th atom.
func (f Fragment) Label(k int) string { return f.Species[k] }

// Neighbors returns positions (into Indices) bonded to the k-th atom.
func (f Fragment) Neighbors(k int) []int { return f.adj[k] }

// Centroid returns the mean of Coords.
func (f Fragment) Centroid() geom.Vec3 {
	var c geom.Vec3
	for _, p := range f.Coords {
		c = c.Add(p)
	}
	if len(f.Coords) == 0 {
		return c
	}
	return c.Scale(1 / float64(len(f.Coords)))
}

// Result lists the fragments found by Extract.
type Result struct {
	Fragments []Fragment
}

// OK reports whether no fragment was found.
func (r *Result) OK() bool { return len(r.Fragments) == 0 }

// Indices returns the original indices of every fragment.
func (r *Result) Indices() [][]int {
	out := make([][]int, len(r.Fragments))
	for k, f := range r.Fragments {
		out[k] = append([]int(nil), f.Indices...)
	}
	return out
}

// Flat returns the union of all fragment indices, ascending.
func (r *Result) Flat() []int {
	var out []int
	seen := make(map[int]bool)
	for _, f := range r.Fragments {
		for _, i := range f.Indices {
			if !seen[i] {
				seen[i] = true
				out = append(out, i)
			}
		}
	}
	sort.Ints(out)
	return out
}

// Option configures Extract.
type Option func(*options)

type options struct {
	ctx      context.Context
	centered bool
	dedup    bool
}

func defaultOptions() options {
	return options{ctx: context.Background()}
}

// WithContext sets a context checked during component discovery.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithCentered shifts fragment coordinates so the centroid is the origin.
func WithCentered() Option {
	return func(o *options) { o.centered = true }
}

// WithDeduplicate applies Deduplicate to the result.
func WithDeduplicate() Option {
	return func(o *options) { o.dedup = true }
}
