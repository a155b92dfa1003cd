package neighbors

import (
	"context"
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/elements"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/structure"
)

// Builder constructs neighbor graphs. A Builder is immutable and may be
// shared between goroutines.
type Builder struct {
	opts Options
}

// NewBuilder applies opts over DefaultOptions.
func NewBuilder(opts ...Option) *Builder {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Builder{opts: o}
}

// Strategy returns the resolved strategy of b.
func (b *Builder) Strategy() Strategy {
	st, _ := b.opts.resolve()
	return st
}

// Build builds the neighbor graph of s with the named strategy and default
// options. Unknown names fall back to FallbackStrategy.
func Build(s *structure.Structure, strategy string) (*Graph, error) {
	return NewBuilder(WithStrategyName(strategy)).Build(s)
}

// build holds the per-call state of one Build.
type build struct {
	opts    Options
	s       *structure.Structure
	table   *elements.Table
	st      Strategy
	bonds   map[bondKey]float64
	notices []Notice
	noted   map[string]bool
}

// Build runs the configured strategy over every site of s.
// Errors: ErrStructureNil, ErrOptionViolation, errors.ErrMissingElementData
// (strict mode only), or the context error on cancellation.
func (b *Builder) Build(s *structure.Structure) (*Graph, error) {
	return b.BuildContext(b.opts.Ctx, s)
}

// BuildContext is Build with ctx in place of the configured context.
func (b *Builder) BuildContext(ctx context.Context, s *structure.Structure) (*Graph, error) {
	if s == nil {
		return nil, ErrStructureNil
	}
	if b.opts.err != nil {
		return nil, b.opts.err
	}

	st, ok := b.opts.resolve()
	w := &build{
		opts:  b.opts,
		s:     s,
		table: s.Table(),
		st:    st,
		bonds: make(map[bondKey]float64),
		noted: make(map[string]bool),
	}
	if ctx != nil {
		w.opts.Ctx = ctx
	}
	if !ok {
		b.opts.Logger.Warn("unknown neighbor strategy, using fallback",
			zap.String("requested", b.opts.requested),
			zap.String("strategy", string(st)))
		w.notices = append(w.notices, Notice{
			Message: "unknown strategy " + b.opts.requested + ", used " + string(st),
		})
	}

	for i := 0; i < s.Len(); i++ {
		select {
		case <-w.opts.Ctx.Done():
			return nil, w.opts.Ctx.Err()
		default:
		}
		w.opts.OnSite(i)
		if err := w.site(i); err != nil {
			return nil, err
		}
	}
	return newGraph(s, st, w.bonds, w.notices), nil
}

// site dispatches one site to the strategy rule.
func (w *build) site(i int) error {
	switch w.st {
	case Vesta:
		return w.cutoffRule(i, w.vestaCutoff)
	case Jmol:
		return w.cutoffRule(i, w.jmolCutoff)
	case MinimumDistance:
		return w.minimumDistance(i)
	case Brunner:
		return w.brunner(i)
	case Voronoi:
		return w.voronoi(i)
	}
	// ParseStrategy never yields anything else
	return errors.AssertionFailedf("neighbors: unhandled strategy %q", w.st)
}

func (w *build) add(i int, n structure.Neighbor) {
	w.bonds[canonical(i, n.Index, n.Image)] = n.Distance
}

// note records a notice once per message.
func (w *build) note(species, msg string) {
	if w.noted[msg] {
		return
	}
	w.noted[msg] = true
	w.notices = append(w.notices, Notice{Species: species, Message: msg})
	w.opts.Logger.Warn("element data gap",
		zap.String("species", species),
		zap.String("strategy", string(w.st)),
		zap.String("detail", msg))
}

// covalent returns the covalent radius of sym, recording a gap if needed.
func (w *build) covalent(sym string) (float64, error) {
	r, exact := w.table.CovalentRadius(sym)
	if exact {
		return r, nil
	}
	if w.opts.Strict {
		return 0, errors.Wrapf(errors.ErrMissingElementData, "neighbors: covalent radius of %s", sym)
	}
	w.note(sym, "covalent radius of "+sym+" unknown, used median")
	return r, nil
}

// maxCovalent is the largest covalent radius among the species present.
func (w *build) maxCovalent() (float64, error) {
	m := 0.0
	for sym := range w.s.Composition() {
		r, err := w.covalent(sym)
		if err != nil {
			return 0, err
		}
		m = math.Max(m, r)
	}
	return m, nil
}

func (w *build) jmolTolerance() float64 {
	if w.opts.Tolerance > 0 {
		return w.opts.Tolerance
	}
	return DefaultJmolTolerance
}

// jmolCutoff is r_cov(a) + r_cov(b) + tolerance.
func (w *build) jmolCutoff(a, b string) (float64, error) {
	ra, err := w.covalent(a)
	if err != nil {
		return 0, err
	}
	rb, err := w.covalent(b)
	if err != nil {
		return 0, err
	}
	return ra + rb + w.jmolTolerance(), nil
}

// vestaCutoff reads the pair table and falls back to the jmol rule.
func (w *build) vestaCutoff(a, b string) (float64, error) {
	if c, ok := w.table.PairCutoff(a, b); ok {
		return c, nil
	}
	if w.opts.Strict {
		return 0, errors.Wrapf(errors.ErrMissingElementData, "neighbors: pair cutoff %s-%s", a, b)
	}
	pair := a + "-" + b
	if b < a {
		pair = b + "-" + a
	}
	w.note(pair, "no tabulated cutoff for "+pair+", used covalent radii")
	return w.jmolCutoff(a, b)
}

// cutoffRule bonds every image within the pair cutoff.
func (w *build) cutoffRule(i int, cutoff func(a, b string) (float64, error)) error {
	maxCov, err := w.maxCovalent()
	if err != nil {
		return err
	}
	search := 2*maxCov + w.jmolTolerance()
	if w.st == Vesta {
		search = math.Max(search, w.table.MaxCutoff())
	}
	si := w.s.Species(i)
	for _, n := range w.s.NeighborsWithin(i, search) {
		if n.Distance < MinBondDistance {
			continue
		}
		c, err := cutoff(si, w.s.Species(n.Index))
		if err != nil {
			return err
		}
		if n.Distance <= c {
			w.add(i, n)
		}
	}
	return nil
}

// minimumDistance bonds every image within (1+tol) of the nearest one.
func (w *build) minimumDistance(i int) error {
	tol := DefaultMinDistTolerance
	if w.opts.Tolerance > 0 {
		tol = w.opts.Tolerance
	}
	ns := w.candidates(i)
	if len(ns) == 0 {
		return nil
	}
	limit := ns[0].Distance * (1 + tol)
	for _, n := range ns {
		if n.Distance > limit {
			break
		}
		w.add(i, n)
	}
	return nil
}

// brunner bonds every image closer than the largest gap in the sorted
// distance list.
func (w *build) brunner(i int) error {
	ns := w.candidates(i)
	if len(ns) == 0 {
		return nil
	}
	edge, gap := ns[len(ns)-1].Distance, 0.0
	for k := 0; k+1 < len(ns); k++ {
		if g := ns[k+1].Distance - ns[k].Distance; g > gap+brunnerTieTolerance {
			edge, gap = ns[k].Distance, g
		}
	}
	for _, n := range ns {
		if n.Distance > edge+brunnerTieTolerance {
			break
		}
		w.add(i, n)
	}
	return nil
}

// voronoi bonds i to every image whose diametral sphere with i contains
// no third atom.
func (w *build) voronoi(i int) error {
	ns := w.candidates(i)
	ci := w.s.Cart(i)
	pos := make([]geom.Vec3, len(ns))
	for k, n := range ns {
		pos[k] = w.s.CartImage(n.Index, n.Image)
	}
	for k, n := range ns {
		mid := ci.Add(pos[k]).Scale(0.5)
		r := n.Distance/2 - voronoiSphereSlack
		empty := true
		// only atoms closer to i than n can sit inside the sphere
		for m := 0; m < len(ns) && ns[m].Distance < n.Distance; m++ {
			if m != k && pos[m].Sub(mid).Norm() < r {
				empty = false
				break
			}
		}
		if empty {
			w.add(i, n)
		}
	}
	return nil
}

// candidates returns the images within the search cutoff that are not
// overlaps.
func (w *build) candidates(i int) []structure.Neighbor {
	all := w.s.NeighborsWithin(i, w.opts.Cutoff)
	out := all[:0]
	for _, n := range all {
		if n.Distance >= MinBondDistance {
			out = append(out, n)
		}
	}
	return out
}
