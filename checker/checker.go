package checker

import (
	"context"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/checks"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/external"
	"github.com/katalvlaran/mofcheck/fragment"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
	"github.com/katalvlaran/mofcheck/oms"
	"github.com/katalvlaran/mofcheck/structure"
	"github.com/katalvlaran/mofcheck/wlhash"
)

// Checker screens one structure. See the package documentation.
type Checker struct {
	s       *structure.Structure
	opts    options
	log     *zap.Logger
	builder *neighbors.Builder

	builds  atomic.Int64
	queries atomic.Int64
	coord   checks.Memo[*neighbors.Cache]

	env *checks.Env
	reg *checks.Registry

	hashes   [4]checks.Memo[string]
	symmetry checks.Memo[*string]
}

// New prepares a Checker for s. No graph is built until a descriptor or
// check needs one.
func New(s *structure.Structure, opts ...Option) (*Checker, error) {
	if s == nil {
		return nil, ErrNilStructure
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	c := &Checker{
		s:    s,
		opts: o,
		log:  o.log.With(zap.String("structure", s.Name())),
	}

	nopts := []neighbors.Option{
		neighbors.WithContext(o.ctx),
		neighbors.WithStrategyName(o.strategy),
		neighbors.WithLogger(c.log.Named("neighbors")),
		neighbors.WithOnSite(func(int) { c.queries.Add(1) }),
	}
	if o.strict {
		nopts = append(nopts, neighbors.WithStrictElementData())
	}
	c.builder = neighbors.NewBuilder(append(nopts, o.graphOpts...)...)

	c.env = checks.NewEnv(s, c.Coordination,
		checks.WithContext(o.ctx),
		checks.WithThresholds(o.thresholds),
		checks.WithPoreAnalyzer(o.pores),
		checks.WithChargeEngine(o.charges),
		checks.WithFingerprinter(o.fp),
		checks.WithTimeout(o.timeout),
		checks.WithLogger(c.log.Named("checks")),
	)
	c.reg = checks.NewRegistry(c.env)
	return c, nil
}

// Structure returns the structure under test.
func (c *Checker) Structure() *structure.Structure { return c.s }

// Strategy returns the resolved neighbor strategy.
func (c *Checker) Strategy() neighbors.Strategy { return c.builder.Strategy() }

// Coordination returns the coordination cache, building the neighbor graph
// on first call.
func (c *Checker) Coordination() (*neighbors.Cache, error) {
	return c.coord.Get(func() (*neighbors.Cache, error) {
		if c.opts.graphs != nil {
			return c.opts.graphs.Coordination(c.opts.ctx, c.s, c.Strategy(), c.buildCoordination)
		}
		return c.buildCoordination(c.opts.ctx)
	})
}

func (c *Checker) buildCoordination(ctx context.Context) (*neighbors.Cache, error) {
	start := time.Now()
	c.builds.Add(1)
	g, err := c.builder.BuildContext(ctx, c.s)
	if err != nil {
		c.log.Warn("neighbor graph failed", zap.Error(err))
		return nil, errors.Wrap(err, "build neighbor graph")
	}
	c.log.Debug("neighbor graph built",
		zap.String("strategy", string(g.Strategy())),
		zap.Int("sites", g.Len()),
		zap.Int("edges", len(g.Edges())),
		zap.Int("notices", len(g.Notices())),
		zap.Duration("elapsed", time.Since(start)))
	return neighbors.NewCache(g), nil
}

// Graph returns the neighbor graph.
func (c *Checker) Graph() (*neighbors.Graph, error) {
	cache, err := c.Coordination()
	if err != nil {
		return nil, err
	}
	return cache.Graph(), nil
}

// GraphBuilds reports how many times the neighbor graph was built: zero
// until a graph-dependent value is requested, one afterwards.
func (c *Checker) GraphBuilds() int { return int(c.builds.Load()) }

// SiteQueries reports how many sites the neighbor search visited.
func (c *Checker) SiteQueries() int { return int(c.queries.Load()) }

// Checks returns the registry keys in order.
func (c *Checker) Checks() []string { return c.reg.Keys() }

// Check returns the check registered under key.
func (c *Checker) Check(key string) (checks.Check, error) {
	ck, ok := c.reg.Get(key)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownDescriptor, "check %q", key)
	}
	return ck, nil
}

// Results evaluates the named checks (all when keys is empty).
func (c *Checker) Results(keys ...string) (map[string]checks.Result, error) {
	if len(keys) == 0 {
		keys = c.reg.Keys()
	}
	out := make(map[string]checks.Result, len(keys))
	for _, k := range keys {
		ck, err := c.Check(k)
		if err != nil {
			return nil, err
		}
		r, err := ck.Result()
		if err != nil {
			return nil, errors.Wrapf(err, "check %s", k)
		}
		out[k] = r
	}
	return out, nil
}

// Candidates returns the suggested positions of the atoms a missing-atom
// check believes absent.
func (c *Checker) Candidates(key string) ([][]geom.Vec3, error) {
	ck, err := c.Check(key)
	if err != nil {
		return nil, err
	}
	mc, ok := ck.(checks.MissingCheck)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnknownDescriptor, "check %q has no candidates", key)
	}
	return mc.Candidates()
}

// MetalDescriptors returns the per-site open metal site analysis keyed by
// site index. A structure without metals fails with errors.ErrNoMetal.
func (c *Checker) MetalDescriptors() (map[string]oms.SiteResult, error) {
	cl, err := c.env.Classifier()
	if err != nil {
		return nil, err
	}
	return cl.Descriptors()
}

// Fragments returns the floating fragments of the structure.
func (c *Checker) Fragments() (*fragment.Result, error) {
	ck, err := c.Check(checks.KeyFloatingMolecule)
	if err != nil {
		return nil, err
	}
	return ck.(*checks.FloatingMolecule).Fragments()
}

// hash returns the memoized graph fingerprint of variant v.
func (c *Checker) hash(v int, fn func(*neighbors.Graph, ...wlhash.Option) (string, error)) (string, error) {
	return c.hashes[v].Get(func() (string, error) {
		g, err := c.Graph()
		if err != nil {
			return "", err
		}
		return fn(g)
	})
}

// SymmetryHash returns the space group fingerprint, or nil when no analyzer
// is configured or the analyzer fails. Symmetry reports the failure.
func (c *Checker) SymmetryHash() *string {
	h, _ := c.Symmetry()
	return h
}

// Symmetry returns the space group fingerprint. The hash is nil with a nil
// error when no analyzer is configured; an analyzer failure is returned
// classified as errors.ErrExternalToolUnavailable.
func (c *Checker) Symmetry() (*string, error) {
	return c.symmetry.Get(func() (*string, error) {
		if c.opts.symmetry == nil {
			c.log.Debug("symmetry analyzer not configured")
			return nil, nil
		}
		ctx, cancel := c.callContext()
		defer cancel()
		sym, err := c.opts.symmetry.Symmetry(ctx, c.s, c.opts.precision)
		if err != nil {
			c.log.Warn("symmetry analysis failed, symmetry_hash is null", zap.Error(err))
			return nil, errors.Wrap(errors.Mark(err, errors.ErrExternalToolUnavailable), "symmetry analysis")
		}
		h := external.SymmetryHash(sym)
		return &h, nil
	})
}

func (c *Checker) callContext() (context.Context, context.CancelFunc) {
	if c.opts.timeout > 0 {
		return context.WithTimeout(c.opts.ctx, c.opts.timeout)
	}
	return context.WithCancel(c.opts.ctx)
}
