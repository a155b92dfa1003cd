package checker

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/checks"
	"github.com/katalvlaran/mofcheck/config"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/external"
	"github.com/katalvlaran/mofcheck/neighbors"
	"github.com/katalvlaran/mofcheck/oms"
	"github.com/katalvlaran/mofcheck/structure"
)

// ErrNilStructure is returned by New for a nil structure.
var ErrNilStructure = errors.Sentinel(errors.ErrUsage, "checker: structure is nil")

// Descriptor is one named value of a Result. Value is a string, a float64,
// a checks.Tristate or nil.
type Descriptor struct {
	Name  string
	Value any
}

// Result is an ordered descriptor mapping.
type Result []Descriptor

// Get returns the value stored under name.
func (r Result) Get(name string) (any, bool) {
	for _, d := range r {
		if d.Name == name {
			return d.Value, true
		}
	}
	return nil, false
}

// Names returns the descriptor names in order.
func (r Result) Names() []string {
	out := make([]string, len(r))
	for i, d := range r {
		out[i] = d.Name
	}
	return out
}

// MarshalJSON encodes r as an object, keeping the descriptor order.
func (r Result) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, d := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(d.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(d.Value)
		if err != nil {
			return nil, errors.Wrapf(err, "descriptor %s", d.Name)
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// BuildFunc builds a coordination cache under ctx.
type BuildFunc func(ctx context.Context) (*neighbors.Cache, error)

// GraphCache shares coordination caches between checkers of structures
// with identical content. build is called on a miss; ctx is the calling
// checker's context.
type GraphCache interface {
	Coordination(ctx context.Context, s *structure.Structure, st neighbors.Strategy, build BuildFunc) (*neighbors.Cache, error)
}

// Option configures a Checker.
type Option func(*options)

type options struct {
	ctx        context.Context
	strategy   string
	strict     bool
	graphOpts  []neighbors.Option
	thresholds checks.Thresholds
	pores      external.PoreAnalyzer
	charges    external.ChargeEngine
	symmetry   external.SymmetryAnalyzer
	precision  float64
	fp         oms.Fingerprinter
	graphs     GraphCache
	timeout    time.Duration
	log        *zap.Logger
}

func defaultOptions() options {
	return options{
		ctx:        context.Background(),
		strategy:   string(neighbors.DefaultStrategy),
		thresholds: checks.DefaultThresholds(),
		precision:  external.DefaultSymmetryPrecision,
		log:        zap.NewNop(),
	}
}

// WithContext bounds graph construction and collaborator calls.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithStrategy selects the neighbor strategy by name. Unknown names fall
// back to neighbors.FallbackStrategy with a graph notice.
func WithStrategy(name string) Option {
	return func(o *options) { o.strategy = name }
}

// WithStrictElementData makes element data gaps fatal.
func WithStrictElementData() Option {
	return func(o *options) { o.strict = true }
}

// WithNeighborOptions passes extra options to the neighbor builder.
func WithNeighborOptions(opts ...neighbors.Option) Option {
	return func(o *options) { o.graphOpts = append(o.graphOpts, opts...) }
}

// WithThresholds replaces checks.DefaultThresholds.
func WithThresholds(t checks.Thresholds) Option {
	return func(o *options) { o.thresholds = t }
}

// WithPoreAnalyzer sets the pore collaborator of is_porous.
func WithPoreAnalyzer(p external.PoreAnalyzer) Option {
	return func(o *options) { o.pores = p }
}

// WithChargeEngine sets the charge collaborator of has_high_charges.
func WithChargeEngine(c external.ChargeEngine) Option {
	return func(o *options) { o.charges = c }
}

// WithSymmetryAnalyzer sets the collaborator of symmetry_hash.
func WithSymmetryAnalyzer(a external.SymmetryAnalyzer) Option {
	return func(o *options) { o.symmetry = a }
}

// WithSymmetryPrecision sets the analyzer tolerance in Å.
func WithSymmetryPrecision(p float64) Option {
	return func(o *options) {
		if p > 0 {
			o.precision = p
		}
	}
}

// WithFingerprinter replaces the open metal site fingerprint routine.
func WithFingerprinter(f oms.Fingerprinter) Option {
	return func(o *options) { o.fp = f }
}

// WithGraphCache shares neighbor graphs through g.
func WithGraphCache(g GraphCache) Option {
	return func(o *options) { o.graphs = g }
}

// WithTimeout bounds each collaborator call.
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// WithConfig applies the graph, threshold and collaborator timeout
// sections of cfg.
func WithConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		o.strategy = cfg.Graph.Strategy
		o.strict = cfg.Graph.StrictElementData
		o.thresholds = cfg.CheckThresholds()
		o.timeout = cfg.Timeout()
	}
}
