package checks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/elements"
	"github.com/katalvlaran/mofcheck/external"
	"github.com/katalvlaran/mofcheck/neighbors"
	"github.com/katalvlaran/mofcheck/oms"
	"github.com/katalvlaran/mofcheck/structure"
)

// CoordinationFunc returns the shared coordination cache, building the
// neighbor graph on first call. It must be safe for concurrent use.
type CoordinationFunc func() (*neighbors.Cache, error)

// Env is the state shared by all checks of one structure.
type Env struct {
	ctx        context.Context
	s          *structure.Structure
	coord      CoordinationFunc
	thresholds Thresholds
	pores      external.PoreAnalyzer
	charges    external.ChargeEngine
	fp         oms.Fingerprinter
	timeout    time.Duration
	log        *zap.Logger

	classifier Memo[*oms.Classifier]
}

// EnvOption configures an Env.
type EnvOption func(*Env)

// WithContext bounds collaborator calls and fragment extraction.
func WithContext(ctx context.Context) EnvOption {
	return func(e *Env) {
		if ctx != nil {
			e.ctx = ctx
		}
	}
}

// WithThresholds replaces DefaultThresholds.
func WithThresholds(t Thresholds) EnvOption {
	return func(e *Env) { e.thresholds = t }
}

// WithPoreAnalyzer sets the pore collaborator.
func WithPoreAnalyzer(p external.PoreAnalyzer) EnvOption {
	return func(e *Env) { e.pores = p }
}

// WithChargeEngine sets the charge collaborator.
func WithChargeEngine(c external.ChargeEngine) EnvOption {
	return func(e *Env) { e.charges = c }
}

// WithFingerprinter replaces the open metal site fingerprint routine.
func WithFingerprinter(f oms.Fingerprinter) EnvOption {
	return func(e *Env) { e.fp = f }
}

// WithTimeout bounds each collaborator call. Zero means no limit.
func WithTimeout(d time.Duration) EnvOption {
	return func(e *Env) { e.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) EnvOption {
	return func(e *Env) {
		if l != nil {
			e.log = l
		}
	}
}

// NewEnv returns the environment for s. coord is called lazily by the
// checks that need bonding information.
func NewEnv(s *structure.Structure, coord CoordinationFunc, opts ...EnvOption) *Env {
	e := &Env{
		ctx:        context.Background(),
		s:          s,
		coord:      coord,
		thresholds: DefaultThresholds(),
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CacheCoordination wraps a ready cache as a CoordinationFunc.
func CacheCoordination(c *neighbors.Cache) CoordinationFunc {
	return func() (*neighbors.Cache, error) { return c, nil }
}

// Structure returns the structure under test.
func (e *Env) Structure() *structure.Structure { return e.s }

// Table returns the element table of the structure.
func (e *Env) Table() *elements.Table { return e.s.Table() }

// Thresholds returns the active thresholds.
func (e *Env) Thresholds() Thresholds { return e.thresholds }

// Coordination returns the shared coordination cache.
func (e *Env) Coordination() (*neighbors.Cache, error) { return e.coord() }

// Classifier returns the open metal site classifier over the shared cache,
// built once.
func (e *Env) Classifier() (*oms.Classifier, error) {
	return e.classifier.Get(func() (*oms.Classifier, error) {
		c, err := e.coord()
		if err != nil {
			return nil, err
		}
		opts := []oms.Option{
			oms.WithLogger(e.log.Named("oms")),
			oms.WithThreshold(e.thresholds.OMSOpenRatio),
		}
		if e.fp != nil {
			opts = append(opts, oms.WithFingerprinter(e.fp))
		}
		return oms.NewClassifier(c, opts...), nil
	})
}

// callContext derives the context of one collaborator call.
func (e *Env) callContext() (context.Context, context.CancelFunc) {
	if e.timeout > 0 {
		return context.WithTimeout(e.ctx, e.timeout)
	}
	return context.WithCancel(e.ctx)
}
