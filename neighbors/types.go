package neighbors

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/errors"
)

// Strategy names a bonding rule.
type Strategy string

const (
	Vesta           Strategy = "vesta"
	Jmol            Strategy = "jmol"
	MinimumDistance Strategy = "minimumdistance"
	Brunner         Strategy = "brunner"
	Voronoi         Strategy = "voronoi"
)

// DefaultStrategy is used when no strategy is requested.
const DefaultStrategy = Vesta

// FallbackStrategy replaces unknown strategy names.
const FallbackStrategy = Jmol

// Strategies lists every supported strategy.
func Strategies() []Strategy {
	return []Strategy{Vesta, Jmol, MinimumDistance, Brunner, Voronoi}
}

// ParseStrategy resolves a case-insensitive name. An empty name yields
// DefaultStrategy; an unknown one yields FallbackStrategy and ok=false.
func ParseStrategy(name string) (s Strategy, ok bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	if n == "" {
		return DefaultStrategy, true
	}
	for _, st := range Strategies() {
		if string(st) == n {
			return st, true
		}
	}
	return FallbackStrategy, false
}

// Sentinel errors.
var (
	// ErrStructureNil is returned when Build receives a nil structure.
	ErrStructureNil = errors.Sentinel(errors.ErrUsage, "neighbors: structure is nil")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.Sentinel(errors.ErrUsage, "neighbors: invalid option supplied")
)

// Default parameters.
const (
	// DefaultJmolTolerance is added to the covalent radius sum (Å).
	DefaultJmolTolerance = 0.45
	// DefaultMinDistTolerance is the relative slack over the nearest distance.
	DefaultMinDistTolerance = 0.10
	// DefaultSearchCutoff bounds distance-ranked strategies (Å).
	DefaultSearchCutoff = 6.0
	// MinBondDistance: shorter contacts are overlaps, not bonds (Å).
	MinBondDistance = 0.4

	brunnerTieTolerance = 1e-4
	voronoiSphereSlack  = 1e-6
)

// Option configures a Builder.
// Invalid options are recorded and surfaced as ErrOptionViolation by Build.
type Option func(*Options)

// Options holds Builder parameters.
type Options struct {
	// Ctx allows cancellation between sites.
	Ctx context.Context

	// Strategy is the bonding rule as requested. Build resolves it; an
	// unknown name runs FallbackStrategy.
	Strategy Strategy

	// Cutoff bounds the neighbor search for minimumdistance, brunner and
	// voronoi (Å).
	Cutoff float64

	// Tolerance is the strategy tolerance: absolute Å for jmol, relative for
	// minimumdistance. Zero selects the strategy default.
	Tolerance float64

	// Strict turns element data fallbacks into errors.
	Strict bool

	// Logger receives data-gap warnings.
	Logger *zap.Logger

	// OnSite is called once per site before its neighbors are searched.
	OnSite func(site int)

	requested string
	err       error
}

// resolve maps the requested strategy to the one Build runs.
func (o Options) resolve() (Strategy, bool) {
	return ParseStrategy(string(o.Strategy))
}

// DefaultOptions returns the defaults: vesta, 6 Å search, non-strict,
// no-op logger and hook.
func DefaultOptions() Options {
	return Options{
		Ctx:      context.Background(),
		Strategy: DefaultStrategy,
		Cutoff:   DefaultSearchCutoff,
		Logger:   zap.NewNop(),
		OnSite:   func(int) {},
	}
}

// WithContext sets a context for cancellation.
func WithContext(ctx context.Context) Option {
	return func(o *Options) {
		if ctx != nil {
			o.Ctx = ctx
		}
	}
}

// WithStrategy selects a strategy.
func WithStrategy(s Strategy) Option {
	return func(o *Options) {
		o.requested = string(s)
		o.Strategy = s
	}
}

// WithStrategyName selects a strategy by name. Unknown names fall back to
// FallbackStrategy with a warning at Build time.
func WithStrategyName(name string) Option {
	return func(o *Options) {
		o.requested = name
		o.Strategy = Strategy(name)
	}
}

// WithCutoff sets the search radius in Å (must be > 0).
func WithCutoff(r float64) Option {
	return func(o *Options) {
		if r <= 0 {
			o.err = fmt.Errorf("%w: cutoff must be positive (%g)", ErrOptionViolation, r)
			return
		}
		o.Cutoff = r
	}
}

// WithTolerance sets the strategy tolerance (must be >= 0).
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if tol < 0 {
			o.err = fmt.Errorf("%w: tolerance cannot be negative (%g)", ErrOptionViolation, tol)
			return
		}
		o.Tolerance = tol
	}
}

// WithStrictElementData makes missing element data fatal.
func WithStrictElementData() Option {
	return func(o *Options) { o.Strict = true }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithOnSite registers a per-site hook.
func WithOnSite(fn func(site int)) Option {
	return func(o *Options) {
		if fn != nil {
			o.OnSite = fn
		}
	}
}
