// Package batch screens many structures in parallel.
//
// A Runner runs one checker per input on a bounded errgroup. Failures of a
// single input (unreadable file, unsupported structure, graph errors) are
// recorded on its Item and never stop the run; only cancellation of the
// run context does. Inputs sharing content share their neighbor graph
// through an optional memo.Cache.
package batch

import (
	"context"
	"runtime"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/mofcheck/checker"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/memo"
	"github.com/katalvlaran/mofcheck/structure"
)

// Input is one structure to screen. Structure wins over Path when both
// are set.
type Input struct {
	Path      string
	Structure *structure.Structure
}

// Item is the outcome for one input.
type Item struct {
	Index       int            `json:"index"`
	Path        string         `json:"path,omitempty"`
	Descriptors checker.Result `json:"descriptors,omitempty"`
	Error       string         `json:"error,omitempty"`
	Kind        string         `json:"kind,omitempty"`
	// Skipped is set when the run ended before or while the input was screened.
	Skipped bool `json:"skipped,omitempty"`
}

// Failed reports whether the input was screened and failed.
func (it Item) Failed() bool { return it.Error != "" && !it.Skipped }

// Report is the outcome of one run.
type Report struct {
	RunID   string        `json:"run_id"`
	Started time.Time     `json:"started"`
	Elapsed time.Duration `json:"elapsed_ns"`
	Items   []Item        `json:"items"`
	Failed  int           `json:"failed"`
	Skipped int           `json:"skipped"`
}

// Loader reads a structure from path.
type Loader func(path string) (*structure.Structure, error)

// Option configures a Runner.
type Option func(*Runner)

// WithWorkers bounds the number of structures screened at once. Values
// below 1 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(r *Runner) { r.workers = n }
}

// WithDescriptors selects the descriptors of every item. Empty means the
// whole catalog.
func WithDescriptors(names ...string) Option {
	return func(r *Runner) { r.names = append([]string(nil), names...) }
}

// WithCheckerOptions is applied to every checker of the run.
func WithCheckerOptions(opts ...checker.Option) Option {
	return func(r *Runner) { r.checkerOpts = append(r.checkerOpts, opts...) }
}

// WithMemo shares neighbor graphs through m.
func WithMemo(m *memo.Cache) Option {
	return func(r *Runner) { r.memo = m }
}

// WithLoader replaces structure.Load for path inputs.
func WithLoader(l Loader) Option {
	return func(r *Runner) {
		if l != nil {
			r.load = l
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(r *Runner) {
		if l != nil {
			r.log = l
		}
	}
}

// Runner screens batches. It is safe to reuse across runs.
type Runner struct {
	workers     int
	names       []string
	checkerOpts []checker.Option
	memo        *memo.Cache
	load        Loader
	log         *zap.Logger
}

// New returns a Runner. Descriptor names are validated here, so a bad
// request fails before any structure is read.
func New(opts ...Option) (*Runner, error) {
	r := &Runner{
		load: func(path string) (*structure.Structure, error) { return structure.Load(path, nil) },
		log:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.workers < 1 {
		r.workers = runtime.GOMAXPROCS(0)
	}
	if err := checker.Validate(r.names...); err != nil {
		return nil, err
	}
	return r, nil
}

// Run screens inputs. Items keep input order. The error is non-nil only
// when ctx ends before every input was screened; the partial report is
// still returned.
func (r *Runner) Run(ctx context.Context, inputs []Input) (*Report, error) {
	rep := &Report{
		RunID:   uuid.NewString(),
		Started: time.Now(),
		Items:   make([]Item, len(inputs)),
	}
	log := r.log.With(zap.String("run_id", rep.RunID))
	log.Info("batch started", zap.Int("inputs", len(inputs)), zap.Int("workers", r.workers))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, in := range inputs {
		idx := i
		input := in
		g.Go(func() error {
			select {
			case <-gctx.Done():
				rep.Items[idx] = Item{Path: input.Path, Skipped: true}
				return gctx.Err()
			default:
			}
			rep.Items[idx] = r.screen(gctx, log, idx, input)
			return nil
		})
	}
	err := g.Wait()

	rep.Elapsed = time.Since(rep.Started)
	for i := range rep.Items {
		rep.Items[i].Index = i
		switch {
		case rep.Items[i].Skipped:
			rep.Skipped++
		case rep.Items[i].Failed():
			rep.Failed++
		}
	}
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		log.Warn("batch interrupted",
			zap.Int("failed", rep.Failed),
			zap.Int("skipped", rep.Skipped),
			zap.Error(err))
		return rep, errors.Wrap(err, "batch interrupted")
	}
	log.Info("batch finished",
		zap.Int("inputs", len(inputs)),
		zap.Int("failed", rep.Failed),
		zap.Duration("elapsed", rep.Elapsed))
	return rep, nil
}

func (r *Runner) screen(ctx context.Context, log *zap.Logger, idx int, in Input) Item {
	it := Item{Index: idx, Path: in.Path}
	log = log.With(zap.Int("index", idx), zap.String("path", in.Path))

	res, err := r.descriptors(ctx, log, in)
	if err != nil && ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		it.Error = err.Error()
		it.Skipped = true
		log.Debug("structure interrupted", zap.Error(err))
		return it
	}
	if err != nil {
		it.Error = err.Error()
		it.Kind = errors.Classify(err).String()
		log.Warn("structure not screened", zap.String("kind", it.Kind), zap.Error(err))
		return it
	}
	it.Descriptors = res
	log.Debug("structure screened")
	return it
}

func (r *Runner) descriptors(ctx context.Context, log *zap.Logger, in Input) (checker.Result, error) {
	s := in.Structure
	if s == nil {
		var err error
		if s, err = r.load(in.Path); err != nil {
			return nil, err
		}
	}
	opts := append([]checker.Option{
		checker.WithContext(ctx),
		checker.WithLogger(log),
	}, r.checkerOpts...)
	if r.memo != nil {
		opts = append(opts, checker.WithGraphCache(r.memo))
	}
	c, err := checker.New(s, opts...)
	if err != nil {
		return nil, err
	}
	return c.Descriptors(r.names...)
}
