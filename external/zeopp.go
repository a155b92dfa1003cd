package external

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/structure"
)

// DefaultZeoPPBinary is the zeo++ executable name.
const DefaultZeoPPBinary = "network"

// Runner executes a command and returns its combined output.
type Runner func(ctx context.Context, name string, args ...string) ([]byte, error)

func execRunner(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).CombinedOutput()
}

// ZeoPP runs the zeo++ network binary.
type ZeoPP struct {
	binary   string
	timeout  time.Duration
	log      *zap.Logger
	run      Runner
	lookPath func(string) (string, error)
}

// ZeoOption configures ZeoPP.
type ZeoOption func(*ZeoPP)

// WithBinary sets the executable name or path.
func WithBinary(path string) ZeoOption {
	return func(z *ZeoPP) {
		if path != "" {
			z.binary = path
		}
	}
}

// WithTimeout bounds one run. Zero means no limit beyond the caller's context.
func WithTimeout(d time.Duration) ZeoOption {
	return func(z *ZeoPP) { z.timeout = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) ZeoOption {
	return func(z *ZeoPP) {
		if l != nil {
			z.log = l
		}
	}
}

// WithRunner replaces process execution, mainly for tests.
func WithRunner(r Runner) ZeoOption {
	return func(z *ZeoPP) {
		if r != nil {
			z.run = r
			z.lookPath = func(name string) (string, error) { return name, nil }
		}
	}
}

// NewZeoPP returns a zeo++ runner.
func NewZeoPP(opts ...ZeoOption) *ZeoPP {
	z := &ZeoPP{
		binary:   DefaultZeoPPBinary,
		log:      zap.NewNop(),
		run:      execRunner,
		lookPath: exec.LookPath,
	}
	for _, opt := range opts {
		opt(z)
	}
	return z
}

// Available reports whether the binary can be found.
func (z *ZeoPP) Available() bool {
	_, err := z.lookPath(z.binary)
	return err == nil
}

// Pores implements PoreAnalyzer.
// Errors: ErrToolMissing when the binary is absent, ErrBadOutput for an
// unreadable result file, or the run error (including deadline expiry).
func (z *ZeoPP) Pores(ctx context.Context, s *structure.Structure) (Pores, error) {
	bin, err := z.lookPath(z.binary)
	if err != nil {
		return Pores{}, errors.Wrapf(ErrToolMissing, "zeo++ binary %q", z.binary)
	}
	if z.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, z.timeout)
		defer cancel()
	}

	dir, err := os.MkdirTemp("", "mofcheck-zeopp-")
	if err != nil {
		return Pores{}, errors.Wrap(err, "zeo++ scratch dir")
	}
	defer os.RemoveAll(dir)

	cifPath := filepath.Join(dir, "structure.cif")
	resPath := filepath.Join(dir, "result.res")
	if err = writeCIFFile(cifPath, s); err != nil {
		return Pores{}, err
	}

	start := time.Now()
	out, err := z.run(ctx, bin, "-ha", "-res", resPath, cifPath)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		z.log.Warn("zeo++ failed", zap.String("structure", s.Name()), zap.ByteString("output", out), zap.Error(err))
		return Pores{}, errors.Wrap(err, "zeo++ network")
	}
	z.log.Debug("zeo++ finished", zap.String("structure", s.Name()), zap.Duration("took", time.Since(start)))

	f, err := os.Open(resPath)
	if err != nil {
		return Pores{}, errors.Wrap(ErrBadOutput, err.Error())
	}
	defer f.Close()
	return ParseRes(f)
}

func writeCIFFile(path string, s *structure.Structure) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "zeo++ input")
	}
	if err = WriteCIF(f, s); err != nil {
		f.Close()
		return errors.Wrap(err, "zeo++ input")
	}
	return f.Close()
}

// ParseRes reads the first line of a zeo++ .res file:
//
//	<file> <lis> <lifs> <lifsp>
func ParseRes(r io.Reader) (Pores, error) {
	sc := bufio.NewScanner(r)
	if !sc.Scan() {
		if err := sc.Err(); err != nil {
			return Pores{}, errors.Wrap(ErrBadOutput, err.Error())
		}
		return Pores{}, errors.Wrap(ErrBadOutput, "empty .res file")
	}
	parts := strings.Fields(sc.Text())
	if len(parts) < 4 {
		return Pores{}, errors.Wrapf(ErrBadOutput, ".res line has %d fields", len(parts))
	}
	var v [3]float64
	for k := range v {
		x, err := strconv.ParseFloat(parts[k+1], 64)
		if err != nil {
			return Pores{}, errors.Wrapf(ErrBadOutput, "field %d: %v", k+1, err)
		}
		v[k] = x
	}
	return Pores{LIS: v[0], LIFS: v[1], LIFSP: v[2]}, nil
}

var _ PoreAnalyzer = (*ZeoPP)(nil)
