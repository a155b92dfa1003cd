package external_test

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mofcheck/builder"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/external"
	"github.com/katalvlaran/mofcheck/geom"
)

func TestParseRes(t *testing.T) {
	p, err := external.ParseRes(strings.NewReader("/tmp/x/result.res    6.71 4.52  6.70\nignored\n"))
	require.NoError(t, err)
	assert.Equal(t, external.Pores{LIS: 6.71, LIFS: 4.52, LIFSP: 6.70}, p)

	for _, bad := range []string{"", "res 1.0 2.0", "res 1.0 x 3.0"} {
		_, err = external.ParseRes(strings.NewReader(bad))
		assert.ErrorIs(t, err, external.ErrBadOutput, bad)
		assert.True(t, errors.IsUnavailable(err))
	}
}

func TestSymmetryHash(t *testing.T) {
	cases := []struct {
		sym  external.Symmetry
		want string
	}{
		{external.Symmetry{Number: 225, Wyckoff: []string{"a", "a"}}, "bZAfBWRsRBh4HUUBxHuATCJKZwSlcYB8eJKCGNcGin8=225"},
		{external.Symmetry{Number: 1, Wyckoff: []string{"b", "a", "b"}}, "Du6bh3o4AI7JXn6UKJrNxbvQofMo4sH2iP1bKK1r4cw=1"},
		{external.Symmetry{Number: 2}, "LjjneyLDFKRJ6R+v7ZKkOCasaqQDrmqKy2z1gjn7r10=2"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, external.SymmetryHash(tc.sym))
	}
}

func TestWriteCIF(t *testing.T) {
	s := builder.MustBuild(
		[]builder.BuilderOption{builder.WithOrthoCell(3, 4, 5), builder.WithName("chain")},
		builder.FracAtom("C", geom.Vec3{0, 0.5, 0.5}),
		builder.FracAtom("O", geom.Vec3{0.5, 0.5, 0.5}),
	)
	var buf bytes.Buffer
	require.NoError(t, external.WriteCIF(&buf, s))
	out := buf.String()
	assert.Contains(t, out, "data_chain\n")
	assert.Contains(t, out, "_cell_length_b 4.000000\n")
	assert.Contains(t, out, "_cell_angle_gamma 90.000000\n")
	assert.Contains(t, out, "C0 C 0.000000 0.500000 0.500000 1.0\n")
	assert.Contains(t, out, "O1 O 0.500000 0.500000 0.500000 1.0\n")
}

func TestZeoPP(t *testing.T) {
	s := builder.MustBuild(nil, builder.Atom("Ar", geom.Vec3{}))

	var gotArgs []string
	fake := func(_ context.Context, name string, args ...string) ([]byte, error) {
		gotArgs = append([]string{name}, args...)
		cif, err := os.ReadFile(args[3])
		if err != nil {
			return nil, err
		}
		if !bytes.Contains(cif, []byte("Ar0 Ar")) {
			return []byte("bad input"), errors.New("exit status 1")
		}
		return nil, os.WriteFile(args[2], []byte("result.res 7.1 5.2 7.0\n"), 0o600)
	}
	z := external.NewZeoPP(external.WithRunner(fake))
	assert.True(t, z.Available())
	p, err := z.Pores(context.Background(), s)
	require.NoError(t, err)
	assert.InDelta(t, 5.2, p.LIFS, 1e-12)
	require.Len(t, gotArgs, 5)
	assert.Equal(t, []string{"network", "-ha", "-res"}, gotArgs[:3])

	slow := func(ctx context.Context, _ string, _ ...string) ([]byte, error) {
		<-ctx.Done()
		return nil, errors.New("signal: killed")
	}
	_, err = external.NewZeoPP(external.WithRunner(slow), external.WithTimeout(10*time.Millisecond)).
		Pores(context.Background(), s)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	missing := external.NewZeoPP(external.WithBinary("mofcheck-no-such-network-binary"))
	assert.False(t, missing.Available())
	_, err = missing.Pores(context.Background(), s)
	assert.ErrorIs(t, err, external.ErrToolMissing)
	assert.Equal(t, errors.KindExternalToolUnavailable, errors.Classify(err))
}
