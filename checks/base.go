package checks

import "github.com/katalvlaran/mofcheck/geom"

// base carries identity and the memoized result of one check.
type base struct {
	key, name, desc string
	run             func() (Result, error)
	memo            Memo[Result]
}

func (b *base) init(key, name, desc string, run func() (Result, error)) {
	b.key, b.name, b.desc, b.run = key, name, desc, run
}

// Key implements Check.
func (b *base) Key() string { return b.key }

// Name implements Check.
func (b *base) Name() string { return b.name }

// Description implements Check.
func (b *base) Description() string { return b.desc }

// Result implements Check. The first call computes; later calls return the
// same value.
func (b *base) Result() (Result, error) { return b.memo.Get(b.run) }

// OK implements Check.
func (b *base) OK() (Tristate, error) {
	r, err := b.Result()
	if err != nil {
		return Unknown, err
	}
	return r.OK, nil
}

type indexBase struct{ base }

// Flagged implements IndexCheck.
func (b *indexBase) Flagged() ([]int, error) {
	r, err := b.Result()
	return r.Flagged, err
}

type missingBase struct{ indexBase }

// Candidates implements MissingCheck.
func (b *missingBase) Candidates() ([][]geom.Vec3, error) {
	r, err := b.Result()
	return r.Candidates, err
}
