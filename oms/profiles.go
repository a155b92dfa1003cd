package oms

import (
	"embed"
	"fmt"
	"io"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/mofcheck/errors"
)

//go:embed data/profiles.yaml
var dataFS embed.FS

// Coordination numbers covered by profiles.
const (
	MinProfiledCN = 4
	MaxProfiledCN = 8
)

// Profile is the order parameter recipe for one coordination number.
type Profile struct {
	Names   []string  `yaml:"names"`
	Weights []float64 `yaml:"weights"`
	Open    []int     `yaml:"open"`
}

// Profiles maps coordination numbers to their profile.
type Profiles map[int]Profile

type profilesDoc struct {
	Profiles Profiles `yaml:"profiles"`
}

var (
	defaultOnce     sync.Once
	defaultProfiles Profiles
	defaultErr      error
)

// DefaultProfiles returns the embedded profiles. It panics if the embedded
// table is malformed.
func DefaultProfiles() Profiles {
	defaultOnce.Do(func() {
		f, err := dataFS.Open("data/profiles.yaml")
		if err != nil {
			defaultErr = err
			return
		}
		defer f.Close()
		defaultProfiles, defaultErr = LoadProfiles(f)
	})
	if defaultErr != nil {
		panic(defaultErr)
	}
	return defaultProfiles
}

// LoadProfiles parses a YAML profile table, validates it and normalizes
// the weights of every profile to sum 1.
func LoadProfiles(r io.Reader) (Profiles, error) {
	var doc profilesDoc
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, errors.Wrap(ErrBadProfile, err.Error())
	}
	out := make(Profiles, len(doc.Profiles))
	for cn, p := range doc.Profiles {
		np, err := p.normalized()
		if err != nil {
			return nil, errors.Wrapf(err, "cn %d", cn)
		}
		out[cn] = np
	}
	return out, nil
}

func (p Profile) normalized() (Profile, error) {
	if len(p.Names) == 0 || len(p.Names) != len(p.Weights) {
		return p, fmt.Errorf("%w: %d names, %d weights", ErrBadProfile, len(p.Names), len(p.Weights))
	}
	sum := 0.0
	for _, w := range p.Weights {
		if w < 0 {
			return p, fmt.Errorf("%w: negative weight %g", ErrBadProfile, w)
		}
		sum += w
	}
	if sum <= 0 {
		return p, fmt.Errorf("%w: weights sum to zero", ErrBadProfile)
	}
	for _, k := range p.Open {
		if k < 0 || k >= len(p.Names) {
			return p, fmt.Errorf("%w: open index %d out of range", ErrBadProfile, k)
		}
	}
	out := Profile{
		Names:   append([]string(nil), p.Names...),
		Weights: make([]float64, len(p.Weights)),
		Open:    append([]int(nil), p.Open...),
	}
	for k, w := range p.Weights {
		out.Weights[k] = w / sum
	}
	return out, nil
}

// openShare returns Σ_open w·q / Σ w·q, or ok=false when every weighted
// parameter is zero.
func (p Profile) openShare(q []float64) (share float64, ok bool) {
	open := make(map[int]bool, len(p.Open))
	for _, k := range p.Open {
		open[k] = true
	}
	var num, den float64
	for k, w := range p.Weights {
		c := w * q[k]
		den += c
		if open[k] {
			num += c
		}
	}
	if den <= 0 {
		return 0, false
	}
	return num / den, true
}
