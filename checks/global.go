package checks

import (
	"math"

	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/fragment"
)

// FloatingMolecule flags atoms of finite fragments: solvent, counter ions
// or lone atoms that do not belong to the periodic framework.
type FloatingMolecule struct {
	indexBase
	env  *Env
	frag Memo[*fragment.Result]
}

// NewFloatingMolecule returns the floating fragment check.
func NewFloatingMolecule(env *Env) *FloatingMolecule {
	c := &FloatingMolecule{env: env}
	c.init(KeyFloatingMolecule, "Floating atom or molecule",
		"Checks if there is any non-periodic connected component in the cell.", c.run)
	return c
}

// Fragments returns the extracted fragments.
func (c *FloatingMolecule) Fragments() (*fragment.Result, error) {
	return c.frag.Get(func() (*fragment.Result, error) {
		cache, err := c.env.Coordination()
		if err != nil {
			return nil, err
		}
		return fragment.Extract(cache.Graph(), fragment.WithContext(c.env.ctx))
	})
}

func (c *FloatingMolecule) run() (Result, error) {
	res, err := c.Fragments()
	if err != nil {
		return Result{}, err
	}
	return flagged(res.Flat()), nil
}

// ThreeDimensional checks that some bonded component extends periodically
// in all three directions.
type ThreeDimensional struct {
	base
	env *Env
}

// NewThreeDimensional returns the connectivity check.
func NewThreeDimensional(env *Env) *ThreeDimensional {
	c := &ThreeDimensional{env: env}
	c.init(KeyThreeDimensional, "3D connected graph",
		"Checks if the bonded network extends periodically in three dimensions.", c.run)
	return c
}

func (c *ThreeDimensional) run() (Result, error) {
	cache, err := c.env.Coordination()
	if err != nil {
		return Result{}, err
	}
	comps, err := fragment.Dimensionality(cache.Graph(), fragment.WithContext(c.env.ctx))
	if err != nil {
		return Result{}, err
	}
	return Result{OK: TristateOf(fragment.MaxRank(comps) == 3)}, nil
}

// NoOpenMetalSite flags open metal sites. OK is Unknown when no site is
// open but some could not be classified, and for a structure without
// metals, where the question has no answer.
type NoOpenMetalSite struct {
	indexBase
	env *Env
}

// NewNoOpenMetalSite returns the open metal site check.
func NewNoOpenMetalSite(env *Env) *NoOpenMetalSite {
	c := &NoOpenMetalSite{env: env}
	c.init(KeyNoOpenMetalSite, "OMS", "Checks if there are any open metal sites in the structure.", c.run)
	return c
}

func (c *NoOpenMetalSite) run() (Result, error) {
	s := c.env.Structure()
	if len(s.Indices(c.env.Table().IsMetal)) == 0 {
		return Result{OK: Unknown, Note: errors.ErrNoMetal.Error()}, nil
	}
	cl, err := c.env.Classifier()
	if err != nil {
		return Result{}, err
	}
	open, unknown, err := cl.Check()
	if err != nil {
		return Result{}, err
	}
	res := flagged(open)
	if len(open) == 0 && len(unknown) > 0 {
		res.OK = Unknown
		res.Note = "unclassified metal sites"
	}
	return res, nil
}

// Porosity checks that the pore limiting diameter reaches
// Thresholds.MinPoreDiameter.
type Porosity struct {
	base
	env *Env
}

// NewPorosity returns the porosity check.
func NewPorosity(env *Env) *Porosity {
	c := &Porosity{env: env}
	c.init(KeyPorous, "Porosity", "Checks if the pore limiting diameter exceeds the porosity threshold.", c.run)
	return c
}

func (c *Porosity) run() (Result, error) {
	if c.env.pores == nil {
		return c.env.unknown(c.key, errors.Wrap(errors.ErrToolMissing, "pore analyzer")), nil
	}
	ctx, cancel := c.env.callContext()
	defer cancel()
	p, err := c.env.pores.Pores(ctx, c.env.Structure())
	if err != nil {
		return c.env.unknown(c.key, err), nil
	}
	return Result{OK: TristateOf(p.LIFS >= c.env.Thresholds().MinPoreDiameter)}, nil
}

// HighCharges checks that no partial charge exceeds Thresholds.HighCharge
// in magnitude. OK is True when the charges are reasonable.
type HighCharges struct {
	indexBase
	env *Env
}

// NewHighCharges returns the charge check.
func NewHighCharges(env *Env) *HighCharges {
	c := &HighCharges{env: env}
	c.init(KeyHighCharges, "High charges", "Checks that no partial charge is unreasonably high.", c.run)
	return c
}

func (c *HighCharges) run() (Result, error) {
	if c.env.charges == nil {
		return c.env.unknown(c.key, errors.Wrap(errors.ErrToolMissing, "charge engine")), nil
	}
	ctx, cancel := c.env.callContext()
	defer cancel()
	s := c.env.Structure()
	q, err := c.env.charges.Charges(ctx, s)
	if err == nil && len(q) != s.Len() {
		err = errors.Newf("charge engine returned %d charges for %d atoms", len(q), s.Len())
	}
	if err != nil {
		return c.env.unknown(c.key, err), nil
	}
	var idx []int
	for i, v := range q {
		if math.Abs(v) > c.env.Thresholds().HighCharge {
			idx = append(idx, i)
		}
	}
	return flagged(idx), nil
}

// unknown logs a collaborator failure and turns it into an Unknown result.
func (e *Env) unknown(key string, err error) Result {
	e.log.Warn("check outcome unknown", zap.String("check", key), zap.Error(err))
	return Result{OK: Unknown, Note: err.Error()}
}
