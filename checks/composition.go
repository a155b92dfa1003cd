package checks

// HasElement reports whether a species occurs in the structure.
type HasElement struct {
	base
	env     *Env
	species string
}

func newHasElement(env *Env, key, species, element string) *HasElement {
	c := &HasElement{env: env, species: species}
	c.init(key, "Has "+element, "Checks if the structure has any "+element+" atom.", c.run)
	return c
}

// NewHasCarbon checks for carbon.
func NewHasCarbon(env *Env) *HasElement { return newHasElement(env, KeyHasCarbon, "C", "carbon") }

// NewHasHydrogen checks for hydrogen.
func NewHasHydrogen(env *Env) *HasElement {
	return newHasElement(env, KeyHasHydrogen, "H", "hydrogen")
}

// NewHasNitrogen checks for nitrogen.
func NewHasNitrogen(env *Env) *HasElement {
	return newHasElement(env, KeyHasNitrogen, "N", "nitrogen")
}

func (c *HasElement) run() (Result, error) {
	s := c.env.Structure()
	for i := 0; i < s.Len(); i++ {
		if s.Species(i) == c.species {
			return Result{OK: True}, nil
		}
	}
	return Result{OK: False}, nil
}

// HasMetal reports whether any metal occurs in the structure.
type HasMetal struct {
	base
	env *Env
}

// NewHasMetal checks for metals.
func NewHasMetal(env *Env) *HasMetal {
	c := &HasMetal{env: env}
	c.init(KeyHasMetal, "Has metal", "Checks if the structure has any metal atom.", c.run)
	return c
}

func (c *HasMetal) run() (Result, error) {
	s := c.env.Structure()
	return Result{OK: TristateOf(len(s.Indices(c.env.Table().IsMetal)) > 0)}, nil
}

// speciesIs returns a predicate matching one species.
func speciesIs(sym string) func(string) bool {
	return func(sp string) bool { return sp == sym }
}
