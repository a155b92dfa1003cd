package checks

// Registry keys.
const (
	KeyHasCarbon                      = "has_c"
	KeyHasHydrogen                    = "has_h"
	KeyHasNitrogen                    = "has_n"
	KeyHasMetal                       = "has_metal"
	KeyAtomicOverlaps                 = "no_atomic_overlaps"
	KeyUnderCoordinatedCarbon         = "no_undercoordinated_carbon"
	KeyOverCoordinatedCarbon          = "no_overcoordinated_carbon"
	KeyOverCoordinatedHydrogen        = "no_overcoordinated_hydrogen"
	KeyOverCoordinatedNitrogen        = "no_overcoordinated_nitrogen"
	KeyUnderCoordinatedNitrogen       = "no_undercoordinated_nitrogen"
	KeyUnderCoordinatedRareEarth      = "no_undercoordinated_rare_earth"
	KeyUnderCoordinatedAlkaliAlkaline = "no_undercoordinated_alkali_alkaline"
	KeyGeometricallyExposedMetal      = "no_geometrically_exposed_metal"
	KeyFloatingMolecule               = "no_floating_molecule"
	KeyHighCharges                    = "no_high_charges"
	KeyPorous                         = "is_porous"
	KeyNoOpenMetalSite                = "no_oms"
	KeyFalseTerminalOxo               = "no_false_terminal_oxo"
	KeyThreeDimensional               = "has_3d_connected_graph"
)

// constructors in registry order.
var constructors = []func(*Env) Check{
	func(e *Env) Check { return NewHasCarbon(e) },
	func(e *Env) Check { return NewHasHydrogen(e) },
	func(e *Env) Check { return NewHasNitrogen(e) },
	func(e *Env) Check { return NewHasMetal(e) },
	func(e *Env) Check { return NewAtomicOverlap(e) },
	func(e *Env) Check { return NewUnderCoordinatedCarbon(e) },
	func(e *Env) Check { return NewOverCoordinatedCarbon(e) },
	func(e *Env) Check { return NewOverCoordinatedHydrogen(e) },
	func(e *Env) Check { return NewOverCoordinatedNitrogen(e) },
	func(e *Env) Check { return NewUnderCoordinatedNitrogen(e) },
	func(e *Env) Check { return NewUnderCoordinatedRareEarth(e) },
	func(e *Env) Check { return NewUnderCoordinatedAlkaliAlkaline(e) },
	func(e *Env) Check { return NewGeometricallyExposedMetal(e) },
	func(e *Env) Check { return NewFloatingMolecule(e) },
	func(e *Env) Check { return NewHighCharges(e) },
	func(e *Env) Check { return NewPorosity(e) },
	func(e *Env) Check { return NewNoOpenMetalSite(e) },
	func(e *Env) Check { return NewFalseTerminalOxo(e) },
	func(e *Env) Check { return NewThreeDimensional(e) },
}

// Registry holds one instance of every check over a shared Env.
type Registry struct {
	keys  []string
	byKey map[string]Check
}

// NewRegistry instantiates every check. Nothing is computed until a
// check's Result is requested.
func NewRegistry(env *Env) *Registry {
	r := &Registry{byKey: make(map[string]Check, len(constructors))}
	for _, mk := range constructors {
		c := mk(env)
		r.keys = append(r.keys, c.Key())
		r.byKey[c.Key()] = c
	}
	return r
}

// Keys returns the registry keys in order.
func (r *Registry) Keys() []string { return append([]string(nil), r.keys...) }

// Get returns the check registered under key.
func (r *Registry) Get(key string) (Check, bool) {
	c, ok := r.byKey[key]
	return c, ok
}

// Must returns the check registered under key and panics if it is absent.
func (r *Registry) Must(key string) Check {
	c, ok := r.byKey[key]
	if !ok {
		panic("checks: no check " + key)
	}
	return c
}

var (
	_ MissingCheck = (*UnderCoordinatedCarbon)(nil)
	_ MissingCheck = (*UnderCoordinatedNitrogen)(nil)
	_ IndexCheck   = (*AtomicOverlap)(nil)
	_ IndexCheck   = (*CoordinationCheck)(nil)
	_ IndexCheck   = (*FloatingMolecule)(nil)
	_ IndexCheck   = (*NoOpenMetalSite)(nil)
	_ Check        = (*Porosity)(nil)
)
