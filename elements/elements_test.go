package elements_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/mofcheck/elements"
)

func TestDefaultTable(t *testing.T) {
	tab := elements.Default()

	r, exact := tab.CovalentRadius("Zn")
	assert.True(t, exact)
	assert.InDelta(t, 1.22, r, 1e-12)

	r, exact = tab.CovalentRadius("Og")
	assert.False(t, exact)
	assert.Greater(t, r, 0.5)

	// Pm carries no vdW radius
	r, exact = tab.VdWRadius("Pm")
	assert.False(t, exact)
	assert.Greater(t, r, 1.0)

	c, ok := tab.PairCutoff("H", "C")
	require.True(t, ok)
	assert.InDelta(t, 1.2, c, 1e-12)
	_, ok = tab.PairCutoff("He", "Ne")
	assert.False(t, ok)
	assert.GreaterOrEqual(t, tab.MaxCutoff(), c)

	assert.Equal(t, "H", tab.Symbols()[0])
}

func TestClasses(t *testing.T) {
	tab := elements.Default()
	tests := []struct {
		sym                    string
		metal, rare, alkaliAlk bool
	}{
		{"Cu", true, false, false},
		{"Al", true, false, false},
		{"Na", true, false, true},
		{"Mg", true, false, true},
		{"La", true, true, false},
		{"Y", true, true, false},
		{"U", true, false, false},
		{"C", false, false, false},
		{"Si", false, false, false},
		{"Xx", false, false, false},
	}
	for _, tc := range tests {
		t.Run(tc.sym, func(t *testing.T) {
			assert.Equal(t, tc.metal, tab.IsMetal(tc.sym))
			assert.Equal(t, tc.rare, tab.IsRareEarth(tc.sym))
			assert.Equal(t, tc.alkaliAlk, tab.IsAlkaliAlkaline(tc.sym))
		})
	}
	assert.True(t, tab.IsHalogen("Cl"))
}

func TestNewTable_Rejects(t *testing.T) {
	_, err := elements.NewTable(map[string]elements.Element{"X": {Z: 1}}, nil)
	assert.Error(t, err)

	_, err = elements.NewTable(
		map[string]elements.Element{"A": {Z: 1, Covalent: 1}},
		map[string]float64{"AB": 1},
	)
	assert.Error(t, err)
}
