package fragment

import (
	"github.com/katalvlaran/mofcheck/neighbors"
)

// Supercell is a neighbor graph replicated over a block of cells.
type Supercell struct {
	// Graph is the block graph. Edge images are block offsets: zero for
	// bonds inside the block, non-zero for bonds that wrap around it.
	Graph *neighbors.Graph
	// N is the number of atoms in the original cell.
	N int
	// Dims is the block size along a, b, c.
	Dims [3]int
}

// Original maps a block node to its original atom index.
func (sc *Supercell) Original(v int) int { return v % sc.N }

// Cell returns the block cell (a, b, c) of node v.
func (sc *Supercell) Cell(v int) [3]int {
	c := v / sc.N
	nbc := sc.Dims[1] * sc.Dims[2]
	return [3]int{c / nbc, (c % nbc) / sc.Dims[2], c % sc.Dims[2]}
}

// Expand replicates g into an na×nb×nc block.
func Expand(g *neighbors.Graph, na, nb, nc int) (*Supercell, error) {
	if g == nil {
		return nil, ErrGraphNil
	}
	s, err := g.Structure().Supercell(na, nb, nc)
	if err != nil {
		return nil, err
	}
	n := g.Len()
	dims := [3]int{na, nb, nc}
	cellIndex := func(c [3]int) int { return c[0]*nb*nc + c[1]*nc + c[2] }

	bonds := make([]neighbors.Edge, 0, len(g.Edges())*na*nb*nc)
	for a := 0; a < na; a++ {
		for b := 0; b < nb; b++ {
			for c := 0; c < nc; c++ {
				from := [3]int{a, b, c}
				for _, e := range g.Edges() {
					var to, block [3]int
					for k := 0; k < 3; k++ {
						t := from[k] + e.Image[k]
						block[k] = floorDiv(t, dims[k])
						to[k] = t - block[k]*dims[k]
					}
					bonds = append(bonds, neighbors.Edge{
						From:  cellIndex(from)*n + e.From,
						To:    cellIndex(to)*n + e.To,
						Image: block,
					})
				}
			}
		}
	}
	return &Supercell{Graph: neighbors.FromBonds(s, bonds), N: n, Dims: dims}, nil
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
