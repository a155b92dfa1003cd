package wlhash

import (
	"github.com/katalvlaran/mofcheck/dfs"
	"github.com/katalvlaran/mofcheck/neighbors"
)

// Decorated hashes g with species labels.
func Decorated(g *neighbors.Graph, opts ...Option) (string, error) {
	if g == nil {
		return "", ErrGraphNil
	}
	return Hash(view(g, true, nil), opts...), nil
}

// Undecorated hashes the topology of g, ignoring species.
func Undecorated(g *neighbors.Graph, opts ...Option) (string, error) {
	if g == nil {
		return "", ErrGraphNil
	}
	return Hash(view(g, false, nil), opts...), nil
}

// DecoratedScaffold hashes the species-labeled scaffold of g.
func DecoratedScaffold(g *neighbors.Graph, opts ...Option) (string, error) {
	return scaffold(g, true, opts)
}

// UndecoratedScaffold hashes the unlabeled scaffold of g.
func UndecoratedScaffold(g *neighbors.Graph, opts ...Option) (string, error) {
	return scaffold(g, false, opts)
}

func scaffold(g *neighbors.Graph, decorated bool, opts []Option) (string, error) {
	if g == nil {
		return "", ErrGraphNil
	}
	ids, err := dfs.Bridges(g)
	if err != nil {
		return "", err
	}
	drop := make(map[int]bool, len(ids))
	for _, id := range ids {
		drop[id] = true
	}
	return Hash(view(g, decorated, drop), opts...), nil
}

// subgraph is a Labeled view of a neighbor graph minus some edges, with
// nodes left isolated by the removal dropped.
type subgraph struct {
	labels []string
	adj    [][]int
}

func (s *subgraph) Len() int              { return len(s.labels) }
func (s *subgraph) Label(i int) string    { return s.labels[i] }
func (s *subgraph) Neighbors(i int) []int { return s.adj[i] }

func view(g *neighbors.Graph, decorated bool, drop map[int]bool) *subgraph {
	n := g.Len()
	pos := make([]int, n)
	sg := &subgraph{}
	for i := 0; i < n; i++ {
		pos[i] = -1
		if drop != nil && !hasKeptArc(g, i, drop) {
			continue
		}
		pos[i] = len(sg.labels)
		label := ""
		if decorated {
			label = g.Species(i)
		}
		sg.labels = append(sg.labels, label)
	}
	sg.adj = make([][]int, len(sg.labels))
	for i := 0; i < n; i++ {
		if pos[i] < 0 {
			continue
		}
		for _, arc := range g.Adj(i) {
			if drop[arc.Edge] {
				continue
			}
			sg.adj[pos[i]] = append(sg.adj[pos[i]], pos[arc.To])
		}
	}
	return sg
}

func hasKeptArc(g *neighbors.Graph, i int, drop map[int]bool) bool {
	for _, arc := range g.Adj(i) {
		if !drop[arc.Edge] {
			return true
		}
	}
	return false
}
