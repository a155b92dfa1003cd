package neighbors

import (
	"sync"

	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/geom"
)

// ConnectedSite is a bonded neighbor image as seen from a center site.
type ConnectedSite struct {
	Index    int
	Image    [3]int
	Distance float64
	Species  string
	Coords   geom.Vec3 // Cartesian position of the bonded image
	Edge     int
}

// Stats counts cache traffic.
type Stats struct {
	Queries int
	Misses  int
}

// Cache memoizes coordination numbers and connected sites of one graph.
// It is safe for concurrent use.
type Cache struct {
	g *Graph

	mu      sync.Mutex
	sites   [][]ConnectedSite
	done    []bool
	queries int
	misses  int
}

// NewCache wraps g.
func NewCache(g *Graph) *Cache {
	return &Cache{
		g:     g,
		sites: make([][]ConnectedSite, g.Len()),
		done:  make([]bool, g.Len()),
	}
}

// Graph returns the wrapped graph.
func (c *Cache) Graph() *Graph { return c.g }

// CoordinationNumber returns the number of bonded images of site i,
// counting every periodic image separately. Panics if i is out of range.
func (c *Cache) CoordinationNumber(i int) int {
	return len(c.ConnectedSites(i))
}

// ConnectedSites returns the bonded images of site i ordered by edge ID.
// The returned slice is shared and must not be modified. Panics if i is
// out of range.
func (c *Cache) ConnectedSites(i int) []ConnectedSite {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.queries++
	if !c.done[i] {
		c.misses++
		c.sites[i] = c.compute(i)
		c.done[i] = true
	}
	return c.sites[i]
}

// ConnectedSitesFrom returns the bonded images of site i when i itself sits
// in image cell. Images and coordinates are shifted accordingly.
func (c *Cache) ConnectedSitesFrom(i int, image [3]int) []ConnectedSite {
	base := c.ConnectedSites(i)
	if image == [3]int{} {
		return base
	}
	s := c.g.s
	shift := s.FracToCart(geom.Vec3{}.AddInt(image))
	out := make([]ConnectedSite, len(base))
	for k, cs := range base {
		cs.Image = [3]int{cs.Image[0] + image[0], cs.Image[1] + image[1], cs.Image[2] + image[2]}
		cs.Coords = cs.Coords.Add(shift)
		out[k] = cs
	}
	return out
}

// Lookup is the validating form of CoordinationNumber and ConnectedSites.
// Returns errors.ErrSiteOutOfRange for i outside [0, N).
func (c *Cache) Lookup(i int) (int, []ConnectedSite, error) {
	if i < 0 || i >= c.g.Len() {
		return 0, nil, errors.Wrapf(errors.ErrSiteOutOfRange, "neighbors: site %d of %d", i, c.g.Len())
	}
	cs := c.ConnectedSites(i)
	return len(cs), cs, nil
}

// Stats returns query and miss counters.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{Queries: c.queries, Misses: c.misses}
}

func (c *Cache) compute(i int) []ConnectedSite {
	s := c.g.s
	adj := c.g.Adj(i)
	out := make([]ConnectedSite, len(adj))
	for k, h := range adj {
		e := c.g.edges[h.Edge]
		out[k] = ConnectedSite{
			Index:    h.To,
			Image:    h.Image,
			Distance: e.Distance,
			Species:  s.Species(h.To),
			Coords:   s.CartImage(h.To, h.Image),
			Edge:     h.Edge,
		}
	}
	return out
}
