package oms

import (
	"strconv"
	"sync"

	"go.uber.org/zap"

	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/geom"
	"github.com/katalvlaran/mofcheck/neighbors"
)

// DefaultThreshold is the open share above which a site is open.
const DefaultThreshold = 0.5

// Option configures a Classifier.
type Option func(*Classifier)

// WithProfiles replaces the default profiles.
func WithProfiles(p Profiles) Option {
	return func(c *Classifier) {
		if p != nil {
			c.profiles = p
		}
	}
}

// WithFingerprinter replaces the default AngleFingerprinter.
func WithFingerprinter(f Fingerprinter) Option {
	return func(c *Classifier) {
		if f != nil {
			c.fp = f
		}
	}
}

// WithThreshold sets the open share threshold.
func WithThreshold(t float64) Option {
	return func(c *Classifier) {
		if t > 0 && t < 1 {
			c.threshold = t
		}
	}
}

// WithLogger sets the logger for unknown-site notices.
func WithLogger(l *zap.Logger) Option {
	return func(c *Classifier) {
		if l != nil {
			c.log = l
		}
	}
}

// Classifier classifies the metal sites of one coordination cache. Results
// are computed once per site; a Classifier is safe for concurrent use.
type Classifier struct {
	cache     *neighbors.Cache
	profiles  Profiles
	fp        Fingerprinter
	threshold float64
	log       *zap.Logger
	metals    []int

	mu      sync.Mutex
	results map[int]SiteResult
}

// NewClassifier returns a classifier over c.
func NewClassifier(c *neighbors.Cache, opts ...Option) *Classifier {
	cl := &Classifier{
		cache:     c,
		profiles:  DefaultProfiles(),
		fp:        AngleFingerprinter{},
		threshold: DefaultThreshold,
		log:       zap.NewNop(),
		results:   make(map[int]SiteResult),
	}
	for _, opt := range opts {
		opt(cl)
	}
	s := c.Graph().Structure()
	cl.metals = s.Indices(s.Table().IsMetal)
	return cl
}

// Metals returns the metal site indices, ascending.
func (c *Classifier) Metals() []int { return append([]int(nil), c.metals...) }

// Classify returns the result for site.
// Errors: errors.ErrNoMetal when the structure has no metal,
// errors.ErrSiteOutOfRange for an invalid index.
func (c *Classifier) Classify(site int) (SiteResult, error) {
	if len(c.metals) == 0 {
		return SiteResult{}, errors.ErrNoMetal
	}
	cn, shell, err := c.cache.Lookup(site)
	if err != nil {
		return SiteResult{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if r, ok := c.results[site]; ok {
		return r, nil
	}
	r := c.classify(site, cn, shell)
	c.results[site] = r
	return r, nil
}

func (c *Classifier) classify(site, cn int, shell []neighbors.ConnectedSite) SiteResult {
	s := c.cache.Graph().Structure()
	r := SiteResult{Site: site, Metal: s.Species(site), CN: cn}

	switch {
	case cn < MinProfiledCN:
		r.Open = Open
		return r
	case cn > MaxProfiledCN:
		return c.unknown(r, errors.Wrapf(errors.ErrUnsupportedCoordination, "oms: cn %d", cn))
	}
	p, ok := c.profiles[cn]
	if !ok {
		return c.unknown(r, errors.Wrapf(errors.ErrUnsupportedCoordination, "oms: no profile for cn %d", cn))
	}

	pos := make([]geom.Vec3, len(shell))
	for k, cs := range shell {
		pos[k] = cs.Coords
	}
	q, err := c.fp.Fingerprint(s.Cart(site), pos, p.Names)
	if err == nil && len(q) != len(p.Names) {
		err = errors.Newf("oms: fingerprinter returned %d values for %d names", len(q), len(p.Names))
	}
	if err != nil {
		return c.unknown(r, err)
	}
	r.OrderParameters = make(map[string]float64, len(q))
	for k, name := range p.Names {
		r.OrderParameters[name] = q[k]
	}

	if len(p.Open) == 0 {
		r.Open = Closed
		return r
	}
	share, ok := p.openShare(q)
	switch {
	case !ok:
		return c.unknown(r, errors.New("oms: all order parameters are zero"))
	case share > c.threshold:
		r.Open = Open
	default:
		r.Open = Closed
	}
	return r
}

func (c *Classifier) unknown(r SiteResult, err error) SiteResult {
	r.Open = Unknown
	r.Note = err.Error()
	c.log.Warn("open metal site classification unknown",
		zap.Int("site", r.Site),
		zap.String("metal", r.Metal),
		zap.Int("cn", r.CN),
		zap.Error(err))
	return r
}

// Check classifies every metal site and returns the open ones and the
// unknown ones, both ascending.
func (c *Classifier) Check() (open, unknown []int, err error) {
	if len(c.metals) == 0 {
		return nil, nil, errors.ErrNoMetal
	}
	for _, m := range c.metals {
		r, err := c.Classify(m)
		if err != nil {
			return nil, nil, err
		}
		switch r.Open {
		case Open:
			open = append(open, m)
		case Unknown:
			unknown = append(unknown, m)
		}
	}
	return open, unknown, nil
}

// Descriptors returns the result of every metal site keyed by the site
// index in decimal, the layout used in JSON reports.
func (c *Classifier) Descriptors() (map[string]SiteResult, error) {
	if len(c.metals) == 0 {
		return nil, errors.ErrNoMetal
	}
	out := make(map[string]SiteResult, len(c.metals))
	for _, m := range c.metals {
		r, err := c.Classify(m)
		if err != nil {
			return nil, err
		}
		out[strconv.Itoa(m)] = r
	}
	return out, nil
}

// Summary is the aggregate outcome over all metal sites: Open if any site
// is open, otherwise Unknown if any site is unknown, otherwise Closed.
func (c *Classifier) Summary() (State, error) {
	open, unknown, err := c.Check()
	switch {
	case err != nil:
		return Unknown, err
	case len(open) > 0:
		return Open, nil
	case len(unknown) > 0:
		return Unknown, nil
	}
	return Closed, nil
}
