// Package memo shares neighbor graphs between structures with identical
// content.
//
// A Cache is keyed by structure.Key and the resolved neighbor strategy. It
// holds the coordination cache (graph plus memoized connected sites), the
// expensive and name-independent part of a screening run; every Checker
// still evaluates its own descriptors so that name and path stay per input.
// Concurrent misses on one key build the graph once.
//
// A Cache assumes every Checker sharing it uses the same builder options
// apart from the strategy.
package memo

import (
	"context"
	"fmt"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/katalvlaran/mofcheck/checker"
	"github.com/katalvlaran/mofcheck/errors"
	"github.com/katalvlaran/mofcheck/neighbors"
	"github.com/katalvlaran/mofcheck/structure"
)

// Key identifies a neighbor graph.
type Key struct {
	Structure uint64
	Strategy  neighbors.Strategy
}

// String renders k as "<hex key>/<strategy>".
func (k Key) String() string {
	return fmt.Sprintf("%016x/%s", k.Structure, k.Strategy)
}

// KeyOf returns the key of s under st.
func KeyOf(s *structure.Structure, st neighbors.Strategy) Key {
	return Key{Structure: s.Key(), Strategy: st}
}

// Stats counts cache traffic.
type Stats struct {
	Hits   int64
	Misses int64
	Len    int
}

// Cache is a bounded LRU of coordination caches. A nil or zero-size Cache
// builds every graph. It is safe for concurrent use.
type Cache struct {
	lru   *lru.Cache
	group singleflight.Group
	log   *zap.Logger

	hits   atomic.Int64
	misses atomic.Int64
}

// Option configures a Cache.
type Option func(*Cache)

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Cache) {
		if l != nil {
			c.log = l
		}
	}
}

// New returns a cache holding up to size graphs. size <= 0 disables
// caching.
func New(size int, opts ...Option) (*Cache, error) {
	c := &Cache{log: zap.NewNop()}
	for _, opt := range opts {
		opt(c)
	}
	if size > 0 {
		l, err := lru.New(size)
		if err != nil {
			return nil, errors.Wrap(err, "memo: create lru")
		}
		c.lru = l
	}
	return c, nil
}

// Coordination returns the cached coordination cache of s, calling build on
// a miss. Failed builds are not cached.
//
// Concurrent misses share one build. That build runs detached from the
// cancellation of whichever caller started it; each caller stops waiting
// when its own ctx is done.
func (c *Cache) Coordination(ctx context.Context, s *structure.Structure, st neighbors.Strategy, build checker.BuildFunc) (*neighbors.Cache, error) {
	if c == nil || c.lru == nil {
		return build(ctx)
	}
	key := KeyOf(s, st)
	if v, ok := c.lru.Get(key); ok {
		c.hits.Add(1)
		return v.(*neighbors.Cache), nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	detached := context.WithoutCancel(ctx)
	ch := c.group.DoChan(key.String(), func() (any, error) {
		if v, ok := c.lru.Get(key); ok {
			c.hits.Add(1)
			return v, nil
		}
		c.misses.Add(1)
		cache, err := build(detached)
		if err != nil {
			return nil, err
		}
		if c.lru.Add(key, cache) {
			c.log.Debug("evicted neighbor graph")
		}
		return cache, nil
	})

	var r singleflight.Result
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case r = <-ch:
	}
	if r.Err != nil {
		return nil, r.Err
	}
	if r.Shared {
		c.log.Debug("shared neighbor graph build", zap.Stringer("key", key))
	}
	cache, ok := r.Val.(*neighbors.Cache)
	if !ok {
		return nil, errors.AssertionFailedf("memo: unexpected %T in group %s", r.Val, key)
	}
	return cache, nil
}

// Stats returns the traffic counters.
func (c *Cache) Stats() Stats {
	if c == nil {
		return Stats{}
	}
	st := Stats{Hits: c.hits.Load(), Misses: c.misses.Load()}
	if c.lru != nil {
		st.Len = c.lru.Len()
	}
	return st
}

// Purge drops every cached graph.
func (c *Cache) Purge() {
	if c != nil && c.lru != nil {
		c.lru.Purge()
	}
}

var _ checker.GraphCache = (*Cache)(nil)
