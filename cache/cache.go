package cache

import (
	"context"
	"log/slog"
	"sync"

	"github.com/openphylo/sdk/metrics"
	"github.com/openphylo/sdk/taxonomy"
)

// DefaultMaxEntries is the per-facet capacity sentinel.
const DefaultMaxEntries = 100_000

// Store is a remote cache tier shared across processes. Get returns
// (nil, nil) on a miss.
type Store interface {
	Get(ctx context.Context, facet taxonomy.Facet, key string) (*taxonomy.Taxonomy, error)
	Put(ctx context.Context, t *taxonomy.Taxonomy) error
}

// Option configures a Cache.
type Option func(*Cache)

// WithMaxEntries overrides the per-facet capacity sentinel.
func WithMaxEntries(n int) Option {
	return func(c *Cache) { c.max = n }
}

// WithRemote attaches a shared remote tier.
func WithRemote(s Store) Option {
	return func(c *Cache) { c.remote = s }
}

// WithMetrics attaches Prometheus instrumentation.
func WithMetrics(m *metrics.Metrics) Option {
	return func(c *Cache) { c.metrics = m }
}

// WithLogger sets the logger used for remote-tier failures.
func WithLogger(log *slog.Logger) Option {
	return func(c *Cache) { c.log = log }
}

// Cache is the five-facet taxonomy cache.
type Cache struct {
	mu     sync.Mutex
	facets map[taxonomy.Facet]map[string]*taxonomy.Taxonomy

	max     int
	remote  Store
	metrics *metrics.Metrics
	log     *slog.Logger
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		facets: make(map[taxonomy.Facet]map[string]*taxonomy.Taxonomy, len(taxonomy.Facets)),
		max:    DefaultMaxEntries,
		log:    slog.Default(),
	}
	for _, f := range taxonomy.Facets {
		c.facets[f] = make(map[string]*taxonomy.Taxonomy)
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a deep copy of the record cached under facet/key, or nil on
// a miss. On a local miss the remote tier, when attached, is consulted and
// a hit is pulled into the local maps.
func (c *Cache) Get(ctx context.Context, facet taxonomy.Facet, key string) *taxonomy.Taxonomy {
	if key == "" {
		return nil
	}
	c.mu.Lock()
	if t, ok := c.facets[facet][key]; ok {
		c.mu.Unlock()
		c.metrics.CacheHit(facet)
		return t.Copy()
	}
	c.mu.Unlock()

	if c.remote != nil {
		t, err := c.remote.Get(ctx, facet, key)
		if err != nil {
			c.log.Warn("remote taxonomy store lookup failed",
				"facet", facet.String(), "key", key, "error", err)
		} else if t != nil {
			c.putLocal(t)
			c.metrics.CacheHit(facet)
			return t.Copy()
		}
	}
	c.metrics.CacheMiss(facet)
	return nil
}

// Put inserts a copy of t under every facet whose field on t is populated,
// and writes through to the remote tier when one is attached.
func (c *Cache) Put(ctx context.Context, t *taxonomy.Taxonomy) {
	if t == nil {
		return
	}
	c.putLocal(t)
	if c.remote != nil {
		if err := c.remote.Put(ctx, t); err != nil {
			c.log.Warn("remote taxonomy store write failed",
				"taxonomy", t.String(), "error", err)
		}
	}
}

func (c *Cache) putLocal(t *taxonomy.Taxonomy) {
	stored := t.Copy()
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range taxonomy.Facets {
		if key := f.Key(stored); key != "" {
			c.facets[f][key] = stored
		}
	}
}

// PutLineage inserts t under an explicit lineage-path key, in addition to
// the record's own facets. Lineage queries are keyed by the queried path,
// which may be a prefix of the canonical record's own lineage.
func (c *Cache) PutLineage(ctx context.Context, key string, t *taxonomy.Taxonomy) {
	if t == nil || key == "" {
		return
	}
	c.Put(ctx, t)
	stored := t.Copy()
	c.mu.Lock()
	c.facets[taxonomy.FacetLineage][key] = stored
	c.mu.Unlock()
}

// EvictIfFull wholesale-clears every facet that has grown past the
// capacity sentinel. Call before a batch of insertions.
func (c *Cache) EvictIfFull() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, f := range taxonomy.Facets {
		if len(c.facets[f]) > c.max {
			c.facets[f] = make(map[string]*taxonomy.Taxonomy)
			c.metrics.CacheEviction(f)
		}
	}
}

// Len returns the number of entries in one facet.
func (c *Cache) Len(facet taxonomy.Facet) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.facets[facet])
}
