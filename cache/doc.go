// Package cache provides the shared taxonomy cache.
//
// A Cache keeps five independent maps keyed by the facets of a taxonomy
// record: identifier, scientific name, code, common name, and lineage
// path. A put inserts the record under every facet whose field is
// populated, so a later lookup through any facet succeeds. Lookups return
// deep copies; callers may mutate their copy freely.
//
// Capacity is a simple sentinel, not an LRU: EvictIfFull, called before a
// batch of insertions, wholesale-clears any facet that has grown past its
// limit. A reader may observe a cleared facet between two operations.
//
// All operations are synchronized by a single mutex and individually
// atomic; get-then-put does not compose, which is safe because cached
// values are canonical: a concurrent put by another job stores the same
// record.
//
// An optional remote Store (see RedisStore) is consulted on local miss and
// written through on put, letting several worker processes share canonical
// records. Remote failures are treated as misses: the cache is an
// opportunistic layer, never a source of errors.
package cache
