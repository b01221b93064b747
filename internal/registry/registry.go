// Package registry maintains the in-memory set of sitemap URL entries
// and the cached XML documents derived from it.
//
// The registry is the single source of truth for every URL that appears
// in the generated sitemap. Entries are keyed by location (last write
// wins) and insertion order is preserved end-to-end into the XML output.
// The full sitemap and the sitemap index are cached lazily and
// invalidated on every mutation; individual shard documents are
// generated on demand and deliberately never cached, trading repeated
// CPU work for bounded memory on large sharded sets.
package registry

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/conneroisu/sitemap/internal/config"
	"github.com/conneroisu/sitemap/internal/logging"
	"github.com/conneroisu/sitemap/internal/sitemap"
	"github.com/conneroisu/sitemap/internal/types"
)

// URLRegistry holds all registered sitemap entries. Safe for concurrent
// mutation and reads.
type URLRegistry struct {
	mu      sync.RWMutex
	entries map[string]*types.Entry
	order   []string

	// generation increments on every structural mutation, under mu.
	// Cached documents record the generation they were built from; a
	// mismatch on read forces regeneration, so no reader can observe a
	// document older than a completed mutation.
	generation atomic.Uint64

	cfg       config.SitemapConfig
	generator *sitemap.Generator
	logger    logging.Logger

	sitemapCache docCache
	indexCache   docCache
}

// cachedDoc pairs a rendered document with the registry generation it
// was built from.
type cachedDoc struct {
	doc string
	gen uint64
}

// docCache holds one lazily regenerated document behind an atomic
// pointer. Readers with a current cached value never block; on a miss
// the mutex serializes regeneration so sustained contention does not
// cause duplicate rebuild work.
type docCache struct {
	cur    atomic.Pointer[cachedDoc]
	mu     sync.Mutex
	regens atomic.Int64
}

// New creates an empty URLRegistry.
func New(cfg config.SitemapConfig, generator *sitemap.Generator, logger logging.Logger) *URLRegistry {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &URLRegistry{
		entries:   make(map[string]*types.Entry),
		order:     make([]string, 0),
		cfg:       cfg,
		generator: generator,
		logger:    logger.WithComponent("registry"),
	}
}

// Add inserts an entry, replacing any existing entry with the same
// location (the replacement keeps the original position). Invalidates
// the cached documents.
func (r *URLRegistry) Add(entry *types.Entry) {
	r.mu.Lock()
	r.put(entry)
	r.generation.Add(1)
	r.mu.Unlock()

	r.logger.Debug(context.Background(), "added sitemap URL", "loc", entry.Loc())
}

// AddAll inserts all entries as one batch with a single cache
// invalidation. An empty batch is a no-op and leaves the caches intact.
func (r *URLRegistry) AddAll(entries []*types.Entry) {
	if len(entries) == 0 {
		return
	}

	r.mu.Lock()
	for _, entry := range entries {
		r.put(entry)
	}
	r.generation.Add(1)
	r.mu.Unlock()

	r.logger.Debug(context.Background(), "added sitemap URLs", "count", len(entries))
}

// put assumes r.mu is held for writing.
func (r *URLRegistry) put(entry *types.Entry) {
	if _, exists := r.entries[entry.Loc()]; !exists {
		r.order = append(r.order, entry.Loc())
	}
	r.entries[entry.Loc()] = entry
}

// Remove deletes the entry at the given location. Returns true if an
// entry existed; the caches are invalidated only in that case.
func (r *URLRegistry) Remove(loc string) bool {
	r.mu.Lock()
	_, existed := r.entries[loc]
	if existed {
		delete(r.entries, loc)
		for i, key := range r.order {
			if key == loc {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		r.generation.Add(1)
	}
	r.mu.Unlock()

	if existed {
		r.logger.Debug(context.Background(), "removed sitemap URL", "loc", loc)
	}
	return existed
}

// Clear removes all entries and invalidates the cached documents.
func (r *URLRegistry) Clear() {
	r.mu.Lock()
	r.entries = make(map[string]*types.Entry)
	r.order = r.order[:0]
	r.generation.Add(1)
	r.mu.Unlock()

	r.logger.Debug(context.Background(), "cleared all sitemap URLs")
}

// Contains reports whether a location is registered.
func (r *URLRegistry) Contains(loc string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[loc]
	return ok
}

// Size returns the number of registered entries.
func (r *URLRegistry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// Entries returns a snapshot of all entries in insertion order. The
// returned slice is a copy; mutating it does not affect the registry.
func (r *URLRegistry) Entries() []*types.Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.snapshotLocked()
}

// snapshotLocked assumes r.mu is held.
func (r *URLRegistry) snapshotLocked() []*types.Entry {
	out := make([]*types.Entry, 0, len(r.order))
	for _, loc := range r.order {
		out = append(out, r.entries[loc])
	}
	return out
}

// Page returns the 1-indexed page of entries with the given page size,
// clipped to bounds. Out-of-range pages return an empty slice.
func (r *URLRegistry) Page(page, pageSize int) []*types.Entry {
	if page < 1 || pageSize < 1 {
		return nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	from := (page - 1) * pageSize
	if from >= len(r.order) {
		return nil
	}
	to := from + pageSize
	if to > len(r.order) {
		to = len(r.order)
	}

	out := make([]*types.Entry, 0, to-from)
	for _, loc := range r.order[from:to] {
		out = append(out, r.entries[loc])
	}
	return out
}

// SitemapCount returns the number of sitemap files needed for the
// current entry count: 0 when empty, otherwise ceil(size/max).
func (r *URLRegistry) SitemapCount() int {
	total := r.Size()
	if total == 0 {
		return 0
	}
	max := r.cfg.MaxURLsPerSitemap
	return (total + max - 1) / max
}

// RequiresIndex reports whether the entry count exceeds the per-file
// limit, switching serving to sitemap index mode.
func (r *URLRegistry) RequiresIndex() bool {
	return r.Size() > r.cfg.MaxURLsPerSitemap
}

// Sitemap returns the full sitemap document over all entries. The result
// is cached: repeated calls without an intervening mutation return the
// identical cached value, and a cache miss regenerates exactly once even
// under concurrent callers.
func (r *URLRegistry) Sitemap() string {
	return r.cached(&r.sitemapCache, "sitemap", func(entries []*types.Entry) string {
		return r.generator.Sitemap(entries)
	})
}

// SitemapIndex returns the sitemap index document. Same caching contract
// as Sitemap.
func (r *URLRegistry) SitemapIndex() string {
	return r.cached(&r.indexCache, "sitemap index", func(entries []*types.Entry) string {
		count := len(entries)
		if count > 0 {
			count = (count + r.cfg.MaxURLsPerSitemap - 1) / r.cfg.MaxURLsPerSitemap
		}
		return r.generator.SitemapIndex(count)
	})
}

// SitemapPage returns the sitemap document for the given 1-indexed page.
// Pages are not cached; an out-of-range page yields a document with no
// entries.
func (r *URLRegistry) SitemapPage(page int) string {
	return r.generator.Sitemap(r.Page(page, r.cfg.MaxURLsPerSitemap))
}

// cached serves a document from cache when its generation is current,
// regenerating otherwise. The snapshot and its generation are read
// together under the registry lock, so a mutation landing mid-rebuild
// leaves the stored document stale-marked and the next read rebuilds.
func (r *URLRegistry) cached(cache *docCache, name string, render func([]*types.Entry) string) string {
	if d := cache.cur.Load(); d != nil && d.gen == r.generation.Load() {
		return d.doc
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()
	if d := cache.cur.Load(); d != nil && d.gen == r.generation.Load() {
		return d.doc
	}

	r.mu.RLock()
	gen := r.generation.Load()
	entries := r.snapshotLocked()
	r.mu.RUnlock()

	doc := render(entries)
	cache.cur.Store(&cachedDoc{doc: doc, gen: gen})
	regens := cache.regens.Add(1)
	r.logger.Debug(context.Background(), "regenerated cached document",
		"document", name, "entries", len(entries), "regens", regens)
	return doc
}
