package filestore

import (
	"context"
	"sync"

	"github.com/couchcryptid/vaccination-dashboard/internal/domain"
	"github.com/couchcryptid/vaccination-dashboard/internal/observability"
)

// CachedLoader wraps an ArtifactLoader with an in-memory LRU cache. Artifacts
// are immutable for the process lifetime, so entries never expire.
type CachedLoader struct {
	inner   domain.ArtifactLoader
	charts  *lruCache[domain.Chart]
	images  *lruCache[domain.Image]
	metrics *observability.Metrics
}

// NewCachedLoader creates a cache decorator holding up to maxEntries charts
// and maxEntries images.
func NewCachedLoader(inner domain.ArtifactLoader, maxEntries int, metrics *observability.Metrics) *CachedLoader {
	return &CachedLoader{
		inner:   inner,
		charts:  newLRUCache[domain.Chart](maxEntries),
		images:  newLRUCache[domain.Image](maxEntries),
		metrics: metrics,
	}
}

func (c *CachedLoader) LoadChart(ctx context.Context, res domain.Resolution) (domain.Chart, error) {
	key := res.Paths.Chart
	if chart, ok := c.charts.get(key); ok {
		c.record(domain.KindChart, "hit")
		return chart, nil
	}
	c.record(domain.KindChart, "miss")

	chart, err := c.inner.LoadChart(ctx, res)
	if err != nil {
		// Failures are not cached so a repaired artifact is picked up on the next request.
		return chart, err
	}
	c.charts.put(key, chart)
	return chart, nil
}

func (c *CachedLoader) LoadImage(ctx context.Context, res domain.Resolution, kind domain.ArtifactKind) (domain.Image, error) {
	key, err := res.Paths.Path(kind)
	if err != nil {
		return domain.Image{}, err
	}
	if img, ok := c.images.get(key); ok {
		c.record(kind, "hit")
		return img, nil
	}
	c.record(kind, "miss")

	img, err := c.inner.LoadImage(ctx, res, kind)
	if err != nil {
		return img, err
	}
	c.images.put(key, img)
	return img, nil
}

func (c *CachedLoader) record(kind domain.ArtifactKind, result string) {
	c.metrics.ArtifactCache.WithLabelValues(string(kind), result).Inc()
}

// lruCache is a simple thread-safe LRU cache.
type lruCache[V any] struct {
	maxEntries int
	mu         sync.Mutex
	entries    map[string]*entry[V]
	head       *entry[V] // most recently used
	tail       *entry[V] // least recently used
}

type entry[V any] struct {
	key   string
	value V
	prev  *entry[V]
	next  *entry[V]
}

func newLRUCache[V any](maxEntries int) *lruCache[V] {
	return &lruCache[V]{
		maxEntries: maxEntries,
		entries:    make(map[string]*entry[V]),
	}
}

func (c *lruCache[V]) get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero V
		return zero, false
	}
	c.moveToFront(e)
	return e.value, true
}

func (c *lruCache[V]) put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.moveToFront(e)
		return
	}

	e := &entry[V]{key: key, value: value}
	c.entries[key] = e
	c.addToFront(e)

	if len(c.entries) > c.maxEntries {
		c.evictTail()
	}
}

func (c *lruCache[V]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *lruCache[V]) moveToFront(e *entry[V]) {
	if e == c.head {
		return
	}
	c.remove(e)
	c.addToFront(e)
}

func (c *lruCache[V]) addToFront(e *entry[V]) {
	e.next = c.head
	e.prev = nil
	if c.head != nil {
		c.head.prev = e
	}
	c.head = e
	if c.tail == nil {
		c.tail = e
	}
}

func (c *lruCache[V]) remove(e *entry[V]) {
	if e.prev != nil {
		e.prev.next = e.next
	} else {
		c.head = e.next
	}
	if e.next != nil {
		e.next.prev = e.prev
	} else {
		c.tail = e.prev
	}
}

func (c *lruCache[V]) evictTail() {
	if c.tail == nil {
		return
	}
	delete(c.entries, c.tail.key)
	c.remove(c.tail)
}
