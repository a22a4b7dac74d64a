package querycache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/ragpanel/ragpanel/backend/go-services/pkg/logger"
	"github.com/ragpanel/ragpanel/backend/go-services/pkg/metrics"
)

// Package querycache implements the panel's read-side cache: responses
// younger than the staleness window are served from memory without a fetch,
// entries unused past the garbage-collection window are evicted, and a
// failed fetch is retried exactly once. An optional persister mirrors
// entries to Redis so they survive restarts; a buster token invalidates
// every persisted entry at once.

const (
	DefaultStaleTime = 30 * time.Minute
	DefaultGCTime    = 24 * time.Hour
	DefaultRetries   = 1
)

// FetchFunc produces the raw JSON value for a cache key.
type FetchFunc func(ctx context.Context) ([]byte, error)

type Options struct {
	StaleTime time.Duration
	GCTime    time.Duration
	Retries   int
	Persister Persister
}

type entry struct {
	value      json.RawMessage
	updatedAt  time.Time
	lastAccess time.Time
}

type Cache struct {
	mu      sync.RWMutex
	entries map[string]*entry
	opts    Options
	stop    chan struct{}
	once    sync.Once
}

func New(opts Options) *Cache {
	if opts.StaleTime <= 0 {
		opts.StaleTime = DefaultStaleTime
	}
	if opts.GCTime <= 0 {
		opts.GCTime = DefaultGCTime
	}
	if opts.Retries <= 0 {
		opts.Retries = DefaultRetries
	}
	if opts.Persister == nil {
		opts.Persister = NoopPersister{}
	}
	c := &Cache{
		entries: make(map[string]*entry),
		opts:    opts,
		stop:    make(chan struct{}),
	}
	go c.janitor()
	return c
}

// Fetch returns the cached value for key when it is fresher than the
// staleness window; otherwise it runs fn (retrying once on failure), stores
// the result and persists it in the background. A memory hit never touches
// the persister.
func (c *Cache) Fetch(ctx context.Context, key string, fn FetchFunc) (json.RawMessage, error) {
	now := time.Now()

	c.mu.RLock()
	e, ok := c.entries[key]
	if ok && now.Sub(e.updatedAt) < c.opts.StaleTime {
		val := e.value
		c.mu.RUnlock()
		c.touch(key, now)
		metrics.CacheHits.Inc()
		return val, nil
	}
	c.mu.RUnlock()

	// no fresh memory entry: a persisted one may still be usable
	if !ok {
		if p, err := c.opts.Persister.Load(ctx, key); err == nil && p != nil {
			c.store(key, p.Value, p.UpdatedAt, now)
			if now.Sub(p.UpdatedAt) < c.opts.StaleTime {
				metrics.CacheHits.Inc()
				return p.Value, nil
			}
		}
	}

	metrics.CacheMisses.Inc()
	value, err := fn(ctx)
	for attempt := 0; err != nil && attempt < c.opts.Retries; attempt++ {
		value, err = fn(ctx)
	}
	if err != nil {
		return nil, err
	}

	updatedAt := time.Now()
	c.store(key, value, updatedAt, updatedAt)

	// persistence is a best-effort side channel, never on the read path
	go func() {
		pctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := c.opts.Persister.Save(pctx, key, &PersistedEntry{Key: key, Value: value, UpdatedAt: updatedAt}); err != nil {
			logger.Warnf("querycache persist %s: %v", key, err)
		}
	}()

	return value, nil
}

// Invalidate drops a key from memory; the persisted copy ages out by TTL.
func (c *Cache) Invalidate(key string) {
	c.mu.Lock()
	delete(c.entries, key)
	c.mu.Unlock()
}

func (c *Cache) store(key string, value json.RawMessage, updatedAt, accessedAt time.Time) {
	c.mu.Lock()
	c.entries[key] = &entry{value: value, updatedAt: updatedAt, lastAccess: accessedAt}
	c.mu.Unlock()
}

func (c *Cache) touch(key string, now time.Time) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		e.lastAccess = now
	}
	c.mu.Unlock()
}

// Close stops the background janitor.
func (c *Cache) Close() {
	c.once.Do(func() { close(c.stop) })
}

func (c *Cache) janitor() {
	interval := c.opts.GCTime / 4
	if interval > time.Hour {
		interval = time.Hour
	}
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-c.stop:
			return
		case now := <-t.C:
			c.evictStale(now)
		}
	}
}

// evictStale removes entries not accessed within the GC window.
func (c *Cache) evictStale(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for key, e := range c.entries {
		if now.Sub(e.lastAccess) >= c.opts.GCTime {
			delete(c.entries, key)
			metrics.CacheEvictions.Inc()
		}
	}
}
