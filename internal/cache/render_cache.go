package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru"

	"github.com/goliatone/go-blocksite/pkg/interfaces"
)

// Config bounds the render cache.
type Config struct {
	Capacity int
	MaxAge   time.Duration
}

// Stats reports cache counters since construction or the last Purge.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Expired   uint64
	Evictions uint64
	Entries   int
}

type entry struct {
	result    *interfaces.RenderResult
	createdAt time.Time
}

// RenderCache is a bounded, age-limited memo of render results. Eviction is
// by insertion order: reads never promote an entry.
type RenderCache struct {
	mu     sync.Mutex
	store  *lru.Cache
	maxAge time.Duration
	now    func() time.Time
	stats  Stats
}

// Option customises a RenderCache.
type Option func(*RenderCache)

// WithClock overrides the time source used for age checks.
func WithClock(now func() time.Time) Option {
	return func(c *RenderCache) {
		if now != nil {
			c.now = now
		}
	}
}

// New constructs a cache. A non-positive capacity yields Disabled().
func New(cfg Config, opts ...Option) interfaces.RenderCache {
	if cfg.Capacity <= 0 {
		return Disabled()
	}
	store, err := lru.New(cfg.Capacity)
	if err != nil {
		return Disabled()
	}
	c := &RenderCache{
		store:  store,
		maxAge: cfg.MaxAge,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the live entry for key. Expired entries are removed on access.
func (c *RenderCache) Get(key string) (*interfaces.RenderResult, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	raw, ok := c.store.Peek(key)
	if !ok {
		c.stats.Misses++
		return nil, false
	}
	item := raw.(entry)
	if c.maxAge > 0 && c.now().Sub(item.createdAt) > c.maxAge {
		c.store.Remove(key)
		c.stats.Expired++
		c.stats.Misses++
		return nil, false
	}
	c.stats.Hits++
	return item.result, true
}

// Put inserts result under key, evicting the oldest insertion when full.
func (c *RenderCache) Put(key string, result *interfaces.RenderResult) {
	if result == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if evicted := c.store.Add(key, entry{result: result, createdAt: c.now()}); evicted {
		c.stats.Evictions++
	}
}

// Len returns the number of stored entries, including not yet collected
// expired ones.
func (c *RenderCache) Len() int {
	return c.store.Len()
}

// Purge drops every entry and resets the counters.
func (c *RenderCache) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.store.Purge()
	c.stats = Stats{}
}

// Stats returns a snapshot of the counters.
func (c *RenderCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := c.stats
	out.Entries = c.store.Len()
	return out
}

// Key derives the content identity of a block render.
func Key(blockType, blockID string, modifiedAt time.Time) string {
	var b strings.Builder
	b.WriteString(strings.ToLower(strings.TrimSpace(blockType)))
	b.WriteByte(0)
	b.WriteString(blockID)
	b.WriteByte(0)
	if !modifiedAt.IsZero() {
		b.WriteString(strconv.FormatInt(modifiedAt.UTC().UnixNano(), 10))
	}
	sum := sha256.Sum256([]byte(b.String()))
	return hex.EncodeToString(sum[:])
}

// Disabled returns a cache that never stores anything.
func Disabled() interfaces.RenderCache {
	return disabledCache{}
}

type disabledCache struct{}

func (disabledCache) Get(string) (*interfaces.RenderResult, bool) { return nil, false }
func (disabledCache) Put(string, *interfaces.RenderResult)        {}
func (disabledCache) Len() int                                    { return 0 }
func (disabledCache) Purge()                                      {}

var (
	_ interfaces.RenderCache = (*RenderCache)(nil)
	_ interfaces.RenderCache = disabledCache{}
)
