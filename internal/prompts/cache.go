package prompts

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	cacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caregate_prompt_cache_hits_total",
		Help: "Effective instruction lookups served from the cache.",
	})
	cacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "caregate_prompt_cache_misses_total",
		Help: "Effective instruction lookups that reached the database.",
	})
)

// Cache holds the effective instructions per stage. Each process keeps its
// own copy; writes through this process purge it, other processes converge
// when entries expire.
type Cache struct {
	lru *expirable.LRU[Stage, string]
}

// NewCache creates a cache holding at most size entries for ttl each.
func NewCache(size int, ttl time.Duration) *Cache {
	return &Cache{lru: expirable.NewLRU[Stage, string](size, nil, ttl)}
}

// Get returns the cached instructions for stage.
func (c *Cache) Get(stage Stage) (string, bool) {
	v, ok := c.lru.Get(stage)
	if ok {
		cacheHitsTotal.Inc()
		return v, true
	}
	cacheMissesTotal.Inc()
	return "", false
}

// Set stores the effective instructions for stage.
func (c *Cache) Set(stage Stage, text string) {
	c.lru.Add(stage, text)
}

// Purge drops every entry.
func (c *Cache) Purge() {
	c.lru.Purge()
}
