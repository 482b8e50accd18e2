package workload

import (
	arc "github.com/hashicorp/golang-lru/arc/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	lruk "github.com/farazdagi/lru-k"
)

// Target is the cache surface a workload drives: a counted read and an
// insert after a miss, the two operations every compared policy shares.
type Target interface {
	// Get reports whether key was cached. Counts as one reference.
	Get(key uint64) bool
	// Add caches key after a miss.
	Add(key uint64)
}

type lrukTarget struct {
	c *lruk.Cache[uint64, struct{}]
}

// LRUKTarget adapts an LRU-K cache.
func LRUKTarget(c *lruk.Cache[uint64, struct{}]) Target { return lrukTarget{c} }

func (t lrukTarget) Get(key uint64) bool {
	_, ok := t.c.Get(key)
	return ok
}

func (t lrukTarget) Add(key uint64) { t.c.Push(key, struct{}{}) }

type lruTarget struct {
	c *lru.Cache[uint64, struct{}]
}

// LRUTarget adapts the classic LRU cache of hashicorp/golang-lru.
func LRUTarget(c *lru.Cache[uint64, struct{}]) Target { return lruTarget{c} }

func (t lruTarget) Get(key uint64) bool {
	_, ok := t.c.Get(key)
	return ok
}

func (t lruTarget) Add(key uint64) { t.c.Add(key, struct{}{}) }

type arcTarget struct {
	c *arc.ARCCache[uint64, struct{}]
}

// ARCTarget adapts the adaptive replacement cache of hashicorp/golang-lru.
func ARCTarget(c *arc.ARCCache[uint64, struct{}]) Target { return arcTarget{c} }

func (t arcTarget) Get(key uint64) bool {
	_, ok := t.c.Get(key)
	return ok
}

func (t arcTarget) Add(key uint64) { t.c.Add(key, struct{}{}) }
