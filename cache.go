package lruk

import (
	"errors"
	"fmt"

	"github.com/farazdagi/lru-k/log"
)

// Construction errors.
var (
	// ErrInvalidCapacity is returned by New when capacity is below 1.
	// A zero-capacity cache would accept nothing, so it is rejected up front
	// instead of being produced as a useless instance.
	ErrInvalidCapacity = errors.New("lruk: capacity must be positive")

	// ErrInvalidK is returned by New when the reference depth is below 1.
	ErrInvalidK = errors.New("lruk: reference depth K must be positive")
)

// Config carries Cache construction parameters for callers that need more
// than New's capacity and K.
type Config[Key comparable, Value any] struct {
	// Capacity is the fixed entry limit. Must be positive.
	Capacity int

	// K is how many most recent references are retained per key. An entry
	// is judged by its K-distance only after K references; until then it is
	// cold and is evicted before any fully measured entry. Must be positive.
	// K = 1 behaves as classic LRU.
	K int

	// OnEvict, when set, is called with every victim the eviction policy
	// selects: capacity overflow on Push, PopVictim, and Resize. It is not
	// called for Pop, where the caller already holds the value, nor for
	// Clear. The callback sees the cache in a consistent state but must not
	// mutate it.
	OnEvict func(key Key, value Value)

	// Log receives debug traces of promotions and evictions.
	// Defaults to log.NewNop().
	Log log.Logger
}

// Cache is a fixed-capacity key/value store with LRU-K eviction.
// See the package documentation for the policy description.
// Not safe for concurrent use.
type Cache[Key comparable, Value any] struct {
	table map[Key]*entry[Key, Value]

	// Entry owned by table is owned by exactly one of the queues:
	// cold while its history ring is not full, warm after.
	cold *queue[Key, Value]
	warm *queue[Key, Value]

	clock    clock
	capacity int
	k        int
	onEvict  func(Key, Value)
	log      log.Logger
}

// New returns a Cache holding at most capacity entries, judging each entry
// by its K most recent references.
func New[Key comparable, Value any](capacity, k int) (*Cache[Key, Value], error) {
	return NewWithConfig(Config[Key, Value]{Capacity: capacity, K: k})
}

// NewWithConfig is New with an eviction callback and logger attached.
func NewWithConfig[Key comparable, Value any](conf Config[Key, Value]) (*Cache[Key, Value], error) {
	if conf.Capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if conf.K < 1 {
		return nil, ErrInvalidK
	}
	if conf.Log == nil {
		conf.Log = log.NewNop()
	}
	return &Cache[Key, Value]{
		table:    make(map[Key]*entry[Key, Value], conf.Capacity),
		cold:     newQueue[Key, Value]("cold"),
		warm:     newQueue[Key, Value]("warm"),
		capacity: conf.Capacity,
		k:        conf.K,
		onEvict:  conf.OnEvict,
		log:      conf.Log,
	}, nil
}

// Push stores value under key. Overwriting an existing key updates the value
// in place and counts as one reference to it. A new key enters the cold
// queue (the warm queue when K = 1, a single reference already fills the
// ring); if the cache is full, the eviction policy removes one victim first
// and Push returns it with evicted true.
func (c *Cache[Key, Value]) Push(key Key, value Value) (victimKey Key, victimValue Value, evicted bool) {
	defer c.checkInvariants()
	if n, ok := c.table[key]; ok {
		n.value = value
		c.ref(n)
		return
	}
	if len(c.table) == c.capacity {
		victimKey, victimValue, evicted = c.evict()
	}
	c.insert(key, value)
	return
}

// Get returns the value stored under key, recording one reference and
// repositioning the entry exactly as Push's overwrite path does. A miss
// changes no state.
func (c *Cache[Key, Value]) Get(key Key) (Value, bool) {
	defer c.checkInvariants()
	n, ok := c.table[key]
	if !ok {
		var zero Value
		return zero, false
	}
	c.ref(n)
	return n.value, true
}

// GetMut is Get for callers that mutate the value in place: it records one
// reference and returns a pointer to the stored value. The pointer stays
// valid after the entry is evicted, but past that point it no longer refers
// to cached state.
func (c *Cache[Key, Value]) GetMut(key Key) (*Value, bool) {
	defer c.checkInvariants()
	n, ok := c.table[key]
	if !ok {
		return nil, false
	}
	c.ref(n)
	return &n.value, true
}

// Peek returns the value stored under key without recording a reference.
// No timestamp is issued and no queue position changes, so a Peek can never
// influence which entry is evicted next.
func (c *Cache[Key, Value]) Peek(key Key) (Value, bool) {
	n, ok := c.table[key]
	if !ok {
		var zero Value
		return zero, false
	}
	return n.value, true
}

// Contains reports whether key is stored. Like Peek, it is not a reference.
func (c *Cache[Key, Value]) Contains(key Key) bool {
	_, ok := c.table[key]
	return ok
}

// Pop removes key from the cache regardless of which queue holds it, and
// returns the removed value. OnEvict is not called.
func (c *Cache[Key, Value]) Pop(key Key) (Value, bool) {
	defer c.checkInvariants()
	n, ok := c.table[key]
	if !ok {
		var zero Value
		return zero, false
	}
	c.unlink(n)
	return n.value, true
}

// PopVictim removes one entry through the eviction policy even when the
// cache is under capacity, and returns the removed pair. It reports false
// only on an empty cache.
func (c *Cache[Key, Value]) PopVictim() (Key, Value, bool) {
	defer c.checkInvariants()
	return c.evict()
}

// Victim returns the pair PopVictim would remove, without removing it.
func (c *Cache[Key, Value]) Victim() (Key, Value, bool) {
	n := c.victim()
	if n == nil {
		var zeroKey Key
		var zeroValue Value
		return zeroKey, zeroValue, false
	}
	return n.key, n.value, true
}

// Keys returns the stored keys in eviction order: every cold entry before
// every warm one, each queue from its next victim up to its most recently
// referenced entry.
func (c *Cache[Key, Value]) Keys() []Key {
	keys := make([]Key, 0, len(c.table))
	for _, q := range []*queue[Key, Value]{c.cold, c.warm} {
		for n := q.head(); !q.end(n); n = n.next {
			keys = append(keys, n.key)
		}
	}
	return keys
}

// Len returns the number of stored entries.
func (c *Cache[Key, Value]) Len() int { return len(c.table) }

// Cap returns the capacity.
func (c *Cache[Key, Value]) Cap() int { return c.capacity }

// RefDepth returns K, the per-key reference history depth.
func (c *Cache[Key, Value]) RefDepth() int { return c.k }

// IsEmpty reports whether the cache holds no entries.
func (c *Cache[Key, Value]) IsEmpty() bool { return len(c.table) == 0 }

// Clear removes every entry. The reference clock is not reset, so stamps
// issued after Clear still order after stamps issued before it.
// OnEvict is not called.
func (c *Cache[Key, Value]) Clear() {
	defer c.checkInvariants()
	c.log.Debugf("clear %v entries", len(c.table))
	c.table = make(map[Key]*entry[Key, Value], c.capacity)
	c.cold.reset()
	c.warm.reset()
}

// Resize changes the capacity, evicting through the eviction policy until
// the cache fits, and returns the number of entries evicted. A capacity
// below 1 is a caller bug on a live cache, so unlike construction Resize
// panics on it.
func (c *Cache[Key, Value]) Resize(capacity int) (evicted int) {
	defer c.checkInvariants()
	if capacity < 1 {
		panic(fmt.Sprintf("lruk: resize to invalid capacity %v", capacity))
	}
	for len(c.table) > capacity {
		c.evict()
		evicted++
	}
	c.capacity = capacity
	return evicted
}

// ref records one reference to an owned entry: a fresh timestamp enters the
// history ring and the entry is repositioned. Filling the ring's last free
// slot promotes the entry from cold to warm; afterwards every reference
// advances the ring's oldest retained stamp, so moving the entry to the top
// of its queue preserves K-distance rank order without comparing distances.
func (c *Cache[Key, Value]) ref(n *entry[Key, Value]) {
	wasFull := n.hist.full()
	n.hist.record(c.clock.tick())
	if !wasFull && n.hist.full() {
		c.cold.remove(n)
		c.warm.push(n)
		c.log.Debugf("promote %v after %v references", n.key, n.hist.size)
		return
	}
	n.owner.touch(n)
}

func (c *Cache[Key, Value]) insert(key Key, value Value) {
	n := newEntry[Key, Value](key, value, c.k)
	n.hist.record(c.clock.tick())
	c.table[key] = n
	if n.hist.full() {
		c.warm.push(n)
	} else {
		c.cold.push(n)
	}
}

// evict removes the policy victim and reports it. False means the cache was
// empty.
func (c *Cache[Key, Value]) evict() (Key, Value, bool) {
	n := c.victim()
	if n == nil {
		var zeroKey Key
		var zeroValue Value
		return zeroKey, zeroValue, false
	}
	c.log.Debugf("evict %v from %s queue", n.key, n.owner.name)
	c.unlink(n)
	if c.onEvict != nil {
		c.onEvict(n.key, n.value)
	}
	return n.key, n.value, true
}

// victim returns the entry the eviction policy selects next: the cold LRU
// while any cold entry exists, the warm LRU otherwise, nil when empty.
func (c *Cache[Key, Value]) victim() *entry[Key, Value] {
	if !c.cold.empty() {
		return c.cold.lru()
	}
	if !c.warm.empty() {
		return c.warm.lru()
	}
	return nil
}

// unlink removes an owned entry from its queue and from the table.
func (c *Cache[Key, Value]) unlink(n *entry[Key, Value]) {
	n.owner.remove(n)
	delete(c.table, n.key)
}
