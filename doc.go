// Package lruk provides a fixed-capacity in-memory key/value cache that
// evicts with the LRU-K policy.
// Note: design based on "The LRU-K Page Replacement Algorithm For Database
// Disk Buffering" (O'Neil, O'Neil, Weikum).
// * Every reference to a key (Push, Get, GetMut) takes a timestamp from a
// per-cache monotonic clock and records it in the key's history ring, which
// retains the K most recent stamps.
// * Entries referenced fewer than K times are cold: their backward
// K-distance is undefined, and they sit in the cold queue in classic LRU
// order.
// * Entries with K recorded references are warm: the oldest stamp retained
// in the ring defines their K-distance. The warm queue keeps K-distance rank
// order structurally, by moving an entry to the top on every reference; the
// oldest retained stamp only ever advances, and only on a reference, so the
// queue never compares distances at runtime.
// * The victim is the bottom cold entry whenever one exists, since an
// undefined distance outranks every measured one, and the bottom warm entry
// otherwise.
//
// The primary goal is scan resistance. A burst of one-time references cycles
// through the cold queue and out the bottom without displacing keys that
// have proven themselves warm, while the same burst flushes a classic LRU
// cache completely. K = 1 degenerates to classic LRU: a single reference
// fills the ring, so every entry is warm from the start.
//
// A Cache is a single-owner structure. No operation blocks, spawns work, or
// takes locks internally; callers that share an instance between goroutines
// must serialize access themselves. Every operation is a bounded state
// transition that runs in amortized constant time.
package lruk
