//go:build !debug
// +build !debug

package lruk

// Invariant checks compile to no-ops outside debug builds.

func (q *queue[Key, Value]) checkInvariants() {}

func (c *Cache[Key, Value]) checkInvariants() {}
