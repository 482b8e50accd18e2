package lruk

// clock issues the timestamps that order every reference a cache observes.
// Each cache owns its clock, so instances stay independent and tests can
// seed the counter directly.
//
// Zero is never issued. The first tick returns 1, which leaves zero free to
// mean "no reference recorded".
type clock struct {
	now uint64
}

// tick returns a value strictly greater than every value returned before.
// Overflow would break the total order the queues rely on, so it is a fatal
// logic fault, not an error.
func (c *clock) tick() uint64 {
	c.now++
	if c.now == 0 {
		panic("lruk: reference clock overflow")
	}
	return c.now
}
