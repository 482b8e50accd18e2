//go:build debug
// +build debug

// Gomega should not be a dependency of non-debug builds.

package lruk

import (
	"errors"
	"log"

	"github.com/facebookgo/stackerr"
	. "github.com/onsi/gomega"
)

var _ = func() (_ struct{}) {
	RegisterFailHandler(GomegaFailHandler)
	return
}()

// GomegaFailHandler makes invariant check failures fatal when no test fail
// handler has been registered.
func GomegaFailHandler(message string, callerSkip ...int) {
	skip := callerSkip[0] + 1
	err := stackerr.WrapSkip(errors.New(message), skip)
	log.Fatal("FATAL: cache invariants broken: ", err)
}

func (q *queue[Key, Value]) checkInvariants() {
	Expect(q.fakeHead.prev).To(BeNil())
	Expect(q.fakeTail.next).To(BeNil())
	Expect(q.fakeHead.owner).To(BeNil())
	Expect(q.fakeTail.owner).To(BeNil())
	size := 0
	for n := q.head(); !q.end(n); n = n.next {
		size++
		Expect(n.owner).To(BeIdenticalTo(q), "entry owned by another queue")
		Expect(n.prev.next).To(BeIdenticalTo(n), "broken link to entry")
		Expect(n.next.prev).To(BeIdenticalTo(n), "broken link from entry")
	}
	Expect(size).To(Equal(q.size), "queue size differs from owned entries")
}

func (c *Cache[Key, Value]) checkInvariants() {
	c.cold.checkInvariants()
	c.warm.checkInvariants()
	Expect(c.cold.size + c.warm.size).To(Equal(len(c.table)),
		"queues and table hold different entries")
	Expect(len(c.table)).To(BeNumerically("<=", c.capacity), "capacity overflow")
	for _, q := range []*queue[Key, Value]{c.cold, c.warm} {
		for n := q.head(); !q.end(n); n = n.next {
			tn, ok := c.table[n.key]
			Expect(ok).To(BeTrue(), "no table ref to owned entry")
			Expect(tn).To(BeIdenticalTo(n), "table refs another entry")
			Expect(n.hist.full()).To(Equal(q == c.warm),
				"queue does not match history fill")
		}
	}
}
