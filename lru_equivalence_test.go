package lruk

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2/simplelru"
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"

	"github.com/farazdagi/lru-k/testutil"
)

// With depth 1 a single reference fills the history ring, every entry is
// warm from the start, and the policy must degenerate to classic LRU. The
// list implementation from hashicorp/golang-lru serves as the oracle.
var _ = Describe("depth 1 LRU equivalence", func() {
	const (
		capacity = 32
		keySpace = 64
		ops      = 10000
	)

	It("evicts the same keys in the same order as an LRU list", func() {
		c := newTestCache(capacity, 1)
		oracle, err := simplelru.NewLRU[string, int](capacity, nil)
		Expect(err).To(BeNil())

		keys := make([]string, keySpace)
		for i := range keys {
			keys[i] = fmt.Sprintf("key_%v", i)
		}

		for i := 0; i < ops; i++ {
			key := keys[testutil.Rand.Intn(len(keys))]
			switch testutil.Rand.Intn(6) {
			case 0, 1:
				var value int
				testutil.Fuzz(&value)
				c.Push(key, value)
				oracle.Add(key, value)
			case 2:
				gotValue, gotOk := c.Get(key)
				wantValue, wantOk := oracle.Get(key)
				Expect(gotOk).To(Equal(wantOk), "get presence differs at op %v", i)
				Expect(gotValue).To(Equal(wantValue), "get value differs at op %v", i)
			case 3:
				gotValue, gotOk := c.Peek(key)
				wantValue, wantOk := oracle.Peek(key)
				Expect(gotOk).To(Equal(wantOk), "peek presence differs at op %v", i)
				Expect(gotValue).To(Equal(wantValue), "peek value differs at op %v", i)
			case 4:
				gotValue, gotOk := c.Pop(key)
				wantValue, wantOk := oracle.Peek(key)
				Expect(gotOk).To(Equal(oracle.Remove(key)), "pop presence differs at op %v", i)
				if gotOk {
					Expect(wantOk).To(BeTrue())
					Expect(gotValue).To(Equal(wantValue), "pop value differs at op %v", i)
				}
			case 5:
				gotKey, gotValue, gotOk := c.PopVictim()
				wantKey, wantValue, wantOk := oracle.RemoveOldest()
				Expect(gotOk).To(Equal(wantOk), "pop victim presence differs at op %v", i)
				Expect(gotKey).To(Equal(wantKey), "pop victim key differs at op %v", i)
				Expect(gotValue).To(Equal(wantValue), "pop victim value differs at op %v", i)
			}
			if i%512 == 0 {
				Expect(c.Len()).To(Equal(oracle.Len()))
				Expect(c.Keys()).To(Equal(oracle.Keys()), "orders diverge at op %v", i)
			}
		}
		Expect(c.Len()).To(Equal(oracle.Len()))
		Expect(c.Keys()).To(Equal(oracle.Keys()), "oldest to newest orders must match")
		c.ExpectInvariantsOk()
	})
})
