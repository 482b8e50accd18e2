package lruk

import (
	"fmt"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/farazdagi/lru-k/log"
)

type MockEvict struct {
	mock.Mock
}

func (m *MockEvict) Evict(key string, value int) {
	By(fmt.Sprintf("Evict %v=%v", key, value))
	m.Called(key, value)
}

var _ = Describe("Cache", func() {
	BeforeEach(resetTestKeys)

	Describe("construction", func() {
		It("rejects non-positive capacity", func() {
			for _, capacity := range []int{0, -1} {
				c, err := New[string, int](capacity, 2)
				Expect(err).To(MatchError(ErrInvalidCapacity))
				Expect(c).To(BeNil())
			}
		})

		It("rejects non-positive reference depth", func() {
			for _, k := range []int{0, -5} {
				c, err := New[string, int](3, k)
				Expect(err).To(MatchError(ErrInvalidK))
				Expect(c).To(BeNil())
			}
		})

		It("reports its parameters", func() {
			c := newTestCache(3, 2)
			Expect(c.Cap()).To(Equal(3))
			Expect(c.RefDepth()).To(Equal(2))
			Expect(c.Len()).To(BeZero())
			Expect(c.IsEmpty()).To(BeTrue())
		})
	})

	Context("capacity 2, depth 2", func() {
		var c *Cache[string, int]
		BeforeEach(func() {
			c = newTestCache(2, 2)
		})
		AfterEach(func() {
			c.ExpectInvariantsOk()
		})

		It("misses on empty", func() {
			_, ok := c.Get("test_key_0")
			Expect(ok).To(BeFalse())
			Expect(c.IsEmpty()).To(BeTrue())
		})

		It("round trips a pushed value", func() {
			_, _, evicted := c.Push("a", 1)
			Expect(evicted).To(BeFalse())
			Expect(c.Len()).To(Equal(1))
			Expect(c.IsEmpty()).To(BeFalse())
			Expect(c.Contains("a")).To(BeTrue())
			v, ok := c.Get("a")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(1))
		})

		It("overwrites in place", func() {
			c.Push("a", 1)
			_, _, evicted := c.Push("a", 2)
			Expect(evicted).To(BeFalse())
			Expect(c.Len()).To(Equal(1))
			v, _ := c.Peek("a")
			Expect(v).To(Equal(2))
		})

		It("overwrite at capacity does not evict", func() {
			c.Push("a", 1)
			c.Push("b", 2)
			_, _, evicted := c.Push("a", 3)
			Expect(evicted).To(BeFalse())
			Expect(c.Len()).To(Equal(2))
			Expect(c.Contains("b")).To(BeTrue())
		})

		It("evicts a single-use entry before a twice-used one", func() {
			c.Push("a", 1)
			c.Push("b", 2)
			_, ok := c.Get("a")
			Expect(ok).To(BeTrue())

			key, value, evicted := c.Push("c", 3)
			Expect(evicted).To(BeTrue())
			Expect(key).To(Equal("b"))
			Expect(value).To(Equal(2))
			Expect(c.Contains("a")).To(BeTrue())
			Expect(c.Contains("c")).To(BeTrue())
		})

		It("prefers a cold victim even when warm entries are older", func() {
			c.Push("a", 1)
			c.Get("a") // a is warm and untouched from here on
			c.Push("b", 2)

			key, _, evicted := c.Push("c", 3)
			Expect(evicted).To(BeTrue())
			Expect(key).To(Equal("b"), "undefined distance outranks any measured one")
			Expect(c.Contains("a")).To(BeTrue())
		})

		It("promotes exactly at the second reference", func() {
			c.Push("a", 1)
			Expect(c.cold.size).To(Equal(1))
			Expect(c.warm.size).To(BeZero())

			c.Get("a")
			Expect(c.cold.size).To(BeZero())
			Expect(c.warm.size).To(Equal(1))

			c.Get("a")
			Expect(c.warm.size).To(Equal(1), "further references keep the entry warm")
		})

		It("counts overwrite as a reference", func() {
			c.Push("a", 1)
			c.Push("a", 2) // second reference promotes
			Expect(c.warm.size).To(Equal(1))

			c.Push("b", 3)
			key, _, evicted := c.Push("c", 4)
			Expect(evicted).To(BeTrue())
			Expect(key).To(Equal("b"))
		})

		It("peek is not a reference", func() {
			c.Push("a", 1)
			c.Push("b", 2)
			for i := 0; i < 5; i++ {
				v, ok := c.Peek("a")
				Expect(ok).To(BeTrue())
				Expect(v).To(Equal(1))
				Expect(c.Contains("a")).To(BeTrue())
			}

			key, _, evicted := c.Push("c", 3)
			Expect(evicted).To(BeTrue())
			Expect(key).To(Equal("a"), "peeks must not refresh the entry")
		})

		It("get mut counts as a reference and exposes the stored value", func() {
			c.Push("a", 1)
			c.Push("b", 2)

			p, ok := c.GetMut("a")
			Expect(ok).To(BeTrue())
			*p = 42
			v, _ := c.Peek("a")
			Expect(v).To(Equal(42))

			key, _, evicted := c.Push("c", 3)
			Expect(evicted).To(BeTrue())
			Expect(key).To(Equal("b"), "mutated entry is warm now")
		})

		It("get mut misses without a pointer", func() {
			p, ok := c.GetMut("nope")
			Expect(ok).To(BeFalse())
			Expect(p).To(BeNil())
		})

		It("pop removes regardless of temperature", func() {
			c.Push("a", 1)
			c.Get("a") // warm
			c.Push("b", 2)

			v, ok := c.Pop("a")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(1))
			v, ok = c.Pop("b")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(2))
			Expect(c.IsEmpty()).To(BeTrue())

			_, ok = c.Pop("a")
			Expect(ok).To(BeFalse())
			_, ok = c.Get("a")
			Expect(ok).To(BeFalse())
		})

		It("pop right after push leaves the length unchanged", func() {
			c.Push("a", 1)
			before := c.Len()
			c.Push("b", 2)
			v, ok := c.Pop("b")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(2))
			Expect(c.Len()).To(Equal(before))
		})

		It("pop victim follows the eviction policy under capacity", func() {
			c.Push("a", 1)
			c.Get("a") // warm
			c.Push("b", 2)

			key, value, ok := c.Victim()
			Expect(ok).To(BeTrue())
			Expect(key).To(Equal("b"))
			Expect(value).To(Equal(2))
			Expect(c.Len()).To(Equal(2), "victim must not remove")

			key, value, ok = c.PopVictim()
			Expect(ok).To(BeTrue())
			Expect(key).To(Equal("b"))
			Expect(value).To(Equal(2))

			key, _, ok = c.PopVictim()
			Expect(ok).To(BeTrue())
			Expect(key).To(Equal("a"))

			_, _, ok = c.PopVictim()
			Expect(ok).To(BeFalse())
			_, _, ok = c.Victim()
			Expect(ok).To(BeFalse())
		})

		It("keeps the reference clock across clear", func() {
			c.Push("a", 1)
			c.Push("b", 2)
			before := c.clock.now
			c.Clear()
			Expect(c.IsEmpty()).To(BeTrue())
			Expect(c.clock.now).To(Equal(before))

			c.Push("c", 3)
			Expect(c.clock.now).To(Equal(before + 1))
		})
	})

	Context("capacity 3, depth 2", func() {
		var c *Cache[string, int]
		BeforeEach(func() {
			c = newTestCache(3, 2)
		})
		AfterEach(func() {
			c.ExpectInvariantsOk()
		})

		warmUp := func(keys ...string) {
			for i, key := range keys {
				c.Push(key, i)
				_, ok := c.Get(key)
				Expect(ok).To(BeTrue())
			}
		}

		It("survives a scan of one-shot keys", func() {
			warmUp("a", "b")
			for i := 0; i < 100; i++ {
				c.Push(testKey(), i)
			}
			Expect(c.Contains("a")).To(BeTrue())
			Expect(c.Contains("b")).To(BeTrue())
			Expect(c.Len()).To(Equal(3), "the scan churns a single cold slot")
		})

		It("loses exactly one warm entry when the cache is fully warm", func() {
			warmUp("a", "b", "c") // warm bottom to top: a, b, c
			key, _, evicted := c.Push(testKey(), 0)
			Expect(evicted).To(BeTrue())
			Expect(key).To(Equal("a"), "no cold entry to take the hit")

			for i := 0; i < 100; i++ {
				c.Push(testKey(), i)
			}
			Expect(c.Contains("b")).To(BeTrue())
			Expect(c.Contains("c")).To(BeTrue())
		})

		It("lists keys in eviction order", func() {
			warmUp("a", "b")
			c.Push("x", 9)
			Expect(c.Keys()).To(Equal([]string{"x", "a", "b"}))

			c.Get("a") // warm order is now b, a
			Expect(c.Keys()).To(Equal([]string{"x", "b", "a"}))

			c.Get("x") // promoted to warm top
			Expect(c.Keys()).To(Equal([]string{"b", "a", "x"}))
		})

		It("clear empties but stays usable", func() {
			warmUp("a", "b", "c")
			c.Clear()
			Expect(c.IsEmpty()).To(BeTrue())
			Expect(c.Len()).To(BeZero())
			Expect(c.Keys()).To(BeEmpty())
			Expect(c.Contains("a")).To(BeFalse())

			c.Push("d", 4)
			Expect(c.Len()).To(Equal(1))
			v, ok := c.Get("d")
			Expect(ok).To(BeTrue())
			Expect(v).To(Equal(4))
		})

		It("resize down evicts in policy order", func() {
			warmUp("a", "b")
			c.Push("x", 9)
			Expect(c.Resize(1)).To(Equal(2))
			Expect(c.Cap()).To(Equal(1))
			Expect(c.Len()).To(Equal(1))
			Expect(c.Contains("b")).To(BeTrue(), "cold x and warm lru a go first")
		})

		It("resize up keeps entries and allows growth", func() {
			warmUp("a", "b", "c")
			Expect(c.Resize(5)).To(BeZero())
			Expect(c.Cap()).To(Equal(5))
			Expect(c.Len()).To(Equal(3))
			_, _, evicted := c.Push("d", 4)
			Expect(evicted).To(BeFalse())
			Expect(c.Len()).To(Equal(4))
		})

		It("resize panics below one", func() {
			Expect(func() { c.Resize(0) }).To(Panic())
			Expect(func() { c.Resize(-1) }).To(Panic())
		})
	})

	Context("eviction callback", func() {
		var mc *MockEvict
		var c *Cache[string, int]
		BeforeEach(func() {
			mc = &MockEvict{}
			var err error
			c, err = NewWithConfig(Config[string, int]{
				Capacity: 2,
				K:        2,
				OnEvict:  mc.Evict,
				Log:      log.NewLogger(log.DebugLevel, GinkgoWriter),
			})
			Expect(err).To(BeNil())
		})
		AfterEach(func() {
			c.ExpectInvariantsOk()
			mc.AssertExpectations(GinkgoT())
		})

		It("fires on push overflow", func() {
			c.Push("a", 1)
			c.Push("b", 2)
			mc.On("Evict", "a", 1).Once()
			c.Push("c", 3)
		})

		It("fires on pop victim", func() {
			c.Push("a", 1)
			mc.On("Evict", "a", 1).Once()
			_, _, ok := c.PopVictim()
			Expect(ok).To(BeTrue())
		})

		It("fires once per entry evicted by resize", func() {
			c.Push("a", 1)
			c.Push("b", 2)
			mc.On("Evict", "a", 1).Once()
			Expect(c.Resize(1)).To(Equal(1))
		})

		It("stays silent on pop and clear", func() {
			c.Push("a", 1)
			_, ok := c.Pop("a")
			Expect(ok).To(BeTrue())
			c.Push("b", 2)
			c.Clear()
		})
	})

	Context("depth 1", func() {
		var c *Cache[string, int]
		BeforeEach(func() {
			c = newTestCache(2, 1)
		})
		AfterEach(func() {
			c.ExpectInvariantsOk()
		})

		It("goes warm on the first reference", func() {
			c.Push("a", 1)
			Expect(c.cold.empty()).To(BeTrue())
			Expect(c.warm.size).To(Equal(1))
		})

		It("behaves as classic LRU", func() {
			c.Push("a", 1)
			c.Push("b", 2)
			_, ok := c.Get("a")
			Expect(ok).To(BeTrue())

			key, _, evicted := c.Push("c", 3)
			Expect(evicted).To(BeTrue())
			Expect(key).To(Equal("b"), "least recently referenced goes first")
		})
	})

	Context("depth 3", func() {
		It("requires three references to go warm", func() {
			c := newTestCache(3, 3)
			c.Push("a", 1)
			c.Get("a")
			Expect(c.cold.size).To(Equal(1), "two references are not enough")
			c.Peek("a")
			Expect(c.cold.size).To(Equal(1), "peek is not a reference")
			c.Get("a")
			Expect(c.cold.size).To(BeZero())
			Expect(c.warm.size).To(Equal(1))
			c.ExpectInvariantsOk()
		})
	})
})
