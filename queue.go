package lruk

import (
	"fmt"

	"github.com/farazdagi/lru-k/internal/tag"
)

// entry is the record the cache owns for one key: the stored value, the
// reference history ring, and the intrusive links placing it in exactly one
// of the cold or warm queues.
type entry[Key comparable, Value any] struct {
	key   Key
	value Value
	hist  history

	owner *queue[Key, Value]
	prev  *entry[Key, Value]
	next  *entry[Key, Value]
}

func newEntry[Key comparable, Value any](key Key, value Value, k int) *entry[Key, Value] {
	return &entry[Key, Value]{key: key, value: value, hist: newHistory(k)}
}

var _ fmt.GoStringer = (*entry[string, int])(nil)

func (n *entry[Key, Value]) GoString() string {
	key := func(n *entry[Key, Value]) interface{} {
		if n == nil {
			return "<nil>"
		}
		return n.key
	}
	return fmt.Sprintf("{key: %v, refs: %v, owner: %s, prev: %v, next: %v}",
		n.key, n.hist.size, n.ownerName(), key(n.prev), key(n.next))
}

func (n *entry[Key, Value]) ownerName() string {
	if n.owner == nil {
		return "<none>"
	}
	return n.owner.name
}

// detach unlinks n from its neighbours without releasing ownership.
func (n *entry[Key, Value]) detach() {
	link(n.prev, n.next)
	if tag.Debug {
		n.prev = nil
		n.next = nil
	}
}

func (n *entry[Key, Value]) disown() {
	n.owner.size--
	if tag.Debug {
		n.owner = nil
	}
}

// link makes b follow a.
func link[Key comparable, Value any](a, b *entry[Key, Value]) {
	a.next, b.prev = b, a
}

// Invariants for every queue operation:
//   - queue owns the entries between fakeHead and fakeTail;
//   - {fakeHead, owned entries, fakeTail} is a correct doubly linked list;
//   - every owned entry has its owner field set to the queue;
//   - queue.size equals the number of owned entries.
type queue[Key comparable, Value any] struct {
	name string // Cold or warm, for debug output.
	size int

	// Fake entries. Real entries are between them.
	// nil <- fakeHead <-> entry_0 <-> ... <-> entry_(n-1) <-> fakeTail -> nil
	// Such structure prevents nil checks in code.

	// fakeHead is the bottom of the queue: fakeHead.next is the owned entry
	// that has gone longest without a touch, the queue's next victim.
	fakeHead *entry[Key, Value]
	// fakeTail is the top of the queue. References attach entries before it.
	fakeTail *entry[Key, Value]
}

func newQueue[Key comparable, Value any](name string) *queue[Key, Value] {
	q := &queue[Key, Value]{name: name}
	q.fakeHead, q.fakeTail = &entry[Key, Value]{}, &entry[Key, Value]{}
	link(q.fakeHead, q.fakeTail)
	return q
}

// push attaches n at the top of the queue and takes ownership.
// n must not be owned by any queue.
func (q *queue[Key, Value]) push(n *entry[Key, Value]) {
	q.assertNotOwned(n)
	n.owner = q
	q.size++
	q.attach(n)
}

// touch moves an owned entry back to the top of the queue.
func (q *queue[Key, Value]) touch(n *entry[Key, Value]) {
	q.assertOwned(n)
	n.detach()
	q.attach(n)
}

// remove detaches an owned entry and releases ownership.
func (q *queue[Key, Value]) remove(n *entry[Key, Value]) {
	q.assertOwned(n)
	n.detach()
	n.disown()
}

// lru returns the next victim: the owned entry least recently pushed or
// touched. Callers check empty first.
func (q *queue[Key, Value]) lru() *entry[Key, Value] {
	q.assertNotEmpty()
	return q.head()
}

func (q *queue[Key, Value]) attach(n *entry[Key, Value]) {
	link(q.tail(), n)
	link(n, q.fakeTail)
}

func (q *queue[Key, Value]) head() *entry[Key, Value] { return q.fakeHead.next }
func (q *queue[Key, Value]) tail() *entry[Key, Value] { return q.fakeTail.prev }

// end reports whether n is past the last owned entry, for head-to-tail scans.
func (q *queue[Key, Value]) end(n *entry[Key, Value]) bool { return n == q.fakeTail }

func (q *queue[Key, Value]) empty() bool { return q.size == 0 }

// reset drops all owned entries at once. Their links are left stale; the
// caller forgets the entries together with the queue contents.
func (q *queue[Key, Value]) reset() {
	link(q.fakeHead, q.fakeTail)
	q.size = 0
}

func (q *queue[Key, Value]) assertOwned(n *entry[Key, Value]) {
	if tag.Debug && n.owner != q {
		panic(fmt.Sprintf("entry %#v is not owned by queue %q", n, q.name))
	}
}

func (q *queue[Key, Value]) assertNotOwned(n *entry[Key, Value]) {
	if tag.Debug && n.owner != nil {
		panic(fmt.Sprintf("entry %#v is already owned by queue %q", n, n.owner.name))
	}
}

func (q *queue[Key, Value]) assertNotEmpty() {
	if tag.Debug && q.empty() {
		panic(fmt.Sprintf("queue %q has no entries", q.name))
	}
}
