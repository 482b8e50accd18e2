package lruk

// history is a fixed-depth ring of an entry's most recent reference
// timestamps. It holds at most K stamps; recording into a full ring drops
// the oldest. Once full, the oldest retained stamp is the entry's backward
// K-distance witness.
type history struct {
	stamps []uint64 // ring storage, depth K
	head   int      // index of the oldest retained stamp
	size   int      // retained stamps, 0..K
}

func newHistory(k int) history {
	return history{stamps: make([]uint64, k)}
}

// record appends ts as the most recent stamp. Filling the last free slot is
// the caller's promotion signal: full flips from false to true exactly once
// per entry lifetime.
func (h *history) record(ts uint64) {
	if h.size < len(h.stamps) {
		h.stamps[(h.head+h.size)%len(h.stamps)] = ts
		h.size++
		return
	}
	h.stamps[h.head] = ts
	h.head = (h.head + 1) % len(h.stamps)
}

func (h *history) full() bool { return h.size == len(h.stamps) }

// oldest returns the oldest retained stamp, or zero when nothing is
// recorded. It witnesses the K-distance only while the ring is full; before
// that the entry is cold and the cold queue order is what matters.
func (h *history) oldest() uint64 {
	if h.size == 0 {
		return 0
	}
	return h.stamps[h.head]
}

// last returns the most recent stamp, or zero when nothing is recorded.
func (h *history) last() uint64 {
	if h.size == 0 {
		return 0
	}
	return h.stamps[(h.head+h.size-1)%len(h.stamps)]
}
