package workload

import "math/rand"

// minRecoveryWindow is how many references Recovery observes before it
// trusts the rolling hit rate.
const minRecoveryWindow = 100

// Runner replays access patterns against a Target. Hot keys live in
// [0, hotSize); scan keys start at hotSize and never repeat across the
// Runner's lifetime.
type Runner struct {
	target   Target
	rng      *rand.Rand
	scanNext uint64
}

func NewRunner(target Target, seed int64) *Runner {
	return &Runner{target: target, rng: rand.New(rand.NewSource(seed))}
}

// AccessHot performs ops references drawn uniformly from the hot key range,
// caching every missed key, and accounts them to m.
func (r *Runner) AccessHot(hotSize, ops int, m *Metrics) {
	for i := 0; i < ops; i++ {
		r.access(uint64(r.rng.Intn(hotSize)), m)
	}
}

// ScanCold runs a one-pass scan of scanSize distinct keys outside the hot
// range. Every key misses and is referenced exactly once: the pattern that
// flushes a classic LRU cache.
func (r *Runner) ScanCold(hotSize, scanSize int, m *Metrics) {
	if r.scanNext < uint64(hotSize) {
		r.scanNext = uint64(hotSize)
	}
	for i := 0; i < scanSize; i++ {
		r.access(r.scanNext, m)
		r.scanNext++
	}
}

// Recovery references hot keys until the rolling hit rate reaches target,
// and returns how many references that took. ok is false when maxOps
// references were not enough.
func (r *Runner) Recovery(hotSize, maxOps int, target float64) (ops int64, ok bool) {
	m := newUnregisteredMetrics()
	for i := 0; i < maxOps; i++ {
		r.access(uint64(r.rng.Intn(hotSize)), m)
		if m.Total() >= minRecoveryWindow && m.HitRate() >= target {
			return m.Total(), true
		}
	}
	return m.Total(), false
}

func (r *Runner) access(key uint64, m *Metrics) {
	if r.target.Get(key) {
		m.Hit()
		return
	}
	m.Miss()
	r.target.Add(key)
}
