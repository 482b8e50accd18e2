package workload

import (
	"fmt"

	"github.com/rcrowley/go-metrics"
)

// Metrics accumulates hit and miss counts of one workload phase. Counters
// register on r as <name>.hits and <name>.misses, so a registry dump lists
// every phase of a run side by side.
type Metrics struct {
	hits   metrics.Counter
	misses metrics.Counter
}

func NewMetrics(r metrics.Registry, name string) *Metrics {
	return &Metrics{
		hits:   metrics.NewRegisteredCounter(name+".hits", r),
		misses: metrics.NewRegisteredCounter(name+".misses", r),
	}
}

// newUnregisteredMetrics is for throwaway measurements like Recovery's
// rolling window.
func newUnregisteredMetrics() *Metrics {
	return &Metrics{
		hits:   metrics.NewCounter(),
		misses: metrics.NewCounter(),
	}
}

func (m *Metrics) Hit()  { m.hits.Inc(1) }
func (m *Metrics) Miss() { m.misses.Inc(1) }

func (m *Metrics) Hits() int64   { return m.hits.Count() }
func (m *Metrics) Misses() int64 { return m.misses.Count() }
func (m *Metrics) Total() int64  { return m.hits.Count() + m.misses.Count() }

// HitRate returns hits over total in [0, 1], and 0 before any access.
func (m *Metrics) HitRate() float64 {
	total := m.Total()
	if total == 0 {
		return 0
	}
	return float64(m.Hits()) / float64(total)
}

func (m *Metrics) String() string {
	return fmt.Sprintf("hits=%v misses=%v hit_rate=%.2f%%",
		m.Hits(), m.Misses(), 100*m.HitRate())
}
