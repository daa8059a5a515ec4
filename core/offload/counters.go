package offload

import (
	"encoding/json"
	"sort"
)

// Counters accumulates named integer counts describing run outcomes.
// One instance per run; increments only, never decrements. The engines run
// a single walk, so no locking is needed.
type Counters struct {
	counts map[string]int
}

// NewCounters returns an empty accumulator.
func NewCounters() *Counters {
	return &Counters{counts: make(map[string]int)}
}

// Inc increments the named counter by one.
func (c *Counters) Inc(name string) {
	c.counts[name]++
}

// Add increments the named counter by n. Negative n is ignored.
func (c *Counters) Add(name string, n int) {
	if n < 0 {
		return
	}
	c.counts[name] += n
}

// Get returns the current value of the named counter (zero if never touched).
func (c *Counters) Get(name string) int {
	return c.counts[name]
}

// Snapshot returns a copy of all counters as a flat name-to-value map.
func (c *Counters) Snapshot() map[string]int {
	out := make(map[string]int, len(c.counts))
	for name, n := range c.counts {
		out[name] = n
	}
	return out
}

// Names returns the touched counter names in sorted order.
func (c *Counters) Names() []string {
	names := make([]string, 0, len(c.counts))
	for name := range c.counts {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// MarshalJSON encodes the counters as a flat JSON object.
func (c *Counters) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.counts)
}
