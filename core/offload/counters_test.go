package offload

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounters(t *testing.T) {
	c := NewCounters()

	assert.Equal(t, 0, c.Get(CounterUploaded), "untouched counter reads zero")

	c.Inc(CounterUploaded)
	c.Inc(CounterUploaded)
	c.Add(CounterObjectsScanned, 5)
	assert.Equal(t, 2, c.Get(CounterUploaded))
	assert.Equal(t, 5, c.Get(CounterObjectsScanned))

	// Counts never decrease.
	c.Add(CounterUploaded, -3)
	assert.Equal(t, 2, c.Get(CounterUploaded))

	c.Add(CounterUploaded, 0)
	assert.Equal(t, 2, c.Get(CounterUploaded))
}

func TestCounters_Snapshot(t *testing.T) {
	c := NewCounters()
	c.Inc(CounterSkippedExists)
	c.Add(CounterOrphansFound, 3)

	snap := c.Snapshot()
	assert.Equal(t, map[string]int{
		CounterSkippedExists: 1,
		CounterOrphansFound:  3,
	}, snap)

	// The snapshot is detached from the accumulator.
	snap[CounterSkippedExists] = 99
	assert.Equal(t, 1, c.Get(CounterSkippedExists))
}

func TestCounters_Names(t *testing.T) {
	c := NewCounters()
	c.Inc(CounterUploaded)
	c.Inc(CounterLocalNotFound)
	c.Inc(CounterSkippedExists)

	assert.Equal(t, []string{
		CounterLocalNotFound,
		CounterSkippedExists,
		CounterUploaded,
	}, c.Names())
}

func TestCounters_MarshalJSON(t *testing.T) {
	c := NewCounters()
	c.Inc(CounterUploaded)
	c.Add(CounterTotalProcessed, 4)

	data, err := json.Marshal(c)
	require.NoError(t, err)

	var decoded map[string]int
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, map[string]int{
		CounterUploaded:       1,
		CounterTotalProcessed: 4,
	}, decoded)
}
