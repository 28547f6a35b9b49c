package collector

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCounters_ClearOneAndAll(t *testing.T) {
	c := NewCounters()
	c.Inc("app", CounterRequests)
	c.Add("app", CounterNodeCalls, 3)
	c.Inc("other", CounterRequests)

	assert.Equal(t, []string{CounterNodeCalls}, c.Clear("app", CounterNodeCalls))
	assert.Equal(t, map[string]int64{CounterRequests: 1}, c.Snapshot("app"))

	assert.Equal(t, []string{CounterRequests}, c.Clear("app", ""))
	assert.Empty(t, c.Snapshot("app"))
	assert.Equal(t, int64(1), c.Snapshot("other")[CounterRequests])

	assert.Empty(t, c.Clear("app", "missing"))
}
