package collector

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConcatSessions_LengthAndOrder(t *testing.T) {
	t0 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	node1 := []Session{
		{ID: "a", LastAccess: t0},
		{ID: "b", LastAccess: t0.Add(5 * time.Minute)},
	}
	node2 := []Session{
		{ID: "c", LastAccess: t0.Add(5 * time.Minute)},
		{ID: "d", LastAccess: t0.Add(10 * time.Minute)},
	}
	node3 := []Session{}

	got := ConcatSessions([][]Session{node1, node2, node3})

	assert.Len(t, got, len(node1)+len(node2)+len(node3))
	ids := make([]string, len(got))
	for i, s := range got {
		ids[i] = s.ID
	}
	// b y c empatan: b viene antes en la concatenación
	assert.Equal(t, []string{"d", "b", "c", "a"}, ids)
}

func TestConcatSessions_NoDedup(t *testing.T) {
	t0 := time.Now()
	got := ConcatSessions([][]Session{
		{{ID: "same", LastAccess: t0}},
		{{ID: "same", LastAccess: t0}},
	})
	assert.Len(t, got, 2)
}
