package editdist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsult(t *testing.T) {
	m := NewMatcher(map[string]int{
		"cat":   30,
		"bat":   20,
		"cap":   10,
		"dog":   5,
		"catch": 1,
	})
	require.Equal(t, 5, m.Len())

	entries := m.Consult(1, "cat")
	got := make(map[string]Entry)
	for _, e := range entries {
		got[e.Word] = e
	}

	assert.Len(t, got, 3)
	assert.Equal(t, Entry{Word: "cat", Distance: 0, Frequency: 30}, got["cat"])
	assert.Equal(t, 1, got["bat"].Distance)
	assert.Equal(t, 1, got["cap"].Distance)
	assert.NotContains(t, got, "dog")
	assert.NotContains(t, got, "catch", "distance 2 is over the bound")

	entries = m.Consult(2, "cat")
	assert.Len(t, entries, 4)
}

func TestConsultOrderAndEmpty(t *testing.T) {
	m := NewMatcher(map[string]int{"b": 1, "a": 1, "c": 1})
	entries := m.Consult(1, "x")
	require.Len(t, entries, 3)
	assert.Equal(t, "a", entries[0].Word)
	assert.Equal(t, "c", entries[2].Word)

	empty := NewMatcher(nil)
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.Consult(5, "anything"))
}

func TestConsultNormalizesForms(t *testing.T) {
	// precomposed vocabulary entry, decomposed query
	m := NewMatcher(map[string]int{"caf\u00e9": 1})
	entries := m.Consult(0, "cafe\u0301")
	require.Len(t, entries, 1)
	assert.Equal(t, "caf\u00e9", entries[0].Word)
	assert.Zero(t, entries[0].Distance)
}
