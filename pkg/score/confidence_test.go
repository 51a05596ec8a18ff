package score

import (
	"testing"

	"github.com/bastiangx/wordfix/pkg/graph"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfidence(t *testing.T) {
	testCases := []struct {
		distance, maxDepth int
		expected           float64
	}{
		{1, 5, 0.8},
		{2, 5, 0.6},
		{4, 5, 0.2},
		{1, 2, 0.5},
		{1, 10, 0.9},
	}
	for _, tc := range testCases {
		got, err := Confidence(tc.distance, tc.maxDepth)
		require.NoError(t, err)
		assert.InDelta(t, tc.expected, got, 1e-9, "Confidence(%d, %d)", tc.distance, tc.maxDepth)
	}
}

func TestConfidenceStrictlyDecreasing(t *testing.T) {
	for maxDepth := 1; maxDepth <= 8; maxDepth++ {
		prev := 2.0
		for d := 1; d < maxDepth; d++ {
			c, err := Confidence(d, maxDepth)
			require.NoError(t, err)
			assert.Less(t, c, prev)
			assert.Greater(t, c, 0.0)
			assert.LessOrEqual(t, c, 1.0)
			prev = c
		}
	}
}

func TestConfidenceRejectsDepth(t *testing.T) {
	for _, depth := range []int{0, -1, -10} {
		_, err := Confidence(1, depth)
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorIs(t, CheckDepth(depth), ErrInvalidConfig)
	}
	assert.NoError(t, CheckDepth(1))
}

func TestEmittable(t *testing.T) {
	assert.False(t, Emittable(0, 5))
	assert.True(t, Emittable(1, 5))
	assert.True(t, Emittable(4, 5))
	assert.False(t, Emittable(5, 5))
	assert.False(t, Emittable(1, 1))
}

func TestWordFromPath(t *testing.T) {
	idx, err := graph.Build(map[string]int{"hello": 1, "héllo": 1})
	require.NoError(t, err)

	word, err := WordFromPath(idx, 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", word)

	word, err = WordFromPath(idx, 1)
	require.NoError(t, err)
	assert.Equal(t, "héllo", word)

	_, err = WordFromPath(idx, 99)
	assert.ErrorIs(t, err, graph.ErrUnknownPath)

	err = idx.WithOverlay("xyz", func(ov *graph.Overlay) error {
		word, err := WordFromPath(ov, ov.Query().ID)
		require.NoError(t, err)
		assert.Equal(t, "xyz", word)
		return nil
	})
	require.NoError(t, err)
}
