package frontier

import (
	"testing"

	"github.com/bastiangx/wordfix/pkg/graph"
	"github.com/bastiangx/wordfix/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// searchWords runs one overlay search and maps each candidate word to its distance.
func searchWords(t *testing.T, vocab map[string]int, query string, maxDepth int) (map[string]int, *Result) {
	t.Helper()
	idx, err := graph.Build(vocab)
	require.NoError(t, err)

	var res *Result
	found := make(map[string]int)
	err = idx.WithOverlay(query, func(ov *graph.Overlay) error {
		var err error
		res, err = Run(ov, ov.Query(), maxDepth)
		if err != nil {
			return err
		}
		for _, id := range res.Candidates() {
			d, err := res.TrueDistance(id)
			require.NoError(t, err)
			word, err := score.WordFromPath(ov, id)
			require.NoError(t, err)
			found[word] = d
		}
		return nil
	})
	require.NoError(t, err)
	return found, res
}

func TestRunDistances(t *testing.T) {
	testCases := []struct {
		name     string
		vocab    []string
		query    string
		maxDepth int
		want     map[string]int
	}{
		{
			name:     "substitution",
			vocab:    []string{"cat", "bat", "cap"},
			query:    "cat",
			maxDepth: 5,
			want:     map[string]int{"cat": 0, "bat": 1, "cap": 1},
		},
		{
			name:     "vowel swap",
			vocab:    []string{"hello", "help", "world"},
			query:    "hullo",
			maxDepth: 5,
			want:     map[string]int{"hello": 1, "help": 3},
		},
		{
			name:     "substitution next to a repeated symbol",
			vocab:    []string{"bc"},
			query:    "cc",
			maxDepth: 5,
			want:     map[string]int{"bc": 1},
		},
		{
			name:     "seed with the cheaper suffix wins",
			vocab:    []string{"abc", "xbcx"},
			query:    "cbc",
			maxDepth: 5,
			want:     map[string]int{"abc": 1, "xbcx": 2},
		},
		{
			name:     "insertion",
			vocab:    []string{"cart"},
			query:    "cat",
			maxDepth: 3,
			want:     map[string]int{"cart": 1},
		},
		{
			name:     "deletion",
			vocab:    []string{"ca"},
			query:    "cat",
			maxDepth: 3,
			want:     map[string]int{"ca": 1},
		},
		{
			name:     "length gap beyond depth",
			vocab:    []string{"a", "abcdefgh"},
			query:    "ab",
			maxDepth: 2,
			want:     map[string]int{"a": 1},
		},
		{
			name:     "nothing shared",
			vocab:    []string{"xyz"},
			query:    "abc",
			maxDepth: 5,
			want:     map[string]int{},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			vocab := make(map[string]int, len(tc.vocab))
			for _, w := range tc.vocab {
				vocab[w] = 1
			}
			got, _ := searchWords(t, vocab, tc.query, tc.maxDepth)
			for word, d := range tc.want {
				assert.Contains(t, got, word)
				assert.Equal(t, d, got[word], "distance to %q", word)
			}
			for word, d := range got {
				assert.LessOrEqual(t, d, tc.maxDepth, "%q reported beyond maxDepth", word)
			}
			if len(tc.want) == 0 {
				assert.Empty(t, got)
			}
		})
	}
}

func TestRunMarksTwins(t *testing.T) {
	idx, err := graph.Build(map[string]int{"cat": 1, "bat": 1})
	require.NoError(t, err)

	err = idx.WithOverlay("cat", func(ov *graph.Overlay) error {
		res, err := Run(ov, ov.Query(), 5)
		require.NoError(t, err)

		// bat=p0, cat=p1
		assert.True(t, res.IsTwin(1))
		assert.False(t, res.IsTwin(0))
		assert.NotContains(t, res.Candidates(), ov.Query().ID)
		return nil
	})
	require.NoError(t, err)
}

func TestRunExcludesTransientQuery(t *testing.T) {
	idx, err := graph.Build(map[string]int{"bat": 1})
	require.NoError(t, err)

	id, err := idx.InsertTransient("cat")
	require.NoError(t, err)
	defer func() { require.NoError(t, idx.RemovePath(id)) }()

	err = idx.View(func(v graph.View) error {
		q, ok := v.Path(id)
		require.True(t, ok)
		res, err := Run(v, q, 5)
		require.NoError(t, err)
		assert.Equal(t, []graph.PathID{0}, res.Candidates())
		d, err := res.TrueDistance(0)
		require.NoError(t, err)
		assert.Equal(t, 1, d)
		return nil
	})
	require.NoError(t, err)
}

func TestRunDetectsStaleTransientPath(t *testing.T) {
	idx, err := graph.Build(map[string]int{"bat": 1})
	require.NoError(t, err)

	// left behind on purpose
	_, err = idx.InsertTransient("cot")
	require.NoError(t, err)

	err = idx.WithOverlay("cat", func(ov *graph.Overlay) error {
		_, err := Run(ov, ov.Query(), 5)
		return err
	})
	require.ErrorIs(t, err, ErrCorruptIndex)
}

func TestRunRejectsBadInput(t *testing.T) {
	idx, err := graph.Build(map[string]int{"cat": 1})
	require.NoError(t, err)
	ov, err := idx.Overlay("cat")
	require.NoError(t, err)

	_, err = Run(ov, ov.Query(), 0)
	assert.ErrorIs(t, err, score.ErrInvalidConfig)

	_, err = Run(ov, ov.Query(), -1)
	assert.ErrorIs(t, err, score.ErrInvalidConfig)

	empty := graph.Path{ID: graph.TransientBit | 1, Vertices: []graph.VertexID{graph.StartVertex, graph.EndVertex}}
	_, err = Run(ov, empty, 5)
	assert.ErrorIs(t, err, graph.ErrInvalidInput)
}

func TestTrueDistanceMissingAnchor(t *testing.T) {
	res := &Result{
		StartReach: map[graph.PathID]int{1: 2},
		EndReach:   map[graph.PathID]int{2: 1},
	}
	_, err := res.TrueDistance(1)
	assert.ErrorIs(t, err, ErrCorruptIndex)
	_, err = res.TrueDistance(2)
	assert.ErrorIs(t, err, ErrCorruptIndex)
}

func TestTrueDistanceIsMaxOfAnchors(t *testing.T) {
	res := &Result{
		StartReach: map[graph.PathID]int{1: 2, 2: 0},
		EndReach:   map[graph.PathID]int{1: 1, 2: 3},
	}
	d, err := res.TrueDistance(1)
	require.NoError(t, err)
	assert.Equal(t, 2, d)
	d, err = res.TrueDistance(2)
	require.NoError(t, err)
	assert.Equal(t, 3, d)
	assert.Equal(t, []graph.PathID{1, 2}, res.Candidates())
}

func BenchmarkRun(b *testing.B) {
	vocab := map[string]int{}
	for _, w := range []string{
		"hello", "help", "helmet", "yellow", "fellow", "hollow", "world", "word",
		"sword", "cat", "bat", "cap", "cart", "chart", "heart", "earth",
	} {
		vocab[w] = 1
	}
	idx, err := graph.Build(vocab)
	if err != nil {
		b.Fatal(err)
	}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = idx.WithOverlay("hullo", func(ov *graph.Overlay) error {
			_, err := Run(ov, ov.Query(), score.DefaultMaxDepth)
			return err
		})
	}
}
