package suggest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/bastiangx/wordfix/pkg/graph"
	"github.com/bastiangx/wordfix/pkg/score"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testVocabulary = map[string]int{
	"cat": 900, "bat": 800, "cap": 700, "cart": 600, "chart": 500,
	"hello": 1000, "help": 950, "helmet": 100, "yellow": 300, "fellow": 250,
	"hollow": 200, "world": 990, "word": 980, "sword": 150, "heart": 400,
	"earth": 350, "receive": 120, "separate": 110, "definitely": 90, "caf\u00e9": 80,
}

func newMatchers(t *testing.T, vocab map[string]int, maxDepth int) []IMatcher {
	t.Helper()
	var matchers []IMatcher
	for _, strategy := range Strategies() {
		m, err := New(strategy, vocab, maxDepth)
		require.NoError(t, err, strategy)
		matchers = append(matchers, m)
	}
	return matchers
}

func byWord(matches []Match) map[string]Match {
	out := make(map[string]Match, len(matches))
	for _, m := range matches {
		out[m.Word] = m
	}
	return out
}

func TestScenarioSubstitution(t *testing.T) {
	vocab := map[string]int{"cat": 1, "bat": 1, "cap": 1}
	for _, m := range newMatchers(t, vocab, 5) {
		t.Run(m.Name(), func(t *testing.T) {
			matches, err := m.Similar("cat")
			require.NoError(t, err)

			got := byWord(matches)
			assert.Len(t, got, 2)
			assert.NotContains(t, got, "cat", "the query itself must not be returned")
			for _, word := range []string{"bat", "cap"} {
				require.Contains(t, got, word)
				assert.Equal(t, 1, got[word].Distance)
				assert.InDelta(t, 0.8, got[word].Confidence, 1e-9)
			}
		})
	}
}

func TestScenarioVowelSwap(t *testing.T) {
	vocab := map[string]int{"hello": 1, "world": 1}
	for _, m := range newMatchers(t, vocab, 5) {
		t.Run(m.Name(), func(t *testing.T) {
			matches, err := m.Similar("hullo")
			require.NoError(t, err)
			got := byWord(matches)
			require.Contains(t, got, "hello")
			assert.Equal(t, 1, got["hello"].Distance)
			assert.InDelta(t, 0.8, got["hello"].Confidence, 1e-9)
		})
	}
}

func TestScenarioEmptyVocabulary(t *testing.T) {
	for _, m := range newMatchers(t, map[string]int{}, 5) {
		t.Run(m.Name(), func(t *testing.T) {
			matches, err := m.Similar("anything")
			require.NoError(t, err)
			assert.Empty(t, matches)
		})
	}
}

func TestSimilarRejectsBlankQuery(t *testing.T) {
	for _, m := range newMatchers(t, testVocabulary, 5) {
		t.Run(m.Name(), func(t *testing.T) {
			_, err := m.Similar("   ")
			assert.ErrorIs(t, err, graph.ErrInvalidInput)
		})
	}
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New("nope", testVocabulary, 5)
	assert.ErrorIs(t, err, score.ErrInvalidConfig)

	for _, strategy := range Strategies() {
		_, err := New(strategy, testVocabulary, 0)
		assert.ErrorIs(t, err, score.ErrInvalidConfig, strategy)
	}

	m, err := New("", testVocabulary, 5)
	require.NoError(t, err)
	assert.Equal(t, StrategyGraph, m.Name())
}

func TestMatchesStayInRange(t *testing.T) {
	queries := []string{"cat", "hullo", "wrld", "hart", "recieve", "seperate", "definately", "cafe", "zzz", "x"}
	for _, maxDepth := range []int{1, 2, 3, 5} {
		for _, m := range newMatchers(t, testVocabulary, maxDepth) {
			for _, q := range queries {
				matches, err := m.Similar(q)
				require.NoError(t, err)
				for _, match := range matches {
					assert.NotEqual(t, q, match.Word, "%s returned the query", m.Name())
					assert.Greater(t, match.Confidence, 0.0)
					assert.LessOrEqual(t, match.Confidence, 1.0)
					assert.Greater(t, match.Distance, 0)
					assert.Less(t, match.Distance, maxDepth)
					assert.Equal(t, testVocabulary[match.Word], match.Frequency)
				}
			}
		}
	}
}

func TestSimilarIsIdempotent(t *testing.T) {
	for _, m := range newMatchers(t, testVocabulary, 5) {
		t.Run(m.Name(), func(t *testing.T) {
			first, err := m.Similar("hullo")
			require.NoError(t, err)
			for i := 0; i < 3; i++ {
				again, err := m.Similar("hullo")
				require.NoError(t, err)
				assert.ElementsMatch(t, first, again)
			}
		})
	}
}

// The graph proxy never undercuts the Levenshtein distance, so everything it
// emits the brute force matcher emits too, at a distance no larger.
func TestGraphResultsAreSubsetOfBruteForce(t *testing.T) {
	queries := []string{
		"cat", "cta", "hullo", "helo", "wrld", "wordl", "hart", "eart", "recieve",
		"seperate", "definately", "chrat", "yelow", "swrod", "caf\u00e9", "cafe", "q",
	}
	for _, maxDepth := range []int{1, 2, 3, 5} {
		brute, err := NewBruteMatcher(testVocabulary, maxDepth)
		require.NoError(t, err)
		graphM, err := NewGraphMatcher(testVocabulary, maxDepth)
		require.NoError(t, err)
		locked, err := NewLockedGraphMatcher(testVocabulary, maxDepth)
		require.NoError(t, err)

		for _, q := range queries {
			t.Run(fmt.Sprintf("%s_depth%d", q, maxDepth), func(t *testing.T) {
				reference, err := brute.Similar(q)
				require.NoError(t, err)
				ref := byWord(reference)

				for _, m := range []IMatcher{graphM, locked} {
					matches, err := m.Similar(q)
					require.NoError(t, err)
					for _, match := range matches {
						want, ok := ref[match.Word]
						if assert.True(t, ok, "%s: %q not found by brute force", m.Name(), match.Word) {
							assert.GreaterOrEqual(t, match.Distance, want.Distance)
						}
					}
				}
			})
		}
	}
}

func TestOverlayAndLockedAgree(t *testing.T) {
	graphM, err := NewGraphMatcher(testVocabulary, 4)
	require.NoError(t, err)
	locked, err := NewLockedGraphMatcher(testVocabulary, 4)
	require.NoError(t, err)

	for _, q := range []string{"cat", "hullo", "wrld", "yelow", "caf\u00e9"} {
		a, err := graphM.Similar(q)
		require.NoError(t, err)
		b, err := locked.Similar(q)
		require.NoError(t, err)
		assert.ElementsMatch(t, a, b, q)
	}
}

func TestLockedRestoresIndex(t *testing.T) {
	locked, err := NewLockedGraphMatcher(testVocabulary, 5)
	require.NoError(t, err)
	before := locked.Stats()

	for _, q := range []string{"cat", "hallo", "word", "cart"} {
		_, err := locked.Similar(q)
		require.NoError(t, err)
	}
	after := locked.Stats()
	assert.Equal(t, before.Edges, after.Edges)
	assert.Equal(t, before.Paths, after.Paths)
	assert.Zero(t, after.Transient)
	// only letters already in the vocabulary were queried
	assert.Equal(t, before.Vertices, after.Vertices)

	// a failing query leaves nothing behind either
	_, err = locked.Similar("")
	require.Error(t, err)
	assert.Equal(t, before.Edges, locked.Stats().Edges)
}

func TestGraphMatcherDoesNotMutate(t *testing.T) {
	m, err := NewGraphMatcher(testVocabulary, 5)
	require.NoError(t, err)
	before := m.Stats()

	for _, q := range []string{"cat", "qqq", "ünïcode"} {
		_, err := m.Similar(q)
		require.NoError(t, err)
	}
	assert.Equal(t, before, m.Stats())
}

func TestGraphMatcherConcurrentQueries(t *testing.T) {
	m, err := NewGraphMatcher(testVocabulary, 5)
	require.NoError(t, err)
	want, err := m.Similar("hullo")
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := m.Similar("hullo")
			if err != nil {
				errs <- err
				return
			}
			if len(got) != len(want) {
				errs <- fmt.Errorf("got %d matches, want %d", len(got), len(want))
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestSortedAndLimit(t *testing.T) {
	matches := []Match{
		{Word: "b", Confidence: 0.6},
		{Word: "c", Confidence: 0.8},
		{Word: "a", Confidence: 0.8},
		{Word: "d", Confidence: 0.2},
	}
	sorted := Sorted(matches)
	assert.Equal(t, []string{"a", "c", "b", "d"}, words(sorted))
	assert.Equal(t, []string{"a", "c"}, words(Limit(sorted, 2)))
	assert.Len(t, Limit(sorted, 0), 4)
	assert.Len(t, Limit(sorted, 10), 4)
}

func words(matches []Match) []string {
	out := make([]string, len(matches))
	for i, m := range matches {
		out[i] = m.Word
	}
	return out
}

func BenchmarkStrategies(b *testing.B) {
	for _, strategy := range Strategies() {
		m, err := New(strategy, testVocabulary, score.DefaultMaxDepth)
		if err != nil {
			b.Fatal(err)
		}
		b.Run(strategy, func(b *testing.B) {
			for i := 0; i < b.N; i++ {
				if _, err := m.Similar("hullo"); err != nil {
					b.Fatal(err)
				}
			}
		})
	}
}
