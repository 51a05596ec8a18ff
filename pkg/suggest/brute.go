package suggest

import (
	"github.com/bastiangx/wordfix/pkg/editdist"
	"github.com/bastiangx/wordfix/pkg/graph"
	"github.com/bastiangx/wordfix/pkg/score"
)

// BruteMatcher scores every vocabulary entry against the query. Useful for
// small vocabularies and as the reference for the graph strategies.
type BruteMatcher struct {
	matcher  *editdist.Matcher
	maxDepth int
}

// NewBruteMatcher snapshots vocabulary.
func NewBruteMatcher(vocabulary map[string]int, maxDepth int) (*BruteMatcher, error) {
	if err := score.CheckDepth(maxDepth); err != nil {
		return nil, err
	}
	return &BruteMatcher{matcher: editdist.NewMatcher(vocabulary), maxDepth: maxDepth}, nil
}

// Name implements IMatcher.
func (b *BruteMatcher) Name() string {
	return StrategyBrute
}

// Similar implements IMatcher with the same scoring as the graph strategies:
// the query's own spelling is left out and confidence stays in (0, 1].
func (b *BruteMatcher) Similar(query string) ([]Match, error) {
	if _, err := graph.Symbols(query); err != nil {
		return nil, err
	}

	var matches []Match
	for _, e := range b.matcher.Consult(b.maxDepth, query) {
		if !score.Emittable(e.Distance, b.maxDepth) {
			continue
		}
		conf, err := score.Confidence(e.Distance, b.maxDepth)
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{
			Word:       e.Word,
			Confidence: conf,
			Distance:   e.Distance,
			Frequency:  e.Frequency,
		})
	}
	return matches, nil
}
