package suggest

import (
	"strings"

	"github.com/bastiangx/wordfix/internal/utils"
)

// FoldedMatcher lowercases queries before matching and puts the query's
// capital letters back on the returned words, position by position. It expects
// a lowercase vocabulary.
type FoldedMatcher struct {
	inner IMatcher
}

// NewFoldedMatcher wraps inner with case folding.
func NewFoldedMatcher(inner IMatcher) *FoldedMatcher {
	return &FoldedMatcher{inner: inner}
}

// Name implements IMatcher.
func (f *FoldedMatcher) Name() string {
	return f.inner.Name()
}

// Unwrap returns the wrapped matcher.
func (f *FoldedMatcher) Unwrap() IMatcher {
	return f.inner
}

// Similar implements IMatcher. Words that collapse onto the query or onto an
// earlier match once recapitalized are dropped.
func (f *FoldedMatcher) Similar(query string) ([]Match, error) {
	capitalPositions := utils.CapitalPositions(query)
	matches, err := f.inner.Similar(strings.ToLower(query))
	if err != nil {
		return nil, err
	}

	filter := utils.NewSuggestionFilter(query)
	kept := matches[:0]
	for _, m := range Sorted(matches) {
		m.Word = utils.ApplyCapitalization(m.Word, capitalPositions)
		if filter.ShouldInclude(m.Word) {
			kept = append(kept, m)
		}
	}
	return kept, nil
}
