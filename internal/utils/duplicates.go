package utils

import (
	"golang.org/x/text/cases"
)

// SuggestionFilter drops words that equal the query, or a word already
// accepted, under NFC normalization and Unicode case folding. It is meant for
// one result list and is not safe for concurrent use.
type SuggestionFilter struct {
	fold cases.Caser
	seen map[string]struct{}
}

// NewSuggestionFilter creates a filter that already rejects query.
func NewSuggestionFilter(query string) *SuggestionFilter {
	f := &SuggestionFilter{
		fold: cases.Fold(),
		seen: make(map[string]struct{}),
	}
	f.seen[f.key(query)] = struct{}{}
	return f
}

// ShouldInclude reports whether word is new, and remembers it.
func (f *SuggestionFilter) ShouldInclude(word string) bool {
	k := f.key(word)
	if _, dup := f.seen[k]; dup {
		return false
	}
	f.seen[k] = struct{}{}
	return true
}

func (f *SuggestionFilter) key(word string) string {
	return f.fold.String(NormalizeWord(word))
}
