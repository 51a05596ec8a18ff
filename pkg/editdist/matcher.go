package editdist

import (
	"sort"

	"github.com/bastiangx/wordfix/internal/utils"
	"github.com/charmbracelet/log"
)

// Entry is one vocabulary word within range of a query, with its exact distance.
type Entry struct {
	Word      string
	Distance  int
	Frequency int
}

// Matcher scans the whole vocabulary for every query.
type Matcher struct {
	words []string
	forms []string
	freqs []int
}

// NewMatcher snapshots the vocabulary. Entries are kept in lexicographic order.
func NewMatcher(vocabulary map[string]int) *Matcher {
	words := make([]string, 0, len(vocabulary))
	for word := range vocabulary {
		words = append(words, word)
	}
	sort.Strings(words)

	m := &Matcher{
		words: words,
		forms: make([]string, len(words)),
		freqs: make([]int, len(words)),
	}
	for i, word := range words {
		m.forms[i] = utils.NormalizeWord(word)
		m.freqs[i] = vocabulary[word]
	}
	return m
}

// Len returns the number of vocabulary entries.
func (m *Matcher) Len() int {
	return len(m.words)
}

// Consult returns every entry whose distance to query is at most maxDistance.
// Entries that breach the bound during the computation are dropped.
// TODO: weight by frequency once the ranking stage consumes it.
func (m *Matcher) Consult(maxDistance int, query string) []Entry {
	q := utils.NormalizeWord(query)

	var entries []Entry
	for i, form := range m.forms {
		dist := Bounded(q, form, maxDistance)
		if dist < 0 {
			continue
		}
		entries = append(entries, Entry{
			Word:      m.words[i],
			Distance:  dist,
			Frequency: m.freqs[i],
		})
	}
	log.Debugf("Brute force scan of %d words for %q: %d within %d", len(m.forms), query, len(entries), maxDistance)
	return entries
}
