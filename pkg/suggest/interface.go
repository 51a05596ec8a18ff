// Package suggest is the matching facade: one capability, "entries similar to a
// query with a confidence score", backed by interchangeable strategies.
package suggest

import (
	"fmt"
	"sort"

	"github.com/bastiangx/wordfix/pkg/score"
)

// Match is one vocabulary entry similar to the query.
type Match struct {
	Word       string
	Confidence float64
	Distance   int
	// Frequency is carried from the vocabulary; scoring does not use it yet.
	Frequency int
}

// IMatcher defines the interface every matching strategy implements
type IMatcher interface {
	// Similar returns the entries close to query. Order is not guaranteed.
	Similar(query string) ([]Match, error)

	// Name identifies the strategy in logs and stats
	Name() string
}

const (
	StrategyGraph  = "graph"
	StrategyLocked = "locked"
	StrategyBrute  = "brute"
)

// Strategies lists the accepted strategy names.
func Strategies() []string {
	return []string{StrategyGraph, StrategyLocked, StrategyBrute}
}

// New builds a matcher by strategy name over a vocabulary snapshot.
func New(strategy string, vocabulary map[string]int, maxDepth int) (IMatcher, error) {
	switch strategy {
	case StrategyGraph, "":
		return NewGraphMatcher(vocabulary, maxDepth)
	case StrategyLocked:
		return NewLockedGraphMatcher(vocabulary, maxDepth)
	case StrategyBrute:
		return NewBruteMatcher(vocabulary, maxDepth)
	}
	return nil, fmt.Errorf("%w: unknown strategy %q (want one of %v)", score.ErrInvalidConfig, strategy, Strategies())
}

// Sorted orders matches by confidence, highest first, then by word.
// It sorts in place and returns the slice for convenience.
func Sorted(matches []Match) []Match {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Confidence != matches[j].Confidence {
			return matches[i].Confidence > matches[j].Confidence
		}
		return matches[i].Word < matches[j].Word
	})
	return matches
}

// Limit truncates matches to at most n entries when n > 0.
func Limit(matches []Match, n int) []Match {
	if n > 0 && len(matches) > n {
		return matches[:n]
	}
	return matches
}
