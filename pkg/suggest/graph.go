package suggest

import (
	"errors"
	"fmt"
	"sync"

	"github.com/bastiangx/wordfix/pkg/frontier"
	"github.com/bastiangx/wordfix/pkg/graph"
	"github.com/bastiangx/wordfix/pkg/score"
	"github.com/charmbracelet/log"
)

// GraphMatcher answers queries through a per-query overlay on a read-only
// index. It is safe for concurrent use.
type GraphMatcher struct {
	index    *graph.Index
	maxDepth int
}

// NewGraphMatcher builds the index for vocabulary.
func NewGraphMatcher(vocabulary map[string]int, maxDepth int) (*GraphMatcher, error) {
	if err := score.CheckDepth(maxDepth); err != nil {
		return nil, err
	}
	idx, err := graph.Build(vocabulary)
	if err != nil {
		return nil, err
	}
	return &GraphMatcher{index: idx, maxDepth: maxDepth}, nil
}

// Name implements IMatcher.
func (g *GraphMatcher) Name() string {
	return StrategyGraph
}

// Similar implements IMatcher.
func (g *GraphMatcher) Similar(query string) ([]Match, error) {
	var matches []Match
	err := g.index.WithOverlay(query, func(ov *graph.Overlay) error {
		res, err := frontier.Run(ov, ov.Query(), g.maxDepth)
		if err != nil {
			return err
		}
		matches, err = collect(ov, g.index, res)
		return err
	})
	if err != nil {
		return nil, reportDefect(query, err)
	}
	return matches, nil
}

// Stats returns the index sizes.
func (g *GraphMatcher) Stats() graph.Stats {
	return g.index.Stats()
}

// LockedGraphMatcher inserts the query into the shared index, searches, and
// removes it again, all under one mutex.
type LockedGraphMatcher struct {
	mu       sync.Mutex
	index    *graph.Index
	maxDepth int
}

// NewLockedGraphMatcher builds the index for vocabulary.
func NewLockedGraphMatcher(vocabulary map[string]int, maxDepth int) (*LockedGraphMatcher, error) {
	if err := score.CheckDepth(maxDepth); err != nil {
		return nil, err
	}
	idx, err := graph.Build(vocabulary)
	if err != nil {
		return nil, err
	}
	return &LockedGraphMatcher{index: idx, maxDepth: maxDepth}, nil
}

// Name implements IMatcher.
func (l *LockedGraphMatcher) Name() string {
	return StrategyLocked
}

// Similar implements IMatcher. The transient path is removed on every return.
func (l *LockedGraphMatcher) Similar(query string) (matches []Match, err error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id, err := l.index.InsertTransient(query)
	if err != nil {
		return nil, err
	}
	defer func() {
		if rerr := l.index.RemovePath(id); rerr != nil {
			log.Errorf("Failed to retract query path %s: %v", id, rerr)
			matches, err = nil, errors.Join(err, rerr)
		}
	}()

	err = l.index.View(func(v graph.View) error {
		q, ok := v.Path(id)
		if !ok {
			return fmt.Errorf("%w: query path %s vanished", frontier.ErrCorruptIndex, id)
		}
		res, err := frontier.Run(v, q, l.maxDepth)
		if err != nil {
			return err
		}
		matches, err = collect(v, l.index, res)
		return err
	})
	if err != nil {
		return nil, reportDefect(query, err)
	}
	return matches, nil
}

// Stats returns the index sizes.
func (l *LockedGraphMatcher) Stats() graph.Stats {
	return l.index.Stats()
}

// collect turns a search result into matches.
func collect(view graph.View, idx *graph.Index, res *frontier.Result) ([]Match, error) {
	var matches []Match
	for _, id := range res.Candidates() {
		dist, err := res.TrueDistance(id)
		if err != nil {
			return nil, err
		}
		if res.IsTwin(id) {
			continue
		}
		if dist <= 0 {
			return nil, fmt.Errorf("%w: distance %d for distinct path %s", frontier.ErrCorruptIndex, dist, id)
		}
		if !score.Emittable(dist, res.MaxDepth) {
			continue
		}
		conf, err := score.Confidence(dist, res.MaxDepth)
		if err != nil {
			return nil, err
		}
		word, err := score.WordFromPath(view, id)
		if err != nil {
			return nil, err
		}
		matches = append(matches, Match{
			Word:       word,
			Confidence: conf,
			Distance:   dist,
			Frequency:  idx.Frequency(id),
		})
	}
	return matches, nil
}

func reportDefect(query string, err error) error {
	if errors.Is(err, frontier.ErrCorruptIndex) {
		log.Errorf("Index invariant broken while matching %q: %v", query, err)
	}
	return err
}
