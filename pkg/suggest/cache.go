package suggest

import (
	"math"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// CachedMatcher remembers the matches of recent queries. Repeating a query
// against an unmodified index returns the same set, so cached answers stay valid
// for the lifetime of the wrapped matcher.
type CachedMatcher struct {
	inner       IMatcher
	queries     *patricia.Trie
	accessTime  map[string]int64
	accessCount int64
	hits        int64
	misses      int64
	maxQueries  int
	mu          sync.Mutex
}

// NewCachedMatcher wraps inner with a cache of at most maxQueries entries.
// A non-positive size disables caching and returns inner unchanged.
func NewCachedMatcher(inner IMatcher, maxQueries int) IMatcher {
	if maxQueries <= 0 {
		return inner
	}
	return &CachedMatcher{
		inner:      inner,
		queries:    patricia.NewTrie(),
		accessTime: make(map[string]int64, maxQueries),
		maxQueries: maxQueries,
	}
}

// Name implements IMatcher.
func (c *CachedMatcher) Name() string {
	return c.inner.Name()
}

// Similar implements IMatcher. Callers get their own copy of the slice.
func (c *CachedMatcher) Similar(query string) ([]Match, error) {
	c.mu.Lock()
	if item := c.queries.Get(patricia.Prefix(query)); item != nil {
		c.hits++
		c.markAccessed(query)
		cached := item.([]Match)
		c.mu.Unlock()
		return append([]Match(nil), cached...), nil
	}
	c.misses++
	c.mu.Unlock()

	matches, err := c.inner.Similar(query)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.accessTime[query]; !exists && len(c.accessTime) >= c.maxQueries {
		c.evictLRU()
	}
	c.queries.Set(patricia.Prefix(query), append([]Match(nil), matches...))
	c.markAccessed(query)
	return matches, nil
}

// Purge drops every cached query starting with prefix; an empty prefix drops all.
func (c *CachedMatcher) Purge(prefix string) int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if prefix == "" {
		n := len(c.accessTime)
		c.queries = patricia.NewTrie()
		c.accessTime = make(map[string]int64, c.maxQueries)
		log.Debugf("Purged all %d cached queries", n)
		return n
	}

	var dropped []string
	_ = c.queries.VisitSubtree(patricia.Prefix(prefix), func(p patricia.Prefix, _ patricia.Item) error {
		dropped = append(dropped, string(p))
		return nil
	})
	c.queries.DeleteSubtree(patricia.Prefix(prefix))
	for _, q := range dropped {
		delete(c.accessTime, q)
	}
	log.Debugf("Purged %d cached queries under %q", len(dropped), prefix)
	return len(dropped)
}

// Stats reports cache occupancy and hit counts.
func (c *CachedMatcher) Stats() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return map[string]int{
		"cachedQueries": len(c.accessTime),
		"maxQueries":    c.maxQueries,
		"cacheHits":     int(c.hits),
		"cacheMisses":   int(c.misses),
	}
}

// Unwrap returns the wrapped matcher.
func (c *CachedMatcher) Unwrap() IMatcher {
	return c.inner
}

func (c *CachedMatcher) markAccessed(query string) {
	c.accessCount++
	c.accessTime[query] = c.accessCount
}

func (c *CachedMatcher) evictLRU() {
	var oldestQuery string
	var oldestTime int64 = math.MaxInt64

	for query, accessTime := range c.accessTime {
		if accessTime < oldestTime {
			oldestTime = accessTime
			oldestQuery = query
		}
	}

	if oldestTime != math.MaxInt64 {
		c.queries.Delete(patricia.Prefix(oldestQuery))
		delete(c.accessTime, oldestQuery)
		log.Debugf("Evicted query '%s' from cache", oldestQuery)
	}
}
