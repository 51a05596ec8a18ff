package suggest

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// SimilarBatch runs queries concurrently on m with at most workers in flight
// (unbounded when workers <= 0). results[i] belongs to queries[i]. The first
// failure cancels the queries that have not started yet.
func SimilarBatch(ctx context.Context, m IMatcher, queries []string, workers int) ([][]Match, error) {
	g, ctx := errgroup.WithContext(ctx)
	if workers > 0 {
		g.SetLimit(workers)
	}

	results := make([][]Match, len(queries))
	for i, query := range queries {
		i, query := i, query
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			matches, err := m.Similar(query)
			if err != nil {
				return fmt.Errorf("query %q: %w", query, err)
			}
			results[i] = matches
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
