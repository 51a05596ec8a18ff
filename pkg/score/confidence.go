// Package score turns search distances into confidence values and rebuilds
// matched words from their graph paths.
package score

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bastiangx/wordfix/pkg/graph"
)

// ErrInvalidConfig is returned for a search radius below 1 and unknown strategies.
var ErrInvalidConfig = errors.New("invalid configuration")

// DefaultMaxDepth is the reference search radius.
const DefaultMaxDepth = 5

// CheckDepth rejects search radii below 1.
func CheckDepth(maxDepth int) error {
	if maxDepth < 1 {
		return fmt.Errorf("%w: max depth must be >= 1, got %d", ErrInvalidConfig, maxDepth)
	}
	return nil
}

// Confidence maps a distance to (maxDepth - trueDistance) / maxDepth.
// It is strictly decreasing in trueDistance for a fixed maxDepth.
func Confidence(trueDistance, maxDepth int) (float64, error) {
	if err := CheckDepth(maxDepth); err != nil {
		return 0, err
	}
	return float64(maxDepth-trueDistance) / float64(maxDepth), nil
}

// Emittable reports whether a distance yields a confidence in (0, 1] for a
// match other than the query itself.
func Emittable(trueDistance, maxDepth int) bool {
	return trueDistance > 0 && trueDistance < maxDepth
}

// WordFromPath concatenates the symbols of the inner vertices of a path.
func WordFromPath(view graph.View, id graph.PathID) (string, error) {
	path, ok := view.Path(id)
	if !ok {
		return "", fmt.Errorf("word from %s: %w", id, graph.ErrUnknownPath)
	}

	var sb strings.Builder
	sb.Grow(path.Len())
	for _, v := range path.Vertices {
		vertex, ok := view.Vertex(v)
		if !ok {
			return "", fmt.Errorf("word from %s: dangling vertex %d", id, v)
		}
		if vertex.IsAnchor() {
			continue
		}
		sb.WriteRune(rune(vertex.Symbol))
	}
	return sb.String(), nil
}
