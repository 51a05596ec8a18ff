/*
Package frontier runs the bounded breadth-first search that finds vocabulary
paths close to a query path in the shared word graph.

The search starts from every vertex of the query. Inner vertices of the query name
the candidate paths that pass through them, together with the offset at which they
do; the Start and End anchors are where every alignment has to end up. From each
shared vertex a cursor walks the candidate path back to Start and then forward to
End, consuming the query on the way. A hop onto the same vertex as the query is
free, any other hop (a different vertex, a skipped path vertex, a skipped query
vertex) costs one level of depth. Depths are processed in increasing order, so the
first time a (vertex, path) pair is recorded at a query offset its distance is
minimal; later recordings are dropped. On the way back to Start the pair is also
keyed by the seed the cursor turns around at, since the remaining cost depends on it.

StartReach and EndReach hold, per path, the depth at which its Start and End
anchors were recorded by the first alignment that reached both. The distance proxy
is max(StartReach, EndReach). It is the cost of one concrete alignment, so it never
undercuts the Levenshtein distance, but it is not guaranteed to equal it.
*/
package frontier

import (
	"errors"
	"fmt"
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/bastiangx/wordfix/pkg/graph"
	"github.com/bastiangx/wordfix/pkg/score"
	"github.com/charmbracelet/log"
)

// ErrCorruptIndex signals a broken invariant in the graph, most likely a
// transient path that was never removed.
var ErrCorruptIndex = errors.New("corrupt index")

// Result holds the per-path anchor distances of one search.
type Result struct {
	Query      graph.PathID
	MaxDepth   int
	StartReach map[graph.PathID]int
	EndReach   map[graph.PathID]int

	// twins are vocabulary paths spelled exactly like the query.
	twins map[graph.PathID]bool
}

// Candidates returns every path reached at both anchors, except the query
// itself, in PathID order.
func (r *Result) Candidates() []graph.PathID {
	ids := make([]graph.PathID, 0, len(r.EndReach))
	for id := range r.StartReach {
		if id == r.Query {
			continue
		}
		if _, ok := r.EndReach[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// IsTwin reports whether id is a vocabulary path with the same spelling as the query.
func (r *Result) IsTwin(id graph.PathID) bool {
	return r.twins[id]
}

// TrueDistance is max(StartReach, EndReach) for id. A missing anchor distance
// is a defect, not a miss.
func (r *Result) TrueDistance(id graph.PathID) (int, error) {
	start, ok := r.StartReach[id]
	if !ok {
		return 0, fmt.Errorf("%w: no start distance for %s", ErrCorruptIndex, id)
	}
	end, ok := r.EndReach[id]
	if !ok {
		return 0, fmt.Errorf("%w: no end distance for %s", ErrCorruptIndex, id)
	}
	return max(start, end), nil
}

type heading uint8

const (
	towardStart heading = iota
	towardEnd
)

// cursor is one frontier entry: candidate offset i, query offset j.
type cursor struct {
	path    graph.PathID
	i, j    int
	seedI   int
	seedJ   int
	heading heading
	startAt int
}

// recordKey scopes recorded offsets: walks toward Start per seed, walks
// toward End per path (seed -1, -1).
type recordKey struct {
	path         graph.PathID
	seedI, seedJ int
}

type search struct {
	view     graph.View
	query    []graph.VertexID
	maxDepth int
	paths    map[graph.PathID][]graph.VertexID
	recorded map[recordKey]*roaring.Bitmap
	buckets  [][]cursor
	result   *Result
}

// Run searches view for paths within maxDepth of the query path.
func Run(view graph.View, query graph.Path, maxDepth int) (*Result, error) {
	if err := score.CheckDepth(maxDepth); err != nil {
		return nil, err
	}
	if len(query.Vertices) < 3 {
		return nil, fmt.Errorf("%w: query path %s has no symbols", graph.ErrInvalidInput, query.ID)
	}

	s := &search{
		view:     view,
		query:    query.Vertices,
		maxDepth: maxDepth,
		paths:    make(map[graph.PathID][]graph.VertexID),
		recorded: make(map[recordKey]*roaring.Bitmap),
		buckets:  make([][]cursor, maxDepth+1),
		result: &Result{
			Query:      query.ID,
			MaxDepth:   maxDepth,
			StartReach: make(map[graph.PathID]int),
			EndReach:   make(map[graph.PathID]int),
			twins:      make(map[graph.PathID]bool),
		},
	}
	if err := s.seed(query.ID); err != nil {
		return nil, err
	}
	s.expand()

	log.Debugf("Frontier search for %s: %d paths seeded, %d reached", query.ID, len(s.paths), len(s.result.EndReach))
	return s.result, nil
}

// seed puts every (path, offset) sharing an inner vertex with the query on depth 0.
func (s *search) seed(queryID graph.PathID) error {
	m := len(s.query) - 2
	for j := 1; j <= m; j++ {
		for _, e := range s.view.Occurrences(s.query[j]) {
			if e.Path == queryID {
				continue
			}
			if e.Path.Transient() {
				return fmt.Errorf("%w: stale transient path %s attached to the index", ErrCorruptIndex, e.Path)
			}
			vertices, ok := s.pathVertices(e.Path)
			if !ok {
				return fmt.Errorf("%w: edge references unregistered path %s", ErrCorruptIndex, e.Path)
			}
			if abs((len(vertices)-2)-m) > s.maxDepth {
				continue
			}
			if vertices[e.Step] != s.query[j] {
				return fmt.Errorf("%w: edge step %d of %s does not sit on its source vertex", ErrCorruptIndex, e.Step, e.Path)
			}
			s.push(0, cursor{path: e.Path, i: e.Step, j: j, seedI: e.Step, seedJ: j, heading: towardStart})
		}
	}
	return nil
}

func (s *search) pathVertices(id graph.PathID) ([]graph.VertexID, bool) {
	if vertices, ok := s.paths[id]; ok {
		return vertices, true
	}
	p, ok := s.view.Path(id)
	if !ok {
		return nil, false
	}
	s.paths[id] = p.Vertices
	return p.Vertices, true
}

func (s *search) push(depth int, c cursor) {
	if depth > s.maxDepth {
		return
	}
	s.buckets[depth] = append(s.buckets[depth], c)
}

// expand drains the buckets in depth order. Free hops land in the bucket being drained.
func (s *search) expand() {
	for depth := 0; depth <= s.maxDepth; depth++ {
		for k := 0; k < len(s.buckets[depth]); k++ {
			c := s.buckets[depth][k]
			if s.result.completed(c.path) || !s.record(c) {
				continue
			}
			if c.heading == towardStart {
				s.stepTowardStart(depth, c)
			} else {
				s.stepTowardEnd(depth, c)
			}
		}
		s.buckets[depth] = nil
	}
}

// record marks (vertex offset, query offset) for the cursor's path, and for
// its seed while it still walks toward Start. It returns false if that pair
// was already recorded.
func (s *search) record(c cursor) bool {
	key := recordKey{path: c.path, seedI: -1, seedJ: -1}
	if c.heading == towardStart {
		key.seedI, key.seedJ = c.seedI, c.seedJ
	}
	bm, ok := s.recorded[key]
	if !ok {
		bm = roaring.New()
		s.recorded[key] = bm
	}
	return bm.CheckedAdd(uint32(c.i)*uint32(len(s.query)) + uint32(c.j))
}

func (s *search) stepTowardStart(depth int, c cursor) {
	p := s.paths[c.path]
	if c.i == 0 && c.j == 0 {
		// Start recorded: turn around at the seed with the distance so far.
		s.push(depth, cursor{path: c.path, i: c.seedI, j: c.seedJ, heading: towardEnd, startAt: depth})
		return
	}
	// lower bound on what is left on this side
	if depth+abs(c.i-c.j) > s.maxDepth {
		return
	}
	pi, qj := c.i-1, c.j-1
	if pi >= 0 && qj >= 0 && (pi == 0) == (qj == 0) {
		next := c
		next.i, next.j = pi, qj
		s.push(depth+s.cost(p[pi], s.query[qj]), next)
	}
	if pi >= 1 {
		next := c
		next.i = pi
		s.push(depth+1, next)
	}
	if qj >= 1 {
		next := c
		next.j = qj
		s.push(depth+1, next)
	}
}

func (s *search) stepTowardEnd(depth int, c cursor) {
	p := s.paths[c.path]
	lastP, lastQ := len(p)-1, len(s.query)-1
	if c.i == lastP && c.j == lastQ {
		s.result.complete(c.path, c.startAt, depth, s.twin(p))
		return
	}
	if depth+abs((lastP-c.i)-(lastQ-c.j)) > s.maxDepth {
		return
	}
	pi, qj := c.i+1, c.j+1
	if pi <= lastP && qj <= lastQ && (pi == lastP) == (qj == lastQ) {
		next := c
		next.i, next.j = pi, qj
		s.push(depth+s.cost(p[pi], s.query[qj]), next)
	}
	if pi < lastP {
		next := c
		next.i = pi
		s.push(depth+1, next)
	}
	if qj < lastQ {
		next := c
		next.j = qj
		s.push(depth+1, next)
	}
}

func (s *search) cost(a, b graph.VertexID) int {
	if a == b {
		return 0
	}
	return 1
}

func (s *search) twin(p []graph.VertexID) bool {
	if len(p) != len(s.query) {
		return false
	}
	for i := range p {
		if p[i] != s.query[i] {
			return false
		}
	}
	return true
}

func (r *Result) completed(id graph.PathID) bool {
	_, ok := r.EndReach[id]
	return ok
}

func (r *Result) complete(id graph.PathID, startAt, endAt int, twin bool) {
	if r.completed(id) {
		return
	}
	r.StartReach[id] = startAt
	r.EndReach[id] = endAt
	if twin {
		r.twins[id] = true
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
