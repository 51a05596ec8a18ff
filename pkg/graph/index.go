package graph

import (
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/charmbracelet/log"
)

// Index is the shared dictionary graph: vertex arena, adjacency lists and the
// path registry. Vocabulary paths are inserted once and never removed.
type Index struct {
	mu        sync.RWMutex
	table     vertexTable
	adjacency [][]Edge
	paths     []Path
	freqs     []int
	transient map[PathID]Path
	edges     int

	// nextTransient only ever grows; ids are never reused.
	nextTransient atomic.Uint32
}

// Stats is a snapshot of the index sizes.
type Stats struct {
	Vertices  int
	Edges     int
	Paths     int
	Transient int
}

// NewIndex returns an empty index holding only the two anchors.
func NewIndex() *Index {
	return &Index{
		table:     newVertexTable(),
		adjacency: make([][]Edge, 2),
		transient: make(map[PathID]Path),
	}
}

// Build creates an index from a vocabulary snapshot (word -> frequency).
// Words are inserted in lexicographic order so PathIDs are reproducible.
func Build(vocabulary map[string]int) (*Index, error) {
	words := make([]string, 0, len(vocabulary))
	for word := range vocabulary {
		words = append(words, word)
	}
	sort.Strings(words)

	idx := NewIndex()
	for _, word := range words {
		if _, err := idx.insertVocabulary(word, vocabulary[word]); err != nil {
			return nil, fmt.Errorf("build index: %w", err)
		}
	}
	log.Debugf("Index built: %d words, %d vertices, %d edges", len(idx.paths), len(idx.table.vertices), idx.edges)
	return idx, nil
}

// InsertPath adds a vocabulary word with frequency 0 and returns its PathID.
func (idx *Index) InsertPath(text string) (PathID, error) {
	return idx.insertVocabulary(text, 0)
}

func (idx *Index) insertVocabulary(text string, freq int) (PathID, error) {
	symbols, err := Symbols(text)
	if err != nil {
		return 0, err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()

	id := PathID(len(idx.paths))
	if id.Transient() {
		return 0, fmt.Errorf("path arena exhausted at %d entries", len(idx.paths))
	}
	path := idx.link(id, symbols)
	idx.paths = append(idx.paths, path)
	idx.freqs = append(idx.freqs, freq)
	return id, nil
}

// InsertTransient adds a query path under a fresh id from the transient namespace.
// The caller owns it and must hand it back to RemovePath.
func (idx *Index) InsertTransient(text string) (PathID, error) {
	symbols, err := Symbols(text)
	if err != nil {
		return 0, err
	}
	id := idx.allocTransient()

	idx.mu.Lock()
	defer idx.mu.Unlock()

	idx.transient[id] = idx.link(id, symbols)
	return id, nil
}

// link interns the symbols and appends one edge per hop. Caller holds the write lock.
func (idx *Index) link(id PathID, symbols []Symbol) Path {
	vertices := make([]VertexID, 0, len(symbols)+2)
	vertices = append(vertices, StartVertex)
	for _, s := range symbols {
		v := idx.table.intern(s)
		if int(v) >= len(idx.adjacency) {
			idx.adjacency = append(idx.adjacency, nil)
		}
		vertices = append(vertices, v)
	}
	vertices = append(vertices, EndVertex)

	for step := 0; step < len(vertices)-1; step++ {
		src := vertices[step]
		idx.adjacency[src] = append(idx.adjacency[src], Edge{
			Target: vertices[step+1],
			Path:   id,
			Step:   step,
		})
	}
	idx.edges += len(vertices) - 1
	return Path{ID: id, Vertices: vertices}
}

// RemovePath detaches every edge of a transient path and erases its registry entry.
func (idx *Index) RemovePath(id PathID) error {
	idx.mu.Lock()
	defer idx.mu.Unlock()

	if !id.Transient() {
		if int(id) < len(idx.paths) {
			return fmt.Errorf("remove %s: %w", id, ErrImmutablePath)
		}
		return fmt.Errorf("remove %s: %w", id, ErrUnknownPath)
	}

	path, ok := idx.transient[id]
	if !ok {
		return fmt.Errorf("remove %s: %w", id, ErrUnknownPath)
	}

	removed := 0
	seen := make(map[VertexID]bool, len(path.Vertices))
	for _, src := range path.Vertices[:len(path.Vertices)-1] {
		if seen[src] {
			continue
		}
		seen[src] = true
		kept := idx.adjacency[src][:0]
		for _, e := range idx.adjacency[src] {
			if e.Path == id {
				removed++
				continue
			}
			kept = append(kept, e)
		}
		// clear the tail so the backing array doesn't pin stale edges
		for i := len(kept); i < len(idx.adjacency[src]); i++ {
			idx.adjacency[src][i] = Edge{}
		}
		idx.adjacency[src] = kept
	}
	idx.edges -= removed
	delete(idx.transient, id)

	if removed != len(path.Vertices)-1 {
		log.Errorf("Transient path %s detached %d edges, expected %d", id, removed, len(path.Vertices)-1)
	}
	return nil
}

func (idx *Index) allocTransient() PathID {
	n := idx.nextTransient.Add(1)
	return TransientBit | PathID(n&^uint32(TransientBit))
}

// View runs fn with the index read-locked. Reads through View never race with
// InsertTransient or RemovePath.
func (idx *Index) View(fn func(View) error) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return fn(idx)
}

// Path implements View. Call it inside View or while no writer is active.
func (idx *Index) Path(id PathID) (Path, bool) {
	if id.Transient() {
		p, ok := idx.transient[id]
		return p, ok
	}
	if int(id) >= len(idx.paths) {
		return Path{}, false
	}
	return idx.paths[id], true
}

// Occurrences implements View.
func (idx *Index) Occurrences(v VertexID) []Edge {
	if int(v) >= len(idx.adjacency) {
		return nil
	}
	return idx.adjacency[v]
}

// Vertex implements View.
func (idx *Index) Vertex(v VertexID) (Vertex, bool) {
	return idx.table.get(v)
}

// Frequency returns the vocabulary frequency stored for id (0 for transient paths).
func (idx *Index) Frequency(id PathID) int {
	if id.Transient() || int(id) >= len(idx.freqs) {
		return 0
	}
	return idx.freqs[id]
}

// Stats reports the current sizes of the index.
func (idx *Index) Stats() Stats {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return Stats{
		Vertices:  len(idx.table.vertices),
		Edges:     idx.edges,
		Paths:     len(idx.paths) + len(idx.transient),
		Transient: len(idx.transient),
	}
}
