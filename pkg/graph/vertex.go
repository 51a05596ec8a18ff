/*
Package graph holds the shared multi-path word graph behind the fuzzy matcher.

Every word of the vocabulary is a walk Start -> c1 -> ... -> cn -> End through one
graph. Vertices are structural: the same symbol maps to the same inner vertex in
every word, and the whole graph has a single Start and a single End anchor. Which
word took a hop is recorded on the edge (its PathID), never on the vertex.

	idx, err := graph.Build(map[string]int{"cat": 1, "bat": 1})
	err = idx.WithOverlay("cap", func(q *graph.Overlay) error {
		// q is a read view over idx plus the query path
		return nil
	})

Queries never need to touch the shared adjacency: an Overlay holds the query path
next to the index, and is dropped when the query is done.
*/
package graph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bastiangx/wordfix/internal/utils"
)

var (
	// ErrInvalidInput is returned for empty or blank words and queries.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownPath is returned when a PathID is not registered.
	ErrUnknownPath = errors.New("unknown path")
	// ErrImmutablePath is returned when removing a vocabulary path.
	ErrImmutablePath = errors.New("vocabulary paths cannot be removed")
)

// Symbol is one atomic unit of text (a normalized code point).
type Symbol rune

// VertexRole tells anchors apart from symbol-carrying vertices.
type VertexRole uint8

const (
	RoleStart VertexRole = iota
	RoleInner
	RoleEnd
)

func (r VertexRole) String() string {
	switch r {
	case RoleStart:
		return "start"
	case RoleInner:
		return "inner"
	case RoleEnd:
		return "end"
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// VertexID is a stable handle into the vertex arena.
type VertexID uint32

const (
	StartVertex VertexID = 0
	EndVertex   VertexID = 1
)

// overlayVertexBase is where query-local vertex ids begin.
// Shared vertices never reach it.
const overlayVertexBase VertexID = 1 << 31

// Vertex is the structural identity of a node: Symbol is set only for RoleInner.
type Vertex struct {
	Role   VertexRole
	Symbol Symbol
}

// IsAnchor reports whether v is the Start or End vertex.
func (v Vertex) IsAnchor() bool {
	return v.Role != RoleInner
}

// vertexTable canonicalizes (role, symbol) to a single VertexID.
type vertexTable struct {
	vertices []Vertex
	bySymbol map[Symbol]VertexID
}

func newVertexTable() vertexTable {
	return vertexTable{
		vertices: []Vertex{{Role: RoleStart}, {Role: RoleEnd}},
		bySymbol: make(map[Symbol]VertexID),
	}
}

func (t *vertexTable) lookup(s Symbol) (VertexID, bool) {
	id, ok := t.bySymbol[s]
	return id, ok
}

func (t *vertexTable) intern(s Symbol) VertexID {
	if id, ok := t.bySymbol[s]; ok {
		return id
	}
	id := VertexID(len(t.vertices))
	t.vertices = append(t.vertices, Vertex{Role: RoleInner, Symbol: s})
	t.bySymbol[s] = id
	return id
}

func (t *vertexTable) get(id VertexID) (Vertex, bool) {
	if int(id) >= len(t.vertices) {
		return Vertex{}, false
	}
	return t.vertices[id], true
}

// Symbols splits text into normalized symbols.
// Blank text fails with ErrInvalidInput before anything else happens.
func Symbols(text string) ([]Symbol, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: empty or blank text %q", ErrInvalidInput, text)
	}
	normalized := utils.NormalizeWord(text)
	symbols := make([]Symbol, 0, len(normalized))
	for _, r := range normalized {
		symbols = append(symbols, Symbol(r))
	}
	return symbols, nil
}
