package graph

import "fmt"

// PathID identifies one inserted string's walk through the graph.
type PathID uint32

// TransientBit marks ids from the query namespace. Vocabulary ids never set it.
const TransientBit PathID = 1 << 31

// Transient reports whether id belongs to a query path.
func (id PathID) Transient() bool {
	return id&TransientBit != 0
}

func (id PathID) String() string {
	if id.Transient() {
		return fmt.Sprintf("q%d", uint32(id&^TransientBit))
	}
	return fmt.Sprintf("p%d", uint32(id))
}

// Edge is one hop of one path, stored under its source vertex.
// Step is the offset of the source vertex inside the path.
type Edge struct {
	Target VertexID
	Path   PathID
	Step   int
}

// Path is the vertex sequence Start, c1..cn, End of an inserted string.
type Path struct {
	ID       PathID
	Vertices []VertexID
}

// Len is the number of symbols on the path (anchors excluded).
func (p Path) Len() int {
	if len(p.Vertices) < 2 {
		return 0
	}
	return len(p.Vertices) - 2
}

// View is the read side shared by the index and query overlays.
type View interface {
	// Path returns the registered path for id.
	Path(id PathID) (Path, bool)
	// Occurrences returns the edges leaving v. Callers must not modify the slice.
	Occurrences(v VertexID) []Edge
	// Vertex resolves a vertex handle.
	Vertex(v VertexID) (Vertex, bool)
}
