package graph

// Overlay is a read view of an Index plus one query path that is never linked
// into the shared adjacency. Symbols the vocabulary has never seen get
// overlay-local vertices.
type Overlay struct {
	base  *Index
	path  Path
	local []Vertex
}

// Overlay builds a query-local view for text. It reads the vertex table, so the
// index must not be written concurrently; WithOverlay takes care of that.
func (idx *Index) Overlay(text string) (*Overlay, error) {
	symbols, err := Symbols(text)
	if err != nil {
		return nil, err
	}

	ov := &Overlay{base: idx}
	localIDs := make(map[Symbol]VertexID)
	vertices := make([]VertexID, 0, len(symbols)+2)
	vertices = append(vertices, StartVertex)
	for _, s := range symbols {
		if v, ok := idx.table.lookup(s); ok {
			vertices = append(vertices, v)
			continue
		}
		v, ok := localIDs[s]
		if !ok {
			v = overlayVertexBase + VertexID(len(ov.local))
			ov.local = append(ov.local, Vertex{Role: RoleInner, Symbol: s})
			localIDs[s] = v
		}
		vertices = append(vertices, v)
	}
	vertices = append(vertices, EndVertex)

	ov.path = Path{ID: idx.allocTransient(), Vertices: vertices}
	return ov, nil
}

// WithOverlay runs fn against a query overlay while holding the index read lock.
func (idx *Index) WithOverlay(text string, fn func(*Overlay) error) error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ov, err := idx.Overlay(text)
	if err != nil {
		return err
	}
	return fn(ov)
}

// Query returns the overlay's own path.
func (o *Overlay) Query() Path {
	return o.path
}

// Base returns the index the overlay reads from.
func (o *Overlay) Base() *Index {
	return o.base
}

// Path implements View.
func (o *Overlay) Path(id PathID) (Path, bool) {
	if id == o.path.ID {
		return o.path, true
	}
	return o.base.Path(id)
}

// Occurrences implements View. Overlay-local vertices belong to no vocabulary word.
func (o *Overlay) Occurrences(v VertexID) []Edge {
	if v >= overlayVertexBase {
		return nil
	}
	return o.base.Occurrences(v)
}

// Vertex implements View.
func (o *Overlay) Vertex(v VertexID) (Vertex, bool) {
	if v >= overlayVertexBase {
		i := int(v - overlayVertexBase)
		if i >= len(o.local) {
			return Vertex{}, false
		}
		return o.local[i], true
	}
	return o.base.Vertex(v)
}
