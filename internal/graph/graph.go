package graph

import (
	"fmt"
	"slices"
	"sort"
)

// GraphError represents a structural error raised by a graph edit, such as
// plugging boundaries with mismatched signatures or addressing a vertex that
// does not exist.
type GraphError struct {
	Op      string
	Message string
}

func (e *GraphError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Message)
}

// VertexData holds the attributes of a single vertex.
//
// The adjacency sets (InEdges, OutEdges) and the boundary index sets
// (InIndices, OutIndices) are bookkeeping owned by the containing Graph;
// callers should treat them as read-only.
type VertexData struct {
	// VType is the wire type tag. The empty string is the default type.
	VType string
	// Size is the register width of the wire, used by typed theories.
	Size int
	// X and Y are layout hints carried through rewrites.
	X, Y float64
	// Value is an arbitrary payload.
	Value string

	// InEdges and OutEdges index the hyperedges whose targets (resp.
	// sources) contain this vertex.
	InEdges  map[int]bool
	OutEdges map[int]bool

	// InIndices and OutIndices record at which positions this vertex
	// occurs in the graph's input (resp. output) boundary.
	InIndices  map[int]bool
	OutIndices map[int]bool
}

// EdgeData holds the attributes of a single hyperedge.
type EdgeData struct {
	// Value is the generator name or payload carried by the edge.
	Value string
	// X and Y are layout hints.
	X, Y float64
	// Fg and Bg are styling hints carried through rewrites.
	Fg, Bg string
	// Sources and Targets are the ordered endpoint sequences.
	Sources []int
	Targets []int
	// Hyper marks a true hyperedge; false means a plain wire drawn
	// without a box.
	Hyper bool
}

// Graph is a directed hypergraph with ordered input and output boundaries.
// The zero value is not usable; construct with New.
type Graph struct {
	vdata   map[int]*VertexData
	edata   map[int]*EdgeData
	inputs  []int
	outputs []int
	vindex  int
	eindex  int
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		vdata: make(map[int]*VertexData),
		edata: make(map[int]*EdgeData),
	}
}

// Vertices returns all vertex identifiers in ascending order.
// The ascending order makes iteration deterministic, which the matcher and
// golden tests rely on.
func (g *Graph) Vertices() []int {
	vs := make([]int, 0, len(g.vdata))
	for v := range g.vdata {
		vs = append(vs, v)
	}
	sort.Ints(vs)
	return vs
}

// Edges returns all edge identifiers in ascending order.
func (g *Graph) Edges() []int {
	es := make([]int, 0, len(g.edata))
	for e := range g.edata {
		es = append(es, e)
	}
	sort.Ints(es)
	return es
}

// NumVertices returns the number of vertices.
func (g *Graph) NumVertices() int { return len(g.vdata) }

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int { return len(g.edata) }

// VertexData returns the data record for vertex v, or nil if v is not a
// vertex of this graph. The returned pointer aliases graph state.
func (g *Graph) VertexData(v int) *VertexData { return g.vdata[v] }

// EdgeData returns the data record for edge e, or nil if e is not an edge of
// this graph. The returned pointer aliases graph state.
func (g *Graph) EdgeData(e int) *EdgeData { return g.edata[e] }

// HasVertex reports whether v is a vertex of this graph.
func (g *Graph) HasVertex(v int) bool { _, ok := g.vdata[v]; return ok }

// HasEdge reports whether e is an edge of this graph.
func (g *Graph) HasEdge(e int) bool { _, ok := g.edata[e]; return ok }

// InEdges returns the identifiers of edges with v among their targets, in
// ascending order.
func (g *Graph) InEdges(v int) []int { return sortedKeys(g.vdata[v].InEdges) }

// OutEdges returns the identifiers of edges with v among their sources, in
// ascending order.
func (g *Graph) OutEdges(v int) []int { return sortedKeys(g.vdata[v].OutEdges) }

// Source returns a copy of the ordered source sequence of edge e.
func (g *Graph) Source(e int) []int { return slices.Clone(g.edata[e].Sources) }

// Target returns a copy of the ordered target sequence of edge e.
func (g *Graph) Target(e int) []int { return slices.Clone(g.edata[e].Targets) }

// AddVertex adds a vertex carrying the attribute fields of d (VType, Size,
// X, Y, Value) and returns its fresh identifier. Bookkeeping fields of d are
// ignored.
func (g *Graph) AddVertex(d VertexData) int {
	v := g.vindex
	g.vindex++
	g.vdata[v] = &VertexData{
		VType:      d.VType,
		Size:       d.Size,
		X:          d.X,
		Y:          d.Y,
		Value:      d.Value,
		InEdges:    make(map[int]bool),
		OutEdges:   make(map[int]bool),
		InIndices:  make(map[int]bool),
		OutIndices: make(map[int]bool),
	}
	return v
}

// AddEdge adds a hyperedge from the ordered sources to the ordered targets,
// carrying the attribute fields of d, and returns its fresh identifier.
// Every endpoint must be a live vertex of this graph.
func (g *Graph) AddEdge(sources, targets []int, d EdgeData) int {
	e := g.eindex
	g.eindex++
	ed := &EdgeData{
		Value:   d.Value,
		X:       d.X,
		Y:       d.Y,
		Fg:      d.Fg,
		Bg:      d.Bg,
		Sources: slices.Clone(sources),
		Targets: slices.Clone(targets),
		Hyper:   d.Hyper,
	}
	g.edata[e] = ed
	for _, v := range ed.Sources {
		g.vdata[v].OutEdges[e] = true
	}
	for _, v := range ed.Targets {
		g.vdata[v].InEdges[e] = true
	}
	return e
}

// RemoveEdge removes edge e and detaches it from the adjacency sets of its
// endpoints.
func (g *Graph) RemoveEdge(e int) {
	ed, ok := g.edata[e]
	if !ok {
		return
	}
	for _, v := range ed.Sources {
		if vd := g.vdata[v]; vd != nil {
			delete(vd.OutEdges, e)
		}
	}
	for _, v := range ed.Targets {
		if vd := g.vdata[v]; vd != nil {
			delete(vd.InEdges, e)
		}
	}
	delete(g.edata, e)
}

// RemoveVertex removes vertex v. Occurrences of v in the endpoint sequences
// of neighbouring edges and in the boundary lists are dropped, so the graph
// never holds a dangling wire-end.
func (g *Graph) RemoveVertex(v int) {
	vd, ok := g.vdata[v]
	if !ok {
		return
	}
	for e := range vd.InEdges {
		ed := g.edata[e]
		ed.Targets = slices.DeleteFunc(slices.Clone(ed.Targets), func(w int) bool { return w == v })
	}
	for e := range vd.OutEdges {
		ed := g.edata[e]
		ed.Sources = slices.DeleteFunc(slices.Clone(ed.Sources), func(w int) bool { return w == v })
	}
	if len(vd.InIndices) > 0 {
		g.SetInputs(slices.DeleteFunc(g.Inputs(), func(w int) bool { return w == v }))
	}
	if len(vd.OutIndices) > 0 {
		g.SetOutputs(slices.DeleteFunc(g.Outputs(), func(w int) bool { return w == v }))
	}
	delete(g.vdata, v)
}

// SetInputs declares the ordered input boundary and rebuilds the per-vertex
// input index sets.
func (g *Graph) SetInputs(inputs []int) {
	g.inputs = slices.Clone(inputs)
	for _, vd := range g.vdata {
		clear(vd.InIndices)
	}
	for i, v := range g.inputs {
		g.vdata[v].InIndices[i] = true
	}
}

// SetOutputs declares the ordered output boundary and rebuilds the
// per-vertex output index sets.
func (g *Graph) SetOutputs(outputs []int) {
	g.outputs = slices.Clone(outputs)
	for _, vd := range g.vdata {
		clear(vd.OutIndices)
	}
	for i, v := range g.outputs {
		g.vdata[v].OutIndices[i] = true
	}
}

// Inputs returns a copy of the ordered input boundary.
func (g *Graph) Inputs() []int { return slices.Clone(g.inputs) }

// Outputs returns a copy of the ordered output boundary.
func (g *Graph) Outputs() []int { return slices.Clone(g.outputs) }

// IsInput reports whether v occurs in the input boundary.
func (g *Graph) IsInput(v int) bool { return len(g.vdata[v].InIndices) > 0 }

// IsOutput reports whether v occurs in the output boundary.
func (g *Graph) IsOutput(v int) bool { return len(g.vdata[v].OutIndices) > 0 }

// IsBoundary reports whether v occurs in either boundary.
func (g *Graph) IsBoundary(v int) bool { return g.IsInput(v) || g.IsOutput(v) }

// Domain returns the type signature of the input boundary: one entry per
// input port, carrying the port vertex's type tag and size.
func (g *Graph) Domain() []PortType {
	sig := make([]PortType, len(g.inputs))
	for i, v := range g.inputs {
		vd := g.vdata[v]
		sig[i] = PortType{VType: vd.VType, Size: vd.Size}
	}
	return sig
}

// Codomain returns the type signature of the output boundary.
func (g *Graph) Codomain() []PortType {
	sig := make([]PortType, len(g.outputs))
	for i, v := range g.outputs {
		vd := g.vdata[v]
		sig[i] = PortType{VType: vd.VType, Size: vd.Size}
	}
	return sig
}

// PortType is one entry of a boundary type signature.
type PortType struct {
	VType string
	Size  int
}

// Successors returns the set of vertices reachable from vs by following
// edges forwards, excluding vs themselves unless reachable via a cycle.
func (g *Graph) Successors(vs []int) map[int]bool {
	succ := make(map[int]bool)
	queue := slices.Clone(vs)
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for e := range g.vdata[v].OutEdges {
			for _, w := range g.edata[e].Targets {
				if !succ[w] {
					succ[w] = true
					queue = append(queue, w)
				}
			}
		}
	}
	return succ
}

// Copy returns a deep copy of the graph. Vertex and edge identifiers and the
// fresh-id counters are preserved, so rewrites may interleave edits on a copy
// with identity bookkeeping recorded against the original.
func (g *Graph) Copy() *Graph {
	h := &Graph{
		vdata:   make(map[int]*VertexData, len(g.vdata)),
		edata:   make(map[int]*EdgeData, len(g.edata)),
		inputs:  slices.Clone(g.inputs),
		outputs: slices.Clone(g.outputs),
		vindex:  g.vindex,
		eindex:  g.eindex,
	}
	for v, vd := range g.vdata {
		h.vdata[v] = &VertexData{
			VType:      vd.VType,
			Size:       vd.Size,
			X:          vd.X,
			Y:          vd.Y,
			Value:      vd.Value,
			InEdges:    copySet(vd.InEdges),
			OutEdges:   copySet(vd.OutEdges),
			InIndices:  copySet(vd.InIndices),
			OutIndices: copySet(vd.OutIndices),
		}
	}
	for e, ed := range g.edata {
		h.edata[e] = &EdgeData{
			Value:   ed.Value,
			X:       ed.X,
			Y:       ed.Y,
			Fg:      ed.Fg,
			Bg:      ed.Bg,
			Sources: slices.Clone(ed.Sources),
			Targets: slices.Clone(ed.Targets),
			Hyper:   ed.Hyper,
		}
	}
	return h
}

// ExplodeVertex splits vertex v into one fresh vertex per inbound wire-end
// and one per outbound wire-end, then removes v.
//
// An inbound wire-end is an occurrence of v in the input boundary or in the
// target sequence of an edge; an outbound wire-end is an occurrence in the
// output boundary or in the source sequence of an edge. The two returned
// slices list the fresh inbound-side and outbound-side vertices.
func (g *Graph) ExplodeVertex(v int) (ins []int, outs []int, err error) {
	vd, ok := g.vdata[v]
	if !ok {
		return nil, nil, &GraphError{Op: "ExplodeVertex", Message: fmt.Sprintf("no such vertex: %d", v)}
	}

	fresh := func() int {
		return g.AddVertex(VertexData{VType: vd.VType, Size: vd.Size, X: vd.X, Y: vd.Y, Value: vd.Value})
	}

	inputs := g.Inputs()
	for i, w := range inputs {
		if w == v {
			nv := fresh()
			ins = append(ins, nv)
			inputs[i] = nv
		}
	}
	for _, e := range sortedKeys(vd.InEdges) {
		ed := g.edata[e]
		for i, w := range ed.Targets {
			if w == v {
				nv := fresh()
				ins = append(ins, nv)
				ed.Targets[i] = nv
				g.vdata[nv].InEdges[e] = true
			}
		}
		delete(vd.InEdges, e)
	}

	outputs := g.Outputs()
	for i, w := range outputs {
		if w == v {
			nv := fresh()
			outs = append(outs, nv)
			outputs[i] = nv
		}
	}
	for _, e := range sortedKeys(vd.OutEdges) {
		ed := g.edata[e]
		for i, w := range ed.Sources {
			if w == v {
				nv := fresh()
				outs = append(outs, nv)
				ed.Sources[i] = nv
				g.vdata[nv].OutEdges[e] = true
			}
		}
		delete(vd.OutEdges, e)
	}

	g.SetInputs(inputs)
	g.SetOutputs(outputs)
	g.RemoveVertex(v)
	return ins, outs, nil
}

// MergeVertices identifies w with v: every occurrence of w in an edge
// endpoint sequence or boundary list is replaced by v, then w is removed.
// The surviving vertex keeps v's attributes.
func (g *Graph) MergeVertices(v, w int) error {
	if v == w {
		return nil
	}
	vd, ok := g.vdata[v]
	if !ok {
		return &GraphError{Op: "MergeVertices", Message: fmt.Sprintf("no such vertex: %d", v)}
	}
	wd, ok := g.vdata[w]
	if !ok {
		return &GraphError{Op: "MergeVertices", Message: fmt.Sprintf("no such vertex: %d", w)}
	}

	for e := range wd.InEdges {
		ed := g.edata[e]
		for i, x := range ed.Targets {
			if x == w {
				ed.Targets[i] = v
			}
		}
		vd.InEdges[e] = true
	}
	for e := range wd.OutEdges {
		ed := g.edata[e]
		for i, x := range ed.Sources {
			if x == w {
				ed.Sources[i] = v
			}
		}
		vd.OutEdges[e] = true
	}
	if len(wd.InIndices) > 0 {
		inputs := g.Inputs()
		for i, x := range inputs {
			if x == w {
				inputs[i] = v
			}
		}
		g.SetInputs(inputs)
	}
	if len(wd.OutIndices) > 0 {
		outputs := g.Outputs()
		for i, x := range outputs {
			if x == w {
				outputs[i] = v
			}
		}
		g.SetOutputs(outputs)
	}

	// w is fully detached at this point.
	clear(wd.InEdges)
	clear(wd.OutEdges)
	delete(g.vdata, w)
	return nil
}

func copySet(s map[int]bool) map[int]bool {
	c := make(map[int]bool, len(s))
	for k := range s {
		c[k] = true
	}
	return c
}

func sortedKeys(s map[int]bool) []int {
	ks := make([]int, 0, len(s))
	for k := range s {
		ks = append(ks, k)
	}
	sort.Ints(ks)
	return ks
}
