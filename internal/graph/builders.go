package graph

import (
	"fmt"
	"slices"
)

// Gen builds the graph of a single generator box: arity input wires feeding
// one hyperedge feeding coarity output wires.
func Gen(value string, arity, coarity int) *Graph {
	g := New()
	inputs := make([]int, arity)
	for i := range inputs {
		inputs[i] = g.AddVertex(VertexData{X: -1.5, Y: float64(i) - float64(arity-1)/2})
	}
	outputs := make([]int, coarity)
	for i := range outputs {
		outputs[i] = g.AddVertex(VertexData{X: 1.5, Y: float64(i) - float64(coarity-1)/2})
	}
	g.AddEdge(inputs, outputs, EdgeData{Value: value, Hyper: true})
	g.SetInputs(inputs)
	g.SetOutputs(outputs)
	return g
}

// Identity builds the graph of a single bare wire.
func Identity() *Graph {
	g := New()
	v := g.AddVertex(VertexData{})
	g.SetInputs([]int{v})
	g.SetOutputs([]int{v})
	return g
}

// Perm builds a wire permutation. The i-th output is connected to input
// p[i], so Perm([]int{1, 0}) is the swap of two wires.
func Perm(p []int) (*Graph, error) {
	n := len(p)
	seen := make([]bool, n)
	for _, i := range p {
		if i < 0 || i >= n || seen[i] {
			return nil, &GraphError{Op: "Perm", Message: fmt.Sprintf("not a permutation: %v", p)}
		}
		seen[i] = true
	}
	g := New()
	inputs := make([]int, n)
	for i := range inputs {
		inputs[i] = g.AddVertex(VertexData{Y: float64(i) - float64(n-1)/2})
	}
	outputs := make([]int, n)
	for i := range outputs {
		outputs[i] = inputs[p[i]]
	}
	g.SetInputs(inputs)
	g.SetOutputs(outputs)
	return g, nil
}

// Compose plugs the output boundary of g into the input boundary of h,
// returning the sequential composite as a fresh graph. The codomain of g
// must equal the domain of h.
func (g *Graph) Compose(h *Graph) (*Graph, error) {
	if !slices.Equal(g.Codomain(), h.Domain()) {
		return nil, &GraphError{
			Op:      "Compose",
			Message: fmt.Sprintf("codomain %v does not match domain %v", g.Codomain(), h.Domain()),
		}
	}

	res := g.Copy()
	vmap := embed(res, h)

	plugFrom := res.Outputs()
	plugTo := make([]int, len(h.Inputs()))
	for i, v := range h.Inputs() {
		plugTo[i] = vmap[v]
	}

	outputs := make([]int, len(h.Outputs()))
	for i, v := range h.Outputs() {
		outputs[i] = vmap[v]
	}
	res.SetOutputs(outputs)

	// Earlier plugs can merge away a vertex a later plug refers to, so
	// resolve each endpoint through the merges performed so far.
	alias := make(map[int]int)
	resolve := func(v int) int {
		for {
			w, ok := alias[v]
			if !ok {
				return v
			}
			v = w
		}
	}
	for i := range plugFrom {
		a, b := resolve(plugFrom[i]), resolve(plugTo[i])
		if a == b {
			continue
		}
		if err := res.MergeVertices(a, b); err != nil {
			return nil, err
		}
		alias[b] = a
	}
	return res, nil
}

// Tensor places h beside g, returning the parallel composite as a fresh
// graph: a disjoint union whose boundaries concatenate those of g then h.
func (g *Graph) Tensor(h *Graph) *Graph {
	res := g.Copy()
	vmap := embed(res, h)

	inputs := res.Inputs()
	for _, v := range h.Inputs() {
		inputs = append(inputs, vmap[v])
	}
	res.SetInputs(inputs)

	outputs := res.Outputs()
	for _, v := range h.Outputs() {
		outputs = append(outputs, vmap[v])
	}
	res.SetOutputs(outputs)
	return res
}

// embed copies every vertex and edge of src into dst under fresh identifiers
// and returns the vertex translation map. Boundaries of dst are untouched.
func embed(dst *Graph, src *Graph) map[int]int {
	vmap := make(map[int]int, src.NumVertices())
	for _, v := range src.Vertices() {
		vd := src.VertexData(v)
		vmap[v] = dst.AddVertex(VertexData{VType: vd.VType, Size: vd.Size, X: vd.X, Y: vd.Y, Value: vd.Value})
	}
	for _, e := range src.Edges() {
		ed := src.EdgeData(e)
		sources := make([]int, len(ed.Sources))
		for i, v := range ed.Sources {
			sources[i] = vmap[v]
		}
		targets := make([]int, len(ed.Targets))
		for i, v := range ed.Targets {
			targets[i] = vmap[v]
		}
		dst.AddEdge(sources, targets, EdgeData{Value: ed.Value, X: ed.X, Y: ed.Y, Fg: ed.Fg, Bg: ed.Bg, Hyper: ed.Hyper})
	}
	return vmap
}
