package graph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test helper building in1 -> f -> out1 with explicit ids returned.
func makeTestGen(t *testing.T, value string) (*Graph, int, int, int) {
	t.Helper()
	g := New()
	in := g.AddVertex(VertexData{})
	out := g.AddVertex(VertexData{})
	e := g.AddEdge([]int{in}, []int{out}, EdgeData{Value: value, Hyper: true})
	g.SetInputs([]int{in})
	g.SetOutputs([]int{out})
	return g, in, out, e
}

func TestAddVertex_FreshIdentifiers(t *testing.T) {
	g := New()
	v0 := g.AddVertex(VertexData{Value: "a"})
	v1 := g.AddVertex(VertexData{Value: "b"})
	assert.Equal(t, 0, v0)
	assert.Equal(t, 1, v1)

	g.RemoveVertex(v1)

	// Identifiers are never reused after removal.
	v2 := g.AddVertex(VertexData{Value: "c"})
	assert.Equal(t, 2, v2)
	assert.Equal(t, 2, g.NumVertices())
}

func TestAddEdge_AdjacencyBookkeeping(t *testing.T) {
	g, in, out, e := makeTestGen(t, "f")

	assert.Equal(t, []int{e}, g.OutEdges(in))
	assert.Equal(t, []int{e}, g.InEdges(out))
	assert.Empty(t, g.InEdges(in))
	assert.Empty(t, g.OutEdges(out))
	assert.Equal(t, []int{in}, g.Source(e))
	assert.Equal(t, []int{out}, g.Target(e))
}

func TestRemoveEdge_Detaches(t *testing.T) {
	g, in, out, e := makeTestGen(t, "f")

	g.RemoveEdge(e)

	assert.Equal(t, 0, g.NumEdges())
	assert.Empty(t, g.OutEdges(in))
	assert.Empty(t, g.InEdges(out))
}

func TestRemoveVertex_NoDanglingWireEnds(t *testing.T) {
	g := New()
	a := g.AddVertex(VertexData{})
	b := g.AddVertex(VertexData{})
	e := g.AddEdge([]int{a, b}, []int{a}, EdgeData{Value: "m"})
	g.SetInputs([]int{a, b})
	g.SetOutputs([]int{a})

	g.RemoveVertex(a)

	assert.False(t, g.HasVertex(a))
	assert.Equal(t, []int{b}, g.Source(e))
	assert.Empty(t, g.Target(e))
	assert.Equal(t, []int{b}, g.Inputs())
	assert.Empty(t, g.Outputs())
}

func TestBoundary_IndicesTrackPositions(t *testing.T) {
	g := New()
	v := g.AddVertex(VertexData{})
	w := g.AddVertex(VertexData{})
	g.SetInputs([]int{v, w, v})
	g.SetOutputs([]int{w})

	assert.True(t, g.IsInput(v))
	assert.True(t, g.IsInput(w))
	assert.True(t, g.IsOutput(w))
	assert.False(t, g.IsOutput(v))
	assert.True(t, g.IsBoundary(v))

	vd := g.VertexData(v)
	require.NotNil(t, vd)
	assert.Len(t, vd.InIndices, 2)

	g.SetInputs([]int{w})
	assert.False(t, g.IsInput(v))
}

func TestCopy_Independence(t *testing.T) {
	g, in, _, _ := makeTestGen(t, "f")

	h := g.Copy()
	h.AddVertex(VertexData{Value: "extra"})
	h.RemoveVertex(in)

	assert.Equal(t, 2, g.NumVertices())
	assert.True(t, g.HasVertex(in))
	assert.Equal(t, []int{in}, g.Inputs())

	// Fresh counters carried by the copy stay clear of original ids.
	v := h.AddVertex(VertexData{})
	assert.False(t, g.HasVertex(v))
}

func TestExplodeVertex_SplitsWireEnds(t *testing.T) {
	// a -f-> v -g-> b with v interior to the two edges but on no boundary
	// list; v has one inbound and one outbound wire-end.
	g := New()
	a := g.AddVertex(VertexData{})
	v := g.AddVertex(VertexData{Value: "mid"})
	b := g.AddVertex(VertexData{})
	ef := g.AddEdge([]int{a}, []int{v}, EdgeData{Value: "f"})
	eg := g.AddEdge([]int{v}, []int{b}, EdgeData{Value: "g"})
	g.SetInputs([]int{a})
	g.SetOutputs([]int{b})

	ins, outs, err := g.ExplodeVertex(v)
	require.NoError(t, err)
	require.Len(t, ins, 1)
	require.Len(t, outs, 1)

	assert.False(t, g.HasVertex(v))
	assert.Equal(t, []int{ins[0]}, g.Target(ef))
	assert.Equal(t, []int{outs[0]}, g.Source(eg))
	assert.Equal(t, "mid", g.VertexData(ins[0]).Value)
	assert.Equal(t, "mid", g.VertexData(outs[0]).Value)
}

func TestExplodeVertex_BoundaryOccurrenceCountsAsWireEnd(t *testing.T) {
	// v is both a graph input and the target of an edge: two inbound
	// wire-ends, so exploding yields two inbound halves.
	g := New()
	a := g.AddVertex(VertexData{})
	v := g.AddVertex(VertexData{})
	g.AddEdge([]int{a}, []int{v}, EdgeData{Value: "f"})
	g.SetInputs([]int{a, v})
	g.SetOutputs([]int{v})

	ins, outs, err := g.ExplodeVertex(v)
	require.NoError(t, err)
	assert.Len(t, ins, 2)
	assert.Len(t, outs, 1)
	assert.False(t, g.HasVertex(v))
}

func TestExplodeVertex_UnknownVertex(t *testing.T) {
	g := New()
	_, _, err := g.ExplodeVertex(99)
	var gerr *GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "ExplodeVertex", gerr.Op)
}

func TestMergeVertices_RepointsEndpointsAndBoundary(t *testing.T) {
	g := New()
	v := g.AddVertex(VertexData{})
	w := g.AddVertex(VertexData{})
	a := g.AddVertex(VertexData{})
	e := g.AddEdge([]int{a}, []int{w}, EdgeData{Value: "f"})
	g.SetInputs([]int{a})
	g.SetOutputs([]int{w, v})

	require.NoError(t, g.MergeVertices(v, w))

	assert.False(t, g.HasVertex(w))
	assert.Equal(t, []int{v}, g.Target(e))
	assert.Equal(t, []int{v, v}, g.Outputs())
	assert.Equal(t, []int{e}, g.InEdges(v))
}

func TestMergeVertices_SelfMergeIsNoop(t *testing.T) {
	g := New()
	v := g.AddVertex(VertexData{})
	require.NoError(t, g.MergeVertices(v, v))
	assert.True(t, g.HasVertex(v))
}

func TestMergeVertices_UnknownVertex(t *testing.T) {
	g := New()
	v := g.AddVertex(VertexData{})
	var gerr *GraphError
	require.ErrorAs(t, g.MergeVertices(v, 42), &gerr)
	require.ErrorAs(t, g.MergeVertices(42, v), &gerr)
}

func TestGen_Shape(t *testing.T) {
	g := Gen("f", 2, 1)
	assert.Equal(t, 3, g.NumVertices())
	assert.Equal(t, 1, g.NumEdges())
	assert.Len(t, g.Inputs(), 2)
	assert.Len(t, g.Outputs(), 1)

	e := g.Edges()[0]
	assert.Equal(t, "f", g.EdgeData(e).Value)
	assert.Equal(t, g.Inputs(), g.Source(e))
	assert.Equal(t, g.Outputs(), g.Target(e))
}

func TestIdentity_SingleSharedWire(t *testing.T) {
	g := Identity()
	assert.Equal(t, 1, g.NumVertices())
	assert.Equal(t, 0, g.NumEdges())
	assert.Equal(t, g.Inputs(), g.Outputs())
}

func TestPerm_Swap(t *testing.T) {
	g, err := Perm([]int{1, 0})
	require.NoError(t, err)
	in := g.Inputs()
	out := g.Outputs()
	require.Len(t, in, 2)
	assert.Equal(t, []int{in[1], in[0]}, out)
}

func TestPerm_RejectsNonPermutation(t *testing.T) {
	cases := []struct {
		name string
		p    []int
	}{
		{"repeat", []int{0, 0}},
		{"out of range", []int{0, 2}},
		{"negative", []int{-1, 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Perm(tc.p)
			var gerr *GraphError
			assert.ErrorAs(t, err, &gerr)
		})
	}
}

func TestCompose_PlugsBoundaries(t *testing.T) {
	f := Gen("f", 1, 2)
	m := Gen("m", 2, 1)

	fg, err := f.Compose(m)
	require.NoError(t, err)

	// Two output wires of f merge with the two input wires of m.
	assert.Equal(t, 4, fg.NumVertices())
	assert.Equal(t, 2, fg.NumEdges())
	assert.Len(t, fg.Inputs(), 1)
	assert.Len(t, fg.Outputs(), 1)

	// Originals are untouched.
	assert.Equal(t, 3, f.NumVertices())
	assert.Equal(t, 3, m.NumVertices())
}

func TestCompose_SignatureMismatch(t *testing.T) {
	f := Gen("f", 1, 2)
	g := Gen("g", 1, 1)
	_, err := f.Compose(g)
	var gerr *GraphError
	require.ErrorAs(t, err, &gerr)
	assert.Equal(t, "Compose", gerr.Op)
}

func TestCompose_WithIdentityKeepsShape(t *testing.T) {
	f := Gen("f", 1, 1)
	id := Identity()

	fid, err := f.Compose(id)
	require.NoError(t, err)
	assert.Equal(t, 2, fid.NumVertices())
	assert.Equal(t, 1, fid.NumEdges())
	assert.Len(t, fid.Inputs(), 1)
	assert.Len(t, fid.Outputs(), 1)
}

func TestTensor_DisjointUnion(t *testing.T) {
	f := Gen("f", 1, 1)
	g := Gen("g", 2, 1)

	fg := f.Tensor(g)
	assert.Equal(t, 5, fg.NumVertices())
	assert.Equal(t, 2, fg.NumEdges())
	assert.Len(t, fg.Inputs(), 3)
	assert.Len(t, fg.Outputs(), 2)
}

func TestSuccessors_FollowsEdgesForward(t *testing.T) {
	f := Gen("f", 1, 1)
	g := Gen("g", 1, 1)
	fg, err := f.Compose(g)
	require.NoError(t, err)

	in := fg.Inputs()[0]
	out := fg.Outputs()[0]
	succ := fg.Successors([]int{in})
	assert.True(t, succ[out])
	assert.False(t, fg.Successors([]int{out})[in])
}

func TestCanonical_DeterministicAndCopyStable(t *testing.T) {
	g := Gen("f", 2, 2)
	h := g.Copy()
	assert.Equal(t, g.Canonical(), h.Canonical())
	assert.Equal(t, g.Fingerprint(), h.Fingerprint())

	h.AddVertex(VertexData{})
	assert.NotEqual(t, g.Fingerprint(), h.Fingerprint())
}
