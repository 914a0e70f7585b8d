// Package rewrite implements double-pushout (DPO) rewriting of hypergraphs:
// the graph surgery that replaces one occurrence of a rule's left side with
// the rule's right side.
package rewrite

import (
	"fmt"

	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/match"
	"github.com/skein-lang/skein/internal/rule"
)

// ErrorCode categorises rewriter failures.
type ErrorCode string

const (
	// CodeFrobeniusBoundary indicates the rule carries a boundary vertex
	// with more than one inbound or outbound wire-end on its left side.
	// Rewriting modulo Frobenius structure is not supported.
	CodeFrobeniusBoundary ErrorCode = "FROBENIUS_BOUNDARY"

	// CodeMalformedComplement indicates the pushout complement did not
	// produce the expected boundary halves for a matched occurrence.
	CodeMalformedComplement ErrorCode = "MALFORMED_COMPLEMENT"
)

// RewriteError reports a capability failure inside Dpo. The target graph of
// the failed call is guaranteed untouched: all surgery happens on a private
// copy.
type RewriteError struct {
	Code    ErrorCode
	Message string
}

func (e *RewriteError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsFrobeniusError reports whether err is a RewriteError with code
// CodeFrobeniusBoundary.
func IsFrobeniusError(err error) bool {
	re, ok := err.(*RewriteError)
	return ok && re.Code == CodeFrobeniusBoundary
}

// Dpo rewrites the codomain of m, an occurrence of r.LHS, by r.
//
// It returns an occurrence of r.RHS inside the rewritten graph. The
// rewritten graph is a fresh value; the original codomain of m is never
// mutated, so a failed call has no caller-visible effect. Fresh vertices and
// edges introduced for the interior of r.RHS are flagged in the result's
// VertexImage and EdgeImage sets.
func Dpo(r *rule.Rule, m *match.Match) (*match.Match, error) {
	inHalf := make(map[int]int)
	outHalf := make(map[int]int)

	ctx, err := pushoutComplement(r, m, inHalf, outHalf)
	if err != nil {
		return nil, err
	}

	result := match.NewMatch(r.RHS, ctx)

	// Map the rhs input ports through the lhs occurrence, preferring the
	// inbound half of any exploded boundary vertex.
	lhsIn := r.LHS.Inputs()
	for i, vr := range r.RHS.Inputs() {
		vl := lhsIn[i]
		if v, ok := inHalf[vl]; ok {
			result.VertexMap[vr] = v
		} else {
			result.VertexMap[vr] = m.VertexMap[vl]
		}
	}

	// Map the rhs output ports symmetrically. A vertex serving as both an
	// input and an output port of the rhs may resolve to two different
	// context vertices; identifying them in the context is exactly the
	// final gluing of the pushout.
	lhsOut := r.LHS.Outputs()
	for i, vr := range r.RHS.Outputs() {
		vl := lhsOut[i]
		v := m.VertexMap[vl]
		if h, ok := outHalf[vl]; ok {
			v = h
		}
		if prev, ok := result.VertexMap[vr]; ok {
			if prev != v {
				if err := ctx.MergeVertices(prev, v); err != nil {
					return nil, &RewriteError{Code: CodeMalformedComplement, Message: err.Error()}
				}
			}
		} else {
			result.VertexMap[vr] = v
		}
	}

	// Fresh vertices for the rhs interior, copying attributes.
	for _, v := range r.RHS.Vertices() {
		if r.RHS.IsBoundary(v) {
			continue
		}
		vd := r.RHS.VertexData(v)
		fresh := ctx.AddVertex(graph.VertexData{
			VType: vd.VType, Size: vd.Size, X: vd.X, Y: vd.Y, Value: vd.Value,
		})
		result.VertexMap[v] = fresh
		result.VertexImage[fresh] = true
	}

	// Translate the rhs edges through the assembled vertex map.
	for _, e := range r.RHS.Edges() {
		ed := r.RHS.EdgeData(e)
		sources := make([]int, len(ed.Sources))
		for i, v := range ed.Sources {
			sources[i] = result.VertexMap[v]
		}
		targets := make([]int, len(ed.Targets))
		for i, v := range ed.Targets {
			targets[i] = result.VertexMap[v]
		}
		fresh := ctx.AddEdge(sources, targets, graph.EdgeData{
			Value: ed.Value, X: ed.X, Y: ed.Y, Fg: ed.Fg, Bg: ed.Bg, Hyper: ed.Hyper,
		})
		result.EdgeMap[e] = fresh
		result.EdgeImage[fresh] = true
	}

	return result, nil
}

// pushoutComplement removes the image of r.LHS from a copy of m's codomain.
//
// Matched edges are deleted outright. Interior lhs vertices take their
// images with them. A boundary lhs vertex with exactly one inbound and one
// outbound wire-end has its image split in two; the halves are recorded in
// inHalf and outHalf keyed by the lhs vertex. Any other boundary shape is a
// Frobenius configuration and fails the whole call before the (private)
// context is mutated further.
func pushoutComplement(r *rule.Rule, m *match.Match, inHalf, outHalf map[int]int) (*graph.Graph, error) {
	// Reject unsupported boundary shapes up front so a failure cannot
	// leave a half-built complement behind.
	for _, v := range r.LHS.Vertices() {
		if !r.LHS.IsBoundary(v) {
			continue
		}
		ins := len(r.LHS.VertexData(v).InIndices)
		outs := len(r.LHS.VertexData(v).OutIndices)
		if ins > 1 || outs > 1 {
			return nil, &RewriteError{
				Code:    CodeFrobeniusBoundary,
				Message: fmt.Sprintf("rewriting modulo Frobenius is not supported (lhs vertex %d has %d inputs, %d outputs)", v, ins, outs),
			}
		}
	}

	ctx := m.Codomain.Copy()
	for _, e := range r.LHS.Edges() {
		ctx.RemoveEdge(m.EdgeMap[e])
	}

	for _, v := range r.LHS.Vertices() {
		img := m.VertexMap[v]
		if !r.LHS.IsBoundary(v) {
			ctx.RemoveVertex(img)
			continue
		}

		ins := len(r.LHS.VertexData(v).InIndices)
		outs := len(r.LHS.VertexData(v).OutIndices)
		if ins == 1 && outs == 1 {
			inVs, outVs, err := ctx.ExplodeVertex(img)
			if err != nil {
				return nil, &RewriteError{Code: CodeMalformedComplement, Message: err.Error()}
			}
			if len(inVs) != 1 || len(outVs) != 1 {
				return nil, &RewriteError{
					Code: CodeFrobeniusBoundary,
					Message: fmt.Sprintf("rewriting modulo Frobenius is not supported (image of lhs vertex %d splits into %d inbound and %d outbound halves)",
						v, len(inVs), len(outVs)),
				}
			}
			inHalf[v] = inVs[0]
			outHalf[v] = outVs[0]
		}
		// A boundary vertex used on one side only (pure input or pure
		// output port) keeps its image as-is.
	}
	return ctx, nil
}
