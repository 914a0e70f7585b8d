package compiler

import (
	"fmt"

	"cuelang.org/go/cue"

	"github.com/skein-lang/skein/internal/graph"
)

// compileTerm builds the graph for a term expression. Terms are structs
// with exactly one of these fields:
//
//	{gen: "m"}              a declared generator
//	{ref: "mm"}             a previously named term
//	{id: true}              the identity wire
//	{perm: [1, 0]}          a wire permutation
//	{seq: [t1, t2, ...]}    sequential composition, left to right
//	{par: [t1, t2, ...]}    parallel composition, top to bottom
func (c *docCompiler) compileTerm(v cue.Value) (*graph.Graph, error) {
	if !v.Exists() {
		return nil, &CompileError{
			Field:   "term",
			Message: "term is required",
			Pos:     v.Pos(),
		}
	}
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	switch {
	case v.LookupPath(cue.ParsePath("gen")).Exists():
		name, err := v.LookupPath(cue.ParsePath("gen")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		sig, ok := c.generators[name]
		if !ok {
			return nil, &CompileError{
				Field:   "gen",
				Message: fmt.Sprintf("generator %s not declared", name),
				Pos:     v.Pos(),
			}
		}
		return graph.Gen(name, sig.arity, sig.coarity), nil

	case v.LookupPath(cue.ParsePath("ref")).Exists():
		name, err := v.LookupPath(cue.ParsePath("ref")).String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		g, ok := c.theory.Graphs[name]
		if !ok {
			return nil, &CompileError{
				Field:   "ref",
				Message: fmt.Sprintf("term %s not defined", name),
				Pos:     v.Pos(),
			}
		}
		return g.Copy(), nil

	case v.LookupPath(cue.ParsePath("id")).Exists():
		return graph.Identity(), nil

	case v.LookupPath(cue.ParsePath("perm")).Exists():
		return c.compilePerm(v.LookupPath(cue.ParsePath("perm")))

	case v.LookupPath(cue.ParsePath("seq")).Exists():
		return c.compileSeq(v.LookupPath(cue.ParsePath("seq")))

	case v.LookupPath(cue.ParsePath("par")).Exists():
		return c.compilePar(v.LookupPath(cue.ParsePath("par")))

	default:
		return nil, &CompileError{
			Field:   "term",
			Message: "term must be one of gen, ref, id, perm, seq, par",
			Pos:     v.Pos(),
		}
	}
}

func (c *docCompiler) compilePerm(v cue.Value) (*graph.Graph, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var p []int
	for iter.Next() {
		n, err := iter.Value().Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		p = append(p, int(n))
	}
	g, err := graph.Perm(p)
	if err != nil {
		return nil, &CompileError{
			Field:   "perm",
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return g, nil
}

func (c *docCompiler) compileSeq(v cue.Value) (*graph.Graph, error) {
	terms, err := c.compileTermList(v, "seq")
	if err != nil {
		return nil, err
	}
	g := terms[0]
	for _, h := range terms[1:] {
		g, err = g.Compose(h)
		if err != nil {
			return nil, &CompileError{
				Field:   "seq",
				Message: err.Error(),
				Pos:     v.Pos(),
			}
		}
	}
	return g, nil
}

func (c *docCompiler) compilePar(v cue.Value) (*graph.Graph, error) {
	terms, err := c.compileTermList(v, "par")
	if err != nil {
		return nil, err
	}
	g := terms[0]
	for _, h := range terms[1:] {
		g = g.Tensor(h)
	}
	return g, nil
}

func (c *docCompiler) compileTermList(v cue.Value, field string) ([]*graph.Graph, error) {
	iter, err := v.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var terms []*graph.Graph
	for iter.Next() {
		g, err := c.compileTerm(iter.Value())
		if err != nil {
			return nil, err
		}
		terms = append(terms, g)
	}
	if len(terms) == 0 {
		return nil, &CompileError{
			Field:   field,
			Message: field + " needs at least one term",
			Pos:     v.Pos(),
		}
	}
	return terms, nil
}
