// Package compiler turns CUE theory documents into checked-ready theories:
// generator declarations, named terms, axiom rules, and theorems with their
// proof steps, in document order.
package compiler

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/rule"
	"github.com/skein-lang/skein/internal/theory"
)

// CompileDocument parses a CUE value into a theory. Uses CUE SDK's Go API
// directly (not CLI subprocess).
//
// The CUE value should be the theory struct itself, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileBytes(src)
//	th, err := CompileDocument("monoid.cue", v.LookupPath(cue.ParsePath("theory")))
//
// The document is a single ordered list of parts:
//
//	theory: parts: [
//		{gen: {name: "m", arity: 2, coarity: 1}},
//		{let: {name: "mm", term: {seq: [{par: [{gen: "m"}, {id: true}]}, {gen: "m"}]}}},
//		{rule: {name: "assoc", lhs: ..., rhs: ...}},
//		{theorem: {name: "comm2", lhs: ..., rhs: ..., proof: [
//			{apply: {tactic: "rule", args: ["comm"]}},
//		]}},
//	]
func CompileDocument(name string, v cue.Value) (*theory.Theory, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	c := &docCompiler{
		theory:     theory.New(name),
		generators: make(map[string]genSig),
	}

	partsVal := v.LookupPath(cue.ParsePath("parts"))
	if !partsVal.Exists() {
		return nil, &CompileError{
			Field:   "parts",
			Message: "parts list is required",
			Pos:     v.Pos(),
		}
	}
	iter, err := partsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	for iter.Next() {
		if err := c.compilePart(iter.Value()); err != nil {
			return nil, err
		}
	}
	return c.theory, nil
}

type genSig struct {
	arity   int
	coarity int
}

type docCompiler struct {
	theory     *theory.Theory
	generators map[string]genSig
	sequence   int
}

// nextSeq hands out document sequence positions. Every part, including
// each step inside a proof block, occupies its own position.
func (c *docCompiler) nextSeq() int {
	s := c.sequence
	c.sequence++
	return s
}

func (c *docCompiler) compilePart(v cue.Value) error {
	switch {
	case v.LookupPath(cue.ParsePath("gen")).Exists():
		return c.compileGen(v.LookupPath(cue.ParsePath("gen")))
	case v.LookupPath(cue.ParsePath("let")).Exists():
		return c.compileLet(v.LookupPath(cue.ParsePath("let")))
	case v.LookupPath(cue.ParsePath("rule")).Exists():
		return c.compileRule(v.LookupPath(cue.ParsePath("rule")))
	case v.LookupPath(cue.ParsePath("theorem")).Exists():
		return c.compileTheorem(v.LookupPath(cue.ParsePath("theorem")))
	default:
		return &CompileError{
			Field:   "parts",
			Message: "part must be one of gen, let, rule, theorem",
			Pos:     v.Pos(),
		}
	}
}

func (c *docCompiler) compileGen(v cue.Value) error {
	name, err := stringField(v, "name")
	if err != nil {
		return err
	}
	arity, err := intField(v, "arity")
	if err != nil {
		return err
	}
	coarity, err := intField(v, "coarity")
	if err != nil {
		return err
	}
	if _, ok := c.generators[name]; ok {
		return &CompileError{
			Field:   "gen",
			Message: fmt.Sprintf("generator %s already declared", name),
			Pos:     v.Pos(),
		}
	}

	c.generators[name] = genSig{arity: arity, coarity: coarity}
	g := graph.Gen(name, arity, coarity)
	c.theory.AddGraph(name, g)
	c.theory.Parts = append(c.theory.Parts, &theory.GenPart{
		PartInfo: theory.PartInfo{Line: v.Pos().Line(), Name: name},
		Graph:    g,
	})
	c.nextSeq()
	return nil
}

func (c *docCompiler) compileLet(v cue.Value) error {
	name, err := stringField(v, "name")
	if err != nil {
		return err
	}
	g, err := c.compileTerm(v.LookupPath(cue.ParsePath("term")))
	if err != nil {
		return err
	}

	c.theory.AddGraph(name, g)
	c.theory.Parts = append(c.theory.Parts, &theory.LetPart{
		PartInfo: theory.PartInfo{Line: v.Pos().Line(), Name: name},
		Graph:    g,
	})
	c.nextSeq()
	return nil
}

func (c *docCompiler) compileRule(v cue.Value) error {
	name, err := stringField(v, "name")
	if err != nil {
		return err
	}
	r, err := c.compileFormula(v, name)
	if err != nil {
		return err
	}

	c.theory.AddRule(r, c.sequence)
	c.theory.Parts = append(c.theory.Parts, &theory.RulePart{
		PartInfo: theory.PartInfo{Line: v.Pos().Line(), Name: name},
		Rule:     r,
	})
	c.nextSeq()
	return nil
}

func (c *docCompiler) compileTheorem(v cue.Value) error {
	name, err := stringField(v, "name")
	if err != nil {
		return err
	}
	formula, err := c.compileFormula(v, name)
	if err != nil {
		return err
	}

	// The theorem is registered at its own position; position gating in
	// rule lookup keeps its proof from assuming it.
	seq := c.nextSeq()
	c.theory.AddRule(formula, seq)
	c.theory.Parts = append(c.theory.Parts, &theory.TheoremPart{
		PartInfo: theory.PartInfo{Line: v.Pos().Line(), Name: name},
		Formula:  formula,
		Sequence: seq,
	})

	proofVal := v.LookupPath(cue.ParsePath("proof"))
	if !proofVal.Exists() {
		return nil
	}
	c.theory.Parts = append(c.theory.Parts, &theory.ProofStartPart{
		PartInfo: theory.PartInfo{Line: proofVal.Pos().Line(), Name: name},
		Sequence: c.nextSeq(),
	})
	iter, err := proofVal.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if err := c.compileProofStep(iter.Value()); err != nil {
			return err
		}
	}
	c.theory.Parts = append(c.theory.Parts, &theory.ProofQedPart{
		PartInfo: theory.PartInfo{Line: proofVal.Pos().Line(), Name: name},
		Sequence: c.nextSeq(),
	})
	return nil
}

func (c *docCompiler) compileProofStep(v cue.Value) error {
	switch {
	case v.LookupPath(cue.ParsePath("apply")).Exists():
		av := v.LookupPath(cue.ParsePath("apply"))
		tac, args, err := tacticFields(av)
		if err != nil {
			return err
		}
		c.theory.Parts = append(c.theory.Parts, &theory.ApplyTacticPart{
			PartInfo: theory.PartInfo{Line: av.Pos().Line()},
			Sequence: c.nextSeq(),
			Tactic:   tac,
			Args:     args,
		})
		return nil

	case v.LookupPath(cue.ParsePath("rewrite")).Exists():
		rv := v.LookupPath(cue.ParsePath("rewrite"))
		sideName, err := stringField(rv, "side")
		if err != nil {
			return err
		}
		var side theory.Side
		switch sideName {
		case "lhs":
			side = theory.SideLHS
		case "rhs":
			side = theory.SideRHS
		default:
			return &CompileError{
				Field:   "rewrite.side",
				Message: fmt.Sprintf("side must be lhs or rhs, got %q", sideName),
				Pos:     rv.Pos(),
			}
		}
		term, err := c.compileTerm(rv.LookupPath(cue.ParsePath("term")))
		if err != nil {
			return err
		}
		tac, args, err := tacticFields(rv)
		if err != nil {
			return err
		}
		c.theory.Parts = append(c.theory.Parts, &theory.RewriteStepPart{
			PartInfo: theory.PartInfo{Line: rv.Pos().Line()},
			Sequence: c.nextSeq(),
			Side:     side,
			NewSide:  term,
			Tactic:   tac,
			Args:     args,
		})
		return nil

	default:
		return &CompileError{
			Field:   "proof",
			Message: "proof step must be one of apply, rewrite",
			Pos:     v.Pos(),
		}
	}
}

// compileFormula builds a rule from the lhs and rhs terms of v, reporting
// boundary mismatches as compile errors.
func (c *docCompiler) compileFormula(v cue.Value, name string) (*rule.Rule, error) {
	lhs, err := c.compileTerm(v.LookupPath(cue.ParsePath("lhs")))
	if err != nil {
		return nil, err
	}
	rhs, err := c.compileTerm(v.LookupPath(cue.ParsePath("rhs")))
	if err != nil {
		return nil, err
	}
	r, err := rule.New(lhs, rhs, name)
	if err != nil {
		return nil, &CompileError{
			Field:   name,
			Message: err.Error(),
			Pos:     v.Pos(),
		}
	}
	return r, nil
}

// tacticFields reads the optional tactic name and argument list of a proof
// step. A step without a tactic defaults to refl.
func tacticFields(v cue.Value) (string, []string, error) {
	tac := "refl"
	tacVal := v.LookupPath(cue.ParsePath("tactic"))
	if tacVal.Exists() {
		s, err := tacVal.String()
		if err != nil {
			return "", nil, formatCUEError(err)
		}
		tac = s
	}
	var args []string
	argsVal := v.LookupPath(cue.ParsePath("args"))
	if argsVal.Exists() {
		iter, err := argsVal.List()
		if err != nil {
			return "", nil, formatCUEError(err)
		}
		for iter.Next() {
			s, err := iter.Value().String()
			if err != nil {
				return "", nil, formatCUEError(err)
			}
			args = append(args, s)
		}
	}
	return tac, args, nil
}

func stringField(v cue.Value, field string) (string, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return "", &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	s, err := fv.String()
	if err != nil {
		return "", formatCUEError(err)
	}
	return s, nil
}

func intField(v cue.Value, field string) (int, error) {
	fv := v.LookupPath(cue.ParsePath(field))
	if !fv.Exists() {
		return 0, &CompileError{
			Field:   field,
			Message: field + " is required",
			Pos:     v.Pos(),
		}
	}
	n, err := fv.Int64()
	if err != nil {
		return 0, formatCUEError(err)
	}
	if n < 0 {
		return 0, &CompileError{
			Field:   field,
			Message: field + " must be non-negative",
			Pos:     fv.Pos(),
		}
	}
	return int(n), nil
}

// CompileError represents a compilation error with source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	// CUE errors may contain multiple errors
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	firstErr := errs[0]
	positions := errors.Positions(firstErr)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: firstErr.Error(),
			Pos:     positions[0],
		}
	}

	return err
}
