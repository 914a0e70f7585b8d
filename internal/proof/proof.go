// Package proof implements the interactive proof state: an ordered stack of
// open goals, a local rule context, scoped and position-aware rule
// resolution, and lazily-evaluated rewriting of goal formulas.
package proof

import (
	"fmt"
	"strings"

	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/match"
	"github.com/skein-lang/skein/internal/rule"
	"github.com/skein-lang/skein/internal/theory"
)

// Goal is one open proof obligation: a formula equating two graphs, plus
// assumptions visible only within this goal.
type Goal struct {
	Formula     *rule.Rule
	Assumptions map[string]*rule.Rule
}

// NewGoal wraps a formula in a goal with no assumptions.
func NewGoal(formula *rule.Rule) *Goal {
	return &Goal{Formula: formula, Assumptions: make(map[string]*rule.Rule)}
}

// Copy deep-copies the goal: formula and assumptions share nothing with the
// receiver.
func (g *Goal) Copy() *Goal {
	assumptions := make(map[string]*rule.Rule, len(g.Assumptions))
	for name, r := range g.Assumptions {
		assumptions[name] = r.Copy()
	}
	return &Goal{Formula: g.Formula.Copy(), Assumptions: assumptions}
}

// Scope restricts where LookupRuleIn resolves a rule name.
type Scope int

const (
	// ScopeAny searches the local context and goal assumptions first,
	// then the global theory.
	ScopeAny Scope = iota
	// ScopeLocal searches only the local context and goal assumptions.
	ScopeLocal
	// ScopeGlobal searches only the enclosing theory.
	ScopeGlobal
)

// ProofState carries the state of a proof block between steps.
//
// Operations report proof-logic failures as diagnostics on the enclosing
// theory rather than returning errors, so one checking run surfaces every
// problem in a document. Diagnostics are deduplicated by message text per
// proof state.
type ProofState struct {
	theory   *theory.Theory
	sequence int

	// Line is the document line attributed to diagnostics reported by
	// the current step.
	Line int

	goals    []*Goal
	context  map[string]*rule.Rule
	reported map[string]bool
}

// New creates a proof state at the given document sequence position with
// the given initial goals.
func New(th *theory.Theory, sequence int, goals ...*Goal) *ProofState {
	return &ProofState{
		theory:   th,
		sequence: sequence,
		Line:     -1,
		goals:    goals,
		context:  make(map[string]*rule.Rule),
		reported: make(map[string]bool),
	}
}

// Copy deep-copies the whole proof state: goals, local context and the
// dedup set. The theory back-reference is shared; it is read-only apart
// from the diagnostics log.
func (ps *ProofState) Copy() *ProofState {
	c := New(ps.theory, ps.sequence)
	c.Line = ps.Line
	c.goals = make([]*Goal, len(ps.goals))
	for i, g := range ps.goals {
		c.goals[i] = g.Copy()
	}
	for name, r := range ps.context {
		c.context[name] = r.Copy()
	}
	for msg := range ps.reported {
		c.reported[msg] = true
	}
	return c
}

// Snapshot returns an independent copy of the goal stack tagged with a
// document line, letting the interactive layer recall the state at an
// arbitrary step without re-running the proof. The local context and the
// dedup set start fresh on the snapshot.
func (ps *ProofState) Snapshot(line int) *ProofState {
	c := New(ps.theory, ps.sequence)
	c.Line = line
	c.goals = make([]*Goal, len(ps.goals))
	for i, g := range ps.goals {
		c.goals[i] = g.Copy()
	}
	return c
}

// report records a diagnostic on the theory log unless this proof state has
// already reported the same message.
func (ps *ProofState) report(message string) {
	if ps.reported[message] {
		return
	}
	ps.reported[message] = true
	ps.theory.Report(ps.Line, message)
}

// NumGoals returns the number of open goals.
func (ps *ProofState) NumGoals() int { return len(ps.goals) }

// Goals returns the live goal stack; index 0 is the current goal. Callers
// that need an independent value must copy the goals.
func (ps *ProofState) Goals() []*Goal { return ps.goals }

// Sequence returns the document sequence position of this proof state.
func (ps *ProofState) Sequence() int { return ps.sequence }

// GlobalRuleNames lists the theory rules visible from this proof state's
// sequence position.
func (ps *ProofState) GlobalRuleNames() []string {
	return ps.theory.RuleNamesBefore(ps.sequence)
}

// LookupRule resolves a rule expression against the current goal with
// ScopeAny. See LookupRuleIn.
func (ps *ProofState) LookupRule(ruleExpr string) *rule.Rule {
	return ps.LookupRuleIn(ruleExpr, 0, ScopeAny)
}

// LookupRuleIn resolves a rule expression: a rule name optionally preceded
// by "-", denoting the converse of the named rule.
//
// Resolution order is local context, then assumptions of goal goalIdx, then
// the global theory. A global rule resolves only if its definition position
// is strictly before this proof state's own position. Failure records a
// diagnostic and returns nil. Success returns an independent copy, never a
// live handle.
func (ps *ProofState) LookupRuleIn(ruleExpr string, goalIdx int, scope Scope) *rule.Rule {
	name, converse := strings.CutPrefix(ruleExpr, "-")

	var found *rule.Rule
	if scope == ScopeAny || scope == ScopeLocal {
		if r, ok := ps.context[name]; ok {
			found = r
		} else if goalIdx >= 0 && goalIdx < len(ps.goals) {
			if r, ok := ps.goals[goalIdx].Assumptions[name]; ok {
				found = r
			}
		}
	}

	if found == nil && (scope == ScopeAny || scope == ScopeGlobal) {
		if r, seq, ok := ps.theory.Rule(name); ok {
			if seq >= ps.sequence {
				ps.report(fmt.Sprintf("Attempting to use rule %s before it is defined/proven (%d >= %d).", name, seq, ps.sequence))
				return nil
			}
			found = r
		}
	}

	if found == nil {
		ps.report(fmt.Sprintf("Rule %s not defined.", name))
		return nil
	}
	if converse {
		return found.Converse()
	}
	return found.Copy()
}

// AddRuleToContext copies the named global rule into the local context,
// where tactics may freely modify it. An unresolvable name leaves the
// context unchanged; the failed lookup has already recorded the diagnostic.
func (ps *ProofState) AddRuleToContext(ruleExpr string) {
	r := ps.LookupRuleIn(ruleExpr, 0, ScopeGlobal)
	if r == nil {
		return
	}
	ps.context[ruleExpr] = r
}

// TargetRule returns the live rule a mutating operation acts on: the top
// goal's formula for "", otherwise the named local-context rule. Nil if the
// name is unknown or no goal is open.
func (ps *ProofState) TargetRule(target string) *rule.Rule {
	if target == "" {
		if len(ps.goals) > 0 {
			return ps.goals[0].Formula
		}
		return nil
	}
	return ps.context[target]
}

// LHS returns a copy of the top goal's left-hand graph, or nil if no goal
// is open.
func (ps *ProofState) LHS() *graph.Graph {
	if r := ps.TargetRule(""); r != nil {
		return r.LHS.Copy()
	}
	return nil
}

// RHS returns a copy of the top goal's right-hand graph, or nil if no goal
// is open.
func (ps *ProofState) RHS() *graph.Graph {
	if r := ps.TargetRule(""); r != nil {
		return r.RHS.Copy()
	}
	return nil
}

// LHSSize returns the combined vertex and edge count of the top goal's
// left-hand graph. Tactics use it to bound growth while simplifying.
func (ps *ProofState) LHSSize() int {
	if r := ps.TargetRule(""); r != nil {
		return r.LHS.NumVertices() + r.LHS.NumEdges()
	}
	return 0
}

// RHSSize returns the combined vertex and edge count of the top goal's
// right-hand graph.
func (ps *ProofState) RHSSize() int {
	if r := ps.TargetRule(""); r != nil {
		return r.RHS.NumVertices() + r.RHS.NumEdges()
	}
	return 0
}

// ReplaceLHS replaces the left side of the top goal with newLHS, pushing
// the sub-goal that the old and new sides are equal. A boundary mismatch
// between the two sides records a diagnostic and changes nothing.
func (ps *ProofState) ReplaceLHS(newLHS *graph.Graph) {
	target := ps.TargetRule("")
	if target == nil {
		return
	}
	sub, err := rule.New(target.LHS.Copy(), newLHS, "")
	if err != nil {
		ps.report(err.Error())
		return
	}
	target.LHS = newLHS
	g := ps.goals[0].Copy()
	g.Formula = sub
	ps.goals = append([]*Goal{g}, ps.goals...)
}

// ReplaceRHS replaces the right side of the top goal with newRHS, pushing
// the sub-goal that the old and new sides are equal.
func (ps *ProofState) ReplaceRHS(newRHS *graph.Graph) {
	target := ps.TargetRule("")
	if target == nil {
		return
	}
	sub, err := rule.New(target.RHS.Copy(), newRHS, "")
	if err != nil {
		ps.report(err.Error())
		return
	}
	target.RHS = newRHS
	g := ps.goals[0].Copy()
	g.Formula = sub
	ps.goals = append([]*Goal{g}, ps.goals...)
}

// ValidateGoal tests whether goal i's two sides are isomorphic, returning
// the isomorphism if so. Out-of-range indices return nil.
func (ps *ProofState) ValidateGoal(i int) *match.Match {
	if i < 0 || i >= len(ps.goals) {
		return nil
	}
	g := ps.goals[i]
	return match.FindIso(g.Formula.LHS, g.Formula.RHS)
}

// TryCloseGoal pops goal i if its two sides are isomorphic, reporting
// whether it did. Out-of-range indices report false.
func (ps *ProofState) TryCloseGoal(i int) bool {
	if i < 0 || i >= len(ps.goals) {
		return false
	}
	g := ps.goals[i]
	if match.FindIso(g.Formula.LHS, g.Formula.RHS) == nil {
		return false
	}
	ps.goals = append(ps.goals[:i], ps.goals[i+1:]...)
	return true
}
