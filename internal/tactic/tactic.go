// Package tactic implements the proof tactics that discharge goals:
// closing by isomorphism, single rule application, and bounded
// simplification loops.
package tactic

import (
	"strings"

	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/proof"
	"github.com/skein-lang/skein/internal/theory"
)

// Tactic attempts to discharge the current goal of a proof state. Check
// reports whether it succeeded; failures leave their diagnostics on the
// enclosing theory.
type Tactic interface {
	Name() string
	Check(ps *proof.ProofState) bool
}

// FromName resolves a tactic name as it appears in a document. The second
// return is false for unknown names.
func FromName(name string, args []string) (Tactic, bool) {
	switch name {
	case "refl", "":
		return Refl{}, true
	case "rule":
		return RuleTac{Args: args}, true
	case "simp":
		return SimpTac{Args: args}, true
	default:
		return nil, false
	}
}

// Refl closes a goal whose two sides are already isomorphic.
type Refl struct{}

func (Refl) Name() string { return "refl" }

func (Refl) Check(ps *proof.ProofState) bool {
	return ps.TryCloseGoal(0)
}

// RuleTac applies its first argument as a rewrite rule once to the left
// side of the goal, then closes the goal if the sides became isomorphic.
type RuleTac struct {
	Args []string
}

func (RuleTac) Name() string { return "rule" }

func (t RuleTac) Check(ps *proof.ProofState) bool {
	if len(t.Args) == 0 {
		return false
	}
	if !ps.RewriteLHS1(t.Args[0], "") {
		return false
	}
	return ps.TryCloseGoal(0)
}

// MakeRHS yields up to n candidate right-hand sides obtained by rewriting
// the goal's left side with the rule, one per match. The interactive layer
// uses these to suggest next proof steps.
func (t RuleTac) MakeRHS(ps *proof.ProofState, n int) []*graph.Graph {
	if len(t.Args) == 0 {
		return nil
	}
	var out []*graph.Graph
	seq := ps.Copy().RewriteLHS(t.Args[0], "")
	for len(out) < n {
		_, result := seq.Next()
		if result == nil {
			break
		}
		out = append(out, result.Codomain)
	}
	return out
}

// SimpTac normalises both sides of the goal by applying its argument rules
// until none fires, then closes the goal if the sides agree. Arguments
// ending in "_def" are treated as definition unfoldings: before the main
// loop they are applied inside local copies of the other argument rules, so
// a rule stated over defined terms can fire against an unfolded goal.
type SimpTac struct {
	Args []string
}

func (SimpTac) Name() string { return "simp" }

func (t SimpTac) Check(ps *proof.ProofState) bool {
	t.prepareContext(ps)
	Repeat(ps, func(r string) bool { return ps.RewriteLHS1(r, "") }, t.Args)
	Repeat(ps, func(r string) bool { return ps.RewriteRHS1(r, "") }, t.Args)
	return ps.TryCloseGoal(0)
}

func (t SimpTac) prepareContext(ps *proof.ProofState) {
	var defs []string
	for _, r := range t.Args {
		if strings.HasSuffix(r, "_def") {
			defs = append(defs, r)
		}
	}
	for _, r := range t.Args {
		if strings.HasSuffix(r, "_def") {
			continue
		}
		ps.AddRuleToContext(r)
		target := r
		Repeat(ps, func(df string) bool { return ps.RewriteLHS1(df, target) }, defs)
	}
}

// RewriteTac implements an explicit proof step that replaces one side of
// the goal with a stated term. The sub-goal this pushes is discharged by a
// follow-up tactic, not by RewriteTac itself.
type RewriteTac struct {
	Side theory.Side
	Term *graph.Graph
}

func (RewriteTac) Name() string { return "rewrite" }

// Run performs the replacement. It reports false when there is no open
// goal to act on.
func (t RewriteTac) Run(ps *proof.ProofState) bool {
	if ps.NumGoals() == 0 {
		return false
	}
	before := ps.NumGoals()
	if t.Side == theory.SideLHS {
		ps.ReplaceLHS(t.Term)
	} else {
		ps.ReplaceRHS(t.Term)
	}
	return ps.NumGoals() > before
}

// RepeatOption adjusts the bounds of a Repeat loop.
type RepeatOption func(*repeatConfig)

type repeatConfig struct {
	maxIter  int
	boundLHS int
	boundRHS int
}

// MaxIter caps the total number of successful rewrites. The default is 255;
// -1 removes the cap.
func MaxIter(n int) RepeatOption {
	return func(c *repeatConfig) { c.maxIter = n }
}

// BoundLHS stops the loop once the goal's left side reaches the given
// combined vertex and edge count.
func BoundLHS(n int) RepeatOption {
	return func(c *repeatConfig) { c.boundLHS = n }
}

// BoundRHS stops the loop once the goal's right side reaches the given
// combined vertex and edge count.
func BoundRHS(n int) RepeatOption {
	return func(c *repeatConfig) { c.boundRHS = n }
}

// Repeat applies rw for each rule expression in rules, cycling as long as
// any application succeeds and the bounds hold. Rewrite sequences over
// rules like commutativity never stop matching on their own; the iteration
// cap is what guarantees termination.
func Repeat(ps *proof.ProofState, rw func(string) bool, rules []string, opts ...RepeatOption) {
	cfg := repeatConfig{maxIter: 255, boundLHS: -1, boundRHS: -1}
	for _, opt := range opts {
		opt(&cfg)
	}

	gotMatch := true
	i := 0
	for gotMatch &&
		(cfg.maxIter == -1 || i < cfg.maxIter) &&
		(cfg.boundLHS == -1 || ps.LHSSize() < cfg.boundLHS) &&
		(cfg.boundRHS == -1 || ps.RHSSize() < cfg.boundRHS) {
		gotMatch = false
		for _, r := range rules {
			for rw(r) && (cfg.maxIter == -1 || i < cfg.maxIter) {
				gotMatch = true
				i++
			}
		}
	}
}
