package proof

import (
	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/match"
	"github.com/skein-lang/skein/internal/rewrite"
	"github.com/skein-lang/skein/internal/rule"
	"github.com/skein-lang/skein/internal/theory"
)

// RewriteSeq is a cursor over successive rewrites of one side of a target
// rule. Each Next applies one rewrite and commits it into the target
// immediately, then re-reads the now-current graph for the following pull.
// The sequence is unbounded for rules that always match; callers bound it
// themselves.
type RewriteSeq struct {
	ps      *ProofState
	r       *rule.Rule
	target  string
	side    theory.Side
	matches *match.Matches
	done    bool
}

// RewriteLHS starts a rewrite sequence applying ruleExpr to the left side
// of the target rule ("" for the top goal's formula). An unresolvable rule
// expression or missing target yields an already-exhausted sequence.
func (ps *ProofState) RewriteLHS(ruleExpr, target string) *RewriteSeq {
	return ps.newRewriteSeq(ruleExpr, target, theory.SideLHS)
}

// RewriteRHS starts a rewrite sequence applying ruleExpr to the right side
// of the target rule.
func (ps *ProofState) RewriteRHS(ruleExpr, target string) *RewriteSeq {
	return ps.newRewriteSeq(ruleExpr, target, theory.SideRHS)
}

func (ps *ProofState) newRewriteSeq(ruleExpr, target string, side theory.Side) *RewriteSeq {
	seq := &RewriteSeq{ps: ps, target: target, side: side}
	seq.r = ps.LookupRule(ruleExpr)
	if seq.r == nil || ps.TargetRule(target) == nil {
		seq.done = true
		return seq
	}
	seq.matches = match.MatchRule(seq.r, seq.sideGraph())
	return seq
}

func (s *RewriteSeq) sideGraph() *graph.Graph {
	t := s.ps.TargetRule(s.target)
	if s.side == theory.SideLHS {
		return t.LHS
	}
	return t.RHS
}

func (s *RewriteSeq) commit(g *graph.Graph) {
	t := s.ps.TargetRule(s.target)
	if s.side == theory.SideLHS {
		t.LHS = g
	} else {
		t.RHS = g
	}
}

// Next applies the next available rewrite. It returns the match of the
// rule's pattern in the graph that was current when Next was called, and
// the match embedding the rule's replacement into the rewritten graph. The
// rewritten graph has already been committed into the target when Next
// returns. A nil first return means the sequence is exhausted.
//
// Matches whose pushout complement does not exist (Frobenius boundary
// patterns) are skipped, not surfaced.
func (s *RewriteSeq) Next() (*match.Match, *match.Match) {
	for !s.done {
		m := s.matches.Next()
		if m == nil {
			s.done = true
			return nil, nil
		}
		result, err := rewrite.Dpo(s.r, m)
		if err != nil {
			continue
		}
		s.commit(result.Codomain)
		s.matches = match.MatchRule(s.r, s.sideGraph())
		return m, result
	}
	return nil, nil
}

// RewriteLHS1 applies ruleExpr once to the left side of the target rule,
// reporting whether a rewrite happened.
func (ps *ProofState) RewriteLHS1(ruleExpr, target string) bool {
	m, _ := ps.RewriteLHS(ruleExpr, target).Next()
	return m != nil
}

// RewriteRHS1 applies ruleExpr once to the right side of the target rule,
// reporting whether a rewrite happened.
func (ps *ProofState) RewriteRHS1(ruleExpr, target string) bool {
	m, _ := ps.RewriteRHS(ruleExpr, target).Next()
	return m != nil
}
