// Package checker walks a compiled theory document part by part, running
// proof blocks and recording a status on every part.
package checker

import (
	"fmt"
	"log/slog"

	"github.com/skein-lang/skein/internal/proof"
	"github.com/skein-lang/skein/internal/tactic"
	"github.com/skein-lang/skein/internal/theory"
)

// Snapshot captures the proof state as it stood after checking one proof
// step, so an interactive layer can show the open goals at any line
// without re-running the proof.
type Snapshot struct {
	Line  int
	State *proof.ProofState
}

// Result summarises a checking pass. Per-part statuses are written onto
// the theory's parts; diagnostics land on the theory's log.
type Result struct {
	Valid     int
	Invalid   int
	Snapshots []Snapshot
}

// Ok reports whether every part checked out.
func (r *Result) Ok() bool { return r.Invalid == 0 }

// Check runs the whole document. Definitions are valid by construction;
// proof blocks are evaluated step by step against a proof state seeded
// from their theorem. Checking never stops early: a failed part is marked
// invalid and the walk continues, so one pass reports every problem.
func Check(th *theory.Theory) *Result {
	c := &checker{theory: th, result: &Result{}}
	for _, p := range th.Parts {
		c.checkPart(p)
	}
	if c.theorem != nil {
		c.failTheorem()
	}
	slog.Debug("checking finished",
		"document", th.Name,
		"valid", c.result.Valid,
		"invalid", c.result.Invalid,
		"diagnostics", len(th.Diagnostics))
	return c.result
}

type checker struct {
	theory  *theory.Theory
	result  *Result
	state   *proof.ProofState
	theorem *theory.TheoremPart
}

func (c *checker) checkPart(p theory.Part) {
	info := p.Info()
	info.Status = theory.StatusChecking

	switch part := p.(type) {
	case *theory.GenPart, *theory.LetPart, *theory.RulePart:
		c.setStatus(info, true)

	case *theory.TheoremPart:
		if c.theorem != nil {
			c.failTheorem()
		}
		slog.Debug("checking theorem", "name", part.Name, "line", part.Line)
		c.theorem = part
		goal := proof.NewGoal(part.Formula.Copy())
		c.state = proof.New(c.theory, part.Sequence, goal)
		// The theorem's own status is decided at qed.

	case *theory.ProofStartPart:
		c.setStatus(info, c.theorem != nil)
		if c.theorem == nil {
			c.theory.Report(part.Line, "Proof without a preceding theorem.")
		}

	case *theory.ApplyTacticPart:
		if c.state == nil {
			c.theory.Report(part.Line, "Proof step outside a proof.")
			c.setStatus(info, false)
			return
		}
		c.state.Line = part.Line
		tac, ok := tactic.FromName(part.Tactic, part.Args)
		if !ok {
			c.theory.Report(part.Line, fmt.Sprintf("Unknown tactic: %s.", part.Tactic))
			c.setStatus(info, false)
			return
		}
		done := tac.Check(c.state)
		if !done {
			c.theory.Report(part.Line, fmt.Sprintf("Tactic %s failed to close the goal.", tac.Name()))
		}
		c.setStatus(info, done)
		c.snapshot(part.Line)

	case *theory.RewriteStepPart:
		if c.state == nil {
			c.theory.Report(part.Line, "Proof step outside a proof.")
			c.setStatus(info, false)
			return
		}
		c.state.Line = part.Line
		rw := tactic.RewriteTac{Side: part.Side, Term: part.NewSide.Copy()}
		if !rw.Run(c.state) {
			c.setStatus(info, false)
			c.snapshot(part.Line)
			return
		}
		tac, ok := tactic.FromName(part.Tactic, part.Args)
		if !ok {
			c.theory.Report(part.Line, fmt.Sprintf("Unknown tactic: %s.", part.Tactic))
			c.setStatus(info, false)
			return
		}
		done := tac.Check(c.state)
		if !done {
			c.theory.Report(part.Line, fmt.Sprintf("Tactic %s failed to close the goal.", tac.Name()))
		}
		c.setStatus(info, done)
		c.snapshot(part.Line)

	case *theory.ProofQedPart:
		if c.state == nil || c.theorem == nil {
			c.theory.Report(part.Line, "qed without an open proof.")
			c.setStatus(info, false)
			return
		}
		open := c.state.NumGoals()
		if open > 0 {
			c.theory.Report(part.Line, fmt.Sprintf(
				"Proof of %s is incomplete (%d open goals).", c.theorem.Name, open))
		}
		c.setStatus(info, open == 0)
		c.setStatus(c.theorem.Info(), open == 0)
		c.state = nil
		c.theorem = nil
	}
}

// failTheorem marks a theorem that never reached qed.
func (c *checker) failTheorem() {
	c.theory.Report(c.theorem.Line, fmt.Sprintf("Theorem %s is not proven.", c.theorem.Name))
	c.setStatus(c.theorem.Info(), false)
	c.state = nil
	c.theorem = nil
}

func (c *checker) setStatus(info *theory.PartInfo, ok bool) {
	if ok {
		info.Status = theory.StatusValid
		c.result.Valid++
	} else {
		info.Status = theory.StatusInvalid
		c.result.Invalid++
	}
}

func (c *checker) snapshot(line int) {
	c.result.Snapshots = append(c.result.Snapshots, Snapshot{
		Line:  line,
		State: c.state.Snapshot(line),
	})
}
