package theory

import (
	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/rule"
)

// Status is the checking state of a document part.
type Status int

const (
	StatusUnchecked Status = iota
	StatusChecking
	StatusValid
	StatusInvalid
)

func (s Status) String() string {
	switch s {
	case StatusUnchecked:
		return "unchecked"
	case StatusChecking:
		return "checking"
	case StatusValid:
		return "valid"
	case StatusInvalid:
		return "invalid"
	default:
		return "unknown"
	}
}

// PartInfo carries the fields every document part shares. Its Status is
// written by the checker.
type PartInfo struct {
	Line   int
	Name   string
	Status Status
}

// Info returns the shared part fields.
func (p *PartInfo) Info() *PartInfo { return p }

// Part is one statement of a theory document. The variant set is closed:
// only the types in this package implement it.
type Part interface {
	Info() *PartInfo
	// Kind names the part variant as it appears in documents.
	Kind() string
	isPart()
}

// GenPart declares a generator.
type GenPart struct {
	PartInfo
	Graph *graph.Graph
}

// LetPart names a composite term.
type LetPart struct {
	PartInfo
	Graph *graph.Graph
}

// RulePart asserts a rewrite rule as an axiom.
type RulePart struct {
	PartInfo
	Rule *rule.Rule
}

// TheoremPart states a formula to be proven by the following proof block.
type TheoremPart struct {
	PartInfo
	Formula  *rule.Rule
	Sequence int
}

// ProofStartPart opens a proof block for the preceding theorem.
type ProofStartPart struct {
	PartInfo
	Sequence int
}

// ApplyTacticPart runs a tactic against the current proof state.
type ApplyTacticPart struct {
	PartInfo
	Sequence int
	Tactic   string
	Args     []string
}

// RewriteStepPart replaces one side of the current goal with a new term,
// discharging the generated sub-goal with a tactic.
type RewriteStepPart struct {
	PartInfo
	Sequence int
	Side     Side
	NewSide  *graph.Graph
	Tactic   string
	Args     []string
}

// Side selects the half of a goal formula a rewrite step acts on.
type Side int

const (
	SideLHS Side = iota
	SideRHS
)

func (s Side) String() string {
	if s == SideRHS {
		return "rhs"
	}
	return "lhs"
}

// ProofQedPart closes a proof block; checking it requires no open goals.
type ProofQedPart struct {
	PartInfo
	Sequence int
}

func (*GenPart) isPart()         {}
func (*LetPart) isPart()         {}
func (*RulePart) isPart()        {}
func (*TheoremPart) isPart()     {}
func (*ProofStartPart) isPart()  {}
func (*ApplyTacticPart) isPart() {}
func (*RewriteStepPart) isPart() {}
func (*ProofQedPart) isPart()    {}

func (*GenPart) Kind() string         { return "gen" }
func (*LetPart) Kind() string         { return "let" }
func (*RulePart) Kind() string        { return "rule" }
func (*TheoremPart) Kind() string     { return "theorem" }
func (*ProofStartPart) Kind() string  { return "proof" }
func (*ApplyTacticPart) Kind() string { return "apply" }
func (*RewriteStepPart) Kind() string { return "rewrite" }
func (*ProofQedPart) Kind() string    { return "qed" }
