// Package rule defines rewrite rules: pairs of boundary-aligned hypergraphs
// asserting that the left side may be replaced by the right side wherever it
// occurs.
package rule

import (
	"fmt"
	"slices"
	"strings"

	"github.com/skein-lang/skein/internal/graph"
)

// RuleError reports an attempt to construct a rule whose sides do not agree
// on a boundary signature.
type RuleError struct {
	Message string
}

func (e *RuleError) Error() string { return e.Message }

// Rule pairs two hypergraphs with aligned boundaries. The i-th input port of
// LHS and the i-th input port of RHS denote the same logical wire, and
// symmetrically for outputs; the interiors may differ arbitrarily.
//
// A Rule owns its graphs. Handing a rule across an API boundary that needs
// independent mutability must go through Copy.
type Rule struct {
	LHS  *graph.Graph
	RHS  *graph.Graph
	Name string
}

// New validates that lhs and rhs agree on their input and output signatures
// and returns the rule. Nil sides default to the empty graph.
func New(lhs, rhs *graph.Graph, name string) (*Rule, error) {
	if lhs == nil {
		lhs = graph.New()
	}
	if rhs == nil {
		rhs = graph.New()
	}
	if !slices.Equal(lhs.Domain(), rhs.Domain()) {
		return nil, &RuleError{Message: fmt.Sprintf(
			"inputs must match on lhs and rhs of rule (%v != %v)", rhs.Domain(), lhs.Domain())}
	}
	if !slices.Equal(lhs.Codomain(), rhs.Codomain()) {
		return nil, &RuleError{Message: fmt.Sprintf(
			"outputs must match on lhs and rhs of rule (%v != %v)", rhs.Codomain(), lhs.Codomain())}
	}
	return &Rule{LHS: lhs, RHS: rhs, Name: name}, nil
}

// Copy returns a deep copy sharing no graph state with the receiver.
func (r *Rule) Copy() *Rule {
	return &Rule{LHS: r.LHS.Copy(), RHS: r.RHS.Copy(), Name: r.Name}
}

// Converse returns the rule with its sides swapped. The name gains or loses
// a leading "-" so a converse of a converse restores the original name.
func (r *Rule) Converse() *Rule {
	name := "-" + r.Name
	if stripped, ok := strings.CutPrefix(r.Name, "-"); ok {
		name = stripped
	}
	return &Rule{LHS: r.RHS.Copy(), RHS: r.LHS.Copy(), Name: name}
}

// IsLeftLinear reports whether the boundary of the left side embeds
// injectively, i.e. no vertex serves as more than one port of LHS.
func (r *Rule) IsLeftLinear() bool {
	seen := make(map[int]bool)
	for _, v := range r.LHS.Inputs() {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	for _, v := range r.LHS.Outputs() {
		if seen[v] {
			return false
		}
		seen[v] = true
	}
	return true
}
