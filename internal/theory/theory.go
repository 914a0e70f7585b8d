// Package theory holds the document model for a skein theory: named
// generators, proven rules with their document positions, the parts making
// up the document, and the diagnostics log produced while checking it.
package theory

import (
	"fmt"
	"sort"

	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/rule"
)

// Diagnostic is one entry of the checking log.
type Diagnostic struct {
	Document string `json:"document"`
	Line     int    `json:"line"`
	Message  string `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s:%d: %s", d.Document, d.Line, d.Message)
}

// Theory is the enclosing context of a checking pass. Proof states hold a
// read-only back-reference to their theory for rule resolution; only the
// diagnostics log is appended to while checking.
type Theory struct {
	// Name identifies the document, typically its file name.
	Name string

	// Graphs holds named terms introduced by gen and let parts.
	Graphs map[string]*graph.Graph

	// Rules holds the rules and proven theorems of the document.
	Rules map[string]*rule.Rule

	// RuleSequence records the document sequence position at which each
	// rule was defined. A rule is only usable strictly after its own
	// position.
	RuleSequence map[string]int

	// Parts lists the document parts in order.
	Parts []Part

	// Diagnostics is the ordered checking log. It is append-only during
	// a pass; deduplication happens per proof state.
	Diagnostics []Diagnostic
}

// New returns an empty theory for the named document.
func New(name string) *Theory {
	return &Theory{
		Name:         name,
		Graphs:       make(map[string]*graph.Graph),
		Rules:        make(map[string]*rule.Rule),
		RuleSequence: make(map[string]int),
	}
}

// AddGraph registers a named term graph.
func (t *Theory) AddGraph(name string, g *graph.Graph) {
	t.Graphs[name] = g
}

// AddRule registers a rule at the given document sequence position.
func (t *Theory) AddRule(r *rule.Rule, sequence int) {
	t.Rules[r.Name] = r
	t.RuleSequence[r.Name] = sequence
}

// Rule returns the named rule and its sequence position.
func (t *Theory) Rule(name string) (*rule.Rule, int, bool) {
	r, ok := t.Rules[name]
	if !ok {
		return nil, 0, false
	}
	return r, t.RuleSequence[name], true
}

// RuleNamesBefore returns, sorted, the names of rules defined strictly
// before sequence position seq. These are exactly the rules a proof at seq
// may use.
func (t *Theory) RuleNamesBefore(seq int) []string {
	var names []string
	for name, s := range t.RuleSequence {
		if s < seq {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Report appends a diagnostic for the given line to the log.
func (t *Theory) Report(line int, message string) {
	t.Diagnostics = append(t.Diagnostics, Diagnostic{Document: t.Name, Line: line, Message: message})
}
