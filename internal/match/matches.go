package match

import (
	"slices"

	"github.com/skein-lang/skein/internal/graph"
	"github.com/skein-lang/skein/internal/rule"
)

// Matches lazily enumerates total matches of a domain graph into a codomain
// graph. It keeps an explicit stack of partial matches; each call to Next
// pops and extends partial matches until the next total (and, if requested,
// convex) match surfaces. Callers pull one result at a time and may stop
// pulling at any point.
type Matches struct {
	convex bool
	stack  []*Match
}

// Option configures a Matches cursor.
type Option func(*Matches)

// AnyMatch disables the convexity requirement.
func AnyMatch() Option {
	return func(ms *Matches) { ms.convex = false }
}

// MatchGraph returns a cursor over the matches of domain into codomain.
// Only convex matches are produced unless convexity is disabled with
// AnyMatch.
func MatchGraph(domain, codomain *graph.Graph, opts ...Option) *Matches {
	return newMatches(NewMatch(domain, codomain), opts...)
}

// MatchRule returns a cursor over the matches of the left side of r into g.
func MatchRule(r *rule.Rule, g *graph.Graph, opts ...Option) *Matches {
	return MatchGraph(r.LHS, g, opts...)
}

func newMatches(initial *Match, opts ...Option) *Matches {
	ms := &Matches{convex: true}
	for _, opt := range opts {
		opt(ms)
	}
	// A failed scalar assignment means no total match exists at all.
	if initial.mapScalars() {
		ms.stack = []*Match{initial}
	}
	return ms
}

// Next returns the next suitable match, or nil when the enumeration is
// exhausted.
func (ms *Matches) Next() *Match {
	for len(ms.stack) > 0 {
		m := ms.stack[len(ms.stack)-1]
		ms.stack = ms.stack[:len(ms.stack)-1]
		if m.IsTotal() {
			if !ms.convex || m.IsConvex() {
				return m
			}
			continue
		}
		ms.stack = append(ms.stack, m.more()...)
	}
	return nil
}

// All drains the cursor and returns the remaining matches.
func (ms *Matches) All() []*Match {
	var all []*Match
	for m := ms.Next(); m != nil; m = ms.Next() {
		all = append(all, m)
	}
	return all
}

// FindIso returns an isomorphism between the cospans g and h, or nil if the
// graphs are not isomorphic. Boundaries must correspond port for port: the
// search is seeded by mapping each boundary vertex of g to the vertex at the
// same port position of h.
func FindIso(g, h *graph.Graph) *Match {
	if !slices.Equal(g.Domain(), h.Domain()) || !slices.Equal(g.Codomain(), h.Codomain()) {
		return nil
	}

	initial := NewMatch(g, h)
	hIn := h.Inputs()
	for i, v := range g.Inputs() {
		if !initial.tryAddVertex(v, hIn[i]) {
			return nil
		}
	}
	hOut := h.Outputs()
	for i, v := range g.Outputs() {
		if !initial.tryAddVertex(v, hOut[i]) {
			return nil
		}
	}

	ms := newMatches(initial, AnyMatch())
	for m := ms.Next(); m != nil; m = ms.Next() {
		if m.IsSurjective() {
			return m
		}
	}
	return nil
}
