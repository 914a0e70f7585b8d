// Package match implements occurrence finding: structure-preserving
// embeddings of one hypergraph into another, enumerated lazily, plus
// isomorphism testing between cospans of graphs.
package match

import (
	"fmt"
	"slices"

	"github.com/skein-lang/skein/internal/graph"
)

// Match is an embedding of Domain into Codomain.
//
// VertexMap and EdgeMap translate domain identities to codomain identities.
// VertexImage and EdgeImage record the codomain identities hit by the maps;
// on matches produced by rewriting they additionally flag which codomain
// items are freshly introduced rather than part of a found image.
type Match struct {
	Domain   *graph.Graph
	Codomain *graph.Graph

	VertexMap   map[int]int
	VertexImage map[int]bool
	EdgeMap     map[int]int
	EdgeImage   map[int]bool
}

// NewMatch returns the empty partial match of domain into codomain.
func NewMatch(domain, codomain *graph.Graph) *Match {
	return &Match{
		Domain:      domain,
		Codomain:    codomain,
		VertexMap:   make(map[int]int),
		VertexImage: make(map[int]bool),
		EdgeMap:     make(map[int]int),
		EdgeImage:   make(map[int]bool),
	}
}

// Copy returns a match sharing the domain and codomain graphs but owning
// fresh map state. Partial matches are extended on copies during search, so
// sibling branches never interfere.
func (m *Match) Copy() *Match {
	c := &Match{
		Domain:      m.Domain,
		Codomain:    m.Codomain,
		VertexMap:   make(map[int]int, len(m.VertexMap)),
		VertexImage: make(map[int]bool, len(m.VertexImage)),
		EdgeMap:     make(map[int]int, len(m.EdgeMap)),
		EdgeImage:   make(map[int]bool, len(m.EdgeImage)),
	}
	for k, v := range m.VertexMap {
		c.VertexMap[k] = v
	}
	for k := range m.VertexImage {
		c.VertexImage[k] = true
	}
	for k, v := range m.EdgeMap {
		c.EdgeMap[k] = v
	}
	for k := range m.EdgeImage {
		c.EdgeImage[k] = true
	}
	return c
}

func (m *Match) String() string {
	return fmt.Sprintf("vertex map: %v, edge map: %v", m.VertexMap, m.EdgeMap)
}

// tryAddVertex attempts to extend the match by sending dv to cv.
//
// The extension is rejected unless it preserves vertex type and size, sends
// interior vertices to interior vertices, is injective away from the domain
// boundary, and can still satisfy the gluing conditions.
func (m *Match) tryAddVertex(dv, cv int) bool {
	if img, ok := m.VertexMap[dv]; ok {
		return img == cv
	}

	dd := m.Domain.VertexData(dv)
	cd := m.Codomain.VertexData(cv)
	if dd.VType != cd.VType || dd.Size != cd.Size {
		return false
	}

	// Interior domain vertices may not land on the codomain boundary:
	// the context around the occurrence must survive rewriting.
	if m.Codomain.IsBoundary(cv) && !m.Domain.IsBoundary(dv) {
		return false
	}

	// Matches may be non-injective only where every colliding domain
	// vertex is a boundary vertex.
	if m.VertexImage[cv] {
		if !m.Domain.IsBoundary(dv) {
			return false
		}
		for prev, img := range m.VertexMap {
			if img == cv && !m.Domain.IsBoundary(prev) {
				return false
			}
		}
	}

	m.VertexMap[dv] = cv
	m.VertexImage[cv] = true

	// For interior vertices the whole neighbourhood must be matched, and
	// edges match injectively, so equal neighbourhood sizes are exactly
	// the gluing conditions.
	if !m.Domain.IsBoundary(dv) {
		if len(m.Domain.InEdges(dv)) != len(m.Codomain.InEdges(cv)) {
			return false
		}
		if len(m.Domain.OutEdges(dv)) != len(m.Codomain.OutEdges(cv)) {
			return false
		}
	}
	return true
}

// tryAddEdge attempts to extend the match by sending de to ce, matching
// endpoint sequences position by position.
func (m *Match) tryAddEdge(de, ce int) bool {
	dd := m.Domain.EdgeData(de)
	cd := m.Codomain.EdgeData(ce)
	if dd.Value != cd.Value {
		return false
	}
	if m.EdgeImage[ce] {
		return false
	}

	if len(dd.Sources) != len(cd.Sources) || len(dd.Targets) != len(cd.Targets) {
		return false
	}

	m.EdgeMap[de] = ce
	m.EdgeImage[ce] = true

	for i, dv := range dd.Sources {
		if !m.tryAddVertex(dv, cd.Sources[i]) {
			return false
		}
	}
	for i, dv := range dd.Targets {
		if !m.tryAddVertex(dv, cd.Targets[i]) {
			return false
		}
	}
	return true
}

// domainNeighbourhoodMapped reports whether every edge adjacent to dv has
// been matched.
func (m *Match) domainNeighbourhoodMapped(dv int) bool {
	for _, e := range m.Domain.InEdges(dv) {
		if _, ok := m.EdgeMap[e]; !ok {
			return false
		}
	}
	for _, e := range m.Domain.OutEdges(dv) {
		if _, ok := m.EdgeMap[e]; !ok {
			return false
		}
	}
	return true
}

// mapScalars greedily matches every scalar (edge with no endpoints) in the
// domain to an unused codomain scalar of the same value. Scalar choices
// never affect rewriting up to isomorphism, so one greedy assignment stands
// in for them all.
func (m *Match) mapScalars() bool {
	type scalar struct {
		e     int
		value string
	}
	var available []scalar
	for _, e := range m.Codomain.Edges() {
		ed := m.Codomain.EdgeData(e)
		if len(ed.Sources) == 0 && len(ed.Targets) == 0 {
			available = append(available, scalar{e, ed.Value})
		}
	}

	for _, e := range m.Domain.Edges() {
		ed := m.Domain.EdgeData(e)
		if len(ed.Sources) != 0 || len(ed.Targets) != 0 {
			continue
		}
		found := false
		for i, cand := range available {
			if cand.value == ed.Value {
				m.EdgeMap[e] = cand.e
				m.EdgeImage[cand.e] = true
				available = slices.Delete(available, i, i+1)
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// more returns the matches extending this one by a single vertex or edge.
// Adjacent unmatched edges of already-matched vertices are tried first so
// the search stays anchored to the partial image.
func (m *Match) more() []*Match {
	var extended []*Match

	for _, dv := range sortedIntKeys(m.VertexMap) {
		if m.domainNeighbourhoodMapped(dv) {
			continue
		}
		cv := m.VertexMap[dv]

		for _, de := range m.Domain.InEdges(dv) {
			if _, ok := m.EdgeMap[de]; ok {
				continue
			}
			for _, ce := range m.Codomain.InEdges(cv) {
				cand := m.Copy()
				if cand.tryAddEdge(de, ce) {
					extended = append(extended, cand)
				}
			}
			return extended
		}

		for _, de := range m.Domain.OutEdges(dv) {
			if _, ok := m.EdgeMap[de]; ok {
				continue
			}
			for _, ce := range m.Codomain.OutEdges(cv) {
				cand := m.Copy()
				if cand.tryAddEdge(de, ce) {
					extended = append(extended, cand)
				}
			}
			return extended
		}
	}

	for _, dv := range m.Domain.Vertices() {
		if _, ok := m.VertexMap[dv]; ok {
			continue
		}
		for _, cv := range m.Codomain.Vertices() {
			cand := m.Copy()
			if cand.tryAddVertex(dv, cv) {
				extended = append(extended, cand)
			}
		}
		return extended
	}

	return nil
}

// IsTotal reports whether every domain vertex and edge has been mapped.
func (m *Match) IsTotal() bool {
	return len(m.VertexMap) == m.Domain.NumVertices() &&
		len(m.EdgeMap) == m.Domain.NumEdges()
}

// IsSurjective reports whether the maps cover the whole codomain.
func (m *Match) IsSurjective() bool {
	return len(m.VertexImage) == m.Codomain.NumVertices() &&
		len(m.EdgeImage) == m.Codomain.NumEdges()
}

// IsInjective reports whether the vertex map is injective. The edge map is
// injective by construction.
func (m *Match) IsInjective() bool {
	return len(m.VertexMap) == len(m.VertexImage)
}

// IsConvex reports whether the match is injective and its image is a convex
// sub-hypergraph: no path may leave the image through its outputs and
// re-enter through its inputs.
func (m *Match) IsConvex() bool {
	if !m.IsInjective() {
		return false
	}
	var outImages []int
	for _, v := range m.Domain.Outputs() {
		if img, ok := m.VertexMap[v]; ok {
			outImages = append(outImages, img)
		}
	}
	succ := m.Codomain.Successors(outImages)
	for _, v := range m.Domain.Inputs() {
		if img, ok := m.VertexMap[v]; ok && succ[img] {
			return false
		}
	}
	return true
}

func sortedIntKeys(m map[int]int) []int {
	ks := make([]int, 0, len(m))
	for k := range m {
		ks = append(ks, k)
	}
	slices.Sort(ks)
	return ks
}
