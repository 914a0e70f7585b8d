// Package graph implements the mutable directed hypergraph underlying skein
// proofs.
//
// A hypergraph consists of vertices connected by hyperedges, where each
// hyperedge carries an ordered list of source vertices and an ordered list of
// target vertices. Repeated endpoints and fan-in/fan-out are allowed. A graph
// additionally declares an ordered input boundary and output boundary;
// vertices on either boundary are boundary vertices, everything else is
// interior.
//
// Vertex and edge identifiers are small integers handed out by monotone
// counters. Identifiers are never reused after removal, so surgery performed
// by the rewriter can record identities across edits without collisions.
//
// All structural edits mutate the receiver in place. Code that needs an
// independently mutable value must call Copy; no operation ever shares
// internal state between two Graph values.
package graph
