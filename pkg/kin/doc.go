// Package kin builds the family graph that the layout engine consumes.
//
// # Overview
//
// [Build] turns a [family.Dataset] into a [Graph]: one [Node] per person in
// input order, one [Edge] per relationship, inferred sibling edges, a focal
// person and a signed generation for every node reachable from it.
//
// Nodes live in a single contiguous slice (an arena) with a separate
// identifier to index table, so the simulation loop in
// [github.com/matzehuels/lineage/pkg/layout] can address nodes by index.
//
// # Edges
//
// Relationships are undirected pairs tagged with a [Kind]. Each kind has a
// fixed strength used by the layout springs:
//
//	parent-child  1.0
//	spouse        0.8
//	sibling       0.6
//
// At most one edge exists per (unordered pair, kind). Declaring a
// relationship from both sides (childIds on the parent and parentIds on the
// child) yields a single edge. Parent-child edges keep their direction in
// [Edge.Source] (parent) and [Edge.Target] (child) for generation propagation.
//
// # Generations
//
// The focal person is generation 0. Breadth-first propagation assigns -1 to
// parents, +1 to children and the same generation to spouses and siblings.
// People the traversal never reaches keep the placeholder 0 and report
// [Node.Reached] == false.
//
// # Errors
//
// Build never fails. References to unknown persons are skipped and an
// unresolvable focal identifier leaves every generation at 0.
package kin
