// Package graph provides the serialization format for computed family layouts.
//
// A [Layout] is the read-only snapshot handed to renderers: final node
// positions, generations and biography weights, plus the edge list and the
// parameters that produced it. It is the wire format for JSON files, API
// responses, cache entries and stored records, and carries matching bson tags
// for the MongoDB store.
//
// # Building
//
//	g := kin.Build(ds)
//	solver.Calculate(ctx, g)
//	l := graph.FromGraph(g, solver.Config(), seed)
//
// # Files
//
//	graph.WriteLayoutFile(l, "family.layout.json")
//	l, err := graph.ReadLayoutFile("family.layout.json")
//
// [UnmarshalLayout] rejects layouts whose edges reference unknown nodes.
//
// # Concurrency
//
// All functions are safe for concurrent reads but not concurrent writes.
package graph
