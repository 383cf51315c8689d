// Package pkg provides the core libraries for Lineage family tree layouts.
//
// # Overview
//
// Lineage turns a genealogy dataset into a 3D force-directed layout. Each
// generation relative to a focal person sits on its own horizontal layer,
// relatives are pulled together by springs whose strength depends on the
// relationship, and everyone pushes everyone else apart.
//
// # Architecture
//
// The typical data flow:
//
//	family.json
//	     ↓
//	[family] package (read + validate dataset)
//	     ↓
//	[kin] package (relationship graph + generations)
//	     ↓
//	[layout] package (force simulation, [octree] for large graphs)
//	     ↓
//	[graph] package (serializable layout snapshot)
//	     ↓
//	[render/nodelink] package (DOT/SVG), [render] (PDF/PNG)
//
// # Quick Start
//
//	ds, _ := family.ReadFile("family.json")
//	g := kin.Build(ds)
//
//	solver := layout.NewSolver(layout.DefaultConfig(), layout.WithSeed(42))
//	if _, err := solver.Calculate(ctx, g); err != nil {
//	    return err
//	}
//
//	l := graph.FromGraph(g, solver.Config(), 42)
//	dot := nodelink.ToDOT(l, nodelink.Options{})
//
// # Main Packages
//
// ## Domain
//
// [family] - Dataset types (people, events, notes), JSON reading and
// validation.
//
// [kin] - Arena-backed relationship graph. Builds parent-child, spouse and
// sibling edges, assigns signed generations by breadth-first search from the
// focal person and derives biography weights.
//
// [octree] - Barnes-Hut octree over 3D bodies for O(n log n) repulsion.
//
// [layout] - Deterministic force-directed solver with a linear cooling
// schedule, direct and Barnes-Hut repulsion, and generation layering.
//
// [graph] - Layout snapshots in JSON and BSON.
//
// ## Rendering
//
// [render/nodelink] - Graphviz DOT projection and SVG rendering.
//
// [render] - SVG to PDF/PNG conversion.
//
// ## Infrastructure
//
// [pipeline] - Build → layout → render orchestration with caching, shared by
// the CLI and the API server.
//
// [cache] - Key-value caches (file, Redis, null) and cache key derivation.
//
// [store] - Layout persistence (memory, file, MongoDB).
//
// [config] - TOML configuration.
//
// [errors] - Coded errors shared by every layer.
//
// [observability] - Pipeline, cache and HTTP hooks with a Prometheus
// implementation.
//
// # Testing
//
//	go test ./pkg/...        # All tests
//	go test ./pkg/layout/... # Specific package
//	go test -run Example     # Examples only
//
// [family]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/family
// [kin]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/kin
// [octree]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/octree
// [layout]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/layout
// [graph]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/graph
// [render]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/render/nodelink
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/store
// [config]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/config
// [errors]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/lineage/pkg/observability
package pkg
