// Package layout computes 3D positions for a family graph with a
// force-directed simulation.
//
// A [Solver] places nodes on rings by generation, then runs a fixed number
// of steps. Each step sums four forces per node:
//
//   - repulsion between every pair, direct for small graphs and through a
//     Barnes-Hut octree above [Config.BarnesHutThreshold] nodes
//   - springs along edges, with an ideal length per relationship kind
//   - a horizontal pull toward the vertical axis
//   - a vertical pull toward the node's generation layer
//
// Velocities are scaled by a linear cooling schedule before integration, and
// the finished layout is translated so its centroid is the origin.
//
// # Determinism
//
// Initial jitter is the only source of randomness. Two runs with the same
// graph, [Config] and seed produce identical positions:
//
//	s := layout.NewSolver(layout.DefaultConfig(), layout.WithSeed(42))
//	stats, err := s.Calculate(ctx, g)
//
// # Cancellation
//
// [Solver.Calculate] checks its context between steps and returns
// ctx.Err() when cancelled, leaving positions at the last completed step.
package layout
