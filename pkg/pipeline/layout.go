package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/kin"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/observability"
)

// Build constructs the family graph for ds. The dataset must already be
// validated.
func Build(ctx context.Context, ds *family.Dataset) *kin.Graph {
	start := time.Now()
	g := kin.Build(ds)
	observability.Pipeline().OnBuildComplete(ctx, g.NodeCount(), g.EdgeCount(), len(g.Unreached()), time.Since(start))
	return g
}

// ComputeLayout runs the force simulation on g and snapshots the result.
// g's node positions are updated in place.
func ComputeLayout(ctx context.Context, g *kin.Graph, opts Options) (graph.Layout, layout.Stats, error) {
	solverOpts := []layout.Option{
		layout.WithSeed(opts.Seed),
		layout.WithLogger(opts.Logger),
	}
	if opts.Progress != nil {
		solverOpts = append(solverOpts, layout.WithProgress(opts.Progress))
	}
	solver := layout.NewSolver(opts.Layout, solverOpts...)

	hooks := observability.Pipeline()
	algo := solver.Algorithm(g.NodeCount())
	hooks.OnLayoutStart(ctx, string(algo), g.NodeCount())

	stats, err := solver.Calculate(ctx, g)
	hooks.OnLayoutComplete(ctx, string(algo), stats.Iterations, stats.Duration, err)
	if err != nil {
		return graph.Layout{}, stats, err
	}

	l := graph.FromGraph(g, solver.Config(), opts.Seed)
	l.Algorithm = string(stats.Algorithm)
	return l, stats, nil
}
