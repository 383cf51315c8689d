package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/layout"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// layoutOptions holds the flag values of the layout command.
type layoutOptions struct {
	output   string
	noCache  bool
	seed     uint64
	formats  string
	detailed bool
	refresh  bool
	scale    float64
	layout   layout.Config
}

// layoutCommand creates the layout command for computing 3D layouts.
func (c *CLI) layoutCommand() *cobra.Command {
	var lo layoutOptions

	cmd := &cobra.Command{
		Use:   "layout [dataset.json]",
		Short: "Compute a 3D family tree layout from a dataset",
		Long: `Compute a 3D family tree layout from a dataset.

The layout command reads a family dataset, builds the kinship graph, runs the
force-directed simulation and writes <input>.layout.json. Additional formats
(dot, svg, pdf, png) are written next to it when requested with --format.

Layouts are deterministic for a given dataset, seed and configuration and are
cached locally for faster subsequent runs.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := mergeLayoutFlags(cmd.Flags(), lo.layout, c.config.Layout)
			return c.runLayout(cmd.Context(), args[0], cfg, lo)
		},
	}

	cmd.Flags().StringVarP(&lo.output, "output", "o", "", "output file (default: <input>.layout.json)")
	cmd.Flags().BoolVar(&lo.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&lo.refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().Uint64Var(&lo.seed, "seed", pipeline.DefaultSeed, "random seed for initial placement")
	cmd.Flags().StringVarP(&lo.formats, "format", "f", pipeline.FormatJSON, "output formats: json, dot, svg, pdf, png (comma-separated)")
	cmd.Flags().BoolVar(&lo.detailed, "detailed", false, "include generation and weight in rendered labels")
	cmd.Flags().Float64Var(&lo.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	bindLayoutFlags(cmd.Flags(), &lo.layout)

	return cmd
}

// runLayout loads the dataset, runs the pipeline, and writes every artifact.
func (c *CLI) runLayout(ctx context.Context, input string, cfg layout.Config, lo layoutOptions) error {
	ds, err := family.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, lo.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	res, err := runner.Execute(ctx, ds, pipeline.Options{
		Layout:   cfg,
		Seed:     lo.seed,
		Formats:  parseFormats(lo.formats),
		Detailed: lo.detailed,
		Scale:    lo.scale,
		Refresh:  lo.refresh,
		Logger:   c.Logger,
		Progress: layoutProgress(spinner, "Simulating"),
	})
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	written, err := writeArtifacts(input, lo.output, res)
	if err != nil {
		return err
	}

	printSuccess("Layout complete")
	for _, path := range written {
		printFile(path)
	}
	printStats(res.Stats.NodeCount, res.Stats.EdgeCount, string(res.Stats.Algorithm), res.CacheInfo.LayoutHit)
	if res.Stats.Unreached > 0 {
		printWarning("%d people are not connected to %s", res.Stats.Unreached, res.Layout.Focal)
	}
	printNewline()
	printNextStep("Inspect", appName+" inspect "+input)

	return nil
}

// writeArtifacts writes the layout JSON plus every other rendered format.
// The JSON goes to output when set; other formats always sit next to input.
func writeArtifacts(input, output string, res *pipeline.Result) ([]string, error) {
	jsonPath := outputPath(input, output, ".layout.json")
	if err := graph.WriteLayoutFile(res.Layout, jsonPath); err != nil {
		return nil, fmt.Errorf("write output %s: %w", jsonPath, err)
	}
	written := []string{jsonPath}

	for _, format := range pipeline.ValidFormats {
		data, ok := res.Artifacts[format]
		if !ok || format == pipeline.FormatJSON {
			continue
		}
		path := outputPath(input, "", "."+format)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return written, fmt.Errorf("write output %s: %w", path, err)
		}
		written = append(written, path)
	}
	return written, nil
}
