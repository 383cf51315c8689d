package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output   string  // base path for outputs (default: input without .layout.json)
	formats  string  // comma-separated: dot, svg, pdf, png, json
	detailed bool    // include generation and weight in labels
	scale    float64 // PNG scale factor
	noCache  bool
}

// renderCommand creates the render command for turning a layout into artifacts.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render [layout.json]",
		Short: "Render a computed layout to DOT, SVG, PDF or PNG",
		Long: `Render a computed layout to DOT, SVG, PDF or PNG.

The render command reads a layout.json produced by 'layout' and projects it
onto the X/Y plane. Generations read top to bottom with the eldest first.

PDF and PNG output require rsvg-convert on PATH.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output base path (default: <input>)")
	cmd.Flags().StringVarP(&opts.formats, "format", "f", pipeline.FormatSVG, "output formats: dot, svg, pdf, png, json (comma-separated)")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "include generation and weight in labels")
	cmd.Flags().Float64Var(&opts.scale, "scale", pipeline.DefaultScale, "PNG scale factor")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runRender(ctx context.Context, input string, opts renderOpts) error {
	l, err := graph.ReadLayoutFile(input)
	if err != nil {
		return fmt.Errorf("load layout %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	formats := parseFormats(opts.formats)
	prog := newProgress(c.Logger)

	artifacts, cached, err := runner.RenderWithCacheInfo(ctx, l, pipeline.Options{
		Formats:  formats,
		Detailed: opts.detailed,
		Scale:    opts.scale,
		Logger:   c.Logger,
	})
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	prog.done(fmt.Sprintf("Rendered %d formats", len(formats)))

	base := renderBase(input, opts.output)
	printSuccess("Render complete")
	for _, format := range formats {
		path := base + "." + format
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return fmt.Errorf("write output %s: %w", path, err)
		}
		printFile(path)
	}
	printStats(len(l.Nodes), len(l.Edges), l.Algorithm, cached)

	return nil
}

// renderBase strips the layout suffix so "tree.layout.json" renders to
// "tree.svg". An explicit output keeps everything but a known extension.
func renderBase(input, output string) string {
	if output != "" {
		for _, f := range pipeline.ValidFormats {
			if strings.HasSuffix(output, "."+f) {
				return strings.TrimSuffix(output, "."+f)
			}
		}
		return output
	}
	if base, ok := strings.CutSuffix(input, ".layout.json"); ok {
		return base
	}
	return outputPath(input, "", "")
}
