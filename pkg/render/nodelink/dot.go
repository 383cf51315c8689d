package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/lineage/pkg/graph"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds generation, biography weight and position to labels.
	// When false, only the display name is shown.
	Detailed bool
}

// ToDOT converts a layout to Graphviz DOT. The result can be rendered with
// [RenderSVG].
func ToDOT(l graph.Layout, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=24, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.8;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	for _, n := range l.Nodes {
		attrs := fmtAttrs(n, l.Focal, fmtLabel(n, opts.Detailed))
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	byGen := l.ByGeneration()
	for _, gen := range l.Generations() {
		fmt.Fprintf(&buf, "\n  { rank=same; // generation %d\n", gen)
		for _, n := range byGen[gen] {
			fmt.Fprintf(&buf, "    %q;\n", n.ID)
		}
		buf.WriteString("  }\n")
	}

	buf.WriteString("\n")
	for _, e := range l.Edges {
		attrs := edgeAttrs(e.Kind)
		if len(attrs) == 0 {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
			continue
		}
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(attrs, ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(n graph.Node, detailed bool) string {
	if !detailed {
		return n.Label()
	}
	parts := []string{
		fmt.Sprintf("generation: %d", n.Generation),
		fmt.Sprintf("bio: %.2f", n.BioWeight),
		fmt.Sprintf("pos: %.1f, %.1f, %.1f", n.X, n.Y, n.Z),
	}
	return n.Label() + "\n" + strings.Join(parts, "\n")
}

func fmtAttrs(n graph.Node, focal, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if w := 1 + 3*n.BioWeight; w > 1 {
		attrs = append(attrs, fmt.Sprintf("penwidth=%.2f", w))
	}
	switch {
	case n.ID == focal:
		attrs = append(attrs, "fillcolor=lightyellow")
	case n.Unreached:
		attrs = append(attrs, "style=\"rounded,filled,dashed\"", "fillcolor=lightgrey", "fontcolor=dimgrey")
	}
	return attrs
}

func edgeAttrs(kind string) []string {
	switch kind {
	case "spouse":
		return []string{"dir=none", "constraint=false", "style=bold", "color=firebrick"}
	case "sibling":
		return []string{"dir=none", "constraint=false", "style=dotted", "color=grey40"}
	}
	return nil
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with
// render.ToPDF or render.ToPNG.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's point-based svg header with one
// whose viewBox starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	header := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(header))
}
