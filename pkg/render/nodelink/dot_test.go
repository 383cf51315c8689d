package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/lineage/pkg/graph"
)

func sampleLayout() graph.Layout {
	return graph.Layout{
		Focal: "c",
		Nodes: []graph.Node{
			{ID: "a", Name: "Ann", Generation: -1, BioWeight: 0.5},
			{ID: "b", Name: "Bob", Generation: -1},
			{ID: "c", Name: "Cal", Generation: 0},
			{ID: "d", Generation: 0},
			{ID: "x", Unreached: true},
		},
		Edges: []graph.Edge{
			{Source: "a", Target: "c", Kind: "parent-child", Strength: 1},
			{Source: "a", Target: "b", Kind: "spouse", Strength: 0.8},
			{Source: "c", Target: "d", Kind: "sibling", Strength: 0.6},
		},
	}
}

func TestToDOT_Basic(t *testing.T) {
	dot := ToDOT(sampleLayout(), Options{})

	for _, want := range []string{
		"digraph G",
		`"a" [label="Ann"`,
		`"d" [label="d"]`,
		`"a" -> "c";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
}

func TestToDOT_RanksByGeneration(t *testing.T) {
	dot := ToDOT(sampleLayout(), Options{})

	if n := strings.Count(dot, "rank=same"); n != 2 {
		t.Errorf("rank=same subgraphs = %d, want 2", n)
	}
	older := strings.Index(dot, "generation -1")
	focal := strings.Index(dot, "generation 0")
	if older < 0 || focal < 0 || older > focal {
		t.Error("generation ranks should be emitted oldest first")
	}
}

func TestToDOT_EdgeStyles(t *testing.T) {
	dot := ToDOT(sampleLayout(), Options{})

	if !strings.Contains(dot, `"a" -> "b" [dir=none, constraint=false, style=bold`) {
		t.Error("spouse edge should be undirected and bold")
	}
	if !strings.Contains(dot, `"c" -> "d" [dir=none, constraint=false, style=dotted`) {
		t.Error("sibling edge should be undirected and dotted")
	}
}

func TestFmtLabel(t *testing.T) {
	n := graph.Node{ID: "c", Name: "Cal", Generation: 2, BioWeight: 0.25, X: 1, Y: 2, Z: 3}

	if got := fmtLabel(n, false); got != "Cal" {
		t.Errorf("fmtLabel() simple = %q, want Cal", got)
	}
	label := fmtLabel(n, true)
	for _, want := range []string{"Cal\n", "generation: 2", "bio: 0.25", "pos: 1.0, 2.0, 3.0"} {
		if !strings.Contains(label, want) {
			t.Errorf("fmtLabel() detailed = %q, missing %q", label, want)
		}
	}
}

func TestFmtAttrs(t *testing.T) {
	tests := []struct {
		name  string
		node  graph.Node
		count int
		want  string
	}{
		{"plain", graph.Node{ID: "p"}, 1, "label="},
		{"weighted", graph.Node{ID: "p", BioWeight: 1}, 2, "penwidth=4.00"},
		{"focal", graph.Node{ID: "f"}, 2, "lightyellow"},
		{"unreached", graph.Node{ID: "u", Unreached: true}, 4, "dashed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			attrs := fmtAttrs(tt.node, "f", "label")
			if len(attrs) != tt.count {
				t.Errorf("fmtAttrs() = %v, want %d attrs", attrs, tt.count)
			}
			if !strings.Contains(strings.Join(attrs, " "), tt.want) {
				t.Errorf("fmtAttrs() = %v, missing %q", attrs, tt.want)
			}
		})
	}
}

func TestNormalizeViewBox(t *testing.T) {
	tests := []struct {
		name string
		svg  string
		want string
	}{
		{
			name: "with viewBox",
			svg:  `<svg viewBox="10 20 800 600" xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 800.00 600.00" width="800" height="600">content</svg>`,
		},
		{
			name: "no viewBox",
			svg:  `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
			want: `<svg xmlns="http://www.w3.org/2000/svg">content</svg>`,
		},
		{
			name: "zero dimensions",
			svg:  `<svg viewBox="0 0 0 0">content</svg>`,
			want: `<svg viewBox="0 0 0 0">content</svg>`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := normalizeViewBox([]byte(tt.svg))
			if string(got) != tt.want {
				t.Errorf("normalizeViewBox() = %q, want %q", string(got), tt.want)
			}
		})
	}
}

func TestRenderSVG(t *testing.T) {
	svg, err := RenderSVG(context.Background(), ToDOT(sampleLayout(), Options{}))
	if err != nil {
		t.Fatalf("RenderSVG() error: %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output missing <svg> tag")
	}
}

func TestRenderSVG_InvalidDOT(t *testing.T) {
	if _, err := RenderSVG(context.Background(), `not valid DOT {{{`); err == nil {
		t.Error("RenderSVG() should return error for invalid DOT")
	}
}
