package graph

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/kin"
	"github.com/matzehuels/lineage/pkg/layout"
)

func sampleGraph(t *testing.T) *kin.Graph {
	t.Helper()
	g := kin.Build(&family.Dataset{
		FocalID: "c",
		People: []family.Person{
			{ID: "a", Name: "Ann"},
			{ID: "b", Name: "Bob", ChildIDs: []string{"c"}, Biography: "Farmer."},
			{ID: "c", ParentIDs: []string{"b"}},
		},
	})
	if _, err := layout.NewSolver(layout.DefaultConfig(), layout.WithSeed(1)).Calculate(context.Background(), g); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestFromGraph(t *testing.T) {
	g := sampleGraph(t)
	l := FromGraph(g, layout.DefaultConfig(), 1)

	if l.Version != FormatVersion || l.Focal != "c" || l.Seed != 1 {
		t.Errorf("header = %+v", l)
	}
	if len(l.Nodes) != 3 || len(l.Edges) != 1 {
		t.Fatalf("got %d nodes, %d edges", len(l.Nodes), len(l.Edges))
	}
	if l.MinGeneration != -1 || l.MaxGeneration != 0 {
		t.Errorf("generation range = %d..%d, want -1..0", l.MinGeneration, l.MaxGeneration)
	}

	a, _ := l.Node("a")
	if !a.Unreached {
		t.Error("a should be marked unreached")
	}
	if a.Label() != "Ann" {
		t.Errorf("Label() = %q, want Ann", a.Label())
	}
	c, _ := l.Node("c")
	if c.Label() != "c" {
		t.Errorf("Label() = %q, want id fallback", c.Label())
	}

	b, _ := l.Node("b")
	kb, _ := g.Node("b")
	if b.Position() != kb.Position || b.BioWeight != kb.BioWeight {
		t.Errorf("node b = %+v, graph node %+v", b, kb)
	}

	e := l.Edges[0]
	if e.Source != "b" || e.Target != "c" || e.Kind != "parent-child" || e.Strength != 1 {
		t.Errorf("edge = %+v", e)
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	l := FromGraph(sampleGraph(t), layout.DefaultConfig(), 9)
	l.Algorithm = string(layout.AlgorithmDirect)

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatal(err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error: %v", err)
	}
	if got.Config != l.Config || got.Seed != 9 || got.Algorithm != "direct" {
		t.Errorf("provenance lost: %+v", got)
	}
	for i := range l.Nodes {
		if got.Nodes[i] != l.Nodes[i] {
			t.Errorf("node %d: %+v, want %+v", i, got.Nodes[i], l.Nodes[i])
		}
	}
}

func TestUnmarshalLayoutErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"malformed", `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"unknown edge endpoint", `{"nodes":[{"id":"a"}],"edges":[{"source":"a","target":"z"}]}`, errors.ErrCodeInvalidFormat},
		{"duplicate node", `{"nodes":[{"id":"a"},{"id":"a"}]}`, errors.ErrCodeInvalidFormat},
		{"missing id", `{"nodes":[{"name":"x"}]}`, errors.ErrCodeInvalidFormat},
		{"future version", `{"version": 99}`, errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalLayout([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("err = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestLayoutFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "family.layout.json")
	l := FromGraph(sampleGraph(t), layout.DefaultConfig(), 3)

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if len(got.Nodes) != 3 {
		t.Errorf("got %d nodes, want 3", len(got.Nodes))
	}

	_, err = ReadLayoutFile(filepath.Join(t.TempDir(), "missing.json"))
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file err = %v, want FILE_NOT_FOUND", err)
	}
}

func TestGenerationQueries(t *testing.T) {
	l := Layout{Nodes: []Node{
		{ID: "a", Generation: -1, Y: -40},
		{ID: "b", Generation: 0, Y: 2},
		{ID: "c", Generation: 0, Y: -2},
		{ID: "d", Generation: -1, Y: -60},
		{ID: "e", Generation: 1, Y: 50},
	}}

	gens := l.Generations()
	if len(gens) != 3 || gens[0] != -1 || gens[2] != 1 {
		t.Errorf("Generations() = %v", gens)
	}

	means := l.GenerationMeans()
	want := map[int]float64{-1: -50, 0: 0, 1: 50}
	for g, w := range want {
		if means[g] != w {
			t.Errorf("mean Y of generation %d = %v, want %v", g, means[g], w)
		}
	}

	by := l.ByGeneration()
	if len(by[-1]) != 2 || by[-1][0].ID != "a" || by[-1][1].ID != "d" {
		t.Errorf("ByGeneration()[-1] = %v", by[-1])
	}
}
