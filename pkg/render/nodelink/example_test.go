package nodelink_test

import (
	"fmt"
	"strings"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/render/nodelink"
)

func ExampleToDOT() {
	l := graph.Layout{
		Focal: "kid",
		Nodes: []graph.Node{
			{ID: "mum", Generation: -1},
			{ID: "kid", Generation: 0},
		},
		Edges: []graph.Edge{{Source: "mum", Target: "kid", Kind: "parent-child", Strength: 1}},
	}

	dot := nodelink.ToDOT(l, nodelink.Options{})
	for _, line := range strings.Split(dot, "\n") {
		if strings.Contains(line, "->") || strings.Contains(line, "rank=same") {
			fmt.Println(strings.TrimSpace(line))
		}
	}
	// Output:
	// { rank=same; // generation -1
	// { rank=same; // generation 0
	// "mum" -> "kid";
}
