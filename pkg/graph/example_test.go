package graph_test

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/kin"
	"github.com/matzehuels/lineage/pkg/layout"
)

func ExampleFromGraph() {
	g := kin.Build(&family.Dataset{
		People: []family.Person{
			{ID: "mum", Name: "Mary", ChildIDs: []string{"kid"}},
			{ID: "kid", Name: "Kit"},
		},
	})

	l := graph.FromGraph(g, layout.DefaultConfig(), 42)
	for _, n := range l.Nodes {
		fmt.Printf("%s (generation %d)\n", n.Label(), n.Generation)
	}
	fmt.Printf("%s -> %s: %s\n", l.Edges[0].Source, l.Edges[0].Target, l.Edges[0].Kind)
	// Output:
	// Mary (generation 0)
	// Kit (generation 1)
	// mum -> kid: parent-child
}
