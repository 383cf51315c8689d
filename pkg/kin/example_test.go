package kin_test

import (
	"fmt"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/kin"
)

func ExampleBuild() {
	ds := &family.Dataset{
		FocalID: "ada",
		People: []family.Person{
			{ID: "anne", ChildIDs: []string{"ada"}, SpouseIDs: []string{"george"}},
			{ID: "george", ChildIDs: []string{"ada"}},
			{ID: "ada", ParentIDs: []string{"anne", "george"}, ChildIDs: []string{"byron"}},
			{ID: "byron", ParentIDs: []string{"ada"}},
		},
	}

	g := kin.Build(ds)
	for _, n := range g.Nodes() {
		fmt.Printf("%s: generation %d\n", n.ID, n.Generation)
	}
	fmt.Println("edges:", g.EdgeCount())
	// Output:
	// anne: generation -1
	// george: generation -1
	// ada: generation 0
	// byron: generation 1
	// edges: 4
}

func ExampleGraph_Connections() {
	ds := &family.Dataset{
		People: []family.Person{
			{ID: "p"},
			{ID: "x", ParentIDs: []string{"p"}},
			{ID: "y", ParentIDs: []string{"p"}},
		},
	}

	g := kin.Build(ds)
	fmt.Println(g.Connections("x"))
	// Output: [p y]
}
