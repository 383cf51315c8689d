package layout_test

import (
	"context"
	"fmt"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/kin"
	"github.com/matzehuels/lineage/pkg/layout"
)

func ExampleSolver_Calculate() {
	g := kin.Build(&family.Dataset{
		FocalID: "child",
		People: []family.Person{
			{ID: "parent", ChildIDs: []string{"child"}},
			{ID: "child"},
		},
	})

	s := layout.NewSolver(layout.DefaultConfig(), layout.WithSeed(7))
	stats, err := s.Calculate(context.Background(), g)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	parent, _ := g.Node("parent")
	child, _ := g.Node("child")
	fmt.Println(stats.Algorithm, stats.Iterations)
	fmt.Println("parent below child:", parent.Position.Y < child.Position.Y)
	// Output:
	// direct 300
	// parent below child: true
}
