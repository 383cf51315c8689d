package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/kin"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// maxListedNames caps the names printed per generation row.
const maxListedNames = 4

// inspectCommand creates the inspect command for summarizing a dataset.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		interactive bool
		layoutFile  string
	)

	cmd := &cobra.Command{
		Use:   "inspect [dataset.json]",
		Short: "Summarize generations and relationships of a dataset",
		Long: `Summarize generations and relationships of a dataset.

Prints one row per generation relative to the focal person, the people that
are not connected to the focal person, and how many relationships of each
kind were derived. With -i an interactive browser is started instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0], layoutFile, interactive)
		},
	}

	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse generations interactively")
	cmd.Flags().StringVar(&layoutFile, "layout", "", "layout.json whose positions are shown alongside")

	return cmd
}

func (c *CLI) runInspect(ctx context.Context, input, layoutFile string, interactive bool) error {
	ds, err := family.ReadFile(input)
	if err != nil {
		return fmt.Errorf("load dataset %s: %w", input, err)
	}
	g := pipeline.Build(ctx, ds)

	withPositions := layoutFile != ""
	if withPositions {
		l, err := graph.ReadLayoutFile(layoutFile)
		if err != nil {
			return fmt.Errorf("load layout %s: %w", layoutFile, err)
		}
		copyPositions(g, l)
	}

	if interactive {
		return runGenerationBrowser(g, withPositions)
	}

	printInspection(g)
	return nil
}

// copyPositions moves layout positions onto matching graph nodes.
func copyPositions(g *kin.Graph, l graph.Layout) {
	for _, ln := range l.Nodes {
		if n, ok := g.Node(ln.ID); ok {
			n.Position = ln.Position()
		}
	}
}

func printInspection(g *kin.Graph) {
	printKeyValue("Focal", g.Focal())
	printKeyValue("People", fmt.Sprintf("%d", g.NodeCount()))
	printKeyValue("Relationships", fmt.Sprintf("%d", g.EdgeCount()))
	printNewline()

	fmt.Fprintln(stdout, generationTable(g))

	counts := g.EdgeCountByKind()
	parts := make([]string, 0, len(kin.Kinds))
	for _, k := range kin.Kinds {
		parts = append(parts, fmt.Sprintf("%s %s", StyleNumber.Render(fmt.Sprintf("%d", counts[k])), k))
	}
	printInfo("%s", strings.Join(parts, StyleDim.Render(" · ")))

	if unreached := g.Unreached(); len(unreached) > 0 {
		ids := make([]string, len(unreached))
		for i, n := range unreached {
			ids[i] = n.ID
		}
		printWarning("%d not connected to %s: %s", len(unreached), g.Focal(), strings.Join(ids, ", "))
	}
}

// generationTable renders one row per generation with a sample of names.
func generationTable(g *kin.Graph) string {
	var rows [][]string
	for _, gen := range g.Generations() {
		nodes := g.NodesInGeneration(gen)
		names := make([]string, 0, maxListedNames)
		for _, n := range nodes {
			if len(names) == maxListedNames {
				names = append(names, fmt.Sprintf("+%d", len(nodes)-maxListedNames))
				break
			}
			names = append(names, n.Person.DisplayName())
		}
		rows = append(rows, []string{fmt.Sprintf("%+d", gen), fmt.Sprintf("%d", len(nodes)), strings.Join(names, ", ")})
	}

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Gen", "People", "Names").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return styleHeader.Padding(0, 1)
			case col == 0 || col == 1:
				return StyleNumber.Padding(0, 1)
			}
			return StyleValue.Padding(0, 1)
		}).
		Render()
}
