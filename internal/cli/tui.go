package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/lineage/pkg/kin"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// GenerationModel - Interactive generation browser
// =============================================================================

// GenerationModel is the bubbletea model for browsing a family graph one
// generation at a time. The left column lists generations, the table shows
// the people of the selected one.
type GenerationModel struct {
	Graph       *kin.Graph
	Generations []int
	Cursor      int
	Height      int

	showPositions bool
}

// NewGenerationModel creates a browser positioned on the focal generation.
func NewGenerationModel(g *kin.Graph, showPositions bool) GenerationModel {
	m := GenerationModel{
		Graph:         g,
		Generations:   g.Generations(),
		Height:        15,
		showPositions: showPositions,
	}
	for i, gen := range m.Generations {
		if gen == 0 {
			m.Cursor = i
		}
	}
	return m
}

// Selected returns the generation under the cursor.
func (m GenerationModel) Selected() (int, bool) {
	if len(m.Generations) == 0 {
		return 0, false
	}
	return m.Generations[m.Cursor], true
}

func (m GenerationModel) Init() tea.Cmd {
	return nil
}

func (m GenerationModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Generations)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			if n := len(m.Generations); n > 0 {
				m.Cursor = n - 1
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 8
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m GenerationModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Generations"))
	if focal := m.Graph.Focal(); focal != "" {
		b.WriteString(listDimStyle.Render("  centered on " + focal))
	}
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	if len(m.Generations) == 0 {
		b.WriteString(listDimStyle.Render("No people in dataset"))
		b.WriteString("\n")
		return b.String()
	}

	var side strings.Builder
	for i, gen := range m.Generations {
		label := fmt.Sprintf("%+d (%d)", gen, len(m.Graph.NodesInGeneration(gen)))
		if gen == 0 {
			label = fmt.Sprintf(" 0 (%d)", len(m.Graph.NodesInGeneration(gen)))
		}
		if i == m.Cursor {
			side.WriteString(listSelectedStyle.Render("▸ " + label))
		} else {
			side.WriteString(listNormalStyle.Render("  " + label))
		}
		side.WriteString("\n")
	}

	gen, _ := m.Selected()
	people := m.Graph.NodesInGeneration(gen)
	end := min(m.Height, len(people))

	headers := []string{"Name", "ID", "Links", "Bio"}
	if m.showPositions {
		headers = append(headers, "Position")
	}
	rows := make([][]string, 0, end)
	for _, n := range people[:end] {
		rows = append(rows, personRow(m.Graph, n, m.showPositions))
	}

	focal := m.Graph.Focal()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader.Padding(0, 1)
			}
			if row >= 0 && row < len(rows) && rows[row][1] == focal {
				return StyleFocal.Padding(0, 1)
			}
			if col == 0 {
				return StyleValue.Padding(0, 1)
			}
			return StyleDim.Padding(0, 1)
		})

	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, side.String(), "  ", t.Render()))
	b.WriteString("\n")
	if len(people) > end {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("  … %d more", len(people)-end)))
		b.WriteString("\n")
	}

	return b.String()
}

// personRow formats one table row for n.
func personRow(g *kin.Graph, n *kin.Node, withPosition bool) []string {
	name := n.ID
	if n.Person != nil {
		name = n.Person.DisplayName()
	}
	row := []string{
		name,
		n.ID,
		fmt.Sprintf("%d", len(g.Connections(n.ID))),
		fmt.Sprintf("%.2f", n.BioWeight),
	}
	if withPosition {
		p := n.Position
		row = append(row, fmt.Sprintf("(%.1f, %.1f, %.1f)", p.X, p.Y, p.Z))
	}
	return row
}

// runGenerationBrowser starts the interactive browser.
func runGenerationBrowser(g *kin.Graph, showPositions bool) error {
	_, err := tea.NewProgram(NewGenerationModel(g, showPositions), tea.WithAltScreen()).Run()
	return err
}
