package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/lineage/pkg/family"
	"github.com/matzehuels/lineage/pkg/kin"
)

func testGraph() *kin.Graph {
	return kin.Build(&family.Dataset{
		FocalID: "me",
		People: []family.Person{
			{ID: "gran", Name: "Gran", ChildIDs: []string{"mom"}},
			{ID: "mom", Name: "Mom", ParentIDs: []string{"gran"}, ChildIDs: []string{"me"}},
			{ID: "me", Name: "Me", ParentIDs: []string{"mom"}},
		},
	})
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestGenerationModelStartsOnFocal(t *testing.T) {
	m := NewGenerationModel(testGraph(), false)
	gen, ok := m.Selected()
	if !ok || gen != 0 {
		t.Fatalf("Selected() = %d, %v, want 0", gen, ok)
	}
	if len(m.Generations) != 3 {
		t.Errorf("Generations = %v", m.Generations)
	}
}

func TestGenerationModelNavigation(t *testing.T) {
	var model tea.Model = NewGenerationModel(testGraph(), false)

	model, _ = model.Update(key("k"))
	if gen, _ := model.(GenerationModel).Selected(); gen != -1 {
		t.Errorf("after up: generation %d, want -1", gen)
	}

	model, _ = model.Update(key("g"))
	if gen, _ := model.(GenerationModel).Selected(); gen != -2 {
		t.Errorf("after g: generation %d, want -2", gen)
	}

	model, _ = model.Update(key("k"))
	if gen, _ := model.(GenerationModel).Selected(); gen != -2 {
		t.Errorf("up at top should stay: generation %d", gen)
	}

	model, _ = model.Update(key("G"))
	if gen, _ := model.(GenerationModel).Selected(); gen != 0 {
		t.Errorf("after G: generation %d, want 0", gen)
	}

	model, _ = model.Update(key("j"))
	if gen, _ := model.(GenerationModel).Selected(); gen != 0 {
		t.Errorf("down at bottom should stay: generation %d", gen)
	}
}

func TestGenerationModelQuit(t *testing.T) {
	m := NewGenerationModel(testGraph(), false)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("q should return a command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}

func TestGenerationModelWindowSize(t *testing.T) {
	m := NewGenerationModel(testGraph(), false)
	model, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 6})
	if h := model.(GenerationModel).Height; h != 5 {
		t.Errorf("Height = %d, want floor of 5", h)
	}
}

func TestGenerationModelView(t *testing.T) {
	g := testGraph()
	if n, ok := g.Node("me"); ok {
		n.Position.Y = 12.5
	}
	view := NewGenerationModel(g, true).View()
	for _, want := range []string{"Generations", "centered on me", "Me", "Position", "12.5"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q:\n%s", want, view)
		}
	}
}

func TestGenerationModelEmpty(t *testing.T) {
	view := NewGenerationModel(kin.New(0), false).View()
	if !strings.Contains(view, "No people") {
		t.Errorf("View() = %q", view)
	}
}
