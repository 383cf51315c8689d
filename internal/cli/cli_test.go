package cli

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/layout"
)

const testDataset = `{
  "focalId": "me",
  "people": [
    {"id": "mom", "name": "Mom", "childIds": ["me"], "spouseIds": ["dad"]},
    {"id": "dad", "name": "Dad", "childIds": ["me"], "spouseIds": ["mom"]},
    {"id": "me", "name": "Me", "parentIds": ["mom", "dad"], "biography": "Born somewhere."},
    {"id": "loner", "name": "Loner"}
  ]
}`

func TestParseFormats(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", []string{"json"}},
		{"svg", []string{"svg"}},
		{"json, dot ,svg", []string{"json", "dot", "svg"}},
		{"png,,", []string{"png"}},
	}
	for _, tt := range tests {
		if got := parseFormats(tt.in); !slices.Equal(got, tt.want) {
			t.Errorf("parseFormats(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input, output, suffix, want string
	}{
		{"tree.json", "", ".layout.json", "tree.layout.json"},
		{"dir/tree.json", "", ".dot", "dir/tree.dot"},
		{"tree.json", "out.json", ".layout.json", "out.json"},
		{"tree", "", ".svg", "tree.svg"},
	}
	for _, tt := range tests {
		if got := outputPath(tt.input, tt.output, tt.suffix); got != tt.want {
			t.Errorf("outputPath(%q, %q, %q) = %q, want %q", tt.input, tt.output, tt.suffix, got, tt.want)
		}
	}
}

func TestRenderBase(t *testing.T) {
	tests := []struct {
		input, output, want string
	}{
		{"tree.layout.json", "", "tree"},
		{"other.json", "", "other"},
		{"tree.layout.json", "out/family.svg", "out/family"},
		{"tree.layout.json", "out/family", "out/family"},
	}
	for _, tt := range tests {
		if got := renderBase(tt.input, tt.output); got != tt.want {
			t.Errorf("renderBase(%q, %q) = %q, want %q", tt.input, tt.output, got, tt.want)
		}
	}
}

func TestDefaultCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg")
	dir, err := defaultCacheDir()
	if err != nil {
		t.Fatal(err)
	}
	if dir != filepath.Join("/tmp/xdg", appName) {
		t.Errorf("defaultCacheDir() = %q", dir)
	}
}

func TestMergeLayoutFlags(t *testing.T) {
	var flags layout.Config
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	bindLayoutFlags(fs, &flags)
	if err := fs.Parse([]string{"--iterations", "50", "--theta", "0.5"}); err != nil {
		t.Fatal(err)
	}

	base := layout.DefaultConfig()
	base.Repulsion = 250
	got := mergeLayoutFlags(fs, flags, base)

	if got.Iterations != 50 {
		t.Errorf("Iterations = %d, want 50", got.Iterations)
	}
	if got.Theta != 0.5 {
		t.Errorf("Theta = %v, want 0.5", got.Theta)
	}
	if got.Repulsion != 250 {
		t.Errorf("Repulsion = %v, want config value 250", got.Repulsion)
	}
	if got.GenerationSpacing != layout.DefaultGenerationSpacing {
		t.Errorf("GenerationSpacing = %v, want default", got.GenerationSpacing)
	}
}

func TestCommands(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "family.json")
	writeFile(t, input, testDataset)
	cfgPath := filepath.Join(dir, "config.toml")
	writeFile(t, cfgPath, "[cache]\nbackend = \"none\"\n\n[layout]\niterations = 30\n")

	out := captureStdout(t)

	run(t, "--config", cfgPath, "layout", input, "--seed", "7", "--format", "json,dot")

	layoutPath := filepath.Join(dir, "family.layout.json")
	l, err := graph.ReadLayoutFile(layoutPath)
	if err != nil {
		t.Fatalf("read layout: %v", err)
	}
	if l.Focal != "me" || len(l.Nodes) != 4 || l.Seed != 7 {
		t.Errorf("layout = focal %q, %d nodes, seed %d", l.Focal, len(l.Nodes), l.Seed)
	}
	if l.Config.Iterations != 30 {
		t.Errorf("Config.Iterations = %d, want 30 from config file", l.Config.Iterations)
	}
	if _, err := os.Stat(filepath.Join(dir, "family.dot")); err != nil {
		t.Errorf("dot artifact missing: %v", err)
	}
	if !strings.Contains(out.String(), "not connected") {
		t.Errorf("layout output should warn about unreached people:\n%s", out)
	}

	out.Reset()
	run(t, "--config", cfgPath, "inspect", input, "--layout", layoutPath)
	for _, want := range []string{"Focal", "me", "Mom", "loner"} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("inspect output missing %q:\n%s", want, out)
		}
	}

	out.Reset()
	run(t, "--config", cfgPath, "render", layoutPath, "-f", "dot", "-o", filepath.Join(dir, "rendered"))
	dot, err := os.ReadFile(filepath.Join(dir, "rendered.dot"))
	if err != nil {
		t.Fatalf("read rendered dot: %v", err)
	}
	if !strings.Contains(string(dot), "digraph") && !strings.Contains(string(dot), "graph") {
		t.Errorf("rendered dot looks wrong:\n%s", dot)
	}

	out.Reset()
	run(t, "--config", cfgPath, "config", "show")
	if !strings.Contains(out.String(), `backend = "none"`) {
		t.Errorf("config show output:\n%s", out)
	}
}

func TestLayoutCommandMissingInput(t *testing.T) {
	captureStdout(t)
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs([]string{"layout", filepath.Join(t.TempDir(), "missing.json"), "--no-cache"})
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Fatal("expected error for missing dataset")
	}
}

func TestCachePathUsesConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	writeFile(t, cfgPath, "[cache]\ndir = \"/var/cache/lineage-test\"\n")

	out := captureStdout(t)
	run(t, "--config", cfgPath, "cache", "path")
	if got := strings.TrimSpace(out.String()); got != "/var/cache/lineage-test" {
		t.Errorf("cache path = %q", got)
	}
}

func TestCacheClear(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	cfgPath := filepath.Join(dir, "config.toml")
	writeFile(t, cfgPath, "[cache]\ndir = \""+filepath.ToSlash(cacheDir)+"\"\n\n[layout]\niterations = 10\n")
	input := filepath.Join(dir, "family.json")
	writeFile(t, input, testDataset)

	out := captureStdout(t)
	run(t, "--config", cfgPath, "layout", input)
	out.Reset()
	run(t, "--config", cfgPath, "cache", "clear")
	if !strings.Contains(out.String(), "Cleared 2 cached entries") {
		t.Errorf("cache clear output:\n%s", out)
	}
}

func run(t *testing.T, args ...string) {
	t.Helper()
	c := New(io.Discard, log.InfoLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("%s: %v", strings.Join(args, " "), err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

// captureStdout redirects user-facing output to a buffer for the test.
func captureStdout(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := stdout
	stdout = &buf
	t.Cleanup(func() { stdout = prev })
	return &buf
}

func TestCompletion(t *testing.T) {
	for _, shell := range completionShells {
		t.Run(shell, func(t *testing.T) {
			cfgPath := filepath.Join(t.TempDir(), "config.toml")
			writeFile(t, cfgPath, "")
			out := captureStdout(t)
			run(t, "--config", cfgPath, "completion", shell)
			if !strings.Contains(out.String(), appName) {
				t.Errorf("%s completion does not mention %s", shell, appName)
			}
		})
	}
}
