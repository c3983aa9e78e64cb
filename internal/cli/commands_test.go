package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeFixtures writes a small graph and name map into dir.
func writeFixtures(t *testing.T, dir string) (graphPath, namesPath string) {
	t.Helper()

	graphPath = filepath.Join(dir, "graph.json")
	namesPath = filepath.Join(dir, "names.json")

	graphJSON := `{
  "nodes": [{"id": "440"}, {"id": "570"}, {"id": "730"}],
  "edges": [{"a": "440", "b": "570"}, {"a": "570", "b": "730"}]
}`
	namesJSON := `{"440": "Team Fortress 2", "570": "Dota 2", "730": "Counter-Strike 2"}`

	if err := os.WriteFile(graphPath, []byte(graphJSON), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(namesPath, []byte(namesJSON), 0644); err != nil {
		t.Fatal(err)
	}
	return graphPath, namesPath
}

// runCommand executes the root command with args against a scratch config.
func runCommand(t *testing.T, args ...string) error {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.Execute()
}

func TestRenderCommand(t *testing.T) {
	dir := t.TempDir()
	graphPath, namesPath := writeFixtures(t, dir)
	out := filepath.Join(dir, "figure.svg")

	err := runCommand(t, "render", graphPath,
		"--names", namesPath,
		"--start", "440",
		"--output", out,
		"--no-cache")
	if err != nil {
		t.Fatalf("render command error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	svg := string(data)
	if !strings.HasPrefix(svg, "<svg") {
		t.Error("output is not an SVG document")
	}
	if !strings.Contains(svg, "centered on Team Fortress 2") {
		t.Error("figure title missing resolved name")
	}
}

func TestRenderCommandMultipleFormats(t *testing.T) {
	dir := t.TempDir()
	graphPath, namesPath := writeFixtures(t, dir)
	base := filepath.Join(dir, "figure")

	err := runCommand(t, "render", graphPath,
		"--names", namesPath,
		"--start", "570",
		"--format", "svg,json,dot",
		"--output", base,
		"--no-cache")
	if err != nil {
		t.Fatalf("render command error: %v", err)
	}

	for _, ext := range []string{"svg", "json", "dot"} {
		if _, err := os.Stat(base + "." + ext); err != nil {
			t.Errorf("missing %s artifact: %v", ext, err)
		}
	}
}

func TestRenderCommandMissingStartNode(t *testing.T) {
	dir := t.TempDir()
	graphPath, namesPath := writeFixtures(t, dir)
	out := filepath.Join(dir, "figure.svg")

	// An unknown start node is reported, not treated as a failure, and no
	// figure is produced.
	err := runCommand(t, "render", graphPath,
		"--names", namesPath,
		"--start", "99999",
		"--output", out,
		"--no-cache")
	if err != nil {
		t.Fatalf("missing node should not be a command error: %v", err)
	}
	if _, err := os.Stat(out); !os.IsNotExist(err) {
		t.Error("no figure should be written for a missing start node")
	}
}

func TestRenderCommandInvalidFormat(t *testing.T) {
	dir := t.TempDir()
	graphPath, namesPath := writeFixtures(t, dir)

	err := runCommand(t, "render", graphPath,
		"--names", namesPath,
		"--start", "440",
		"--format", "gif",
		"--no-cache")
	if err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestExtractCommand(t *testing.T) {
	dir := t.TempDir()
	graphPath, namesPath := writeFixtures(t, dir)
	out := filepath.Join(dir, "sub.json")

	err := runCommand(t, "extract", graphPath,
		"--names", namesPath,
		"--start", "440",
		"--depth", "1",
		"--output", out,
		"--no-cache")
	if err != nil {
		t.Fatalf("extract command error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	// Depth 1 from 440 reaches 570 but not 730.
	if !strings.Contains(string(data), `"570"`) {
		t.Error("570 missing from subgraph")
	}
	if strings.Contains(string(data), `"730"`) {
		t.Error("730 should be beyond depth 1")
	}
}

func TestLayoutCommand(t *testing.T) {
	dir := t.TempDir()
	graphPath, namesPath := writeFixtures(t, dir)
	out := filepath.Join(dir, "pos.json")

	err := runCommand(t, "layout", graphPath,
		"--names", namesPath,
		"--start", "440",
		"--algorithm", "kamada_kawai",
		"--output", out,
		"--no-cache")
	if err != nil {
		t.Fatalf("layout command error: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	for _, id := range []string{"440", "570", "730"} {
		if !strings.Contains(string(data), `"`+id+`"`) {
			t.Errorf("position for %s missing", id)
		}
	}
}
