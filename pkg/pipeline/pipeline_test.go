package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/egonet/egonet/pkg/cache"
	"github.com/egonet/egonet/pkg/graph"
	"github.com/egonet/egonet/pkg/names"
	"github.com/egonet/egonet/pkg/neighborhood"
	"github.com/egonet/egonet/pkg/render"
)

// testGraph builds a small star around "440" with named neighbors.
func testGraph(t *testing.T) (*graph.Graph, names.Map) {
	t.Helper()

	g := graph.New()
	ids := []string{"440", "570", "730", "8930"}
	for _, id := range ids {
		if err := g.AddNode(id); err != nil {
			t.Fatal(err)
		}
	}
	g.AddEdge("440", "570")
	g.AddEdge("440", "730")
	g.AddEdge("570", "8930")

	nm := names.Map{
		"440":  "Team Fortress 2",
		"570":  "Dota 2",
		"730":  "Counter-Strike 2",
		"8930": "Civilization V",
	}
	return g, nm
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	t.Run("MissingStart", func(t *testing.T) {
		opts := Options{}
		if err := opts.ValidateAndSetDefaults(); err == nil {
			t.Error("expected error for missing start")
		}
	})

	t.Run("DefaultsApplied", func(t *testing.T) {
		opts := Options{Start: "440"}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if opts.MaxDepth != neighborhood.DefaultMaxDepth {
			t.Errorf("MaxDepth = %d, want %d", opts.MaxDepth, neighborhood.DefaultMaxDepth)
		}
		if opts.MaxNodes != neighborhood.DefaultMaxNodes {
			t.Errorf("MaxNodes = %d, want %d", opts.MaxNodes, neighborhood.DefaultMaxNodes)
		}
		if opts.Algorithm != "spring" {
			t.Errorf("Algorithm = %q, want spring", opts.Algorithm)
		}
		if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
			t.Errorf("Formats = %v, want [svg]", opts.Formats)
		}
		if opts.Engine != EngineNative {
			t.Errorf("Engine = %q, want native", opts.Engine)
		}
		if opts.Title != DefaultTitle {
			t.Errorf("Title = %q, want %q", opts.Title, DefaultTitle)
		}
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		opts := Options{Start: "440", Formats: []string{"gif"}}
		if err := opts.ValidateAndSetDefaults(); err == nil {
			t.Error("expected error for invalid format")
		}
	})

	t.Run("InvalidEngine", func(t *testing.T) {
		opts := Options{Start: "440", Engine: "crayon"}
		if err := opts.ValidateAndSetDefaults(); err == nil {
			t.Error("expected error for invalid engine")
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		opts := Options{Start: "440", MaxDepth: 3}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		if err := opts.ValidateAndSetDefaults(); err != nil {
			t.Fatal(err)
		}
		if opts.MaxDepth != 3 {
			t.Errorf("MaxDepth changed on revalidation: %d", opts.MaxDepth)
		}
	})
}

func TestExecute(t *testing.T) {
	g, nm := testGraph(t)
	runner := NewRunner(cache.NewNullCache(), nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), g, nm, Options{
		Start:   "440",
		Formats: []string{FormatSVG, FormatJSON, FormatDOT},
		Title:   "Game Neighborhood",
	})
	if err != nil {
		t.Fatalf("Execute error: %v", err)
	}

	if result.Stats.VisitedCount != 4 {
		t.Errorf("VisitedCount = %d, want 4", result.Stats.VisitedCount)
	}
	if result.Stats.NodeCount != 4 {
		t.Errorf("NodeCount = %d, want 4", result.Stats.NodeCount)
	}
	if result.GraphHash == "" || result.SubgraphHash == "" {
		t.Error("content hashes should be set")
	}
	if len(result.Positions) != 4 {
		t.Errorf("Positions = %d, want 4", len(result.Positions))
	}

	svg := string(result.Artifacts[FormatSVG])
	if !strings.Contains(svg, "Game Neighborhood (centered on Team Fortress 2)") {
		t.Error("svg artifact missing resolved title")
	}

	var scene render.Scene
	if err := json.Unmarshal(result.Artifacts[FormatJSON], &scene); err != nil {
		t.Fatalf("json artifact invalid: %v", err)
	}
	if len(scene.Nodes) != 4 {
		t.Errorf("scene nodes = %d, want 4", len(scene.Nodes))
	}

	if !strings.HasPrefix(string(result.Artifacts[FormatDOT]), "graph G {") {
		t.Error("dot artifact missing")
	}
}

func TestExecuteStartNotFound(t *testing.T) {
	g, nm := testGraph(t)
	runner := NewRunner(nil, nil, nil)

	_, err := runner.Execute(context.Background(), g, nm, Options{Start: "99999"})
	if !errors.Is(err, neighborhood.ErrStartNodeNotFound) {
		t.Errorf("error = %v, want ErrStartNodeNotFound", err)
	}
}

func TestExecuteCaching(t *testing.T) {
	g, nm := testGraph(t)
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Start: "440", Formats: []string{FormatSVG, FormatJSON}}

	first, err := runner.Execute(context.Background(), g, nm, opts)
	if err != nil {
		t.Fatalf("first Execute error: %v", err)
	}
	if first.CacheInfo.ExtractHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss the cache")
	}

	second, err := runner.Execute(context.Background(), g, nm, opts)
	if err != nil {
		t.Fatalf("second Execute error: %v", err)
	}
	if !second.CacheInfo.ExtractHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit all stages: %+v", second.CacheInfo)
	}
	if string(first.Artifacts[FormatSVG]) != string(second.Artifacts[FormatSVG]) {
		t.Error("cached artifact differs from rendered artifact")
	}

	// Refresh bypasses cache reads
	refreshOpts := opts
	refreshOpts.Refresh = true
	third, err := runner.Execute(context.Background(), g, nm, refreshOpts)
	if err != nil {
		t.Fatalf("refresh Execute error: %v", err)
	}
	if third.CacheInfo.ExtractHit || third.CacheInfo.LayoutHit || third.CacheInfo.RenderHit {
		t.Errorf("refresh run should bypass the cache: %+v", third.CacheInfo)
	}
}

func TestExtractStage(t *testing.T) {
	g, nm := testGraph(t)
	runner := NewRunner(nil, nil, nil)

	res, err := runner.Extract(context.Background(), g, nm, Options{Start: "570", MaxDepth: 1})
	if err != nil {
		t.Fatalf("Extract error: %v", err)
	}
	// Depth 1 from 570 reaches 440 and 8930.
	if res.VisitedCount != 3 {
		t.Errorf("VisitedCount = %d, want 3", res.VisitedCount)
	}
	if !res.Subgraph.Has("8930") {
		t.Error("8930 should be in the subgraph")
	}
	if res.Subgraph.Has("730") {
		t.Error("730 is beyond depth 1 from 570")
	}
}

func TestNeighborhoodCacheKeySensitivity(t *testing.T) {
	g, nm := testGraph(t)
	runner := NewRunner(nil, nil, nil)

	base := Options{Start: "440"}
	if err := base.ValidateForExtract(); err != nil {
		t.Fatal(err)
	}
	deeper := base
	deeper.MaxDepth = 5

	k1, err := runner.neighborhoodKey(g, nm, base)
	if err != nil {
		t.Fatal(err)
	}
	k2, err := runner.neighborhoodKey(g, nm, deeper)
	if err != nil {
		t.Fatal(err)
	}
	if k1 == k2 {
		t.Error("different extraction options should produce different keys")
	}

	// Renaming a node must invalidate the key too, since names drive the
	// validity filter.
	renamed := names.Map{"440": "Renamed"}
	k3, err := runner.neighborhoodKey(g, renamed, base)
	if err != nil {
		t.Fatal(err)
	}
	if k1 == k3 {
		t.Error("different name maps should produce different keys")
	}
}
