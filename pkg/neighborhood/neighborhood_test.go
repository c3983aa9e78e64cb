package neighborhood

import (
	"errors"
	"fmt"
	"testing"

	"github.com/egonet/egonet/pkg/graph"
	"github.com/egonet/egonet/pkg/names"
)

// star builds a star graph: center "A" with leaves "B".."F".
func star() *graph.Graph {
	g := graph.New()
	g.AddNode("A")
	for _, leaf := range []string{"B", "C", "D", "E", "F"} {
		g.AddNode(leaf)
		g.AddEdge("A", leaf)
	}
	return g
}

// starNames gives every star node a valid distinct name.
func starNames() names.Map {
	m := names.Map{}
	for _, id := range []string{"A", "B", "C", "D", "E", "F"} {
		m[id] = "Game " + id
	}
	return m
}

func TestExtractStartNodeNotFound(t *testing.T) {
	g := star() // 5-node fan plus center
	_, err := Extract(g, "ZZ", starNames(), DefaultOptions())

	if !errors.Is(err, ErrStartNodeNotFound) {
		t.Fatalf("err = %v, want ErrStartNodeNotFound", err)
	}
}

func TestExtractStar(t *testing.T) {
	res, err := Extract(star(), "A", starNames(), Options{MaxDepth: 1, MaxNodes: 20})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if res.VisitedCount != 6 {
		t.Errorf("visited = %d, want 6", res.VisitedCount)
	}
	if res.Subgraph.NodeCount() != 6 {
		t.Errorf("subgraph nodes = %d, want 6", res.Subgraph.NodeCount())
	}
	if res.Subgraph.EdgeCount() != 5 {
		t.Errorf("subgraph edges = %d, want 5 (full star)", res.Subgraph.EdgeCount())
	}
	for _, leaf := range []string{"B", "C", "D", "E", "F"} {
		if !res.Subgraph.HasEdge("A", leaf) {
			t.Errorf("edge A-%s missing", leaf)
		}
	}
}

func TestExtractStartAlwaysVisited(t *testing.T) {
	// Isolated start node, no neighbors at all.
	g := graph.New()
	g.AddNode("solo")

	res, err := Extract(g, "solo", names.Map{}, DefaultOptions())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.VisitedCount != 1 {
		t.Errorf("visited = %d, want 1", res.VisitedCount)
	}
	// Unnamed start: filtered out, empty subgraph.
	if res.Subgraph.NodeCount() != 0 {
		t.Errorf("subgraph nodes = %d, want 0", res.Subgraph.NodeCount())
	}
}

func TestExtractUnnamedCenterKeepsNamedNeighbors(t *testing.T) {
	nm := starNames()
	nm["A"] = "A" // center mapped to its own id: unnamed

	res, err := Extract(star(), "A", nm, Options{MaxDepth: 1, MaxNodes: 20})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if res.Subgraph.Has("A") {
		t.Error("unnamed center should be excluded from the subgraph")
	}
	if res.Subgraph.NodeCount() != 5 {
		t.Errorf("subgraph nodes = %d, want 5 named leaves", res.Subgraph.NodeCount())
	}
	// Every edge touched the excluded center, so none survive.
	if res.Subgraph.EdgeCount() != 0 {
		t.Errorf("subgraph edges = %d, want 0", res.Subgraph.EdgeCount())
	}
}

func TestExtractDepthZero(t *testing.T) {
	res, err := Extract(star(), "A", starNames(), Options{MaxDepth: 0, MaxNodes: 20})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	if res.VisitedCount != 1 {
		t.Errorf("visited = %d, want 1 (start only)", res.VisitedCount)
	}
	if res.Subgraph.NodeCount() != 1 || !res.Subgraph.Has("A") {
		t.Errorf("subgraph = %v, want exactly {A}", res.Subgraph.Nodes())
	}
	if res.Subgraph.EdgeCount() != 0 {
		t.Errorf("subgraph edges = %d, want 0", res.Subgraph.EdgeCount())
	}
}

func TestExtractDepthBound(t *testing.T) {
	// Path: p0 - p1 - p2 - p3 - p4.
	g := graph.New()
	nm := names.Map{}
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("p%d", i)
		g.AddNode(id)
		nm[id] = "Node " + id
		if i > 0 {
			g.AddEdge(fmt.Sprintf("p%d", i-1), id)
		}
	}

	res, err := Extract(g, "p0", nm, Options{MaxDepth: 2, MaxNodes: 20})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// Layers 0..2 are p0, p1, p2; p3 and p4 are beyond the depth bound.
	if res.VisitedCount != 3 {
		t.Errorf("visited = %d, want 3", res.VisitedCount)
	}
	for _, id := range []string{"p0", "p1", "p2"} {
		if !res.Subgraph.Has(id) {
			t.Errorf("missing %s", id)
		}
	}
	if res.Subgraph.Has("p3") {
		t.Error("p3 is beyond maxDepth and must not be visited")
	}
}

func TestExtractNodeCapOvershoot(t *testing.T) {
	// Hub with 10 leaves and MaxNodes=5: the visited set may exceed the cap
	// only by the tail of the expansion that was already in flight, and it
	// is bounded by cap + out-degree of the final expanded node.
	g := graph.New()
	nm := names.Map{"hub": "The Hub"}
	g.AddNode("hub")
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("leaf%d", i)
		g.AddNode(id)
		g.AddEdge("hub", id)
		nm[id] = "Leaf " + id
	}

	res, err := Extract(g, "hub", nm, Options{MaxDepth: 2, MaxNodes: 5})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	// The inner check fires right after the 5th visit, so exactly 5 here.
	if res.VisitedCount != 5 {
		t.Errorf("visited = %d, want 5", res.VisitedCount)
	}
	if bound := 5 + g.MaxDegree(); res.VisitedCount > bound {
		t.Errorf("visited = %d exceeds documented bound %d", res.VisitedCount, bound)
	}
}

func TestExtractFilteredSetMatchesValidNames(t *testing.T) {
	g := star()
	nm := names.Map{
		"A": "Center",
		"B": "Leaf B",
		"C": "",   // blank
		"D": "D",  // self-mapped
		"E": "  ", // whitespace
		// F missing entirely
	}

	res, err := Extract(g, "A", nm, Options{MaxDepth: 1, MaxNodes: 20})
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	want := map[string]bool{"A": true, "B": true}
	nodes := res.Subgraph.Nodes()
	if len(nodes) != len(want) {
		t.Fatalf("subgraph nodes = %v, want exactly A and B", nodes)
	}
	for _, id := range nodes {
		if !want[id] {
			t.Errorf("unexpected node %s in subgraph", id)
		}
	}

	// Labels carry display names, not ids.
	if res.Labels["B"] != "Leaf B" {
		t.Errorf("label B = %q, want %q", res.Labels["B"], "Leaf B")
	}
}

func TestExtractSubgraphIsIndependent(t *testing.T) {
	g := star()
	res, err := Extract(g, "A", starNames(), DefaultOptions())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}

	res.Subgraph.AddNode("intruder")
	if g.Has("intruder") {
		t.Error("mutating the extracted subgraph leaked into the source graph")
	}
}

func TestExtractNoDuplicateVisits(t *testing.T) {
	// Cycle: c0 - c1 - c2 - c0. BFS from c0 must terminate and count each
	// node once despite the cycle.
	g := graph.New()
	nm := names.Map{}
	for i := 0; i < 3; i++ {
		id := fmt.Sprintf("c%d", i)
		g.AddNode(id)
		nm[id] = "Cycle " + id
	}
	g.AddEdge("c0", "c1")
	g.AddEdge("c1", "c2")
	g.AddEdge("c2", "c0")

	res, err := Extract(g, "c0", nm, DefaultOptions())
	if err != nil {
		t.Fatalf("Extract: %v", err)
	}
	if res.VisitedCount != 3 {
		t.Errorf("visited = %d, want 3", res.VisitedCount)
	}
	if res.Subgraph.EdgeCount() != 3 {
		t.Errorf("subgraph edges = %d, want full cycle", res.Subgraph.EdgeCount())
	}
}

func TestResultTitle(t *testing.T) {
	nm := names.Map{"440": "Team Fortress 2"}

	named := &Result{Start: "440"}
	if got := named.Title("Local Game Graph", nm); got != "Local Game Graph (centered on Team Fortress 2)" {
		t.Errorf("Title = %q", got)
	}

	unnamed := &Result{Start: "999"}
	if got := unnamed.Title("Local Game Graph", nm); got != "Local Game Graph (centered on 999)" {
		t.Errorf("Title = %q, want raw id fallback", got)
	}
}
