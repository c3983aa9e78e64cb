package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.AddNode] when the node ID is empty.
	// All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownEndpoint is returned by [Graph.AddEdge] when either endpoint
	// does not exist in the graph. Add both nodes before connecting them.
	ErrUnknownEndpoint = errors.New("unknown edge endpoint")
)

// Edge represents an undirected connection between two nodes.
// The (A, B) and (B, A) orientations denote the same edge; the graph stores
// each edge once in canonical order (lexicographically smaller ID first).
type Edge struct {
	A string
	B string
}

// canonical returns the edge with endpoints in lexicographic order.
func (e Edge) canonical() Edge {
	if e.B < e.A {
		return Edge{A: e.B, B: e.A}
	}
	return e
}

// Graph is an undirected graph over opaque string identifiers.
// It supports the operations the neighborhood extractor needs: membership
// tests, neighbor enumeration, and induced-subgraph copies.
//
// The zero value is not usable - use New to create a Graph.
// Graph is not safe for concurrent mutation without external synchronization.
type Graph struct {
	nodes   map[string]struct{}
	adj     map[string][]string
	edges   []Edge
	edgeSet map[Edge]struct{}
}

// New creates an empty undirected graph.
func New() *Graph {
	return &Graph{
		nodes:   make(map[string]struct{}),
		adj:     make(map[string][]string),
		edgeSet: make(map[Edge]struct{}),
	}
}

// AddNode adds a node to the graph. Adding a node that already exists is a
// no-op, matching set semantics. Returns ErrInvalidNodeID for an empty ID.
func (g *Graph) AddNode(id string) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	g.nodes[id] = struct{}{}
	return nil
}

// AddEdge adds an undirected edge between two existing nodes.
// Returns ErrUnknownEndpoint if either node is missing. Duplicate edges are
// ignored (the graph is simple); self-loops are allowed and stored once.
func (g *Graph) AddEdge(a, b string) error {
	if _, ok := g.nodes[a]; !ok {
		return ErrUnknownEndpoint
	}
	if _, ok := g.nodes[b]; !ok {
		return ErrUnknownEndpoint
	}

	e := Edge{A: a, B: b}.canonical()
	if _, dup := g.edgeSet[e]; dup {
		return nil
	}
	g.edgeSet[e] = struct{}{}
	g.edges = append(g.edges, e)

	g.adj[a] = append(g.adj[a], b)
	if a != b {
		g.adj[b] = append(g.adj[b], a)
	}
	return nil
}

// Has reports whether the node exists in the graph.
func (g *Graph) Has(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// Neighbors returns the IDs adjacent to the node, in insertion order.
// Returns nil for isolated or unknown nodes. The returned slice should not
// be modified - use it as a read-only view.
func (g *Graph) Neighbors(id string) []string { return g.adj[id] }

// Degree returns the number of neighbors of the node.
// Returns 0 if the node doesn't exist.
func (g *Graph) Degree(id string) int { return len(g.adj[id]) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of distinct edges in the graph.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// Nodes returns all node IDs in sorted order.
// Sorting keeps serialization and layout deterministic.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Edges returns a copy of all edges in canonical orientation, insertion order.
// Modifications to the returned slice do not affect the graph.
func (g *Graph) Edges() []Edge { return slices.Clone(g.edges) }

// HasEdge reports whether an edge exists between the two nodes,
// in either orientation.
func (g *Graph) HasEdge(a, b string) bool {
	_, ok := g.edgeSet[Edge{A: a, B: b}.canonical()]
	return ok
}

// MaxDegree returns the largest degree in the graph, or 0 if empty.
func (g *Graph) MaxDegree() int {
	max := 0
	for id := range g.nodes {
		if d := len(g.adj[id]); d > max {
			max = d
		}
	}
	return max
}

// Induced returns an independent copy of the subgraph induced by the keep set:
// exactly the kept nodes, and exactly the original edges whose both endpoints
// are kept. Mutating the result never affects the receiver. Unknown IDs in
// keep are ignored.
func (g *Graph) Induced(keep map[string]bool) *Graph {
	out := New()
	for id := range g.nodes {
		if keep[id] {
			out.nodes[id] = struct{}{}
		}
	}
	for _, e := range g.edges {
		if keep[e.A] && keep[e.B] {
			// Endpoints were copied above, so AddEdge cannot fail.
			_ = out.AddEdge(e.A, e.B)
		}
	}
	return out
}
