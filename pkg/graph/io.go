package graph

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// =============================================================================
// Graph Serialization API
// =============================================================================

// Document is the canonical serialization format for entity graphs.
// The format is human-readable and round-trip stable: nodes are emitted in
// sorted order and edges in canonical orientation.
type Document struct {
	Nodes []NodeDoc `json:"nodes"`
	Edges []EdgeDoc `json:"edges"`
}

// NodeDoc is the serialized form of a node.
type NodeDoc struct {
	ID string `json:"id"`
}

// EdgeDoc is the serialized form of an undirected edge.
type EdgeDoc struct {
	A string `json:"a"`
	B string `json:"b"`
}

// Marshal converts a Graph to indented JSON bytes.
// Nodes are sorted by ID for deterministic output.
func Marshal(g *Graph) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(g, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Write writes a Graph as JSON to an io.Writer.
// Use Marshal for in-memory serialization or WriteFile for files.
func Write(g *Graph, w io.Writer) error {
	out := FromGraph(g)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteFile writes a Graph to a JSON file.
// The file is created with 0644 permissions.
func WriteFile(g *Graph, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return Write(g, f)
}

// Read decodes a JSON graph from an io.Reader.
// Returns an error for malformed documents or invalid node/edge references.
func Read(r io.Reader) (*Graph, error) {
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return ToGraph(doc)
}

// ReadFile reads a JSON file and returns the decoded Graph.
func ReadFile(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return Read(f)
}

// =============================================================================
// Graph ↔ Document Conversion
// =============================================================================

// FromGraph converts a Graph to its serialization format.
func FromGraph(g *Graph) Document {
	ids := g.Nodes()
	doc := Document{
		Nodes: make([]NodeDoc, len(ids)),
		Edges: make([]EdgeDoc, 0, g.EdgeCount()),
	}
	for i, id := range ids {
		doc.Nodes[i] = NodeDoc{ID: id}
	}
	for _, e := range g.Edges() {
		doc.Edges = append(doc.Edges, EdgeDoc{A: e.A, B: e.B})
	}
	return doc
}

// ToGraph converts a Document to a Graph.
// Returns an error if a node ID is empty or an edge references a missing node.
func ToGraph(doc Document) (*Graph, error) {
	g := New()
	for _, n := range doc.Nodes {
		if err := g.AddNode(n.ID); err != nil {
			return nil, fmt.Errorf("add node %q: %w", n.ID, err)
		}
	}
	for _, e := range doc.Edges {
		if err := g.AddEdge(e.A, e.B); err != nil {
			return nil, fmt.Errorf("add edge %s-%s: %w", e.A, e.B, err)
		}
	}
	return g, nil
}
