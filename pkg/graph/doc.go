// Package graph provides the undirected entity graph that neighborhood
// extraction operates on.
//
// A [Graph] holds opaque string identifiers and undirected edges between
// them. It exposes exactly the collaborator surface the extractor needs:
// membership tests ([Graph.Has]), neighbor enumeration ([Graph.Neighbors]),
// and induced-subgraph copies ([Graph.Induced]).
//
// The package also defines the JSON interchange format used by the CLI and
// the HTTP API:
//
//	{
//	  "nodes": [{"id": "10"}, {"id": "20"}],
//	  "edges": [{"a": "10", "b": "20"}]
//	}
//
// Use [ReadFile]/[WriteFile] for files and [Marshal]/[Read]/[Write] for
// in-memory or streaming use.
package graph
