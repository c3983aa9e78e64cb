package neighborhood

import (
	"errors"

	"github.com/egonet/egonet/pkg/graph"
	"github.com/egonet/egonet/pkg/names"
)

// ErrStartNodeNotFound is returned by [Extract] when the start identifier is
// not a member of the graph. This is the extractor's only failure path;
// callers are expected to report the missing id and skip layout/rendering.
var ErrStartNodeNotFound = errors.New("start node not in graph")

// Default traversal bounds.
const (
	// DefaultMaxDepth is the breadth-first layer distance explored from the
	// start node.
	DefaultMaxDepth = 2

	// DefaultMaxNodes is the soft cap on total nodes visited. Soft because of
	// the relaxed enforcement documented on [Options.MaxNodes].
	DefaultMaxNodes = 20
)

// Options bounds the traversal.
//
// Values are used exactly as given: zero and negative values are not
// special-cased and produce degenerate traversals (MaxDepth=0 visits only the
// start node; MaxNodes<=1 stops the frontier immediately). Use
// [DefaultOptions] for the standard bounds.
type Options struct {
	// MaxDepth is the maximum breadth-first layer distance from the start
	// node to explore.
	MaxDepth int

	// MaxNodes caps the visited set. The cap is checked before each frontier
	// pop and after each neighbor addition, but a node's neighbor list may
	// begin expanding before the cap is re-checked, so the visited set can
	// overshoot by at most the remaining out-degree of the final expanded
	// node.
	MaxNodes int
}

// DefaultOptions returns the standard traversal bounds (depth 2, 20 nodes).
func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, MaxNodes: DefaultMaxNodes}
}

// Result is an extracted neighborhood: the induced subgraph of validly-named
// visited nodes, plus the labels to render them with.
type Result struct {
	// Start is the identifier the traversal was centered on. It is always
	// visited but appears in Subgraph only if it has a valid name.
	Start string

	// Subgraph is an independent induced copy over the filtered node set.
	// Mutating it does not affect the source graph.
	Subgraph *graph.Graph

	// Labels maps each subgraph node to its display name. The identity
	// fallback is practically unreachable after filtering but kept for
	// contract parity with the name resolver.
	Labels map[string]string

	// VisitedCount is the size of the visited set before filtering.
	VisitedCount int
}

// Title returns a render title for the neighborhood: the base title with the
// start node's display name (or raw id if unnamed) appended.
func (r *Result) Title(base string, nm names.Map) string {
	return base + " (centered on " + nm.Lookup(r.Start) + ")"
}

// Extract performs a bounded breadth-first traversal of g from startID,
// filters the visited set down to nodes with valid display names, and returns
// the induced subgraph with its label map.
//
// The traversal visits nodes in FIFO order up to opts.MaxDepth layers away
// from startID, or until the visited set reaches opts.MaxNodes (subject to
// the relaxed cap documented on [Options.MaxNodes]). The start node is always
// visited, even when its own name is invalid and it is later filtered out of
// the subgraph.
//
// Returns ErrStartNodeNotFound if startID is not in g. All other shapes of
// input (empty graphs, isolated start nodes, fully-unnamed neighborhoods)
// degrade to an empty or near-empty subgraph without error.
func Extract(g *graph.Graph, startID string, nm names.Map, opts Options) (*Result, error) {
	if !g.Has(startID) {
		return nil, ErrStartNodeNotFound
	}

	visited := traverse(g, startID, opts)

	filtered := make(map[string]bool, len(visited))
	for id := range visited {
		if nm.Valid(id) {
			filtered[id] = true
		}
	}

	sub := g.Induced(filtered)

	labels := make(map[string]string, sub.NodeCount())
	for _, id := range sub.Nodes() {
		labels[id] = nm.Lookup(id)
	}

	return &Result{
		Start:        startID,
		Subgraph:     sub,
		Labels:       labels,
		VisitedCount: len(visited),
	}, nil
}

// traverse runs the bounded BFS and returns the visited set.
func traverse(g *graph.Graph, startID string, opts Options) map[string]struct{} {
	type item struct {
		id    string
		depth int
	}

	visited := map[string]struct{}{startID: {}}
	queue := []item{{id: startID, depth: 0}}

	for len(queue) > 0 && len(visited) < opts.MaxNodes {
		cur := queue[0]
		queue = queue[1:]

		if cur.depth >= opts.MaxDepth {
			continue
		}

		for _, nb := range g.Neighbors(cur.id) {
			if _, seen := visited[nb]; !seen {
				visited[nb] = struct{}{}
				queue = append(queue, item{id: nb, depth: cur.depth + 1})
			}
			// Mid-expansion cap check: stops this neighbor list early but
			// lets it overshoot the cap by what was already added.
			if len(visited) >= opts.MaxNodes {
				break
			}
		}
	}

	return visited
}
