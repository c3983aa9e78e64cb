// Package neighborhood extracts a small, renderable neighborhood around a
// chosen entity in a large undirected graph.
//
// Extraction is a bounded breadth-first traversal followed by a validity
// filter: nodes whose display name is blank or identical to their identifier
// are dropped, and the induced subgraph over the survivors is returned as an
// independent copy together with its label map.
//
//	res, err := neighborhood.Extract(g, "440", nm, neighborhood.DefaultOptions())
//	if errors.Is(err, neighborhood.ErrStartNodeNotFound) {
//	    // report the missing id, nothing to render
//	}
//
// The traversal honors two bounds: MaxDepth (breadth-first layers from the
// start) and MaxNodes (a soft cap on the visited set - see [Options.MaxNodes]
// for the documented overshoot). The extractor is pure: it writes nothing,
// renders nothing, and never mutates its inputs, so it can be tested without
// any display surface.
package neighborhood
