package render

import (
	"slices"

	"github.com/egonet/egonet/pkg/graph"
	"github.com/egonet/egonet/pkg/layout"
	"github.com/egonet/egonet/pkg/neighborhood"
)

// Default figure parameters. Sizes are in pixels unless stated otherwise.
const (
	// DefaultWidth is the default figure width in pixels.
	DefaultWidth = 1200.0

	// DefaultHeight is the default figure height in pixels.
	DefaultHeight = 900.0

	// DefaultNodeSize is the node marker area in square pixels.
	DefaultNodeSize = 600.0

	// DefaultFontSize is the label font size in points.
	DefaultFontSize = 8.0

	// DefaultEdgeAlpha is the edge stroke opacity.
	DefaultEdgeAlpha = 0.3

	// DefaultNodeColor is the fill color for node markers.
	DefaultNodeColor = "#87ceeb"
)

// Options configures figure rendering.
type Options struct {
	// Width and Height are the figure dimensions in pixels.
	// Zero means the package defaults.
	Width  float64 `json:"width,omitempty"`
	Height float64 `json:"height,omitempty"`

	// NodeSize is the marker area in square pixels. Zero means DefaultNodeSize.
	NodeSize float64 `json:"node_size,omitempty"`

	// FontSize is the label font size in points. Zero means DefaultFontSize.
	FontSize float64 `json:"font_size,omitempty"`

	// EdgeAlpha is the edge stroke opacity. Zero means DefaultEdgeAlpha.
	EdgeAlpha float64 `json:"edge_alpha,omitempty"`
}

// SetDefaults fills zero-valued fields with the package defaults.
func (o *Options) SetDefaults() {
	if o.Width == 0 {
		o.Width = DefaultWidth
	}
	if o.Height == 0 {
		o.Height = DefaultHeight
	}
	if o.NodeSize == 0 {
		o.NodeSize = DefaultNodeSize
	}
	if o.FontSize == 0 {
		o.FontSize = DefaultFontSize
	}
	if o.EdgeAlpha == 0 {
		o.EdgeAlpha = DefaultEdgeAlpha
	}
}

// Scene is everything a surface needs to draw a figure: the nodes and edges
// to show, where they sit, what to call them, and the figure title.
// Axes and frames are never drawn.
type Scene struct {
	// Nodes lists node IDs in draw order (sorted for determinism).
	Nodes []string `json:"nodes"`

	// Edges lists the node pairs to connect.
	Edges []graph.Edge `json:"edges"`

	// Positions maps node IDs to unit-square coordinates.
	Positions layout.Positions `json:"positions"`

	// Labels maps node IDs to display labels. Every node has an entry; nodes
	// without a known name carry their ID.
	Labels map[string]string `json:"labels"`

	// Title is drawn above the figure.
	Title string `json:"title"`
}

// NewScene assembles a scene from an extracted neighborhood, its computed
// positions, and a title.
func NewScene(res *neighborhood.Result, pos layout.Positions, title string) *Scene {
	g := res.Subgraph
	nodes := g.Nodes()
	slices.Sort(nodes)

	return &Scene{
		Nodes:     nodes,
		Edges:     g.Edges(),
		Positions: pos,
		Labels:    res.Labels,
		Title:     title,
	}
}

// Label returns the display label for a node, falling back to the ID.
func (s *Scene) Label(id string) string {
	if l, ok := s.Labels[id]; ok && l != "" {
		return l
	}
	return id
}
