package render

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"math"

	"github.com/egonet/egonet/pkg/layout"
)

// margin keeps node markers and labels clear of the figure border, in pixels.
const margin = 60.0

// titleFontScale sizes the title relative to the label font.
const titleFontScale = 1.5

// SVG renders the scene as a standalone SVG document.
//
// The drawing is deterministic: edges render in stored order beneath nodes,
// nodes and labels render in sorted-ID order. No axes or frame are drawn.
func SVG(s *Scene, opts Options) []byte {
	opts.SetDefaults()

	var buf bytes.Buffer
	fmt.Fprintf(&buf,
		"<svg xmlns=\"http://www.w3.org/2000/svg\" viewBox=\"0 0 %.0f %.0f\" width=\"%.0f\" height=\"%.0f\">\n",
		opts.Width, opts.Height, opts.Width, opts.Height)
	buf.WriteString("  <rect width=\"100%\" height=\"100%\" fill=\"white\"/>\n")

	if s.Title != "" {
		fmt.Fprintf(&buf,
			"  <text x=\"%.1f\" y=\"%.1f\" text-anchor=\"middle\" font-family=\"sans-serif\" font-size=\"%.1f\" font-weight=\"bold\">%s</text>\n",
			opts.Width/2, margin/2+opts.FontSize*titleFontScale/2, opts.FontSize*titleFontScale, escape(s.Title))
	}

	place := placer(opts)

	buf.WriteString("  <g stroke=\"#999999\" stroke-width=\"1\">\n")
	for _, e := range s.Edges {
		pa, okA := s.Positions[e.A]
		pb, okB := s.Positions[e.B]
		if !okA || !okB {
			continue
		}
		ax, ay := place(pa)
		bx, by := place(pb)
		fmt.Fprintf(&buf,
			"    <line x1=\"%.1f\" y1=\"%.1f\" x2=\"%.1f\" y2=\"%.1f\" stroke-opacity=\"%.2f\"/>\n",
			ax, ay, bx, by, opts.EdgeAlpha)
	}
	buf.WriteString("  </g>\n")

	// Marker area in square pixels, so radius follows from NodeSize.
	radius := math.Sqrt(opts.NodeSize / math.Pi)

	fmt.Fprintf(&buf, "  <g fill=\"%s\" stroke=\"#4682b4\" stroke-width=\"1\">\n", DefaultNodeColor)
	for _, id := range s.Nodes {
		p, ok := s.Positions[id]
		if !ok {
			continue
		}
		x, y := place(p)
		fmt.Fprintf(&buf, "    <circle cx=\"%.1f\" cy=\"%.1f\" r=\"%.1f\"/>\n", x, y, radius)
	}
	buf.WriteString("  </g>\n")

	fmt.Fprintf(&buf,
		"  <g font-family=\"sans-serif\" font-size=\"%.1f\" text-anchor=\"middle\">\n", opts.FontSize)
	for _, id := range s.Nodes {
		p, ok := s.Positions[id]
		if !ok {
			continue
		}
		x, y := place(p)
		fmt.Fprintf(&buf, "    <text x=\"%.1f\" y=\"%.1f\" dy=\"0.35em\">%s</text>\n",
			x, y, escape(s.Label(id)))
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

// placer maps unit-square layout coordinates into the drawable region,
// flipping Y so layout-up is screen-up.
func placer(opts Options) func(layout.Point) (float64, float64) {
	w := opts.Width - 2*margin
	h := opts.Height - 2*margin
	return func(p layout.Point) (float64, float64) {
		return margin + p.X*w, margin + (1-p.Y)*h
	}
}

// escape makes a string safe for SVG text content.
func escape(s string) string {
	var buf bytes.Buffer
	_ = xml.EscapeText(&buf, []byte(s))
	return buf.String()
}
