package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"
)

// ToDOT converts a scene to Graphviz DOT format as an alternative to the
// native [SVG] surface. Node positions are pinned from the computed layout
// so neato reproduces the figure instead of re-laying it out.
//
// The resulting DOT string can be rendered with [GraphvizSVG].
func ToDOT(s *Scene) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"white\";\n")
	if s.Title != "" {
		fmt.Fprintf(&buf, "  label=%q;\n", s.Title)
		buf.WriteString("  labelloc=\"t\";\n")
	}
	buf.WriteString("  node [shape=circle, style=filled, fillcolor=\"#87ceeb\", fontsize=8];\n")
	buf.WriteString("  edge [color=\"#9999994d\"];\n")
	buf.WriteString("\n")

	for _, id := range s.Nodes {
		p, ok := s.Positions[id]
		if !ok {
			continue
		}
		// Pin to a 10x10 inch canvas; the "!" suffix fixes the position.
		fmt.Fprintf(&buf, "  %q [label=%q, pos=\"%.3f,%.3f!\"];\n",
			id, s.Label(id), p.X*10, p.Y*10)
	}

	buf.WriteString("\n")
	for _, e := range s.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.A, e.B)
	}

	buf.WriteString("}\n")
	return buf.String()
}

// GraphvizSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [ToPDF]
// or [ToPNG].
func GraphvizSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
