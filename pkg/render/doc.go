// Package render draws extracted neighborhoods as figures.
//
// A [Scene] bundles the nodes, edges, positions, labels, and title for one
// figure. The native [SVG] surface draws it directly; [ToDOT] plus
// [GraphvizSVG] produce an equivalent figure through Graphviz with positions
// pinned from the layout. SVG output converts to PNG and PDF via
// rsvg-convert ([ToPNG], [ToPDF]).
package render
