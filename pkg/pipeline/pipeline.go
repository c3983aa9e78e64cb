// Package pipeline provides the core visualization pipeline for egonet.
//
// This package implements the complete extract → layout → render pipeline
// that can be used by CLI and API components. By centralizing this logic,
// we ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Extract: Traverse the bounded neighborhood around a start node
//  2. Layout: Compute visual positions for the induced subgraph
//  3. Render: Generate output in various formats (SVG, PNG, PDF, DOT, JSON)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Start:   "440",
//	    Formats: []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, g, nm, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/egonet/egonet/pkg/cache"
	"github.com/egonet/egonet/pkg/layout"
	"github.com/egonet/egonet/pkg/neighborhood"
	"github.com/egonet/egonet/pkg/render"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultTitle is the base figure title. The resolved start-node name is
	// appended by the render stage.
	DefaultTitle = "Neighborhood"

	// DefaultPNGScale is the rasterization scale for PNG output.
	// 2.0 produces a 2x resolution image suitable for high-DPI displays.
	DefaultPNGScale = 2.0
)

// Render engines.
const (
	// EngineNative draws the figure with the built-in SVG surface.
	EngineNative = "native"

	// EngineGraphviz draws the figure through Graphviz neato with positions
	// pinned from the layout stage.
	EngineGraphviz = "graphviz"
)

// Format constants for output formats.
const (
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatDOT  = "dot"
	FormatJSON = "json"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatDOT:  true,
	FormatJSON: true,
}

// ValidEngines is the set of supported render engines.
var ValidEngines = map[string]bool{
	EngineNative:   true,
	EngineGraphviz: true,
}

// ValidAlgorithms is the set of recognized layout algorithms. Unrecognized
// names are still accepted by the layout stage (it falls back to a default
// force-directed layout), so this set is advisory for CLI help text.
var ValidAlgorithms = map[string]bool{
	layout.Spring:      true,
	layout.KamadaKawai: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the visualization pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Extract options
	Start    string `json:"start"`
	MaxDepth int    `json:"max_depth,omitempty"`
	MaxNodes int    `json:"max_nodes,omitempty"`

	// Layout options
	Algorithm  string  `json:"algorithm,omitempty"`
	K          float64 `json:"k,omitempty"`
	Iterations int     `json:"iterations,omitempty"`
	Seed       uint64  `json:"seed,omitempty"`

	// Render options
	Formats   []string `json:"formats,omitempty"`
	Engine    string   `json:"engine,omitempty"`
	Title     string   `json:"title,omitempty"`
	Width     float64  `json:"width,omitempty"`
	Height    float64  `json:"height,omitempty"`
	NodeSize  float64  `json:"node_size,omitempty"`
	FontSize  float64  `json:"font_size,omitempty"`
	EdgeAlpha float64  `json:"edge_alpha,omitempty"`
	PNGScale  float64  `json:"png_scale,omitempty"`

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Neighborhood is the extracted neighborhood around the start node.
	Neighborhood *neighborhood.Result

	// GraphHash is the content hash of the input graph.
	GraphHash string

	// SubgraphHash is the content hash of the induced subgraph.
	SubgraphHash string

	// Positions are the computed node coordinates.
	Positions layout.Positions

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	VisitedCount int
	NodeCount    int
	EdgeCount    int
	ExtractTime  time.Duration
	LayoutTime   time.Duration
	RenderTime   time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	ExtractHit bool // Whether the extraction came from cache
	LayoutHit  bool // Whether the layout came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: svg, png, pdf, dot, json)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateEngine checks that a render engine is valid.
func ValidateEngine(engine string) error {
	if !ValidEngines[engine] {
		return fmt.Errorf("invalid engine: %q (must be one of: native, graphviz)", engine)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. This method is idempotent - calling it multiple times has
// the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForExtract(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForExtract checks required fields for the extraction stage.
func (o *Options) ValidateForExtract() error {
	if o.Start == "" {
		return fmt.Errorf("start node is required")
	}

	// Extraction defaults
	if o.MaxDepth == 0 {
		o.MaxDepth = neighborhood.DefaultMaxDepth
	}
	if o.MaxNodes == 0 {
		o.MaxNodes = neighborhood.DefaultMaxNodes
	}

	// Logger default
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}

	return nil
}

// SetLayoutDefaults sets default values for layout computation.
func (o *Options) SetLayoutDefaults() {
	if o.Algorithm == "" {
		o.Algorithm = layout.Spring
	}
	if o.K == 0 {
		o.K = layout.DefaultK
	}
	if o.Iterations == 0 {
		o.Iterations = layout.DefaultIterations
	}
	if o.Seed == 0 {
		o.Seed = layout.DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatSVG}
	}
	if o.Engine == "" {
		o.Engine = EngineNative
	}
	if o.Title == "" {
		o.Title = DefaultTitle
	}
	if o.PNGScale == 0 {
		o.PNGScale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	return ValidateEngine(o.Engine)
}

// LayoutOptions returns the layout stage's options.
func (o *Options) LayoutOptions() layout.Options {
	return layout.Options{
		Algorithm:  o.Algorithm,
		K:          o.K,
		Iterations: o.Iterations,
		Seed:       o.Seed,
	}
}

// RenderOptions returns the render stage's figure options.
func (o *Options) RenderOptions() render.Options {
	return render.Options{
		Width:     o.Width,
		Height:    o.Height,
		NodeSize:  o.NodeSize,
		FontSize:  o.FontSize,
		EdgeAlpha: o.EdgeAlpha,
	}
}

// ExtractOptions returns the extraction stage's options.
func (o *Options) ExtractOptions() neighborhood.Options {
	return neighborhood.Options{
		MaxDepth: o.MaxDepth,
		MaxNodes: o.MaxNodes,
	}
}

// NeighborhoodKeyOpts returns cache key options for the extraction stage.
func (o *Options) NeighborhoodKeyOpts() cache.NeighborhoodKeyOpts {
	return cache.NeighborhoodKeyOpts{
		Start:    o.Start,
		MaxDepth: o.MaxDepth,
		MaxNodes: o.MaxNodes,
	}
}

// LayoutKeyOpts returns cache key options for layout computation.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{
		Algorithm:  o.Algorithm,
		K:          o.K,
		Iterations: o.Iterations,
		Seed:       o.Seed,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format, title string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:    format,
		Engine:    o.Engine,
		Width:     o.Width,
		Height:    o.Height,
		NodeSize:  o.NodeSize,
		FontSize:  o.FontSize,
		EdgeAlpha: o.EdgeAlpha,
		Title:     title,
		PNGScale:  o.PNGScale,
	}
}
