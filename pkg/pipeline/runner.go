package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/egonet/egonet/pkg/cache"
	"github.com/egonet/egonet/pkg/graph"
	"github.com/egonet/egonet/pkg/layout"
	"github.com/egonet/egonet/pkg/names"
	"github.com/egonet/egonet/pkg/neighborhood"
	"github.com/egonet/egonet/pkg/render"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete extract → layout → render pipeline with caching.
//
// A missing start node surfaces as [neighborhood.ErrStartNodeNotFound] so
// callers can report it without treating it as an internal failure.
func (r *Runner) Execute(ctx context.Context, g *graph.Graph, nm names.Map, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Extract
	extractStart := time.Now()
	res, extractHit, err := r.ExtractWithCacheInfo(ctx, g, nm, opts)
	if err != nil {
		return nil, err
	}
	result.Neighborhood = res
	result.Stats.ExtractTime = time.Since(extractStart)
	result.Stats.VisitedCount = res.VisitedCount
	result.Stats.NodeCount = res.Subgraph.NodeCount()
	result.Stats.EdgeCount = res.Subgraph.EdgeCount()
	result.CacheInfo.ExtractHit = extractHit

	// Graph hash for cache keys and API responses
	if graphData, err := graph.Marshal(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("extracted neighborhood",
		"start", opts.Start,
		"visited", res.VisitedCount,
		"nodes", result.Stats.NodeCount,
		"edges", result.Stats.EdgeCount,
		"duration", result.Stats.ExtractTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	pos, subHash, layoutHit, err := r.LayoutWithCacheInfo(ctx, res.Subgraph, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Positions = pos
	result.SubgraphHash = subHash
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.CacheInfo.LayoutHit = layoutHit

	r.Logger.Info("computed layout",
		"algorithm", opts.Algorithm,
		"positions", len(pos),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	scene := render.NewScene(res, pos, res.Title(opts.Title, nm))
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, scene, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// cachedNeighborhood is the serialized form of an extraction result.
type cachedNeighborhood struct {
	Start    string            `json:"start"`
	Visited  int               `json:"visited"`
	Subgraph graph.Document    `json:"subgraph"`
	Labels   map[string]string `json:"labels"`
}

// ExtractWithCacheInfo extracts a neighborhood with caching and returns
// cache hit info. The cache key covers the graph content, the name map, and
// the extraction parameters.
func (r *Runner) ExtractWithCacheInfo(ctx context.Context, g *graph.Graph, nm names.Map, opts Options) (*neighborhood.Result, bool, error) {
	if err := opts.ValidateForExtract(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cacheKey, err := r.neighborhoodKey(g, nm, opts)
	if err != nil {
		return nil, false, err
	}

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if res, err := decodeNeighborhood(data); err == nil {
				return res, true, nil // Cache hit
			}
		}
	}

	res, err := neighborhood.Extract(g, opts.Start, nm, opts.ExtractOptions())
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := encodeNeighborhood(res); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLNeighborhood)
	}

	return res, false, nil // Cache miss
}

// Extract is a convenience wrapper that calls ExtractWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Extract(ctx context.Context, g *graph.Graph, nm names.Map, opts Options) (*neighborhood.Result, error) {
	res, _, err := r.ExtractWithCacheInfo(ctx, g, nm, opts)
	return res, err
}

// LayoutWithCacheInfo computes a layout with caching. It returns the
// positions, the subgraph content hash, and cache hit info.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, sub *graph.Graph, opts Options) (layout.Positions, string, bool, error) {
	opts.SetLayoutDefaults()
	r.applyLogger(&opts)

	subData, err := graph.Marshal(sub)
	if err != nil {
		return nil, "", false, fmt.Errorf("serialize subgraph for cache key: %w", err)
	}
	subHash := cache.Hash(subData)
	cacheKey := r.Keyer.LayoutKey(subHash, opts.LayoutKeyOpts())

	// Try cache first
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var cached layout.Positions
			if err := json.Unmarshal(data, &cached); err == nil {
				return cached, subHash, true, nil // Cache hit
			}
			// If deserialization fails, fall through to recompute
		}
	}

	pos := layout.Compute(sub, opts.LayoutOptions())

	// Cache the result
	if data, err := json.Marshal(pos); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLLayout)
	}

	return pos, subHash, false, nil // Cache miss
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, scene *render.Scene, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	// Cache key from the full scene (positions, labels, title)
	sceneData, err := json.Marshal(scene)
	if err != nil {
		return nil, false, fmt.Errorf("serialize scene for cache key: %w", err)
	}
	sceneHash := cache.Hash(sceneData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format, scene.Title))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			return artifacts, true, nil // All artifacts from cache
		}
	}

	rendered, err := renderScene(ctx, scene, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(sceneHash, opts.ArtifactKeyOpts(format, scene.Title))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards
// the cache hit info.
func (r *Runner) Render(ctx context.Context, scene *render.Scene, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, scene, opts)
	return artifacts, err
}

// renderScene produces every requested format. SVG is rendered once and
// reused for PNG and PDF conversion.
func renderScene(ctx context.Context, scene *render.Scene, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var svg []byte
	needSVG := func() ([]byte, error) {
		if svg != nil {
			return svg, nil
		}
		var err error
		switch opts.Engine {
		case EngineGraphviz:
			svg, err = render.GraphvizSVG(ctx, render.ToDOT(scene))
		default:
			svg = render.SVG(scene, opts.RenderOptions())
		}
		return svg, err
	}

	for _, format := range opts.Formats {
		switch format {
		case FormatSVG:
			data, err := needSVG()
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			artifacts[format] = data
		case FormatPNG:
			data, err := needSVG()
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			png, err := render.ToPNG(data, opts.PNGScale)
			if err != nil {
				return nil, fmt.Errorf("convert png: %w", err)
			}
			artifacts[format] = png
		case FormatPDF:
			data, err := needSVG()
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			pdf, err := render.ToPDF(data)
			if err != nil {
				return nil, fmt.Errorf("convert pdf: %w", err)
			}
			artifacts[format] = pdf
		case FormatDOT:
			artifacts[format] = []byte(render.ToDOT(scene))
		case FormatJSON:
			data, err := json.MarshalIndent(scene, "", "  ")
			if err != nil {
				return nil, fmt.Errorf("marshal scene: %w", err)
			}
			artifacts[format] = data
		}
	}

	return artifacts, nil
}

// neighborhoodKey derives the extraction cache key from the graph content,
// the name map, and the extraction parameters.
func (r *Runner) neighborhoodKey(g *graph.Graph, nm names.Map, opts Options) (string, error) {
	graphData, err := graph.Marshal(g)
	if err != nil {
		return "", fmt.Errorf("serialize graph for cache key: %w", err)
	}
	namesData, err := json.Marshal(nm)
	if err != nil {
		return "", fmt.Errorf("serialize names for cache key: %w", err)
	}
	inputHash := cache.Hash(append(graphData, namesData...))
	return r.Keyer.NeighborhoodKey(inputHash, opts.NeighborhoodKeyOpts()), nil
}

// encodeNeighborhood serializes an extraction result for caching.
func encodeNeighborhood(res *neighborhood.Result) ([]byte, error) {
	return json.Marshal(cachedNeighborhood{
		Start:    res.Start,
		Visited:  res.VisitedCount,
		Subgraph: graph.FromGraph(res.Subgraph),
		Labels:   res.Labels,
	})
}

// decodeNeighborhood restores an extraction result from its cached form.
func decodeNeighborhood(data []byte) (*neighborhood.Result, error) {
	var c cachedNeighborhood
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, err
	}
	sub, err := graph.ToGraph(c.Subgraph)
	if err != nil {
		return nil, err
	}
	return &neighborhood.Result{
		Start:        c.Start,
		Subgraph:     sub,
		Labels:       c.Labels,
		VisitedCount: c.Visited,
	}, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
