// Package cache provides pluggable byte caching for pipeline stages.
//
// Three backends are available: [FileCache] for CLI usage, [RedisCache] for
// server deployments, and [NullCache] to disable caching. Keys are produced
// by a [Keyer] so every component derives them the same way.
package cache

import (
	"context"
	"time"
)

// TTLs for the different pipeline stages. Extractions and layouts are
// deterministic for a given input, so they keep for a long time; rendered
// artifacts are larger and cheaper to rebuild.
const (
	// TTLNeighborhood is how long extracted neighborhoods are cached.
	TTLNeighborhood = 7 * 24 * time.Hour

	// TTLLayout is how long computed layouts are cached.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is how long rendered artifacts are cached.
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// NeighborhoodKeyOpts are the parameters that distinguish one extraction
// from another over the same graph.
type NeighborhoodKeyOpts struct {
	Start    string `json:"start"`
	MaxDepth int    `json:"max_depth"`
	MaxNodes int    `json:"max_nodes"`
}

// LayoutKeyOpts are the parameters that distinguish one layout from another
// over the same subgraph.
type LayoutKeyOpts struct {
	Algorithm  string  `json:"algorithm"`
	K          float64 `json:"k"`
	Iterations int     `json:"iterations"`
	Seed       uint64  `json:"seed"`
}

// ArtifactKeyOpts are the parameters that distinguish one rendered artifact
// from another over the same layout.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Engine    string  `json:"engine"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	NodeSize  float64 `json:"node_size"`
	FontSize  float64 `json:"font_size"`
	EdgeAlpha float64 `json:"edge_alpha"`
	Title     string  `json:"title"`
	PNGScale  float64 `json:"png_scale"`
}

// Keyer derives cache keys for the pipeline stages.
// Separating key derivation from storage lets the server prefix keys without
// touching the backends.
type Keyer interface {
	// NeighborhoodKey keys an extracted neighborhood by graph content hash
	// and extraction parameters.
	NeighborhoodKey(graphHash string, opts NeighborhoodKeyOpts) string

	// LayoutKey keys a layout by subgraph content hash and layout parameters.
	LayoutKey(subgraphHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact by layout hash and render
	// parameters.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer derives keys as prefix:sha256(json(parts)).
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// NeighborhoodKey implements Keyer.
func (k *DefaultKeyer) NeighborhoodKey(graphHash string, opts NeighborhoodKeyOpts) string {
	return hashKey("nbhd", graphHash, opts)
}

// LayoutKey implements Keyer.
func (k *DefaultKeyer) LayoutKey(subgraphHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", subgraphHash, opts)
}

// ArtifactKey implements Keyer.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
