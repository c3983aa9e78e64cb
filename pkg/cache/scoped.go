package cache

// ScopedKeyer wraps a Keyer with a prefix so separate deployments can share
// one Redis instance without key collisions.
//
// Example usage:
//
//	// API-scoped keys on a shared Redis
//	apiKeyer := NewScopedKeyer(NewDefaultKeyer(), "api:")
//
//	// Unprefixed keys for the CLI's private file cache
//	cliKeyer := NewDefaultKeyer()
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// NeighborhoodKey generates a prefixed key for neighborhood caching.
func (k *ScopedKeyer) NeighborhoodKey(graphHash string, opts NeighborhoodKeyOpts) string {
	return k.prefix + k.inner.NeighborhoodKey(graphHash, opts)
}

// LayoutKey generates a prefixed key for layout caching.
func (k *ScopedKeyer) LayoutKey(subgraphHash string, opts LayoutKeyOpts) string {
	return k.prefix + k.inner.LayoutKey(subgraphHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(layoutHash, opts)
}
