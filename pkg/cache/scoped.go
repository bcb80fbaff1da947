package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation.
// This is useful when one serve instance or a shared Redis handles several
// project roots that must not see each other's cache entries.
//
// Example usage:
//
//	// Per-project keys for a shared backend
//	projectKeyer := NewScopedKeyer(NewDefaultKeyer(), "proj:webapp:")
//
//	// Global keys for a single-project CLI run
//	globalKeyer := NewDefaultKeyer()
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

// TraceKey generates a prefixed key for trace result caching.
func (k *ScopedKeyer) TraceKey(entry, configHash string, opts TraceKeyOpts) string {
	return k.prefix + k.inner.TraceKey(entry, configHash, opts)
}

// ArtifactKey generates a prefixed key for rendered artifact caching.
func (k *ScopedKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(graphHash, opts)
}
