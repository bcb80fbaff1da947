package cache

import (
	"context"
	"time"
)

// Default TTLs for the two cached layers.
const (
	// TTLTrace bounds how long a trace result is reused without re-reading
	// module files from disk. Use --refresh to force a re-trace earlier.
	TTLTrace = 15 * time.Minute

	// TTLArtifact bounds rendered artifact reuse. Artifacts are keyed by
	// graph content hash, so entries only go stale when the renderer
	// itself changes.
	TTLArtifact = 24 * time.Hour
)

// Cache is the byte-oriented storage interface shared by all backends.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// errors are reserved for backend failures. A ttl of 0 stores without
// expiry. Implementations are safe for concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Keyer generates cache keys for the two cached layers: trace results and
// rendered artifacts.
type Keyer interface {
	// TraceKey identifies a trace result by entry module, loader
	// configuration hash, and trace options.
	TraceKey(entry, configHash string, opts TraceKeyOpts) string

	// ArtifactKey identifies a rendered artifact by graph content hash
	// and render options.
	ArtifactKey(graphHash string, opts ArtifactKeyOpts) string
}

// TraceKeyOpts are the options that affect trace results.
type TraceKeyOpts struct {
	BaseDir string
}

// ArtifactKeyOpts are the options that affect rendered artifacts.
type ArtifactKeyOpts struct {
	Format   string // "dot", "svg", or "png"
	Detailed bool
}

// DefaultKeyer generates hash-based cache keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer { return &DefaultKeyer{} }

// TraceKey generates a key for trace result caching.
func (k *DefaultKeyer) TraceKey(entry, configHash string, opts TraceKeyOpts) string {
	return hashKey("trace", entry, configHash, opts.BaseDir)
}

// ArtifactKey generates a key for rendered artifact caching.
func (k *DefaultKeyer) ArtifactKey(graphHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", graphHash, opts.Format, opts.Detailed)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
