package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amdtrace/amdtrace/pkg/cache"
	"github.com/amdtrace/amdtrace/pkg/dag"
	"github.com/amdtrace/amdtrace/pkg/graph"
	"github.com/amdtrace/amdtrace/pkg/observability"
	"github.com/amdtrace/amdtrace/pkg/store"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and server can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache, archive, and logger - it
// doesn't store pipeline results. Multiple goroutines can safely use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Store  store.Store // Optional run archive, nil disables --save
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
// The run archive is off by default; assign Store to enable it.
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

// Execute runs the complete trace → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	if opts.Save && r.Store == nil {
		return nil, fmt.Errorf("save requested but no run archive configured")
	}

	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	opts.Config = cfg

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Trace
	traceStart := time.Now()
	observability.Pipeline().OnTraceStart(ctx, opts.Entry)
	g, traceHit, err := r.TraceWithCacheInfo(ctx, opts)
	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	observability.Pipeline().OnTraceComplete(ctx, opts.Entry, nodes, time.Since(traceStart), err)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	result.Graph = g
	result.Stats.TraceTime = time.Since(traceStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.TraceHit = traceHit

	// Compute graph hash for cache keys and API responses
	if graphData, err := graph.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("traced modules",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"cached", traceHit,
		"duration", result.Stats.TraceTime)

	// Stage 2: Render
	renderStart := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(renderStart), err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", renderHit,
		"duration", result.Stats.RenderTime)

	// Optionally archive the run
	if opts.Save {
		run := store.NewRun(opts.Entry, cfg.Hash(), opts.BaseDir, graph.FromDAG(g))
		if err := r.Store.Save(ctx, run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
		result.RunID = run.ID
		r.Logger.Info("archived run", "id", run.ShortID())
	}

	return result, nil
}

// TraceWithCacheInfo traces the module graph with caching and returns cache hit info.
//
// A refresh skips the cache read but still writes the fresh result back, so
// later traces benefit from it.
func (r *Runner) TraceWithCacheInfo(ctx context.Context, opts Options) (*dag.DAG, bool, error) {
	if err := opts.ValidateForTrace(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	cfg, err := LoadConfig(opts)
	if err != nil {
		return nil, false, fmt.Errorf("load config: %w", err)
	}

	cacheKey := r.Keyer.TraceKey(opts.Entry, cfg.Hash(), opts.TraceKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			g, err := graph.ReadGraph(bytes.NewReader(data))
			if err == nil {
				observability.Cache().OnCacheHit(ctx, "trace")
				return g, true, nil // Cache hit
			}
		}
		observability.Cache().OnCacheMiss(ctx, "trace")
	}

	// Trace
	g, err := Trace(ctx, cfg, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if data, err := graph.MarshalGraph(g); err == nil {
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLTrace) == nil {
			observability.Cache().OnCacheSet(ctx, "trace", len(data))
		}
	}

	return g, false, nil // Cache miss
}

// Trace is a convenience wrapper that calls TraceWithCacheInfo and discards the cache hit info.
func (r *Runner) Trace(ctx context.Context, opts Options) (*dag.DAG, error) {
	g, _, err := r.TraceWithCacheInfo(ctx, opts)
	return g, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
//
// Artifacts are keyed by graph content hash, so a re-traced but unchanged
// graph reuses its cached artifacts.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *dag.DAG, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	graphData, err := graph.MarshalGraph(g)
	if err != nil {
		return nil, false, fmt.Errorf("serialize graph for cache key: %w", err)
	}
	graphHash := cache.Hash(graphData)

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		observability.Cache().OnCacheHit(ctx, "artifact")
		return artifacts, true, nil // All artifacts from cache
	}
	observability.Cache().OnCacheMiss(ctx, "artifact")

	// Render all formats
	rendered, err := Render(g, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(graphHash, opts.ArtifactKeyOpts(format))
		if r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact) == nil {
			observability.Cache().OnCacheSet(ctx, "artifact", len(data))
		}
	}

	return rendered, false, nil // Cache miss
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *dag.DAG, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, opts)
	return artifacts, err
}

// Close releases resources held by the runner (the cache and, if configured,
// the run archive).
func (r *Runner) Close() error {
	var firstErr error
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			firstErr = err
		}
	}
	if r.Store != nil {
		if err := r.Store.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
