// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers can register hooks at startup
// to receive events about trace execution, cache operations, and pipeline
// stages.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, DataDog, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetTraceHooks(&myTraceHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Trace().OnDiscover(ctx, id)
//	// ... process the module ...
//	observability.Trace().OnModule(ctx, id, depCount)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Trace Hooks
// =============================================================================

// TraceHooks receives events from the module graph tracer.
type TraceHooks interface {
	// OnDiscover records a newly discovered module whose read has started.
	OnDiscover(ctx context.Context, id string)

	// OnModule records a fully processed module and its dependency count.
	OnModule(ctx context.Context, id string, depCount int)

	// OnComplete records the end of a trace, successful or not.
	OnComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the trace-and-export pipeline.
type PipelineHooks interface {
	// Trace stage events
	OnTraceStart(ctx context.Context, entry string)
	OnTraceComplete(ctx context.Context, entry string, nodeCount int, duration time.Duration, err error)

	// Render stage events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopTraceHooks is a no-op implementation of TraceHooks.
type NoopTraceHooks struct{}

func (NoopTraceHooks) OnDiscover(context.Context, string)                         {}
func (NoopTraceHooks) OnModule(context.Context, string, int)                      {}
func (NoopTraceHooks) OnComplete(context.Context, int, int, time.Duration, error) {}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopPipelineHooks is a no-op implementation of PipelineHooks.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnTraceStart(context.Context, string) {}
func (NoopPipelineHooks) OnTraceComplete(context.Context, string, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                          {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	traceHooks    TraceHooks    = NoopTraceHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	hooksMu       sync.RWMutex
)

// SetTraceHooks registers custom trace hooks.
// This should be called once at application startup before any traces run.
func SetTraceHooks(h TraceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		traceHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetPipelineHooks registers custom pipeline hooks.
// This should be called once at application startup before any pipeline runs.
func SetPipelineHooks(h PipelineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pipelineHooks = h
	}
}

// Trace returns the registered trace hooks.
func Trace() TraceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return traceHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pipelineHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	traceHooks = NoopTraceHooks{}
	cacheHooks = NoopCacheHooks{}
	pipelineHooks = NoopPipelineHooks{}
}
