package cli

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/amdtrace/amdtrace/pkg/observability"
)

// debugHooks forwards tracer, cache, and pipeline events to the CLI logger
// at debug level. Installed under --verbose; the libraries themselves stay
// free of any logging dependency.
type debugHooks struct {
	logger *log.Logger
}

// installDebugHooks registers debug-logging observability hooks.
func installDebugHooks(logger *log.Logger) {
	h := &debugHooks{logger: logger}
	observability.SetTraceHooks(h)
	observability.SetCacheHooks(h)
	observability.SetPipelineHooks(h)
}

func (h *debugHooks) OnDiscover(ctx context.Context, id string) {
	h.logger.Debug("discovered module", "id", id)
}

func (h *debugHooks) OnModule(ctx context.Context, id string, depCount int) {
	h.logger.Debug("traced module", "id", id, "deps", depCount)
}

func (h *debugHooks) OnComplete(ctx context.Context, nodeCount, edgeCount int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("trace aborted", "nodes", nodeCount, "edges", edgeCount, "err", err)
		return
	}
	h.logger.Debug("trace complete",
		"nodes", nodeCount,
		"edges", edgeCount,
		"duration", duration.Round(time.Millisecond),
	)
}

func (h *debugHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.logger.Debug("cache hit", "type", keyType)
}

func (h *debugHooks) OnCacheMiss(ctx context.Context, keyType string) {
	h.logger.Debug("cache miss", "type", keyType)
}

func (h *debugHooks) OnCacheSet(ctx context.Context, keyType string, size int) {
	h.logger.Debug("cache set", "type", keyType, "bytes", size)
}

func (h *debugHooks) OnTraceStart(ctx context.Context, entry string) {
	h.logger.Debug("trace stage start", "entry", entry)
}

func (h *debugHooks) OnTraceComplete(ctx context.Context, entry string, nodeCount int, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("trace stage failed", "entry", entry, "err", err)
		return
	}
	h.logger.Debug("trace stage done",
		"entry", entry,
		"nodes", nodeCount,
		"duration", duration.Round(time.Millisecond),
	)
}

func (h *debugHooks) OnRenderStart(ctx context.Context, formats []string) {
	h.logger.Debug("render stage start", "formats", formats)
}

func (h *debugHooks) OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error) {
	if err != nil {
		h.logger.Debug("render stage failed", "formats", formats, "err", err)
		return
	}
	h.logger.Debug("render stage done",
		"formats", formats,
		"duration", duration.Round(time.Millisecond),
	)
}
