package pipeline

import (
	"context"
	"fmt"

	"github.com/amdtrace/amdtrace/pkg/amd"
	"github.com/amdtrace/amdtrace/pkg/dag"
	"github.com/amdtrace/amdtrace/pkg/graph"
	"github.com/amdtrace/amdtrace/pkg/trace"
)

// LoadConfig resolves the loader configuration for a trace. Precedence:
// a pre-loaded Config, then ConfigPath, then an empty configuration
// (bare module ids relative to the base directory).
func LoadConfig(opts Options) (*amd.Config, error) {
	if opts.Config != nil {
		return opts.Config, nil
	}
	if opts.ConfigPath != "" {
		return amd.LoadConfig(opts.ConfigPath)
	}
	return &amd.Config{}, nil
}

// Trace walks the module graph from the entry module and converts the
// result into a DAG with plugin metadata attached.
func Trace(ctx context.Context, cfg *amd.Config, opts Options) (*dag.DAG, error) {
	traceOpts := trace.Options{}
	if opts.Logger != nil {
		logger := opts.Logger
		traceOpts.Logger = func(format string, args ...any) {
			logger.Debugf(format, args...)
		}
	}

	tg, err := trace.Trace(ctx, opts.Entry, cfg, opts.BaseDir, traceOpts)
	if err != nil {
		return nil, err
	}

	g, err := graph.FromTrace(tg)
	if err != nil {
		return nil, fmt.Errorf("convert trace: %w", err)
	}
	return g, nil
}
