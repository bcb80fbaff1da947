// Package cli implements the amdtrace command-line interface.
//
// This package provides commands for tracing AMD module dependency graphs,
// rendering them as DOT/SVG/PNG, browsing archived runs, and serving the
// graph over HTTP during development. The CLI is built using cobra and
// supports verbose logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - trace: Walk the dependency graph of an AMD module and export it
//   - render: Re-render a previously traced graph without re-tracing
//   - inspect: Browse a traced graph interactively in the terminal
//   - serve: Serve the traced graph over HTTP, re-tracing on file changes
//   - history: Browse archived trace runs
//   - cache: Manage the trace result cache
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. Loggers are
// passed through context.Context so HTTP handlers and background work can
// report structured progress.
//
// # Example
//
//	import "github.com/amdtrace/amdtrace/internal/cli"
//
//	func main() {
//	    c := cli.New(os.Stderr, cli.LogInfo)
//	    if err := c.RootCommand().Execute(); err != nil {
//	        os.Exit(1)
//	    }
//	}
package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates a logger writing to w, filtered at level.
// Timestamps are formatted as "HH:MM:SS.hh" down to hundredths of a second,
// which is enough resolution to follow a re-trace in serve mode.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress measures one operation from construction to donef and logs the
// elapsed time as a structured field. Single-goroutine use only.
type progress struct {
	logger *log.Logger
	start  time.Time
}

// newProgress starts timing an operation.
func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// donef logs the formatted message at info level with a "took" field holding
// the elapsed time, rounded to the millisecond.
func (p *progress) donef(format string, args ...any) {
	p.logger.Info(fmt.Sprintf(format, args...), "took", time.Since(p.start).Round(time.Millisecond))
}

// ctxKey keys the logger in a context.Context without colliding with other
// packages' values.
type ctxKey struct{}

// withLogger attaches l to ctx. HTTP middleware uses this so handlers log
// through the request-scoped logger.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, l)
}

// loggerFromContext returns the logger attached to ctx, or log.Default()
// when none is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
