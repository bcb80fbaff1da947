// Package trace builds the complete dependency graph of an AMD-style module
// tree, starting from one entry module.
//
// The tracer statically parses each module's source for its declared
// dependency requests and recursively resolves and visits them until no new
// modules are discovered. Modules are processed breadth-first in discovery
// order; within one module, edges keep source-declaration order.
//
// # Concurrency Model
//
// Traversal is strictly serial: one module is processed per loop iteration,
// and graph and worklist mutations happen only between await points. File
// reads are the exception: every discovered module's read starts immediately
// and runs while earlier modules are still being parsed, so by the time a
// module is dequeued its source is often already in memory.
//
// # Failure Model
//
// An unreadable module aborts the whole trace with a *ReadError naming the
// module, the path, and the underlying OS error. Nothing is retried and no
// partial graph is returned. Resolver and extractor errors propagate
// unmodified.
package trace

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/amdtrace/amdtrace/pkg/amd"
	"github.com/amdtrace/amdtrace/pkg/observability"
)

// ResolveFunc turns a raw specifier into a resolved module identifier.
// context is the resolved identifier of the requesting module, empty for
// the entry module.
type ResolveFunc func(spec, context string) (string, error)

// ParseFunc decomposes a resolved identifier into its bare id and optional
// loader-plugin prefix.
type ParseFunc func(id string) amd.ModuleRef

// PathFunc maps a decomposed identifier to the file it is read from.
type PathFunc func(ref amd.ModuleRef) string

// ExtractFunc returns the raw dependency specifiers a module's source
// declares, in source order.
type ExtractFunc func(src []byte) ([]string, error)

// Options configures a trace. Zero-value fields fall back to the loader
// built from the trace's Config and to the amd package's implementations.
type Options struct {
	Resolve  ResolveFunc          // Specifier resolution (default: amd.Loader)
	Parse    ParseFunc            // Identifier decomposition (default: amd.ParseID)
	Path     PathFunc             // Path mapping (default: amd.Loader)
	Extract  ExtractFunc          // Dependency extraction (default: amd.Extract)
	ReadFile ReadFileFunc         // File read primitive (default: os.ReadFile)
	Logger   func(string, ...any) // Progress callback (optional)
}

func (o Options) withDefaults(cfg *amd.Config) Options {
	opts := o
	if opts.Resolve == nil || opts.Path == nil {
		loader := amd.NewLoader(cfg)
		if opts.Resolve == nil {
			opts.Resolve = loader.Resolve
		}
		if opts.Path == nil {
			opts.Path = loader.Path
		}
	}
	if opts.Parse == nil {
		opts.Parse = amd.ParseID
	}
	if opts.Extract == nil {
		opts.Extract = amd.Extract
	}
	if opts.ReadFile == nil {
		opts.ReadFile = readFile
	}
	if opts.Logger == nil {
		opts.Logger = func(string, ...any) {}
	}
	return opts
}

// Trace builds the dependency graph reachable from entry, resolving
// specifiers according to cfg and reading module files relative to baseDir.
//
// The returned Graph covers the entry module and every module transitively
// reachable from it. If any reachable module's file cannot be read, Trace
// returns a *ReadError and no graph.
func Trace(ctx context.Context, entry string, cfg *amd.Config, baseDir string, opts Options) (*Graph, error) {
	t := &tracer{
		opts:    opts.withDefaults(cfg),
		baseDir: baseDir,
		graph:   NewGraph(),
		pending: make(map[string]*pendingRead),
		work:    newWorklist(),
	}

	start := time.Now()
	g, err := t.run(ctx, entry)
	observability.Trace().OnComplete(ctx, t.graph.Len(), t.graph.EdgeCount(), time.Since(start), err)
	return g, err
}

// tracer holds the state of one trace invocation. Nothing is shared across
// invocations.
type tracer struct {
	opts    Options
	baseDir string

	graph   *Graph
	pending map[string]*pendingRead
	work    *worklist
}

func (t *tracer) run(ctx context.Context, entry string) (*Graph, error) {
	rootID, err := t.opts.Resolve(entry, "")
	if err != nil {
		return nil, err
	}
	t.discover(ctx, rootID)

	for {
		id, ok := t.work.shift()
		if !ok {
			break
		}
		if err := t.process(ctx, id); err != nil {
			return nil, err
		}
	}
	return t.graph, nil
}

// discover registers id for processing: decompose it, map it to a path,
// start the read immediately, and queue the id. The read runs while earlier
// modules are still being processed. An id with a read already in flight is
// left untouched.
func (t *tracer) discover(ctx context.Context, id string) {
	if _, ok := t.pending[id]; ok {
		return
	}
	ref := t.opts.Parse(id)
	path := t.absPath(t.opts.Path(ref))
	t.pending[id] = startRead(ctx, t.opts.ReadFile, ref, path)
	t.work.push(id)
	observability.Trace().OnDiscover(ctx, id)
}

// process awaits id's read, records its node and edges, and discovers any
// dependency that is not yet a graph key. The edge itself is recorded
// unconditionally so repeated requests stay visible in the edge multiset.
func (t *tracer) process(ctx context.Context, id string) error {
	pending := t.pending[id]
	src, err := pending.await(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &ReadError{ID: id, Path: pending.path, Err: err}
	}

	specs, err := t.opts.Extract(src)
	if err != nil {
		return err
	}

	t.graph.Add(id)
	for _, spec := range specs {
		depID, err := t.opts.Resolve(spec, id)
		if err != nil {
			return err
		}
		t.graph.AddDep(id, depID)
		if !t.graph.Has(depID) {
			t.discover(ctx, depID)
		}
	}
	delete(t.pending, id)

	observability.Trace().OnModule(ctx, id, len(specs))
	t.opts.Logger("traced %s (%d deps)", id, len(specs))
	return nil
}

// absPath anchors a loader-relative path under the trace base directory.
// Absolute and URL-shaped paths pass through; reads of the latter fail and
// surface as ReadErrors.
func (t *tracer) absPath(p string) string {
	if filepath.IsAbs(p) || strings.Contains(p, "://") {
		return p
	}
	return filepath.Join(t.baseDir, filepath.FromSlash(p))
}
