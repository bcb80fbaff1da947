// Package pkg provides the core libraries for amdtrace dependency tracing.
//
// # Overview
//
// Amdtrace maps the dependency graph of AMD/RequireJS applications by reading
// module sources and following their declared dependencies. The pkg directory
// is organized into four main areas:
//
//  1. [amd] / [trace] - Domain logic (module resolution, dependency extraction, tracing)
//  2. [dag] / [graph] - Graph structure and serialization
//  3. [render] - Output generation (DOT, SVG, PNG)
//  4. [pipeline] - Orchestration (trace → render) with caching and archiving
//
// # Architecture
//
// The typical data flow through amdtrace:
//
//	Entry module id + loader config
//	         ↓
//	    [amd] package (resolve ids to files, extract dependencies)
//	         ↓
//	    [trace] package (worklist traversal over the module tree)
//	         ↓
//	    [dag] package (graph structure) / [graph] package (serialization)
//	         ↓
//	    [render] package (DOT source, SVG/PNG via Graphviz)
//
// # Quick Start
//
// Trace an application and render its graph:
//
//	import (
//	    "context"
//	    "github.com/amdtrace/amdtrace/pkg/cache"
//	    "github.com/amdtrace/amdtrace/pkg/pipeline"
//	)
//
//	r := pipeline.NewRunner(cache.NewMemoryCache(), nil, nil)
//	defer r.Close()
//
//	result, err := r.Execute(context.Background(), pipeline.Options{
//	    Entry:   "app/main",
//	    BaseDir: "./src",
//	    Formats: []string{"json", "svg"},
//	})
//	if err != nil {
//	    return err
//	}
//	svg := result.Artifacts["svg"]
//
// # Main Packages
//
// ## Domain Logic
//
// [amd] - The AMD module format: id parsing and normalization, loader config
// (baseUrl, paths, map), dependency extraction from define() and require()
// calls, and loader-plugin ids ("text!views/home.html").
//
// [trace] - Concurrent worklist tracer. Starting from the entry module it
// resolves, reads, and scans every reachable module, producing the full
// dependency graph.
//
// ## Graph
//
// [dag] - Directed multigraph of modules. Parallel edges mirror repeated
// dependency requests; cycles are tolerated and reported by Validate.
//
// [graph] - Serialization types and helpers for the canonical JSON graph
// format. Round-trips through [graph.WriteGraphFile] and [graph.ReadGraphFile].
//
// ## Rendering
//
// [render] - Graph rendering: DOT source generation plus SVG and PNG output
// through Graphviz.
//
// ## Infrastructure
//
// [pipeline] - Complete trace → render pipeline used by all CLI commands and
// the dev server. Handles caching, artifact generation, and run archiving.
//
// [cache] - Content-addressed result caching with file, memory, Redis, and
// null backends, plus key derivation (trace keys from entry/config/base dir,
// artifact keys from graph content hashes).
//
// [store] - Run archive recording completed traces. File backend for CLI use,
// MongoDB backend for shared archives.
//
// [observability] - Process-wide hook points for trace, cache, and pipeline
// events. No-op by default.
//
// [errors] - Error taxonomy shared across packages: wrapping helpers and
// validation error collection.
//
// [buildinfo] - Version metadata stamped at build time.
//
// # Common Workflows
//
// Trace without the pipeline layer:
//
//	cfg, _ := amd.LoadConfig("loader.json")
//	tg, _ := trace.Trace(ctx, "app/main", cfg, "./src", trace.Options{})
//	g, _ := graph.FromTrace(tg)
//
// Render an exported graph:
//
//	g, _ := graph.ReadGraphFile("graph.json")
//	dot := render.ToDOT(g, render.Options{Detailed: true})
//	svg, _ := render.RenderSVG(dot)
//
// Archive a run:
//
//	st, _ := store.NewFileStore("")
//	defer st.Close()
//	st.Save(ctx, store.NewRun("app/main", configHash, baseDir, exported))
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...                    # All tests
//	go test ./pkg/trace/...              # Specific package
//	go test -run Example                 # Examples only
//	go test -tags integration ./pkg/...  # Include integration tests
//
// [amd]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/amd
// [trace]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/trace
// [dag]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/dag
// [graph]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/graph
// [render]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/render
// [pipeline]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/cache
// [store]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/store
// [observability]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/observability
// [errors]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/errors
// [buildinfo]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/buildinfo
// [graph.WriteGraphFile]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/graph#WriteGraphFile
// [graph.ReadGraphFile]: https://pkg.go.dev/github.com/amdtrace/amdtrace/pkg/graph#ReadGraphFile
package pkg
