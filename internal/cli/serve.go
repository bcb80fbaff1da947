package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/amdtrace/amdtrace/pkg/dag"
	"github.com/amdtrace/amdtrace/pkg/pipeline"
)

const (
	// defaultServeAddr is the listen address used when --addr is not given.
	defaultServeAddr = ":8080"

	// watchDebounce is how long file events must settle before a re-trace.
	watchDebounce = 250 * time.Millisecond

	// shutdownTimeout bounds graceful HTTP shutdown on interrupt.
	shutdownTimeout = 5 * time.Second
)

// serveCommand creates the serve command for the HTTP dev server.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		configPath string
		baseDir    string
		addr       string
		watch      bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "serve [entry]",
		Short: "Serve the traced graph over HTTP",
		Long: `Serve the traced graph over HTTP.

Traces the entry module once at startup and exposes the graph on a local
HTTP server:

  GET /api/graph      dependency graph as JSON
  GET /api/graph.dot  dependency graph as Graphviz DOT
  GET /graph.svg      rendered SVG
  GET /healthz        liveness check

With --watch the module tree is watched and the graph is re-traced whenever
source files change, so the endpoints always reflect the working tree.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Entry:      args[0],
				ConfigPath: configPath,
				BaseDir:    baseDir,
				// A watched server must see edits immediately; a cached
				// trace predating them would be stale.
				Refresh: watch,
			}
			c.applyToolDefaults(&opts)
			return c.runServe(cmd.Context(), opts, serveOpts{
				addr:    addr,
				watch:   watch,
				noCache: noCache,
			})
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "loader config JSON file (baseUrl, paths, map)")
	cmd.Flags().StringVarP(&baseDir, "dir", "d", "", "module tree root (default \".\")")
	cmd.Flags().StringVar(&addr, "addr", defaultServeAddr, "listen address")
	cmd.Flags().BoolVar(&watch, "watch", false, "re-trace when module sources change")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// serveOpts holds the server-level flags of the serve command.
type serveOpts struct {
	addr    string
	watch   bool
	noCache bool
}

// runServe traces the entry module and serves the graph until ctx is done.
func (c *CLI) runServe(ctx context.Context, opts pipeline.Options, sOpts serveOpts) error {
	runner, err := c.newRunner(ctx, sOpts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Tracing %s...", opts.Entry))
	spinner.Start()

	g, cacheHit, err := runner.TraceWithCacheInfo(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
		} else {
			spinner.StopWithError("Trace failed")
		}
		return err
	}
	spinner.Stop()

	printSuccess("Traced %s", opts.Entry)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)

	srv := &graphServer{
		runner: runner,
		opts:   opts,
		logger: c.Logger,
	}
	srv.setGraph(g)

	if sOpts.watch {
		retrace := func() {
			prog := newProgress(c.Logger)
			fresh, err := runner.Trace(ctx, opts)
			if err != nil {
				printWarning("Re-trace failed: %v", err)
				return
			}
			srv.setGraph(fresh)
			prog.donef("Re-traced %s: %d modules", opts.Entry, fresh.NodeCount())
		}

		watcher, err := watchModules(ctx, opts.BaseDir, c.Logger, retrace)
		if err != nil {
			return fmt.Errorf("watch %s: %w", opts.BaseDir, err)
		}
		defer watcher.Close()
		printInfo("Watching %s for changes", opts.BaseDir)
	}

	httpServer := &http.Server{
		Addr:              sOpts.addr,
		Handler:           srv.routes(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	printInfo("Serving on %s", StyleLink.Render("http://"+displayAddr(sOpts.addr)))
	printDetail("GET /api/graph · /api/graph.dot · /graph.svg · /healthz")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	}
}

// displayAddr turns a listen address into something printable as a URL host.
func displayAddr(addr string) string {
	if strings.HasPrefix(addr, ":") {
		return "localhost" + addr
	}
	return addr
}

// =============================================================================
// graphServer - HTTP Surface
// =============================================================================

// errNoGraph is returned by artifact when no trace has completed yet.
var errNoGraph = errors.New("no graph traced yet")

// graphServer serves the current traced graph. The graph is swapped
// atomically by the watch loop; renders go through the runner so artifact
// caching applies.
type graphServer struct {
	runner *pipeline.Runner
	opts   pipeline.Options
	logger *log.Logger

	mu      sync.RWMutex
	current *dag.DAG
}

// setGraph replaces the served graph.
func (s *graphServer) setGraph(g *dag.DAG) {
	s.mu.Lock()
	s.current = g
	s.mu.Unlock()
}

// graph returns the currently served graph, or nil before the first trace.
func (s *graphServer) graph() *dag.DAG {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// routes builds the chi router for the server.
func (s *graphServer) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	r.Get("/api/graph", s.handleGraphJSON)
	r.Get("/api/graph.dot", s.handleGraphDOT)
	r.Get("/graph.svg", s.handleGraphSVG)

	return r
}

// requestLogger attaches the server logger to the request context and logs
// each request at debug level.
func (s *graphServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(withLogger(r.Context(), s.logger)))

		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start).Round(time.Millisecond),
		)
	})
}

func (s *graphServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	modules := 0
	if g := s.graph(); g != nil {
		modules = g.NodeCount()
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprintf(w, "{\"status\":\"ok\",\"modules\":%d}\n", modules)
}

func (s *graphServer) handleGraphJSON(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatJSON, "application/json")
}

func (s *graphServer) handleGraphDOT(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatDOT, "text/vnd.graphviz")
}

func (s *graphServer) handleGraphSVG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatSVG, "image/svg+xml")
}

// serveArtifact renders the current graph to format and writes it out.
func (s *graphServer) serveArtifact(w http.ResponseWriter, r *http.Request, format, contentType string) {
	data, err := s.artifact(r.Context(), format)
	if errors.Is(err, errNoGraph) {
		http.Error(w, err.Error(), http.StatusServiceUnavailable)
		return
	}
	if err != nil {
		loggerFromContext(r.Context()).Error("render failed", "format", format, "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", contentType)
	_, _ = w.Write(data)
}

// artifact renders the current graph to a single format through the runner,
// so repeated requests for an unchanged graph hit the artifact cache.
func (s *graphServer) artifact(ctx context.Context, format string) ([]byte, error) {
	g := s.graph()
	if g == nil {
		return nil, errNoGraph
	}

	opts := pipeline.Options{
		Formats:  []string{format},
		Detailed: s.opts.Detailed,
		Logger:   s.logger,
	}
	artifacts, err := s.runner.Render(ctx, g, opts)
	if err != nil {
		return nil, err
	}
	return artifacts[format], nil
}

// =============================================================================
// File Watching
// =============================================================================

// watchModules watches the module tree rooted at root and invokes retrace
// once file events settle for watchDebounce. Hidden directories and
// node_modules are skipped; newly created directories are picked up.
func watchModules(ctx context.Context, root string, logger *log.Logger, retrace func()) (*fsnotify.Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && watchIgnored(d.Name()) {
			return filepath.SkipDir
		}
		return watcher.Add(path)
	})
	if err != nil {
		watcher.Close()
		return nil, err
	}

	go func() {
		var timer *time.Timer
		var timerC <-chan time.Time

		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !relevantChange(event) {
					continue
				}
				logger.Debug("source changed", "path", event.Name, "op", event.Op.String())

				// New directories need their own watch.
				if event.Has(fsnotify.Create) {
					if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
						_ = watcher.Add(event.Name)
					}
				}

				if timer == nil {
					timer = time.NewTimer(watchDebounce)
					timerC = timer.C
				} else {
					timer.Reset(watchDebounce)
				}
			case <-timerC:
				timer = nil
				timerC = nil
				retrace()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("watch error", "err", err)
			}
		}
	}()

	return watcher, nil
}

// watchIgnored reports whether a directory should not be watched.
func watchIgnored(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}

// relevantChange filters events that cannot affect the traced graph.
func relevantChange(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return !strings.HasPrefix(filepath.Base(event.Name), ".")
}
