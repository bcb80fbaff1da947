package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/amdtrace/amdtrace/pkg/buildinfo"
	"github.com/amdtrace/amdtrace/pkg/cache"
	"github.com/amdtrace/amdtrace/pkg/pipeline"
	"github.com/amdtrace/amdtrace/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "amdtrace"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configFile string      // --config-file flag value
	toolCfg    *ToolConfig // loaded once per invocation in PersistentPreRunE
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level. Raising it to debug also installs
// observability hooks so library events reach the log.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
	if level == LogDebug {
		installDebugHooks(c.Logger)
	}
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          "amdtrace",
		Short:        "Amdtrace maps AMD module dependency graphs",
		Long:         `Amdtrace statically traces the dependency graph of an AMD (RequireJS-style) JavaScript codebase from a single entry module and exports it as JSON, DOT, SVG, or PNG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadToolConfig(c.configFile)
			if err != nil {
				return err
			}
			c.toolCfg = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configFile, "config-file", "", "tool config file (default .amdtrace.toml if present)")

	// Register all subcommands
	root.AddCommand(c.traceCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// toolConfig returns the loaded tool config, or an empty one when a command
// runs outside RootCommand (tests).
func (c *CLI) toolConfig() *ToolConfig {
	if c.toolCfg == nil {
		return &ToolConfig{}
	}
	return c.toolCfg
}

// applyToolDefaults fills unset pipeline options from the tool config.
func (c *CLI) applyToolDefaults(opts *pipeline.Options) {
	cfg := c.toolConfig()
	if opts.BaseDir == "" {
		opts.BaseDir = cfg.BaseDir
	}
	if opts.ConfigPath == "" {
		opts.ConfigPath = cfg.LoaderConfig
	}
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cch, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cch, nil, c.Logger), nil
}

// newCache selects the cache backend from the tool config.
func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cfg := c.toolConfig().Cache
	switch cfg.Backend {
	case "", cacheBackendFile:
		dir, err := cacheDir()
		if err != nil {
			return cache.NewNullCache(), nil
		}
		return cache.NewFileCache(dir)
	case cacheBackendMemory:
		return cache.NewMemoryCache(), nil
	case cacheBackendRedis:
		if cfg.RedisURL == "" {
			return nil, fmt.Errorf("cache backend %q requires redis_url", cfg.Backend)
		}
		return cache.NewRedisCache(ctx, cfg.RedisURL)
	case cacheBackendNone:
		return cache.NewNullCache(), nil
	default:
		return nil, fmt.Errorf("unknown cache backend: %q", cfg.Backend)
	}
}

// newStore selects the run archive backend from the tool config.
func (c *CLI) newStore(ctx context.Context) (store.Store, error) {
	cfg := c.toolConfig().Archive
	switch cfg.Backend {
	case "", archiveBackendFile:
		st, err := store.NewFileStore("")
		if err != nil {
			return nil, err
		}
		return st, nil
	case archiveBackendMongo:
		if cfg.MongoURI == "" {
			return nil, fmt.Errorf("archive backend %q requires mongo_uri", cfg.Backend)
		}
		db := cfg.MongoDatabase
		if db == "" {
			db = appName
		}
		st, err := store.NewMongoStore(ctx, cfg.MongoURI, db)
		if err != nil {
			return nil, err
		}
		return st, nil
	default:
		return nil, fmt.Errorf("unknown archive backend: %q", cfg.Backend)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/amdtrace/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format flag into a slice, falling
// back to defaults when the flag is empty.
func parseFormats(s string, defaults []string) []string {
	if s == "" {
		if len(defaults) > 0 {
			return slices.Clone(defaults)
		}
		return []string{pipeline.DefaultFormat}
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
