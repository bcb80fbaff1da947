package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/amdtrace/amdtrace/pkg/pipeline"
)

// traceCommand creates the trace command, the main entry point of the tool.
func (c *CLI) traceCommand() *cobra.Command {
	var (
		configPath string
		baseDir    string
		output     string
		formatsStr string
		detailed   bool
		noCache    bool
		refresh    bool
		save       bool
	)

	cmd := &cobra.Command{
		Use:   "trace [entry]",
		Short: "Trace the dependency graph of an AMD module",
		Long: `Trace the dependency graph of an AMD module.

Starting from the entry module id, trace resolves and reads every reachable
module, following define() and require() dependency arrays as well as
CommonJS-sugar require("x") calls. Loader plugins ("text!views/home.html")
are traced as distinct modules.

Results are cached by entry and loader config; use --refresh to ignore a
cached trace and --no-cache to disable caching entirely. With --save the
run is recorded in the archive for later browsing via 'amdtrace history'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Entry:      args[0],
				ConfigPath: configPath,
				BaseDir:    baseDir,
				Refresh:    refresh,
				Formats:    parseFormats(formatsStr, c.toolConfig().Formats),
				Detailed:   detailed,
				Save:       save,
			}
			c.applyToolDefaults(&opts)
			if err := pipeline.ValidateFormats(opts.Formats); err != nil {
				return err
			}
			return c.runTrace(cmd.Context(), opts, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "loader config JSON file (baseUrl, paths, map)")
	cmd.Flags().StringVarP(&baseDir, "dir", "d", "", "module tree root (default \".\")")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): json (default), dot, svg, png (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include plugin metadata in DOT labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached trace results")
	cmd.Flags().BoolVar(&save, "save", false, "record the run in the archive")

	return cmd
}

// runTrace executes the trace pipeline and writes the requested artifacts.
func (c *CLI) runTrace(ctx context.Context, opts pipeline.Options, output string, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	if opts.Save {
		st, err := c.newStore(ctx)
		if err != nil {
			return fmt.Errorf("open run archive: %w", err)
		}
		runner.Store = st
	}
	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Tracing %s...", opts.Entry))
	spinner.Start()

	result, err := runner.Execute(ctx, opts)
	if err != nil {
		// An interrupted run is not a failure; main exits quietly on it.
		if spinner.Cancelled() {
			spinner.Stop()
		} else {
			spinner.StopWithError("Trace failed")
		}
		return err
	}
	spinner.Stop()

	printSuccess("Traced %s", opts.Entry)
	printStats(result.Stats.NodeCount, result.Stats.EdgeCount, result.CacheInfo.TraceHit)

	if err := writeArtifacts(artifactWriteParams{
		artifacts: result.Artifacts,
		formats:   opts.Formats,
		input:     entryBase(opts.Entry),
		output:    output,
	}); err != nil {
		return err
	}

	if result.RunID != "" {
		printDetail("Archived run %s", result.RunID[:8])
	}

	if jsonPath := jsonArtifactPath(opts.Formats, output, entryBase(opts.Entry)); jsonPath != "" {
		printNextStep("Render it", fmt.Sprintf("amdtrace render %s --format svg", jsonPath))
	}
	return nil
}

// jsonArtifactPath returns the path the JSON artifact was written to, or ""
// when JSON was not among the requested formats. Mirrors the path rule in
// writeArtifacts.
func jsonArtifactPath(formats []string, output, input string) string {
	if !slices.Contains(formats, pipeline.FormatJSON) {
		return ""
	}
	if output != "" && len(formats) == 1 {
		return output
	}
	return basePath(output, input) + "." + pipeline.FormatJSON
}
