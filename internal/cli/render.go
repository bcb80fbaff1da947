package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/amdtrace/amdtrace/pkg/graph"
	"github.com/amdtrace/amdtrace/pkg/pipeline"
)

// renderCommand creates the render command for re-rendering a traced graph.
func (c *CLI) renderCommand() *cobra.Command {
	var (
		output     string
		formatsStr string
		detailed   bool
		noCache    bool
	)

	cmd := &cobra.Command{
		Use:   "render [graph.json]",
		Short: "Render a traced graph without re-tracing",
		Long: `Render a traced graph without re-tracing.

The render command takes a graph.json file (produced by 'trace') and renders
it to DOT, SVG, or PNG. The graph already contains all nodes and edges, so
this step never touches the module sources.

Artifacts are cached by graph content, so rendering an unchanged graph is
instant.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formats := parseFormats(formatsStr, []string{pipeline.FormatSVG})
			if err := pipeline.ValidateFormats(formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args[0], formats, detailed, output, noCache)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, png, json (comma-separated)")
	cmd.Flags().BoolVar(&detailed, "detailed", false, "include plugin metadata in DOT labels")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

// runRender loads the graph and renders it to the requested formats.
func (c *CLI) runRender(ctx context.Context, input string, formats []string, detailed bool, output string, noCache bool) error {
	g, err := graph.ReadGraphFile(input)
	if err != nil {
		return fmt.Errorf("load graph %s: %w", input, err)
	}

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := pipeline.Options{
		Formats:  formats,
		Detailed: detailed,
		Logger:   c.Logger,
	}

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %s...", input))
	spinner.Start()

	artifacts, cacheHit, err := runner.RenderWithCacheInfo(ctx, g, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
		} else {
			spinner.StopWithError("Render failed")
		}
		return fmt.Errorf("render: %w", err)
	}
	spinner.Stop()

	printSuccess("Rendered %s", input)
	printStats(g.NodeCount(), g.EdgeCount(), cacheHit)

	return writeArtifacts(artifactWriteParams{
		artifacts: artifacts,
		formats:   formats,
		input:     input,
		output:    output,
	})
}
