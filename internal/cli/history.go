package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/amdtrace/amdtrace/pkg/graph"
	"github.com/amdtrace/amdtrace/pkg/store"
)

// historyCommand creates the history command for browsing archived runs.
func (c *CLI) historyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Browse archived trace runs",
	}

	cmd.AddCommand(c.historyListCommand())
	cmd.AddCommand(c.historyShowCommand())

	return cmd
}

// historyListCommand creates the "history list" subcommand.
func (c *CLI) historyListCommand() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open run archive: %w", err)
			}
			defer st.Close()

			runs, err := st.List(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("list runs: %w", err)
			}

			if len(runs) == 0 {
				printInfo("No archived runs")
				printNextStep("Archive a trace", "amdtrace trace <entry> --save")
				return nil
			}

			for _, r := range runs {
				fmt.Printf("%s  %s  %s  %s\n",
					StyleHighlight.Render(r.ShortID()),
					StyleValue.Render(fmt.Sprintf("%-24s", r.Entry)),
					StyleDim.Render(fmt.Sprintf("%4d nodes %4d edges", r.Nodes, r.Edges)),
					StyleDim.Render(r.CreatedAt.Local().Format("2006-01-02 15:04")),
				)
			}
			printNextStep("Show a run", "amdtrace history show <id>")
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum runs to list (0 for all)")

	return cmd
}

// historyShowCommand creates the "history show" subcommand.
func (c *CLI) historyShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show an archived run",
		Long: `Show an archived run.

The id may be abbreviated to any unique prefix. With --output the archived
graph is exported as graph JSON, ready for 'amdtrace render'.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := c.newStore(cmd.Context())
			if err != nil {
				return fmt.Errorf("open run archive: %w", err)
			}
			defer st.Close()

			run, err := findRun(cmd.Context(), st, args[0])
			if err != nil {
				return err
			}

			printKeyValue("ID", run.ID)
			printKeyValue("Entry", run.Entry)
			printKeyValue("Base dir", run.BaseDir)
			printKeyValue("Config", shortHash(run.ConfigHash))
			printKeyValue("Created", run.CreatedAt.Local().Format(time.RFC1123))
			printKeyValue("Nodes", strconv.Itoa(run.Nodes))
			printKeyValue("Edges", strconv.Itoa(run.Edges))

			if output == "" {
				return nil
			}

			d, err := graph.ToDAG(run.Graph)
			if err != nil {
				return fmt.Errorf("decode archived graph: %w", err)
			}
			if err := graph.WriteGraphFile(d, output); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			printNewline()
			printFile(output)
			printNextStep("Render it", fmt.Sprintf("amdtrace render %s", output))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "export the archived graph as JSON")

	return cmd
}

// findRun resolves a full or prefixed run id against the archive.
// A prefix must match exactly one run.
func findRun(ctx context.Context, st store.Store, id string) (*store.Run, error) {
	run, err := st.Get(ctx, id)
	if err == nil {
		return run, nil
	}
	if !errors.Is(err, store.ErrRunNotFound) {
		return nil, err
	}

	runs, err := st.List(ctx, 0)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}

	var matches []*store.Run
	for _, r := range runs {
		if strings.HasPrefix(r.ID, id) {
			matches = append(matches, r)
		}
	}

	switch len(matches) {
	case 0:
		return nil, fmt.Errorf("run %s: %w", id, store.ErrRunNotFound)
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("run id %s is ambiguous (%d matches)", id, len(matches))
	}
}

// shortHash abbreviates a content hash for display.
func shortHash(h string) string {
	if len(h) <= 12 {
		return h
	}
	return h[:12]
}
