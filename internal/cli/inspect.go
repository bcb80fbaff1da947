package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/amdtrace/amdtrace/pkg/amd"
	"github.com/amdtrace/amdtrace/pkg/dag"
	"github.com/amdtrace/amdtrace/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listPluginStyle   = lipgloss.NewStyle().Foreground(colorYellow)
)

// inspectCommand creates the inspect command for interactive browsing.
func (c *CLI) inspectCommand() *cobra.Command {
	var (
		configPath string
		baseDir    string
		noCache    bool
		refresh    bool
	)

	cmd := &cobra.Command{
		Use:   "inspect [entry]",
		Short: "Browse a traced module graph interactively",
		Long: `Browse a traced module graph interactively.

Traces the entry module and opens a terminal browser over the result. The
list shows modules in discovery order; the panel below shows what the
selected module depends on and which modules require it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := pipeline.Options{
				Entry:      args[0],
				ConfigPath: configPath,
				BaseDir:    baseDir,
				Refresh:    refresh,
			}
			c.applyToolDefaults(&opts)
			return c.runInspect(cmd.Context(), opts, noCache)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "loader config JSON file (baseUrl, paths, map)")
	cmd.Flags().StringVarP(&baseDir, "dir", "d", "", "module tree root (default \".\")")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "ignore cached trace results")

	return cmd
}

// runInspect traces the entry module and runs the browser.
func (c *CLI) runInspect(ctx context.Context, opts pipeline.Options, noCache bool) error {
	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts.Logger = c.Logger

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Tracing %s...", opts.Entry))
	spinner.Start()

	g, err := runner.Trace(ctx, opts)
	if err != nil {
		if spinner.Cancelled() {
			spinner.Stop()
		} else {
			spinner.StopWithError("Trace failed")
		}
		return err
	}
	spinner.Stop()

	program := tea.NewProgram(newModuleListModel(opts.Entry, g), tea.WithContext(ctx))
	_, err = program.Run()
	return err
}

// =============================================================================
// moduleListModel - Interactive module browser
// =============================================================================

// moduleListModel is the bubbletea model for browsing traced modules.
type moduleListModel struct {
	entry  string
	graph  *dag.DAG
	ids    []string // module ids in discovery order
	cursor int
	height int
	offset int
}

// newModuleListModel creates a browser model over a traced graph.
// Modules keep their discovery order, so the entry is always first.
func newModuleListModel(entry string, g *dag.DAG) moduleListModel {
	nodes := g.Nodes()
	ids := make([]string, len(nodes))
	for i, n := range nodes {
		ids[i] = n.ID
	}
	return moduleListModel{
		entry:  entry,
		graph:  g,
		ids:    ids,
		height: 15,
	}
}

func (m moduleListModel) Init() tea.Cmd {
	return nil
}

func (m moduleListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				if m.cursor < m.offset {
					m.offset = m.cursor
				}
			}
		case "down", "j":
			if m.cursor < len(m.ids)-1 {
				m.cursor++
				if m.cursor >= m.offset+m.height {
					m.offset = m.cursor - m.height + 1
				}
			}
		case "g", "home":
			m.cursor = 0
			m.offset = 0
		case "G", "end":
			m.cursor = len(m.ids) - 1
			m.offset = m.cursor - m.height + 1
			if m.offset < 0 {
				m.offset = 0
			}
		}
	case tea.WindowSizeMsg:
		m.height = msg.Height - 10
		if m.height < 5 {
			m.height = 5
		}
	}
	return m, nil
}

func (m moduleListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(fmt.Sprintf("Modules of %s", m.entry)))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  g/G first/last  q quit"))
	b.WriteString("\n\n")

	end := m.offset + m.height
	if end > len(m.ids) {
		end = len(m.ids)
	}

	for i := m.offset; i < end; i++ {
		id := m.ids[i]
		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		line := fmt.Sprintf("%s%-44s %s", cursor, id, depsLabel(m.graph.OutDegree(id)))

		switch {
		case i == m.cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case amd.ParseID(id).Plugin != "":
			b.WriteString(listPluginStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.detailView())
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.cursor+1, len(m.ids))))

	return b.String()
}

// detailView renders the dependency panel for the module under the cursor.
func (m moduleListModel) detailView() string {
	if len(m.ids) == 0 {
		return ""
	}
	id := m.ids[m.cursor]

	var b strings.Builder
	if ref := amd.ParseID(id); ref.Plugin != "" {
		b.WriteString(listDimStyle.Render("Plugin:      "))
		b.WriteString(listPluginStyle.Render(ref.Plugin))
		b.WriteString("\n")
	}
	b.WriteString(listDimStyle.Render("Depends on:  "))
	b.WriteString(listNormalStyle.Render(joinOrDash(m.graph.Children(id))))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("Required by: "))
	b.WriteString(listNormalStyle.Render(joinOrDash(m.graph.Parents(id))))
	b.WriteString("\n")
	return b.String()
}

// depsLabel formats a dependency count for the list column.
func depsLabel(n int) string {
	switch n {
	case 0:
		return "leaf"
	case 1:
		return "1 dep"
	default:
		return fmt.Sprintf("%d deps", n)
	}
}

// joinOrDash joins ids for the detail panel, or a dash when empty.
func joinOrDash(ids []string) string {
	if len(ids) == 0 {
		return "—"
	}
	return strings.Join(ids, ", ")
}
