package cli

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/marginlab/marginalia/pkg/margin"
	"github.com/marginlab/marginalia/pkg/margin/mode"
	"github.com/marginlab/marginalia/pkg/pipeline"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// inspectCommand creates the inspect command for the interactive inspector.
func (c *CLI) inspectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [document.html]",
		Short: "Interactively step focus through a document's annotations",
		Long: `Interactively step focus through a document's annotations.

The inspect command opens a terminal UI showing every annotation with its
ideal and resolved offset. Moving the cursor refocuses the layout: the
selected annotation is pinned at its anchor and its neighbors are
displaced around it, exactly as hover focus behaves on the live page.
Shrinking the simulated viewport below the breakpoint switches to modal
mode.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runInspect(cmd.Context(), args[0])
		},
	}

	return cmd
}

// runInspect loads the document and starts the inspector UI.
func (c *CLI) runInspect(ctx context.Context, input string) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}

	doc, err := c.openDocument(input, cfg)
	if err != nil {
		return fmt.Errorf("load document %s: %w", input, err)
	}

	m := newInspectModel(ctx, c.newRunner(doc, cfg, nil), pipeline.FromConfig(cfg), cfg.BreakpointPx)
	if m.err != nil {
		return m.err
	}

	_, err = tea.NewProgram(m).Run()
	return err
}

// =============================================================================
// InspectModel - Interactive layout inspection
// =============================================================================

// inspectRow is one annotation line in the inspector table.
type inspectRow struct {
	region string
	item   *margin.Item
}

// InspectModel is the bubbletea model for the layout inspector.
type InspectModel struct {
	ctx        context.Context
	runner     *pipeline.Runner
	opts       pipeline.Options
	breakpoint float64

	rows    []inspectRow
	cursor  int
	focused bool
	narrow  bool
	result  *pipeline.Result
	err     error
}

func newInspectModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options, breakpoint float64) *InspectModel {
	m := &InspectModel{ctx: ctx, runner: runner, opts: opts, breakpoint: breakpoint}
	m.resolve()
	return m
}

// resolve runs one layout pass with the current focus and viewport state.
func (m *InspectModel) resolve() {
	opts := m.opts
	opts.ViewportWidth = m.breakpoint + 200
	if m.narrow {
		opts.ViewportWidth = m.breakpoint - 200
	}
	if m.focused && m.cursor < len(m.rows) {
		opts.FocusedID = m.rows[m.cursor].item.ID
	}

	result, err := m.runner.Execute(m.ctx, opts)
	if err != nil {
		m.err = err
		return
	}
	m.result = result

	m.rows = m.rows[:0]
	for i := range result.Regions {
		region := &result.Regions[i]
		for _, it := range region.Items {
			m.rows = append(m.rows, inspectRow{region: region.ID, item: it})
		}
	}
	if m.cursor >= len(m.rows) {
		m.cursor = 0
	}
}

func (m *InspectModel) Init() tea.Cmd {
	return nil
}

func (m *InspectModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
				m.resolve()
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
				m.resolve()
			}
		case "enter", " ":
			m.focused = !m.focused
			m.resolve()
		case "m":
			m.narrow = !m.narrow
			m.resolve()
		}
	}
	return m, nil
}

func (m *InspectModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Margin Layout Inspector"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ move  ⏎ toggle focus  m toggle viewport  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error() + "\n")
		return b.String()
	}

	if m.result != nil && m.result.Mode == mode.ModeModal {
		b.WriteString(StyleWarning.Render("modal mode: annotations open as overlays, none are positioned"))
		b.WriteString("\n")
		return b.String()
	}

	rows := [][]string{}
	for i, row := range m.rows {
		it := row.item

		cursor := "  "
		if i == m.cursor {
			cursor = "▸ "
		}

		focus := ""
		if it.Priority == margin.PriorityFocused {
			focus = "●"
		}

		displaced := ""
		if it.Displaced() {
			displaced = fmt.Sprintf("%+.0f", it.CurrentTop-it.TargetTop)
		}

		rows = append(rows, []string{
			cursor, row.region, it.ID, string(it.Kind),
			fmt.Sprintf("%.0f", it.TargetTop),
			fmt.Sprintf("%.0f", it.CurrentTop),
			displaced, focus,
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Region", "Annotation", "Kind", "Target", "Resolved", "Shift", "Focus").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row >= len(m.rows) {
				return lipgloss.NewStyle()
			}
			if row == m.cursor {
				return listSelectedStyle
			}
			if col == 6 && rows[row][6] != "" {
				return StyleWarning
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n")

	if m.result != nil {
		b.WriteString(listDimStyle.Render(fmt.Sprintf("%d regions · %d annotations · %d displaced",
			m.result.Stats.RegionCount, m.result.Stats.ItemCount, m.result.Stats.Displaced)))
		b.WriteString("\n")
	}

	return b.String()
}
