// ABOUTME: Outcome view for data entry actions
// ABOUTME: Shows the status headline, detail lines and any returned rows

package result

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/tui/styles"
	"github.com/painel-f1/painel/internal/tui/widgets"
)

// Outcome is what an action produced
type Outcome struct {
	Title   string
	Level   widgets.StatusLevel
	Lines   []string
	Columns []string
	Rows    []client.Row
	// Table forces the rows section even when Rows is empty
	Table bool
}

// Result displays one outcome
type Result struct {
	outcome *Outcome
	width   int
}

// New creates a new result view
func New(outcome *Outcome, width int) *Result {
	return &Result{
		outcome: outcome,
		width:   width,
	}
}

// SetWidth updates the render width
func (r *Result) SetWidth(width int) {
	r.width = width
}

// View renders the outcome
func (r *Result) View() string {
	if r.outcome == nil {
		return "Nenhum resultado"
	}

	var sb strings.Builder
	sb.WriteString(widgets.StatusText(r.outcome.Title, r.outcome.Level))
	sb.WriteString("\n")

	if len(r.outcome.Lines) > 0 {
		sb.WriteString("\n")
		for _, line := range r.outcome.Lines {
			sb.WriteString("  " + line + "\n")
		}
	}

	if r.outcome.Table || len(r.outcome.Rows) > 0 {
		sb.WriteString("\n")
		sb.WriteString(widgets.DataTable(r.outcome.Columns, r.outcome.Rows, 0))
		sb.WriteString("\n")
	}

	sb.WriteString(styles.Help.Render("enter/esc para voltar"))

	if r.width <= 0 {
		return sb.String()
	}
	return lipgloss.NewStyle().MaxWidth(r.width).Render(sb.String())
}
