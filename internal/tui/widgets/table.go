// ABOUTME: Static data table widget for API rows
// ABOUTME: Renders columns and rows with lipgloss/table and the shared cell format

package widgets

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
	"github.com/painel-f1/painel/internal/tui/styles"
)

var (
	headerCell = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Padding(0, 1)
	bodyCell   = lipgloss.NewStyle().Padding(0, 1)
)

// DataTable renders rows under the declared columns, falling back to the
// keys of the first row. No rows renders the empty-state notice. A width of
// zero or less lets the table size itself.
func DataTable(columns []string, rows []client.Row, width int) string {
	if len(rows) == 0 {
		return lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render(present.EmptyData)
	}

	cols := present.Columns(columns, rows)
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = present.Column(c)
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(styles.Muted)).
		Headers(headers...).
		Rows(present.Records(cols, rows)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerCell
			}
			return bodyCell
		})
	if width > 0 {
		t = t.Width(width)
	}
	return t.Render()
}
