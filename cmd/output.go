// ABOUTME: Output helpers shared by the painel commands
// ABOUTME: Renders result rows as lipgloss tables and writes indented JSON

package cmd

import (
	"encoding/json"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// renderRows formats rows under columns, or the empty-state notice
func renderRows(columns []string, rows []client.Row) string {
	if len(rows) == 0 {
		return present.EmptyData
	}
	columns = present.Columns(columns, rows)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = present.Column(c)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers(headers...).
		Rows(present.Records(columns, rows)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

// writeJSON encodes v indented, the same shape the API returned
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
