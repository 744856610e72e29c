// ABOUTME: Paginated view screen backed by server-side pages
// ABOUTME: Scrollable bubbles table with page window, range and page size controls

package viewdetails

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
	"github.com/painel-f1/painel/internal/tui/styles"
	"github.com/painel-f1/painel/internal/tui/widgets"
)

// PageRequestMsg asks for one page of the view
type PageRequestMsg struct {
	Name  string
	Page  int
	Limit int
}

// BackMsg is sent when the user leaves the screen
type BackMsg struct{}

const (
	maxColumnWidth = 30
	minColumnWidth = 4
)

// ViewDetails shows one page of a view at a time
type ViewDetails struct {
	name    string
	pager   present.Pager
	table   table.Model
	rows    int
	loading bool
	err     string
	width   int
	height  int
}

// New creates the screen for the named view at page 1
func New(name string, width, height int) *ViewDetails {
	t := table.New(table.WithFocused(true))
	s := table.DefaultStyles()
	s.Header = s.Header.Foreground(styles.Primary).Bold(true).BorderBottom(true).BorderForeground(styles.Muted)
	s.Selected = s.Selected.Foreground(styles.Text).Background(styles.Surface).Bold(false)
	t.SetStyles(s)

	v := &ViewDetails{name: name, pager: present.NewPager(), table: t}
	v.SetSize(width, height)
	return v
}

// Name returns the view name
func (v *ViewDetails) Name() string {
	return v.name
}

// Pager returns the current pagination state
func (v *ViewDetails) Pager() present.Pager {
	return v.pager
}

// Request marks the screen loading and asks for the current page
func (v *ViewDetails) Request() tea.Cmd {
	v.loading = true
	msg := PageRequestMsg{Name: v.name, Page: v.pager.Page, Limit: v.pager.Limit}
	return func() tea.Msg { return msg }
}

// Matches reports whether a response for page and limit is still wanted
func (v *ViewDetails) Matches(page, limit int) bool {
	return v.pager.Page == page && v.pager.Limit == limit
}

// SetPage shows a page returned by the API
func (v *ViewDetails) SetPage(view *client.View) {
	v.loading = false
	v.err = ""
	v.pager.TotalCount = view.TotalCount
	v.pager.TotalPages = view.TotalPages
	v.rows = len(view.Data)

	cols := present.Columns(view.Columns, view.Data)
	records := present.Records(cols, view.Data)

	columns := make([]table.Column, len(cols))
	for i, c := range cols {
		title := present.Column(c)
		width := lipgloss.Width(title)
		for _, r := range records {
			width = max(width, lipgloss.Width(r[i]))
		}
		columns[i] = table.Column{Title: title, Width: min(max(width, minColumnWidth), maxColumnWidth)}
	}

	rows := make([]table.Row, len(records))
	for i, r := range records {
		rows[i] = table.Row(r)
	}

	// Rows must never be wider than the columns while either is swapped
	v.table.SetRows(nil)
	v.table.SetColumns(columns)
	v.table.SetRows(rows)
	v.table.GotoTop()
}

// SetError shows why the page could not be loaded
func (v *ViewDetails) SetError(msg string) {
	v.loading = false
	v.err = msg
}

// SetSize updates the screen dimensions
func (v *ViewDetails) SetSize(width, height int) {
	v.width = width
	v.height = height
	// title, blank, page line, range line, blank, help
	v.table.SetHeight(max(height-7, 3))
	v.table.SetWidth(max(width, 20))
}

// Init implements tea.Model
func (v *ViewDetails) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (v *ViewDetails) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return v, nil
	}

	switch key.String() {
	case "esc", "b":
		return v, func() tea.Msg { return BackMsg{} }
	case "r":
		return v, v.Request()
	}

	if v.loading {
		return v, nil
	}

	changed := false
	switch key.String() {
	case "right", "l", "n":
		changed = v.pager.Next()
	case "left", "h", "p":
		changed = v.pager.Prev()
	case "home", "g":
		changed = v.pager.First()
	case "end", "G":
		changed = v.pager.Last()
	case "s":
		v.pager.CycleLimit()
		changed = true
	default:
		var cmd tea.Cmd
		v.table, cmd = v.table.Update(msg)
		return v, cmd
	}

	if changed {
		return v, v.Request()
	}
	return v, nil
}

// View implements tea.Model
func (v *ViewDetails) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(present.Column(v.name)))
	b.WriteString("\n")

	switch {
	case v.err != "":
		b.WriteString(widgets.StatusText(v.err, widgets.StatusCritical))
		b.WriteString("\n")
	case v.loading && v.rows == 0:
		b.WriteString(styles.Subtitle.Render("Carregando..."))
		b.WriteString("\n")
	case v.rows == 0:
		b.WriteString(lipgloss.NewStyle().Foreground(styles.Muted).Italic(true).Render(present.EmptyData))
		b.WriteString("\n")
	default:
		b.WriteString(v.table.View())
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.renderPages())
	b.WriteString("\n")
	status := fmt.Sprintf("Itens por página: %d", v.pager.Limit)
	if v.pager.TotalCount > 0 {
		status = v.pager.Range() + "  ·  " + status
	}
	if v.loading {
		status += "  ·  carregando"
	}
	b.WriteString(styles.Subtitle.Render(status))

	return b.String()
}

// renderPages renders the page window with the current page highlighted
func (v *ViewDetails) renderPages() string {
	window := v.pager.Window()
	if len(window) == 0 {
		return ""
	}

	parts := []string{"«", "‹"}
	for _, p := range window {
		if p == v.pager.Page {
			parts = append(parts, styles.Selected.Render(fmt.Sprintf("[%d]", p)))
		} else {
			parts = append(parts, fmt.Sprintf(" %d ", p))
		}
	}
	parts = append(parts, "›", "»")
	return strings.Join(parts, " ") + styles.Subtitle.Render(fmt.Sprintf("   página %d de %d", v.pager.Page, v.pager.TotalPages))
}
