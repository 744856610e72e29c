// ABOUTME: Dashboard component showing who is logged in and the role's views
// ABOUTME: Each view is previewed with its first rows; enter opens it in full

package dashboard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
	"github.com/painel-f1/painel/internal/role"
	"github.com/painel-f1/painel/internal/tui/icons"
	"github.com/painel-f1/painel/internal/tui/styles"
	"github.com/painel-f1/painel/internal/tui/widgets"
)

// OpenViewMsg asks to open a view with pagination
type OpenViewMsg struct {
	Name string
}

// Dashboard displays the identity header and view previews
type Dashboard struct {
	title    string
	subtitle string
	role     role.Role
	views    []client.View
	err      string
	cursor   int
	focused  bool
	width    int
	height   int
}

// New creates an empty dashboard
func New(width, height int) *Dashboard {
	return &Dashboard{width: width, height: height}
}

// SetIdentity sets the header lines and role
func (d *Dashboard) SetIdentity(title, subtitle string, r role.Role) {
	d.title = title
	d.subtitle = subtitle
	d.role = r
}

// SetViews replaces the previews
func (d *Dashboard) SetViews(views []client.View) {
	d.views = views
	d.err = ""
	if d.cursor >= len(views) {
		d.cursor = 0
	}
}

// SetError shows why the views could not be loaded
func (d *Dashboard) SetError(msg string) {
	d.err = msg
}

// SetSize updates the dashboard dimensions
func (d *Dashboard) SetSize(width, height int) {
	d.width = width
	d.height = height
}

// SetFocused marks whether keys go to the view list
func (d *Dashboard) SetFocused(focused bool) {
	d.focused = focused
}

// Init implements tea.Model
func (d *Dashboard) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (d *Dashboard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(d.views) == 0 {
		return d, nil
	}

	switch key.String() {
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
	case "down", "j":
		if d.cursor < len(d.views)-1 {
			d.cursor++
		}
	case "enter":
		name := d.views[d.cursor].Name
		return d, func() tea.Msg { return OpenViewMsg{Name: name} }
	}
	return d, nil
}

// View renders the dashboard
func (d *Dashboard) View() string {
	var sb strings.Builder

	title := d.title
	if title == "" {
		title = "Painel"
	}
	sb.WriteString(styles.Title.Render(icons.User.String()+" "+title) + "  " + widgets.RoleBadge(d.role))
	sb.WriteString("\n")
	if d.subtitle != "" {
		sb.WriteString(styles.Subtitle.Render(d.subtitle))
		sb.WriteString("\n")
	}

	switch {
	case d.err != "":
		sb.WriteString(widgets.StatusText(d.err, widgets.StatusCritical))
	case d.views == nil:
		sb.WriteString(styles.Subtitle.Render("Carregando visões..."))
	case len(d.views) == 0:
		sb.WriteString(styles.Subtitle.Render("Nenhuma visão disponível para o seu perfil"))
	default:
		// Views above the cursor scroll out of sight
		for i := d.cursor; i < len(d.views); i++ {
			sb.WriteString(d.renderView(i))
			sb.WriteString("\n")
		}
	}

	style := lipgloss.NewStyle().Width(d.width)
	if d.height > 0 {
		style = style.MaxHeight(d.height)
	}
	return style.Render(strings.TrimRight(sb.String(), "\n"))
}

func (d *Dashboard) renderView(i int) string {
	v := d.views[i]
	selected := d.focused && i == d.cursor

	name := icons.Table.String() + " " + present.Column(v.Name)
	if selected {
		name = styles.Selected.Render(name)
	} else {
		name = styles.ValueStyle.Render(name)
	}

	var sb strings.Builder
	sb.WriteString(styles.Cursor(selected) + name + "\n")

	if v.Error != "" {
		sb.WriteString(widgets.StatusText("Erro: "+v.Error, widgets.StatusCritical))
		sb.WriteString("\n")
		return sb.String()
	}

	sb.WriteString(widgets.DataTable(v.Columns, present.Preview(v.Data), 0))
	sb.WriteString("\n")
	if len(v.Data) > present.PreviewRows {
		sb.WriteString(styles.Subtitle.Render(fmt.Sprintf("Mostrando %d de %d linhas", present.PreviewRows, len(v.Data))))
		sb.WriteString("\n")
	}
	return sb.String()
}
