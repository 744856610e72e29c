// ABOUTME: Dashboard action menu built from the logged-in role
// ABOUTME: Only the actions the role may perform are listed

package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/painel-f1/painel/internal/role"
	"github.com/painel-f1/painel/internal/tui/icons"
	"github.com/painel-f1/painel/internal/tui/styles"
)

// SelectedMsg is sent when an action is chosen
type SelectedMsg struct {
	Action role.Action
}

type option struct {
	label string
	icon  icons.Icon
	value role.Action
}

// Menu lists the role's actions
type Menu struct {
	options []option
	cursor  int
	focused bool
}

// New creates the menu for r. Unknown roles get an empty menu.
func New(r role.Role) *Menu {
	m := &Menu{focused: true}
	for _, a := range r.Actions() {
		m.options = append(m.options, option{label: a.String(), icon: actionIcon(a), value: a})
	}
	return m
}

func actionIcon(a role.Action) icons.Icon {
	switch a {
	case role.ActionReports:
		return icons.Report
	case role.ActionSearchDrivers:
		return icons.Search
	case role.ActionUploadDrivers:
		return icons.Upload
	default:
		return icons.Insert
	}
}

// Len returns the number of actions offered
func (m *Menu) Len() int {
	return len(m.options)
}

// SetFocused marks whether keys go to the menu
func (m *Menu) SetFocused(focused bool) {
	m.focused = focused
}

// Init implements tea.Model
func (m *Menu) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (m *Menu) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok || len(m.options) == 0 {
		return m, nil
	}

	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.options)-1 {
			m.cursor++
		}
	case "enter":
		action := m.options[m.cursor].value
		return m, func() tea.Msg { return SelectedMsg{Action: action} }
	}
	return m, nil
}

// View implements tea.Model
func (m *Menu) View() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render("Ações"))
	b.WriteString("\n")

	if len(m.options) == 0 {
		b.WriteString(styles.Subtitle.Render("Nenhuma ação disponível"))
		return b.String()
	}

	for i, opt := range m.options {
		selected := m.focused && i == m.cursor
		style := styles.Normal
		if selected {
			style = styles.Selected
		}
		b.WriteString(styles.Cursor(selected) + style.Render(opt.icon.String()+" "+opt.label) + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
