// ABOUTME: Login screen with username and masked password inputs
// ABOUTME: Emits SubmitMsg; the app performs the request and reports back

package login

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/painel-f1/painel/internal/tui/icons"
	"github.com/painel-f1/painel/internal/tui/styles"
)

// SubmitMsg carries the credentials to authenticate with
type SubmitMsg struct {
	Username string
	Password string
}

const (
	fieldUsername = iota
	fieldPassword
)

// Login is the credential form
type Login struct {
	inputs []textinput.Model
	focus  int
	err    string
	busy   bool
	width  int

	// checking is set while a stored token is being verified; submitting
	// then would race the check for the token slot
	checking bool
}

var (
	errorStyle = lipgloss.NewStyle().Foreground(styles.Danger)
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(styles.Primary).
			Padding(1, 2)
)

// New creates an empty login form focused on the username
func New() *Login {
	user := textinput.New()
	user.Placeholder = "usuário"
	user.Prompt = icons.User.String() + " "
	user.CharLimit = 64
	user.Width = 40
	user.Focus()

	pass := textinput.New()
	pass.Placeholder = "senha"
	pass.Prompt = icons.Lock.String() + " "
	pass.CharLimit = 128
	pass.Width = 40
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'

	return &Login{inputs: []textinput.Model{user, pass}}
}

// Init implements tea.Model
func (l *Login) Init() tea.Cmd {
	return textinput.Blink
}

// Update implements tea.Model
func (l *Login) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.width = msg.Width
		return l, nil

	case tea.KeyMsg:
		if l.busy {
			return l, nil
		}
		switch msg.String() {
		case "tab", "down":
			return l, l.setFocus((l.focus + 1) % len(l.inputs))
		case "shift+tab", "up":
			return l, l.setFocus((l.focus + len(l.inputs) - 1) % len(l.inputs))
		case "enter":
			if l.focus == fieldUsername {
				return l, l.setFocus(fieldPassword)
			}
			if l.checking {
				return l, nil
			}
			return l, l.submit()
		}
		l.err = ""
	}

	var cmd tea.Cmd
	l.inputs[l.focus], cmd = l.inputs[l.focus].Update(msg)
	return l, cmd
}

func (l *Login) setFocus(i int) tea.Cmd {
	l.inputs[l.focus].Blur()
	l.focus = i
	return l.inputs[i].Focus()
}

func (l *Login) submit() tea.Cmd {
	username := strings.TrimSpace(l.inputs[fieldUsername].Value())
	password := l.inputs[fieldPassword].Value()
	if username == "" || password == "" {
		l.err = "Informe usuário e senha"
		return nil
	}

	l.err = ""
	l.busy = true
	return func() tea.Msg {
		return SubmitMsg{Username: username, Password: password}
	}
}

// SetError shows a failed attempt and lets the user try again. The
// password is cleared.
func (l *Login) SetError(msg string) {
	l.err = msg
	l.busy = false
	l.inputs[fieldPassword].SetValue("")
}

// SetChecking holds submission while the stored session is verified
func (l *Login) SetChecking(checking bool) {
	l.checking = checking
}

// Checking reports whether the stored session is still being verified
func (l *Login) Checking() bool {
	return l.checking
}

// Busy reports whether a login request is in flight
func (l *Login) Busy() bool {
	return l.busy
}

// View implements tea.Model
func (l *Login) View() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render(icons.App.String() + " Painel F1"))
	b.WriteString("\n")
	b.WriteString(styles.Subtitle.Render("Entre com suas credenciais"))
	b.WriteString("\n")

	labels := []string{"Usuário", "Senha"}
	for i, in := range l.inputs {
		label := styles.Normal.Render(labels[i])
		if i == l.focus {
			label = styles.Selected.Render(labels[i])
		}
		b.WriteString(label + "\n" + in.View() + "\n\n")
	}

	switch {
	case l.busy:
		b.WriteString(styles.Help.Render("Entrando..."))
	case l.checking:
		b.WriteString(styles.Help.Render("Verificando sessão..."))
	case l.err != "":
		b.WriteString(errorStyle.Render(l.err))
	}

	return cardStyle.Render(b.String())
}
