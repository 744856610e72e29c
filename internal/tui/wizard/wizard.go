// ABOUTME: Multi-step data entry wizard as a bubbletea model
// ABOUTME: Uses huh forms with visual progress indicator for step navigation

package wizard

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/painel-f1/painel/internal/tui/icons"
	"github.com/painel-f1/painel/internal/tui/styles"
)

// CompleteMsg is sent when the last step is submitted
type CompleteMsg struct {
	ID     string
	Values map[string]string
}

// CancelledMsg is sent when the wizard is cancelled
type CancelledMsg struct {
	ID string
}

// Field is one text input
type Field struct {
	Key         string
	Title       string
	Description string
	Placeholder string
	CharLimit   int
	Required    bool
	Validate    func(string) error
}

// Step is one page of fields
type Step struct {
	Name        string // shown in the progress indicator
	Title       string
	Description string
	Fields      []Field
}

// Wizard walks the user through steps and collects their values
type Wizard struct {
	id     string
	steps  []Step
	values map[string]*string
	form   *huh.Form
	step   int
	width  int
}

// createTheme returns a huh theme matching the shared palette
func createTheme() *huh.Theme {
	t := huh.ThemeBase()

	red := styles.Primary
	redLight := styles.Accent
	blue := styles.Info
	gray := lipgloss.Color("#9CA3AF")
	grayLight := lipgloss.Color("#E5E7EB")
	errRed := lipgloss.Color("#F87171")
	slate := lipgloss.Color("#334155")

	// Group styles (section headers)
	t.Group.Title = lipgloss.NewStyle().
		Foreground(red).
		Bold(true).
		MarginBottom(1)
	t.Group.Description = lipgloss.NewStyle().
		Foreground(gray).
		MarginBottom(1)

	// Focused field styles
	t.Focused.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.ThickBorder()).
		BorderLeft(true).
		BorderForeground(red)
	t.Focused.Title = lipgloss.NewStyle().
		Foreground(redLight).
		Bold(true)
	t.Focused.Description = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.ErrorIndicator = lipgloss.NewStyle().
		Foreground(errRed).
		SetString(" *")
	t.Focused.ErrorMessage = lipgloss.NewStyle().
		Foreground(errRed)

	// Text input styles
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().
		Foreground(red)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().
		Foreground(gray)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().
		Foreground(red)
	t.Focused.TextInput.Text = lipgloss.NewStyle().
		Foreground(grayLight)

	// Button styles
	t.Focused.FocusedButton = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(blue).
		Padding(0, 2).
		MarginRight(1)
	t.Focused.BlurredButton = lipgloss.NewStyle().
		Foreground(gray).
		Background(slate).
		Padding(0, 2).
		MarginRight(1)

	// Blurred fields keep the layout with muted colors
	t.Blurred = t.Focused
	t.Blurred.Base = lipgloss.NewStyle().
		PaddingLeft(1).
		BorderStyle(lipgloss.HiddenBorder()).
		BorderLeft(true)
	t.Blurred.Title = lipgloss.NewStyle().
		Foreground(gray)

	return t
}

// New creates a wizard. Values in defaults prefill the matching fields.
func New(id string, steps []Step, defaults map[string]string) *Wizard {
	w := &Wizard{
		id:     id,
		steps:  steps,
		values: make(map[string]*string),
		step:   1,
	}
	for _, s := range steps {
		for _, f := range s.Fields {
			v := defaults[f.Key]
			w.values[f.Key] = &v
		}
	}

	w.form = w.createForm(steps[0])
	return w
}

// ID identifies what the wizard collects
func (w *Wizard) ID() string {
	return w.id
}

func (w *Wizard) createForm(s Step) *huh.Form {
	fields := make([]huh.Field, 0, len(s.Fields))
	for _, f := range s.Fields {
		input := huh.NewInput().
			Key(f.Key).
			Title(f.Title).
			Placeholder(f.Placeholder).
			Value(w.values[f.Key]).
			Validate(fieldValidator(f))
		if f.Description != "" {
			input = input.Description(f.Description)
		}
		if f.CharLimit > 0 {
			input = input.CharLimit(f.CharLimit)
		}
		fields = append(fields, input)
	}

	group := huh.NewGroup(fields...).Title(s.Title)
	if s.Description != "" {
		group = group.Description(s.Description)
	}
	return huh.NewForm(group).WithTheme(createTheme())
}

// fieldValidator combines the required check with the field's own rule
func fieldValidator(f Field) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			if f.Required {
				return fmt.Errorf("%s é obrigatório", f.Title)
			}
			return nil
		}
		if f.Validate != nil {
			return f.Validate(s)
		}
		return nil
	}
}

// Init implements tea.Model
func (w *Wizard) Init() tea.Cmd {
	return w.form.Init()
}

// Update implements tea.Model
func (w *Wizard) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		w.width = msg.Width
		form, cmd := w.form.Update(msg)
		if f, ok := form.(*huh.Form); ok {
			w.form = f
		}
		return w, cmd

	case tea.KeyMsg:
		if msg.String() == "esc" {
			id := w.id
			return w, func() tea.Msg { return CancelledMsg{ID: id} }
		}
	}

	form, cmd := w.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		w.form = f
	}

	if w.form.State == huh.StateCompleted {
		return w.advanceStep()
	}

	return w, cmd
}

func (w *Wizard) advanceStep() (tea.Model, tea.Cmd) {
	if w.step < len(w.steps) {
		w.step++
		w.form = w.createForm(w.steps[w.step-1])
		return w, w.form.Init()
	}

	values := w.Values()
	id := w.id
	return w, func() tea.Msg {
		return CompleteMsg{ID: id, Values: values}
	}
}

// Values returns a copy of the collected values, trimmed
func (w *Wizard) Values() map[string]string {
	out := make(map[string]string, len(w.values))
	for k, v := range w.values {
		out[k] = strings.TrimSpace(*v)
	}
	return out
}

// SetWidth sets the wizard width for proper rendering
func (w *Wizard) SetWidth(width int) {
	w.width = width
}

// View implements tea.Model
func (w *Wizard) View() string {
	var sb strings.Builder

	if len(w.steps) > 1 {
		sb.WriteString(w.renderProgress())
		sb.WriteString("\n\n")
	}

	sb.WriteString(w.form.View())

	return sb.String()
}

// renderProgress renders the step progress indicator
func (w *Wizard) renderProgress() string {
	width := max(w.width-1, 60)

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary)

	var steps []string
	for i, s := range w.steps {
		stepNum := i + 1
		var indicator string
		var nameStyle lipgloss.Style

		switch {
		case stepNum < w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Secondary).Render(icons.CheckOK.String())
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		case stepNum == w.step:
			indicator = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true).Render("●")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
		default:
			indicator = lipgloss.NewStyle().Foreground(styles.Muted).Render("○")
			nameStyle = lipgloss.NewStyle().Foreground(styles.Muted)
		}

		steps = append(steps, fmt.Sprintf("%s %s", indicator, nameStyle.Render(s.Name)))
	}

	stepsLine := strings.Join(steps, "    ")

	// "│  " + bar + " │"
	barWidth := width - 5
	filledWidth := (w.step * barWidth) / len(w.steps)
	emptyWidth := barWidth - filledWidth

	filledBar := lipgloss.NewStyle().Foreground(styles.Primary).Render(strings.Repeat("━", filledWidth))
	emptyBar := lipgloss.NewStyle().Foreground(styles.Surface).Render(strings.Repeat("─", emptyWidth))

	label := "Etapas"
	topBorder := "┌─ " + titleStyle.Render(label) + " " + strings.Repeat("─", max(0, width-5-lipgloss.Width(label))) + "┐"
	stepsPadding := max(0, width-4-lipgloss.Width(stepsLine))
	stepsLinePadded := "│ " + stepsLine + strings.Repeat(" ", stepsPadding) + " │"
	progressLinePadded := "│  " + filledBar + emptyBar + " │"
	bottomBorder := "└" + strings.Repeat("─", width-2) + "┘"

	return borderStyle.Render(strings.Join([]string{
		topBorder,
		stepsLinePadded,
		progressLinePadded,
		bottomBorder,
	}, "\n"))
}
