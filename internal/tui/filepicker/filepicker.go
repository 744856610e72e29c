// ABOUTME: File picker TUI component for choosing the driver CSV to upload
// ABOUTME: Shows recent uploads, path input, and CSV files found on disk

package filepicker

import (
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"github.com/painel-f1/painel/internal/present"
	"github.com/painel-f1/painel/internal/tui/csvfiles"
	"github.com/painel-f1/painel/internal/tui/styles"
)

// State represents the current UI state
type state int

const (
	stateList state = iota
	stateInput
	stateFound
)

// FileSelectedMsg is sent when a readable CSV file is selected
type FileSelectedMsg struct {
	Path string
	Data []byte
}

// CancelledMsg is sent when the user cancels
type CancelledMsg struct{}

// FilePicker is the file selection component
type FilePicker struct {
	recentFiles []string
	found       []csvfiles.File
	cursor      int
	state       state
	textInput   textinput.Model
	err         string
	width       int
	height      int
}

var (
	errorStyle   = lipgloss.NewStyle().Foreground(styles.Danger)
	helpStyle    = lipgloss.NewStyle().Foreground(styles.Muted)
	dividerStyle = lipgloss.NewStyle().Foreground(styles.Surface)
)

// New creates a new FilePicker
func New(recentFiles []string, found []csvfiles.File) *FilePicker {
	ti := textinput.New()
	ti.Placeholder = "/caminho/para/pilotos.csv"
	ti.CharLimit = 256
	ti.Width = 60

	return &FilePicker{
		recentFiles: recentFiles,
		found:       found,
		state:       stateList,
		textInput:   ti,
	}
}

// Init implements tea.Model
func (fp *FilePicker) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (fp *FilePicker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		fp.width = msg.Width
		fp.height = msg.Height
		return fp, nil

	case tea.KeyMsg:
		// Clear error on any key press
		fp.err = ""

		switch fp.state {
		case stateList:
			return fp.updateList(msg)
		case stateInput:
			return fp.updateInput(msg)
		case stateFound:
			return fp.updateFound(msg)
		}

	default:
		if fp.state == stateInput {
			var cmd tea.Cmd
			fp.textInput, cmd = fp.textInput.Update(msg)
			return fp, cmd
		}
	}

	return fp, nil
}

func (fp *FilePicker) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxItems := fp.listItemCount()

	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < maxItems-1 {
			fp.cursor++
		}
	case "enter":
		return fp.selectListItem()
	case "esc", "b":
		return fp, func() tea.Msg { return CancelledMsg{} }
	}

	return fp, nil
}

func (fp *FilePicker) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		fp.state = stateList
		fp.textInput.SetValue("")
		fp.textInput.Blur()
		return fp, nil
	case "enter":
		path := strings.TrimSpace(fp.textInput.Value())
		if path == "" {
			fp.err = "Informe o caminho do arquivo"
			return fp, nil
		}
		return fp.loadFile(path)
	}

	var cmd tea.Cmd
	fp.textInput, cmd = fp.textInput.Update(msg)
	return fp, cmd
}

func (fp *FilePicker) updateFound(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	maxItems := len(fp.found) + 1 // +1 for [voltar]

	switch msg.String() {
	case "up", "k":
		if fp.cursor > 0 {
			fp.cursor--
		}
	case "down", "j":
		if fp.cursor < maxItems-1 {
			fp.cursor++
		}
	case "enter":
		if fp.cursor == len(fp.found) {
			fp.state = stateList
			fp.cursor = 0
			return fp, nil
		}
		return fp.loadFile(fp.found[fp.cursor].Path)
	case "esc", "b":
		fp.state = stateList
		fp.cursor = 0
		return fp, nil
	}

	return fp, nil
}

func (fp *FilePicker) listItemCount() int {
	count := len(fp.recentFiles) + 1 // +1 for "Digitar caminho..."
	if len(fp.found) > 0 {
		count++
	}
	return count
}

func (fp *FilePicker) selectListItem() (tea.Model, tea.Cmd) {
	recentCount := len(fp.recentFiles)

	if fp.cursor < recentCount {
		return fp.loadFile(fp.recentFiles[fp.cursor])
	}

	if fp.cursor == recentCount {
		fp.state = stateInput
		fp.textInput.Focus()
		return fp, textinput.Blink
	}

	if len(fp.found) > 0 && fp.cursor == recentCount+1 {
		fp.state = stateFound
		fp.cursor = 0
		return fp, nil
	}

	return fp, nil
}

func (fp *FilePicker) loadFile(path string) (tea.Model, tea.Cmd) {
	expandedPath := expandPath(path)

	if !csvfiles.IsCSV(expandedPath) {
		fp.err = "Apenas arquivos .csv são aceitos"
		return fp, nil
	}

	data, err := os.ReadFile(expandedPath)
	if err != nil {
		if os.IsNotExist(err) {
			fp.err = "Arquivo não encontrado: " + path
		} else if os.IsPermission(err) {
			fp.err = "Não foi possível ler o arquivo: permissão negada"
		} else {
			fp.err = "Erro ao ler o arquivo: " + err.Error()
		}
		return fp, nil
	}

	return fp, func() tea.Msg {
		return FileSelectedMsg{Path: expandedPath, Data: data}
	}
}

// expandPath expands ~ to home directory
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return home + path[1:]
		}
	} else if path == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
	}
	return path
}

// SetError sets an error message to display
func (fp *FilePicker) SetError(msg string) {
	fp.err = msg
}

// View implements tea.Model
func (fp *FilePicker) View() string {
	switch fp.state {
	case stateInput:
		return fp.viewInput()
	case stateFound:
		return fp.viewFound()
	default:
		return fp.viewList()
	}
}

func (fp *FilePicker) viewList() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Inserir Pilotos de Arquivo"))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("Cabeçalho esperado: " + present.ExpectedCSVColumns))
	b.WriteString("\n\n")

	if len(fp.recentFiles) > 0 {
		b.WriteString(helpStyle.Render("Enviados recentemente:"))
		b.WriteString("\n")
		for i, path := range fp.recentFiles {
			display := path
			if len(display) > fp.width-10 && fp.width > 20 {
				display = "..." + display[len(display)-(fp.width-13):]
			}
			b.WriteString(fp.row(i, display))
		}
		b.WriteString("\n")

		dividerWidth := min(40, fp.width-4)
		if dividerWidth < 1 {
			dividerWidth = 40
		}
		b.WriteString(dividerStyle.Render(strings.Repeat("─", dividerWidth)))
		b.WriteString("\n")
	}

	idx := len(fp.recentFiles)
	b.WriteString(fp.row(idx, "Digitar caminho..."))

	if len(fp.found) > 0 {
		idx++
		b.WriteString(fp.row(idx, "Arquivos CSV encontrados..."))
	}

	if fp.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Erro: " + fp.err))
	}

	return b.String()
}

func (fp *FilePicker) row(i int, label string) string {
	style := styles.Normal
	if i == fp.cursor {
		style = styles.Selected
	}
	return styles.Cursor(i == fp.cursor) + style.Render(label) + "\n"
}

func (fp *FilePicker) viewInput() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Caminho do arquivo CSV"))
	b.WriteString("\n\n")
	b.WriteString(fp.textInput.View())

	if fp.err != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Erro: " + fp.err))
	}

	return b.String()
}

func (fp *FilePicker) viewFound() string {
	var b strings.Builder

	b.WriteString(styles.Title.Render("Arquivos CSV encontrados"))
	b.WriteString("\n\n")

	for i, f := range fp.found {
		b.WriteString(fp.row(i, f.Name+" "+helpStyle.Render("("+humanize.Bytes(uint64(f.Size))+")")))
	}
	b.WriteString(fp.row(len(fp.found), "[voltar]"))

	if fp.err != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render("Erro: " + fp.err))
	}

	return b.String()
}
