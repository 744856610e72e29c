// ABOUTME: Reports screen: pick a report, fill its parameters and read the result
// ABOUTME: Results show a preview with a toggle to expand every row

package reports

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
	"github.com/painel-f1/painel/internal/tui/icons"
	"github.com/painel-f1/painel/internal/tui/styles"
	"github.com/painel-f1/painel/internal/tui/widgets"
	"github.com/painel-f1/painel/internal/tui/wizard"
)

// RunMsg asks for a report to be executed
type RunMsg struct {
	Report client.Report
	Params map[string]string
}

// BackMsg is sent when the user leaves the screen
type BackMsg struct{}

type state int

const (
	stateList state = iota
	stateParams
	stateRunning
	stateResult
)

// Reports is the report browser
type Reports struct {
	reports []client.Report
	loaded  bool
	cursor  int
	state   state
	params  *wizard.Wizard
	current *client.Report
	result  *client.ReportResult
	showAll bool
	err     string
	width   int
	height  int
}

// New creates an empty report browser
func New(width, height int) *Reports {
	return &Reports{width: width, height: height}
}

// SetReports fills the list
func (r *Reports) SetReports(reports []client.Report) {
	r.reports = reports
	r.loaded = true
	r.err = ""
}

// SetResult shows the output of the running report
func (r *Reports) SetResult(result *client.ReportResult) {
	r.result = result
	r.showAll = false
	r.err = ""
	r.state = stateResult
}

// SetError shows a failure on the current step
func (r *Reports) SetError(msg string) {
	r.err = msg
	r.loaded = true
	if r.state == stateRunning {
		r.state = stateResult
		r.result = nil
	}
}

// SetSize updates the screen dimensions
func (r *Reports) SetSize(width, height int) {
	r.width = width
	r.height = height
	if r.params != nil {
		r.params.SetWidth(width)
	}
}

// Running reports whether a report is executing
func (r *Reports) Running() bool {
	return r.state == stateRunning
}

// InForm reports whether keys go to the parameter form
func (r *Reports) InForm() bool {
	return r.state == stateParams
}

// Init implements tea.Model
func (r *Reports) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model
func (r *Reports) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case wizard.CompleteMsg:
		if msg.ID == wizard.IDReportParams && r.state == stateParams {
			return r, r.run(msg.Values)
		}
		return r, nil

	case wizard.CancelledMsg:
		if r.state == stateParams {
			r.state = stateList
			r.params = nil
		}
		return r, nil

	case tea.KeyMsg:
		switch r.state {
		case stateList:
			return r.updateList(msg)
		case stateResult:
			return r.updateResult(msg)
		}
	}

	if r.state == stateParams && r.params != nil {
		model, cmd := r.params.Update(msg)
		r.params = model.(*wizard.Wizard)
		return r, cmd
	}
	return r, nil
}

func (r *Reports) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if r.cursor > 0 {
			r.cursor--
		}
	case "down", "j":
		if r.cursor < len(r.reports)-1 {
			r.cursor++
		}
	case "enter":
		if len(r.reports) == 0 {
			return r, nil
		}
		report := r.reports[r.cursor]
		r.current = &report
		r.err = ""
		if report.RequiresParams && len(report.Params) > 0 {
			r.state = stateParams
			r.params = wizard.NewReportParams(&report)
			r.params.SetWidth(r.width)
			return r, r.params.Init()
		}
		return r, r.run(map[string]string{})
	case "esc", "b":
		return r, func() tea.Msg { return BackMsg{} }
	}
	return r, nil
}

func (r *Reports) updateResult(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "v":
		r.showAll = !r.showAll
	case "esc", "b", "enter":
		r.state = stateList
		r.result = nil
		r.params = nil
		r.err = ""
	}
	return r, nil
}

// run blocks execution while a required parameter is blank
func (r *Reports) run(params map[string]string) tea.Cmd {
	if missing := r.current.MissingParams(params); len(missing) > 0 {
		r.err = "Preencha os parâmetros obrigatórios: " + strings.Join(missing, ", ")
		r.state = stateParams
		r.params = wizard.NewReportParams(r.current)
		r.params.SetWidth(r.width)
		return r.params.Init()
	}

	r.state = stateRunning
	r.params = nil
	r.err = ""
	msg := RunMsg{Report: *r.current, Params: params}
	return func() tea.Msg { return msg }
}

// View implements tea.Model
func (r *Reports) View() string {
	switch r.state {
	case stateParams:
		return r.viewParams()
	case stateRunning:
		return styles.Title.Render(r.current.Name) + "\n" + styles.Subtitle.Render("Executando relatório...")
	case stateResult:
		return r.viewResult()
	default:
		return r.viewList()
	}
}

func (r *Reports) viewList() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(icons.Report.String() + " Relatórios"))
	b.WriteString("\n")

	switch {
	case r.err != "":
		b.WriteString(widgets.StatusText(r.err, widgets.StatusCritical))
		return b.String()
	case !r.loaded:
		b.WriteString(styles.Subtitle.Render("Carregando relatórios..."))
		return b.String()
	case len(r.reports) == 0:
		b.WriteString(styles.Subtitle.Render("Nenhum relatório disponível para o seu perfil"))
		return b.String()
	}

	for i, rep := range r.reports {
		selected := i == r.cursor
		style := styles.Normal
		if selected {
			style = styles.Selected
		}
		b.WriteString(styles.Cursor(selected) + style.Render(rep.Name) + "\n")
		if rep.Description != "" {
			b.WriteString("    " + styles.Subtitle.UnsetMarginBottom().Render(rep.Description) + "\n")
		}
		if rep.RequiresParams && len(rep.Params) > 0 {
			labels := make([]string, len(rep.Params))
			for j, p := range rep.Params {
				labels[j] = p.Label
				if labels[j] == "" {
					labels[j] = p.Name
				}
				if p.Required {
					labels[j] += "*"
				}
			}
			b.WriteString("    " + styles.Help.UnsetMarginTop().Render("Parâmetros: "+strings.Join(labels, ", ")) + "\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Reports) viewParams() string {
	var b strings.Builder
	if r.params != nil {
		b.WriteString(r.params.View())
	}
	if r.err != "" {
		b.WriteString("\n")
		b.WriteString(widgets.StatusText(r.err, widgets.StatusWarning))
	}
	return b.String()
}

func (r *Reports) viewResult() string {
	var b strings.Builder
	b.WriteString(styles.Title.Render(r.current.Name))
	b.WriteString("\n")

	if r.err != "" {
		b.WriteString(widgets.StatusText(r.err, widgets.StatusCritical))
		return b.String()
	}
	if r.result == nil {
		return b.String()
	}

	rows := r.result.Data
	if !r.showAll {
		rows = present.Preview(rows)
	}
	b.WriteString(widgets.DataTable(r.result.Columns, rows, 0))

	total := len(r.result.Data)
	if total > present.PreviewRows {
		b.WriteString("\n")
		if r.showAll {
			b.WriteString(styles.Subtitle.Render(fmt.Sprintf("%d linhas  ·  v Ver Menos", total)))
		} else {
			b.WriteString(styles.Subtitle.Render(fmt.Sprintf("Mostrando %d de %d linhas  ·  v Ver Todos", present.PreviewRows, total)))
		}
	}
	return b.String()
}
