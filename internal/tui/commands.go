// ABOUTME: Commands that talk to the API on behalf of the TUI screens
// ABOUTME: Every result carries the mount sequence number it was issued for

package tui

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/present"
	"github.com/painel-f1/painel/internal/role"
	"github.com/painel-f1/painel/internal/session"
	"github.com/painel-f1/painel/internal/tui/login"
	"github.com/painel-f1/painel/internal/tui/reports"
	"github.com/painel-f1/painel/internal/tui/result"
	"github.com/painel-f1/painel/internal/tui/viewdetails"
	"github.com/painel-f1/painel/internal/tui/widgets"
	"github.com/painel-f1/painel/internal/tui/wizard"
	"golang.org/x/sync/errgroup"
)

// verdictMsg carries the guard's answer for a protected mount
type verdictMsg struct {
	seq     int
	verdict session.Verdict
}

// loginCheckMsg carries the guard's answer for a stored token found at login
type loginCheckMsg struct {
	seq     int
	verdict session.Verdict
}

type loginResultMsg struct {
	seq int
	err error
}

// dashboardLoadedMsg is sent when views and user info have both come back
type dashboardLoadedMsg struct {
	seq   int
	views []client.View
	info  *client.UserInfo
	role  role.Role
	err   error
}

type loggedOutMsg struct{}

type pageLoadedMsg struct {
	seq   int
	page  int
	limit int
	resp  *client.ViewResponse
	err   error
}

type reportsLoadedMsg struct {
	seq  int
	resp *client.ReportsResponse
	err  error
}

type reportResultMsg struct {
	seq    int
	result *client.ReportResult
	err    error
}

type uploadDoneMsg struct {
	seq    int
	path   string
	result *client.UploadResult
	err    error
}

// actionDoneMsg is sent when a form submission has an outcome to show
type actionDoneMsg struct {
	seq     int
	outcome *result.Outcome
}

func (a *App) submitLogin(msg login.SubmitMsg) tea.Cmd {
	seq, c := a.seq, a.opts.Client
	return func() tea.Msg {
		_, err := c.Login(context.Background(), msg.Username, msg.Password)
		return loginResultMsg{seq: seq, err: err}
	}
}

// loginError explains a failed login. Bad credentials show the server's
// message when it sent one.
func loginError(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Status == 401 {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return "Usuário ou senha inválidos"
	}
	return present.Error(err)
}

// loadDashboard fetches views and user info concurrently. A user info
// failure only costs the identity header; a views failure is shown.
func (a *App) loadDashboard() tea.Cmd {
	seq, c := a.seq, a.opts.Client
	return func() tea.Msg {
		ctx := context.Background()
		var (
			g     errgroup.Group
			views *client.ViewsResponse
			info  *client.UserInfo
		)
		g.Go(func() error {
			var err error
			views, err = c.Views(ctx)
			return err
		})
		g.Go(func() error {
			var err error
			info, err = c.UserInfo(ctx)
			if err != nil {
				slog.Warn("Could not load user info", "error", err)
				info = nil
			}
			return nil
		})

		err := g.Wait()
		msg := dashboardLoadedMsg{seq: seq, info: info, err: err}

		roleName := ""
		if views != nil {
			msg.views = views.Views
			roleName = views.UserRole
		}
		if roleName == "" && info != nil {
			roleName = info.Tipo
		}
		msg.role = role.Normalize(roleName)
		return msg
	}
}

// identity picks the header lines for the logged-in user
func identity(info *client.UserInfo, r role.Role) (title, subtitle string) {
	return present.Identity(info, string(r))
}

func errorText(err error) string {
	return present.Error(err)
}

func (a *App) logout() tea.Cmd {
	c := a.opts.Client
	return func() tea.Msg {
		c.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func (a *App) fetchPage(req viewdetails.PageRequestMsg) tea.Cmd {
	seq, c := a.seq, a.opts.Client
	return func() tea.Msg {
		resp, err := c.View(context.Background(), req.Name, req.Page, req.Limit)
		return pageLoadedMsg{seq: seq, page: req.Page, limit: req.Limit, resp: resp, err: err}
	}
}

func (a *App) loadReports() tea.Cmd {
	seq, c := a.seq, a.opts.Client
	return func() tea.Msg {
		resp, err := c.Reports(context.Background())
		return reportsLoadedMsg{seq: seq, resp: resp, err: err}
	}
}

func (a *App) runReport(msg reports.RunMsg) tea.Cmd {
	seq, c := a.seq, a.opts.Client
	return func() tea.Msg {
		res, err := c.ExecuteReport(context.Background(), msg.Report.ID, msg.Params)
		return reportResultMsg{seq: seq, result: res, err: err}
	}
}

func (a *App) upload(path string, data []byte) tea.Cmd {
	seq, c := a.seq, a.opts.Client
	return func() tea.Msg {
		res, err := c.UploadDrivers(context.Background(), filepath.Base(path), bytes.NewReader(data))
		return uploadDoneMsg{seq: seq, path: path, result: res, err: err}
	}
}

func uploadOutcome(res *client.UploadResult, err error) *result.Outcome {
	if err != nil {
		return &result.Outcome{
			Title: "Falha no upload",
			Level: widgets.StatusCritical,
			Lines: strings.Split(present.UploadError(err), "\n"),
		}
	}
	level := widgets.StatusOK
	if res.Inserted == 0 {
		level = widgets.StatusWarning
	}
	return &result.Outcome{
		Title: "Upload concluído",
		Level: level,
		Lines: present.UploadSummary(res),
	}
}

func (a *App) submitForm(msg wizard.CompleteMsg) tea.Cmd {
	seq, c, action := a.seq, a.opts.Client, a.formAction
	return func() tea.Msg {
		return actionDoneMsg{seq: seq, outcome: perform(context.Background(), c, action, msg.Values)}
	}
}

// perform runs a data entry action and describes what happened
func perform(ctx context.Context, c *client.Client, action role.Action, values map[string]string) *result.Outcome {
	switch action {
	case role.ActionInsertDriver:
		input := wizard.DriverInput(values)
		if err := input.Validate(); err != nil {
			return failure("Não foi possível inserir o piloto", err)
		}
		rec, err := c.CreateDriver(ctx, input)
		if err != nil {
			return failure("Não foi possível inserir o piloto", err)
		}
		return created("Piloto inserido com sucesso", rec)

	case role.ActionInsertConstructor:
		input := wizard.ConstructorInput(values)
		if err := input.Validate(); err != nil {
			return failure("Não foi possível inserir o construtor", err)
		}
		rec, err := c.CreateConstructor(ctx, input)
		if err != nil {
			return failure("Não foi possível inserir o construtor", err)
		}
		return created("Construtor inserido com sucesso", rec)

	case role.ActionSearchDrivers:
		surname := values["surname"]
		rows, err := c.SearchDrivers(ctx, surname)
		if err != nil {
			return failure("Falha na busca", err)
		}
		return &result.Outcome{
			Title: fmt.Sprintf("%d piloto(s) encontrado(s) com sobrenome %q", len(rows), surname),
			Level: widgets.StatusInfo,
			Rows:  rows,
			Table: true,
		}
	}
	return failure("Ação indisponível", fmt.Errorf("ação %s não suportada", action))
}

func created(title string, rec client.Record) *result.Outcome {
	o := &result.Outcome{Title: title, Level: widgets.StatusOK}
	if len(rec) > 0 {
		o.Rows = []client.Row{client.Row(rec)}
	}
	return o
}

func failure(title string, err error) *result.Outcome {
	return &result.Outcome{
		Title: title,
		Level: widgets.StatusCritical,
		Lines: strings.Split(errorText(err), "\n"),
	}
}
