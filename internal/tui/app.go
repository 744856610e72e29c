// ABOUTME: Root bubbletea model for the TUI application
// ABOUTME: Manages screen state, protected mounts and the hard redirect to login

package tui

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/painel-f1/painel/internal/client"
	"github.com/painel-f1/painel/internal/role"
	"github.com/painel-f1/painel/internal/session"
	"github.com/painel-f1/painel/internal/tokenstore"
	"github.com/painel-f1/painel/internal/tui/csvfiles"
	"github.com/painel-f1/painel/internal/tui/dashboard"
	"github.com/painel-f1/painel/internal/tui/debuglog"
	"github.com/painel-f1/painel/internal/tui/filepicker"
	"github.com/painel-f1/painel/internal/tui/login"
	"github.com/painel-f1/painel/internal/tui/menu"
	"github.com/painel-f1/painel/internal/tui/recentfiles"
	"github.com/painel-f1/painel/internal/tui/reports"
	"github.com/painel-f1/painel/internal/tui/result"
	"github.com/painel-f1/painel/internal/tui/styles"
	"github.com/painel-f1/painel/internal/tui/viewdetails"
	"github.com/painel-f1/painel/internal/tui/wizard"
)

// Screen represents the current TUI screen
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenDashboard
	ScreenViewDetails
	ScreenReports
	ScreenForm
	ScreenFilePicker
	ScreenResult
)

// Protected reports whether the screen sits behind a route authorization boundary
func (s Screen) Protected() bool {
	return s != ScreenLogin
}

// Options wires the app to the API
type Options struct {
	Client    *client.Client
	Guard     session.Verifier
	Store     tokenstore.Store
	ConfigDir string
	CSVDir    string
	LogLevel  string
}

// App is the root model for the TUI
type App struct {
	opts   Options
	width  int
	height int

	// redirected is raised by HardRedirect from any goroutine and consumed
	// by the next Update
	redirected atomic.Bool

	// Everything below is in-memory state that a hard redirect discards

	screen   Screen
	seq      int
	boundary *session.Boundary
	route    string
	spinner  spinner.Model

	role       role.Role
	lastUpdate time.Time
	focusMenu  bool
	busy       bool

	login      *login.Login
	dashboard  *dashboard.Dashboard
	menu       *menu.Menu
	details    *viewdetails.ViewDetails
	reports    *reports.Reports
	form       *wizard.Wizard
	formAction role.Action
	filePicker *filepicker.FilePicker
	outcome    *result.Result

	recentFiles *recentfiles.RecentFiles
}

// New creates a new TUI application at the login screen
func New(opts Options) *App {
	a := &App{opts: opts}
	a.resetState()
	return a
}

// resetState drops everything a session accumulated. The sequence number
// keeps counting so results from before the reset are still recognised as
// stale.
func (a *App) resetState() {
	a.screen = ScreenLogin
	a.boundary = nil
	a.route = ""
	a.spinner = spinner.New(spinner.WithSpinner(spinner.Dot))
	a.spinner.Style = a.spinner.Style.Foreground(styles.Primary)

	a.role = ""
	a.lastUpdate = time.Time{}
	a.focusMenu = false
	a.busy = false

	a.login = login.New()
	a.dashboard = nil
	a.menu = nil
	a.details = nil
	a.reports = nil
	a.form = nil
	a.filePicker = nil
	a.outcome = nil

	a.recentFiles = recentfiles.New(a.opts.ConfigDir)
}

// HardRedirect discards all in-memory state and returns to the login screen
// on the next update. It is the gateway's redirector and is safe to call
// from command goroutines.
func (a *App) HardRedirect(route string) {
	slog.Info("Hard redirect", "route", route)
	a.redirected.Store(true)
}

func (a *App) hardReset() tea.Cmd {
	a.resetState()
	return a.navigate(ScreenLogin)
}

// Screen returns the current screen
func (a *App) Screen() Screen {
	return a.screen
}

// Init implements tea.Model
func (a *App) Init() tea.Cmd {
	return a.navigate(ScreenLogin)
}

// navigate mounts screen. Every mount gets a new sequence number so results
// addressed to an earlier mount are dropped. Protected screens also get a
// fresh boundary and start Pending until the guard answers.
func (a *App) navigate(screen Screen) tea.Cmd {
	a.seq++
	a.screen = screen
	a.route = ""
	a.busy = false

	if !screen.Protected() {
		a.boundary = nil
		return a.mountLogin()
	}

	b := session.NewBoundary(a.opts.Guard, session.NavigatorFunc(func(route string) {
		a.route = route
	}))
	a.boundary = b
	seq := a.seq
	return tea.Batch(a.spinner.Tick, func() tea.Msg {
		return verdictMsg{seq: seq, verdict: b.Check(context.Background())}
	})
}

// mountLogin shows a fresh form. With a stored token it asks the guard
// whether the session is still good and forwards to the dashboard if so.
// The form cannot be submitted until the guard has answered.
func (a *App) mountLogin() tea.Cmd {
	a.login = login.New()
	cmds := []tea.Cmd{a.login.Init()}

	if a.opts.Store != nil {
		if _, ok := a.opts.Store.Get(); ok {
			seq := a.seq
			guard := a.opts.Guard
			a.login.SetChecking(true)
			cmds = append(cmds, func() tea.Msg {
				return loginCheckMsg{seq: seq, verdict: guard.Verify(context.Background())}
			})
		}
	}
	return tea.Batch(cmds...)
}

// enter starts the work of a screen whose boundary was granted
func (a *App) enter() tea.Cmd {
	switch a.screen {
	case ScreenDashboard:
		a.dashboard = dashboard.New(a.dashboardWidth(), a.paneHeight())
		return a.loadDashboard()
	case ScreenViewDetails:
		if a.details != nil {
			return a.details.Request()
		}
	case ScreenReports:
		return a.loadReports()
	case ScreenForm:
		if a.form != nil {
			return a.form.Init()
		}
	}
	return nil
}

// granted reports whether the current screen may show and act on content
func (a *App) granted() bool {
	return a.boundary != nil && a.boundary.State() == session.Granted
}

// Update implements tea.Model
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.redirected.Swap(false) {
		cmd := a.hardReset()
		if size, ok := msg.(tea.WindowSizeMsg); ok {
			a.resize(size)
		}
		return a, cmd
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.resize(msg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.updateKey(msg)

	case spinner.TickMsg:
		if a.boundary == nil || a.boundary.State() != session.Pending {
			return a, nil
		}
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return a, cmd

	case verdictMsg:
		if msg.seq != a.seq || a.boundary == nil {
			return a, nil
		}
		state, _ := a.boundary.Resolve(msg.verdict)
		if a.route == session.LoginRoute {
			return a, a.navigate(ScreenLogin)
		}
		if state == session.Granted {
			return a, a.enter()
		}
		return a, nil

	case loginCheckMsg:
		if msg.seq != a.seq || a.screen != ScreenLogin {
			return a, nil
		}
		a.login.SetChecking(false)
		if msg.verdict == session.Authenticated && !a.login.Busy() {
			// The dashboard mount verifies again. The login screen is not a
			// protected mount, so its answer does not carry over.
			return a, a.navigate(ScreenDashboard)
		}
		return a, nil

	case login.SubmitMsg:
		if a.screen != ScreenLogin || a.login.Checking() {
			return a, nil
		}
		return a, a.submitLogin(msg)

	case loginResultMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		if msg.err != nil {
			a.login.SetError(loginError(msg.err))
			return a, nil
		}
		return a, a.navigate(ScreenDashboard)

	case dashboardLoadedMsg:
		return a.handleDashboardLoaded(msg)

	case loggedOutMsg:
		if a.screen != ScreenLogin {
			return a, a.hardReset()
		}
		return a, nil

	case dashboard.OpenViewMsg:
		if a.screen != ScreenDashboard || !a.granted() {
			return a, nil
		}
		a.details = viewdetails.New(msg.Name, a.fullWidth(), a.contentHeight())
		return a, a.navigate(ScreenViewDetails)

	case viewdetails.PageRequestMsg:
		if a.screen != ScreenViewDetails || !a.granted() {
			return a, nil
		}
		return a, a.fetchPage(msg)

	case pageLoadedMsg:
		if msg.seq != a.seq || a.details == nil || !a.details.Matches(msg.page, msg.limit) {
			return a, nil
		}
		if msg.err != nil {
			a.details.SetError(errorText(msg.err))
			return a, nil
		}
		a.details.SetPage(&msg.resp.View)
		a.lastUpdate = time.Now()
		return a, nil

	case viewdetails.BackMsg, reports.BackMsg, filepicker.CancelledMsg:
		return a, a.navigate(ScreenDashboard)

	case menu.SelectedMsg:
		return a.handleAction(msg.Action)

	case reportsLoadedMsg:
		if msg.seq != a.seq || a.reports == nil {
			return a, nil
		}
		if msg.err != nil {
			a.reports.SetError(errorText(msg.err))
			return a, nil
		}
		a.reports.SetReports(msg.resp.Reports)
		a.lastUpdate = time.Now()
		return a, nil

	case reports.RunMsg:
		if a.screen != ScreenReports || !a.granted() {
			return a, nil
		}
		return a, a.runReport(msg)

	case reportResultMsg:
		if msg.seq != a.seq || a.reports == nil {
			return a, nil
		}
		if msg.err != nil {
			a.reports.SetError(errorText(msg.err))
			return a, nil
		}
		a.reports.SetResult(msg.result)
		a.lastUpdate = time.Now()
		return a, nil

	case wizard.CompleteMsg:
		switch a.screen {
		case ScreenReports:
			return a.updateReports(msg)
		case ScreenForm:
			if !a.granted() || a.busy {
				return a, nil
			}
			a.busy = true
			return a, a.submitForm(msg)
		}
		return a, nil

	case wizard.CancelledMsg:
		switch a.screen {
		case ScreenReports:
			return a.updateReports(msg)
		case ScreenForm:
			return a, a.navigate(ScreenDashboard)
		}
		return a, nil

	case filepicker.FileSelectedMsg:
		if a.screen != ScreenFilePicker || !a.granted() || a.busy {
			return a, nil
		}
		a.busy = true
		return a, a.upload(msg.Path, msg.Data)

	case uploadDoneMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		if msg.err == nil {
			if err := a.recentFiles.Add(msg.path); err != nil {
				slog.Warn("Could not save recent upload", "path", msg.path, "error", err)
			}
		}
		return a.showOutcome(uploadOutcome(msg.result, msg.err))

	case actionDoneMsg:
		if msg.seq != a.seq {
			return a, nil
		}
		return a.showOutcome(msg.outcome)
	}

	return a.forward(msg)
}

// forward hands messages the app does not handle to the active screen.
// Forms and text inputs depend on their own internal messages.
func (a *App) forward(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch a.screen {
	case ScreenLogin:
		model, cmd := a.login.Update(msg)
		a.login = model.(*login.Login)
		return a, cmd
	case ScreenForm:
		if a.form != nil && a.granted() && !a.busy {
			model, cmd := a.form.Update(msg)
			a.form = model.(*wizard.Wizard)
			return a, cmd
		}
	case ScreenReports:
		if a.granted() {
			return a.updateReports(msg)
		}
	case ScreenFilePicker:
		if a.filePicker != nil && a.granted() {
			model, cmd := a.filePicker.Update(msg)
			a.filePicker = model.(*filepicker.FilePicker)
			return a, cmd
		}
	}
	return a, nil
}

func (a *App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if a.screen == ScreenLogin {
		return a.forward(msg)
	}

	// Protected content takes no input until the boundary grants it
	if !a.granted() {
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, nil
	}

	switch a.screen {
	case ScreenDashboard:
		return a.updateDashboard(msg)
	case ScreenViewDetails:
		model, cmd := a.details.Update(msg)
		a.details = model.(*viewdetails.ViewDetails)
		return a, cmd
	case ScreenResult:
		switch msg.String() {
		case "enter", "esc", "b":
			return a, a.navigate(ScreenDashboard)
		case "q":
			return a, tea.Quit
		}
		return a, nil
	}
	return a.forward(msg)
}

func (a *App) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return a, tea.Quit
	case "r":
		return a, a.navigate(ScreenDashboard)
	case "L":
		return a, a.logout()
	case "tab":
		if a.menu != nil && a.menu.Len() > 0 {
			a.setFocusMenu(!a.focusMenu)
		}
		return a, nil
	}

	if a.focusMenu && a.menu != nil {
		model, cmd := a.menu.Update(msg)
		a.menu = model.(*menu.Menu)
		return a, cmd
	}
	if a.dashboard != nil {
		model, cmd := a.dashboard.Update(msg)
		a.dashboard = model.(*dashboard.Dashboard)
		return a, cmd
	}
	return a, nil
}

func (a *App) updateReports(msg tea.Msg) (tea.Model, tea.Cmd) {
	if a.reports == nil {
		return a, nil
	}
	model, cmd := a.reports.Update(msg)
	a.reports = model.(*reports.Reports)
	return a, cmd
}

func (a *App) setFocusMenu(focused bool) {
	a.focusMenu = focused
	if a.menu != nil {
		a.menu.SetFocused(focused)
	}
	if a.dashboard != nil {
		a.dashboard.SetFocused(!focused)
	}
}

func (a *App) handleDashboardLoaded(msg dashboardLoadedMsg) (tea.Model, tea.Cmd) {
	if msg.seq != a.seq || a.dashboard == nil {
		return a, nil
	}

	a.role = msg.role
	title, subtitle := identity(msg.info, msg.role)
	a.dashboard.SetIdentity(title, subtitle, msg.role)
	a.menu = menu.New(msg.role)
	a.setFocusMenu(false)

	if msg.err != nil {
		a.dashboard.SetError(errorText(msg.err))
		return a, nil
	}
	a.dashboard.SetViews(msg.views)
	a.lastUpdate = time.Now()
	return a, nil
}

// handleAction opens the screen behind a menu entry. The role is checked
// again so an entry can never outlive the capability that produced it.
func (a *App) handleAction(action role.Action) (tea.Model, tea.Cmd) {
	if a.screen != ScreenDashboard || !a.granted() || !a.role.Can(action) {
		return a, nil
	}

	switch action {
	case role.ActionReports:
		a.reports = reports.New(a.fullWidth(), a.contentHeight())
		return a, a.navigate(ScreenReports)

	case role.ActionInsertDriver, role.ActionInsertConstructor, role.ActionSearchDrivers:
		switch action {
		case role.ActionInsertDriver:
			a.form = wizard.NewDriver()
		case role.ActionInsertConstructor:
			a.form = wizard.NewConstructor()
		default:
			a.form = wizard.NewSearch()
		}
		a.form.SetWidth(a.fullWidth())
		a.formAction = action
		return a, a.navigate(ScreenForm)

	case role.ActionUploadDrivers:
		recent, err := a.recentFiles.Load()
		if err != nil {
			slog.Warn("Could not load recent uploads", "error", err)
		}
		found, err := csvfiles.Discover(csvfiles.FindDir(a.opts.CSVDir))
		if err != nil {
			slog.Debug("No CSV files discovered", "error", err)
		}
		a.filePicker = filepicker.New(recent, found)
		return a, a.navigate(ScreenFilePicker)
	}
	return a, nil
}

func (a *App) showOutcome(o *result.Outcome) (tea.Model, tea.Cmd) {
	a.busy = false
	a.outcome = result.New(o, a.fullWidth())
	a.screen = ScreenResult
	a.lastUpdate = time.Now()
	return a, nil
}

func (a *App) resize(msg tea.WindowSizeMsg) {
	a.width = msg.Width
	a.height = msg.Height

	if a.login != nil {
		a.login.Update(msg)
	}
	if a.dashboard != nil {
		a.dashboard.SetSize(a.dashboardWidth(), a.paneHeight())
	}
	if a.details != nil {
		a.details.SetSize(a.fullWidth(), a.contentHeight())
	}
	if a.reports != nil {
		a.reports.SetSize(a.fullWidth(), a.contentHeight())
	}
	if a.form != nil {
		a.form.SetWidth(a.fullWidth())
	}
	if a.filePicker != nil {
		a.filePicker.Update(msg)
	}
	if a.outcome != nil {
		a.outcome.SetWidth(a.fullWidth())
	}
}

// Run starts the TUI. The default logger writes to the debug log in the
// config dir while the alternate screen owns the terminal.
func Run(app *App) error {
	if err := debuglog.Init(app.opts.ConfigDir, app.opts.LogLevel); err != nil {
		slog.Warn("Debug log unavailable", "error", err)
	}
	defer debuglog.Close()

	p := tea.NewProgram(app, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
