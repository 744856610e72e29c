// ABOUTME: Screen rendering for the root model
// ABOUTME: Header and footer frame, dashboard panes and the boundary placeholder

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/painel-f1/painel/internal/tui/icons"
	"github.com/painel-f1/painel/internal/tui/styles"
)

// Layout constants
const (
	minTerminalWidth = 80 // frame never renders narrower than this
	actionsPaneWidth = 34
	panelChrome      = 4 // border plus horizontal padding of a panel
)

// View implements tea.Model
func (a *App) View() string {
	var content string

	if a.screen.Protected() && a.boundary != nil {
		placeholder := a.spinner.View() + " Verificando sessão..."
		content = a.boundary.View(placeholder, a.viewScreen)
	} else {
		content = a.viewScreen()
	}

	return a.wrapWithFrame(content)
}

func (a *App) viewScreen() string {
	switch a.screen {
	case ScreenLogin:
		return a.login.View()
	case ScreenDashboard:
		return a.viewDashboard()
	case ScreenViewDetails:
		if a.details != nil {
			return a.details.View()
		}
	case ScreenReports:
		if a.reports != nil {
			return a.reports.View()
		}
	case ScreenForm:
		if a.busy {
			return a.spinner.View() + " Enviando..."
		}
		if a.form != nil {
			return a.form.View()
		}
	case ScreenFilePicker:
		if a.busy {
			return a.spinner.View() + " Enviando arquivo..."
		}
		if a.filePicker != nil {
			return a.filePicker.View()
		}
	case ScreenResult:
		if a.outcome != nil {
			return a.outcome.View()
		}
	}
	return ""
}

// viewDashboard renders the views pane with the actions pane beside it
func (a *App) viewDashboard() string {
	leftStyle, rightStyle := styles.ActivePanel, styles.Panel
	if a.focusMenu {
		leftStyle, rightStyle = styles.Panel, styles.ActivePanel
	}

	left := "Carregando..."
	if a.dashboard != nil {
		left = a.dashboard.View()
	}
	leftPane := leftStyle.Width(a.dashboardWidth() + 2).Render(left)

	right := styles.Title.Render("Ações") + "\n" + styles.Subtitle.Render("Carregando...")
	if a.menu != nil {
		right = a.menu.View()
	}
	right += "\n\n" + icons.Refresh.String() + " r Atualizar\n" + icons.Logout.String() + " L Sair da conta"
	rightPane := rightStyle.Width(actionsPaneWidth - 2).Render(right)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftPane, rightPane)
}

// frameWidth is one column short of the terminal so the last column never
// wraps, clamped to the minimum width
func (a *App) frameWidth() int {
	return max(a.width-1, minTerminalWidth)
}

// fullWidth is the width available to single-pane screens
func (a *App) fullWidth() int {
	return a.frameWidth() - 2
}

// dashboardWidth is the text width inside the views pane
func (a *App) dashboardWidth() int {
	return max(a.frameWidth()-actionsPaneWidth-panelChrome, 20)
}

// contentHeight is the height between header and footer
func (a *App) contentHeight() int {
	if a.height <= 0 {
		return 0
	}
	return max(a.height-2, 1)
}

// paneHeight is the text height inside a bordered pane
func (a *App) paneHeight() int {
	if a.height <= 0 {
		return 0
	}
	return max(a.contentHeight()-2, 1)
}

// renderHeader creates the header bar with app branding and the user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	contextStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Painel F1"))

	rightText := ""
	if a.screen != ScreenLogin && a.role != "" {
		rightText = " " + contextStyle.Render(string(a.role)) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╭─ and ─╮
	if fillWidth < 0 {
		rightText = ""
		fillWidth = max(width-4-lipgloss.Width(leftText), 0)
	}

	header := "╭─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╮"
	return borderStyle.Render(header)
}

// shortcuts lists the keys of the current screen
func (a *App) shortcuts() []string {
	switch a.screen {
	case ScreenLogin:
		return []string{"Tab Alternar", "Enter Entrar", "Ctrl+C Sair"}
	case ScreenDashboard:
		return []string{"Tab Foco", "↑↓ Navegar", "Enter Abrir", "q Sair"}
	case ScreenViewDetails:
		return []string{"←→ Página", "s Itens", "r Recarregar", "Esc Voltar"}
	case ScreenReports:
		return []string{"↑↓ Navegar", "Enter Executar", "v Ver Todos", "Esc Voltar"}
	case ScreenForm:
		return []string{"Tab Próximo", "Enter Confirmar", "Esc Cancelar"}
	case ScreenFilePicker:
		return []string{"↑↓ Navegar", "Enter Selecionar", "Esc Voltar"}
	case ScreenResult:
		return []string{"Enter Voltar", "q Sair"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	styled := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		key, label, ok := strings.Cut(s, " ")
		if ok {
			styled = append(styled, keyStyle.Render(key)+" "+labelStyle.Render(label))
		} else {
			styled = append(styled, s)
		}
	}

	leftText := " " + strings.Join(styled, "  ") + " "

	rightText := ""
	if !a.lastUpdate.IsZero() && a.screen != ScreenLogin {
		rightText = " " + statusStyle.Render("Atualizado "+formatTimeSince(a.lastUpdate)) + " "
	}

	fillWidth := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText) // -4 for ╰─ and ─╯
	if fillWidth < 0 {
		rightText = ""
		fillWidth = max(width-4-lipgloss.Width(leftText), 0)
	}

	footer := "╰─" + leftText + strings.Repeat("─", fillWidth) + rightText + "─╯"
	return borderStyle.Render(footer)
}

// formatTimeSince formats the time since t in short Portuguese
func formatTimeSince(t time.Time) string {
	d := time.Since(t)

	switch {
	case d < 5*time.Second:
		return "agora"
	case d < time.Minute:
		return fmt.Sprintf("há %ds", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("há %dmin", int(d.Minutes()))
	default:
		return fmt.Sprintf("há %dh", int(d.Hours()))
	}
}

// wrapWithFrame wraps content with header and footer. Content is clipped
// so the footer always stays on screen.
func (a *App) wrapWithFrame(content string) string {
	if h := a.contentHeight(); h > 0 {
		content = lipgloss.NewStyle().MaxHeight(h).Render(content)
	}

	var sb strings.Builder
	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())
	return sb.String()
}
