package tui

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saman-rajabii/baby-health-app/internal/api"
	"github.com/saman-rajabii/baby-health-app/internal/export"
	"github.com/saman-rajabii/baby-health-app/internal/store"
)

// App is the root Bubble Tea model. Everything except the sign-in wall
// lives behind a.authed.
type App struct {
	store  *store.Store
	client *api.Client
	width  int
	height int

	authed        bool
	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int

	auth         authModel
	kicks        kicksModel
	contractions contractionsModel
	account      accountModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the root model. user is non-nil when a saved token was
// restored, in which case the sign-in wall is skipped.
func NewApp(s *store.Store, client *api.Client, apiURL string, user *api.User) App {
	h := help.New()
	h.ShowAll = false

	a := App{
		store:        s,
		client:       client,
		activeView:   viewKicks,
		auth:         newAuthModel(client),
		kicks:        newKicksModel(client),
		contractions: newContractionsModel(client),
		account:      newAccountModel(apiURL),
		help:         h,
	}
	if user != nil {
		a.authed = true
		a.account.user = *user
	}
	return a
}

func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd()}
	if a.authed {
		cmds = append(cmds, a.kicks.refresh(), a.contractions.refresh())
	} else {
		cmds = append(cmds, a.auth.form.Init())
	}
	return tea.Batch(cmds...)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.auth.setSize(a.width, contentHeight)
		a.kicks.setSize(a.width, contentHeight)
		a.contractions.setSize(a.width, contentHeight)
		a.account.setSize(a.width, contentHeight)
		return a, nil

	case tickMsg:
		// Views derive their countdowns and gauges from the wall clock
		// at render time; the tick only forces the redraw.
		return a, tickCmd()

	case signedInMsg:
		a.client.SetToken(msg.token)
		if err := a.store.SetToken(msg.token); err == nil {
			if data, err := json.Marshal(msg.user); err == nil {
				a.store.SetUser(data)
			}
		}
		a.authed = true
		a.account.user = msg.user
		a.kicks.loading = true
		a.contractions.loading = true
		a.setStatus("Welcome back, "+msg.user.Name, false)
		return a, tea.Batch(a.kicks.refresh(), a.contractions.refresh())

	case signedUpMsg, authFailedMsg:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.update(msg)
		return a, cmd

	case loggedOutMsg:
		return a.signOut("Signed out")

	case unauthorizedMsg:
		return a.signOut("Session expired. Sign in again.")

	case requestFailedMsg:
		// Route first so the in-flight guard is released even when the
		// failure also costs us the session.
		var cmd tea.Cmd
		switch msg.scope {
		case viewKicks:
			a.kicks, cmd = a.kicks.update(msg)
		case viewContractions:
			a.contractions, cmd = a.contractions.update(msg)
		}
		if errors.Is(msg.err, api.ErrUnauthorized) {
			return a.signOut("Session expired. Sign in again.")
		}
		a.setStatus(requestErrText(msg.err), true)
		return a, cmd

	case statusMsg:
		a.setStatus(msg.text, msg.isError)
		return a, nil

	case exportDoneMsg:
		a.setStatus("Exported to "+msg.path, false)
		a.exportPicking = false
		return a, nil

	case kickSessionsMsg, kickLogsMsg:
		var cmd tea.Cmd
		a.kicks, cmd = a.kicks.update(msg)
		return a, cmd

	case kickCreatedMsg:
		return a.routeKicks(msg, "Kick session started")
	case kickRecordedMsg:
		return a.routeKicks(msg, "Kick recorded")
	case kickFinishedMsg:
		return a.routeKicks(msg, "Session finished")
	case kickDeletedMsg:
		return a.routeKicks(msg, "Session deleted")
	case kickLogDeletedMsg:
		return a.routeKicks(msg, "Kick removed")

	case contractionSessionsMsg, contractionLogsMsg:
		var cmd tea.Cmd
		a.contractions, cmd = a.contractions.update(msg)
		return a, cmd

	case contractionCreatedMsg:
		return a.routeContractions(msg, "Contraction session opened")
	case contractionLoggedMsg:
		return a.routeContractions(msg, fmt.Sprintf("Contraction saved, %s", formatSeconds(msg.log.Duration)))
	case contractionClosedMsg:
		return a.routeContractions(msg, "Session closed")
	case contractionDeletedMsg:
		return a.routeContractions(msg, "Session deleted")
	case contractionLogDeletedMsg:
		return a.routeContractions(msg, "Contraction removed")

	case quickRecordedMsg:
		var cmd tea.Cmd
		a.contractions, cmd = a.contractions.update(msg)
		if msg.err != nil {
			if errors.Is(msg.err, api.ErrUnauthorized) {
				return a.signOut("Session expired. Sign in again.")
			}
			a.setStatus(requestErrText(msg.err), true)
		} else {
			a.setStatus("Contraction saved", false)
		}
		return a, cmd

	case tea.KeyMsg:
		return a.updateKeys(msg)
	}

	return a.updateActiveView(msg)
}

func (a App) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.authed {
		var cmd tea.Cmd
		a.auth, cmd = a.auth.update(msg)
		return a, cmd
	}

	if a.exportPicking {
		return a.updateExportPicker(msg)
	}

	// If a child view is capturing input (e.g. form), delegate first.
	if a.activeView == viewKicks && a.kicks.formActive {
		return a.updateActiveView(msg)
	}

	switch {
	case key.Matches(msg, keys.Export):
		a.exportPicking = true
		a.exportCursor = 0
		return a, nil
	case key.Matches(msg, keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, keys.Help):
		a.showHelp = !a.showHelp
		a.help.ShowAll = a.showHelp
		return a, nil
	case key.Matches(msg, keys.Tab1):
		a.activeView = viewKicks
		return a, a.kicks.refresh()
	case key.Matches(msg, keys.Tab2):
		a.activeView = viewContractions
		return a, a.contractions.refresh()
	case key.Matches(msg, keys.Tab3):
		a.activeView = viewAccount
		return a, nil
	case key.Matches(msg, keys.Tab):
		a.activeView = (a.activeView + 1) % 3
		return a, a.refreshCurrentView()
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewKicks:
		a.kicks, cmd = a.kicks.update(msg)
	case viewContractions:
		a.contractions, cmd = a.contractions.update(msg)
	case viewAccount:
		a.account, cmd = a.account.update(msg)
	}
	return a, cmd
}

func (a App) routeKicks(msg tea.Msg, status string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.kicks, cmd = a.kicks.update(msg)
	a.setStatus(status, false)
	return a, cmd
}

func (a App) routeContractions(msg tea.Msg, status string) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	a.contractions, cmd = a.contractions.update(msg)
	a.setStatus(status, false)
	return a, cmd
}

func (a *App) setStatus(text string, isErr bool) {
	a.status = text
	a.statusErr = isErr
}

func (a App) signOut(status string) (tea.Model, tea.Cmd) {
	a.store.Clear()
	a.client.SetToken("")
	a.authed = false
	a.kicks = newKicksModel(a.client)
	a.contractions = newContractionsModel(a.client)
	a.account.user = api.User{}
	a.auth = newAuthModel(a.client)
	contentHeight := a.height - 4
	a.auth.setSize(a.width, contentHeight)
	a.kicks.setSize(a.width, contentHeight)
	a.contractions.setSize(a.width, contentHeight)
	a.setStatus(status, false)
	return a, a.auth.form.Init()
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewKicks:
		return a.kicks.refresh()
	case viewContractions:
		return a.contractions.refresh()
	}
	return nil
}

func requestErrText(err error) string {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fmt.Sprintf("Request failed (HTTP %d)", apiErr.Status)
	}
	return "Cannot reach the server. Check your connection and try again."
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	if !a.authed {
		content = a.auth.view()
	} else {
		switch a.activeView {
		case viewKicks:
			content = a.kicks.view()
		case viewContractions:
			content = a.contractions.view()
		case viewAccount:
			content = a.account.view()
		}
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("babytrack")

	if !a.authed {
		return headerStyle.Render(title)
	}

	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}
	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := ""
	if a.authed {
		helpView = a.help.View(keys)
	}

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	// Recording indicator stays visible across tabs.
	recInfo := ""
	if secs := a.contractions.tracker.ElapsedSeconds(time.Now()); secs > 0 || a.recordingActive() {
		recInfo = accentStyle.Render(fmt.Sprintf(" ● %s", formatSeconds(secs)))
	}

	left := footerStyle.Render(helpView)
	right := recInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

func (a App) recordingActive() bool {
	_, ok := a.contractions.tracker.Recording()
	return ok
}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	formats := []string{"CSV", "JSON"}
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range formats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < 1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	kicks := a.kicks.tracker.Sessions
	contractions := a.contractions.tracker.Sessions
	return func() tea.Msg {
		home, _ := os.UserHomeDir()
		dateStr := time.Now().Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(home, fmt.Sprintf("babytrack-export-%s.csv", dateStr))
			if err := export.ToCSV(kicks, contractions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(home, fmt.Sprintf("babytrack-export-%s.json", dateStr))
			if err := export.ToJSON(kicks, contractions, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
