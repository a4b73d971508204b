package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/saman-rajabii/baby-health-app/internal/api"
	"github.com/saman-rajabii/baby-health-app/internal/track"
)

type kicksModel struct {
	client  *api.Client
	tracker *track.KickTracker
	width   int
	height  int

	loading     bool
	cursor      int
	viewingLogs bool
	logCursor   int
	logsLoading bool

	formActive bool
	form       *huh.Form
	formPeriod *string
}

func newKicksModel(client *api.Client) kicksModel {
	period := "2"
	return kicksModel{
		client:     client,
		tracker:    track.NewKickTracker(),
		formPeriod: &period,
	}
}

func (m *kicksModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m kicksModel) refresh() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sessions, err := client.ListMyKickCounters(context.Background())
		if err != nil {
			return requestFailedMsg{scope: viewKicks, err: err}
		}
		return kickSessionsMsg(sessions)
	}
}

func (m kicksModel) loadLogs(counterID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		logs, err := client.ListKickLogs(context.Background(), counterID)
		if err != nil {
			return requestFailedMsg{scope: viewKicks, err: err}
		}
		return kickLogsMsg{counterID: counterID, logs: logs}
	}
}

func (m kicksModel) update(msg tea.Msg) (kicksModel, tea.Cmd) {
	if m.formActive && m.form != nil {
		return m.updateForm(msg)
	}

	switch msg := msg.(type) {
	case kickSessionsMsg:
		m.loading = false
		m.tracker.SetSessions(msg)
		if m.cursor >= len(m.tracker.Sessions) {
			m.cursor = max(0, len(m.tracker.Sessions)-1)
		}
		return m, nil

	case kickCreatedMsg:
		m.tracker.ApplyCreate(msg.counter, msg.period)
		m.cursor = 0
		return m, nil

	case kickRecordedMsg:
		m.tracker.End(msg.counterID)
		m.tracker.ApplyKick(msg.counterID)
		return m, nil

	case kickFinishedMsg:
		m.tracker.End(msg.counter.ID)
		m.tracker.ApplyFinish(msg.counter)
		return m, nil

	case kickDeletedMsg:
		m.tracker.End(msg.counterID)
		if m.viewingLogs && m.tracker.SelectedID == msg.counterID {
			m.viewingLogs = false
		}
		m.tracker.ApplyDelete(msg.counterID)
		if m.cursor >= len(m.tracker.Sessions) {
			m.cursor = max(0, len(m.tracker.Sessions)-1)
		}
		return m, nil

	case kickLogsMsg:
		if m.tracker.SelectedID == msg.counterID {
			m.tracker.SetLogs(msg.counterID, msg.logs)
			m.logsLoading = false
			if m.logCursor >= len(msg.logs) {
				m.logCursor = max(0, len(msg.logs)-1)
			}
		}
		return m, nil

	case kickLogDeletedMsg:
		m.tracker.End(msg.logID)
		m.tracker.ApplyDeleteLog(msg.logID)
		if m.logCursor >= len(m.tracker.SelectedLogs) {
			m.logCursor = max(0, len(m.tracker.SelectedLogs)-1)
		}
		return m, nil

	case requestFailedMsg:
		m.loading = false
		m.logsLoading = false
		if msg.sessionID != "" {
			m.tracker.End(msg.sessionID)
		}
		return m, nil

	case tea.KeyMsg:
		if m.viewingLogs {
			return m.updateLogsView(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m kicksModel) selected() *api.KickCounter {
	if m.cursor >= len(m.tracker.Sessions) {
		return nil
	}
	return &m.tracker.Sessions[m.cursor]
}

func (m kicksModel) updateList(msg tea.KeyMsg) (kicksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.tracker.Sessions)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.New):
		return m.showNewForm()
	case key.Matches(msg, keys.Record):
		return m.recordKick()
	case key.Matches(msg, keys.Finish):
		return m.finishSession()
	case key.Matches(msg, keys.Delete):
		return m.deleteSession()
	case key.Matches(msg, keys.Refresh):
		m.loading = true
		return m, m.refresh()
	case key.Matches(msg, keys.Enter):
		s := m.selected()
		if s == nil {
			return m, nil
		}
		m.viewingLogs = true
		m.logsLoading = true
		m.logCursor = 0
		m.tracker.SetLogs(s.ID, nil)
		return m, m.loadLogs(s.ID)
	}
	return m, nil
}

func (m kicksModel) recordKick() (kicksModel, tea.Cmd) {
	s := m.selected()
	if s == nil {
		return m, nil
	}
	now := time.Now()
	if !m.tracker.CanRecord(s.ID, now) {
		text := "Session is already finished"
		if s.IsActive {
			text = "The time period has ended. Finish the session."
		}
		return m, func() tea.Msg { return statusMsg{text: text, isError: true} }
	}
	if !m.tracker.Begin(s.ID) {
		return m, nil
	}
	client, id := m.client, s.ID
	return m, func() tea.Msg {
		_, err := client.CreateKickLog(context.Background(), id, now)
		if err != nil {
			return requestFailedMsg{scope: viewKicks, sessionID: id, err: err}
		}
		return kickRecordedMsg{counterID: id}
	}
}

func (m kicksModel) finishSession() (kicksModel, tea.Cmd) {
	s := m.selected()
	if s == nil || !s.IsActive {
		return m, nil
	}
	if !m.tracker.Begin(s.ID) {
		return m, nil
	}
	client, id := m.client, s.ID
	return m, func() tea.Msg {
		updated, err := client.CompleteKickCounter(context.Background(), id)
		if err != nil {
			return requestFailedMsg{scope: viewKicks, sessionID: id, err: err}
		}
		return kickFinishedMsg{counter: *updated}
	}
}

func (m kicksModel) deleteSession() (kicksModel, tea.Cmd) {
	s := m.selected()
	if s == nil {
		return m, nil
	}
	if !m.tracker.Begin(s.ID) {
		return m, nil
	}
	client, id := m.client, s.ID
	return m, func() tea.Msg {
		if err := client.DeleteKickCounter(context.Background(), id); err != nil {
			return requestFailedMsg{scope: viewKicks, sessionID: id, err: err}
		}
		return kickDeletedMsg{counterID: id}
	}
}

func (m kicksModel) updateLogsView(msg tea.KeyMsg) (kicksModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingLogs = false
		m.tracker.ClearLogs()
		return m, nil
	case key.Matches(msg, keys.Up):
		if m.logCursor > 0 {
			m.logCursor--
		}
	case key.Matches(msg, keys.Down):
		if m.logCursor < len(m.tracker.SelectedLogs)-1 {
			m.logCursor++
		}
	case key.Matches(msg, keys.Delete):
		if m.logCursor >= len(m.tracker.SelectedLogs) {
			return m, nil
		}
		log := m.tracker.SelectedLogs[m.logCursor]
		if !m.tracker.Begin(log.ID) {
			return m, nil
		}
		client := m.client
		return m, func() tea.Msg {
			if err := client.DeleteKickLog(context.Background(), log.ID); err != nil {
				return requestFailedMsg{scope: viewKicks, sessionID: log.ID, err: err}
			}
			return kickLogDeletedMsg{counterID: log.CounterID, logID: log.ID}
		}
	}
	return m, nil
}

func validatePeriod(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > 24 {
		return errors.New("period must be between 1 and 24 hours")
	}
	return nil
}

func (m kicksModel) showNewForm() (kicksModel, tea.Cmd) {
	*m.formPeriod = "2"
	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Time period (hours)").Value(m.formPeriod).Validate(validatePeriod),
		),
	).WithShowHelp(true).WithShowErrors(true)
	m.formActive = true
	return m, m.form.Init()
}

func (m kicksModel) updateForm(msg tea.Msg) (kicksModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			m.formActive = false
			m.form = nil
			return m, nil
		}
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.formActive = false
		period, err := strconv.Atoi(strings.TrimSpace(*m.formPeriod))
		if err != nil {
			return m, nil
		}
		client := m.client
		startedAt := time.Now()
		return m, func() tea.Msg {
			created, err := client.CreateKickCounter(context.Background(), startedAt, period)
			if err != nil {
				return requestFailedMsg{scope: viewKicks, err: err}
			}
			return kickCreatedMsg{counter: *created, period: period}
		}
	}

	return m, cmd
}

func (m kicksModel) view() string {
	if m.formActive && m.form != nil {
		title := titleStyle.Render("New Kick Session")
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", m.form.View())
		return panelStyle.Width(m.width - 4).Render(content)
	}

	if m.viewingLogs {
		return m.renderLogsView()
	}
	return m.renderList()
}

func (m kicksModel) renderList() string {
	w := m.width - 4
	title := titleStyle.Render("Kick Sessions")

	if m.loading {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Loading...")))
	}

	if len(m.tracker.Sessions) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "",
			mutedStyle.Render("No sessions yet. Press n to start counting kicks."),
		))
	}

	now := time.Now()
	var rows []string
	rows = append(rows, title, "")

	for i, s := range m.tracker.Sessions {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		head := fmt.Sprintf("%s%s  %dh window  %d kicks", cursor, formatDateTime(s.StartedAt), s.Period, s.KickCount)
		rows = append(rows, style.Render(head))

		if s.IsActive {
			st := track.DeriveKickTimer(s, now)
			bar := progressBar(24, st.Percent)
			line := fmt.Sprintf("    %s %s left", bar, formatCountdown(st.Remaining))
			if st.Remaining == 0 {
				rows = append(rows, expiredStyle.Render("    time period ended, press f to finish"))
			} else {
				rows = append(rows, countdownStyle.Render(line))
			}
		} else if s.FinishedAt != nil {
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("    finished %s", formatDateTime(*s.FinishedAt))))
		} else {
			rows = append(rows, mutedStyle.Render("    finished"))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  k: kick  f: finish  d: delete  enter: logs  r: refresh"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m kicksModel) renderLogsView() string {
	w := m.width - 4
	s := m.tracker.Session(m.tracker.SelectedID)
	header := "Kick Log"
	if s != nil {
		header = fmt.Sprintf("Kick Log, session of %s", formatDateTime(s.StartedAt))
	}
	title := titleStyle.Render(header)

	if m.logsLoading {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Loading...")))
	}

	if len(m.tracker.SelectedLogs) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No kicks recorded yet."),
			"", mutedStyle.Render("  esc: back"),
		))
	}

	var rows []string
	rows = append(rows, title, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-14s", "#", "Time")))

	for i, l := range m.tracker.SelectedLogs {
		cursor := "  "
		style := normalItemStyle
		if i == m.logCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-4d %s", cursor, i+1, formatClock(l.HappenedAt))))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  d: delete kick  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
