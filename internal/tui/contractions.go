package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/saman-rajabii/baby-health-app/internal/api"
	"github.com/saman-rajabii/baby-health-app/internal/track"
)

type contractionsModel struct {
	client  *api.Client
	tracker *track.ContractionTracker
	width   int
	height  int

	loading     bool
	cursor      int
	viewingLogs bool
	logCursor   int
	logsLoading bool

	chart barchart.Model
}

func newContractionsModel(client *api.Client) contractionsModel {
	return contractionsModel{
		client:  client,
		tracker: track.NewContractionTracker(),
		chart:   barchart.New(60, 8),
	}
}

func (m *contractionsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m contractionsModel) refresh() tea.Cmd {
	client := m.client
	return func() tea.Msg {
		sessions, err := client.ListMyContractionCounters(context.Background())
		if err != nil {
			return requestFailedMsg{scope: viewContractions, err: err}
		}
		return contractionSessionsMsg(sessions)
	}
}

func (m contractionsModel) loadLogs(counterID string) tea.Cmd {
	client := m.client
	return func() tea.Msg {
		logs, err := client.ListContractionLogs(context.Background(), counterID)
		if err != nil {
			return requestFailedMsg{scope: viewContractions, err: err}
		}
		return contractionLogsMsg{counterID: counterID, logs: logs}
	}
}

func (m contractionsModel) update(msg tea.Msg) (contractionsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case contractionSessionsMsg:
		m.loading = false
		m.tracker.SetSessions(msg)
		if m.cursor >= len(m.tracker.Sessions) {
			m.cursor = max(0, len(m.tracker.Sessions)-1)
		}
		return m, nil

	case contractionCreatedMsg:
		m.tracker.End("new")
		m.tracker.ApplyCreate(msg.counter)
		m.cursor = 0
		return m, nil

	case contractionLoggedMsg:
		m.tracker.End(msg.sessionID)
		m.tracker.ApplyLog(msg.log)
		return m, nil

	case quickRecordedMsg:
		m.tracker.End("quick")
		if msg.created != nil {
			m.tracker.ApplyCreate(*msg.created)
			m.cursor = 0
		}
		if msg.log != nil {
			m.tracker.ApplyLog(*msg.log)
		}
		return m, nil

	case contractionClosedMsg:
		m.tracker.End(msg.counter.ID)
		m.tracker.ApplyClose(msg.counter)
		return m, nil

	case contractionDeletedMsg:
		m.tracker.End(msg.counterID)
		if m.viewingLogs && m.tracker.SelectedID == msg.counterID {
			m.viewingLogs = false
		}
		m.tracker.ApplyDelete(msg.counterID)
		if m.cursor >= len(m.tracker.Sessions) {
			m.cursor = max(0, len(m.tracker.Sessions)-1)
		}
		return m, nil

	case contractionLogsMsg:
		if m.tracker.SelectedID == msg.counterID {
			m.tracker.SetLogs(msg.counterID, msg.logs)
			m.logsLoading = false
			if m.logCursor >= len(msg.logs) {
				m.logCursor = max(0, len(msg.logs)-1)
			}
			m.buildChart()
		}
		return m, nil

	case contractionLogDeletedMsg:
		m.tracker.End(msg.logID)
		m.tracker.ApplyDeleteLog(msg.logID)
		if m.logCursor >= len(m.tracker.SelectedLogs) {
			m.logCursor = max(0, len(m.tracker.SelectedLogs)-1)
		}
		m.buildChart()
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

func (m contractionsModel) selected() *api.ContractionCounter {
	if m.cursor >= len(m.tracker.Sessions) {
		return nil
	}
	return &m.tracker.Sessions[m.cursor]
}

func (m contractionsModel) updateList(msg tea.KeyMsg) (contractionsModel, tea.Cmd) {
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
		return m.newSession()
	case key.Matches(msg, keys.Start):
		return m.startContraction()
	case key.Matches(msg, keys.End):
		return m.endContraction()
	case key.Matches(msg, keys.Quick):
		return m.quickToggle()
	case key.Matches(msg, keys.Close):
		return m.closeSession()
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

func (m contractionsModel) newSession() (contractionsModel, tea.Cmd) {
	if !m.tracker.Begin("new") {
		return m, nil
	}
	client := m.client
	return m, func() tea.Msg {
		created, err := client.CreateContractionCounter(context.Background())
		if err != nil {
			return requestFailedMsg{scope: viewContractions, sessionID: "new", err: err}
		}
		return contractionCreatedMsg{counter: *created}
	}
}

func (m contractionsModel) startContraction() (contractionsModel, tea.Cmd) {
	s := m.selected()
	if s == nil {
		return m, nil
	}
	if !s.Active() {
		return m, func() tea.Msg {
			return statusMsg{text: "Session is closed. Start a new one.", isError: true}
		}
	}
	if err := m.tracker.BeginRecording(s.ID, time.Now()); err != nil {
		return m, func() tea.Msg {
			return statusMsg{text: "A contraction is already being recorded", isError: true}
		}
	}
	return m, nil
}

// endContraction releases the recording slot and sends the completed
// contraction to the backend. The quick path may still have to resolve
// which session receives it.
func (m contractionsModel) endContraction() (contractionsModel, tea.Cmd) {
	now := time.Now()
	rec, secs, err := m.tracker.EndRecording(now)
	if err != nil {
		return m, nil
	}

	if rec.SessionID != "" {
		return m, m.createLog(rec.SessionID, rec.StartedAt, now, secs)
	}

	// Quick recording: first active session wins, otherwise a session is
	// created to receive the log.
	if s := m.tracker.FirstActive(); s != nil {
		return m, m.createLog(s.ID, rec.StartedAt, now, secs)
	}
	if !m.tracker.Begin("quick") {
		return m, nil
	}
	client := m.client
	return m, func() tea.Msg {
		created, err := client.CreateContractionCounter(context.Background())
		if err != nil {
			return quickRecordedMsg{err: err}
		}
		log, err := client.CreateContractionLog(context.Background(), created.ID, rec.StartedAt, now, secs)
		if err != nil {
			return quickRecordedMsg{created: created, err: err}
		}
		return quickRecordedMsg{created: created, log: log}
	}
}

func (m contractionsModel) quickToggle() (contractionsModel, tea.Cmd) {
	if _, ok := m.tracker.Recording(); ok {
		return m.endContraction()
	}
	m.tracker.BeginRecording("", time.Now())
	return m, nil
}

func (m contractionsModel) createLog(sessionID string, startedAt, endedAt time.Time, secs int) tea.Cmd {
	if !m.tracker.Begin(sessionID) {
		return nil
	}
	client := m.client
	return func() tea.Msg {
		log, err := client.CreateContractionLog(context.Background(), sessionID, startedAt, endedAt, secs)
		if err != nil {
			return requestFailedMsg{scope: viewContractions, sessionID: sessionID, err: err}
		}
		return contractionLoggedMsg{sessionID: sessionID, log: *log}
	}
}

func (m contractionsModel) closeSession() (contractionsModel, tea.Cmd) {
	s := m.selected()
	if s == nil || !s.Active() {
		return m, nil
	}
	if m.tracker.RecordingFor(s.ID) {
		m.tracker.CancelRecording()
	}
	if !m.tracker.Begin(s.ID) {
		return m, nil
	}
	client, id := m.client, s.ID
	return m, func() tea.Msg {
		updated, err := client.CloseContractionCounter(context.Background(), id)
		if err != nil {
			return requestFailedMsg{scope: viewContractions, sessionID: id, err: err}
		}
		return contractionClosedMsg{counter: *updated}
	}
}

func (m contractionsModel) deleteSession() (contractionsModel, tea.Cmd) {
	s := m.selected()
	if s == nil {
		return m, nil
	}
	if m.tracker.RecordingFor(s.ID) {
		m.tracker.CancelRecording()
	}
	if !m.tracker.Begin(s.ID) {
		return m, nil
	}
	client, id := m.client, s.ID
	return m, func() tea.Msg {
		if err := client.DeleteContractionCounter(context.Background(), id); err != nil {
			return requestFailedMsg{scope: viewContractions, sessionID: id, err: err}
		}
		return contractionDeletedMsg{counterID: id}
	}
}

func (m contractionsModel) updateLogsView(msg tea.KeyMsg) (contractionsModel, tea.Cmd) {
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
			if err := client.DeleteContractionLog(context.Background(), log.ID); err != nil {
				return requestFailedMsg{scope: viewContractions, sessionID: log.ID, err: err}
			}
			return contractionLogDeletedMsg{counterID: log.CounterID, logID: log.ID}
		}
	}
	return m, nil
}

func (m *contractionsModel) buildChart() {
	chartWidth := m.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	m.chart = barchart.New(chartWidth, 8)

	var bars []barchart.BarData
	for i, l := range m.tracker.SelectedLogs {
		bars = append(bars, barchart.BarData{
			Label: fmt.Sprintf("%d", i+1),
			Values: []barchart.BarValue{{
				Name:  "duration",
				Value: float64(l.Duration),
				Style: lipgloss.NewStyle().Foreground(colorPrimary),
			}},
		})
	}
	if len(bars) == 0 {
		return
	}
	m.chart.PushAll(bars)
	m.chart.Draw()
}

func (m contractionsModel) view() string {
	if m.viewingLogs {
		return m.renderLogsView()
	}
	return m.renderList()
}

func (m contractionsModel) renderList() string {
	w := m.width - 4
	title := titleStyle.Render("Contraction Sessions")
	now := time.Now()

	var rows []string
	rows = append(rows, title, "")

	// The gauge is always visible so a quick recording started with
	// space has somewhere to show up even with no sessions yet.
	if rec, ok := m.tracker.Recording(); ok {
		secs := m.tracker.ElapsedSeconds(now)
		bar := progressBar(24, m.tracker.Pressure(now))
		target := "quick"
		if rec.SessionID != "" {
			target = "session"
		}
		rows = append(rows, recordingStyle.Render(fmt.Sprintf("  ● recording (%s)  %s  %s", target, bar, formatSeconds(secs))))
	} else {
		rows = append(rows, mutedStyle.Render("  ○ idle, press space to record a contraction"))
	}
	rows = append(rows, "")

	if m.loading {
		rows = append(rows, mutedStyle.Render("Loading..."))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	if len(m.tracker.Sessions) == 0 {
		rows = append(rows, mutedStyle.Render("No sessions yet. Press n to open one."))
		rows = append(rows, "")
		rows = append(rows, mutedStyle.Render("  n: new  space: quick record"))
		return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
	}

	for i, s := range m.tracker.Sessions {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}

		status := successStyle.Render("active")
		if !s.Active() {
			status = mutedStyle.Render("closed")
		}
		head := fmt.Sprintf("%s%s  %d contractions  ", cursor, formatDateTime(s.CreatedAt), len(s.ContractionLogs))
		rows = append(rows, style.Render(head)+status)

		if m.tracker.RecordingFor(s.ID) {
			secs := m.tracker.ElapsedSeconds(now)
			rows = append(rows, recordingStyle.Render(fmt.Sprintf("    ● contraction in progress, %s", formatSeconds(secs))))
		} else if s.Active() && len(s.ContractionLogs) > 0 {
			last := s.ContractionLogs[len(s.ContractionLogs)-1]
			rows = append(rows, mutedStyle.Render(fmt.Sprintf("    last contraction %s ago", formatSince(last.EndedAt, now))))
		}
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  n: new  s: start  e: end  space: quick  x: close  d: delete  enter: logs"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m contractionsModel) renderLogsView() string {
	w := m.width - 4
	s := m.tracker.Session(m.tracker.SelectedID)
	header := "Contractions"
	if s != nil {
		header = fmt.Sprintf("Contractions, session of %s", formatDateTime(s.CreatedAt))
	}
	title := titleStyle.Render(header)

	if m.logsLoading {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("Loading...")))
	}

	logs := m.tracker.SelectedLogs
	if len(logs) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("No contractions recorded yet."),
			"", mutedStyle.Render("  esc: back"),
		))
	}

	var rows []string
	rows = append(rows, title, "")

	if st, ok := track.ComputeStats(logs); ok {
		line := fmt.Sprintf("  %d contractions   avg duration %s", st.Total, formatSeconds(st.AvgDurationSeconds))
		if st.HasInterval {
			line += fmt.Sprintf("   avg interval %s", formatSeconds(st.AvgIntervalSeconds))
		}
		rows = append(rows, highlightStyle.Render(line), "")
	}

	rows = append(rows, m.chart.View(), "")

	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-4s %-10s %-10s %-10s", "#", "Start", "Duration", "Interval")))
	for i, l := range logs {
		cursor := "  "
		style := normalItemStyle
		if i == m.logCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		interval := "-"
		if gap, ok := track.Interval(logs, i); ok {
			interval = formatSeconds(gap)
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%-4d %-10s %-10s %-10s",
			cursor, i+1, formatClock(l.StartedAt), formatSeconds(l.Duration), interval)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  d: delete contraction  esc: back"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
