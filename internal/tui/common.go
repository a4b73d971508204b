package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/saman-rajabii/baby-health-app/internal/api"
)

// viewState represents the currently active view.
type viewState int

const (
	viewKicks viewState = iota
	viewContractions
	viewAccount
)

var viewNames = []string{"Kicks", "Contractions", "Account"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

// unauthorizedMsg is raised whenever the backend answered 401. The root
// model clears the saved credentials and falls back to the sign-in view.
type unauthorizedMsg struct{}

// requestFailedMsg carries any other failed request. sessionID releases
// the in-flight guard for the session the mutation targeted, when any.
type requestFailedMsg struct {
	scope     viewState
	sessionID string
	err       error
}

type signedInMsg struct {
	token string
	user  api.User
}

type signedUpMsg struct {
	email string
}

type loggedOutMsg struct{}

type kickSessionsMsg []api.KickCounter

type kickCreatedMsg struct {
	counter api.KickCounter
	period  int
}

type kickRecordedMsg struct {
	counterID string
}

type kickFinishedMsg struct {
	counter api.KickCounter
}

type kickDeletedMsg struct {
	counterID string
}

type kickLogsMsg struct {
	counterID string
	logs      []api.KickLog
}

type kickLogDeletedMsg struct {
	counterID string
	logID     string
}

type contractionSessionsMsg []api.ContractionCounter

type contractionCreatedMsg struct {
	counter api.ContractionCounter
}

type contractionLoggedMsg struct {
	sessionID string
	log       api.ContractionLog
}

// quickRecordedMsg is the outcome of a quick recording's release path:
// optionally a freshly created session, then the log, or the error that
// stopped it. The created session is applied before the log is.
type quickRecordedMsg struct {
	created *api.ContractionCounter
	log     *api.ContractionLog
	err     error
}

type contractionClosedMsg struct {
	counter api.ContractionCounter
}

type contractionDeletedMsg struct {
	counterID string
}

type contractionLogsMsg struct {
	counterID string
	logs      []api.ContractionLog
}

type contractionLogDeletedMsg struct {
	counterID string
	logID     string
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

// formatSeconds renders short durations the way the log tables show
// them: "45 sec" under a minute, "2m 5s" above.
func formatSeconds(secs int) string {
	if secs < 60 {
		return fmt.Sprintf("%d sec", secs)
	}
	return fmt.Sprintf("%dm %ds", secs/60, secs%60)
}

// formatSince renders how long ago start was, in minutes or h/m.
func formatSince(start time.Time, end time.Time) string {
	minutes := int(end.Sub(start) / time.Minute)
	if minutes < 0 {
		minutes = 0
	}
	if minutes < 60 {
		return fmt.Sprintf("%d min", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

func formatDateTime(t time.Time) string {
	return t.Local().Format("Jan 02 15:04")
}

func formatClock(t time.Time) string {
	return t.Local().Format("15:04:05")
}

// progressBar renders a plain block bar; callers style it.
func progressBar(width int, percent float64) string {
	if width < 1 {
		width = 1
	}
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := int(float64(width) * percent / 100)
	if filled > width {
		filled = width
	}
	return strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
