package track

import (
	"time"

	"github.com/saman-rajabii/baby-health-app/internal/api"
)

// TimerState is derived from a kick session's persisted instants on every
// tick. It is never stored; the wall clock at tick time is the only input
// besides the session itself, so the display stays honest after the
// terminal was backgrounded for a while.
type TimerState struct {
	Elapsed        time.Duration
	ElapsedMinutes int
	Remaining      time.Duration // clamped at zero
	Percent        float64       // clamped at 100
}

// DeriveKickTimer recomputes the countdown for one session.
func DeriveKickTimer(c api.KickCounter, now time.Time) TimerState {
	elapsed := now.Sub(c.StartedAt)
	period := time.Duration(c.Period) * time.Hour

	remaining := period - elapsed
	if remaining < 0 {
		remaining = 0
	}

	percent := 0.0
	if period > 0 {
		percent = float64(elapsed) / float64(period) * 100
		if percent > 100 {
			percent = 100
		}
	}

	minutes := int(elapsed / time.Minute)
	if minutes < 0 {
		minutes = 0
	}

	return TimerState{
		Elapsed:        elapsed,
		ElapsedMinutes: minutes,
		Remaining:      remaining,
		Percent:        percent,
	}
}

// KickTracker is the local mirror of the server's kick sessions. The
// server is authoritative; every mutation here is applied only after the
// matching request succeeded, and all by-id operations are no-ops when
// the id has since disappeared (a late response after a delete must not
// resurrect anything).
type KickTracker struct {
	Sessions []api.KickCounter

	// Logs fetched for the session currently being inspected.
	SelectedID   string
	SelectedLogs []api.KickLog

	inflight map[string]bool
}

func NewKickTracker() *KickTracker {
	return &KickTracker{inflight: make(map[string]bool)}
}

func (t *KickTracker) SetSessions(sessions []api.KickCounter) {
	t.Sessions = sessions
}

func (t *KickTracker) Session(id string) *api.KickCounter {
	for i := range t.Sessions {
		if t.Sessions[i].ID == id {
			return &t.Sessions[i]
		}
	}
	return nil
}

// Begin marks a session as having an outstanding mutation. It returns
// false when one is already in flight, which the caller uses to swallow
// a double-press instead of firing a second request.
func (t *KickTracker) Begin(id string) bool {
	if t.inflight[id] {
		return false
	}
	t.inflight[id] = true
	return true
}

func (t *KickTracker) End(id string) {
	delete(t.inflight, id)
}

func (t *KickTracker) InFlight(id string) bool {
	return t.inflight[id]
}

// CanRecord reports whether a kick may be recorded for the session: it
// must exist, be active, and still be inside its period.
func (t *KickTracker) CanRecord(id string, now time.Time) bool {
	s := t.Session(id)
	if s == nil || !s.IsActive {
		return false
	}
	return DeriveKickTimer(*s, now).Remaining > 0
}

// ApplyCreate prepends a freshly created session. The server response is
// normalized the way a brand-new session must look regardless of what
// the backend echoed back.
func (t *KickTracker) ApplyCreate(c api.KickCounter, period int) {
	c.FinishedAt = nil
	c.IsActive = true
	c.KickCount = 0
	c.Period = period
	t.Sessions = append([]api.KickCounter{c}, t.Sessions...)
}

// ApplyKick bumps the local count by exactly one after the server
// acknowledged the log. The authoritative log list is not refetched here;
// the two views reconverge when the logs view is opened.
func (t *KickTracker) ApplyKick(id string) {
	if s := t.Session(id); s != nil {
		s.KickCount++
	}
}

// ApplyFinish replaces the local session with the server's returned
// representation wholesale.
func (t *KickTracker) ApplyFinish(updated api.KickCounter) {
	for i := range t.Sessions {
		if t.Sessions[i].ID == updated.ID {
			t.Sessions[i] = updated
			return
		}
	}
}

func (t *KickTracker) ApplyDelete(id string) {
	kept := t.Sessions[:0]
	for _, s := range t.Sessions {
		if s.ID != id {
			kept = append(kept, s)
		}
	}
	t.Sessions = kept
	if t.SelectedID == id {
		t.ClearLogs()
	}
}

// SetLogs replaces the selected log list wholesale with a fresh fetch.
func (t *KickTracker) SetLogs(counterID string, logs []api.KickLog) {
	t.SelectedID = counterID
	t.SelectedLogs = logs
}

func (t *KickTracker) ClearLogs() {
	t.SelectedID = ""
	t.SelectedLogs = nil
}

// ApplyDeleteLog removes the log from the selected list and decrements
// the owning session's count, floored at zero, keeping the two views
// consistent.
func (t *KickTracker) ApplyDeleteLog(logID string) {
	kept := t.SelectedLogs[:0]
	for _, l := range t.SelectedLogs {
		if l.ID != logID {
			kept = append(kept, l)
		}
	}
	if len(kept) == len(t.SelectedLogs) {
		return
	}
	t.SelectedLogs = kept

	if s := t.Session(t.SelectedID); s != nil && s.KickCount > 0 {
		s.KickCount--
	}
}
