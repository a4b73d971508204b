package track

import (
	"errors"
	"math"
	"time"

	"github.com/saman-rajabii/baby-health-app/internal/api"
)

// pressureRampSeconds is how long the gauge takes to reach 100%.
const pressureRampSeconds = 20

var (
	ErrRecordingActive = errors.New("a contraction is already being recorded")
	ErrNotRecording    = errors.New("no contraction is being recorded")
)

// Recording is the single in-progress contraction slot. SessionID may be
// empty for a quick recording, in which case the target session is
// resolved when the recording ends (first active session, or a new one).
type Recording struct {
	SessionID string
	StartedAt time.Time
}

// ContractionTracker mirrors the server's contraction sessions and owns
// the one recording slot. Every way of starting a contraction goes
// through BeginRecording, so two recordings can never overlap no matter
// which control triggered them.
type ContractionTracker struct {
	Sessions []api.ContractionCounter

	SelectedID   string
	SelectedLogs []api.ContractionLog

	recording *Recording
	inflight  map[string]bool
}

func NewContractionTracker() *ContractionTracker {
	return &ContractionTracker{inflight: make(map[string]bool)}
}

func (t *ContractionTracker) SetSessions(sessions []api.ContractionCounter) {
	t.Sessions = sessions
}

func (t *ContractionTracker) Session(id string) *api.ContractionCounter {
	for i := range t.Sessions {
		if t.Sessions[i].ID == id {
			return &t.Sessions[i]
		}
	}
	return nil
}

// FirstActive returns the first active session, or nil. Tie-break across
// multiple active sessions is list order.
func (t *ContractionTracker) FirstActive() *api.ContractionCounter {
	for i := range t.Sessions {
		if t.Sessions[i].Active() {
			return &t.Sessions[i]
		}
	}
	return nil
}

func (t *ContractionTracker) Begin(id string) bool {
	if t.inflight[id] {
		return false
	}
	t.inflight[id] = true
	return true
}

func (t *ContractionTracker) End(id string) {
	delete(t.inflight, id)
}

func (t *ContractionTracker) InFlight(id string) bool {
	return t.inflight[id]
}

// BeginRecording opens the recording slot. sessionID may be empty for a
// quick recording.
func (t *ContractionTracker) BeginRecording(sessionID string, now time.Time) error {
	if t.recording != nil {
		return ErrRecordingActive
	}
	t.recording = &Recording{SessionID: sessionID, StartedAt: now}
	return nil
}

// EndRecording closes the slot and returns it together with the duration
// in whole seconds. The slot is cleared unconditionally, so a failed
// log-create afterwards can never leave a stuck recording.
func (t *ContractionTracker) EndRecording(now time.Time) (Recording, int, error) {
	if t.recording == nil {
		return Recording{}, 0, ErrNotRecording
	}
	rec := *t.recording
	t.recording = nil
	return rec, DurationSeconds(rec.StartedAt, now), nil
}

// CancelRecording drops the slot without producing a log.
func (t *ContractionTracker) CancelRecording() {
	t.recording = nil
}

func (t *ContractionTracker) Recording() (Recording, bool) {
	if t.recording == nil {
		return Recording{}, false
	}
	return *t.recording, true
}

// RecordingFor reports whether the in-progress contraction belongs to
// the given session.
func (t *ContractionTracker) RecordingFor(sessionID string) bool {
	return t.recording != nil && t.recording.SessionID == sessionID
}

// ElapsedSeconds is the age of the in-progress contraction in whole
// seconds, zero when idle.
func (t *ContractionTracker) ElapsedSeconds(now time.Time) int {
	if t.recording == nil {
		return 0
	}
	return DurationSeconds(t.recording.StartedAt, now)
}

// Pressure is the cosmetic gauge level in [0,100] while recording.
func (t *ContractionTracker) Pressure(now time.Time) float64 {
	if t.recording == nil {
		return 0
	}
	level := float64(t.ElapsedSeconds(now)) / pressureRampSeconds * 100
	if level > 100 {
		level = 100
	}
	return level
}

func (t *ContractionTracker) ApplyCreate(c api.ContractionCounter) {
	t.Sessions = append([]api.ContractionCounter{c}, t.Sessions...)
}

// ApplyLog appends a server-confirmed log to its owning session's
// embedded list. No-op when the session is gone.
func (t *ContractionTracker) ApplyLog(log api.ContractionLog) {
	if s := t.Session(log.CounterID); s != nil {
		s.ContractionLogs = append(s.ContractionLogs, log)
	}
}

// ApplyClose replaces the local session with the server's returned
// representation wholesale.
func (t *ContractionTracker) ApplyClose(updated api.ContractionCounter) {
	for i := range t.Sessions {
		if t.Sessions[i].ID == updated.ID {
			t.Sessions[i] = updated
			return
		}
	}
}

func (t *ContractionTracker) ApplyDelete(id string) {
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

func (t *ContractionTracker) SetLogs(counterID string, logs []api.ContractionLog) {
	t.SelectedID = counterID
	t.SelectedLogs = logs
}

func (t *ContractionTracker) ClearLogs() {
	t.SelectedID = ""
	t.SelectedLogs = nil
}

// ApplyDeleteLog removes the log from the selected list and from the
// owning session's embedded list. The displayed count is the list
// length, so no separate counter needs adjusting.
func (t *ContractionTracker) ApplyDeleteLog(logID string) {
	kept := t.SelectedLogs[:0]
	for _, l := range t.SelectedLogs {
		if l.ID != logID {
			kept = append(kept, l)
		}
	}
	t.SelectedLogs = kept

	if s := t.Session(t.SelectedID); s != nil {
		logs := s.ContractionLogs[:0]
		for _, l := range s.ContractionLogs {
			if l.ID != logID {
				logs = append(logs, l)
			}
		}
		s.ContractionLogs = logs
	}
}

// DurationSeconds is floor((end-start)/1s), never negative.
func DurationSeconds(start, end time.Time) int {
	secs := int(end.Sub(start) / time.Second)
	if secs < 0 {
		return 0
	}
	return secs
}

// Interval is the gap between a log and its predecessor in whole
// seconds. ok is false at index 0 (the first contraction has nothing to
// measure against) and for out-of-range indexes.
func Interval(logs []api.ContractionLog, index int) (int, bool) {
	if index <= 0 || index >= len(logs) {
		return 0, false
	}
	return DurationSeconds(logs[index-1].EndedAt, logs[index].StartedAt), true
}

// Stats are the aggregate numbers shown above the log table.
type Stats struct {
	Total              int
	AvgDurationSeconds int
	AvgIntervalSeconds int
	HasInterval        bool // false with fewer than two logs
}

func ComputeStats(logs []api.ContractionLog) (Stats, bool) {
	if len(logs) == 0 {
		return Stats{}, false
	}

	durationSum := 0
	for _, l := range logs {
		durationSum += l.Duration
	}

	st := Stats{
		Total:              len(logs),
		AvgDurationSeconds: int(math.Round(float64(durationSum) / float64(len(logs)))),
	}

	if len(logs) >= 2 {
		var gapSum time.Duration
		for i := 1; i < len(logs); i++ {
			gapSum += logs[i].StartedAt.Sub(logs[i-1].EndedAt)
		}
		mean := float64(gapSum) / float64(len(logs)-1)
		st.AvgIntervalSeconds = int(math.Round(mean / float64(time.Second)))
		st.HasInterval = true
	}

	return st, true
}
