package track

import (
	"math"
	"testing"
	"time"

	"github.com/saman-rajabii/baby-health-app/internal/api"
)

var kickStart = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func activeKickSession(id string, period int) api.KickCounter {
	return api.KickCounter{
		ID:        id,
		StartedAt: kickStart,
		Period:    period,
		IsActive:  true,
	}
}

// ============================================================
// Timer derivation
// ============================================================

func TestDeriveKickTimerExact(t *testing.T) {
	// period=2h, 61 minutes in: elapsed 3,660,000ms of 7,200,000ms.
	s := activeKickSession("k1", 2)
	now := kickStart.Add(61 * time.Minute)

	ts := DeriveKickTimer(s, now)
	if ts.Remaining != 59*time.Minute {
		t.Fatalf("remaining = %v, want 59m", ts.Remaining)
	}
	if ts.ElapsedMinutes != 61 {
		t.Fatalf("elapsed minutes = %d, want 61", ts.ElapsedMinutes)
	}
	want := 3660000.0 / 7200000.0 * 100
	if math.Abs(ts.Percent-want) > 0.001 {
		t.Fatalf("percent = %v, want %v", ts.Percent, want)
	}
}

func TestDeriveKickTimerClampsRemaining(t *testing.T) {
	s := activeKickSession("k1", 1)
	now := kickStart.Add(90 * time.Minute)

	ts := DeriveKickTimer(s, now)
	if ts.Remaining != 0 {
		t.Fatalf("remaining should clamp to 0, got %v", ts.Remaining)
	}
	if ts.Percent != 100 {
		t.Fatalf("percent should clamp to 100, got %v", ts.Percent)
	}
}

func TestDeriveKickTimerNonIncreasing(t *testing.T) {
	for _, period := range []int{1, 2, 12, 24} {
		s := activeKickSession("k1", period)
		prev := DeriveKickTimer(s, kickStart).Remaining
		for minutes := 10; minutes <= period*60+30; minutes += 10 {
			cur := DeriveKickTimer(s, kickStart.Add(time.Duration(minutes)*time.Minute)).Remaining
			if cur > prev {
				t.Fatalf("period=%d: remaining grew from %v to %v at %dmin", period, prev, cur, minutes)
			}
			if cur < 0 {
				t.Fatalf("period=%d: remaining went negative: %v", period, cur)
			}
			prev = cur
		}
	}
}

func TestDeriveKickTimerAtStart(t *testing.T) {
	s := activeKickSession("k1", 2)
	ts := DeriveKickTimer(s, kickStart)
	if ts.Remaining != 2*time.Hour {
		t.Fatalf("remaining = %v", ts.Remaining)
	}
	if ts.Percent != 0 {
		t.Fatalf("percent = %v", ts.Percent)
	}
	if ts.ElapsedMinutes != 0 {
		t.Fatalf("elapsed minutes = %d", ts.ElapsedMinutes)
	}
}

// ============================================================
// Record guard
// ============================================================

func TestCanRecordWithinPeriod(t *testing.T) {
	tr := NewKickTracker()
	tr.SetSessions([]api.KickCounter{activeKickSession("k1", 2)})

	if !tr.CanRecord("k1", kickStart.Add(time.Hour)) {
		t.Fatal("should allow recording inside the period")
	}
}

func TestCanRecordAfterPeriodEnds(t *testing.T) {
	tr := NewKickTracker()
	tr.SetSessions([]api.KickCounter{activeKickSession("k1", 2)})

	if tr.CanRecord("k1", kickStart.Add(2*time.Hour)) {
		t.Fatal("should refuse recording once remaining hits zero")
	}
}

func TestCanRecordInactiveSession(t *testing.T) {
	tr := NewKickTracker()
	s := activeKickSession("k1", 2)
	s.IsActive = false
	tr.SetSessions([]api.KickCounter{s})

	if tr.CanRecord("k1", kickStart.Add(time.Minute)) {
		t.Fatal("should refuse recording on a finished session")
	}
}

func TestCanRecordUnknownSession(t *testing.T) {
	tr := NewKickTracker()
	if tr.CanRecord("nope", kickStart) {
		t.Fatal("unknown session should refuse recording")
	}
}

// ============================================================
// Reconciliation
// ============================================================

func TestApplyCreateNormalizesAndPrepends(t *testing.T) {
	tr := NewKickTracker()
	tr.SetSessions([]api.KickCounter{activeKickSession("old", 2)})

	finished := kickStart.Add(time.Hour)
	echoed := api.KickCounter{ID: "new", StartedAt: kickStart, FinishedAt: &finished, KickCount: 7, IsActive: false}
	tr.ApplyCreate(echoed, 3)

	if len(tr.Sessions) != 2 {
		t.Fatalf("sessions = %d", len(tr.Sessions))
	}
	got := tr.Sessions[0]
	if got.ID != "new" {
		t.Fatal("new session should be prepended")
	}
	if got.FinishedAt != nil || !got.IsActive || got.KickCount != 0 || got.Period != 3 {
		t.Fatalf("new session not normalized: %+v", got)
	}
}

func TestApplyKickIncrementsByOne(t *testing.T) {
	tr := NewKickTracker()
	tr.SetSessions([]api.KickCounter{activeKickSession("k1", 2)})

	tr.ApplyKick("k1")
	tr.ApplyKick("k1")
	if tr.Session("k1").KickCount != 2 {
		t.Fatalf("count = %d, want 2", tr.Session("k1").KickCount)
	}
}

func TestApplyKickUnknownIDIsNoop(t *testing.T) {
	tr := NewKickTracker()
	tr.SetSessions([]api.KickCounter{activeKickSession("k1", 2)})

	tr.ApplyKick("deleted-meanwhile")
	if tr.Session("k1").KickCount != 0 {
		t.Fatal("unrelated session should be untouched")
	}
	if len(tr.Sessions) != 1 {
		t.Fatal("late response must not re-insert a session")
	}
}

func TestApplyFinishOverwritesWholesale(t *testing.T) {
	tr := NewKickTracker()
	s := activeKickSession("k1", 2)
	s.KickCount = 5
	tr.SetSessions([]api.KickCounter{s})

	finished := kickStart.Add(2 * time.Hour)
	tr.ApplyFinish(api.KickCounter{ID: "k1", StartedAt: kickStart, FinishedAt: &finished, KickCount: 9, Period: 2, IsActive: false})

	got := tr.Session("k1")
	if got.IsActive || got.FinishedAt == nil {
		t.Fatalf("session should be finished: %+v", got)
	}
	if got.KickCount != 9 {
		t.Fatalf("server count wins, got %d", got.KickCount)
	}
}

func TestApplyFinishUnknownIDIsNoop(t *testing.T) {
	tr := NewKickTracker()
	tr.SetSessions([]api.KickCounter{activeKickSession("k1", 2)})

	tr.ApplyFinish(api.KickCounter{ID: "gone", IsActive: false})
	if len(tr.Sessions) != 1 || tr.Sessions[0].ID != "k1" {
		t.Fatal("finish for a deleted session must be a no-op")
	}
}

func TestApplyDelete(t *testing.T) {
	tr := NewKickTracker()
	tr.SetSessions([]api.KickCounter{activeKickSession("k1", 2), activeKickSession("k2", 2)})

	tr.ApplyDelete("k1")
	if len(tr.Sessions) != 1 || tr.Sessions[0].ID != "k2" {
		t.Fatalf("sessions = %+v", tr.Sessions)
	}

	// Deleting again is a no-op.
	tr.ApplyDelete("k1")
	if len(tr.Sessions) != 1 {
		t.Fatal("second delete should change nothing")
	}
}

func TestApplyDeleteClearsSelectedLogs(t *testing.T) {
	tr := NewKickTracker()
	tr.SetSessions([]api.KickCounter{activeKickSession("k1", 2)})
	tr.SetLogs("k1", []api.KickLog{{ID: "l1", CounterID: "k1"}})

	tr.ApplyDelete("k1")
	if tr.SelectedID != "" || tr.SelectedLogs != nil {
		t.Fatal("deleting the inspected session should clear its logs view")
	}
}

func TestSetLogsReplacesWholesale(t *testing.T) {
	tr := NewKickTracker()
	tr.SetLogs("k1", []api.KickLog{{ID: "a"}, {ID: "b"}})
	tr.SetLogs("k1", []api.KickLog{{ID: "c"}})

	if len(tr.SelectedLogs) != 1 || tr.SelectedLogs[0].ID != "c" {
		t.Fatalf("logs = %+v", tr.SelectedLogs)
	}
}

func TestApplyDeleteLogDecrementsCount(t *testing.T) {
	tr := NewKickTracker()
	s := activeKickSession("k1", 2)
	s.KickCount = 2
	tr.SetSessions([]api.KickCounter{s})
	tr.SetLogs("k1", []api.KickLog{{ID: "l1", CounterID: "k1"}, {ID: "l2", CounterID: "k1"}})

	tr.ApplyDeleteLog("l1")

	if len(tr.SelectedLogs) != 1 || tr.SelectedLogs[0].ID != "l2" {
		t.Fatalf("logs = %+v", tr.SelectedLogs)
	}
	if tr.Session("k1").KickCount != 1 {
		t.Fatalf("count = %d, want 1", tr.Session("k1").KickCount)
	}
}

func TestApplyDeleteLogFloorsAtZero(t *testing.T) {
	tr := NewKickTracker()
	s := activeKickSession("k1", 2)
	s.KickCount = 0 // drifted: a log exists but the count is already zero
	tr.SetSessions([]api.KickCounter{s})
	tr.SetLogs("k1", []api.KickLog{{ID: "l1", CounterID: "k1"}})

	tr.ApplyDeleteLog("l1")
	if tr.Session("k1").KickCount != 0 {
		t.Fatalf("count must not go below zero, got %d", tr.Session("k1").KickCount)
	}
}

func TestApplyDeleteLogUnknownIDIsNoop(t *testing.T) {
	tr := NewKickTracker()
	s := activeKickSession("k1", 2)
	s.KickCount = 3
	tr.SetSessions([]api.KickCounter{s})
	tr.SetLogs("k1", []api.KickLog{{ID: "l1", CounterID: "k1"}})

	tr.ApplyDeleteLog("other")
	if len(tr.SelectedLogs) != 1 {
		t.Fatal("log list should be untouched")
	}
	if tr.Session("k1").KickCount != 3 {
		t.Fatal("count should be untouched when nothing was removed")
	}
}

// ============================================================
// In-flight guard
// ============================================================

func TestInFlightGuard(t *testing.T) {
	tr := NewKickTracker()

	if !tr.Begin("k1") {
		t.Fatal("first Begin should succeed")
	}
	if tr.Begin("k1") {
		t.Fatal("second Begin while outstanding should be refused")
	}
	if !tr.Begin("k2") {
		t.Fatal("other sessions are independent")
	}

	tr.End("k1")
	if !tr.Begin("k1") {
		t.Fatal("Begin should succeed again after End")
	}
}
