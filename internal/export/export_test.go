package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/saman-rajabii/baby-health-app/internal/api"
)

func sampleData() ([]api.KickCounter, []api.ContractionCounter) {
	now := time.Now().UTC()
	finished := now.Add(-time.Hour)

	kicks := []api.KickCounter{
		{
			ID:        "k1",
			StartedAt: now.Add(-3 * time.Hour),
			Period:    2,
			KickCount: 12,
			IsActive:  true,
		},
		{
			ID:         "k2",
			StartedAt:  now.Add(-5 * time.Hour),
			FinishedAt: &finished,
			Period:     1,
			KickCount:  8,
			IsActive:   false,
		},
	}

	contractions := []api.ContractionCounter{
		{
			ID:        "c1",
			Status:    api.ContractionActive,
			CreatedAt: now.Add(-30 * time.Minute),
			ContractionLogs: []api.ContractionLog{
				{StartedAt: now.Add(-20 * time.Minute), EndedAt: now.Add(-19 * time.Minute), Duration: 60},
				{StartedAt: now.Add(-10 * time.Minute), EndedAt: now.Add(-9 * time.Minute), Duration: 55},
			},
		},
		{
			ID:        "c2",
			Status:    api.ContractionClosed,
			CreatedAt: now.Add(-2 * time.Hour),
			UpdatedAt: now.Add(-time.Hour),
		},
	}

	return kicks, contractions
}

// ============================================================
// CSV
// ============================================================

func TestToCSV(t *testing.T) {
	kicks, contractions := sampleData()
	path := filepath.Join(t.TempDir(), "export.csv")

	if err := ToCSV(kicks, contractions, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}

	// Header + 2 kick sessions + 2 contraction sessions
	if len(rows) != 5 {
		t.Fatalf("rows = %d, want 5", len(rows))
	}
	if rows[0][0] != "Kind" {
		t.Fatalf("header = %v", rows[0])
	}
	if rows[1][0] != "kick" || rows[1][1] != "k1" || rows[1][4] != "active" {
		t.Fatalf("kick row = %v", rows[1])
	}
	if rows[2][4] != "finished" {
		t.Fatalf("finished kick row = %v", rows[2])
	}
	if rows[3][0] != "contraction" || rows[3][6] != "2" {
		t.Fatalf("contraction row = %v", rows[3])
	}
	if rows[4][4] != "closed" || rows[4][3] == "" {
		t.Fatalf("closed contraction row = %v", rows[4])
	}
}

func TestToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := ToCSV(nil, nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("empty export should only have the header, got %d rows", len(rows))
	}
}

func TestToCSVBadPath(t *testing.T) {
	kicks, contractions := sampleData()
	if err := ToCSV(kicks, contractions, filepath.Join(t.TempDir(), "missing", "export.csv")); err == nil {
		t.Fatal("unwritable path should error")
	}
}

// ============================================================
// JSON
// ============================================================

func TestToJSON(t *testing.T) {
	kicks, contractions := sampleData()
	path := filepath.Join(t.TempDir(), "export.json")

	if err := ToJSON(kicks, contractions, path); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	var out jsonExport
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatal(err)
	}

	if out.KickCount != 2 || out.ContrCount != 2 {
		t.Fatalf("counts = %d/%d", out.KickCount, out.ContrCount)
	}
	if len(out.Kicks) != 2 || len(out.Contractions) != 2 {
		t.Fatalf("sections = %d/%d", len(out.Kicks), len(out.Contractions))
	}
	if out.Kicks[0].ID != "k1" || !out.Kicks[0].Active || out.Kicks[0].FinishedAt != "" {
		t.Fatalf("kick[0] = %+v", out.Kicks[0])
	}
	if out.Kicks[1].FinishedAt == "" {
		t.Fatal("finished session should carry finished_at")
	}
	if len(out.Contractions[0].Logs) != 2 {
		t.Fatalf("contraction logs = %d", len(out.Contractions[0].Logs))
	}
	if out.Contractions[0].Logs[0].DurationSec != 60 {
		t.Fatalf("log duration = %d", out.Contractions[0].Logs[0].DurationSec)
	}
	if out.Contractions[1].ClosedAt == "" {
		t.Fatal("closed session should carry closed_at")
	}
	if out.ExportedAt == "" {
		t.Fatal("exported_at missing")
	}
}

func TestToJSONBadPath(t *testing.T) {
	kicks, contractions := sampleData()
	if err := ToJSON(kicks, contractions, filepath.Join(t.TempDir(), "missing", "export.json")); err == nil {
		t.Fatal("unwritable path should error")
	}
}
