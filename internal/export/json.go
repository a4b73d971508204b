package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/saman-rajabii/baby-health-app/internal/api"
)

type jsonExport struct {
	ExportedAt   string        `json:"exported_at"`
	KickCount    int           `json:"kick_session_count"`
	ContrCount   int           `json:"contraction_session_count"`
	Kicks        []jsonKick    `json:"kick_sessions"`
	Contractions []jsonSession `json:"contraction_sessions"`
}

type jsonKick struct {
	ID         string `json:"id"`
	StartedAt  string `json:"started_at"`
	FinishedAt string `json:"finished_at,omitempty"`
	PeriodH    int    `json:"period_hours"`
	KickCount  int    `json:"kick_count"`
	Active     bool   `json:"active"`
}

type jsonSession struct {
	ID        string            `json:"id"`
	CreatedAt string            `json:"created_at"`
	ClosedAt  string            `json:"closed_at,omitempty"`
	Status    string            `json:"status"`
	Logs      []jsonContraction `json:"logs,omitempty"`
}

type jsonContraction struct {
	StartedAt   string `json:"started_at"`
	EndedAt     string `json:"ended_at"`
	DurationSec int    `json:"duration_seconds"`
}

func ToJSON(kicks []api.KickCounter, contractions []api.ContractionCounter, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		KickCount:  len(kicks),
		ContrCount: len(contractions),
	}

	for _, k := range kicks {
		jk := jsonKick{
			ID:        k.ID,
			StartedAt: k.StartedAt.Local().Format(time.RFC3339),
			PeriodH:   k.Period,
			KickCount: k.KickCount,
			Active:    k.IsActive,
		}
		if k.FinishedAt != nil {
			jk.FinishedAt = k.FinishedAt.Local().Format(time.RFC3339)
		}
		out.Kicks = append(out.Kicks, jk)
	}

	for _, c := range contractions {
		js := jsonSession{
			ID:        c.ID,
			CreatedAt: c.CreatedAt.Local().Format(time.RFC3339),
			Status:    c.Status,
		}
		if !c.Active() {
			js.ClosedAt = c.UpdatedAt.Local().Format(time.RFC3339)
		}
		for _, l := range c.ContractionLogs {
			js.Logs = append(js.Logs, jsonContraction{
				StartedAt:   l.StartedAt.Local().Format(time.RFC3339),
				EndedAt:     l.EndedAt.Local().Format(time.RFC3339),
				DurationSec: l.Duration,
			})
		}
		out.Contractions = append(out.Contractions, js)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}
