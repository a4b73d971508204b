package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/saman-rajabii/baby-health-app/internal/api"
)

func ToCSV(kicks []api.KickCounter, contractions []api.ContractionCounter, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	if err := w.Write([]string{"Kind", "ID", "Started", "Ended", "Status", "Period (h)", "Events"}); err != nil {
		return err
	}

	for _, k := range kicks {
		status := "active"
		endStr := ""
		if k.FinishedAt != nil {
			status = "finished"
			endStr = k.FinishedAt.Local().Format(time.RFC3339)
		}
		row := []string{
			"kick",
			k.ID,
			k.StartedAt.Local().Format(time.RFC3339),
			endStr,
			status,
			fmt.Sprintf("%d", k.Period),
			fmt.Sprintf("%d", k.KickCount),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	for _, c := range contractions {
		endStr := ""
		if !c.Active() {
			endStr = c.UpdatedAt.Local().Format(time.RFC3339)
		}
		row := []string{
			"contraction",
			c.ID,
			c.CreatedAt.Local().Format(time.RFC3339),
			endStr,
			c.Status,
			"",
			fmt.Sprintf("%d", len(c.ContractionLogs)),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
