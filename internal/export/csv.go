package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/fastr/internal/fasting"
)

// ToCSV writes the session collection to a CSV file at path.
func ToCSV(sessions []fasting.Session, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	// Header
	header := []string{"ID", "Protocol", "Status", "Start", "End", "Target (min)", "Actual (min)", "Paused (min)", "Notes"}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, s := range sessions {
		endStr := ""
		if s.EndTime != nil {
			endStr = s.EndTime.Local().Format(time.RFC3339)
		}

		row := []string{
			s.ID,
			string(s.Protocol),
			string(s.Status),
			s.StartTime.Local().Format(time.RFC3339),
			endStr,
			fmt.Sprintf("%d", s.TargetDuration),
			fmt.Sprintf("%d", s.ActualDuration),
			fmt.Sprintf("%d", s.PausedDuration),
			s.Notes,
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	return w.Error()
}
