package export

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/sadopc/fastr/internal/fasting"
)

type jsonExport struct {
	ExportedAt string        `json:"exported_at"`
	Count      int           `json:"count"`
	Sessions   []jsonSession `json:"sessions"`
}

type jsonSession struct {
	ID         string `json:"id"`
	Protocol   string `json:"protocol"`
	Status     string `json:"status"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time,omitempty"`
	TargetMin  int    `json:"target_minutes"`
	ActualMin  int    `json:"actual_minutes"`
	PausedMin  int    `json:"paused_minutes"`
	FastedTime string `json:"fasted_time"`
	Notes      string `json:"notes,omitempty"`
}

// ToJSON writes the session collection to a JSON file at path.
func ToJSON(sessions []fasting.Session, path string) error {
	out := jsonExport{
		ExportedAt: time.Now().UTC().Format(time.RFC3339),
		Count:      len(sessions),
	}

	for _, s := range sessions {
		endStr := ""
		if s.EndTime != nil {
			endStr = s.EndTime.Local().Format(time.RFC3339)
		}

		out.Sessions = append(out.Sessions, jsonSession{
			ID:         s.ID,
			Protocol:   string(s.Protocol),
			Status:     string(s.Status),
			StartTime:  s.StartTime.Local().Format(time.RFC3339),
			EndTime:    endStr,
			TargetMin:  s.TargetDuration,
			ActualMin:  s.ActualDuration,
			PausedMin:  s.PausedDuration,
			FastedTime: formatMinutes(s.ActualDuration),
			Notes:      s.Notes,
		})
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

func formatMinutes(mins int) string {
	return fmt.Sprintf("%02d:%02d", mins/60, mins%60)
}
