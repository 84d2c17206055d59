package tui

import (
	"fmt"
	"time"

	"github.com/sadopc/fastr/internal/fasting"
)

// viewState represents the currently active view.
type viewState int

const (
	viewTimer viewState = iota
	viewHistory
	viewStats
	viewSettings
)

var viewNames = []string{"Timer", "History", "Stats", "Settings"}

// --- Messages ---

type tickMsg time.Time

type statusMsg struct {
	text    string
	isError bool
}

type historyDataMsg struct {
	sessions []fasting.Session
}

type statsDataMsg struct {
	stats    fasting.Stats
	sessions []fasting.Session
	prefs    fasting.Preferences
}

type settingsDataMsg struct {
	prefs fasting.Preferences
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func formatSeconds(secs int) string {
	if secs < 0 {
		secs = 0
	}
	h := secs / 3600
	m := (secs % 3600) / 60
	s := secs % 60
	return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
}

func formatMinutes(mins int) string {
	return fmt.Sprintf("%dh %02dm", mins/60, mins%60)
}

func formatHoursFrac(hours float64) string {
	d := time.Duration(hours * float64(time.Hour))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %02dm", h, m)
}
