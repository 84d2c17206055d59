package tui

import (
	"strings"
	"testing"

	"github.com/sadopc/fastr/internal/fasting"
)

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		secs int
		want string
	}{
		{0, "00:00:00"},
		{59, "00:00:59"},
		{61, "00:01:01"},
		{3600, "01:00:00"},
		{16*3600 + 30*60 + 5, "16:30:05"},
		{-10, "00:00:00"}, // clamped
	}
	for _, tt := range tests {
		if got := formatSeconds(tt.secs); got != tt.want {
			t.Errorf("formatSeconds(%d) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestFormatMinutes(t *testing.T) {
	tests := []struct {
		mins int
		want string
	}{
		{0, "0h 00m"},
		{90, "1h 30m"},
		{960, "16h 00m"},
		{965, "16h 05m"},
	}
	for _, tt := range tests {
		if got := formatMinutes(tt.mins); got != tt.want {
			t.Errorf("formatMinutes(%d) = %q, want %q", tt.mins, got, tt.want)
		}
	}
}

func TestFormatHoursFrac(t *testing.T) {
	tests := []struct {
		hours float64
		want  string
	}{
		{0, "0h 00m"},
		{1.5, "1h 30m"},
		{16.25, "16h 15m"},
	}
	for _, tt := range tests {
		if got := formatHoursFrac(tt.hours); got != tt.want {
			t.Errorf("formatHoursFrac(%v) = %q, want %q", tt.hours, got, tt.want)
		}
	}
}

func TestJoinParseIntsRoundTrip(t *testing.T) {
	values := []int{12, 16, 20}
	joined := joinInts(values)
	if joined != "12,16,20" {
		t.Fatalf("joinInts = %q, want 12,16,20", joined)
	}

	parsed := parseInts(joined, nil)
	if len(parsed) != 3 || parsed[0] != 12 || parsed[2] != 20 {
		t.Errorf("parseInts = %v, want %v", parsed, values)
	}
}

func TestParseIntsToleratesSpacesAndBlanks(t *testing.T) {
	got := parseInts(" 8 , 16 ,, 24 ", nil)
	if len(got) != 3 || got[0] != 8 || got[1] != 16 || got[2] != 24 {
		t.Errorf("parseInts = %v, want [8 16 24]", got)
	}
}

func TestParseIntsFallsBackOnGarbage(t *testing.T) {
	fallback := []int{12, 16, 20}
	if got := parseInts("12,sixteen", fallback); len(got) != 3 || got[1] != 16 {
		t.Errorf("parseInts garbage = %v, want fallback %v", got, fallback)
	}
}

func TestProtocolIndex(t *testing.T) {
	if got := protocolIndex(fasting.OMAD); got != 3 {
		t.Errorf("protocolIndex(OMAD) = %d, want 3", got)
	}
	if got := protocolIndex(fasting.SixteenEight); got != 0 {
		t.Errorf("protocolIndex(16:8) = %d, want 0", got)
	}
	// Unknown protocols default to the first entry.
	if got := protocolIndex(fasting.Protocol("5:2")); got != 0 {
		t.Errorf("protocolIndex(unknown) = %d, want 0", got)
	}
}

func TestStatusBadgeLabels(t *testing.T) {
	tests := []struct {
		status fasting.Status
		want   string
	}{
		{fasting.StatusCompleted, "completed"},
		{fasting.StatusCancelled, "stopped"},
		{fasting.StatusActive, "active"},
		{fasting.StatusPaused, "paused"},
	}
	for _, tt := range tests {
		if got := statusBadge(tt.status); !strings.Contains(got, tt.want) {
			t.Errorf("statusBadge(%s) = %q, missing %q", tt.status, got, tt.want)
		}
	}
}

func TestViewNamesCoverAllViews(t *testing.T) {
	for v := viewTimer; v <= viewSettings; v++ {
		if viewNames[v] == "" {
			t.Errorf("no name for view %d", v)
		}
	}
}
