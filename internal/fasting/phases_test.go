package fasting

import (
	"math"
	"testing"
)

// ============================================================
// Phase lookup
// ============================================================

func TestCurrentPhaseBoundaries(t *testing.T) {
	tests := []struct {
		hours float64
		want  Phase
	}{
		{0, PhaseDigestion},
		{2, PhaseDigestion},
		{3.99, PhaseDigestion},
		{4, PhaseGlycogenDepletion}, // inclusive start, exclusive end
		{8, PhaseGlycogenDepletion},
		{11.99, PhaseGlycogenDepletion},
		{12, PhaseFatBurning},
		{15, PhaseFatBurning},
		{18, PhaseKetosis},
		{23.5, PhaseKetosis},
		{24, PhaseAutophagy},
		{48, PhaseAutophagy},
		{71.99, PhaseAutophagy},
		{72, PhaseAutophagy},  // past the table still resolves to the last phase
		{100, PhaseAutophagy},
	}

	for _, tt := range tests {
		got := CurrentPhase(tt.hours)
		if got.Phase != tt.want {
			t.Errorf("CurrentPhase(%v) = %s, want %s", tt.hours, got.Phase, tt.want)
		}
	}
}

func TestPhaseTableCoversContiguously(t *testing.T) {
	for i := 1; i < len(Phases); i++ {
		if Phases[i].StartHour != Phases[i-1].EndHour {
			t.Errorf("gap between %s and %s: %v != %v",
				Phases[i-1].Phase, Phases[i].Phase, Phases[i-1].EndHour, Phases[i].StartHour)
		}
	}
	if Phases[0].StartHour != 0 {
		t.Error("table should start at hour 0")
	}
}

func TestNextPhase(t *testing.T) {
	tests := []struct {
		hours float64
		want  Phase
	}{
		{0, PhaseGlycogenDepletion},
		{4, PhaseFatBurning},
		{12, PhaseKetosis},
		{18, PhaseAutophagy},
	}

	for _, tt := range tests {
		got := NextPhase(tt.hours)
		if got == nil {
			t.Fatalf("NextPhase(%v) = nil, want %s", tt.hours, tt.want)
		}
		if got.Phase != tt.want {
			t.Errorf("NextPhase(%v) = %s, want %s", tt.hours, got.Phase, tt.want)
		}
	}
}

func TestNextPhaseInLastPhase(t *testing.T) {
	if got := NextPhase(30); got != nil {
		t.Errorf("NextPhase(30) = %s, want nil", got.Phase)
	}
	if got := NextPhase(100); got != nil {
		t.Errorf("NextPhase(100) = %s, want nil", got.Phase)
	}
}

// ============================================================
// Phase progress
// ============================================================

func TestPhaseProgressBounds(t *testing.T) {
	for h := 0.0; h <= 80; h += 0.25 {
		p := PhaseProgress(h)
		if p < 0 || p > 1 {
			t.Fatalf("PhaseProgress(%v) = %v, out of [0,1]", h, p)
		}
	}
}

func TestPhaseProgressMonotoneWithinPhase(t *testing.T) {
	// Within fat burning [12,18)
	prev := -1.0
	for h := 12.0; h < 18; h += 0.5 {
		p := PhaseProgress(h)
		if p < prev {
			t.Fatalf("progress decreased within phase at %vh: %v < %v", h, p, prev)
		}
		prev = p
	}
}

func TestPhaseProgressResetsAtBoundary(t *testing.T) {
	before := PhaseProgress(11.9) // near end of glycogen depletion
	after := PhaseProgress(12.0)  // start of fat burning
	if before < 0.9 {
		t.Fatalf("expected progress near 1 just before boundary, got %v", before)
	}
	if after != 0 {
		t.Fatalf("expected progress 0 at phase start, got %v", after)
	}
}

func TestPhaseProgressMidphase(t *testing.T) {
	// Halfway through ketosis [18,24)
	got := PhaseProgress(21)
	if math.Abs(got-0.5) > 1e-9 {
		t.Errorf("PhaseProgress(21) = %v, want 0.5", got)
	}
}

func TestPhaseProgressClampsPastTable(t *testing.T) {
	if got := PhaseProgress(100); got != 1 {
		t.Errorf("PhaseProgress(100) = %v, want 1", got)
	}
}

// ============================================================
// Time to next phase
// ============================================================

func TestTimeToNextPhase(t *testing.T) {
	tests := []struct {
		hours float64
		want  float64
	}{
		{0, 4},
		{3, 1},
		{4, 8},
		{17.5, 0.5},
		{30, 0}, // last phase
	}

	for _, tt := range tests {
		got := TimeToNextPhase(tt.hours)
		if math.Abs(got-tt.want) > 1e-9 {
			t.Errorf("TimeToNextPhase(%v) = %v, want %v", tt.hours, got, tt.want)
		}
	}
}

// ============================================================
// Protocols
// ============================================================

func TestProtocolDurations(t *testing.T) {
	tests := []struct {
		protocol Protocol
		want     int
	}{
		{SixteenEight, 960},
		{EighteenSix, 1080},
		{TwentyFour, 1200},
		{OMAD, 1380},
	}

	for _, tt := range tests {
		if got := ProtocolDurations[tt.protocol]; got != tt.want {
			t.Errorf("duration of %s = %d, want %d", tt.protocol, got, tt.want)
		}
	}
}

func TestProtocolValid(t *testing.T) {
	for _, p := range Protocols {
		if !p.Valid() {
			t.Errorf("%s should be valid", p)
		}
	}
	if Protocol("5:2").Valid() {
		t.Error("unknown protocol should not be valid")
	}
}

func TestMotivationalMessageCoversAllPhases(t *testing.T) {
	for _, cfg := range Phases {
		if MotivationalMessage(cfg.Phase) == "" {
			t.Errorf("no message for phase %s", cfg.Phase)
		}
	}
	if MotivationalMessage(Phase("unknown")) == "" {
		t.Error("unknown phase should fall back to a generic message")
	}
}

func TestDefaultPreferences(t *testing.T) {
	prefs := DefaultPreferences()
	if prefs.DefaultProtocol != SixteenEight {
		t.Errorf("default protocol = %s, want 16:8", prefs.DefaultProtocol)
	}
	if prefs.FastingGoal != 4 {
		t.Errorf("default goal = %d, want 4", prefs.FastingGoal)
	}
	if !prefs.EnableNotifications || !prefs.EnablePhaseEducation || !prefs.EnableStreakCounter {
		t.Error("toggles should default to enabled")
	}
	if len(prefs.NotificationTimes) != 3 {
		t.Errorf("expected 3 default notification times, got %d", len(prefs.NotificationTimes))
	}
}
