package fasting

// Phase is a biological time band within a fast, used for progress
// messaging.
type Phase string

const (
	PhaseDigestion         Phase = "digestion"
	PhaseGlycogenDepletion Phase = "glycogen_depletion"
	PhaseFatBurning        Phase = "fat_burning"
	PhaseKetosis           Phase = "ketosis"
	PhaseAutophagy         Phase = "autophagy"
)

// PhaseConfig describes one phase band. Hours are measured from session
// start; the interval is half-open [StartHour, EndHour).
type PhaseConfig struct {
	Phase       Phase
	StartHour   float64
	EndHour     float64
	Title       string
	Description string
	Benefits    []string
	Color       string
	Icon        string
}

// Phases is the static, ordered phase table. Elapsed time at or past the
// last phase's end still resolves to the last phase.
var Phases = []PhaseConfig{
	{
		Phase:       PhaseDigestion,
		StartHour:   0,
		EndHour:     4,
		Title:       "Digestion",
		Description: "Your body is still digesting the last meal and running on glucose as its primary fuel.",
		Benefits: []string{
			"Nutrients from the last meal being absorbed",
			"Blood sugar beginning to stabilize",
			"Digestive system winding down",
		},
		Color: "#F59E0B",
		Icon:  "clock",
	},
	{
		Phase:       PhaseGlycogenDepletion,
		StartHour:   4,
		EndHour:     12,
		Title:       "Glycogen Depletion",
		Description: "Glucose reserves are running low. Your body starts drawing on its glycogen stores.",
		Benefits: []string{
			"Blood sugar stabilized",
			"Stored energy reserves being mobilized",
			"Improved insulin sensitivity",
		},
		Color: "#3B82F6",
		Icon:  "trending-down",
	},
	{
		Phase:       PhaseFatBurning,
		StartHour:   12,
		EndHour:     18,
		Title:       "Fat Burning",
		Description: "The sweet spot. Your body is now using fat as its primary energy source.",
		Benefits: []string{
			"Active fat burning",
			"Ketone production ramping up",
			"Increased mental clarity",
			"Steady energy levels",
		},
		Color: "#10B981",
		Icon:  "zap",
	},
	{
		Phase:       PhaseKetosis,
		StartHour:   18,
		EndHour:     24,
		Title:       "Light Ketosis",
		Description: "Ketone production is in full swing. Your brain runs on this premium fuel.",
		Benefits: []string{
			"Peak ketone production",
			"Optimal cognitive performance",
			"Reduced inflammation",
			"Stable mood",
		},
		Color: "#8B5CF6",
		Icon:  "brain",
	},
	{
		Phase:       PhaseAutophagy,
		StartHour:   24,
		EndHour:     72,
		Title:       "Autophagy",
		Description: "Deep cellular cleanup is underway. Your body recycles damaged cells.",
		Benefits: []string{
			"Deep cellular cleanup",
			"Tissue regeneration",
			"Immune system reinforcement",
			"Reduced oxidative stress",
		},
		Color: "#EF4444",
		Icon:  "refresh-cw",
	},
}

// CurrentPhase returns the phase whose interval contains hoursElapsed.
// Values at or beyond the last phase's end resolve to the last phase.
func CurrentPhase(hoursElapsed float64) PhaseConfig {
	for _, p := range Phases {
		if hoursElapsed >= p.StartHour && hoursElapsed < p.EndHour {
			return p
		}
	}
	return Phases[len(Phases)-1]
}

// NextPhase returns the phase after the current one in table order, or nil
// if the current phase is the last.
func NextPhase(hoursElapsed float64) *PhaseConfig {
	for i, p := range Phases {
		if hoursElapsed >= p.StartHour && hoursElapsed < p.EndHour {
			if i < len(Phases)-1 {
				next := Phases[i+1]
				return &next
			}
			return nil
		}
	}
	return nil
}

// PhaseProgress returns the fraction of the current phase elapsed, clamped
// to [0, 1].
func PhaseProgress(hoursElapsed float64) float64 {
	p := CurrentPhase(hoursElapsed)
	progress := (hoursElapsed - p.StartHour) / (p.EndHour - p.StartHour)
	if progress < 0 {
		return 0
	}
	if progress > 1 {
		return 1
	}
	return progress
}

// TimeToNextPhase returns hours until the next phase begins, or 0 when
// already in the last phase.
func TimeToNextPhase(hoursElapsed float64) float64 {
	next := NextPhase(hoursElapsed)
	if next == nil {
		return 0
	}
	if remaining := next.StartHour - hoursElapsed; remaining > 0 {
		return remaining
	}
	return 0
}

// NotificationHours lists the phase milestones worth notifying about.
func NotificationHours() []int {
	return []int{4, 12, 16, 18, 24}
}

var motivationalMessages = map[Phase]string{
	PhaseDigestion:         "Here we go. Your fast has begun.",
	PhaseGlycogenDepletion: "Your body is adapting nicely. Keep it up.",
	PhaseFatBurning:        "Excellent! You are burning fat now.",
	PhaseKetosis:           "Your brain is running on ketones.",
	PhaseAutophagy:         "Cellular regeneration is in full swing.",
}

// MotivationalMessage returns a short encouragement for the given phase.
func MotivationalMessage(phase Phase) string {
	if msg, ok := motivationalMessages[phase]; ok {
		return msg
	}
	return "Keep going, you are doing great."
}
