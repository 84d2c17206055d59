package fasting

import "time"

// Protocol is a named fasting schedule with a fixed target duration.
type Protocol string

const (
	SixteenEight Protocol = "16:8"
	EighteenSix  Protocol = "18:6"
	TwentyFour   Protocol = "20:4"
	OMAD         Protocol = "OMAD"
)

// Protocols lists all protocols in canonical order. Ties in aggregations
// (e.g. favorite protocol) break toward the earlier entry.
var Protocols = []Protocol{SixteenEight, EighteenSix, TwentyFour, OMAD}

// ProtocolDurations maps each protocol to its fasting window in minutes.
var ProtocolDurations = map[Protocol]int{
	SixteenEight: 16 * 60,
	EighteenSix:  18 * 60,
	TwentyFour:   20 * 60,
	OMAD:         23 * 60,
}

// Valid reports whether p is a known protocol.
func (p Protocol) Valid() bool {
	_, ok := ProtocolDurations[p]
	return ok
}

// Status is the lifecycle state of a session.
type Status string

const (
	StatusNotStarted Status = "not_started"
	StatusActive     Status = "active"
	StatusPaused     Status = "paused"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the status admits no further transitions.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// Session is a single fast, current or historical.
//
// Durations are minutes. EndTime is set exactly once, at the terminal
// transition. PausedAt is present iff Status is paused. PausedDuration is
// cumulative time spent paused and never decreases.
type Session struct {
	ID             string     `json:"id"`
	StartTime      time.Time  `json:"startTime"`
	EndTime        *time.Time `json:"endTime,omitempty"`
	TargetDuration int        `json:"targetDuration"`
	ActualDuration int        `json:"actualDuration,omitempty"`
	Protocol       Protocol   `json:"protocol"`
	Status         Status     `json:"status"`
	PausedAt       *time.Time `json:"pausedAt,omitempty"`
	PausedDuration int        `json:"pausedDuration"`
	Notes          string     `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Stats aggregates completed sessions.
type Stats struct {
	TotalSessions    int      `json:"totalSessions"`
	TotalDuration    int      `json:"totalDuration"`   // minutes
	AverageDuration  float64  `json:"averageDuration"` // minutes
	LongestStreak    int      `json:"longestStreak"`   // days
	CurrentStreak    int      `json:"currentStreak"`   // days
	CompletionRate   float64  `json:"completionRate"`  // 0-1
	FavoriteProtocol Protocol `json:"favoriteProtocol"`
	LastSession      *Session `json:"lastSession,omitempty"`
}

// Preferences holds user configuration. Notification fields are modeled but
// no delivery mechanism is implemented.
type Preferences struct {
	DefaultProtocol      Protocol `json:"defaultProtocol"`
	EnableNotifications  bool     `json:"enableNotifications"`
	NotificationTimes    []int    `json:"notificationTimes"` // hours into the fast
	EnablePhaseEducation bool     `json:"enablePhaseEducation"`
	EnableStreakCounter  bool     `json:"enableStreakCounter"`
	FastingGoal          int      `json:"fastingGoal"` // sessions per week
}

// DefaultPreferences returns the built-in preference values.
func DefaultPreferences() Preferences {
	return Preferences{
		DefaultProtocol:      SixteenEight,
		EnableNotifications:  true,
		NotificationTimes:    []int{12, 16, 20},
		EnablePhaseEducation: true,
		EnableStreakCounter:  true,
		FastingGoal:          4,
	}
}
