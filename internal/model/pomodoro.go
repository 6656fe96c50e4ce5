package model

import "time"

type Phase string

const (
	PhaseWork       Phase = "work"
	PhaseShortBreak Phase = "shortBreak"
	PhaseLongBreak  Phase = "longBreak"
)

const (
	DefaultWorkMinutes       = 25
	DefaultShortBreakMinutes = 5
	DefaultLongBreakMinutes  = 15

	MinDurationMinutes = 1
	MaxDurationMinutes = 90

	HistoryCapacity = 100
)

// Phases lists every phase in display order.
var Phases = []Phase{PhaseWork, PhaseShortBreak, PhaseLongBreak}

func (p Phase) Valid() bool {
	return p == PhaseWork || p == PhaseShortBreak || p == PhaseLongBreak
}

func (p Phase) Label() string {
	switch p {
	case PhaseShortBreak:
		return "Short break"
	case PhaseLongBreak:
		return "Long break"
	default:
		return "Focus"
	}
}

// Durations holds the configured length of each phase in minutes.
type Durations struct {
	Work       int `json:"work"`
	ShortBreak int `json:"shortBreak"`
	LongBreak  int `json:"longBreak"`
}

func DefaultDurations() Durations {
	return Durations{
		Work:       DefaultWorkMinutes,
		ShortBreak: DefaultShortBreakMinutes,
		LongBreak:  DefaultLongBreakMinutes,
	}
}

func (d Durations) Minutes(p Phase) int {
	switch p {
	case PhaseShortBreak:
		return d.ShortBreak
	case PhaseLongBreak:
		return d.LongBreak
	default:
		return d.Work
	}
}

func (d *Durations) Set(p Phase, minutes int) {
	switch p {
	case PhaseShortBreak:
		d.ShortBreak = minutes
	case PhaseLongBreak:
		d.LongBreak = minutes
	default:
		d.Work = minutes
	}
}

func ClampMinutes(minutes int) int {
	if minutes < MinDurationMinutes {
		return MinDurationMinutes
	}
	if minutes > MaxDurationMinutes {
		return MaxDurationMinutes
	}
	return minutes
}

type HistoryEntry struct {
	ID              string    `json:"id"`
	Phase           Phase     `json:"phase"`
	DurationMinutes int       `json:"durationMinutes"`
	CompletedAt     time.Time `json:"completedAt"`
}
