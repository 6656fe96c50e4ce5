package service

import (
	"context"
	"time"

	apperrors "myworld/backend/internal/errors"
	"myworld/backend/internal/history"
	"myworld/backend/internal/model"
	"myworld/backend/internal/timer"
)

const (
	defaultHistoryLimit = 50
)

type PomodoroService struct {
	timer    *timer.Controller
	history  *history.Log
	now      func() time.Time
	observer UseCaseObserver
}

type StateView struct {
	timer.Snapshot
	ServerTime time.Time `json:"serverTime"`
}

type HistoryEntryView struct {
	model.HistoryEntry
	PhaseLabel string `json:"phaseLabel"`
	DayLabel   string `json:"dayLabel"`
	ClockLabel string `json:"clockLabel"`
}

// UpdateDurationsInput carries the minutes to apply per phase. Nil fields
// keep their current value.
type UpdateDurationsInput struct {
	Work       *int
	ShortBreak *int
	LongBreak  *int
}

func NewPomodoroService(controller *timer.Controller, log *history.Log, observer UseCaseObserver) *PomodoroService {
	if observer == nil {
		observer = NoopUseCaseObserver{}
	}
	return &PomodoroService{
		timer:    controller,
		history:  log,
		now:      time.Now,
		observer: observer,
	}
}

func (s *PomodoroService) GetState(ctx context.Context) (*StateView, *apperrors.APIError) {
	view := s.toStateView(s.timer.Snapshot())
	return &view, nil
}

func (s *PomodoroService) Start(ctx context.Context) (*StateView, *apperrors.APIError) {
	start := time.Now()
	s.timer.Start()
	view := s.toStateView(s.timer.Snapshot())
	observe(ctx, s.observer, "pomodoro.start", start, nil, map[string]any{"phase": view.Phase})
	return &view, nil
}

func (s *PomodoroService) Pause(ctx context.Context) (*StateView, *apperrors.APIError) {
	start := time.Now()
	s.timer.Pause()
	view := s.toStateView(s.timer.Snapshot())
	observe(ctx, s.observer, "pomodoro.pause", start, nil, map[string]any{"remaining": view.RemainingSeconds})
	return &view, nil
}

// Toggle starts a paused timer and pauses a running one.
func (s *PomodoroService) Toggle(ctx context.Context) (*StateView, *apperrors.APIError) {
	start := time.Now()
	s.timer.Toggle()
	view := s.toStateView(s.timer.Snapshot())
	observe(ctx, s.observer, "pomodoro.toggle", start, nil, map[string]any{"running": view.Running})
	return &view, nil
}

// Reset rewinds the current phase to its full duration and stops the timer.
func (s *PomodoroService) Reset(ctx context.Context) (*StateView, *apperrors.APIError) {
	start := time.Now()
	current := s.timer.Snapshot().Phase
	s.timer.ResetPhase(current)
	view := s.toStateView(s.timer.Snapshot())
	observe(ctx, s.observer, "pomodoro.reset", start, nil, map[string]any{"phase": current})
	return &view, nil
}

func (s *PomodoroService) SwitchPhase(ctx context.Context, phase string) (*StateView, *apperrors.APIError) {
	start := time.Now()
	p := model.Phase(phase)
	if !p.Valid() {
		apiErr := apperrors.BadRequest(apperrors.CodeInvalidPhase, "phase must be one of work, shortBreak, longBreak")
		observe(ctx, s.observer, "pomodoro.switch_phase", start, apiErr, map[string]any{"phase": phase})
		return nil, apiErr
	}

	s.timer.ResetPhase(p)
	view := s.toStateView(s.timer.Snapshot())
	observe(ctx, s.observer, "pomodoro.switch_phase", start, nil, map[string]any{"phase": p})
	return &view, nil
}

// UpdateDurations applies new phase lengths. It is refused while the timer
// runs; values outside [1, 90] are clamped by the controller.
func (s *PomodoroService) UpdateDurations(ctx context.Context, input UpdateDurationsInput) (*StateView, *apperrors.APIError) {
	start := time.Now()
	snap := s.timer.Snapshot()
	if snap.Running {
		apiErr := apperrors.Conflict(apperrors.CodeTimerRunning, "pause the timer before changing durations", map[string]interface{}{
			"state": s.toStateView(snap),
		})
		observe(ctx, s.observer, "pomodoro.update_durations", start, apiErr, nil)
		return nil, apiErr
	}

	changes := []struct {
		phase   model.Phase
		minutes *int
	}{
		{model.PhaseWork, input.Work},
		{model.PhaseShortBreak, input.ShortBreak},
		{model.PhaseLongBreak, input.LongBreak},
	}
	for _, change := range changes {
		if change.minutes != nil {
			s.timer.SetDuration(change.phase, *change.minutes)
		}
	}

	view := s.toStateView(s.timer.Snapshot())
	observe(ctx, s.observer, "pomodoro.update_durations", start, nil, map[string]any{
		"work":       view.Durations.Work,
		"shortBreak": view.Durations.ShortBreak,
		"longBreak":  view.Durations.LongBreak,
	})
	return &view, nil
}

// GetHistory returns at most limit entries, newest first, labelled relative
// to the current day in loc. A non-positive limit means the default of 50.
func (s *PomodoroService) GetHistory(ctx context.Context, limit int, loc *time.Location) ([]HistoryEntryView, *apperrors.APIError) {
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > model.HistoryCapacity {
		limit = model.HistoryCapacity
	}
	if loc == nil {
		loc = time.Local
	}

	entries := s.history.Entries()
	if len(entries) > limit {
		entries = entries[:limit]
	}

	now := s.now().In(loc)
	views := make([]HistoryEntryView, 0, len(entries))
	for _, entry := range entries {
		views = append(views, HistoryEntryView{
			HistoryEntry: entry,
			PhaseLabel:   entry.Phase.Label(),
			DayLabel:     history.DayLabel(entry.CompletedAt, now),
			ClockLabel:   history.ClockLabel(entry.CompletedAt, loc),
		})
	}
	return views, nil
}

func (s *PomodoroService) ClearHistory(ctx context.Context) *apperrors.APIError {
	start := time.Now()
	cleared := s.history.Len()
	s.history.Clear(ctx)
	observe(ctx, s.observer, "pomodoro.clear_history", start, nil, map[string]any{"cleared": cleared})
	return nil
}

func (s *PomodoroService) toStateView(snap timer.Snapshot) StateView {
	return StateView{
		Snapshot:   snap,
		ServerTime: s.now().UTC(),
	}
}
