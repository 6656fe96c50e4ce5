// Package timer implements the Pomodoro phase controller.
//
// A Controller counts down the current phase one second per Tick while it
// is running. When the countdown reaches zero it records the completed phase,
// moves to the next phase and keeps running:
//
//	work       -> shortBreak
//	shortBreak -> work
//	longBreak  -> work
//
// longBreak is only ever entered through ResetPhase.
//
// While running, the controller owns exactly one ticker goroutine that calls
// Tick every interval. Pause, ResetPhase and Close tear it down before they
// return.
package timer

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"myworld/backend/internal/idgen"
	"myworld/backend/internal/model"
)

// Recorder receives one entry per completed phase.
type Recorder interface {
	Append(ctx context.Context, entry model.HistoryEntry)
}

type Controller struct {
	mu       sync.Mutex
	recordMu sync.Mutex // orders history appends made outside mu

	durations model.Durations
	phase     model.Phase
	remaining int
	running   bool

	interval time.Duration
	ticker   *ticker

	recorder Recorder
	now      func() time.Time
	newID    idgen.Generator
	logger   *slog.Logger

	subscribers []chan Snapshot
	closed      bool
}

type Option func(*Controller)

func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

func WithIDGenerator(gen idgen.Generator) Option {
	return func(c *Controller) { c.newID = gen }
}

// WithInterval sets the wall-clock length of one tick. Defaults to a second.
func WithInterval(d time.Duration) Option {
	return func(c *Controller) {
		if d > 0 {
			c.interval = d
		}
	}
}

func WithDurations(d model.Durations) Option {
	return func(c *Controller) {
		c.durations = model.Durations{
			Work:       model.ClampMinutes(d.Work),
			ShortBreak: model.ClampMinutes(d.ShortBreak),
			LongBreak:  model.ClampMinutes(d.LongBreak),
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a stopped controller in the work phase with the full work
// duration remaining. recorder may be nil.
func New(recorder Recorder, opts ...Option) *Controller {
	c := &Controller{
		durations: model.DefaultDurations(),
		phase:     model.PhaseWork,
		interval:  time.Second,
		recorder:  recorder,
		now:       time.Now,
		newID:     idgen.UUID,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.remaining = c.fullDurationLocked(c.phase)
	return c
}

// Start resumes the countdown. It does nothing if already running.
func (c *Controller) Start() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startLocked()
}

// Pause halts the countdown and keeps the remaining time as is.
func (c *Controller) Pause() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pauseLocked()
}

// Toggle pauses a running timer and starts a stopped one.
func (c *Controller) Toggle() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		c.pauseLocked()
		return
	}
	c.startLocked()
}

func (c *Controller) startLocked() {
	if c.running || c.closed {
		return
	}
	c.running = true
	c.startTickerLocked()
	c.publishLocked()
	c.logger.Debug("timer started", "phase", c.phase, "remaining", c.remaining)
}

func (c *Controller) pauseLocked() {
	if !c.running {
		return
	}
	c.running = false
	c.stopTickerLocked()
	c.publishLocked()
	c.logger.Debug("timer paused", "phase", c.phase, "remaining", c.remaining)
}

// ResetPhase stops the timer and rewinds it to the full duration of phase.
// Unknown phases are ignored.
func (c *Controller) ResetPhase(phase model.Phase) {
	if !phase.Valid() {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.running = false
	c.stopTickerLocked()
	c.phase = phase
	c.remaining = c.fullDurationLocked(phase)
	c.publishLocked()
}

// SetDuration sets the length of phase, clamped to the allowed range, and
// returns the applied value. While the timer is stopped the remaining time is
// recomputed from the current phase's duration.
func (c *Controller) SetDuration(phase model.Phase, minutes int) int {
	if !phase.Valid() {
		return 0
	}
	applied := model.ClampMinutes(minutes)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.durations.Set(phase, applied)
	if !c.running {
		c.remaining = c.fullDurationLocked(c.phase)
	}
	c.publishLocked()
	return applied
}

// Tick advances the countdown by one second, independently of the ticker.
func (c *Controller) Tick() {
	c.tick(nil)
}

// tick applies one second of countdown. from identifies the ticker that
// fired; ticks from a ticker that has since been stopped are dropped.
func (c *Controller) tick(from *ticker) {
	c.mu.Lock()
	if (from != nil && from != c.ticker) || !c.running || c.remaining <= 0 {
		c.mu.Unlock()
		return
	}

	c.remaining--
	if c.remaining > 0 || c.recorder == nil {
		if c.remaining == 0 {
			c.completeLocked()
		}
		c.publishLocked()
		c.mu.Unlock()
		return
	}

	// The phase has already moved on when mu is released, so this crossing
	// cannot be completed twice. Subscribers hear about it after the append.
	entry := c.completeLocked()
	c.recordMu.Lock()
	c.mu.Unlock()
	c.recorder.Append(context.Background(), entry)
	c.recordMu.Unlock()

	c.mu.Lock()
	c.publishLocked()
	c.mu.Unlock()
}

// completeLocked moves on from the phase that just reached zero and returns
// its history entry.
func (c *Controller) completeLocked() model.HistoryEntry {
	completed := c.phase
	entry := model.HistoryEntry{
		ID:              c.newID(),
		Phase:           completed,
		DurationMinutes: c.durations.Minutes(completed),
		CompletedAt:     c.now(),
	}

	c.phase = nextPhase(completed)
	c.remaining = c.fullDurationLocked(c.phase)
	c.logger.Info("phase completed",
		"phase", completed,
		"minutes", entry.DurationMinutes,
		"next", c.phase,
	)
	return entry
}

func nextPhase(p model.Phase) model.Phase {
	if p == model.PhaseWork {
		return model.PhaseShortBreak
	}
	return model.PhaseWork
}

func (c *Controller) fullDurationLocked(p model.Phase) int {
	return c.durations.Minutes(p) * 60
}

// Close stops the ticker and closes every subscription. The controller
// ignores Start afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.running = false
	c.stopTickerLocked()
	for _, ch := range c.subscribers {
		close(ch)
	}
	c.subscribers = nil
}
