package timer_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myworld/backend/internal/history"
	"myworld/backend/internal/idgen"
	"myworld/backend/internal/model"
	"myworld/backend/internal/repository"
	"myworld/backend/internal/timer"
)

type recorder struct {
	mu      sync.Mutex
	entries []model.HistoryEntry
}

func (r *recorder) Append(_ context.Context, e model.HistoryEntry) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, e)
}

func (r *recorder) all() []model.HistoryEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]model.HistoryEntry(nil), r.entries...)
}

func newController(t *testing.T, opts ...timer.Option) (*timer.Controller, *recorder) {
	t.Helper()
	rec := &recorder{}
	fixed := time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC)
	base := []timer.Option{
		timer.WithClock(func() time.Time { return fixed }),
		timer.WithIDGenerator(idgen.Sequence("h")),
		// Keep the real ticker out of the way of manual ticks.
		timer.WithInterval(time.Hour),
	}
	c := timer.New(rec, append(base, opts...)...)
	t.Cleanup(c.Close)
	return c, rec
}

func ticks(c *timer.Controller, n int) {
	for i := 0; i < n; i++ {
		c.Tick()
	}
}

func TestNew_Defaults(t *testing.T) {
	c, _ := newController(t)
	snap := c.Snapshot()

	assert.Equal(t, model.PhaseWork, snap.Phase)
	assert.Equal(t, 25*60, snap.RemainingSeconds)
	assert.Equal(t, "25:00", snap.Display)
	assert.False(t, snap.Running)
	assert.Equal(t, model.Durations{Work: 25, ShortBreak: 5, LongBreak: 15}, snap.Durations)
}

func TestTick_MonotonicCountdown(t *testing.T) {
	c, _ := newController(t, timer.WithDurations(model.Durations{Work: 1, ShortBreak: 1, LongBreak: 1}))
	c.Start()

	for n := 1; n < 60; n++ {
		c.Tick()
		assert.Equal(t, 60-n, c.Snapshot().RemainingSeconds, "after %d ticks", n)
	}
}

func TestTick_IgnoredWhileStopped(t *testing.T) {
	c, rec := newController(t)
	ticks(c, 10)

	assert.Equal(t, 25*60, c.Snapshot().RemainingSeconds)
	assert.Empty(t, rec.all())
}

func TestTick_CompletionScenario(t *testing.T) {
	c, rec := newController(t)
	c.Start()
	ticks(c, 1500)

	snap := c.Snapshot()
	assert.Equal(t, model.PhaseShortBreak, snap.Phase)
	assert.Equal(t, 300, snap.RemainingSeconds)
	assert.True(t, snap.Running, "next phase starts without a manual start")

	entries := rec.all()
	require.Len(t, entries, 1)
	assert.Equal(t, model.PhaseWork, entries[0].Phase)
	assert.Equal(t, 25, entries[0].DurationMinutes)
	assert.Equal(t, "h-1", entries[0].ID)
	assert.Equal(t, time.Date(2026, 3, 7, 9, 0, 0, 0, time.UTC), entries[0].CompletedAt)
}

func TestTick_TransitionTable(t *testing.T) {
	c, rec := newController(t, timer.WithDurations(model.Durations{Work: 2, ShortBreak: 1, LongBreak: 3}))
	c.Start()

	want := []model.Phase{
		model.PhaseShortBreak, model.PhaseWork,
		model.PhaseShortBreak, model.PhaseWork,
		model.PhaseShortBreak,
	}
	for i, next := range want {
		ticks(c, c.Snapshot().RemainingSeconds)
		require.Equal(t, next, c.Snapshot().Phase, "transition %d", i)
	}
	for _, e := range rec.all() {
		assert.NotEqual(t, model.PhaseLongBreak, e.Phase)
	}

	c.ResetPhase(model.PhaseLongBreak)
	snap := c.Snapshot()
	assert.Equal(t, model.PhaseLongBreak, snap.Phase)
	assert.Equal(t, 180, snap.RemainingSeconds)
	assert.False(t, snap.Running)

	c.Start()
	ticks(c, 180)
	assert.Equal(t, model.PhaseWork, c.Snapshot().Phase)

	entries := rec.all()
	last := entries[len(entries)-1]
	assert.Equal(t, model.PhaseLongBreak, last.Phase)
	assert.Equal(t, 3, last.DurationMinutes)
}

func TestTick_SingleCompletionPerCrossing(t *testing.T) {
	c, rec := newController(t, timer.WithDurations(model.Durations{Work: 1, ShortBreak: 1, LongBreak: 1}))
	c.Start()
	ticks(c, 59)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Tick()
		}()
	}
	wg.Wait()

	assert.Len(t, rec.all(), 1)
	snap := c.Snapshot()
	assert.Equal(t, model.PhaseShortBreak, snap.Phase)
	assert.Equal(t, 60-19, snap.RemainingSeconds)
}

type snapshotRecorder struct {
	c     *timer.Controller
	seen  []timer.Snapshot
	calls int
}

func (r *snapshotRecorder) Append(_ context.Context, _ model.HistoryEntry) {
	r.calls++
	r.seen = append(r.seen, r.c.Snapshot())
}

func TestTick_AppendRunsOutsideLock(t *testing.T) {
	rec := &snapshotRecorder{}
	c := timer.New(rec,
		timer.WithDurations(model.Durations{Work: 1, ShortBreak: 1, LongBreak: 1}),
		timer.WithInterval(time.Hour),
	)
	t.Cleanup(c.Close)
	rec.c = c
	updates := c.Subscribe()

	c.Start()
	ticks(c, 60)

	require.Equal(t, 1, rec.calls)
	assert.Equal(t, model.PhaseShortBreak, rec.seen[0].Phase)
	assert.Equal(t, 60, rec.seen[0].RemainingSeconds)

	var last timer.Snapshot
	for drained := false; !drained; {
		select {
		case last = <-updates:
		default:
			drained = true
		}
	}
	assert.Equal(t, model.PhaseShortBreak, last.Phase)
}

func TestSetDuration_Clamp(t *testing.T) {
	tests := []struct {
		in   int
		want int
	}{
		{0, 1},
		{-5, 1},
		{999, 90},
		{90, 90},
		{25, 25},
	}
	for _, tt := range tests {
		c, _ := newController(t)
		assert.Equal(t, tt.want, c.SetDuration(model.PhaseWork, tt.in))
		assert.Equal(t, tt.want, c.Snapshot().Durations.Work)
		assert.Equal(t, tt.want*60, c.Snapshot().RemainingSeconds)
	}
}

func TestSetDuration_RecomputesOnlyWhenStopped(t *testing.T) {
	c, _ := newController(t)

	c.SetDuration(model.PhaseShortBreak, 10)
	assert.Equal(t, 25*60, c.Snapshot().RemainingSeconds)

	c.Start()
	ticks(c, 30)
	c.SetDuration(model.PhaseWork, 40)
	snap := c.Snapshot()
	assert.Equal(t, 25*60-30, snap.RemainingSeconds, "running countdown untouched")
	assert.Equal(t, 40, snap.Durations.Work)

	c.Pause()
	c.SetDuration(model.PhaseWork, 45)
	assert.Equal(t, 45*60, c.Snapshot().RemainingSeconds)

	assert.Zero(t, c.SetDuration(model.Phase("nap"), 10))
}

func TestSetDuration_KeepsHistory(t *testing.T) {
	ctx := context.Background()
	log := history.New(repository.NewMemoryStore())
	log.Load(ctx)

	c := timer.New(log,
		timer.WithInterval(time.Hour),
		timer.WithDurations(model.Durations{Work: 1, ShortBreak: 1, LongBreak: 1}))
	t.Cleanup(c.Close)

	c.Start()
	ticks(c, 60)
	c.Pause()
	c.SetDuration(model.PhaseWork, 30)
	c.SetDuration(model.PhaseShortBreak, 2)

	assert.Equal(t, 1, log.Len())
	assert.Equal(t, 120, c.Snapshot().RemainingSeconds)
}

func TestPause_Idempotent(t *testing.T) {
	c, _ := newController(t)
	c.Start()
	ticks(c, 42)
	c.Pause()
	before := c.Snapshot()

	c.Pause()
	c.Pause()
	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, 25*60-42, before.RemainingSeconds)
}

func TestStart_Idempotent(t *testing.T) {
	c, _ := newController(t)
	c.Start()
	c.Start()
	c.Tick()
	assert.Equal(t, 25*60-1, c.Snapshot().RemainingSeconds)
}

func TestToggle(t *testing.T) {
	c, _ := newController(t)
	c.Toggle()
	assert.True(t, c.Snapshot().Running)
	c.Toggle()
	assert.False(t, c.Snapshot().Running)
}

func TestResetPhase_IgnoresUnknown(t *testing.T) {
	c, _ := newController(t)
	c.Start()
	c.ResetPhase(model.Phase("nap"))
	assert.True(t, c.Snapshot().Running)
	assert.Equal(t, model.PhaseWork, c.Snapshot().Phase)
}

func TestTicker_Lifecycle(t *testing.T) {
	c := timer.New(nil,
		timer.WithInterval(time.Millisecond),
		timer.WithDurations(model.Durations{Work: 1, ShortBreak: 1, LongBreak: 1}))
	t.Cleanup(c.Close)

	assert.False(t, c.TickerActive())
	c.Start()
	assert.True(t, c.TickerActive())
	require.Eventually(t, func() bool {
		return c.Snapshot().RemainingSeconds < 55
	}, time.Second, time.Millisecond)

	c.Pause()
	assert.False(t, c.TickerActive())
	paused := c.Snapshot().RemainingSeconds
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, paused, c.Snapshot().RemainingSeconds, "no tick after pause")

	c.Start()
	assert.True(t, c.TickerActive())
	c.ResetPhase(model.PhaseShortBreak)
	assert.False(t, c.TickerActive())
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 60, c.Snapshot().RemainingSeconds)
}

func TestTicker_RunsThroughCompletion(t *testing.T) {
	rec := &recorder{}
	c := timer.New(rec,
		timer.WithInterval(time.Millisecond),
		timer.WithDurations(model.Durations{Work: 1, ShortBreak: 1, LongBreak: 1}))
	t.Cleanup(c.Close)

	c.Start()
	require.Eventually(t, func() bool {
		return len(rec.all()) >= 1
	}, 5*time.Second, time.Millisecond)
	c.Pause()

	entries := rec.all()
	assert.Equal(t, model.PhaseWork, entries[0].Phase)
	assert.NotEmpty(t, entries[0].ID)
}

func TestSubscribe(t *testing.T) {
	c, _ := newController(t)
	updates := c.Subscribe()

	c.Start()
	snap := <-updates
	assert.True(t, snap.Running)

	// A slow reader only sees the latest state.
	ticks(c, 3)
	snap = <-updates
	assert.Equal(t, 25*60-3, snap.RemainingSeconds)

	c.Close()
	_, ok := <-updates
	assert.False(t, ok)

	c.Start()
	assert.False(t, c.Snapshot().Running, "closed controller stays stopped")

	_, ok = <-c.Subscribe()
	assert.False(t, ok)
}

func TestFormatClock(t *testing.T) {
	assert.Equal(t, "00:00", timer.FormatClock(0))
	assert.Equal(t, "00:00", timer.FormatClock(-3))
	assert.Equal(t, "04:59", timer.FormatClock(299))
	assert.Equal(t, "25:00", timer.FormatClock(1500))
	assert.Equal(t, "90:00", timer.FormatClock(5400))
}
