package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"myworld/backend/internal/history"
	"myworld/backend/internal/idgen"
	"myworld/backend/internal/model"
	"myworld/backend/internal/repository"
	"myworld/backend/internal/service"
	"myworld/backend/internal/settings"
	"myworld/backend/internal/timer"
)

type fixture struct {
	model      *Model
	controller *timer.Controller
	store      repository.Store
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()
	store := repository.NewMemoryStore()

	log := history.New(store)
	controller := timer.New(log,
		timer.WithIDGenerator(idgen.Sequence("h")),
		timer.WithInterval(time.Hour),
	)
	t.Cleanup(controller.Close)

	theme := settings.NewTheme(store)
	theme.Load(ctx)

	m := New(ctx,
		service.NewPomodoroService(controller, log, nil),
		service.NewSettingsService(theme, nil),
		controller.Subscribe(),
	)
	return fixture{model: m, controller: controller, store: store}
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(m *Model, msgs ...tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	for _, msg := range msgs {
		_, cmd = m.Update(msg)
	}
	return cmd
}

func TestModel_ToggleAndReset(t *testing.T) {
	f := newFixture(t)

	press(f.model, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, f.controller.Snapshot().Running)
	assert.True(t, f.model.snap.Running)

	f.controller.Tick()
	press(f.model, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, f.controller.Snapshot().Running)
	assert.Equal(t, 25*60-1, f.model.snap.RemainingSeconds)

	press(f.model, runes("r"))
	assert.Equal(t, 25*60, f.model.snap.RemainingSeconds)
}

func TestModel_SelectPhase(t *testing.T) {
	f := newFixture(t)

	press(f.model, runes("3"))
	assert.Equal(t, model.PhaseLongBreak, f.controller.Snapshot().Phase)
	assert.Contains(t, f.model.View(), "15:00")

	press(f.model, runes("2"))
	assert.Equal(t, model.PhaseShortBreak, f.model.snap.Phase)

	press(f.model, runes("1"))
	assert.Equal(t, model.PhaseWork, f.model.snap.Phase)
}

func TestModel_AdjustDurations(t *testing.T) {
	f := newFixture(t)

	press(f.model, runes("+"), runes("+"))
	assert.Equal(t, 27, f.controller.Snapshot().Durations.Work)
	assert.Equal(t, "27:00", f.model.snap.Display)

	press(f.model, tea.KeyMsg{Type: tea.KeyTab}, runes("-"))
	assert.Equal(t, 4, f.controller.Snapshot().Durations.ShortBreak)

	press(f.model, tea.KeyMsg{Type: tea.KeySpace}, tea.KeyMsg{Type: tea.KeyTab}, runes("+"))
	assert.Equal(t, 15, f.controller.Snapshot().Durations.LongBreak, "durations are locked while running")
	assert.True(t, f.model.failed)
}

func TestModel_CompletionRefreshesHistory(t *testing.T) {
	f := newFixture(t)
	f.controller.SetDuration(model.PhaseWork, 1)
	press(f.model, tea.KeyMsg{Type: tea.KeySpace})

	for i := 0; i < 59; i++ {
		f.controller.Tick()
	}
	press(f.model, snapshotMsg(f.controller.Snapshot()))
	f.controller.Tick()
	press(f.model, snapshotMsg(f.controller.Snapshot()))

	require.Len(t, f.model.history, 1)
	assert.Equal(t, "today", f.model.history[0].DayLabel)
	assert.Equal(t, "Focus complete", f.model.status)
	assert.Contains(t, f.model.View(), "Focus · 1 min")
}

func TestModel_ClearHistoryAndTheme(t *testing.T) {
	f := newFixture(t)
	f.controller.SetDuration(model.PhaseWork, 1)
	f.controller.Start()
	for i := 0; i < 60; i++ {
		f.controller.Tick()
	}
	f.model.refreshHistory()
	require.Len(t, f.model.history, 1)

	press(f.model, runes("c"))
	assert.Empty(t, f.model.history)
	assert.Contains(t, f.model.View(), "No sessions yet")

	press(f.model, runes("t"))
	assert.Equal(t, model.ThemeLight, f.model.theme)
	raw, err := f.store.Get(context.Background(), model.KeyTheme)
	require.NoError(t, err)
	assert.Equal(t, "light", string(raw))
}

func TestModel_SubscriptionClosedQuits(t *testing.T) {
	f := newFixture(t)
	cmd := press(f.model, subscriptionClosedMsg{})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_HelpToggle(t *testing.T) {
	f := newFixture(t)
	press(f.model, runes("?"))
	assert.True(t, f.model.help.ShowAll)
	assert.Contains(t, f.model.View(), "clear history")
}
