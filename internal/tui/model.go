// Package tui is the terminal panel of the Pomodoro timer. It renders the
// controller's snapshots and routes key presses to the services.
package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"myworld/backend/internal/model"
	"myworld/backend/internal/service"
	"myworld/backend/internal/timer"
)

const historyRows = 8

// snapshotMsg carries a controller snapshot into the update loop.
type snapshotMsg timer.Snapshot

// subscriptionClosedMsg is sent once the controller has been closed.
type subscriptionClosedMsg struct{}

type Model struct {
	ctx       context.Context
	pomodoro  *service.PomodoroService
	settings  *service.SettingsService
	snapshots <-chan timer.Snapshot
	loc       *time.Location

	snap    timer.Snapshot
	history []service.HistoryEntryView
	field   int
	theme   model.Theme
	status  string
	failed  bool

	keys   KeyMap
	help   help.Model
	styles Styles
	width  int
}

// New builds the panel. snapshots is normally Controller.Subscribe().
func New(
	ctx context.Context,
	pomodoro *service.PomodoroService,
	settings *service.SettingsService,
	snapshots <-chan timer.Snapshot,
) *Model {
	m := &Model{
		ctx:       ctx,
		pomodoro:  pomodoro,
		settings:  settings,
		snapshots: snapshots,
		loc:       time.Local,
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}
	if state, apiErr := pomodoro.GetState(ctx); apiErr == nil {
		m.snap = state.Snapshot
	}
	if view, apiErr := settings.GetTheme(ctx); apiErr == nil {
		m.theme = view.Theme
	}
	m.styles = NewStyles(m.theme)
	m.refreshHistory()
	return m
}

func (m *Model) Init() tea.Cmd {
	return waitForSnapshot(m.snapshots)
}

func waitForSnapshot(ch <-chan timer.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snap, ok := <-ch
		if !ok {
			return subscriptionClosedMsg{}
		}
		return snapshotMsg(snap)
	}
}

func (m *Model) refreshHistory() {
	entries, apiErr := m.pomodoro.GetHistory(m.ctx, historyRows, m.loc)
	if apiErr != nil {
		m.setError(apiErr.Message)
		return
	}
	m.history = entries
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.failed = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.failed = true
}

// selectedPhase is the phase whose duration +/- edits.
func (m *Model) selectedPhase() model.Phase {
	return model.Phases[m.field]
}
