package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	apperrors "myworld/backend/internal/errors"
	"myworld/backend/internal/model"
	"myworld/backend/internal/service"
	"myworld/backend/internal/timer"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case snapshotMsg:
		previous := m.snap
		m.snap = timer.Snapshot(msg)
		if previous.Phase != m.snap.Phase {
			// A completed phase hands over while running; a manual switch stops.
			if previous.Running && m.snap.Running {
				m.setStatus(previous.PhaseLabel + " complete")
			}
			m.refreshHistory()
		}
		return m, waitForSnapshot(m.snapshots)

	case subscriptionClosedMsg:
		return m, tea.Quit

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Toggle):
		m.applyState(m.pomodoro.Toggle(m.ctx))

	case key.Matches(msg, m.keys.Reset):
		m.applyState(m.pomodoro.Reset(m.ctx))

	case key.Matches(msg, m.keys.Work):
		m.applyState(m.pomodoro.SwitchPhase(m.ctx, string(model.PhaseWork)))
	case key.Matches(msg, m.keys.ShortBreak):
		m.applyState(m.pomodoro.SwitchPhase(m.ctx, string(model.PhaseShortBreak)))
	case key.Matches(msg, m.keys.LongBreak):
		m.applyState(m.pomodoro.SwitchPhase(m.ctx, string(model.PhaseLongBreak)))

	case key.Matches(msg, m.keys.NextField):
		m.field = (m.field + 1) % len(model.Phases)

	case key.Matches(msg, m.keys.Increase):
		m.adjustDuration(1)
	case key.Matches(msg, m.keys.Decrease):
		m.adjustDuration(-1)

	case key.Matches(msg, m.keys.ClearHistory):
		if apiErr := m.pomodoro.ClearHistory(m.ctx); apiErr != nil {
			m.setError(apiErr.Message)
			break
		}
		m.refreshHistory()
		m.setStatus("history cleared")

	case key.Matches(msg, m.keys.Theme):
		view, apiErr := m.settings.ToggleTheme(m.ctx)
		if apiErr != nil {
			m.setError(apiErr.Message)
			break
		}
		m.theme = view.Theme
		m.styles = NewStyles(m.theme)
		m.setStatus("theme: " + string(m.theme))
	}
	return m, nil
}

func (m *Model) adjustDuration(delta int) {
	phase := m.selectedPhase()
	minutes := m.snap.Durations.Minutes(phase) + delta

	var input service.UpdateDurationsInput
	switch phase {
	case model.PhaseWork:
		input.Work = &minutes
	case model.PhaseShortBreak:
		input.ShortBreak = &minutes
	case model.PhaseLongBreak:
		input.LongBreak = &minutes
	}
	m.applyState(m.pomodoro.UpdateDurations(m.ctx, input))
}

func (m *Model) applyState(state *service.StateView, apiErr *apperrors.APIError) {
	if apiErr != nil {
		m.setError(apiErr.Message)
		return
	}
	m.snap = state.Snapshot
	m.status = ""
}
