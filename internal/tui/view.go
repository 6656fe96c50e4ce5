package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"myworld/backend/internal/model"
)

func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("MyWorld · Pomodoro"))
	b.WriteString("\n")
	b.WriteString(m.renderTimer())
	b.WriteString("\n")
	b.WriteString(m.renderDurations())
	b.WriteString("\n")
	b.WriteString(m.renderHistory())

	if m.status != "" {
		style := m.styles.Status
		if m.failed {
			style = m.styles.StatusError
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
	}

	b.WriteString("\n\n")
	b.WriteString(m.help.View(m.keys))
	return m.styles.App.Render(b.String())
}

func (m *Model) renderTimer() string {
	phaseStyle, ok := m.styles.Phases[m.snap.Phase]
	if !ok {
		phaseStyle = m.styles.Title
	}

	state := m.styles.Paused.Render("paused")
	if m.snap.Running {
		state = m.styles.Running.Render("running")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Left, phaseStyle.Render(m.snap.PhaseLabel), "  ", state)
	return lipgloss.JoinVertical(lipgloss.Left, header, m.styles.Clock.Render(m.snap.Display))
}

func (m *Model) renderDurations() string {
	fields := make([]string, 0, len(model.Phases))
	for i, phase := range model.Phases {
		label := fmt.Sprintf("%s %d min", phase.Label(), m.snap.Durations.Minutes(phase))
		style := m.styles.Field
		if i == m.field {
			style = m.styles.FieldActive
		}
		fields = append(fields, style.Render(label))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, fields...)
}

func (m *Model) renderHistory() string {
	lines := []string{m.styles.SectionTitle.Render("History")}
	if len(m.history) == 0 {
		lines = append(lines, m.styles.Empty.Render("No sessions yet"))
		return strings.Join(lines, "\n")
	}

	for _, entry := range m.history {
		item := fmt.Sprintf("%s  %s · %d min", entry.ClockLabel, entry.PhaseLabel, entry.DurationMinutes)
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Left,
			m.styles.HistoryDay.Render(entry.DayLabel),
			m.styles.HistoryItem.Render(item),
		))
	}
	return strings.Join(lines, "\n")
}
