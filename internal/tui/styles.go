package tui

import (
	"github.com/charmbracelet/lipgloss"

	"myworld/backend/internal/model"
)

// Palette holds the colours of one theme.
type Palette struct {
	Text       lipgloss.Color
	Muted      lipgloss.Color
	Accent     lipgloss.Color
	Work       lipgloss.Color
	ShortBreak lipgloss.Color
	LongBreak  lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
}

var palettes = map[model.Theme]Palette{
	model.ThemeDark: {
		Text:       lipgloss.Color("#DFE6E9"),
		Muted:      lipgloss.Color("#636E72"),
		Accent:     lipgloss.Color("#A29BFE"),
		Work:       lipgloss.Color("#FF7675"),
		ShortBreak: lipgloss.Color("#55EFC4"),
		LongBreak:  lipgloss.Color("#74B9FF"),
		Error:      lipgloss.Color("#D63031"),
		Border:     lipgloss.Color("#636E72"),
	},
	model.ThemeLight: {
		Text:       lipgloss.Color("#2D3436"),
		Muted:      lipgloss.Color("#7F8C8D"),
		Accent:     lipgloss.Color("#6C5CE7"),
		Work:       lipgloss.Color("#D63031"),
		ShortBreak: lipgloss.Color("#00B894"),
		LongBreak:  lipgloss.Color("#0984E3"),
		Error:      lipgloss.Color("#C0392B"),
		Border:     lipgloss.Color("#B2BEC3"),
	},
}

// PaletteFor returns the colours of theme, falling back to dark.
func PaletteFor(theme model.Theme) Palette {
	if p, ok := palettes[theme]; ok {
		return p
	}
	return palettes[model.ThemeDark]
}

// Styles contains the lipgloss styles of the panel.
type Styles struct {
	App          lipgloss.Style
	Title        lipgloss.Style
	Clock        lipgloss.Style
	Phases       map[model.Phase]lipgloss.Style
	Running      lipgloss.Style
	Paused       lipgloss.Style
	Field        lipgloss.Style
	FieldActive  lipgloss.Style
	SectionTitle lipgloss.Style
	HistoryDay   lipgloss.Style
	HistoryItem  lipgloss.Style
	Empty        lipgloss.Style
	Status       lipgloss.Style
	StatusError  lipgloss.Style
}

func NewStyles(theme model.Theme) Styles {
	p := PaletteFor(theme)
	phase := func(c lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c).Bold(true)
	}

	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Border),
		Title: lipgloss.NewStyle().Foreground(p.Accent).Bold(true),
		Clock: lipgloss.NewStyle().Foreground(p.Text).Bold(true).Padding(1, 0),
		Phases: map[model.Phase]lipgloss.Style{
			model.PhaseWork:       phase(p.Work),
			model.PhaseShortBreak: phase(p.ShortBreak),
			model.PhaseLongBreak:  phase(p.LongBreak),
		},
		Running:      lipgloss.NewStyle().Foreground(p.ShortBreak),
		Paused:       lipgloss.NewStyle().Foreground(p.Muted),
		Field:        lipgloss.NewStyle().Foreground(p.Muted).Padding(0, 1),
		FieldActive:  lipgloss.NewStyle().Foreground(p.Accent).Bold(true).Underline(true).Padding(0, 1),
		SectionTitle: lipgloss.NewStyle().Foreground(p.Accent).MarginTop(1),
		HistoryDay:   lipgloss.NewStyle().Foreground(p.Muted).Width(10),
		HistoryItem:  lipgloss.NewStyle().Foreground(p.Text),
		Empty:        lipgloss.NewStyle().Foreground(p.Muted).Italic(true),
		Status:       lipgloss.NewStyle().Foreground(p.Muted),
		StatusError:  lipgloss.NewStyle().Foreground(p.Error),
	}
}

// DetectTheme picks light or dark from the terminal background.
func DetectTheme() model.Theme {
	if lipgloss.HasDarkBackground() {
		return model.ThemeDark
	}
	return model.ThemeLight
}
