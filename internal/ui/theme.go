package ui

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used by the overlay.
type Theme struct {
	Title      lipgloss.Color // CAROUSEL heading
	Shortcut   lipgloss.Color // chords and key hints
	Index      lipgloss.Color // <i> prefix of list rows
	Text       lipgloss.Color // pane titles
	TextMuted  lipgloss.Color // explanations, placeholder
	Selected   lipgloss.Color // selected row text
	SelectedBg lipgloss.Color // selected row background
	Focused    lipgloss.Color // marker on the currently focused pane
	Error      lipgloss.Color
}

// DarkTheme returns the default theme for dark terminal backgrounds.
func DarkTheme() Theme {
	return Theme{
		Title:      lipgloss.Color("#fab283"),
		Shortcut:   lipgloss.Color("#7fd88f"),
		Index:      lipgloss.Color("#56b6c2"),
		Text:       lipgloss.Color("#eeeeee"),
		TextMuted:  lipgloss.Color("#808080"),
		Selected:   lipgloss.Color("#5c9cf5"),
		SelectedBg: lipgloss.Color("#1e1e1e"),
		Focused:    lipgloss.Color("#9d7cd8"),
		Error:      lipgloss.Color("#e06c75"),
	}
}

// LightTheme returns a theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Title:      lipgloss.Color("#b35c00"),
		Shortcut:   lipgloss.Color("#116329"),
		Index:      lipgloss.Color("#0969da"),
		Text:       lipgloss.Color("#1f2328"),
		TextMuted:  lipgloss.Color("#656d76"),
		Selected:   lipgloss.Color("#0550ae"),
		SelectedBg: lipgloss.Color("#f6f8fa"),
		Focused:    lipgloss.Color("#6639ba"),
		Error:      lipgloss.Color("#cf222e"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

type styles struct {
	title    lipgloss.Style
	shortcut lipgloss.Style
	index    lipgloss.Style
	text     lipgloss.Style
	dim      lipgloss.Style
	selected lipgloss.Style
	focused  lipgloss.Style
	err      lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Title),
		shortcut: lipgloss.NewStyle().Foreground(t.Shortcut),
		index:    lipgloss.NewStyle().Foreground(t.Index),
		text:     lipgloss.NewStyle().Foreground(t.Text),
		dim:      lipgloss.NewStyle().Foreground(t.TextMuted),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Selected).Background(t.SelectedBg),
		focused:  lipgloss.NewStyle().Foreground(t.Focused),
		err:      lipgloss.NewStyle().Foreground(t.Error),
	}
}
