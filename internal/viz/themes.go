package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the live view's colour scheme.
type Theme struct {
	Name   string
	Trace  lipgloss.Color
	Phase  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
	Warn   lipgloss.Color
}

var (
	ThemeScope = Theme{
		Name:   "scope",
		Trace:  lipgloss.Color("#00ff88"),
		Phase:  lipgloss.Color("#00ccff"),
		Accent: lipgloss.Color("#ff00ff"),
		Text:   lipgloss.Color("#e0e0e0"),
		Muted:  lipgloss.Color("#666688"),
		Warn:   lipgloss.Color("#ffaa00"),
	}

	ThemeRetro = Theme{
		Name:   "retro",
		Trace:  lipgloss.Color("#00ff00"),
		Phase:  lipgloss.Color("#88ff88"),
		Accent: lipgloss.Color("#ccff00"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
		Warn:   lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:   "minimal",
		Trace:  lipgloss.Color("#ffffff"),
		Phase:  lipgloss.Color("#cccccc"),
		Accent: lipgloss.Color("#0088ff"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#888888"),
		Warn:   lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{ThemeScope, ThemeRetro, ThemeMinimal}
)

// GetTheme returns the named theme, or the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

// NextTheme cycles through Themes after current.
func NextTheme(current string) Theme {
	for i, t := range Themes {
		if t.Name == current {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
