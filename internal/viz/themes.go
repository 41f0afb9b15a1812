package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the colours of the arena and side panel
type Theme struct {
	Name   string
	Balls  lipgloss.Color
	Walls  lipgloss.Color
	Accent lipgloss.Color
	Text   lipgloss.Color
	Muted  lipgloss.Color
}

// Available themes
var Themes = []Theme{
	{
		Name:   "neon",
		Balls:  lipgloss.Color("#00ffff"),
		Walls:  lipgloss.Color("#ff00ff"),
		Accent: lipgloss.Color("#ffff00"),
		Text:   lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#666666"),
	},
	{
		Name:   "retro",
		Balls:  lipgloss.Color("#00ff00"),
		Walls:  lipgloss.Color("#00cc00"),
		Accent: lipgloss.Color("#88ff88"),
		Text:   lipgloss.Color("#00ff00"),
		Muted:  lipgloss.Color("#005500"),
	},
	{
		Name:   "ocean",
		Balls:  lipgloss.Color("#ffd700"),
		Walls:  lipgloss.Color("#0077be"),
		Accent: lipgloss.Color("#00a8cc"),
		Text:   lipgloss.Color("#e0f0ff"),
		Muted:  lipgloss.Color("#4488aa"),
	},
	{
		Name:   "sunset",
		Balls:  lipgloss.Color("#feca57"),
		Walls:  lipgloss.Color("#ff6b6b"),
		Accent: lipgloss.Color("#ff9ff3"),
		Text:   lipgloss.Color("#fff5f5"),
		Muted:  lipgloss.Color("#8b6b8c"),
	},
}

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
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
