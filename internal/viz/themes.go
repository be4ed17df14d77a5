package viz

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/traysim/internal/dynamo"
)

// Theme is the palette used by summaries and the replay view.
type Theme struct {
	Name      string
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Text      lipgloss.Color
	Muted     lipgloss.Color

	// regime colours
	Free    lipgloss.Color
	Contact lipgloss.Color
	Adhered lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:      "cyberpunk",
		Primary:   lipgloss.Color("#ff00ff"),
		Secondary: lipgloss.Color("#00ffff"),
		Accent:    lipgloss.Color("#ffff00"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#666666"),
		Free:      lipgloss.Color("#00ff88"),
		Contact:   lipgloss.Color("#ffaa00"),
		Adhered:   lipgloss.Color("#ff4444"),
	}

	ThemeRetroGreen = Theme{
		Name:      "retro",
		Primary:   lipgloss.Color("#00ff00"),
		Secondary: lipgloss.Color("#00cc00"),
		Accent:    lipgloss.Color("#88ff88"),
		Text:      lipgloss.Color("#00ff00"),
		Muted:     lipgloss.Color("#005500"),
		Free:      lipgloss.Color("#88ff88"),
		Contact:   lipgloss.Color("#ffff00"),
		Adhered:   lipgloss.Color("#ff0000"),
	}

	ThemeMinimal = Theme{
		Name:      "minimal",
		Primary:   lipgloss.Color("#ffffff"),
		Secondary: lipgloss.Color("#cccccc"),
		Accent:    lipgloss.Color("#0088ff"),
		Text:      lipgloss.Color("#ffffff"),
		Muted:     lipgloss.Color("#888888"),
		Free:      lipgloss.Color("#00ff00"),
		Contact:   lipgloss.Color("#ffaa00"),
		Adhered:   lipgloss.Color("#ff0000"),
	}

	CurrentTheme = ThemeCyberpunk

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeMinimal,
	}
)

// GetTheme falls back to the default theme for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func (t Theme) RegimeColor(r dynamo.Regime) lipgloss.Color {
	switch r {
	case dynamo.Contact:
		return t.Contact
	case dynamo.Adhered:
		return t.Adhered
	default:
		return t.Free
	}
}

// RegimeStyle renders a regime label in the current theme.
func RegimeStyle(r dynamo.Regime) lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(CurrentTheme.RegimeColor(r))
}
