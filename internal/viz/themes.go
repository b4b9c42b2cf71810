package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette used for scene elements that have no color of their
// own.
type Theme struct {
	Name    string
	Goal    lipgloss.Color
	Wall    lipgloss.Color
	Surface lipgloss.Color
	Stroke  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Accent  lipgloss.Color
}

var (
	ThemeNeon = Theme{
		Name:    "neon",
		Goal:    lipgloss.Color("#64ff64"),
		Wall:    lipgloss.Color("#505064"),
		Surface: lipgloss.Color("#00ccff"),
		Stroke:  lipgloss.Color("#00ffff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#666688"),
		Accent:  lipgloss.Color("#ff00ff"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Goal:    lipgloss.Color("#ffffff"),
		Wall:    lipgloss.Color("#888888"),
		Surface: lipgloss.Color("#cccccc"),
		Stroke:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Accent:  lipgloss.Color("#0088ff"),
	}

	ThemeSunset = Theme{
		Name:    "sunset",
		Goal:    lipgloss.Color("#5fd068"),
		Wall:    lipgloss.Color("#8b6b8c"),
		Surface: lipgloss.Color("#feca57"),
		Stroke:  lipgloss.Color("#ff9ff3"),
		Text:    lipgloss.Color("#fff5f5"),
		Muted:   lipgloss.Color("#8b6b8c"),
		Accent:  lipgloss.Color("#ff6b6b"),
	}

	Themes = []Theme{ThemeNeon, ThemeMinimal, ThemeSunset}
)

// GetTheme returns a theme by name, falling back to neon.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeNeon
}

// Next returns the theme after t in Themes, wrapping around.
func (t Theme) Next() Theme {
	for i, cur := range Themes {
		if cur.Name == t.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return ThemeNeon
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
