package render

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// TUITheme is the palette used by the chat screen
type TUITheme struct {
	Name        string
	Description string

	Surface lipgloss.Color
	Border  lipgloss.Color

	// Primary colors the user label, Secondary the assistant label
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color

	Text    lipgloss.Color
	TextDim lipgloss.Color
}

var (
	TokyoNightTheme = TUITheme{
		Name:        "tokyonight",
		Description: "Tokyo Night, dark with blue accents",
		Surface:     lipgloss.Color("#24283b"),
		Border:      lipgloss.Color("#414868"),
		Primary:     lipgloss.Color("#7aa2f7"),
		Secondary:   lipgloss.Color("#9ece6a"),
		Accent:      lipgloss.Color("#bb9af7"),
		Warning:     lipgloss.Color("#e0af68"),
		Error:       lipgloss.Color("#f7768e"),
		Text:        lipgloss.Color("#c0caf5"),
		TextDim:     lipgloss.Color("#565f89"),
	}

	CatppuccinTheme = TUITheme{
		Name:        "catppuccin",
		Description: "Catppuccin Mocha, warm pastels",
		Surface:     lipgloss.Color("#313244"),
		Border:      lipgloss.Color("#45475a"),
		Primary:     lipgloss.Color("#89b4fa"),
		Secondary:   lipgloss.Color("#a6e3a1"),
		Accent:      lipgloss.Color("#cba6f7"),
		Warning:     lipgloss.Color("#f9e2af"),
		Error:       lipgloss.Color("#f38ba8"),
		Text:        lipgloss.Color("#cdd6f4"),
		TextDim:     lipgloss.Color("#6c7086"),
	}

	NordTheme = TUITheme{
		Name:        "nord",
		Description: "Nord, cool arctic tones",
		Surface:     lipgloss.Color("#3b4252"),
		Border:      lipgloss.Color("#4c566a"),
		Primary:     lipgloss.Color("#88c0d0"),
		Secondary:   lipgloss.Color("#a3be8c"),
		Accent:      lipgloss.Color("#b48ead"),
		Warning:     lipgloss.Color("#ebcb8b"),
		Error:       lipgloss.Color("#bf616a"),
		Text:        lipgloss.Color("#eceff4"),
		TextDim:     lipgloss.Color("#7b88a1"),
	}
)

var (
	themeMu      sync.RWMutex
	currentTheme = TokyoNightTheme
)

// GetTUITheme returns the active theme
func GetTUITheme() TUITheme {
	themeMu.RLock()
	defer themeMu.RUnlock()
	return currentTheme
}

// SetTUITheme activates the named theme. Unknown names leave it unchanged.
func SetTUITheme(name string) bool {
	theme, ok := GetTUIThemeByName(name)
	if !ok {
		return false
	}
	themeMu.Lock()
	currentTheme = theme
	themeMu.Unlock()
	return true
}

// GetTUIThemeByName looks up a theme
func GetTUIThemeByName(name string) (TUITheme, bool) {
	for _, theme := range AvailableTUIThemes() {
		if theme.Name == name {
			return theme, true
		}
	}
	return TUITheme{}, false
}

// AvailableTUIThemes lists the built-in themes
func AvailableTUIThemes() []TUITheme {
	return []TUITheme{TokyoNightTheme, CatppuccinTheme, NordTheme}
}

// TUIThemeNames lists the built-in theme names
func TUIThemeNames() []string {
	themes := AvailableTUIThemes()
	names := make([]string, len(themes))
	for i, t := range themes {
		names[i] = t.Name
	}
	return names
}
