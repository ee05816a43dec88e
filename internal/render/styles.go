package render

import (
	"github.com/charmbracelet/glamour/styles"
)

// Standard glamour style names
const (
	StyleDark       = styles.DarkStyle
	StyleLight      = styles.LightStyle
	StyleDracula    = styles.DraculaStyle
	StyleTokyoNight = styles.TokyoNightStyle
	StyleNoTTY      = styles.NoTTYStyle
	StyleASCII      = styles.AsciiStyle
)

// IsStandardStyle reports whether name is compiled into glamour.
// Any other value is treated as a path to a style file.
func IsStandardStyle(name string) bool {
	_, ok := styles.DefaultStyles[name]
	return ok
}

// StyleNames lists the standard styles offered in configuration
func StyleNames() []string {
	return []string{StyleDark, StyleLight, StyleDracula, StyleTokyoNight, StyleNoTTY, StyleASCII}
}
