// Package render turns assistant answers into styled terminal output.
package render

// Options configures markdown rendering
type Options struct {
	// Width is the word-wrap column; 0 disables wrapping
	Width int

	// Style is a glamour standard style name or a path to a JSON style file
	Style string

	// PreserveNewLines keeps single line breaks from the source text
	PreserveNewLines bool
}

// DefaultOptions returns the options used when nothing is configured
func DefaultOptions() Options {
	return Options{
		Width:            80,
		Style:            StyleDark,
		PreserveNewLines: true,
	}
}

// WithWidth returns a copy with the wrap width set
func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

// WithStyle returns a copy with the style set. An empty style is ignored.
func (o Options) WithStyle(style string) Options {
	if style != "" {
		o.Style = style
	}
	return o
}
