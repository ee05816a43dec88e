package render

import (
	"os"

	"github.com/diogo/ragchat/internal/config"
)

// OptionsFromConfig derives render options from cfg at the given width.
// GLAMOUR_STYLE overrides the configured style.
func OptionsFromConfig(cfg *config.Config, width int) Options {
	opts := DefaultOptions().WithWidth(width)
	if cfg != nil {
		opts = opts.WithStyle(cfg.MarkdownStyle)
	}
	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
