package tui

import (
	"strings"

	"github.com/diogo/ragchat/internal/models"
	"github.com/diogo/ragchat/internal/render"
)

// ViewOptions controls how transcript entries are drawn
type ViewOptions struct {
	// Width is the width available to one message block
	Width int
	// Markdown renders assistant content through glamour
	Markdown bool
	// Style is the glamour style used when Markdown is set
	Style string
}

// Label returns the display label for role
func Label(role models.Role) string {
	if role == models.RoleUser {
		return "You"
	}
	return "Assistant"
}

// RenderMessage draws a single transcript entry: its label, then its
// content. Content is shown verbatim unless markdown is enabled for
// assistant entries.
func RenderMessage(msg models.Message, opts ViewOptions) string {
	bubbleWidth := opts.Width - 6
	if bubbleWidth < 10 {
		bubbleWidth = 10
	}

	if msg.Role == models.RoleUser {
		label := userLabelStyle.Render(Label(msg.Role))
		bubble := userBubbleStyle.Width(bubbleWidth).Render(msg.Content)
		return label + "\n" + bubble
	}

	content := msg.Content
	if opts.Markdown {
		ropts := render.DefaultOptions().WithWidth(bubbleWidth - 4).WithStyle(opts.Style)
		content = render.Answer(msg.Content, ropts)
	}

	label := assistantLabelStyle.Render(Label(msg.Role))
	bubble := assistantBubbleStyle.Width(bubbleWidth).Render(strings.TrimRight(content, "\n"))
	return label + "\n" + bubble
}
