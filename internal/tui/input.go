package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Placeholder shown in an empty input field
const Placeholder = "Ask about university policy..."

// Input is the question field with its send button
type Input struct {
	textarea textarea.Model
	disabled bool
	busy     bool
}

// NewInput creates an enabled, focused input
func NewInput() Input {
	ta := textarea.New()
	ta.Placeholder = Placeholder
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorTextDim)
	ta.BlurredStyle = ta.FocusedStyle

	return Input{textarea: ta}
}

// SetDisabled enables or disables the field. A disabled field ignores
// keystrokes and Submit.
func (in *Input) SetDisabled(disabled bool) {
	in.disabled = disabled
	if disabled {
		in.textarea.Blur()
	} else {
		in.textarea.Focus()
	}
}

// SetBusy marks a request as outstanding, which changes the button label
func (in *Input) SetBusy(busy bool) {
	in.busy = busy
}

// Disabled reports whether the field is disabled
func (in Input) Disabled() bool {
	return in.disabled
}

// Value returns the current text
func (in Input) Value() string {
	return in.textarea.Value()
}

// SetValue replaces the current text
func (in *Input) SetValue(s string) {
	in.textarea.SetValue(s)
}

// SetWidth sets the field width
func (in *Input) SetWidth(w int) {
	in.textarea.SetWidth(w)
}

// Submit returns the trimmed text and clears the field. It does nothing
// and returns false when disabled or when the text is blank.
func (in *Input) Submit() (string, bool) {
	if in.disabled {
		return "", false
	}
	question := strings.TrimSpace(in.textarea.Value())
	if question == "" {
		return "", false
	}
	in.textarea.Reset()
	return question, true
}

// ButtonLabel returns the send button text
func (in Input) ButtonLabel() string {
	if in.busy {
		return "Thinking..."
	}
	return "Send"
}

// Update forwards key input to the field unless disabled
func (in Input) Update(msg tea.Msg) (Input, tea.Cmd) {
	if in.disabled {
		return in, nil
	}
	var cmd tea.Cmd
	in.textarea, cmd = in.textarea.Update(msg)
	return in, cmd
}

// View renders the field and the button
func (in Input) View() string {
	button := buttonStyle.Render(in.ButtonLabel())
	if in.disabled {
		button = buttonDisabledStyle.Render(in.ButtonLabel())
	}
	return lipgloss.JoinVertical(lipgloss.Left, in.textarea.View(), button)
}
