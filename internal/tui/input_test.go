package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestNewInput(t *testing.T) {
	in := NewInput()

	if in.Disabled() {
		t.Error("new input should be enabled")
	}
	if in.textarea.Placeholder != "Ask about university policy..." {
		t.Errorf("Placeholder = %q", in.textarea.Placeholder)
	}
	if in.ButtonLabel() != "Send" {
		t.Errorf("ButtonLabel() = %q", in.ButtonLabel())
	}
}

func TestInput_Submit(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		disabled  bool
		want      string
		wantOK    bool
		wantValue string
	}{
		{"trims and clears", "  What is the refund policy?  ", false, "What is the refund policy?", true, ""},
		{"blank is ignored", "   ", false, "", false, "   "},
		{"empty is ignored", "", false, "", false, ""},
		{"disabled is ignored", "hello", true, "", false, "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := NewInput()
			in.SetValue(tt.value)
			in.SetDisabled(tt.disabled)

			got, ok := in.Submit()
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Submit() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
			if in.Value() != tt.wantValue {
				t.Errorf("Value() after Submit = %q, want %q", in.Value(), tt.wantValue)
			}
		})
	}
}

func TestInput_ButtonLabel(t *testing.T) {
	in := NewInput()

	in.SetBusy(true)
	in.SetDisabled(true)
	if in.ButtonLabel() != "Thinking..." {
		t.Errorf("busy ButtonLabel() = %q", in.ButtonLabel())
	}

	// Disabled without a request in flight, e.g. while the session is created
	in.SetBusy(false)
	if in.ButtonLabel() != "Send" {
		t.Errorf("idle ButtonLabel() = %q", in.ButtonLabel())
	}
}

func TestInput_UpdateIgnoredWhenDisabled(t *testing.T) {
	in := NewInput()
	in.SetDisabled(true)

	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if in.Value() != "" {
		t.Errorf("disabled input accepted text: %q", in.Value())
	}

	in.SetDisabled(false)
	in, _ = in.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("x")})
	if in.Value() != "x" {
		t.Errorf("enabled input Value() = %q, want x", in.Value())
	}
}
