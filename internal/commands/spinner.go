package commands

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/diogo/ragchat/internal/render"
)

// Gradient colors for animation
var gradientColors = []lipgloss.Color{
	lipgloss.Color("#ff6b6b"),
	lipgloss.Color("#feca57"),
	lipgloss.Color("#48dbfb"),
	lipgloss.Color("#ff9ff3"),
	lipgloss.Color("#54a0ff"),
	lipgloss.Color("#5f27cd"),
	lipgloss.Color("#00d2d3"),
	lipgloss.Color("#1dd1a1"),
}

var spinnerChars = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

// spinner draws an animated waiting line on a terminal
type spinner struct {
	out     io.Writer
	message string
	stop    chan struct{}
	done    chan struct{}
	mu      sync.Mutex
	frame   int
	stopped bool
}

func newSpinner(out io.Writer, message string) *spinner {
	return &spinner{
		out:     out,
		message: message,
		stop:    make(chan struct{}),
		done:    make(chan struct{}),
	}
}

func (s *spinner) start() {
	go func() {
		defer close(s.done)

		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		// Hide cursor
		fmt.Fprint(s.out, "\033[?25l")

		for {
			select {
			case <-s.stop:
				// Clear line and show cursor
				fmt.Fprint(s.out, "\r\033[K\033[?25h")
				return
			case <-ticker.C:
				s.mu.Lock()
				fmt.Fprint(s.out, "\r\033[K"+s.frameText())
				s.frame++
				s.mu.Unlock()
			}
		}
	}()
}

// frameText renders the current frame: spinner glyph, message, dots
func (s *spinner) frameText() string {
	theme := render.GetTUITheme()

	glyph := lipgloss.NewStyle().
		Foreground(gradientColors[s.frame%len(gradientColors)]).
		Bold(true).
		Render(spinnerChars[s.frame%len(spinnerChars)])

	var dots strings.Builder
	filled := (s.frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < filled {
			dots.WriteString(lipgloss.NewStyle().Foreground(gradientColors[(s.frame+i)%len(gradientColors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("○"))
		}
	}

	msg := lipgloss.NewStyle().Foreground(theme.Text).Render(s.message)
	return fmt.Sprintf("%s %s %s", glyph, msg, dots.String())
}

func (s *spinner) stopOnce() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.stopped {
		close(s.stop)
		s.stopped = true
	}
}

// stopWithSuccess stops the spinner and prints a check line
func (s *spinner) stopWithSuccess(message string) {
	s.stopOnce()
	<-s.done

	theme := render.GetTUITheme()
	ok := lipgloss.NewStyle().Foreground(theme.Accent).Bold(true)
	fmt.Fprintf(s.out, "%s %s\n", ok.Render("✓"), ok.UnsetBold().Render(message))
}

// stopWithError stops the spinner and leaves the line blank
func (s *spinner) stopWithError() {
	s.stopOnce()
	<-s.done
}
