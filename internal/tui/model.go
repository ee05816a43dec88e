package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/chat"
	"github.com/diogo/ragchat/internal/models"
)

type animationTickMsg time.Time

type (
	bootstrappedMsg struct {
		sessionID string
	}
	answeredMsg struct {
		reply models.Message
	}
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// Model is the chat screen
type Model struct {
	ctx    context.Context
	ctrl   *chat.Controller
	logger *zap.Logger
	opts   ViewOptions

	viewport viewport.Model
	input    Input
	spinner  spinner.Model

	ready          bool
	animationFrame int
	notice         string

	width  int
	height int
}

// NewChatModel creates the chat screen around ctrl
func NewChatModel(ctx context.Context, ctrl *chat.Controller, opts ViewOptions, logger *zap.Logger) Model {
	if logger == nil {
		logger = zap.NewNop()
	}

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	m := Model{
		ctx:     ctx,
		ctrl:    ctrl,
		logger:  logger,
		opts:    opts,
		input:   NewInput(),
		spinner: s,
	}
	m.syncInput()
	return m
}

// Init starts the session bootstrap
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.bootstrap(),
	)
}

func (m Model) bootstrap() tea.Cmd {
	return func() tea.Msg {
		return bootstrappedMsg{sessionID: m.ctrl.Bootstrap(m.ctx)}
	}
}

func (m Model) resolve(question string) tea.Cmd {
	return func() tea.Msg {
		return answeredMsg{reply: m.ctrl.Resolve(m.ctx, question)}
	}
}

func animationTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 3
		inputHeight := 6
		statusHeight := 1
		padding := 3

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}
		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.input.SetWidth(contentWidth - 4)
		m.refresh()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+y":
			m.notice = m.copyLastAnswer()
			return m, nil

		case "enter":
			question, ok := m.input.Submit()
			if !ok {
				return m, nil
			}
			if question == "/exit" || question == "/quit" {
				return m, tea.Quit
			}

			if err := m.ctrl.Submit(question); err != nil {
				m.logger.Debug("question rejected", zap.Error(err))
				m.input.SetValue(question)
				return m, nil
			}

			m.notice = ""
			m.animationFrame = 0
			m.syncInput()
			m.refresh()

			return m, tea.Batch(
				m.resolve(question),
				m.spinner.Tick,
				animationTick(),
			)
		}

		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)

	case bootstrappedMsg:
		m.logger.Debug("chat ready",
			zap.String("session_id", msg.sessionID),
			zap.Bool("offline", m.ctrl.Offline()))
		m.syncInput()
		m.refresh()

	case answeredMsg:
		m.syncInput()
		m.refresh()

	case spinner.TickMsg:
		if m.ctrl.Busy() {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.ctrl.Busy() {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	m.viewport, cmd = m.viewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// syncInput mirrors the controller's readiness onto the input
func (m *Model) syncInput() {
	m.input.SetBusy(m.ctrl.Busy())
	m.input.SetDisabled(!m.ctrl.Ready())
}

// refresh redraws the transcript and keeps the newest entry in view
func (m *Model) refresh() {
	if !m.ready {
		return
	}
	opts := m.opts
	opts.Width = m.viewport.Width - 2
	m.viewport.SetContent(RenderTranscript(m.ctrl.Transcript(), m.ctrl.Busy(), opts))
	m.viewport.GotoBottom()
}

func (m Model) copyLastAnswer() string {
	answer := m.ctrl.LastAnswer()
	if answer == "" {
		return "Nothing to copy"
	}
	if err := copyToClipboard(answer); err != nil {
		m.logger.Warn("clipboard copy failed", zap.Error(err))
		return "Copy failed: " + err.Error()
	}
	return "Copied last answer"
}

// View renders the chat screen
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	contentWidth := m.width - 4
	sections := []string{
		headerStyle.Width(contentWidth).Render(m.renderHeader()),
		messagesAreaStyle.Width(contentWidth).Height(m.viewport.Height).Render(m.viewport.View()),
		inputPanelStyle.Width(contentWidth).Render(m.renderInput()),
		m.renderStatusBar(contentWidth),
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderHeader() string {
	session := m.ctrl.SessionID()
	if session == "" {
		session = "creating..."
	}

	parts := []string{
		titleStyle.Render(models.Title),
		hintStyle.Render("  •  "),
		subtitleStyle.Render("Session: " + session),
	}
	if m.ctrl.Offline() {
		parts = append(parts, offlineStyle.Render("  (offline)"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, parts...)
}

func (m Model) renderInput() string {
	if m.ctrl.Busy() {
		return lipgloss.JoinVertical(lipgloss.Left,
			m.renderLoadingAnimation(),
			m.input.View(),
		)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		inputLabelStyle.Render("Question"),
		m.input.View(),
	)
}

// renderLoadingAnimation draws the gradient spinner shown while waiting
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	frame := m.animationFrame

	spin := lipgloss.NewStyle().
		Foreground(gradientColors[frame%len(gradientColors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	var bar strings.Builder
	for i := 0; i < 16; i++ {
		style := lipgloss.NewStyle().Foreground(gradientColors[(i+frame)%len(gradientColors)])
		bar.WriteString(style.Render("▰"))
	}

	return fmt.Sprintf("%s %s %s", spin, bar.String(), lipgloss.NewStyle().Foreground(colorText).Render(models.LoadingText))
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+Y", "Copy answer"},
		{"↑↓", "Scroll"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	bar := strings.Join(items, "  │  ")
	if m.notice != "" {
		bar = noticeStyle.Render(m.notice) + "  │  " + bar
	}
	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(bar)
}

// RunChat runs the chat screen until the user quits
func RunChat(ctx context.Context, ctrl *chat.Controller, opts ViewOptions, logger *zap.Logger) error {
	m := NewChatModel(ctx, ctrl, opts, logger)

	p := tea.NewProgram(
		m,
		tea.WithAltScreen(),
		tea.WithContext(ctx),
	)

	_, err := p.Run()
	return err
}
