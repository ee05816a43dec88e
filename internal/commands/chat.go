package commands

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/tui"
)

// NewChatCmd creates the interactive chat command
func NewChatCmd(deps *Dependencies) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive chat session",
		Long: `Start an interactive chat session with the question-answering service.

A session identifier is created on first use and reused on later runs.
Type /exit or /quit, or press Ctrl+C to end the session.`,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{logAnnotation: logToFile},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, deps)
		},
	}
}

func runChat(cmd *cobra.Command, deps *Dependencies) error {
	ctrl, release, err := deps.newController(cfg)
	if err != nil {
		return err
	}
	defer release()

	logger.Info("starting chat", zap.String("api_url", cfg.APIURL))

	opts := tui.ViewOptions{
		Markdown: cfg.Markdown,
		Style:    cfg.MarkdownStyle,
	}
	return deps.TUI.RunChat(cmd.Context(), ctrl, opts, logger)
}
