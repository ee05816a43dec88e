package commands

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/diogo/ragchat/internal/models"
	"github.com/diogo/ragchat/internal/render"
	"github.com/diogo/ragchat/internal/tui"
)

// copyToClipboard is replaced in tests
var copyToClipboard = clipboard.WriteAll

// stdoutIsTTY is replaced in tests
var stdoutIsTTY = isStdoutTTY

type askOptions struct {
	file    string
	sources bool
	copy    bool
}

// NewAskCmd creates the one-shot question command
func NewAskCmd(deps *Dependencies) *cobra.Command {
	var opts askOptions

	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a single question and print the answer",
		Long: `Ask a single question and print the answer.

The question is read from the argument, from --file, or from stdin.
When stdout is not a terminal only the answer text is printed.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			question, err := readQuestion(args, opts.file, cmd.InOrStdin())
			if err != nil {
				return err
			}
			return runAsk(cmd, deps, question, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the question from file")
	cmd.Flags().BoolVar(&opts.sources, "sources", false, "Print the retrieved passages after the answer")
	cmd.Flags().BoolVar(&opts.copy, "copy", false, "Copy the answer to the clipboard")

	return cmd
}

// readQuestion picks the question from --file, the argument, or piped stdin
func readQuestion(args []string, file string, stdin io.Reader) (string, error) {
	var question string
	switch {
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("failed to read file: %w", err)
		}
		question = string(data)
	case len(args) > 0:
		question = args[0]
	case stdinIsPiped(stdin):
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		question = string(data)
	}

	question = strings.TrimSpace(question)
	if question == "" {
		return "", errors.New("question cannot be empty")
	}
	return question, nil
}

// stdinIsPiped reports whether r carries input that is not a terminal
func stdinIsPiped(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return r != nil
	}
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) == 0
}

func runAsk(cmd *cobra.Command, deps *Dependencies, question string, opts askOptions) error {
	ctrl, release, err := deps.newController(cfg)
	if err != nil {
		return err
	}
	defer release()

	out := cmd.OutOrStdout()
	errOut := cmd.ErrOrStderr()
	decorated := stdoutIsTTY()

	var spin *spinner
	if decorated {
		spin = newSpinner(errOut, "Waiting for the assistant")
		spin.start()
	}

	ctrl.Bootstrap(cmd.Context())
	if ctrl.Offline() {
		logger.Warn("session could not be created, continuing offline",
			zap.String("session_id", ctrl.SessionID()))
	}

	reply, err := ctrl.Send(cmd.Context(), question)
	if err == nil {
		err = ctrl.LastError()
	}
	if err != nil {
		if spin != nil {
			spin.stopWithError()
		}
		fmt.Fprintln(errOut, tui.FormatError(err))
		return err
	}
	if spin != nil {
		spin.stopWithSuccess("Done")
	}

	if decorated {
		printDecorated(out, reply.Content)
	} else {
		fmt.Fprintln(out, reply.Content)
	}

	if opts.sources {
		printSources(out, ctrl.Sources())
	}

	if opts.copy || cfg.CopyToClipboard {
		if err := copyToClipboard(reply.Content); err != nil {
			logger.Warn("failed to copy to clipboard", zap.Error(err))
			fmt.Fprintf(errOut, "Failed to copy to clipboard: %v\n", err)
		} else if decorated {
			fmt.Fprintln(errOut, "✓ Copied to clipboard")
		}
	}

	return nil
}

// printDecorated prints the answer in a labelled bubble sized to the terminal
func printDecorated(out io.Writer, answer string) {
	bubbleWidth := getTerminalWidth() - 4
	if bubbleWidth < 40 {
		bubbleWidth = 40
	}
	if bubbleWidth > 120 {
		bubbleWidth = 120
	}

	content := answer
	if cfg.Markdown {
		content = render.Answer(answer, render.OptionsFromConfig(&cfg, bubbleWidth-4))
	}

	theme := render.GetTUITheme()
	label := lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(tui.Label(models.RoleAssistant))
	bubble := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Foreground(theme.Text).
		Padding(0, 1).
		Width(bubbleWidth).
		Render(content)

	fmt.Fprintln(out, label)
	fmt.Fprintln(out, bubble)
}

// printSources lists the retrieved passages behind the last answer
func printSources(out io.Writer, sources []models.Chunk) {
	if len(sources) == 0 {
		fmt.Fprintln(out, "\nSources: none")
		return
	}
	fmt.Fprintln(out, "\nSources:")
	for i, src := range sources {
		fmt.Fprintf(out, "  %d. %s [%s] score %.4f\n", i+1, src.Title, src.ChunkID, src.Score)
	}
}

// getTerminalWidth returns the terminal width or a default value
func getTerminalWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// isStdoutTTY returns true if stdout is connected to a terminal
func isStdoutTTY() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}
