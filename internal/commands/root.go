// Package commands provides CLI commands for ragchat.
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/diogo/ragchat/internal/config"
	"github.com/diogo/ragchat/internal/render"
	"github.com/diogo/ragchat/internal/tui"
)

var (
	// Global flags
	apiURLFlag  string
	timeoutFlag time.Duration
	verboseFlag bool
	configFlag  string

	// Version info (set at build time)
	Version   = "0.1.0"
	BuildTime = "unknown"

	// Loaded in PersistentPreRunE
	cfg    = config.DefaultConfig()
	logger = zap.NewNop()
)

// rootCmd represents the base command
var rootCmd = NewRootCmd(NewDependencies())

// NewRootCmd builds the command tree around deps
func NewRootCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ragchat",
		Short: "Chat client for a retrieval-augmented question-answering service",
		Long: `ragchat talks to a question-answering service that answers from a
corpus of university policy documents. It can also run that service.

Examples:
  ragchat chat                          Start interactive chat
  ragchat ask "What is the refund policy?"
  cat question.txt | ragchat ask        Read the question from stdin
  ragchat ingest --docs data/docs.json  Build the vector store
  ragchat serve                         Run the service on :8000`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = logger.Sync()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if v, _ := cmd.Flags().GetBool("version"); v {
				fmt.Fprintf(cmd.OutOrStdout(), "ragchat %s (built %s)\n", Version, BuildTime)
				return nil
			}
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().StringVar(&apiURLFlag, "api-url", "", "Base URL of the question-answering service")
	cmd.PersistentFlags().DurationVar(&timeoutFlag, "timeout", 0, "Per-request timeout (0 waits indefinitely)")
	cmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")
	cmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file (default ~/.ragchat/config.json)")
	cmd.Flags().Bool("version", false, "Show version and exit")

	cmd.AddCommand(NewChatCmd(deps))
	cmd.AddCommand(NewAskCmd(deps))
	cmd.AddCommand(NewSessionCmd(deps))
	cmd.AddCommand(NewConfigCmd(deps))
	cmd.AddCommand(NewServeCmd(deps))
	cmd.AddCommand(NewIngestCmd(deps))

	return cmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration, applies flag overrides and builds the logger
func setup(cmd *cobra.Command) error {
	loaded, err := loadConfig()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("api-url") {
		loaded.APIURL = apiURLFlag
	}
	if flags.Changed("timeout") {
		loaded.RequestTimeout = timeoutFlag.String()
	}
	if flags.Changed("verbose") {
		loaded.Verbose = verboseFlag
	}
	cfg = loaded

	if !render.SetTUITheme(cfg.TUITheme) {
		render.SetTUITheme(render.TokyoNightTheme.Name)
	}
	tui.UpdateTheme()

	l, err := newLogger(cfg, logTarget(cmd))
	if err != nil {
		return err
	}
	logger = l
	return nil
}

func loadConfig() (config.Config, error) {
	if configFlag != "" {
		return config.LoadConfigFrom(configFlag)
	}
	return config.LoadConfig()
}
