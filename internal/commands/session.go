package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/diogo/ragchat/internal/models"
)

// NewSessionCmd creates the session command
func NewSessionCmd(deps *Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Show or reset the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionShow(cmd, deps)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the stored session identifier",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionShow(cmd, deps)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Forget the stored session identifier",
		Long: `Forget the stored session identifier.
The next chat or ask run requests a new session from the service.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSessionReset(cmd, deps)
		},
	})

	return cmd
}

func runSessionShow(cmd *cobra.Command, deps *Dependencies) error {
	store, err := deps.store()
	if err != nil {
		return err
	}

	id, ok, err := store.Get(models.SessionKey)
	if err != nil {
		return fmt.Errorf("failed to read stored session: %w", err)
	}
	if !ok || id == "" {
		fmt.Fprintln(cmd.OutOrStdout(), "No stored session")
		return nil
	}

	if models.IsOfflineSession(id) {
		fmt.Fprintf(cmd.OutOrStdout(), "%s (offline)\n", id)
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), id)
	return nil
}

func runSessionReset(cmd *cobra.Command, deps *Dependencies) error {
	ctrl, release, err := deps.newController(cfg)
	if err != nil {
		return err
	}
	defer release()

	if err := ctrl.Reset(); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "Session cleared")
	return nil
}
