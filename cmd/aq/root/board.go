package root

import (
	"context"

	"github.com/spf13/cobra"

	"avatarquest/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board <user-id>",
		Short: "Open the TUI dashboard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, svc, args[0], cmd.OutOrStdout())
		},
	}

	return cmd
}
