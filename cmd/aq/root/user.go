package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"avatarquest/internal/engine"
	"avatarquest/internal/ui"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd(), newUserShowCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <email>",
		Short: "Create a user",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("name and email are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			u, err := svc.CreateUser(ctx, engine.CreateUserInput{Name: args[0], Email: args[1]})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconPlus+" Created"), u.Name, ui.Muted.Render(u.ID))
			return nil
		},
	}
}

func newUserShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a user's progress",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			u, err := svc.GetUser(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			next := engine.XPRequiredForLevel(u.Level + 1)
			fmt.Fprintln(out, ui.Heading(ui.IconUser, u.Name))
			fmt.Fprintln(out, ui.LabelValue("Email", u.Email))
			fmt.Fprintln(out, ui.LabelValue("Level", u.Level))
			fmt.Fprintln(out, ui.LabelValue("XP", fmt.Sprintf("%d (next level at %d, %d to go)", u.XP, next, engine.XPToNextLevel(u.XP))))
			fmt.Fprintln(out, ui.LabelValue("Mood", ui.MoodFace(u.AvatarMood)))
			return nil
		},
	}
}
