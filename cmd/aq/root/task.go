package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"avatarquest/internal/engine"
	"avatarquest/internal/ui"
)

func newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Manage tasks",
	}
	cmd.AddCommand(newTaskAddCmd(), newTaskListCmd(), newTaskRmCmd())
	return cmd
}

func newTaskAddCmd() *cobra.Command {
	var desc string
	var xp int

	cmd := &cobra.Command{
		Use:   "add <user-id> <title>",
		Short: "Add a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("user id and title are required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if xp <= 0 {
				return errors.New("--xp must be positive")
			}
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			in := engine.CreateTaskInput{UserID: args[0], Title: args[1], XPReward: xp}
			if desc != "" {
				in.Description = &desc
			}
			t, err := svc.CreateTask(ctx, in)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconPlus+" Added"), t.Title, ui.Muted.Render(t.ID), ui.Muted.Render(fmt.Sprintf("(+%d XP)", t.XPReward)))
			return nil
		},
	}

	cmd.Flags().StringVarP(&desc, "desc", "d", "", "Description")
	cmd.Flags().IntVarP(&xp, "xp", "x", engine.DefaultXPReward, "XP reward")
	return cmd
}

func newTaskListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list <user-id>",
		Short: "List a user's tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			tasks, err := svc.ListTasks(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconTask, "Tasks"))
			if len(tasks) == 0 {
				fmt.Fprintln(out, ui.Muted.Render("(none)"))
				return nil
			}
			for _, t := range tasks {
				fmt.Fprintf(out, "- %s %s %s %s\n", ui.StatusText(t.Completed), t.Title, ui.Muted.Render(fmt.Sprintf("+%d XP", t.XPReward)), ui.Muted.Render(t.ID))
			}
			return nil
		},
	}
}

func newTaskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <task-id>",
		Short: "Delete a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.DeleteTask(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconTrash+" Deleted"), args[0])
			return nil
		},
	}
}
