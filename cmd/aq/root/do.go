package root

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"avatarquest/internal/engine"
	"avatarquest/internal/ui"
)

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <task-id>",
		Short: "Complete a task",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("task id is required")
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

			res, err := svc.CompleteTask(ctx, args[0])
			if err != nil {
				return err
			}
			printCompletion(cmd.OutOrStdout(), res)
			return nil
		},
	}

	return cmd
}

func printCompletion(out io.Writer, res *engine.CompleteResult) {
	fmt.Fprintf(out, "%s %s\n", ui.Good.Render(ui.IconDone+" Completed"), ui.Gold.Render(fmt.Sprintf("+%d XP", res.XPGained)))
	level := fmt.Sprintf("%d (XP %d)", res.NewLevel, res.NewXP)
	if res.LevelUp {
		level += " " + ui.BadgeLevelUp + " " + ui.IconTrophy
	}
	fmt.Fprintln(out, ui.LabelValue("Level", level))
	fmt.Fprintln(out, ui.LabelValue("Avatar", ui.MoodFace(res.AvatarMood)+" "+ui.AnimationText(res.Animation)))
	fmt.Fprintln(out, ui.Panel.Render(ui.IconChat+" "+res.AIMessage))
}
