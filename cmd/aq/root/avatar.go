package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"avatarquest/internal/ui"
)

func newAvatarCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "avatar <user-id>",
		Short: "Show the avatar's current state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			v, err := svc.AvatarState(ctx, args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "Avatar"))
			fmt.Fprintln(out, ui.LabelValue("Mood", ui.MoodFace(v.Mood)))
			fmt.Fprintln(out, ui.LabelValue("Animation", ui.AnimationText(v.Animation)))
			fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d (XP %d)", v.Level, v.XP)))
			fmt.Fprintln(out, ui.Panel.Render(ui.IconChat+" "+v.Message))
			return nil
		},
	}
}
