package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"avatarquest/internal/ui"
)

const Version = "0.1.0"

var dbPath string

var rootCmd = &cobra.Command{
	Use:           "aq",
	Short:         "Avatar Quest — earn XP for finished tasks and keep your avatar cheering",
	Long:          "Avatar Quest is a task tracker with XP, levels and an avatar companion that reacts to your progress.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database path (overrides AQ_DB_PATH)")

	rootCmd.AddCommand(
		newServeCmd(),
		newUserCmd(),
		newTaskCmd(),
		newDoCmd(),
		newAvatarCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
