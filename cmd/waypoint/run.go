package main

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/cli"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run <definition.yaml>",
	Short: "Drive a navigation definition interactively",
	Long: `Starts a playground on the definition's navigation tree. Type help for the commands.
With --session the playground works on a flat back stack that is persisted after every step.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID, _ := cmd.Flags().GetString("session")
		debug, _ := cmd.Flags().GetBool("debug")
		fresh, _ := cmd.Flags().GetBool("fresh")

		opts := cli.RunOptions{
			DefinitionPath: args[0],
			SessionID:      sessionID,
			Debug:          debug,
			In:             os.Stdin,
			Out:            os.Stdout,
			Profile:        termenv.ColorProfile(),
		}

		if sessionID != "" {
			sessions, closeFn := getSessions(cmd)
			defer closeFn()
			if fresh {
				_ = sessions.Delete(cmd.Context(), sessionID)
			}
			opts.Sessions = sessions
		}

		if err := cli.Execute(cmd.Context(), opts); err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringP("session", "s", "", "Session ID; persists a flat back stack")
	runCmd.Flags().Bool("fresh", false, "Discard the stored session before starting")
	runCmd.Flags().Bool("debug", false, "Log navigation details to stderr")
}
