package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/domain"
)

var sessionCmd = &cobra.Command{
	Use:   "session",
	Short: "Manage persisted navigation sessions",
	Long:  `List, inspect, and remove navigation sessions stored in .waypoint/sessions or Redis.`,
}

var sessionLsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List all stored sessions",
	Run: func(cmd *cobra.Command, args []string) {
		sessions, closeFn := getSessions(cmd)
		defer closeFn()

		ids, err := sessions.List(cmd.Context())
		if err != nil {
			fmt.Printf("Error listing sessions: %v\n", err)
			os.Exit(1)
		}

		if len(ids) == 0 {
			fmt.Println("No stored sessions found.")
			return
		}

		fmt.Println("Stored Sessions:")
		for _, s := range ids {
			fmt.Println("- " + s)
		}
	},
}

var sessionInspectCmd = &cobra.Command{
	Use:   "inspect <session-id>",
	Short: "Inspect the back stack of a session",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		sessionID := args[0]
		sessions, closeFn := getSessions(cmd)
		defer closeFn()

		snap, err := sessions.Load(cmd.Context(), sessionID)
		if err != nil {
			fmt.Printf("Error loading session '%s': %v\n", sessionID, err)
			os.Exit(1)
		}

		pretty, _ := cmd.Flags().GetBool("pretty")
		if pretty && term.IsTerminal(int(os.Stdout.Fd())) {
			width, _, err := term.GetSize(int(os.Stdout.Fd()))
			if err != nil {
				width = 0
			}
			out, err := tui.NewRenderer(width)(snapshotMarkdown(sessionID, snap))
			if err == nil {
				fmt.Print(out)
				return
			}
		}

		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			fmt.Printf("Error marshaling snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
	},
}

var sessionRmCmd = &cobra.Command{
	Use:   "rm <session-id>...",
	Short: "Remove one or more sessions",
	Args: func(cmd *cobra.Command, args []string) error {
		if all, _ := cmd.Flags().GetBool("all"); all {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.MinimumNArgs(1)(cmd, args)
	},
	Run: func(cmd *cobra.Command, args []string) {
		sessions, closeFn := getSessions(cmd)
		defer closeFn()

		if all, _ := cmd.Flags().GetBool("all"); all {
			ids, err := sessions.List(cmd.Context())
			if err != nil {
				fmt.Printf("Error listing sessions: %v\n", err)
				os.Exit(1)
			}
			args = ids
		}

		hasError := false
		for _, sessionID := range args {
			if err := sessions.Delete(cmd.Context(), sessionID); err != nil {
				fmt.Printf("Error removing '%s': %v\n", sessionID, err)
				hasError = true
			} else {
				fmt.Printf("Removed session '%s'\n", sessionID)
			}
		}

		if hasError {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(sessionCmd)
	sessionCmd.AddCommand(sessionLsCmd)
	sessionCmd.AddCommand(sessionInspectCmd)
	sessionCmd.AddCommand(sessionRmCmd)

	sessionInspectCmd.Flags().Bool("pretty", false, "Render the back stack as a table on terminals")
	sessionRmCmd.Flags().Bool("all", false, "Remove every stored session")
}

// snapshotMarkdown renders a snapshot as a markdown table, newest entry first.
func snapshotMarkdown(sessionID string, snap *domain.StackSnapshot) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# Session `%s`\n\n", sessionID)
	fmt.Fprintf(&sb, "Saved at %s, %d entries.\n\n", snap.SavedAt.Format("2006-01-02 15:04:05 MST"), len(snap.Entries))
	sb.WriteString("| # | Screen | Kind | Payload | Saved state |\n")
	sb.WriteString("|---|--------|------|---------|-------------|\n")
	for i := len(snap.Entries) - 1; i >= 0; i-- {
		e := snap.Entries[i]
		payload := "-"
		if e.Payload != nil {
			payload = "`" + strings.ReplaceAll(e.Payload.Encoded, "|", "\\|") + "`"
		}
		state := "-"
		if len(e.SavedState) > 0 {
			state = fmt.Sprintf("%d bytes", len(e.SavedState))
		}
		fmt.Fprintf(&sb, "| %d | %s | %s | %s | %s |\n", i, e.ScreenKey, e.Kind, payload, state)
	}
	return sb.String()
}
