package main

import (
	"fmt"
	"io"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint/internal/presentation/tui"
	"github.com/aretw0/waypoint/pkg/schema"
)

var validateCmd = &cobra.Command{
	Use:   "validate <definition.yaml>",
	Short: "Check a navigation definition for consistency",
	Long:  `Parses the definition, checks every screen against its route params and reports all problems at once.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(os.Stdout, args[0], termenv.ColorProfile()); err != nil {
			os.Exit(1)
		}
		fmt.Println("Definition is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// runValidate prints the built tree, or every problem found.
func runValidate(w io.Writer, path string, p termenv.Profile) error {
	doc, err := schema.Load(path)
	if err != nil {
		fmt.Fprintf(w, "Validation failed: %v\n", err)
		return err
	}

	def, err := schema.Build(doc)
	if err != nil {
		errs := schema.Errors(err)
		fmt.Fprintf(w, "Validation failed with %d problem(s):\n", len(errs))
		for _, e := range errs {
			fmt.Fprintf(w, "  - %v\n", e)
		}
		return err
	}

	fmt.Fprintf(w, "Routes: %v\n", def.Routes.Kinds())
	tui.RenderTree(w, def.Root, p)
	return nil
}
