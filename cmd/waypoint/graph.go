package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/waypoint"
	"github.com/aretw0/waypoint/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <definition.yaml>",
	Short: "Export the navigation tree visualization",
	Long:  `Builds the definition and outputs a Mermaid diagram (graph TD) of its navigation tree, highlighting the active path.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		eng, err := waypoint.New(args[0])
		if err != nil {
			fmt.Printf("Error loading definition: %v\n", err)
			os.Exit(1)
		}

		fmt.Print(graph.GenerateMermaid(eng.Definition().Root))
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
