package main

import (
	"fmt"
	"os"

	"github.com/jnothman/searchgrid/internal/cli"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph [file]",
	Short: "Export the estimator graph visualization",
	Long: `Compiles a grid document and outputs a Mermaid diagram (graph TD) of the
estimator tree: placed steps as solid edges, grid alternatives as dashed
edges.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		debug, _ := cmd.Flags().GetBool("debug")

		err := cli.RunGraph(cmd.Context(), cli.GraphOptions{
			Path:  path,
			Debug: debug,
			Out:   os.Stdout,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
