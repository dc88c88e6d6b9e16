package main

import (
	"fmt"
	"os"

	"github.com/jnothman/searchgrid/internal/cli"
	"github.com/spf13/cobra"
)

// expandCmd represents the expand command
var expandCmd = &cobra.Command{
	Use:   "expand [file]",
	Short: "Flatten a grid document into parameter grids",
	Long: `Compiles a grid document against the component registry and prints the
flattened parameter grids together with the candidate count. Reads stdin
when file is '-' or omitted.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		format, _ := cmd.Flags().GetString("format")
		name, _ := cmd.Flags().GetString("name")
		debug, _ := cmd.Flags().GetBool("debug")

		err := cli.RunExpand(cmd.Context(), cli.ExpandOptions{
			Path:   path,
			Format: format,
			Name:   name,
			Debug:  debug,
			Out:    os.Stdout,
		})
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(expandCmd)

	expandCmd.Flags().StringP("format", "f", "auto", "Output format: auto, json, yaml or markdown")
	expandCmd.Flags().String("name", "", "Name recorded on the expansion")
}
