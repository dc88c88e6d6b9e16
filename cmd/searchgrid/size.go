package main

import (
	"fmt"
	"os"

	"github.com/jnothman/searchgrid/internal/cli"
	"github.com/spf13/cobra"
)

// sizeCmd represents the size command
var sizeCmd = &cobra.Command{
	Use:   "size [file]",
	Short: "Count the candidate settings of a grid document",
	Long: `Compiles a grid document and prints the number of candidate settings its
grids enumerate, without materializing them.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		debug, _ := cmd.Flags().GetBool("debug")

		err := cli.RunSize(cmd.Context(), cli.SizeOptions{
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
	rootCmd.AddCommand(sizeCmd)
}
