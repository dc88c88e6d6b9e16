package main

import (
	"fmt"
	"os"

	"github.com/jnothman/searchgrid/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Check a grid document for consistency",
	Long: `Parses a grid document and compiles it against the component registry,
reporting the first schema or annotation error it finds. With --watch it
keeps running and re-validates on every change to the file.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := "-"
		if len(args) > 0 {
			path = args[0]
		}
		watch, _ := cmd.Flags().GetBool("watch")
		debug, _ := cmd.Flags().GetBool("debug")

		if watch && path == "-" {
			fmt.Println("Error: --watch requires a file path.")
			os.Exit(1)
		}

		err := cli.RunValidate(cmd.Context(), cli.ValidateOptions{
			Path:  path,
			Watch: watch,
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
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolP("watch", "w", false, "Re-validate whenever the file changes")
}
