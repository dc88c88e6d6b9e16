package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "searchgrid",
	Short: "Searchgrid turns annotated estimator specs into grid searches",
	Long: `Searchgrid compiles declarative grid documents: estimator trees annotated
with parameter candidates are flattened into the fully-qualified grids a
search driver consumes.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}
