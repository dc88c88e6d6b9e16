package main

import (
	"fmt"
	"strings"

	"github.com/jnothman/searchgrid"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of searchgrid",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("searchgrid version %s\n", strings.TrimSpace(searchgrid.Version))
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
