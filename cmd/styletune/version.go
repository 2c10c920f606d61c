package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/styletune/styletune/internal/clangformat"
)

// Version is stamped by the release build; "dev" otherwise.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the styletune version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("styletune %s (targets clang-format %d.x)\n", Version, clangformat.SupportedMajor)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
