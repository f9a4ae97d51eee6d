// ABOUTME: CLI command printing the build version.
// ABOUTME: The version is set at build time via -ldflags.
package main

import (
	"fmt"

	"github.com/harperreed/calories/internal/mcp"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("calories %s (%s)\n", version, commit)
	},
}

func init() {
	mcp.Version = version
	rootCmd.AddCommand(versionCmd)
}
