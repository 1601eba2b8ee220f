/*
Copyright © 2025 Logicos Software

version.go implements the 'version' command.

This command displays version information for nibblemerge, including:
  - Semantic version number
  - Git commit hash
  - Build timestamp
  - Go compiler version

Version information is embedded at build time via ldflags:

	go build -ldflags "-X nibblemerge/cmd.Version=1.0.0 \
	                   -X nibblemerge/cmd.GitCommit=$(git rev-parse HEAD) \
	                   -X nibblemerge/cmd.BuildTime=$(date -Iseconds) \
	                   -X nibblemerge/cmd.GoVersion=$(go version)"
*/
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

// versionCmd represents the 'version' command.
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version information",
	Long:  `Print the version information for nibblemerge.`,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		fmt.Fprintln(w, "nibblemerge - hex nibble to binary literal converter")
		fmt.Fprintf(w, "Version:    %s\n", Version)
		fmt.Fprintf(w, "Git Commit: %s\n", GitCommit)
		fmt.Fprintf(w, "Built:      %s\n", BuildTime)
		fmt.Fprintf(w, "Go Version: %s\n", GoVersion)
	},
}

// init registers the 'version' command with the root command.
func init() {
	rootCmd.AddCommand(versionCmd)
}
