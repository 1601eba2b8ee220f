/*
Copyright © 2025 Logicos Software

config.go implements the 'config' command group.

'config init' writes the built-in defaults as a TOML file that can then be
edited and passed with --config (or $NIBBLEMERGE_CONFIG).
*/
package cmd

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"nibblemerge/internal/config"
)

// defaultConfigPath is used by 'config init' when no path is given.
const defaultConfigPath = "nibblemerge.toml"

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the configuration file",
}

var configInitCmd = &cobra.Command{
	Use:   "init [path]",
	Short: "Write the default configuration file",
	Example: `  # Create nibblemerge.toml in the current directory
  nibblemerge config init`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := defaultConfigPath
		if len(args) == 1 {
			path = args[0]
		}
		force, _ := cmd.Flags().GetBool("force")
		if err := doConfigInit(path, force); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

// init registers the 'config' command group.
func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configInitCmd)

	configInitCmd.Flags().BoolP("force", "F", false, "Overwrite an existing file")
}

// doConfigInit writes the default configuration to path.
func doConfigInit(path string, force bool) error {
	var buf bytes.Buffer
	if err := config.Default().Encode(&buf); err != nil {
		return err
	}
	return WriteFileAtomic(path, buf.Bytes(), force)
}
