/*
Copyright © 2025 Logicos Software

Package cmd implements all CLI commands for nibblemerge using the Cobra library.

This package provides:
  - (root): Merge a hex nibble text file into binary byte literals
  - encode: Turn a binary file into delimiter-separated hex text
  - config init: Write a default configuration file
  - version: Display version information

The merge itself lives in internal/merger; this package handles argument
parsing, settings, file acquisition and error reporting.
*/
package cmd

import (
	"github.com/spf13/cobra"
)

// rootCmd represents the base command.
// Called with an input file it runs the merge.
var rootCmd = &cobra.Command{
	Use:   "nibblemerge [flags] <input>",
	Short: "Merge hex nibble text into binary byte literals",
	Long: `nibblemerge reads a text file of hexadecimal digits and merges every
pair of digits into one byte, written as an 8-bit binary literal.

Input format:
  - Lines are stripped of surrounding whitespace and concatenated
  - Digits are 0-9 and uppercase A-F
  - A ':' starts a new segment; an unpaired digit before it is dropped

Output format:
  - 0bNNNNNNNN literals separated by ", "
  - A newline before every 8th byte
  - Written to output.txt unless --output is given

Quick usage:
  nibblemerge image.txt               # Creates output.txt
  nibblemerge -o image.inc image.txt  # Custom output path`,
	Args:          requireInput,
	RunE:          runMerge,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// If an error occurs during command execution, it is printed with a hint
// and the program exits with status code 1.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		ExitWithClassifiedError(err)
	}
}

// requireInput checks for exactly one input path before anything is opened.
func requireInput(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return ErrNoInputFile()
	}
	return cobra.ExactArgs(1)(cmd, args)
}

// init registers global flags that are available to all subcommands,
// and the flags of the merge itself.
func init() {
	// Global flags - available to all subcommands
	rootCmd.PersistentFlags().String("config", "", "TOML config file (default: $NIBBLEMERGE_CONFIG)")
	rootCmd.PersistentFlags().String("log-level", "info", "Log level: trace, debug, info, warn, error, off")

	// Merge flags
	rootCmd.Flags().StringP("output", "o", "output.txt", "Output file (overwritten)")
	rootCmd.Flags().Bool("segment-align", false, "Restart the 8-byte line counter at every delimiter")
	rootCmd.Flags().Bool("no-checksum", false, "Skip the BLAKE2b-256 checksum of the merged bytes")
}
