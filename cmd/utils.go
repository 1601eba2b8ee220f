/*
Package cmd provides utility functions, types, and constants for nibblemerge.

This file contains:
  - Version information variables (set via ldflags)
  - Settings resolution (config file, environment, flags)
  - Logger construction
*/
package cmd

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nibblemerge/internal/config"
	"nibblemerge/internal/logging"
)

// Version information variables.
// These are set via ldflags during the build process:
//
//	go build -ldflags "-X nibblemerge/cmd.Version=1.0.0 -X nibblemerge/cmd.GitCommit=abc123 ..."
var (
	Version   = "dev"     // Semantic version (e.g., "1.0.0")
	BuildTime = "unknown" // Build timestamp
	GitCommit = "unknown" // Git commit hash
	GoVersion = "unknown" // Go compiler version
)

// loadSettings resolves the effective configuration for a command.
//
// Precedence, lowest to highest:
//   - Built-in defaults
//   - Config file (--config, or $NIBBLEMERGE_CONFIG)
//   - NIBBLEMERGE_* environment variables
//   - Command-line flags that were explicitly set
func loadSettings(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}

	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, ErrInvalidConfig(err)
	}
	config.ApplyEnv(&cfg)

	// Only flags the user actually typed override the file
	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level, _ = flags.GetString("log-level")
	}
	if flags.Lookup("output") != nil && flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Lookup("segment-align") != nil && flags.Changed("segment-align") {
		cfg.SegmentAlign, _ = flags.GetBool("segment-align")
	}
	if flags.Lookup("no-checksum") != nil && flags.Changed("no-checksum") {
		noSum, _ := flags.GetBool("no-checksum")
		cfg.Checksum = !noSum
	}

	if err := cfg.Validate(); err != nil {
		return config.Config{}, ErrInvalidConfig(err)
	}
	return cfg, nil
}

// newLogger builds the progress logger for cmd's output stream.
func newLogger(cmd *cobra.Command, cfg config.Config) zerolog.Logger {
	return logging.New(cmd.OutOrStdout(), cfg.LoggingOptions())
}
