/*
Copyright © 2025 Logicos Software

merge.go implements the merge run behind the root command.

Processing flow:
 1. Resolve settings (config file, environment, flags)
 2. Open the input file
 3. Open an atomic writer for the output file
 4. Stream the input through the merger, segment by segment
 5. Commit the output and report the byte count

Any failure aborts the atomic writer, so a previous output file is never
replaced by a partial one.
*/
package cmd

import (
	"context"
	"encoding/hex"
	"os"
	"os/signal"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nibblemerge/internal/config"
	"nibblemerge/internal/merger"
)

// runMerge handles the root command execution.
func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)

	// Ctrl+C cancels the merge and discards the temp file
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	_, err = doMerge(ctx, log, cfg, args[0])
	return err
}

// doMerge performs the merge of inPath into cfg.Output.
//
// Parameters:
//   - ctx: Cancels processing between input lines
//   - log: Receives the progress messages
//   - cfg: Effective settings (output path and formatting)
//   - inPath: Hex text file to read
//
// Returns the merger result, or a classified *MergeError.
func doMerge(ctx context.Context, log zerolog.Logger, cfg config.Config, inPath string) (merger.Result, error) {
	log.Info().Msg("Opening source file")
	in, err := os.Open(inPath)
	if err != nil {
		return merger.Result{}, fileError(inPath, err)
	}
	defer in.Close()

	// Output is always replaced, matching a plain create/truncate
	out, err := NewAtomicWriter(cfg.Output, true)
	if err != nil {
		return merger.Result{}, err
	}
	defer out.Abort() // Clean up on failure

	log.Info().Str("input", inPath).Msg("Processing")
	m := merger.New(cfg.MergerOptions())
	res, err := m.Process(ctx, in, out)
	if err != nil {
		return res, ClassifyError(err)
	}

	if err := out.Commit(); err != nil {
		return res, ClassifyError(err)
	}

	if res.Dropped > 0 {
		log.Warn().Int("nibbles", res.Dropped).Msg("Unpaired nibbles dropped")
	}
	ev := log.Info().Int("segments", res.Segments)
	if res.Sum != nil {
		ev = ev.Str("blake2b", hex.EncodeToString(res.Sum))
	}
	ev.Msgf("Byte count: %d", res.Bytes)
	log.Info().Msgf("Output in %s file", cfg.Output)

	return res, nil
}
