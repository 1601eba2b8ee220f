/*
Copyright © 2025 Logicos Software

encode.go implements the 'encode' command, the inverse of the merge.

It reads a raw binary file and writes it as uppercase hex text in the
format the merge expects:
  - Fixed-width lines of hex digits
  - An optional delimiter after every N bytes, starting a new segment

Running the merge on the result yields the original bytes in order.
*/
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"nibblemerge/internal/merger"
)

// encodeCmd represents the 'encode' command.
var encodeCmd = &cobra.Command{
	Use:   "encode [flags] <binary> [output]",
	Short: "Encode a binary file as delimiter-separated hex text",
	Long: `Encode a binary file as hex text that nibblemerge can merge.

If output is not specified, it defaults to <binary>.hex.`,
	Example: `  # Encode firmware.bin (creates firmware.bin.hex)
  nibblemerge encode firmware.bin

  # Start a new segment every 128 bytes
  nibblemerge encode --segment-size 128 firmware.bin image.txt`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runEncode,
}

// init registers the 'encode' command and configures its command-line flags.
func init() {
	rootCmd.AddCommand(encodeCmd)

	encodeCmd.Flags().Int("segment-size", 0, "Bytes per delimiter-separated segment (0: one segment)")
	encodeCmd.Flags().Int("width", merger.DefaultLineWidth, "Hex digits per line")
	encodeCmd.Flags().BoolP("force", "F", false, "Overwrite the output file if it exists")
}

// runEncode handles the 'encode' command execution.
func runEncode(cmd *cobra.Command, args []string) error {
	cfg, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	log := newLogger(cmd, cfg)

	segSize, _ := cmd.Flags().GetInt("segment-size")
	width, _ := cmd.Flags().GetInt("width")
	force, _ := cmd.Flags().GetBool("force")

	inPath := args[0]
	outPath := inPath + ".hex"
	if len(args) >= 2 {
		outPath = args[1]
	}

	opts := merger.EncodeOptions{Delimiter: cfg.DelimiterRune(), LineWidth: width}
	n, err := doEncode(inPath, outPath, segSize, opts, force)
	if err != nil {
		return err
	}
	log.Info().Int("bytes", n).Str("output", outPath).Msg("Encoded")
	return nil
}

// doEncode writes inPath as hex text to outPath and returns the byte count.
func doEncode(inPath, outPath string, segSize int, opts merger.EncodeOptions, force bool) (int, error) {
	data, err := os.ReadFile(inPath)
	if err != nil {
		return 0, fileError(inPath, err)
	}

	out, err := NewAtomicWriter(outPath, force)
	if err != nil {
		return 0, err
	}
	defer out.Abort()

	if err := merger.Encode(out, merger.Split(data, segSize), opts); err != nil {
		return 0, ClassifyError(err)
	}
	if err := out.Commit(); err != nil {
		return 0, ClassifyError(err)
	}
	return len(data), nil
}
