/*
Copyright © 2025 Logicos Software

merge_test.go contains end-to-end tests for the merge, encode and
config commands, run against real files in a temporary directory.
*/
package cmd

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"nibblemerge/internal/config"
	"nibblemerge/internal/logging"
	"nibblemerge/internal/merger"
)

// setup writes input to a temp file and returns its path and a config
// whose output lives in the same directory.
func setup(t *testing.T, input string) (string, config.Config) {
	t.Helper()
	dir := t.TempDir()
	inPath := filepath.Join(dir, "image.txt")
	if err := os.WriteFile(inPath, []byte(input), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	cfg := config.Default()
	cfg.Output = filepath.Join(dir, "output.txt")
	return inPath, cfg
}

func testLogger(buf *bytes.Buffer, level string) zerolog.Logger {
	return logging.New(buf, logging.Options{Level: level, NoColor: true})
}

func TestDoMerge(t *testing.T) {
	inPath, cfg := setup(t, "1A2B:\n  3C  \n")

	var logBuf bytes.Buffer
	log := testLogger(&logBuf, "info")

	res, err := doMerge(context.Background(), log, cfg, inPath)
	if err != nil {
		t.Fatalf("doMerge failed: %v", err)
	}
	if res.Bytes != 3 || res.Segments != 2 {
		t.Errorf("result = %+v, want 3 bytes in 2 segments", res)
	}

	got, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	want := "0b00011010, 0b00101011, 0b00111100"
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("output mismatch (-want +got):\n%s", diff)
	}

	logs := logBuf.String()
	for _, msg := range []string{"Opening source file", "Processing", "Byte count: 3", "Output in " + cfg.Output + " file", "blake2b="} {
		if !strings.Contains(logs, msg) {
			t.Errorf("log output missing %q:\n%s", msg, logs)
		}
	}
}

func TestDoMergeWarnsOnDroppedNibble(t *testing.T) {
	inPath, cfg := setup(t, "1A2:B")

	var logBuf bytes.Buffer
	res, err := doMerge(context.Background(), testLogger(&logBuf, "info"), cfg, inPath)
	if err != nil {
		t.Fatalf("doMerge failed: %v", err)
	}
	if res.Dropped != 2 {
		t.Errorf("Dropped = %d, want 2", res.Dropped)
	}
	if !strings.Contains(logBuf.String(), "Unpaired nibbles dropped") {
		t.Errorf("missing warning:\n%s", logBuf.String())
	}
}

func TestDoMergeFailures(t *testing.T) {
	t.Run("invalid digit leaves previous output", func(t *testing.T) {
		inPath, cfg := setup(t, "1A2B:\n1a2b\n")
		if err := os.WriteFile(cfg.Output, []byte("previous"), 0o644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		_, err := doMerge(context.Background(), testLogger(&bytes.Buffer{}, "off"), cfg, inPath)
		var me *MergeError
		if !errors.As(err, &me) || me.Category != ErrCategoryFormat {
			t.Fatalf("error = %v, want format error", err)
		}
		if !errors.Is(err, merger.ErrInvalidDigit) {
			t.Errorf("error %v should match merger.ErrInvalidDigit", err)
		}

		got, _ := os.ReadFile(cfg.Output)
		if string(got) != "previous" {
			t.Errorf("output = %q, want untouched previous output", got)
		}
	})

	t.Run("missing input creates no output", func(t *testing.T) {
		_, cfg := setup(t, "")
		_, err := doMerge(context.Background(), testLogger(&bytes.Buffer{}, "off"), cfg, filepath.Join(t.TempDir(), "absent.txt"))
		var me *MergeError
		if !errors.As(err, &me) || me.Category != ErrCategoryFile {
			t.Fatalf("error = %v, want file error", err)
		}
		if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
			t.Error("output file should not exist")
		}
	})

	t.Run("canceled", func(t *testing.T) {
		inPath, cfg := setup(t, "1A2B")
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := doMerge(ctx, testLogger(&bytes.Buffer{}, "off"), cfg, inPath)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("error = %v, want context.Canceled", err)
		}
		if _, err := os.Stat(cfg.Output); !os.IsNotExist(err) {
			t.Error("output file should not exist after cancel")
		}
	})
}

func TestRootMissingArgument(t *testing.T) {
	outPath := filepath.Join(t.TempDir(), "output.txt")

	rootCmd.SetArgs([]string{"-o", outPath})
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	var me *MergeError
	if !errors.As(err, &me) || me.Category != ErrCategoryInput {
		t.Fatalf("error = %v, want missing input error", err)
	}
	if me.Message != "No file provided" {
		t.Errorf("Message = %q", me.Message)
	}
	if _, err := os.Stat(outPath); !os.IsNotExist(err) {
		t.Error("output file should not be created without an input")
	}
}

func TestRequireInput(t *testing.T) {
	if err := requireInput(rootCmd, []string{"a.txt"}); err != nil {
		t.Errorf("one argument: %v", err)
	}
	if err := requireInput(rootCmd, []string{"a.txt", "b.txt"}); err == nil {
		t.Error("two arguments should be rejected")
	}
}

// newSettingsCmd mirrors the root command flags for loadSettings tests.
func newSettingsCmd(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	c := &cobra.Command{Use: "test"}
	c.Flags().String("config", "", "")
	c.Flags().String("log-level", "info", "")
	c.Flags().StringP("output", "o", "output.txt", "")
	c.Flags().Bool("segment-align", false, "")
	c.Flags().Bool("no-checksum", false, "")
	if err := c.Flags().Parse(args); err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return c
}

func TestLoadSettingsPrecedence(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "nibblemerge.toml")
	body := "output = \"file.txt\"\nbytes_per_line = 4\n[log]\nlevel = \"debug\"\n"
	if err := os.WriteFile(cfgPath, []byte(body), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	t.Setenv(config.EnvConfig, cfgPath)
	t.Setenv(config.EnvLogLevel, "warn")

	cfg, err := loadSettings(newSettingsCmd(t, "--no-checksum", "--segment-align"))
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if cfg.Output != "file.txt" || cfg.BytesPerLine != 4 {
		t.Errorf("file values not applied: %+v", cfg)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Log.Level = %q, want env override", cfg.Log.Level)
	}
	if cfg.Checksum || !cfg.SegmentAlign {
		t.Errorf("flag values not applied: %+v", cfg)
	}

	cfg, err = loadSettings(newSettingsCmd(t, "-o", "flag.txt", "--log-level", "error"))
	if err != nil {
		t.Fatalf("loadSettings failed: %v", err)
	}
	if cfg.Output != "flag.txt" || cfg.Log.Level != "error" {
		t.Errorf("flags should win over file and env: %+v", cfg)
	}
}

func TestLoadSettingsInvalid(t *testing.T) {
	t.Setenv(config.EnvConfig, "")
	_, err := loadSettings(newSettingsCmd(t, "--log-level", "loud"))
	var me *MergeError
	if !errors.As(err, &me) || me.Category != ErrCategoryConfig {
		t.Errorf("error = %v, want config error", err)
	}
}

func TestEncodeThenMerge(t *testing.T) {
	dir := t.TempDir()
	binPath := filepath.Join(dir, "firmware.bin")
	hexPath := filepath.Join(dir, "firmware.hex")

	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i * 7)
	}
	if err := os.WriteFile(binPath, data, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	n, err := doEncode(binPath, hexPath, 12, merger.EncodeOptions{}, false)
	if err != nil {
		t.Fatalf("doEncode failed: %v", err)
	}
	if n != len(data) {
		t.Errorf("doEncode = %d, want %d", n, len(data))
	}

	if _, err := doEncode(binPath, hexPath, 12, merger.EncodeOptions{}, false); err == nil {
		t.Error("second encode without force should fail")
	}

	cfg := config.Default()
	cfg.Output = filepath.Join(dir, "output.txt")
	res, err := doMerge(context.Background(), testLogger(&bytes.Buffer{}, "off"), cfg, hexPath)
	if err != nil {
		t.Fatalf("doMerge failed: %v", err)
	}
	if res.Segments != 4 {
		t.Errorf("Segments = %d, want 4", res.Segments)
	}

	text, err := os.ReadFile(cfg.Output)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	var got []byte
	for _, tok := range strings.Split(string(text), ",") {
		v, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(tok), "0b"), 2, 8)
		if err != nil {
			t.Fatalf("bad token %q: %v", tok, err)
		}
		got = append(got, byte(v))
	}
	if diff := cmp.Diff(data, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nibblemerge.toml")

	if err := doConfigInit(path, false); err != nil {
		t.Fatalf("doConfigInit failed: %v", err)
	}
	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(config.Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	if err := doConfigInit(path, false); err == nil {
		t.Error("second init without force should fail")
	}
	if err := doConfigInit(path, true); err != nil {
		t.Errorf("init with force failed: %v", err)
	}
}
