package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"nibblemerge/internal/merger"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "nibblemerge.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
output = "image.txt"
delimiter = "|"
bytes_per_line = 16
segment_align = true

[log]
level = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	want := Default()
	want.Output = "image.txt"
	want.Delimiter = "|"
	want.BytesPerLine = 16
	want.SegmentAlign = true
	want.Log.Level = "debug"
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}

	opts := cfg.MergerOptions()
	if opts.Delimiter != '|' || opts.BytesPerLine != 16 || !opts.SegmentAlign || !opts.Checksum {
		t.Errorf("MergerOptions() = %+v", opts)
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"syntax", "output = ", "config load failed"},
		{"unknown key", "colour = true", "unknown keys: colour"},
		{"long delimiter", `delimiter = "::"`, "single character"},
		{"hex delimiter", `delimiter = "A"`, "collides with a hex digit"},
		{"space delimiter", `delimiter = " "`, "whitespace"},
		{"zero width", "bytes_per_line = 0", "bytes_per_line"},
		{"bad level", "[log]\nlevel = \"loud\"", "unknown log level"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvOutput, "env.txt")
	t.Setenv(EnvLogLevel, "warn")
	t.Setenv(EnvLogNoColor, "true")

	cfg := Default()
	ApplyEnv(&cfg)
	if cfg.Output != "env.txt" || cfg.Log.Level != "warn" || !cfg.Log.NoColor {
		t.Errorf("ApplyEnv result = %+v", cfg)
	}
}

func TestEncodeRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.Delimiter = ";"

	var buf bytes.Buffer
	if err := cfg.Encode(&buf); err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	got, err := Load(writeConfig(t, buf.String()))
	if err != nil {
		t.Fatalf("Load of encoded config failed: %v\n%s", err, buf.String())
	}
	if diff := cmp.Diff(cfg, got); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
	if got.DelimiterRune() != ';' {
		t.Errorf("DelimiterRune() = %q", got.DelimiterRune())
	}
	if got.BytesPerLine != merger.DefaultBytesPerLine {
		t.Errorf("BytesPerLine = %d", got.BytesPerLine)
	}
}
