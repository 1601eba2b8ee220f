// Package config loads nibblemerge settings from a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/BurntSushi/toml"

	"nibblemerge/internal/logging"
	"nibblemerge/internal/merger"
)

const (
	EnvConfig      = "NIBBLEMERGE_CONFIG"
	EnvOutput      = "NIBBLEMERGE_OUTPUT"
	EnvLogLevel    = "NIBBLEMERGE_LOG_LEVEL"
	EnvLogNoColor  = "NIBBLEMERGE_LOG_NOCOLOR"
	DefaultOutput  = "output.txt"
	DefaultLogging = "info"
)

type Config struct {
	Output       string    `toml:"output"`
	Delimiter    string    `toml:"delimiter"`
	BytesPerLine int       `toml:"bytes_per_line"`
	Prefix       string    `toml:"prefix"`
	Separator    string    `toml:"separator"`
	SegmentAlign bool      `toml:"segment_align"`
	Checksum     bool      `toml:"checksum"`
	Log          LogConfig `toml:"log"`
}

type LogConfig struct {
	Level     string `toml:"level"`
	Timestamp bool   `toml:"timestamp"`
	NoColor   bool   `toml:"no_color"`
}

func Default() Config {
	return Config{
		Output:       DefaultOutput,
		Delimiter:    string(merger.DefaultDelimiter),
		BytesPerLine: merger.DefaultBytesPerLine,
		Prefix:       merger.DefaultPrefix,
		Separator:    merger.DefaultSeparator,
		Checksum:     true,
		Log:          LogConfig{Level: DefaultLogging},
	}
}

// Load reads path on top of Default. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	md, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("config load failed (%s): %w", path, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Config{}, fmt.Errorf("config parse failed (%s): unknown keys: %s", path, strings.Join(keys, ", "))
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config invalid (%s): %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides cfg with any NIBBLEMERGE_* variables that are set.
func ApplyEnv(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvOutput)); v != "" {
		cfg.Output = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Log.Level = v
	}
	if v, err := strconv.ParseBool(strings.TrimSpace(os.Getenv(EnvLogNoColor))); err == nil {
		cfg.Log.NoColor = v
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Output) == "" {
		return errors.New("output path is required")
	}
	if utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}
	d := c.DelimiterRune()
	if _, err := merger.HexValue(d); err == nil {
		return fmt.Errorf("delimiter %q collides with a hex digit", d)
	}
	if unicode.IsSpace(d) {
		return fmt.Errorf("delimiter %q is whitespace", d)
	}
	if c.BytesPerLine < 1 {
		return fmt.Errorf("bytes_per_line must be >= 1, got %d", c.BytesPerLine)
	}
	if c.Separator == "" {
		return errors.New("separator is required")
	}
	if _, ok := logging.ParseLevel(c.Log.Level); !ok {
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	return nil
}

func (c Config) DelimiterRune() rune {
	r, _ := utf8.DecodeRuneInString(c.Delimiter)
	return r
}

func (c Config) MergerOptions() merger.Options {
	return merger.Options{
		Delimiter:    c.DelimiterRune(),
		BytesPerLine: c.BytesPerLine,
		Prefix:       c.Prefix,
		Separator:    c.Separator,
		SegmentAlign: c.SegmentAlign,
		Checksum:     c.Checksum,
	}
}

// LoggingOptions converts the [log] table for logging.New.
func (c Config) LoggingOptions() logging.Options {
	return logging.Options{
		Level:     c.Log.Level,
		Timestamp: c.Log.Timestamp,
		NoColor:   c.Log.NoColor,
	}
}

// Encode writes c as TOML.
func (c Config) Encode(w io.Writer) error {
	return toml.NewEncoder(w).Encode(c)
}
