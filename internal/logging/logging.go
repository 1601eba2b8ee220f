// Package logging builds the zerolog console logger used for progress
// output.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/term"
)

type Options struct {
	Level     string
	Timestamp bool
	NoColor   bool
}

// New returns a console logger writing to w.
// Colour is only used when w is a terminal and NoColor is unset.
func New(w io.Writer, opts Options) zerolog.Logger {
	level, ok := ParseLevel(opts.Level)
	if !ok {
		level = zerolog.InfoLevel
	}

	output := zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    opts.NoColor || !isTerminal(w),
		TimeFormat: time.RFC3339,
	}
	if !opts.Timestamp {
		output.PartsExclude = []string{zerolog.TimestampFieldName}
	}

	ctx := zerolog.New(output).Level(level).With()
	if opts.Timestamp {
		ctx = ctx.Timestamp()
	}
	return ctx.Logger()
}

// ParseLevel accepts the usual level names plus a few aliases for off.
func ParseLevel(raw string) (zerolog.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "info":
		return zerolog.InfoLevel, true
	case "trace":
		return zerolog.TraceLevel, true
	case "debug":
		return zerolog.DebugLevel, true
	case "warn", "warning":
		return zerolog.WarnLevel, true
	case "error":
		return zerolog.ErrorLevel, true
	case "disabled", "disable", "off", "none":
		return zerolog.Disabled, true
	default:
		return zerolog.InfoLevel, false
	}
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
