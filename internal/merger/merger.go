/*
Copyright © 2025 Logicos Software

Package merger merges hex nibble text into binary byte literals.

The input is a stream of lines holding hex digits (0-9, A-F). Lines are
stripped of surrounding whitespace and concatenated; a delimiter character
splits the stream into segments. Consecutive digit pairs inside a segment
become one byte, which is written as an 8-bit binary literal:

	1A2B:  ->  0b00011010, 0b00101011

A newline is written before every byte whose counter is a positive multiple
of Options.BytesPerLine. Each segment is flushed to the output as soon as its
delimiter is seen, and the separator after the very last byte is trimmed.
*/
package merger

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"hash"
	"io"
	"strings"

	"golang.org/x/crypto/blake2b"
)

// Defaults used when an Options field is left at its zero value.
const (
	DefaultDelimiter    = ':'
	DefaultBytesPerLine = 8
	DefaultPrefix       = "0b"
	DefaultSeparator    = ", "
)

// Options controls delimiting and formatting.
type Options struct {
	Delimiter    rune   // Segment delimiter (default ':')
	BytesPerLine int    // Bytes per output line (default 8)
	Prefix       string // Literal prefix (default "0b")
	Separator    string // Written after each byte (default ", ")

	// SegmentAlign restarts the newline counter at every delimiter.
	// Off by default: newline placement is aligned across the whole file.
	SegmentAlign bool

	// Checksum enables a BLAKE2b-256 digest of the merged bytes.
	Checksum bool
}

// withDefaults fills zero-valued fields.
func (o Options) withDefaults() Options {
	if o.Delimiter == 0 {
		o.Delimiter = DefaultDelimiter
	}
	if o.BytesPerLine <= 0 {
		o.BytesPerLine = DefaultBytesPerLine
	}
	if o.Prefix == "" {
		o.Prefix = DefaultPrefix
	}
	if o.Separator == "" {
		o.Separator = DefaultSeparator
	}
	return o
}

// Result summarizes a completed run.
type Result struct {
	Bytes    int    // Total bytes merged across all segments
	Segments int    // Segments written, including the final one
	Dropped  int    // Unpaired nibbles discarded at segment or stream end
	Sum      []byte // BLAKE2b-256 of the merged bytes, nil if disabled
}

// ErrInvalidDigit is matched by every *InvalidDigitError.
var ErrInvalidDigit = errors.New("invalid hex digit")

// InvalidDigitError reports a character that is neither an uppercase hex
// digit nor the delimiter.
type InvalidDigitError struct {
	Char   rune
	Line   int // 1-based input line
	Column int // 1-based position within the stripped line
}

func (e *InvalidDigitError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("invalid hex digit %q", e.Char)
	}
	return fmt.Sprintf("invalid hex digit %q at line %d, column %d", e.Char, e.Line, e.Column)
}

// Is makes errors.Is(err, ErrInvalidDigit) succeed.
func (e *InvalidDigitError) Is(target error) bool {
	return target == ErrInvalidDigit
}

// HexValue maps '0'-'9' to 0-9 and 'A'-'F' to 10-15.
// Lowercase letters are rejected.
func HexValue(c rune) (byte, error) {
	switch {
	case c >= '0' && c <= '9':
		return byte(c - '0'), nil
	case c >= 'A' && c <= 'F':
		return byte(c-'A') + 10, nil
	}
	return 0, &InvalidDigitError{Char: c}
}

// Merger holds the state of one merge run.
// It is not safe for concurrent use.
type Merger struct {
	opts Options

	odd   bool
	high  byte
	count int
	seg   strings.Builder

	res  Result
	sum  hash.Hash
	line int
}

// New returns a Merger ready to process a stream.
func New(opts Options) *Merger {
	m := &Merger{opts: opts.withDefaults()}
	m.Reset()
	return m
}

// Reset clears all state so the Merger can process another stream.
func (m *Merger) Reset() {
	m.odd = false
	m.high = 0
	m.count = 0
	m.seg.Reset()
	m.res = Result{}
	m.line = 0
	m.sum = nil
	if m.opts.Checksum {
		// New256 only fails for keys longer than 64 bytes.
		m.sum, _ = blake2b.New256(nil)
	}
}

// Options returns the effective options.
func (m *Merger) Options() Options {
	return m.opts
}

// Process reads r to EOF and writes the formatted segments to w.
//
// Segments are written as their delimiter is reached, so w receives output
// in input order. An invalid digit aborts the run with an
// *InvalidDigitError; what was already written to w is left as is.
func (m *Merger) Process(ctx context.Context, r io.Reader, w io.Writer) (Result, error) {
	m.Reset()
	br := bufio.NewReader(r)

	for {
		if err := ctx.Err(); err != nil {
			return m.res, err
		}

		raw, readErr := br.ReadString('\n')
		if readErr != nil && readErr != io.EOF {
			return m.res, readErr
		}
		if len(raw) > 0 {
			m.line++
			if err := m.consumeLine(strings.TrimSpace(raw), w); err != nil {
				return m.res, err
			}
		}
		if readErr == io.EOF {
			break
		}
	}

	if m.odd {
		m.res.Dropped++
	}
	tail := strings.TrimSuffix(m.seg.String(), m.opts.Separator)
	if _, err := io.WriteString(w, tail); err != nil {
		return m.res, err
	}
	m.seg.Reset()
	m.res.Segments++

	if m.sum != nil {
		m.res.Sum = m.sum.Sum(nil)
	}
	return m.res, nil
}

func (m *Merger) consumeLine(line string, w io.Writer) error {
	col := 0
	for _, c := range line {
		col++
		if c == m.opts.Delimiter {
			if err := m.flush(w); err != nil {
				return err
			}
			continue
		}

		v, err := HexValue(c)
		if err != nil {
			return &InvalidDigitError{Char: c, Line: m.line, Column: col}
		}

		if !m.odd {
			m.high = v
			m.odd = true
			continue
		}
		m.emit(m.high<<4 | v)
		m.odd = false
	}
	return nil
}

// emit appends one formatted byte to the current segment.
func (m *Merger) emit(b byte) {
	if m.count > 0 && m.count%m.opts.BytesPerLine == 0 {
		m.seg.WriteByte('\n')
	}
	m.seg.WriteString(m.opts.Prefix)
	fmt.Fprintf(&m.seg, "%08b", b)
	m.seg.WriteString(m.opts.Separator)

	m.count++
	m.res.Bytes++
	if m.sum != nil {
		m.sum.Write([]byte{b})
	}
}

// flush writes the current segment at a delimiter.
// A pending high nibble is dropped, never carried into the next segment.
func (m *Merger) flush(w io.Writer) error {
	if _, err := io.WriteString(w, m.seg.String()); err != nil {
		return err
	}
	m.seg.Reset()
	if m.odd {
		m.res.Dropped++
	}
	m.odd = false
	m.res.Segments++
	if m.opts.SegmentAlign {
		m.count = 0
	}
	return nil
}
