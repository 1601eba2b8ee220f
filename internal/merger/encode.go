package merger

import (
	"bufio"
	"encoding/hex"
	"io"
	"strings"
)

// DefaultLineWidth is the number of hex digits per encoded line.
const DefaultLineWidth = 32

// EncodeOptions controls Encode output.
type EncodeOptions struct {
	Delimiter rune // Segment delimiter (default ':')
	LineWidth int  // Hex digits per line, rounded down to even (default 32)
}

// Encode writes segments as uppercase hex lines that Process merges back
// into the same bytes. Every segment but the last is closed by the
// delimiter.
func Encode(w io.Writer, segments [][]byte, opts EncodeOptions) error {
	if opts.Delimiter == 0 {
		opts.Delimiter = DefaultDelimiter
	}
	if opts.LineWidth < 2 {
		opts.LineWidth = DefaultLineWidth
	}
	opts.LineWidth -= opts.LineWidth % 2

	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		digits := strings.ToUpper(hex.EncodeToString(seg))
		for len(digits) > opts.LineWidth {
			bw.WriteString(digits[:opts.LineWidth])
			bw.WriteByte('\n')
			digits = digits[opts.LineWidth:]
		}
		bw.WriteString(digits)
		if i < len(segments)-1 {
			bw.WriteRune(opts.Delimiter)
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

// Split cuts data into segments of at most n bytes.
// n <= 0 yields a single segment.
func Split(data []byte, n int) [][]byte {
	if n <= 0 || len(data) <= n {
		return [][]byte{data}
	}
	var out [][]byte
	for len(data) > n {
		out = append(out, data[:n])
		data = data[n:]
	}
	if len(data) > 0 {
		out = append(out, data)
	}
	return out
}
