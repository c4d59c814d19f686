// Package decompress detects and undoes compression of the input, so that
// compressed JSON can be formatted without a separate decompression step.
// Decompression is streamed: memory usage does not depend on the size of the
// input.
package decompress

import (
	"bufio"
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Mode selects the compression format of the input.
type Mode string

const (
	Auto Mode = "auto" // Detect the format from the first bytes
	None Mode = "none"
	Gzip Mode = "gzip"
	Zstd Mode = "zstd"
	LZ4  Mode = "lz4"
	S2   Mode = "s2" // Also reads snappy framed streams
)

// Modes lists the valid modes.
var Modes = []Mode{Auto, None, Gzip, Zstd, LZ4, S2}

// ParseMode returns the Mode called s.
func ParseMode(s string) (Mode, error) {
	for _, m := range Modes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid compression mode %q", s)
}

var magics = []struct {
	mode  Mode
	magic []byte
}{
	{Gzip, []byte{0x1f, 0x8b}},
	{Zstd, []byte{0x28, 0xb5, 0x2f, 0xfd}},
	{LZ4, []byte{0x04, 0x22, 0x4d, 0x18}},
	{S2, []byte("\xff\x06\x00\x00S2sTwO")},
	{S2, []byte("\xff\x06\x00\x00sNaPpY")},
}

// Detect returns the mode matching the start of the input, or None if the
// input does not look compressed.
func Detect(start []byte) Mode {
	for _, m := range magics {
		if bytes.HasPrefix(start, m.magic) {
			return m.mode
		}
	}
	return None
}

// sniff detects the mode from the start of br without consuming it.  It only
// waits for more input while what it has read so far could be the start of a
// magic number, so a slow uncompressed stream is not held back.
func sniff(br *bufio.Reader) (Mode, error) {
	n := 1
	for {
		start, err := br.Peek(n)
		if err == io.EOF {
			return Detect(start), nil
		}
		if err != nil {
			return "", err
		}
		start, _ = br.Peek(br.Buffered())
		if mode := Detect(start); mode != None || !isMagicPrefix(start) {
			return mode, nil
		}
		n = len(start) + 1
	}
}

// isMagicPrefix is true if start is shorter than a magic number it begins.
func isMagicPrefix(start []byte) bool {
	for _, m := range magics {
		if len(start) < len(m.magic) && bytes.HasPrefix(m.magic, start) {
			return true
		}
	}
	return false
}

// NewReader returns a reader producing the decompressed contents of r.  In
// Auto mode, the first bytes of r are inspected to choose the format.  The
// returned reader should be closed to release the decompressor's resources,
// this does not close r.
func NewReader(r io.Reader, mode Mode) (io.ReadCloser, error) {
	if mode == Auto {
		br := bufio.NewReader(r)
		detected, err := sniff(br)
		if err != nil {
			return nil, fmt.Errorf("detecting compression: %w", err)
		}
		mode = detected
		r = br
	}
	switch mode {
	case None:
		return io.NopCloser(r), nil
	case Gzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case Zstd:
		zr, err := zstd.NewReader(r,
			zstd.WithDecoderConcurrency(1),
			zstd.WithDecoderLowmem(true),
		)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return zr.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case S2:
		return io.NopCloser(s2.NewReader(r)), nil
	default:
		return nil, fmt.Errorf("invalid compression mode %q", mode)
	}
}
