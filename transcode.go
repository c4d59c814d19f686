package jsonpp

import (
	"fmt"
	"io"

	"github.com/arnodel/jsonpp/encoding/json"
	"github.com/arnodel/jsonpp/internal/format"
	"github.com/arnodel/jsonpp/internal/sink"
	"github.com/arnodel/jsonpp/token"
)

// WriteFlusher is where a Transcoder writes its output, e.g. a *bufio.Writer
// or a *sink.Sink wrapping one.
type WriteFlusher = sink.WriteFlusher

// WriteError is returned (wrapped) when writing the output fails.
type WriteError = format.WriteError

// A Transcoder reads JSON and writes it out pretty-printed.  The zero value
// formats a single document with no indentation and no depth limit, use
// NewTranscoder for the usual defaults.
type Transcoder struct {
	// Number of spaces per indentation level.
	IndentSize int

	// If Compact is true the output has no new lines or spaces, except for
	// one new line after each top-level value.
	Compact bool

	// Maximum nesting depth of the input, 0 means no limit.
	MaxDepth int

	// If Stream is true the input can be a sequence of top-level values
	// which are formatted one after the other.  The output is flushed after
	// each value.
	Stream bool

	// Color wraps keys and scalars in ANSI color codes.
	Color bool

	// If FlushLines is true, the output is flushed after each line.  It is
	// useful when the output is a terminal.
	FlushLines bool
}

// NewTranscoder returns a Transcoder indenting with 2 spaces and limiting
// nesting to json.DefaultMaxDepth.
func NewTranscoder() *Transcoder {
	return &Transcoder{
		IndentSize: 2,
		MaxDepth:   json.DefaultMaxDepth,
	}
}

// Transcode formats the JSON read from in to out, then flushes out.  It stops
// at the first error from either side, in which case out is not flushed.
// Errors are wrapped and can be inspected with errors.As, e.g. for a
// *json.ParseError or a *WriteError.
func (t *Transcoder) Transcode(in io.Reader, out WriteFlusher) error {
	dec := json.NewDecoder(in)
	dec.MaxDepth = t.MaxDepth
	dec.Stream = t.Stream

	indentSize := t.IndentSize
	if t.Compact {
		indentSize = -1
	}
	printer := &format.DefaultPrinter{
		Writer:     out,
		IndentSize: indentSize,
	}
	if t.FlushLines {
		printer.Flusher = out
	}
	enc := &json.Encoder{
		Printer: printer,
		Compact: t.Compact,
	}
	if t.Color {
		enc.Colorizer = &format.DefaultColorizer
	}
	if t.Stream {
		enc.Flusher = out
	}

	if _, err := token.Copy(enc, dec); err != nil {
		return fmt.Errorf("transcoding error: %w", err)
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("transcoding error: %w", &WriteError{Err: err})
	}
	return nil
}

// Transcode formats in to out with the default settings.
func Transcode(in io.Reader, out WriteFlusher) error {
	return NewTranscoder().Transcode(in, out)
}
