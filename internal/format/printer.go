package format

import (
	"fmt"
	"io"
)

// The Printer interface can be used to output some structured data.
//
// Indent() starts a new line at an increased indentation level
// Dedent() starts a new line at a decreased indentation level
// NewLine() start a new line at the current indentation level
// PrintBytes() outputs bytes at the current position
// Reset() sets the indentation level back to 0
//
// The methods do not return an error because it's assumed to be an
// exceptional case that outputting results in an error and the only sensible
// outcome is to stop.  Instead, implementations are expected to panic with a
// *WriteError when they encounter an error.  A user of the Printer interface
// can use
//
//	func printingFunction(p Printer) (err error) {
//	    defer CatchWriteError(&err)
//	    return doSomePrinting(printer)
//	}
//
// to capture such errors.
type Printer interface {
	Indent()
	Dedent()
	NewLine()
	PrintBytes([]byte)
	Reset()
}

// CatchWriteError can be used to capture panics caused by a Printer because
// of an error encountered while attempting to send output.  See the Printer
// interface documentation for details.
func CatchWriteError(err *error) {
	if r := recover(); r != nil {
		werr, ok := r.(*WriteError)
		if ok {
			*err = werr
		} else {
			panic(r)
		}
	}
}

// A WriteError contains an error that occurred while a Printer implementation
// was sending some output.
type WriteError struct {
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("write error: %s", e.Err)
}

func (e *WriteError) Unwrap() error {
	return e.Err
}

// A Flusher can flush buffered output.
type Flusher interface {
	Flush() error
}

// DefaultPrinter implements a Printer which uses an io.Writer to send output,
// using IndentSize spaces for each indent level.
// If IndentSize is negative, then NewLine() does nothing so all the output
// is on one single line.
// If IndentSize is 0, then there is no indentation but there are still new
// lines.
// If Flusher is not nil, it is flushed after each new line.
type DefaultPrinter struct {
	io.Writer
	IndentSize  int
	Flusher     Flusher
	indentLevel int
}

var _ Printer = &DefaultPrinter{}

// NewLine outputs '\n' followed by a number of spaces corresponding to the
// current indentation level.
func (p *DefaultPrinter) NewLine() {
	if p.IndentSize < 0 {
		return
	}
	if p.Flusher != nil {
		p.PrintBytes(newLineBytes)
		if err := p.Flusher.Flush(); err != nil {
			panic(wrapError(err))
		}
		p.printSpaces(p.IndentSize * p.indentLevel)
		return
	}
	n := p.IndentSize * p.indentLevel
	if n < len(newLineAndSpaces) {
		p.PrintBytes(newLineAndSpaces[:n+1])
		return
	}
	p.PrintBytes(newLineBytes)
	p.printSpaces(n)
}

func (p *DefaultPrinter) printSpaces(n int) {
	for n > 0 {
		k := min(n, len(spaces))
		p.PrintBytes(spaces[:k])
		n -= k
	}
}

// Indent has the effect of incrementing the indentation level and calls NewLine()
func (p *DefaultPrinter) Indent() {
	p.indentLevel++
	p.NewLine()
}

// Dedent has the effect of decrementing the indentation level and calls NewLine()
func (p *DefaultPrinter) Dedent() {
	p.indentLevel--
	p.NewLine()
}

// PrintBytes sends the gives bytes verbatim to the printer's writer.
func (p *DefaultPrinter) PrintBytes(b []byte) {
	_, err := p.Write(b)
	if err != nil {
		panic(wrapError(err))
	}
}

// Reset sets the indentation level to 0.
func (p *DefaultPrinter) Reset() {
	p.indentLevel = 0
}

func wrapError(err error) *WriteError {
	return &WriteError{Err: err}
}

var (
	newLineBytes     = []byte{'\n'}
	newLineAndSpaces = []byte("\n" + string(spaces))
	spaces           = []byte("                                                                ")
)
