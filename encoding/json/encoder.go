package json

import (
	"errors"
	"fmt"
	"io"

	"github.com/arnodel/jsonpp/internal/format"
	"github.com/arnodel/jsonpp/token"
)

// An Encoder writes the events it receives as indented JSON text, using
// the given Printer for formatting.  It does not buffer events: each event
// is written as soon as it is received, so it only needs to remember, for
// each open container, whether it is an object and whether it already has an
// item.
//
// Each top-level value is followed by a new line.
type Encoder struct {
	format.Printer
	Colorizer *format.Colorizer

	// If Compact is true, keys are not followed by a space.  It should be
	// used with a Printer that does not output new lines.
	Compact bool

	// If Flusher is not nil, it is flushed after each top-level value.
	Flusher format.Flusher

	// One entry per open container.
	frames   []frame
	afterKey bool
	scratch  []byte
}

type frame struct {
	isObject bool
	hasItem  bool
}

var _ token.Sink = &Encoder{}

// NewEncoder returns an Encoder writing to w, with indentSize spaces per
// indentation level.  If indentSize is negative, the output is compact.
func NewEncoder(w io.Writer, indentSize int) *Encoder {
	return &Encoder{
		Printer: &format.DefaultPrinter{Writer: w, IndentSize: indentSize},
		Compact: indentSize < 0,
	}
}

// ErrUnbalanced is returned by WriteEvent when the events it receives do not
// describe valid JSON.
var ErrUnbalanced = errors.New("unbalanced event stream")

// WriteEvent writes the JSON text for ev.  The error returned is either a
// *format.WriteError if the output failed or wraps ErrUnbalanced if ev cannot
// appear at this position.
func (e *Encoder) WriteEvent(ev token.Event) (err error) {
	defer format.CatchWriteError(&err)
	switch ev.Kind {
	case token.BeginObject, token.BeginArray:
		if err := e.beginValue(ev); err != nil {
			return err
		}
		isObject := ev.Kind == token.BeginObject
		if isObject {
			e.PrintBytes(openObjectBytes)
		} else {
			e.PrintBytes(openArrayBytes)
		}
		e.frames = append(e.frames, frame{isObject: isObject})
	case token.EndObject:
		return e.endContainer(ev, true, closeObjectBytes)
	case token.EndArray:
		return e.endContainer(ev, false, closeArrayBytes)
	case token.Key:
		n := len(e.frames)
		if n == 0 || e.afterKey || !e.frames[n-1].isObject {
			return unbalanced(ev)
		}
		e.beginItem()
		e.printQuoted(token.Key, ev.Text)
		if e.Compact {
			e.PrintBytes(compactKeyValueSeparatorBytes)
		} else {
			e.PrintBytes(keyValueSeparatorBytes)
		}
		e.afterKey = true
	case token.Null, token.Bool, token.Number, token.String:
		if err := e.beginValue(ev); err != nil {
			return err
		}
		switch ev.Kind {
		case token.Null:
			e.Colorizer.PrintColored(e.Printer, token.Null, nullBytes)
		case token.Bool:
			if ev.Bool {
				e.Colorizer.PrintColored(e.Printer, token.Bool, trueBytes)
			} else {
				e.Colorizer.PrintColored(e.Printer, token.Bool, falseBytes)
			}
		case token.Number:
			e.Colorizer.PrintColored(e.Printer, token.Number, ev.Text)
		default:
			e.printQuoted(token.String, ev.Text)
		}
		e.endValue()
	default:
		return fmt.Errorf("%w: invalid event %s", ErrUnbalanced, ev)
	}
	return nil
}

// Depth returns the number of arrays and objects currently open.
func (e *Encoder) Depth() int {
	return len(e.frames)
}

// beginValue starts a new line for a value unless it follows a key or is a
// top-level value.  Inside an object a value must follow a key.
func (e *Encoder) beginValue(ev token.Event) error {
	if e.afterKey {
		e.afterKey = false
		return nil
	}
	if n := len(e.frames); n > 0 {
		if e.frames[n-1].isObject {
			return unbalanced(ev)
		}
		e.beginItem()
	}
	return nil
}

// beginItem separates an item from the previous one in the current container
// and starts a new line for it.
func (e *Encoder) beginItem() {
	top := &e.frames[len(e.frames)-1]
	if top.hasItem {
		e.PrintBytes(itemSeparatorBytes)
		e.NewLine()
	} else {
		e.Indent()
		top.hasItem = true
	}
}

func (e *Encoder) endContainer(ev token.Event, isObject bool, closeBytes []byte) error {
	n := len(e.frames) - 1
	if n < 0 || e.afterKey || e.frames[n].isObject != isObject {
		return unbalanced(ev)
	}
	hasItem := e.frames[n].hasItem
	e.frames = e.frames[:n]
	if hasItem {
		e.Dedent()
	}
	e.PrintBytes(closeBytes)
	e.endValue()
	return nil
}

// endValue terminates the line after a top-level value.
func (e *Encoder) endValue() {
	if len(e.frames) > 0 {
		return
	}
	e.PrintBytes(newLineBytes)
	e.Reset()
	if e.Flusher != nil {
		if err := e.Flusher.Flush(); err != nil {
			panic(&format.WriteError{Err: err})
		}
	}
}

func unbalanced(ev token.Event) error {
	return fmt.Errorf("%w: unexpected %s", ErrUnbalanced, ev)
}

func (e *Encoder) printQuoted(kind token.Kind, text []byte) {
	e.scratch = appendQuoted(e.scratch[:0], text)
	e.Colorizer.PrintColored(e.Printer, kind, e.scratch)
}

var (
	openObjectBytes               = []byte("{")
	closeObjectBytes              = []byte("}")
	openArrayBytes                = []byte("[")
	closeArrayBytes               = []byte("]")
	itemSeparatorBytes            = []byte(",")
	keyValueSeparatorBytes        = []byte(": ")
	compactKeyValueSeparatorBytes = []byte(":")
	newLineBytes                  = []byte("\n")
)
