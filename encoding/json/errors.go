package json

import (
	"errors"
	"fmt"
)

// A ParseError is returned by the Decoder when its input is not valid JSON.
type ParseError struct {
	Line   int   // 1-based line number
	Col    int   // 1-based column, counted in codepoints
	Offset int64 // 0-based byte offset
	Msg    string

	// Err is set for errors which can be told apart with errors.Is, e.g.
	// ErrTooDeep or io.ErrUnexpectedEOF.
	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax error at L%d,C%d: %s", e.Line, e.Col, e.Msg)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// ErrTooDeep is wrapped by the ParseError returned when the input nests
// arrays and objects more deeply than the Decoder's MaxDepth.
var ErrTooDeep = errors.New("maximum nesting depth exceeded")
