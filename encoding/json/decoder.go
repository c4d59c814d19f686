package json

import (
	"fmt"
	"io"
	"unicode/utf16"
	"unicode/utf8"

	"github.com/arnodel/jsonpp/internal/scanner"
	"github.com/arnodel/jsonpp/token"
)

// DefaultMaxDepth is the nesting limit of a Decoder returned by NewDecoder.
const DefaultMaxDepth = 128

// A Decoder reads JSON input and produces the events describing it one at a
// time.  It only reads as much input as it needs to produce the next event
// and keeps track of open arrays and objects in an explicit stack, so deeply
// nested input cannot exhaust the goroutine stack.
type Decoder struct {
	scanr *scanner.Scanner

	// MaxDepth is the maximum number of nested arrays and objects: MaxDepth
	// levels are accepted, one more is an error.  If it is 0 there is no
	// limit.
	MaxDepth int

	// If Stream is true the input may contain any number of top-level
	// values, otherwise it must contain exactly one.
	Stream bool

	// One entry per open container, true for objects.
	stack []bool
	state decoderState

	// Holds the text of the last Key, String or Number event.
	buf []byte

	err error
}

var _ token.Source = &Decoder{}

type decoderState uint8

const (
	expectDocument decoderState = iota
	expectFirstValueOrEnd
	expectFirstKeyOrEnd
	expectColon
	expectCommaOrEnd
	done
)

// NewDecoder sets up a new Decoder instance to read from the given input.
func NewDecoder(in io.Reader) *Decoder {
	return &Decoder{
		scanr:    scanner.NewScanner(in),
		MaxDepth: DefaultMaxDepth,
	}
}

// Next returns the next event in the input.  When the top-level value is
// complete (or all of them in Stream mode), it returns io.EOF.  If the input
// is invalid a *ParseError is returned.  Errors are sticky: after an error,
// Next keeps returning it.
//
// The Text of the returned event is only valid until the next call to Next.
func (d *Decoder) Next() (token.Event, error) {
	if d.err != nil {
		return token.Event{}, d.err
	}
	ev, err := d.next()
	if err != nil {
		d.err = err
	}
	return ev, err
}

// Depth returns the number of arrays and objects currently open.
func (d *Decoder) Depth() int {
	return len(d.stack)
}

func (d *Decoder) next() (token.Event, error) {
	switch d.state {
	case expectDocument:
		b, err := d.skipSpaceAndPeek()
		if err != nil {
			return token.Event{}, err
		}
		if d.atEOF(b) && d.Stream {
			d.state = done
			return token.Event{}, io.EOF
		}
		return d.parseValue()
	case expectFirstValueOrEnd:
		b, err := d.skipSpaceAndPeek()
		if err != nil {
			return token.Event{}, err
		}
		if b == ']' {
			d.scanr.Read()
			return d.endContainer(token.EndArrayEvent)
		}
		return d.parseValue()
	case expectFirstKeyOrEnd:
		b, err := d.skipSpaceAndPeek()
		if err != nil {
			return token.Event{}, err
		}
		if b == '}' {
			d.scanr.Read()
			return d.endContainer(token.EndObjectEvent)
		}
		return d.parseKey()
	case expectColon:
		b, err := d.skipSpaceAndPeek()
		if err != nil {
			return token.Event{}, err
		}
		if b != ':' {
			return token.Event{}, d.unexpected("expected ':'", b)
		}
		d.scanr.Read()
		return d.parseValue()
	case expectCommaOrEnd:
		return d.afterValue()
	default:
		return token.Event{}, io.EOF
	}
}

func (d *Decoder) parseValue() (token.Event, error) {
	b, err := d.skipSpaceAndPeek()
	if err != nil {
		return token.Event{}, err
	}
	switch b {
	case '{':
		return d.beginContainer(true)
	case '[':
		return d.beginContainer(false)
	case '"':
		if err := d.parseString(); err != nil {
			return token.Event{}, err
		}
		d.state = expectCommaOrEnd
		return token.Event{Kind: token.String, Text: d.buf}, nil
	case 't':
		return d.parseLiteral(trueBytes, token.TrueEvent)
	case 'f':
		return d.parseLiteral(falseBytes, token.FalseEvent)
	case 'n':
		return d.parseLiteral(nullBytes, token.NullEvent)
	default:
		if b == '-' || scanner.IsDigit(b) {
			if err := d.parseNumber(); err != nil {
				return token.Event{}, err
			}
			d.state = expectCommaOrEnd
			return token.Event{Kind: token.Number, Text: d.buf}, nil
		}
		return token.Event{}, d.unexpected("expected value", b)
	}
}

func (d *Decoder) parseKey() (token.Event, error) {
	b, err := d.skipSpaceAndPeek()
	if err != nil {
		return token.Event{}, err
	}
	if b != '"' {
		return token.Event{}, d.unexpected("expected string key", b)
	}
	if err := d.parseString(); err != nil {
		return token.Event{}, err
	}
	d.state = expectColon
	return token.Event{Kind: token.Key, Text: d.buf}, nil
}

// afterValue is called when a value is complete and moves on to the next
// item of the enclosing container, the end of the container or the end of
// the input.
func (d *Decoder) afterValue() (token.Event, error) {
	b, err := d.skipSpaceAndPeek()
	if err != nil {
		return token.Event{}, err
	}
	depth := len(d.stack)
	if depth == 0 {
		switch {
		case d.atEOF(b):
			d.state = done
			return token.Event{}, io.EOF
		case d.Stream:
			return d.parseValue()
		default:
			return token.Event{}, d.unexpected("trailing characters after top-level value", b)
		}
	}
	inObject := d.stack[depth-1]
	switch {
	case b == ',':
		d.scanr.Read()
		if inObject {
			return d.parseKey()
		}
		return d.parseValue()
	case b == '}' && inObject:
		d.scanr.Read()
		return d.endContainer(token.EndObjectEvent)
	case b == ']' && !inObject:
		d.scanr.Read()
		return d.endContainer(token.EndArrayEvent)
	case inObject:
		return token.Event{}, d.unexpected("expected ',' or '}'", b)
	default:
		return token.Event{}, d.unexpected("expected ',' or ']'", b)
	}
}

func (d *Decoder) beginContainer(isObject bool) (token.Event, error) {
	if d.MaxDepth > 0 && len(d.stack) >= d.MaxDepth {
		return token.Event{}, d.errorAt(d.scanr.CurrentPos(), ErrTooDeep,
			fmt.Sprintf("maximum nesting depth of %d exceeded", d.MaxDepth))
	}
	d.scanr.Read()
	d.stack = append(d.stack, isObject)
	if isObject {
		d.state = expectFirstKeyOrEnd
		return token.BeginObjectEvent, nil
	}
	d.state = expectFirstValueOrEnd
	return token.BeginArrayEvent, nil
}

func (d *Decoder) endContainer(ev token.Event) (token.Event, error) {
	d.stack = d.stack[:len(d.stack)-1]
	d.state = expectCommaOrEnd
	return ev, nil
}

func (d *Decoder) parseLiteral(lit []byte, ev token.Event) (token.Event, error) {
	for _, xb := range lit {
		b, err := d.scanr.Read()
		if err != nil {
			return token.Event{}, readError(err)
		}
		if b != xb {
			d.scanr.Back()
			return token.Event{}, d.unexpected(fmt.Sprintf("expected %q", lit), b)
		}
	}
	d.state = expectCommaOrEnd
	return ev, nil
}

// parseString reads a quoted string and stores its unescaped contents in
// d.buf.
func (d *Decoder) parseString() error {
	start := d.scanr.CurrentPos()
	d.scanr.Read() // The opening quote
	d.buf = d.buf[:0]
	for {
		b, err := d.scanr.Read()
		if err != nil {
			return readError(err)
		}
		switch {
		case b == '"':
			if !utf8.Valid(d.buf) {
				return d.errorAt(start, nil, "invalid UTF-8 in string")
			}
			return nil
		case b == '\\':
			if err := d.parseEscape(); err != nil {
				return err
			}
		case d.atEOF(b):
			return d.unexpected("unterminated string", b)
		case scanner.IsCtrl(b):
			d.scanr.Back()
			return d.unexpected("invalid control character in string", b)
		default:
			d.buf = append(d.buf, b)
		}
	}
}

// parseEscape is called after reading a '\' inside a string.
func (d *Decoder) parseEscape() error {
	x, err := d.scanr.Read()
	if err != nil {
		return readError(err)
	}
	switch x {
	case '"', '\\', '/':
		d.buf = append(d.buf, x)
	case 'b':
		d.buf = append(d.buf, '\b')
	case 'f':
		d.buf = append(d.buf, '\f')
	case 'n':
		d.buf = append(d.buf, '\n')
	case 'r':
		d.buf = append(d.buf, '\r')
	case 't':
		d.buf = append(d.buf, '\t')
	case 'u':
		pos := d.scanr.CurrentPos()
		r, err := d.readHex4()
		if err != nil {
			return err
		}
		switch {
		case r >= 0xDC00 && r <= 0xDFFF:
			return d.errorAt(pos, nil, "lone trailing surrogate in hex escape")
		case r >= 0xD800 && r <= 0xDBFF:
			r, err = d.readLowSurrogate(r)
			if err != nil {
				return err
			}
		}
		d.buf = utf8.AppendRune(d.buf, r)
	default:
		d.scanr.Back()
		return d.unexpected("invalid escape", x)
	}
	return nil
}

// readLowSurrogate reads the "\uXXXX" sequence which must follow the high
// surrogate r and returns the rune they encode together.
func (d *Decoder) readLowSurrogate(r rune) (rune, error) {
	pos := d.scanr.CurrentPos()
	for _, xb := range []byte(`\u`) {
		b, err := d.scanr.Read()
		if err != nil {
			return 0, readError(err)
		}
		if b != xb {
			return 0, d.errorAt(pos, nil, "lone leading surrogate in hex escape")
		}
	}
	r2, err := d.readHex4()
	if err != nil {
		return 0, err
	}
	if !utf16.IsSurrogate(r2) || r2 < 0xDC00 {
		return 0, d.errorAt(pos, nil, "lone leading surrogate in hex escape")
	}
	return utf16.DecodeRune(r, r2), nil
}

func (d *Decoder) readHex4() (rune, error) {
	var r rune
	for i := 0; i < 4; i++ {
		b, err := d.scanr.Read()
		if err != nil {
			return 0, readError(err)
		}
		v := scanner.HexValue(b)
		if v < 0 {
			d.scanr.Back()
			return 0, d.unexpected("expected hex digit", b)
		}
		r = r<<4 | rune(v)
	}
	return r, nil
}

// parseNumber reads a number, checking that it follows the JSON grammar, and
// stores its literal representation in d.buf.
func (d *Decoder) parseNumber() error {
	scanr := d.scanr
	scanr.StartToken()
	var n int
	b, err := scanr.Read()

	// Sign part
	if b == '-' {
		b, err = scanr.Read()
	}
	if err != nil {
		return readError(err)
	}

	// Integer part
	if b == '0' {
		b, err = scanr.Read()
		if err != nil {
			return readError(err)
		}
	} else if scanner.IsNonZeroDigit(b) {
		b, _, err = readDigits(scanr)
		if err != nil {
			return readError(err)
		}
	} else {
		scanr.Back()
		return d.unexpected("expected digit", b)
	}

	// Fraction part
	if b == '.' {
		b, n, err = readDigits(scanr)
		if err != nil {
			return readError(err)
		}
		if n == 0 {
			scanr.Back()
			return d.unexpected("expected digit", b)
		}
	}

	// Exponent part
	if b == 'e' || b == 'E' {
		b, err = scanr.Peek()
		if err != nil {
			return readError(err)
		}
		if b == '-' || b == '+' {
			scanr.Read()
		}
		b, n, err = readDigits(scanr)
		if err != nil {
			return readError(err)
		}
		if n == 0 {
			scanr.Back()
			return d.unexpected("expected digit", b)
		}
	}
	scanr.Back()
	d.buf = scanr.AppendToken(d.buf[:0])
	return nil
}

// readDigits reads decimal digits and returns the first byte that is not a
// digit, and the number of digits read.
func readDigits(scanr *scanner.Scanner) (byte, int, error) {
	var n int
	for {
		b, err := scanr.Read()
		if err != nil {
			return 0, n, err
		}
		if !scanner.IsDigit(b) {
			return b, n, nil
		}
		n++
	}
}

// atEOF tells the EOF marker apart from a 0xFF byte in the input.
func (d *Decoder) atEOF(b byte) bool {
	return b == scanner.EOF && d.scanr.AtEOF()
}

func (d *Decoder) skipSpaceAndPeek() (byte, error) {
	b, err := d.scanr.SkipSpaceAndPeek()
	if err != nil {
		return 0, readError(err)
	}
	return b, nil
}

// unexpected returns an error at the current position, which is the
// position of b (b has not been consumed).
func (d *Decoder) unexpected(expected string, b byte) error {
	pos := d.scanr.CurrentPos()
	if d.atEOF(b) {
		return d.errorAt(pos, io.ErrUnexpectedEOF, expected+", got end of input")
	}
	if b < utf8.RuneSelf {
		return d.errorAt(pos, nil, fmt.Sprintf("%s, got %q", expected, rune(b)))
	}
	return d.errorAt(pos, nil, fmt.Sprintf("%s, got byte 0x%02X", expected, b))
}

func (d *Decoder) errorAt(pos scanner.Pos, err error, msg string) error {
	return &ParseError{
		Line:   pos.Line + 1,
		Col:    pos.Col + 1,
		Offset: pos.Offset,
		Msg:    msg,
		Err:    err,
	}
}

func readError(err error) error {
	return fmt.Errorf("read error: %w", err)
}

var (
	trueBytes  = []byte("true")
	falseBytes = []byte("false")
	nullBytes  = []byte("null")
)
