package format

import "github.com/arnodel/jsonpp/token"

// A Colorizer surrounds keys and scalar values with terminal escape codes.
// A nil *Colorizer prints values without colors.
type Colorizer struct {
	KeyColorCode    []byte
	NullColorCode   []byte
	BoolColorCode   []byte
	NumberColorCode []byte
	StringColorCode []byte
	ResetCode       []byte
}

// ColorCode returns the code to print before a value of the given kind.
func (c *Colorizer) ColorCode(kind token.Kind) []byte {
	switch kind {
	case token.Key:
		return c.KeyColorCode
	case token.Null:
		return c.NullColorCode
	case token.Bool:
		return c.BoolColorCode
	case token.Number:
		return c.NumberColorCode
	case token.String:
		return c.StringColorCode
	default:
		return nil
	}
}

// PrintColored prints b using the color for values of the given kind.
func (c *Colorizer) PrintColored(p Printer, kind token.Kind, b []byte) {
	if c != nil {
		p.PrintBytes(c.ColorCode(kind))
	}
	p.PrintBytes(b)
	if c != nil {
		p.PrintBytes(c.ResetCode)
	}
}

// Some color ANSI codes
var (
	Reset = []byte("\033[0m")

	Green  = []byte("\033[32m")
	Yellow = []byte("\033[33m")
	White  = []byte("\033[37m")

	DimWhite = []byte("\033[37;2m")

	BrightBlue = []byte("\033[34;1m")
)

// DefaultColorizer has the colors I chose :)
var DefaultColorizer = Colorizer{
	KeyColorCode:    BrightBlue,
	NullColorCode:   DimWhite,
	BoolColorCode:   Yellow,
	NumberColorCode: White,
	StringColorCode: Green,
	ResetCode:       Reset,
}
