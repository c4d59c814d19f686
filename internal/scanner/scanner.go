package scanner

import (
	"io"
)

// Pos is a position in the input.  Line and Col are 0-based, Col counts
// codepoints rather than bytes.  Offset is the 0-based byte offset.
type Pos struct {
	Line   int
	Col    int
	Offset int64
}

// A Scanner reads bytes from an io.Reader through a fixed size buffer.  It
// can go back by one byte and record the bytes making up a token.
type Scanner struct {
	reader io.Reader
	buf    []byte

	// The first unfilled position in buf
	// 0 <= fillIndex <= len(buf)
	fillIndex int

	// Current position in buf
	// 0 <= currentIndex <= fillIndex
	currentIndex int

	// Records lineno, colno and offset of current position (from when the
	// scanning started)
	currentPos, prevPos Pos

	// Position in buf of the currently recorded token.
	// -1 means not recording a token
	// 0 means there may be token parts no longer in the buffer
	// tokenStartIndex <= currentIndex
	tokenStartIndex int

	// Parts of a token that no longer fit in the read buffer.
	tokenParts [][]byte

	err error

	// Tracks how many EOFs have been read.  This is required to make
	// Back() work after an EOF has been read.
	eofCount int

	// True if the last byte returned was EOF because the input is exhausted
	// rather than a 0xFF byte in the input.
	atEOF bool
}

func NewScanner(reader io.Reader) *Scanner {
	return NewScannerSize(reader, defaultBufSize)
}

func NewScannerSize(reader io.Reader, size int) *Scanner {
	return &Scanner{
		reader:          reader,
		buf:             make([]byte, size),
		tokenStartIndex: -1,
		prevPos:         Pos{Line: -1},
	}
}

func (s *Scanner) fillBuf() {
	if s.err != nil {
		return
	}
	if s.fillIndex == len(s.buf) {
		var baseIndex int
		// If we are recording a token then we try to shift the buffer so the token
		// remains wholly in the buffer.
		if s.tokenStartIndex > 0 {
			baseIndex = s.tokenStartIndex
			s.tokenStartIndex = 0
		} else if s.currentIndex >= lookBackSize {
			baseIndex = s.currentIndex - lookBackSize
			if s.tokenStartIndex >= 0 {
				// At this point s.tokenStartIndex is 0
				newTokenBytes := make([]byte, baseIndex)
				copy(newTokenBytes, s.buf)
				s.tokenParts = append(s.tokenParts, newTokenBytes)
			}
		}
		if baseIndex > 0 {
			copy(s.buf, s.buf[baseIndex:s.fillIndex])
			s.fillIndex -= baseIndex
			s.currentIndex -= baseIndex
		}
	}
	for i := maxConsecutiveEmptyReads; i > 0; i-- {
		n, err := s.reader.Read(s.buf[s.fillIndex:])
		s.fillIndex += n
		if err != nil {
			s.err = err
			return
		}
		if n > 0 {
			return
		}
	}
	s.err = io.ErrNoProgress
}

func (s *Scanner) advance(b byte) {
	s.prevPos = s.currentPos
	switch {
	case b == '\n':
		s.currentPos.Line++
		s.currentPos.Col = 0
	case b < 0x80 || b >= 0xC0:
		// ASCII or the first byte of an utf8-encoded codepoint
		s.currentPos.Col++
	}
	s.currentPos.Offset++
	s.currentIndex++
}

// Read returns the next byte.  At the end of the input it returns EOF and a
// nil error.  A non-nil error is only returned if the underlying reader failed.
func (s *Scanner) Read() (byte, error) {
	if s.currentIndex >= s.fillIndex {
		s.fillBuf()
	}
	if s.currentIndex < s.fillIndex {
		b := s.buf[s.currentIndex]
		s.advance(b)
		s.atEOF = false
		return b, nil
	}
	if s.err == io.EOF {
		s.eofCount++
		s.atEOF = true
		return EOF, nil
	}
	return 0, s.err
}

// AtEOF returns true if the last byte returned by Read, Peek or
// SkipSpaceAndPeek was EOF because the end of the input was reached.
func (s *Scanner) AtEOF() bool {
	return s.atEOF
}

func (s *Scanner) StartToken() Pos {
	if s.tokenStartIndex >= 0 {
		panic("already in record mode")
	}
	s.tokenStartIndex = s.currentIndex
	return s.currentPos
}

func (s *Scanner) CurrentPos() Pos {
	return s.currentPos
}

// AppendToken stops recording the current token and appends its bytes to
// dst, returning the extended slice.
func (s *Scanner) AppendToken(dst []byte) []byte {
	if s.tokenStartIndex < 0 {
		panic("not in record mode")
	}
	for _, p := range s.tokenParts {
		dst = append(dst, p...)
	}
	dst = append(dst, s.buf[s.tokenStartIndex:s.currentIndex]...)
	s.tokenStartIndex = -1
	s.tokenParts = nil
	return dst
}

// EndToken is like AppendToken but returns the token bytes in a new slice.
func (s *Scanner) EndToken() []byte {
	return s.AppendToken(nil)
}

func (s *Scanner) Back() {
	if s.eofCount > 0 {
		s.eofCount--
		return
	}
	if s.prevPos.Line < 0 {
		panic("cannot go back twice")
	}
	if s.currentIndex <= 0 || s.currentIndex <= s.tokenStartIndex {
		panic("cannot go back from start")
	}
	s.currentIndex--
	s.currentPos = s.prevPos
	s.prevPos.Line = -1
}

func (s *Scanner) Peek() (byte, error) {
	if s.currentIndex >= s.fillIndex {
		s.fillBuf()
	}
	if s.currentIndex < s.fillIndex {
		s.atEOF = false
		return s.buf[s.currentIndex], nil
	}
	return s.errOrEOF()
}

func (s *Scanner) errOrEOF() (byte, error) {
	if s.err == io.EOF {
		s.atEOF = true
		return EOF, nil
	}
	return 0, s.err
}

// SkipSpaceAndPeek skips JSON whitespace and returns the following byte
// without consuming it.
func (s *Scanner) SkipSpaceAndPeek() (byte, error) {
	for {
		for i, b := range s.buf[s.currentIndex:s.fillIndex] {
			switch {
			case b == '\n':
				s.currentPos.Line++
				s.currentPos.Col = 0
			case b == ' ' || b == '\t' || b == '\r':
				s.currentPos.Col++
			default:
				s.currentIndex += i
				s.currentPos.Offset += int64(i)
				s.prevPos.Line = -1
				s.atEOF = false
				return b, nil
			}
		}
		s.currentPos.Offset += int64(s.fillIndex - s.currentIndex)
		s.currentIndex = s.fillIndex
		s.prevPos.Line = -1
		s.fillBuf()
		if s.currentIndex >= s.fillIndex {
			return s.errOrEOF()
		}
	}
}

const (
	lookBackSize             = 1
	maxConsecutiveEmptyReads = 100
	defaultBufSize           = 8192
)

// 0xFF is a byte that should not appear in a UTF-8 encoded stream of bytes.
const EOF byte = 0xFF
