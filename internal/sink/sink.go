// Package sink provides an output wrapper which notices when the reader at
// the other end of the output has gone away.
package sink

import (
	"errors"
	"io"
	"syscall"
)

// WriteFlusher is the minimal capability a Sink needs from the output it
// wraps, e.g. a *bufio.Writer.
type WriteFlusher interface {
	io.Writer
	Flush() error
}

// A Sink forwards writes and flushes to a WriteFlusher.  If one of them fails
// because the receiving end is closed (typically stdout is a pipe into a
// process such as 'head' which exited), the Sink records it.  The error is
// still returned so that the caller stops producing output, but BrokenPipe()
// can then be used to report success instead of a failure.
type Sink struct {
	w          WriteFlusher
	brokenPipe bool
}

var _ WriteFlusher = &Sink{}

func New(w WriteFlusher) *Sink {
	return &Sink{w: w}
}

func (s *Sink) Write(p []byte) (int, error) {
	n, err := s.w.Write(p)
	s.catch(err)
	return n, err
}

func (s *Sink) Flush() error {
	err := s.w.Flush()
	s.catch(err)
	return err
}

// BrokenPipe returns true if a write or flush has failed because the
// receiving end was closed.  Once true it remains true.
func (s *Sink) BrokenPipe() bool {
	return s.brokenPipe
}

func (s *Sink) catch(err error) {
	if err != nil && IsBrokenPipe(err) {
		s.brokenPipe = true
	}
}

// IsBrokenPipe reports whether err means that the receiving end of the
// output is closed.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
