package token

import (
	"io"

	"github.com/arnodel/jsonpp/internal/debug"
)

// A Source produces a stream of events on demand.  Next returns io.EOF when
// there are no more events.
type Source interface {
	Next() (Event, error)
}

// A Sink consumes a stream of events one at a time.
type Sink interface {
	WriteEvent(Event) error
}

// Copy pulls events from src and pushes each of them to dst as soon as it is
// produced, until src returns io.EOF or either side fails.  Only one event is
// in flight at any time, so memory usage does not grow with the length of
// the stream.
//
// It returns the number of events copied and the first error encountered
// (io.EOF from src is not an error).
func Copy(dst Sink, src Source) (n int, err error) {
	for {
		ev, err := src.Next()
		if err == io.EOF {
			debug.Printf("copied %d events", n)
			return n, nil
		}
		if err != nil {
			return n, err
		}
		if err := dst.WriteEvent(ev); err != nil {
			return n, err
		}
		n++
	}
}

// SliceSource is a Source which produces the events in a slice.
type SliceSource struct {
	events []Event
}

var _ Source = &SliceSource{}

func NewSliceSource(events []Event) *SliceSource {
	return &SliceSource{events: events}
}

func (s *SliceSource) Next() (Event, error) {
	if len(s.events) == 0 {
		return Event{}, io.EOF
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

// Accumulator is a Sink which records a copy of all the events written to
// it.
type Accumulator struct {
	events []Event
}

var _ Sink = &Accumulator{}

func NewAccumulator() *Accumulator {
	return &Accumulator{}
}

func (a *Accumulator) WriteEvent(ev Event) error {
	a.events = append(a.events, ev.Clone())
	return nil
}

func (a *Accumulator) Events() []Event {
	return a.events
}
