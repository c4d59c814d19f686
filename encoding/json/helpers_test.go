package json

import (
	"bytes"
	"io"
	"strings"
	"testing"

	"github.com/arnodel/jsonpp/token"
	"github.com/google/go-cmp/cmp"
)

// decodeString decodes the input into a slice of events, failing the test on
// error.
func decodeString(t *testing.T, input string) []token.Event {
	t.Helper()
	events, err := tryDecode(NewDecoder(strings.NewReader(input)))
	if err != nil {
		t.Fatalf("decoding %q: unexpected error: %s", input, err)
	}
	return events
}

func tryDecode(dec *Decoder) ([]token.Event, error) {
	acc := token.NewAccumulator()
	_, err := token.Copy(acc, dec)
	return acc.Events(), err
}

// encodeEvents encodes the events with the given indent size.
func encodeEvents(t *testing.T, events []token.Event, indentSize int) string {
	t.Helper()
	var b bytes.Buffer
	enc := NewEncoder(&b, indentSize)
	if _, err := token.Copy(enc, token.NewSliceSource(events)); err != nil {
		t.Fatalf("encoding: unexpected error: %s", err)
	}
	return b.String()
}

// prettyPrint decodes the input and encodes it with the given indent size.
func prettyPrint(t *testing.T, input string, indentSize int) string {
	t.Helper()
	var b bytes.Buffer
	if _, err := token.Copy(NewEncoder(&b, indentSize), NewDecoder(strings.NewReader(input))); err != nil {
		t.Fatalf("pretty printing %q: unexpected error: %s", input, err)
	}
	return b.String()
}

func assertEventsEqual(t *testing.T, got, want []token.Event) {
	t.Helper()
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

// repeatReader produces prefix, then n copies of item separated by sep, then
// suffix, without holding the whole input in memory.
func repeatReader(prefix, item, sep, suffix string, n int) io.Reader {
	readers := []io.Reader{strings.NewReader(prefix)}
	if n > 0 {
		readers = append(readers, strings.NewReader(item))
		readers = append(readers, &repeater{chunk: []byte(sep + item), count: n - 1})
	}
	readers = append(readers, strings.NewReader(suffix))
	return io.MultiReader(readers...)
}

type repeater struct {
	chunk []byte
	count int
	pos   int
}

func (r *repeater) Read(p []byte) (int, error) {
	n := 0
	for n < len(p) {
		if r.count == 0 {
			if n == 0 {
				return 0, io.EOF
			}
			break
		}
		k := copy(p[n:], r.chunk[r.pos:])
		n += k
		r.pos += k
		if r.pos == len(r.chunk) {
			r.pos = 0
			r.count--
		}
	}
	return n, nil
}
