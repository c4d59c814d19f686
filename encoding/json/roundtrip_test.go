package json

import (
	"bytes"
	"io"
	"slices"
	"strings"
	"testing"

	"github.com/arnodel/jsonpp/token"
	gojson "github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

var roundTripInputs = []string{
	`null`,
	`"just a string"`,
	`-12.5e+3`,
	`{}`,
	`[]`,
	`{"a":1,"b":[1,2,3]}`,
	`[1.50000, 1e-7, -0, 123456789012345678901234567890]`,
	`{"nested": {"deeper": {"deepest": [[], {}, [null]]}}, "after": true}`,
	`{"escapes": "tab\there \"quoted\" back\\slash \u0001 é 😀 /"}`,
	`{"dup": 1, "dup": 2}`,
	"  \r\n\t[ 1 ,\n\t2 ] \n",
}

// unmarshal decodes data with an independent JSON implementation, keeping
// numbers as their literal text.
func unmarshal(t *testing.T, data []byte) any {
	t.Helper()
	dec := gojson.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	require.NoError(t, dec.Decode(&v))
	return v
}

func TestPrettyPrintPreservesValue(t *testing.T) {
	for _, input := range roundTripInputs {
		if strings.Contains(input, `"dup"`) {
			// Maps cannot represent duplicate keys.
			continue
		}
		for _, indentSize := range []int{-1, 0, 2, 4} {
			output := prettyPrint(t, input, indentSize)
			require.Equal(t, unmarshal(t, []byte(input)), unmarshal(t, []byte(output)), "input %q, indent %d", input, indentSize)
		}
	}
}

// Numbers outside the float64 range cannot be parsed by decoders which check
// them, so they are only compared as events.
var hugeNumberInputs = []string{
	`1e400`,
	`[1e400, -1E+999]`,
	`{"big": 1e400}`,
}

func TestPrettyPrintPreservesEvents(t *testing.T) {
	for _, input := range slices.Concat(roundTripInputs, hugeNumberInputs) {
		output := prettyPrint(t, input, 2)
		assertEventsEqual(t, decodeString(t, output), decodeString(t, input))
	}
}

func TestPrettyPrintIsIdempotent(t *testing.T) {
	for _, input := range slices.Concat(roundTripInputs, hugeNumberInputs) {
		for _, indentSize := range []int{-1, 0, 2, 4} {
			once := prettyPrint(t, input, indentSize)
			twice := prettyPrint(t, once, indentSize)
			require.Equal(t, once, twice)
		}
	}
}

func TestNumbersAreVerbatim(t *testing.T) {
	require.Equal(t, "[\n  1.50000,\n  1E400,\n  -0.0\n]\n", prettyPrint(t, "[1.50000,1E400,-0.0]", 2))
	require.Equal(t, "{\n  \"big\": 1e400\n}\n", prettyPrint(t, `{"big": 1e400}`, 2))
}

func TestCompactOutputIsValidJSON(t *testing.T) {
	output := prettyPrint(t, `{"a": [1, {"b": "c"}], "d": null}`, -1)
	require.True(t, gojson.Valid([]byte(output)))
	require.Equal(t, `{"a":[1,{"b":"c"}],"d":null}`+"\n", output)
}

// The number of allocations does not depend on the size of the input.
func TestMemoryDoesNotGrowWithInput(t *testing.T) {
	allocs := func(n int) float64 {
		return testing.AllocsPerRun(5, func() {
			in := repeatReader(`{"items": [`, `{"id": 12345, "name": "some item", "tags": ["a", "b"]}`, ", ", "]}", n)
			if _, err := token.Copy(NewEncoder(io.Discard, 2), NewDecoder(in)); err != nil {
				t.Fatal(err)
			}
		})
	}
	small := allocs(10)
	large := allocs(100000)
	require.Less(t, large, small+50, "small: %v, large: %v", small, large)
}

func TestLongStreamInLockStep(t *testing.T) {
	const n = 50000
	dec := NewDecoder(repeatReader("", "[1, 2]", "\n", "", n))
	dec.Stream = true
	var out countingWriter
	count, err := token.Copy(NewEncoder(&out, -1), dec)
	require.NoError(t, err)
	require.Equal(t, 4*n, count)
	require.Equal(t, int64(len("[1,2]\n")*n), out.n)
}

type countingWriter struct {
	n int64
}

func (w *countingWriter) Write(p []byte) (int, error) {
	w.n += int64(len(p))
	return len(p), nil
}
