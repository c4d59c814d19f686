package json

import (
	"bytes"
	"errors"
	"testing"

	"github.com/arnodel/jsonpp/internal/format"
	"github.com/arnodel/jsonpp/token"
	"github.com/stretchr/testify/require"
)

// TestEncoderScalars tests encoding top-level scalar values
func TestEncoderScalars(t *testing.T) {
	tests := []struct {
		name     string
		event    token.Event
		expected string
	}{
		{"true", token.TrueEvent, "true\n"},
		{"false", token.FalseEvent, "false\n"},
		{"null", token.NullEvent, "null\n"},
		{"number is verbatim", token.NumberEvent("1.50000"), "1.50000\n"},
		{"exponent is verbatim", token.NumberEvent("-0.0E+00"), "-0.0E+00\n"},
		{"string", token.StringEvent("hello"), "\"hello\"\n"},
		{"empty string", token.StringEvent(""), "\"\"\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, encodeEvents(t, []token.Event{tt.event}, 2))
		})
	}
}

// TestEncoderEscapes tests quoting of strings and keys
func TestEncoderEscapes(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected string
	}{
		{"quote", `say "hi"`, `"say \"hi\""`},
		{"backslash", `a\b`, `"a\\b"`},
		{"solidus is not escaped", "a/b", `"a/b"`},
		{"short escapes", "\b\f\n\r\t", `"\b\f\n\r\t"`},
		{"other controls", "\x00\x01\x1f", `"\u0000\u0001\u001f"`},
		{"del is not escaped", "\x7f", "\"\x7f\""},
		{"html is not escaped", "<a&b>", `"<a&b>"`},
		{"non ascii is not escaped", "日本 é 😀", `"日本 é 😀"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events := []token.Event{token.StringEvent(tt.text)}
			require.Equal(t, tt.expected+"\n", encodeEvents(t, events, 2))

			events = []token.Event{token.BeginObjectEvent, token.KeyEvent(tt.text), token.NullEvent, token.EndObjectEvent}
			require.Equal(t, "{\n  "+tt.expected+": null\n}\n", encodeEvents(t, events, 2))
		})
	}
}

// TestEncoderLayout tests indentation of arrays and objects
func TestEncoderLayout(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		indentSize int
		expected   string
	}{
		{
			name:       "empty object",
			input:      "{}",
			indentSize: 2,
			expected:   "{}\n",
		},
		{
			name:       "empty array",
			input:      "[ ]",
			indentSize: 2,
			expected:   "[]\n",
		},
		{
			name:       "object with array",
			input:      `{"a":1,"b":[1,2,3]}`,
			indentSize: 2,
			expected: `{
  "a": 1,
  "b": [
    1,
    2,
    3
  ]
}
`,
		},
		{
			name:       "nested arrays",
			input:      `[[1],[],[[]]]`,
			indentSize: 2,
			expected: `[
  [
    1
  ],
  [],
  [
    []
  ]
]
`,
		},
		{
			name:       "objects in arrays",
			input:      `[{"a":{}},{"b":{"c":null}}]`,
			indentSize: 2,
			expected: `[
  {
    "a": {}
  },
  {
    "b": {
      "c": null
    }
  }
]
`,
		},
		{
			name:       "indent 4",
			input:      `{"a":[true]}`,
			indentSize: 4,
			expected: `{
    "a": [
        true
    ]
}
`,
		},
		{
			name:       "indent 0",
			input:      `{"a":[true,false],"b":{}}`,
			indentSize: 0,
			expected: `{
"a": [
true,
false
],
"b": {}
}
`,
		},
		{
			name:       "compact",
			input:      ` { "a" : [ true , false ] , "b" : { } , "c" : "d" } `,
			indentSize: -1,
			expected:   `{"a":[true,false],"b":{},"c":"d"}` + "\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, prettyPrint(t, tt.input, tt.indentSize))
		})
	}
}

func TestEncoderSeveralTopLevelValues(t *testing.T) {
	events := []token.Event{
		token.BeginArrayEvent, token.NumberEvent("1"), token.EndArrayEvent,
		token.StringEvent("x"),
		token.BeginObjectEvent, token.EndObjectEvent,
	}
	require.Equal(t, "[\n  1\n]\n\"x\"\n{}\n", encodeEvents(t, events, 2))
}

type countingFlusher struct {
	count int
}

func (f *countingFlusher) Flush() error {
	f.count++
	return nil
}

func TestEncoderFlushesTopLevelValues(t *testing.T) {
	var b bytes.Buffer
	f := &countingFlusher{}
	enc := NewEncoder(&b, 2)
	enc.Flusher = f
	events := []token.Event{
		token.BeginArrayEvent, token.NumberEvent("1"), token.NumberEvent("2"), token.EndArrayEvent,
		token.NullEvent,
	}
	_, err := token.Copy(enc, token.NewSliceSource(events))
	require.NoError(t, err)
	require.Equal(t, 2, f.count)
}

func TestEncoderColors(t *testing.T) {
	var b bytes.Buffer
	enc := NewEncoder(&b, 2)
	enc.Colorizer = &format.Colorizer{
		KeyColorCode:    []byte("<k>"),
		NullColorCode:   []byte("<0>"),
		BoolColorCode:   []byte("<b>"),
		NumberColorCode: []byte("<n>"),
		StringColorCode: []byte("<s>"),
		ResetCode:       []byte("</>"),
	}
	_, err := token.Copy(enc, token.NewSliceSource([]token.Event{
		token.BeginObjectEvent,
		token.KeyEvent("k"), token.StringEvent("v"),
		token.KeyEvent("a"), token.BeginArrayEvent, token.NullEvent, token.TrueEvent, token.NumberEvent("3"), token.EndArrayEvent,
		token.EndObjectEvent,
	}))
	require.NoError(t, err)
	require.Equal(t, `{
  <k>"k"</>: <s>"v"</>,
  <k>"a"</>: [
    <0>null</>,
    <b>true</>,
    <n>3</>
  ]
}
`, b.String())
}

func TestEncoderUnbalanced(t *testing.T) {
	tests := []struct {
		name   string
		events []token.Event
	}{
		{"end without begin", []token.Event{token.EndArrayEvent}},
		{"key at top level", []token.Event{token.KeyEvent("a")}},
		{"two keys", []token.Event{token.BeginObjectEvent, token.KeyEvent("a"), token.KeyEvent("b")}},
		{"end after key", []token.Event{token.BeginObjectEvent, token.KeyEvent("a"), token.EndObjectEvent}},
		{"invalid kind", []token.Event{{Kind: token.Invalid}}},
		{"key in array", []token.Event{token.BeginArrayEvent, token.KeyEvent("a")}},
		{"value in object without key", []token.Event{token.BeginObjectEvent, token.NumberEvent("1")}},
		{"array in object without key", []token.Event{token.BeginObjectEvent, token.BeginArrayEvent}},
		{"second value after key", []token.Event{token.BeginObjectEvent, token.KeyEvent("a"), token.NullEvent, token.NullEvent}},
		{"array closed as object", []token.Event{token.BeginArrayEvent, token.EndObjectEvent}},
		{"object closed as array", []token.Event{token.BeginObjectEvent, token.EndArrayEvent}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b bytes.Buffer
			n, err := token.Copy(NewEncoder(&b, 2), token.NewSliceSource(tt.events))
			require.ErrorIs(t, err, ErrUnbalanced)
			require.Equal(t, len(tt.events)-1, n)
		})
	}
}

type failAfterWriter struct {
	remaining int
	err       error
}

func (w *failAfterWriter) Write(p []byte) (int, error) {
	if w.remaining < len(p) {
		return 0, w.err
	}
	w.remaining -= len(p)
	return len(p), nil
}

func TestEncoderWriteError(t *testing.T) {
	errFull := errors.New("device full")
	enc := NewEncoder(&failAfterWriter{remaining: 5, err: errFull}, 2)
	n, err := token.Copy(enc, token.NewSliceSource([]token.Event{
		token.BeginArrayEvent, token.NumberEvent("1"), token.NumberEvent("2"), token.NumberEvent("3"), token.EndArrayEvent,
	}))
	var werr *format.WriteError
	require.ErrorAs(t, err, &werr)
	require.ErrorIs(t, err, errFull)
	require.Less(t, n, 5)
}
