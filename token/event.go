package token

import (
	"fmt"
	"slices"
)

// An Event is an item in a stream that encodes a JSON value.  For example,
// the JSON value
//
//	{"id": 123, "tags": ["important", "new"]}
//
// is represented by the stream of events (in pseudocode for clarity):
//
//	{            -> BeginObject
//	"id":        -> Key("id")
//	123,         -> Number("123")
//	"tags":      -> Key("tags")
//	[            -> BeginArray
//	"important", -> String("important")
//	"new"        -> String("new")
//	]            -> EndArray
//	}            -> EndObject
//
// Consumers switch on Kind.  For Key and String events Text holds the
// unescaped string, for Number events it holds the literal as found in the
// input.  For Bool events the value is in Bool.
//
// Text may alias a buffer owned by the producer of the event, which is only
// valid until the next event is produced.  Use Clone to keep an event around.
type Event struct {
	Kind Kind
	Bool bool
	Text []byte
}

// Kind enumerates the possible events.
type Kind uint8

const (
	Invalid Kind = iota
	BeginObject
	EndObject
	BeginArray
	EndArray
	Key
	Null
	Bool
	Number
	String
)

var kindNames = [...]string{
	Invalid:     "Invalid",
	BeginObject: "BeginObject",
	EndObject:   "EndObject",
	BeginArray:  "BeginArray",
	EndArray:    "EndArray",
	Key:         "Key",
	Null:        "Null",
	Bool:        "Bool",
	Number:      "Number",
	String:      "String",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsScalar is true for Null, Bool, Number and String.
func (k Kind) IsScalar() bool {
	return k >= Null && k <= String
}

// IsBegin is true for BeginObject and BeginArray.
func (k Kind) IsBegin() bool {
	return k == BeginObject || k == BeginArray
}

// IsEnd is true for EndObject and EndArray.
func (k Kind) IsEnd() bool {
	return k == EndObject || k == EndArray
}

func (e Event) String() string {
	switch e.Kind {
	case Key, Number, String:
		return fmt.Sprintf("%s(%q)", e.Kind, e.Text)
	case Bool:
		return fmt.Sprintf("Bool(%t)", e.Bool)
	default:
		return e.Kind.String()
	}
}

// Clone returns a copy of e which does not share its Text with e.
func (e Event) Clone() Event {
	e.Text = slices.Clone(e.Text)
	return e
}

// Equal is true if e and f are the same event.  Numbers are compared
// literally, so 1.0 and 1.00 are different.
func (e Event) Equal(f Event) bool {
	if e.Kind != f.Kind {
		return false
	}
	switch e.Kind {
	case Bool:
		return e.Bool == f.Bool
	case Key, Number, String:
		return string(e.Text) == string(f.Text)
	default:
		return true
	}
}

var (
	BeginObjectEvent = Event{Kind: BeginObject}
	EndObjectEvent   = Event{Kind: EndObject}
	BeginArrayEvent  = Event{Kind: BeginArray}
	EndArrayEvent    = Event{Kind: EndArray}
	NullEvent        = Event{Kind: Null}
	TrueEvent        = Event{Kind: Bool, Bool: true}
	FalseEvent       = Event{Kind: Bool, Bool: false}
)

func KeyEvent(key string) Event {
	return Event{Kind: Key, Text: []byte(key)}
}

func StringEvent(s string) Event {
	return Event{Kind: String, Text: []byte(s)}
}

// NumberEvent returns a Number event for the given literal.  The literal is
// not checked.
func NumberEvent(literal string) Event {
	return Event{Kind: Number, Text: []byte(literal)}
}

func BoolEvent(b bool) Event {
	if b {
		return TrueEvent
	}
	return FalseEvent
}
