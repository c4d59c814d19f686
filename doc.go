// Package jsonpp pretty-prints JSON as a stream.
//
// The input is parsed into a stream of events (see the token package) which
// are written out as indented JSON as soon as they are produced:
//
//	decode JSON -> event -> encode JSON
//
// Only one event is in flight at a time, so memory usage depends on the
// nesting depth of the input but not on its size.  This has several
// advantages:
//
//   - Arbitrarily large documents (or streams of documents) can be formatted
//     in constant memory
//   - When piping output through tools like 'less' or 'head', output is
//     available immediately without waiting for the entire input to be read
//   - Numbers are never converted, so their text is preserved exactly
//
// The sub-packages are:
//
//   - encoding/json: JSON decoder (pull parser) and encoder (formatter)
//   - token: events and the Copy function driving a pipeline
//
// The CLI utility is in the directory cmd/jpp.  You can install it with:
//
//	go install github.com/arnodel/jsonpp/cmd/jpp
package jsonpp
