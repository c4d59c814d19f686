//go:build debug

package debug

import "log"

// Printf logs a trace message to stderr.  It is only compiled in with the
// debug build tag.
func Printf(msg string, args ...any) {
	log.Printf(msg, args...)
}

const On = true
