package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/arnodel/jsonpp"
	"github.com/arnodel/jsonpp/encoding/json"
	"github.com/arnodel/jsonpp/internal/debug"
	"github.com/arnodel/jsonpp/internal/decompress"
	"github.com/arnodel/jsonpp/internal/sink"
	"github.com/fatih/color"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
)

func main() {
	// Do not handle SIGPIPE, we'll do it ourselves (a broken pipe on stdout
	// is not an error, see run).
	signal.Ignore(syscall.SIGPIPE)

	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

// Exit codes
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	var (
		indentSize     int
		compact        bool
		maxDepth       int
		stream         bool
		colorMode      string
		decompressMode string
	)

	flags := flag.NewFlagSet("jpp", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.Usage = func() { printUsage(stderr) }

	flags.IntVar(&indentSize, "indent-size", 2, "number of spaces per indentation level")
	flags.IntVar(&indentSize, "indent", 2, "alias for -indent-size")
	flags.BoolVar(&compact, "compact", false, "output each value on a single line")
	flags.IntVar(&maxDepth, "max-depth", json.DefaultMaxDepth, "maximum nesting depth of the input (0 for no limit)")
	flags.BoolVar(&stream, "stream", false, "accept a sequence of JSON values")
	flags.StringVar(&colorMode, "color", "auto", "colorize output: auto, always, never")
	flags.StringVar(&decompressMode, "decompress", "auto", "input compression: auto, none, gzip, zstd, lz4, s2")

	if err := flags.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if flags.NArg() > 0 {
		return usageError(stderr, "unexpected argument %q (input is read from stdin)", flags.Arg(0))
	}
	if indentSize < 0 {
		return usageError(stderr, "invalid -indent-size value: %d (must be 0 or more)", indentSize)
	}
	if maxDepth < 0 {
		return usageError(stderr, "invalid -max-depth value: %d (must be 0 or more)", maxDepth)
	}
	mode, err := decompress.ParseMode(decompressMode)
	if err != nil {
		return usageError(stderr, "invalid -decompress value: %q", decompressMode)
	}

	stdoutIsTerminal := isTerminal(stdout)
	var useColor bool
	switch colorMode {
	case "always":
		useColor = true
	case "never":
		useColor = false
	case "auto":
		useColor = stdoutIsTerminal
	default:
		return usageError(stderr, "invalid -color value: %q (use auto, always, or never)", colorMode)
	}

	// Set up stdout for handling colors
	if f, ok := stdout.(*os.File); ok && useColor {
		stdout = colorable.NewColorable(f)
	}

	tc := &jsonpp.Transcoder{
		IndentSize: indentSize,
		Compact:    compact,
		MaxDepth:   maxDepth,
		Stream:     stream,
		Color:      useColor,
		// If we are writing to a terminal, flush after each line so user
		// gets feedback early.
		FlushLines: stdoutIsTerminal,
	}
	debug.Printf("transcoder: %+v, decompress: %s", *tc, mode)

	input, err := decompress.NewReader(stdin, mode)
	if err != nil {
		return fatalError(stderr, err)
	}
	defer input.Close()

	buffered := bufio.NewWriter(stdout)
	out := sink.New(buffered)
	if err := tc.Transcode(input, out); err != nil {
		if out.BrokenPipe() {
			// stdout is a pipe and something closed it (e.g. 'head' or
			// 'less').  In this case we don't want to complain.
			debug.Printf("broken pipe: %s", err)
			return exitOK
		}
		// Let the user see the output up to the error.
		buffered.Flush()
		return fatalError(stderr, err)
	}
	return exitOK
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}

// fatalError prints err followed by the chain of errors causing it.
func fatalError(stderr io.Writer, err error) int {
	label := color.New(color.FgRed, color.Bold)
	if isTerminal(stderr) {
		label.EnableColor()
	} else {
		label.DisableColor()
	}
	fmt.Fprintf(stderr, "%s %s\n", label.Sprint("Error:"), err)
	for cause := errors.Unwrap(err); cause != nil; cause = errors.Unwrap(cause) {
		fmt.Fprintf(stderr, "Because: %s\n", cause)
	}
	return exitError
}

func usageError(stderr io.Writer, msg string, args ...any) int {
	fmt.Fprintf(stderr, "jpp: "+msg+"\n", args...)
	fmt.Fprintln(stderr, "Run 'jpp -help' for usage.")
	return exitUsage
}

func printUsage(w io.Writer) {
	modes := make([]string, len(decompress.Modes))
	for i, m := range decompress.Modes {
		modes[i] = string(m)
	}
	fmt.Fprintf(w, `jpp - streaming JSON pretty-printer

USAGE:
  jpp [options] < input.json

DESCRIPTION:
  jpp reads JSON from stdin and writes it to stdout, indented.  The input is
  never loaded in memory as a whole, so it can be arbitrarily large.  Numbers
  are written exactly as they appear in the input.

OPTIONS:
  -indent-size N    Spaces per indentation level (default: 2, alias: -indent)
  -compact          Output each value on a single line
  -max-depth N      Maximum nesting depth of the input (default: %d, 0 for no limit)
  -stream           Accept a sequence of JSON values (e.g. JSON Lines)
  -color MODE       Colorize output (default: auto)
                    Modes: auto, always, never
  -decompress MODE  Input compression (default: auto)
                    Modes: %s

EXAMPLES:
  # Pretty-print a file
  jpp < data.json

  # Indent with 4 spaces and look at the start
  curl -s https://example.com/big.json | jpp -indent-size 4 | head -50

  # Format a compressed log of JSON values
  jpp -stream < events.jsonl.zst
`, json.DefaultMaxDepth, strings.Join(modes, ", "))
}
