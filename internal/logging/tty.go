package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// fdWriter is any writer backed by a file descriptor, such as os.File.
type fdWriter interface {
	Fd() uintptr
}

// IsTTY reports whether the writer is attached to a terminal.
func IsTTY(w io.Writer) bool {
	f, ok := w.(fdWriter)
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI color output is appropriate for the
// writer: it must be a terminal, NO_COLOR must be unset
// (https://no-color.org), and TERM must not be "dumb".
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(w io.Writer, isTTY bool) bool {
	if _, set := os.LookupEnv("NO_COLOR"); set {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
