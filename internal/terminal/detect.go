// Package terminal provides terminal detection utilities.
package terminal

import (
	"io"

	"golang.org/x/term"
)

// fdHolder is satisfied by *os.File and anything else backed by a
// real file descriptor.
type fdHolder interface {
	Fd() uintptr
}

// IsTerminalReader reports whether r reads from an interactive terminal.
// Buffers and pipes report false, so prompts wired to test inputs never
// wait on a human.
func IsTerminalReader(r io.Reader) bool {
	f, ok := r.(fdHolder)
	return ok && term.IsTerminal(int(f.Fd()))
}

// IsTerminalWriter reports whether w writes to an interactive terminal.
func IsTerminalWriter(w io.Writer) bool {
	f, ok := w.(fdHolder)
	return ok && term.IsTerminal(int(f.Fd()))
}
