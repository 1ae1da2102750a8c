package controller

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

// NewUI picks the live TUI when the output is an interactive terminal and
// the plain renderer otherwise.
func NewUI(out io.Writer, tty bool) UI {
	if tty {
		return NewTUI(out)
	}

	return NewSimpleUI(out)
}

// IsTTY reports whether f is attached to an interactive terminal.
func IsTTY(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
