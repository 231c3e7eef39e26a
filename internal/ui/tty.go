package ui

import (
	"io"

	"github.com/mattn/go-isatty"
	"golang.org/x/term"
)

// Mode selects how a Spinner renders.
type Mode int

const (
	// Unresolved is the mode of a Spinner that has not been started and was
	// not given one with WithMode.
	Unresolved Mode = iota
	// NonInteractive prints a single static status line.
	NonInteractive
	// Interactive redraws frames in place using carriage returns.
	Interactive
)

func (m Mode) String() string {
	switch m {
	case Interactive:
		return "interactive"
	case NonInteractive:
		return "non-interactive"
	}
	return "unresolved"
}

// fder is implemented by *os.File and other descriptor-backed writers.
type fder interface {
	Fd() uintptr
}

// DetectMode reports Interactive when w is attached to a terminal.
// Writers without a file descriptor (buffers, pipes wrapped in bufio, …)
// are always NonInteractive.
func DetectMode(w io.Writer) Mode {
	f, ok := w.(fder)
	if !ok {
		return NonInteractive
	}
	fd := f.Fd()
	if term.IsTerminal(int(fd)) || isatty.IsCygwinTerminal(fd) {
		return Interactive
	}
	return NonInteractive
}
