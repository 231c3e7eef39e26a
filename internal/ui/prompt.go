package ui

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/term"
)

// ErrNotTerminal is returned when a secret prompt has no terminal to read from.
var ErrNotTerminal = errors.New("stdin is not a terminal")

// ReadSecret prints prompt to stderr and reads a line from the terminal
// without echoing it.
func ReadSecret(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", ErrNotTerminal
	}

	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading secret: %w", err)
	}
	return string(b), nil
}
