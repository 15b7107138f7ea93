package main

import (
	"os"

	"github.com/mattn/go-isatty"
)

const (
	ansiGreen = "\x1b[32m"
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// colorTerminal reports whether stdout is an interactive terminal that
// will render ANSI escapes sanely; CI logs and piped output should stay
// plain text.
func colorTerminal() bool {
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorizeGate(label string, pass bool) string {
	if !colorTerminal() {
		return label
	}

	color := ansiRed
	if pass {
		color = ansiGreen
	}

	return color + label + ansiReset
}
