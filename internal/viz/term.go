package viz

import (
	"os"

	"golang.org/x/term"
)

// TerminalWidth returns the width of stdout, or fallback when stdout is not
// a terminal.
func TerminalWidth(fallback int) int {
	if !IsTerminal(os.Stdout) {
		return fallback
	}
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return fallback
	}
	return w
}

func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
