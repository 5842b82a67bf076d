package logging

import (
	"io"
	"os"

	"golang.org/x/term"
)

// IsTTY reports whether w is a terminal. Any writer with an Fd method is
// checked, which covers *os.File.
func IsTTY(w io.Writer) bool {
	f, ok := w.(interface{ Fd() uintptr })
	return ok && term.IsTerminal(int(f.Fd()))
}

// SupportsColor reports whether ANSI colors should be written to w.
// NO_COLOR (https://no-color.org) and TERM=dumb turn colors off.
func SupportsColor(w io.Writer) bool {
	return supportsColor(w, IsTTY(w))
}

func supportsColor(_ io.Writer, isTTY bool) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	if os.Getenv("TERM") == "dumb" {
		return false
	}
	return isTTY
}
