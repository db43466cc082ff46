//go:build unix

package term

import (
	"os"

	"golang.org/x/sys/unix"
	xterm "golang.org/x/term"
)

// terminalSize returns the terminal dimensions for fd, falling back to the
// conventional 80x24 when the query fails.
func terminalSize(fd int) (width, height int) {
	ws, err := unix.IoctlGetWinsize(fd, unix.TIOCGWINSZ)
	if err == nil && ws.Col > 0 && ws.Row > 0 {
		return int(ws.Col), int(ws.Row)
	}
	if w, h, err := xterm.GetSize(fd); err == nil && w > 0 && h > 0 {
		return w, h
	}
	return 80, 24
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return xterm.IsTerminal(int(f.Fd()))
}
