//go:build windows

package term

import (
	"os"

	"golang.org/x/sys/windows"
	xterm "golang.org/x/term"
)

// terminalSize returns the terminal dimensions for the console handle,
// falling back to the conventional 80x24 when the query fails.
func terminalSize(fd int) (width, height int) {
	var info windows.ConsoleScreenBufferInfo
	if err := windows.GetConsoleScreenBufferInfo(windows.Handle(fd), &info); err == nil {
		w := int(info.Window.Right-info.Window.Left) + 1
		h := int(info.Window.Bottom-info.Window.Top) + 1
		if w > 0 && h > 0 {
			return w, h
		}
	}
	if w, h, err := xterm.GetSize(fd); err == nil && w > 0 && h > 0 {
		return w, h
	}
	return 80, 24
}

// isTerminal reports whether f is attached to a console.
func isTerminal(f *os.File) bool {
	return xterm.IsTerminal(int(f.Fd()))
}
