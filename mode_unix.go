//go:build unix

package term

import "golang.org/x/sys/unix"

// modeState is a snapshot of the terminal attributes before raw mode.
type modeState struct {
	termios unix.Termios
}

// queryTermModeOS captures the current terminal attributes.
func queryTermModeOS(fd int) (*modeState, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlReadTermios)
	if err != nil {
		return nil, err
	}
	return &modeState{termios: *termios}, nil
}

// applyRawModeOS applies raw attributes on top of the given snapshot.
func applyRawModeOS(fd int, saved *modeState) error {
	termios := saved.termios

	// Turn off:
	// - ECHO: don't echo input characters
	// - ICANON: disable canonical mode (read byte-by-byte instead of line-by-line)
	// - ISIG: disable signals (Ctrl+C, Ctrl+Z, etc.)
	// - IEXTEN: disable extended input processing
	termios.Lflag &^= unix.ECHO | unix.ICANON | unix.ISIG | unix.IEXTEN

	// Turn off:
	// - IXON: disable software flow control (Ctrl+S, Ctrl+Q)
	// - ICRNL: don't translate CR to NL
	// - BRKINT: don't send SIGINT on break
	// - INPCK: disable parity checking
	// - ISTRIP: don't strip 8th bit
	termios.Iflag &^= unix.IXON | unix.ICRNL | unix.BRKINT | unix.INPCK | unix.ISTRIP

	// Turn off:
	// - OPOST: disable output processing
	termios.Oflag &^= unix.OPOST

	// Set:
	// - CS8: 8-bit characters
	termios.Cflag |= unix.CS8

	// VMIN = 1: read returns when at least 1 byte is available
	// VTIME = 0: no read timeout
	termios.Cc[unix.VMIN] = 1
	termios.Cc[unix.VTIME] = 0

	return unix.IoctlSetTermios(fd, ioctlWriteTermios, &termios)
}

// restoreTermModeOS reapplies the snapshot captured by queryTermModeOS.
func restoreTermModeOS(fd int, saved *modeState) error {
	return unix.IoctlSetTermios(fd, ioctlWriteTermios, &saved.termios)
}
