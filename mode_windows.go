//go:build windows

package term

import "golang.org/x/sys/windows"

// notRawModeMask holds the console input mode bits that cannot be set in
// raw mode: line buffering, echo, and control-character processing.
const notRawModeMask = windows.ENABLE_LINE_INPUT | windows.ENABLE_ECHO_INPUT | windows.ENABLE_PROCESSED_INPUT

// modeState is a snapshot of the console input mode before raw mode.
type modeState struct {
	mode uint32
}

// queryTermMode captures the current console input mode.
func queryTermModeOS(fd int) (*modeState, error) {
	var mode uint32
	if err := windows.GetConsoleMode(windows.Handle(fd), &mode); err != nil {
		return nil, err
	}
	return &modeState{mode: mode}, nil
}

// applyRawMode clears the line-input, echo, and processed-input bits.
func applyRawModeOS(fd int, saved *modeState) error {
	return windows.SetConsoleMode(windows.Handle(fd), saved.mode&^uint32(notRawModeMask))
}

// restoreTermMode reapplies the snapshot captured by queryTermMode.
func restoreTermModeOS(fd int, saved *modeState) error {
	return windows.SetConsoleMode(windows.Handle(fd), saved.mode)
}
