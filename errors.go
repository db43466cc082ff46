package term

import "errors"

var (
	// ErrNotTerminal is returned when the provided file is not attached to a
	// terminal and the requested operation requires one.
	ErrNotTerminal = errors.New("term: not a terminal")

	// ErrReaderClosed is returned from Read and Poll after Close has been
	// called on the EventReader.
	ErrReaderClosed = errors.New("term: event reader closed")

	// ErrCursorPositionTimeout is returned when the terminal does not answer
	// a cursor position query within a normal duration.
	ErrCursorPositionTimeout = errors.New("term: cursor position report timed out")

	// ErrResizeSignal is returned when resize notification delivery cannot
	// be set up (e.g. the self-pipe could not be created).
	ErrResizeSignal = errors.New("term: resize signal setup failed")
)
