package term

import (
	"fmt"
	"io"
	"time"
)

// cursorPositionTimeout bounds how long a cursor position query waits for
// the terminal's report.
const cursorPositionTimeout = 2 * time.Second

// CursorPosition queries the terminal for the cursor position by writing
// ESC[6n to out and waiting for the report on the input stream. The top
// left cell is (0, 0).
//
// The terminal must be in raw mode, or the report would be line-buffered
// and echoed. Events arriving while waiting for the report are buffered
// and delivered by later Read or Poll calls in their original order.
func (r *EventReader) CursorPosition(out io.Writer) (x, y int, err error) {
	if _, err := out.Write([]byte("\x1b[6n")); err != nil {
		return 0, 0, fmt.Errorf("term: write cursor position query: %w", err)
	}

	deadline := time.Now().Add(cursorPositionTimeout)
	var skipped []Event
	defer func() {
		if len(skipped) > 0 {
			r.pending = append(skipped, r.pending...)
		}
	}()

	for {
		ev, ok, err := r.poll(deadline)
		if err != nil {
			return 0, 0, err
		}
		if !ok {
			return 0, 0, ErrCursorPositionTimeout
		}

		if report, isReport := ev.(cursorPositionEvent); isReport {
			return report.X, report.Y, nil
		}
		skipped = append(skipped, ev)
	}
}
