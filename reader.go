package term

import (
	"os"
	"time"
)

// defaultEscTimeout is the grace window for disambiguating a lone ESC byte
// from the start of an escape sequence. If no continuation bytes arrive
// within the window, the ESC is reported as the Escape key.
const defaultEscTimeout = 50 * time.Millisecond

// EventReader turns platform input into a single ordered stream of typed
// events. Events are delivered in the order their underlying raw units
// finished decoding; at most one event is returned per call, with the rest
// buffered FIFO.
//
// A reader owns its decode buffer and is not safe for concurrent use; the
// design assumes one reader per process reading from one terminal. For
// channel-based consumption see EventStream.
type EventReader struct {
	src     inputSource
	buf     []byte  // undecoded bytes carried across reads
	pending []Event // decoded events waiting to be returned
	closed  bool

	lastFeed     time.Time // when buf last changed, for the ESC grace window
	escTimeout   time.Duration
	pasteEnabled bool
}

// ReaderOption configures an EventReader.
type ReaderOption func(*EventReader)

// WithBracketedPaste makes the reader decode bracketed-paste markers into
// PasteEvents. Without this option the marker bytes decode as ordinary
// key input. The terminal must also have paste reporting enabled (see
// Terminal.EnableBracketedPaste).
func WithBracketedPaste() ReaderOption {
	return func(r *EventReader) {
		r.pasteEnabled = true
	}
}

// WithEscTimeout sets the grace window used to decide whether a lone ESC
// byte is the Escape key or the start of a sequence. The default is 50ms.
func WithEscTimeout(d time.Duration) ReaderOption {
	return func(r *EventReader) {
		if d > 0 {
			r.escTimeout = d
		}
	}
}

// NewEventReader creates an EventReader for the given terminal input.
// The terminal should already be in raw mode for character-by-character
// delivery (see RawMode).
func NewEventReader(in *os.File, opts ...ReaderOption) (*EventReader, error) {
	src, err := newSource(in)
	if err != nil {
		return nil, err
	}
	return newEventReader(src, opts...), nil
}

func newEventReader(src inputSource, opts ...ReaderOption) *EventReader {
	r := &EventReader{
		src:        src,
		escTimeout: defaultEscTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Read blocks until one complete event is available or an I/O error occurs.
func (r *EventReader) Read() (Event, error) {
	for {
		ev, ok, err := r.Poll(-1)
		if err != nil {
			return nil, err
		}
		if ok {
			return ev, nil
		}
	}
}

// Poll reads the next event with a timeout. Returns (event, true, nil) if
// an event was read, (nil, false, nil) on timeout. A timeout of 0 performs
// a non-blocking check; a negative timeout blocks indefinitely. A timeout
// never consumes partial decoder state.
func (r *EventReader) Poll(timeout time.Duration) (Event, bool, error) {
	// The deadline is fixed up front so that filtering stray internal
	// events cannot extend the caller's wait.
	var deadline time.Time
	if timeout >= 0 {
		deadline = time.Now().Add(timeout)
	}
	for {
		ev, ok, err := r.poll(deadline)
		if err != nil || !ok {
			return nil, false, err
		}
		// Cursor position reports answer an explicit query and are never
		// surfaced as input events.
		if _, internal := ev.(cursorPositionEvent); internal {
			continue
		}
		return ev, true, nil
	}
}

// poll implements the decode loop shared by Poll and CursorPosition.
// It surfaces internal events. A zero deadline blocks indefinitely.
func (r *EventReader) poll(deadline time.Time) (Event, bool, error) {
	if r.closed {
		return nil, false, ErrReaderClosed
	}

	for {
		if len(r.pending) > 0 {
			ev := r.pending[0]
			r.pending = r.pending[1:]
			return ev, true, nil
		}

		if ev, ok := r.decodeOne(false); ok {
			return ev, true, nil
		}

		wait, forced := r.waitBudget(deadline)
		if forced {
			if ev, ok := r.decodeOne(true); ok {
				return ev, true, nil
			}
		}

		unit, ok, err := r.src.wait(wait)
		if err != nil {
			return nil, false, err
		}
		if ok {
			r.feed(unit)
			continue
		}

		// Source timeout: the grace window or the caller's deadline ran out.
		if !deadline.IsZero() && !time.Now().Before(deadline) {
			return nil, false, nil
		}
	}
}

// waitBudget computes how long the next source wait may block, bounded by
// the caller's deadline and, when an ambiguous prefix is buffered, the ESC
// grace window. forced reports that the grace window has already elapsed.
func (r *EventReader) waitBudget(deadline time.Time) (wait time.Duration, forced bool) {
	wait = -1
	if !deadline.IsZero() {
		wait = time.Until(deadline)
		if wait < 0 {
			wait = 0
		}
	}

	if len(r.buf) == 0 || r.buf[0] != 0x1b {
		return wait, false
	}

	graceLeft := r.escTimeout - time.Since(r.lastFeed)
	if graceLeft <= 0 {
		return wait, true
	}
	if wait < 0 || graceLeft < wait {
		wait = graceLeft
	}
	return wait, false
}

// decodeOne decodes at most one event from the byte buffer, discarding
// invalid sequences to resynchronize. force resolves a trailing ambiguous
// ESC as the Escape key.
func (r *EventReader) decodeOne(force bool) (Event, bool) {
	for len(r.buf) > 0 {
		ev, n, status := decodeEvent(r.buf, force, r.pasteEnabled)
		switch status {
		case parseEvent:
			r.consume(n)
			return ev, true
		case parseInvalid:
			r.consume(n)
		case parseIncomplete:
			return nil, false
		}
	}
	return nil, false
}

func (r *EventReader) consume(n int) {
	r.buf = r.buf[n:]
	// Whatever follows starts a fresh grace window.
	r.lastFeed = time.Now()
}

func (r *EventReader) feed(unit sourceUnit) {
	if len(unit.Data) > 0 {
		r.buf = append(r.buf, unit.Data...)
		r.lastFeed = time.Now()
	}
	if len(unit.Events) > 0 {
		r.pending = append(r.pending, unit.Events...)
	}
}

// Close releases the reader's resources. Must be called when done.
func (r *EventReader) Close() error {
	if r.closed {
		return nil
	}
	r.closed = true
	// Nudge any wait that is still blocking on the source before tearing
	// it down.
	_ = r.src.wake()
	return r.src.close()
}
