package term

import "time"

// sourceUnit is one unit of input delivered by an inputSource.
// Byte-stream backends fill Data for the escape-sequence decoder;
// record-stream backends (the Windows console) fill Events directly.
// A unit may be empty, which callers treat as a spurious wake.
type sourceUnit struct {
	Data   []byte
	Events []Event
}

// inputSource abstracts the platform input backend behind one contract:
// wait for the next unit within a timeout, with out-of-band wakeability.
//
// Resize notifications arrive as units carrying a ResizeEvent. When a
// resize signal and readable input are pending at the same wake, the
// signal is delivered first so resizes are never starved by key input.
type inputSource interface {
	// wait blocks until a unit is available or the timeout elapses.
	// A negative timeout blocks indefinitely; zero performs a
	// non-blocking check. Returns ok=false on timeout.
	wait(timeout time.Duration) (unit sourceUnit, ok bool, err error)

	// wake interrupts a concurrent wait, which returns an empty unit.
	// Safe to call from any goroutine.
	wake() error

	// close releases the source's resources.
	close() error
}
