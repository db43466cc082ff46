package term

import (
	"sync"
	"time"
)

// streamPollInterval is how often the stream's reader goroutine checks for
// shutdown while waiting for input.
const streamPollInterval = 50 * time.Millisecond

// EventStream adapts an EventReader to channel-based consumption so events
// can be selected on alongside other channels. The stream performs no
// scheduling of its own beyond the single goroutine that drives the reader;
// the receive channel is the readiness notification.
//
// The stream owns the reader between Start and Stop; do not call Read or
// Poll on the reader while the stream is running.
type EventStream struct {
	reader *EventReader
	events chan Event

	mu      sync.Mutex
	stop    chan struct{}
	done    chan struct{}
	err     error
	started bool
}

// NewEventStream creates a stream over the given reader.
func NewEventStream(reader *EventReader) *EventStream {
	return &EventStream{
		reader: reader,
		events: make(chan Event),
	}
}

// Start launches the goroutine that reads events onto the channel.
// Starting an already-started stream is a no-op.
func (s *EventStream) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.started {
		return
	}
	s.started = true
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.run(s.stop, s.done)
}

func (s *EventStream) run(stop, done chan struct{}) {
	defer close(done)
	for {
		select {
		case <-stop:
			return
		default:
		}

		ev, ok, err := s.reader.Poll(streamPollInterval)
		if err != nil {
			s.mu.Lock()
			s.err = err
			s.mu.Unlock()
			return
		}
		if !ok {
			continue
		}

		select {
		case s.events <- ev:
		case <-stop:
			return
		}
	}
}

// Events returns the channel events are delivered on. The channel is never
// closed; use Stop and Err to detect termination.
func (s *EventStream) Events() <-chan Event {
	return s.events
}

// Err returns the error that terminated the stream, if any.
func (s *EventStream) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Stop halts the reading goroutine and waits for it to exit. The
// underlying reader remains open and usable. Stopping a stopped stream is
// a no-op.
func (s *EventStream) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.started = false
	stop, done := s.stop, s.done
	s.mu.Unlock()

	close(stop)
	<-done
}
