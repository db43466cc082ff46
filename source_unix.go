//go:build unix

package term

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// wakeResize and wakeInterrupt are the bytes written to the self-pipe to
// distinguish resize signals from explicit wake-ups.
const (
	wakeResize    = 'r'
	wakeInterrupt = 'w'
)

// unixSource reads raw bytes from the terminal file descriptor using
// select()-based readiness, merged with a self-pipe that the SIGWINCH
// forwarder and wake() write to. The signal handler context only ever
// enqueues; size queries happen on the reader goroutine.
type unixSource struct {
	fd      int
	buf     []byte
	sigCh   chan os.Signal
	pipeR   int
	pipeW   int
	sigDone chan struct{}
}

func newSource(in *os.File) (inputSource, error) {
	var pipeFds [2]int
	if err := unix.Pipe(pipeFds[:]); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrResizeSignal, err)
	}
	for _, fd := range pipeFds {
		if err := unix.SetNonblock(fd, true); err != nil {
			unix.Close(pipeFds[0])
			unix.Close(pipeFds[1])
			return nil, fmt.Errorf("%w: %v", ErrResizeSignal, err)
		}
	}

	s := &unixSource{
		fd:      int(in.Fd()),
		buf:     make([]byte, 1024),
		sigCh:   make(chan os.Signal, 1),
		pipeR:   pipeFds[0],
		pipeW:   pipeFds[1],
		sigDone: make(chan struct{}),
	}

	signal.Notify(s.sigCh, syscall.SIGWINCH)
	go s.forwardSignals()

	return s, nil
}

// forwardSignals turns SIGWINCH deliveries into self-pipe writes so that a
// blocking select() wakes up. Runs until the signal channel is closed.
func (s *unixSource) forwardSignals() {
	defer close(s.sigDone)
	for range s.sigCh {
		b := [1]byte{wakeResize}
		unix.Write(s.pipeW, b[:])
	}
}

func (s *unixSource) wait(timeout time.Duration) (sourceUnit, bool, error) {
	ready, interrupted, err := selectFdPair(s.fd, s.pipeR, timeout)
	if err != nil {
		return sourceUnit{}, false, fmt.Errorf("term: wait for input: %w", err)
	}

	// The self-pipe wins ties so resize events are never starved by a busy
	// input stream.
	if interrupted {
		resized := s.drainPipe()
		if !resized {
			return sourceUnit{}, true, nil // explicit wake
		}
		w, h := terminalSize(s.fd)
		return sourceUnit{Events: []Event{ResizeEvent{Width: w, Height: h}}}, true, nil
	}

	if !ready {
		return sourceUnit{}, false, nil
	}

	n, err := unix.Read(s.fd, s.buf)
	if err != nil {
		if err == unix.EINTR || err == unix.EAGAIN {
			return sourceUnit{}, true, nil
		}
		return sourceUnit{}, false, &os.SyscallError{Syscall: "read", Err: err}
	}
	if n == 0 {
		return sourceUnit{}, false, &os.SyscallError{Syscall: "read", Err: unix.EIO}
	}

	data := make([]byte, n)
	copy(data, s.buf[:n])
	return sourceUnit{Data: data}, true, nil
}

// drainPipe empties the self-pipe and reports whether any resize
// notification was among the drained bytes. Rapid resize signals coalesce
// into a single event here.
func (s *unixSource) drainPipe() (resized bool) {
	var buf [64]byte
	for {
		n, err := unix.Read(s.pipeR, buf[:])
		if n <= 0 || err != nil {
			return resized
		}
		for _, b := range buf[:n] {
			if b == wakeResize {
				resized = true
			}
		}
	}
}

func (s *unixSource) wake() error {
	b := [1]byte{wakeInterrupt}
	if _, err := unix.Write(s.pipeW, b[:]); err != nil && err != unix.EAGAIN {
		return &os.SyscallError{Syscall: "write", Err: err}
	}
	return nil
}

func (s *unixSource) close() error {
	signal.Stop(s.sigCh)
	close(s.sigCh)
	<-s.sigDone
	unix.Close(s.pipeR)
	unix.Close(s.pipeW)
	return nil
}

// selectFdPair waits for readability on fd or interruptFd with a timeout.
// interruptFd is reported in preference to fd when both are ready.
func selectFdPair(fd, interruptFd int, timeout time.Duration) (ready, interrupted bool, err error) {
	var readFds unix.FdSet
	readFds.Zero()
	readFds.Set(fd)
	readFds.Set(interruptFd)

	maxFd := fd
	if interruptFd > maxFd {
		maxFd = interruptFd
	}

	var tv *unix.Timeval
	if timeout >= 0 {
		tvVal := unix.NsecToTimeval(timeout.Nanoseconds())
		tv = &tvVal
	}
	// A nil timeval blocks indefinitely.

	n, err := unix.Select(maxFd+1, &readFds, nil, nil, tv)
	if err != nil {
		// EINTR is expected when signals arrive mid-select.
		if err == unix.EINTR {
			return false, false, nil
		}
		return false, false, err
	}
	if n == 0 {
		return false, false, nil
	}

	if readFds.IsSet(interruptFd) {
		return false, true, nil
	}
	return readFds.IsSet(fd), false, nil
}
