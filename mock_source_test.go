package term

import (
	"sync"
	"time"
)

// mockSource is a scripted inputSource for testing the reader without a
// terminal. Each wait call delivers the next scripted unit; once the
// script runs out, wait sleeps for the requested timeout and reports a
// timeout, which lets grace-window deadlines elapse naturally.
type mockSource struct {
	mu     sync.Mutex
	units  []sourceUnit
	delay  time.Duration // applied before each scripted delivery
	waits  int
	wakes  int
	closed bool
	err    error // returned by every wait once set
}

func newMockSource(units ...sourceUnit) *mockSource {
	return &mockSource{units: units}
}

// push appends a unit to the script.
func (m *mockSource) push(unit sourceUnit) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.units = append(m.units, unit)
}

// pushBytes appends a byte-only unit to the script.
func (m *mockSource) pushBytes(data string) {
	m.push(sourceUnit{Data: []byte(data)})
}

func (m *mockSource) wait(timeout time.Duration) (sourceUnit, bool, error) {
	m.mu.Lock()
	m.waits++
	if m.err != nil {
		err := m.err
		m.mu.Unlock()
		return sourceUnit{}, false, err
	}
	if len(m.units) > 0 {
		unit := m.units[0]
		m.units = m.units[1:]
		delay := m.delay
		m.mu.Unlock()
		// A nonzero delay models a slow terminal that takes a while to
		// produce each unit.
		if delay > 0 {
			time.Sleep(delay)
		}
		return unit, true, nil
	}
	m.mu.Unlock()

	// Script exhausted: simulate waiting out the timeout. A negative
	// timeout would block a real source forever, so cap it to keep
	// misbehaving tests from hanging.
	if timeout < 0 || timeout > 100*time.Millisecond {
		timeout = 100 * time.Millisecond
	}
	time.Sleep(timeout)
	return sourceUnit{}, false, nil
}

func (m *mockSource) wake() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.wakes++
	return nil
}

func (m *mockSource) close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}
