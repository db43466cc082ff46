package term

import (
	"fmt"
	"os"
	"sync"
)

// Platform hooks, swappable in tests.
var (
	queryTermMode   = queryTermModeOS
	applyRawMode    = applyRawModeOS
	restoreTermMode = restoreTermModeOS
)

// RawMode manages the terminal's raw input mode: unbuffered, unechoed
// delivery with no signal generation from control characters.
//
// It holds at most one live snapshot of the original mode: enabling while
// already enabled is an idempotent no-op, and disabling restores exactly
// the snapshot captured by the most recent effective enable. The manager
// is safe for concurrent use.
type RawMode struct {
	mu      sync.Mutex
	fd      int
	enabled bool
	saved   *modeState
}

// NewRawMode returns a raw-mode manager for the given terminal input file
// (typically os.Stdin). Returns ErrNotTerminal if the file is not attached
// to a terminal.
func NewRawMode(in *os.File) (*RawMode, error) {
	if !isTerminal(in) {
		return nil, ErrNotTerminal
	}
	return &RawMode{fd: int(in.Fd())}, nil
}

// Enable puts the terminal into raw mode and returns a guard whose Release
// restores it. If raw mode is already enabled, Enable succeeds without
// capturing a new snapshot.
//
// The guard makes restoration a scoped acquisition:
//
//	guard, err := mode.Enable()
//	if err != nil { ... }
//	defer guard.Release()
func (m *RawMode) Enable() (*RawModeGuard, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		saved, err := queryTermMode(m.fd)
		if err != nil {
			return nil, fmt.Errorf("term: query terminal mode: %w", err)
		}
		if err := applyRawMode(m.fd, saved); err != nil {
			// Nothing was changed; the snapshot is discarded.
			return nil, fmt.Errorf("term: set raw mode: %w", err)
		}
		m.saved = saved
		m.enabled = true
	}

	return &RawModeGuard{mode: m}, nil
}

// Disable restores the terminal mode captured at the last effective Enable.
// A no-op success when raw mode is not enabled. Even when restoration
// fails, the manager marks the mode disabled (best effort) and drops the
// snapshot, so state never claims raw mode against an unknown reality.
func (m *RawMode) Disable() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.enabled {
		return nil
	}

	saved := m.saved
	m.saved = nil
	m.enabled = false

	if err := restoreTermMode(m.fd, saved); err != nil {
		return fmt.Errorf("term: restore terminal mode: %w", err)
	}
	return nil
}

// IsEnabled reports whether raw mode is currently enabled.
func (m *RawMode) IsEnabled() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.enabled
}

// RawModeGuard restores the terminal mode when released. Release is
// idempotent; only the first call disables raw mode.
type RawModeGuard struct {
	mode *RawMode
	once sync.Once
	err  error
}

// Release disables raw mode. Safe to call multiple times; subsequent calls
// return the first call's result.
func (g *RawModeGuard) Release() error {
	g.once.Do(func() {
		g.err = g.mode.Disable()
	})
	return g.err
}
