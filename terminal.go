package term

import (
	"io"
	"os"
)

// Terminal is a convenience handle pairing a terminal's output side with
// its raw mode state. It writes ANSI escape sequences for cursor movement,
// screen manipulation, and input reporting modes, and tracks which
// reporting modes it has enabled so Restore can undo them.
//
// A Terminal is not safe for concurrent use.
type Terminal struct {
	out  io.Writer
	in   *os.File
	caps Capabilities
	esc  *escBuilder
	raw  *RawMode

	lastStyle Style
	mouse     bool
	paste     bool
	focus     bool
	altScreen bool
}

// TerminalOption configures a Terminal.
type TerminalOption func(*Terminal)

// WithCapabilities overrides auto-detected capabilities.
func WithCapabilities(caps Capabilities) TerminalOption {
	return func(t *Terminal) {
		t.caps = caps
	}
}

// NewTerminal creates a Terminal over the given streams, usually os.Stdout
// and os.Stdin. Capabilities are detected from the environment unless
// overridden with WithCapabilities.
func NewTerminal(out io.Writer, in *os.File, opts ...TerminalOption) (*Terminal, error) {
	raw, err := NewRawMode(in)
	if err != nil {
		return nil, err
	}

	t := &Terminal{
		out:  out,
		in:   in,
		caps: DetectCapabilities(),
		esc:  newEscBuilder(256),
		raw:  raw,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

// Caps returns the terminal's capabilities.
func (t *Terminal) Caps() Capabilities {
	return t.caps
}

// Input returns the input file the terminal was created with, for use with
// NewEventReader.
func (t *Terminal) Input() *os.File {
	return t.in
}

// Size returns the terminal dimensions in cells. Returns 80x24 if the size
// cannot be determined.
func (t *Terminal) Size() (width, height int) {
	return terminalSize(sizeFd(t.out, t.in))
}

// sizeFd picks the descriptor to query for the window size: the output
// when it is a terminal, the input otherwise (output may be redirected).
func sizeFd(out io.Writer, in *os.File) int {
	if f, ok := out.(*os.File); ok && isTerminal(f) {
		return int(f.Fd())
	}
	return int(in.Fd())
}

// flush writes the pending escape buffer and resets it.
func (t *Terminal) flush() error {
	_, err := t.out.Write(t.esc.Bytes())
	t.esc.Reset()
	return err
}

// EnableRawMode puts the terminal into raw mode. The returned guard
// restores the previous mode on Release; deferring Release guarantees
// restoration on the way out.
func (t *Terminal) EnableRawMode() (*RawModeGuard, error) {
	return t.raw.Enable()
}

// DisableRawMode restores the terminal mode saved by EnableRawMode.
func (t *Terminal) DisableRawMode() error {
	return t.raw.Disable()
}

// IsRawMode reports whether raw mode is currently enabled through this
// Terminal.
func (t *Terminal) IsRawMode() bool {
	return t.raw.IsEnabled()
}

// MoveTo moves the cursor to the given position. The top left cell is
// (0, 0).
func (t *Terminal) MoveTo(x, y int) error {
	t.esc.MoveTo(x, y)
	return t.flush()
}

// MoveUp moves the cursor up by n rows.
func (t *Terminal) MoveUp(n int) error {
	t.esc.MoveUp(n)
	return t.flush()
}

// MoveDown moves the cursor down by n rows.
func (t *Terminal) MoveDown(n int) error {
	t.esc.MoveDown(n)
	return t.flush()
}

// MoveLeft moves the cursor left by n columns.
func (t *Terminal) MoveLeft(n int) error {
	t.esc.MoveLeft(n)
	return t.flush()
}

// MoveRight moves the cursor right by n columns.
func (t *Terminal) MoveRight(n int) error {
	t.esc.MoveRight(n)
	return t.flush()
}

// SaveCursor saves the current cursor position in the terminal.
func (t *Terminal) SaveCursor() error {
	t.esc.SaveCursor()
	return t.flush()
}

// RestoreCursor moves the cursor back to the saved position.
func (t *Terminal) RestoreCursor() error {
	t.esc.RestoreCursor()
	return t.flush()
}

// HideCursor makes the cursor invisible.
func (t *Terminal) HideCursor() error {
	t.esc.HideCursor()
	return t.flush()
}

// ShowCursor makes the cursor visible.
func (t *Terminal) ShowCursor() error {
	t.esc.ShowCursor()
	return t.flush()
}

// Clear erases the region selected by the clear type and leaves the style
// tracking reset.
func (t *Terminal) Clear(ct ClearType) error {
	t.esc.ResetStyle()
	t.esc.Clear(ct)
	t.lastStyle = NewStyle()
	return t.flush()
}

// ScrollUp scrolls the screen contents up by n rows.
func (t *Terminal) ScrollUp(n int) error {
	t.esc.ScrollUp(n)
	return t.flush()
}

// ScrollDown scrolls the screen contents down by n rows.
func (t *Terminal) ScrollDown(n int) error {
	t.esc.ScrollDown(n)
	return t.flush()
}

// SetTitle sets the terminal window title.
func (t *Terminal) SetTitle(title string) error {
	t.esc.SetTitle(title)
	return t.flush()
}

// EnterAltScreen switches to the alternate screen buffer, preserving the
// main screen content.
func (t *Terminal) EnterAltScreen() error {
	if t.altScreen {
		return nil
	}
	t.esc.EnterAltScreen()
	t.altScreen = true
	return t.flush()
}

// ExitAltScreen switches back to the main screen buffer.
func (t *Terminal) ExitAltScreen() error {
	if !t.altScreen {
		return nil
	}
	t.esc.ExitAltScreen()
	t.altScreen = false
	return t.flush()
}

// BeginSyncUpdate starts a synchronized update block. Output is held by
// the terminal until EndSyncUpdate, then displayed atomically.
func (t *Terminal) BeginSyncUpdate() error {
	t.esc.BeginSyncUpdate()
	return t.flush()
}

// EndSyncUpdate ends a synchronized update block.
func (t *Terminal) EndSyncUpdate() error {
	t.esc.EndSyncUpdate()
	return t.flush()
}

// EnableMouse asks the terminal to report mouse input. Reports arrive as
// MouseEvents on the input stream.
func (t *Terminal) EnableMouse() error {
	if t.mouse {
		return nil
	}
	t.esc.EnableMouse()
	t.mouse = true
	return t.flush()
}

// DisableMouse stops mouse reporting.
func (t *Terminal) DisableMouse() error {
	if !t.mouse {
		return nil
	}
	t.esc.DisableMouse()
	t.mouse = false
	return t.flush()
}

// EnableBracketedPaste asks the terminal to bracket pasted text. Pair with
// a reader created with WithBracketedPaste to receive PasteEvents.
func (t *Terminal) EnableBracketedPaste() error {
	if t.paste {
		return nil
	}
	t.esc.EnableBracketedPaste()
	t.paste = true
	return t.flush()
}

// DisableBracketedPaste stops paste bracketing.
func (t *Terminal) DisableBracketedPaste() error {
	if !t.paste {
		return nil
	}
	t.esc.DisableBracketedPaste()
	t.paste = false
	return t.flush()
}

// EnableFocusReporting asks the terminal to report focus changes as
// FocusEvents on the input stream.
func (t *Terminal) EnableFocusReporting() error {
	if t.focus {
		return nil
	}
	t.esc.EnableFocusReporting()
	t.focus = true
	return t.flush()
}

// DisableFocusReporting stops focus reporting.
func (t *Terminal) DisableFocusReporting() error {
	if !t.focus {
		return nil
	}
	t.esc.DisableFocusReporting()
	t.focus = false
	return t.flush()
}

// SetStyle emits the escape sequence for the given style, degraded to
// what the terminal's capabilities can express. Redundant calls with the
// current style write nothing.
func (t *Terminal) SetStyle(s Style) error {
	if s.Equal(t.lastStyle) {
		return nil
	}
	t.esc.SetStyle(s, t.caps)
	t.lastStyle = s
	return t.flush()
}

// ResetStyle resets all text attributes and colors to default.
func (t *Terminal) ResetStyle() error {
	t.esc.ResetStyle()
	t.lastStyle = NewStyle()
	return t.flush()
}

// Print writes a string at the current cursor position.
func (t *Terminal) Print(s string) error {
	t.esc.WriteString(s)
	return t.flush()
}

// Restore undoes everything this Terminal enabled: mouse, paste, and
// focus reporting, the alternate screen, text styling, cursor visibility,
// and raw mode. Call it on the way out so the shell gets a usable
// terminal back; errors from the mode restore are returned, output errors
// are ignored since the terminal may already be gone.
func (t *Terminal) Restore() error {
	if t.mouse {
		t.esc.DisableMouse()
		t.mouse = false
	}
	if t.paste {
		t.esc.DisableBracketedPaste()
		t.paste = false
	}
	if t.focus {
		t.esc.DisableFocusReporting()
		t.focus = false
	}
	t.esc.ResetStyle()
	t.esc.ShowCursor()
	if t.altScreen {
		t.esc.ExitAltScreen()
		t.altScreen = false
	}
	t.flush()
	t.lastStyle = NewStyle()

	return t.raw.Disable()
}
