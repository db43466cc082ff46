package term

import (
	"strconv"
	"unicode/utf8"
)

// ClearType selects which part of the screen Clear erases.
type ClearType uint8

const (
	// ClearAll erases the entire visible screen.
	ClearAll ClearType = iota
	// ClearPurge erases the screen and the scrollback buffer.
	ClearPurge
	// ClearFromCursorDown erases from the cursor to the end of the screen.
	ClearFromCursorDown
	// ClearFromCursorUp erases from the start of the screen to the cursor.
	ClearFromCursorUp
	// ClearCurrentLine erases the line the cursor is on.
	ClearCurrentLine
	// ClearUntilNewLine erases from the cursor to the end of the line.
	ClearUntilNewLine
)

// escBuilder efficiently builds ANSI escape sequences.
// It uses a pre-allocated buffer to minimize allocations.
type escBuilder struct {
	buf []byte
}

// newEscBuilder creates a new escape sequence builder with the given
// initial capacity.
func newEscBuilder(capacity int) *escBuilder {
	return &escBuilder{
		buf: make([]byte, 0, capacity),
	}
}

// Reset clears the buffer for reuse.
func (e *escBuilder) Reset() {
	e.buf = e.buf[:0]
}

// Bytes returns the built escape sequence.
func (e *escBuilder) Bytes() []byte {
	return e.buf
}

// writeCSI writes the Control Sequence Introducer (ESC [).
func (e *escBuilder) writeCSI() {
	e.buf = append(e.buf, '\x1b', '[')
}

// writeInt writes an integer to the buffer.
func (e *escBuilder) writeInt(n int) {
	e.buf = strconv.AppendInt(e.buf, int64(n), 10)
}

// MoveTo moves the cursor to the specified position.
// x and y are 0-indexed; ANSI sequences use 1-indexed positions.
func (e *escBuilder) MoveTo(x, y int) {
	e.writeCSI()
	e.writeInt(y + 1)
	e.buf = append(e.buf, ';')
	e.writeInt(x + 1)
	e.buf = append(e.buf, 'H')
}

// moveRelative writes a relative cursor movement with the given final byte.
func (e *escBuilder) moveRelative(n int, final byte) {
	if n <= 0 {
		return
	}
	e.writeCSI()
	if n > 1 {
		e.writeInt(n)
	}
	e.buf = append(e.buf, final)
}

// MoveUp moves the cursor up by n rows.
func (e *escBuilder) MoveUp(n int) { e.moveRelative(n, 'A') }

// MoveDown moves the cursor down by n rows.
func (e *escBuilder) MoveDown(n int) { e.moveRelative(n, 'B') }

// MoveRight moves the cursor right by n columns.
func (e *escBuilder) MoveRight(n int) { e.moveRelative(n, 'C') }

// MoveLeft moves the cursor left by n columns.
func (e *escBuilder) MoveLeft(n int) { e.moveRelative(n, 'D') }

// MoveToColumn moves the cursor to the given column (0-indexed) on the
// current row.
func (e *escBuilder) MoveToColumn(x int) {
	e.writeCSI()
	e.writeInt(x + 1)
	e.buf = append(e.buf, 'G')
}

// MoveToNextLine moves the cursor to the start of the line n rows down.
func (e *escBuilder) MoveToNextLine(n int) { e.moveRelative(n, 'E') }

// MoveToPreviousLine moves the cursor to the start of the line n rows up.
func (e *escBuilder) MoveToPreviousLine(n int) { e.moveRelative(n, 'F') }

// SaveCursor saves the cursor position (ESC 7).
func (e *escBuilder) SaveCursor() {
	e.buf = append(e.buf, '\x1b', '7')
}

// RestoreCursor restores the saved cursor position (ESC 8).
func (e *escBuilder) RestoreCursor() {
	e.buf = append(e.buf, '\x1b', '8')
}

// RequestCursorPosition asks the terminal to report the cursor position
// (ESC[6n). The answer arrives on the input stream.
func (e *escBuilder) RequestCursorPosition() {
	e.writeCSI()
	e.buf = append(e.buf, '6', 'n')
}

// Clear erases the region selected by the clear type.
func (e *escBuilder) Clear(t ClearType) {
	e.writeCSI()
	switch t {
	case ClearAll:
		e.buf = append(e.buf, '2', 'J')
	case ClearPurge:
		e.buf = append(e.buf, '3', 'J')
	case ClearFromCursorDown:
		e.buf = append(e.buf, 'J')
	case ClearFromCursorUp:
		e.buf = append(e.buf, '1', 'J')
	case ClearCurrentLine:
		e.buf = append(e.buf, '2', 'K')
	case ClearUntilNewLine:
		e.buf = append(e.buf, 'K')
	}
}

// ScrollUp scrolls the screen contents up by n rows.
func (e *escBuilder) ScrollUp(n int) { e.moveRelative(n, 'S') }

// ScrollDown scrolls the screen contents down by n rows.
func (e *escBuilder) ScrollDown(n int) { e.moveRelative(n, 'T') }

// SetTitle sets the terminal window title (OSC 0).
func (e *escBuilder) SetTitle(title string) {
	e.buf = append(e.buf, '\x1b', ']', '0', ';')
	e.buf = append(e.buf, title...)
	e.buf = append(e.buf, '\x07')
}

// setPrivateMode writes CSI ? <mode> h/l.
func (e *escBuilder) setPrivateMode(mode string, on bool) {
	e.writeCSI()
	e.buf = append(e.buf, '?')
	e.buf = append(e.buf, mode...)
	if on {
		e.buf = append(e.buf, 'h')
	} else {
		e.buf = append(e.buf, 'l')
	}
}

// HideCursor makes the cursor invisible.
func (e *escBuilder) HideCursor() { e.setPrivateMode("25", false) }

// ShowCursor makes the cursor visible.
func (e *escBuilder) ShowCursor() { e.setPrivateMode("25", true) }

// EnterAltScreen switches to the alternate screen buffer.
func (e *escBuilder) EnterAltScreen() { e.setPrivateMode("1049", true) }

// ExitAltScreen switches back to the main screen buffer.
func (e *escBuilder) ExitAltScreen() { e.setPrivateMode("1049", false) }

// BeginSyncUpdate starts a synchronized update block. Terminals that don't
// support it ignore the sequence.
func (e *escBuilder) BeginSyncUpdate() { e.setPrivateMode("2026", true) }

// EndSyncUpdate ends a synchronized update block.
func (e *escBuilder) EndSyncUpdate() { e.setPrivateMode("2026", false) }

// EnableMouse enables mouse reporting: button tracking, any-motion
// tracking, and SGR extended coordinates (works beyond column 223).
func (e *escBuilder) EnableMouse() {
	e.setPrivateMode("1000", true)
	e.setPrivateMode("1003", true)
	e.setPrivateMode("1006", true)
}

// DisableMouse disables mouse reporting.
func (e *escBuilder) DisableMouse() {
	e.setPrivateMode("1006", false)
	e.setPrivateMode("1003", false)
	e.setPrivateMode("1000", false)
}

// EnableBracketedPaste makes the terminal wrap pasted text in the
// 200~/201~ markers.
func (e *escBuilder) EnableBracketedPaste() { e.setPrivateMode("2004", true) }

// DisableBracketedPaste disables paste bracketing.
func (e *escBuilder) DisableBracketedPaste() { e.setPrivateMode("2004", false) }

// EnableFocusReporting makes the terminal report focus changes as
// CSI I / CSI O.
func (e *escBuilder) EnableFocusReporting() { e.setPrivateMode("1004", true) }

// DisableFocusReporting disables focus reporting.
func (e *escBuilder) DisableFocusReporting() { e.setPrivateMode("1004", false) }

// ResetStyle resets all text attributes to default.
func (e *escBuilder) ResetStyle() {
	e.writeCSI()
	e.buf = append(e.buf, '0', 'm')
}

// SetStyle sets the text style based on the given Style and terminal
// capabilities. It generates minimal escape sequences by only setting
// non-default attributes.
func (e *escBuilder) SetStyle(s Style, caps Capabilities) {
	// Always start with a reset to ensure clean state
	e.writeCSI()
	e.buf = append(e.buf, '0')

	for _, p := range attrSGR {
		if s.HasAttr(p.attr) {
			e.buf = append(e.buf, ';', p.code)
		}
	}

	e.appendColor(s.Fg, true, caps)
	e.appendColor(s.Bg, false, caps)

	e.buf = append(e.buf, 'm')
}

// appendColor appends the appropriate escape sequence for a color.
// fg indicates whether this is a foreground (true) or background (false)
// color.
func (e *escBuilder) appendColor(c Color, fg bool, caps Capabilities) {
	if c.IsDefault() {
		return
	}

	// Color code base: 38 for foreground, 48 for background
	var base int
	if fg {
		base = 38
	} else {
		base = 48
	}

	switch c.Type() {
	case ColorANSI:
		idx := c.ANSI()
		if idx < 16 && caps.Colors >= Color16 {
			// Basic color codes for colors 0-15.
			// Foreground: 30-37 (normal), 90-97 (bright)
			// Background: 40-47 (normal), 100-107 (bright)
			e.buf = append(e.buf, ';')
			switch {
			case idx < 8 && fg:
				e.writeInt(30 + int(idx))
			case idx < 8:
				e.writeInt(40 + int(idx))
			case fg:
				e.writeInt(90 + int(idx) - 8)
			default:
				e.writeInt(100 + int(idx) - 8)
			}
		} else if caps.Colors >= Color256 {
			// 256-color mode: ESC[38;5;{n}m or ESC[48;5;{n}m
			e.buf = append(e.buf, ';')
			e.writeInt(base)
			e.buf = append(e.buf, ';', '5', ';')
			e.writeInt(int(idx))
		}

	case ColorRGB:
		if caps.TrueColor {
			// True color: ESC[38;2;{r};{g};{b}m or ESC[48;2;{r};{g};{b}m
			r, g, b := c.RGB()
			e.buf = append(e.buf, ';')
			e.writeInt(base)
			e.buf = append(e.buf, ';', '2', ';')
			e.writeInt(int(r))
			e.buf = append(e.buf, ';')
			e.writeInt(int(g))
			e.buf = append(e.buf, ';')
			e.writeInt(int(b))
		} else if caps.Colors >= Color256 {
			// Fall back to the nearest palette entry
			ansi := c.ToANSI()
			e.buf = append(e.buf, ';')
			e.writeInt(base)
			e.buf = append(e.buf, ';', '5', ';')
			e.writeInt(int(ansi.ANSI()))
		}
	}
}

// WriteRune appends a UTF-8 encoded rune to the buffer.
func (e *escBuilder) WriteRune(r rune) {
	var buf [utf8.UTFMax]byte
	n := utf8.EncodeRune(buf[:], r)
	e.buf = append(e.buf, buf[:n]...)
}

// WriteString appends a string to the buffer.
func (e *escBuilder) WriteString(s string) {
	e.buf = append(e.buf, s...)
}
