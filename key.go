package term

import (
	"strconv"
	"strings"
)

// Key represents a keyboard key.
type Key uint16

const (
	// KeyNone represents no key (zero value).
	KeyNone Key = iota

	// KeyRune represents a printable character. Check KeyEvent.Rune for the character.
	KeyRune

	// Special keys
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackTab
	KeyBackspace
	KeyDelete
	KeyInsert
	KeyNull

	// Arrow keys
	KeyUp
	KeyDown
	KeyLeft
	KeyRight

	// Navigation keys
	KeyHome
	KeyEnd
	KeyPageUp
	KeyPageDown

	// Function keys. KeyF1 through KeyF20 are contiguous, so
	// KeyF1 + Key(n-1) addresses Fn.
	KeyF1
	KeyF2
	KeyF3
	KeyF4
	KeyF5
	KeyF6
	KeyF7
	KeyF8
	KeyF9
	KeyF10
	KeyF11
	KeyF12
	KeyF13
	KeyF14
	KeyF15
	KeyF16
	KeyF17
	KeyF18
	KeyF19
	KeyF20

	// Lock keys (reported by terminals implementing the CSI u keyboard
	// protocol, and by the Windows console).
	KeyCapsLock
	KeyNumLock
	KeyScrollLock

	// Media keys
	KeyMediaPlay
	KeyMediaPause
	KeyMediaPlayPause
	KeyMediaStop
	KeyMediaNext
	KeyMediaPrevious
	KeyMediaVolumeUp
	KeyMediaVolumeDown
	KeyMediaMute

	// Modifier-only presses (CSI u keyboard protocol).
	KeyLeftShift
	KeyLeftControl
	KeyLeftAlt
	KeyLeftSuper
	KeyRightShift
	KeyRightControl
	KeyRightAlt
	KeyRightSuper
)

// KeyF returns the function key for n (1-based). Returns KeyNone if n is
// outside the supported range.
func KeyF(n int) Key {
	if n < 1 || n > 20 {
		return KeyNone
	}
	return KeyF1 + Key(n-1)
}

// keyNames maps non-function special keys to display names.
var keyNames = map[Key]string{
	KeyNone:            "None",
	KeyRune:            "Rune",
	KeyEscape:          "Escape",
	KeyEnter:           "Enter",
	KeyTab:             "Tab",
	KeyBackTab:         "BackTab",
	KeyBackspace:       "Backspace",
	KeyDelete:          "Delete",
	KeyInsert:          "Insert",
	KeyNull:            "Null",
	KeyUp:              "Up",
	KeyDown:            "Down",
	KeyLeft:            "Left",
	KeyRight:           "Right",
	KeyHome:            "Home",
	KeyEnd:             "End",
	KeyPageUp:          "PageUp",
	KeyPageDown:        "PageDown",
	KeyCapsLock:        "CapsLock",
	KeyNumLock:         "NumLock",
	KeyScrollLock:      "ScrollLock",
	KeyMediaPlay:       "MediaPlay",
	KeyMediaPause:      "MediaPause",
	KeyMediaPlayPause:  "MediaPlayPause",
	KeyMediaStop:       "MediaStop",
	KeyMediaNext:       "MediaNext",
	KeyMediaPrevious:   "MediaPrevious",
	KeyMediaVolumeUp:   "MediaVolumeUp",
	KeyMediaVolumeDown: "MediaVolumeDown",
	KeyMediaMute:       "MediaMute",
	KeyLeftShift:       "LeftShift",
	KeyLeftControl:     "LeftControl",
	KeyLeftAlt:         "LeftAlt",
	KeyLeftSuper:       "LeftSuper",
	KeyRightShift:      "RightShift",
	KeyRightControl:    "RightControl",
	KeyRightAlt:        "RightAlt",
	KeyRightSuper:      "RightSuper",
}

// String returns a human-readable representation of the key.
func (k Key) String() string {
	if k >= KeyF1 && k <= KeyF20 {
		return "F" + strconv.Itoa(int(k-KeyF1)+1)
	}
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "Unknown"
}

// Modifier represents keyboard modifier flags.
type Modifier uint8

const (
	// ModNone represents no modifiers.
	ModNone Modifier = 0
	// ModCtrl represents the Ctrl modifier.
	ModCtrl Modifier = 1 << iota
	// ModAlt represents the Alt modifier.
	ModAlt
	// ModShift represents the Shift modifier.
	ModShift
	// ModSuper represents the Super (Windows/Command) modifier.
	ModSuper
	// ModHyper represents the Hyper modifier.
	ModHyper
	// ModMeta represents the Meta modifier.
	ModMeta
)

// Has checks if the modifier set includes the given modifier.
func (m Modifier) Has(mod Modifier) bool {
	return m&mod != 0
}

// String returns a human-readable representation of the modifiers.
func (m Modifier) String() string {
	if m == ModNone {
		return "None"
	}

	var parts []string
	if m.Has(ModCtrl) {
		parts = append(parts, "Ctrl")
	}
	if m.Has(ModAlt) {
		parts = append(parts, "Alt")
	}
	if m.Has(ModShift) {
		parts = append(parts, "Shift")
	}
	if m.Has(ModSuper) {
		parts = append(parts, "Super")
	}
	if m.Has(ModHyper) {
		parts = append(parts, "Hyper")
	}
	if m.Has(ModMeta) {
		parts = append(parts, "Meta")
	}
	return strings.Join(parts, "+")
}

// KeyEventKind distinguishes presses, repeats, and releases.
// Repeat and Release are only observable where the platform reports them
// (the CSI u keyboard protocol on Unix, key-up records on Windows);
// plain terminals report every key as a press.
type KeyEventKind uint8

const (
	// KeyPress is a key press (the default for all byte-stream input).
	KeyPress KeyEventKind = iota
	// KeyRepeat is an auto-repeated press.
	KeyRepeat
	// KeyRelease is a key release.
	KeyRelease
)

// String returns a human-readable representation of the kind.
func (k KeyEventKind) String() string {
	switch k {
	case KeyPress:
		return "Press"
	case KeyRepeat:
		return "Repeat"
	case KeyRelease:
		return "Release"
	}
	return "Unknown"
}

// KeyState carries lock-key state flags reported alongside a key event.
type KeyState uint8

const (
	// StateNone means no lock state was reported.
	StateNone KeyState = 0
	// StateCapsLock means caps lock was active.
	StateCapsLock KeyState = 1 << iota
	// StateNumLock means num lock was active.
	StateNumLock
	// StateScrollLock means scroll lock was active.
	StateScrollLock
)

// Has checks if the state set includes the given state.
func (s KeyState) Has(state KeyState) bool {
	return s&state != 0
}
