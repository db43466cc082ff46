//go:build windows

package term

import (
	"os"
	"time"
	"unicode/utf16"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	kernel32              = windows.NewLazySystemDLL("kernel32.dll")
	procReadConsoleInputW = kernel32.NewProc("ReadConsoleInputW")
)

// Console input record event types.
const (
	keyEventType              = 0x0001
	mouseEventType            = 0x0002
	windowBufferSizeEventType = 0x0004
	focusEventType            = 0x0010
)

// Mouse record event flags.
const (
	mouseFlagMoved    = 0x0001
	mouseFlagDouble   = 0x0002
	mouseFlagWheeled  = 0x0004
	mouseFlagHWheeled = 0x0008
)

// Control key state flags.
const (
	ctrlStateRightAlt   = 0x0001
	ctrlStateLeftAlt    = 0x0002
	ctrlStateRightCtrl  = 0x0004
	ctrlStateLeftCtrl   = 0x0008
	ctrlStateShift      = 0x0010
	ctrlStateNumLock    = 0x0020
	ctrlStateScrollLock = 0x0040
	ctrlStateCapsLock   = 0x0080
)

// inputRecord mirrors the Win32 INPUT_RECORD layout. The event union is
// decoded according to eventType.
type inputRecord struct {
	eventType uint16
	_         uint16
	event     [16]byte
}

type keyEventRecord struct {
	keyDown         int32
	repeatCount     uint16
	virtualKeyCode  uint16
	virtualScanCode uint16
	unicodeChar     uint16
	controlKeyState uint32
}

type windowsCoord struct {
	x int16
	y int16
}

type mouseEventRecord struct {
	position        windowsCoord
	buttonState     uint32
	controlKeyState uint32
	eventFlags      uint32
}

type windowBufferSizeRecord struct {
	size windowsCoord
}

type focusEventRecord struct {
	setFocus int32
}

// windowsSource reads structured console input records, bypassing the byte
// decoder for native records. When the console has virtual terminal input
// enabled, character data is forwarded as raw bytes instead so the escape
// decoder handles it.
type windowsSource struct {
	handle      windows.Handle
	vtInput     bool
	lastButtons uint32
	pendingHigh uint16 // held high surrogate awaiting its pair
	wakeEv      windows.Handle
}

func newSource(in *os.File) (inputSource, error) {
	h := windows.Handle(in.Fd())

	var mode uint32
	vt := false
	if err := windows.GetConsoleMode(h, &mode); err == nil {
		vt = mode&windows.ENABLE_VIRTUAL_TERMINAL_INPUT != 0
	}

	// Manual-reset event used to interrupt a blocking wait.
	wakeEv, err := windows.CreateEvent(nil, 1, 0, nil)
	if err != nil {
		return nil, &os.SyscallError{Syscall: "CreateEvent", Err: err}
	}

	return &windowsSource{handle: h, vtInput: vt, wakeEv: wakeEv}, nil
}

func (s *windowsSource) wait(timeout time.Duration) (sourceUnit, bool, error) {
	var ms uint32
	switch {
	case timeout < 0:
		ms = windows.INFINITE
	default:
		ms = uint32(timeout / time.Millisecond)
	}

	handles := []windows.Handle{s.wakeEv, s.handle}
	rc, err := windows.WaitForMultipleObjects(handles, false, ms)
	if err != nil {
		return sourceUnit{}, false, &os.SyscallError{Syscall: "WaitForMultipleObjects", Err: err}
	}
	switch rc {
	case windows.WAIT_OBJECT_0:
		windows.ResetEvent(s.wakeEv)
		return sourceUnit{}, true, nil // explicit wake
	case windows.WAIT_OBJECT_0 + 1:
		// console input ready
	default:
		return sourceUnit{}, false, nil // timeout
	}

	records, err := s.readRecords()
	if err != nil {
		return sourceUnit{}, false, err
	}
	return s.translate(records), true, nil
}

func (s *windowsSource) readRecords() ([]inputRecord, error) {
	records := make([]inputRecord, 128)
	var n uint32
	r1, _, err := procReadConsoleInputW.Call(
		uintptr(s.handle),
		uintptr(unsafe.Pointer(&records[0])),
		uintptr(len(records)),
		uintptr(unsafe.Pointer(&n)),
	)
	if r1 == 0 {
		return nil, &os.SyscallError{Syscall: "ReadConsoleInputW", Err: err}
	}
	return records[:n], nil
}

// translate converts console records into a source unit. Native records
// become events; under VT input mode, key character data becomes raw bytes
// for the escape decoder.
func (s *windowsSource) translate(records []inputRecord) sourceUnit {
	var unit sourceUnit

	for i := range records {
		rec := &records[i]
		switch rec.eventType {
		case keyEventType:
			ke := (*keyEventRecord)(unsafe.Pointer(&rec.event[0]))
			if s.vtInput && ke.unicodeChar != 0 {
				if ke.keyDown == 0 {
					continue
				}
				unit.Data = appendUTF16Char(unit.Data, &s.pendingHigh, ke.unicodeChar)
				continue
			}
			if ev, ok := s.translateKey(ke); ok {
				unit.Events = append(unit.Events, ev)
			}
		case mouseEventType:
			me := (*mouseEventRecord)(unsafe.Pointer(&rec.event[0]))
			if ev, ok := s.translateMouse(me); ok {
				unit.Events = append(unit.Events, ev)
			}
		case windowBufferSizeEventType:
			we := (*windowBufferSizeRecord)(unsafe.Pointer(&rec.event[0]))
			unit.Events = append(unit.Events, ResizeEvent{
				Width:  int(we.size.x),
				Height: int(we.size.y),
			})
		case focusEventType:
			fe := (*focusEventRecord)(unsafe.Pointer(&rec.event[0]))
			unit.Events = append(unit.Events, FocusEvent{Gained: fe.setFocus != 0})
		}
	}

	return unit
}

// appendUTF16Char appends the UTF-8 encoding of a UTF-16 code unit,
// pairing surrogates across records.
func appendUTF16Char(dst []byte, pendingHigh *uint16, ch uint16) []byte {
	if utf16.IsSurrogate(rune(ch)) {
		if *pendingHigh == 0 {
			*pendingHigh = ch
			return dst
		}
		r := utf16.DecodeRune(rune(*pendingHigh), rune(ch))
		*pendingHigh = 0
		return append(dst, string(r)...)
	}
	*pendingHigh = 0
	return append(dst, string(rune(ch))...)
}

// virtualKeys maps Win32 virtual key codes to named keys.
var virtualKeys = map[uint16]Key{
	0x08: KeyBackspace,
	0x09: KeyTab,
	0x0d: KeyEnter,
	0x14: KeyCapsLock,
	0x1b: KeyEscape,
	0x21: KeyPageUp,
	0x22: KeyPageDown,
	0x23: KeyEnd,
	0x24: KeyHome,
	0x25: KeyLeft,
	0x26: KeyUp,
	0x27: KeyRight,
	0x28: KeyDown,
	0x2d: KeyInsert,
	0x2e: KeyDelete,
	0x90: KeyNumLock,
	0x91: KeyScrollLock,
	0xad: KeyMediaMute,
	0xae: KeyMediaVolumeDown,
	0xaf: KeyMediaVolumeUp,
	0xb0: KeyMediaNext,
	0xb1: KeyMediaPrevious,
	0xb2: KeyMediaStop,
	0xb3: KeyMediaPlayPause,
}

func (s *windowsSource) translateKey(ke *keyEventRecord) (Event, bool) {
	ev := KeyEvent{
		Mod:   controlKeyModifiers(ke.controlKeyState),
		State: controlKeyLocks(ke.controlKeyState),
	}
	if ke.keyDown == 0 {
		ev.Kind = KeyRelease
	}

	// F1-F20: VK 0x70-0x83.
	if ke.virtualKeyCode >= 0x70 && ke.virtualKeyCode <= 0x83 {
		ev.Key = KeyF1 + Key(ke.virtualKeyCode-0x70)
		return ev, true
	}
	if key, ok := virtualKeys[ke.virtualKeyCode]; ok {
		ev.Key = key
		return ev, true
	}
	if ke.unicodeChar != 0 {
		if utf16.IsSurrogate(rune(ke.unicodeChar)) {
			if s.pendingHigh == 0 {
				s.pendingHigh = ke.unicodeChar
				return nil, false
			}
			r := utf16.DecodeRune(rune(s.pendingHigh), rune(ke.unicodeChar))
			s.pendingHigh = 0
			ev.Key = KeyRune
			ev.Rune = r
			return ev, true
		}
		ev.Key = KeyRune
		ev.Rune = rune(ke.unicodeChar)
		// Control bytes arrive with the Ctrl modifier already set in the
		// control key state; report the printable form.
		if ev.Rune < 0x20 && ev.Mod.Has(ModCtrl) {
			ev.Rune = rune('a' + ev.Rune - 1)
		}
		return ev, true
	}
	// Modifier-only or dead key record.
	return nil, false
}

func (s *windowsSource) translateMouse(me *mouseEventRecord) (Event, bool) {
	ev := MouseEvent{
		X:   int(me.position.x),
		Y:   int(me.position.y),
		Mod: controlKeyModifiers(me.controlKeyState),
	}

	switch {
	case me.eventFlags&mouseFlagWheeled != 0:
		if int16(me.buttonState>>16) > 0 {
			ev.Button = MouseWheelUp
		} else {
			ev.Button = MouseWheelDown
		}
		ev.Action = MousePress
	case me.eventFlags&mouseFlagHWheeled != 0:
		if int16(me.buttonState>>16) > 0 {
			ev.Button = MouseWheelRight
		} else {
			ev.Button = MouseWheelLeft
		}
		ev.Action = MousePress
	case me.eventFlags&mouseFlagMoved != 0:
		ev.Button = buttonFromState(me.buttonState)
		if ev.Button == MouseNone {
			ev.Action = MouseMove
		} else {
			ev.Action = MouseDrag
		}
	default:
		// Button transition: compare against the previous state.
		pressed := me.buttonState &^ s.lastButtons
		released := s.lastButtons &^ me.buttonState
		switch {
		case pressed != 0:
			ev.Button = buttonFromState(pressed)
			ev.Action = MousePress
		case released != 0:
			ev.Button = buttonFromState(released)
			ev.Action = MouseRelease
		default:
			s.lastButtons = me.buttonState
			return nil, false
		}
	}
	s.lastButtons = me.buttonState & 0xffff
	return ev, true
}

func buttonFromState(state uint32) MouseButton {
	switch {
	case state&0x01 != 0:
		return MouseLeft
	case state&0x02 != 0:
		return MouseRight
	case state&0x04 != 0 || state&0x08 != 0 || state&0x10 != 0:
		return MouseMiddle
	}
	return MouseNone
}

func controlKeyModifiers(state uint32) Modifier {
	var mod Modifier
	if state&(ctrlStateLeftCtrl|ctrlStateRightCtrl) != 0 {
		mod |= ModCtrl
	}
	if state&(ctrlStateLeftAlt|ctrlStateRightAlt) != 0 {
		mod |= ModAlt
	}
	if state&ctrlStateShift != 0 {
		mod |= ModShift
	}
	return mod
}

func controlKeyLocks(state uint32) KeyState {
	var locks KeyState
	if state&ctrlStateCapsLock != 0 {
		locks |= StateCapsLock
	}
	if state&ctrlStateNumLock != 0 {
		locks |= StateNumLock
	}
	if state&ctrlStateScrollLock != 0 {
		locks |= StateScrollLock
	}
	return locks
}

func (s *windowsSource) wake() error {
	if err := windows.SetEvent(s.wakeEv); err != nil {
		return &os.SyscallError{Syscall: "SetEvent", Err: err}
	}
	return nil
}

func (s *windowsSource) close() error {
	return windows.CloseHandle(s.wakeEv)
}
