package term

import (
	"bytes"
	"unicode/utf8"
)

// parseStatus reports the outcome of a decode attempt.
type parseStatus int

const (
	// parseEvent means one event was decoded.
	parseEvent parseStatus = iota
	// parseIncomplete means the buffer holds a prefix of a longer unit and
	// more bytes are needed. No bytes are consumed.
	parseIncomplete
	// parseInvalid means the leading bytes are not decodable. The consumed
	// count tells the caller how many bytes to discard to resynchronize.
	parseInvalid
)

var pasteStart = []byte("\x1b[200~")
var pasteEnd = []byte("\x1b[201~")

// decodeEvent decodes one event from the front of data.
// Returns (event, consumed, status). It is a pure function of its inputs;
// the resumable state is the caller's retained buffer.
//
// force resolves the lone-ESC ambiguity: when set, a trailing escape that
// cannot yet be proven to start a sequence is decoded as the Escape key.
// Callers set it after the grace window elapses with no further bytes.
//
// pasteEnabled controls bracketed-paste recognition. When false the paste
// markers decode as unrecognized CSI sequences and the payload as ordinary
// key input.
func decodeEvent(data []byte, force bool, pasteEnabled bool) (Event, int, parseStatus) {
	if len(data) == 0 {
		return nil, 0, parseIncomplete
	}

	b := data[0]

	if b == 0x1b {
		if len(data) == 1 {
			if force {
				return KeyEvent{Key: KeyEscape}, 1, parseEvent
			}
			return nil, 0, parseIncomplete
		}

		switch data[1] {
		case '[':
			ev, n, st := decodeCSI(data, pasteEnabled)
			if st == parseIncomplete && force {
				// An open paste bracket keeps waiting: the payload may span
				// many reads and must arrive intact.
				if pasteEnabled && bytes.HasPrefix(data, pasteStart) {
					return nil, 0, parseIncomplete
				}
				// Sequence never completed; degrade the leading byte to a
				// literal Escape key and let the rest re-decode as text.
				return KeyEvent{Key: KeyEscape}, 1, parseEvent
			}
			return ev, n, st

		case 'O':
			if len(data) < 3 {
				if force {
					return KeyEvent{Key: KeyEscape}, 1, parseEvent
				}
				return nil, 0, parseIncomplete
			}
			if key := decodeSS3(data[2]); key != KeyNone {
				return KeyEvent{Key: key}, 3, parseEvent
			}
			return nil, 3, parseInvalid

		case 0x1b:
			// ESC ESC: the first is a literal Escape key; the second may
			// still open a sequence on the next call.
			return KeyEvent{Key: KeyEscape}, 1, parseEvent

		default:
			// Alt+key: ESC prefixing an ordinary unit.
			if data[1] < 0x20 || data[1] == 0x7f {
				ev := controlKeyEvent(data[1])
				ev.Mod |= ModAlt
				return ev, 2, parseEvent
			}
			if !utf8.FullRune(data[1:]) && len(data[1:]) < utf8.UTFMax {
				if force {
					return KeyEvent{Key: KeyEscape}, 1, parseEvent
				}
				return nil, 0, parseIncomplete
			}
			r, size := utf8.DecodeRune(data[1:])
			if r == utf8.RuneError && size == 1 {
				return nil, 2, parseInvalid
			}
			return KeyEvent{Key: KeyRune, Rune: r, Mod: ModAlt}, 1 + size, parseEvent
		}
	}

	// Control characters (0x00-0x1F, except 0x1b handled above) and DEL.
	if b < 0x20 || b == 0x7f {
		return controlKeyEvent(b), 1, parseEvent
	}

	// Printable characters, including multi-byte UTF-8. A trailing partial
	// code point stays buffered for the next read.
	if !utf8.FullRune(data) && len(data) < utf8.UTFMax {
		return nil, 0, parseIncomplete
	}
	r, size := utf8.DecodeRune(data)
	if r == utf8.RuneError && size == 1 {
		return nil, 1, parseInvalid
	}
	return KeyEvent{Key: KeyRune, Rune: r}, size, parseEvent
}

// controlKeyEvent maps a control byte (0x00-0x1F, 0x7F) to a key event.
// Ctrl+letter arrives as the letter's control byte; it is reported as the
// letter with ModCtrl rather than a dedicated key constant.
func controlKeyEvent(b byte) KeyEvent {
	switch b {
	case 0x00:
		return KeyEvent{Key: KeyNull}
	case 0x08, 0x7f:
		return KeyEvent{Key: KeyBackspace}
	case 0x09:
		return KeyEvent{Key: KeyTab}
	case 0x0a, 0x0d:
		return KeyEvent{Key: KeyEnter}
	case 0x1b:
		return KeyEvent{Key: KeyEscape}
	}
	if b >= 0x01 && b <= 0x1a {
		return KeyEvent{Key: KeyRune, Rune: rune('a' + b - 0x01), Mod: ModCtrl}
	}
	// 0x1C-0x1F: Ctrl+4 through Ctrl+7 on typical keyboards.
	return KeyEvent{Key: KeyRune, Rune: rune('4' + b - 0x1c), Mod: ModCtrl}
}

// csiParam is one ;-separated CSI parameter with its :-separated subparams.
type csiParam struct {
	parts []int
}

func (p csiParam) first() int {
	if len(p.parts) == 0 {
		return 0
	}
	return p.parts[0]
}

func (p csiParam) sub(i int) int {
	if i >= len(p.parts) {
		return 0
	}
	return p.parts[i]
}

// decodeCSI decodes a CSI sequence. data starts with ESC [.
func decodeCSI(data []byte, pasteEnabled bool) (Event, int, parseStatus) {
	if len(data) < 3 {
		return nil, 0, parseIncomplete
	}

	switch data[2] {
	case '<':
		return decodeMouseSGR(data)
	case 'I':
		return FocusEvent{Gained: true}, 3, parseEvent
	case 'O':
		return FocusEvent{Gained: false}, 3, parseEvent
	}

	// Parse ;-separated numeric parameters with :-separated subparameters,
	// then a final byte in 0x40-0x7E.
	var params []csiParam
	cur := csiParam{}
	val := 0
	hasVal := false
	i := 2

	flush := func() {
		if hasVal || len(cur.parts) > 0 {
			cur.parts = append(cur.parts, val)
			params = append(params, cur)
		}
		cur = csiParam{}
		val = 0
		hasVal = false
	}

	for i < len(data) {
		b := data[i]

		switch {
		case b >= '0' && b <= '9':
			val = val*10 + int(b-'0')
			hasVal = true
			i++
		case b == ':':
			cur.parts = append(cur.parts, val)
			val = 0
			hasVal = false
			i++
		case b == ';':
			if !hasVal && len(cur.parts) == 0 {
				hasVal = true // empty parameter counts as 0
			}
			flush()
			i++
		case b >= 0x40 && b <= 0x7e:
			flush()
			ev, st := decodeCSIFinal(data, i+1, params, b, pasteEnabled)
			if st == parseIncomplete {
				return nil, 0, parseIncomplete
			}
			n := i + 1
			if pe, ok := ev.(PasteEvent); ok {
				// The paste consumed bytes past the opening marker.
				n = len(pasteStart) + len(pe.Text) + len(pasteEnd)
			}
			return ev, n, st
		default:
			// Not a parameter, subparameter, or final byte: abandon the
			// sequence and resynchronize past the offending byte.
			return nil, i + 1, parseInvalid
		}
	}

	return nil, 0, parseIncomplete
}

// decodeCSIFinal interprets a complete CSI sequence. end is the index just
// past the final byte; data is the full buffer (needed for paste payloads).
func decodeCSIFinal(data []byte, end int, params []csiParam, final byte, pasteEnabled bool) (Event, parseStatus) {
	mod := ModNone
	kind := KeyPress
	state := StateNone
	if len(params) >= 2 {
		mod, state = decodeModifier(params[1].first())
		kind = decodeEventKind(params[1].sub(1))
	}

	key := KeyNone
	switch final {
	case 'A':
		key = KeyUp
	case 'B':
		key = KeyDown
	case 'C':
		key = KeyRight
	case 'D':
		key = KeyLeft
	case 'H':
		key = KeyHome
	case 'F':
		key = KeyEnd
	case 'P':
		key = KeyF1
	case 'Q':
		key = KeyF2
	case 'S':
		key = KeyF4
	case 'Z':
		return KeyEvent{Key: KeyBackTab, Mod: ModShift}, parseEvent
	case 'R':
		// A report with row;col answers an ESC[6n query. Bare ESC[R (and
		// SS3 R) is F3.
		if len(params) >= 2 {
			row := params[0].first()
			col := params[1].first()
			return cursorPositionEvent{X: col - 1, Y: row - 1}, parseEvent
		}
		key = KeyF3
	case 'u':
		return decodeCSIu(params)
	case '~':
		if len(params) == 0 {
			return nil, parseInvalid
		}
		if params[0].first() == 200 {
			return decodePaste(data, pasteEnabled)
		}
		key = tildeKey(params[0].first())
	}

	if key == KeyNone {
		return nil, parseInvalid
	}
	return KeyEvent{Key: key, Mod: mod, Kind: kind, State: state}, parseEvent
}

// tildeKey maps the leading parameter of a CSI ~ sequence to a key.
func tildeKey(p int) Key {
	switch p {
	case 1, 7:
		return KeyHome
	case 2:
		return KeyInsert
	case 3:
		return KeyDelete
	case 4, 8:
		return KeyEnd
	case 5:
		return KeyPageUp
	case 6:
		return KeyPageDown
	case 11, 12, 13, 14, 15:
		return KeyF1 + Key(p-11)
	case 17, 18, 19, 20, 21:
		return KeyF6 + Key(p-17)
	case 23, 24:
		return KeyF11 + Key(p-23)
	case 25, 26:
		return KeyF13 + Key(p-25)
	case 28, 29:
		return KeyF15 + Key(p-28)
	case 31, 32, 33, 34:
		return KeyF17 + Key(p-31)
	}
	return KeyNone
}

// decodePaste extracts a bracketed-paste payload. data begins with the
// opening marker ESC [ 2 0 0 ~; the payload runs until ESC [ 2 0 1 ~ and is
// passed through undecoded.
func decodePaste(data []byte, enabled bool) (Event, parseStatus) {
	if !enabled {
		return nil, parseInvalid
	}
	rest := data[len(pasteStart):]
	idx := bytes.Index(rest, pasteEnd)
	if idx < 0 {
		return nil, parseIncomplete
	}
	return PasteEvent{Text: string(rest[:idx])}, parseEvent
}

// csiuKeys maps functional code points of the CSI u keyboard protocol to
// named keys.
var csiuKeys = map[int]Key{
	9:     KeyTab,
	13:    KeyEnter,
	27:    KeyEscape,
	127:   KeyBackspace,
	57358: KeyCapsLock,
	57359: KeyScrollLock,
	57360: KeyNumLock,
	57376: KeyF13,
	57377: KeyF14,
	57378: KeyF15,
	57379: KeyF16,
	57380: KeyF17,
	57381: KeyF18,
	57382: KeyF19,
	57383: KeyF20,
	57428: KeyMediaPlay,
	57429: KeyMediaPause,
	57430: KeyMediaPlayPause,
	57432: KeyMediaStop,
	57435: KeyMediaNext,
	57436: KeyMediaPrevious,
	57438: KeyMediaVolumeDown,
	57439: KeyMediaVolumeUp,
	57440: KeyMediaMute,
	57441: KeyLeftShift,
	57442: KeyLeftControl,
	57443: KeyLeftAlt,
	57444: KeyLeftSuper,
	57447: KeyRightShift,
	57448: KeyRightControl,
	57449: KeyRightAlt,
	57450: KeyRightSuper,
}

// decodeCSIu decodes a CSI u key report: code[:shifted[:base]] ; mods[:kind] u.
func decodeCSIu(params []csiParam) (Event, parseStatus) {
	if len(params) == 0 {
		return nil, parseInvalid
	}
	code := params[0].first()

	mod := ModNone
	kind := KeyPress
	state := StateNone
	if len(params) >= 2 {
		mod, state = decodeModifier(params[1].first())
		kind = decodeEventKind(params[1].sub(1))
	}

	if key, ok := csiuKeys[code]; ok {
		return KeyEvent{Key: key, Mod: mod, Kind: kind, State: state}, parseEvent
	}
	if code <= 0 || code > utf8.MaxRune {
		return nil, parseInvalid
	}
	return KeyEvent{Key: KeyRune, Rune: rune(code), Mod: mod, Kind: kind, State: state}, parseEvent
}

// decodeSS3 maps an SS3 (ESC O) final byte to a key.
func decodeSS3(b byte) Key {
	switch b {
	case 'P':
		return KeyF1
	case 'Q':
		return KeyF2
	case 'R':
		return KeyF3
	case 'S':
		return KeyF4
	case 'A':
		return KeyUp
	case 'B':
		return KeyDown
	case 'C':
		return KeyRight
	case 'D':
		return KeyLeft
	case 'H':
		return KeyHome
	case 'F':
		return KeyEnd
	}
	return KeyNone
}

// decodeModifier decodes the xterm modifier parameter.
// The parameter is 1 + a flag set: 1=shift, 2=alt, 4=ctrl, 8=super,
// 16=hyper, 32=meta, 64=caps lock state, 128=num lock state.
func decodeModifier(param int) (Modifier, KeyState) {
	if param <= 1 {
		return ModNone, StateNone
	}

	flags := param - 1
	var mod Modifier
	if flags&1 != 0 {
		mod |= ModShift
	}
	if flags&2 != 0 {
		mod |= ModAlt
	}
	if flags&4 != 0 {
		mod |= ModCtrl
	}
	if flags&8 != 0 {
		mod |= ModSuper
	}
	if flags&16 != 0 {
		mod |= ModHyper
	}
	if flags&32 != 0 {
		mod |= ModMeta
	}

	var state KeyState
	if flags&64 != 0 {
		state |= StateCapsLock
	}
	if flags&128 != 0 {
		state |= StateNumLock
	}
	return mod, state
}

// decodeEventKind decodes the event-type subparameter of the CSI u protocol.
func decodeEventKind(sub int) KeyEventKind {
	switch sub {
	case 2:
		return KeyRepeat
	case 3:
		return KeyRelease
	}
	return KeyPress
}

// decodeMouseSGR decodes an SGR-1006 mouse sequence.
// Format: ESC [ < button ; x ; y M (press) or ESC [ < button ; x ; y m (release).
// The button field encodes:
//
//	bits 0-1: button (0=left, 1=middle, 2=right, 3=none)
//	bit 2: shift
//	bit 3: meta/alt
//	bit 4: ctrl
//	bit 5: motion (drag/move)
//	bit 6: wheel (64=up, 65=down, 66=left, 67=right)
func decodeMouseSGR(data []byte) (Event, int, parseStatus) {
	// data starts with ESC [ <
	i := 3
	button := 0
	x := 0
	y := 0
	stage := 0 // 0=button, 1=x, 2=y

	for i < len(data) {
		b := data[i]

		if b >= '0' && b <= '9' {
			switch stage {
			case 0:
				button = button*10 + int(b-'0')
			case 1:
				x = x*10 + int(b-'0')
			case 2:
				y = y*10 + int(b-'0')
			}
			i++
			continue
		}

		if b == ';' {
			stage++
			if stage > 2 {
				return nil, i + 1, parseInvalid
			}
			i++
			continue
		}

		if b == 'M' || b == 'm' {
			if stage != 2 {
				return nil, i + 1, parseInvalid
			}

			event := MouseEvent{
				X: x - 1, // 1-indexed on the wire
				Y: y - 1,
			}

			if button&4 != 0 {
				event.Mod |= ModShift
			}
			if button&8 != 0 {
				event.Mod |= ModAlt
			}
			if button&16 != 0 {
				event.Mod |= ModCtrl
			}

			if button&64 != 0 {
				switch button & 3 {
				case 0:
					event.Button = MouseWheelUp
				case 1:
					event.Button = MouseWheelDown
				case 2:
					event.Button = MouseWheelLeft
				case 3:
					event.Button = MouseWheelRight
				}
				event.Action = MousePress // wheel events are instantaneous
				return event, i + 1, parseEvent
			}

			switch button & 3 {
			case 0:
				event.Button = MouseLeft
			case 1:
				event.Button = MouseMiddle
			case 2:
				event.Button = MouseRight
			case 3:
				event.Button = MouseNone
			}

			switch {
			case button&32 != 0 && event.Button == MouseNone:
				event.Action = MouseMove
			case button&32 != 0:
				event.Action = MouseDrag
			case b == 'M':
				event.Action = MousePress
			default:
				event.Action = MouseRelease
			}

			return event, i + 1, parseEvent
		}

		return nil, i + 1, parseInvalid
	}

	return nil, 0, parseIncomplete
}
