package term

import (
	"reflect"
	"testing"
)

// decodeAll drains data through the decoder the way the reader does,
// forcing trailing ambiguity to resolve. Invalid bytes are discarded.
func decodeAll(t *testing.T, data []byte, paste bool) []Event {
	t.Helper()
	var events []Event
	buf := data
	for len(buf) > 0 {
		ev, n, st := decodeEvent(buf, true, paste)
		switch st {
		case parseEvent:
			events = append(events, ev)
			buf = buf[n:]
		case parseInvalid:
			if n == 0 {
				t.Fatalf("parseInvalid with zero consumed on %q", buf)
			}
			buf = buf[n:]
		case parseIncomplete:
			t.Fatalf("forced decode reported incomplete on %q", buf)
		}
	}
	return events
}

// decodeChunked feeds data in chunk-sized pieces, only forcing once all
// bytes have arrived, mirroring a reader whose grace window expires after
// the final chunk.
func decodeChunked(t *testing.T, data []byte, chunk int, paste bool) []Event {
	t.Helper()
	var events []Event
	var buf []byte

	drain := func(force bool) {
		for len(buf) > 0 {
			ev, n, st := decodeEvent(buf, force, paste)
			switch st {
			case parseEvent:
				events = append(events, ev)
				buf = buf[n:]
			case parseInvalid:
				buf = buf[n:]
			case parseIncomplete:
				return
			}
		}
	}

	for i := 0; i < len(data); i += chunk {
		end := min(i+chunk, len(data))
		buf = append(buf, data[i:end]...)
		drain(false)
	}
	drain(true)
	if len(buf) > 0 {
		t.Fatalf("undecoded bytes remain after force: %q", buf)
	}
	return events
}

func TestDecodeEvent_PrintableCharacters(t *testing.T) {
	type tc struct {
		input    []byte
		expected []Event
	}

	tests := map[string]tc{
		"single letter a": {input: []byte("a"), expected: []Event{KeyEvent{Key: KeyRune, Rune: 'a'}}},
		"uppercase A":     {input: []byte("A"), expected: []Event{KeyEvent{Key: KeyRune, Rune: 'A'}}},
		"digit 9":         {input: []byte("9"), expected: []Event{KeyEvent{Key: KeyRune, Rune: '9'}}},
		"space":           {input: []byte(" "), expected: []Event{KeyEvent{Key: KeyRune, Rune: ' '}}},
		"special char !":  {input: []byte("!"), expected: []Event{KeyEvent{Key: KeyRune, Rune: '!'}}},
		"multiple chars": {input: []byte("abc"), expected: []Event{
			KeyEvent{Key: KeyRune, Rune: 'a'},
			KeyEvent{Key: KeyRune, Rune: 'b'},
			KeyEvent{Key: KeyRune, Rune: 'c'},
		}},
		"japanese char": {input: []byte("日"), expected: []Event{KeyEvent{Key: KeyRune, Rune: '日'}}},
		"emoji":         {input: []byte("😀"), expected: []Event{KeyEvent{Key: KeyRune, Rune: '😀'}}},
		"german umlaut": {input: []byte("ü"), expected: []Event{KeyEvent{Key: KeyRune, Rune: 'ü'}}},
		"mixed ascii utf8": {input: []byte("a日b"), expected: []Event{
			KeyEvent{Key: KeyRune, Rune: 'a'},
			KeyEvent{Key: KeyRune, Rune: '日'},
			KeyEvent{Key: KeyRune, Rune: 'b'},
		}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			events := decodeAll(t, tt.input, false)
			if !reflect.DeepEqual(events, tt.expected) {
				t.Errorf("decode(%q) = %#v, want %#v", tt.input, events, tt.expected)
			}
		})
	}
}

func TestDecodeEvent_ControlCharacters(t *testing.T) {
	type tc struct {
		input    byte
		expected KeyEvent
	}

	tests := map[string]tc{
		"null":      {input: 0x00, expected: KeyEvent{Key: KeyNull}},
		"ctrl+a":    {input: 0x01, expected: KeyEvent{Key: KeyRune, Rune: 'a', Mod: ModCtrl}},
		"ctrl+c":    {input: 0x03, expected: KeyEvent{Key: KeyRune, Rune: 'c', Mod: ModCtrl}},
		"backspace": {input: 0x08, expected: KeyEvent{Key: KeyBackspace}},
		"tab":       {input: 0x09, expected: KeyEvent{Key: KeyTab}},
		"linefeed":  {input: 0x0a, expected: KeyEvent{Key: KeyEnter}},
		"enter":     {input: 0x0d, expected: KeyEvent{Key: KeyEnter}},
		"ctrl+s":    {input: 0x13, expected: KeyEvent{Key: KeyRune, Rune: 's', Mod: ModCtrl}},
		"ctrl+z":    {input: 0x1a, expected: KeyEvent{Key: KeyRune, Rune: 'z', Mod: ModCtrl}},
		"ctrl+4":    {input: 0x1c, expected: KeyEvent{Key: KeyRune, Rune: '4', Mod: ModCtrl}},
		"del":       {input: 0x7f, expected: KeyEvent{Key: KeyBackspace}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev, n, st := decodeEvent([]byte{tt.input}, false, false)
			if st != parseEvent || n != 1 {
				t.Fatalf("decode(%#x) = (n=%d, status=%d), want event consuming 1", tt.input, n, st)
			}
			if !reflect.DeepEqual(ev, tt.expected) {
				t.Errorf("decode(%#x) = %#v, want %#v", tt.input, ev, tt.expected)
			}
		})
	}
}

func TestDecodeEvent_EscapeDisambiguation(t *testing.T) {
	t.Run("lone esc without force is incomplete", func(t *testing.T) {
		_, n, st := decodeEvent([]byte{0x1b}, false, false)
		if st != parseIncomplete || n != 0 {
			t.Errorf("got (n=%d, status=%d), want incomplete consuming 0", n, st)
		}
	})

	t.Run("lone esc with force is Escape", func(t *testing.T) {
		ev, n, st := decodeEvent([]byte{0x1b}, true, false)
		if st != parseEvent || n != 1 {
			t.Fatalf("got (n=%d, status=%d), want event consuming 1", n, st)
		}
		if ke := ev.(KeyEvent); ke.Key != KeyEscape {
			t.Errorf("got %v, want KeyEscape", ke.Key)
		}
	})

	t.Run("esc esc yields literal Escape then pending esc", func(t *testing.T) {
		ev, n, st := decodeEvent([]byte{0x1b, 0x1b}, false, false)
		if st != parseEvent || n != 1 {
			t.Fatalf("got (n=%d, status=%d), want event consuming 1", n, st)
		}
		if ke := ev.(KeyEvent); ke.Key != KeyEscape {
			t.Errorf("got %v, want KeyEscape", ke.Key)
		}
	})

	t.Run("esc then printable is alt+key", func(t *testing.T) {
		ev, n, st := decodeEvent([]byte("\x1bx"), false, false)
		if st != parseEvent || n != 2 {
			t.Fatalf("got (n=%d, status=%d), want event consuming 2", n, st)
		}
		want := KeyEvent{Key: KeyRune, Rune: 'x', Mod: ModAlt}
		if !reflect.DeepEqual(ev, want) {
			t.Errorf("got %#v, want %#v", ev, want)
		}
	})

	t.Run("esc then control byte is alt+control", func(t *testing.T) {
		ev, _, st := decodeEvent([]byte{0x1b, 0x0d}, false, false)
		if st != parseEvent {
			t.Fatalf("status = %d, want parseEvent", st)
		}
		want := KeyEvent{Key: KeyEnter, Mod: ModAlt}
		if !reflect.DeepEqual(ev, want) {
			t.Errorf("got %#v, want %#v", ev, want)
		}
	})

	t.Run("incomplete csi with force degrades to Escape", func(t *testing.T) {
		ev, n, st := decodeEvent([]byte("\x1b["), true, false)
		if st != parseEvent || n != 1 {
			t.Fatalf("got (n=%d, status=%d), want event consuming 1", n, st)
		}
		if ke := ev.(KeyEvent); ke.Key != KeyEscape {
			t.Errorf("got %v, want KeyEscape", ke.Key)
		}
	})
}

func TestDecodeEvent_CSIKeys(t *testing.T) {
	type tc struct {
		input    string
		expected KeyEvent
	}

	tests := map[string]tc{
		"up":               {input: "\x1b[A", expected: KeyEvent{Key: KeyUp}},
		"down":             {input: "\x1b[B", expected: KeyEvent{Key: KeyDown}},
		"right":            {input: "\x1b[C", expected: KeyEvent{Key: KeyRight}},
		"left":             {input: "\x1b[D", expected: KeyEvent{Key: KeyLeft}},
		"home":             {input: "\x1b[H", expected: KeyEvent{Key: KeyHome}},
		"end":              {input: "\x1b[F", expected: KeyEvent{Key: KeyEnd}},
		"shift+tab":        {input: "\x1b[Z", expected: KeyEvent{Key: KeyBackTab, Mod: ModShift}},
		"ctrl+up":          {input: "\x1b[1;5A", expected: KeyEvent{Key: KeyUp, Mod: ModCtrl}},
		"shift+up":         {input: "\x1b[1;2A", expected: KeyEvent{Key: KeyUp, Mod: ModShift}},
		"alt+left":         {input: "\x1b[1;3D", expected: KeyEvent{Key: KeyLeft, Mod: ModAlt}},
		"ctrl+shift+right": {input: "\x1b[1;6C", expected: KeyEvent{Key: KeyRight, Mod: ModCtrl | ModShift}},
		"home tilde":       {input: "\x1b[1~", expected: KeyEvent{Key: KeyHome}},
		"insert":           {input: "\x1b[2~", expected: KeyEvent{Key: KeyInsert}},
		"delete":           {input: "\x1b[3~", expected: KeyEvent{Key: KeyDelete}},
		"end tilde":        {input: "\x1b[4~", expected: KeyEvent{Key: KeyEnd}},
		"pageup":           {input: "\x1b[5~", expected: KeyEvent{Key: KeyPageUp}},
		"pagedown":         {input: "\x1b[6~", expected: KeyEvent{Key: KeyPageDown}},
		"ctrl+delete":      {input: "\x1b[3;5~", expected: KeyEvent{Key: KeyDelete, Mod: ModCtrl}},
		"f1 ss3":           {input: "\x1bOP", expected: KeyEvent{Key: KeyF1}},
		"f2 ss3":           {input: "\x1bOQ", expected: KeyEvent{Key: KeyF2}},
		"f3 ss3":           {input: "\x1bOR", expected: KeyEvent{Key: KeyF3}},
		"f4 ss3":           {input: "\x1bOS", expected: KeyEvent{Key: KeyF4}},
		"up ss3":           {input: "\x1bOA", expected: KeyEvent{Key: KeyUp}},
		"f1 csi":           {input: "\x1b[P", expected: KeyEvent{Key: KeyF1}},
		"f3 bare csi":      {input: "\x1b[R", expected: KeyEvent{Key: KeyF3}},
		"f5":               {input: "\x1b[15~", expected: KeyEvent{Key: KeyF5}},
		"f6":               {input: "\x1b[17~", expected: KeyEvent{Key: KeyF6}},
		"f10":              {input: "\x1b[21~", expected: KeyEvent{Key: KeyF10}},
		"f11":              {input: "\x1b[23~", expected: KeyEvent{Key: KeyF11}},
		"f12":              {input: "\x1b[24~", expected: KeyEvent{Key: KeyF12}},
		"ctrl+f5":          {input: "\x1b[15;5~", expected: KeyEvent{Key: KeyF5, Mod: ModCtrl}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev, n, st := decodeEvent([]byte(tt.input), false, false)
			if st != parseEvent {
				t.Fatalf("decode(%q) status = %d, want parseEvent", tt.input, st)
			}
			if n != len(tt.input) {
				t.Errorf("decode(%q) consumed %d, want %d", tt.input, n, len(tt.input))
			}
			if !reflect.DeepEqual(ev, tt.expected) {
				t.Errorf("decode(%q) = %#v, want %#v", tt.input, ev, tt.expected)
			}
		})
	}
}

func TestDecodeEvent_FocusReports(t *testing.T) {
	type tc struct {
		input    string
		expected FocusEvent
	}

	tests := map[string]tc{
		"focus gained": {input: "\x1b[I", expected: FocusEvent{Gained: true}},
		"focus lost":   {input: "\x1b[O", expected: FocusEvent{Gained: false}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev, n, st := decodeEvent([]byte(tt.input), false, false)
			if st != parseEvent || n != len(tt.input) {
				t.Fatalf("decode(%q) = (n=%d, status=%d), want full event", tt.input, n, st)
			}
			if ev != tt.expected {
				t.Errorf("decode(%q) = %#v, want %#v", tt.input, ev, tt.expected)
			}
		})
	}
}

func TestDecodeEvent_CursorPositionReport(t *testing.T) {
	ev, n, st := decodeEvent([]byte("\x1b[24;80R"), false, false)
	if st != parseEvent || n != 8 {
		t.Fatalf("got (n=%d, status=%d), want event consuming 8", n, st)
	}
	report, ok := ev.(cursorPositionEvent)
	if !ok {
		t.Fatalf("got %T, want cursorPositionEvent", ev)
	}
	if report.X != 79 || report.Y != 23 {
		t.Errorf("report = (%d, %d), want (79, 23)", report.X, report.Y)
	}
}

func TestDecodeEvent_CSIu(t *testing.T) {
	type tc struct {
		input    string
		expected KeyEvent
	}

	tests := map[string]tc{
		"plain a":         {input: "\x1b[97u", expected: KeyEvent{Key: KeyRune, Rune: 'a'}},
		"ctrl+a":          {input: "\x1b[97;5u", expected: KeyEvent{Key: KeyRune, Rune: 'a', Mod: ModCtrl}},
		"shift+a":         {input: "\x1b[97;2u", expected: KeyEvent{Key: KeyRune, Rune: 'a', Mod: ModShift}},
		"escape":          {input: "\x1b[27u", expected: KeyEvent{Key: KeyEscape}},
		"enter":           {input: "\x1b[13u", expected: KeyEvent{Key: KeyEnter}},
		"tab":             {input: "\x1b[9u", expected: KeyEvent{Key: KeyTab}},
		"backspace":       {input: "\x1b[127u", expected: KeyEvent{Key: KeyBackspace}},
		"release of a":    {input: "\x1b[97;1:3u", expected: KeyEvent{Key: KeyRune, Rune: 'a', Kind: KeyRelease}},
		"repeat of a":     {input: "\x1b[97;1:2u", expected: KeyEvent{Key: KeyRune, Rune: 'a', Kind: KeyRepeat}},
		"ctrl release":    {input: "\x1b[97;5:3u", expected: KeyEvent{Key: KeyRune, Rune: 'a', Mod: ModCtrl, Kind: KeyRelease}},
		"caps lock":       {input: "\x1b[57358u", expected: KeyEvent{Key: KeyCapsLock}},
		"f13":             {input: "\x1b[57376u", expected: KeyEvent{Key: KeyF13}},
		"media play":      {input: "\x1b[57428u", expected: KeyEvent{Key: KeyMediaPlay}},
		"left shift":      {input: "\x1b[57441u", expected: KeyEvent{Key: KeyLeftShift}},
		"super+a":         {input: "\x1b[97;9u", expected: KeyEvent{Key: KeyRune, Rune: 'a', Mod: ModSuper}},
		"caps lock state": {input: "\x1b[97;65u", expected: KeyEvent{Key: KeyRune, Rune: 'a', State: StateCapsLock}},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ev, n, st := decodeEvent([]byte(tt.input), false, false)
			if st != parseEvent {
				t.Fatalf("decode(%q) status = %d, want parseEvent", tt.input, st)
			}
			if n != len(tt.input) {
				t.Errorf("decode(%q) consumed %d, want %d", tt.input, n, len(tt.input))
			}
			if !reflect.DeepEqual(ev, tt.expected) {
				t.Errorf("decode(%q) = %#v, want %#v", tt.input, ev, tt.expected)
			}
		})
	}
}

func TestDecodeEvent_SplitInvariance(t *testing.T) {
	// Event boundaries must not depend on how bytes were chunked.
	inputs := map[string]string{
		"csi sequence":    "\x1b[1;5A",
		"utf8 rune":       "日本語",
		"mouse report":    "\x1b[<0;10;20M",
		"mixed":           "a\x1b[Ab\x1b[<0;5;6Mc\x1b[3~",
		"alt+key":         "\x1bq",
		"function keys":   "\x1bOP\x1b[15~\x1b[24~",
		"csi u":           "\x1b[97;5u\x1b[13u",
		"trailing escape": "ab\x1b",
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			whole := decodeAll(t, []byte(input), false)
			for chunk := 1; chunk <= 3; chunk++ {
				split := decodeChunked(t, []byte(input), chunk, false)
				if !reflect.DeepEqual(whole, split) {
					t.Errorf("chunk=%d: %#v, want %#v", chunk, split, whole)
				}
			}
		})
	}
}

func TestDecodeEvent_InvalidResync(t *testing.T) {
	t.Run("invalid utf8 byte discarded", func(t *testing.T) {
		events := decodeAll(t, []byte{0xff, 'a'}, false)
		want := []Event{KeyEvent{Key: KeyRune, Rune: 'a'}}
		if !reflect.DeepEqual(events, want) {
			t.Errorf("got %#v, want %#v", events, want)
		}
	})

	t.Run("unknown ss3 discarded", func(t *testing.T) {
		events := decodeAll(t, []byte("\x1bOZa"), false)
		want := []Event{KeyEvent{Key: KeyRune, Rune: 'a'}}
		if !reflect.DeepEqual(events, want) {
			t.Errorf("got %#v, want %#v", events, want)
		}
	})

	t.Run("unknown csi final discarded", func(t *testing.T) {
		// CSI 99 X is complete but meaningless; later input must decode.
		events := decodeAll(t, []byte("\x1b[99Xq"), false)
		want := []Event{KeyEvent{Key: KeyRune, Rune: 'q'}}
		if !reflect.DeepEqual(events, want) {
			t.Errorf("got %#v, want %#v", events, want)
		}
	})

	t.Run("garbage inside csi resynchronizes", func(t *testing.T) {
		events := decodeAll(t, []byte("\x1b[1\x01z"), false)
		// The 0x01 aborts the sequence; 'z' decodes normally.
		want := []Event{KeyEvent{Key: KeyRune, Rune: 'z'}}
		if !reflect.DeepEqual(events, want) {
			t.Errorf("got %#v, want %#v", events, want)
		}
	})
}

func TestDecodeEvent_Empty(t *testing.T) {
	_, n, st := decodeEvent(nil, true, false)
	if st != parseIncomplete || n != 0 {
		t.Errorf("decode(nil) = (n=%d, status=%d), want incomplete consuming 0", n, st)
	}
}
