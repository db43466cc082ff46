package term

import (
	"encoding/json"
	"reflect"
	"testing"
)

func TestMarshalEvent_RoundTrip(t *testing.T) {
	events := map[string]Event{
		"rune key":        KeyEvent{Key: KeyRune, Rune: 'a'},
		"ctrl+rune":       KeyEvent{Key: KeyRune, Rune: 'c', Mod: ModCtrl},
		"special key":     KeyEvent{Key: KeyEnter},
		"function key":    KeyEvent{Key: KeyF7},
		"high f key":      KeyEvent{Key: KeyF19},
		"release":         KeyEvent{Key: KeyRune, Rune: 'q', Kind: KeyRelease},
		"with lock state": KeyEvent{Key: KeyRune, Rune: 'a', State: StateCapsLock},
		"unicode rune":    KeyEvent{Key: KeyRune, Rune: '日'},
		"resize":          ResizeEvent{Width: 120, Height: 40},
		"focus gained":    FocusEvent{Gained: true},
		"focus lost":      FocusEvent{Gained: false},
		"paste":           PasteEvent{Text: "hello\nworld"},
		"mouse press":     MouseEvent{Button: MouseLeft, Action: MousePress, X: 10, Y: 20},
		"mouse mod":       MouseEvent{Button: MouseWheelUp, Action: MousePress, X: 1, Y: 2, Mod: ModCtrl},
	}

	for name, ev := range events {
		t.Run(name, func(t *testing.T) {
			data, err := MarshalEvent(ev)
			if err != nil {
				t.Fatalf("MarshalEvent error: %v", err)
			}
			back, err := UnmarshalEvent(data)
			if err != nil {
				t.Fatalf("UnmarshalEvent(%s) error: %v", data, err)
			}
			if !reflect.DeepEqual(back, ev) {
				t.Errorf("round trip = %#v, want %#v (wire: %s)", back, ev, data)
			}
		})
	}
}

func TestMarshalEvent_WireFormat(t *testing.T) {
	data, err := MarshalEvent(ResizeEvent{Width: 80, Height: 24})
	if err != nil {
		t.Fatalf("MarshalEvent error: %v", err)
	}

	var env struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &env); err != nil {
		t.Fatalf("envelope not valid JSON: %v", err)
	}
	if env.Type != "resize" {
		t.Errorf("type = %q, want %q", env.Type, "resize")
	}
}

func TestUnmarshalEvent_Errors(t *testing.T) {
	inputs := map[string]string{
		"unknown type": `{"type":"teleport","data":{}}`,
		"unknown key":  `{"type":"key","data":{"key":"Hyperspace"}}`,
		"bad f key":    `{"type":"key","data":{"key":"F99"}}`,
		"not json":     `{{{`,
	}

	for name, input := range inputs {
		t.Run(name, func(t *testing.T) {
			if _, err := UnmarshalEvent([]byte(input)); err == nil {
				t.Errorf("UnmarshalEvent(%q) succeeded, want error", input)
			}
		})
	}
}

func TestMarshalEvent_Unsupported(t *testing.T) {
	if _, err := MarshalEvent(cursorPositionEvent{}); err == nil {
		t.Error("MarshalEvent on internal event succeeded, want error")
	}
}
