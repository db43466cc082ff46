package term

import (
	"encoding/json"
	"fmt"
)

// Events marshal to a tagged envelope so heterogeneous streams can be
// logged and replayed:
//
//	{"type":"key","key":"Enter"}
//	{"type":"resize","width":120,"height":40}
//
// UnmarshalEvent reverses MarshalEvent.

type eventEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type keyEventJSON struct {
	Key   string `json:"key"`
	Rune  string `json:"rune,omitempty"`
	Mod   uint8  `json:"mod,omitempty"`
	Kind  uint8  `json:"kind,omitempty"`
	State uint8  `json:"state,omitempty"`
}

type resizeEventJSON struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

type focusEventJSON struct {
	Gained bool `json:"gained"`
}

type pasteEventJSON struct {
	Text string `json:"text"`
}

type mouseEventJSON struct {
	Button int   `json:"button"`
	Action int   `json:"action"`
	X      int   `json:"x"`
	Y      int   `json:"y"`
	Mod    uint8 `json:"mod,omitempty"`
}

// keyByName reverses keyNames for decoding. F-keys are handled separately
// since String formats them without a map entry.
var keyByName = func() map[string]Key {
	m := make(map[string]Key, len(keyNames))
	for k, name := range keyNames {
		m[name] = k
	}
	return m
}()

// MarshalEvent encodes an event as JSON.
func MarshalEvent(ev Event) ([]byte, error) {
	var env eventEnvelope
	var payload any

	switch e := ev.(type) {
	case KeyEvent:
		env.Type = "key"
		kj := keyEventJSON{
			Key:   e.Key.String(),
			Mod:   uint8(e.Mod),
			Kind:  uint8(e.Kind),
			State: uint8(e.State),
		}
		if e.Rune != 0 {
			kj.Rune = string(e.Rune)
		}
		payload = kj
	case ResizeEvent:
		env.Type = "resize"
		payload = resizeEventJSON{Width: e.Width, Height: e.Height}
	case FocusEvent:
		env.Type = "focus"
		payload = focusEventJSON{Gained: e.Gained}
	case PasteEvent:
		env.Type = "paste"
		payload = pasteEventJSON{Text: e.Text}
	case MouseEvent:
		env.Type = "mouse"
		payload = mouseEventJSON{
			Button: int(e.Button),
			Action: int(e.Action),
			X:      e.X,
			Y:      e.Y,
			Mod:    uint8(e.Mod),
		}
	default:
		return nil, fmt.Errorf("term: cannot marshal event type %T", ev)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	env.Data = data
	return json.Marshal(env)
}

// UnmarshalEvent decodes an event previously encoded with MarshalEvent.
func UnmarshalEvent(data []byte) (Event, error) {
	var env eventEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, err
	}

	switch env.Type {
	case "key":
		var kj keyEventJSON
		if err := json.Unmarshal(env.Data, &kj); err != nil {
			return nil, err
		}
		ev := KeyEvent{
			Mod:   Modifier(kj.Mod),
			Kind:  KeyEventKind(kj.Kind),
			State: KeyState(kj.State),
		}
		key, ok := keyByName[kj.Key]
		if !ok {
			if n := parseFKeyName(kj.Key); n != 0 {
				key = KeyF(n)
			} else {
				return nil, fmt.Errorf("term: unknown key name %q", kj.Key)
			}
		}
		ev.Key = key
		if kj.Rune != "" {
			for _, r := range kj.Rune {
				ev.Rune = r
				break
			}
		}
		return ev, nil
	case "resize":
		var rj resizeEventJSON
		if err := json.Unmarshal(env.Data, &rj); err != nil {
			return nil, err
		}
		return ResizeEvent{Width: rj.Width, Height: rj.Height}, nil
	case "focus":
		var fj focusEventJSON
		if err := json.Unmarshal(env.Data, &fj); err != nil {
			return nil, err
		}
		return FocusEvent{Gained: fj.Gained}, nil
	case "paste":
		var pj pasteEventJSON
		if err := json.Unmarshal(env.Data, &pj); err != nil {
			return nil, err
		}
		return PasteEvent{Text: pj.Text}, nil
	case "mouse":
		var mj mouseEventJSON
		if err := json.Unmarshal(env.Data, &mj); err != nil {
			return nil, err
		}
		return MouseEvent{
			Button: MouseButton(mj.Button),
			Action: MouseAction(mj.Action),
			X:      mj.X,
			Y:      mj.Y,
			Mod:    Modifier(mj.Mod),
		}, nil
	default:
		return nil, fmt.Errorf("term: unknown event type %q", env.Type)
	}
}

// parseFKeyName parses names of the form "F1".."F20". Returns 0 when the
// name is not a function key.
func parseFKeyName(name string) int {
	if len(name) < 2 || len(name) > 3 || name[0] != 'F' {
		return 0
	}
	n := 0
	for i := 1; i < len(name); i++ {
		c := name[i]
		if c < '0' || c > '9' {
			return 0
		}
		n = n*10 + int(c-'0')
	}
	if n < 1 || n > 20 {
		return 0
	}
	return n
}
