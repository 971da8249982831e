package inputsignal

import "sync"

// modifierKeys maps specific key codes to the named modifier they report
// alongside the raw key set (spec.md §4.1). Left/right variants both map
// to the same unshifted modifier name.
var modifierKeys = map[KeyCode]Modifier{
	0x2a: ModShift, 0x36: ModShift, // KEY_LEFTSHIFT, KEY_RIGHTSHIFT
	0x1d: ModCtrl, 0x61: ModCtrl, // KEY_LEFTCTRL, KEY_RIGHTCTRL
	0x38: ModAlt, 0x64: ModAlt, // KEY_LEFTALT, KEY_RIGHTALT
	0x7d: ModCmd, 0x7e: ModCmd, // KEY_LEFTMETA, KEY_RIGHTMETA
	0x3a: ModCapsLock, // KEY_CAPSLOCK
}

// Keyboard tracks the currently held key set. Auto-repeat key-down
// events must never grow the set (spec.md §4.1); the platform reader is
// responsible for filtering EV_KEY value==2 before calling ingestKey.
type Keyboard struct {
	mu sync.Mutex

	held      map[KeyCode]bool
	modifiers map[Modifier]bool

	healthy bool
}

// NewKeyboard returns an inert Keyboard.
func NewKeyboard() *Keyboard {
	return &Keyboard{held: make(map[KeyCode]bool), modifiers: make(map[Modifier]bool)}
}

// PressedKeys returns a snapshot of the held-key set plus any active
// named modifiers.
func (k *Keyboard) PressedKeys() KeyState {
	k.mu.Lock()
	defer k.mu.Unlock()

	state := KeyState{
		Keys:      make([]KeyCode, 0, len(k.held)),
		Modifiers: make([]Modifier, 0, len(k.modifiers)),
	}
	for key := range k.held {
		state.Keys = append(state.Keys, key)
	}
	for mod := range k.modifiers {
		state.Modifiers = append(state.Modifiers, mod)
	}
	return state
}

// Healthy reports whether a platform reader is currently attached.
func (k *Keyboard) Healthy() bool {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.healthy
}

func (k *Keyboard) setHealthy(v bool) {
	k.mu.Lock()
	k.healthy = v
	k.mu.Unlock()
}

// ingestKey applies a non-repeat key up/down transition. Callers must
// have already discarded EV_KEY value==2 (auto-repeat) events.
func (k *Keyboard) ingestKey(code KeyCode, down bool) {
	k.mu.Lock()
	defer k.mu.Unlock()

	if down {
		k.held[code] = true
	} else {
		delete(k.held, code)
	}

	if mod, ok := modifierKeys[code]; ok {
		if down {
			k.modifiers[mod] = true
		} else {
			delete(k.modifiers, mod)
		}
	}
}
