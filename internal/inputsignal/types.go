// Package inputsignal implements the InputObservers (spec.md §4.1): two
// independent observers, mouse and keyboard, that register with the OS
// input-event facility and expose the minimal shape a tracker needs to
// decide whether the user is present — a pressed-buttons set, a
// key-down set, and a one-shot "did the mouse move" latch.
package inputsignal

import "time"

// Button identifies a mouse button by its raw Linux input-event code.
type Button uint16

// Common BTN_* codes from linux/input-event-codes.h.
const (
	BtnLeft   Button = 0x110
	BtnRight  Button = 0x111
	BtnMiddle Button = 0x112
	BtnSide   Button = 0x113
	BtnExtra  Button = 0x114
)

// KeyCode identifies a keyboard key by its raw Linux input-event code.
type KeyCode uint16

// Modifier is an explicit, named modifier state, reported alongside (not
// instead of) the raw key set per spec.md §4.1.
type Modifier string

const (
	ModShift    Modifier = "shift"
	ModCtrl     Modifier = "ctrl"
	ModAlt      Modifier = "alt"
	ModCmd      Modifier = "cmd"
	ModCapsLock Modifier = "capslock"
)

// KeyState is a snapshot of everything currently held down.
type KeyState struct {
	Keys      []KeyCode
	Modifiers []Modifier
}

// moveDeadZonePx and moveDebounce implement the mouse-movement latch's
// "≥100px jump debounced by 50ms" rule (spec.md §4.1): relative motion
// accumulates while successive events arrive within the debounce window
// (a longer gap resets the accumulator), and once it clears the dead zone
// the latch is armed and the accumulator restarts, so a continuous drag
// re-arms once per further 100px rather than on every event.
const (
	moveDeadZonePx   = 100.0
	moveDebounce     = 50 * time.Millisecond
	keyRepeatValue   = 2 // Linux EV_KEY value for an auto-repeat key-down
	keyDownValue     = 1
	keyUpValue       = 0
)
