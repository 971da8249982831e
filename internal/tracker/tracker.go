// Package tracker implements the EventTracker and AFKTracker state
// machines (spec.md §4.4): EventTracker turns focused-window changes
// into closed activity spans, AFKTracker turns input-activity gaps into
// closed AFK spans. Both read the same mouse/keyboard activity signal
// but keep independent state, matching the original desktop agent's
// trackers/event_tracker.rs and trackers/afk_tracker.rs.
package tracker

import (
	"github.com/samwahome/skopio-desktop/internal/inputsignal"
	"github.com/samwahome/skopio-desktop/internal/store"
)

// Sink is the durable-write side a tracker reports closed spans to.
// internal/trackingsvc.BufferedTrackingService implements it.
type Sink interface {
	InsertEvent(e store.Event) error
	InsertAFKEvent(e store.AFKEvent) error
}

// activityDetected reports whether the user produced any mouse or
// keyboard signal since the last check, consuming the mouse's one-shot
// movement latch in the process (spec.md §4.1/§4.4).
func activityDetected(mouse *inputsignal.Mouse, keyboard *inputsignal.Keyboard) bool {
	if mouse.HasMouseMoved() {
		return true
	}
	if len(mouse.PressedButtons()) > 0 {
		return true
	}
	state := keyboard.PressedKeys()
	return len(state.Keys) > 0
}
