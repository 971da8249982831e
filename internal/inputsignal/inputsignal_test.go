package inputsignal

import (
	"testing"
	"time"
)

func TestMouseMoveLatchConsumesOnce(t *testing.T) {
	m := NewMouse()
	if m.HasMouseMoved() {
		t.Fatal("expected no movement before any input")
	}

	now := time.Now()
	m.ingestMove(60, 0, now)
	if m.HasMouseMoved() {
		t.Fatal("60px alone should not clear the dead zone")
	}

	m.ingestMove(60, 0, now.Add(10*time.Millisecond))
	if !m.HasMouseMoved() {
		t.Fatal("cumulative 120px within debounce window should arm the latch")
	}
	if m.HasMouseMoved() {
		t.Fatal("latch must reset after being read once")
	}
}

func TestMouseMoveDebounceResetsAccumulator(t *testing.T) {
	m := NewMouse()
	now := time.Now()
	m.ingestMove(80, 0, now)
	m.ingestMove(80, 0, now.Add(100*time.Millisecond)) // past the 50ms debounce window

	if m.HasMouseMoved() {
		t.Fatal("accumulator should have reset after the debounce window lapsed")
	}
}

func TestMouseButtons(t *testing.T) {
	m := NewMouse()
	m.ingestButton(BtnLeft, true)
	pressed := m.PressedButtons()
	if len(pressed) != 1 || pressed[0] != BtnLeft {
		t.Fatalf("PressedButtons() = %v, want [BtnLeft]", pressed)
	}

	m.ingestButton(BtnLeft, false)
	if len(m.PressedButtons()) != 0 {
		t.Fatal("expected no buttons held after release")
	}
}

func TestKeyboardAutoRepeatDoesNotGrowSet(t *testing.T) {
	k := NewKeyboard()
	k.ingestKey(KeyCode(0x1e), true) // KEY_A down

	before := k.PressedKeys()
	if len(before.Keys) != 1 {
		t.Fatalf("expected one held key, got %d", len(before.Keys))
	}

	// A repeated key-down with the same code and no intervening release
	// must not add a duplicate entry; ingestKey only ever sees
	// non-repeat transitions (the platform reader filters value==2), so
	// calling it again with down=true for an already-held key is a no-op
	// on the set.
	k.ingestKey(KeyCode(0x1e), true)
	after := k.PressedKeys()
	if len(after.Keys) != 1 {
		t.Fatalf("auto-repeat grew the held-key set: %v", after.Keys)
	}
}

func TestKeyboardModifierTracking(t *testing.T) {
	k := NewKeyboard()
	k.ingestKey(0x2a, true) // KEY_LEFTSHIFT

	state := k.PressedKeys()
	if len(state.Modifiers) != 1 || state.Modifiers[0] != ModShift {
		t.Fatalf("Modifiers = %v, want [shift]", state.Modifiers)
	}

	k.ingestKey(0x2a, false)
	state = k.PressedKeys()
	if len(state.Modifiers) != 0 {
		t.Fatalf("expected modifier cleared on release, got %v", state.Modifiers)
	}
}

func TestHealthyDefaultsFalse(t *testing.T) {
	m := NewMouse()
	if m.Healthy() {
		t.Fatal("expected a freshly constructed Mouse to be inert")
	}
	k := NewKeyboard()
	if k.Healthy() {
		t.Fatal("expected a freshly constructed Keyboard to be inert")
	}
}
