package tracker

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/samwahome/skopio-desktop/internal/axcache"
	"github.com/samwahome/skopio-desktop/internal/config"
	"github.com/samwahome/skopio-desktop/internal/inputsignal"
	"github.com/samwahome/skopio-desktop/internal/store"
	"github.com/samwahome/skopio-desktop/internal/windowwatch"
)

type fakeSink struct {
	mu     sync.Mutex
	events []store.Event
	afks   []store.AFKEvent
}

func (f *fakeSink) InsertEvent(e store.Event) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, e)
	return nil
}

func (f *fakeSink) InsertAFKEvent(e store.AFKEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.afks = append(f.afks, e)
	return nil
}

func (f *fakeSink) eventCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.events)
}

func (f *fakeSink) afkCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.afks)
}

func testConfig(afkTimeout time.Duration) *config.Broadcaster {
	cfg := config.Default()
	cfg.AFKTimeoutS = int64(afkTimeout.Seconds())
	return config.NewBroadcaster(cfg)
}

func newTestEventTracker(sink Sink, cfg *config.Broadcaster) (*EventTracker, *inputsignal.Mouse, *inputsignal.Keyboard) {
	mouse := inputsignal.NewMouse()
	keyboard := inputsignal.NewKeyboard()
	win := windowwatch.Snapshot{BundleID: "com.microsoft.VSCode", AppName: "Code", Title: "main.go"}
	ax := axcache.New(&axcache.MockProvider{}, func() windowwatch.Snapshot { return win }, time.Hour)
	log := zap.NewNop()
	return NewEventTracker(mouse, keyboard, ax, sink, cfg, log), mouse, keyboard
}

func TestEventTrackerClosesSpanOnWindowChange(t *testing.T) {
	sink := &fakeSink{}
	cfg := testConfig(time.Hour)
	tracker, _, _ := newTestEventTracker(sink, cfg)

	first := windowwatch.Snapshot{BundleID: "com.microsoft.VSCode", AppName: "Code", Title: "main.go"}
	second := windowwatch.Snapshot{BundleID: "com.microsoft.VSCode", AppName: "Code", Title: "other.go"}

	var key string
	tracker.onWindow(first, &key)
	time.Sleep(5 * time.Millisecond)
	tracker.onWindow(second, &key)

	if sink.eventCount() != 1 {
		t.Fatalf("got %d closed events after window change, want 1", sink.eventCount())
	}
}

func TestEventTrackerDoesNotCloseOnUnchangedWindow(t *testing.T) {
	sink := &fakeSink{}
	cfg := testConfig(time.Hour)
	tracker, _, _ := newTestEventTracker(sink, cfg)

	win := windowwatch.Snapshot{BundleID: "com.microsoft.VSCode", AppName: "Code", Title: "main.go"}
	var key string
	tracker.onWindow(win, &key)
	tracker.onWindow(win, &key)
	tracker.onWindow(win, &key)

	if sink.eventCount() != 0 {
		t.Fatalf("got %d closed events for an unchanged window, want 0", sink.eventCount())
	}
}

func TestEventTrackerIgnoresUntrackedApp(t *testing.T) {
	sink := &fakeSink{}
	cfg := config.Default()
	cfg.TrackedApps = []config.TrackedApp{{BundleID: "com.apple.Terminal"}}
	b := config.NewBroadcaster(cfg)
	tracker, _, _ := newTestEventTracker(sink, b)

	win := windowwatch.Snapshot{BundleID: "com.microsoft.VSCode", AppName: "Code", Title: "main.go"}
	var key string
	tracker.onWindow(win, &key)
	tracker.Stop()

	if sink.eventCount() != 0 {
		t.Fatalf("got %d closed events for an untracked bundle id, want 0", sink.eventCount())
	}
}

func TestEventTrackerStopFlushesActiveSpan(t *testing.T) {
	sink := &fakeSink{}
	cfg := testConfig(time.Hour)
	tracker, _, _ := newTestEventTracker(sink, cfg)

	win := windowwatch.Snapshot{BundleID: "com.microsoft.VSCode", AppName: "Code", Title: "main.go"}
	var key string
	tracker.onWindow(win, &key)
	tracker.Stop()

	if sink.eventCount() != 1 {
		t.Fatalf("got %d closed events after Stop, want 1", sink.eventCount())
	}
}

func TestEventTrackerRunClosesSpanOnContextCancel(t *testing.T) {
	sink := &fakeSink{}
	cfg := testConfig(time.Hour)
	tracker, _, _ := newTestEventTracker(sink, cfg)

	windows := make(chan windowwatch.Snapshot, 1)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		tracker.Run(ctx, windows)
		close(done)
	}()

	windows <- windowwatch.Snapshot{BundleID: "com.microsoft.VSCode", AppName: "Code", Title: "main.go"}
	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not exit after context cancellation")
	}

	if sink.eventCount() != 1 {
		t.Fatalf("got %d closed events after Run exits, want 1", sink.eventCount())
	}
}

func TestAFKTrackerFlushesAfterTimeout(t *testing.T) {
	sink := &fakeSink{}
	cfg := testConfig(10 * time.Millisecond)
	mouse := inputsignal.NewMouse()
	keyboard := inputsignal.NewKeyboard()
	at := NewAFKTracker(mouse, keyboard, sink, cfg, zap.NewNop())

	at.mu.Lock()
	at.lastActivity = time.Now().Add(-time.Hour)
	at.mu.Unlock()

	at.tick()
	if sink.afkCount() != 0 {
		t.Fatalf("got %d AFK events on the tick that opens the span, want 0", sink.afkCount())
	}

	mouse.PressedButtons() // no-op, just ensure not considered active
	at.tick()

	at.mu.Lock()
	opened := at.afkStart != nil
	at.mu.Unlock()
	if !opened {
		t.Fatal("expected an AFK span to be open after sustained inactivity")
	}

	at.Stop()
	if sink.afkCount() != 1 {
		t.Fatalf("got %d AFK events after Stop, want 1", sink.afkCount())
	}
}

func TestAFKTrackerDoesNotFlushWithoutOpenSpan(t *testing.T) {
	sink := &fakeSink{}
	cfg := testConfig(time.Hour)
	mouse := inputsignal.NewMouse()
	keyboard := inputsignal.NewKeyboard()
	at := NewAFKTracker(mouse, keyboard, sink, cfg, zap.NewNop())

	at.Stop()
	if sink.afkCount() != 0 {
		t.Fatalf("got %d AFK events with no activity gap, want 0", sink.afkCount())
	}
}
