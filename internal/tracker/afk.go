package tracker

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/samwahome/skopio-desktop/internal/config"
	"github.com/samwahome/skopio-desktop/internal/inputsignal"
	"github.com/samwahome/skopio-desktop/internal/store"
)

// AFKTracker ticks once a second, watching for a gap in mouse/keyboard
// activity longer than the configured AFK timeout. Grounded on
// trackers/afk_tracker.rs's start_tracking/stop_tracking.
type AFKTracker struct {
	mu           sync.Mutex
	lastActivity time.Time
	afkStart     *time.Time

	mouse    *inputsignal.Mouse
	keyboard *inputsignal.Keyboard
	sink     Sink
	cfg      *config.Broadcaster
	log      *zap.Logger
}

// NewAFKTracker constructs an AFKTracker.
func NewAFKTracker(mouse *inputsignal.Mouse, keyboard *inputsignal.Keyboard, sink Sink, cfg *config.Broadcaster, log *zap.Logger) *AFKTracker {
	return &AFKTracker{
		lastActivity: time.Now(),
		mouse:        mouse,
		keyboard:     keyboard,
		sink:         sink,
		cfg:          cfg,
		log:          log,
	}
}

// Run ticks until ctx is cancelled.
func (t *AFKTracker) Run(ctx context.Context) {
	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			t.Stop()
			return
		case <-ticker.C:
			t.tick()
		}
	}
}

func (t *AFKTracker) tick() {
	now := time.Now()
	active := activityDetected(t.mouse, t.keyboard)

	t.mu.Lock()
	defer t.mu.Unlock()

	if active {
		t.lastActivity = now
		if t.afkStart != nil {
			start := *t.afkStart
			t.afkStart = nil
			t.flush(start, now)
		}
		return
	}

	afkThreshold := t.cfg.Current().AFKTimeout()
	if t.afkStart == nil && now.Sub(t.lastActivity) >= afkThreshold {
		start := now
		t.afkStart = &start
	}
}

// flush persists a closed AFK span. Caller must hold t.mu.
func (t *AFKTracker) flush(start, end time.Time) {
	durationS := int64(end.Sub(start).Seconds())
	e := store.AFKEvent{
		ID:        store.NewID(),
		AFKStart:  start,
		AFKEnd:    &end,
		DurationS: &durationS,
	}
	if err := t.sink.InsertAFKEvent(e); err != nil {
		t.log.Warn("failed to persist closed AFK event", zap.Error(err))
	}
}

// Stop flushes an in-progress AFK span, if any. Call once on shutdown.
func (t *AFKTracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.afkStart != nil {
		start := *t.afkStart
		t.afkStart = nil
		t.flush(start, time.Now())
	}
}
