// Package windowwatch implements the WindowObserver (spec.md §4.2): it
// polls the desktop for the currently focused window on a fixed interval
// and publishes changes to subscribers through a single-slot, latest-wins
// watch channel, the same semantics internal/config's Broadcaster uses.
package windowwatch

import (
	"context"
	"sync"
	"time"

	"github.com/shirou/gopsutil/v3/process"
	"go.uber.org/zap"
)

// Snapshot describes the window that currently has input focus.
type Snapshot struct {
	BundleID string
	AppName  string
	PID      int32
	ExecPath string
	Title    string
}

// Equal reports whether two snapshots represent the same focused window,
// ignoring nothing: a title change (e.g. a new document in the same app)
// is still a change the tracker needs to see.
func (s Snapshot) Equal(other Snapshot) bool {
	return s == other
}

// focusedWindow is implemented per-OS (windowwatch_linux.go /
// windowwatch_other.go), split by build tag for OS-specific process
// introspection.
var focusedWindow func() (Snapshot, error)

// Watcher polls focusedWindow on Interval and fans the result out to
// watchers. Zero value is not usable; construct with New.
type Watcher struct {
	interval time.Duration
	log      *zap.Logger

	mu       sync.Mutex
	current  Snapshot
	watchers []chan Snapshot
}

// New creates a Watcher. interval is the poll period (spec.md suggests
// ~500ms as the default, carried from Config.WindowPollInterval).
func New(interval time.Duration, log *zap.Logger) *Watcher {
	return &Watcher{interval: interval, log: log}
}

// Run polls until ctx is cancelled. It is meant to run in its own
// goroutine for the lifetime of the process.
func (w *Watcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.poll()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

func (w *Watcher) poll() {
	if focusedWindow == nil {
		return
	}
	snap, err := focusedWindow()
	if err != nil {
		w.log.Debug("focused window query failed", zap.Error(err))
		return
	}

	w.mu.Lock()
	changed := snap != w.current
	w.current = snap
	watchers := append([]chan Snapshot(nil), w.watchers...)
	w.mu.Unlock()

	if !changed {
		return
	}
	for _, ch := range watchers {
		select {
		case ch <- snap:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snap:
			default:
			}
		}
	}
}

// Current returns the most recently observed snapshot.
func (w *Watcher) Current() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.current
}

// Watch registers a new single-slot receiver.
func (w *Watcher) Watch() <-chan Snapshot {
	ch := make(chan Snapshot, 1)
	w.mu.Lock()
	w.watchers = append(w.watchers, ch)
	w.mu.Unlock()
	return ch
}

// ListOpenApps enumerates every running process that reports a name,
// with its PID and executable path, for UI discovery. gopsutil's
// process listing is cross-platform, unlike the focused-window query
// itself, so this half of windowwatch needs no build tag.
func ListOpenApps() ([]Snapshot, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, err
	}

	out := make([]Snapshot, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil || name == "" {
			continue
		}
		exe, _ := p.Exe()
		out = append(out, Snapshot{
			AppName:  name,
			PID:      p.Pid,
			ExecPath: exe,
		})
	}
	return out, nil
}
