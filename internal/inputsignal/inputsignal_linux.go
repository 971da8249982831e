//go:build linux

package inputsignal

import (
	"context"
	"encoding/binary"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Linux event-type codes from linux/input-event-codes.h.
const (
	evKey = 0x01
	evRel = 0x02

	relX = 0x00
	relY = 0x01
)

// inputEventSize is sizeof(struct input_event) on a 64-bit kernel: two
// 8-byte timeval fields, a 2-byte type, a 2-byte code, and a 4-byte
// value. 32-bit kernels pack this differently; this agent targets
// common 64-bit desktop Linux, matching the rest of the pack's Linux
// build-tag files.
const inputEventSize = 24

// Manager owns the device-discovery and hotplug machinery for both
// observers, grounded on zaolin-framework-powerd's IdleMonitor: glob
// /dev/input/event* for existing devices, then watch the directory with
// fsnotify for hotplug, spawning one blocking reader goroutine per
// device.
type Manager struct {
	Mouse    *Mouse
	Keyboard *Keyboard

	log *zap.Logger

	mu      sync.Mutex
	watched map[string]bool
}

// NewManager constructs an inert Manager; call Run to start reading.
func NewManager(log *zap.Logger) *Manager {
	return &Manager{
		Mouse:    NewMouse(),
		Keyboard: NewKeyboard(),
		log:      log,
		watched:  make(map[string]bool),
	}
}

// Run attaches to every currently present input device and keeps
// attaching to new ones until ctx is cancelled. A device that cannot be
// opened (commonly a permissions problem: the agent's user isn't in the
// `input` group) is skipped with a debug-level log entry; if none can be
// opened, both observers stay inert rather than the condition being
// treated as fatal (spec.md §4.1).
func (m *Manager) Run(ctx context.Context) {
	paths, err := filepath.Glob("/dev/input/event*")
	if err != nil {
		m.log.Error("glob /dev/input failed", zap.Error(err))
	}
	for _, p := range paths {
		go m.watchDevice(ctx, p)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		m.log.Warn("input hotplug watcher unavailable", zap.Error(err))
		return
	}
	if err := watcher.Add("/dev/input"); err != nil {
		m.log.Warn("cannot watch /dev/input for hotplug", zap.Error(err))
		_ = watcher.Close()
		return
	}

	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if ev.Op&fsnotify.Create == 0 {
					continue
				}
				base := filepath.Base(ev.Name)
				if matched, _ := filepath.Match("event*", base); matched {
					time.Sleep(100 * time.Millisecond)
					go m.watchDevice(ctx, ev.Name)
				}
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				m.log.Warn("input hotplug watcher error", zap.Error(err))
			}
		}
	}()
}

func (m *Manager) watchDevice(ctx context.Context, path string) {
	m.mu.Lock()
	if m.watched[path] {
		m.mu.Unlock()
		return
	}
	m.watched[path] = true
	m.mu.Unlock()
	defer func() {
		m.mu.Lock()
		delete(m.watched, path)
		m.mu.Unlock()
	}()

	file, err := os.Open(path)
	if err != nil {
		m.log.Debug("open input device failed, skipping", zap.String("path", path), zap.Error(err))
		return
	}
	defer file.Close()

	m.Mouse.setHealthy(true)
	m.Keyboard.setHealthy(true)

	buf := make([]byte, inputEventSize)
	keyState := make(map[KeyCode]bool)

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		n, err := file.Read(buf)
		if err != nil {
			m.log.Debug("input device stopped", zap.String("path", path), zap.Error(err))
			return
		}
		if n < inputEventSize {
			continue
		}

		typ := binary.LittleEndian.Uint16(buf[16:18])
		code := binary.LittleEndian.Uint16(buf[18:20])
		value := int32(binary.LittleEndian.Uint32(buf[20:24]))

		switch typ {
		case evKey:
			if code >= uint16(BtnLeft) && code <= uint16(BtnExtra) {
				m.Mouse.ingestButton(Button(code), value != keyUpValue)
				continue
			}
			if value == keyRepeatValue {
				continue
			}
			key := KeyCode(code)
			down := value == keyDownValue
			if down == keyState[key] {
				continue
			}
			keyState[key] = down
			m.Keyboard.ingestKey(key, down)
		case evRel:
			now := time.Now()
			switch code {
			case relX:
				m.Mouse.ingestMove(float64(value), 0, now)
			case relY:
				m.Mouse.ingestMove(0, float64(value), now)
			}
		}
	}
}
