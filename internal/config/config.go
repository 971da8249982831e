// Package config loads the agent's JSON config file and distributes
// hot-reloaded values to subscribers through watch channels: single-slot,
// latest-wins broadcast, the same "Watch channel" semantics spec.md's
// glossary names.
package config

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// TrackedApp is one entry in the user-configurable tracked-apps set.
type TrackedApp struct {
	BundleID string `json:"bundle_id"`
	Name     string `json:"name,omitempty"`
}

// ServerConfig describes how the agent reaches the local aggregation server.
type ServerConfig struct {
	Socket    string `json:"socket"`
	Host      string `json:"host"`
	Port      int    `json:"port"`
	AuthToken string `json:"auth_token"`
}

// Config mirrors spec.md §3's Config record.
type Config struct {
	Theme          string       `json:"theme"`
	AFKTimeoutS    int64        `json:"afk_timeout_s"`
	FlushIntervalS int64        `json:"flush_interval_s"`
	SyncIntervalS  int64        `json:"sync_interval_s"`
	GlobalShortcut string       `json:"global_shortcut"`
	TrackedApps    []TrackedApp `json:"tracked_apps"`
	Server         ServerConfig `json:"server"`
	WindowPollMS   int64        `json:"window_poll_ms"`
	AxMaxAgeMS     int64        `json:"ax_max_age_ms"`
	GoalIntervalS  int64        `json:"goal_interval_s"`
	RetentionDays  int          `json:"retention_days"`
}

// AFKTimeout returns the AFK threshold as a time.Duration.
func (c *Config) AFKTimeout() time.Duration { return time.Duration(c.AFKTimeoutS) * time.Second }

// FlushInterval returns the buffered service's flush period.
func (c *Config) FlushInterval() time.Duration { return time.Duration(c.FlushIntervalS) * time.Second }

// SyncInterval returns the buffered service's server-sync period.
func (c *Config) SyncInterval() time.Duration { return time.Duration(c.SyncIntervalS) * time.Second }

// WindowPollInterval returns the WindowObserver's poll period.
func (c *Config) WindowPollInterval() time.Duration {
	return time.Duration(c.WindowPollMS) * time.Millisecond
}

// AxMaxAge returns the AxSnapshotCache's staleness threshold.
func (c *Config) AxMaxAge() time.Duration { return time.Duration(c.AxMaxAgeMS) * time.Millisecond }

// GoalInterval returns the GoalService's evaluation period.
func (c *Config) GoalInterval() time.Duration { return time.Duration(c.GoalIntervalS) * time.Second }

// Retention returns the durable-ledger retention window (15 days per
// spec.md §3 unless overridden).
func (c *Config) Retention() time.Duration {
	days := c.RetentionDays
	if days <= 0 {
		days = 15
	}
	return time.Duration(days) * 24 * time.Hour
}

// Clone returns a deep-enough copy safe to hand to a reader while the
// broadcaster mutates its own copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.TrackedApps = append([]TrackedApp(nil), c.TrackedApps...)
	return &cp
}

// Default returns the built-in configuration used when no file exists or
// the file fails to parse (spec.md §7: "Config parse: replaced with
// defaults").
func Default() *Config {
	return &Config{
		Theme:          "system",
		AFKTimeoutS:    300,
		FlushIntervalS: 120,
		SyncIntervalS:  60,
		GlobalShortcut: "",
		TrackedApps:    nil,
		Server: ServerConfig{
			Socket: "",
			Host:   "127.0.0.1",
			Port:   8080,
		},
		WindowPollMS:  500,
		AxMaxAgeMS:    2000,
		GoalIntervalS: 30,
		RetentionDays: 15,
	}
}

// Load reads and parses the config file at path. On any error (missing
// file, malformed JSON) it returns Default() and the error, letting the
// caller decide whether to log it; the caller never treats this as fatal.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Default(), err
	}
	cfg := Default()
	if err := json.Unmarshal(data, cfg); err != nil {
		return Default(), err
	}
	return cfg, nil
}

// Save writes cfg to path as indented JSON.
func Save(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Broadcaster holds the live config and fans it out to watchers. Each
// watcher gets its own buffered channel of size 1; a pending unread value
// is overwritten by Set so receivers only ever see the latest config
// ("latest wins"), matching spec.md's watch-channel semantics.
type Broadcaster struct {
	mu       sync.RWMutex
	current  *Config
	watchers []chan *Config
}

// NewBroadcaster creates a Broadcaster seeded with an initial config.
func NewBroadcaster(initial *Config) *Broadcaster {
	return &Broadcaster{current: initial}
}

// Current returns the most recently set config.
func (b *Broadcaster) Current() *Config {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Set replaces the live config and pushes it to every watcher.
func (b *Broadcaster) Set(cfg *Config) {
	b.mu.Lock()
	b.current = cfg
	watchers := append([]chan *Config(nil), b.watchers...)
	b.mu.Unlock()

	for _, ch := range watchers {
		select {
		case ch <- cfg:
		default:
			// Drain the stale pending value and replace it; the channel
			// is single-slot so this never blocks.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- cfg:
			default:
			}
		}
	}
}

// Watch registers a new single-slot receiver, pre-seeded with the current
// config so the first read never blocks.
func (b *Broadcaster) Watch() <-chan *Config {
	ch := make(chan *Config, 1)
	b.mu.Lock()
	ch <- b.current
	b.watchers = append(b.watchers, ch)
	b.mu.Unlock()
	return ch
}
