// Package axcache implements the AxSnapshotCache (spec.md §4.3): a
// throttled, mutex-guarded cache in front of whatever accessibility
// enrichment the OS can provide for the focused window (the active
// browser tab's domain/URL, the active editor's open file and project).
// Readers take the cached value if it's fresher than MaxAge; otherwise
// the caller refreshes it. The lock is not held while the provider is
// queried, so concurrent callers that find the value stale each refresh.
package axcache

import (
	"sync"
	"time"

	"github.com/samwahome/skopio-desktop/internal/windowwatch"
)

// BrowserInfo is what a Provider can tell the cache about the active
// browser tab.
type BrowserInfo struct {
	Domain string
	URL    string
}

// EditorInfo is what a Provider can tell the cache about the active
// editor's open document.
type EditorInfo struct {
	FilePath    string
	ProjectPath string
}

// Provider is the capability abstraction over the OS accessibility
// facility, dispatched dynamically between a real system implementation
// and a mock for tests (spec.md §4.3/§9). Returning an error from either
// method means "nothing current to report," not a hard failure: the
// cache treats it as an empty result, falling soft into the category
// resolver's own title-based fallback paths.
type Provider interface {
	BrowserInfo(win windowwatch.Snapshot) (BrowserInfo, error)
	EditorInfo(win windowwatch.Snapshot) (EditorInfo, error)
}

// Snapshot is the cache's externally visible value: the focused window
// plus whatever enrichment was available for it at RefreshedAt.
type Snapshot struct {
	Window      windowwatch.Snapshot
	Browser     *BrowserInfo
	Editor      *EditorInfo
	RefreshedAt time.Time
}

// Cache is grounded directly on original_source's
// utils/ax/cache.rs::AxSnapshotCache: a single RWMutex-guarded `last`
// value, refreshed at most once per MaxAge, with browser info carried
// over from the previous snapshot when the provider errors but the
// focused app and title haven't changed (avoids flapping BrowserInfo to
// empty on a transient provider hiccup).
type Cache struct {
	provider Provider
	current  func() windowwatch.Snapshot
	maxAge   time.Duration

	mu   sync.RWMutex
	last Snapshot
}

// New constructs a Cache. current returns the latest focused-window
// snapshot (typically (*windowwatch.Watcher).Current).
func New(provider Provider, current func() windowwatch.Snapshot, maxAge time.Duration) *Cache {
	return &Cache{provider: provider, current: current, maxAge: maxAge}
}

// Snapshot returns the cached value if it is still within MaxAge,
// otherwise refreshes first.
func (c *Cache) Snapshot() Snapshot {
	c.mu.RLock()
	if !c.last.RefreshedAt.IsZero() && time.Since(c.last.RefreshedAt) <= c.maxAge {
		snap := c.last
		c.mu.RUnlock()
		return snap
	}
	c.mu.RUnlock()
	return c.RefreshNow()
}

// RefreshNow forces a refresh regardless of MaxAge.
func (c *Cache) RefreshNow() Snapshot {
	win := c.current()

	c.mu.RLock()
	prev := c.last
	c.mu.RUnlock()

	out := Snapshot{Window: win, RefreshedAt: time.Now()}

	appChanged := prev.Window.BundleID != win.BundleID || prev.Window.PID != win.PID
	sameTitle := prev.Window.Title == win.Title && win.Title != ""

	if bi, err := c.provider.BrowserInfo(win); err == nil {
		out.Browser = &bi
	} else if !appChanged && sameTitle {
		out.Browser = prev.Browser
	}

	if ei, err := c.provider.EditorInfo(win); err == nil {
		out.Editor = &ei
	} else if !appChanged && sameTitle {
		out.Editor = prev.Editor
	}

	c.mu.Lock()
	c.last = out
	c.mu.Unlock()

	return out
}
