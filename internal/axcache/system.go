package axcache

import (
	"errors"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/samwahome/skopio-desktop/internal/category"
	"github.com/samwahome/skopio-desktop/internal/windowwatch"
)

// ErrUnavailable means the system provider has nothing current to
// report for the focused window — not a hard failure.
var ErrUnavailable = errors.New("axcache: no accessibility data available")

// SystemProvider extracts what it can from the window title the OS
// reports, the same signal category.Resolve already falls back to. A
// full per-browser/per-editor accessibility integration (AT-SPI on
// Linux, AppleScript enrichment on macOS) is a much larger undertaking
// per application; see DESIGN.md for
// the scope decision. Most titles carry either a URL-shaped string or a
// "file — project" convention, which covers the common case without an
// app-specific integration.
type SystemProvider struct{}

// BrowserInfo attempts to parse a URL out of the window title. Most
// browsers show the page title rather than the URL, so this commonly
// returns ErrUnavailable; callers fall back to category.Resolve's own
// title-based Browsing classification in that case.
func (SystemProvider) BrowserInfo(win windowwatch.Snapshot) (BrowserInfo, error) {
	if !category.IsBrowser(win.BundleID) {
		return BrowserInfo{}, ErrUnavailable
	}

	u, err := url.Parse(win.Title)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return BrowserInfo{}, ErrUnavailable
	}
	return BrowserInfo{Domain: u.Hostname(), URL: win.Title}, nil
}

// EditorInfo looks for an absolute path embedded in the window title
// (e.g. "main.go — /home/user/project/main.go"), takes it as the open
// file, and finds its project by workspace-marker search. Returns
// ErrUnavailable when no such path is present.
func (SystemProvider) EditorInfo(win windowwatch.Snapshot) (EditorInfo, error) {
	if !category.IsEditor(win.BundleID) {
		return EditorInfo{}, ErrUnavailable
	}

	for _, sep := range []string{" — ", " - ", " : "} {
		parts := strings.Split(win.Title, sep)
		for _, part := range parts {
			part = strings.TrimSpace(part)
			if strings.HasPrefix(part, "/") {
				return EditorInfo{
					FilePath:    part,
					ProjectPath: category.FindProjectRoot(filepath.Dir(part)),
				}, nil
			}
		}
	}
	return EditorInfo{}, ErrUnavailable
}
