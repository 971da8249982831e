package category

// Fixed classification tables. Grounded on original_source's monitored_app.rs
// (bundle-id → app enum) and its IGNORED_APPS set, generalized from a
// macOS-only bundle-id list to cover common desktop-app identifiers across
// platforms since this reimplementation targets more than one OS.

// Ignored reports whether bundleID must never be recorded, even
// transiently (spec.md §4.4).
func Ignored(bundleID string) bool {
	_, ok := ignoredApps[bundleID]
	return ok
}

var ignoredApps = map[string]bool{
	"com.apple.Preferences":     true,
	"com.apple.systempreferences": true,
	"com.apple.loginwindow":     true,
	"com.apple.finder.Dock":     true,
	"com.apple.screensaver.engine": true,
	"skopio-desktop":            true,
}

// IsBrowser reports whether bundleID identifies a tracked web browser.
func IsBrowser(bundleID string) bool {
	_, ok := browserApps[bundleID]
	return ok
}

var browserApps = map[string]bool{
	"com.google.Chrome":           true,
	"com.google.Chrome.canary":    true,
	"org.mozilla.firefox":         true,
	"com.apple.Safari":            true,
	"company.thebrowser.Browser":  true,
	"com.microsoft.edgemac":       true,
	"com.brave.Browser":           true,
}

// IsEditor reports whether bundleID identifies a tracked code editor/IDE.
func IsEditor(bundleID string) bool {
	_, ok := editorApps[bundleID]
	return ok
}

var editorApps = map[string]bool{
	"com.apple.dt.Xcode":            true,
	"com.microsoft.VSCode":          true,
	"com.jetbrains.intellij":        true,
	"com.jetbrains.goland":          true,
	"com.jetbrains.pycharm":         true,
	"com.todesktop.230313mzl4w4u92": true, // Cursor
	"com.neovide.neovide":           true,
}

// IsTerminal reports whether bundleID identifies a tracked terminal emulator.
func IsTerminal(bundleID string) bool {
	_, ok := terminalApps[bundleID]
	return ok
}

var terminalApps = map[string]bool{
	"com.apple.Terminal":     true,
	"com.googlecode.iterm2":  true,
	"dev.warp.Warp-Stable":   true,
	"net.kovidgoyal.kitty":   true,
	"com.github.wez.wezterm": true,
}
