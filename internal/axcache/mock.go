package axcache

import "github.com/samwahome/skopio-desktop/internal/windowwatch"

// MockProvider is a hand-configurable Provider for tests (spec.md §9's
// "system vs mock" dynamic dispatch). A nil function field reports
// ErrUnavailable.
type MockProvider struct {
	BrowserFunc func(windowwatch.Snapshot) (BrowserInfo, error)
	EditorFunc  func(windowwatch.Snapshot) (EditorInfo, error)
}

func (m *MockProvider) BrowserInfo(win windowwatch.Snapshot) (BrowserInfo, error) {
	if m.BrowserFunc == nil {
		return BrowserInfo{}, ErrUnavailable
	}
	return m.BrowserFunc(win)
}

func (m *MockProvider) EditorInfo(win windowwatch.Snapshot) (EditorInfo, error) {
	if m.EditorFunc == nil {
		return EditorInfo{}, ErrUnavailable
	}
	return m.EditorFunc(win)
}
