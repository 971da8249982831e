//go:build !linux

package windowwatch

import "errors"

// ErrUnsupported is returned by focusedWindow on platforms this agent
// does not yet have a window-focus query for. The Linux build uses
// GNOME Mutter's D-Bus extension (windowwatch_linux.go); other desktop
// shells need their own query and are left unimplemented rather than
// guessed at.
var ErrUnsupported = errors.New("windowwatch: focused window query not implemented on this platform")

func init() {
	focusedWindow = focusedWindowOther
}

func focusedWindowOther() (Snapshot, error) {
	return Snapshot{}, ErrUnsupported
}

// IdleDuration mirrors the Linux build's Mutter-backed implementation.
func IdleDuration() (uint64, error) {
	return 0, ErrUnsupported
}
