//go:build linux

package windowwatch

import (
	"encoding/json"
	"fmt"

	"github.com/godbus/dbus/v5"
	"github.com/shirou/gopsutil/v3/process"
)

// Grounded on rescuetime-linux-mutter's getActiveWindow: the GNOME Shell
// "FocusedWindow" extension exposes a JSON-encoded description of the
// focused window over the session bus, queried with a zero-argument
// method call and decoded from the single string it returns.
const (
	shellDestination = "org.gnome.Shell"
	shellObjectPath  = dbus.ObjectPath("/org/gnome/shell/extensions/FocusedWindow")
	shellMethod      = "org.gnome.shell.extensions.FocusedWindow.Get"
)

type mutterWindow struct {
	Title   string `json:"title"`
	WMClass string `json:"wm_class"`
	PID     int32  `json:"pid"`
}

func init() {
	focusedWindow = focusedWindowLinux
}

func focusedWindowLinux() (Snapshot, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return Snapshot{}, fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(shellDestination, shellObjectPath)
	call := obj.Call(shellMethod, 0)
	if call.Err != nil {
		return Snapshot{}, fmt.Errorf("FocusedWindow.Get: %w", call.Err)
	}

	var raw string
	if err := call.Store(&raw); err != nil {
		return Snapshot{}, fmt.Errorf("decode FocusedWindow response: %w", err)
	}

	var win mutterWindow
	if err := json.Unmarshal([]byte(raw), &win); err != nil {
		return Snapshot{}, fmt.Errorf("parse FocusedWindow json: %w", err)
	}

	snap := Snapshot{
		BundleID: win.WMClass,
		AppName:  win.WMClass,
		Title:    win.Title,
		PID:      win.PID,
	}

	if win.PID > 0 {
		if p, err := process.NewProcess(win.PID); err == nil {
			if exe, err := p.Exe(); err == nil {
				snap.ExecPath = exe
			}
			if name, err := p.Name(); err == nil && name != "" {
				snap.AppName = name
			}
		}
	}

	return snap, nil
}

// idleTimeMillis queries Mutter's IdleMonitor for milliseconds since the
// last input event.
func idleTimeMillis() (uint64, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return 0, fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object("org.gnome.Mutter.IdleMonitor", dbus.ObjectPath("/org/gnome/Mutter/IdleMonitor/Core"))
	call := obj.Call("org.gnome.Mutter.IdleMonitor.GetIdletime", 0)
	if call.Err != nil {
		return 0, fmt.Errorf("IdleMonitor.GetIdletime: %w", call.Err)
	}

	var ms uint64
	if err := call.Store(&ms); err != nil {
		return 0, fmt.Errorf("decode idle time: %w", err)
	}
	return ms, nil
}

// IdleDuration exposes idleTimeMillis for callers outside this package.
// Nothing in this module calls it; internal/inputsignal reads
// /dev/input directly.
func IdleDuration() (uint64, error) {
	return idleTimeMillis()
}
