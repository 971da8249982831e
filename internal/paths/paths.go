// Package paths resolves the filesystem locations the agent reads and
// writes: the config file, the durable store, rotated logs, and the run
// directory that holds the local transport socket.
package paths

import (
	"os"
	"path/filepath"
)

const appDirName = "com.samwahome.skopio"

// Release reports whether the agent runs in release mode; main sets it
// from the -release flag. Dev mode uses a parallel set of paths (config_test.json, a loopback TCP
// port instead of a socket) so that running the agent from a checkout never
// clobbers a real installation's state.
var Release = false

// ConfigPath returns the path to the agent's config file.
func ConfigPath() string {
	name := "config_test.json"
	if Release {
		name = "config.json"
	}
	return filepath.Join(configDir(), name)
}

// DataDir returns the directory holding the durable SQLite ledger.
func DataDir() string {
	return configDir()
}

// StorePath returns the path to the durable SQLite database file.
func StorePath() string {
	return filepath.Join(DataDir(), "skopio_desktop.db")
}

// LogDir returns the directory for daily-rotated logs. Only meaningful in
// release builds; dev builds log to stderr.
func LogDir() string {
	return filepath.Join(configDir(), "logs")
}

// RunDir returns the 0700 directory that holds the local transport socket.
func RunDir() string {
	return filepath.Join(configDir(), "run")
}

// SocketPath returns the Unix domain socket path used by release builds.
func SocketPath() string {
	return filepath.Join(RunDir(), "skopio.sock")
}

// EnsureRunDir creates the run directory with 0700 permissions if absent.
func EnsureRunDir() error {
	return os.MkdirAll(RunDir(), 0o700)
}

// EnsureDataDir creates the data directory if absent.
func EnsureDataDir() error {
	return os.MkdirAll(DataDir(), 0o755)
}

func configDir() string {
	base, err := os.UserConfigDir()
	if err != nil || base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, appDirName)
}
