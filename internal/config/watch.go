package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// WatchFile reloads the config from path whenever the file changes on disk
// and pushes the result into b. Parse failures fall back to Default() and
// are logged, never propagated (spec.md §7). If path does not exist yet,
// its parent directory is watched instead so a later create is still
// observed; the watch is upgraded to the file itself once it appears.
func WatchFile(ctx context.Context, path string, b *Broadcaster, log *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	watchingFile := watcher.Add(path) == nil
	if !watchingFile {
		if err := watcher.Add(dir); err != nil {
			_ = watcher.Close()
			return err
		}
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

				if !watchingFile {
					if ev.Name == path && ev.Op&fsnotify.Create != 0 {
						if err := watcher.Add(path); err == nil {
							watchingFile = true
						}
					} else {
						continue
					}
				} else if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}

				cfg, err := Load(path)
				if err != nil {
					log.Warn("config reload failed, keeping defaults", zap.Error(err))
				}
				b.Set(cfg)
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				log.Warn("config watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
