package config

import (
	"context"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watch hot-reloads the configuration on file changes and hands each valid
// result to onChange. A file that fails to parse keeps the previous
// configuration in effect. Blocks until ctx is canceled. If the file does
// not exist there is nothing to watch and Watch returns immediately.
func Watch(ctx context.Context, path string, logger *zap.Logger, onChange func(*Config)) error {
	if logger == nil {
		logger = zap.NewNop()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(path); err != nil {
		logger.Debug("config file not watchable", zap.String("path", path), zap.Error(err))
		return nil
	}

	// Debounce: editors fire bursts of writes for a single save.
	var debounce *time.Timer

	for {
		select {
		case <-ctx.Done():
			if debounce != nil {
				debounce.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				if debounce != nil {
					debounce.Stop()
				}
				debounce = time.AfterFunc(300*time.Millisecond, func() {
					cfg, err := Load(path)
					if err != nil {
						logger.Warn("config reload failed, keeping previous", zap.Error(err))
						return
					}
					logger.Info("config reloaded", zap.String("path", path))
					onChange(cfg)
				})
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("config watcher error", zap.Error(err))
		}
	}
}
