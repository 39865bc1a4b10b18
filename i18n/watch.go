package i18n

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const reloadDebounce = 250 * time.Millisecond

// Watch reloads the catalog from dir whenever a yaml file in it changes,
// until ctx is done.
func (c *Catalog) Watch(ctx context.Context, dir string, logger *zap.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "create messages watcher")
	}
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return errors.Wrapf(err, "watch %s", dir)
	}

	go func() {
		defer watcher.Close()

		var timer *time.Timer
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return
			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !strings.EqualFold(filepath.Ext(event.Name), ".yaml") {
					continue
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				timer = time.AfterFunc(reloadDebounce, func() {
					if err := c.Reload(dir); err != nil {
						logger.Warn("messages reload failed", zap.String("dir", dir), zap.Error(err))
						return
					}
					logger.Info("messages reloaded", zap.String("dir", dir))
				})
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Warn("messages watcher error", zap.Error(err))
			}
		}
	}()

	return nil
}
