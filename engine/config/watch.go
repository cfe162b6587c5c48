package config

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/Carmen-Shannon/oxy-forward/common"
	"github.com/fsnotify/fsnotify"
)

// reloadDelay is how long the file must stay quiet after a write before it is reloaded. Saving
// usually truncates and writes in separate events.
var reloadDelay = 100 * time.Millisecond

// Watch reloads the config file whenever it is written and passes the result to fn, until ctx is
// canceled. The parent directory is watched so editors that replace the file by rename are seen.
// Bursts of events are coalesced into one reload after reloadDelay, and a file that is empty when
// reloaded is skipped instead of resetting to Default.
// fn runs on the watcher goroutine; a reload that fails to decode or validate is passed as an
// error and the previous config should be kept.
//
// Parameters:
//   - ctx: stops the watcher when canceled
//   - path: the config file
//   - fn: receives each reloaded config or the reload error
//
// Returns:
//   - error: an error if the watcher could not be started; otherwise nil after ctx is canceled
func Watch(ctx context.Context, path string, fn func(Config, error)) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch config: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch config: %w", err)
	}

	debounce := time.NewTimer(reloadDelay)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != abs {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			debounce.Reset(reloadDelay)
		case <-debounce.C:
			cfg, skipped, err := reload(abs, format)
			switch {
			case skipped:
				common.Logger().Debug("config reload skipped, file is empty", "path", abs)
				continue
			case err != nil:
				common.Logger().Warn("config reload failed", "path", abs, "error", err)
			default:
				common.Logger().Info("config reloaded", "path", abs)
			}
			fn(cfg, err)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			common.Logger().Warn("config watcher error", "path", abs, "error", err)
		}
	}
}

// reload reads the file at path. skipped is true when the file has no content, which is what a
// save looks like between its truncate and its write.
func reload(path string, format Format) (cfg Config, skipped bool, err error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, false, fmt.Errorf("read config: %w", err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return Config{}, true, nil
	}
	cfg, err = Decode(bytes.NewReader(data), format)
	if err != nil {
		return Config{}, false, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, false, nil
}
