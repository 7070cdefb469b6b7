package config

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"path/filepath"
	"time"

	logx "dukan/pkg/logx"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 300 * time.Millisecond

// Watch re-parses the config file on filesystem changes and invokes
// onChange with each successfully parsed, content-changed config.
//
// Editors commonly produce bursts of write/rename events, so events are
// debounced and reloads whose content hash matches the last committed
// config are suppressed. Parse failures keep the previous config and are
// only logged. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, initial *Config, log logx.Logger, onChange func(*Config)) error {
	if log.IsZero() {
		log = logx.Nop()
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	// Watch the directory, not the file: rename-based saves replace the
	// inode and would silently detach a file watch.
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		return err
	}

	lastHash := hashConfig(initial)
	base := filepath.Base(path)

	var debounce *time.Timer
	reloadCh := make(chan struct{}, 1)
	schedule := func() {
		if debounce != nil {
			debounce.Stop()
		}
		debounce = time.AfterFunc(watchDebounce, func() {
			select {
			case reloadCh <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove|fsnotify.Chmod) != 0 {
				schedule()
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", logx.Err(err))
		case <-reloadCh:
			cfg, err := Load(path)
			if err != nil {
				log.Warn("config reload failed; keeping previous", logx.Err(err))
				continue
			}
			h := hashConfig(cfg)
			if h == lastHash {
				log.Debug("config unchanged; reload skipped")
				continue
			}
			lastHash = h
			log.Info("config reloaded", logx.String("path", path))
			if onChange != nil {
				onChange(cfg)
			}
		}
	}
}

func hashConfig(cfg *Config) uint64 {
	if cfg == nil {
		return 0
	}
	b, err := json.Marshal(cfg)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(b)
	return h.Sum64()
}
