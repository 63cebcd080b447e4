package config

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hashicorp/go-hclog"
)

// FileWatcher reloads the configuration when its file changes on disk
type FileWatcher struct {
	manager  *ConfigManager
	watcher  *fsnotify.Watcher
	logger   hclog.Logger
	debounce time.Duration

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewFileWatcher creates a watcher for the manager's current config path.
// The parent directory is watched so editors that replace the file are seen.
func NewFileWatcher(manager *ConfigManager, logger hclog.Logger) (*FileWatcher, error) {
	path := manager.ConfigPath()
	if path == "" {
		return nil, fmt.Errorf("no config path set")
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create config watcher: %w", err)
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	return &FileWatcher{
		manager:  manager,
		watcher:  w,
		logger:   logger,
		debounce: 500 * time.Millisecond,
	}, nil
}

// Start begins processing file events until Stop is called
func (fw *FileWatcher) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	fw.cancel = cancel

	fw.wg.Add(1)
	go fw.run(ctx)
}

// Stop closes the underlying watcher and waits for the loop to exit
func (fw *FileWatcher) Stop() error {
	if fw.cancel != nil {
		fw.cancel()
	}
	err := fw.watcher.Close()
	fw.wg.Wait()
	return err
}

func (fw *FileWatcher) run(ctx context.Context) {
	defer fw.wg.Done()

	target := filepath.Clean(fw.manager.ConfigPath())
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(fw.debounce)
			timerC = timer.C
		case <-timerC:
			timerC = nil
			if err := fw.manager.LoadConfig(target); err != nil {
				fw.logger.Error("config reload failed, keeping previous configuration", "path", target, "error", err)
				continue
			}
			fw.logger.Info("configuration reloaded", "path", target)
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("config watcher error", "error", err)
		}
	}
}
