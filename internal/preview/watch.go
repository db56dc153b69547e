package preview

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"git.home.luguber.info/inful/sitepress/internal/logfields"
	"git.home.luguber.info/inful/sitepress/internal/site"
)

// debounce is the quiet period after the last change before reloading.
const debounce = 300 * time.Millisecond

// Watch reloads the site description at path whenever it changes and hands
// the new site to onChange. Descriptions that fail to load are logged and
// skipped. Watch blocks until ctx is done.
func Watch(ctx context.Context, path string, onChange func(*site.Site)) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve site path: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer func() { _ = watcher.Close() }()
	// Editors often save by renaming over the file, so watch its directory.
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(abs), err)
	}

	reload, trigger := setupDebouncer()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs || shouldIgnoreEvent(ev.Name) {
				continue
			}
			slog.Debug("Site description changed", logfields.Path(ev.Name), slog.String("op", ev.Op.String()))
			trigger()
		case <-reload:
			s, err := site.Load(abs)
			if err != nil {
				slog.Warn("Reload failed; keeping previous site", logfields.Path(abs), logfields.Error(err))
				continue
			}
			slog.Info("Site reloaded", logfields.Path(abs), slog.Int("pages", len(s.Pages)))
			onChange(s)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", logfields.Error(err))
		}
	}
}

func setupDebouncer() (chan struct{}, func()) {
	var mu sync.Mutex
	var timer *time.Timer
	reload := make(chan struct{}, 1)

	trigger := func() {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(debounce, func() {
			select {
			case reload <- struct{}{}:
			default:
			}
		})
	}
	return reload, trigger
}

// shouldIgnoreEvent reports editor swap, backup and hidden files.
func shouldIgnoreEvent(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	if strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#") {
		return true
	}
	return base == "Thumbs.db"
}
