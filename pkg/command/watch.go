package command

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultWatchDelay is how long a burst of file events is coalesced before reacting.
const DefaultWatchDelay = 300 * time.Millisecond

// Watcher calls back whenever one of a set of files is written or recreated.
type Watcher struct {
	logger zerolog.Logger
	delay  time.Duration
}

// NewWatcher creates a watcher that debounces events by DefaultWatchDelay.
func NewWatcher(logger zerolog.Logger) *Watcher {
	return &Watcher{
		logger: logger.With().Str("subsystem", "watcher").Logger(),
		delay:  DefaultWatchDelay,
	}
}

// WithDelay overrides the debounce delay.
func (w *Watcher) WithDelay(delay time.Duration) *Watcher {
	w.delay = delay
	return w
}

// Watch blocks until ctx is done, calling onChange with the path of a changed file.
// Parent directories are watched rather than the files themselves so that editors
// replacing a file through a rename are still noticed. Errors from onChange are
// logged and do not stop the watch.
func (w *Watcher) Watch(ctx context.Context, paths []string, onChange func(path string) error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	files := make(map[string]bool, len(paths))
	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", path, err)
		}
		files[abs] = true

		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		dirs[dir] = true
	}

	w.logger.Info().Int("files", len(files)).Msg("Started watching")

	// Debounced changes are handed back to this goroutine so onChange never runs concurrently.
	changed := make(chan string, 1)
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, t := range timers {
			t.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Stopped watching")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			name := filepath.Clean(event.Name)
			if !files[name] || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.logger.Debug().Str("file", name).Str("op", event.Op.String()).Msg("File changed")

			if t, ok := timers[name]; ok {
				t.Stop()
			}
			timers[name] = time.AfterFunc(w.delay, func() {
				select {
				case changed <- name:
				case <-ctx.Done():
				}
			})

		case name := <-changed:
			if err := onChange(name); err != nil {
				w.logger.Error().Err(err).Str("file", name).Msg("Failed to handle change")
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Error().Err(err).Msg("Watcher error")
		}
	}
}
