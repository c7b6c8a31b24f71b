package app

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher invokes a callback when a file changes on disk. It watches
// the file's parent directory because editors that save atomically
// replace the file, which drops a direct watch.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func()
	logger   zerolog.Logger

	watcher *fsnotify.Watcher
	stopCh  chan struct{}
	done    chan struct{}
}

// WatcherConfig contains configuration for Watcher.
type WatcherConfig struct {
	// Debounce collapses event bursts into one callback. Editors
	// produce several filesystem events per save.
	Debounce time.Duration
}

// NewWatcher creates a watcher that runs onChange after each settled
// change to the file at path.
func NewWatcher(path string, onChange func(), logger zerolog.Logger, cfg WatcherConfig) (*Watcher, error) {
	if cfg.Debounce <= 0 {
		cfg.Debounce = 150 * time.Millisecond
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("absolute path: %w", err)
	}

	return &Watcher{
		path:     abs,
		debounce: cfg.Debounce,
		onChange: onChange,
		logger:   logger.With().Str("service", "watcher").Logger(),
		stopCh:   make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching the file's directory.
func (w *Watcher) Start() error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		fw.Close()
		return fmt.Errorf("watch directory: %w", err)
	}
	w.watcher = fw

	go w.loop()

	w.logger.Info().Str("path", w.path).Msg("watching for changes")
	return nil
}

// Stop stops watching and waits for the event loop to exit. Pending
// debounced callbacks are dropped.
func (w *Watcher) Stop() {
	close(w.stopCh)
	if w.watcher == nil {
		return
	}
	w.watcher.Close()
	<-w.done
}

func (w *Watcher) loop() {
	defer close(w.done)

	filename := filepath.Base(w.path)

	// Debounce timers are stopped and recreated rather than Reset,
	// which races with a drained channel.
	var timer *time.Timer
	var fire <-chan time.Time
	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer, fire = nil, nil
		}
	}
	defer stopTimer()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}

			// Only react to our file
			if filepath.Base(event.Name) != filename {
				continue
			}

			// React to write or create (atomic save = create)
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			w.logger.Debug().
				Str("event", event.Op.String()).
				Str("file", event.Name).
				Msg("file changed")

			stopTimer()
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			timer, fire = nil, nil
			w.onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error().Err(err).Msg("file watcher error")

		case <-w.stopCh:
			return
		}
	}
}
