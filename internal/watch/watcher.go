package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/goliatone/go-vaultsync/internal/logging"
	"github.com/goliatone/go-vaultsync/pkg/interfaces"
)

const DefaultDebounce = 500 * time.Millisecond

// ErrNoDirectories is returned when none of the configured directories can be watched.
var ErrNoDirectories = errors.New("watch: no directory to watch")

// Config lists the directories to watch and the quiet period before a run.
type Config struct {
	Dirs      []string
	Recursive bool
	Debounce  time.Duration
}

// Option customises a Watcher.
type Option func(*Watcher)

// WithLogger sets the watcher logger.
func WithLogger(logger interfaces.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// Watcher reruns a sync whenever the vault changes. Bursts of events are
// debounced, and a new run cancels and waits for the one in flight, so at
// most one sync is active at a time.
type Watcher struct {
	cfg     Config
	service interfaces.SyncService
	logger  interfaces.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// New builds a Watcher around service.
func New(cfg Config, service interfaces.SyncService, opts ...Option) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	w := &Watcher{cfg: cfg, service: service, logger: logging.NoOp()}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run performs an initial sync and then watches until ctx is done.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: create watcher: %w", err)
	}
	defer fsw.Close()

	watched := 0
	for _, dir := range w.cfg.Dirs {
		n, err := w.addTree(fsw, dir)
		if err != nil {
			w.logger.Warn("watch.dir.skipped", "dir", dir, "error", err)
			continue
		}
		watched += n
	}
	if watched == 0 {
		return ErrNoDirectories
	}

	w.logger.Info("watch.started", "dirs", strings.Join(w.cfg.Dirs, ","), "debounce", w.cfg.Debounce.String())
	w.start(ctx, "initial")
	defer w.stop()

	timer := time.NewTimer(w.cfg.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := ""

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("watch.stopped")
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(event) {
				continue
			}
			if event.Has(fsnotify.Create) && w.cfg.Recursive {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if _, err := w.addTree(fsw, event.Name); err != nil {
						w.logger.Warn("watch.dir.skipped", "dir", event.Name, "error", err)
					}
				}
			}
			w.logger.Debug("watch.event", "path", event.Name, "op", event.Op.String())
			pending = event.Name
			timer.Reset(w.cfg.Debounce)

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch.error", "error", err)

		case <-timer.C:
			w.start(ctx, pending)
			pending = ""
		}
	}
}

// start cancels the run in flight, waits for it, and launches a new one.
func (w *Watcher) start(parent context.Context, trigger string) {
	w.stop()

	ctx, cancel := context.WithCancel(parent)
	done := make(chan struct{})
	w.cancel, w.done = cancel, done

	go func() {
		defer close(done)
		result, err := w.service.Sync(ctx)
		switch {
		case errors.Is(err, context.Canceled):
			w.logger.Info("watch.run.cancelled", "trigger", trigger)
		case err != nil:
			w.logger.Error("watch.run.failed", "trigger", trigger, "error", err)
		case result != nil:
			w.logger.Info("watch.run.completed",
				"trigger", trigger,
				"processed", result.Processed,
				"errors", result.Errors,
				"downloaded", result.Downloaded,
			)
		}
	}()
}

func (w *Watcher) stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	<-w.done
	w.cancel, w.done = nil, nil
}

func (w *Watcher) addTree(fsw *fsnotify.Watcher, root string) (int, error) {
	info, err := os.Stat(root)
	if err != nil {
		return 0, err
	}
	if !info.IsDir() {
		return 0, fmt.Errorf("watch: %s is not a directory", root)
	}
	if !w.cfg.Recursive {
		return 1, fsw.Add(root)
	}

	added := 0
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(d.Name(), ".") {
			return fs.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return err
		}
		added++
		return nil
	})
	return added, err
}

// relevant drops permission-only changes and files the pipeline itself
// writes or ignores.
func relevant(event fsnotify.Event) bool {
	if event.Op == fsnotify.Chmod {
		return false
	}
	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") || strings.HasSuffix(base, ".bak") {
		return false
	}
	return true
}
