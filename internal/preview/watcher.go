package preview

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 100 * time.Millisecond

// WatchConfig configures a Watcher.
type WatchConfig struct {
	// Dirs are watched non-recursively. Directories are watched instead of
	// files because editors often replace a file on save.
	Dirs []string

	// Match filters event paths. Nil accepts every path.
	Match func(path string) bool

	// Debounce is the quiet period before onChange runs. Zero means
	// DefaultDebounce.
	Debounce time.Duration

	// Logger receives watch errors. Nil discards them.
	Logger *slog.Logger
}

// Watcher reports debounced file changes.
type Watcher struct {
	fsw      *fsnotify.Watcher
	match    func(string) bool
	debounce time.Duration
	logger   *slog.Logger
}

// NewWatcher starts watching cfg.Dirs. Call Close when done.
func NewWatcher(cfg WatchConfig) (*Watcher, error) {
	if len(cfg.Dirs) == 0 {
		return nil, ErrNoWatchDirs
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWatch, err)
	}

	seen := make(map[string]struct{}, len(cfg.Dirs))
	for _, dir := range cfg.Dirs {
		abs, err := filepath.Abs(dir)
		if err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrWatch, dir, err)
		}
		if _, ok := seen[abs]; ok {
			continue
		}
		seen[abs] = struct{}{}
		if err := fsw.Add(abs); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("%w: %s: %v", ErrWatch, dir, err)
		}
	}

	w := &Watcher{
		fsw:      fsw,
		match:    cfg.Match,
		debounce: cfg.Debounce,
		logger:   cfg.Logger,
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.New(slog.DiscardHandler)
	}
	return w, nil
}

// Run calls onChange once per burst of relevant events until ctx is done.
// onChange runs on the Run goroutine, so bursts arriving while it runs are
// coalesced into the next call.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			w.logger.Debug("file changed", slog.String("path", ev.Name), slog.String("op", ev.Op.String()))
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", slog.Any("error", err))

		case <-fire:
			fire = nil
			onChange()
		}
	}
}

// relevant drops attribute-only changes and hidden or backup files, which
// include editor swap files and our own atomic-write temp files.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Remove) && !ev.Has(fsnotify.Rename) {
		return false
	}
	base := filepath.Base(ev.Name)
	if strings.HasPrefix(base, ".") || strings.HasSuffix(base, "~") {
		return false
	}
	return w.match == nil || w.match(ev.Name)
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
