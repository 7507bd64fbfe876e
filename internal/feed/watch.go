package feed

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/jward/libreveal/internal/logger"
)

// Watcher reports changes to a set of files. It watches their parent
// directories so editors that replace files by rename are still seen.
type Watcher struct {
	fsw      *fsnotify.Watcher
	targets  map[string]bool
	debounce time.Duration
	logger   *zap.SugaredLogger
}

// NewWatcher starts watching paths. Empty paths and paths whose directory
// does not exist are skipped. At least one path must be watchable.
func NewWatcher(paths []string, debounce time.Duration, opts ...Option) (*Watcher, error) {
	o := buildOptions("feed.watch", opts)

	targets := make(map[string]bool)
	dirs := make(map[string]bool)
	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, errors.Wrapf(err, "watch %s", p)
		}
		dir := filepath.Dir(abs)
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			o.logger.Debugw("not watching path; directory is missing", logger.FieldPath, abs)
			continue
		}
		targets[abs] = true
		dirs[dir] = true
	}
	if len(targets) == 0 {
		return nil, errors.New("watch: no paths to watch")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "watch: create watcher")
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, errors.Wrapf(err, "watch %s", dir)
		}
	}

	return &Watcher{fsw: fsw, targets: targets, debounce: debounce, logger: o.logger}, nil
}

// Targets returns the watched file paths.
func (w *Watcher) Targets() []string {
	out := make([]string, 0, len(w.targets))
	for t := range w.targets {
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run calls onChange once per burst of changes, after the debounce period
// has passed without further events. onChange runs on Run's goroutine, so
// calls never overlap. Run returns when ctx is done or the watcher closes.
func (w *Watcher) Run(ctx context.Context, onChange func(context.Context)) error {
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
			if !w.targets[filepath.Clean(ev.Name)] || ev.Op == fsnotify.Chmod {
				continue
			}
			w.logger.Debugw("feed file changed", logger.FieldPath, ev.Name, "op", ev.Op.String())
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
			w.logger.Warnw("watch error", logger.FieldError, err)
		case <-fire:
			fire = nil
			onChange(ctx)
		}
	}
}
