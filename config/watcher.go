package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/viamrobotics/autodrive/logging"
	"github.com/viamrobotics/autodrive/utils"
)

// A Watcher delivers a freshly read config every time the file on disk changes.
// Invalid revisions are logged and skipped.
type Watcher struct {
	path    string
	fsw     *fsnotify.Watcher
	configs chan *Config
	workers utils.StoppableWorkers
	logger  logging.Logger
}

// NewWatcher watches the file at path. The parent directory is watched so that editors
// which replace the file by renaming still trigger an update.
func NewWatcher(ctx context.Context, path string, logger logging.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create config watcher")
	}
	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		return nil, multierr.Combine(errors.Wrapf(err, "failed to watch %q", abs), fsw.Close())
	}
	w := &Watcher{
		path:    abs,
		fsw:     fsw,
		configs: make(chan *Config),
		workers: utils.NewStoppableWorkersWithContext(ctx),
		logger:  logger,
	}
	w.workers.AddWorkers(w.watch)
	return w, nil
}

func (w *Watcher) watch(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warnw("config watcher error", "error", err)
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			cfg, err := Read(w.path)
			if err != nil {
				w.logger.Errorw("ignoring config change", "path", w.path, "error", err)
				continue
			}
			w.logger.Infow("config changed", "path", w.path)
			select {
			case <-ctx.Done():
				return
			case w.configs <- cfg:
			}
		}
	}
}

// Config returns a channel of updated configs.
func (w *Watcher) Config() <-chan *Config {
	return w.configs
}

// Close stops watching.
func (w *Watcher) Close(ctx context.Context) error {
	w.workers.Stop()
	return w.fsw.Close()
}
