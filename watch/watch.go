// Package watch keeps a protodyn.Registry in sync with a descriptor set file
// on disk. Each change rebuilds the registry and swaps it in atomically;
// readers never observe a partially loaded schema.
package watch

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/vedadiyan/protodyn"
)

type Watcher struct {
	path     string
	logger   log.Logger
	watcher  *fsnotify.Watcher
	registry atomic.Pointer[protodyn.Registry]
	reloads  atomic.Int64
	failures atomic.Int64
}

// New loads path once and starts watching its directory. The initial load
// must succeed; later failures keep the last good registry.
func New(path string, logger log.Logger) (*Watcher, error) {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	path, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrap(err, "resolve descriptor set path")
	}
	w := &Watcher{
		path:   path,
		logger: log.With(logger, "component", "watch", "path", path),
	}
	if err := w.reload(); err != nil {
		return nil, err
	}

	w.watcher, err = fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "create watcher")
	}
	// The directory is watched so that editors replacing the file by rename
	// are still seen.
	if err := w.watcher.Add(filepath.Dir(path)); err != nil {
		w.watcher.Close()
		return nil, errors.Wrap(err, "watch descriptor set directory")
	}
	return w, nil
}

func (w *Watcher) Registry() *protodyn.Registry {
	return w.registry.Load()
}

// Reloads counts successful loads, including the initial one.
func (w *Watcher) Reloads() int64 {
	return w.reloads.Load()
}

func (w *Watcher) Failures() int64 {
	return w.failures.Load()
}

func (w *Watcher) reload() error {
	reg, err := protodyn.LoadDescriptorSet(w.path)
	if err != nil {
		w.failures.Inc()
		return err
	}
	// A truncated write in progress parses as an empty set.
	if len(reg.Messages()) == 0 {
		w.failures.Inc()
		return errors.Errorf("descriptor set %s declares no messages", w.path)
	}
	w.registry.Store(reg)
	w.reloads.Inc()
	level.Info(w.logger).Log("msg", "descriptor set loaded", "messages", len(reg.Messages()))
	return nil
}

// Run applies file changes until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !event.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			if err := w.reload(); err != nil {
				level.Error(w.logger).Log("msg", "failed to reload descriptor set, keeping previous registry", "err", err)
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			level.Warn(w.logger).Log("msg", "watcher error", "err", err)
		}
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}
