package cmd

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Editors usually emit several events per save
const watchDebounce = 200 * time.Millisecond

// sceneWatcher calls back whenever a scene file is written or replaced
type sceneWatcher struct {
	w      *fsnotify.Watcher
	target string
}

// newSceneWatcher watches the directory holding path, since editors that save by renaming
// would otherwise detach a watch on the file itself
func newSceneWatcher(path string) (*sceneWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return nil, err
	}
	return &sceneWatcher{w: w, target: filepath.Clean(path)}, nil
}

// Run blocks until ctx is done, calling render once per burst of changes to the file.
// Render errors are logged and do not stop the watch.
func (sw *sceneWatcher) Run(ctx context.Context, render func() error) error {
	logger.Noticef("watching %s for changes", sw.target)

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-sw.w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != sw.target {
				continue
			}
			if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename) {
				debounce = time.After(watchDebounce)
			}
		case err, ok := <-sw.w.Errors:
			if !ok {
				return nil
			}
			logger.Warningf("watch error: %v", err)
		case <-debounce:
			debounce = nil
			logger.Noticef("%s changed, rendering", sw.target)
			if err := render(); err != nil {
				logger.Errorf("render failed: %v", err)
			}
		}
	}
}

func (sw *sceneWatcher) Close() error {
	return sw.w.Close()
}
