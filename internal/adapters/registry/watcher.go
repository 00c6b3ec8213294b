package registry

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/podiumhq/podium/pkg/logger"
)

// Watch invalidates cached datasets when their files change on disk. It
// runs until the context is cancelled or Close is called. Changes are
// debounced per source, so an editor writing a file in several chunks
// triggers one invalidation.
func (r *Registry) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	if err := watcher.Add(r.dataDir); err != nil {
		watcher.Close()
		return err
	}
	// The results directory may not exist; watch it when it does.
	if err := watcher.Add(filepath.Join(r.dataDir, "results")); err != nil {
		r.log.Debug(ctx, "results directory not watched", logger.Error(err))
	}

	watchCtx, cancel := context.WithCancel(ctx)
	r.stopWatch = cancel
	r.watchDone = make(chan struct{})

	go func() {
		defer close(r.watchDone)
		defer watcher.Close()
		r.watchLoop(watchCtx, watcher)
	}()
	return nil
}

func (r *Registry) watchLoop(ctx context.Context, watcher *fsnotify.Watcher) {
	var mu sync.Mutex
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			name, ok := r.sourceForPath(event.Name)
			if !ok {
				continue
			}
			// Debounce per source
			mu.Lock()
			if t, exists := timers[name]; exists {
				t.Stop()
			}
			timers[name] = time.AfterFunc(r.watchDebounce, func() {
				r.Invalidate(name)
				r.log.Info(ctx, "dataset invalidated by file change", logger.String("source", name))
				mu.Lock()
				delete(timers, name)
				mu.Unlock()
			})
			mu.Unlock()
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			r.log.Warn(ctx, "watcher error", logger.Error(err))
		}
	}
}

// sourceForPath maps a changed file path back to its dataset source name.
func (r *Registry) sourceForPath(path string) (string, bool) {
	if !strings.HasSuffix(path, ".csv") {
		return "", false
	}
	base := filepath.Base(path)
	if filepath.Base(filepath.Dir(path)) == "results" {
		return resultsPrefix + strings.TrimSuffix(base, ".csv"), true
	}
	for name, file := range knownSources {
		if file == base {
			return name, true
		}
	}
	return "", false
}

// Close stops the watcher, if one is running, and waits for it to exit.
func (r *Registry) Close() {
	if r.stopWatch != nil {
		r.stopWatch()
		<-r.watchDone
		r.stopWatch = nil
		r.watchDone = nil
	}
}
