package batch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher re-runs the batch whenever a source PDF beneath root changes.
// Events are debounced so a burst of writes triggers a single run; the
// staleness tracker still decides per file, so untouched files stay skipped.
type Watcher struct {
	Runner   *Runner
	Root     string
	Debounce time.Duration

	// OnRun receives each completed run's result.
	OnRun func(*ScanResult)
}

// NewWatcher creates a watcher with a 2s debounce
func NewWatcher(runner *Runner, root string) *Watcher {
	return &Watcher{
		Runner:   runner,
		Root:     root,
		Debounce: 2 * time.Second,
	}
}

// Watch blocks until ctx is done, converting on every relevant change. An
// initial run fires immediately so the tree starts out converted.
func (w *Watcher) Watch(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := w.addTree(fsw, w.Root); err != nil {
		return err
	}

	timer := time.NewTimer(0) // immediate first run
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if w.ignored(event.Name) {
				continue
			}
			// New directories need their own watch before files land in them.
			if event.Op&fsnotify.Create != 0 {
				if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
					_ = w.addTree(fsw, event.Name)
				}
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				timer.Reset(w.Debounce)
			}

		case <-fsw.Errors:
			// Watch errors are transient (e.g. a removed directory); the
			// next debounced run rescans from the root anyway.

		case <-timer.C:
			result, err := w.Runner.Run(ctx, w.Root, false)
			if err != nil && ctx.Err() != nil {
				return ctx.Err()
			}
			if w.OnRun != nil && result != nil {
				w.OnRun(result)
			}
		}
	}
}

// addTree watches path and every non-excluded directory beneath it
func (w *Watcher) addTree(fsw *fsnotify.Watcher, path string) error {
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if p != path && ExcludedDir(d.Name()) {
			return filepath.SkipDir
		}
		_ = fsw.Add(p)
		return nil
	})
}

// ignored filters events from output folders and non-PDF files
func (w *Watcher) ignored(name string) bool {
	sep := string(filepath.Separator)
	if strings.Contains(name, sep+DarkModeFolderName+sep) ||
		strings.HasSuffix(filepath.Dir(name), sep+DarkModeFolderName) {
		return true
	}
	ext := filepath.Ext(name)
	return ext != "" && !strings.EqualFold(ext, ".pdf")
}
