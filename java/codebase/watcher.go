package codebase

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"
	"time"
)

// FileWatcher polls the root directory of a codebase and rescans .java
// files whose modification time moved forward. Files that disappear are
// removed from the codebase. Files open in an editor are skipped.
type FileWatcher struct {
	codebase     *Codebase
	pollInterval time.Duration
	modTimes     map[string]time.Time
}

func NewFileWatcher(c *Codebase, pollInterval time.Duration) *FileWatcher {
	if pollInterval <= 0 {
		pollInterval = time.Second
	}
	return &FileWatcher{
		codebase:     c,
		pollInterval: pollInterval,
		modTimes:     make(map[string]time.Time),
	}
}

// Run polls until ctx is done.
func (w *FileWatcher) Run(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.scan(ctx)

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.scan(ctx)
		}
	}
}

func (w *FileWatcher) scan(ctx context.Context) {
	root := w.codebase.RootDir()
	current := make(map[string]bool)

	filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) != ".java" {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}

		current[path] = true
		if w.codebase.IsOpen(path) {
			return nil
		}
		lastMod, known := w.modTimes[path]
		if !known || info.ModTime().After(lastMod) {
			w.modTimes[path] = info.ModTime()
			if _, err := w.codebase.ScanFile(ctx, path); err != nil {
				w.codebase.log.Errorf("watch: %s", err)
			}
		}
		return nil
	})

	for path := range w.modTimes {
		if !current[path] && !w.codebase.IsOpen(path) {
			delete(w.modTimes, path)
			w.codebase.RemoveFile(path)
		}
	}
}
