// Package codebase keeps parsed snapshots of the Java files of a workspace
// and serves them over the Language Server Protocol.
//
// Every update of a file produces a new Snapshot. The snapshot records the
// edits that lead from the previous snapshot's text to its own, computed by
// diffing the two syntax trees, so consumers can update derived state for
// the changed regions only.
package codebase

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/tliron/commonlog"
	"golang.org/x/sync/errgroup"

	"github.com/dhamidi/greentree/java/parser"
	"github.com/dhamidi/greentree/syntax"
	"github.com/dhamidi/greentree/text"
	"github.com/dhamidi/greentree/treediff"
)

// Snapshot is one immutable version of a file.
type Snapshot struct {
	ID      uuid.UUID
	Path    string
	Version int32
	Text    string
	Root    *syntax.SyntaxNode
	Lines   *text.LineMap

	// Previous is the snapshot this one replaced, or uuid.Nil.
	Previous uuid.UUID
	// Edits turn the previous snapshot's text into Text. They are in the
	// previous snapshot's coordinates.
	Edits []text.Change
	// Changed are the regions of Text that differ from the previous
	// snapshot.
	Changed []text.Span
}

func (s *Snapshot) Diagnostics() []syntax.Diagnostic {
	return s.Root.Diagnostics()
}

type Option func(*Codebase)

func WithDiffOptions(opts ...treediff.Option) Option {
	return func(c *Codebase) {
		c.diffOpts = append(c.diffOpts, opts...)
	}
}

func WithParserOptions(opts ...parser.Option) Option {
	return func(c *Codebase) {
		c.parseOpts = append(c.parseOpts, opts...)
	}
}

type Codebase struct {
	mu      sync.RWMutex
	rootDir string
	files   map[string]*Snapshot
	open    map[string]bool

	diffOpts  []treediff.Option
	parseOpts []parser.Option
	log       commonlog.Logger
}

func New(rootDir string, opts ...Option) *Codebase {
	c := &Codebase{
		rootDir: rootDir,
		files:   make(map[string]*Snapshot),
		open:    make(map[string]bool),
		log:     commonlog.GetLogger("greentree.codebase"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Codebase) RootDir() string {
	return c.rootDir
}

// ScanAll parses every .java file below the root directory, several files
// at a time. Hidden directories and files open in an editor are skipped.
func (c *Codebase) ScanAll(ctx context.Context) error {
	paths, err := c.javaFiles()
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if c.IsOpen(path) {
				return nil
			}
			_, err := c.ScanFile(ctx, path)
			if err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("scan: %w", err)
	}
	c.log.Infof("scanned %d files in %s", len(paths), c.rootDir)
	return nil
}

func (c *Codebase) javaFiles() ([]string, error) {
	var paths []string
	err := filepath.WalkDir(c.rootDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if path != c.rootDir && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		if filepath.Ext(path) == ".java" {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}

// ScanFile reads path from disk and updates its snapshot. The version is
// one past the version of the snapshot it replaces.
func (c *Codebase) ScanFile(ctx context.Context, path string) (*Snapshot, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return c.update(ctx, path, string(content), func(prev *Snapshot) int32 {
		if prev == nil {
			return 0
		}
		return prev.Version + 1
	})
}

// UpdateFile parses content as the new text of path and stores the
// snapshot. When path had a snapshot before, the edits between the two are
// recorded; if the texts are identical the previous snapshot is kept.
func (c *Codebase) UpdateFile(ctx context.Context, path string, version int32, content string) (*Snapshot, error) {
	return c.update(ctx, path, content, func(*Snapshot) int32 { return version })
}

// update parses and diffs without holding the lock, then commits only if
// the snapshot it diffed against is still current. Otherwise it starts
// over against the newer snapshot.
func (c *Codebase) update(ctx context.Context, path, content string, version func(prev *Snapshot) int32) (*Snapshot, error) {
	for {
		c.mu.RLock()
		prev := c.files[path]
		c.mu.RUnlock()

		if prev != nil && prev.Text == content {
			return prev, nil
		}
		snap, err := c.newSnapshot(ctx, path, version(prev), content, prev)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.files[path] != prev {
			c.mu.Unlock()
			c.log.Debugf("%s: changed during update, retrying", path)
			continue
		}
		c.files[path] = snap
		c.mu.Unlock()

		c.log.Debugf("%s: snapshot %s version %d, %d edits", path, snap.ID, snap.Version, len(snap.Edits))
		return snap, nil
	}
}

func (c *Codebase) newSnapshot(ctx context.Context, path string, version int32, content string, prev *Snapshot) (*Snapshot, error) {
	snap := &Snapshot{
		ID:      uuid.New(),
		Path:    path,
		Version: version,
		Text:    content,
		Root:    parser.ParseTree(content, c.parseOpts...),
		Lines:   text.NewLineMap(content),
	}
	if prev == nil {
		return snap, nil
	}
	edits, err := treediff.GetChanges(ctx, snap.Root, prev.Root, c.diffOpts...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", path, err)
	}
	changed, err := treediff.GetChangedSpans(ctx, snap.Root, prev.Root, c.diffOpts...)
	if err != nil {
		return nil, fmt.Errorf("update %s: %w", path, err)
	}
	snap.Previous = prev.ID
	snap.Edits = edits
	snap.Changed = changed
	return snap, nil
}

// Open marks path as owned by an editor. While open, ScanAll and the file
// watcher leave its snapshot alone; the editor's text wins over the disk.
func (c *Codebase) Open(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.open[path] = true
}

// Close hands path back to the disk.
func (c *Codebase) Close(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.open, path)
}

func (c *Codebase) IsOpen(path string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.open[path]
}

func (c *Codebase) RemoveFile(path string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.files, path)
}

// GetFile returns the current snapshot of path, or nil.
func (c *Codebase) GetFile(path string) *Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.files[path]
}

// Files returns the paths with a snapshot, sorted.
func (c *Codebase) Files() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	paths := make([]string, 0, len(c.files))
	for path := range c.files {
		paths = append(paths, path)
	}
	slices.Sort(paths)
	return paths
}

// Diagnostics returns the diagnostics of every file that has any.
func (c *Codebase) Diagnostics() map[string][]syntax.Diagnostic {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make(map[string][]syntax.Diagnostic)
	for path, snap := range c.files {
		if diags := snap.Diagnostics(); len(diags) > 0 {
			result[path] = diags
		}
	}
	return result
}
