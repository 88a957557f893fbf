package codebase

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dhamidi/greentree/text"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestUpdateFileRecordsEdits(t *testing.T) {
	ctx := context.Background()
	c := New(t.TempDir())

	first, err := c.UpdateFile(ctx, "A.java", 1, "class A { }")
	require.NoError(t, err)
	assert.Equal(t, uuid.Nil, first.Previous)
	assert.Nil(t, first.Edits)
	assert.Empty(t, first.Diagnostics())

	second, err := c.UpdateFile(ctx, "A.java", 2, "class B { }")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.ID, second.Previous)
	assert.Equal(t, int32(2), second.Version)
	assert.Equal(t, []text.Change{text.NewChange(text.NewSpan(6, 1), "B")}, second.Edits)
	assert.Equal(t, []text.Span{text.NewSpan(6, 1)}, second.Changed)

	applied, err := text.Apply(first.Text, second.Edits)
	require.NoError(t, err)
	assert.Equal(t, second.Text, applied)

	assert.Same(t, second, c.GetFile("A.java"))
}

func TestUpdateFileKeepsIdenticalSnapshot(t *testing.T) {
	ctx := context.Background()
	c := New(t.TempDir())

	first, err := c.UpdateFile(ctx, "A.java", 1, "class A { }")
	require.NoError(t, err)
	again, err := c.UpdateFile(ctx, "A.java", 2, "class A { }")
	require.NoError(t, err)
	assert.Same(t, first, again)
}

func TestUpdateFileCanceled(t *testing.T) {
	c := New(t.TempDir())
	_, err := c.UpdateFile(context.Background(), "A.java", 1, "class A { }")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = c.UpdateFile(ctx, "A.java", 2, "class B { }")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, "class A { }", c.GetFile("A.java").Text)
}

func TestScanAll(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "A.java"), "class A { }")
	writeFile(t, filepath.Join(root, "b", "B.java"), "class B { ) }")
	writeFile(t, filepath.Join(root, ".hidden", "H.java"), "class H { }")
	writeFile(t, filepath.Join(root, "notes.txt"), "class N { }")

	c := New(root)
	require.NoError(t, c.ScanAll(context.Background()))

	assert.Equal(t, []string{
		filepath.Join(root, "a", "A.java"),
		filepath.Join(root, "b", "B.java"),
	}, c.Files())

	diags := c.Diagnostics()
	require.Len(t, diags, 1)
	require.Len(t, diags[filepath.Join(root, "b", "B.java")], 1)
	assert.Equal(t, "unexpected ')'", diags[filepath.Join(root, "b", "B.java")][0].Message)
}

func TestScanAllCanceled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "A.java"), "class A { }")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := New(root).ScanAll(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestConcurrentUpdates(t *testing.T) {
	ctx := context.Background()
	c := New(t.TempDir())
	paths := []string{"A.java", "B.java", "C.java", "D.java"}

	var wg sync.WaitGroup
	for _, path := range paths {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for v := range 10 {
				src := "class A { int x" + string(rune('a'+v)) + "; }"
				_, err := c.UpdateFile(ctx, path, int32(v), src)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, paths, c.Files())
	for _, path := range paths {
		snap := c.GetFile(path)
		assert.Equal(t, "class A { int xj; }", snap.Text)
		assert.Equal(t, snap.Text, snap.Root.FullText())
	}
}

func TestFileWatcher(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "A.java")
	writeFile(t, path, "class A { }")

	c := New(root)
	w := NewFileWatcher(c, time.Hour)
	w.scan(ctx)
	require.NotNil(t, c.GetFile(path))

	writeFile(t, path, "class B { }")
	later := time.Now().Add(time.Minute)
	require.NoError(t, os.Chtimes(path, later, later))
	w.scan(ctx)
	snap := c.GetFile(path)
	require.NotNil(t, snap)
	assert.Equal(t, "class B { }", snap.Text)
	assert.Equal(t, []text.Change{text.NewChange(text.NewSpan(6, 1), "B")}, snap.Edits)

	require.NoError(t, os.Remove(path))
	w.scan(ctx)
	assert.Nil(t, c.GetFile(path))
	assert.Empty(t, c.Files())
}

func TestScanFileVersions(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "A.java")
	c := New(root)

	writeFile(t, path, "class A { }")
	first, err := c.ScanFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int32(0), first.Version)

	writeFile(t, path, "class B { }")
	second, err := c.ScanFile(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, int32(1), second.Version)
	assert.Equal(t, first.ID, second.Previous)
}

func TestConcurrentUpdatesKeepLinearHistory(t *testing.T) {
	ctx := context.Background()
	c := New(t.TempDir())
	initial, err := c.UpdateFile(ctx, "A.java", 0, "class A { }")
	require.NoError(t, err)

	const writers = 8
	snaps := make([]*Snapshot, writers)
	var wg sync.WaitGroup
	for i := range writers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			src := "class A { int x" + string(rune('a'+i)) + "; }"
			snap, err := c.UpdateFile(ctx, "A.java", int32(i+1), src)
			assert.NoError(t, err)
			snaps[i] = snap
		}()
	}
	wg.Wait()

	byID := map[uuid.UUID]*Snapshot{initial.ID: initial}
	for _, snap := range snaps {
		require.NotNil(t, snap)
		byID[snap.ID] = snap
	}

	// every update replaced exactly the snapshot it diffed against, so
	// the history from the current snapshot back visits all of them
	seen := 0
	for snap := c.GetFile("A.java"); snap != nil; snap = byID[snap.Previous] {
		seen++
		if snap.Previous == uuid.Nil {
			break
		}
		prev := byID[snap.Previous]
		require.NotNil(t, prev)
		applied, err := text.Apply(prev.Text, snap.Edits)
		require.NoError(t, err)
		assert.Equal(t, snap.Text, applied)
	}
	assert.Equal(t, writers+1, seen)
}

func TestScanAllSkipsOpenFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "A.java")
	writeFile(t, path, "class A { }")

	c := New(root)
	c.Open(path)
	_, err := c.UpdateFile(ctx, path, 1, "class A { int x; }")
	require.NoError(t, err)

	require.NoError(t, c.ScanAll(ctx))
	assert.Equal(t, "class A { int x; }", c.GetFile(path).Text)
}

func TestFileWatcherSkipsOpenFiles(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	path := filepath.Join(root, "A.java")
	writeFile(t, path, "class A { }")

	c := New(root)
	c.Open(path)
	_, err := c.UpdateFile(ctx, path, 1, "class A { int x; }")
	require.NoError(t, err)

	w := NewFileWatcher(c, time.Hour)
	w.scan(ctx)
	snap := c.GetFile(path)
	require.NotNil(t, snap)
	assert.Equal(t, "class A { int x; }", snap.Text)
	assert.Equal(t, int32(1), snap.Version)

	c.Close(path)
	w.scan(ctx)
	assert.Equal(t, "class A { }", c.GetFile(path).Text)
}
