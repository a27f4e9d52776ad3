package filesystem

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func onlyText(path string) bool {
	return strings.HasSuffix(path, ".txt")
}

func TestIsHidden(t *testing.T) {
	tests := []struct {
		name     string
		expected bool
	}{
		{".git", true},
		{".hidden.txt", true},
		{"file.txt", false},
		{"file.hidden", false},
		{".", false},
		{"..", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, isHidden(tt.name))
		})
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.txt"), []byte("b"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.txt"), []byte("a"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "image.png"), []byte("x"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cache"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".cache", "c.txt"), []byte("c"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sub", "d.txt"), []byte("d"), 0o644))

	files, err := New(dir, WithFilter(onlyText)).Files()

	require.NoError(t, err)
	assert.Equal(t, []string{
		filepath.Join(dir, "a.txt"),
		filepath.Join(dir, "b.txt"),
		filepath.Join(dir, "sub", "d.txt"),
	}, files)
}

func TestHandleFsEvent(t *testing.T) {
	tests := []struct {
		name         string
		file         string
		createFile   bool
		createDir    bool
		op           fsnotify.Op
		expectChange bool
		expectedType ChangeType
	}{
		{name: "create file", file: "new.txt", createFile: true, op: fsnotify.Create, expectChange: true, expectedType: ChangeCreated},
		{name: "write file", file: "new.txt", createFile: true, op: fsnotify.Write, expectChange: true, expectedType: ChangeUpdated},
		{name: "remove file", file: "gone.txt", op: fsnotify.Remove, expectChange: true, expectedType: ChangeRemoved},
		{name: "rename file", file: "moved.txt", op: fsnotify.Rename, expectChange: true, expectedType: ChangeRemoved},
		{name: "chmod ignored", file: "new.txt", createFile: true, op: fsnotify.Chmod},
		{name: "directory ignored", file: "dir.txt", createDir: true, op: fsnotify.Create},
		{name: "hidden ignored", file: ".secret.txt", createFile: true, op: fsnotify.Create},
		{name: "filtered type ignored", file: "photo.png", createFile: true, op: fsnotify.Create},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := filepath.Join(dir, tt.file)
			if tt.createFile {
				require.NoError(t, os.WriteFile(path, []byte("content"), 0o644))
			}
			if tt.createDir {
				require.NoError(t, os.Mkdir(path, 0o755))
			}

			w := New(dir, WithFilter(onlyText))
			change := w.handleFsEvent(fsnotify.Event{Name: path, Op: tt.op})

			if !tt.expectChange {
				assert.Nil(t, change)
				return
			}
			require.NotNil(t, change)
			assert.Equal(t, tt.expectedType, change.Type)
			assert.Equal(t, path, change.Path)
		})
	}
}

func TestMerge(t *testing.T) {
	created := Change{Path: "a.txt", Type: ChangeCreated}
	updated := Change{Path: "a.txt", Type: ChangeUpdated}
	removed := Change{Path: "a.txt", Type: ChangeRemoved}

	assert.Equal(t, created, merge(Change{}, created))
	assert.Equal(t, created, merge(created, updated))
	assert.Equal(t, removed, merge(created, removed))
	assert.Equal(t, updated, merge(removed, created))
	assert.Equal(t, updated, merge(updated, updated))
}

func TestWatch_NotADirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file.txt")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))

	_, err := New(file).Watch(context.Background())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a directory")
}

func TestWatch_MissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "missing")).Watch(context.Background())
	assert.Error(t, err)
}

func TestWatch_ReportsSettledCreate(t *testing.T) {
	dir := t.TempDir()
	w := New(dir, WithFilter(onlyText), WithDebounce(50*time.Millisecond))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes, err := w.Watch(ctx)
	require.NoError(t, err)

	path := filepath.Join(dir, "notes.txt")
	require.NoError(t, os.WriteFile(path, []byte("first"), 0o644))
	require.NoError(t, os.WriteFile(path, []byte("second"), 0o644))

	select {
	case change := <-changes:
		assert.Equal(t, path, change.Path)
		assert.Equal(t, ChangeCreated, change.Type)
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for change")
	}
}

func TestWatch_ClosesChannelOnCancel(t *testing.T) {
	w := New(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())

	changes, err := w.Watch(ctx)
	require.NoError(t, err)
	cancel()

	select {
	case _, ok := <-changes:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
