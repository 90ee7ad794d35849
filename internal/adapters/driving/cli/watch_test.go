package cli

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsContentChange(t *testing.T) {
	assert.True(t, isContentChange(fsnotify.Write))
	assert.True(t, isContentChange(fsnotify.Create))
	assert.True(t, isContentChange(fsnotify.Write|fsnotify.Chmod))
	assert.False(t, isContentChange(fsnotify.Chmod))
	assert.False(t, isContentChange(fsnotify.Remove))
	assert.False(t, isContentChange(fsnotify.Rename))
}

func TestWatchFile_CallsOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "curriculum.md")
	other := filepath.Join(dir, "notes.md")
	require.NoError(t, os.WriteFile(path, []byte("# v1"), 0o600))

	ctx, cancel := context.WithCancel(context.Background())
	var calls atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- watchFile(ctx, path, 20*time.Millisecond, func() { calls.Add(1) })
	}()

	// Unrelated files in the same directory are ignored.
	require.NoError(t, os.WriteFile(other, []byte("x"), 0o600))

	require.Eventually(t, func() bool {
		_ = os.WriteFile(path, []byte("# v2"), 0o600)
		return calls.Load() > 0
	}, 5*time.Second, 100*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watchFile did not return after cancel")
	}
}

func TestWatchFile_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent", "curriculum.md")

	err := watchFile(context.Background(), path, time.Millisecond, func() {})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch")
}
