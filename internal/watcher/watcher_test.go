package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileWatcher_FiresOnChange(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routes: []\n"), 0o644))

	fw, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 8)
	fw.Start(ctx, func() { fired <- struct{}{} })

	require.NoError(t, os.WriteFile(path, []byte("routes:\n  - path: /\n"), 0o644))

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("handler did not fire after file change")
	}
}

func TestFileWatcher_DebouncesBursts(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routes: []\n"), 0o644))

	fw, err := New(path, 200*time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var fires atomic.Int32
	fw.Start(ctx, func() { fires.Add(1) })

	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("routes: []\n"), 0o644))
		time.Sleep(20 * time.Millisecond)
	}

	assert.Eventually(t, func() bool {
		return fires.Load() == 1
	}, 3*time.Second, 50*time.Millisecond)

	// The burst collapsed into a single invocation
	time.Sleep(300 * time.Millisecond)
	assert.Equal(t, int32(1), fires.Load())
}

func TestFileWatcher_IgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routes: []\n"), 0o644))

	fw, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	fired := make(chan struct{}, 1)
	fw.Start(ctx, func() { fired <- struct{}{} })

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.yaml"), []byte("x\n"), 0o644))

	select {
	case <-fired:
		t.Fatal("handler fired for a sibling file")
	case <-time.After(500 * time.Millisecond):
	}
}

func TestFileWatcher_StopsOnContextCancel(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "routes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("routes: []\n"), 0o644))

	fw, err := New(path, 50*time.Millisecond)
	require.NoError(t, err)
	defer fw.Close()

	ctx, cancel := context.WithCancel(context.Background())

	fired := make(chan struct{}, 1)
	fw.Start(ctx, func() { fired <- struct{}{} })
	cancel()

	// Give the run loop a moment to observe cancellation
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(path, []byte("routes:\n  - path: /\n"), 0o644))

	select {
	case <-fired:
		t.Fatal("handler fired after context cancellation")
	case <-time.After(400 * time.Millisecond):
	}
}
