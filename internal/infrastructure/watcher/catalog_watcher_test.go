package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startWatcher(t *testing.T, path string, reload ReloadFunc) (cancel func(), done <-chan error) {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	w := NewCatalogWatcher(path, 20*time.Millisecond, reload, log)

	ctx, cancelFn := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	// give fsnotify time to register the directory
	time.Sleep(50 * time.Millisecond)
	return cancelFn, errCh
}

func TestCatalogWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("v1"), 0o644))

	var calls atomic.Int32
	var got atomic.Value
	cancel, done := startWatcher(t, path, func(_ context.Context, p string) error {
		got.Store(p)
		calls.Add(1)
		return nil
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(path, []byte("v2"), 0o644))
	}

	assert.Eventually(t, func() bool { return calls.Load() >= 1 }, 2*time.Second, 10*time.Millisecond)
	assert.Equal(t, path, got.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestCatalogWatcher_IgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.xlsx")

	var calls atomic.Int32
	cancel, done := startWatcher(t, path, func(context.Context, string) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	time.Sleep(150 * time.Millisecond)
	assert.Zero(t, calls.Load())

	cancel()
	assert.NoError(t, <-done)
}

func TestCatalogWatcher_MissingDirectory(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	w := NewCatalogWatcher(filepath.Join(t.TempDir(), "nope", "catalog.xlsx"), 0, nil, log)

	err := w.Run(context.Background())
	assert.Error(t, err)
	assert.Equal(t, DefaultDebounce, w.debounce)
}

func TestCatalogWatcher_Relevant(t *testing.T) {
	log, _ := logtest.NewNullLogger()
	w := NewCatalogWatcher("/data/catalog.xlsx", 0, nil, log)

	assert.True(t, w.relevant(fsnotify.Event{Name: "/data/catalog.xlsx", Op: fsnotify.Write}))
	assert.True(t, w.relevant(fsnotify.Event{Name: "/data/./catalog.xlsx", Op: fsnotify.Create}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/data/catalog.xlsx", Op: fsnotify.Chmod}))
	assert.False(t, w.relevant(fsnotify.Event{Name: "/data/other.xlsx", Op: fsnotify.Write}))
}
