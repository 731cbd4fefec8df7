package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatchReportsChangedFile(t *testing.T) {
	dir := t.TempDir()
	watched := filepath.Join(dir, "server.crt")
	other := filepath.Join(dir, "other.txt")
	require.NoError(t, os.WriteFile(watched, []byte("v1"), 0600))

	var mu sync.Mutex
	var changed []string
	w := New([]string{watched}, func(path string) {
		mu.Lock()
		defer mu.Unlock()
		changed = append(changed, path)
	}).WithDebounce(10 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Writes are repeated until the watcher has registered the directory
	require.Eventually(t, func() bool {
		_ = os.WriteFile(other, []byte("x"), 0600)
		_ = os.WriteFile(watched, []byte("v2"), 0600)
		mu.Lock()
		defer mu.Unlock()
		return len(changed) > 0
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	mu.Lock()
	defer mu.Unlock()
	abs, err := filepath.Abs(watched)
	require.NoError(t, err)
	for _, path := range changed {
		assert.Equal(t, abs, path)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing", "server.crt")}, func(string) {})
	assert.Error(t, w.Watch(context.Background()))
}
