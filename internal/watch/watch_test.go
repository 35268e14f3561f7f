package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_CallsOnChangeForWatchedFiles(t *testing.T) {
	dir := t.TempDir()
	w := &Watcher{Dir: dir, Names: []string{"orders.csv", "products.csv"}, Debounce: 50 * time.Millisecond}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	calls := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx, func(_ context.Context, changed []string) error {
			calls <- changed
			return errors.New("run failed")
		})
	}()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ignored.txt"), []byte("x"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "orders.csv"), []byte("order_id\n"), 0o600))

	select {
	case changed := <-calls:
		assert.Equal(t, []string{"orders.csv"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called")
	}

	// A failing callback does not stop the watcher.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "products.csv"), []byte("product_id\n"), 0o600))
	select {
	case changed := <-calls:
		assert.Equal(t, []string{"products.csv"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("onChange was not called after a failed run")
	}

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestWatcher_MissingDir(t *testing.T) {
	w := &Watcher{Dir: filepath.Join(t.TempDir(), "missing")}
	err := w.Run(context.Background(), func(context.Context, []string) error { return nil })
	assert.Error(t, err)
}
